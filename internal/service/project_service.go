package service

import (
	"context"
	"time"

	"research-link-be/internal/dto"
	"research-link-be/internal/entity"
	"research-link-be/internal/pkg/apperror"
	"research-link-be/internal/repository/specification"
	"research-link-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const defaultListingLimit = 10

type IProjectService interface {
	ListOpenProjects(ctx context.Context, userId uuid.UUID, cursor *uuid.UUID, limit int) (*dto.ListOpenProjectsResponse, error)
	ListClosedProjects(ctx context.Context, userId uuid.UUID, limit int) (*dto.ListClosedProjectsResponse, error)

	CreateProject(ctx context.Context, professorUserId, collegeId uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, professorUserId, projectId uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	CloseProject(ctx context.Context, professorUserId, projectId uuid.UUID) error
	DeleteProject(ctx context.Context, professorUserId, projectId uuid.UUID) error
}

type projectService struct {
	uowFactory    unitofwork.RepositoryFactory
	accessService IAccessService
}

func NewProjectService(uowFactory unitofwork.RepositoryFactory, accessService IAccessService) IProjectService {
	return &projectService{
		uowFactory:    uowFactory,
		accessService: accessService,
	}
}

func (s *projectService) ListOpenProjects(ctx context.Context, userId uuid.UUID, cursor *uuid.UUID, limit int) (*dto.ListOpenProjectsResponse, error) {
	if limit <= 0 {
		limit = defaultListingLimit
	}

	access, err := s.accessService.ResolveAccessibleColleges(ctx, userId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.ByColleges{CollegeIDs: access.CollegeIds},
		specification.DeadlineNotBefore{Now: time.Now()},
		specification.ClosedIs{Closed: false},
		specification.OrderBy{Field: "created_at", Desc: true},
		// One extra row decides hasMore without a separate count query.
		specification.Limit{N: limit + 1},
	}
	if cursor != nil {
		specs = append(specs, specification.IDBefore{ID: *cursor})
	}

	projects, err := uow.ProjectRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	hasMore := len(projects) > limit
	if hasMore {
		projects = projects[:limit]
	}

	var nextCursor *uuid.UUID
	if hasMore && len(projects) > 0 {
		last := projects[len(projects)-1].Id
		nextCursor = &last
	}

	rows, err := s.shapeProjects(ctx, uow, projects)
	if err != nil {
		return nil, err
	}

	return &dto.ListOpenProjectsResponse{
		Projects:   rows,
		NextCursor: nextCursor,
		HasMore:    hasMore,
		UserInfo:   buildListingUserInfo(access),
	}, nil
}

func (s *projectService) ListClosedProjects(ctx context.Context, userId uuid.UUID, limit int) (*dto.ListClosedProjectsResponse, error) {
	if limit <= 0 {
		limit = defaultListingLimit
	}

	access, err := s.accessService.ResolveAccessibleColleges(ctx, userId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	filterSpecs := []specification.Specification{
		specification.ByColleges{CollegeIDs: access.CollegeIds},
		specification.DeadlineNotBefore{Now: time.Now()},
		specification.ClosedIs{Closed: true},
	}

	total, err := uow.ProjectRepository().Count(ctx, filterSpecs...)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	listSpecs := append(filterSpecs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: limit},
	)
	projects, err := uow.ProjectRepository().FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	rows, err := s.shapeProjects(ctx, uow, projects)
	if err != nil {
		return nil, err
	}

	return &dto.ListClosedProjectsResponse{
		Projects:      rows,
		TotalProjects: total,
		UserInfo:      buildListingUserInfo(access),
	}, nil
}

func buildListingUserInfo(access *entity.CollegeAccess) dto.ListingUserInfo {
	info := dto.ListingUserInfo{
		HasActivePaidSubscription: access.HasActivePaidSubscription,
		ActivePlans:               []dto.ActivePlanDTO{},
	}
	for _, p := range access.ActivePlans {
		info.ActivePlans = append(info.ActivePlans, dto.ActivePlanDTO{
			PlanName: p.PlanName,
			EndsAt:   p.EndsAt,
		})
	}
	return info
}

// shapeProjects denormalizes professor name/department into each row.
// Professors repeat across rows of the same college, so lookups are memoized.
func (s *projectService) shapeProjects(ctx context.Context, uow unitofwork.UnitOfWork, projects []*entity.Project) ([]*dto.ProjectResponse, error) {
	type professorInfo struct {
		name       string
		department string
	}
	professors := make(map[uuid.UUID]professorInfo)

	rows := make([]*dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		info, ok := professors[p.ProfessorId]
		if !ok {
			profUser, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: p.ProfessorId})
			if err != nil {
				return nil, apperror.Internal(err)
			}
			if profUser != nil {
				info.name = profUser.FullName
			}
			profile, err := uow.ProfileRepository().FindProfessor(ctx, specification.UserOwnedBy{UserID: p.ProfessorId})
			if err != nil {
				return nil, apperror.Internal(err)
			}
			if profile != nil {
				info.department = profile.Department
			}
			professors[p.ProfessorId] = info
		}
		rows = append(rows, shapeProject(p, info.name, info.department))
	}
	return rows, nil
}

func shapeProject(p *entity.Project, professorName, professorDepartment string) *dto.ProjectResponse {
	row := &dto.ProjectResponse{
		Id:                          p.Id,
		Title:                       p.Title,
		Description:                 p.Description,
		Duration:                    p.Duration,
		Stipend:                     p.Stipend,
		Deadline:                    p.Deadline,
		Department:                  p.Department,
		Closed:                      p.Closed,
		CollegeId:                   p.CollegeId,
		ProfessorName:               professorName,
		ProfessorDepartment:         professorDepartment,
		NumberOfStudentsNeeded:      p.NumberOfStudentsNeeded,
		PreferredStudentDepartments: p.PreferredStudentDepartments,
		Certification:               p.Certification,
		LetterOfRecommendation:      p.LetterOfRecommendation,
		CreatedAt:                   p.CreatedAt,
	}
	if row.PreferredStudentDepartments == nil {
		row.PreferredStudentDepartments = []string{}
	}
	if p.College != nil {
		row.CollegeName = p.College.Name
	}
	if p.Category != nil {
		name := p.Category.Name
		row.CategoryName = &name
	}
	return row
}

func (s *projectService) CreateProject(ctx context.Context, professorUserId, collegeId uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperror.Internal(err)
	}

	project := &entity.Project{
		Id:                          id,
		Title:                       req.Title,
		Description:                 req.Description,
		Duration:                    req.Duration,
		Stipend:                     req.Stipend,
		Deadline:                    req.Deadline,
		Department:                  req.Department,
		Closed:                      false,
		CollegeId:                   collegeId,
		ProfessorId:                 professorUserId,
		CategoryId:                  req.CategoryId,
		NumberOfStudentsNeeded:      req.NumberOfStudentsNeeded,
		PreferredStudentDepartments: req.PreferredStudentDepartments,
		Certification:               req.Certification,
		LetterOfRecommendation:      req.LetterOfRecommendation,
		CreatedAt:                   time.Now(),
		UpdatedAt:                   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ProjectRepository().Create(ctx, project); err != nil {
		return nil, apperror.Internal(err)
	}

	return shapeProject(project, "", ""), nil
}

func (s *projectService) UpdateProject(ctx context.Context, professorUserId, projectId uuid.UUID, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Edits race student enrollments; the enrollment path re-reads inside
	// its own transaction, so this update only needs its own atomicity.
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	project, err := s.findOwnedProject(ctx, uow, professorUserId, projectId)
	if err != nil {
		return nil, err
	}

	project.Title = req.Title
	project.Description = req.Description
	project.Duration = req.Duration
	project.Stipend = req.Stipend
	project.Deadline = req.Deadline
	project.Department = req.Department
	project.CategoryId = req.CategoryId
	project.NumberOfStudentsNeeded = req.NumberOfStudentsNeeded
	project.PreferredStudentDepartments = req.PreferredStudentDepartments
	project.Certification = req.Certification
	project.LetterOfRecommendation = req.LetterOfRecommendation
	project.UpdatedAt = time.Now()

	if err := uow.ProjectRepository().Update(ctx, project); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	return shapeProject(project, "", ""), nil
}

func (s *projectService) CloseProject(ctx context.Context, professorUserId, projectId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperror.Internal(err)
	}
	defer uow.Rollback()

	project, err := s.findOwnedProject(ctx, uow, professorUserId, projectId)
	if err != nil {
		return err
	}

	if project.Closed {
		return nil
	}
	project.Closed = true
	project.UpdatedAt = time.Now()

	if err := uow.ProjectRepository().Update(ctx, project); err != nil {
		return apperror.Internal(err)
	}
	return uow.Commit()
}

func (s *projectService) DeleteProject(ctx context.Context, professorUserId, projectId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperror.Internal(err)
	}
	defer uow.Rollback()

	if _, err := s.findOwnedProject(ctx, uow, professorUserId, projectId); err != nil {
		return err
	}

	if err := uow.ProjectRepository().Delete(ctx, projectId); err != nil {
		return apperror.Internal(err)
	}
	return uow.Commit()
}

func (s *projectService) findOwnedProject(ctx context.Context, uow unitofwork.UnitOfWork, professorUserId, projectId uuid.UUID) (*entity.Project, error) {
	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: projectId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if project == nil {
		return nil, apperror.NotFound("NOT_FOUND", "Project not found")
	}
	if project.ProfessorId != professorUserId {
		return nil, apperror.AccessDenied("You do not own this project")
	}
	return project, nil
}
