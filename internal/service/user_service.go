package service

import (
	"context"
	"strings"
	"time"

	"research-link-be/internal/dto"
	"research-link-be/internal/entity"
	"research-link-be/internal/pkg/apperror"
	"research-link-be/internal/repository/specification"
	"research-link-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	Me(ctx context.Context, userId uuid.UUID) (*dto.MeResponse, error)
	UpsertStudentProfile(ctx context.Context, userId uuid.UUID, req *dto.StudentProfileRequest) (*dto.StudentProfileResponse, error)
	UpsertProfessorProfile(ctx context.Context, userId uuid.UUID, req *dto.ProfessorProfileRequest) (*dto.ProfessorProfileResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) Me(ctx context.Context, userId uuid.UUID) (*dto.MeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound("NOT_FOUND", "User not found")
	}

	res := &dto.MeResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CollegeId: user.CollegeId,
		CreatedAt: user.CreatedAt,
	}
	if user.AvatarURL != nil {
		res.AvatarURL = *user.AvatarURL
	}

	college, err := uow.CollegeRepository().FindOne(ctx, specification.ByID{ID: user.CollegeId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if college != nil {
		res.CollegeName = college.Name
	}

	switch user.Role {
	case entity.UserRoleStudent:
		profile, err := uow.ProfileRepository().FindStudent(ctx, specification.UserOwnedBy{UserID: userId})
		if err != nil {
			return nil, apperror.Internal(err)
		}
		res.ProfileComplete = profile != nil && profile.Branch != "" && profile.Year > 0
	case entity.UserRoleProfessor:
		profile, err := uow.ProfileRepository().FindProfessor(ctx, specification.UserOwnedBy{UserID: userId})
		if err != nil {
			return nil, apperror.Internal(err)
		}
		res.ProfileComplete = profile != nil && profile.Department != ""
	default:
		res.ProfileComplete = true
	}

	return res, nil
}

func (s *userService) UpsertStudentProfile(ctx context.Context, userId uuid.UUID, req *dto.StudentProfileRequest) (*dto.StudentProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound("NOT_FOUND", "User not found")
	}
	if user.Role != entity.UserRoleStudent {
		return nil, apperror.AccessDenied("Only students have a student profile")
	}

	skillNames := normalizeSkillNames(req.Skills)

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	skills, err := uow.ProfileRepository().UpsertSkills(ctx, skillNames)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	profile, err := uow.ProfileRepository().FindStudent(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if profile == nil {
		profile = &entity.StudentProfile{
			Id:        uuid.New(),
			UserId:    userId,
			Branch:    req.Branch,
			Year:      req.Year,
			Bio:       req.Bio,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := uow.ProfileRepository().CreateStudent(ctx, profile); err != nil {
			return nil, apperror.Internal(err)
		}
	} else {
		profile.Branch = req.Branch
		profile.Year = req.Year
		profile.Bio = req.Bio
		profile.UpdatedAt = time.Now()
		if err := uow.ProfileRepository().UpdateStudent(ctx, profile); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	if err := uow.ProfileRepository().ReplaceStudentSkills(ctx, profile.Id, skills); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	names := make([]string, 0, len(skills))
	for _, sk := range skills {
		names = append(names, sk.Name)
	}

	return &dto.StudentProfileResponse{
		Id:     profile.Id,
		Branch: profile.Branch,
		Year:   profile.Year,
		Bio:    profile.Bio,
		Skills: names,
	}, nil
}

func (s *userService) UpsertProfessorProfile(ctx context.Context, userId uuid.UUID, req *dto.ProfessorProfileRequest) (*dto.ProfessorProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound("NOT_FOUND", "User not found")
	}
	if user.Role != entity.UserRoleProfessor {
		return nil, apperror.AccessDenied("Only professors have a professor profile")
	}

	profile, err := uow.ProfileRepository().FindProfessor(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if profile == nil {
		profile = &entity.ProfessorProfile{
			Id:          uuid.New(),
			UserId:      userId,
			Department:  req.Department,
			Designation: req.Designation,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := uow.ProfileRepository().CreateProfessor(ctx, profile); err != nil {
			return nil, apperror.Internal(err)
		}
	} else {
		profile.Department = req.Department
		profile.Designation = req.Designation
		profile.UpdatedAt = time.Now()
		if err := uow.ProfileRepository().UpdateProfessor(ctx, profile); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	return &dto.ProfessorProfileResponse{
		Id:          profile.Id,
		Department:  profile.Department,
		Designation: profile.Designation,
	}, nil
}

func normalizeSkillNames(raw []string) []string {
	seen := make(map[string]bool)
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, trimmed)
	}
	return names
}
