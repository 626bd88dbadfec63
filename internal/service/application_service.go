package service

import (
	"context"
	"encoding/json"
	"fmt"

	"research-link-be/internal/dto"
	"research-link-be/internal/entity"
	"research-link-be/internal/pkg/apperror"
	"research-link-be/internal/repository/specification"
	"research-link-be/internal/repository/unitofwork"
	"research-link-be/pkg/events"
	pktNats "research-link-be/pkg/nats"

	"github.com/google/uuid"
)

type IApplicationService interface {
	ListApplicants(ctx context.Context, professorUserId, projectId uuid.UUID) ([]*dto.ApplicantResponse, error)
	UpdateStatus(ctx context.Context, professorUserId, applicationId uuid.UUID, req *dto.UpdateApplicationStatusRequest) (*dto.ApplicationDTO, error)
}

type applicationService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewApplicationService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IApplicationService {
	return &applicationService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

func (s *applicationService) ListApplicants(ctx context.Context, professorUserId, projectId uuid.UUID) ([]*dto.ApplicantResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

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

	applications, err := uow.ApplicationRepository().FindAll(ctx,
		specification.ByProject{ProjectID: projectId},
		specification.OrderBy{Field: "applied_at", Desc: false},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	applicants := make([]*dto.ApplicantResponse, 0, len(applications))
	for _, application := range applications {
		row := &dto.ApplicantResponse{
			ApplicationId: application.Id,
			StudentId:     application.StudentId,
			Status:        string(application.Status),
			CoverLetter:   application.CoverLetter,
			AppliedAt:     application.AppliedAt,
			Skills:        []string{},
		}

		profile, err := uow.ProfileRepository().FindStudent(ctx, specification.ByID{ID: application.StudentId})
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if profile != nil {
			row.Branch = profile.Branch
			row.Year = profile.Year
			for _, skill := range profile.Skills {
				row.Skills = append(row.Skills, skill.Name)
			}
			studentUser, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: profile.UserId})
			if err != nil {
				return nil, apperror.Internal(err)
			}
			if studentUser != nil {
				row.StudentName = studentUser.FullName
			}
		}

		applicants = append(applicants, row)
	}
	return applicants, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, professorUserId, applicationId uuid.UUID, req *dto.UpdateApplicationStatusRequest) (*dto.ApplicationDTO, error) {
	newStatus := entity.ApplicationStatus(req.Status)
	switch newStatus {
	case entity.ApplicationStatusShortlisted, entity.ApplicationStatusAccepted, entity.ApplicationStatusRejected:
	default:
		return nil, apperror.InvalidRequest("INVALID_STATUS", "status must be shortlisted, accepted or rejected")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// The whole transition runs inside one transaction. A withdrawal that
	// lands first deletes the row, and the re-read below reports NotFound
	// instead of resurrecting the application.
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	application, err := uow.ApplicationRepository().FindOne(ctx, specification.ByID{ID: applicationId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if application == nil {
		return nil, apperror.NotFound("APPLICATION_NOT_FOUND", "Application not found")
	}
	if application.Project == nil || application.Project.ProfessorId != professorUserId {
		return nil, apperror.AccessDenied("You do not own the project this application belongs to")
	}

	if !application.Status.CanTransitionTo(newStatus) {
		return nil, apperror.BusinessRule(
			fmt.Sprintf("Cannot change application status from %s to %s", application.Status, newStatus),
		)
	}

	previous := application.Status
	application.Status = newStatus

	if err := uow.ApplicationRepository().Update(ctx, application); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	s.notifyStatusChanged(ctx, application, previous)

	return &dto.ApplicationDTO{
		Id:          application.Id,
		ProjectId:   application.ProjectId,
		StudentId:   application.StudentId,
		Status:      string(application.Status),
		CoverLetter: application.CoverLetter,
		AppliedAt:   application.AppliedAt,
	}, nil
}

func (s *applicationService) notifyStatusChanged(ctx context.Context, application *entity.Application, previous entity.ApplicationStatus) {
	projectTitle := ""
	if application.Project != nil {
		projectTitle = application.Project.Title
	}

	// Resolve the student's user id for delivery.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.ProfileRepository().FindStudent(ctx, specification.ByID{ID: application.StudentId})
	if err != nil || profile == nil {
		fmt.Printf("[WARN] Could not resolve student %s for status notification\n", application.StudentId)
		return
	}

	if s.publisherService != nil {
		entityId := application.Id
		msg := dto.OutboundNotificationMessage{
			RecipientUserId: profile.UserId,
			TypeCode:        events.TypeApplicationStatusChanged,
			Title:           "Application Update",
			Message:         fmt.Sprintf("Your application to \"%s\" is now %s", projectTitle, application.Status),
			EntityType:      "application",
			EntityId:        &entityId,
			Metadata: map[string]interface{}{
				"previous_status": string(previous),
				"new_status":      string(application.Status),
			},
		}
		if payload, err := json.Marshal(msg); err == nil {
			if err := s.publisherService.Publish(ctx, payload); err != nil {
				fmt.Printf("[WARN] Failed to enqueue status notification: %v\n", err)
			}
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewApplicationStatusChanged(map[string]interface{}{
			"application_id":  application.Id.String(),
			"project_id":      application.ProjectId.String(),
			"user_id":         profile.UserId.String(),
			"previous_status": string(previous),
			"new_status":      string(application.Status),
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish APPLICATION_STATUS_CHANGED event: %v\n", err)
		}
	}
}
