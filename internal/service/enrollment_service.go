package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"research-link-be/internal/dto"
	"research-link-be/internal/entity"
	"research-link-be/internal/pkg/apperror"
	"research-link-be/internal/repository/specification"
	"research-link-be/internal/repository/unitofwork"
	"research-link-be/pkg/events"
	pktNats "research-link-be/pkg/nats"

	"github.com/google/uuid"
)

// deadlineGrace absorbs clock and timezone skew between the client and the
// server. Enrollment at deadline+59s is accepted, deadline+61s is not.
const deadlineGrace = 60 * time.Second

const maxCoverLetterLen = 2000
const maxWithdrawReasonLen = 500

type IEnrollmentService interface {
	Enroll(ctx context.Context, userId, studentId uuid.UUID, req *dto.EnrollRequest) (*dto.EnrollResponse, error)
	Withdraw(ctx context.Context, userId, studentId uuid.UUID, req *dto.WithdrawRequest) (*dto.WithdrawResponse, error)
}

type enrollmentService struct {
	uowFactory       unitofwork.RepositoryFactory
	accessService    IAccessService
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewEnrollmentService(
	uowFactory unitofwork.RepositoryFactory,
	accessService IAccessService,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IEnrollmentService {
	return &enrollmentService{
		uowFactory:       uowFactory,
		accessService:    accessService,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, userId, studentId uuid.UUID, req *dto.EnrollRequest) (*dto.EnrollResponse, error) {
	// 1. Input shape.
	if strings.TrimSpace(req.ProjectId) == "" {
		return nil, apperror.InvalidRequest("MISSING_PROJECT_ID", "project_id is required")
	}
	projectId, err := uuid.Parse(req.ProjectId)
	if err != nil {
		return nil, apperror.InvalidRequest("INVALID_PROJECT_ID", "project_id is not a valid id")
	}
	var coverLetter *string
	if req.CoverLetter != nil {
		trimmed := strings.TrimSpace(*req.CoverLetter)
		if utf8.RuneCountInString(trimmed) > maxCoverLetterLen {
			return nil, apperror.InvalidRequest("INVALID_COVER_LETTER", fmt.Sprintf("cover letter must be at most %d characters", maxCoverLetterLen))
		}
		if trimmed != "" {
			coverLetter = &trimmed
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 2. Student profile must exist.
	profile, err := uow.ProfileRepository().FindStudent(ctx, specification.ByID{ID: studentId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if profile == nil {
		return nil, apperror.NotFound("NOT_FOUND", "Student profile not found")
	}

	// 3. Project must exist.
	project, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: projectId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if project == nil {
		return nil, apperror.NotFound("NOT_FOUND", "Project not found")
	}

	now := time.Now()

	// 4. Closed projects take no applications.
	if project.Closed {
		return nil, apperror.BusinessRule("This project is closed and no longer accepting applications")
	}

	// 5. Deadline, with grace.
	if now.After(project.Deadline.Add(deadlineGrace)) {
		return nil, apperror.BusinessRule("The application deadline for this project has passed")
	}

	// 6. Duplicate application, with a status-specific message. This check
	// exists for the friendlier error; the unique index is the real guard.
	existing, err := uow.ApplicationRepository().FindOne(ctx,
		specification.ByProject{ProjectID: projectId},
		specification.ByStudent{StudentID: studentId},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.BusinessRule(duplicateMessage(existing.Status))
	}

	// 7. Application cap.
	liveCount, err := uow.ApplicationRepository().Count(ctx,
		specification.ByProject{ProjectID: projectId},
		specification.StatusIn{Statuses: []string{
			string(entity.ApplicationStatusPending),
			string(entity.ApplicationStatusShortlisted),
			string(entity.ApplicationStatusAccepted),
		}},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if liveCount >= int64(project.ApplicationCap()) {
		return nil, apperror.BusinessRule("This project has reached its maximum number of applications")
	}

	// 8. College access.
	access, err := s.accessService.ResolveAccessibleColleges(ctx, userId)
	if err != nil {
		return nil, err
	}
	if !access.Grants(project.CollegeId) {
		collegeName := ""
		if project.College != nil {
			collegeName = project.College.Name
		}
		return nil, apperror.AccessDenied(
			fmt.Sprintf("You do not have access to projects from %s. An active subscription covering this college is required.", collegeName),
		).WithDetails(map[string]interface{}{
			"college_name": collegeName,
		})
	}

	// 9. Non-fatal warnings.
	var warnings []string
	if len(project.PreferredStudentDepartments) > 0 && !containsFold(project.PreferredStudentDepartments, profile.Branch) {
		warnings = append(warnings, "Your branch is not among the preferred departments for this project")
	}
	if project.Deadline.Sub(now) < 24*time.Hour {
		warnings = append(warnings, "The application deadline is within 24 hours")
	}

	applicationId, err := uuid.NewV7()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	application := &entity.Application{
		Id:          applicationId,
		ProjectId:   projectId,
		StudentId:   studentId,
		Status:      entity.ApplicationStatusPending,
		CoverLetter: coverLetter,
		AppliedAt:   now,
		UpdatedAt:   now,
	}

	// Commit inside a transaction that re-reads the project, so a
	// concurrent close or deadline edit cannot slip past the checks above.
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	fresh, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: projectId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if fresh == nil {
		return nil, apperror.NotFound("NOT_FOUND", "Project not found")
	}
	if fresh.Closed {
		return nil, apperror.BusinessRule("This project is closed and no longer accepting applications")
	}
	if time.Now().After(fresh.Deadline.Add(deadlineGrace)) {
		return nil, apperror.BusinessRule("The application deadline for this project has passed")
	}

	if err := uow.ApplicationRepository().Create(ctx, application); err != nil {
		// Two racing enrolls both pass check 6; the unique index catches
		// the loser and it gets the same message a sequential caller would.
		if appErr, ok := apperror.As(err); ok && appErr.Kind == apperror.KindConflict {
			return nil, apperror.BusinessRule(duplicateMessage(entity.ApplicationStatusPending))
		}
		return nil, apperror.Internal(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	s.notifyApplicationSubmitted(ctx, project, application, userId)

	response := &dto.EnrollResponse{
		Application: dto.ApplicationDTO{
			Id:           application.Id,
			ProjectId:    application.ProjectId,
			ProjectTitle: project.Title,
			StudentId:    application.StudentId,
			Status:       string(application.Status),
			CoverLetter:  application.CoverLetter,
			AppliedAt:    application.AppliedAt,
		},
		Warnings:     warnings,
		AccessReason: string(access.ReasonFor(project.CollegeId)),
	}
	if access.ReasonFor(project.CollegeId) == entity.AccessReasonPaidSubscription {
		response.PlanName = access.PlanByCollege[project.CollegeId]
	}
	return response, nil
}

func duplicateMessage(status entity.ApplicationStatus) string {
	switch status {
	case entity.ApplicationStatusPending:
		return "You have already applied to this project. Your application is under review."
	case entity.ApplicationStatusShortlisted:
		return "You have already applied to this project. Congratulations, you have been shortlisted!"
	case entity.ApplicationStatusAccepted:
		return "You have already applied to this project. Congratulations, you have been accepted!"
	case entity.ApplicationStatusRejected:
		return "You have already applied to this project. Your previous application was not successful."
	default:
		return "You have already applied to this project"
	}
}

func containsFold(list []string, target string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(target)) {
			return true
		}
	}
	return false
}

func (s *enrollmentService) Withdraw(ctx context.Context, userId, studentId uuid.UUID, req *dto.WithdrawRequest) (*dto.WithdrawResponse, error) {
	// 1. Exactly one identifier.
	if req.ProjectId == nil && req.ApplicationId == nil {
		return nil, apperror.InvalidRequest("MISSING_IDENTIFIER", "Either project_id or application_id is required")
	}
	if req.ProjectId != nil && req.ApplicationId != nil {
		return nil, apperror.InvalidRequest("MISSING_IDENTIFIER", "Provide either project_id or application_id, not both")
	}

	// 2. Reason length.
	reason := ""
	if req.Reason != nil {
		reason = strings.TrimSpace(*req.Reason)
		if utf8.RuneCountInString(reason) > maxWithdrawReasonLen {
			return nil, apperror.InvalidRequest("INVALID_REASON", fmt.Sprintf("reason must be at most %d characters", maxWithdrawReasonLen))
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 3. Resolve the application.
	var application *entity.Application
	var err error
	if req.ApplicationId != nil {
		applicationId, parseErr := uuid.Parse(*req.ApplicationId)
		if parseErr != nil {
			return nil, apperror.InvalidRequest("INVALID_APPLICATION_ID", "application_id is not a valid id")
		}
		application, err = uow.ApplicationRepository().FindOne(ctx, specification.ByID{ID: applicationId})
	} else {
		projectId, parseErr := uuid.Parse(*req.ProjectId)
		if parseErr != nil {
			return nil, apperror.InvalidRequest("INVALID_PROJECT_ID", "project_id is not a valid id")
		}
		application, err = uow.ApplicationRepository().FindOne(ctx,
			specification.ByProject{ProjectID: projectId},
			specification.ByStudent{StudentID: studentId},
		)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if application == nil {
		return nil, apperror.NotFound("APPLICATION_NOT_FOUND", "You are not enrolled in this project")
	}

	// 4. Ownership.
	if application.StudentId != studentId {
		return nil, apperror.AccessDenied("This application does not belong to you")
	}

	now := time.Now()
	deadlinePassed := application.Project != nil && now.After(application.Project.Deadline)

	// 5. Accepted is terminal.
	if application.Status == entity.ApplicationStatusAccepted {
		return nil, apperror.WithdrawalNotAllowed("Accepted applications cannot be withdrawn")
	}

	// 6. Late-stage shortlisted withdrawal is blocked.
	if application.Status == entity.ApplicationStatusShortlisted && deadlinePassed {
		return nil, apperror.WithdrawalNotAllowed("Shortlisted applications cannot be withdrawn after the project deadline")
	}

	// 7. Warnings.
	var warnings []string
	if application.Project != nil && application.Project.Deadline.Sub(now) < 24*time.Hour && !deadlinePassed {
		warnings = append(warnings, "The project deadline is within 24 hours")
	}
	if application.Status == entity.ApplicationStatusShortlisted {
		warnings = append(warnings, "You have been shortlisted for this project; withdrawing forfeits your spot")
	}

	// 8. Confirmation gate: soft stop until the client re-submits with
	// confirm_withdrawal=true.
	if (len(warnings) > 0 || application.Status == entity.ApplicationStatusShortlisted) && !req.ConfirmWithdrawal {
		return nil, apperror.ConfirmationRequired("Withdrawal requires confirmation").WithDetails(map[string]interface{}{
			"warnings": warnings,
		})
	}

	// 9. Transactional re-read, snapshot, delete.
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	fresh, err := uow.ApplicationRepository().FindOne(ctx, specification.ByID{ID: application.Id})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if fresh == nil {
		return nil, apperror.NotFound("APPLICATION_NOT_FOUND", "You are not enrolled in this project")
	}
	if fresh.StudentId != studentId {
		return nil, apperror.AccessDenied("This application does not belong to you")
	}

	record := entity.WithdrawalRecord{
		ApplicationId:  fresh.Id,
		ProjectId:      fresh.ProjectId,
		PreviousStatus: fresh.Status,
		Reason:         reason,
		WithdrawnAt:    time.Now(),
	}
	if fresh.Project != nil {
		record.ProjectTitle = fresh.Project.Title
		if fresh.Project.College != nil {
			record.CollegeName = fresh.Project.College.Name
		}
	}

	if err := uow.ApplicationRepository().Delete(ctx, fresh.Id); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	s.notifyApplicationWithdrawn(ctx, fresh, &record, userId)

	return &dto.WithdrawResponse{
		Withdrawal: dto.WithdrawalDTO{
			ApplicationId:  record.ApplicationId,
			ProjectId:      record.ProjectId,
			ProjectTitle:   record.ProjectTitle,
			CollegeName:    record.CollegeName,
			PreviousStatus: string(record.PreviousStatus),
			Reason:         record.Reason,
			WithdrawnAt:    record.WithdrawnAt,
		},
		Warnings: warnings,
	}, nil
}

// notifyApplicationSubmitted runs after the commit: delivery is best effort
// and never affects the student-facing response.
func (s *enrollmentService) notifyApplicationSubmitted(ctx context.Context, project *entity.Project, application *entity.Application, actorUserId uuid.UUID) {
	if s.publisherService != nil {
		entityId := application.Id
		msg := dto.OutboundNotificationMessage{
			RecipientUserId: project.ProfessorId,
			TypeCode:        events.TypeApplicationSubmitted,
			Title:           "New Application",
			Message:         fmt.Sprintf("A student applied to your project \"%s\"", project.Title),
			EntityType:      "application",
			EntityId:        &entityId,
			Metadata: map[string]interface{}{
				"project_id":    project.Id.String(),
				"project_title": project.Title,
				"actor_id":      actorUserId.String(),
			},
		}
		if payload, err := json.Marshal(msg); err == nil {
			if err := s.publisherService.Publish(ctx, payload); err != nil {
				fmt.Printf("[WARN] Failed to enqueue application notification: %v\n", err)
			}
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewApplicationSubmitted(map[string]interface{}{
			"application_id": application.Id.String(),
			"project_id":     project.Id.String(),
			"student_id":     application.StudentId.String(),
			"user_id":        project.ProfessorId.String(),
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish APPLICATION_SUBMITTED event: %v\n", err)
		}
	}
}

func (s *enrollmentService) notifyApplicationWithdrawn(ctx context.Context, application *entity.Application, record *entity.WithdrawalRecord, actorUserId uuid.UUID) {
	var professorUserId uuid.UUID
	if application.Project != nil {
		professorUserId = application.Project.ProfessorId
	}

	if s.publisherService != nil && professorUserId != uuid.Nil {
		entityId := application.ProjectId
		msg := dto.OutboundNotificationMessage{
			RecipientUserId: professorUserId,
			TypeCode:        events.TypeApplicationWithdrawn,
			Title:           "Application Withdrawn",
			Message:         fmt.Sprintf("A student withdrew their application from \"%s\"", record.ProjectTitle),
			EntityType:      "project",
			EntityId:        &entityId,
			Metadata: map[string]interface{}{
				"previous_status": string(record.PreviousStatus),
				"reason":          record.Reason,
				"actor_id":        actorUserId.String(),
			},
		}
		if payload, err := json.Marshal(msg); err == nil {
			if err := s.publisherService.Publish(ctx, payload); err != nil {
				fmt.Printf("[WARN] Failed to enqueue withdrawal notification: %v\n", err)
			}
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewApplicationWithdrawn(map[string]interface{}{
			"application_id": record.ApplicationId.String(),
			"project_id":     record.ProjectId.String(),
			"user_id":        professorUserId.String(),
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish APPLICATION_WITHDRAWN event: %v\n", err)
		}
	}
}
