package dto

import (
	"time"

	"github.com/google/uuid"
)

type EnrollRequest struct {
	ProjectId   string  `json:"project_id"`
	CoverLetter *string `json:"cover_letter"`
}

type ApplicationDTO struct {
	Id           uuid.UUID `json:"id"`
	ProjectId    uuid.UUID `json:"project_id"`
	ProjectTitle string    `json:"project_title,omitempty"`
	StudentId    uuid.UUID `json:"student_id"`
	Status       string    `json:"status"`
	CoverLetter  *string   `json:"cover_letter"`
	AppliedAt    time.Time `json:"applied_at"`
}

type EnrollResponse struct {
	Application  ApplicationDTO `json:"application"`
	Warnings     []string       `json:"warnings,omitempty"`
	AccessReason string         `json:"access_reason"`
	PlanName     string         `json:"plan_name,omitempty"`
}

type WithdrawRequest struct {
	ProjectId         *string `json:"project_id"`
	ApplicationId     *string `json:"application_id"`
	Reason            *string `json:"reason"`
	ConfirmWithdrawal bool    `json:"confirm_withdrawal"`
}

type WithdrawalDTO struct {
	ApplicationId  uuid.UUID `json:"application_id"`
	ProjectId      uuid.UUID `json:"project_id"`
	ProjectTitle   string    `json:"project_title"`
	CollegeName    string    `json:"college_name"`
	PreviousStatus string    `json:"previous_status"`
	Reason         string    `json:"reason,omitempty"`
	WithdrawnAt    time.Time `json:"withdrawn_at"`
}

type WithdrawResponse struct {
	Withdrawal WithdrawalDTO `json:"withdrawal"`
	Warnings   []string      `json:"warnings,omitempty"`
}

// Professor review side.

type ApplicantResponse struct {
	ApplicationId uuid.UUID `json:"application_id"`
	StudentId     uuid.UUID `json:"student_id"`
	StudentName   string    `json:"student_name"`
	Branch        string    `json:"branch"`
	Year          int       `json:"year"`
	Skills        []string  `json:"skills"`
	Status        string    `json:"status"`
	CoverLetter   *string   `json:"cover_letter"`
	AppliedAt     time.Time `json:"applied_at"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=shortlisted accepted rejected"`
}
