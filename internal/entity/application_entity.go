package entity

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// CanTransitionTo encodes the professor-side review workflow. Accepted and
// rejected are terminal.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch s {
	case ApplicationStatusPending:
		return next == ApplicationStatusShortlisted || next == ApplicationStatusAccepted || next == ApplicationStatusRejected
	case ApplicationStatusShortlisted:
		return next == ApplicationStatusAccepted || next == ApplicationStatusRejected
	default:
		return false
	}
}

type Application struct {
	Id          uuid.UUID
	ProjectId   uuid.UUID
	StudentId   uuid.UUID
	Status      ApplicationStatus
	CoverLetter *string
	AppliedAt   time.Time
	UpdatedAt   time.Time

	// Populated when loaded with its project.
	Project *Project
}

// WithdrawalRecord snapshots an application as it is deleted, for the
// response body and the professor notification.
type WithdrawalRecord struct {
	ApplicationId  uuid.UUID
	ProjectId      uuid.UUID
	ProjectTitle   string
	CollegeName    string
	PreviousStatus ApplicationStatus
	Reason         string
	WithdrawnAt    time.Time
}
