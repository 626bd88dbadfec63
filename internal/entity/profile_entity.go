package entity

import (
	"time"

	"github.com/google/uuid"
)

type Skill struct {
	Id   uuid.UUID
	Name string
}

// StudentProfile is read for eligibility warnings (branch mismatch) and
// carried into application listings; it never blocks an enrollment.
type StudentProfile struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Branch    string
	Year      int
	Bio       string
	Skills    []Skill
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProfessorProfile struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Department  string
	Designation string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
