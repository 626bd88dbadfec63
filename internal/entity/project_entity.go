package entity

import (
	"time"

	"github.com/google/uuid"
)

type ProjectCategory struct {
	Id   uuid.UUID
	Name string
}

type Project struct {
	Id                          uuid.UUID
	Title                       string
	Description                 string
	Duration                    string
	Stipend                     *int
	Deadline                    time.Time
	Department                  string
	Closed                      bool
	CollegeId                   uuid.UUID
	ProfessorId                 uuid.UUID
	CategoryId                  *uuid.UUID
	NumberOfStudentsNeeded      int
	PreferredStudentDepartments []string
	Certification               bool
	LetterOfRecommendation      bool
	CreatedAt                   time.Time
	UpdatedAt                   time.Time

	// Populated when loaded with relations.
	College  *College
	Category *ProjectCategory
}

// ApplicationCap is the soft ceiling on live (non-rejected) applications.
func (p *Project) ApplicationCap() int {
	return p.NumberOfStudentsNeeded * 10
}
