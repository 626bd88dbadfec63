package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProjectCategory struct {
	Id   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"type:varchar(100);uniqueIndex;not null"`
}

func (ProjectCategory) TableName() string {
	return "project_categories"
}

// Project ids are UUIDv7 (generated application-side), so ordering by id
// agrees with ordering by created_at and the listing cursor stays stable.
type Project struct {
	Id                          uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Title                       string                      `gorm:"type:varchar(255);not null"`
	Description                 string                      `gorm:"type:text;not null"`
	Duration                    string                      `gorm:"type:varchar(100)"`
	Stipend                     *int                        `gorm:""`
	Deadline                    time.Time                   `gorm:"not null;index"`
	Department                  string                      `gorm:"type:varchar(100)"`
	Closed                      bool                        `gorm:"default:false;index"`
	CollegeId                   uuid.UUID                   `gorm:"type:uuid;not null;index"`
	College                     *College                    `gorm:"foreignKey:CollegeId"`
	ProfessorId                 uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Professor                   *ProfessorProfile           `gorm:"foreignKey:ProfessorId"`
	CategoryId                  *uuid.UUID                  `gorm:"type:uuid"`
	Category                    *ProjectCategory            `gorm:"foreignKey:CategoryId"`
	NumberOfStudentsNeeded      int                         `gorm:"not null;default:1"`
	PreferredStudentDepartments datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Certification               bool                        `gorm:"default:false"`
	LetterOfRecommendation      bool                        `gorm:"default:false"`
	CreatedAt                   time.Time                   `gorm:"autoCreateTime;index"`
	UpdatedAt                   time.Time                   `gorm:"autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}

// Application rows are unique per (project, student). The unique index is
// the authoritative duplicate guard; the service-layer pre-check only
// exists to produce a friendlier, status-specific message.
type Application struct {
	Id          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProjectId   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_applications_project_student,priority:1"`
	Project     *Project        `gorm:"foreignKey:ProjectId"`
	StudentId   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_applications_project_student,priority:2;index"`
	Student     *StudentProfile `gorm:"foreignKey:StudentId"`
	Status      string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	CoverLetter *string         `gorm:"type:text"`
	AppliedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (Application) TableName() string {
	return "applications"
}
