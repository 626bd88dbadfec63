package contract

import (
	"context"

	"research-link-be/internal/entity"
	"research-link-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	// Students
	CreateStudent(ctx context.Context, profile *entity.StudentProfile) error
	UpdateStudent(ctx context.Context, profile *entity.StudentProfile) error
	FindStudent(ctx context.Context, specs ...specification.Specification) (*entity.StudentProfile, error)
	ReplaceStudentSkills(ctx context.Context, studentId uuid.UUID, skills []entity.Skill) error

	// Professors
	CreateProfessor(ctx context.Context, profile *entity.ProfessorProfile) error
	UpdateProfessor(ctx context.Context, profile *entity.ProfessorProfile) error
	FindProfessor(ctx context.Context, specs ...specification.Specification) (*entity.ProfessorProfile, error)

	// Skills are shared reference data, upserted by name.
	UpsertSkills(ctx context.Context, names []string) ([]entity.Skill, error)
}
