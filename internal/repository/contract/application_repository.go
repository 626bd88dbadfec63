package contract

import (
	"context"

	"research-link-be/internal/entity"
	"research-link-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	// Create surfaces a duplicate (project, student) pair as
	// apperror.Conflict by inspecting the unique-violation SQLSTATE.
	Create(ctx context.Context, application *entity.Application) error
	Update(ctx context.Context, application *entity.Application) error
	Delete(ctx context.Context, id uuid.UUID) error
	// FindOne preloads the project with its college.
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Application, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Application, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
