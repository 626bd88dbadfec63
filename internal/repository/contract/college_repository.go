package contract

import (
	"context"

	"research-link-be/internal/entity"
	"research-link-be/internal/repository/specification"
)

type CollegeRepository interface {
	Create(ctx context.Context, college *entity.College) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.College, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.College, error)
}
