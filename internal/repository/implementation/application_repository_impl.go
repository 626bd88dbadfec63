package implementation

import (
	"context"
	"errors"

	"research-link-be/internal/entity"
	"research-link-be/internal/mapper"
	"research-link-be/internal/model"
	"research-link-be/internal/pkg/apperror"
	"research-link-be/internal/repository/contract"
	"research-link-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type ApplicationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProjectMapper
}

func NewApplicationRepository(db *gorm.DB) contract.ApplicationRepository {
	return &ApplicationRepositoryImpl{
		db:     db,
		mapper: mapper.NewProjectMapper(),
	}
}

func (r *ApplicationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ApplicationRepositoryImpl) Create(ctx context.Context, application *entity.Application) error {
	m := r.mapper.ApplicationToModel(application)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.Conflict("BUSINESS_RULE_VIOLATION", "You have already applied to this project")
		}
		return err
	}
	*application = *r.mapper.ApplicationToEntity(m)
	return nil
}

func (r *ApplicationRepositoryImpl) Update(ctx context.Context, application *entity.Application) error {
	m := r.mapper.ApplicationToModel(application)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*application = *r.mapper.ApplicationToEntity(m)
	return nil
}

func (r *ApplicationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Application{}, "id = ?", id).Error
}

func (r *ApplicationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Application, error) {
	var m model.Application
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	query = query.Preload("Project").Preload("Project.College")
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ApplicationToEntity(&m), nil
}

func (r *ApplicationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Application, error) {
	var models []*model.Application
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	query = query.Preload("Project").Preload("Project.College")
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Application, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ApplicationToEntity(m)
	}
	return entities, nil
}

func (r *ApplicationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Model(&model.Application{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
