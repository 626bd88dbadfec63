package implementation

import (
	"context"
	"errors"

	"research-link-be/internal/entity"
	"research-link-be/internal/mapper"
	"research-link-be/internal/model"
	"research-link-be/internal/repository/contract"
	"research-link-be/internal/repository/specification"

	"gorm.io/gorm"
)

type CollegeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CollegeMapper
}

func NewCollegeRepository(db *gorm.DB) contract.CollegeRepository {
	return &CollegeRepositoryImpl{
		db:     db,
		mapper: mapper.NewCollegeMapper(),
	}
}

func (r *CollegeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CollegeRepositoryImpl) Create(ctx context.Context, college *entity.College) error {
	m := r.mapper.ToModel(college)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*college = *r.mapper.ToEntity(m)
	return nil
}

func (r *CollegeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.College, error) {
	var m model.College
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CollegeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.College, error) {
	var models []*model.College
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.College, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
