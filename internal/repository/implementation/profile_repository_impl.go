package implementation

import (
	"context"
	"errors"
	"strings"

	"research-link-be/internal/entity"
	"research-link-be/internal/mapper"
	"research-link-be/internal/model"
	"research-link-be/internal/repository/contract"
	"research-link-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProfileMapper
}

func NewProfileRepository(db *gorm.DB) contract.ProfileRepository {
	return &ProfileRepositoryImpl{
		db:     db,
		mapper: mapper.NewProfileMapper(),
	}
}

func (r *ProfileRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProfileRepositoryImpl) CreateStudent(ctx context.Context, profile *entity.StudentProfile) error {
	m := r.mapper.StudentToModel(profile)
	if err := r.db.WithContext(ctx).Omit("Skills").Create(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.StudentToEntity(m)
	return nil
}

func (r *ProfileRepositoryImpl) UpdateStudent(ctx context.Context, profile *entity.StudentProfile) error {
	m := r.mapper.StudentToModel(profile)
	if err := r.db.WithContext(ctx).Omit("Skills").Save(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.StudentToEntity(m)
	return nil
}

func (r *ProfileRepositoryImpl) FindStudent(ctx context.Context, specs ...specification.Specification) (*entity.StudentProfile, error) {
	var m model.StudentProfile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	query = query.Preload("Skills")
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.StudentToEntity(&m), nil
}

func (r *ProfileRepositoryImpl) ReplaceStudentSkills(ctx context.Context, studentId uuid.UUID, skills []entity.Skill) error {
	models := make([]*model.Skill, len(skills))
	for i, s := range skills {
		models[i] = &model.Skill{Id: s.Id, Name: s.Name}
	}
	profile := &model.StudentProfile{Id: studentId}
	return r.db.WithContext(ctx).Model(profile).Association("Skills").Replace(models)
}

func (r *ProfileRepositoryImpl) CreateProfessor(ctx context.Context, profile *entity.ProfessorProfile) error {
	m := r.mapper.ProfessorToModel(profile)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ProfessorToEntity(m)
	return nil
}

func (r *ProfileRepositoryImpl) UpdateProfessor(ctx context.Context, profile *entity.ProfessorProfile) error {
	m := r.mapper.ProfessorToModel(profile)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ProfessorToEntity(m)
	return nil
}

func (r *ProfileRepositoryImpl) FindProfessor(ctx context.Context, specs ...specification.Specification) (*entity.ProfessorProfile, error) {
	var m model.ProfessorProfile
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ProfessorToEntity(&m), nil
}

// UpsertSkills inserts missing skills by name and returns the full set with ids.
func (r *ProfileRepositoryImpl) UpsertSkills(ctx context.Context, names []string) ([]entity.Skill, error) {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			cleaned = append(cleaned, n)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}

	models := make([]*model.Skill, len(cleaned))
	for i, n := range cleaned {
		models[i] = &model.Skill{Id: uuid.New(), Name: n}
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&models).Error; err != nil {
		return nil, err
	}

	// Re-read so skills that already existed come back with their real ids.
	var stored []*model.Skill
	if err := r.db.WithContext(ctx).Where("name IN ?", cleaned).Find(&stored).Error; err != nil {
		return nil, err
	}
	skills := make([]entity.Skill, len(stored))
	for i, s := range stored {
		skills[i] = entity.Skill{Id: s.Id, Name: s.Name}
	}
	return skills, nil
}
