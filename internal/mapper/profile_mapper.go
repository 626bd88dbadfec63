package mapper

import (
	"research-link-be/internal/entity"
	"research-link-be/internal/model"
)

type ProfileMapper struct{}

func NewProfileMapper() *ProfileMapper {
	return &ProfileMapper{}
}

func (m *ProfileMapper) StudentToEntity(p *model.StudentProfile) *entity.StudentProfile {
	if p == nil {
		return nil
	}
	return &entity.StudentProfile{
		Id:        p.Id,
		UserId:    p.UserId,
		Branch:    p.Branch,
		Year:      p.Year,
		Bio:       p.Bio,
		Skills:    m.skillsToEntities(p.Skills),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *ProfileMapper) StudentToModel(p *entity.StudentProfile) *model.StudentProfile {
	if p == nil {
		return nil
	}
	return &model.StudentProfile{
		Id:        p.Id,
		UserId:    p.UserId,
		Branch:    p.Branch,
		Year:      p.Year,
		Bio:       p.Bio,
		Skills:    m.skillsToModels(p.Skills),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *ProfileMapper) ProfessorToEntity(p *model.ProfessorProfile) *entity.ProfessorProfile {
	if p == nil {
		return nil
	}
	return &entity.ProfessorProfile{
		Id:          p.Id,
		UserId:      p.UserId,
		Department:  p.Department,
		Designation: p.Designation,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *ProfileMapper) ProfessorToModel(p *entity.ProfessorProfile) *model.ProfessorProfile {
	if p == nil {
		return nil
	}
	return &model.ProfessorProfile{
		Id:          p.Id,
		UserId:      p.UserId,
		Department:  p.Department,
		Designation: p.Designation,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *ProfileMapper) SkillToEntity(s *model.Skill) *entity.Skill {
	if s == nil {
		return nil
	}
	return &entity.Skill{Id: s.Id, Name: s.Name}
}

func (m *ProfileMapper) skillsToEntities(models []*model.Skill) []entity.Skill {
	if models == nil {
		return nil
	}
	entities := make([]entity.Skill, len(models))
	for i, mdl := range models {
		if val := m.SkillToEntity(mdl); val != nil {
			entities[i] = *val
		}
	}
	return entities
}

func (m *ProfileMapper) skillsToModels(entities []entity.Skill) []*model.Skill {
	if entities == nil {
		return nil
	}
	models := make([]*model.Skill, len(entities))
	for i, ent := range entities {
		models[i] = &model.Skill{Id: ent.Id, Name: ent.Name}
	}
	return models
}
