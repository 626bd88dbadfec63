package mapper

import (
	"research-link-be/internal/entity"
	"research-link-be/internal/model"
)

type CollegeMapper struct{}

func NewCollegeMapper() *CollegeMapper {
	return &CollegeMapper{}
}

func (m *CollegeMapper) ToEntity(c *model.College) *entity.College {
	if c == nil {
		return nil
	}
	return &entity.College{
		Id:      c.Id,
		Name:    c.Name,
		City:    c.City,
		Website: c.Website,
	}
}

func (m *CollegeMapper) ToModel(c *entity.College) *model.College {
	if c == nil {
		return nil
	}
	return &model.College{
		Id:      c.Id,
		Name:    c.Name,
		City:    c.City,
		Website: c.Website,
	}
}

func (m *CollegeMapper) ToEntities(models []*model.College) []entity.College {
	if models == nil {
		return nil
	}
	entities := make([]entity.College, len(models))
	for i, mdl := range models {
		if val := m.ToEntity(mdl); val != nil {
			entities[i] = *val
		}
	}
	return entities
}

func (m *CollegeMapper) ToModels(entities []entity.College) []*model.College {
	if entities == nil {
		return nil
	}
	models := make([]*model.College, len(entities))
	for i, ent := range entities {
		models[i] = m.ToModel(&ent)
	}
	return models
}
