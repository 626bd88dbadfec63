package mapper

import (
	"research-link-be/internal/entity"
	"research-link-be/internal/model"
)

type ProjectMapper struct {
	collegeMapper *CollegeMapper
}

func NewProjectMapper() *ProjectMapper {
	return &ProjectMapper{
		collegeMapper: NewCollegeMapper(),
	}
}

func (m *ProjectMapper) ToEntity(p *model.Project) *entity.Project {
	if p == nil {
		return nil
	}
	return &entity.Project{
		Id:                          p.Id,
		Title:                       p.Title,
		Description:                 p.Description,
		Duration:                    p.Duration,
		Stipend:                     p.Stipend,
		Deadline:                    p.Deadline,
		Department:                  p.Department,
		Closed:                      p.Closed,
		CollegeId:                   p.CollegeId,
		ProfessorId:                 p.ProfessorId,
		CategoryId:                  p.CategoryId,
		NumberOfStudentsNeeded:      p.NumberOfStudentsNeeded,
		PreferredStudentDepartments: p.PreferredStudentDepartments,
		Certification:               p.Certification,
		LetterOfRecommendation:      p.LetterOfRecommendation,
		CreatedAt:                   p.CreatedAt,
		UpdatedAt:                   p.UpdatedAt,
		College:                     m.collegeMapper.ToEntity(p.College),
		Category:                    m.categoryToEntity(p.Category),
	}
}

func (m *ProjectMapper) ToModel(p *entity.Project) *model.Project {
	if p == nil {
		return nil
	}
	return &model.Project{
		Id:                          p.Id,
		Title:                       p.Title,
		Description:                 p.Description,
		Duration:                    p.Duration,
		Stipend:                     p.Stipend,
		Deadline:                    p.Deadline,
		Department:                  p.Department,
		Closed:                      p.Closed,
		CollegeId:                   p.CollegeId,
		ProfessorId:                 p.ProfessorId,
		CategoryId:                  p.CategoryId,
		NumberOfStudentsNeeded:      p.NumberOfStudentsNeeded,
		PreferredStudentDepartments: p.PreferredStudentDepartments,
		Certification:               p.Certification,
		LetterOfRecommendation:      p.LetterOfRecommendation,
		CreatedAt:                   p.CreatedAt,
		UpdatedAt:                   p.UpdatedAt,
	}
}

func (m *ProjectMapper) categoryToEntity(c *model.ProjectCategory) *entity.ProjectCategory {
	if c == nil {
		return nil
	}
	return &entity.ProjectCategory{Id: c.Id, Name: c.Name}
}

func (m *ProjectMapper) ApplicationToEntity(a *model.Application) *entity.Application {
	if a == nil {
		return nil
	}
	return &entity.Application{
		Id:          a.Id,
		ProjectId:   a.ProjectId,
		StudentId:   a.StudentId,
		Status:      entity.ApplicationStatus(a.Status),
		CoverLetter: a.CoverLetter,
		AppliedAt:   a.AppliedAt,
		UpdatedAt:   a.UpdatedAt,
		Project:     m.ToEntity(a.Project),
	}
}

func (m *ProjectMapper) ApplicationToModel(a *entity.Application) *model.Application {
	if a == nil {
		return nil
	}
	return &model.Application{
		Id:          a.Id,
		ProjectId:   a.ProjectId,
		StudentId:   a.StudentId,
		Status:      string(a.Status),
		CoverLetter: a.CoverLetter,
		AppliedAt:   a.AppliedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
