package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Title                       string     `json:"title" validate:"required,min=5,max=200"`
	Description                 string     `json:"description" validate:"required,min=20"`
	Duration                    string     `json:"duration" validate:"required"`
	Stipend                     *int       `json:"stipend" validate:"omitempty,min=0"`
	Deadline                    time.Time  `json:"deadline" validate:"required"`
	Department                  string     `json:"department" validate:"required"`
	CategoryId                  *uuid.UUID `json:"category_id"`
	NumberOfStudentsNeeded      int        `json:"number_of_students_needed" validate:"required,min=1,max=100"`
	PreferredStudentDepartments []string   `json:"preferred_student_departments"`
	Certification               bool       `json:"certification"`
	LetterOfRecommendation      bool       `json:"letter_of_recommendation"`
}

type UpdateProjectRequest struct {
	Title                       string     `json:"title" validate:"required,min=5,max=200"`
	Description                 string     `json:"description" validate:"required,min=20"`
	Duration                    string     `json:"duration" validate:"required"`
	Stipend                     *int       `json:"stipend" validate:"omitempty,min=0"`
	Deadline                    time.Time  `json:"deadline" validate:"required"`
	Department                  string     `json:"department" validate:"required"`
	CategoryId                  *uuid.UUID `json:"category_id"`
	NumberOfStudentsNeeded      int        `json:"number_of_students_needed" validate:"required,min=1,max=100"`
	PreferredStudentDepartments []string   `json:"preferred_student_departments"`
	Certification               bool       `json:"certification"`
	LetterOfRecommendation      bool       `json:"letter_of_recommendation"`
}

// ProjectResponse is the listing row shape: professor and category come
// denormalized so the client renders without follow-up requests.
type ProjectResponse struct {
	Id                          uuid.UUID `json:"id"`
	Title                       string    `json:"title"`
	Description                 string    `json:"description"`
	Duration                    string    `json:"duration"`
	Stipend                     *int      `json:"stipend"`
	Deadline                    time.Time `json:"deadline"`
	Department                  string    `json:"department"`
	Closed                      bool      `json:"closed"`
	CollegeId                   uuid.UUID `json:"college_id"`
	CollegeName                 string    `json:"college_name"`
	ProfessorName               string    `json:"professor_name"`
	ProfessorDepartment         string    `json:"professor_department"`
	CategoryName                *string   `json:"category_name"`
	NumberOfStudentsNeeded      int       `json:"number_of_students_needed"`
	PreferredStudentDepartments []string  `json:"preferred_student_departments"`
	Certification               bool      `json:"certification"`
	LetterOfRecommendation      bool      `json:"letter_of_recommendation"`
	CreatedAt                   time.Time `json:"created_at"`
}

type ActivePlanDTO struct {
	PlanName string    `json:"plan_name"`
	EndsAt   time.Time `json:"ends_at"`
}

type ListingUserInfo struct {
	HasActivePaidSubscription bool            `json:"has_active_paid_subscription"`
	ActivePlans               []ActivePlanDTO `json:"active_plans"`
}

type ListOpenProjectsResponse struct {
	Projects   []*ProjectResponse `json:"projects"`
	NextCursor *uuid.UUID         `json:"next_cursor"`
	HasMore    bool               `json:"has_more"`
	UserInfo   ListingUserInfo    `json:"user_info"`
}

type ListClosedProjectsResponse struct {
	Projects      []*ProjectResponse `json:"projects"`
	TotalProjects int64              `json:"total_projects"`
	UserInfo      ListingUserInfo    `json:"user_info"`
}
