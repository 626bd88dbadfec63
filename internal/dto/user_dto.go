package dto

import (
	"time"

	"github.com/google/uuid"
)

type MeResponse struct {
	Id              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	CollegeId       uuid.UUID `json:"college_id"`
	CollegeName     string    `json:"college_name"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	ProfileComplete bool      `json:"profile_complete"`
	CreatedAt       time.Time `json:"created_at"`
}

type StudentProfileRequest struct {
	Branch string   `json:"branch" validate:"required,min=2"`
	Year   int      `json:"year" validate:"required,min=1,max=6"`
	Bio    string   `json:"bio" validate:"max=1000"`
	Skills []string `json:"skills" validate:"max=30,dive,min=1,max=60"`
}

type StudentProfileResponse struct {
	Id     uuid.UUID `json:"id"`
	Branch string    `json:"branch"`
	Year   int       `json:"year"`
	Bio    string    `json:"bio,omitempty"`
	Skills []string  `json:"skills"`
}

type ProfessorProfileRequest struct {
	Department  string `json:"department" validate:"required,min=2"`
	Designation string `json:"designation" validate:"required,min=2"`
}

type ProfessorProfileResponse struct {
	Id          uuid.UUID `json:"id"`
	Department  string    `json:"department"`
	Designation string    `json:"designation"`
}
