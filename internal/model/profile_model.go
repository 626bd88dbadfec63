package model

import (
	"time"

	"github.com/google/uuid"
)

type StudentProfile struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	User      *User     `gorm:"foreignKey:UserId"`
	Branch    string    `gorm:"type:varchar(100);not null"`
	Year      int       `gorm:"default:1"`
	Bio       string    `gorm:"type:text"`
	Skills    []*Skill  `gorm:"many2many:student_skills;joinForeignKey:student_id;joinReferences:skill_id"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}

type ProfessorProfile struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	User        *User     `gorm:"foreignKey:UserId"`
	Department  string    `gorm:"type:varchar(100);not null"`
	Designation string    `gorm:"type:varchar(100)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (ProfessorProfile) TableName() string {
	return "professor_profiles"
}
