package model

import "github.com/google/uuid"

type College struct {
	Id      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	City    string    `gorm:"type:varchar(255)"`
	Website string    `gorm:"type:text"`
}

func (College) TableName() string {
	return "colleges"
}

type Skill struct {
	Id   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"type:varchar(100);uniqueIndex;not null"`
}

func (Skill) TableName() string {
	return "skills"
}
