package entity

import "github.com/google/uuid"

type College struct {
	Id      uuid.UUID
	Name    string
	City    string
	Website string
}
