package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByColleges struct {
	CollegeIDs []uuid.UUID
}

func (s ByColleges) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("college_id IN ?", s.CollegeIDs)
}

type DeadlineNotBefore struct {
	Now time.Time
}

func (s DeadlineNotBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("deadline >= ?", s.Now)
}

type ClosedIs struct {
	Closed bool
}

func (s ClosedIs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("closed = ?", s.Closed)
}

// IDBefore is the listing cursor predicate. Project ids are UUIDv7, so
// "id < cursor" walks backwards in creation order.
type IDBefore struct {
	ID uuid.UUID
}

func (s IDBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id < ?", s.ID)
}

type OwnedByProfessor struct {
	ProfessorID uuid.UUID
}

func (s OwnedByProfessor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("professor_id = ?", s.ProfessorID)
}
