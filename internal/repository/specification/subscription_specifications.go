package specification

import (
	"time"

	"gorm.io/gorm"
)

// EffectivelyActive matches subscriptions that are both marked active and
// not past their end date. Stored status alone is never trusted: rows decay
// by the passage of time, nothing flips them to expired on a schedule.
type EffectivelyActive struct {
	Now time.Time
}

func (s EffectivelyActive) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND ends_at >= ?", "active", s.Now)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ActivePlansOnly struct{}

func (s ActivePlansOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}
