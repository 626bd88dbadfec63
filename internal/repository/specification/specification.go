package specification

import "gorm.io/gorm"

// Specification is a composable query predicate. Repositories apply a
// slice of them to the base query, so callers describe filters, ordering
// and limits without touching gorm themselves.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
