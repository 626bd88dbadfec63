package scope

import "gorm.io/gorm"

// OrderByCreatedDesc sorts newest-first. The notification inbox uses it
// so the most recent entry is always the first row on the page.
func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
