package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByEmail matches a user by email. Emails are stored lowercased, so the
// caller normalizes before querying.
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// UserOwnedBy scopes a row to its owning account, used for profiles and
// the per-user token tables.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// ByToken matches a verification or reset token by its stored value.
type ByToken struct {
	Token string
}

func (s ByToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token = ?", s.Token)
}

// ByTokenHash matches a refresh token by its SHA-256 hex digest. The raw
// token only ever lives in the client cookie.
type ByTokenHash struct {
	Hash string
}

func (s ByTokenHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token_hash = ?", s.Hash)
}
