package models

import "gorm.io/gorm"

// Share maps one opaque hash to one user's collection. The unique index on
// UserID keeps at most one live share per user; the unique index on Hash makes
// the hash resolve to exactly one owner.
type Share struct {
	gorm.Model

	UserID uint   `gorm:"uniqueIndex;not null"`
	Hash   string `gorm:"uniqueIndex;not null"`
}
