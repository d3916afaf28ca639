package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Content struct {
	gorm.Model

	Link        string `gorm:"not null"`
	Type        string `gorm:"not null"` // "text", "image", "audio", "youtube", "twitter", "notion", "url"
	Title       string `gorm:"not null"`
	Description string
	Meta        datatypes.JSON `gorm:"type:jsonb"` // provider metadata (embed payloads etc.)
	UserID      uint           `gorm:"not null;index"`
	IsPublic    bool           `gorm:"not null;default:false"`

	// Relationships
	User User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Tags []Tag `gorm:"many2many:content_tags;"`
}
