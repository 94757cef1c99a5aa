package models

import (
	"time"

	"gorm.io/gorm"
)

// Platform describes a publishing target and its formatting constraints.
type Platform struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	Name            string         `gorm:"not null" json:"name"`
	Slug            string         `gorm:"uniqueIndex;not null" json:"slug"`
	StyleGuidelines string         `gorm:"type:text" json:"style_guidelines"`
	MaxLength       int            `gorm:"default:0" json:"max_length"`
	Keywords        StringList     `gorm:"type:text" json:"keywords"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
