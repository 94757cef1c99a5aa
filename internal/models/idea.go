package models

import (
	"time"

	"gorm.io/gorm"
)

// GeneratedIdea is a persisted post idea produced by the idea pipeline.
type GeneratedIdea struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Description    string         `gorm:"type:text;not null" json:"description"`
	Tags           StringList     `gorm:"type:text" json:"tags"`
	RelevanceScore float64        `gorm:"default:0.5" json:"relevance_score"`
	ContentType    string         `json:"content_type"`
	Format         string         `json:"format"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
