package models

import (
	"time"

	"gorm.io/gorm"
)

// Project is a campaign or product the user writes about.
type Project struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Name           string         `gorm:"not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	TargetAudience string         `json:"target_audience"`
	Goals          string         `gorm:"type:text" json:"goals"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
