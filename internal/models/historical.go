package models

import (
	"time"

	"gorm.io/gorm"
)

// HistoricalPost is a previously published post imported by the user. It is
// read-only input for context selection and style analysis.
type HistoricalPost struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	PublishedAt time.Time      `gorm:"index" json:"published_at"`
	PlatformID  *uint          `gorm:"index" json:"platform_id,omitempty"`
	Platform    *Platform      `gorm:"foreignKey:PlatformID" json:"platform,omitempty"`
	Likes       *int           `json:"likes,omitempty"`
	Comments    *int           `json:"comments,omitempty"`
	Shares      *int           `json:"shares,omitempty"`
	Views       *int           `json:"views,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Engagement returns the flattened engagement counters with nils as zero.
func (p *HistoricalPost) Engagement() (likes, comments, shares, views int) {
	if p.Likes != nil {
		likes = *p.Likes
	}
	if p.Comments != nil {
		comments = *p.Comments
	}
	if p.Shares != nil {
		shares = *p.Shares
	}
	if p.Views != nil {
		views = *p.Views
	}
	return likes, comments, shares, views
}
