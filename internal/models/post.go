// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a generated social-media post. GeneratedText,
// CurrentVersionID and TotalVersions are denormalized copies of the
// selected version's state and are mutated only through version operations.
type Post struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	User             User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RawIdea          string         `gorm:"type:text;not null" json:"raw_idea"`
	Goal             string         `json:"goal"`
	GeneratedText    string         `gorm:"type:text" json:"generated_text"`
	CurrentVersionID *uint          `json:"current_version_id,omitempty"`
	TotalVersions    int            `gorm:"default:0" json:"total_versions"`
	ProfileID        *uint          `gorm:"index" json:"profile_id,omitempty"`
	Profile          *Profile       `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
	ProjectID        *uint          `gorm:"index" json:"project_id,omitempty"`
	Project          *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	PlatformID       *uint          `gorm:"index" json:"platform_id,omitempty"`
	Platform         *Platform      `gorm:"foreignKey:PlatformID" json:"platform,omitempty"`
	Versions         []PostVersion  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"versions,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// PostVersion is one immutable snapshot of generated text for a Post.
// Version numbers run 1..N with no gaps and exactly one version per post
// carries IsSelected=true. After creation only IsSelected may change.
type PostVersion struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	PostID           uint      `gorm:"not null;uniqueIndex:idx_post_versions_post_number" json:"post_id"`
	VersionNumber    int       `gorm:"not null;uniqueIndex:idx_post_versions_post_number" json:"version_number"`
	GeneratedText    string    `gorm:"type:text;not null" json:"generated_text"`
	IterationPrompt  *string   `json:"iteration_prompt,omitempty"`
	IsSelected       bool      `gorm:"default:false;index" json:"is_selected"`
	PromptTokens     *int      `json:"prompt_tokens,omitempty"`
	CompletionTokens *int      `json:"completion_tokens,omitempty"`
	TotalTokens      *int      `json:"total_tokens,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
