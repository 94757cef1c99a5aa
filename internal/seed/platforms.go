package seed

import (
	"fmt"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInPlatform is a platform preset seeded for the demo account.
type BuiltInPlatform struct {
	Name            string
	Slug            string
	StyleGuidelines string
	MaxLength       int
	Keywords        []string
}

// BuiltInPlatforms defines the canonical publishing targets a fresh demo
// workspace starts with.
var BuiltInPlatforms = []BuiltInPlatform{
	{
		Name:            "X",
		Slug:            "x",
		StyleGuidelines: "Short, punchy, one idea per post. Line breaks over commas.",
		MaxLength:       280,
		Keywords:        []string{"buildinpublic", "indiehackers"},
	},
	{
		Name:            "LinkedIn",
		Slug:            "linkedin",
		StyleGuidelines: "Professional but personal. Open with a hook line, then short paragraphs.",
		MaxLength:       3000,
		Keywords:        []string{"leadership", "career"},
	},
	{
		Name:            "Threads",
		Slug:            "threads",
		StyleGuidelines: "Conversational and casual. Questions perform well.",
		MaxLength:       500,
	},
	{
		Name:            "Bluesky",
		Slug:            "bluesky",
		StyleGuidelines: "Informal, community-first. Skip hashtags entirely.",
		MaxLength:       300,
	},
	{
		Name:            "Mastodon",
		Slug:            "mastodon",
		StyleGuidelines: "Thoughtful and unhurried. Content warnings where appropriate.",
		MaxLength:       500,
	},
	{
		Name:            "Dev.to",
		Slug:            "devto",
		StyleGuidelines: "Technical long form. Code blocks welcome, no length pressure.",
		MaxLength:       0,
		Keywords:        []string{"golang", "webdev"},
	},
}

// DefaultPlatforms seeds the built-in platform presets for the given user.
func DefaultPlatforms(db *gorm.DB, userID uint) error {
	return SeedPlatforms(db, userID, BuiltInPlatforms)
}

// SeedPlatforms upserts the given platform presets for one user. Slugs are
// globally unique, so presets belong to a single owner; re-running refreshes
// names and guidelines without duplicating rows.
func SeedPlatforms(db *gorm.DB, userID uint, presets []BuiltInPlatform) error {
	for _, item := range presets {
		platform := models.Platform{
			UserID:          userID,
			Name:            item.Name,
			Slug:            item.Slug,
			StyleGuidelines: item.StyleGuidelines,
			MaxLength:       item.MaxLength,
			Keywords:        models.StringList(item.Keywords),
		}

		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "style_guidelines", "max_length", "keywords", "updated_at"}),
		}).Create(&platform).Error
		if err != nil {
			return fmt.Errorf("seed built-in platform %s: %w", item.Slug, err)
		}
	}

	return nil
}
