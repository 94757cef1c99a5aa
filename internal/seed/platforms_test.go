package seed

import (
	"testing"

	"inkwell/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDefaultPlatforms_Idempotent(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.Platform{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	owner := models.User{Username: "demo", Email: "demo@inkwell.dev", Password: "x"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("create owner: %v", err)
	}

	err = DefaultPlatforms(db, owner.ID)
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	err = DefaultPlatforms(db, owner.ID)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var count int64
	err = db.Model(&models.Platform{}).Count(&count).Error
	if err != nil {
		t.Fatalf("count platforms: %v", err)
	}
	if count != int64(len(BuiltInPlatforms)) {
		t.Fatalf("expected %d platforms, got %d", len(BuiltInPlatforms), count)
	}

	for _, item := range BuiltInPlatforms {
		var p models.Platform
		err = db.Where("slug = ?", item.Slug).First(&p).Error
		if err != nil {
			t.Fatalf("missing platform %s: %v", item.Slug, err)
		}
		if p.UserID != owner.ID {
			t.Fatalf("platform %s belongs to user %d, want %d", item.Slug, p.UserID, owner.ID)
		}
		if p.MaxLength != item.MaxLength {
			t.Fatalf("platform %s max length %d, want %d", item.Slug, p.MaxLength, item.MaxLength)
		}
	}
}

func TestSeedPlatforms_RefreshesGuidelines(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Platform{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	owner := models.User{Username: "demo", Email: "demo@inkwell.dev", Password: "x"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("create owner: %v", err)
	}

	first := []BuiltInPlatform{{Name: "X", Slug: "x", StyleGuidelines: "old", MaxLength: 280}}
	if err := SeedPlatforms(db, owner.ID, first); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	updated := []BuiltInPlatform{{Name: "X", Slug: "x", StyleGuidelines: "new", MaxLength: 280}}
	if err := SeedPlatforms(db, owner.ID, updated); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var p models.Platform
	if err := db.Where("slug = ?", "x").First(&p).Error; err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.StyleGuidelines != "new" {
		t.Fatalf("guidelines not refreshed: %q", p.StyleGuidelines)
	}
}
