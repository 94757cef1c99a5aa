package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for writing profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByIDForUser(ctx context.Context, id, userID uint) (*models.Profile, error)
	GetMostRecent(ctx context.Context, userID uint) (*models.Profile, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, id, userID uint) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByIDForUser caches by bare profile ID and checks ownership after the
// load, so one cache entry serves every caller.
func (r *profileRepository) GetByIDForUser(ctx context.Context, id, userID uint) (*models.Profile, error) {
	var profile models.Profile
	key := cache.ProfileKey(id)

	err := cache.Aside(ctx, key, &profile, cache.ProfileTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).First(&profile, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Profile", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if profile.UserID != userID {
		return nil, models.NewNotFoundError("Profile", id)
	}
	return &profile, nil
}

// GetMostRecent returns the user's most recently updated profile, or
// (nil, nil) when the user has none.
func (r *profileRepository) GetMostRecent(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) ListByUser(ctx context.Context, userID uint) ([]models.Profile, error) {
	var profiles []models.Profile
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProfile(ctx, profile.ID)
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Profile{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Profile", id)
	}
	cache.InvalidateProfile(ctx, id)
	return nil
}
