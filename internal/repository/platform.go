package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PlatformRepository defines persistence operations for publishing platforms.
type PlatformRepository interface {
	Create(ctx context.Context, platform *models.Platform) error
	GetByIDForUser(ctx context.Context, id, userID uint) (*models.Platform, error)
	GetBySlug(ctx context.Context, userID uint, slug string) (*models.Platform, error)
	GetMostRecent(ctx context.Context, userID uint) (*models.Platform, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Platform, error)
	Update(ctx context.Context, platform *models.Platform) error
	Delete(ctx context.Context, id, userID uint) error
}

type platformRepository struct {
	db *gorm.DB
}

// NewPlatformRepository returns a new PlatformRepository implementation.
func NewPlatformRepository(db *gorm.DB) PlatformRepository {
	return &platformRepository{db: db}
}

func (r *platformRepository) Create(ctx context.Context, platform *models.Platform) error {
	if err := r.db.WithContext(ctx).Create(platform).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Platform slug already in use")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *platformRepository) GetByIDForUser(ctx context.Context, id, userID uint) (*models.Platform, error) {
	var platform models.Platform
	key := cache.PlatformKey(id)

	err := cache.Aside(ctx, key, &platform, cache.PlatformTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).First(&platform, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Platform", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if platform.UserID != userID {
		return nil, models.NewNotFoundError("Platform", id)
	}
	return &platform, nil
}

// GetBySlug returns (nil, nil) when no platform carries the slug for this user.
func (r *platformRepository) GetBySlug(ctx context.Context, userID uint, slug string) (*models.Platform, error) {
	var platform models.Platform
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ? AND slug = ?", userID, slug).
		First(&platform).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &platform, nil
}

// GetMostRecent returns the user's most recently updated platform, or
// (nil, nil) when the user has none.
func (r *platformRepository) GetMostRecent(ctx context.Context, userID uint) (*models.Platform, error) {
	var platform models.Platform
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		First(&platform).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &platform, nil
}

func (r *platformRepository) ListByUser(ctx context.Context, userID uint) ([]models.Platform, error) {
	var platforms []models.Platform
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&platforms).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return platforms, nil
}

func (r *platformRepository) Update(ctx context.Context, platform *models.Platform) error {
	if err := r.db.WithContext(ctx).Save(platform).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Platform slug already in use")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePlatform(ctx, platform.ID)
	return nil
}

func (r *platformRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Platform{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Platform", id)
	}
	cache.InvalidatePlatform(ctx, id)
	return nil
}
