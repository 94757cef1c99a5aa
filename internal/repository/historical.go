package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// HistoricalPostRepository defines persistence operations for imported
// historical posts. Reads are ordered newest-first by publish date.
type HistoricalPostRepository interface {
	Create(ctx context.Context, post *models.HistoricalPost) error
	CreateBatch(ctx context.Context, posts []models.HistoricalPost) error
	GetByIDForUser(ctx context.Context, id, userID uint) (*models.HistoricalPost, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.HistoricalPost, error)
	ListRecent(ctx context.Context, userID uint, limit int) ([]models.HistoricalPost, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Update(ctx context.Context, post *models.HistoricalPost) error
	Delete(ctx context.Context, id, userID uint) error
}

type historicalPostRepository struct {
	db *gorm.DB
}

// NewHistoricalPostRepository returns a new HistoricalPostRepository implementation.
func NewHistoricalPostRepository(db *gorm.DB) HistoricalPostRepository {
	return &historicalPostRepository{db: db}
}

func (r *historicalPostRepository) Create(ctx context.Context, post *models.HistoricalPost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateHistoricalPages(ctx, post.UserID)
	return nil
}

func (r *historicalPostRepository) CreateBatch(ctx context.Context, posts []models.HistoricalPost) error {
	if len(posts) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&posts).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateHistoricalPages(ctx, posts[0].UserID)
	return nil
}

func (r *historicalPostRepository) GetByIDForUser(ctx context.Context, id, userID uint) (*models.HistoricalPost, error) {
	var post models.HistoricalPost
	err := readDB(r.db).WithContext(ctx).
		Preload("Platform").
		Where("id = ? AND user_id = ?", id, userID).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Historical post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// ListByUser returns one page of the user's history, newest first. Pages are
// cached per limit/offset and invalidated wholesale on any write.
func (r *historicalPostRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.HistoricalPost, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var posts []models.HistoricalPost
	key := cache.HistoricalPageKey(userID, limit, offset)
	err := cache.Aside(ctx, key, &posts, cache.HistoricalPageTTL, func() error {
		return readDB(r.db).WithContext(ctx).
			Where("user_id = ?", userID).
			Order("published_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListRecent is the uncached variant used by the generation pipeline for
// context selection and topic exclusions.
func (r *historicalPostRepository) ListRecent(ctx context.Context, userID uint, limit int) ([]models.HistoricalPost, error) {
	if limit <= 0 {
		limit = 50
	}

	var posts []models.HistoricalPost
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("published_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *historicalPostRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).
		Model(&models.HistoricalPost{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *historicalPostRepository) Update(ctx context.Context, post *models.HistoricalPost) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateHistoricalPages(ctx, post.UserID)
	return nil
}

func (r *historicalPostRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.HistoricalPost{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Historical post", id)
	}
	cache.InvalidateHistoricalPages(ctx, userID)
	return nil
}
