package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// IdeaRepository defines persistence operations for generated ideas.
type IdeaRepository interface {
	Create(ctx context.Context, idea *models.GeneratedIdea) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.GeneratedIdea, error)
	Delete(ctx context.Context, id, userID uint) error
}

type ideaRepository struct {
	db *gorm.DB
}

// NewIdeaRepository returns a new IdeaRepository implementation.
func NewIdeaRepository(db *gorm.DB) IdeaRepository {
	return &ideaRepository{db: db}
}

func (r *ideaRepository) Create(ctx context.Context, idea *models.GeneratedIdea) error {
	if err := r.db.WithContext(ctx).Create(idea).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *ideaRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.GeneratedIdea, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var ideas []models.GeneratedIdea
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ideas).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ideas, nil
}

func (r *ideaRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.GeneratedIdea{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Idea", id)
	}
	return nil
}
