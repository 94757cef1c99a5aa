package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for generated posts.
type PostRepository interface {
	CreateWithInitialVersion(ctx context.Context, post *models.Post, version *models.PostVersion) error
	GetByIDForUser(ctx context.Context, id, userID uint) (*models.Post, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, id, userID uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// CreateWithInitialVersion persists a freshly generated post together with
// version #1 in a single transaction, so a post is never visible without a
// selected version.
func (r *postRepository) CreateWithInitialVersion(ctx context.Context, post *models.Post, version *models.PostVersion) error {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "CreateWithInitialVersion", "posts")
	defer span.End()
	done := observability.TrackQuery("create_with_initial_version", "posts")
	defer done()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		version.PostID = post.ID
		version.VersionNumber = 1
		version.IsSelected = true
		version.GeneratedText = post.GeneratedText
		if err := tx.Create(version).Error; err != nil {
			return err
		}

		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]interface{}{
				"current_version_id": version.ID,
				"total_versions":     1,
			}).Error
	})
	if err != nil {
		span.RecordError(err)
		return models.NewInternalError(err)
	}

	post.CurrentVersionID = &version.ID
	post.TotalVersions = 1
	return nil
}

func (r *postRepository) GetByIDForUser(ctx context.Context, id, userID uint) (*models.Post, error) {
	var post models.Post
	err := readDB(r.db).WithContext(ctx).
		Preload("Profile").
		Preload("Project").
		Preload("Platform").
		Where("id = ? AND user_id = ?", id, userID).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var posts []models.Post
	err := readDB(r.db).WithContext(ctx).
		Preload("Platform").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Post{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}
