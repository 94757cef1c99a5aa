package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostVersionRepository defines persistence operations for post versions.
//
// Version rows are immutable after creation except for the IsSelected flag.
// The mutating operations run inside a transaction that locks the parent
// post row, so concurrent iterations can neither duplicate a version number
// nor leave two versions selected.
type PostVersionRepository interface {
	AppendSelected(ctx context.Context, postID uint, version *models.PostVersion) (*models.PostVersion, error)
	Select(ctx context.Context, postID, versionID uint) (*models.PostVersion, error)
	GetSelected(ctx context.Context, postID uint) (*models.PostVersion, error)
	GetByID(ctx context.Context, postID, versionID uint) (*models.PostVersion, error)
	ListByPost(ctx context.Context, postID uint) ([]models.PostVersion, error)
}

type postVersionRepository struct {
	db *gorm.DB
}

// NewPostVersionRepository returns a new PostVersionRepository implementation.
func NewPostVersionRepository(db *gorm.DB) PostVersionRepository {
	return &postVersionRepository{db: db}
}

// lockedPost loads the post inside the transaction, taking a row lock on
// postgres. SQLite serializes writers per database so the plain read is
// already safe there.
func (r *postVersionRepository) lockedPost(tx *gorm.DB, postID uint) (*models.Post, error) {
	q := tx
	if r.db.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var post models.Post
	if err := q.First(&post, postID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// AppendSelected creates version N+1 for the post, marks it selected,
// deselects every sibling and mirrors the new text onto the post's
// denormalized columns. The version number is assigned inside the
// transaction from the locked post's TotalVersions.
func (r *postVersionRepository) AppendSelected(ctx context.Context, postID uint, version *models.PostVersion) (*models.PostVersion, error) {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "AppendSelected", "post_versions")
	defer span.End()
	done := observability.TrackQuery("append_selected", "post_versions")
	defer done()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := r.lockedPost(tx, postID)
		if err != nil {
			return err
		}

		version.PostID = post.ID
		version.VersionNumber = post.TotalVersions + 1
		version.IsSelected = true
		if err := tx.Create(version).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.PostVersion{}).
			Where("post_id = ? AND id <> ?", post.ID, version.ID).
			Update("is_selected", false).Error; err != nil {
			return err
		}

		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]interface{}{
				"current_version_id": version.ID,
				"total_versions":     version.VersionNumber,
				"generated_text":     version.GeneratedText,
			}).Error
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewInternalError(err)
	}
	return version, nil
}

// Select flips the selected flag to the given version and mirrors its text
// back onto the post.
func (r *postVersionRepository) Select(ctx context.Context, postID, versionID uint) (*models.PostVersion, error) {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "Select", "post_versions")
	defer span.End()
	done := observability.TrackQuery("select_version", "post_versions")
	defer done()

	var selected models.PostVersion
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := r.lockedPost(tx, postID)
		if err != nil {
			return err
		}

		if err := tx.Where("id = ? AND post_id = ?", versionID, post.ID).First(&selected).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.PostVersion{}).
			Where("post_id = ? AND id <> ?", post.ID, selected.ID).
			Update("is_selected", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PostVersion{}).
			Where("id = ?", selected.ID).
			Update("is_selected", true).Error; err != nil {
			return err
		}
		selected.IsSelected = true

		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]interface{}{
				"current_version_id": selected.ID,
				"generated_text":     selected.GeneratedText,
			}).Error
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post version", versionID)
		}
		return nil, models.NewInternalError(err)
	}
	return &selected, nil
}

func (r *postVersionRepository) GetSelected(ctx context.Context, postID uint) (*models.PostVersion, error) {
	var version models.PostVersion
	err := readDB(r.db).WithContext(ctx).
		Where("post_id = ? AND is_selected = ?", postID, true).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post version", postID)
		}
		return nil, models.NewInternalError(err)
	}
	return &version, nil
}

func (r *postVersionRepository) GetByID(ctx context.Context, postID, versionID uint) (*models.PostVersion, error) {
	var version models.PostVersion
	err := readDB(r.db).WithContext(ctx).
		Where("id = ? AND post_id = ?", versionID, postID).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post version", versionID)
		}
		return nil, models.NewInternalError(err)
	}
	return &version, nil
}

func (r *postVersionRepository) ListByPost(ctx context.Context, postID uint) ([]models.PostVersion, error) {
	var versions []models.PostVersion
	err := readDB(r.db).WithContext(ctx).
		Where("post_id = ?", postID).
		Order("version_number ASC").
		Find(&versions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return versions, nil
}
