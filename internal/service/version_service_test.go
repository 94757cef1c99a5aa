package service

import (
	"context"
	"testing"

	"inkwell/internal/llm"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// versionRepoStub is a stub for repository.PostVersionRepository.
type versionRepoStub struct {
	appendSelectedFn func(context.Context, uint, *models.PostVersion) (*models.PostVersion, error)
	selectFn         func(context.Context, uint, uint) (*models.PostVersion, error)
	getSelectedFn    func(context.Context, uint) (*models.PostVersion, error)
	getByIDFn        func(context.Context, uint, uint) (*models.PostVersion, error)
	listByPostFn     func(context.Context, uint) ([]models.PostVersion, error)
}

func (s *versionRepoStub) AppendSelected(ctx context.Context, postID uint, version *models.PostVersion) (*models.PostVersion, error) {
	return s.appendSelectedFn(ctx, postID, version)
}
func (s *versionRepoStub) Select(ctx context.Context, postID, versionID uint) (*models.PostVersion, error) {
	return s.selectFn(ctx, postID, versionID)
}
func (s *versionRepoStub) GetSelected(ctx context.Context, postID uint) (*models.PostVersion, error) {
	return s.getSelectedFn(ctx, postID)
}
func (s *versionRepoStub) GetByID(ctx context.Context, postID, versionID uint) (*models.PostVersion, error) {
	return s.getByIDFn(ctx, postID, versionID)
}
func (s *versionRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.PostVersion, error) {
	return s.listByPostFn(ctx, postID)
}

func noopVersionRepo() *versionRepoStub {
	return &versionRepoStub{
		appendSelectedFn: func(_ context.Context, postID uint, version *models.PostVersion) (*models.PostVersion, error) {
			version.ID = 10
			version.PostID = postID
			version.VersionNumber = 2
			version.IsSelected = true
			return version, nil
		},
		selectFn: func(_ context.Context, postID, versionID uint) (*models.PostVersion, error) {
			return &models.PostVersion{ID: versionID, PostID: postID, VersionNumber: 1, IsSelected: true}, nil
		},
		getSelectedFn: func(_ context.Context, postID uint) (*models.PostVersion, error) {
			return &models.PostVersion{ID: 9, PostID: postID, VersionNumber: 1, GeneratedText: "Current text", IsSelected: true}, nil
		},
		getByIDFn: func(_ context.Context, postID, versionID uint) (*models.PostVersion, error) {
			return &models.PostVersion{ID: versionID, PostID: postID, VersionNumber: 1}, nil
		},
		listByPostFn: func(_ context.Context, _ uint) ([]models.PostVersion, error) { return nil, nil },
	}
}

func TestVersionService_Iterate(t *testing.T) {
	t.Parallel()

	var appended *models.PostVersion
	versions := noopVersionRepo()
	base := versions.appendSelectedFn
	versions.appendSelectedFn = func(ctx context.Context, postID uint, version *models.PostVersion) (*models.PostVersion, error) {
		appended = version
		return base(ctx, postID, version)
	}

	gen := noopGenerator()
	svc := NewVersionService(noopPostRepo(), versions, gen)

	result, err := svc.Iterate(context.Background(), IterateInput{
		UserID: 1,
		PostID: 5,
		Type:   "shorter",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.VersionNumber)
	assert.True(t, result.IsSelected)
	assert.Equal(t, "Generated post body.", result.GeneratedText)

	require.NotNil(t, appended)
	require.NotNil(t, appended.IterationPrompt)
	assert.Equal(t, "shorter", *appended.IterationPrompt)
	require.NotNil(t, appended.TotalTokens)
	assert.Equal(t, 200, *appended.TotalTokens)

	require.Len(t, gen.calls, 1)
	assert.Contains(t, gen.calls[0].Prompt, "Current text")
	assert.Contains(t, gen.calls[0].Prompt, "CHANGE REQUEST")
	assert.Equal(t, "iteration", gen.calls[0].Operation)
}

func TestVersionService_Iterate_CustomFeedback(t *testing.T) {
	t.Parallel()

	var appended *models.PostVersion
	versions := noopVersionRepo()
	base := versions.appendSelectedFn
	versions.appendSelectedFn = func(ctx context.Context, postID uint, version *models.PostVersion) (*models.PostVersion, error) {
		appended = version
		return base(ctx, postID, version)
	}

	gen := noopGenerator()
	svc := NewVersionService(noopPostRepo(), versions, gen)

	_, err := svc.Iterate(context.Background(), IterateInput{
		UserID:   1,
		PostID:   5,
		Type:     "custom",
		Feedback: "  add a concrete example  ",
	})
	require.NoError(t, err)

	require.NotNil(t, appended.IterationPrompt)
	assert.Equal(t, "add a concrete example", *appended.IterationPrompt)
	require.Len(t, gen.calls, 1)
	assert.Contains(t, gen.calls[0].Prompt, "add a concrete example")
}

func TestVersionService_Iterate_EmptyTypeWithFeedbackIsCustom(t *testing.T) {
	t.Parallel()

	var appended *models.PostVersion
	versions := noopVersionRepo()
	base := versions.appendSelectedFn
	versions.appendSelectedFn = func(ctx context.Context, postID uint, version *models.PostVersion) (*models.PostVersion, error) {
		appended = version
		return base(ctx, postID, version)
	}

	svc := NewVersionService(noopPostRepo(), versions, noopGenerator())

	_, err := svc.Iterate(context.Background(), IterateInput{
		UserID:   1,
		PostID:   5,
		Feedback: "tighten the close",
	})
	require.NoError(t, err)
	require.NotNil(t, appended.IterationPrompt)
	assert.Equal(t, "tighten the close", *appended.IterationPrompt)
}

func TestVersionService_Iterate_Validation(t *testing.T) {
	t.Parallel()

	gen := noopGenerator()
	svc := NewVersionService(noopPostRepo(), noopVersionRepo(), gen)
	ctx := context.Background()

	t.Run("custom without feedback", func(t *testing.T) {
		_, err := svc.Iterate(ctx, IterateInput{UserID: 1, PostID: 5, Type: "custom"})
		assertValidationError(t, err)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := svc.Iterate(ctx, IterateInput{UserID: 1, PostID: 5, Type: "sparkle"})
		assertValidationError(t, err)
	})

	assert.Empty(t, gen.calls)
}

func TestVersionService_Iterate_PostNotFound(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDForUserFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}

	gen := noopGenerator()
	svc := NewVersionService(posts, noopVersionRepo(), gen)

	_, err := svc.Iterate(context.Background(), IterateInput{UserID: 2, PostID: 5, Type: "shorter"})
	assertErrorCode(t, err, models.CodeNotFound)
	assert.Empty(t, gen.calls)
}

func TestVersionService_Iterate_ProviderErrorSkipsAppend(t *testing.T) {
	t.Parallel()

	appendCalled := false
	versions := noopVersionRepo()
	versions.appendSelectedFn = func(_ context.Context, _ uint, v *models.PostVersion) (*models.PostVersion, error) {
		appendCalled = true
		return v, nil
	}

	gen := &generatorStub{
		generateFn: func(_ context.Context, _ llm.GenerateInput) (*llm.GenerateResult, error) {
			return nil, models.NewLLMError(models.CodeServiceUnavailable, "model overloaded", nil)
		},
	}
	svc := NewVersionService(noopPostRepo(), versions, gen)

	_, err := svc.Iterate(context.Background(), IterateInput{UserID: 1, PostID: 5, Type: "simplify"})
	assertErrorCode(t, err, models.CodeServiceUnavailable)
	assert.False(t, appendCalled)
}

func TestVersionService_SelectVersion(t *testing.T) {
	t.Parallel()

	t.Run("passes through for the owner", func(t *testing.T) {
		t.Parallel()
		var gotPostID, gotVersionID uint
		versions := noopVersionRepo()
		versions.selectFn = func(_ context.Context, postID, versionID uint) (*models.PostVersion, error) {
			gotPostID, gotVersionID = postID, versionID
			return &models.PostVersion{ID: versionID, PostID: postID, IsSelected: true}, nil
		}
		svc := NewVersionService(noopPostRepo(), versions, noopGenerator())

		selected, err := svc.SelectVersion(context.Background(), 1, 5, 2)
		require.NoError(t, err)
		assert.True(t, selected.IsSelected)
		assert.Equal(t, uint(5), gotPostID)
		assert.Equal(t, uint(2), gotVersionID)
	})

	t.Run("unowned post", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDForUserFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewVersionService(posts, noopVersionRepo(), noopGenerator())

		_, err := svc.SelectVersion(context.Background(), 8, 5, 2)
		assertErrorCode(t, err, models.CodeNotFound)
	})
}

func TestVersionService_GetVersions(t *testing.T) {
	t.Parallel()

	versions := noopVersionRepo()
	versions.listByPostFn = func(_ context.Context, postID uint) ([]models.PostVersion, error) {
		return []models.PostVersion{
			{ID: 1, PostID: postID, VersionNumber: 1},
			{ID: 2, PostID: postID, VersionNumber: 2, IsSelected: true},
		}, nil
	}
	svc := NewVersionService(noopPostRepo(), versions, noopGenerator())

	list, err := svc.GetVersions(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].VersionNumber)
	assert.True(t, list[1].IsSelected)
}
