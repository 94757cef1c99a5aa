package service

import (
	"context"
	"fmt"
	"testing"

	"inkwell/internal/featureflags"
	"inkwell/internal/llm"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func substantialHistory(n int) []models.HistoricalPost {
	posts := make([]models.HistoricalPost, 0, n)
	for i := 1; i <= n; i++ {
		posts = append(posts, models.HistoricalPost{
			ID:      uint(i),
			UserID:  1,
			Content: fmt.Sprintf("Post number %d with enough substance to analyze properly.", i),
		})
	}
	return posts
}

func styleResponse() *llm.GenerateResult {
	return &llm.GenerateResult{
		Text: `{
			"toneTags": ["witty", "direct"],
			"doRules": ["Open with a question"],
			"dontRules": ["No hashtags"],
			"styleInsights": {"postLength": "short", "emojiUsage": "none", "structure": "list", "commonPhrases": ["let me explain"]}
		}`,
	}
}

func TestAnalysisService_AnalyzeProfile_InsufficientPosts(t *testing.T) {
	t.Parallel()

	hist := noopHistoricalRepo()
	hist.listRecentFn = func(_ context.Context, _ uint, _ int) ([]models.HistoricalPost, error) {
		posts := substantialHistory(4)
		posts = append(posts,
			models.HistoricalPost{ID: 90, UserID: 1, Content: "gm"},
			models.HistoricalPost{ID: 91, UserID: 1, Content: "   "},
		)
		return posts, nil
	}

	gen := noopGenerator()
	svc := NewAnalysisService(noopProfileRepo(), hist, gen, nil)

	_, err := svc.AnalyzeProfile(context.Background(), AnalyzeProfileInput{UserID: 1, ProfileID: 2})
	assertErrorCode(t, err, models.CodeInsufficientPosts)
	assert.Contains(t, err.Error(), "have 4")
	assert.Empty(t, gen.calls)
}

func TestAnalysisService_AnalyzeProfile(t *testing.T) {
	t.Parallel()

	hist := noopHistoricalRepo()
	hist.listRecentFn = func(_ context.Context, _ uint, limit int) ([]models.HistoricalPost, error) {
		assert.Equal(t, 25, limit)
		return substantialHistory(7), nil
	}

	updated := false
	profiles := noopProfileRepo()
	profiles.updateFn = func(_ context.Context, _ *models.Profile) error {
		updated = true
		return nil
	}

	gen := &generatorStub{
		generateFn: func(_ context.Context, _ llm.GenerateInput) (*llm.GenerateResult, error) {
			return styleResponse(), nil
		},
	}
	svc := NewAnalysisService(profiles, hist, gen, nil)

	analysis, err := svc.AnalyzeProfile(context.Background(), AnalyzeProfileInput{UserID: 1, ProfileID: 2})
	require.NoError(t, err)

	assert.Equal(t, 7, analysis.PostsAnalyzed)
	assert.InDelta(t, 0.5, analysis.Confidence, 0.001)
	assert.Equal(t, []string{"witty", "direct"}, analysis.ToneTags)
	assert.Equal(t, "short", analysis.StyleInsights.PostLength)

	assert.False(t, updated, "without the flag the profile stays untouched")

	require.Len(t, gen.calls, 1)
	assert.Contains(t, gen.calls[0].Prompt, "Post number 1")
	assert.Equal(t, "style_analysis", gen.calls[0].Operation)
}

func TestAnalysisService_AnalyzeProfile_ParsingError(t *testing.T) {
	t.Parallel()

	hist := noopHistoricalRepo()
	hist.listRecentFn = func(_ context.Context, _ uint, _ int) ([]models.HistoricalPost, error) {
		return substantialHistory(6), nil
	}

	gen := &generatorStub{
		generateFn: func(_ context.Context, _ llm.GenerateInput) (*llm.GenerateResult, error) {
			return &llm.GenerateResult{Text: "I'd say your style is pretty casual overall!"}, nil
		},
	}
	svc := NewAnalysisService(noopProfileRepo(), hist, gen, nil)

	_, err := svc.AnalyzeProfile(context.Background(), AnalyzeProfileInput{UserID: 1, ProfileID: 2})
	assertErrorCode(t, err, models.CodeParsingError)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "I'd say your style is pretty casual overall!", appErr.RawResponse)
}

func TestAnalysisService_AnalyzeProfile_AutoApply(t *testing.T) {
	t.Parallel()

	hist := noopHistoricalRepo()
	hist.listRecentFn = func(_ context.Context, _ uint, _ int) ([]models.HistoricalPost, error) {
		return substantialHistory(6), nil
	}

	var savedProfile *models.Profile
	profiles := noopProfileRepo()
	profiles.getByIDForUserFn = func(_ context.Context, id, userID uint) (*models.Profile, error) {
		return &models.Profile{
			ID:       id,
			UserID:   userID,
			Name:     "Main voice",
			ToneTags: models.StringList{"Witty"},
			DoRules:  models.StringList{"Keep it short"},
		}, nil
	}
	profiles.updateFn = func(_ context.Context, p *models.Profile) error {
		savedProfile = p
		return nil
	}

	gen := &generatorStub{
		generateFn: func(_ context.Context, _ llm.GenerateInput) (*llm.GenerateResult, error) {
			return styleResponse(), nil
		},
	}
	flags := featureflags.NewManager("analysis_auto_apply=on")
	svc := NewAnalysisService(profiles, hist, gen, flags)

	_, err := svc.AnalyzeProfile(context.Background(), AnalyzeProfileInput{UserID: 1, ProfileID: 2})
	require.NoError(t, err)

	require.NotNil(t, savedProfile)
	// "witty" already exists as "Witty"; only "direct" is new.
	assert.Equal(t, models.StringList{"Witty", "direct"}, savedProfile.ToneTags)
	assert.Equal(t, models.StringList{"Keep it short", "Open with a question"}, savedProfile.DoRules)
	assert.Equal(t, models.StringList{"No hashtags"}, savedProfile.DontRules)
	require.NotNil(t, savedProfile.StyleInsights)
	assert.Equal(t, "list", savedProfile.StyleInsights.Structure)
	assert.NotNil(t, savedProfile.AnalyzedAt)
}

func TestAnalysisService_AnalyzeProfile_ExplicitApplyOverridesFlag(t *testing.T) {
	t.Parallel()

	newService := func(updated *bool, flags *featureflags.Manager) *AnalysisService {
		hist := noopHistoricalRepo()
		hist.listRecentFn = func(_ context.Context, _ uint, _ int) ([]models.HistoricalPost, error) {
			return substantialHistory(6), nil
		}
		profiles := noopProfileRepo()
		profiles.updateFn = func(_ context.Context, _ *models.Profile) error {
			*updated = true
			return nil
		}
		gen := &generatorStub{
			generateFn: func(_ context.Context, _ llm.GenerateInput) (*llm.GenerateResult, error) {
				return styleResponse(), nil
			},
		}
		return NewAnalysisService(profiles, hist, gen, flags)
	}

	t.Run("false overrides an enabled flag", func(t *testing.T) {
		t.Parallel()
		updated := false
		svc := newService(&updated, featureflags.NewManager("analysis_auto_apply=on"))

		_, err := svc.AnalyzeProfile(context.Background(), AnalyzeProfileInput{
			UserID: 1, ProfileID: 2, AutoApply: boolPtr(false),
		})
		require.NoError(t, err)
		assert.False(t, updated)
	})

	t.Run("true applies without any flag", func(t *testing.T) {
		t.Parallel()
		updated := false
		svc := newService(&updated, nil)

		_, err := svc.AnalyzeProfile(context.Background(), AnalyzeProfileInput{
			UserID: 1, ProfileID: 2, AutoApply: boolPtr(true),
		})
		require.NoError(t, err)
		assert.True(t, updated)
	})
}

func TestAnalysisService_GetAnalysisStats(t *testing.T) {
	t.Parallel()

	hist := noopHistoricalRepo()
	hist.countByUserFn = func(_ context.Context, _ uint) (int64, error) { return 30, nil }
	hist.listRecentFn = func(_ context.Context, _ uint, _ int) ([]models.HistoricalPost, error) {
		posts := substantialHistory(20)
		for i := 0; i < 5; i++ {
			posts = append(posts, models.HistoricalPost{ID: uint(100 + i), UserID: 1, Content: "ok"})
		}
		return posts, nil
	}

	svc := NewAnalysisService(noopProfileRepo(), hist, noopGenerator(), nil)

	stats, err := svc.GetAnalysisStats(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.Equal(t, uint(2), stats.ProfileID)
	assert.Equal(t, int64(30), stats.TotalPosts)
	assert.Equal(t, 20, stats.UsablePosts)
	assert.InDelta(t, 0.85, stats.Confidence, 0.001)
	assert.False(t, stats.Analyzed)
	assert.Nil(t, stats.AnalyzedAt)
}

func TestAnalysisService_GetAnalysisStats_ProfileNotFound(t *testing.T) {
	t.Parallel()

	profiles := noopProfileRepo()
	profiles.getByIDForUserFn = func(_ context.Context, id, _ uint) (*models.Profile, error) {
		return nil, models.NewNotFoundError("Profile", id)
	}
	svc := NewAnalysisService(profiles, noopHistoricalRepo(), noopGenerator(), nil)

	_, err := svc.GetAnalysisStats(context.Background(), 9, 2)
	assertErrorCode(t, err, models.CodeNotFound)
}
