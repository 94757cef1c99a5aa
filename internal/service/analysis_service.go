package service

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/featureflags"
	"inkwell/internal/llm"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/parser"
	"inkwell/internal/prompt"
	"inkwell/internal/relevance"
	"inkwell/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// minAnalyzablePosts is the floor below which analysis refuses to run;
	// minAnalyzableChars is what counts as a substantial post.
	minAnalyzablePosts = 5
	minAnalyzableChars = 20

	analysisPostLimit   = 25
	analysisTokenBudget = 6000

	autoApplyFlag = "analysis_auto_apply"
)

// AnalysisService runs style analysis over a user's historical posts and
// optionally merges the findings back into the profile.
type AnalysisService struct {
	profileRepo    repository.ProfileRepository
	historicalRepo repository.HistoricalPostRepository
	generator      llm.Generator
	flags          *featureflags.Manager
}

type AnalyzeProfileInput struct {
	UserID    uint
	ProfileID uint
	// AutoApply overrides the feature-flag default when set.
	AutoApply *bool
}

// AnalysisStats summarizes how much material is available for analysis and
// how confident a run over it would be.
type AnalysisStats struct {
	ProfileID   uint       `json:"profile_id"`
	TotalPosts  int64      `json:"total_posts"`
	UsablePosts int        `json:"usable_posts"`
	Confidence  float64    `json:"confidence"`
	Analyzed    bool       `json:"analyzed"`
	AnalyzedAt  *time.Time `json:"analyzed_at,omitempty"`
}

func NewAnalysisService(
	profileRepo repository.ProfileRepository,
	historicalRepo repository.HistoricalPostRepository,
	generator llm.Generator,
	flags *featureflags.Manager,
) *AnalysisService {
	return &AnalysisService{
		profileRepo:    profileRepo,
		historicalRepo: historicalRepo,
		generator:      generator,
		flags:          flags,
	}
}

// AnalyzeProfile runs style analysis for the profile's owner. There is no
// retry here: an unusable response surfaces as a parsing error with the
// raw output attached.
func (s *AnalysisService) AnalyzeProfile(ctx context.Context, in AnalyzeProfileInput) (analysis *models.StyleAnalysisResult, err error) {
	span, ctx := observability.NewSpan(ctx, "generation.style_analysis",
		observability.WithSpanKind(observability.SpanKindInternal))
	defer func() {
		span.SetError(err)
		span.End()
	}()
	done := observability.TrackGeneration("style_analysis")
	defer done()

	profile, err := s.profileRepo.GetByIDForUser(ctx, in.ProfileID, in.UserID)
	if err != nil {
		return nil, err
	}

	recent, err := s.historicalRepo.ListRecent(ctx, in.UserID, analysisPostLimit)
	if err != nil {
		return nil, err
	}
	usable := substantialPosts(recent)
	if len(usable) < minAnalyzablePosts {
		return nil, models.NewInsufficientPostsError(len(usable), minAnalyzablePosts)
	}

	selected := relevance.SelectWithBudget(usable, analysisTokenBudget)
	if len(selected) < minAnalyzablePosts {
		selected = usable[:minAnalyzablePosts]
	}

	result, err := s.generator.Generate(ctx, llm.GenerateInput{
		Prompt:    prompt.BuildStyleAnalysisPrompt(selected),
		Operation: "style_analysis",
	})
	if err != nil {
		return nil, err
	}

	analysis = parser.ParseStyleAnalysis(result.Text)
	if analysis == nil {
		return nil, models.NewParsingError("Style analysis response was unusable", result.Text)
	}
	analysis.PostsAnalyzed = len(selected)
	analysis.Confidence = confidenceFor(len(selected))
	span.AddAttributes(attribute.Int("analysis.posts_analyzed", len(selected)))

	apply := s.flags.Enabled(autoApplyFlag, in.UserID)
	if in.AutoApply != nil {
		apply = *in.AutoApply
	}
	if apply {
		if err := s.applyToProfile(ctx, profile, analysis); err != nil {
			return nil, err
		}
	}
	return analysis, nil
}

// GetAnalysisStats reports the analysis readiness of a profile. Results are
// cached briefly; profile updates invalidate the entry.
func (s *AnalysisService) GetAnalysisStats(ctx context.Context, userID, profileID uint) (*AnalysisStats, error) {
	profile, err := s.profileRepo.GetByIDForUser(ctx, profileID, userID)
	if err != nil {
		return nil, err
	}

	var stats AnalysisStats
	key := cache.AnalysisStatsKey(profileID)
	err = cache.Aside(ctx, key, &stats, cache.AnalysisStatsTTL, func() error {
		total, err := s.historicalRepo.CountByUser(ctx, userID)
		if err != nil {
			return err
		}
		recent, err := s.historicalRepo.ListRecent(ctx, userID, analysisPostLimit)
		if err != nil {
			return err
		}
		usable := len(substantialPosts(recent))

		stats = AnalysisStats{
			ProfileID:   profile.ID,
			TotalPosts:  total,
			UsablePosts: usable,
			Confidence:  confidenceFor(usable),
			Analyzed:    profile.AnalyzedAt != nil,
			AnalyzedAt:  profile.AnalyzedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// applyToProfile merges the analysis into the profile with case-insensitive
// de-duplication, keeping anything the user wrote by hand.
func (s *AnalysisService) applyToProfile(ctx context.Context, profile *models.Profile, analysis *models.StyleAnalysisResult) error {
	profile.ToneTags = mergeDistinct(profile.ToneTags, analysis.ToneTags)
	profile.DoRules = mergeDistinct(profile.DoRules, analysis.DoRules)
	profile.DontRules = mergeDistinct(profile.DontRules, analysis.DontRules)
	insights := analysis.StyleInsights
	profile.StyleInsights = &insights
	now := time.Now().UTC()
	profile.AnalyzedAt = &now
	return s.profileRepo.Update(ctx, profile)
}

func substantialPosts(posts []models.HistoricalPost) []models.HistoricalPost {
	var usable []models.HistoricalPost
	for _, post := range posts {
		if len(strings.TrimSpace(post.Content)) >= minAnalyzableChars {
			usable = append(usable, post)
		}
	}
	return usable
}

// confidenceFor maps the number of analyzed posts onto a step scale.
func confidenceFor(count int) float64 {
	switch {
	case count < 5:
		return 0.3
	case count < 10:
		return 0.5
	case count < 15:
		return 0.7
	case count < 25:
		return 0.85
	default:
		return 0.95
	}
}

// mergeDistinct appends additions that are not already present,
// case-insensitively, preserving order.
func mergeDistinct(existing models.StringList, additions []string) models.StringList {
	seen := make(map[string]bool, len(existing)+len(additions))
	merged := make(models.StringList, 0, len(existing)+len(additions))
	for _, item := range existing {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, item)
	}
	for _, item := range additions {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, strings.TrimSpace(item))
	}
	return merged
}
