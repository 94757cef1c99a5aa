package service

import (
	"context"
	"strings"

	"inkwell/internal/llm"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/prompt"
	"inkwell/internal/relevance"
	"inkwell/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// contextCandidateLimit bounds how much history the ranker considers.
	contextCandidateLimit = 50
	// exampleTokenBudget caps the prompt space spent on past-post examples.
	exampleTokenBudget = 2000

	maxRawIdeaLen = 2000
	maxGoalLen    = 500
)

// PostService generates new posts from a raw idea and serves the post CRUD
// surface around them.
type PostService struct {
	postRepo       repository.PostRepository
	historicalRepo repository.HistoricalPostRepository
	profileRepo    repository.ProfileRepository
	projectRepo    repository.ProjectRepository
	platformRepo   repository.PlatformRepository
	generator      llm.Generator
}

type GeneratePostInput struct {
	UserID        uint
	RawIdea       string
	Goal          string
	CustomContext string
	ProfileID     *uint
	ProjectID     *uint
	PlatformID    *uint
	MaxTokens     int32
}

func NewPostService(
	postRepo repository.PostRepository,
	historicalRepo repository.HistoricalPostRepository,
	profileRepo repository.ProfileRepository,
	projectRepo repository.ProjectRepository,
	platformRepo repository.PlatformRepository,
	generator llm.Generator,
) *PostService {
	return &PostService{
		postRepo:       postRepo,
		historicalRepo: historicalRepo,
		profileRepo:    profileRepo,
		projectRepo:    projectRepo,
		platformRepo:   platformRepo,
		generator:      generator,
	}
}

// Generate produces the first version of a post: it resolves the caller's
// writing resources, ranks historical posts into the prompt, calls the
// model and persists the post together with version #1.
func (s *PostService) Generate(ctx context.Context, in GeneratePostInput) (post *models.Post, err error) {
	span, ctx := observability.NewSpan(ctx, "generation.post_generation",
		observability.WithSpanKind(observability.SpanKindInternal))
	defer func() {
		span.SetError(err)
		span.End()
	}()
	done := observability.TrackGeneration("post_generation")
	defer done()

	rawIdea := strings.TrimSpace(in.RawIdea)
	if rawIdea == "" {
		return nil, models.NewValidationError("Raw idea is required")
	}
	if len(rawIdea) > maxRawIdeaLen {
		return nil, models.NewValidationError("Raw idea too long (max 2000 characters)")
	}
	if len(in.Goal) > maxGoalLen {
		return nil, models.NewValidationError("Goal too long (max 500 characters)")
	}

	gc := prompt.GenerationContext{
		RawIdea:       rawIdea,
		Goal:          strings.TrimSpace(in.Goal),
		CustomContext: strings.TrimSpace(in.CustomContext),
	}

	if in.ProfileID != nil {
		if gc.Profile, err = s.profileRepo.GetByIDForUser(ctx, *in.ProfileID, in.UserID); err != nil {
			return nil, err
		}
	}
	if in.ProjectID != nil {
		if gc.Project, err = s.projectRepo.GetByIDForUser(ctx, *in.ProjectID, in.UserID); err != nil {
			return nil, err
		}
	}
	if in.PlatformID != nil {
		if gc.Platform, err = s.platformRepo.GetByIDForUser(ctx, *in.PlatformID, in.UserID); err != nil {
			return nil, err
		}
	}

	history, err := s.historicalRepo.ListRecent(ctx, in.UserID, contextCandidateLimit)
	if err != nil {
		return nil, err
	}
	opts := relevance.DefaultOptions()
	opts.PlatformID = in.PlatformID
	gc.Examples = relevance.FitBudget(relevance.Select(history, opts), exampleTokenBudget)
	span.AddAttributes(attribute.Int("generation.context_examples", len(gc.Examples)))

	result, err := s.generator.Generate(ctx, llm.GenerateInput{
		Prompt:    prompt.BuildGenerationPrompt(gc),
		Operation: "post_generation",
		MaxTokens: in.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	post = &models.Post{
		UserID:        in.UserID,
		RawIdea:       rawIdea,
		Goal:          gc.Goal,
		GeneratedText: result.Text,
		ProfileID:     in.ProfileID,
		ProjectID:     in.ProjectID,
		PlatformID:    in.PlatformID,
	}
	version := &models.PostVersion{
		GeneratedText:    result.Text,
		PromptTokens:     &result.Usage.PromptTokens,
		CompletionTokens: &result.Usage.CompletionTokens,
		TotalTokens:      &result.Usage.TotalTokens,
	}
	if err := s.postRepo.CreateWithInitialVersion(ctx, post, version); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id, userID uint) (*models.Post, error) {
	return s.postRepo.GetByIDForUser(ctx, id, userID)
}

func (s *PostService) ListPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.postRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *PostService) DeletePost(ctx context.Context, id, userID uint) error {
	return s.postRepo.Delete(ctx, id, userID)
}
