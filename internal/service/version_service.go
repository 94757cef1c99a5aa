package service

import (
	"context"
	"strings"

	"inkwell/internal/llm"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/prompt"
	"inkwell/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// VersionService drives the post-version state machine: iterating on the
// selected version, switching the selection and reading version history.
type VersionService struct {
	postRepo    repository.PostRepository
	versionRepo repository.PostVersionRepository
	generator   llm.Generator
}

type IterateInput struct {
	UserID    uint
	PostID    uint
	Type      string
	Feedback  string
	MaxTokens int32
}

func NewVersionService(
	postRepo repository.PostRepository,
	versionRepo repository.PostVersionRepository,
	generator llm.Generator,
) *VersionService {
	return &VersionService{
		postRepo:    postRepo,
		versionRepo: versionRepo,
		generator:   generator,
	}
}

// Iterate rewrites the currently selected version according to the
// requested change and appends the result as the new selected version.
func (s *VersionService) Iterate(ctx context.Context, in IterateInput) (appended *models.PostVersion, err error) {
	span, ctx := observability.NewSpan(ctx, "generation.iteration",
		observability.WithSpanKind(observability.SpanKindInternal))
	defer func() {
		span.SetError(err)
		span.End()
	}()
	done := observability.TrackGeneration("iteration")
	defer done()

	iterationType := prompt.IterationType(in.Type)
	if in.Type == "" && strings.TrimSpace(in.Feedback) != "" {
		iterationType = prompt.IterationCustom
	}
	span.AddAttributes(attribute.String("iteration.type", string(iterationType)))

	instruction, err := prompt.IterationInstruction(iterationType, in.Feedback)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByIDForUser(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	current, err := s.versionRepo.GetSelected(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	result, err := s.generator.Generate(ctx, llm.GenerateInput{
		Prompt:    prompt.BuildIterationPrompt(current.GeneratedText, instruction),
		Operation: "iteration",
		MaxTokens: in.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	// The stored prompt is what the user asked for: the type name, or the
	// raw feedback for custom iterations.
	stored := string(iterationType)
	if iterationType == prompt.IterationCustom {
		stored = strings.TrimSpace(in.Feedback)
	}

	version := &models.PostVersion{
		GeneratedText:    result.Text,
		IterationPrompt:  &stored,
		PromptTokens:     &result.Usage.PromptTokens,
		CompletionTokens: &result.Usage.CompletionTokens,
		TotalTokens:      &result.Usage.TotalTokens,
	}
	return s.versionRepo.AppendSelected(ctx, post.ID, version)
}

// SelectVersion makes the given version the selected one for its post.
func (s *VersionService) SelectVersion(ctx context.Context, userID, postID, versionID uint) (*models.PostVersion, error) {
	if _, err := s.postRepo.GetByIDForUser(ctx, postID, userID); err != nil {
		return nil, err
	}
	return s.versionRepo.Select(ctx, postID, versionID)
}

// GetVersions lists a post's versions ordered by version number.
func (s *VersionService) GetVersions(ctx context.Context, userID, postID uint) ([]models.PostVersion, error) {
	if _, err := s.postRepo.GetByIDForUser(ctx, postID, userID); err != nil {
		return nil, err
	}
	return s.versionRepo.ListByPost(ctx, postID)
}

// GetVersion returns a single version of an owned post.
func (s *VersionService) GetVersion(ctx context.Context, userID, postID, versionID uint) (*models.PostVersion, error) {
	if _, err := s.postRepo.GetByIDForUser(ctx, postID, userID); err != nil {
		return nil, err
	}
	return s.versionRepo.GetByID(ctx, postID, versionID)
}
