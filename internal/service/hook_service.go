package service

import (
	"context"
	"sort"
	"strings"

	"inkwell/internal/llm"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/parser"
	"inkwell/internal/prompt"
	"inkwell/internal/repository"
)

const (
	defaultHookVariants = 2
	maxHookVariants     = 5
	maxHookTypesPerPost = 3
)

// HookService generates opening-line suggestions, either for a raw idea or
// for an existing post. The parser's fallback cascade guarantees a full set
// of hooks, so there is no retry loop here.
type HookService struct {
	postRepo  repository.PostRepository
	generator llm.Generator
}

func NewHookService(postRepo repository.PostRepository, generator llm.Generator) *HookService {
	return &HookService{postRepo: postRepo, generator: generator}
}

// GenerateFromIdea produces one hook per canonical type for a raw idea.
func (s *HookService) GenerateFromIdea(ctx context.Context, userID uint, idea string) (hooks []models.Hook, err error) {
	span, ctx := observability.NewSpan(ctx, "generation.hooks",
		observability.WithSpanKind(observability.SpanKindInternal))
	defer func() {
		span.SetError(err)
		span.End()
	}()
	done := observability.TrackGeneration("hooks")
	defer done()

	idea = strings.TrimSpace(idea)
	if idea == "" {
		return nil, models.NewValidationError("Idea is required")
	}

	result, err := s.generator.Generate(ctx, llm.GenerateInput{
		Prompt:    prompt.BuildHooksPrompt(idea, models.HookTypes, 1),
		Operation: "hooks",
	})
	if err != nil {
		return nil, err
	}
	return parser.ParseHooks(result.Text, len(models.HookTypes)), nil
}

// GenerateFromPost produces variant hooks for an existing post, restricted
// to the 2-3 hook types that fit its content, sorted by estimated
// engagement.
func (s *HookService) GenerateFromPost(ctx context.Context, userID, postID uint, variants int) (hooks []models.Hook, err error) {
	span, ctx := observability.NewSpan(ctx, "generation.hooks",
		observability.WithSpanKind(observability.SpanKindInternal))
	defer func() {
		span.SetError(err)
		span.End()
	}()
	done := observability.TrackGeneration("hooks")
	defer done()

	post, err := s.postRepo.GetByIDForUser(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(post.GeneratedText) == "" {
		return nil, models.NewValidationError("Post has no generated text to build hooks from")
	}

	if variants <= 0 {
		variants = defaultHookVariants
	}
	if variants > maxHookVariants {
		variants = maxHookVariants
	}

	types := detectRelevantHookTypes(post.GeneratedText, post.Goal)
	result, err := s.generator.Generate(ctx, llm.GenerateInput{
		Prompt:    prompt.BuildHooksPrompt(post.GeneratedText, types, variants),
		Operation: "hooks",
	})
	if err != nil {
		return nil, err
	}

	hooks = parser.ParseHooks(result.Text, len(types)*variants)
	sort.SliceStable(hooks, func(i, j int) bool {
		return hooks[i].EstimatedEngagement > hooks[j].EstimatedEngagement
	})
	return hooks, nil
}

var hookTypeHints = map[string][]string{
	models.HookTypeQuestion:    {"?", "what if", "how do", "why do", "have you"},
	models.HookTypeStat:        {"%", " percent", "data", "study", "survey", "number", "metric"},
	models.HookTypeStory:       {"i ", "my ", "we ", "our ", "journey", "learned", "story", "last year", "years ago"},
	models.HookTypeBoldOpinion: {"should", "never", "always", "stop ", "overrated", "wrong", "unpopular", "hot take"},
}

// detectRelevantHookTypes scores each hook type by keyword hits against the
// post text and goal, keeping the 2-3 best matches. Question and story are
// the fallback pair when nothing scores.
func detectRelevantHookTypes(text, goal string) []string {
	haystack := " " + strings.ToLower(text+" "+goal) + " "

	scores := make(map[string]int, len(hookTypeHints))
	for hookType, hints := range hookTypeHints {
		for _, hint := range hints {
			scores[hookType] += strings.Count(haystack, hint)
		}
	}

	var matched []string
	for _, hookType := range models.HookTypes {
		if scores[hookType] > 0 {
			matched = append(matched, hookType)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return scores[matched[i]] > scores[matched[j]]
	})
	if len(matched) > maxHookTypesPerPost {
		matched = matched[:maxHookTypesPerPost]
	}

	for _, fallback := range []string{models.HookTypeQuestion, models.HookTypeStory} {
		if len(matched) >= 2 {
			break
		}
		if !containsString(matched, fallback) {
			matched = append(matched, fallback)
		}
	}
	return matched
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
