package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"

	"inkwell/internal/llm"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/parser"
	"inkwell/internal/prompt"
	"inkwell/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Context resolution modes for idea generation.
const (
	IdeaModeAuto   = "auto"
	IdeaModeManual = "manual"
	IdeaModeCustom = "custom"
)

const (
	maxIdeaCount = 10

	// Topic exclusions: first sentence of each recent post, capped.
	recentTopicSourceLimit = 10
	maxRecentTopics        = 5
	maxTopicLen            = 100

	// Retry only parsing failures, three attempts total.
	ideaMaxAttempts  = 3
	ideaRetryBackoff = 500 * time.Millisecond

	minContextKeywordLen = 4
)

// IdeaService turns the user's writing resources into persisted post ideas.
type IdeaService struct {
	ideaRepo       repository.IdeaRepository
	historicalRepo repository.HistoricalPostRepository
	profileRepo    repository.ProfileRepository
	projectRepo    repository.ProjectRepository
	platformRepo   repository.PlatformRepository
	generator      llm.Generator

	retry RetryPolicy
	sleep func(ctx context.Context, d time.Duration) error
}

type GenerateIdeasInput struct {
	UserID        uint
	Mode          string
	ProfileID     *uint
	ProjectID     *uint
	PlatformID    *uint
	CustomContext string
	Count         int
}

// IdeaBatch reports persistence per item: ideas that saved and the ones
// that did not, so one bad row never hides the rest.
type IdeaBatch struct {
	Ideas  []models.GeneratedIdea `json:"ideas"`
	Failed []IdeaSaveFailure      `json:"failed,omitempty"`
}

type IdeaSaveFailure struct {
	Title string `json:"title"`
	Error string `json:"error"`
}

func NewIdeaService(
	ideaRepo repository.IdeaRepository,
	historicalRepo repository.HistoricalPostRepository,
	profileRepo repository.ProfileRepository,
	projectRepo repository.ProjectRepository,
	platformRepo repository.PlatformRepository,
	generator llm.Generator,
) *IdeaService {
	return &IdeaService{
		ideaRepo:       ideaRepo,
		historicalRepo: historicalRepo,
		profileRepo:    profileRepo,
		projectRepo:    projectRepo,
		platformRepo:   platformRepo,
		generator:      generator,
		retry:          NewParseRetryPolicy(ideaMaxAttempts, ideaRetryBackoff),
		sleep:          sleepContext,
	}
}

// GenerateIdeas resolves context for the requested mode, calls the model
// with recent-topic exclusions, post-processes the parsed ideas and
// persists them one by one.
func (s *IdeaService) GenerateIdeas(ctx context.Context, in GenerateIdeasInput) (batch *IdeaBatch, err error) {
	span, ctx := observability.NewSpan(ctx, "generation.ideas",
		observability.WithSpanKind(observability.SpanKindInternal))
	defer func() {
		span.SetError(err)
		span.End()
	}()
	done := observability.TrackGeneration("ideas")
	defer done()

	ic, err := s.resolveContext(ctx, in)
	if err != nil {
		return nil, err
	}

	recent, err := s.historicalRepo.ListRecent(ctx, in.UserID, recentTopicSourceLimit)
	if err != nil {
		return nil, err
	}
	ic.RecentTopics = recentTopics(recent)

	ic.Count = in.Count
	if ic.Count <= 0 {
		ic.Count = 0 // builder default
	}
	if ic.Count > maxIdeaCount {
		ic.Count = maxIdeaCount
	}

	parsed, err := s.generateWithRetry(ctx, prompt.BuildIdeasPrompt(ic))
	if err != nil {
		return nil, err
	}

	keywords := contextKeywords(ic.Profile, ic.Project, ic.Platform)
	batch = &IdeaBatch{}
	seen := make(map[string]bool, len(parsed))
	var ideas []models.GeneratedIdea
	for _, p := range parsed {
		fingerprint := titleFingerprint(p.Title)
		if seen[fingerprint] {
			continue
		}
		seen[fingerprint] = true

		score := p.RelevanceScore
		if recomputed := recomputedRelevance(p, keywords); recomputed > score {
			score = recomputed
		}

		ideas = append(ideas, models.GeneratedIdea{
			UserID:         in.UserID,
			Title:          p.Title,
			Description:    p.Description,
			Tags:           models.StringList(withContentTypeTag(p.Tags, p.ContentType)),
			RelevanceScore: score,
			ContentType:    p.ContentType,
			Format:         string(prompt.DetectFormat("", p.Title+" "+p.Description)),
		})
	}
	sort.SliceStable(ideas, func(i, j int) bool {
		return ideas[i].RelevanceScore > ideas[j].RelevanceScore
	})

	for i := range ideas {
		if err := s.ideaRepo.Create(ctx, &ideas[i]); err != nil {
			batch.Failed = append(batch.Failed, IdeaSaveFailure{Title: ideas[i].Title, Error: err.Error()})
			continue
		}
		batch.Ideas = append(batch.Ideas, ideas[i])
	}
	span.AddAttributes(
		attribute.Int("generation.ideas_persisted", len(batch.Ideas)),
		attribute.Int("generation.ideas_failed", len(batch.Failed)),
	)
	return batch, nil
}

func (s *IdeaService) ListIdeas(ctx context.Context, userID uint, limit, offset int) ([]models.GeneratedIdea, error) {
	return s.ideaRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *IdeaService) DeleteIdea(ctx context.Context, id, userID uint) error {
	return s.ideaRepo.Delete(ctx, id, userID)
}

// resolveContext loads the writing resources for the requested mode.
func (s *IdeaService) resolveContext(ctx context.Context, in GenerateIdeasInput) (prompt.IdeasContext, error) {
	ic := prompt.IdeasContext{CustomContext: strings.TrimSpace(in.CustomContext)}

	mode := in.Mode
	if mode == "" {
		mode = IdeaModeAuto
	}

	switch mode {
	case IdeaModeAuto:
		var err error
		if ic.Profile, err = s.profileRepo.GetMostRecent(ctx, in.UserID); err != nil {
			return ic, err
		}
		if ic.Project, err = s.projectRepo.GetMostRecent(ctx, in.UserID); err != nil {
			return ic, err
		}
		if ic.Platform, err = s.platformRepo.GetMostRecent(ctx, in.UserID); err != nil {
			return ic, err
		}
		if ic.Profile == nil && ic.Project == nil && ic.Platform == nil {
			return ic, models.NewNoResourcesError("No profile, project or platform found; create one or use custom context")
		}

	case IdeaModeManual:
		if in.ProfileID == nil && in.ProjectID == nil && in.PlatformID == nil && ic.CustomContext == "" {
			return ic, models.NewInsufficientContextError("Provide at least one resource ID or custom context")
		}
		var err error
		if in.ProfileID != nil {
			if ic.Profile, err = s.profileRepo.GetByIDForUser(ctx, *in.ProfileID, in.UserID); err != nil {
				return ic, err
			}
		}
		if in.ProjectID != nil {
			if ic.Project, err = s.projectRepo.GetByIDForUser(ctx, *in.ProjectID, in.UserID); err != nil {
				return ic, err
			}
		}
		if in.PlatformID != nil {
			if ic.Platform, err = s.platformRepo.GetByIDForUser(ctx, *in.PlatformID, in.UserID); err != nil {
				return ic, err
			}
		}

	case IdeaModeCustom:
		if ic.CustomContext == "" {
			return ic, models.NewInsufficientContextError("Custom mode requires custom context")
		}

	default:
		return ic, models.NewValidationError("Mode must be one of: auto, manual, custom")
	}

	return ic, nil
}

// generateWithRetry calls the model and parses ideas, retrying parse
// failures with a lowered temperature.
func (s *IdeaService) generateWithRetry(ctx context.Context, ideasPrompt string) ([]parser.ParsedIdea, error) {
	attempt := 0
	for {
		attempt++

		result, err := s.generator.Generate(ctx, llm.GenerateInput{
			Prompt:      ideasPrompt,
			Operation:   "ideas",
			Temperature: temperatureForAttempt(attempt),
		})
		if err == nil {
			var parsed []parser.ParsedIdea
			if parsed, err = parser.ParseIdeas(result.Text); err == nil {
				return parsed, nil
			}
		}

		delay, retryable := s.retry(attempt, err)
		if !retryable {
			return nil, err
		}
		slog.WarnContext(ctx, "idea generation attempt failed, retrying",
			"attempt", attempt, "delay", delay.String(), "err", err)
		if err := s.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// temperatureForAttempt keeps the client default on the first attempt and
// lowers the temperature on retries to coax parseable output.
func temperatureForAttempt(attempt int) *float64 {
	switch attempt {
	case 1:
		return nil
	case 2:
		t := 0.5
		return &t
	default:
		t := 0.3
		return &t
	}
}

// recentTopics extracts the first sentence of each recent post as a
// don't-repeat exclusion, skipping sentences that run long.
func recentTopics(posts []models.HistoricalPost) []string {
	var topics []string
	for _, post := range posts {
		if len(topics) >= maxRecentTopics {
			break
		}
		sentence := firstSentence(post.Content)
		if sentence == "" || len([]rune(sentence)) > maxTopicLen {
			continue
		}
		topics = append(topics, sentence)
	}
	return topics
}

func firstSentence(content string) string {
	content = strings.TrimSpace(content)
	if idx := strings.IndexAny(content, ".!?\n"); idx >= 0 {
		content = content[:idx]
	}
	return strings.TrimSpace(content)
}

// contextKeywords flattens the resolved resources into a lowercase keyword
// list for relevance recomputation.
func contextKeywords(profile *models.Profile, project *models.Project, platform *models.Platform) []string {
	seen := make(map[string]bool)
	var keywords []string
	add := func(word string) {
		word = strings.ToLower(strings.TrimSpace(word))
		if len(word) < minContextKeywordLen || seen[word] {
			return
		}
		seen[word] = true
		keywords = append(keywords, word)
	}

	if profile != nil {
		for _, tag := range profile.ToneTags {
			add(tag)
		}
	}
	if project != nil {
		for _, word := range strings.Fields(project.TargetAudience) {
			add(strings.Trim(word, ".,;:"))
		}
	}
	if platform != nil {
		for _, kw := range platform.Keywords {
			add(kw)
		}
	}
	return keywords
}

// recomputedRelevance scores an idea by keyword overlap with the user's
// resources. Zero when there is nothing to match against, so the model's
// own score wins.
func recomputedRelevance(idea parser.ParsedIdea, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	text := strings.ToLower(idea.Title + " " + idea.Description + " " + strings.Join(idea.Tags, " "))
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matches++
		}
	}
	if matches == 0 {
		return 0
	}
	return parser.ClampRelevance(0.55 + 0.1*float64(matches))
}

// withContentTypeTag appends the content type as a tag when absent.
func withContentTypeTag(tags []string, contentType string) []string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "" || len(tags) >= 10 {
		return tags
	}
	for _, tag := range tags {
		if tag == contentType {
			return tags
		}
	}
	return append(tags, contentType)
}

// titleFingerprint normalizes a title for duplicate detection.
func titleFingerprint(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
