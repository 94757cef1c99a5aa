// Package llm wraps the Gemini API behind a small Generator interface and
// enforces client-side rate limits so the provider's quota is never the
// first thing to reject a request.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

// systemInstruction is sent with every generation request. Task-specific
// instructions live in the prompts built by internal/prompt.
const systemInstruction = `You are an expert social media ghostwriter. You write posts that sound like a specific person, not like marketing copy. Follow the style, tone and platform constraints you are given exactly. Never mention that you are an AI and never add commentary about the task itself.`

// defaultRetryAfterSeconds is used when the provider rejects a request for
// quota reasons without telling us how long to back off.
const defaultRetryAfterSeconds = 30

// estimatedCharsPerToken is the conservative chars-to-tokens ratio used for
// pre-flight budget checks before the real token count is known.
const estimatedCharsPerToken = 4

// Usage reports token consumption for a single generation call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerateInput carries one generation request. Zero values for MaxTokens
// and Temperature fall back to the configured defaults.
type GenerateInput struct {
	Prompt      string
	Operation   string
	MaxTokens   int32
	Temperature *float64
}

// GenerateResult is the trimmed model output plus its token accounting.
type GenerateResult struct {
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
}

// Generator is the slice of the LLM client the orchestration services
// depend on. Tests substitute it with stubs.
type Generator interface {
	Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error)
}

// generateFunc matches genai's Models.GenerateContent. Holding the call
// behind a function field lets tests exercise the full error-mapping and
// accounting paths without network traffic.
type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Client is the production Generator backed by the Gemini API.
type Client struct {
	model           string
	maxOutputTokens int32
	temperature     float64
	limiter         *RateLimiter
	generate        generateFunc
}

// ClientConfig holds the settings NewClient needs. Values mirror the
// LLM_* keys in internal/config.
type ClientConfig struct {
	APIKey          string
	Model           string
	MaxOutputTokens int32
	Temperature     float64
}

// NewClient builds a Gemini-backed client. A missing API key is not a
// construction error: the server must boot without one, and Generate
// reports API_KEY_MISSING when called.
func NewClient(ctx context.Context, cfg ClientConfig, limiter *RateLimiter) (*Client, error) {
	client := &Client{
		model:           cfg.Model,
		maxOutputTokens: cfg.MaxOutputTokens,
		temperature:     cfg.Temperature,
		limiter:         limiter,
	}

	if cfg.APIKey == "" {
		return client, nil
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client init failed: %w", err)
	}
	client.generate = gc.Models.GenerateContent

	return client, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate sends one prompt to the model and returns the trimmed text.
// All failures come back as *models.AppError with a code from the LLM
// error taxonomy.
func (c *Client) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, models.NewValidationError("Prompt must not be empty")
	}
	if c.generate == nil {
		return nil, models.NewLLMError(models.CodeAPIKeyMissing,
			"Gemini API key is not configured", nil)
	}

	if err := c.limiter.Allow(EstimateTokens(in.Prompt)); err != nil {
		return nil, err
	}

	operation := in.Operation
	if operation == "" {
		operation = "generate"
	}

	requestID := uuid.New().String()
	ctx, span := observability.GetTraceLayer().TraceLLMCall(ctx, c.model, operation)
	defer span.End()

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		MaxOutputTokens:   c.maxOutputTokens,
		Temperature:       genai.Ptr(float32(c.temperature)),
	}
	if in.MaxTokens > 0 {
		config.MaxOutputTokens = in.MaxTokens
	}
	if in.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*in.Temperature))
	}

	start := time.Now()
	resp, err := c.generate(ctx, c.model, genai.Text(in.Prompt), config)
	if err != nil {
		appErr := mapProviderError(err)
		span.RecordError(err)
		observability.RecordLLMRequest(c.model, appErr.Code)
		middleware.Logger.ErrorContext(ctx, "LLM generation failed",
			slog.String("llm_request_id", requestID),
			slog.String("model", c.model),
			slog.String("operation", operation),
			slog.String("code", appErr.Code),
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err),
		)
		return nil, appErr
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		observability.RecordLLMRequest(c.model, models.CodeEmptyResponse)
		return nil, models.NewLLMError(models.CodeEmptyResponse,
			"Model returned an empty response", nil)
	}

	usage := usageFrom(resp)
	c.limiter.RecordUsage(usage.TotalTokens)
	observability.RecordLLMRequest(c.model, "success")
	observability.RecordLLMTokens(usage.PromptTokens, usage.CompletionTokens)

	middleware.Logger.InfoContext(ctx, "LLM generation complete",
		slog.String("llm_request_id", requestID),
		slog.String("model", c.model),
		slog.String("operation", operation),
		slog.Int("prompt_tokens", usage.PromptTokens),
		slog.Int("completion_tokens", usage.CompletionTokens),
		slog.Duration("elapsed", time.Since(start)),
	)

	return &GenerateResult{Text: text, Usage: usage}, nil
}

// EstimateTokens approximates the token count of a prompt before it is sent.
func EstimateTokens(text string) int {
	return len(text) / estimatedCharsPerToken
}

// responseText flattens the first candidate's parts into one string.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// usageFrom extracts token counts, defaulting to zero when the provider
// omits usage metadata.
func usageFrom(resp *genai.GenerateContentResponse) Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return Usage{}
	}
	u := Usage{
		PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
		CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
	}
	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	return u
}

// mapProviderError converts a genai error into the application's LLM error
// taxonomy. Structured APIErrors are matched on HTTP status; everything
// else falls back to message sniffing because the SDK does not always
// surface a typed error.
func mapProviderError(err error) *models.AppError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return models.NewLLMError(models.CodeInvalidAPIKey,
				"Gemini API key was rejected", err)
		case apiErr.Code == http.StatusTooManyRequests:
			return &models.AppError{
				Code:       models.CodeRateLimited,
				Message:    "Gemini API quota exceeded",
				Err:        err,
				RetryAfter: defaultRetryAfterSeconds,
			}
		case apiErr.Code == http.StatusServiceUnavailable:
			return models.NewLLMError(models.CodeServiceUnavailable,
				"Gemini API is temporarily unavailable", err)
		case apiErr.Code >= http.StatusBadRequest:
			return models.NewLLMError(models.CodeAPIError,
				fmt.Sprintf("Gemini API error (HTTP %d)", apiErr.Code), err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"):
		return models.NewLLMError(models.CodeInvalidAPIKey,
			"Gemini API key was rejected", err)
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "exhausted"):
		return &models.AppError{
			Code:       models.CodeRateLimited,
			Message:    "Gemini API quota exceeded",
			Err:        err,
			RetryAfter: defaultRetryAfterSeconds,
		}
	case strings.Contains(msg, "503") || strings.Contains(msg, "unavailable") || strings.Contains(msg, "overloaded"):
		return models.NewLLMError(models.CodeServiceUnavailable,
			"Gemini API is temporarily unavailable", err)
	}
	return models.NewLLMError(models.CodeGenerationFailed,
		"Text generation failed", err)
}
