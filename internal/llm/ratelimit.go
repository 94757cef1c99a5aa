// Package llm wraps the Gemini text-generation API behind a rate-limited
// client with a typed error taxonomy.
package llm

import (
	"math"
	"sync"
	"time"

	"inkwell/internal/models"
)

// rateLimitWindow is the length of one budget window.
const rateLimitWindow = time.Minute

// RateLimiter is a coarse single-process budget guard for outbound model
// calls. It holds one window's request and token counters and resets them
// wholesale once the window age exceeds a minute; there is no partial decay.
// It is not a distributed limiter.
type RateLimiter struct {
	mu sync.Mutex

	maxRequests int
	maxTokens   int

	requestCount int
	tokenCount   int
	windowStart  time.Time

	// Clock returns the current time. Tests override it to simulate
	// window expiry without sleeping.
	Clock func() time.Time
}

// NewRateLimiter creates a limiter with independent request and token
// budgets per minute.
func NewRateLimiter(maxRequestsPerMinute, maxTokensPerMinute int) *RateLimiter {
	r := &RateLimiter{
		maxRequests: maxRequestsPerMinute,
		maxTokens:   maxTokensPerMinute,
		Clock:       time.Now,
	}
	r.windowStart = r.Clock()
	return r
}

// Allow consumes one request slot if both budgets have room, or fails with
// a RATE_LIMITED error carrying the seconds until the window expires.
// estimatedTokens is checked against the token budget but not consumed;
// actual token usage is recorded via RecordUsage after a successful call.
func (r *RateLimiter) Allow(estimatedTokens int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.resetIfExpired(now)

	if r.requestCount >= r.maxRequests {
		return models.NewRateLimitError(r.retryAfterLocked(now))
	}
	if estimatedTokens > 0 && r.tokenCount+estimatedTokens > r.maxTokens {
		return models.NewRateLimitError(r.retryAfterLocked(now))
	}

	r.requestCount++
	return nil
}

// RecordUsage adds the provider-reported token total to the current window.
// Callers invoke it only after a successful generation.
func (r *RateLimiter) RecordUsage(actualTokens int) {
	if actualTokens <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.resetIfExpired(r.now())
	r.tokenCount += actualTokens
}

// Snapshot returns the current window counters, for logging and tests.
func (r *RateLimiter) Snapshot() (requests, tokens int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resetIfExpired(r.now())
	return r.requestCount, r.tokenCount
}

func (r *RateLimiter) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

func (r *RateLimiter) resetIfExpired(now time.Time) {
	if now.Sub(r.windowStart) > rateLimitWindow {
		r.requestCount = 0
		r.tokenCount = 0
		r.windowStart = now
	}
}

func (r *RateLimiter) retryAfterLocked(now time.Time) int {
	remaining := rateLimitWindow - now.Sub(r.windowStart)
	seconds := int(math.Ceil(remaining.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
