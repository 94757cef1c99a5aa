// Package relevance ranks a user's historical posts and picks the subset
// worth embedding in a prompt as style examples. Selection is a pure
// function over in-memory data so it can be unit-tested without a store.
package relevance

import (
	"math"
	"sort"
	"time"

	"inkwell/internal/models"
)

// DefaultMaxPosts is the example count used when the caller does not say.
const DefaultMaxPosts = 5

const (
	charsPerToken = 4
	// headerTokens covers the fixed framing text around the examples
	// section of a prompt.
	headerTokens = 120
	// postOverheadChars covers the per-example label and separator lines.
	postOverheadChars = 64
)

// Content between these lengths reads like a well-developed LinkedIn-style
// post and earns a small ranking bonus.
const (
	idealLengthMin = 1200
	idealLengthMax = 1800
)

const (
	engagementWeight   = 1.0
	recencyWeight      = 2.0
	platformMatchBonus = 1.5
	idealLengthBonus   = 0.5
	// recencyDecayDays controls how fast old posts fade: a post this many
	// days old scores 1/e of a fresh one.
	recencyDecayDays = 45.0
)

// Options controls one selection. The zero value of IncludeFallback keeps
// non-matching posts out, so callers doing platform filtering should set it
// explicitly; DefaultOptions returns the usual configuration.
type Options struct {
	MaxPosts        int
	PlatformID      *uint
	IncludeFallback bool
}

// DefaultOptions is the standard configuration: five posts, no platform
// filter, fallback enabled.
func DefaultOptions() Options {
	return Options{MaxPosts: DefaultMaxPosts, IncludeFallback: true}
}

type rankedPost struct {
	post          models.HistoricalPost
	score         float64
	platformMatch bool
}

// Select ranks posts and returns at most opts.MaxPosts of them, best first.
// When a platform filter is set and IncludeFallback is true, matching posts
// take priority and the remainder is backfilled with the best non-matching
// ones; with IncludeFallback false, non-matching posts are excluded.
func Select(posts []models.HistoricalPost, opts Options) []models.HistoricalPost {
	if opts.MaxPosts <= 0 {
		opts.MaxPosts = DefaultMaxPosts
	}

	ranked := rank(posts, opts, time.Now())
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].post.PublishedAt.After(ranked[j].post.PublishedAt)
	})

	out := make([]models.HistoricalPost, 0, opts.MaxPosts)
	if opts.PlatformID != nil && opts.IncludeFallback {
		for _, r := range ranked {
			if r.platformMatch && len(out) < opts.MaxPosts {
				out = append(out, r.post)
			}
		}
		for _, r := range ranked {
			if !r.platformMatch && len(out) < opts.MaxPosts {
				out = append(out, r.post)
			}
		}
		return out
	}

	for _, r := range ranked {
		if len(out) >= opts.MaxPosts {
			break
		}
		out = append(out, r.post)
	}
	return out
}

// SelectWithBudget ranks all posts with the default options and keeps the
// longest prefix whose estimated token cost stays within tokenBudget. It
// returns an empty slice when even the single best post exceeds the budget.
func SelectWithBudget(posts []models.HistoricalPost, tokenBudget int) []models.HistoricalPost {
	ranked := Select(posts, Options{MaxPosts: len(posts), IncludeFallback: true})
	return FitBudget(ranked, tokenBudget)
}

// FitBudget trims an already-ordered slice to the token budget, keeping a
// prefix. Order is preserved.
func FitBudget(ranked []models.HistoricalPost, tokenBudget int) []models.HistoricalPost {
	out := make([]models.HistoricalPost, 0, len(ranked))
	for i := range ranked {
		if EstimateTokens(append(out, ranked[i])) > tokenBudget {
			break
		}
		out = append(out, ranked[i])
	}
	return out
}

// EstimateTokens approximates the prompt cost of embedding posts as
// formatted examples. Zero posts cost zero tokens.
func EstimateTokens(posts []models.HistoricalPost) int {
	if len(posts) == 0 {
		return 0
	}
	chars := 0
	for i := range posts {
		chars += len(posts[i].Content) + postOverheadChars
	}
	return chars/charsPerToken + headerTokens
}

func rank(posts []models.HistoricalPost, opts Options, now time.Time) []rankedPost {
	ranked := make([]rankedPost, 0, len(posts))
	for i := range posts {
		p := posts[i]
		match := opts.PlatformID != nil && p.PlatformID != nil && *p.PlatformID == *opts.PlatformID
		if opts.PlatformID != nil && !match && !opts.IncludeFallback {
			continue
		}

		score := engagementWeight*engagementScore(&p) + recencyWeight*recencyScore(&p, now)
		if match {
			score += platformMatchBonus
		}
		if n := len(p.Content); n >= idealLengthMin && n <= idealLengthMax {
			score += idealLengthBonus
		}

		ranked = append(ranked, rankedPost{post: p, score: score, platformMatch: match})
	}
	return ranked
}

// engagementScore log-dampens the weighted engagement sum so one viral post
// cannot dominate every selection forever.
func engagementScore(p *models.HistoricalPost) float64 {
	likes, comments, shares, views := p.Engagement()
	raw := float64(likes) + 2*float64(comments) + 3*float64(shares) + float64(views)/10
	if raw < 0 {
		raw = 0
	}
	return math.Log1p(raw)
}

func recencyScore(p *models.HistoricalPost, now time.Time) float64 {
	age := now.Sub(p.PublishedAt)
	if age < 0 {
		age = 0
	}
	days := age.Hours() / 24
	return math.Exp(-days / recencyDecayDays)
}
