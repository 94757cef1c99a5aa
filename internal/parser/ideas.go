package parser

import (
	"encoding/json"
	"strings"

	"inkwell/internal/models"
)

const (
	maxIdeaTags      = 10
	maxIdeaTitleLen  = 255
	defaultRelevance = 0.5
)

// ParsedIdea is one idea extracted from a model response, normalized but
// not yet persisted.
type ParsedIdea struct {
	Title          string
	Description    string
	Tags           []string
	RelevanceScore float64
	ContentType    string
}

// rawIdea mirrors the JSON contract given to the model. RelevanceScore is
// a pointer so an omitted score can be told apart from an explicit zero.
type rawIdea struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	RelevanceScore *float64 `json:"relevanceScore"`
	ContentType    string   `json:"contentType"`
}

// ParseIdeas extracts idea objects from a model response. Unusable items
// are skipped individually; if nothing usable remains the whole parse
// fails with a ParsingError carrying the raw response, because the idea
// orchestrator retries on that error rather than accepting a synthetic
// fallback.
func ParseIdeas(response string) ([]ParsedIdea, error) {
	raw, ok := ExtractJSONArray(StripCodeFences(response))
	if !ok {
		return nil, models.NewParsingError("No JSON array found in model response", response)
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, models.NewParsingError("Model response is not a valid JSON array", response)
	}

	ideas := make([]ParsedIdea, 0, len(items))
	for _, item := range items {
		var ri rawIdea
		if err := json.Unmarshal(item, &ri); err != nil {
			continue
		}
		if idea, usable := normalizeIdea(ri); usable {
			ideas = append(ideas, idea)
		}
	}

	if len(ideas) == 0 {
		return nil, models.NewParsingError("No usable ideas in model response", response)
	}
	return ideas, nil
}

func normalizeIdea(ri rawIdea) (ParsedIdea, bool) {
	title := strings.TrimSpace(ri.Title)
	description := strings.TrimSpace(ri.Description)
	if title == "" || description == "" {
		return ParsedIdea{}, false
	}
	if runes := []rune(title); len(runes) > maxIdeaTitleLen {
		title = string(runes[:maxIdeaTitleLen])
	}

	score := defaultRelevance
	if ri.RelevanceScore != nil {
		score = ClampRelevance(*ri.RelevanceScore)
	}

	return ParsedIdea{
		Title:          title,
		Description:    description,
		Tags:           normalizeTags(ri.Tags),
		RelevanceScore: score,
		ContentType:    strings.ToLower(strings.TrimSpace(ri.ContentType)),
	}, true
}

// normalizeTags lower-cases, trims, de-duplicates and caps the tag list.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if len(out) == maxIdeaTags {
			break
		}
	}
	return out
}

// ClampRelevance maps any score into the valid [0,1] range.
func ClampRelevance(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
