package parser

import (
	"encoding/json"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"
)

// maxStyleListItems caps every array the style parser returns.
const maxStyleListItems = 10

// Enum defaults used when the model returns a value outside the allowed
// set. "medium"/"minimal"/"mixed" are the least committal choices.
const (
	defaultPostLength = "medium"
	defaultEmojiUsage = "minimal"
	defaultStructure  = "mixed"
)

var (
	allowedPostLengths = map[string]bool{"short": true, "medium": true, "long": true}
	allowedEmojiUsage  = map[string]bool{"none": true, "minimal": true, "moderate": true, "heavy": true}
	allowedStructures  = map[string]bool{"list": true, "paragraph": true, "mixed": true}
)

type rawStyleInsights struct {
	PostLength    string   `json:"postLength"`
	EmojiUsage    string   `json:"emojiUsage"`
	Structure     string   `json:"structure"`
	CommonPhrases []string `json:"commonPhrases"`
}

type rawStyleAnalysis struct {
	ToneTags      []string          `json:"toneTags"`
	DoRules       []string          `json:"doRules"`
	DontRules     []string          `json:"dontRules"`
	StyleInsights *rawStyleInsights `json:"styleInsights"`
}

// ParseStyleAnalysis extracts a style analysis from a model response. All
// four top-level fields must be present; a structurally unusable response
// yields nil rather than partial data. Confidence and post counts are the
// caller's to fill in.
func ParseStyleAnalysis(response string) *models.StyleAnalysisResult {
	raw, ok := ExtractJSONObject(StripCodeFences(response))
	if !ok {
		observability.RecordParserFallback("style", "sentinel")
		return nil
	}

	var parsed rawStyleAnalysis
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		observability.RecordParserFallback("style", "sentinel")
		return nil
	}
	if parsed.ToneTags == nil || parsed.DoRules == nil || parsed.DontRules == nil || parsed.StyleInsights == nil {
		observability.RecordParserFallback("style", "sentinel")
		return nil
	}

	return &models.StyleAnalysisResult{
		ToneTags:  cleanStrings(parsed.ToneTags, maxStyleListItems),
		DoRules:   cleanStrings(parsed.DoRules, maxStyleListItems),
		DontRules: cleanStrings(parsed.DontRules, maxStyleListItems),
		StyleInsights: models.StyleInsights{
			PostLength:    normalizeEnum(parsed.StyleInsights.PostLength, allowedPostLengths, defaultPostLength),
			EmojiUsage:    normalizeEnum(parsed.StyleInsights.EmojiUsage, allowedEmojiUsage, defaultEmojiUsage),
			Structure:     normalizeEnum(parsed.StyleInsights.Structure, allowedStructures, defaultStructure),
			CommonPhrases: models.StringList(cleanStrings(parsed.StyleInsights.CommonPhrases, maxStyleListItems)),
		},
	}
}

// normalizeEnum lower-cases the value and replaces anything outside the
// allowed set with the documented default.
func normalizeEnum(value string, allowed map[string]bool, fallback string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if allowed[v] {
		return v
	}
	return fallback
}

func cleanStrings(items []string, max int) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == max {
			break
		}
	}
	return out
}
