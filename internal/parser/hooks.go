package parser

import (
	"strconv"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"
)

const (
	hookSeparator    = "---"
	defaultHookCount = 4

	minFallbackLineLen = 20
	maxFallbackLineLen = 200
	// Line-extracted hooks get a neutral engagement estimate since the
	// model never scored them.
	fallbackLineEngagement = 5
)

// ParseHooks extracts exactly count hooks from a model response. The
// structured TYPE/HOOK/ENGAGEMENT format is tried first; if it yields
// nothing, plausible lines are promoted to hooks with round-robin types;
// the canned registry pads whatever is still missing. Callers always get
// exactly count hooks.
func ParseHooks(response string, count int) []models.Hook {
	if count <= 0 {
		count = defaultHookCount
	}

	hooks := parseStructuredHooks(response)
	if len(hooks) == 0 {
		hooks = lineFallbackHooks(response)
		if len(hooks) > 0 {
			observability.RecordParserFallback("hooks", "lines")
		}
	}
	if len(hooks) < count {
		observability.RecordParserFallback("hooks", "canned")
		hooks = padWithCannedHooks(hooks, count)
	}
	return hooks[:count]
}

// parseStructuredHooks splits the response on the block separator and
// keeps only complete blocks. A block missing any field is dropped, not
// repaired.
func parseStructuredHooks(response string) []models.Hook {
	var hooks []models.Hook
	for _, block := range strings.Split(response, hookSeparator) {
		if hook, ok := parseHookBlock(block); ok {
			hooks = append(hooks, hook)
		}
	}
	return hooks
}

func parseHookBlock(block string) (models.Hook, bool) {
	var (
		hookType       string
		text           string
		engagement     float64
		haveEngagement bool
	)

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if value, ok := fieldValue(line, "TYPE:"); ok {
			hookType = normalizeHookType(value)
			continue
		}
		if value, ok := fieldValue(line, "HOOK:"); ok {
			text = strings.TrimSpace(value)
			continue
		}
		if value, ok := fieldValue(line, "ENGAGEMENT:"); ok {
			if v, err := parseLeadingFloat(value); err == nil {
				engagement = v
				haveEngagement = true
			}
		}
	}

	if hookType == "" || text == "" || !haveEngagement {
		return models.Hook{}, false
	}
	return models.Hook{
		Type:                hookType,
		Text:                text,
		EstimatedEngagement: clampEngagement(engagement),
	}, true
}

// fieldValue matches "FIELD: value" lines case-insensitively.
func fieldValue(line, field string) (string, bool) {
	if len(line) < len(field) || !strings.EqualFold(line[:len(field)], field) {
		return "", false
	}
	return strings.TrimSpace(line[len(field):]), true
}

// normalizeHookType maps model spellings ("Bold Opinion", "bold-opinion")
// onto the canonical snake_case types. Unknown types come back empty so
// the block is dropped.
func normalizeHookType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, " ", "_")
	t = strings.ReplaceAll(t, "-", "_")
	for _, known := range models.HookTypes {
		if t == known {
			return t
		}
	}
	return ""
}

// parseLeadingFloat reads the numeric prefix of a value so scores written
// as "8/10" or "7 out of 10" still parse.
func parseLeadingFloat(raw string) (float64, error) {
	end := 0
	for end < len(raw) && (raw[end] >= '0' && raw[end] <= '9' || raw[end] == '.') {
		end++
	}
	if end == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(raw[:end], 64)
}

func clampEngagement(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// lineFallbackHooks promotes plausible content lines to hooks when the
// structured format failed entirely. Types are assigned round-robin.
func lineFallbackHooks(response string) []models.Hook {
	var hooks []models.Hook
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•#>0123456789. ")
		line = strings.Trim(line, `"`)
		if len(line) < minFallbackLineLen || len(line) > maxFallbackLineLen {
			continue
		}
		hooks = append(hooks, models.Hook{
			Type:                models.HookTypes[len(hooks)%len(models.HookTypes)],
			Text:                line,
			EstimatedEngagement: fallbackLineEngagement,
		})
	}
	return hooks
}

// cannedHooks is the last-resort registry: generic but serviceable hooks
// per type, used to pad up to the requested count.
var cannedHooks = map[string][]models.Hook{
	models.HookTypeQuestion: {
		{Type: models.HookTypeQuestion, Text: "What would you do if your next post reached exactly the wrong audience?", EstimatedEngagement: 6},
		{Type: models.HookTypeQuestion, Text: "When was the last time a post actually changed your mind?", EstimatedEngagement: 6},
	},
	models.HookTypeStat: {
		{Type: models.HookTypeStat, Text: "90% of posts get scrolled past in under a second. Here is how to survive the other 10%.", EstimatedEngagement: 7},
		{Type: models.HookTypeStat, Text: "I went through 100 of my own posts. Three patterns explained almost all the engagement.", EstimatedEngagement: 7},
	},
	models.HookTypeStory: {
		{Type: models.HookTypeStory, Text: "Two years ago I published something I wanted to delete ten seconds later.", EstimatedEngagement: 6},
		{Type: models.HookTypeStory, Text: "The best advice I ever got arrived in a comment I almost ignored.", EstimatedEngagement: 6},
	},
	models.HookTypeBoldOpinion: {
		{Type: models.HookTypeBoldOpinion, Text: "Most content advice makes your writing worse.", EstimatedEngagement: 7},
		{Type: models.HookTypeBoldOpinion, Text: "Your posting schedule matters far less than you think.", EstimatedEngagement: 7},
	},
}

func padWithCannedHooks(hooks []models.Hook, count int) []models.Hook {
	used := make(map[string]int)
	for typeIdx := 0; len(hooks) < count; typeIdx++ {
		hookType := models.HookTypes[typeIdx%len(models.HookTypes)]
		pool := cannedHooks[hookType]
		hooks = append(hooks, pool[used[hookType]%len(pool)])
		used[hookType]++
	}
	return hooks
}
