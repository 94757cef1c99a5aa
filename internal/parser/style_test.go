package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validStyleResponse = "```json\n" + `{
  "toneTags": ["Conversational", "direct"],
  "doRules": ["open with a question"],
  "dontRules": ["no corporate speak"],
  "styleInsights": {
    "postLength": "Short",
    "emojiUsage": "minimal",
    "structure": "paragraph",
    "commonPhrases": ["here's the thing"]
  }
}` + "\n```"

func TestParseStyleAnalysis(t *testing.T) {
	t.Parallel()

	result := ParseStyleAnalysis(validStyleResponse)
	require.NotNil(t, result)

	assert.Equal(t, []string{"Conversational", "direct"}, result.ToneTags)
	assert.Equal(t, []string{"open with a question"}, result.DoRules)
	assert.Equal(t, []string{"no corporate speak"}, result.DontRules)
	assert.Equal(t, "short", result.StyleInsights.PostLength, "enum values normalize to lower case")
	assert.Equal(t, "minimal", result.StyleInsights.EmojiUsage)
	assert.Equal(t, "paragraph", result.StyleInsights.Structure)
	assert.Equal(t, "here's the thing", result.StyleInsights.CommonPhrases[0])

	// Confidence and post counts belong to the orchestrator, not the parser.
	assert.Zero(t, result.Confidence)
	assert.Zero(t, result.PostsAnalyzed)
}

func TestParseStyleAnalysisReplacesInvalidEnums(t *testing.T) {
	t.Parallel()

	response := `{
  "toneTags": [],
  "doRules": [],
  "dontRules": [],
  "styleInsights": {"postLength": "verbose", "emojiUsage": "tons", "structure": "bullets"}
}`

	result := ParseStyleAnalysis(response)
	require.NotNil(t, result)
	assert.Equal(t, defaultPostLength, result.StyleInsights.PostLength)
	assert.Equal(t, defaultEmojiUsage, result.StyleInsights.EmojiUsage)
	assert.Equal(t, defaultStructure, result.StyleInsights.Structure)
}

func TestParseStyleAnalysisRequiresAllFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
	}{
		{"missing toneTags", `{"doRules": [], "dontRules": [], "styleInsights": {}}`},
		{"missing doRules", `{"toneTags": [], "dontRules": [], "styleInsights": {}}`},
		{"missing dontRules", `{"toneTags": [], "doRules": [], "styleInsights": {}}`},
		{"missing styleInsights", `{"toneTags": [], "doRules": [], "dontRules": []}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Nil(t, ParseStyleAnalysis(tt.response))
		})
	}
}

func TestParseStyleAnalysisUnusableResponse(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ParseStyleAnalysis("no JSON at all"))
	assert.Nil(t, ParseStyleAnalysis(`{"toneTags": broken`))
	assert.Nil(t, ParseStyleAnalysis(""))
}

func TestParseStyleAnalysisCapsArrays(t *testing.T) {
	t.Parallel()

	many := `"` + strings.Join(strings.Split("a b c d e f g h i j k l", " "), `","`) + `"`
	response := `{
  "toneTags": [` + many + `],
  "doRules": ["", "  ", "kept"],
  "dontRules": [],
  "styleInsights": {}
}`

	result := ParseStyleAnalysis(response)
	require.NotNil(t, result)
	assert.Len(t, result.ToneTags, maxStyleListItems)
	assert.Equal(t, []string{"kept"}, result.DoRules, "blank entries are dropped")
	assert.Empty(t, result.DontRules)
}
