package prompt

import (
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGenerationPromptFullContext(t *testing.T) {
	t.Parallel()

	p := BuildGenerationPrompt(GenerationContext{
		RawIdea:       "how I survived my first production outage",
		Goal:          "build credibility",
		CustomContext: "mention that it happened on a Friday",
		Profile: &models.Profile{
			ToneTags:  models.StringList{"direct", "self-deprecating"},
			DoRules:   models.StringList{"short sentences"},
			DontRules: models.StringList{"corporate buzzwords"},
			StyleInsights: &models.StyleInsights{
				PostLength: "medium",
				EmojiUsage: "minimal",
				Structure:  "paragraph",
			},
		},
		Project: &models.Project{
			Name:           "Inkwell launch",
			TargetAudience: "indie developers",
		},
		Platform: &models.Platform{
			Name:      "LinkedIn",
			MaxLength: 3000,
			Keywords:  models.StringList{"engineering", "career"},
		},
		Examples: []models.HistoricalPost{
			{Content: "Last week I deleted the wrong database."},
		},
	})

	assert.Contains(t, p, "POST IDEA:\nhow I survived my first production outage")
	assert.Contains(t, p, "GOAL OF THE POST:\nbuild credibility")
	assert.Contains(t, p, "MY WRITING STYLE:")
	assert.Contains(t, p, "- Tone: direct, self-deprecating")
	assert.Contains(t, p, "- Never: corporate buzzwords")
	assert.Contains(t, p, "- Emoji usage: minimal")
	assert.Contains(t, p, "PROJECT I AM PROMOTING:")
	assert.Contains(t, p, "- Target audience: indie developers")
	assert.Contains(t, p, "TARGET PLATFORM:")
	assert.Contains(t, p, "- Hard limit: 3000 characters")
	assert.Contains(t, p, "ADDITIONAL CONTEXT:\nmention that it happened on a Friday")
	assert.Contains(t, p, "--- Example 1 ---\nLast week I deleted the wrong database.")
	assert.Contains(t, p, "STRUCTURE (narrative arc):")
	assert.Contains(t, p, "OUTPUT RULES:")
}

func TestBuildGenerationPromptOmitsEmptySections(t *testing.T) {
	t.Parallel()

	p := BuildGenerationPrompt(GenerationContext{RawIdea: "a post about testing"})

	assert.Contains(t, p, "POST IDEA:")
	assert.NotContains(t, p, "GOAL OF THE POST:")
	assert.NotContains(t, p, "MY WRITING STYLE:")
	assert.NotContains(t, p, "PROJECT I AM PROMOTING:")
	assert.NotContains(t, p, "TARGET PLATFORM:")
	assert.NotContains(t, p, "ADDITIONAL CONTEXT:")
	assert.NotContains(t, p, "EXAMPLES OF MY PAST POSTS")
}

func TestBuildGenerationPromptScrubsSerializationArtifacts(t *testing.T) {
	t.Parallel()

	p := BuildGenerationPrompt(GenerationContext{
		RawIdea:       "real idea",
		Goal:          "undefined",
		CustomContext: "null",
		Profile: &models.Profile{
			ToneTags: models.StringList{"undefined", "  ", "direct"},
		},
	})

	assert.NotContains(t, p, "undefined")
	assert.NotContains(t, p, "null")
	assert.NotContains(t, p, "GOAL OF THE POST:")
	assert.Contains(t, p, "- Tone: direct")
}

func TestBuildGenerationPromptPicksOpinionStructure(t *testing.T) {
	t.Parallel()

	p := BuildGenerationPrompt(GenerationContext{
		RawIdea: "standing desks",
		Goal:    "share my unpopular opinion",
	})

	assert.Contains(t, p, "STRUCTURE (contrarian opinion arc):")
	assert.NotContains(t, p, "STRUCTURE (narrative arc):")
}

func TestBuildGenerationPromptSkipsEmptyProfile(t *testing.T) {
	t.Parallel()

	p := BuildGenerationPrompt(GenerationContext{
		RawIdea: "idea",
		Profile: &models.Profile{Name: "ignored"},
	})

	// A profile with no usable style content contributes no section.
	assert.NotContains(t, p, "MY WRITING STYLE:")
}

func TestBuildHooksPrompt(t *testing.T) {
	t.Parallel()

	p := BuildHooksPrompt("why code review matters", models.HookTypes, 2)

	for _, hookType := range models.HookTypes {
		assert.Contains(t, p, "- "+hookType+":")
	}
	assert.Contains(t, p, "why code review matters")
	assert.Contains(t, p, "Write exactly 2 hook(s) of each type")
	assert.Contains(t, p, `TYPE: <one of the listed types>`)
	assert.Contains(t, p, `"---"`)
}

func TestBuildHooksPromptDefaultsVariants(t *testing.T) {
	t.Parallel()

	p := BuildHooksPrompt("idea", []string{models.HookTypeQuestion}, 0)
	assert.Contains(t, p, "Write exactly 1 hook(s) of each type")
}

func TestBuildIdeasPrompt(t *testing.T) {
	t.Parallel()

	p := BuildIdeasPrompt(IdeasContext{
		Profile:       &models.Profile{ToneTags: models.StringList{"witty"}},
		CustomContext: "product launch week",
		RecentTopics:  []string{"Why I quit my job", "My first SaaS customer"},
		Count:         7,
	})

	assert.Contains(t, p, "Suggest 7 specific, concrete social media post ideas")
	assert.Contains(t, p, "- Tone: witty")
	assert.Contains(t, p, "ADDITIONAL CONTEXT:\nproduct launch week")
	assert.Contains(t, p, "DO NOT repeat these topics")
	assert.Contains(t, p, "- Why I quit my job")
	assert.Contains(t, p, "- My first SaaS customer")
	assert.Contains(t, p, `"relevanceScore"`)
	assert.Contains(t, p, "JSON array only")
}

func TestBuildIdeasPromptDefaultsCountAndSkipsExclusions(t *testing.T) {
	t.Parallel()

	p := BuildIdeasPrompt(IdeasContext{CustomContext: "anything"})

	assert.Contains(t, p, "Suggest 5 specific")
	assert.NotContains(t, p, "DO NOT repeat")
}

func TestBuildStyleAnalysisPrompt(t *testing.T) {
	t.Parallel()

	p := BuildStyleAnalysisPrompt([]models.HistoricalPost{
		{Content: "First post content."},
		{Content: "  Second post content.  "},
	})

	assert.Contains(t, p, "--- Post 1 ---\nFirst post content.")
	assert.Contains(t, p, "--- Post 2 ---\nSecond post content.")
	assert.Contains(t, p, `"toneTags"`)
	assert.Contains(t, p, `"styleInsights"`)
	assert.Contains(t, p, "single JSON object only")

	require.Equal(t, 1, strings.Count(p, "--- Post 1 ---"))
}
