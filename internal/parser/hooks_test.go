package parser

import (
	"fmt"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHooksStructured(t *testing.T) {
	t.Parallel()

	response := `TYPE: question
HOOK: What if your best post is still unwritten?
ENGAGEMENT: 8
---
TYPE: Bold Opinion
HOOK: Planning is procrastination in a suit.
ENGAGEMENT: 9/10`

	hooks := ParseHooks(response, 2)
	require.Len(t, hooks, 2)

	assert.Equal(t, models.HookTypeQuestion, hooks[0].Type)
	assert.Equal(t, "What if your best post is still unwritten?", hooks[0].Text)
	assert.Equal(t, 8.0, hooks[0].EstimatedEngagement)

	assert.Equal(t, models.HookTypeBoldOpinion, hooks[1].Type, "type spelling must normalize")
	assert.Equal(t, 9.0, hooks[1].EstimatedEngagement, "trailing /10 must not break the score")
}

func TestParseHooksEngagementClamping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want float64
	}{
		{"0", 1},
		{"1", 1},
		{"10", 10},
		{"11", 10},
		{"15", 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run("engagement "+tt.raw, func(t *testing.T) {
			t.Parallel()

			response := fmt.Sprintf("TYPE: stat\nHOOK: A sufficiently long hook line for the test.\nENGAGEMENT: %s", tt.raw)
			hooks := ParseHooks(response, 1)
			require.Len(t, hooks, 1)
			assert.Equal(t, tt.want, hooks[0].EstimatedEngagement)
		})
	}
}

func TestParseHooksDropsIncompleteBlocks(t *testing.T) {
	t.Parallel()

	response := `TYPE: question
HOOK: This block has no engagement score and gets dropped.
---
TYPE: story
HOOK: I kept the only complete block in this response.
ENGAGEMENT: 7`

	hooks := ParseHooks(response, 4)
	require.Len(t, hooks, 4, "padding must restore the requested count")

	assert.Equal(t, models.HookTypeStory, hooks[0].Type)
	assert.Equal(t, "I kept the only complete block in this response.", hooks[0].Text)
}

func TestParseHooksUnknownTypeDropped(t *testing.T) {
	t.Parallel()

	response := "TYPE: riddle\nHOOK: Short one.\nENGAGEMENT: 5"

	hooks := ParseHooks(response, 2)
	require.Len(t, hooks, 2)
	for _, h := range hooks {
		assert.NotEqual(t, "riddle", h.Type)
		assert.Contains(t, models.HookTypes, h.Type)
	}
}

func TestParseHooksLineFallback(t *testing.T) {
	t.Parallel()

	response := "Here are some hooks you could try:\nEver wondered why your posts disappear into the void?\nshort\nMy first launch failed in the most public way possible."

	hooks := ParseHooks(response, 3)
	require.Len(t, hooks, 3)

	// Types cycle through the canonical order; unscored lines get the
	// neutral engagement estimate.
	assert.Equal(t, models.HookTypeQuestion, hooks[0].Type)
	assert.Equal(t, models.HookTypeStat, hooks[1].Type)
	assert.Equal(t, models.HookTypeStory, hooks[2].Type)
	for _, h := range hooks {
		assert.Equal(t, float64(fallbackLineEngagement), h.EstimatedEngagement)
	}
	assert.Equal(t, "Ever wondered why your posts disappear into the void?", hooks[1].Text)
}

func TestParseHooksExactCountGuarantee(t *testing.T) {
	t.Parallel()

	for _, response := range []string{"", "garbage in", "{}"} {
		for _, count := range []int{1, 4, 6, 10} {
			hooks := ParseHooks(response, count)
			require.Len(t, hooks, count, "response %q", response)
			for _, h := range hooks {
				assert.NotEmpty(t, h.Type)
				assert.NotEmpty(t, h.Text)
				assert.GreaterOrEqual(t, h.EstimatedEngagement, 1.0)
				assert.LessOrEqual(t, h.EstimatedEngagement, 10.0)
			}
		}
	}
}

func TestParseHooksTruncatesSurplus(t *testing.T) {
	t.Parallel()

	response := `TYPE: question
HOOK: First hook of the batch, long enough to matter.
ENGAGEMENT: 8
---
TYPE: stat
HOOK: Second hook of the batch, also complete.
ENGAGEMENT: 6
---
TYPE: story
HOOK: Third hook that should be cut by the count.
ENGAGEMENT: 5`

	hooks := ParseHooks(response, 2)
	require.Len(t, hooks, 2)
	assert.Equal(t, models.HookTypeQuestion, hooks[0].Type)
	assert.Equal(t, models.HookTypeStat, hooks[1].Type)
}

func TestParseHooksDefaultCount(t *testing.T) {
	t.Parallel()

	hooks := ParseHooks("", 0)
	assert.Len(t, hooks, defaultHookCount)
}
