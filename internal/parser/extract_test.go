package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n[1,2]\n```", "[1,2]"},
		{"bare fence", "```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"no fence", "  plain text  ", "plain text"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StripCodeFences(tt.input))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	t.Parallel()

	raw, ok := ExtractJSONArray(`Sure! Here you go: [{"a": [1, 2]}, {"b": 3}] Hope that helps.`)
	require.True(t, ok)
	assert.Equal(t, `[{"a": [1, 2]}, {"b": 3}]`, raw)
}

func TestExtractJSONArrayIgnoresBracketsInStrings(t *testing.T) {
	t.Parallel()

	raw, ok := ExtractJSONArray(`noise ["a ] tricky \" value", "b"] tail`)
	require.True(t, ok)
	assert.Equal(t, `["a ] tricky \" value", "b"]`, raw)
}

func TestExtractJSONArrayAbsent(t *testing.T) {
	t.Parallel()

	_, ok := ExtractJSONArray("no array here")
	assert.False(t, ok)

	// An unterminated array is not balanced.
	_, ok = ExtractJSONArray(`[ {"a": 1}`)
	assert.False(t, ok)
}

func TestExtractJSONObject(t *testing.T) {
	t.Parallel()

	raw, ok := ExtractJSONObject(`The analysis: {"tone": {"nested": true}} done.`)
	require.True(t, ok)
	assert.Equal(t, `{"tone": {"nested": true}}`, raw)

	_, ok = ExtractJSONObject("nothing structured")
	assert.False(t, ok)
}
