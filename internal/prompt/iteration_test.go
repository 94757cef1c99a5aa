package prompt

import (
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterationInstructionNamedTypes(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, iterationType := range []IterationType{
		IterationShorter,
		IterationStrongerHook,
		IterationMorePersonal,
		IterationAddData,
		IterationSimplify,
	} {
		instruction, err := IterationInstruction(iterationType, "")
		require.NoError(t, err, "type %s", iterationType)
		assert.NotEmpty(t, instruction)
		assert.False(t, seen[instruction], "each type needs a distinct editing policy")
		seen[instruction] = true
	}
}

func TestIterationInstructionCustom(t *testing.T) {
	t.Parallel()

	instruction, err := IterationInstruction(IterationCustom, "  make it rhyme  ")
	require.NoError(t, err)
	assert.Equal(t, "make it rhyme", instruction)
}

func TestIterationInstructionCustomRequiresFeedback(t *testing.T) {
	t.Parallel()

	_, err := IterationInstruction(IterationCustom, "   ")
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestIterationInstructionUnknownType(t *testing.T) {
	t.Parallel()

	_, err := IterationInstruction(IterationType("funnier"), "")
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Message, "funnier")
}

func TestBuildIterationPrompt(t *testing.T) {
	t.Parallel()

	previous := "My original post.\nWith two lines."
	p := BuildIterationPrompt(previous, "Make it shorter.")

	assert.Contains(t, p, "```\nMy original post.\nWith two lines.\n```")
	assert.Contains(t, p, "CHANGE REQUEST:\nMake it shorter.")
	assert.Contains(t, p, "EDIT RULES:")
	assert.Contains(t, p, "Output only the full modified post text")
}
