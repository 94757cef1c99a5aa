package prompt

import (
	"fmt"
	"strings"

	"inkwell/internal/models"
)

// IterationType names one of the guided editing policies. Custom bypasses
// the built-in instructions and uses the caller's feedback verbatim.
type IterationType string

const (
	IterationShorter      IterationType = "shorter"
	IterationStrongerHook IterationType = "stronger_hook"
	IterationMorePersonal IterationType = "more_personal"
	IterationAddData      IterationType = "add_data"
	IterationSimplify     IterationType = "simplify"
	IterationCustom       IterationType = "custom"
)

// IterationTypes lists every accepted type, for validation and docs.
var IterationTypes = []IterationType{
	IterationShorter,
	IterationStrongerHook,
	IterationMorePersonal,
	IterationAddData,
	IterationSimplify,
	IterationCustom,
}

// Each named type encodes one editing policy. The policies deliberately do
// not overlap so a user can chain them without one undoing another.
var iterationInstructions = map[IterationType]string{
	IterationShorter:      "Cut the post to at most half its current length. Keep the hook and the core message; drop secondary points entirely instead of compressing every sentence.",
	IterationStrongerHook: "Rewrite only the first one or two lines into a stronger hook that creates curiosity or tension. Leave the rest of the post exactly as it is.",
	IterationMorePersonal: "Rewrite the post in the first person around one concrete personal moment or feeling. Replace generic statements with specific experience; do not invent verifiable facts.",
	IterationAddData:      "Strengthen the argument with one or two concrete numbers, statistics or named examples, woven into the existing sentences. Do not add new paragraphs.",
	IterationSimplify:     "Simplify the language: shorter sentences, everyday words, no jargon. Keep every point the post currently makes.",
}

// IterationInstruction resolves the editing instruction for the given type.
// Custom iterations return the trimmed feedback verbatim and fail when it
// is empty; unknown types fail validation.
func IterationInstruction(iterationType IterationType, feedback string) (string, error) {
	if iterationType == IterationCustom {
		feedback = strings.TrimSpace(feedback)
		if feedback == "" {
			return "", models.NewValidationError("Feedback is required for custom iterations")
		}
		return feedback, nil
	}

	instruction, ok := iterationInstructions[iterationType]
	if !ok {
		return "", models.NewValidationError(fmt.Sprintf("Unknown iteration type: %s", iterationType))
	}
	return instruction, nil
}

const iterationOutputRules = `EDIT RULES:
- Make only the requested change. Preserve everything else: voice, structure, language, line breaks.
- Output only the full modified post text. No preamble, no explanation, no code fences.`

// BuildIterationPrompt embeds the previous version verbatim inside a
// fenced block and asks for a surgical edit per the instruction.
func BuildIterationPrompt(previousText, instruction string) string {
	var b strings.Builder
	b.WriteString("Here is the current draft of my post:\n\n")
	b.WriteString("```\n")
	b.WriteString(previousText)
	b.WriteString("\n```\n\n")
	b.WriteString("CHANGE REQUEST:\n")
	b.WriteString(instruction)
	b.WriteString("\n\n")
	b.WriteString(iterationOutputRules)
	return b.String()
}
