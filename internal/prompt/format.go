// Package prompt assembles the prompts sent to the model. Builders are
// pure functions over domain values so templates can be tested without an
// LLM in the loop.
package prompt

import "strings"

// Format is the structural template a generated post follows.
type Format string

const (
	FormatStory   Format = "story"
	FormatOpinion Format = "opinion"
	FormatDebate  Format = "debate"
)

// Keyword tables are matched case-insensitively against the goal and raw
// idea. The user base writes in English and French, so both are covered.
// Opinion keywords win over debate keywords when both match.
var opinionKeywords = []string{
	"opinion", "unpopular", "contrarian", "hot take", "controversial",
	"i think", "i believe", "overrated", "underrated", "myth", "stop doing",
	"avis", "je pense", "je crois", "impopulaire", "polémique",
	"contre-courant", "mythe", "arrêtez",
}

var debateKeywords = []string{
	"debate", "discussion", "what do you think", "agree or disagree",
	"versus", " vs ", "pros and cons", "both sides", "your thoughts",
	"débat", "qu'en pensez-vous", "pour ou contre", "les deux côtés",
}

// DetectFormat classifies a post request into one of the three structural
// templates. The default is story.
func DetectFormat(goal, rawIdea string) Format {
	haystack := strings.ToLower(goal + " " + rawIdea)
	if containsAny(haystack, opinionKeywords) {
		return FormatOpinion
	}
	if containsAny(haystack, debateKeywords) {
		return FormatDebate
	}
	return FormatStory
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func structureFor(f Format) string {
	switch f {
	case FormatOpinion:
		return opinionStructure
	case FormatDebate:
		return debateStructure
	default:
		return storyStructure
	}
}

const storyStructure = `STRUCTURE (narrative arc):
1. Open with a hook that drops the reader into the middle of the story.
2. Give just enough context to care, then the struggle or tension.
3. The turning point.
4. The lesson, stated plainly in one or two lines.
5. Close with a question inviting readers to share their own experience.`

const opinionStructure = `STRUCTURE (contrarian opinion arc):
1. Open with the bold claim itself, no warm-up.
2. Acknowledge the common view in one line.
3. Argue against it with concrete reasons or evidence.
4. Concede the nuance where the common view still holds.
5. Close by inviting readers to disagree.`

const debateStructure = `STRUCTURE (debate prompt arc):
1. Frame the question so both sides feel defensible.
2. Give the strongest case for one side.
3. Give the strongest case for the other.
4. State where you lean and why, briefly.
5. Close with a direct question asking readers to pick a side.`
