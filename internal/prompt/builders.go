package prompt

import (
	"fmt"
	"strings"

	"inkwell/internal/models"
)

// defaultIdeaCount is used when the caller does not ask for a specific
// number of ideas.
const defaultIdeaCount = 5

// GenerationContext carries everything the initial-generation prompt can
// use. Nil or empty fields are simply left out of the prompt.
type GenerationContext struct {
	RawIdea       string
	Goal          string
	CustomContext string
	Profile       *models.Profile
	Project       *models.Project
	Platform      *models.Platform
	Examples      []models.HistoricalPost
}

// IdeasContext carries the resolved context for an idea-generation prompt.
type IdeasContext struct {
	Profile       *models.Profile
	Project       *models.Project
	Platform      *models.Platform
	CustomContext string
	RecentTopics  []string
	Count         int
}

const generationOutputRules = `OUTPUT RULES:
- Write in the same language as the idea.
- Output only the post text. No preamble, no explanation, no quotation marks around the post.
- Do not use hashtags unless the platform guidelines ask for them.`

// BuildGenerationPrompt assembles the initial-generation prompt. Sections
// appear only when their source field carries content.
func BuildGenerationPrompt(gc GenerationContext) string {
	var b strings.Builder
	b.WriteString("Write a social media post for me.\n\n")

	writeSection(&b, "POST IDEA", gc.RawIdea)
	writeSection(&b, "GOAL OF THE POST", gc.Goal)
	writeProfileSection(&b, gc.Profile)
	writeProjectSection(&b, gc.Project)
	writePlatformSection(&b, gc.Platform)
	writeSection(&b, "ADDITIONAL CONTEXT", gc.CustomContext)
	writeExamplesSection(&b, gc.Examples)

	b.WriteString(structureFor(DetectFormat(gc.Goal, gc.RawIdea)))
	b.WriteString("\n\n")
	b.WriteString(generationOutputRules)
	return b.String()
}

// hookTypeDescriptions tells the model what each canonical hook type means.
var hookTypeDescriptions = map[string]string{
	models.HookTypeQuestion:    "an intriguing question that makes the reader stop and reflect",
	models.HookTypeStat:        "a surprising statistic or number that challenges assumptions",
	models.HookTypeStory:       "the opening line of a personal story or anecdote",
	models.HookTypeBoldOpinion: "a bold, polarizing statement the reader will want to argue with",
}

const hooksOutputFormat = `OUTPUT FORMAT - repeat this block for every hook, with a line containing only "---" between blocks:
TYPE: <one of the listed types>
HOOK: <the hook text on a single line>
ENGAGEMENT: <estimated engagement score from 1 to 10>`

// BuildHooksPrompt asks for variantsPerType hooks of each given type for
// the supplied idea or post text.
func BuildHooksPrompt(idea string, types []string, variantsPerType int) string {
	if variantsPerType <= 0 {
		variantsPerType = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate attention-grabbing opening hooks for a social media post about:\n%s\n\n", strings.TrimSpace(idea))

	b.WriteString("HOOK TYPES:\n")
	for _, hookType := range types {
		if desc, ok := hookTypeDescriptions[hookType]; ok {
			fmt.Fprintf(&b, "- %s: %s\n", hookType, desc)
		} else {
			fmt.Fprintf(&b, "- %s\n", hookType)
		}
	}

	fmt.Fprintf(&b, "\nWrite exactly %d hook(s) of each type listed above.\n\n", variantsPerType)
	b.WriteString(hooksOutputFormat)
	return b.String()
}

const ideasOutputFormat = `OUTPUT FORMAT - a JSON array only, no prose around it:
[
  {
    "title": "short idea title",
    "description": "2-3 sentences describing the post",
    "tags": ["tag1", "tag2"],
    "relevanceScore": 0.8,
    "contentType": "educational"
  }
]`

// BuildIdeasPrompt assembles the idea-generation prompt from the resolved
// context, including recent-topic exclusions to discourage repetition.
func BuildIdeasPrompt(ic IdeasContext) string {
	count := ic.Count
	if count <= 0 {
		count = defaultIdeaCount
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d specific, concrete social media post ideas for me.\n\n", count)

	writeProfileSection(&b, ic.Profile)
	writeProjectSection(&b, ic.Project)
	writePlatformSection(&b, ic.Platform)
	writeSection(&b, "ADDITIONAL CONTEXT", ic.CustomContext)

	if len(ic.RecentTopics) > 0 {
		b.WriteString("DO NOT repeat these topics I covered recently:\n")
		for _, topic := range ic.RecentTopics {
			fmt.Fprintf(&b, "- %s\n", topic)
		}
		b.WriteString("\n")
	}

	b.WriteString(ideasOutputFormat)
	return b.String()
}

const styleAnalysisOutputFormat = `OUTPUT FORMAT - a single JSON object only, no prose around it:
{
  "toneTags": ["conversational", "direct"],
  "doRules": ["things this writer consistently does"],
  "dontRules": ["things this writer never does"],
  "styleInsights": {
    "postLength": "short|medium|long",
    "emojiUsage": "none|minimal|moderate|heavy",
    "structure": "list|paragraph|mixed",
    "commonPhrases": ["recurring phrases, if any"]
  }
}`

// BuildStyleAnalysisPrompt asks the model to describe the writing style of
// the given posts precisely enough for imitation.
func BuildStyleAnalysisPrompt(posts []models.HistoricalPost) string {
	var b strings.Builder
	b.WriteString("Analyze the writing style of the posts below and describe it so a ghostwriter could imitate it.\n\nPOSTS:\n")
	for i := range posts {
		fmt.Fprintf(&b, "--- Post %d ---\n%s\n", i+1, strings.TrimSpace(posts[i].Content))
	}
	b.WriteString("\n")
	b.WriteString(styleAnalysisOutputFormat)
	return b.String()
}

// cleanValue trims a value and drops it entirely when empty or when it
// holds a leaked serialization artifact.
func cleanValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "undefined") || strings.EqualFold(value, "null") {
		return ""
	}
	return value
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := cleanValue(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// writeSection emits a labeled block when the value is non-empty.
func writeSection(b *strings.Builder, label, value string) {
	if v := cleanValue(value); v != "" {
		fmt.Fprintf(b, "%s:\n%s\n\n", label, v)
	}
}

// writeLine emits a single "- label: value" line when the value is
// non-empty.
func writeLine(b *strings.Builder, label, value string) {
	if v := cleanValue(value); v != "" {
		fmt.Fprintf(b, "- %s: %s\n", label, v)
	}
}

// writeInline emits a "- label: a, b, c" line when the list has content.
func writeInline(b *strings.Builder, label string, items []string) {
	if clean := cleanList(items); len(clean) > 0 {
		fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(clean, ", "))
	}
}

func writeProfileSection(b *strings.Builder, p *models.Profile) {
	if p == nil {
		return
	}

	var section strings.Builder
	writeInline(&section, "Tone", p.ToneTags)
	writeInline(&section, "Always", p.DoRules)
	writeInline(&section, "Never", p.DontRules)
	if p.StyleInsights != nil {
		writeLine(&section, "Typical length", p.StyleInsights.PostLength)
		writeLine(&section, "Emoji usage", p.StyleInsights.EmojiUsage)
		writeLine(&section, "Structure", p.StyleInsights.Structure)
		writeInline(&section, "Recurring phrases", p.StyleInsights.CommonPhrases)
	}

	if section.Len() == 0 {
		return
	}
	fmt.Fprintf(b, "MY WRITING STYLE:\n%s\n", section.String())
}

func writeProjectSection(b *strings.Builder, p *models.Project) {
	if p == nil {
		return
	}

	var section strings.Builder
	writeLine(&section, "Name", p.Name)
	writeLine(&section, "Description", p.Description)
	writeLine(&section, "Target audience", p.TargetAudience)
	writeLine(&section, "Goals", p.Goals)

	if section.Len() == 0 {
		return
	}
	fmt.Fprintf(b, "PROJECT I AM PROMOTING:\n%s\n", section.String())
}

func writePlatformSection(b *strings.Builder, p *models.Platform) {
	if p == nil {
		return
	}

	var section strings.Builder
	writeLine(&section, "Platform", p.Name)
	writeLine(&section, "Style guidelines", p.StyleGuidelines)
	if p.MaxLength > 0 {
		fmt.Fprintf(&section, "- Hard limit: %d characters\n", p.MaxLength)
	}
	writeInline(&section, "Keywords that perform well", p.Keywords)

	if section.Len() == 0 {
		return
	}
	fmt.Fprintf(b, "TARGET PLATFORM:\n%s\n", section.String())
}

func writeExamplesSection(b *strings.Builder, examples []models.HistoricalPost) {
	if len(examples) == 0 {
		return
	}

	b.WriteString("EXAMPLES OF MY PAST POSTS (match this voice):\n")
	for i := range examples {
		fmt.Fprintf(b, "--- Example %d ---\n%s\n", i+1, strings.TrimSpace(examples[i].Content))
	}
	b.WriteString("\n")
}
