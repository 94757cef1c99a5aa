package models

// Canonical hook types. Every generated hook is classified into one of these.
const (
	HookTypeQuestion    = "question"
	HookTypeStat        = "stat"
	HookTypeStory       = "story"
	HookTypeBoldOpinion = "bold_opinion"
)

// HookTypes lists the canonical hook types in presentation order.
var HookTypes = []string{HookTypeQuestion, HookTypeStat, HookTypeStory, HookTypeBoldOpinion}

// Hook is a transient opening-line suggestion. Not persisted.
type Hook struct {
	Type                string  `json:"type"`
	Text                string  `json:"text"`
	EstimatedEngagement float64 `json:"estimated_engagement"`
}

// StyleAnalysisResult is the transient output of a profile style analysis.
type StyleAnalysisResult struct {
	ToneTags      []string      `json:"tone_tags"`
	DoRules       []string      `json:"do_rules"`
	DontRules     []string      `json:"dont_rules"`
	StyleInsights StyleInsights `json:"style_insights"`
	Confidence    float64       `json:"confidence"`
	PostsAnalyzed int           `json:"posts_analyzed"`
}
