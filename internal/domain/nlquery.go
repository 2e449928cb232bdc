package domain

// Timeframe is a date truncation grain recognised in prompts.
type Timeframe string

const (
	TimeframeDay     Timeframe = "day"
	TimeframeMonth   Timeframe = "month"
	TimeframeQuarter Timeframe = "quarter"
	TimeframeYear    Timeframe = "year"
)

const (
	// DefaultQueryLimit is used when a prompt carries no "top N" phrase.
	DefaultQueryLimit = 10

	// TemplateConfidence is the fixed confidence of a template-matched query.
	TemplateConfidence = 0.85
	// FallbackConfidence is the fixed confidence of the fallback query.
	FallbackConfidence = 0.6
	// FallbackTemplateName is reported in GeneratedQuery.TemplateUsed when no template matched.
	FallbackTemplateName = "fallback"
)

// ExtractedParams holds the parameters pulled out of a single prompt.
// Timeframe is empty when the prompt names no grain.
type ExtractedParams struct {
	Timeframe Timeframe
	Limit     int
}

// TimeframeOr returns the extracted timeframe, or def when none was found.
func (p ExtractedParams) TimeframeOr(def Timeframe) Timeframe {
	if p.Timeframe == "" {
		return def
	}
	return p.Timeframe
}

// GeneratedQuery is the result of turning a prompt into SQL.
type GeneratedQuery struct {
	SQL          string  `json:"sql"`
	Explanation  string  `json:"explanation"`
	Confidence   float64 `json:"confidence"`
	TemplateUsed string  `json:"templateUsed"`
}
