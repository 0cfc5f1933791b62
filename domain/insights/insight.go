package insights

// Type is the tone of an insight
type Type string

const (
	TypePositive Type = "positive"
	TypeWarning  Type = "warning"
	TypeNeutral  Type = "neutral"
	TypeCritical Type = "critical"
)

// Category groups insights by the kind of analysis that produced them
type Category string

const (
	CategoryPattern     Category = "pattern"
	CategoryTrend       Category = "trend"
	CategoryCorrelation Category = "correlation"
	CategoryPrediction  Category = "prediction"
	CategoryBehavioral  Category = "behavioral"
)

// Insight is a generated observation with the evidence behind it.
// Insights are recomputed on every call and never persisted.
type Insight struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Type               Type     `json:"type"`
	Confidence         int      `json:"confidence"`
	Category           Category `json:"category"`
	DataPoints         []string `json:"dataPoints"`
	ActionItems        []string `json:"actionItems"`
	RelatedConnections []string `json:"relatedConnections"`
}

// ClampConfidence bounds a score to [0,100]
func ClampConfidence(c int) int {
	switch {
	case c < 0:
		return 0
	case c > 100:
		return 100
	default:
		return c
	}
}

// finalize enforces the insight invariants: confidence is clamped and an
// insight without evidence is dropped.
func finalize(in Insight) (Insight, bool) {
	if len(in.DataPoints) == 0 {
		return Insight{}, false
	}
	in.Confidence = ClampConfidence(in.Confidence)
	if in.ActionItems == nil {
		in.ActionItems = []string{}
	}
	if in.RelatedConnections == nil {
		in.RelatedConnections = []string{}
	}
	return in, true
}
