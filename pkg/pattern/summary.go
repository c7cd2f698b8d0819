package pattern

// SummaryKind identifies what a summary describes, for renderer dispatch.
type SummaryKind string

const (
	SummaryKindFeedback   SummaryKind = "feedback"
	SummaryKindCategories SummaryKind = "categories"
)

// Summary represents high-level metrics and counts.
type Summary struct {
	Label   string
	Kind    SummaryKind // dispatch key for renderers
	Metrics []SummaryItem
}

// SummaryItem is a single metric in a summary.
type SummaryItem struct {
	Label string // e.g., "Score", "Tries"
	Value string // formatted value
	Kind  string // "success", "error", "warning" or "info", picks the color
}

func (s *Summary) Type() PatternType { return PatternTypeSummary }
