package pattern

import "github.com/dkoosis/promptboard/pkg/leaderboard"

// EmptyResultsText is shown in place of an empty results table.
const EmptyResultsText = "No results yet"

// Leaderboard represents a ranked list of participants.
type Leaderboard struct {
	Label      string
	MetricName string // e.g., "Score"
	Items      []LeaderboardItem
	TotalCount int // total before filtering to top N
	ShowRank   bool
	EmptyText  string // shown when Items is empty
}

// LeaderboardItem is a single ranked entry.
type LeaderboardItem struct {
	Name   string  // display name
	Metric string  // formatted value
	Value  float64 // numeric value
	Rank   int     // 1-based position
}

func (l *Leaderboard) Type() PatternType { return PatternTypeLeaderboard }

// NewResultsTable builds the full standings table. Ranks come from position
// alone; the list is shown in the order given.
func NewResultsTable(label string, list leaderboard.RankedList) *Leaderboard {
	items := make([]LeaderboardItem, 0, len(list))
	for i, e := range list {
		items = append(items, LeaderboardItem{
			Name:   e.Name,
			Metric: leaderboard.FormatScore(e.Score),
			Value:  e.Score,
			Rank:   i + 1,
		})
	}
	return &Leaderboard{
		Label:      label,
		MetricName: "Score",
		Items:      items,
		TotalCount: len(list),
		ShowRank:   true,
		EmptyText:  EmptyResultsText,
	}
}
