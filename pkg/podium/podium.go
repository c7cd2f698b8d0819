// Package podium computes the podium geometry for the top three entries.
// Everything here is a pure function of its input.
package podium

import (
	"math"

	"github.com/dustin/go-humanize"

	"github.com/dkoosis/promptboard/pkg/leaderboard"
)

const (
	// MaxBonus is the upper bound (exclusive) on rows added for score.
	MaxBonus = 4
	// HalfScore is the score that earns half of MaxBonus.
	HalfScore = 25.0
)

// baseRows is indexed by rank. Gaps are wider than any score bonus
// difference can close at equal score, so rank order stays visible.
var baseRows = [...]int{0, 6, 4, 2}

// Height returns the bar height in rows for a score at rank 1..3.
// Ranks outside that range have no bar.
func Height(score float64, rank int) int {
	if rank < 1 || rank >= len(baseRows) {
		return 0
	}
	if score < 0 || math.IsNaN(score) {
		score = 0
	}
	if math.IsInf(score, 1) {
		return baseRows[rank] + MaxBonus - 1
	}
	bonus := int(math.Floor(MaxBonus * score / (score + HalfScore)))
	if bonus >= MaxBonus {
		bonus = MaxBonus - 1
	}
	return baseRows[rank] + bonus
}

// MaxHeight is the tallest bar Height can return.
func MaxHeight() int {
	return baseRows[1] + MaxBonus - 1
}

// Slot is one podium position ready to draw.
type Slot struct {
	Rank   int
	Entry  leaderboard.Entry
	Height int
}

// displayOrder places first in the middle.
var displayOrder = [...]int{2, 1, 3}

// Layout returns slots left to right (2nd, 1st, 3rd), skipping ranks with
// no entry. Entries past the third are ignored.
func Layout(top3 leaderboard.RankedList) []Slot {
	slots := make([]Slot, 0, len(displayOrder))
	for _, rank := range displayOrder {
		if rank > len(top3) {
			continue
		}
		e := top3[rank-1]
		slots = append(slots, Slot{Rank: rank, Entry: e, Height: Height(e.Score, rank)})
	}
	return slots
}

// Ordinal returns the place label for a rank.
func Ordinal(rank int) string {
	if rank < 1 || rank > leaderboard.PodiumSize {
		return ""
	}
	return humanize.Ordinal(rank)
}
