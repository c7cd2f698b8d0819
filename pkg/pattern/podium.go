package pattern

import (
	"github.com/dkoosis/promptboard/pkg/leaderboard"
	"github.com/dkoosis/promptboard/pkg/podium"
)

// Podium is the top-three visualization. Slots are in display order.
type Podium struct {
	Label     string
	Slots     []podium.Slot
	MaxHeight int
}

func (p *Podium) Type() PatternType { return PatternTypePodium }

// NewPodium lays out the first three entries of top.
func NewPodium(label string, top leaderboard.RankedList) *Podium {
	return &Podium{
		Label:     label,
		Slots:     podium.Layout(leaderboard.Top3(top)),
		MaxHeight: podium.MaxHeight(),
	}
}
