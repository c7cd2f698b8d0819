package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/promptboard/pkg/leaderboard"
	"github.com/dkoosis/promptboard/pkg/pattern"
	"github.com/dkoosis/promptboard/pkg/podium"
)

// Plain renders patterns as terse text with zero ANSI codes, for pipes and logs.
type Plain struct{}

// NewPlain creates a plain renderer.
func NewPlain() *Plain {
	return &Plain{}
}

// Render formats all patterns as plain text.
func (p *Plain) Render(patterns []pattern.Pattern) string {
	var sb strings.Builder
	for _, pat := range patterns {
		switch v := pat.(type) {
		case *pattern.Notice:
			if v.Text != "" {
				sb.WriteString(noticeTag(v.Level) + " " + v.Text + "\n")
			}
		case *pattern.Summary:
			p.renderSummary(&sb, v)
		case *pattern.Podium:
			p.renderPodium(&sb, v)
		case *pattern.Leaderboard:
			p.renderLeaderboard(&sb, v)
		case *pattern.TestTable:
			p.renderTestTable(&sb, v)
		}
	}
	return sb.String()
}

func noticeTag(level string) string {
	switch level {
	case pattern.NoticeError:
		return "ERR"
	case pattern.NoticeWarn:
		return "WARN"
	default:
		return "INFO"
	}
}

func (p *Plain) renderSummary(sb *strings.Builder, s *pattern.Summary) {
	if s.Label != "" {
		sb.WriteString(s.Label + "\n")
	}
	for _, m := range s.Metrics {
		sb.WriteString("  " + m.Label + ": " + m.Value + "\n")
	}
}

// renderPodium lists places by rank, not display order.
func (p *Plain) renderPodium(sb *strings.Builder, pd *pattern.Podium) {
	if len(pd.Slots) == 0 {
		return
	}
	if pd.Label != "" {
		sb.WriteString(pd.Label + "\n")
	}
	for rank := 1; rank <= leaderboard.PodiumSize; rank++ {
		for _, s := range pd.Slots {
			if s.Rank == rank {
				fmt.Fprintf(sb, "  %s %s %s\n", podium.Ordinal(rank), s.Entry.Name, leaderboard.FormatScore(s.Entry.Score))
			}
		}
	}
}

func (p *Plain) renderLeaderboard(sb *strings.Builder, l *pattern.Leaderboard) {
	if l.Label != "" {
		sb.WriteString(l.Label + "\n")
	}
	if len(l.Items) == 0 {
		if l.EmptyText != "" {
			sb.WriteString("  " + l.EmptyText + "\n")
		}
		return
	}
	for _, item := range l.Items {
		fmt.Fprintf(sb, "  %d. %s %s\n", item.Rank, item.Name, item.Metric)
	}
}

func (p *Plain) renderTestTable(sb *strings.Builder, t *pattern.TestTable) {
	if len(t.Results) == 0 {
		return
	}
	if t.Label != "" {
		sb.WriteString(t.Label + "\n")
	}
	for _, r := range t.Results {
		var tag string
		switch r.Status {
		case pattern.StatusCorrect:
			tag = "OK  "
		case pattern.StatusIncorrect:
			tag = "FAIL"
		default:
			tag = "??? "
		}
		line := fmt.Sprintf("  %s %s [expected %s]", tag, r.Name, r.Expected)
		if r.Actual != "" {
			line += " got " + r.Actual
		}
		sb.WriteString(line + "\n")
	}
}
