package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/promptboard/pkg/leaderboard"
	"github.com/dkoosis/promptboard/pkg/pattern"
	"github.com/dkoosis/promptboard/pkg/podium"
)

// Terminal renders patterns as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.Leaderboard:
		return t.renderLeaderboard(v)
	case *pattern.Podium:
		return t.renderPodium(v)
	case *pattern.TestTable:
		return t.renderTestTable(v)
	case *pattern.Notice:
		return t.renderNotice(v)
	default:
		return ""
	}
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Label != "" {
		sb.WriteString(t.theme.Bold.Render(s.Label))
		sb.WriteString("\n")
	}
	for _, m := range s.Metrics {
		sb.WriteString("  ")
		icon, style := t.iconStyle(m.Kind)
		sb.WriteString(style.Render(icon + " " + m.Label + ": " + m.Value))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderLeaderboard(l *pattern.Leaderboard) string {
	var sb strings.Builder
	if l.Label != "" {
		header := l.Label
		if l.TotalCount > len(l.Items) {
			header += fmt.Sprintf(" (top %d of %d)", len(l.Items), l.TotalCount)
		}
		sb.WriteString(t.theme.Bold.Render(header))
		sb.WriteString("\n")
	}
	if len(l.Items) == 0 {
		if l.EmptyText != "" {
			sb.WriteString("  " + t.theme.Muted.Render(l.EmptyText) + "\n")
		}
		return sb.String()
	}

	maxName, maxMetric := 0, 0
	for _, item := range l.Items {
		maxName = max(maxName, runewidth.StringWidth(item.Name))
		maxMetric = max(maxMetric, runewidth.StringWidth(item.Metric))
	}
	maxName = min(maxName, 40)

	for _, item := range l.Items {
		sb.WriteString("  ")
		if l.ShowRank {
			sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("%3d. ", item.Rank)))
		}
		name := runewidth.Truncate(item.Name, maxName, "...")
		style := t.theme.Primary
		if item.Rank >= 1 && item.Rank <= len(t.theme.Places) {
			style = t.theme.Places[item.Rank-1]
		}
		sb.WriteString(style.Render(padRight(name, maxName)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Warning.Render(padLeft(item.Metric, maxMetric)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderPodium draws one column per slot, bottoms aligned.
func (t *Terminal) renderPodium(p *pattern.Podium) string {
	if len(p.Slots) == 0 {
		return ""
	}
	colWidth := 10
	for _, s := range p.Slots {
		colWidth = max(colWidth, runewidth.StringWidth(s.Entry.Name)+2)
	}
	colWidth = min(colWidth, max(10, (t.width-4)/3))

	cols := make([]string, 0, len(p.Slots))
	for _, s := range p.Slots {
		cols = append(cols, t.podiumColumn(s, colWidth))
	}

	var sb strings.Builder
	if p.Label != "" {
		sb.WriteString(t.theme.Bold.Render(p.Label))
		sb.WriteString("\n\n")
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Bottom, cols...))
	sb.WriteString("\n")
	return sb.String()
}

func (t *Terminal) podiumColumn(s podium.Slot, width int) string {
	style := t.theme.Places[s.Rank-1]
	center := func(text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
	}

	name := runewidth.Truncate(s.Entry.Name, width-1, "…")
	if s.Rank == 1 {
		name = t.theme.Bold.Render(name)
	}
	lines := []string{
		center(name),
		center(style.Render(leaderboard.FormatScore(s.Entry.Score))),
	}
	bar := style.Render(strings.Repeat(t.theme.Icons.Bar, width-2))
	for i := 0; i < s.Height; i++ {
		lines = append(lines, center(bar))
	}
	label := podium.Ordinal(s.Rank)
	if s.Rank == 1 {
		label = t.theme.Icons.Crown + " " + label
	}
	lines = append(lines, center(t.theme.Bold.Render(label)))
	return strings.Join(lines, "\n")
}

func (t *Terminal) renderTestTable(tt *pattern.TestTable) string {
	if len(tt.Results) == 0 {
		return ""
	}
	var sb strings.Builder
	if tt.Label != "" {
		sb.WriteString(t.theme.Bold.Render(tt.Label))
		sb.WriteString("\n")
	}

	maxName, maxExpected := 0, 0
	for _, r := range tt.Results {
		maxName = max(maxName, runewidth.StringWidth(r.Name))
		maxExpected = max(maxExpected, runewidth.StringWidth(r.Expected))
	}
	maxName = min(maxName, max(20, t.width-maxExpected-24))

	for _, r := range tt.Results {
		sb.WriteString("  ")
		icon, style := t.statusIconStyle(r.Status)
		sb.WriteString(style.Render(icon + " "))
		sb.WriteString(padRight(runewidth.Truncate(r.Name, maxName, "..."), maxName))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(padRight(r.Expected, maxExpected)))
		if r.Actual != "" {
			sb.WriteString("  ")
			sb.WriteString(style.Render(r.Actual))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderNotice(n *pattern.Notice) string {
	if n.Text == "" {
		return ""
	}
	icon, style := t.iconStyle(n.Level)
	return style.Render(icon+" "+n.Text) + "\n"
}

func (t *Terminal) iconStyle(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return t.theme.Icons.Pass, t.theme.Success
	case "error":
		return t.theme.Icons.Fail, t.theme.Error
	case "warning":
		return t.theme.Icons.Warn, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Primary
	}
}

func (t *Terminal) statusIconStyle(status string) (string, lipgloss.Style) {
	switch status {
	case pattern.StatusCorrect:
		return t.theme.Icons.Pass, t.theme.Success
	case pattern.StatusIncorrect:
		return t.theme.Icons.Fail, t.theme.Error
	default:
		return t.theme.Icons.Unknown, t.theme.Muted
	}
}

func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func padLeft(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}
