// Package tui is the interactive results screen.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkoosis/promptboard/internal/view"
	"github.com/dkoosis/promptboard/pkg/pattern"
	"github.com/dkoosis/promptboard/pkg/poller"
	"github.com/dkoosis/promptboard/pkg/render"
)

// Mode selects which standings the screen shows.
type Mode int

const (
	// Final polls until final scores exist, then shows the podium.
	Final Mode = iota
	// Live refreshes the general leaderboard.
	Live
)

// Source is a running poller. *poller.Readiness and *poller.Live satisfy it.
type Source interface {
	Stop()
	Refresh()
	Snapshot() poller.Snapshot
}

// Model is the bubbletea model for the results screen.
type Model struct {
	mode     Mode
	src      Source
	updates  <-chan poller.Snapshot
	theme    render.Theme
	interval time.Duration

	snap     poller.Snapshot
	spinner  spinner.Model
	width    int
	height   int
	quitting bool
}

// New creates a model that renders snapshots arriving on updates. interval
// is the source's poll interval, named in the pending message.
func New(mode Mode, src Source, updates <-chan poller.Snapshot, theme render.Theme, interval time.Duration) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Primary))
	return Model{
		mode:     mode,
		src:      src,
		updates:  updates,
		theme:    theme,
		interval: interval,
		snap:     src.Snapshot(),
		spinner:  sp,
		width:    80,
	}
}

// Run shows the screen until the user quits or ctx ends. The poller is
// stopped on the way out.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	defer m.src.Stop()
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

type snapshotMsg poller.Snapshot

func (m Model) listenUpdates() tea.Cmd {
	return func() tea.Msg {
		s, ok := <-m.updates
		if !ok {
			return nil
		}
		return snapshotMsg(s)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listenUpdates(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			m.src.Stop()
			return m, tea.Quit
		case "r":
			m.src.Refresh()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case snapshotMsg:
		m.snap = poller.Snapshot(msg)
		return m, m.listenUpdates()
	case spinner.TickMsg:
		if !view.Loading(m.snap) {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Snapshot returns the state the model currently shows.
func (m Model) Snapshot() poller.Snapshot {
	return m.snap
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := view.FinalTitle
	patterns := view.Final(m.snap, m.interval)
	if m.mode == Live {
		title = view.LiveTitle
		patterns = view.Live(m.snap)
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(m.theme.Bold.Render(title))
	sb.WriteString("\n\n")

	term := render.NewTerminal(m.theme, m.width)
	if view.Loading(m.snap) {
		// The trailing loading notice becomes a spinner line.
		last := patterns[len(patterns)-1].(*pattern.Notice)
		if body := term.Render(patterns[:len(patterns)-1]); body != "" {
			sb.WriteString(body)
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s %s\n", m.spinner.View(), last.Text)
	} else {
		sb.WriteString(term.Render(patterns))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.theme.Muted.Render(m.statusLine()))
	return sb.String()
}

func (m Model) statusLine() string {
	parts := []string{"r refresh", "q quit"}
	if m.snap.Fetches > 0 {
		parts = append(parts, fmt.Sprintf("%d fetches", m.snap.Fetches))
	}
	if m.snap.Retrying && m.mode == Final {
		parts = append(parts, "waiting for scores")
	}
	return strings.Join(parts, " · ")
}
