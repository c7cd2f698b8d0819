package stream

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/promptboard/pkg/leaderboard"
	"github.com/dkoosis/promptboard/pkg/poller"
)

// LineKind identifies the type of output line for styling.
type LineKind int

const (
	KindJoined LineKind = iota
	KindScore
	KindRank
	KindError
	KindRecovered
	KindStanding
	KindSeparator
)

// StyleFunc formats a line with colors/symbols.
// If nil, no styling is applied.
type StyleFunc func(kind LineKind, text string) string

// nameWidth is the column width for participant names.
const nameWidth = 24

type standing struct {
	rank  int
	score float64
}

// board turns a sequence of poller snapshots into history lines and a
// standings footer.
type board struct {
	tw    *termWriter
	style StyleFunc
	now   func() time.Time

	prev    map[string]standing
	seeded  bool
	entries leaderboard.RankedList
	lastErr string
	updates int
	errors  int
}

func newBoard(tw *termWriter, style StyleFunc) *board {
	return &board{tw: tw, style: style, now: time.Now, prev: make(map[string]standing)}
}

func (b *board) styleLine(kind LineKind, text string) string {
	if b.style != nil {
		return b.style(kind, text)
	}
	return text
}

func (b *board) history(kind LineKind, text string) {
	b.tw.EraseFooter()
	b.tw.PrintLine(b.styleLine(kind, text))
}

// handleSnapshot prints what changed since the previous snapshot and
// redraws the standings.
func (b *board) handleSnapshot(s poller.Snapshot) {
	b.updates++
	if s.Err != nil {
		b.errors++
		if msg := s.Err.Error(); msg != b.lastErr {
			b.history(KindError, "  ! fetch failed: "+msg)
			b.lastErr = msg
		}
		b.redrawFooter()
		return
	}
	if b.lastErr != "" {
		b.history(KindRecovered, "  ok fetch recovered")
		b.lastErr = ""
	}

	next := make(map[string]standing, len(s.Entries))
	for i, e := range s.Entries {
		cur := standing{rank: i + 1, score: e.Score}
		next[e.Name] = cur
		if !b.seeded {
			continue
		}
		old, seen := b.prev[e.Name]
		switch {
		case !seen:
			b.history(KindJoined, fmt.Sprintf("  + %s joined at #%d with %s",
				e.Name, cur.rank, leaderboard.FormatScore(e.Score)))
		case old.score != cur.score:
			b.history(KindScore, fmt.Sprintf("  ^ %s %s -> %s (#%d)",
				e.Name, leaderboard.FormatScore(old.score), leaderboard.FormatScore(cur.score), cur.rank))
		case old.rank != cur.rank:
			b.history(KindRank, fmt.Sprintf("  ~ %s #%d -> #%d", e.Name, old.rank, cur.rank))
		}
	}
	b.prev = next
	b.seeded = true
	b.entries = s.Entries
	b.redrawFooter()
}

// redrawFooter pins the current standings below the history.
func (b *board) redrawFooter() {
	b.tw.EraseFooter()
	lines := []string{b.styleLine(KindSeparator,
		fmt.Sprintf("  --- standings %s ---", b.now().Format("15:04:05")))}
	if len(b.entries) == 0 {
		lines = append(lines, b.styleLine(KindStanding, "  No results yet"))
	}
	for i, e := range b.entries {
		name := runewidth.FillRight(runewidth.Truncate(e.Name, nameWidth, "..."), nameWidth)
		lines = append(lines, b.styleLine(KindStanding,
			fmt.Sprintf("  %3d. %s %s", i+1, name, leaderboard.FormatScore(e.Score))))
	}
	b.tw.DrawFooter(lines)
}

// finish leaves the last standings on screen and prints a summary.
func (b *board) finish() {
	b.tw.footerLines = 0
	summary := fmt.Sprintf("  %d updates, %d failed", b.updates, b.errors)
	b.tw.PrintLine(b.styleLine(KindSeparator, summary))
}

// Run renders snapshots from updates to out until updates is closed (the
// poller stopped) or ctx ends. Returns exit code: 130 when ctx ended, 0 when
// the poller was stopped for another reason.
func Run(ctx context.Context, updates <-chan poller.Snapshot, out io.Writer, width, height int, style StyleFunc) int {
	b := newBoard(newTermWriter(out, width, height), style)
	for {
		select {
		case <-ctx.Done():
			b.finish()
			return 130
		case s, ok := <-updates:
			if !ok {
				b.finish()
				if ctx.Err() != nil {
					return 130
				}
				return 0
			}
			b.handleSnapshot(s)
		}
	}
}
