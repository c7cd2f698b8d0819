// Package stream redraws the live leaderboard in place on a plain terminal.
//
// Changes between polls scroll past as history lines; the current standings
// stay pinned below them as a footer that is erased and redrawn on every
// update.
package stream

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
)

// termWriter is the single point of terminal output while streaming.
// No other code writes to the output during a run.
type termWriter struct {
	out         io.Writer
	width       int
	height      int
	footerLines int
}

func newTermWriter(out io.Writer, width, height int) *termWriter {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return &termWriter{out: out, width: width, height: height}
}

// PrintLine writes a line to the scrolling history region.
func (w *termWriter) PrintLine(s string) {
	fmt.Fprintln(w.out, s)
}

// EraseFooter moves the cursor up over the footer, clearing each line.
func (w *termWriter) EraseFooter() {
	if w.footerLines == 0 {
		return
	}
	for i := 0; i < w.footerLines; i++ {
		fmt.Fprint(w.out, "\r\033[2K")
		if i < w.footerLines-1 {
			fmt.Fprint(w.out, "\033[1A")
		}
	}
	// The cursor sits one line below the footer after DrawFooter.
	fmt.Fprint(w.out, "\033[1A\r\033[2K")
	w.footerLines = 0
}

// DrawFooter prints lines truncated to the terminal width, keeping at most
// half the screen and summarizing the rest.
func (w *termWriter) DrawFooter(lines []string) {
	maxLines := w.maxFooterLines(len(lines))
	capped := len(lines) > maxLines

	printLines := lines
	if capped {
		printLines = lines[:maxLines-1]
	}

	for _, line := range printLines {
		fmt.Fprintln(w.out, truncateToWidth(line, w.width))
	}
	if capped {
		more := fmt.Sprintf("  ... and %d more", len(lines)-len(printLines))
		fmt.Fprintln(w.out, truncateToWidth(more, w.width))
	}
	w.footerLines = len(printLines)
	if capped {
		w.footerLines++
	}
}

func (w *termWriter) maxFooterLines(count int) int {
	maxH := max(w.height/2, 3)
	return min(count, maxH)
}

func truncateToWidth(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
