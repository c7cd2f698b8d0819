package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dkoosis/promptboard/pkg/pattern"
	"github.com/dkoosis/promptboard/pkg/render"
	"github.com/dkoosis/promptboard/pkg/stream"
)

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// isTTYReader reports whether r is a terminal.
func isTTYReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions for w, defaulting to 80x24.
func termSize(w io.Writer) (width, height int) {
	width, height = 80, 24
	if f, ok := w.(*os.File); ok {
		if tw, th, err := term.GetSize(int(f.Fd())); err == nil {
			if tw > 0 {
				width = tw
			}
			if th > 0 {
				height = th
			}
		}
	}
	return width, height
}

// resolveFormat turns "auto" into terminal for a TTY and plain otherwise.
func (a *app) resolveFormat() string {
	if a.cfg.Format != render.FormatAuto {
		return a.cfg.Format
	}
	if isTTYWriter(a.stdout) {
		return render.FormatTerminal
	}
	return render.FormatPlain
}

// interactive reports whether the full-screen UI can run.
func (a *app) interactive() bool {
	return a.resolveFormat() == render.FormatTerminal && isTTYWriter(a.stdout) && isTTYReader(a.stdin)
}

func (a *app) theme() render.Theme {
	if a.cfg.NoColor {
		return render.MonoTheme()
	}
	return render.ThemeByName(a.cfg.Theme)
}

func (a *app) render(patterns []pattern.Pattern) {
	width, _ := termSize(a.stdout)
	fmt.Fprint(a.stdout, render.ForFormat(a.resolveFormat(), a.theme(), width).Render(patterns))
}

// streamStyle colors live board lines with the theme.
func streamStyle(t render.Theme) stream.StyleFunc {
	return func(kind stream.LineKind, text string) string {
		switch kind {
		case stream.KindJoined:
			return t.Success.Render(text)
		case stream.KindScore:
			return t.Warning.Render(text)
		case stream.KindRank:
			return t.Primary.Render(text)
		case stream.KindError:
			return t.Error.Render(text)
		case stream.KindSeparator:
			return t.Muted.Render(text)
		default:
			return text
		}
	}
}
