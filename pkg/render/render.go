// Package render provides output renderers for promptboard's patterns.
package render

import "github.com/dkoosis/promptboard/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}

// Format names accepted by ForFormat.
const (
	FormatAuto     = "auto"
	FormatTerminal = "terminal"
	FormatPlain    = "plain"
	FormatJSON     = "json"
)

// ValidFormat reports whether name is a known output format.
func ValidFormat(name string) bool {
	switch name {
	case FormatAuto, FormatTerminal, FormatPlain, FormatJSON:
		return true
	}
	return false
}

// ForFormat returns the renderer for a resolved (non-auto) format.
func ForFormat(format string, theme Theme, width int) Renderer {
	switch format {
	case FormatJSON:
		return NewJSON()
	case FormatPlain:
		return NewPlain()
	default:
		return NewTerminal(theme, width)
	}
}
