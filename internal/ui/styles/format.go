package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Truncate shortens s to at most width cells, ending in Ellipsis when cut.
// ANSI sequences in s are preserved.
func Truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), Ellipsis)
}

// CompareTitle formats the window title for a comparison, e.g.
// "Compare: old.txt ↔ new.txt".
func CompareTitle(left, right string) string {
	return "Compare: " + left + " ↔ " + right
}
