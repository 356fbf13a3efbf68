package pane

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const replacementChar = "�"

// expandTabs replaces tabs with spaces up to the next tab stop, starting at
// column col, and returns the expanded text and the column after it.
// Control characters are replaced so document content can never emit
// terminal escape sequences.
func expandTabs(s string, tabWidth, col int) (string, int) {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	if !strings.ContainsFunc(s, unicode.IsControl) {
		return s, col + runewidth.StringWidth(s)
	}

	var b strings.Builder
	state := -1
	for len(s) > 0 {
		cluster, rest, _, newState := uniseg.StepString(s, state)
		s, state = rest, newState

		switch {
		case cluster == "\t":
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case strings.ContainsFunc(cluster, unicode.IsControl):
			b.WriteString(replacementChar)
			col += runewidth.StringWidth(replacementChar)
		default:
			b.WriteString(cluster)
			col += runewidth.StringWidth(cluster)
		}
	}
	return b.String(), col
}
