package compareview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/panediff/internal/diffview"
	"github.com/zjrosen/panediff/internal/ui/styles"
)

const toolbarHint = "F7/F8: Navigate | Esc: Close"

// button is one toolbar entry.
type button struct {
	action diffview.Action
	label  string
	zoneID string
}

var toolbarButtons = []button{
	{action: diffview.ActionFirst, label: "⏮ First", zoneID: "compareview-first"},
	{action: diffview.ActionPrevious, label: "◀ Prev", zoneID: "compareview-prev"},
	{action: diffview.ActionNext, label: "Next ▶", zoneID: "compareview-next"},
	{action: diffview.ActionLast, label: "Last ⏭", zoneID: "compareview-last"},
	{action: diffview.ActionClose, label: "✕ Close", zoneID: "compareview-close"},
}

// renderToolbar draws the buttons followed by the key hint. Buttons are
// bubblezone zones; the program view must pass through zone.Scan.
func renderToolbar(width int, hover diffview.Action) string {
	parts := make([]string, 0, len(toolbarButtons))
	for _, b := range toolbarButtons {
		style := styles.ToolbarButtonStyle
		switch {
		case b.action == hover:
			style = styles.ToolbarButtonHoverStyle
		case b.action == diffview.ActionClose:
			style = styles.ToolbarCloseStyle
		}
		parts = append(parts, zone.Mark(b.zoneID, style.Render(b.label)))
	}

	bar := strings.Join(parts, " ")
	hint := styles.GutterStyle.Render(toolbarHint)
	gap := width - lipgloss.Width(bar) - lipgloss.Width(hint)
	if gap < 1 {
		return bar
	}
	return bar + strings.Repeat(" ", gap) + hint
}

// buttonAt returns the action of the toolbar button under the mouse.
func buttonAt(msg tea.MouseMsg) diffview.Action {
	for _, b := range toolbarButtons {
		if z := zone.Get(b.zoneID); z != nil && z.InBounds(msg) {
			return b.action
		}
	}
	return diffview.ActionNone
}
