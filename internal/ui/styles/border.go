package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderWithTitleBorder frames content with a title embedded in the top
// border: ╭─ Title ─────╮. The frame uses BorderFocusColor when focused.
// Content lines are cut or padded to the inner width and height.
func RenderWithTitleBorder(content, title string, width, height int, focused bool) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = BorderFocusColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(focused)

	innerWidth := max(width-2, 1)
	contentHeight := max(height-2, 1)

	lines := strings.Split(content, "\n")
	var b strings.Builder
	b.WriteString(buildTopBorder(title, innerWidth, borderStyle, titleStyle))
	b.WriteByte('\n')
	side := borderStyle.Render(borderVertical)
	for i := range contentHeight {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		switch w := lipgloss.Width(line); {
		case w > innerWidth:
			line = ansi.Truncate(line, innerWidth, "")
		case w < innerWidth:
			line += strings.Repeat(" ", innerWidth-w)
		}
		b.WriteString(side + line + side + "\n")
	}
	b.WriteString(borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight))
	return b.String()
}

// buildTopBorder creates the top border with embedded title.
// Titles that do not fit are truncated with an ellipsis; below four inner
// columns the title is dropped.
func buildTopBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	if title == "" || innerWidth < 4 {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}

	// "─ " before and " ─" after the title, at minimum.
	display := Truncate(title, innerWidth-4)
	remaining := max(innerWidth-3-lipgloss.Width(display), 0)

	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(display) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, remaining)+borderTopRight)
}
