package compareview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/panediff/internal/keys"
	"github.com/zjrosen/panediff/internal/ui/styles"
)

// headerRows is the title line plus the toolbar.
const headerRows = 2

// statusRows is the status bar below the panes.
const statusRows = 1

// frameChrome is the border rows and columns around each pane.
const frameChrome = 2

func (m Model) leftFrameWidth() int {
	return m.width / 2
}

// layout sizes both panes from the terminal size and help visibility.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.help.Width = m.width
	m.help.ShowAll = m.showHelp

	helpRows := 0
	if m.showHelp {
		helpRows = lipgloss.Height(m.help.View(keys.DiffView))
	}

	paneHeight := max(1, m.height-headerRows-statusRows-helpRows-frameChrome)
	// Both panes get the left frame's inner width; on odd terminal widths the
	// right frame pads the spare column, so the panes scroll over one range.
	paneWidth := max(1, m.leftFrameWidth()-frameChrome)
	m.left.SetSize(paneWidth, paneHeight)
	m.right.SetSize(paneWidth, paneHeight)
}

// View renders the window.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	rows := []string{
		m.renderTitle(),
		renderToolbar(m.width, m.hover),
		m.renderPanes(),
		m.renderStatus(),
	}
	if m.showHelp {
		rows = append(rows, m.help.View(keys.DiffView))
	}
	out := strings.Join(rows, "\n")
	if m.standalone {
		// top-level view: resolve toolbar zones
		return zone.Scan(out)
	}
	return out
}

func (m Model) renderTitle() string {
	title := styles.CompareTitle(m.input.Left.DisplayName, m.input.Right.DisplayName)
	if f := m.font.String(); f != "" {
		title += " (" + f + ")"
	}
	return styles.TitleStyle.Render(styles.Truncate(title, m.width))
}

func (m Model) renderPanes() string {
	leftWidth := m.leftFrameWidth()
	rightWidth := m.width - leftWidth
	frameHeight := m.left.Height() + frameChrome

	left := styles.RenderWithTitleBorder(m.left.View(),
		paneLabel(m.input.Left.DisplayName, leftWidth), leftWidth, frameHeight, m.left.Focused())
	right := styles.RenderWithTitleBorder(m.right.View(),
		paneLabel(m.input.Right.DisplayName, rightWidth), rightWidth, frameHeight, m.right.Focused())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// paneLabel fits a display name into a frame title.
func paneLabel(name string, frameWidth int) string {
	// corners, dashes and spaces around the title
	return styles.Truncate(name, frameWidth-6)
}

func (m Model) renderStatus() string {
	left := m.sess.ctrl.StatusText()
	if m.err != nil {
		left = lipgloss.NewStyle().Foreground(styles.StatusErrorColor).Render(m.err.Error())
	}
	right := m.sess.ctrl.NavText()

	inner := max(0, m.width-2)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	line := left + strings.Repeat(" ", max(1, gap)) + right
	line = styles.Truncate(line, inner)
	return styles.StatusBarStyle.Width(m.width).Render(line)
}
