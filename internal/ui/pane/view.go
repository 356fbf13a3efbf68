package pane

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/panediff/internal/diffview"
	"github.com/zjrosen/panediff/internal/ui/styles"
)

const (
	caretIndicator = "▸"
	paddingFill    = "╱"
)

func (p *Pane) gutterWidth() int {
	if !p.gutter {
		return 0
	}
	// indicator + digits + separator
	return 1 + len(strconv.Itoa(len(p.lines))) + 1
}

func (p *Pane) scrollbarWidth() int {
	if !p.scrollbar {
		return 0
	}
	return 1
}

func (p *Pane) contentWidth() int {
	return max(1, p.width-p.gutterWidth()-p.scrollbarWidth())
}

// View renders the visible rows. Every row is exactly Width cells wide.
func (p *Pane) View() string {
	if p.width <= 0 || p.height <= 0 {
		return ""
	}

	numbers := p.lineNumbers()
	cw := p.contentWidth()
	gw := p.gutterWidth()

	var bar []string
	if p.scrollbar {
		bar = strings.Split(RenderScrollbar(ScrollbarConfig{
			TotalLines:     len(p.lines),
			ViewportHeight: p.height,
			ScrollOffset:   p.first,
			ChangedLines:   p.changedLines(),
		}), "\n")
	}

	rows := make([]string, p.height)
	for row := range p.height {
		var b strings.Builder
		i := p.first + row
		if i < len(p.lines) {
			b.WriteString(p.renderGutter(i, numbers[i], gw))
			b.WriteString(p.renderContent(i, cw))
		} else {
			b.WriteString(strings.Repeat(" ", gw+cw))
		}
		if row < len(bar) {
			b.WriteString(bar[row])
		}
		rows[row] = b.String()
	}
	return strings.Join(rows, "\n")
}

func (p *Pane) renderGutter(i, number, gw int) string {
	if gw == 0 {
		return ""
	}
	indicator := " "
	if i == p.caret {
		indicator = caretIndicator
	}
	num := ""
	if number > 0 {
		num = strconv.Itoa(number)
	}
	return styles.GutterStyle.Render(fmt.Sprintf("%s%*s ", indicator, gw-2, num))
}

func (p *Pane) renderContent(i, cw int) string {
	kind := p.marks[i]
	if kind == diffview.Padding {
		return styles.PaddingLineStyle.Render(strings.Repeat(paddingFill, cw))
	}

	lineStyle := lineStyleFor(kind)
	if kind == diffview.Unchanged && i == p.caret {
		lineStyle = styles.CursorLineStyle
	}

	var styled string
	if segs := p.segments[i]; len(segs) > 0 {
		styled = p.renderSegments(segs, lineStyle)
	} else {
		styled = lineStyle.Render(p.lines[i])
	}

	visible := ansi.Truncate(ansi.TruncateLeft(styled, p.xOffset, ""), cw, "")
	if w := ansi.StringWidth(visible); w < cw {
		visible += lineStyle.Render(strings.Repeat(" ", cw-w))
	}
	return visible
}

// renderSegments styles word spans on top of the line background. Tabs are
// expanded across segment boundaries so columns match the plain text.
func (p *Pane) renderSegments(segs []diffview.Segment, lineStyle lipgloss.Style) string {
	var b strings.Builder
	col := 0
	for _, seg := range segs {
		var text string
		text, col = expandTabs(seg.Text, p.tabWidth, col)
		switch seg.Kind {
		case diffview.SegmentAdded:
			b.WriteString(styles.WordAddedStyle.Render(text))
		case diffview.SegmentDeleted:
			b.WriteString(styles.WordDeletedStyle.Render(text))
		default:
			b.WriteString(lineStyle.Render(text))
		}
	}
	return b.String()
}

func lineStyleFor(kind diffview.Classification) lipgloss.Style {
	switch kind {
	case diffview.Inserted:
		return styles.InsertedLineStyle
	case diffview.Deleted:
		return styles.DeletedLineStyle
	case diffview.Modified:
		return styles.ModifiedLineStyle
	default:
		return lipgloss.NewStyle()
	}
}

func (p *Pane) changedLines() []int {
	var lines []int
	for i := range p.lines {
		switch p.marks[i] {
		case diffview.Inserted, diffview.Deleted, diffview.Modified:
			lines = append(lines, i)
		}
	}
	return lines
}
