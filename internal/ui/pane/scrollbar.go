package pane

import (
	"strings"

	"github.com/zjrosen/panediff/internal/ui/styles"
)

// Scrollbar characters
const (
	scrollbarThumbChar = "█" // Full block
	scrollbarTrackChar = "░" // Light shade
	scrollbarMarkChar  = "▪" // A changed line maps to this row
)

// ScrollbarConfig configures scrollbar rendering.
type ScrollbarConfig struct {
	TotalLines     int // Total lines in content
	ViewportHeight int // Visible lines in viewport
	ScrollOffset   int // Current scroll position (top line)

	// ChangedLines are content lines shown as marks on the track.
	ChangedLines []int
}

// calculateThumbBounds returns the start row and height of the scroll thumb.
// Formula: thumbHeight = max(1, viewportHeight * viewportHeight / totalLines)
// Position: start = scrollOffset * (viewportHeight - thumbHeight) / maxOffset
func calculateThumbBounds(cfg ScrollbarConfig) (start, height int) {
	if cfg.TotalLines <= 0 || cfg.ViewportHeight <= 0 {
		return 0, 0
	}
	if cfg.TotalLines <= cfg.ViewportHeight {
		return 0, cfg.ViewportHeight
	}

	height = max(1, cfg.ViewportHeight*cfg.ViewportHeight/cfg.TotalLines)

	maxOffset := cfg.TotalLines - cfg.ViewportHeight
	scrollableTrack := cfg.ViewportHeight - height
	if scrollableTrack <= 0 {
		return 0, height
	}

	start = scrollableTrack * cfg.ScrollOffset / maxOffset
	start = max(0, min(start, cfg.ViewportHeight-height))
	return start, height
}

// markRows maps changed content lines onto track rows.
func markRows(cfg ScrollbarConfig) map[int]bool {
	if len(cfg.ChangedLines) == 0 || cfg.TotalLines <= 0 || cfg.ViewportHeight <= 0 {
		return nil
	}
	rows := make(map[int]bool, len(cfg.ChangedLines))
	for _, line := range cfg.ChangedLines {
		if line < 0 || line >= cfg.TotalLines {
			continue
		}
		if cfg.TotalLines <= cfg.ViewportHeight {
			rows[line] = true
			continue
		}
		rows[line*cfg.ViewportHeight/cfg.TotalLines] = true
	}
	return rows
}

// RenderScrollbar renders the scrollbar as ViewportHeight rows joined by \n.
// When the content fits, the track is blank apart from change marks.
func RenderScrollbar(cfg ScrollbarConfig) string {
	if cfg.ViewportHeight <= 0 || cfg.TotalLines <= 0 {
		return ""
	}

	fits := cfg.TotalLines <= cfg.ViewportHeight
	thumbStart, thumbHeight := calculateThumbBounds(cfg)
	marks := markRows(cfg)

	lines := make([]string, cfg.ViewportHeight)
	for row := range cfg.ViewportHeight {
		switch {
		case marks[row]:
			lines[row] = styles.ScrollbarMarkStyle.Render(scrollbarMarkChar)
		case fits:
			lines[row] = " "
		case row >= thumbStart && row < thumbStart+thumbHeight:
			lines[row] = styles.ScrollbarThumbStyle.Render(scrollbarThumbChar)
		default:
			lines[row] = styles.ScrollbarTrackStyle.Render(scrollbarTrackChar)
		}
	}
	return strings.Join(lines, "\n")
}
