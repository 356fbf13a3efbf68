package diffview

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zjrosen/panediff/internal/log"
)

// Surface is the capability a hosting toolkit provides for one pane.
// It is the entire API the core uses to display and scroll a document.
type Surface interface {
	// SetText replaces the full document. Returns ErrReadOnly while read-only.
	SetText(text string) error
	SetReadOnly(readOnly bool)
	ReadOnly() bool

	// MarkLine attaches a classification to a zero-based line.
	MarkLine(line int, c Classification)

	FirstVisibleLine() int
	SetFirstVisibleLine(line int)
	XOffset() int
	SetXOffset(offset int)

	// GotoLine moves the caret to the start of a zero-based line.
	GotoLine(line int)
	LineCount() int
	// LinesOnScreen is the number of fully visible lines.
	LinesOnScreen() int
}

// SegmentMarker is implemented by surfaces that can show word-level spans.
type SegmentMarker interface {
	MarkSegments(line int, segs []Segment)
}

// ChangedLineIndex is the ordered set of zero-based changed line positions.
// It is strictly increasing and holds no duplicates.
type ChangedLineIndex []int

// Renderer loads an aligned Result into two surfaces.
type Renderer struct{}

// Render loads both sides, marks every classified line and returns the
// changed-line index (left Deleted/Modified ∪ right Inserted).
//
// Surfaces are left read-only. Marking is bounded by the surface line count,
// so records beyond a short surface are ignored.
func (Renderer) Render(left, right Surface, res Result) (ChangedLineIndex, error) {
	if err := loadText(left, res.Left); err != nil {
		return nil, fmt.Errorf("loading left pane: %w", err)
	}
	if err := loadText(right, res.Right); err != nil {
		return nil, fmt.Errorf("loading right pane: %w", err)
	}

	var changed []int
	changed = markLines(left, res.Left, changed, func(c Classification) bool {
		return c == Deleted || c == Modified
	})
	changed = markLines(right, res.Right, changed, func(c Classification) bool {
		return c == Inserted
	})

	slices.Sort(changed)
	changed = slices.Compact(changed)

	if n := len(res.Left); n != left.LineCount() && n > 0 {
		log.Warn(log.CatDiff, "left record count differs from surface", "records", n, "lines", left.LineCount())
	}
	return ChangedLineIndex(changed), nil
}

// loadText sets the joined record text, lifting read-only for the write only.
func loadText(s Surface, records []LineRecord) error {
	s.SetReadOnly(false)
	defer s.SetReadOnly(true)

	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = rec.Text
	}
	return s.SetText(strings.Join(lines, "\n"))
}

// markLines marks non-Unchanged records and appends positions accepted by isChange.
func markLines(s Surface, records []LineRecord, changed []int, isChange func(Classification) bool) []int {
	segMarker, _ := s.(SegmentMarker)

	limit := min(len(records), s.LineCount())
	for i := range limit {
		rec := records[i]
		if rec.Kind == Unchanged {
			continue
		}
		s.MarkLine(i, rec.Kind)
		if segMarker != nil && len(rec.Segments) > 0 {
			segMarker.MarkSegments(i, rec.Segments)
		}
		if isChange(rec.Kind) {
			changed = append(changed, i)
		}
	}
	return changed
}
