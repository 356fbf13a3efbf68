package diffview

import "strings"

// fakeSurface is an in-memory Surface. Scrolling clamps like a real editor
// and optionally reports every change through onScroll.
type fakeSurface struct {
	lines    []string
	readOnly bool
	marks    map[int]Classification
	segments map[int][]Segment
	first    int
	xOffset  int
	caret    int
	screen   int

	setTextCalls int
	scrollWrites int
	onScroll     func()
}

func newFakeSurface(screen int) *fakeSurface {
	return &fakeSurface{
		lines:    []string{""},
		marks:    make(map[int]Classification),
		segments: make(map[int][]Segment),
		screen:   screen,
	}
}

func (f *fakeSurface) SetText(text string) error {
	if f.readOnly {
		return ErrReadOnly
	}
	f.setTextCalls++
	f.lines = strings.Split(text, "\n")
	f.marks = make(map[int]Classification)
	f.segments = make(map[int][]Segment)
	return nil
}

func (f *fakeSurface) SetReadOnly(readOnly bool) { f.readOnly = readOnly }
func (f *fakeSurface) ReadOnly() bool            { return f.readOnly }

func (f *fakeSurface) MarkLine(line int, c Classification) { f.marks[line] = c }

func (f *fakeSurface) MarkSegments(line int, segs []Segment) { f.segments[line] = segs }

func (f *fakeSurface) FirstVisibleLine() int { return f.first }

func (f *fakeSurface) SetFirstVisibleLine(line int) {
	line = max(0, min(line, len(f.lines)-1))
	f.scrollWrites++
	if line == f.first {
		return
	}
	f.first = line
	if f.onScroll != nil {
		f.onScroll()
	}
}

func (f *fakeSurface) XOffset() int { return f.xOffset }

func (f *fakeSurface) SetXOffset(offset int) {
	offset = max(0, offset)
	if offset == f.xOffset {
		return
	}
	f.xOffset = offset
	if f.onScroll != nil {
		f.onScroll()
	}
}

func (f *fakeSurface) GotoLine(line int) { f.caret = line }
func (f *fakeSurface) LineCount() int    { return len(f.lines) }
func (f *fakeSurface) LinesOnScreen() int {
	return f.screen
}

// plainSurface hides the SegmentMarker capability of fakeSurface.
type plainSurface struct {
	Surface
}
