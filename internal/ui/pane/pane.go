// Package pane provides a read-only, scrollable document pane for the
// terminal. A Pane is the diffview.Surface the compare view hands to the
// diff core: it stores text and per-line classifications, clamps its scroll
// position like an editor would and reports every position change.
package pane

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/panediff/internal/diffview"
)

// DefaultTabWidth is used when no tab width is configured.
const DefaultTabWidth = 4

var (
	_ diffview.Surface       = (*Pane)(nil)
	_ diffview.SegmentMarker = (*Pane)(nil)
)

// Pane is one side of the comparison.
type Pane struct {
	lines    []string // tab-expanded, control characters replaced
	maxWidth int      // widest line in cells
	readOnly bool

	marks    map[int]diffview.Classification
	segments map[int][]diffview.Segment
	numbers  []int // 1-based source line numbers, 0 for padding; nil when stale

	first   int
	xOffset int
	caret   int

	width, height int
	tabWidth      int
	gutter        bool
	scrollbar     bool
	focused       bool

	onScroll func(diffview.ScrollState)
	peer     *Pane // shares the horizontal scroll range, see LinkScroll
}

// Option configures a Pane.
type Option func(*Pane)

// WithTabWidth sets the tab stop width in cells.
func WithTabWidth(n int) Option {
	return func(p *Pane) {
		if n > 0 {
			p.tabWidth = n
		}
	}
}

// WithGutter toggles the line-number gutter.
func WithGutter(show bool) Option {
	return func(p *Pane) { p.gutter = show }
}

// WithScrollbar toggles the scrollbar column.
func WithScrollbar(show bool) Option {
	return func(p *Pane) { p.scrollbar = show }
}

// New creates an empty pane.
func New(opts ...Option) *Pane {
	p := &Pane{
		lines:     []string{""},
		marks:     make(map[int]diffview.Classification),
		segments:  make(map[int][]diffview.Segment),
		caret:     -1,
		tabWidth:  DefaultTabWidth,
		gutter:    true,
		scrollbar: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnScroll registers fn to be called after every change of the first
// visible line or horizontal offset.
func (p *Pane) OnScroll(fn func(diffview.ScrollState)) {
	p.onScroll = fn
}

// LinkScroll gives a and b one horizontal scroll range: the widest line of
// either pane measured against the narrower view. Both panes then clamp any
// offset to the same value, so a mirrored offset is never cut back on one
// side only.
func LinkScroll(a, b *Pane) {
	a.peer, b.peer = b, a
}

// SetSize sets the rendered size in cells, gutter and scrollbar included.
func (p *Pane) SetSize(width, height int) {
	p.width = max(0, width)
	p.height = max(0, height)
	p.reclamp()
}

// Width returns the rendered width.
func (p *Pane) Width() int { return p.width }

// Height returns the rendered height.
func (p *Pane) Height() int { return p.height }

// SetFocused marks the pane as receiving keyboard scroll input.
func (p *Pane) SetFocused(focused bool) { p.focused = focused }

// Focused reports whether the pane receives keyboard scroll input.
func (p *Pane) Focused() bool { return p.focused }

// SetText implements diffview.Surface. It clears marks and the caret; the
// scroll position is kept where the new text allows it.
func (p *Pane) SetText(text string) error {
	if p.readOnly {
		return diffview.ErrReadOnly
	}

	raw := strings.Split(text, "\n")
	p.lines = make([]string, len(raw))
	p.maxWidth = 0
	for i, line := range raw {
		expanded, _ := expandTabs(line, p.tabWidth, 0)
		p.lines[i] = expanded
		p.maxWidth = max(p.maxWidth, runewidth.StringWidth(expanded))
	}

	p.marks = make(map[int]diffview.Classification)
	p.segments = make(map[int][]diffview.Segment)
	p.numbers = nil
	p.caret = -1
	p.reclamp()
	return nil
}

// Text returns the displayed document.
func (p *Pane) Text() string {
	return strings.Join(p.lines, "\n")
}

// SetReadOnly implements diffview.Surface.
func (p *Pane) SetReadOnly(readOnly bool) { p.readOnly = readOnly }

// ReadOnly implements diffview.Surface.
func (p *Pane) ReadOnly() bool { return p.readOnly }

// MarkLine implements diffview.Surface.
func (p *Pane) MarkLine(line int, c diffview.Classification) {
	if line < 0 || line >= len(p.lines) {
		return
	}
	p.marks[line] = c
	p.numbers = nil
}

// MarkSegments implements diffview.SegmentMarker.
func (p *Pane) MarkSegments(line int, segs []diffview.Segment) {
	if line < 0 || line >= len(p.lines) {
		return
	}
	p.segments[line] = segs
}

// Mark returns the classification of a line.
func (p *Pane) Mark(line int) diffview.Classification {
	return p.marks[line]
}

// FirstVisibleLine implements diffview.Surface.
func (p *Pane) FirstVisibleLine() int { return p.first }

// SetFirstVisibleLine implements diffview.Surface. The line is clamped so
// the last page stays full.
func (p *Pane) SetFirstVisibleLine(line int) {
	line = p.clampFirst(line)
	if line == p.first {
		return
	}
	p.first = line
	p.notify()
}

// XOffset implements diffview.Surface.
func (p *Pane) XOffset() int { return p.xOffset }

// SetXOffset implements diffview.Surface. The offset is clamped to the
// widest line.
func (p *Pane) SetXOffset(offset int) {
	offset = p.clampX(offset)
	if offset == p.xOffset {
		return
	}
	p.xOffset = offset
	p.notify()
}

// GotoLine implements diffview.Surface. It moves the caret only.
func (p *Pane) GotoLine(line int) {
	p.caret = max(0, min(line, len(p.lines)-1))
}

// Caret returns the caret line, or -1 before any GotoLine.
func (p *Pane) Caret() int { return p.caret }

// LineCount implements diffview.Surface.
func (p *Pane) LineCount() int { return len(p.lines) }

// LinesOnScreen implements diffview.Surface.
func (p *Pane) LinesOnScreen() int { return p.height }

// ScrollDown scrolls n lines towards the end.
func (p *Pane) ScrollDown(n int) { p.SetFirstVisibleLine(p.first + n) }

// ScrollUp scrolls n lines towards the start.
func (p *Pane) ScrollUp(n int) { p.SetFirstVisibleLine(p.first - n) }

// ScrollRight scrolls n cells right.
func (p *Pane) ScrollRight(n int) { p.SetXOffset(p.xOffset + n) }

// ScrollLeft scrolls n cells left.
func (p *Pane) ScrollLeft(n int) { p.SetXOffset(p.xOffset - n) }

// PageDown scrolls one screen down.
func (p *Pane) PageDown() { p.ScrollDown(max(1, p.height)) }

// PageUp scrolls one screen up.
func (p *Pane) PageUp() { p.ScrollUp(max(1, p.height)) }

// HalfPageDown scrolls half a screen down.
func (p *Pane) HalfPageDown() { p.ScrollDown(max(1, p.height/2)) }

// HalfPageUp scrolls half a screen up.
func (p *Pane) HalfPageUp() { p.ScrollUp(max(1, p.height/2)) }

// GotoTop scrolls to the first line.
func (p *Pane) GotoTop() { p.SetFirstVisibleLine(0) }

// GotoBottom scrolls to the last page.
func (p *Pane) GotoBottom() { p.SetFirstVisibleLine(len(p.lines)) }

// ScrollPercent returns the vertical position in [0, 1].
func (p *Pane) ScrollPercent() float64 {
	maxFirst := p.maxFirst()
	if maxFirst == 0 {
		return 0
	}
	return float64(p.first) / float64(maxFirst)
}

func (p *Pane) notify() {
	if p.onScroll != nil {
		p.onScroll(diffview.ScrollState{FirstVisibleLine: p.first, XOffset: p.xOffset})
	}
}

func (p *Pane) maxFirst() int {
	return max(0, len(p.lines)-max(1, p.height))
}

func (p *Pane) clampFirst(line int) int {
	return max(0, min(line, p.maxFirst()))
}

func (p *Pane) clampX(offset int) int {
	return max(0, min(offset, p.xLimit()))
}

// xLimit is the largest horizontal offset, shared with a linked peer.
func (p *Pane) xLimit() int {
	widest, view := p.maxWidth, p.contentWidth()
	if p.peer != nil {
		widest = max(widest, p.peer.maxWidth)
		view = min(view, p.peer.contentWidth())
	}
	return max(0, widest-view)
}

// reclamp fits the scroll position to new text or size without notifying.
// A linked peer is refitted too, since the shared range may have shrunk.
func (p *Pane) reclamp() {
	p.first = p.clampFirst(p.first)
	p.xOffset = p.clampX(p.xOffset)
	if p.peer != nil {
		p.peer.xOffset = p.peer.clampX(p.peer.xOffset)
	}
}

// lineNumbers returns the source line number of every row, counting only
// rows that are not padding.
func (p *Pane) lineNumbers() []int {
	if p.numbers != nil {
		return p.numbers
	}
	p.numbers = make([]int, len(p.lines))
	n := 0
	for i := range p.lines {
		if p.marks[i] == diffview.Padding {
			continue
		}
		n++
		p.numbers[i] = n
	}
	return p.numbers
}
