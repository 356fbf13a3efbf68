package diffview

import "fmt"

// Unset is the navigation cursor value before any navigation happened.
const Unset = -1

// Navigator walks a ChangedLineIndex with wraparound.
type Navigator struct {
	index  ChangedLineIndex
	cursor int
}

// NewNavigator creates a navigator over index with the cursor unset.
func NewNavigator(index ChangedLineIndex) *Navigator {
	return &Navigator{index: index, cursor: Unset}
}

// Reset replaces the index and unsets the cursor.
func (n *Navigator) Reset(index ChangedLineIndex) {
	n.index = index
	n.cursor = Unset
}

// Len returns the number of changed-line clusters.
func (n *Navigator) Len() int {
	return len(n.index)
}

// Cursor returns the current cursor, or Unset.
func (n *Navigator) Cursor() int {
	return n.cursor
}

// Index returns the changed-line index.
func (n *Navigator) Index() ChangedLineIndex {
	return n.index
}

// Current returns the line under the cursor.
func (n *Navigator) Current() (int, bool) {
	if n.cursor < 0 || n.cursor >= len(n.index) {
		return 0, false
	}
	return n.index[n.cursor], true
}

// First moves to the first changed line.
func (n *Navigator) First() (int, bool) {
	if len(n.index) == 0 {
		return 0, false
	}
	n.cursor = 0
	return n.index[n.cursor], true
}

// Last moves to the last changed line.
func (n *Navigator) Last() (int, bool) {
	if len(n.index) == 0 {
		return 0, false
	}
	n.cursor = len(n.index) - 1
	return n.index[n.cursor], true
}

// Next advances the cursor, wrapping from the last entry to the first.
// From Unset it lands on the first entry.
func (n *Navigator) Next() (int, bool) {
	if len(n.index) == 0 {
		return 0, false
	}
	n.cursor = (n.cursor + 1) % len(n.index)
	return n.index[n.cursor], true
}

// Previous moves the cursor back, wrapping from the first entry to the last.
// From Unset it lands on the last entry.
func (n *Navigator) Previous() (int, bool) {
	if len(n.index) == 0 {
		return 0, false
	}
	if n.cursor <= 0 {
		n.cursor = len(n.index) - 1
	} else {
		n.cursor--
	}
	return n.index[n.cursor], true
}

// Status formats the navigation label.
func (n *Navigator) Status() string {
	switch {
	case len(n.index) == 0:
		return "No differences"
	case n.cursor == Unset:
		return fmt.Sprintf("%d differences", len(n.index))
	default:
		return fmt.Sprintf("Diff %d of %d", n.cursor+1, len(n.index))
	}
}

// Reveal moves each surface's caret to line and scrolls it so the line is
// centered when the document is taller than one screen.
func Reveal(line int, surfaces ...Surface) {
	for _, s := range surfaces {
		s.GotoLine(line)
		screen := s.LinesOnScreen()
		if s.LineCount() > screen {
			s.SetFirstVisibleLine(max(0, line-screen/2))
		}
	}
}
