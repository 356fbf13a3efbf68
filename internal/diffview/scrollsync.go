package diffview

// ScrollSync mirrors scroll positions between the two panes.
//
// A single syncing flag covers both directions: while a mirror write is in
// progress, notifications raised by that write (the other pane echoing its
// new position) are dropped instead of bouncing back.
type ScrollSync struct {
	left, right Surface
	syncing     bool
	mirrors     int
}

// NewScrollSync creates a synchronizer for the given panes.
func NewScrollSync(left, right Surface) *ScrollSync {
	return &ScrollSync{left: left, right: right}
}

// Mirror copies the first visible line and horizontal offset of the pane on
// side from onto the opposite pane. It returns false when the call was
// suppressed because a mirror write is already running.
func (s *ScrollSync) Mirror(from Side) bool {
	if s.syncing {
		return false
	}
	s.syncing = true
	defer func() { s.syncing = false }()

	src, dst := s.surface(from), s.surface(from.Other())
	dst.SetFirstVisibleLine(src.FirstVisibleLine())
	dst.SetXOffset(src.XOffset())
	s.mirrors++
	return true
}

// Syncing reports whether a mirror write is in progress.
func (s *ScrollSync) Syncing() bool {
	return s.syncing
}

// Mirrors returns how many mirror writes have completed.
func (s *ScrollSync) Mirrors() int {
	return s.mirrors
}

// State returns the current scroll position of one pane.
func (s *ScrollSync) State(side Side) ScrollState {
	surf := s.surface(side)
	return ScrollState{FirstVisibleLine: surf.FirstVisibleLine(), XOffset: surf.XOffset()}
}

func (s *ScrollSync) surface(side Side) Surface {
	if side == SideRight {
		return s.right
	}
	return s.left
}
