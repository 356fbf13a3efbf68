package tracing

// Span names.
const (
	SpanDiffSideBySide = "diff.side_by_side"
	SpanSessionOpen    = "session.open"
)

// Span attribute keys.
const (
	AttrOldLines     = "diff.old_lines"
	AttrNewLines     = "diff.new_lines"
	AttrRows         = "diff.rows"
	AttrLeftName     = "session.left"
	AttrRightName    = "session.right"
	AttrChanged      = "session.changed_lines"
	AttrErrorMessage = "error.message"
)
