// Package diffview implements the side-by-side comparison core: it turns a
// line diff into two aligned, classified documents, keeps two panes scrolled
// in lock-step and walks the changed lines in order.
package diffview

import "fmt"

// Classification is the change kind attached to a single line.
type Classification int

const (
	Unchanged Classification = iota // line is identical on both sides
	Inserted                        // line exists only on the right side
	Deleted                         // line exists only on the left side
	Modified                        // line was replaced; appears on both sides
	Padding                         // blank placeholder keeping the panes aligned
)

// String returns a human-readable name for the classification.
func (c Classification) String() string {
	switch c {
	case Unchanged:
		return "unchanged"
	case Inserted:
		return "inserted"
	case Deleted:
		return "deleted"
	case Modified:
		return "modified"
	case Padding:
		return "padding"
	default:
		return "unknown"
	}
}

// SegmentKind indicates whether a word segment is unchanged, added, or deleted.
type SegmentKind int

const (
	SegmentUnchanged SegmentKind = iota
	SegmentAdded
	SegmentDeleted
)

// Segment is a run of text inside a modified line with its word-level status.
type Segment struct {
	Kind SegmentKind
	Text string
}

// LineRecord is one row of one side of an aligned diff.
type LineRecord struct {
	Text    string         // Line content without terminator
	Present bool           // False for padding rows (text absent)
	Kind    Classification // Change kind for this row
	Number  int            // 1-based line number in the source document (0 for padding)

	// Segments holds word-level spans for modified lines when word diff ran.
	Segments []Segment
}

// DiffSummary holds the change totals computed once per diff session.
type DiffSummary struct {
	Inserted int
	Deleted  int
	Modified int
}

// String formats the summary as "N added, M deleted, K modified".
func (s DiffSummary) String() string {
	return fmt.Sprintf("%d added, %d deleted, %d modified", s.Inserted, s.Deleted, s.Modified)
}

// IsZero reports whether no line changed.
func (s DiffSummary) IsZero() bool {
	return s.Inserted == 0 && s.Deleted == 0 && s.Modified == 0
}

// Result is the adapter output: two equal-length record sequences plus totals.
type Result struct {
	Left    []LineRecord
	Right   []LineRecord
	Summary DiffSummary
}

// Side identifies one of the two panes.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// String returns "left" or "right".
func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideRight {
		return SideLeft
	}
	return SideRight
}

// ScrollState is a pane's current vertical and horizontal scroll position.
type ScrollState struct {
	FirstVisibleLine int
	XOffset          int
}

// Document is one side of a comparison as supplied by the host.
type Document struct {
	Content     string
	DisplayName string
}

// Input is the pair of documents compared in one diff session.
type Input struct {
	Left  Document
	Right Document
}
