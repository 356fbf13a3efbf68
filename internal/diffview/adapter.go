package diffview

import (
	"context"
	"strings"

	"github.com/zjrosen/panediff/internal/log"
)

// Adapter turns two text blobs into a classified, aligned Result.
// Edit-script computation is delegated to its Differ.
type Adapter struct {
	differ Differ
}

// NewAdapter creates an Adapter. A nil differ falls back to NewLineDiffer.
func NewAdapter(differ Differ) *Adapter {
	if differ == nil {
		differ = NewLineDiffer()
	}
	return &Adapter{differ: differ}
}

// Adapt diffs oldText against newText. Empty input on either side is valid
// and is not an error; only a differ failure is returned.
func (a *Adapter) Adapt(ctx context.Context, oldText, newText string) (Result, error) {
	oldLines := splitLines(oldText)
	newLines := splitLines(newText)

	left, right, err := a.differ.SideBySide(ctx, oldLines, newLines)
	if err != nil {
		log.ErrorErr(log.CatDiff, "line differ failed", err,
			"old_lines", len(oldLines), "new_lines", len(newLines))
		return Result{}, &DiffError{Op: "side_by_side", Err: err}
	}

	res := Result{Left: left, Right: right, Summary: tally(left, right)}
	log.Debug(log.CatDiff, "diff adapted",
		"left_rows", len(left), "right_rows", len(right),
		"inserted", res.Summary.Inserted, "deleted", res.Summary.Deleted, "modified", res.Summary.Modified)
	return res, nil
}

// tally counts right-side insertions, left-side deletions and modifications.
// A modified row appears on both sides but is counted once, from the left.
func tally(left, right []LineRecord) DiffSummary {
	var s DiffSummary
	for _, rec := range left {
		switch rec.Kind {
		case Deleted:
			s.Deleted++
		case Modified:
			s.Modified++
		}
	}
	for _, rec := range right {
		if rec.Kind == Inserted {
			s.Inserted++
		}
	}
	return s
}

// splitLines normalizes terminators to "\n", trims one trailing terminator
// and splits. Empty text yields no lines.
func splitLines(text string) []string {
	text = normalizeNewlines(text)
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// normalizeNewlines converts "\r\n" and lone "\r" to "\n".
func normalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
