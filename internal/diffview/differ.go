package diffview

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/panediff/internal/log"
)

// Word diff bounds.
const (
	// WordDiffMaxLineLength skips word diff for lines exceeding this length.
	WordDiffMaxLineLength = 500
	// WordDiffMaxPairs limits word diff computation to the first N modified pairs.
	WordDiffMaxPairs = 200
	// WordDiffTimeout is the maximum time spent on word diff per session.
	WordDiffTimeout = 50 * time.Millisecond
)

// Differ is the external line-diff collaborator. It aligns two line slices
// into equal-length left/right record sequences, inserting Padding rows on
// whichever side lacks a counterpart.
type Differ interface {
	SideBySide(ctx context.Context, oldLines, newLines []string) (left, right []LineRecord, err error)
}

// LineDiffer is the default Differ, backed by diffmatchpatch in line mode.
//
// Granularity: changes are detected per line. Inside a change block the first
// min(deleted, inserted) rows are paired as Modified on both sides; surplus
// deleted lines become Deleted/Padding and surplus inserted lines become
// Padding/Inserted.
type LineDiffer struct {
	// WordDiff enables token-level segments on Modified pairs.
	WordDiff bool
}

// NewLineDiffer creates a LineDiffer with word diff enabled.
func NewLineDiffer() *LineDiffer {
	return &LineDiffer{WordDiff: true}
}

// SideBySide implements Differ.
func (d *LineDiffer) SideBySide(ctx context.Context, oldLines, newLines []string) ([]LineRecord, []LineRecord, error) {
	if len(oldLines) == 0 && len(newLines) == 0 {
		return nil, nil, nil
	}

	dmp := diffmatchpatch.New()
	r1, r2, lineArray := dmp.DiffLinesToRunes(joinLines(oldLines), joinLines(newLines))
	diffs := dmp.DiffMainRunes(r1, r2, false)
	diffs = dmp.DiffCharsToLines(dmp.DiffCleanupMerge(diffs), lineArray)

	b := &alignBuilder{}
	for _, df := range diffs {
		lines := splitHydrated(df.Text)
		switch df.Type {
		case diffmatchpatch.DiffEqual:
			b.flush()
			for _, line := range lines {
				b.oldNum++
				b.newNum++
				b.left = append(b.left, LineRecord{Text: line, Present: true, Kind: Unchanged, Number: b.oldNum})
				b.right = append(b.right, LineRecord{Text: line, Present: true, Kind: Unchanged, Number: b.newNum})
			}
		case diffmatchpatch.DiffDelete:
			b.dels = append(b.dels, lines...)
		case diffmatchpatch.DiffInsert:
			b.ins = append(b.ins, lines...)
		}
	}
	b.flush()

	if d.WordDiff && !applyWordDiff(ctx, b.left, b.right) {
		if rep := reportFrom(ctx); rep != nil {
			rep.truncated = true
		}
		log.Debug(log.CatDiff, "word diff stopped at deadline", "rows", len(b.left))
	}

	return b.left, b.right, nil
}

// alignBuilder accumulates aligned rows while walking the line diff.
type alignBuilder struct {
	left, right    []LineRecord
	dels, ins      []string
	oldNum, newNum int
}

// flush emits the pending change block. Deletions and insertions are paired
// 1:1 as modifications, then the extras are emitted against padding.
func (b *alignBuilder) flush() {
	if len(b.dels) == 0 && len(b.ins) == 0 {
		return
	}

	paired := min(len(b.dels), len(b.ins))
	for j := range paired {
		b.oldNum++
		b.newNum++
		b.left = append(b.left, LineRecord{Text: b.dels[j], Present: true, Kind: Modified, Number: b.oldNum})
		b.right = append(b.right, LineRecord{Text: b.ins[j], Present: true, Kind: Modified, Number: b.newNum})
	}

	for j := paired; j < len(b.dels); j++ {
		b.oldNum++
		b.left = append(b.left, LineRecord{Text: b.dels[j], Present: true, Kind: Deleted, Number: b.oldNum})
		b.right = append(b.right, LineRecord{Kind: Padding})
	}

	for j := paired; j < len(b.ins); j++ {
		b.newNum++
		b.left = append(b.left, LineRecord{Kind: Padding})
		b.right = append(b.right, LineRecord{Text: b.ins[j], Present: true, Kind: Inserted, Number: b.newNum})
	}

	b.dels = b.dels[:0]
	b.ins = b.ins[:0]
}

// joinLines terminates every line with "\n" so the last line hashes the same
// as any other occurrence of it.
func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// splitHydrated splits a diff text restored by DiffCharsToLines back into
// its lines. Every line in it carries the terminator added by joinLines.
func splitHydrated(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// diffReport collects facts about one SideBySide call that the returned
// records do not show.
type diffReport struct {
	// truncated is set when word diff hit its deadline, leaving later
	// Modified pairs without Segments.
	truncated bool
}

type reportKey struct{}

// withReport attaches a fresh report to ctx for the differ to fill in.
func withReport(ctx context.Context) (context.Context, *diffReport) {
	rep := &diffReport{}
	return context.WithValue(ctx, reportKey{}, rep), rep
}

func reportFrom(ctx context.Context) *diffReport {
	rep, _ := ctx.Value(reportKey{}).(*diffReport)
	return rep
}

// applyWordDiff fills Segments for Modified pairs, within the word diff
// bounds. It returns false when the deadline cut the pass short; stopping at
// WordDiffMaxPairs is a complete pass.
func applyWordDiff(ctx context.Context, left, right []LineRecord) bool {
	ctx, cancel := context.WithTimeout(ctx, WordDiffTimeout)
	defer cancel()

	pairs := 0
	for i := range left {
		if left[i].Kind != Modified || right[i].Kind != Modified {
			continue
		}
		if pairs >= WordDiffMaxPairs {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		default:
		}
		pairs++

		if len(left[i].Text) > WordDiffMaxLineLength || len(right[i].Text) > WordDiffMaxLineLength {
			continue
		}
		left[i].Segments, right[i].Segments = computeWordDiff(left[i].Text, right[i].Text)
	}
	return true
}

// tokenize splits a line into tokens (words, punctuation and single whitespace runes).
// Example: "foo.bar()" → ["foo", ".", "bar", "(", ")"]
func tokenize(line string) []string {
	if line == "" {
		return nil
	}

	var tokens []string
	var current strings.Builder

	for _, r := range line {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			tokens = append(tokens, string(r))
			continue
		}
		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// computeWordDiff computes a token-level diff between two lines and returns
// the segments for the old and the new line.
func computeWordDiff(oldLine, newLine string) (oldSegs, newSegs []Segment) {
	if oldLine == "" && newLine == "" {
		return nil, nil
	}
	if oldLine == "" {
		return nil, []Segment{{Kind: SegmentAdded, Text: newLine}}
	}
	if newLine == "" {
		return []Segment{{Kind: SegmentDeleted, Text: oldLine}}, nil
	}

	// Tokens never contain "\n" (lines are already split), so line mode
	// gives a token-granular diff.
	dmp := diffmatchpatch.New()
	r1, r2, tokenArray := dmp.DiffLinesToRunes(joinLines(tokenize(oldLine)), joinLines(tokenize(newLine)))
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(r1, r2, false), tokenArray)

	for _, df := range diffs {
		text := strings.Join(splitHydrated(df.Text), "")
		if text == "" {
			continue
		}
		switch df.Type {
		case diffmatchpatch.DiffEqual:
			oldSegs = appendSegment(oldSegs, SegmentUnchanged, text)
			newSegs = appendSegment(newSegs, SegmentUnchanged, text)
		case diffmatchpatch.DiffDelete:
			oldSegs = appendSegment(oldSegs, SegmentDeleted, text)
		case diffmatchpatch.DiffInsert:
			newSegs = appendSegment(newSegs, SegmentAdded, text)
		}
	}

	return oldSegs, newSegs
}

// appendSegment appends text, merging it into the previous segment when the kinds match.
func appendSegment(segs []Segment, kind SegmentKind, text string) []Segment {
	if n := len(segs); n > 0 && segs[n-1].Kind == kind {
		segs[n-1].Text += text
		return segs
	}
	return append(segs, Segment{Kind: kind, Text: text})
}
