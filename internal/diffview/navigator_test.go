package diffview

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNavigator_Empty(t *testing.T) {
	n := NewNavigator(nil)

	for _, step := range []func() (int, bool){n.First, n.Last, n.Next, n.Previous} {
		_, moved := step()
		require.False(t, moved)
	}
	require.Equal(t, Unset, n.Cursor())
	require.Equal(t, "No differences", n.Status())
}

func TestNavigator_WrapsBothWays(t *testing.T) {
	n := NewNavigator(ChangedLineIndex{2, 9, 14})
	require.Equal(t, "3 differences", n.Status())

	line, _ := n.Next()
	require.Equal(t, 2, line, "next from unset lands on the first entry")

	n.Next()
	line, _ = n.Next()
	require.Equal(t, 14, line)
	require.Equal(t, "Diff 3 of 3", n.Status())

	line, _ = n.Next()
	require.Equal(t, 2, line, "next from the last entry wraps")

	line, _ = n.Previous()
	require.Equal(t, 14, line, "previous from the first entry wraps")

	n.Reset(ChangedLineIndex{5})
	line, _ = n.Previous()
	require.Equal(t, 5, line, "previous from unset lands on the last entry")
}

func TestNavigator_FirstLast(t *testing.T) {
	n := NewNavigator(ChangedLineIndex{1, 4, 8})

	line, moved := n.Last()
	require.True(t, moved)
	require.Equal(t, 8, line)
	require.Equal(t, 2, n.Cursor())

	line, _ = n.First()
	require.Equal(t, 1, line)
	cur, ok := n.Current()
	require.True(t, ok)
	require.Equal(t, 1, cur)
}

func TestNavigator_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.SliceOfNDistinct(rapid.IntRange(0, 500), 1, 40, rapid.ID[int]).Draw(t, "index")
		slices.Sort(raw)
		n := NewNavigator(ChangedLineIndex(raw))
		size := len(raw)

		steps := rapid.SliceOf(rapid.SampledFrom([]string{"next", "prev", "first", "last"})).Draw(t, "steps")
		for _, step := range steps {
			before := n.Cursor()
			switch step {
			case "next":
				n.Next()
				want := (before + 1) % size
				if n.Cursor() != want {
					t.Fatalf("next from %d: cursor %d, want %d", before, n.Cursor(), want)
				}
			case "prev":
				n.Previous()
				want := before - 1
				if before <= 0 {
					want = size - 1
				}
				if n.Cursor() != want {
					t.Fatalf("previous from %d: cursor %d, want %d", before, n.Cursor(), want)
				}
			case "first":
				n.First()
			case "last":
				n.Last()
			}
			if n.Cursor() < 0 || n.Cursor() >= size {
				t.Fatalf("cursor %d out of range [0,%d)", n.Cursor(), size)
			}
		}

		// A full lap of Next returns to the starting entry.
		n.First()
		for range size {
			n.Next()
		}
		if n.Cursor() != 0 {
			t.Fatalf("full lap ended at %d", n.Cursor())
		}
	})
}

func TestReveal_CentersWhenTallerThanScreen(t *testing.T) {
	tall := newFakeSurface(10)
	lines := make([]string, 100)
	require.NoError(t, tall.SetText(strings.Join(lines, "\n")))

	Reveal(50, tall)
	require.Equal(t, 50, tall.caret)
	require.Equal(t, 45, tall.FirstVisibleLine())

	Reveal(2, tall)
	require.Equal(t, 0, tall.FirstVisibleLine(), "never scrolls above the top")
}

func TestReveal_ShortDocumentDoesNotScroll(t *testing.T) {
	short := newFakeSurface(10)
	require.NoError(t, short.SetText("a\nb\nc"))

	Reveal(2, short)
	require.Equal(t, 2, short.caret)
	require.Equal(t, 0, short.scrollWrites)
}
