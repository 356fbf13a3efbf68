package pane

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCalculateThumbBounds(t *testing.T) {
	tests := []struct {
		name                  string
		cfg                   ScrollbarConfig
		wantStart, wantHeight int
	}{
		{"small file", ScrollbarConfig{TotalLines: 50, ViewportHeight: 30}, 0, 18},
		{"large file", ScrollbarConfig{TotalLines: 1000, ViewportHeight: 30}, 0, 1},
		{"fits", ScrollbarConfig{TotalLines: 20, ViewportHeight: 30}, 0, 30},
		{"at bottom", ScrollbarConfig{TotalLines: 100, ViewportHeight: 10, ScrollOffset: 90}, 9, 1},
		{"middle", ScrollbarConfig{TotalLines: 100, ViewportHeight: 20, ScrollOffset: 40}, 8, 4},
		{"empty", ScrollbarConfig{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, height := calculateThumbBounds(tt.cfg)
			require.Equal(t, tt.wantStart, start)
			require.Equal(t, tt.wantHeight, height)
		})
	}
}

func TestCalculateThumbBounds_StaysInTrack(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(1, 5000).Draw(t, "total")
		viewport := rapid.IntRange(1, 200).Draw(t, "viewport")
		offset := rapid.IntRange(0, max(0, total-viewport)).Draw(t, "offset")

		start, height := calculateThumbBounds(ScrollbarConfig{
			TotalLines: total, ViewportHeight: viewport, ScrollOffset: offset,
		})
		if height < 1 || start < 0 || start+height > viewport {
			t.Fatalf("thumb [%d,+%d) outside track of %d", start, height, viewport)
		}
	})
}

func TestRenderScrollbar_Marks(t *testing.T) {
	rows := strings.Split(ansi.Strip(RenderScrollbar(ScrollbarConfig{
		TotalLines:     100,
		ViewportHeight: 10,
		ChangedLines:   []int{55, 99},
	})), "\n")

	require.Len(t, rows, 10)
	require.Equal(t, "█", rows[0], "thumb at the top")
	require.Equal(t, "▪", rows[5])
	require.Equal(t, "▪", rows[9])
	require.Equal(t, "░", rows[3])
}

func TestRenderScrollbar_ContentFits(t *testing.T) {
	rows := strings.Split(ansi.Strip(RenderScrollbar(ScrollbarConfig{
		TotalLines:     3,
		ViewportHeight: 5,
		ChangedLines:   []int{1},
	})), "\n")

	require.Equal(t, []string{" ", "▪", " ", " ", " "}, rows)
}

func TestRenderScrollbar_Invalid(t *testing.T) {
	require.Empty(t, RenderScrollbar(ScrollbarConfig{TotalLines: 10}))
}
