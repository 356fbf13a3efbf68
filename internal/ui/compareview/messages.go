package compareview

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/panediff/internal/diffview"
)

// Loader reads both documents of the comparison again. It is called on
// manual reload and whenever the watcher reports a change.
type Loader func(ctx context.Context) (diffview.Input, error)

// ReloadMsg starts a fresh diff session on the same panes.
type ReloadMsg struct {
	Input diffview.Input
}

// ReloadFailedMsg reports that re-reading the documents failed.
type ReloadFailedMsg struct {
	Err error
}

// ClosedMsg is sent when the view closes without quitting the program.
type ClosedMsg struct {
	Closed Closed
}

// Closed describes a finished comparison. It is captured before the
// controller discards its state.
type Closed struct {
	Input   diffview.Input
	Summary diffview.DiffSummary
	Changed int
	Failed  bool
}

// Font is the descriptor shown in the title line. The terminal renders text
// in its own font, so the descriptor is informational only.
type Font struct {
	Family string
	Size   int
}

// String formats the font as "Family 12pt", or "" when unset.
func (f Font) String() string {
	switch {
	case f.Family == "" && f.Size <= 0:
		return ""
	case f.Size <= 0:
		return f.Family
	case f.Family == "":
		return fmt.Sprintf("%dpt", f.Size)
	}
	return fmt.Sprintf("%s %dpt", f.Family, f.Size)
}

func loadCmd(ctx context.Context, load Loader) tea.Cmd {
	return func() tea.Msg {
		in, err := load(ctx)
		if err != nil {
			return ReloadFailedMsg{Err: err}
		}
		return ReloadMsg{Input: in}
	}
}
