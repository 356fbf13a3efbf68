package compareview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/panediff/internal/diffview"
	"github.com/zjrosen/panediff/internal/pubsub"
	"github.com/zjrosen/panediff/internal/watcher"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// numbered returns n lines "line 1".."line n", with line changed (1-based)
// replaced by "edited" when changed > 0.
func numbered(n, changed int) string {
	lines := make([]string, n)
	for i := range n {
		lines[i] = fmt.Sprintf("line %d", i+1)
		if i+1 == changed {
			lines[i] = "edited"
		}
	}
	return strings.Join(lines, "\n")
}

func longInput() diffview.Input {
	return diffview.Input{
		Left:  diffview.Document{Content: numbered(40, 0), DisplayName: "old.txt"},
		Right: diffview.Document{Content: numbered(40, 20), DisplayName: "new.txt"},
	}
}

func sized(m Model) Model {
	return m.SetSize(100, 30)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok, "Update must return compareview.Model")
	return nm, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type failingDiffer struct{}

func (failingDiffer) SideBySide(context.Context, []string, []string) ([]diffview.LineRecord, []diffview.LineRecord, error) {
	return nil, nil, errors.New("engine crashed")
}

func TestNew_OpensSession(t *testing.T) {
	m := sized(New(context.Background(), longInput()))

	ctrl := m.Controller()
	require.Equal(t, diffview.StateReady, ctrl.State())
	require.Equal(t, "Differences: 0 added, 0 deleted, 1 modified", ctrl.StatusText())
	require.Equal(t, diffview.ChangedLineIndex{19}, ctrl.ChangedLines())
	require.Equal(t, diffview.SideLeft, m.Focus())
	require.NoError(t, m.Err())

	left, right := m.Panes()
	require.True(t, left.ReadOnly())
	require.True(t, right.ReadOnly())
	require.Equal(t, 25, left.Height())
	require.Equal(t, 48, left.Width())
	require.Equal(t, 48, right.Width())
}

func TestNew_DifferFailure(t *testing.T) {
	m := sized(New(context.Background(), longInput(), WithDiffer(failingDiffer{})))

	require.Error(t, m.Err())
	require.Equal(t, diffview.StateFailed, m.Controller().State())
	require.Contains(t, zone.Scan(m.View()), "engine crashed")
}

func TestUpdate_NextDiffRevealsBothPanes(t *testing.T) {
	m := sized(New(context.Background(), longInput()))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF8})

	left, right := m.Panes()
	require.Equal(t, 0, m.Controller().Cursor())
	require.Equal(t, 19, left.Caret())
	require.Equal(t, 19, right.Caret())
	require.Equal(t, 7, left.FirstVisibleLine())
	require.Equal(t, 7, right.FirstVisibleLine())
	require.Equal(t, "Diff 1 of 1", m.Controller().NavText())
}

func TestUpdate_PrevDiffWrapsFromUnset(t *testing.T) {
	m := sized(New(context.Background(), longInput()))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF7})
	require.Equal(t, 0, m.Controller().Cursor())

	m, _ = update(t, m, runes("n"))
	require.Equal(t, 0, m.Controller().Cursor(), "single difference wraps onto itself")
}

func TestUpdate_ScrollKeysMirrorOtherPane(t *testing.T) {
	m := sized(New(context.Background(), longInput()))

	m, _ = update(t, m, runes("j"))
	m, _ = update(t, m, runes("j"))

	left, right := m.Panes()
	require.Equal(t, 2, left.FirstVisibleLine())
	require.Equal(t, 2, right.FirstVisibleLine())
	require.Equal(t, 2, m.Controller().ScrollSync().Mirrors())
}

func TestUpdate_SwitchPaneScrollsRight(t *testing.T) {
	m := sized(New(context.Background(), longInput()))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, diffview.SideRight, m.Focus())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})

	left, right := m.Panes()
	require.True(t, right.Focused())
	require.False(t, left.Focused())
	require.Equal(t, 15, right.FirstVisibleLine(), "clamped to lines minus height")
	require.Equal(t, 15, left.FirstVisibleLine())
}

func TestUpdate_HorizontalScrollKeepsPanesTogether(t *testing.T) {
	in := diffview.Input{
		Left:  diffview.Document{Content: "a\n" + strings.Repeat("x", 200) + "\nc", DisplayName: "old.txt"},
		Right: diffview.Document{Content: "a\nshort\nc", DisplayName: "new.txt"},
	}
	// odd width: the right frame is one column wider than the left
	m := New(context.Background(), in).SetSize(101, 30)

	for range 10 {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}

	left, right := m.Panes()
	require.Equal(t, left.Width(), right.Width())
	require.Equal(t, 40, left.XOffset())
	require.Equal(t, 40, right.XOffset())
	require.Equal(t, 10, m.Controller().ScrollSync().Mirrors())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	for range 3 {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	}
	require.Equal(t, 28, left.XOffset())
	require.Equal(t, 28, right.XOffset())
}

func TestUpdate_MouseWheelScrollsPaneUnderPointer(t *testing.T) {
	m := sized(New(context.Background(), longInput()))

	m, _ = update(t, m, tea.MouseMsg{X: 70, Y: 10, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})

	left, right := m.Panes()
	require.Equal(t, 3, right.FirstVisibleLine())
	require.Equal(t, 3, left.FirstVisibleLine())
	require.Equal(t, diffview.SideLeft, m.Focus(), "wheel does not move focus")
}

func TestUpdate_EscapeStandaloneQuits(t *testing.T) {
	var got []Closed
	m := sized(New(context.Background(), longInput(),
		WithStandalone(),
		WithOnClose(func(c Closed) { got = append(got, c) }),
	))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())

	require.True(t, m.Closed())
	require.Equal(t, diffview.StateClosed, m.Controller().State())
	require.Len(t, got, 1)
	require.Equal(t, diffview.DiffSummary{Modified: 1}, got[0].Summary)
	require.Equal(t, 1, got[0].Changed)
	require.Equal(t, "old.txt", got[0].Input.Left.DisplayName)

	// a second close is ignored
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Nil(t, cmd)
	require.Len(t, got, 1)
}

func TestUpdate_EscapeEmbeddedReportsClosed(t *testing.T) {
	m := sized(New(context.Background(), longInput()))

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	msg, ok := cmd().(ClosedMsg)
	require.True(t, ok)
	require.Equal(t, 1, msg.Closed.Summary.Modified)
	require.False(t, msg.Closed.Failed)
}

func TestUpdate_ReloadStartsFreshSession(t *testing.T) {
	m := sized(New(context.Background(), longInput()))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF8})
	first := m.Controller()

	in := longInput()
	in.Right.Content = numbered(40, 5)
	m, _ = update(t, m, ReloadMsg{Input: in})

	ctrl := m.Controller()
	require.NotSame(t, first, ctrl)
	require.Equal(t, diffview.StateClosed, first.State())
	require.Equal(t, diffview.StateReady, ctrl.State())
	require.Equal(t, diffview.Unset, ctrl.Cursor())
	require.Equal(t, diffview.ChangedLineIndex{4}, ctrl.ChangedLines())

	left, _ := m.Panes()
	require.Equal(t, diffview.Modified, left.Mark(4))
	require.Equal(t, diffview.Unchanged, left.Mark(19), "marks from the previous session are cleared")

	// scroll hooks follow the new controller
	m, _ = update(t, m, runes("G"))
	require.Equal(t, 1, m.Controller().ScrollSync().Mirrors())
}

type ctxKey struct{}

type ctxRecorder struct {
	seen []any
}

func (r *ctxRecorder) SideBySide(ctx context.Context, oldLines, newLines []string) ([]diffview.LineRecord, []diffview.LineRecord, error) {
	r.seen = append(r.seen, ctx.Value(ctxKey{}))
	return diffview.NewLineDiffer().SideBySide(ctx, oldLines, newLines)
}

func TestNew_OpenContextScopesFirstSession(t *testing.T) {
	rec := &ctxRecorder{}
	openCtx := context.WithValue(context.Background(), ctxKey{}, "open")
	m := sized(New(context.Background(), longInput(), WithDiffer(rec), WithOpenContext(openCtx)))
	require.NoError(t, m.Err())

	m, _ = update(t, m, ReloadMsg{Input: longInput()})
	require.NoError(t, m.Err())
	require.Equal(t, []any{"open", nil}, rec.seen)
}

func TestUpdate_ReloadKeyUsesLoader(t *testing.T) {
	calls := 0
	load := func(context.Context) (diffview.Input, error) {
		calls++
		return longInput(), nil
	}
	m := sized(New(context.Background(), longInput(), WithLoader(load)))

	_, cmd := update(t, m, runes("r"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(ReloadMsg)
	require.True(t, ok)
	require.Equal(t, "new.txt", msg.Input.Right.DisplayName)
	require.Equal(t, 1, calls)
}

func TestUpdate_ReloadKeyWithoutLoader(t *testing.T) {
	m := sized(New(context.Background(), longInput()))

	_, cmd := update(t, m, runes("r"))
	require.Nil(t, cmd)
}

func TestUpdate_ReloadFailedShowsError(t *testing.T) {
	m := sized(New(context.Background(), longInput()))

	m, _ = update(t, m, ReloadFailedMsg{Err: errors.New("open new.txt: permission denied")})

	require.EqualError(t, m.Err(), "open new.txt: permission denied")
	require.Contains(t, zone.Scan(m.View()), "permission denied")
	require.Equal(t, diffview.StateReady, m.Controller().State(), "previous session stays usable")
}

func TestUpdate_WatcherRemovedEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	broker := pubsub.NewBroker[watcher.Change]()
	defer broker.Close()

	m := sized(New(ctx, longInput(), WithWatcher(broker)))
	require.NotNil(t, m.Init())

	m, cmd := update(t, m, pubsub.Event[watcher.Change]{
		Type:    pubsub.RemovedEvent,
		Payload: watcher.Change{Paths: []string{"/tmp/new.txt"}},
	})
	require.NotNil(t, cmd, "listening continues")
	require.ErrorIs(t, m.Err(), errDocumentRemoved)
}

func TestUpdate_HelpToggleShrinksPanes(t *testing.T) {
	m := sized(New(context.Background(), longInput()))
	left, _ := m.Panes()
	before := left.Height()

	m, _ = update(t, m, runes("?"))
	require.Less(t, left.Height(), before)

	_, _ = update(t, m, runes("?"))
	require.Equal(t, before, left.Height())
}

func TestView_Layout(t *testing.T) {
	m := sized(New(context.Background(), longInput(), WithFont(Font{Family: "Iosevka", Size: 12})))

	view := zone.Scan(m.View())
	lines := strings.Split(view, "\n")

	require.Len(t, lines, 30)
	require.Contains(t, lines[0], "Compare: old.txt ↔ new.txt (Iosevka 12pt)")
	require.Contains(t, lines[1], "⏮ First")
	require.Contains(t, lines[1], "Next ▶")
	require.Contains(t, lines[1], "F7/F8: Navigate | Esc: Close")
	require.Contains(t, lines[2], "old.txt")
	require.Contains(t, lines[2], "new.txt")
	require.Contains(t, lines[29], "Differences: 0 added, 0 deleted, 1 modified")
	require.Contains(t, lines[29], "1 differences")
	for i, line := range lines {
		require.LessOrEqual(t, lipgloss.Width(line), 100, "line %d too wide", i)
	}
}

func TestView_ToolbarClick(t *testing.T) {
	m := sized(New(context.Background(), longInput()))
	// zone positions are recorded during Scan
	_ = zone.Scan(m.View())

	var next *zone.ZoneInfo
	require.Eventually(t, func() bool {
		next = zone.Get("compareview-next")
		return next != nil && !next.IsZero()
	}, time.Second, 10*time.Millisecond)

	m, _ = update(t, m, tea.MouseMsg{X: next.StartX, Y: next.StartY, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	require.Equal(t, 0, m.Controller().Cursor())
}

func TestFont_String(t *testing.T) {
	require.Equal(t, "", Font{}.String())
	require.Equal(t, "Menlo", Font{Family: "Menlo"}.String())
	require.Equal(t, "14pt", Font{Size: 14}.String())
	require.Equal(t, "Menlo 14pt", Font{Family: "Menlo", Size: 14}.String())
}

func TestProgram_EscapeQuits(t *testing.T) {
	closed := make(chan Closed, 1)
	m := New(context.Background(), longInput(),
		WithStandalone(),
		WithOnClose(func(c Closed) { closed <- c }),
	)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return strings.Contains(string(out), "1 differences")
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyF8})
	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final, ok := tm.FinalModel(t).(Model)
	require.True(t, ok)
	require.True(t, final.Closed())

	c := <-closed
	require.Equal(t, 1, c.Summary.Modified)
}
