// Package compareview is the terminal window hosting a side-by-side diff:
// two panes, a navigation toolbar and a status bar around one
// diffview.Controller.
package compareview

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/panediff/internal/diffview"
	"github.com/zjrosen/panediff/internal/keys"
	"github.com/zjrosen/panediff/internal/log"
	"github.com/zjrosen/panediff/internal/pubsub"
	"github.com/zjrosen/panediff/internal/ui/pane"
	"github.com/zjrosen/panediff/internal/watcher"
)

// Mouse wheel step in lines and horizontal scroll step in cells.
const (
	wheelStep   = 3
	hScrollStep = 4
)

// errDocumentRemoved is shown when a watched document disappears.
var errDocumentRemoved = errors.New("document removed")

// session holds the controller of the running comparison. Pane scroll
// hooks capture the session, so a reload swaps the controller in place.
type session struct {
	ctrl *diffview.Controller
}

func (s *session) dispatch(ev diffview.Event) bool {
	if s.ctrl == nil {
		return false
	}
	return s.ctrl.Dispatch(ev)
}

// Model is the diff view window.
type Model struct {
	ctx     context.Context
	openCtx context.Context

	left, right *pane.Pane
	paneOpts    []pane.Option
	sess        *session
	differ      diffview.Differ
	input       diffview.Input
	err         error

	focus         diffview.Side
	width, height int
	hover         diffview.Action
	help          help.Model
	showHelp      bool
	font          Font

	standalone bool
	onClose    func(Closed)
	closed     bool

	loader   Loader
	listener *pubsub.Listener[watcher.Change]
}

// Option configures a Model.
type Option func(*Model)

// WithDiffer sets the line differ. Defaults to diffview.NewLineDiffer.
func WithDiffer(d diffview.Differ) Option {
	return func(m *Model) { m.differ = d }
}

// WithTabWidth sets the tab width of both panes.
func WithTabWidth(n int) Option {
	return WithPaneOptions(pane.WithTabWidth(n))
}

// WithPaneOptions applies opts to both panes.
func WithPaneOptions(opts ...pane.Option) Option {
	return func(m *Model) { m.paneOpts = append(m.paneOpts, opts...) }
}

// WithFont sets the font descriptor shown in the title.
func WithFont(f Font) Option {
	return func(m *Model) { m.font = f }
}

// WithStandalone makes closing the view quit the program.
func WithStandalone() Option {
	return func(m *Model) { m.standalone = true }
}

// WithOnClose registers a callback run once when the view closes.
func WithOnClose(fn func(Closed)) Option {
	return func(m *Model) { m.onClose = fn }
}

// WithLoader enables manual reload with the given loader.
func WithLoader(load Loader) Option {
	return func(m *Model) { m.loader = load }
}

// WithOpenContext runs the first session under ctx instead of the model
// context. Reloads always use the model context.
func WithOpenContext(ctx context.Context) Option {
	return func(m *Model) { m.openCtx = ctx }
}

// WithWatcher reloads the comparison whenever src reports a change.
// A loader is required for changes to take effect.
func WithWatcher(src pubsub.Subscriber[watcher.Change]) Option {
	return func(m *Model) {
		m.listener = pubsub.Listen(m.ctx, src)
	}
}

// New creates the view and runs the first diff session.
func New(ctx context.Context, in diffview.Input, opts ...Option) Model {
	m := Model{
		ctx:   ctx,
		sess:  &session{},
		help:  help.New(),
		hover: diffview.ActionNone,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.differ == nil {
		m.differ = diffview.NewLineDiffer()
	}
	m.left = pane.New(m.paneOpts...)
	m.right = pane.New(m.paneOpts...)
	pane.LinkScroll(m.left, m.right)

	sess := m.sess
	left, right := m.left, m.right
	left.OnScroll(func(st diffview.ScrollState) {
		sess.dispatch(diffview.ScrollChanged{Pane: diffview.SideLeft, VOffset: st.FirstVisibleLine, HOffset: st.XOffset})
	})
	right.OnScroll(func(st diffview.ScrollState) {
		sess.dispatch(diffview.ScrollChanged{Pane: diffview.SideRight, VOffset: st.FirstVisibleLine, HOffset: st.XOffset})
	})
	m.setFocus(diffview.SideLeft)

	openCtx := m.ctx
	if m.openCtx != nil {
		openCtx, m.openCtx = m.openCtx, nil
	}
	m.err = m.open(openCtx, in)
	return m
}

// open starts a new session on the existing panes. Any previous session is
// closed first; its cursor and index are not carried over.
func (m *Model) open(ctx context.Context, in diffview.Input) error {
	if m.sess.ctrl != nil {
		m.sess.ctrl.Close()
	}
	m.input = in
	ctrl := diffview.NewController(m.left, m.right, diffview.WithDiffer(m.differ))
	m.sess.ctrl = ctrl
	if err := ctrl.Open(ctx, in); err != nil {
		log.ErrorErr(log.CatUI, "opening comparison failed", err,
			"left", in.Left.DisplayName, "right", in.Right.DisplayName)
		return fmt.Errorf("comparing %s and %s: %w", in.Left.DisplayName, in.Right.DisplayName, err)
	}
	return nil
}

// Init starts listening for watcher events.
func (m Model) Init() tea.Cmd {
	return m.listener.Next()
}

// Controller returns the controller of the current session.
func (m Model) Controller() *diffview.Controller {
	return m.sess.ctrl
}

// Panes returns the left and right panes.
func (m Model) Panes() (*pane.Pane, *pane.Pane) {
	return m.left, m.right
}

// Focus returns the side receiving keyboard scroll input.
func (m Model) Focus() diffview.Side {
	return m.focus
}

// Err returns the last open or reload error.
func (m Model) Err() error {
	return m.err
}

// Closed reports whether the view was closed.
func (m Model) Closed() bool {
	return m.closed
}

// SetSize lays out the panes for a terminal of the given size.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.layout()
	return m
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case ReloadMsg:
		m.err = m.open(m.ctx, msg.Input)
		m.layout()
		return m, nil

	case ReloadFailedMsg:
		log.ErrorErr(log.CatUI, "reload failed", msg.Err)
		m.err = msg.Err
		return m, nil

	case pubsub.Event[watcher.Change]:
		return m.handleWatch(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := keys.DiffView

	switch {
	case key.Matches(msg, km.Quit):
		return m.finish(true)
	case key.Matches(msg, km.Close):
		return m.trigger(diffview.ActionClose)
	case key.Matches(msg, km.Help):
		m.showHelp = !m.showHelp
		m.layout()
		return m, nil
	case key.Matches(msg, km.SwitchPane):
		m.setFocus(m.focus.Other())
		return m, nil
	case key.Matches(msg, km.Reload):
		if m.loader == nil {
			return m, nil
		}
		return m, loadCmd(m.ctx, m.loader)
	}

	if k := diffKey(msg, km); k != diffview.KeyUnknown {
		m.sess.dispatch(diffview.KeyPressed{Key: k})
		return m, nil
	}

	p := m.focused()
	switch {
	case key.Matches(msg, km.ScrollUp):
		p.ScrollUp(1)
	case key.Matches(msg, km.ScrollDown):
		p.ScrollDown(1)
	case key.Matches(msg, km.ScrollLeft):
		p.ScrollLeft(hScrollStep)
	case key.Matches(msg, km.ScrollRight):
		p.ScrollRight(hScrollStep)
	case key.Matches(msg, km.PageUp):
		p.PageUp()
	case key.Matches(msg, km.PageDown):
		p.PageDown()
	case key.Matches(msg, km.HalfPageUp):
		p.HalfPageUp()
	case key.Matches(msg, km.HalfPageDown):
		p.HalfPageDown()
	case key.Matches(msg, km.Top):
		p.GotoTop()
	case key.Matches(msg, km.Bottom):
		p.GotoBottom()
	}
	return m, nil
}

// diffKey maps a key press onto the diff view's navigation keys.
func diffKey(msg tea.KeyMsg, km keys.DiffViewKeyMap) diffview.Key {
	switch {
	case key.Matches(msg, km.PrevDiff):
		return diffview.KeyF7
	case key.Matches(msg, km.NextDiff):
		return diffview.KeyF8
	case key.Matches(msg, km.FirstDiff):
		return diffview.KeyCtrlHome
	case key.Matches(msg, km.LastDiff):
		return diffview.KeyCtrlEnd
	}
	return diffview.KeyUnknown
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.paneAt(msg.X).ScrollUp(wheelStep)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.paneAt(msg.X).ScrollDown(wheelStep)
		return m, nil
	case tea.MouseButtonWheelLeft:
		m.paneAt(msg.X).ScrollLeft(hScrollStep)
		return m, nil
	case tea.MouseButtonWheelRight:
		m.paneAt(msg.X).ScrollRight(hScrollStep)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.hover = buttonAt(msg)
	case tea.MouseActionRelease:
		if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonNone {
			return m, nil
		}
		if a := buttonAt(msg); a != diffview.ActionNone {
			return m.trigger(a)
		}
		if msg.Y >= headerRows {
			m.setFocus(m.sideAt(msg.X))
		}
	}
	return m, nil
}

// trigger dispatches a toolbar action and finishes the view on close.
func (m Model) trigger(a diffview.Action) (tea.Model, tea.Cmd) {
	if a == diffview.ActionClose {
		return m.finish(false)
	}
	m.sess.dispatch(diffview.ActionTriggered{Action: a})
	return m, nil
}

// finish records the comparison, closes the session and either quits or
// reports ClosedMsg to the host.
func (m Model) finish(quit bool) (tea.Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}

	ctrl := m.sess.ctrl
	record := Closed{
		Input:   m.input,
		Summary: ctrl.Summary(),
		Changed: len(ctrl.ChangedLines()),
		Failed:  ctrl.State() == diffview.StateFailed,
	}
	if !ctrl.Dispatch(diffview.KeyPressed{Key: diffview.KeyEscape}) {
		ctrl.Close()
	}
	m.closed = true
	if m.onClose != nil {
		m.onClose(record)
	}

	if quit || m.standalone {
		return m, tea.Quit
	}
	return m, func() tea.Msg { return ClosedMsg{Closed: record} }
}

func (m Model) handleWatch(ev pubsub.Event[watcher.Change]) (tea.Model, tea.Cmd) {
	next := m.listener.Next()
	switch ev.Type {
	case pubsub.RemovedEvent:
		m.err = fmt.Errorf("%w: %v", errDocumentRemoved, ev.Payload.Paths)
		return m, next
	case pubsub.ErrorEvent:
		return m, next
	}
	if m.loader == nil || m.closed {
		return m, next
	}
	log.Debug(log.CatWatcher, "reloading after change", "paths", ev.Payload.Paths)
	return m, tea.Batch(loadCmd(m.ctx, m.loader), next)
}

func (m *Model) setFocus(side diffview.Side) {
	m.focus = side
	m.left.SetFocused(side == diffview.SideLeft)
	m.right.SetFocused(side == diffview.SideRight)
}

func (m Model) focused() *pane.Pane {
	if m.focus == diffview.SideRight {
		return m.right
	}
	return m.left
}

func (m Model) sideAt(x int) diffview.Side {
	if x >= m.leftFrameWidth() {
		return diffview.SideRight
	}
	return diffview.SideLeft
}

func (m Model) paneAt(x int) *pane.Pane {
	if m.sideAt(x) == diffview.SideRight {
		return m.right
	}
	return m.left
}
