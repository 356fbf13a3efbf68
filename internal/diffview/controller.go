package diffview

import (
	"context"
	"errors"

	"github.com/zjrosen/panediff/internal/log"
)

// State is the lifecycle state of one diff session.
type State int

const (
	StateLoading State = iota // constructed, diff not yet run
	StateReady                // diff rendered, accepting input
	StateClosed               // closed by the user; all state discarded
	StateFailed               // the differ failed; the view never became ready
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrAlreadyOpened is returned when Open is called twice on one controller.
// A new comparison needs a new Controller.
var ErrAlreadyOpened = errors.New("diff session already opened")

// Controller owns one diff session: the summary, the changed-line index,
// the navigation cursor and the scroll synchronization of two panes.
type Controller struct {
	left, right Surface

	adapter  *Adapter
	renderer Renderer
	nav      *Navigator
	sync     *ScrollSync

	state     State
	summary   DiffSummary
	leftName  string
	rightName string
}

// Option configures a Controller.
type Option func(*Controller)

// WithDiffer sets the line differ used by the session.
func WithDiffer(d Differ) Option {
	return func(c *Controller) {
		c.adapter = NewAdapter(d)
	}
}

// NewController creates a controller driving the two given surfaces.
func NewController(left, right Surface, opts ...Option) *Controller {
	c := &Controller{
		left:    left,
		right:   right,
		adapter: NewAdapter(nil),
		nav:     NewNavigator(nil),
		sync:    NewScrollSync(left, right),
		state:   StateLoading,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open runs the diff once, renders both panes, indexes the changed lines and
// leaves the cursor unset.
func (c *Controller) Open(ctx context.Context, in Input) error {
	if c.state != StateLoading {
		return ErrAlreadyOpened
	}

	c.leftName = in.Left.DisplayName
	c.rightName = in.Right.DisplayName

	res, err := c.adapter.Adapt(ctx, in.Left.Content, in.Right.Content)
	if err != nil {
		c.state = StateFailed
		return err
	}

	index, err := c.renderer.Render(c.left, c.right, res)
	if err != nil {
		c.state = StateFailed
		return err
	}

	c.summary = res.Summary
	c.nav.Reset(index)
	c.state = StateReady

	log.Info(log.CatDiff, "diff session ready",
		"left", c.leftName, "right", c.rightName,
		"changed", len(index), "summary", c.summary.String())
	return nil
}

// Dispatch delivers one input event. It returns true when the event was handled.
// Events are ignored unless the session is ready.
func (c *Controller) Dispatch(ev Event) bool {
	if c.state != StateReady {
		return false
	}

	switch e := ev.(type) {
	case ScrollChanged:
		return c.sync.Mirror(e.Pane)
	case KeyPressed:
		action := ActionForKey(e.Key)
		if action == ActionNone {
			return false
		}
		c.perform(action)
		return true
	case ActionTriggered:
		if e.Action == ActionNone {
			return false
		}
		c.perform(e.Action)
		return true
	}
	return false
}

// perform executes a toolbar action.
func (c *Controller) perform(a Action) {
	var (
		line  int
		moved bool
	)

	switch a {
	case ActionClose:
		c.Close()
		return
	case ActionFirst:
		line, moved = c.nav.First()
	case ActionLast:
		line, moved = c.nav.Last()
	case ActionNext:
		line, moved = c.nav.Next()
	case ActionPrevious:
		line, moved = c.nav.Previous()
	}

	if !moved {
		return
	}
	Reveal(line, c.left, c.right)
	log.Debug(log.CatUI, "navigated", "action", a.String(), "line", line, "cursor", c.nav.Cursor())
}

// Close ends the session and discards its state.
func (c *Controller) Close() {
	if c.state == StateClosed {
		return
	}
	c.state = StateClosed
	c.summary = DiffSummary{}
	c.nav.Reset(nil)
	log.Debug(log.CatUI, "diff session closed", "left", c.leftName, "right", c.rightName)
}

// State returns the session state.
func (c *Controller) State() State {
	return c.state
}

// Summary returns the change totals.
func (c *Controller) Summary() DiffSummary {
	return c.summary
}

// ChangedLines returns the changed-line index.
func (c *Controller) ChangedLines() ChangedLineIndex {
	return c.nav.Index()
}

// Cursor returns the navigation cursor, or Unset.
func (c *Controller) Cursor() int {
	return c.nav.Cursor()
}

// LeftName returns the left pane's display name.
func (c *Controller) LeftName() string {
	return c.leftName
}

// RightName returns the right pane's display name.
func (c *Controller) RightName() string {
	return c.rightName
}

// ScrollSync returns the pane synchronizer.
func (c *Controller) ScrollSync() *ScrollSync {
	return c.sync
}

// StatusText returns the summary line shown after load.
func (c *Controller) StatusText() string {
	switch c.state {
	case StateLoading:
		return "Loading"
	case StateFailed:
		return "Diff failed"
	case StateClosed:
		return ""
	}
	return "Differences: " + c.summary.String()
}

// NavText returns the navigation label.
func (c *Controller) NavText() string {
	if c.state != StateReady {
		return ""
	}
	return c.nav.Status()
}
