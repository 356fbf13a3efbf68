package diffview

// Event is an input delivered synchronously to the Controller.
// The set is closed: ScrollChanged, KeyPressed and ActionTriggered.
type Event interface {
	isEvent()
}

// ScrollChanged reports that a pane's scroll position changed.
type ScrollChanged struct {
	Pane    Side
	VOffset int
	HOffset int
}

// Key is a keyboard input the diff view understands.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyF7
	KeyF8
	KeyCtrlHome
	KeyCtrlEnd
)

// String returns the key's conventional name.
func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "esc"
	case KeyF7:
		return "f7"
	case KeyF8:
		return "f8"
	case KeyCtrlHome:
		return "ctrl+home"
	case KeyCtrlEnd:
		return "ctrl+end"
	default:
		return "unknown"
	}
}

// KeyPressed reports a key press.
type KeyPressed struct {
	Key Key
}

// Action is a toolbar command. Every action has a key equivalent.
type Action int

const (
	ActionNone Action = iota
	ActionFirst
	ActionPrevious
	ActionNext
	ActionLast
	ActionClose
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionFirst:
		return "first"
	case ActionPrevious:
		return "previous"
	case ActionNext:
		return "next"
	case ActionLast:
		return "last"
	case ActionClose:
		return "close"
	default:
		return "none"
	}
}

// ActionTriggered reports a toolbar button activation.
type ActionTriggered struct {
	Action Action
}

func (ScrollChanged) isEvent()   {}
func (KeyPressed) isEvent()      {}
func (ActionTriggered) isEvent() {}

// keyActions maps the keyboard surface onto toolbar actions.
var keyActions = map[Key]Action{
	KeyEscape:   ActionClose,
	KeyF7:       ActionPrevious,
	KeyF8:       ActionNext,
	KeyCtrlHome: ActionFirst,
	KeyCtrlEnd:  ActionLast,
}

// ActionForKey returns the action bound to k, or ActionNone.
func ActionForKey(k Key) Action {
	return keyActions[k]
}
