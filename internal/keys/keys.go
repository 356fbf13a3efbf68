// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// DiffViewKeyMap defines the keybindings of the compare view.
type DiffViewKeyMap struct {
	// Change navigation
	PrevDiff  key.Binding
	NextDiff  key.Binding
	FirstDiff key.Binding
	LastDiff  key.Binding

	// Scrolling (applies to the focused pane, mirrored to the other)
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	ScrollLeft   key.Binding
	ScrollRight  key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	Top          key.Binding
	Bottom       key.Binding

	// General
	SwitchPane key.Binding
	Reload     key.Binding
	Help       key.Binding
	Close      key.Binding
	Quit       key.Binding
}

// DiffView holds the active compare view bindings.
var DiffView = DefaultDiffViewKeyMap()

// DefaultDiffViewKeyMap returns the default compare view bindings.
func DefaultDiffViewKeyMap() DiffViewKeyMap {
	return DiffViewKeyMap{
		PrevDiff: key.NewBinding(
			key.WithKeys("f7", "N"),
			key.WithHelp("F7/N", "previous change"),
		),
		NextDiff: key.NewBinding(
			key.WithKeys("f8", "n"),
			key.WithHelp("F8/n", "next change"),
		),
		FirstDiff: key.NewBinding(
			key.WithKeys("ctrl+home"),
			key.WithHelp("ctrl+home", "first change"),
		),
		LastDiff: key.NewBinding(
			key.WithKeys("ctrl+end"),
			key.WithHelp("ctrl+end", "last change"),
		),

		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		ScrollLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "scroll left"),
		),
		ScrollRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "scroll right"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " ", "f"),
			key.WithHelp("pgdn", "page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "bottom"),
		),

		SwitchPane: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload files"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k DiffViewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevDiff, k.NextDiff, k.SwitchPane, k.Help, k.Close}
}

// FullHelp returns keybindings for the expanded help view.
func (k DiffViewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevDiff, k.NextDiff, k.FirstDiff, k.LastDiff},
		{k.ScrollUp, k.ScrollDown, k.ScrollLeft, k.ScrollRight},
		{k.PageUp, k.PageDown, k.HalfPageUp, k.HalfPageDown, k.Top, k.Bottom},
		{k.SwitchPane, k.Reload, k.Help, k.Close, k.Quit},
	}
}
