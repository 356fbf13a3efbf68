// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"} // Document text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Labels, status bar
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, gutter numbers

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Unfocused pane
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"} // Pane receiving keys

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Line classification backgrounds
	DiffInsertedBgColor = lipgloss.AdaptiveColor{Light: "#D4F8DB", Dark: "#1E3A24"}
	DiffDeletedBgColor  = lipgloss.AdaptiveColor{Light: "#FBDADA", Dark: "#3F1F22"}
	DiffModifiedBgColor = lipgloss.AdaptiveColor{Light: "#FDF2C4", Dark: "#3A3418"}
	DiffPaddingFgColor  = lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#3A3A3A"}

	// Word-level emphasis inside modified lines
	WordAddedBgColor   = lipgloss.AdaptiveColor{Light: "#A6E9B4", Dark: "#2F6B3B"}
	WordDeletedBgColor = lipgloss.AdaptiveColor{Light: "#F5A9A9", Dark: "#7A2E33"}

	// Current navigation target
	CursorLineBgColor = lipgloss.AdaptiveColor{Light: "#E4ECF7", Dark: "#2A3340"}

	// Scrollbar
	ScrollbarThumbColor = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#888888"}
	ScrollbarTrackColor = lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#3A3A3A"}
	ScrollbarMarkColor  = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}

	// Toolbar buttons
	ButtonTextColor    = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonBgColor      = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#2D3436"}
	ButtonHoverBgColor = lipgloss.AdaptiveColor{Light: "#636E72", Dark: "#636E72"}
	ButtonCloseBgColor = lipgloss.AdaptiveColor{Light: "#922B21", Dark: "#922B21"}

	InsertedLineStyle lipgloss.Style
	DeletedLineStyle  lipgloss.Style
	ModifiedLineStyle lipgloss.Style
	PaddingLineStyle  lipgloss.Style
	WordAddedStyle    lipgloss.Style
	WordDeletedStyle  lipgloss.Style
	CursorLineStyle   lipgloss.Style

	GutterStyle         lipgloss.Style
	ScrollbarThumbStyle lipgloss.Style
	ScrollbarTrackStyle lipgloss.Style
	ScrollbarMarkStyle  lipgloss.Style

	ToolbarButtonStyle      lipgloss.Style
	ToolbarButtonHoverStyle lipgloss.Style
	ToolbarCloseStyle       lipgloss.Style

	TitleStyle     lipgloss.Style
	StatusBarStyle lipgloss.Style
	ErrorStyle     lipgloss.Style
)

func init() {
	rebuildStyles()
}

// rebuildStyles recreates all Style objects with the current colors.
// lipgloss.Style captures colors at creation time.
func rebuildStyles() {
	InsertedLineStyle = lipgloss.NewStyle().Background(DiffInsertedBgColor)
	DeletedLineStyle = lipgloss.NewStyle().Background(DiffDeletedBgColor)
	ModifiedLineStyle = lipgloss.NewStyle().Background(DiffModifiedBgColor)
	PaddingLineStyle = lipgloss.NewStyle().Foreground(DiffPaddingFgColor)
	WordAddedStyle = lipgloss.NewStyle().Background(WordAddedBgColor).Bold(true)
	WordDeletedStyle = lipgloss.NewStyle().Background(WordDeletedBgColor).Bold(true)
	CursorLineStyle = lipgloss.NewStyle().Background(CursorLineBgColor)

	GutterStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	ScrollbarThumbStyle = lipgloss.NewStyle().Foreground(ScrollbarThumbColor)
	ScrollbarTrackStyle = lipgloss.NewStyle().Foreground(ScrollbarTrackColor)
	ScrollbarMarkStyle = lipgloss.NewStyle().Foreground(ScrollbarMarkColor)

	baseButton := lipgloss.NewStyle().Padding(0, 1).Foreground(ButtonTextColor)
	ToolbarButtonStyle = baseButton.Background(ButtonBgColor)
	ToolbarButtonHoverStyle = baseButton.Background(ButtonHoverBgColor).Underline(true)
	ToolbarCloseStyle = baseButton.Background(ButtonCloseBgColor)

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(TextSecondaryColor).
		Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(StatusErrorColor).
		Bold(true).
		Padding(1, 2)
}
