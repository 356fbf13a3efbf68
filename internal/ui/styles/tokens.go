package styles

// ColorToken represents a named, themeable color.
type ColorToken string

// Color tokens organized by category.
// These are the keys users can override in their config.
const (
	// Text hierarchy
	TokenTextPrimary   ColorToken = "text.primary"
	TokenTextSecondary ColorToken = "text.secondary"
	TokenTextMuted     ColorToken = "text.muted"

	// Borders
	TokenBorderDefault ColorToken = "border.default"
	TokenBorderFocus   ColorToken = "border.focus"

	// Status indicators
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	// Line classifications
	TokenDiffInserted ColorToken = "diff.inserted"
	TokenDiffDeleted  ColorToken = "diff.deleted"
	TokenDiffModified ColorToken = "diff.modified"
	TokenDiffPadding  ColorToken = "diff.padding"

	// Word emphasis
	TokenWordAdded   ColorToken = "diff.word.added"
	TokenWordDeleted ColorToken = "diff.word.deleted"

	TokenCursorLine ColorToken = "diff.cursor"

	// Scrollbar
	TokenScrollbarThumb ColorToken = "scrollbar.thumb"
	TokenScrollbarTrack ColorToken = "scrollbar.track"
	TokenScrollbarMark  ColorToken = "scrollbar.mark"

	// Toolbar
	TokenButtonText    ColorToken = "button.text"
	TokenButtonBg      ColorToken = "button.bg"
	TokenButtonHoverBg ColorToken = "button.hover"
	TokenButtonCloseBg ColorToken = "button.close"
)

// AllTokens returns every themeable token, in display order.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenTextPrimary, TokenTextSecondary, TokenTextMuted,
		TokenBorderDefault, TokenBorderFocus,
		TokenStatusSuccess, TokenStatusWarning, TokenStatusError,
		TokenDiffInserted, TokenDiffDeleted, TokenDiffModified, TokenDiffPadding,
		TokenWordAdded, TokenWordDeleted,
		TokenCursorLine,
		TokenScrollbarThumb, TokenScrollbarTrack, TokenScrollbarMark,
		TokenButtonText, TokenButtonBg, TokenButtonHoverBg, TokenButtonCloseBg,
	}
}
