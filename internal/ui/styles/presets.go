package styles

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":          DefaultPreset,
	"catppuccin-mocha": CatppuccinMochaPreset,
	"high-contrast":    HighContrastPreset,
}

// DefaultPreset holds the Dark values of the built-in AdaptiveColors.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default panediff theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#CCCCCC",
		TokenTextSecondary: "#BBBBBB",
		TokenTextMuted:     "#696969",

		TokenBorderDefault: "#696969",
		TokenBorderFocus:   "#54A0FF",

		TokenStatusSuccess: "#73F59F",
		TokenStatusWarning: "#FECA57",
		TokenStatusError:   "#FF8787",

		TokenDiffInserted: "#1E3A24",
		TokenDiffDeleted:  "#3F1F22",
		TokenDiffModified: "#3A3418",
		TokenDiffPadding:  "#3A3A3A",

		TokenWordAdded:   "#2F6B3B",
		TokenWordDeleted: "#7A2E33",

		TokenCursorLine: "#2A3340",

		TokenScrollbarThumb: "#888888",
		TokenScrollbarTrack: "#3A3A3A",
		TokenScrollbarMark:  "#FECA57",

		TokenButtonText:    "#FFFFFF",
		TokenButtonBg:      "#2D3436",
		TokenButtonHoverBg: "#636E72",
		TokenButtonCloseBg: "#922B21",
	},
}

// CatppuccinMochaPreset is the Catppuccin Mocha palette.
var CatppuccinMochaPreset = Preset{
	Name:        "catppuccin-mocha",
	Description: "Soothing pastel theme (dark)",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#CDD6F4", // text
		TokenTextSecondary: "#BAC2DE", // subtext1
		TokenTextMuted:     "#6C7086", // overlay0

		TokenBorderDefault: "#45475A", // surface1
		TokenBorderFocus:   "#89B4FA", // blue

		TokenStatusSuccess: "#A6E3A1", // green
		TokenStatusWarning: "#F9E2AF", // yellow
		TokenStatusError:   "#F38BA8", // red

		TokenDiffInserted: "#24352B",
		TokenDiffDeleted:  "#3B2430",
		TokenDiffModified: "#37332A",
		TokenDiffPadding:  "#313244", // surface0

		TokenWordAdded:   "#40604A",
		TokenWordDeleted: "#6B3A4C",

		TokenCursorLine: "#313244",

		TokenScrollbarThumb: "#9399B2", // overlay2
		TokenScrollbarTrack: "#313244",
		TokenScrollbarMark:  "#FAB387", // peach

		TokenButtonText:    "#1E1E2E", // base
		TokenButtonBg:      "#89B4FA",
		TokenButtonHoverBg: "#B4BEFE", // lavender
		TokenButtonCloseBg: "#F38BA8",
	},
}

// HighContrastPreset maximizes legibility.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "Maximum contrast for accessibility",
	Colors: map[ColorToken]string{
		TokenTextPrimary:   "#FFFFFF",
		TokenTextSecondary: "#FFFFFF",
		TokenTextMuted:     "#C0C0C0",

		TokenBorderDefault: "#FFFFFF",
		TokenBorderFocus:   "#FFFF00",

		TokenStatusSuccess: "#00FF00",
		TokenStatusWarning: "#FFFF00",
		TokenStatusError:   "#FF0000",

		TokenDiffInserted: "#005F00",
		TokenDiffDeleted:  "#870000",
		TokenDiffModified: "#5F5F00",
		TokenDiffPadding:  "#808080",

		TokenWordAdded:   "#00AF00",
		TokenWordDeleted: "#D70000",

		TokenCursorLine: "#00005F",

		TokenScrollbarThumb: "#FFFFFF",
		TokenScrollbarTrack: "#808080",
		TokenScrollbarMark:  "#FFFF00",

		TokenButtonText:    "#000000",
		TokenButtonBg:      "#FFFFFF",
		TokenButtonHoverBg: "#FFFF00",
		TokenButtonCloseBg: "#FF0000",
	},
}
