package styles

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Preset string
	Colors map[string]string
}

// ApplyTheme applies a complete theme configuration.
// Order of application:
// 1. Start with default colors
// 2. Apply preset (if specified)
// 3. Apply individual color overrides
// 4. Rebuild all Style objects
func ApplyTheme(cfg ThemeConfig) error {
	colors := maps.Clone(DefaultPreset.Colors)

	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	applyColors(colors)
	rebuildStyles()
	return nil
}

// tokenTargets maps each token onto the color variables it drives.
func tokenTargets() map[ColorToken][]*lipgloss.AdaptiveColor {
	return map[ColorToken][]*lipgloss.AdaptiveColor{
		TokenTextPrimary:    {&TextPrimaryColor},
		TokenTextSecondary:  {&TextSecondaryColor},
		TokenTextMuted:      {&TextMutedColor},
		TokenBorderDefault:  {&BorderDefaultColor},
		TokenBorderFocus:    {&BorderFocusColor},
		TokenStatusSuccess:  {&StatusSuccessColor},
		TokenStatusWarning:  {&StatusWarningColor},
		TokenStatusError:    {&StatusErrorColor},
		TokenDiffInserted:   {&DiffInsertedBgColor},
		TokenDiffDeleted:    {&DiffDeletedBgColor},
		TokenDiffModified:   {&DiffModifiedBgColor},
		TokenDiffPadding:    {&DiffPaddingFgColor},
		TokenWordAdded:      {&WordAddedBgColor},
		TokenWordDeleted:    {&WordDeletedBgColor},
		TokenCursorLine:     {&CursorLineBgColor},
		TokenScrollbarThumb: {&ScrollbarThumbColor},
		TokenScrollbarTrack: {&ScrollbarTrackColor},
		TokenScrollbarMark:  {&ScrollbarMarkColor},
		TokenButtonText:     {&ButtonTextColor},
		TokenButtonBg:       {&ButtonBgColor},
		TokenButtonHoverBg:  {&ButtonHoverBgColor},
		TokenButtonCloseBg:  {&ButtonCloseBgColor},
	}
}

func applyColors(colors map[ColorToken]string) {
	targets := tokenTargets()
	for token, hex := range colors {
		for _, dst := range targets[token] {
			// Same color for both modes once a theme is chosen.
			*dst = lipgloss.AdaptiveColor{Light: hex, Dark: hex}
		}
	}
}

func isValidToken(token ColorToken) bool {
	return slices.Contains(AllTokens(), token)
}

func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}
