// Package config provides configuration types, defaults and validation for
// panediff.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/panediff/internal/log"
)

// Config holds all configuration options for panediff.
type Config struct {
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
	Theme   ThemeConfig   `mapstructure:"theme" yaml:"theme"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch"`
	Tracing TracingConfig `mapstructure:"tracing" yaml:"tracing"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
}

// UIConfig holds the diff view settings.
type UIConfig struct {
	FontFamily string `mapstructure:"font_family" yaml:"font_family"` // shown in the title line
	FontSize   int    `mapstructure:"font_size" yaml:"font_size"`
	TabWidth   int    `mapstructure:"tab_width" yaml:"tab_width"`
	WordDiff   bool   `mapstructure:"word_diff" yaml:"word_diff"` // emphasize changed words in modified lines
	Gutter     bool   `mapstructure:"gutter" yaml:"gutter"`
	Scrollbar  bool   `mapstructure:"scrollbar" yaml:"scrollbar"`
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "catppuccin-mocha", "high-contrast"
	Preset string `mapstructure:"preset" yaml:"preset"`

	// Colors overrides individual color tokens. Keys may be dotted
	// ("diff.inserted") or nested maps ({diff: {inserted: ...}}).
	Colors map[string]any `mapstructure:"colors" yaml:"colors,omitempty"`
}

// FlattenedColors returns Colors with nested maps joined into dotted keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			nested := make(map[string]any, len(val))
			for nk, nv := range val {
				nested[fmt.Sprint(nk)] = nv
			}
			flattenColors(key, nested, result)
		}
	}
}

// WatchConfig controls live reload.
type WatchConfig struct {
	// Enabled reloads the comparison when either file changes.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Debounce coalesces bursts of file events.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// TracingConfig holds tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	Exporter string `mapstructure:"exporter" yaml:"exporter"`

	// FilePath is the output file for the "file" exporter.
	FilePath string `mapstructure:"file_path" yaml:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// HistoryConfig controls the comparison history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
	// MaxEntries bounds the stored history; older entries are pruned.
	MaxEntries int `mapstructure:"max_entries" yaml:"max_entries"`
}

// CacheConfig controls the in-memory diff result cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// Dir returns ~/.config/panediff, or "" when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "panediff")
}

// DefaultTracesFilePath returns ~/.config/panediff/traces/traces.jsonl.
func DefaultTracesFilePath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// DefaultHistoryPath returns ~/.config/panediff/history.db.
func DefaultHistoryPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "history.db")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		UI: UIConfig{
			FontFamily: "Monospace",
			FontSize:   12,
			TabWidth:   4,
			WordDiff:   true,
			Gutter:     true,
			Scrollbar:  true,
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 300 * time.Millisecond,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		History: HistoryConfig{
			Enabled:    true,
			Path:       DefaultHistoryPath(),
			MaxEntries: 200,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
	}
}

// Validate checks the whole configuration and joins every problem found.
func Validate(c Config) error {
	return errors.Join(
		ValidateUI(c.UI),
		ValidateWatch(c.Watch),
		ValidateTracing(c.Tracing),
		ValidateHistory(c.History),
		ValidateCache(c.Cache),
	)
}

// ValidateUI checks the view settings.
func ValidateUI(ui UIConfig) error {
	if ui.FontSize <= 0 {
		return fmt.Errorf("ui.font_size must be greater than 0, got %d", ui.FontSize)
	}
	if ui.TabWidth < 1 || ui.TabWidth > 16 {
		return fmt.Errorf("ui.tab_width must be between 1 and 16, got %d", ui.TabWidth)
	}
	return nil
}

// ValidateWatch checks live reload settings.
func ValidateWatch(w WatchConfig) error {
	if w.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", w.Debounce)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Path requirements only matter when tracing is on
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return errors.New("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return errors.New("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// ValidateHistory checks the history settings.
func ValidateHistory(h HistoryConfig) error {
	if h.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must not be negative, got %d", h.MaxEntries)
	}
	if h.Enabled && h.Path == "" {
		return errors.New("history.path is required when history is enabled")
	}
	return nil
}

// ValidateCache checks the cache settings.
func ValidateCache(c CacheConfig) error {
	if c.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.TTL)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# panediff configuration

# Diff view
ui:
  font_family: Monospace  # shown in the title line
  font_size: 12
  tab_width: 4            # 1-16
  word_diff: true         # emphasize changed words inside modified lines
  gutter: true            # line numbers
  scrollbar: true

# Theme
# theme:
#   preset: catppuccin-mocha   # default, catppuccin-mocha, high-contrast
#   colors:
#     diff.inserted: "#1F3B2A"
#     diff.deleted: "#3B1F24"

# Live reload when either file changes (same as --watch)
watch:
  enabled: false
  debounce: 300ms

# Comparison history (used by --last and "panediff history")
history:
  enabled: true
  # path: ~/.config/panediff/history.db
  max_entries: 200

# In-memory cache of diff results
cache:
  enabled: true
  ttl: 10m

# Tracing
# tracing:
#   enabled: true
#   exporter: file        # none, file, stdout, otlp
#   file_path: ~/.config/panediff/traces/traces.jsonl
#
# Example: send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}
