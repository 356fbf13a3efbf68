package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjrosen/panediff/internal/log"
)

// KeyDelimiter separates nested keys. Dots are part of color token names,
// so viper must not split on them.
const KeyDelimiter = "::"

// EnvPrefix is the prefix of environment overrides, e.g.
// PANEDIFF_UI_TAB_WIDTH.
const EnvPrefix = "PANEDIFF"

// LocalConfigPath is the per-directory config file checked first.
const LocalConfigPath = ".panediff/config.yaml"

// NewViper returns a viper instance with defaults and env binding set up.
func NewViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter(KeyDelimiter))
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(KeyDelimiter, "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers every default so that env overrides resolve and
// unset keys unmarshal to Defaults().
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	set := func(key string, value any) {
		v.SetDefault(strings.ReplaceAll(key, ".", KeyDelimiter), value)
	}

	set("ui.font_family", d.UI.FontFamily)
	set("ui.font_size", d.UI.FontSize)
	set("ui.tab_width", d.UI.TabWidth)
	set("ui.word_diff", d.UI.WordDiff)
	set("ui.gutter", d.UI.Gutter)
	set("ui.scrollbar", d.UI.Scrollbar)

	set("theme.preset", d.Theme.Preset)

	set("watch.enabled", d.Watch.Enabled)
	set("watch.debounce", d.Watch.Debounce)

	set("tracing.enabled", d.Tracing.Enabled)
	set("tracing.exporter", d.Tracing.Exporter)
	set("tracing.file_path", d.Tracing.FilePath)
	set("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	set("tracing.sample_rate", d.Tracing.SampleRate)

	set("history.enabled", d.History.Enabled)
	set("history.path", d.History.Path)
	set("history.max_entries", d.History.MaxEntries)

	set("cache.enabled", d.Cache.Enabled)
	set("cache.ttl", d.Cache.TTL)
}

// Load reads the config file into v and returns the decoded Config and the
// file used ("" when none was found).
//
// Lookup order: explicit path, .panediff/config.yaml, then
// ~/.config/panediff/config.yaml. A missing explicit file is an error; a
// missing implicit file leaves the defaults in place.
func Load(v *viper.Viper, explicit string) (Config, string, error) {
	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case fileExists(LocalConfigPath):
		v.SetConfigFile(LocalConfigPath)
	default:
		if dir := Dir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "no config file found, using defaults")
	} else {
		used = v.ConfigFileUsed()
		log.Debug(log.CatConfig, "loaded config", "path", used)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, used, fmt.Errorf("decoding config: %w", err)
	}
	cfg.History.Path = expandHome(cfg.History.Path)
	cfg.Tracing.FilePath = expandHome(cfg.Tracing.FilePath)
	return cfg, used, nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
