package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zjrosen/panediff/internal/config"
	"github.com/zjrosen/panediff/internal/log"
	"github.com/zjrosen/panediff/internal/ui/styles"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 response does not race with the input loop.
	_ = lipgloss.HasDarkBackground()
}

var (
	version    = "dev"
	cfgFile    string
	cfg        config.Config
	cfgUsed    string
	debugFlag  bool
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "panediff OLD NEW",
	Short: "Side-by-side diff viewer for the terminal",
	Long: `Compare two text documents side by side with synchronized scrolling,
highlighted changes and F7/F8 navigation between differences.

Use "-" for one of the documents to read it from stdin.

Examples:
  panediff old.txt new.txt
  panediff --watch config.yaml config.yaml.orig
  git show HEAD:main.go | panediff - main.go
  panediff --last`,
	Version:           version,
	Args:              compareArgs,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
	RunE:              runCompare,
	SilenceUsage:      true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .panediff/config.yaml, then ~/.config/panediff/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug log (path from PANEDIFF_LOG, default debug.log)")

	rootCmd.Flags().BoolP("watch", "w", false, "reload when either file changes")
	rootCmd.Flags().Bool("no-word-diff", false, "disable word emphasis inside modified lines")
	rootCmd.Flags().Bool("last", false, "reopen the most recent comparison from history")
}

// compareArgs accepts OLD NEW, or nothing with --last.
func compareArgs(cmd *cobra.Command, args []string) error {
	if last, _ := cmd.Flags().GetBool("last"); last {
		if len(args) != 0 {
			return errors.New("--last takes no arguments")
		}
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("expected OLD and NEW, got %d argument(s)", len(args))
	}
	if args[0] == stdinArg && args[1] == stdinArg {
		return errors.New("only one side can be read from stdin")
	}
	return nil
}

// setup initializes logging, configuration and the theme.
func setup(cmd *cobra.Command, _ []string) error {
	if err := initLogging(); err != nil {
		return err
	}
	if err := initConfig(); err != nil {
		return err
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		cfg.Watch.Enabled = true
	}
	if noWord, _ := cmd.Flags().GetBool("no-word-diff"); noWord {
		cfg.UI.WordDiff = false
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Colors: cfg.Theme.FlattenedColors(),
	})
}

func teardown(_ *cobra.Command, _ []string) {
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
}

func initLogging() error {
	if !debugFlag && os.Getenv("PANEDIFF_DEBUG") == "" {
		return nil
	}
	logPath := os.Getenv("PANEDIFF_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, "panediff")
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	logCleanup = cleanup
	log.Info(log.CatConfig, "panediff starting", "version", version, "logPath", logPath)
	return nil
}

// initConfig loads the config file. When none exists anywhere, a commented
// default is written to the user config directory.
func initConfig() error {
	loaded, used, err := config.Load(config.NewViper(), cfgFile)
	if err != nil {
		return err
	}

	if used == "" && cfgFile == "" {
		if dir := config.Dir(); dir != "" {
			defaultPath := filepath.Join(dir, "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				used = defaultPath
			}
		}
	}

	cfg = loaded
	cfgUsed = used
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(ver string) {
	version = ver
	rootCmd.Version = ver
}
