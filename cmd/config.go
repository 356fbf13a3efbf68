package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/panediff/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after defaults, the config file and PANEDIFF_*
environment overrides have been applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printConfig(cmd.OutOrStdout(), cfg, cfgUsed)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write a commented default config file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set one value in the config file",
	Long: `Set one value in the config file, keeping its comments.

Keys are dotted paths. Color tokens under theme.colors keep their dots.

Examples:
  panediff config set ui.tab_width 8
  panediff config set theme.preset catppuccin-mocha
  panediff config set theme.colors.diff.inserted "#1F3B2A"`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configForce bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
}

func printConfig(w io.Writer, c config.Config, used string) error {
	source := used
	if source == "" {
		source = "defaults"
	}
	if _, err := fmt.Fprintf(w, "# source: %s\n", source); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.LocalConfigPath
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := cfgUsed
	if path == "" {
		path = cfgFile
	}
	if path == "" {
		if dir := config.Dir(); dir != "" {
			path = filepath.Join(dir, "config.yaml")
		}
	}
	if path == "" {
		return errors.New("no config file location; pass --config")
	}

	keyPath, err := configKeyPath(args[0])
	if err != nil {
		return err
	}
	if err := config.SetValue(path, keyPath, args[1]); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
	return err
}

// configKeyPath converts a dotted key into a viper path. Everything after
// theme.colors is one color token.
func configKeyPath(key string) (string, error) {
	const colorsPrefix = "theme.colors."
	if token, ok := strings.CutPrefix(key, colorsPrefix); ok {
		if token == "" {
			return "", fmt.Errorf("missing color token in %q", key)
		}
		return strings.Join([]string{"theme", "colors", token}, config.KeyDelimiter), nil
	}
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return "", fmt.Errorf("invalid key %q", key)
		}
	}
	return strings.Join(parts, config.KeyDelimiter), nil
}
