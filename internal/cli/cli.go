// Package cli implements the canopy command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/canopy"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer

	configPath string
}

// New creates a new CLI instance writing reports to os.Stdout and logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "canopy",
		Short:        "Canopy inspects and benchmarks scene graphs",
		Long:         `Canopy is a tool for inspecting the draw batches of a canopy scene and measuring update, layout and render times of generated scenes.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "stage config file (TOML)")

	root.AddCommand(c.benchCommand())
	root.AddCommand(c.dumpCommand())

	return root
}

// stageConfig loads the --config file, or the defaults. A log_level in the
// file applies to the CLI logger unless verbose logging is on.
func (c *CLI) stageConfig() (canopy.Config, error) {
	if c.configPath == "" {
		return canopy.DefaultConfig(), nil
	}
	cfg, err := canopy.LoadConfig(c.configPath)
	if err != nil {
		return canopy.Config{}, fmt.Errorf("load %s: %w", c.configPath, err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		lvl, err := cfg.Level()
		if err != nil {
			return canopy.Config{}, fmt.Errorf("load %s: %w", c.configPath, err)
		}
		c.SetLogLevel(lvl)
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "width", cfg.Width, "height", cfg.Height)
	return cfg, nil
}
