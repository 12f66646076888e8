package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"tempo/internal/config"
	"tempo/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`
	DBPath      string           `help:"Path to the SQLite database (overrides $TEMPO_DB_PATH and settings.json)" name:"db-path" type:"path"`

	Serve      ServeCmd      `cmd:"serve" help:"Serve the HTTP API (default)" default:"1"`
	Activities ActivitiesCmd `cmd:"activities" aliases:"a" help:"Manage activities (list, add, view, set, del)"`
	Tasks      TasksCmd      `cmd:"tasks" aliases:"t" help:"Manage tasks (list, add, rename, close, del)"`
	Entries    EntriesCmd    `cmd:"entries" aliases:"e" help:"Start and stop timers (start, stop, list, active)"`
	Settings   SettingsCmd   `cmd:"settings" help:"Show settings file location and available options"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	out       io.Writer        `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// SetOutput redirects command output, stdout by default
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// Stdout returns the writer commands print to
func (c *CLI) Stdout() io.Writer {
	if c.out == nil {
		return os.Stdout
	}
	return c.out
}

// ServeConfig resolves the server configuration for the given --addr
func (c *CLI) ServeConfig(flagAddr string) config.ServeConfig {
	return config.ResolveServeConfig(flagAddr, c.DBPath, c.settings)
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Apply settings with proper precedence: CLI flags > env vars > settings.json > defaults
	// Only apply if flag is at default value and env var is not set

	if c.settings != nil {
		if c.MaxLogFiles == logging.DefaultMaxLogFiles {
			if _, hasEnv := os.LookupEnv("TEMPO_MAX_LOG_FILES"); !hasEnv {
				if c.settings.MaxLogFiles != nil {
					c.MaxLogFiles = *c.settings.MaxLogFiles
				}
			}
		}

		if !c.Debug {
			if _, hasEnv := os.LookupEnv("TEMPO_DEBUG"); !hasEnv {
				if c.settings.Debug != nil && *c.settings.Debug {
					c.Debug = true
				}
			}
		}
	}

	// Initialize logging first
	if _, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles); err != nil {
		return err
	}

	// The storage adapter reads TEMPO_DEBUG to decide on SQL logging
	if c.Debug || c.DebugFile != "" {
		os.Setenv("TEMPO_DEBUG", "1")
	}

	// Create container AFTER logging is initialized so GORM logs land in the right place
	container, err := NewContainer(c.ServeConfig("").DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
