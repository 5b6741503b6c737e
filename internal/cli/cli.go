// Package cli implements the scrub command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/scrubdata/scrub/pkg/buildinfo"
	"github.com/scrubdata/scrub/pkg/cache"
	"github.com/scrubdata/scrub/pkg/clean"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "scrub"

	// cacheOff disables result caching when passed to --cache.
	cacheOff = "off"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "scrub",
		Short:        "Scrub cleans tabular datasets automatically",
		Long:         `Scrub is a CLI tool for automated cleaning of tabular datasets: missing-value imputation, outlier handling, datetime feature extraction, categorical encoding, and type normalization.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.cleanCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. spec selects the result
// cache backend, see newCache.
func (c *CLI) newRunner(ctx context.Context, spec string) (*clean.Runner, error) {
	store, err := newCache(ctx, spec)
	if err != nil {
		return nil, err
	}
	return clean.NewRunner(store, nil, c.Logger), nil
}

// newCache builds a cache backend from a --cache flag value: "off"
// disables caching, a redis:// URL selects Redis, any other non-empty
// value is a directory path, and the empty string selects the default
// cache directory.
func newCache(ctx context.Context, spec string) (cache.Cache, error) {
	switch {
	case spec == cacheOff:
		return cache.NewNullCache(), nil
	case strings.HasPrefix(spec, "redis://") || strings.HasPrefix(spec, "rediss://"):
		return cache.NewRedisCache(ctx, spec)
	case spec != "":
		return cache.NewFileCache(spec)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/scrub/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
