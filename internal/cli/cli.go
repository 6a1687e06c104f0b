// Package cli implements the netloom command-line interface.
//
// The commands mirror the two pipeline halves: assemble collects the
// configured sources into a topology snapshot, and render/preview turn a
// snapshot into artifacts. The remaining commands (inspect, sources,
// artifacts, cache) are operator conveniences around the same config file
// and stores.
//
// All commands support --verbose (-v) for debug-level logging and --config
// for an explicit config path. Loggers are passed through context.Context
// for command plumbing and injected into the pipeline runner.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netloom/internal/config"
	"github.com/matzehuels/netloom/pkg/buildinfo"
	"github.com/matzehuels/netloom/pkg/cache"
	"github.com/matzehuels/netloom/pkg/pipeline"
	"github.com/matzehuels/netloom/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "netloom"

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

	// configPath is the --config override; empty means the search order.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "netloom",
		Short:        "Netloom assembles multi-source network topologies",
		Long:         `Netloom collects device and link exports from heterogeneous network management sources, merges them into one deduplicated topology, and renders it as canonical JSON, GraphML, a diagram-editor document, and a 3D scene.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: netloom.toml search order)")

	// Register all subcommands
	root.AddCommand(c.assembleCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.sourcesCommand())
	root.AddCommand(c.artifactsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config Plumbing
// =============================================================================

// loadConfig loads the config file, honoring --config. Commands that cannot
// run without sources (assemble, sources) use this.
func (c *CLI) loadConfig() (*config.Config, string, error) {
	if c.configPath != "" {
		cfg, err := config.LoadFromPath(c.configPath)
		return cfg, c.configPath, err
	}
	return config.Load()
}

// loadConfigOptional loads the config file if one is present. A missing file
// returns (nil, "", nil) so snapshot-driven commands fall back to built-in
// defaults; a present but invalid file is still an error.
func (c *CLI) loadConfigOptional() (*config.Config, string, error) {
	if c.configPath == "" && config.FindPath() == "" {
		return nil, "", nil
	}
	return c.loadConfig()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner assembles a pipeline runner from the config backends. A nil cfg
// uses the built-in defaults (file cache, filesystem store in the working
// directory). storeOverride, when non-nil, replaces the configured store.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool, storeOverride store.Store) (*pipeline.Runner, error) {
	payloadCache, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}

	st := storeOverride
	if st == nil {
		if cfg != nil {
			st, err = cfg.OpenStore(ctx)
		} else {
			st, err = store.NewFileStore(".")
		}
		if err != nil {
			return nil, err
		}
	}

	return pipeline.NewRunner(payloadCache, st, c.Logger), nil
}

// newCache opens the payload cache. Failures to set up the default file
// cache degrade to no caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg != nil {
		dir, err := cacheDir()
		if err != nil {
			dir = ""
		}
		return cfg.OpenCache(ctx, dir)
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

// cacheDir returns the cache directory using XDG standard (~/.cache/netloom/).
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

// =============================================================================
// Output Helpers
// =============================================================================

// nopCloser wraps an io.Writer with a no-op Close method so os.Stdout can
// stand in for a file.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path. "-" or an empty path
// means stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// parseFormats parses a comma-separated format string into a slice.
// Empty means the caller's default set.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
