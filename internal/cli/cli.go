package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackreport/pkg/buildinfo"
	"github.com/matzehuels/stackreport/pkg/cache"
	"github.com/matzehuels/stackreport/pkg/config"
	"github.com/matzehuels/stackreport/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "stackreport"

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

	// configPath is the --config flag; empty means the XDG default.
	configPath string
	// cfg is loaded once in the root PersistentPreRunE.
	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stackreport renders report documents to a single HTML page",
		Long:         `Stackreport renders hierarchical report documents (sections, tables, gnuplot charts and Graphviz graphs) into one self-contained HTML page.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/stackreport/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.outlineCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves --config. A missing default file leaves the
// built-in defaults in place.
func (c *CLI) loadConfig() error {
	cfg, path, err := config.Resolve(c.configPath)
	if err != nil {
		return err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if scope := c.cfg.Cache.Scope; scope != "" {
		keyer = cache.NewScopedKeyer(nil, scope+":")
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	runner.TTL = c.cfg.Cache.TTL
	return runner, nil
}

// newCache picks the backend from the config: Redis when redis_url is
// set, else the file cache. An unusable home directory disables caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cc := c.cfg.Cache
	if noCache || cc.Disabled {
		return cache.NewNullCache(), nil
	}
	if cc.RedisURL != "" {
		c.Logger.Debug("using redis cache", "prefix", cc.Prefix)
		rc, err := cache.NewRedisCache(ctx, cc.RedisURL, cc.Prefix)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns cache.dir from the config, else the XDG cache
// directory (~/.cache/stackreport/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

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
// Options Helpers
// =============================================================================

// pipelineOptions maps the render section of the config onto pipeline
// options. Command flags are applied on top by the caller.
func (c *CLI) pipelineOptions() (pipeline.Options, error) {
	r := c.cfg.Render
	opts := pipeline.Options{
		TemplateDir: r.TemplateDir,
		KeepTemp:    r.KeepTemp,
		TempRoot:    r.TempRoot,
		PlotTool:    r.PlotTool,
		GraphTool:   r.GraphTool,
		GraphEngine: r.GraphEngine,
		Logger:      c.Logger,
	}
	if len(c.cfg.Shortcuts) > 0 {
		shortcuts, err := c.cfg.ShortcutList()
		if err != nil {
			return opts, err
		}
		opts.Shortcuts = shortcuts
	}
	return opts, nil
}
