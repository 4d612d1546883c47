// Package cli implements the mindtower command-line interface.
//
// # Commands
//
//   - layout: lay out a mind map and write the snapshot as JSON
//   - render: render a mind map to DOT, SVG or snapshot JSON
//   - browse: explore and edit a mind map in the terminal
//   - serve: run the diagram HTTP API
//   - cache: manage the local layout cache
//   - completion: generate shell completion scripts
//
// All commands accept --config to load a TOML configuration file and
// --verbose (-v) for debug logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindtower/pkg/buildinfo"
	"github.com/matzehuels/mindtower/pkg/cache"
	"github.com/matzehuels/mindtower/pkg/config"
	"github.com/matzehuels/mindtower/pkg/observability"
	"github.com/matzehuels/mindtower/pkg/pipeline"
	"github.com/matzehuels/mindtower/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "mindtower"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *config.Config
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
		Use:          appName,
		Short:        "Mindtower lays out and browses mind maps",
		Long:         `Mindtower turns hierarchical mind map data into stable tree layouts. It collapses and expands branches without moving the rest of the map, cycles through layout presets, and serves diagrams to interactive editors over HTTP.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetEngineHooks(hooks)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file once. Without a file the defaults
// apply.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	c.config = &cfg
	return c.config, nil
}

// =============================================================================
// Backend Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.Scoped(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	runner.TTL = cfg.Cache.TTL.Duration
	return runner, nil
}

// newCache opens the configured cache backend. A file cache whose
// directory cannot be determined degrades to no caching.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   cfg.Cache.RedisAddr,
			Prefix: cfg.Cache.Prefix,
		})
	case config.CacheFile:
		dir, err := fileCacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		return cache.NewNullCache(), nil
	}
}

// newStore opens the configured document store.
func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreFile:
		return store.NewFileStore(cfg.Store.Dir)
	case config.StoreMongo:
		return store.NewMongoStore(ctx, store.MongoOptions{
			URI:        cfg.Store.MongoURI,
			Database:   cfg.Store.Database,
			Collection: cfg.Store.Collection,
		})
	default:
		return store.NewMemoryStore(), nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/mindtower/).
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

// outputPath derives "<input-base><suffix>" when no explicit path is given.
func outputPath(input, explicit, suffix string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// parseList splits a comma-separated flag value, dropping empty items.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseFormats parses the --format flag. Empty means DOT.
func parseFormats(s string) ([]string, error) {
	formats := parseList(s)
	if len(formats) == 0 {
		return []string{pipeline.FormatDOT}, nil
	}
	if err := pipeline.ValidateFormats(formats); err != nil {
		return nil, fmt.Errorf("--format: %w", err)
	}
	return formats, nil
}
