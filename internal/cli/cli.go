// Package cli implements the cardgrid command-line interface.
//
// Commands compute layouts from deck files (layout, breakpoints), preview a
// deck interactively (preview), serve the HTTP API (serve), and manage the
// local layout cache (cache).
//
// # Configuration
//
// Every flag can also be set in $XDG_CONFIG_HOME/cardgrid/config.toml (or the
// file given with --config) and through CARDGRID_* environment variables,
// for example CARDGRID_CELL_WIDTH=120. Flags win over the environment, which
// wins over the config file.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/matzehuels/cardgrid/pkg/buildinfo"
	"github.com/matzehuels/cardgrid/pkg/cache"
	"github.com/matzehuels/cardgrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cardgrid"

	// envPrefix prefixes environment variables read by the config.
	envPrefix = "CARDGRID"
)

// Config keys shared by several commands.
const (
	keyCache       = "cache"
	keyCachePrefix = "cache-prefix"
	keyLogFile     = "log-file"
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
	Config *viper.Viper

	out     io.Writer
	logFile *lumberjack.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: newConfig(),
		out:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Close flushes and closes the log file, if any.
func (c *CLI) Close() error {
	if c.logFile != nil {
		return c.logFile.Close()
	}
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   appName,
		Short: "Cardgrid lays out cards in a responsive grid",
		Long: `Cardgrid arranges variably sized cards into a grid whose column count
follows the container width, pulling wide cards forward to fill rows and
backfilling gaps so the grid stays dense.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(configFile); err != nil {
				return err
			}
			if err := c.openLogFile(c.Config.GetString(keyLogFile)); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: $XDG_CONFIG_HOME/cardgrid/config.toml)")
	flags.String(keyLogFile, "", "also write logs to this file (rotated by size)")
	flags.String(keyCache, "", "layout cache: a directory, redis:// or mongodb:// URL (default: user cache dir)")
	flags.String(keyCachePrefix, "", "prefix for cache keys, for sharing one backend between deployments")
	for _, key := range []string{keyLogFile, keyCache, keyCachePrefix} {
		_ = c.Config.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.breakpointsCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

func newConfig() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads the config file. A missing default file is not an
// error; a missing explicit one is.
func (c *CLI) loadConfig(path string) error {
	v := c.Config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	c.Logger.Debug("loaded config", "file", v.ConfigFileUsed())
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if prefix := c.Config.GetString(keyCachePrefix); prefix != "" {
		keyer = cache.NewScopedKeyer(nil, prefix)
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// openCache opens the configured cache, falling back to the user cache
// directory.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	target := c.Config.GetString(keyCache)
	if target == "" {
		dir, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		target = dir
	}
	cc, err := cache.Open(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	c.Logger.Debug("opened cache", "kind", cache.Kind(cc))
	return cc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cardgrid/).
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

// configDir returns the config directory using XDG standard (~/.config/cardgrid/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
