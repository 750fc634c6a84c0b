package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/causaltower/internal/config"
	"github.com/matzehuels/causaltower/pkg/buildinfo"
	"github.com/matzehuels/causaltower/pkg/cache"
	"github.com/matzehuels/causaltower/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// redisPasswordEnv holds the redis password, kept out of the config file.
	redisPasswordEnv = "CAUSALTOWER_REDIS_PASSWORD"
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

	// Config is loaded in the root command's pre-run from --config or the
	// default location.
	Config config.Config

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Causaltower identifies causal effects in graphs with hidden variables",
		Long: `Causaltower reads acyclic directed mixed graphs (ADMGs) and answers causal
queries about them: whether an interventional distribution p(Y | do(X)) is
identifiable and by which formula, factorizations, and conditional
independences implied by d- and m-separation.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/causaltower/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the answer cache")

	// Register all subcommands
	root.AddCommand(c.identifyCommand())
	root.AddCommand(c.factorCommand())
	root.AddCommand(c.markovCommand())
	root.AddCommand(c.separateCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.graplCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, c.keyer(), c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// keyer scopes cache keys with the configured prefix so deployments can
// share one redis database. Nil selects the default keyer.
func (c *CLI) keyer() cache.Keyer {
	if c.Config.Cache.Backend != config.BackendRedis || c.Config.Cache.Prefix == "" {
		return nil
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Config.Cache.Prefix)
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Config.Cache.RedisAddr,
			Password: os.Getenv(redisPasswordEnv),
			DB:       c.Config.Cache.RedisDB,
			TTL:      c.Config.Cache.TTL.Duration,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "addr", c.Config.Cache.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		return fc, nil
	}
}

// cacheDir returns the configured file cache directory, falling back to the
// XDG location (~/.cache/causaltower/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.CacheDir()
}
