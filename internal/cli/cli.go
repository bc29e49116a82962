package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotkit/pkg/blueprint"
	"github.com/matzehuels/plotkit/pkg/buildinfo"
	"github.com/matzehuels/plotkit/pkg/cache"
	"github.com/matzehuels/plotkit/pkg/config"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/pipeline"
	"github.com/matzehuels/plotkit/pkg/store"
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

	// ConfigPath is the --config flag; empty selects the default location.
	ConfigPath string
}

// New creates a CLI whose logger writes to w.
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
		Use:   config.AppName,
		Short: "Plotkit lays out field-ecology sampling plots and analyses their surveys",
		Long: `Plotkit generates sampling-plot layouts from versioned blueprints, records
tree and ground-vegetation observations per sampling unit, and computes
diversity indices, importance values and species-accumulation curves.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/plotkit/config.toml)")

	root.AddCommand(c.blueprintCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.observeCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("loaded config", "path", c.ConfigPath, "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// newRegistry returns the built-in catalog plus the catalogs named in cfg.
func newRegistry(cfg config.Config) (*blueprint.Registry, error) {
	reg := blueprint.Default()
	for _, path := range cfg.Blueprints {
		if err := reg.LoadFile(path); err != nil {
			return nil, fmt.Errorf("load blueprints: %w", err)
		}
	}
	return reg, nil
}

// newRunner opens the configured store and cache and returns a runner over
// them. The caller must Close it.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	reg, err := newRegistry(cfg)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	ch := cache.NewNullCache()
	if !noCache {
		if ch, err = cache.Open(cfg.CacheOptions()); err != nil {
			c.Logger.Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "error", err)
			ch = cache.NewNullCache()
		}
	}

	return pipeline.NewRunner(st, ch, storeKeyer(cfg), reg, loggerFromContext(ctx)), nil
}

// storeKeyer scopes cache keys to the store so that two databases sharing
// a cache never read each other's entries.
func storeKeyer(cfg config.Config) cache.Keyer {
	id := cfg.Store.Backend + "|" + cfg.Store.Path + "|" + cfg.Store.MongoURI + "|" + cfg.Store.MongoDatabase
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), "store:"+cache.Hash([]byte(id))[:12]+":")
}

// withRunner loads the configuration, opens a runner and closes it after fn.
func (c *CLI) withRunner(ctx context.Context, noCache bool, fn func(*pipeline.Runner, config.Config) error) (err error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer func() {
		if cerr := runner.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(runner, cfg)
}

// Exit statuses by error class.
const (
	ExitFailure  = 1
	ExitInvalid  = 2
	ExitNotFound = 3
	ExitConflict = 4
)

// ExitCode maps a command error to a process exit status.
func ExitCode(err error) int {
	switch perrors.ClassOf(err) {
	case perrors.ClassInvalid:
		return ExitInvalid
	case perrors.ClassNotFound:
		return ExitNotFound
	case perrors.ClassConflict:
		return ExitConflict
	}
	return ExitFailure
}

// =============================================================================
// Flag Helpers
// =============================================================================

// parseFloats parses a comma-separated list such as "120,45.5".
func parseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "invalid number %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}

// shapeFlags overrides a blueprint's root shape from --width, --length and
// --radius.
type shapeFlags struct {
	width, length, radius float64
}

func (f *shapeFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "override root width in metres")
	cmd.Flags().Float64Var(&f.length, "length", 0, "override root length in metres")
	cmd.Flags().Float64Var(&f.radius, "radius", 0, "override root radius in metres")
}

// apply returns base with the set flags applied, or nil when none are set.
func (f shapeFlags) apply(base blueprint.Shape) *blueprint.Shape {
	if f.width == 0 && f.length == 0 && f.radius == 0 {
		return nil
	}
	s := base
	if f.width != 0 {
		s.Width = f.width
	}
	if f.length != 0 {
		s.Length = f.length
	}
	if f.radius != 0 {
		s.Radius = f.radius
	}
	return &s
}
