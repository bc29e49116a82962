package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/plotkit/pkg/cache"
	"github.com/matzehuels/plotkit/pkg/ecology"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/store"
)

// AppName names the XDG subdirectories.
const AppName = "plotkit"

// DefaultAddr is the API listen address.
const DefaultAddr = ":8080"

// Config is the complete plotkit configuration.
type Config struct {
	// Blueprints lists extra catalog files registered on top of the
	// built-in catalog.
	Blueprints []string `toml:"blueprints"`

	Store    StoreConfig    `toml:"store"`
	Cache    CacheConfig    `toml:"cache"`
	Analysis AnalysisConfig `toml:"analysis"`
	Server   ServerConfig   `toml:"server"`
}

// StoreConfig selects the observation store.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// CacheConfig selects the layout and report cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// AnalysisConfig holds analysis defaults.
type AnalysisConfig struct {
	Iterations int `toml:"iterations"`
	// Seed fixes the SAC random source when set.
	Seed *uint64 `toml:"seed"`
}

// ServerConfig configures "plotkit serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists: a SQLite
// store under the XDG data directory and a file cache under the XDG cache
// directory.
func Default() Config {
	cfg := Config{
		Store:    StoreConfig{Backend: store.BackendSQLite, MongoDatabase: AppName},
		Cache:    CacheConfig{Backend: cache.BackendFile, RedisPrefix: AppName + ":"},
		Analysis: AnalysisConfig{Iterations: ecology.DefaultIterations},
		Server:   ServerConfig{Addr: DefaultAddr},
	}
	if dir, err := DataDir(); err == nil {
		cfg.Store.Path = filepath.Join(dir, AppName+".db")
	}
	if dir, err := CacheDir(); err == nil {
		cfg.Cache.Dir = dir
	}
	return cfg
}

// Load reads the file at path over the defaults and applies environment
// overrides. An empty path selects [DefaultPath]; a missing default file is
// not an error, a missing explicit one is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		switch {
		case os.IsNotExist(err) && !explicit:
		case os.IsNotExist(err):
			return cfg, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config %s not found", path)
		default:
			return cfg, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse config %s", path)
		}
	}

	cfg.applyEnv(os.LookupEnv)
	for i, b := range cfg.Blueprints {
		cfg.Blueprints[i] = expandHome(b)
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides fields from the environment.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	for name, dst := range map[string]*string{
		"PLOTKIT_STORE":      &c.Store.Backend,
		"PLOTKIT_STORE_PATH": &c.Store.Path,
		"PLOTKIT_MONGO_URI":  &c.Store.MongoURI,
		"PLOTKIT_CACHE":      &c.Cache.Backend,
		"PLOTKIT_REDIS_ADDR": &c.Cache.RedisAddr,
		"PLOTKIT_ADDR":       &c.Server.Addr,
	} {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
}

// Validate rejects unknown backends, missing backend settings and
// non-positive iteration counts.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case store.BackendMemory:
	case store.BackendSQLite:
		if c.Store.Path == "" {
			return perrors.New(perrors.ErrCodeInvalidConfig, "store: sqlite backend needs a path")
		}
	case store.BackendMongo:
		if c.Store.MongoURI == "" {
			return perrors.New(perrors.ErrCodeInvalidConfig, "store: mongo backend needs mongo_uri")
		}
	default:
		return perrors.New(perrors.ErrCodeInvalidConfig, "store: unknown backend %q", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case cache.BackendNone:
	case cache.BackendFile:
		if c.Cache.Dir == "" {
			return perrors.New(perrors.ErrCodeInvalidConfig, "cache: file backend needs a dir")
		}
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return perrors.New(perrors.ErrCodeInvalidConfig, "cache: redis backend needs redis_addr")
		}
	default:
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache: unknown backend %q", c.Cache.Backend)
	}

	if c.Analysis.Iterations <= 0 || c.Analysis.Iterations > ecology.MaxIterations {
		return perrors.New(perrors.ErrCodeInvalidConfig,
			"analysis: iterations must be between 1 and %d, got %d", ecology.MaxIterations, c.Analysis.Iterations)
	}
	return nil
}

// StoreOptions returns the store factory settings.
func (c Config) StoreOptions() store.Config {
	return store.Config{
		Backend:       c.Store.Backend,
		Path:          c.Store.Path,
		MongoURI:      c.Store.MongoURI,
		MongoDatabase: c.Store.MongoDatabase,
	}
}

// CacheOptions returns the cache factory settings.
func (c Config) CacheOptions() cache.Config {
	return cache.Config{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   c.Cache.RedisPrefix,
		},
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
