package store

import (
	"context"

	"github.com/matzehuels/plotkit/pkg/ecology"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/store/memory"
	"github.com/matzehuels/plotkit/pkg/store/mongo"
	"github.com/matzehuels/plotkit/pkg/store/sqlite"
	"github.com/matzehuels/plotkit/pkg/survey"
)

// Store is the record store behind the pipeline, the API and the CLI.
type Store interface {
	PutPlot(ctx context.Context, p survey.Plot) error
	GetPlot(ctx context.Context, id string) (survey.Plot, error)
	ListPlots(ctx context.Context) ([]survey.Plot, error)
	// DeletePlot removes the plot and all observations and progress
	// recorded against it.
	DeletePlot(ctx context.Context, id string) error

	PutTree(ctx context.Context, t ecology.TreeObservation) error
	// ListTrees returns the trees of the given plots, or of all plots when
	// none are given.
	ListTrees(ctx context.Context, plotIDs ...string) ([]ecology.TreeObservation, error)

	PutVegetation(ctx context.Context, v ecology.VegetationObservation) error
	ListVegetation(ctx context.Context, plotIDs ...string) ([]ecology.VegetationObservation, error)

	PutProgress(ctx context.Context, p survey.SamplingUnitProgress) error
	ListProgress(ctx context.Context, plotID string) ([]survey.SamplingUnitProgress, error)

	Close() error
}

var (
	_ Store = (*memory.Store)(nil)
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*mongo.Store)(nil)
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	// Path is the SQLite database file.
	Path string
	// MongoURI and MongoDatabase address the MongoDB deployment.
	MongoURI      string
	MongoDatabase string
}

// Open returns the backend named by cfg.Backend. An empty backend selects
// the in-memory store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return memory.New(), nil
	case BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMongo:
		s, err := mongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
}
