package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotkit/pkg/blueprint"
	"github.com/matzehuels/plotkit/pkg/cache"
	"github.com/matzehuels/plotkit/pkg/layout"
	"github.com/matzehuels/plotkit/pkg/observability"
	"github.com/matzehuels/plotkit/pkg/render"
	"github.com/matzehuels/plotkit/pkg/store"
	"github.com/matzehuels/plotkit/pkg/store/memory"
	"github.com/matzehuels/plotkit/pkg/survey"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout = "layout"
	keyTypeReport = "report"
)

// Runner encapsulates layout and analysis execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner holds no per-request state. Multiple goroutines can safely
// share one Runner.
type Runner struct {
	Store    store.Store
	Cache    cache.Cache
	Keyer    cache.Keyer
	Registry *blueprint.Registry
	Logger   *log.Logger
}

// NewRunner creates a runner. Nil arguments fall back to an in-memory
// store, a NullCache, the DefaultKeyer, the built-in blueprint catalog and
// the default logger.
func NewRunner(st store.Store, c cache.Cache, keyer cache.Keyer, reg *blueprint.Registry, logger *log.Logger) *Runner {
	if st == nil {
		st = memory.New()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if reg == nil {
		reg = blueprint.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:    st,
		Cache:    c,
		Keyer:    keyer,
		Registry: reg,
		Logger:   logger,
	}
}

// Close releases the store and the cache.
func (r *Runner) Close() error {
	return errors.Join(r.Store.Close(), r.Cache.Close())
}

// =============================================================================
// Layout
// =============================================================================

// PlotLayoutWithCacheInfo returns the committed layout of a stored plot and
// whether it came from the cache.
func (r *Runner) PlotLayoutWithCacheInfo(ctx context.Context, plotID string) (*layout.Node, bool, error) {
	p, err := r.Store.GetPlot(ctx, plotID)
	if err != nil {
		return nil, false, err
	}
	return r.layoutFor(ctx, p)
}

// PlotLayout is PlotLayoutWithCacheInfo without the hit flag.
func (r *Runner) PlotLayout(ctx context.Context, plotID string) (*layout.Node, error) {
	root, _, err := r.PlotLayoutWithCacheInfo(ctx, plotID)
	return root, err
}

func (r *Runner) layoutFor(ctx context.Context, p survey.Plot) (*layout.Node, bool, error) {
	bp, err := p.Blueprint(r.Registry)
	if err != nil {
		return nil, false, fmt.Errorf("plot %s: %w", p.ID, err)
	}

	keyOpts := cache.LayoutKeyOpts{BlueprintKey: bp.Key(), PlotID: p.ID}
	if p.RootDimensions != nil {
		if keyOpts.Overrides, err = cache.HashJSON(p.RootDimensions); err != nil {
			return nil, false, err
		}
	}
	key := r.Keyer.LayoutKey(keyOpts)

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		if root, err := layout.Unmarshal(data); err == nil {
			observability.Cache().OnCacheHit(ctx, keyTypeLayout)
			r.Logger.Debug("layout cache hit", "plot", p.ID)
			return root, true, nil
		}
	} else if err != nil {
		r.Logger.Warn("layout cache read failed", "plot", p.ID, "error", err)
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeLayout)

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, bp.Key())
	start := time.Now()
	root, err := layout.Generate(bp, p.Overrides(), p.ID)
	nodes := 0
	if root != nil {
		nodes = root.Count()
	}
	hooks.OnLayoutComplete(ctx, bp.Key(), nodes, time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("plot %s: %w", p.ID, err)
	}

	r.Logger.Info("computed layout",
		"plot", p.ID,
		"blueprint", bp.Key(),
		"nodes", nodes,
		"duration", time.Since(start))

	if data, err := layout.Marshal(root); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("layout cache write failed", "plot", p.ID, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}
	return root, false, nil
}

// Preview generates an uncommitted layout of a registered blueprint. Preview
// ids are random and never cached.
func (r *Runner) Preview(ctx context.Context, id string, version int, ov layout.Overrides) (*layout.Node, error) {
	bp, err := r.Registry.Get(id, version)
	if err != nil {
		return nil, err
	}
	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, bp.Key())
	start := time.Now()
	root, err := layout.Preview(bp, ov)
	nodes := 0
	if root != nil {
		nodes = root.Count()
	}
	hooks.OnLayoutComplete(ctx, bp.Key(), nodes, time.Since(start), err)
	return root, err
}

// Completion summarises sampling-unit progress for a plot.
func (r *Runner) Completion(ctx context.Context, plotID string) (survey.CompletionSummary, error) {
	root, err := r.PlotLayout(ctx, plotID)
	if err != nil {
		return survey.CompletionSummary{}, err
	}
	progress, err := r.Store.ListProgress(ctx, plotID)
	if err != nil {
		return survey.CompletionSummary{}, err
	}
	return survey.Completion(root, progress), nil
}

// =============================================================================
// Render
// =============================================================================

// RenderPlot draws the committed layout of a plot as SVG, highlighting
// sampling units marked done.
func (r *Runner) RenderPlot(ctx context.Context, plotID string, opts render.Options) ([]byte, error) {
	dot, err := r.PlotDOT(ctx, plotID, opts)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	svg, err := render.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("rendered layout", "plot", plotID, "bytes", len(svg), "duration", time.Since(start))
	return svg, nil
}

// PlotDOT returns the Graphviz source for a plot's committed layout.
func (r *Runner) PlotDOT(ctx context.Context, plotID string, opts render.Options) (string, error) {
	root, err := r.PlotLayout(ctx, plotID)
	if err != nil {
		return "", err
	}
	if opts.Done == nil {
		progress, err := r.Store.ListProgress(ctx, plotID)
		if err != nil {
			return "", err
		}
		opts.Done = make(map[string]bool)
		for _, p := range progress {
			if p.Status == survey.Done {
				opts.Done[p.SamplingUnitID] = true
			}
		}
	}
	return render.ToDOT(root, opts), nil
}
