package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/plotkit/pkg/cache"
	"github.com/matzehuels/plotkit/pkg/chart"
	"github.com/matzehuels/plotkit/pkg/ecology"
	"github.com/matzehuels/plotkit/pkg/observability"
	"github.com/matzehuels/plotkit/pkg/survey"
)

// analysisInput is everything a report depends on besides its options.
type analysisInput struct {
	Plots      []survey.Plot                   `json:"plots"`
	Trees      []ecology.TreeObservation       `json:"trees"`
	Vegetation []ecology.VegetationObservation `json:"vegetation"`
	Progress   []survey.SamplingUnitProgress   `json:"progress"`
}

// AnalyzeWithCacheInfo computes a report and reports whether it came from
// the cache.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, opts AnalyzeOptions) (*Report, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	in, err := r.loadInput(ctx, opts.PlotIDs)
	if err != nil {
		return nil, false, err
	}
	opts.PlotIDs = make([]string, len(in.Plots))
	for i, p := range in.Plots {
		opts.PlotIDs[i] = p.ID
	}

	// An entropy-seeded curve is different on every run, so only fixed
	// seeds are cached.
	var key string
	if opts.Seed != nil {
		dataHash, err := cache.HashJSON(in)
		if err != nil {
			return nil, false, err
		}
		key = r.Keyer.ReportKey(cache.ReportKeyOpts{
			PlotIDs:    opts.PlotIDs,
			Iterations: opts.Iterations,
			Seed:       *opts.Seed,
			DataHash:   dataHash + fmt.Sprintf(":top%d", opts.TopSpecies),
		})
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				var report Report
				if err := json.Unmarshal(data, &report); err == nil {
					observability.Cache().OnCacheHit(ctx, keyTypeReport)
					r.Logger.Debug("report cache hit", "plots", len(opts.PlotIDs))
					return &report, true, nil
				}
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeReport)
	}

	hooks := observability.Analysis()
	hooks.OnAnalysisStart(ctx, len(opts.PlotIDs))
	start := time.Now()
	report, err := r.compute(ctx, opts, in)
	species := 0
	if report != nil {
		species = len(report.Species)
	}
	hooks.OnAnalysisComplete(ctx, len(opts.PlotIDs), species, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.Logger.Info("computed analysis",
		"plots", len(opts.PlotIDs),
		"trees", len(in.Trees),
		"species", species,
		"iterations", opts.Iterations,
		"duration", time.Since(start))

	if key != "" {
		if data, err := json.Marshal(report); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLReport); err != nil {
				r.Logger.Warn("report cache write failed", "error", err)
			} else {
				observability.Cache().OnCacheSet(ctx, keyTypeReport, len(data))
			}
		}
	}
	return report, false, nil
}

// Analyze is AnalyzeWithCacheInfo without the hit flag.
func (r *Runner) Analyze(ctx context.Context, opts AnalyzeOptions) (*Report, error) {
	report, _, err := r.AnalyzeWithCacheInfo(ctx, opts)
	return report, err
}

func (r *Runner) loadInput(ctx context.Context, plotIDs []string) (analysisInput, error) {
	var in analysisInput
	if len(plotIDs) == 0 {
		plots, err := r.Store.ListPlots(ctx)
		if err != nil {
			return in, err
		}
		in.Plots = plots
	} else {
		for _, id := range plotIDs {
			p, err := r.Store.GetPlot(ctx, id)
			if err != nil {
				return in, err
			}
			in.Plots = append(in.Plots, p)
		}
	}
	if len(in.Plots) == 0 {
		return in, nil
	}

	ids := make([]string, len(in.Plots))
	for i, p := range in.Plots {
		ids[i] = p.ID
	}

	var err error
	if in.Trees, err = r.Store.ListTrees(ctx, ids...); err != nil {
		return in, err
	}
	if in.Vegetation, err = r.Store.ListVegetation(ctx, ids...); err != nil {
		return in, err
	}
	for _, id := range ids {
		progress, err := r.Store.ListProgress(ctx, id)
		if err != nil {
			return in, err
		}
		in.Progress = append(in.Progress, progress...)
	}
	return in, nil
}

func (r *Runner) compute(ctx context.Context, opts AnalyzeOptions, in analysisInput) (*Report, error) {
	report := &Report{
		PlotIDs:     slices.Clone(opts.PlotIDs),
		Iterations:  opts.Iterations,
		Seed:        opts.Seed,
		Diversity:   ecology.Summarize(in.Trees),
		Vegetation:  ecology.SummarizeVegetation(in.Vegetation),
		Completion:  make(map[string]survey.CompletionSummary, len(in.Plots)),
		GeneratedAt: time.Now().UTC(),
	}

	var err error
	if report.Species, err = ecology.CommunityMetrics(in.Trees, len(in.Plots)); err != nil {
		return nil, err
	}

	var rng ecology.Shuffler
	if opts.Seed != nil {
		rng = ecology.NewSource(*opts.Seed)
	}
	if report.SAC, err = ecology.SACContext(ctx, in.Trees, opts.PlotIDs, opts.Iterations, rng); err != nil {
		return nil, err
	}

	report.SACSeries = chart.FromSAC(report.SAC)
	report.Lower, report.Upper = chart.Band(report.SACSeries)
	report.SACXAxis = chart.NiceAxis(0, float64(len(report.SAC)), chart.DefaultTicks)
	if lo, hi, ok := chart.Extent(report.SACSeries, report.Lower, report.Upper); ok {
		report.SACYAxis = chart.NiceAxis(min(lo, 0), hi, chart.DefaultTicks)
	} else {
		report.SACYAxis = chart.NiceAxis(0, 1, chart.DefaultTicks)
	}
	report.IVISeries, report.IVIAxis = chart.FromSpeciesStats(report.Species, opts.TopSpecies)

	byPlot := make(map[string][]survey.SamplingUnitProgress)
	for _, p := range in.Progress {
		byPlot[p.PlotID] = append(byPlot[p.PlotID], p)
	}
	for _, p := range in.Plots {
		root, _, err := r.layoutFor(ctx, p)
		if err != nil {
			return nil, err
		}
		report.Completion[p.ID] = survey.Completion(root, byPlot[p.ID])
	}
	return report, nil
}
