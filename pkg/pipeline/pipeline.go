// Package pipeline connects the record store to layout generation and
// ecological analysis.
//
// This package is shared by the CLI and the HTTP API so both entry points
// resolve blueprints, cache layouts and compute reports the same way.
//
// # Stages
//
//  1. Layout: resolve the plot's pinned blueprint and generate its committed
//     layout, honouring the plot's stored root override.
//  2. Analysis: load observations for a set of plots and compute diversity,
//     importance values, the species accumulation curve and chart series.
//  3. Render: hand a layout to Graphviz for an SVG map of the plot.
//
// Layouts are always cacheable because committed generation is
// deterministic. Reports are cached only when the caller fixes the SAC
// seed, since an entropy-seeded curve differs on every run.
//
// # Usage
//
//	runner := pipeline.NewRunner(st, c, nil, reg, logger)
//	root, err := runner.PlotLayout(ctx, plotID)
//
//	seed := uint64(7)
//	report, err := runner.Analyze(ctx, pipeline.AnalyzeOptions{
//	    PlotIDs: []string{"p1", "p2"},
//	    Seed:    &seed,
//	})
package pipeline

import (
	"slices"
	"time"

	"github.com/matzehuels/plotkit/pkg/chart"
	"github.com/matzehuels/plotkit/pkg/ecology"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/survey"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultIterations is the SAC permutation count when none is given.
	DefaultIterations = ecology.DefaultIterations

	// DefaultTopSpecies is how many species the IVI chart shows.
	DefaultTopSpecies = 10
)

// =============================================================================
// Options - Analysis Configuration
// =============================================================================

// AnalyzeOptions configures an analysis run.
// This struct supports JSON serialization for API requests.
type AnalyzeOptions struct {
	// PlotIDs selects the plots to analyse. Empty means every stored plot.
	PlotIDs []string `json:"plot_ids,omitempty"`

	// Iterations is the number of SAC permutations.
	Iterations int `json:"iterations,omitempty"`

	// Seed fixes the SAC random source. Nil draws from entropy and disables
	// report caching.
	Seed *uint64 `json:"seed,omitempty"`

	// TopSpecies limits the IVI chart series.
	TopSpecies int `json:"top_species,omitempty"`

	// Refresh bypasses the report cache.
	Refresh bool `json:"refresh,omitempty"`
}

// ValidateAndSetDefaults fills zero values and rejects out-of-range input.
func (o *AnalyzeOptions) ValidateAndSetDefaults() error {
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Iterations < 0 || o.Iterations > ecology.MaxIterations {
		return perrors.New(perrors.ErrCodeInvalidInput,
			"iterations must be between 1 and %d, got %d", ecology.MaxIterations, o.Iterations)
	}
	if o.TopSpecies == 0 {
		o.TopSpecies = DefaultTopSpecies
	}
	if o.TopSpecies < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "top species must be positive, got %d", o.TopSpecies)
	}

	ids := make([]string, 0, len(o.PlotIDs))
	for _, id := range o.PlotIDs {
		if err := perrors.ValidateID("plot id", id); err != nil {
			return err
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	o.PlotIDs = ids
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Report is the result of an analysis run.
type Report struct {
	PlotIDs    []string `json:"plot_ids"`
	Iterations int      `json:"iterations"`
	Seed       *uint64  `json:"seed,omitempty"`

	// Diversity summarises the tree layer; Vegetation the herb and shrub
	// records weighted by abundance.
	Diversity  ecology.Diversity      `json:"diversity"`
	Vegetation ecology.Diversity      `json:"vegetation"`
	Species    []ecology.SpeciesStats `json:"species"`
	SAC        []ecology.SACPoint     `json:"sac"`

	// Chart-ready series.
	SACSeries chart.Series `json:"sac_series"`
	Lower     chart.Series `json:"sac_lower"`
	Upper     chart.Series `json:"sac_upper"`
	SACXAxis  chart.Axis   `json:"sac_x_axis"`
	SACYAxis  chart.Axis   `json:"sac_y_axis"`
	IVISeries chart.Series `json:"ivi_series"`
	IVIAxis   chart.Axis   `json:"ivi_axis"`

	// Completion is keyed by plot id.
	Completion map[string]survey.CompletionSummary `json:"completion"`

	GeneratedAt time.Time `json:"generated_at"`
}

// CacheInfo tracks which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	ReportHit bool
}
