package ecology

import (
	"context"
	"math"
	"math/rand/v2"

	perrors "github.com/matzehuels/plotkit/pkg/errors"
)

const (
	// DefaultIterations is the number of permutations used when the caller
	// does not choose one.
	DefaultIterations = 50

	// MaxIterations caps the permutation count.
	MaxIterations = 10000

	// Z95 is the normal quantile of a symmetric 95% interval.
	Z95 = 1.96

	// cancelCheckSteps is the plot-permutation workload above which
	// SACContext polls the context between permutations.
	cancelCheckSteps = 10000
)

// Shuffler permutes n elements through swap. *math/rand/v2.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewSource returns a PCG generator seeded from seed. Equal seeds produce
// equal accumulation curves.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// SACPoint is the mean richness after sampling PlotsSampled plots.
type SACPoint struct {
	PlotsSampled int     `json:"plots_sampled"`
	Richness     float64 `json:"richness"`
	SD           float64 `json:"sd"`
}

// Interval returns the 95% band richness ± 1.96·sd.
func (p SACPoint) Interval() (lower, upper float64) {
	return p.Richness - Z95*p.SD, p.Richness + Z95*p.SD
}

// SAC estimates the species accumulation curve over plotIDs by averaging
// cumulative richness across iterations random permutations of the plot
// order. A nil rng uses an entropy-seeded generator.
//
// The result has one point per plot, ordered by PlotsSampled from 1. Mean
// and population standard deviation are rounded to two decimals.
func SAC(trees []TreeObservation, plotIDs []string, iterations int, rng Shuffler) ([]SACPoint, error) {
	return SACContext(context.Background(), trees, plotIDs, iterations, rng)
}

// SACContext is [SAC] with cancellation. For large workloads the context is
// checked between permutations.
func SACContext(ctx context.Context, trees []TreeObservation, plotIDs []string, iterations int, rng Shuffler) ([]SACPoint, error) {
	if iterations <= 0 || iterations > MaxIterations {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "iterations must be between 1 and %d (got %d)", MaxIterations, iterations)
	}
	n := len(plotIDs)
	if n == 0 {
		return []SACPoint{}, nil
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	species := plotSpecies(trees, plotIDs)
	checkCtx := n*iterations > cancelCheckSteps

	// Welford accumulators per depth.
	mean := make([]float64, n)
	m2 := make([]float64, n)
	order := make([]int, n)
	seen := make(map[string]struct{})

	for it := 1; it <= iterations; it++ {
		if checkCtx {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for i := range order {
			order[i] = i
		}
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

		clear(seen)
		for depth, idx := range order {
			for _, s := range species[idx] {
				seen[s] = struct{}{}
			}
			r := float64(len(seen))
			delta := r - mean[depth]
			mean[depth] += delta / float64(it)
			m2[depth] += delta * (r - mean[depth])
		}
	}

	points := make([]SACPoint, n)
	for d := range points {
		variance := m2[d] / float64(iterations)
		if variance < 0 {
			variance = 0
		}
		points[d] = SACPoint{
			PlotsSampled: d + 1,
			Richness:     round2(mean[d]),
			SD:           round2(math.Sqrt(variance)),
		}
	}
	return points, nil
}

// plotSpecies returns the distinct known species of each plot, indexed like
// plotIDs.
func plotSpecies(trees []TreeObservation, plotIDs []string) [][]string {
	sets := make(map[string]map[string]struct{}, len(plotIDs))
	for _, id := range plotIDs {
		sets[id] = make(map[string]struct{})
	}
	for _, t := range trees {
		set, ok := sets[t.PlotID]
		if !ok || !t.Known() {
			continue
		}
		set[t.SpeciesName] = struct{}{}
	}
	out := make([][]string, len(plotIDs))
	for i, id := range plotIDs {
		for s := range sets[id] {
			out[i] = append(out[i], s)
		}
	}
	return out
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
