package ecology

import (
	"math"
	"slices"

	perrors "github.com/matzehuels/plotkit/pkg/errors"
)

// Diversity summarizes the alpha diversity of an observation set.
type Diversity struct {
	Richness    int     `json:"richness"`
	Individuals int     `json:"individuals"`
	Shannon     float64 `json:"shannon"`
	Simpson     float64 `json:"simpson"`
	Evenness    float64 `json:"evenness"`
}

// Shannon returns the Shannon index H' = -Σ pᵢ ln pᵢ of per-species counts.
// Zero counts are skipped; empty input or a zero total yields 0.
func Shannon(counts []float64) (float64, error) {
	total, err := sumCounts(counts)
	if err != nil || total == 0 {
		return 0, err
	}
	var h float64
	for _, n := range counts {
		if n == 0 {
			continue
		}
		p := n / total
		h -= p * math.Log(p)
	}
	return h, nil
}

// Simpson returns the Gini-Simpson index 1 - Σ pᵢ², the probability that two
// random individuals belong to different species. Empty input yields 0.
func Simpson(counts []float64) (float64, error) {
	total, err := sumCounts(counts)
	if err != nil || total == 0 {
		return 0, err
	}
	var d float64
	for _, n := range counts {
		p := n / total
		d += p * p
	}
	return 1 - d, nil
}

// Evenness returns Pielou's J = H' / ln S for S species with non-zero
// counts. It is 0 when fewer than two species are present.
func Evenness(counts []float64) (float64, error) {
	h, err := Shannon(counts)
	if err != nil {
		return 0, err
	}
	s := 0
	for _, n := range counts {
		if n > 0 {
			s++
		}
	}
	if s < 2 {
		return 0, nil
	}
	return h / math.Log(float64(s)), nil
}

func sumCounts(counts []float64) (float64, error) {
	var total float64
	for i, n := range counts {
		if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, perrors.New(perrors.ErrCodeInvalidInput, "count %d is invalid: %v", i, n)
		}
		total += n
	}
	return total, nil
}

// SpeciesCounts tallies known trees per species.
func SpeciesCounts(trees []TreeObservation) map[string]int {
	counts := make(map[string]int)
	for _, t := range trees {
		if t.Known() {
			counts[t.SpeciesName]++
		}
	}
	return counts
}

// VegetationCounts sums the abundance of known vegetation records per species.
func VegetationCounts(veg []VegetationObservation) map[string]int {
	counts := make(map[string]int)
	for _, v := range veg {
		if v.Known() && v.Abundance > 0 {
			counts[v.SpeciesName] += v.Abundance
		}
	}
	return counts
}

// CountValues returns the counts ordered by species name, ready for
// [Shannon] and [Simpson].
func CountValues(counts map[string]int) []float64 {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.Sort(names)
	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = float64(counts[name])
	}
	return values
}

// Summarize computes richness and diversity indices of known trees.
func Summarize(trees []TreeObservation) Diversity {
	return summarize(SpeciesCounts(trees))
}

// SummarizeVegetation computes richness and diversity indices of known
// vegetation records weighted by abundance.
func SummarizeVegetation(veg []VegetationObservation) Diversity {
	return summarize(VegetationCounts(veg))
}

func summarize(counts map[string]int) Diversity {
	values := CountValues(counts)
	d := Diversity{Richness: len(counts)}
	for _, n := range counts {
		d.Individuals += n
	}
	// Counts built from tallies are never negative.
	d.Shannon, _ = Shannon(values)
	d.Simpson, _ = Simpson(values)
	d.Evenness, _ = Evenness(values)
	return d
}
