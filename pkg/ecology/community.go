package ecology

import (
	"cmp"
	"slices"

	perrors "github.com/matzehuels/plotkit/pkg/errors"
)

// SpeciesStats holds the community metrics of one species.
type SpeciesStats struct {
	Species   string  `json:"species"`
	Abundance int     `json:"abundance"`
	BasalArea float64 `json:"basal_area"` // m²
	Plots     int     `json:"plots"`
	Frequency float64 `json:"frequency"` // % of plots

	RelativeAbundance float64 `json:"relative_abundance"`
	RelativeBasalArea float64 `json:"relative_basal_area"`
	RelativeFrequency float64 `json:"relative_frequency"`
	IVI               float64 `json:"ivi"`
}

// CommunityMetrics computes per-species abundance, basal area, frequency and
// Importance Value Index over known trees. plotCount is the number of plots
// surveyed, including plots where no tree was recorded.
//
// Results are sorted by IVI descending, then abundance descending, then
// species name. Zero totals resolve to zero ratios.
func CommunityMetrics(trees []TreeObservation, plotCount int) ([]SpeciesStats, error) {
	if plotCount < 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "plot count must be >= 0 (got %d)", plotCount)
	}

	type acc struct {
		stats SpeciesStats
		plots map[string]struct{}
	}
	bySpecies := make(map[string]*acc)
	for _, t := range trees {
		if !t.Known() {
			continue
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		a, ok := bySpecies[t.SpeciesName]
		if !ok {
			a = &acc{stats: SpeciesStats{Species: t.SpeciesName}, plots: make(map[string]struct{})}
			bySpecies[t.SpeciesName] = a
		}
		a.stats.Abundance++
		a.stats.BasalArea += t.BasalArea()
		a.plots[t.PlotID] = struct{}{}
	}

	stats := make([]SpeciesStats, 0, len(bySpecies))
	var totalAbundance, totalBasal, totalFrequency float64
	for _, a := range bySpecies {
		s := a.stats
		s.Plots = len(a.plots)
		s.Frequency = ratio(float64(s.Plots), float64(plotCount))
		totalAbundance += float64(s.Abundance)
		totalBasal += s.BasalArea
		totalFrequency += s.Frequency
		stats = append(stats, s)
	}

	for i := range stats {
		s := &stats[i]
		s.RelativeAbundance = ratio(float64(s.Abundance), totalAbundance)
		s.RelativeBasalArea = ratio(s.BasalArea, totalBasal)
		s.RelativeFrequency = ratio(s.Frequency, totalFrequency)
		s.IVI = s.RelativeAbundance + s.RelativeBasalArea + s.RelativeFrequency
	}

	slices.SortFunc(stats, func(a, b SpeciesStats) int {
		if c := cmp.Compare(b.IVI, a.IVI); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Abundance, a.Abundance); c != 0 {
			return c
		}
		return cmp.Compare(a.Species, b.Species)
	})
	return stats, nil
}

// ratio returns part/total as a percentage, or 0 when total is 0.
func ratio(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
