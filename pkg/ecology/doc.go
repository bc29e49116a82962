// Package ecology computes biodiversity statistics from field observations.
//
// # Overview
//
// All functions in this package are pure: they take fully materialized
// observation slices and return fully materialized results, without I/O or
// retained state. Callers fetch records from a store first and hand them in.
//
// # Observations
//
// [TreeObservation] records one individual tree in a sampling unit, with
// one girth-at-breast-height (GBH) measurement per stem. Multi-stemmed
// trees are reduced to a single effective GBH by root-sum-of-squares (see
// [EffectiveGBH]); every basal area computation in the package uses that
// rule. [VegetationObservation] records cover and abundance for
// non-tree layers.
//
// Observations flagged as unknown (or with no species name) are excluded
// from every statistic.
//
// # Diversity
//
// [Shannon] and [Simpson] operate on per-species counts:
//
//	h, _ := ecology.Shannon([]float64{5, 5}) // ln 2
//	d, _ := ecology.Simpson([]float64{5, 5}) // 0.5
//
// [Summarize] applies both to a tree list together with richness and
// Pielou evenness.
//
// # Community Metrics
//
// [CommunityMetrics] produces per-species abundance, basal area, frequency
// and the Importance Value Index (IVI), the sum of relative abundance,
// relative basal area and relative frequency (maximum 300). Zero totals
// produce zero ratios, never NaN.
//
// # Species Accumulation
//
// [SAC] estimates the species accumulation curve by averaging cumulative
// richness over random permutations of the plot order. The random source is
// injected through the [Shuffler] interface, so a seeded generator from
// [NewSource] pins the output:
//
//	points, err := ecology.SAC(trees, plotIDs, 100, ecology.NewSource(42))
//
// Each [SACPoint] carries the mean richness and the population standard
// deviation; [SACPoint.Interval] returns the symmetric 95% band
// richness ± 1.96·sd that chart consumers display.
package ecology
