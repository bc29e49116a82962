// Package chart prepares analysis output for plotting.
//
// The package does not draw anything. It sanitizes series points, picks
// axis bounds on "nice" numbers (1, 2 or 5 times a power of ten) and derives
// the 95% confidence band of species accumulation curves, so that any
// front end draws the same picture:
//
//	s := chart.FromSAC(points)
//	lower, upper := chart.Band(s)
//	lo, hi, _ := chart.Extent(lower, upper)
//	y := chart.NiceAxis(lo, hi, 6)
//
// The band is y ± 1.96·sd per point ([Z95]).
package chart
