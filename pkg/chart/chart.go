package chart

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/matzehuels/plotkit/pkg/ecology"
)

// Z95 is the normal quantile used for the symmetric 95% band.
const Z95 = ecology.Z95

// Meta carries per-point uncertainty.
type Meta struct {
	SD float64 `json:"sd"`
}

// Point is one series point.
type Point struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Meta Meta    `json:"meta"`
}

// Series is a named list of points.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Sanitize drops points with non-finite coordinates, sorts the rest by X and
// collapses duplicate X values, keeping the last occurrence. Invalid standard
// deviations are reset to 0. The input is not modified.
func Sanitize(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		if !finite(p.Meta.SD) || p.Meta.SD < 0 {
			p.Meta.SD = 0
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b Point) int { return cmp.Compare(a.X, b.X) })

	deduped := out[:0]
	for i, p := range out {
		if i+1 < len(out) && out[i+1].X == p.X {
			continue
		}
		deduped = append(deduped, p)
	}
	return deduped
}

// FromSAC converts accumulation curve points to a series with X = plots
// sampled, Y = mean richness and Meta.SD = standard deviation.
func FromSAC(points []ecology.SACPoint) Series {
	s := Series{Name: "richness", Points: make([]Point, len(points))}
	for i, p := range points {
		s.Points[i] = Point{X: float64(p.PlotsSampled), Y: p.Richness, Meta: Meta{SD: p.SD}}
	}
	s.Points = Sanitize(s.Points)
	return s
}

// Band returns the lower and upper bounds y ∓ 1.96·sd of a series.
func Band(s Series) (lower, upper Series) {
	lower = Series{Name: s.Name + " (lower 95%)", Points: make([]Point, len(s.Points))}
	upper = Series{Name: s.Name + " (upper 95%)", Points: make([]Point, len(s.Points))}
	for i, p := range s.Points {
		d := Z95 * p.Meta.SD
		lower.Points[i] = Point{X: p.X, Y: p.Y - d}
		upper.Points[i] = Point{X: p.X, Y: p.Y + d}
	}
	return lower, upper
}

// FromSpeciesStats returns the IVI of the top species as a categorical
// series together with its axis. top <= 0 keeps every species.
func FromSpeciesStats(stats []ecology.SpeciesStats, top int) (Series, Axis) {
	if top > 0 && top < len(stats) {
		stats = stats[:top]
	}
	s := Series{Name: "IVI", Points: make([]Point, len(stats))}
	labels := make([]string, len(stats))
	for i, st := range stats {
		s.Points[i] = Point{X: float64(i), Y: st.IVI}
		labels[i] = st.Species
	}
	return s, CategoricalAxis(labels)
}

// Extent returns the Y range spanned by all points of the given series.
// ok is false when no point is finite.
func Extent(series ...Series) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			if !finite(p.Y) {
				continue
			}
			min = math.Min(min, p.Y)
			max = math.Max(max, p.Y)
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
