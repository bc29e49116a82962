package chart

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/plotkit/pkg/ecology"
)

func tickValues(a Axis) []float64 {
	out := make([]float64, len(a.Ticks))
	for i, t := range a.Ticks {
		out[i] = t.Value
	}
	return out
}

func TestNiceAxis(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		ticks    int
		want     []float64
		step     float64
	}{
		{"zero based", 0, 9.3, 5, []float64{0, 2, 4, 6, 8, 10}, 2},
		{"richness", 1.2, 7.8, 6, []float64{0, 2, 4, 6, 8}, 2},
		{"fractional", 0.12, 0.47, 5, []float64{0.1, 0.2, 0.3, 0.4, 0.5}, 0.1},
		{"swapped", 9.3, 0, 5, []float64{0, 2, 4, 6, 8, 10}, 2},
		{"degenerate", 3, 3, 5, []float64{2, 2.5, 3, 3.5, 4}, 0.5},
		{"degenerate zero", 0, 0, 5, []float64{-0.2, -0.1, 0, 0.1, 0.2}, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NiceAxis(tt.min, tt.max, tt.ticks)
			if math.Abs(a.Step-tt.step) > 1e-12 {
				t.Errorf("step = %v, want %v", a.Step, tt.step)
			}
			if got := tickValues(a); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ticks = %v, want %v", got, tt.want)
			}
			lo, hi := math.Min(tt.min, tt.max), math.Max(tt.min, tt.max)
			if a.Min > lo || a.Max < hi {
				t.Errorf("axis [%v, %v] does not cover [%v, %v]", a.Min, a.Max, lo, hi)
			}
		})
	}
}

func TestNiceAxisNonFinite(t *testing.T) {
	a := NiceAxis(math.NaN(), math.Inf(1), 0)
	if a.Min != 0 || a.Max != 1 {
		t.Errorf("NiceAxis(NaN, Inf) = [%v, %v], want [0, 1]", a.Min, a.Max)
	}
}

func TestSanitize(t *testing.T) {
	in := []Point{
		{X: 3, Y: 1},
		{X: 1, Y: 5},
		{X: math.NaN(), Y: 2},
		{X: 2, Y: math.Inf(1)},
		{X: 3, Y: 9, Meta: Meta{SD: -1}},
		{X: 0, Y: 0, Meta: Meta{SD: math.NaN()}},
	}
	want := []Point{
		{X: 0, Y: 0},
		{X: 1, Y: 5},
		{X: 3, Y: 9},
	}
	got := Sanitize(in)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sanitize() = %v, want %v", got, want)
	}
	if in[0].X != 3 {
		t.Error("Sanitize() modified its input")
	}
}

func TestFromSACAndBand(t *testing.T) {
	s := FromSAC([]ecology.SACPoint{
		{PlotsSampled: 1, Richness: 2, SD: 0},
		{PlotsSampled: 2, Richness: 3.5, SD: 0.5},
	})
	if len(s.Points) != 2 || s.Points[1].Meta.SD != 0.5 {
		t.Fatalf("FromSAC() = %+v", s)
	}
	lower, upper := Band(s)
	if lower.Points[0].Y != 2 || upper.Points[0].Y != 2 {
		t.Errorf("zero sd band = [%v, %v], want [2, 2]", lower.Points[0].Y, upper.Points[0].Y)
	}
	if math.Abs(lower.Points[1].Y-(3.5-0.98)) > 1e-12 || math.Abs(upper.Points[1].Y-(3.5+0.98)) > 1e-12 {
		t.Errorf("band = [%v, %v]", lower.Points[1].Y, upper.Points[1].Y)
	}

	lo, hi, ok := Extent(lower, upper)
	if !ok || lo != 2 || math.Abs(hi-4.48) > 1e-12 {
		t.Errorf("Extent() = %v, %v, %v", lo, hi, ok)
	}
	if _, _, ok := Extent(Series{}); ok {
		t.Error("Extent() of empty series reported ok")
	}
}

func TestFromSpeciesStats(t *testing.T) {
	stats := []ecology.SpeciesStats{
		{Species: "a", IVI: 150},
		{Species: "b", IVI: 100},
		{Species: "c", IVI: 50},
	}
	s, axis := FromSpeciesStats(stats, 2)
	if len(s.Points) != 2 || s.Points[1].Y != 100 {
		t.Errorf("series = %+v", s)
	}
	if !reflect.DeepEqual(axis.Categories, []string{"a", "b"}) || axis.Ticks[1].Label != "b" || axis.Max != 1 {
		t.Errorf("axis = %+v", axis)
	}
}
