package ecology

import (
	"math"
	"testing"

	perrors "github.com/matzehuels/plotkit/pkg/errors"
)

const eps = 1e-9

func tree(plot, species string, gbh ...float64) TreeObservation {
	return TreeObservation{PlotID: plot, SamplingUnitID: plot + "-u1", SpeciesName: species, StemGBH: gbh}
}

func TestShannon(t *testing.T) {
	tests := []struct {
		name   string
		counts []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single species", []float64{10}, 0},
		{"two equal", []float64{5, 5}, math.Ln2},
		{"zero skipped", []float64{5, 0, 5}, math.Ln2},
		{"all zero", []float64{0, 0}, 0},
		{"four equal", []float64{1, 1, 1, 1}, math.Log(4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Shannon(tt.counts)
			if err != nil {
				t.Fatalf("Shannon() error: %v", err)
			}
			if math.Abs(got-tt.want) > eps {
				t.Errorf("Shannon(%v) = %v, want %v", tt.counts, got, tt.want)
			}
		})
	}
}

func TestSimpson(t *testing.T) {
	tests := []struct {
		name   string
		counts []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single species", []float64{10}, 0},
		{"two equal", []float64{5, 5}, 0.5},
		{"four equal", []float64{2, 2, 2, 2}, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Simpson(tt.counts)
			if err != nil {
				t.Fatalf("Simpson() error: %v", err)
			}
			if math.Abs(got-tt.want) > eps {
				t.Errorf("Simpson(%v) = %v, want %v", tt.counts, got, tt.want)
			}
		})
	}
}

func TestIndicesRejectNegativeCounts(t *testing.T) {
	counts := []float64{3, -1}
	if _, err := Shannon(counts); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("Shannon() error = %v, want INVALID_INPUT", err)
	}
	if _, err := Simpson(counts); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("Simpson() error = %v, want INVALID_INPUT", err)
	}
	if _, err := Evenness([]float64{math.NaN()}); err == nil {
		t.Error("Evenness() accepted NaN")
	}
}

func TestEvenness(t *testing.T) {
	got, _ := Evenness([]float64{4, 4, 4})
	if math.Abs(got-1) > eps {
		t.Errorf("Evenness(equal) = %v, want 1", got)
	}
	got, _ = Evenness([]float64{7})
	if got != 0 {
		t.Errorf("Evenness(single) = %v, want 0", got)
	}
}

func TestSummarize(t *testing.T) {
	trees := []TreeObservation{
		tree("p1", "Shorea robusta", 100),
		tree("p1", "Shorea robusta", 80),
		tree("p1", "Tectona grandis", 60),
		tree("p2", "Tectona grandis", 60),
		tree("p2", "unknown", 40),
		{PlotID: "p2", SpeciesName: "Ficus sp.", Unknown: true},
	}
	d := Summarize(trees)
	if d.Richness != 2 || d.Individuals != 4 {
		t.Errorf("Summarize() richness=%d individuals=%d, want 2 and 4", d.Richness, d.Individuals)
	}
	if math.Abs(d.Shannon-math.Ln2) > eps || math.Abs(d.Simpson-0.5) > eps || math.Abs(d.Evenness-1) > eps {
		t.Errorf("Summarize() = %+v", d)
	}
}

func TestSummarizeVegetation(t *testing.T) {
	veg := []VegetationObservation{
		{SpeciesName: "Imperata cylindrica", Abundance: 9},
		{SpeciesName: "Lantana camara", Abundance: 1},
		{SpeciesName: "Lantana camara", Abundance: 0},
		{SpeciesName: "moss", Unknown: true, Abundance: 40},
	}
	d := SummarizeVegetation(veg)
	if d.Richness != 2 || d.Individuals != 10 {
		t.Errorf("SummarizeVegetation() = %+v", d)
	}
	if math.Abs(d.Simpson-(1-0.81-0.01)) > eps {
		t.Errorf("Simpson = %v, want 0.18", d.Simpson)
	}
}

func TestEffectiveGBH(t *testing.T) {
	tests := []struct {
		stems []float64
		want  float64
	}{
		{nil, 0},
		{[]float64{31.4}, 31.4},
		{[]float64{30, 40}, 50},
	}
	for _, tt := range tests {
		if got := EffectiveGBH(tt.stems); math.Abs(got-tt.want) > eps {
			t.Errorf("EffectiveGBH(%v) = %v, want %v", tt.stems, got, tt.want)
		}
	}
}

func TestBasalArea(t *testing.T) {
	got := BasalArea(31.4)
	want := 31.4 * 31.4 / (4 * math.Pi) / 10000
	if got != want {
		t.Errorf("BasalArea(31.4) = %v, want %v", got, want)
	}
	// 31.4 cm girth is a 10 cm diameter stem: 78.54 cm².
	if math.Abs(got-0.007846) > 1e-6 {
		t.Errorf("BasalArea(31.4) = %v, want about 0.007846", got)
	}

	// Circumference to radius, then πr².
	r := 31.4 / (2 * math.Pi) / 100
	if math.Abs(got-math.Pi*r*r) > 1e-15 {
		t.Errorf("BasalArea disagrees with πr²: %v vs %v", got, math.Pi*r*r)
	}
}

func TestObservationValidate(t *testing.T) {
	tests := []struct {
		name    string
		obs     interface{ Validate() error }
		wantErr bool
	}{
		{"valid tree", tree("p", "Shorea robusta", 20, 30), false},
		{"negative gbh", tree("p", "Shorea robusta", -1), true},
		{"negative height", TreeObservation{SpeciesName: "a", HeightM: -2}, true},
		{"unknown tree without name", TreeObservation{Unknown: true}, false},
		{"valid vegetation", VegetationObservation{SpeciesName: "Lantana camara", CoverPercent: 30, Abundance: 4}, false},
		{"cover above 100", VegetationObservation{SpeciesName: "x", CoverPercent: 120}, true},
		{"negative abundance", VegetationObservation{SpeciesName: "x", Abundance: -3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.obs.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
