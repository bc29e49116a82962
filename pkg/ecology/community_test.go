package ecology

import (
	"math"
	"testing"

	perrors "github.com/matzehuels/plotkit/pkg/errors"
)

func communityTrees() []TreeObservation {
	return []TreeObservation{
		tree("p1", "Shorea robusta", 120),
		tree("p1", "Shorea robusta", 90, 40),
		tree("p2", "Shorea robusta", 75),
		tree("p1", "Tectona grandis", 60),
		tree("p3", "Tectona grandis", 50),
		tree("p3", "Terminalia alata", 30),
		tree("p2", "unknown", 200),
	}
}

func TestCommunityMetricsRelativeSums(t *testing.T) {
	stats, err := CommunityMetrics(communityTrees(), 3)
	if err != nil {
		t.Fatalf("CommunityMetrics() error: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("species = %d, want 3", len(stats))
	}
	var ra, rb, rf, ivi float64
	for _, s := range stats {
		ra += s.RelativeAbundance
		rb += s.RelativeBasalArea
		rf += s.RelativeFrequency
		ivi += s.IVI
		if math.Abs(s.IVI-(s.RelativeAbundance+s.RelativeBasalArea+s.RelativeFrequency)) > eps {
			t.Errorf("%s: IVI is not the sum of relative values", s.Species)
		}
	}
	for name, sum := range map[string]float64{"abundance": ra, "basal area": rb, "frequency": rf} {
		if math.Abs(sum-100) > 1e-9 {
			t.Errorf("relative %s sums to %v, want 100", name, sum)
		}
	}
	if math.Abs(ivi-300) > 1e-9 {
		t.Errorf("IVI sums to %v, want 300", ivi)
	}
}

func TestCommunityMetricsValues(t *testing.T) {
	stats, _ := CommunityMetrics(communityTrees(), 4)
	top := stats[0]
	if top.Species != "Shorea robusta" {
		t.Fatalf("top species = %q, want Shorea robusta", top.Species)
	}
	if top.Abundance != 3 || top.Plots != 2 {
		t.Errorf("Shorea: abundance=%d plots=%d, want 3 and 2", top.Abundance, top.Plots)
	}
	if top.Frequency != 50 {
		t.Errorf("Shorea frequency = %v, want 50", top.Frequency)
	}
	wantBasal := BasalArea(120) + BasalArea(EffectiveGBH([]float64{90, 40})) + BasalArea(75)
	if math.Abs(top.BasalArea-wantBasal) > 1e-12 {
		t.Errorf("Shorea basal area = %v, want %v", top.BasalArea, wantBasal)
	}
	if math.Abs(top.RelativeAbundance-50) > eps {
		t.Errorf("Shorea relative abundance = %v, want 50", top.RelativeAbundance)
	}
	for i := 1; i < len(stats); i++ {
		if stats[i].IVI > stats[i-1].IVI {
			t.Errorf("stats not sorted by IVI at %d", i)
		}
	}
}

func TestCommunityMetricsTieBreak(t *testing.T) {
	trees := []TreeObservation{
		tree("p1", "b", 10),
		tree("p1", "a", 10),
	}
	stats, err := CommunityMetrics(trees, 1)
	if err != nil {
		t.Fatalf("CommunityMetrics() error: %v", err)
	}
	if stats[0].Species != "a" || stats[1].Species != "b" {
		t.Errorf("tie order = %s, %s; want a, b", stats[0].Species, stats[1].Species)
	}
}

func TestCommunityMetricsZeroDenominators(t *testing.T) {
	tests := []struct {
		name      string
		trees     []TreeObservation
		plotCount int
	}{
		{"zero plot count", []TreeObservation{tree("p1", "a", 10)}, 0},
		{"no basal area", []TreeObservation{tree("p1", "a"), tree("p1", "b")}, 1},
		{"only unknown", []TreeObservation{tree("p1", "unknown", 10)}, 1},
		{"empty", nil, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := CommunityMetrics(tt.trees, tt.plotCount)
			if err != nil {
				t.Fatalf("CommunityMetrics() error: %v", err)
			}
			for _, s := range stats {
				for _, v := range []float64{s.Frequency, s.RelativeAbundance, s.RelativeBasalArea, s.RelativeFrequency, s.IVI} {
					if math.IsNaN(v) || math.IsInf(v, 0) {
						t.Errorf("%s: non-finite value in %+v", s.Species, s)
					}
				}
			}
		})
	}

	stats, _ := CommunityMetrics([]TreeObservation{tree("p1", "a", 10)}, 0)
	if stats[0].Frequency != 0 || stats[0].RelativeFrequency != 0 {
		t.Errorf("zero plot count should give zero frequency, got %+v", stats[0])
	}
}

func TestCommunityMetricsErrors(t *testing.T) {
	if _, err := CommunityMetrics(nil, -1); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("negative plot count error = %v", err)
	}
	if _, err := CommunityMetrics([]TreeObservation{tree("p1", "a", -5)}, 1); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("negative GBH error = %v", err)
	}
}
