package ecology

import (
	"math"
	"strings"
	"time"

	perrors "github.com/matzehuels/plotkit/pkg/errors"
)

// Confidence is the surveyor's confidence in a species identification.
type Confidence string

// Confidence levels.
const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// Condition describes the health of an observed tree.
type Condition string

// Tree conditions.
const (
	ConditionAlive   Condition = "ALIVE"
	ConditionDamaged Condition = "DAMAGED"
	ConditionDead    Condition = "DEAD"
)

// Layer is the vertical stratum of a vegetation record.
type Layer string

// Vegetation layers.
const (
	LayerShrub  Layer = "SHRUB"
	LayerHerb   Layer = "HERB"
	LayerGround Layer = "GROUND"
)

// TreeObservation is one individual tree recorded in a sampling unit.
type TreeObservation struct {
	ID             string     `json:"id" bson:"_id"`
	PlotID         string     `json:"plot_id" bson:"plot_id"`
	SamplingUnitID string     `json:"sampling_unit_id" bson:"sampling_unit_id"`
	SpeciesName    string     `json:"species_name" bson:"species_name"`
	Unknown        bool       `json:"unknown,omitempty" bson:"unknown,omitempty"`
	Confidence     Confidence `json:"confidence,omitempty" bson:"confidence,omitempty"`
	// StemGBH holds the girth at breast height of each stem, in cm.
	StemGBH    []float64 `json:"stem_gbh" bson:"stem_gbh"`
	HeightM    float64   `json:"height_m,omitempty" bson:"height_m,omitempty"`
	Condition  Condition `json:"condition,omitempty" bson:"condition,omitempty"`
	Phenology  string    `json:"phenology,omitempty" bson:"phenology,omitempty"`
	RecordedAt time.Time `json:"recorded_at" bson:"recorded_at"`
}

// Known reports whether the observation counts toward species statistics.
func (t TreeObservation) Known() bool {
	return known(t.Unknown, t.SpeciesName)
}

// GBH returns the effective girth at breast height in cm.
func (t TreeObservation) GBH() float64 {
	return EffectiveGBH(t.StemGBH)
}

// BasalArea returns the basal area of the tree in square meters.
func (t TreeObservation) BasalArea() float64 {
	return BasalArea(t.GBH())
}

// Validate checks the measurements of the observation.
func (t TreeObservation) Validate() error {
	if t.Known() {
		if err := perrors.ValidateSpeciesName(t.SpeciesName); err != nil {
			return err
		}
	}
	for i, g := range t.StemGBH {
		if g < 0 || math.IsNaN(g) || math.IsInf(g, 0) {
			return perrors.New(perrors.ErrCodeInvalidInput, "tree %s: stem %d has invalid GBH %v", t.ID, i, g)
		}
	}
	if t.HeightM < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "tree %s: negative height %v", t.ID, t.HeightM)
	}
	return nil
}

// VegetationObservation records a non-tree species in a sampling unit.
type VegetationObservation struct {
	ID             string     `json:"id" bson:"_id"`
	PlotID         string     `json:"plot_id" bson:"plot_id"`
	SamplingUnitID string     `json:"sampling_unit_id" bson:"sampling_unit_id"`
	SpeciesName    string     `json:"species_name" bson:"species_name"`
	Unknown        bool       `json:"unknown,omitempty" bson:"unknown,omitempty"`
	Confidence     Confidence `json:"confidence,omitempty" bson:"confidence,omitempty"`
	CoverPercent   float64    `json:"cover_percent" bson:"cover_percent"`
	Abundance      int        `json:"abundance" bson:"abundance"`
	Layer          Layer      `json:"layer,omitempty" bson:"layer,omitempty"`
	RecordedAt     time.Time  `json:"recorded_at" bson:"recorded_at"`
}

// Known reports whether the observation counts toward species statistics.
func (v VegetationObservation) Known() bool {
	return known(v.Unknown, v.SpeciesName)
}

// Validate checks the cover and abundance of the observation.
func (v VegetationObservation) Validate() error {
	if v.Known() {
		if err := perrors.ValidateSpeciesName(v.SpeciesName); err != nil {
			return err
		}
	}
	if v.CoverPercent < 0 || v.CoverPercent > 100 || math.IsNaN(v.CoverPercent) {
		return perrors.New(perrors.ErrCodeInvalidInput, "vegetation %s: cover %v outside 0-100", v.ID, v.CoverPercent)
	}
	if v.Abundance < 0 {
		return perrors.New(perrors.ErrCodeInvalidInput, "vegetation %s: negative abundance %d", v.ID, v.Abundance)
	}
	return nil
}

func known(unknown bool, species string) bool {
	if unknown {
		return false
	}
	name := strings.TrimSpace(species)
	return name != "" && !strings.EqualFold(name, "unknown")
}

// EffectiveGBH reduces the stems of one individual to a single girth by
// root-sum-of-squares. A single stem returns its own GBH; no stems return 0.
func EffectiveGBH(stems []float64) float64 {
	switch len(stems) {
	case 0:
		return 0
	case 1:
		return stems[0]
	}
	var sum float64
	for _, g := range stems {
		sum += g * g
	}
	return math.Sqrt(sum)
}

// BasalArea converts a girth at breast height in cm to a cross-sectional
// area in m²: gbh² / (4π) / 10000.
func BasalArea(gbh float64) float64 {
	return gbh * gbh / (4 * math.Pi) / 10000
}
