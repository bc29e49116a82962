package survey

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/plotkit/pkg/blueprint"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/layout"
)

// Status is the lifecycle state of a plot.
type Status string

// Plot statuses.
const (
	StatusPlanned    Status = "PLANNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Location is the GPS fix of the plot origin.
type Location struct {
	Latitude   float64 `json:"latitude" bson:"latitude"`
	Longitude  float64 `json:"longitude" bson:"longitude"`
	AccuracyM  float64 `json:"accuracy_m,omitempty" bson:"accuracy_m,omitempty"`
	ElevationM float64 `json:"elevation_m,omitempty" bson:"elevation_m,omitempty"`
}

// Plot is one physical plot laid out from a pinned blueprint version.
type Plot struct {
	ID               string    `json:"id" bson:"_id"`
	Name             string    `json:"name" bson:"name"`
	BlueprintID      string    `json:"blueprint_id" bson:"blueprint_id"`
	BlueprintVersion int       `json:"blueprint_version" bson:"blueprint_version"`
	Location         *Location `json:"location,omitempty" bson:"location,omitempty"`
	// RootDimensions overrides the blueprint root shape for this plot.
	RootDimensions *blueprint.Shape `json:"root_dimensions,omitempty" bson:"root_dimensions,omitempty"`
	Surveyors      []string         `json:"surveyors,omitempty" bson:"surveyors,omitempty"`
	SurveyDate     time.Time        `json:"survey_date,omitempty" bson:"survey_date,omitempty"`
	Status         Status           `json:"status" bson:"status"`
	Notes          string           `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" bson:"updated_at"`
}

// NewPlot returns a planned plot with a fresh id.
func NewPlot(name, blueprintID string, version int) Plot {
	now := time.Now().UTC()
	return Plot{
		ID:               uuid.NewString(),
		Name:             name,
		BlueprintID:      blueprintID,
		BlueprintVersion: version,
		Status:           StatusPlanned,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Validate checks the identifiers and status of the plot.
func (p Plot) Validate() error {
	if err := perrors.ValidateID("plot id", p.ID); err != nil {
		return err
	}
	if err := perrors.ValidateID("blueprint id", p.BlueprintID); err != nil {
		return err
	}
	if p.BlueprintVersion < 1 {
		return perrors.New(perrors.ErrCodeInvalidInput, "plot %s: blueprint version must be >= 1", p.ID)
	}
	if !p.Status.Valid() {
		return perrors.New(perrors.ErrCodeInvalidInput, "plot %s: unknown status %q", p.ID, p.Status)
	}
	if l := p.Location; l != nil {
		if l.Latitude < -90 || l.Latitude > 90 || l.Longitude < -180 || l.Longitude > 180 {
			return perrors.New(perrors.ErrCodeInvalidInput, "plot %s: location out of range", p.ID)
		}
	}
	return nil
}

// Blueprint resolves the exact blueprint version the plot was created with.
// It never falls back to a newer version.
func (p Plot) Blueprint(reg *blueprint.Registry) (blueprint.Blueprint, error) {
	return reg.Get(p.BlueprintID, p.BlueprintVersion)
}

// Overrides returns the layout overrides stored with the plot.
func (p Plot) Overrides() layout.Overrides {
	return layout.Overrides{RootDimensions: p.RootDimensions}
}

// Layout generates the committed layout of the plot from its pinned
// blueprint and stored overrides.
func (p Plot) Layout(reg *blueprint.Registry) (*layout.Node, error) {
	bp, err := p.Blueprint(reg)
	if err != nil {
		return nil, err
	}
	return layout.Generate(bp, p.Overrides(), p.ID)
}
