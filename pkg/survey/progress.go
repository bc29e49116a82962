package survey

import (
	"time"

	"github.com/matzehuels/plotkit/pkg/layout"
)

// ProgressStatus is the survey state of one sampling unit.
type ProgressStatus string

// Progress states.
const (
	NotStarted ProgressStatus = "NOT_STARTED"
	InProgress ProgressStatus = "IN_PROGRESS"
	Done       ProgressStatus = "DONE"
)

// Valid reports whether s is a known progress state.
func (s ProgressStatus) Valid() bool {
	switch s {
	case NotStarted, InProgress, Done:
		return true
	}
	return false
}

// SamplingUnitProgress records the survey state of one sampling unit.
type SamplingUnitProgress struct {
	PlotID         string         `json:"plot_id" bson:"plot_id"`
	SamplingUnitID string         `json:"sampling_unit_id" bson:"sampling_unit_id"`
	Status         ProgressStatus `json:"status" bson:"status"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
}

// Key returns the record key of the progress entry.
func (p SamplingUnitProgress) Key() string {
	return p.PlotID + "/" + p.SamplingUnitID
}

// CompletionSummary counts sampling units by progress state.
type CompletionSummary struct {
	Total      int     `json:"total"`
	NotStarted int     `json:"not_started"`
	InProgress int     `json:"in_progress"`
	Done       int     `json:"done"`
	Fraction   float64 `json:"fraction"`
}

// Completion summarizes progress over the sampling units of root. Units
// without a record count as not started; records for ids that are not
// sampling units of the layout are ignored.
func Completion(root *layout.Node, progress []SamplingUnitProgress) CompletionSummary {
	state := make(map[string]ProgressStatus, len(progress))
	for _, p := range progress {
		state[p.SamplingUnitID] = p.Status
	}

	var s CompletionSummary
	for u := range root.Leaves() {
		s.Total++
		switch state[u.ID] {
		case Done:
			s.Done++
		case InProgress:
			s.InProgress++
		default:
			s.NotStarted++
		}
	}
	if s.Total > 0 {
		s.Fraction = float64(s.Done) / float64(s.Total)
	}
	return s
}
