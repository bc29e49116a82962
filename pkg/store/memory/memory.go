// Package memory implements an in-process record store.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/plotkit/pkg/ecology"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/survey"
)

// Store keeps every record in maps. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	plots      map[string]survey.Plot
	trees      map[string]ecology.TreeObservation
	vegetation map[string]ecology.VegetationObservation
	progress   map[string]survey.SamplingUnitProgress
}

// New returns an empty store.
func New() *Store {
	return &Store{
		plots:      make(map[string]survey.Plot),
		trees:      make(map[string]ecology.TreeObservation),
		vegetation: make(map[string]ecology.VegetationObservation),
		progress:   make(map[string]survey.SamplingUnitProgress),
	}
}

// PutPlot inserts or replaces a plot.
func (s *Store) PutPlot(_ context.Context, p survey.Plot) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.Surveyors = slices.Clone(p.Surveyors)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plots[p.ID] = p
	return nil
}

// GetPlot returns the plot with the given id.
func (s *Store) GetPlot(_ context.Context, id string) (survey.Plot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plots[id]
	if !ok {
		return survey.Plot{}, perrors.New(perrors.ErrCodePlotNotFound, "plot %s not found", id)
	}
	return p, nil
}

// ListPlots returns all plots ordered by creation time, then id.
func (s *Store) ListPlots(_ context.Context) ([]survey.Plot, error) {
	s.mu.RLock()
	out := make([]survey.Plot, 0, len(s.plots))
	for _, p := range s.plots {
		out = append(out, p)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b survey.Plot) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// DeletePlot removes a plot and everything recorded against it.
func (s *Store) DeletePlot(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plots[id]; !ok {
		return perrors.New(perrors.ErrCodePlotNotFound, "plot %s not found", id)
	}
	delete(s.plots, id)
	for k, t := range s.trees {
		if t.PlotID == id {
			delete(s.trees, k)
		}
	}
	for k, v := range s.vegetation {
		if v.PlotID == id {
			delete(s.vegetation, k)
		}
	}
	for k, p := range s.progress {
		if p.PlotID == id {
			delete(s.progress, k)
		}
	}
	return nil
}

// PutTree inserts or replaces a tree observation.
func (s *Store) PutTree(_ context.Context, t ecology.TreeObservation) error {
	if err := perrors.ValidateID("observation id", t.ID); err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}
	t.StemGBH = slices.Clone(t.StemGBH)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePlot(t.PlotID); err != nil {
		return err
	}
	s.trees[t.ID] = t
	return nil
}

// ListTrees returns the trees of the given plots, or all trees.
func (s *Store) ListTrees(_ context.Context, plotIDs ...string) ([]ecology.TreeObservation, error) {
	want := idSet(plotIDs)
	s.mu.RLock()
	var out []ecology.TreeObservation
	for _, t := range s.trees {
		if want == nil || want[t.PlotID] {
			out = append(out, t)
		}
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b ecology.TreeObservation) int {
		return cmp.Or(cmp.Compare(a.PlotID, b.PlotID), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// PutVegetation inserts or replaces a vegetation observation.
func (s *Store) PutVegetation(_ context.Context, v ecology.VegetationObservation) error {
	if err := perrors.ValidateID("observation id", v.ID); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePlot(v.PlotID); err != nil {
		return err
	}
	s.vegetation[v.ID] = v
	return nil
}

// ListVegetation returns the vegetation records of the given plots, or all.
func (s *Store) ListVegetation(_ context.Context, plotIDs ...string) ([]ecology.VegetationObservation, error) {
	want := idSet(plotIDs)
	s.mu.RLock()
	var out []ecology.VegetationObservation
	for _, v := range s.vegetation {
		if want == nil || want[v.PlotID] {
			out = append(out, v)
		}
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b ecology.VegetationObservation) int {
		return cmp.Or(cmp.Compare(a.PlotID, b.PlotID), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// PutProgress records the survey state of a sampling unit.
func (s *Store) PutProgress(_ context.Context, p survey.SamplingUnitProgress) error {
	if !p.Status.Valid() {
		return perrors.New(perrors.ErrCodeInvalidInput, "unknown progress status %q", p.Status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requirePlot(p.PlotID); err != nil {
		return err
	}
	s.progress[p.Key()] = p
	return nil
}

// ListProgress returns the progress entries of a plot.
func (s *Store) ListProgress(_ context.Context, plotID string) ([]survey.SamplingUnitProgress, error) {
	s.mu.RLock()
	var out []survey.SamplingUnitProgress
	for _, p := range s.progress {
		if p.PlotID == plotID {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b survey.SamplingUnitProgress) int {
		return cmp.Compare(a.SamplingUnitID, b.SamplingUnitID)
	})
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) requirePlot(id string) error {
	if _, ok := s.plots[id]; !ok {
		return perrors.New(perrors.ErrCodePlotNotFound, "plot %s not found", id)
	}
	return nil
}

func idSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
