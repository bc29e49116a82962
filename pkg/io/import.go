package io

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/plotkit/pkg/blueprint"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/store"
	"github.com/matzehuels/plotkit/pkg/survey"
)

// Mode selects how Import treats plots that already exist.
type Mode string

// Import modes.
const (
	ModeCreate    Mode = "create"
	ModeOverwrite Mode = "overwrite"
	ModeClone     Mode = "clone"
)

// ParseMode maps a CLI or API value to a Mode. Empty selects ModeCreate.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeCreate:
		return ModeCreate, nil
	case ModeOverwrite, ModeClone:
		return Mode(s), nil
	}
	return "", perrors.New(perrors.ErrCodeInvalidInput, "unknown import mode %q (want create, overwrite or clone)", s)
}

// Result summarises an import.
type Result struct {
	Plots      int `json:"plots"`
	Trees      int `json:"trees"`
	Vegetation int `json:"vegetation"`
	Progress   int `json:"progress"`

	// PlotIDs maps bundle plot ids to the ids they were stored under.
	PlotIDs map[string]string `json:"plot_ids"`

	// Unmapped counts records whose sampling unit did not resolve in the
	// source layout during a clone. They keep their original unit id.
	Unmapped int `json:"unmapped,omitempty"`
}

// Import writes the bundle into st.
//
// In ModeCreate nothing is written when any plot already exists. The
// registry is needed in ModeClone to regenerate layouts for unit remapping.
func Import(ctx context.Context, st store.Store, reg *blueprint.Registry, b *Bundle, mode Mode) (*Result, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	res := &Result{PlotIDs: make(map[string]string, len(b.Plots))}
	units := make(map[string]map[string]string)

	for _, p := range b.Plots {
		switch mode {
		case ModeCreate, "":
			if _, err := st.GetPlot(ctx, p.ID); err == nil {
				return nil, perrors.New(perrors.ErrCodeConflict, "plot %s already exists", p.ID)
			} else if !perrors.IsNotFound(err) {
				return nil, err
			}
			res.PlotIDs[p.ID] = p.ID
		case ModeOverwrite:
			res.PlotIDs[p.ID] = p.ID
		case ModeClone:
			newID := uuid.NewString()
			res.PlotIDs[p.ID] = newID
			m, err := unitMapping(reg, p, newID)
			if err != nil {
				return nil, err
			}
			units[p.ID] = m
		default:
			return nil, perrors.New(perrors.ErrCodeInvalidInput, "unknown import mode %q", mode)
		}
	}

	now := time.Now().UTC()
	for _, p := range b.Plots {
		if mode == ModeOverwrite {
			if err := st.DeletePlot(ctx, p.ID); err != nil && !perrors.IsNotFound(err) {
				return nil, err
			}
		}
		p.ID = res.PlotIDs[p.ID]
		if mode == ModeClone {
			p.CreatedAt, p.UpdatedAt = now, now
		}
		if err := st.PutPlot(ctx, p); err != nil {
			return nil, err
		}
		res.Plots++
	}

	remap := func(plotID, unitID string) string {
		m, ok := units[plotID]
		if !ok || unitID == "" {
			return unitID
		}
		if id, ok := m[unitID]; ok {
			return id
		}
		res.Unmapped++
		return unitID
	}
	newID := func(id string) string {
		if mode == ModeClone {
			return uuid.NewString()
		}
		return id
	}

	for _, t := range b.Trees {
		t.SamplingUnitID = remap(t.PlotID, t.SamplingUnitID)
		t.PlotID = res.PlotIDs[t.PlotID]
		t.ID = newID(t.ID)
		if err := st.PutTree(ctx, t); err != nil {
			return nil, err
		}
		res.Trees++
	}
	for _, v := range b.Vegetation {
		v.SamplingUnitID = remap(v.PlotID, v.SamplingUnitID)
		v.PlotID = res.PlotIDs[v.PlotID]
		v.ID = newID(v.ID)
		if err := st.PutVegetation(ctx, v); err != nil {
			return nil, err
		}
		res.Vegetation++
	}
	for _, p := range b.Progress {
		p.SamplingUnitID = remap(p.PlotID, p.SamplingUnitID)
		p.PlotID = res.PlotIDs[p.PlotID]
		if err := st.PutProgress(ctx, p); err != nil {
			return nil, err
		}
		res.Progress++
	}
	return res, nil
}

// unitMapping maps the committed node ids of p's layout to those of the
// same layout generated for newID, matching nodes by path.
func unitMapping(reg *blueprint.Registry, p survey.Plot, newID string) (map[string]string, error) {
	from, err := p.Layout(reg)
	if err != nil {
		return nil, err
	}
	clone := p
	clone.ID = newID
	to, err := clone.Layout(reg)
	if err != nil {
		return nil, err
	}

	m := make(map[string]string, from.Count())
	for n := range from.Walk() {
		if target, ok := to.ByPath(n.Path); ok {
			m[n.ID] = target.ID
		}
	}
	return m, nil
}
