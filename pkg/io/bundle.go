package io

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/plotkit/pkg/ecology"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/store"
	"github.com/matzehuels/plotkit/pkg/survey"
)

// FormatVersion is the bundle format written by this package.
const FormatVersion = 1

// Bundle is a portable snapshot of one or more plots.
type Bundle struct {
	FormatVersion int                             `json:"format_version"`
	ExportedAt    time.Time                       `json:"exported_at"`
	Plots         []survey.Plot                   `json:"plots"`
	Trees         []ecology.TreeObservation       `json:"trees,omitempty"`
	Vegetation    []ecology.VegetationObservation `json:"vegetation,omitempty"`
	Progress      []survey.SamplingUnitProgress   `json:"progress,omitempty"`
}

// Export collects the given plots, or every plot when none are given, with
// all their records.
func Export(ctx context.Context, st store.Store, plotIDs ...string) (*Bundle, error) {
	b := &Bundle{FormatVersion: FormatVersion, ExportedAt: time.Now().UTC()}

	if len(plotIDs) == 0 {
		plots, err := st.ListPlots(ctx)
		if err != nil {
			return nil, err
		}
		b.Plots = plots
	} else {
		for _, id := range plotIDs {
			p, err := st.GetPlot(ctx, id)
			if err != nil {
				return nil, err
			}
			b.Plots = append(b.Plots, p)
		}
	}
	if len(b.Plots) == 0 {
		return b, nil
	}

	ids := make([]string, len(b.Plots))
	for i, p := range b.Plots {
		ids[i] = p.ID
	}

	var err error
	if b.Trees, err = st.ListTrees(ctx, ids...); err != nil {
		return nil, err
	}
	if b.Vegetation, err = st.ListVegetation(ctx, ids...); err != nil {
		return nil, err
	}
	for _, id := range ids {
		progress, err := st.ListProgress(ctx, id)
		if err != nil {
			return nil, err
		}
		b.Progress = append(b.Progress, progress...)
	}
	return b, nil
}

// Validate checks the format version and that every record references a
// plot in the bundle.
func (b *Bundle) Validate() error {
	if b.FormatVersion < 1 || b.FormatVersion > FormatVersion {
		return perrors.New(perrors.ErrCodeUnsupported, "bundle format version %d not supported", b.FormatVersion)
	}
	plots := make(map[string]bool, len(b.Plots))
	for _, p := range b.Plots {
		if err := p.Validate(); err != nil {
			return err
		}
		if plots[p.ID] {
			return perrors.New(perrors.ErrCodeInvalidInput, "bundle: duplicate plot %s", p.ID)
		}
		plots[p.ID] = true
	}

	check := func(kind, id, plotID string) error {
		if !plots[plotID] {
			return perrors.New(perrors.ErrCodeInvalidInput, "bundle: %s %s references plot %s outside the bundle", kind, id, plotID)
		}
		return nil
	}
	for _, t := range b.Trees {
		if err := check("tree", t.ID, t.PlotID); err != nil {
			return err
		}
	}
	for _, v := range b.Vegetation {
		if err := check("vegetation", v.ID, v.PlotID); err != nil {
			return err
		}
	}
	for _, p := range b.Progress {
		if err := check("progress", p.SamplingUnitID, p.PlotID); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON encodes b as indented JSON to w.
func WriteJSON(b *Bundle, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes and validates a bundle from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "decode bundle")
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// WriteFile writes b to a JSON file at path.
func WriteFile(b *Bundle, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(b, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads and validates a bundle file.
func ReadFile(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "bundle %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
