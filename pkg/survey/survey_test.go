package survey

import (
	"testing"

	"github.com/matzehuels/plotkit/pkg/blueprint"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/layout"
)

func TestNewPlot(t *testing.T) {
	p := NewPlot("Sal 1", "tree-plot-20x20", 1)
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if p.Status != StatusPlanned || p.CreatedAt.IsZero() {
		t.Errorf("NewPlot() = %+v", p)
	}
	if q := NewPlot("Sal 1", "tree-plot-20x20", 1); q.ID == p.ID {
		t.Error("NewPlot() reused an id")
	}
}

func TestPlotValidate(t *testing.T) {
	base := NewPlot("x", "tree-plot-20x20", 1)
	tests := []struct {
		name   string
		modify func(*Plot)
	}{
		{"empty id", func(p *Plot) { p.ID = "" }},
		{"bad blueprint id", func(p *Plot) { p.BlueprintID = "../etc" }},
		{"zero version", func(p *Plot) { p.BlueprintVersion = 0 }},
		{"bad status", func(p *Plot) { p.Status = "LOST" }},
		{"bad latitude", func(p *Plot) { p.Location = &Location{Latitude: 91} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.modify(&p)
			if err := p.Validate(); !perrors.IsInvalid(err) {
				t.Errorf("Validate() error = %v, want invalid input", err)
			}
		})
	}
}

func TestPlotPinsBlueprintVersion(t *testing.T) {
	reg := blueprint.NewRegistry()
	v1 := blueprint.Blueprint{ID: "q", Version: 1, Root: blueprint.NodeDefinition{
		Type: blueprint.Container, Shape: blueprint.Rect(10, 10),
		Generator: &blueprint.Generator{Kind: blueprint.GeneratorGrid, Rows: 1, Cols: 2},
	}}
	v2 := v1
	v2.Version = 2
	v2.Root.Generator = &blueprint.Generator{Kind: blueprint.GeneratorGrid, Rows: 3, Cols: 3}
	for _, bp := range []blueprint.Blueprint{v1, v2} {
		if err := reg.Register(bp); err != nil {
			t.Fatal(err)
		}
	}

	p := NewPlot("old", "q", 1)
	root, err := p.Layout(reg)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if got := len(root.SamplingUnits()); got != 2 {
		t.Errorf("units = %d, want 2 from version 1", got)
	}

	p.BlueprintVersion = 5
	if _, err := p.Layout(reg); !perrors.Is(err, perrors.ErrCodeBlueprintNotFound) {
		t.Errorf("Layout() error = %v, want BLUEPRINT_NOT_FOUND", err)
	}
}

func TestPlotLayoutOverrides(t *testing.T) {
	p := NewPlot("big", "tree-plot-20x20", 1)
	shape := blueprint.Rect(25, 25)
	p.RootDimensions = &shape
	root, err := p.Layout(blueprint.Default())
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if root.Width != 25 {
		t.Errorf("root width = %v, want 25", root.Width)
	}
}

func TestCompletion(t *testing.T) {
	bp, _ := blueprint.Default().Get("tree-plot-20x20", 1)
	root, err := layout.Generate(bp, layout.Overrides{}, "p1")
	if err != nil {
		t.Fatal(err)
	}
	units := root.SamplingUnits()
	progress := []SamplingUnitProgress{
		{PlotID: "p1", SamplingUnitID: units[0].ID, Status: Done},
		{PlotID: "p1", SamplingUnitID: units[1].ID, Status: Done},
		{PlotID: "p1", SamplingUnitID: units[2].ID, Status: InProgress},
		{PlotID: "p1", SamplingUnitID: "stale-id", Status: Done},
	}
	got := Completion(root, progress)
	want := CompletionSummary{Total: 4, NotStarted: 1, InProgress: 1, Done: 2, Fraction: 0.5}
	if got != want {
		t.Errorf("Completion() = %+v, want %+v", got, want)
	}
}
