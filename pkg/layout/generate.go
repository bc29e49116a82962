package layout

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/plotkit/pkg/blueprint"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
)

// RootPath is the structural path of every layout root.
const RootPath = "root"

// idNamespace scopes committed node ids. Changing it would orphan every
// stored observation.
var idNamespace = uuid.MustParse("9a4f6c52-3f0e-5b8d-a1c7-6d2e0b4f8e31")

// Overrides adjusts a blueprint at generation time without altering the
// template itself.
type Overrides struct {
	// RootDimensions replaces the root shape, e.g. to lay out a 25 x 25 m
	// plot with a standard quadrant pattern.
	RootDimensions *blueprint.Shape `json:"root_dimensions,omitempty"`
}

// NodeID returns the committed id of the node at path in the layout of
// plotID generated from blueprintID at version.
func NodeID(blueprintID string, version int, plotID, path string) string {
	name := fmt.Sprintf("%s@v%d|%s|%s", blueprintID, version, plotID, path)
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}

// Generate builds the committed layout of plot plotID. The result is a pure
// function of (bp.ID, bp.Version, bp.Root, ov, plotID): repeated calls yield
// identical ids, paths and coordinates.
func Generate(bp blueprint.Blueprint, ov Overrides, plotID string) (*Node, error) {
	if err := perrors.ValidateID("plot id", plotID); err != nil {
		return nil, err
	}
	b := &builder{
		stable: true,
		id: func(path string) string {
			return NodeID(bp.ID, bp.Version, plotID, path)
		},
	}
	return b.run(bp, ov)
}

// Preview builds a design-time layout with random, non-stable ids. Preview
// ids change on every call and must never key stored observations.
func Preview(bp blueprint.Blueprint, ov Overrides) (*Node, error) {
	b := &builder{
		stable: false,
		id:     func(string) string { return uuid.NewString() },
	}
	return b.run(bp, ov)
}

type builder struct {
	stable bool
	id     func(path string) string
}

func (b *builder) run(bp blueprint.Blueprint, ov Overrides) (*Node, error) {
	if ov.RootDimensions != nil {
		if _, _, err := ov.RootDimensions.Bounds(); err != nil {
			return nil, fmt.Errorf("root override: %w", err)
		}
		bp.Root.Shape = *ov.RootDimensions
	}
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	root, err := b.build(bp.Root, RootPath, 0, 0)
	if err != nil {
		return nil, perrors.Annotate(perrors.ErrCodeInvalidBlueprint, err, "generate %s", bp.Key())
	}
	return root, nil
}

// build realizes def with its bounding box's lower-left corner at (x, y).
func (b *builder) build(def blueprint.NodeDefinition, path string, x, y float64) (*Node, error) {
	w, h, err := def.Shape.Bounds()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	n := &Node{
		ID:     b.id(path),
		Path:   path,
		Label:  def.Label,
		Type:   def.Type,
		Role:   def.Role,
		Tags:   slices.Clone(def.Tags),
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		Shape:  def.Shape,
		Stable: b.stable,
	}
	g := def.Generator
	if g == nil {
		return n, nil
	}
	if def.Type != blueprint.Container {
		return nil, perrors.New(perrors.ErrCodeInvalidBlueprint, "%s: sampling unit cannot carry a generator", path)
	}

	switch g.Kind {
	case blueprint.GeneratorGrid:
		err = b.grid(n, g)
	case blueprint.GeneratorFixedList:
		err = b.fixedList(n, g)
	case blueprint.GeneratorNested:
		err = b.nested(n, g)
	default:
		err = perrors.New(perrors.ErrCodeInvalidBlueprint, "%s: unknown generator kind %q", path, g.Kind)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// grid tiles the parent's bounding box with rows x cols rectangular cells.
func (b *builder) grid(parent *Node, g *blueprint.Generator) error {
	if g.Rows < 1 || g.Cols < 1 {
		return perrors.New(perrors.ErrCodeInvalidBlueprint, "%s: grid rows and cols must be >= 1 (got %dx%d)", parent.Path, g.Rows, g.Cols)
	}
	cellW := parent.Width / float64(g.Cols)
	cellH := parent.Height / float64(g.Rows)
	rowOrder, colOrder := g.EffectiveRowOrder(), g.EffectiveColOrder()
	first := g.FirstIndex()

	parent.Children = make([]*Node, 0, g.Rows*g.Cols)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			row, col := r, c
			if rowOrder == blueprint.TopToBottom {
				row = g.Rows - 1 - r
			}
			if colOrder == blueprint.RightToLeft {
				col = g.Cols - 1 - c
			}

			def := blueprint.NodeDefinition{Type: blueprint.SamplingUnit}
			if g.Template != nil {
				def = *g.Template
			}
			def.Shape = blueprint.Rect(cellW, cellH)
			def.Label = blueprint.FormatLabel(g.LabelPattern, r*g.Cols+c+first, r, c, parent.Label)

			child, err := b.build(def,
				fmt.Sprintf("%s/r%dc%d", parent.Path, r, c),
				parent.X+float64(col)*cellW,
				parent.Y+float64(row)*cellH)
			if err != nil {
				return err
			}
			parent.Children = append(parent.Children, child)
		}
	}
	return nil
}

// fixedList places explicit children at their offsets inside the parent.
func (b *builder) fixedList(parent *Node, g *blueprint.Generator) error {
	parent.Children = make([]*Node, 0, len(g.Children))
	for i, def := range g.Children {
		child, err := b.build(def,
			parent.Path+"/"+blueprint.ChildKey(def, i),
			parent.X+def.Offset.X,
			parent.Y+def.Offset.Y)
		if err != nil {
			return err
		}
		parent.Children = append(parent.Children, child)
	}
	return nil
}

// nested centers a single template child inside the parent.
func (b *builder) nested(parent *Node, g *blueprint.Generator) error {
	if g.Template == nil {
		return perrors.New(perrors.ErrCodeInvalidBlueprint, "%s: nested generator needs a template", parent.Path)
	}
	w, h, err := g.Template.Shape.Bounds()
	if err != nil {
		return fmt.Errorf("%s/n0: %w", parent.Path, err)
	}
	child, err := b.build(*g.Template,
		parent.Path+"/n0",
		parent.X+(parent.Width-w)/2,
		parent.Y+(parent.Height-h)/2)
	if err != nil {
		return err
	}
	parent.Children = []*Node{child}
	return nil
}
