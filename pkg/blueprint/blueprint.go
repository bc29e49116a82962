package blueprint

import (
	"fmt"
	"strings"

	perrors "github.com/matzehuels/plotkit/pkg/errors"
)

// NodeType distinguishes containers from sampling units.
type NodeType string

// Node types.
const (
	Container    NodeType = "CONTAINER"
	SamplingUnit NodeType = "SAMPLING_UNIT"
)

// GeneratorKind selects how a container derives its children.
type GeneratorKind string

// Generator kinds.
const (
	GeneratorGrid      GeneratorKind = "GRID"
	GeneratorFixedList GeneratorKind = "FIXED_LIST"
	GeneratorNested    GeneratorKind = "NESTED"
)

// RowOrder controls which physical row logical row 0 maps to.
type RowOrder string

// Row orders.
const (
	TopToBottom RowOrder = "TOP_TO_BOTTOM"
	BottomToTop RowOrder = "BOTTOM_TO_TOP"
)

// ColOrder controls which physical column logical column 0 maps to.
type ColOrder string

// Column orders.
const (
	LeftToRight ColOrder = "LEFT_TO_RIGHT"
	RightToLeft ColOrder = "RIGHT_TO_LEFT"
)

// Offset is a position relative to the parent's lower-left corner, in meters.
type Offset struct {
	X float64 `json:"x" toml:"x" bson:"x"`
	Y float64 `json:"y" toml:"y" bson:"y"`
}

// Blueprint is an immutable, versioned plot layout template.
type Blueprint struct {
	ID          string         `json:"id" toml:"id"`
	Version     int            `json:"version" toml:"version"`
	Name        string         `json:"name" toml:"name"`
	Description string         `json:"description,omitempty" toml:"description"`
	Root        NodeDefinition `json:"root" toml:"root"`
}

// Key returns the "id@vN" form used in cache keys and log lines.
func (b Blueprint) Key() string {
	return fmt.Sprintf("%s@v%d", b.ID, b.Version)
}

// NodeDefinition is the design-time description of one node.
type NodeDefinition struct {
	// Key names the path segment of a FIXED_LIST child.
	Key       string     `json:"key,omitempty" toml:"key"`
	Type      NodeType   `json:"type" toml:"type"`
	Shape     Shape      `json:"shape" toml:"shape"`
	Offset    Offset     `json:"offset,omitempty" toml:"offset"`
	Label     string     `json:"label,omitempty" toml:"label"`
	Generator *Generator `json:"generator,omitempty" toml:"generator"`
	Role      string     `json:"role,omitempty" toml:"role"`
	Tags      []string   `json:"tags,omitempty" toml:"tags"`
}

// Generator derives the children of a CONTAINER node.
type Generator struct {
	Kind GeneratorKind `json:"kind" toml:"kind"`

	// GRID settings.
	Rows         int      `json:"rows,omitempty" toml:"rows"`
	Cols         int      `json:"cols,omitempty" toml:"cols"`
	RowOrder     RowOrder `json:"row_order,omitempty" toml:"row_order"`
	ColOrder     ColOrder `json:"col_order,omitempty" toml:"col_order"`
	LabelPattern string   `json:"label_pattern,omitempty" toml:"label_pattern"`
	// StartIndex is the label index of the first cell; zero means 1.
	StartIndex int `json:"start_index,omitempty" toml:"start_index"`

	// Template is the child definition for GRID cells and the NESTED child.
	// A nil GRID template yields SAMPLING_UNIT cells.
	Template *NodeDefinition `json:"template,omitempty" toml:"template"`

	// Children lists the FIXED_LIST children.
	Children []NodeDefinition `json:"children,omitempty" toml:"children"`
}

// FirstIndex returns the effective label index of the first grid cell.
func (g *Generator) FirstIndex() int {
	if g.StartIndex == 0 {
		return 1
	}
	return g.StartIndex
}

// EffectiveRowOrder returns the row order, defaulting to TOP_TO_BOTTOM.
func (g *Generator) EffectiveRowOrder() RowOrder {
	if g.RowOrder == "" {
		return TopToBottom
	}
	return g.RowOrder
}

// EffectiveColOrder returns the column order, defaulting to LEFT_TO_RIGHT.
func (g *Generator) EffectiveColOrder() ColOrder {
	if g.ColOrder == "" {
		return LeftToRight
	}
	return g.ColOrder
}

// FormatLabel expands a label pattern. Supported tokens are {index}, {row},
// {col} and {parent}. An empty pattern yields the bare index.
func FormatLabel(pattern string, index, row, col int, parent string) string {
	if pattern == "" {
		return fmt.Sprint(index)
	}
	r := strings.NewReplacer(
		"{index}", fmt.Sprint(index),
		"{row}", fmt.Sprint(row),
		"{col}", fmt.Sprint(col),
		"{parent}", parent,
	)
	return r.Replace(pattern)
}

// Validate checks the blueprint for structural errors. The root shape must
// be well formed; nested GRID templates take their shape from the cell.
func (b Blueprint) Validate() error {
	if err := perrors.ValidateID("blueprint id", b.ID); err != nil {
		return err
	}
	if b.Version < 1 {
		return perrors.New(perrors.ErrCodeInvalidBlueprint, "blueprint %s: version must be >= 1 (got %d)", b.ID, b.Version)
	}
	if err := validateNode(b.Root, "root", true); err != nil {
		return perrors.Annotate(perrors.ErrCodeInvalidBlueprint, err, "blueprint %s", b.Key())
	}
	return nil
}

func validateNode(n NodeDefinition, path string, needShape bool) error {
	switch n.Type {
	case Container, SamplingUnit:
	default:
		return perrors.New(perrors.ErrCodeInvalidBlueprint, "%s: unknown node type %q", path, n.Type)
	}
	if needShape || !n.Shape.IsZero() {
		if _, _, err := n.Shape.Bounds(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	if n.Generator == nil {
		return nil
	}
	if n.Type == SamplingUnit {
		return perrors.New(perrors.ErrCodeInvalidBlueprint, "%s: sampling unit cannot carry a generator", path)
	}
	return validateGenerator(n.Generator, path)
}

func validateGenerator(g *Generator, path string) error {
	switch g.Kind {
	case GeneratorGrid:
		if g.Rows < 1 || g.Cols < 1 {
			return perrors.New(perrors.ErrCodeInvalidBlueprint, "%s: grid rows and cols must be >= 1 (got %dx%d)", path, g.Rows, g.Cols)
		}
		switch g.EffectiveRowOrder() {
		case TopToBottom, BottomToTop:
		default:
			return perrors.New(perrors.ErrCodeInvalidBlueprint, "%s: unknown row order %q", path, g.RowOrder)
		}
		switch g.EffectiveColOrder() {
		case LeftToRight, RightToLeft:
		default:
			return perrors.New(perrors.ErrCodeInvalidBlueprint, "%s: unknown column order %q", path, g.ColOrder)
		}
		if g.Template != nil {
			return validateNode(*g.Template, path+"/template", false)
		}
		return nil
	case GeneratorFixedList:
		if len(g.Children) == 0 {
			return perrors.New(perrors.ErrCodeInvalidBlueprint, "%s: fixed list needs at least one child", path)
		}
		seen := make(map[string]bool, len(g.Children))
		for i, c := range g.Children {
			if c.Key != "" {
				if err := perrors.ValidateID("child key", c.Key); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			seg := ChildKey(c, i)
			if seen[seg] {
				return perrors.New(perrors.ErrCodeInvalidBlueprint, "%s: duplicate child key %q", path, seg)
			}
			seen[seg] = true
			if err := validateNode(c, path+"/"+seg, true); err != nil {
				return err
			}
		}
		return nil
	case GeneratorNested:
		if g.Template == nil {
			return perrors.New(perrors.ErrCodeInvalidBlueprint, "%s: nested generator needs a template", path)
		}
		return validateNode(*g.Template, path+"/n0", true)
	default:
		return perrors.New(perrors.ErrCodeInvalidBlueprint, "%s: unknown generator kind %q", path, g.Kind)
	}
}

// ChildKey returns the path segment of the i-th FIXED_LIST child.
func ChildKey(c NodeDefinition, i int) string {
	if c.Key != "" {
		return c.Key
	}
	return fmt.Sprintf("i%d", i)
}
