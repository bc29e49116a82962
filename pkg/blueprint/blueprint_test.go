package blueprint

import (
	"testing"

	perrors "github.com/matzehuels/plotkit/pkg/errors"
)

func TestShapeBounds(t *testing.T) {
	tests := []struct {
		name    string
		shape   Shape
		w, h    float64
		wantErr bool
	}{
		{"rectangle", Rect(20, 10), 20, 10, false},
		{"circle", Circle(5), 10, 10, false},
		{"line", Line(50, 2), 50, 2, false},
		{"point", Point(1.5), 3, 3, false},
		{"unknown kind", Shape{Kind: "HEXAGON", Width: 1, Length: 1}, 0, 0, true},
		{"empty kind", Shape{Width: 1, Length: 1}, 0, 0, true},
		{"zero width", Rect(0, 10), 0, 0, true},
		{"negative radius", Circle(-1), 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := tt.shape.Bounds()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Bounds() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !perrors.Is(err, perrors.ErrCodeInvalidShape) {
					t.Errorf("Bounds() error code = %v, want INVALID_SHAPE", perrors.GetCode(err))
				}
				return
			}
			if w != tt.w || h != tt.h {
				t.Errorf("Bounds() = (%v, %v), want (%v, %v)", w, h, tt.w, tt.h)
			}
		})
	}
}

func TestShapeArea(t *testing.T) {
	a, err := Rect(20, 20).Area()
	if err != nil || a != 400 {
		t.Errorf("Rect area = %v, %v; want 400", a, err)
	}
	a, err = Circle(1).Area()
	if err != nil || a < 3.14159 || a > 3.1416 {
		t.Errorf("Circle area = %v, %v; want pi", a, err)
	}
}

func TestFormatLabel(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"Q{index}", "Q3"},
		{"{parent}-S{index}", "Q1-S3"},
		{"r{row}c{col}", "r1c0"},
		{"", "3"},
		{"fixed", "fixed"},
	}
	for _, tt := range tests {
		if got := FormatLabel(tt.pattern, 3, 1, 0, "Q1"); got != tt.want {
			t.Errorf("FormatLabel(%q) = %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestGeneratorDefaults(t *testing.T) {
	g := &Generator{Kind: GeneratorGrid, Rows: 1, Cols: 1}
	if g.FirstIndex() != 1 {
		t.Errorf("FirstIndex() = %d, want 1", g.FirstIndex())
	}
	if g.EffectiveRowOrder() != TopToBottom {
		t.Errorf("EffectiveRowOrder() = %s", g.EffectiveRowOrder())
	}
	if g.EffectiveColOrder() != LeftToRight {
		t.Errorf("EffectiveColOrder() = %s", g.EffectiveColOrder())
	}
	g.StartIndex = 5
	if g.FirstIndex() != 5 {
		t.Errorf("FirstIndex() = %d, want 5", g.FirstIndex())
	}
}

func grid(rows, cols int) *Generator {
	return &Generator{Kind: GeneratorGrid, Rows: rows, Cols: cols}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		bp       Blueprint
		wantCode perrors.Code
	}{
		{
			name: "valid grid",
			bp:   Blueprint{ID: "a", Version: 1, Root: NodeDefinition{Type: Container, Shape: Rect(10, 10), Generator: grid(2, 2)}},
		},
		{
			name: "valid leaf root",
			bp:   Blueprint{ID: "a", Version: 1, Root: NodeDefinition{Type: SamplingUnit, Shape: Rect(1, 1)}},
		},
		{
			name:     "missing id",
			bp:       Blueprint{Version: 1, Root: NodeDefinition{Type: SamplingUnit, Shape: Rect(1, 1)}},
			wantCode: perrors.ErrCodeInvalidInput,
		},
		{
			name:     "version zero",
			bp:       Blueprint{ID: "a", Root: NodeDefinition{Type: SamplingUnit, Shape: Rect(1, 1)}},
			wantCode: perrors.ErrCodeInvalidBlueprint,
		},
		{
			name:     "zero rows",
			bp:       Blueprint{ID: "a", Version: 1, Root: NodeDefinition{Type: Container, Shape: Rect(10, 10), Generator: grid(0, 2)}},
			wantCode: perrors.ErrCodeInvalidBlueprint,
		},
		{
			name:     "negative cols",
			bp:       Blueprint{ID: "a", Version: 1, Root: NodeDefinition{Type: Container, Shape: Rect(10, 10), Generator: grid(2, -1)}},
			wantCode: perrors.ErrCodeInvalidBlueprint,
		},
		{
			name:     "sampling unit with generator",
			bp:       Blueprint{ID: "a", Version: 1, Root: NodeDefinition{Type: SamplingUnit, Shape: Rect(10, 10), Generator: grid(2, 2)}},
			wantCode: perrors.ErrCodeInvalidBlueprint,
		},
		{
			name:     "unknown shape",
			bp:       Blueprint{ID: "a", Version: 1, Root: NodeDefinition{Type: Container, Shape: Shape{Kind: "TRIANGLE"}}},
			wantCode: perrors.ErrCodeInvalidShape,
		},
		{
			name:     "unknown node type",
			bp:       Blueprint{ID: "a", Version: 1, Root: NodeDefinition{Type: "PLOT", Shape: Rect(1, 1)}},
			wantCode: perrors.ErrCodeInvalidBlueprint,
		},
		{
			name: "bad row order",
			bp: Blueprint{ID: "a", Version: 1, Root: NodeDefinition{Type: Container, Shape: Rect(1, 1),
				Generator: &Generator{Kind: GeneratorGrid, Rows: 1, Cols: 1, RowOrder: "DIAGONAL"}}},
			wantCode: perrors.ErrCodeInvalidBlueprint,
		},
		{
			name: "nested template leaf with generator",
			bp: Blueprint{ID: "a", Version: 1, Root: NodeDefinition{Type: Container, Shape: Rect(1, 1),
				Generator: &Generator{Kind: GeneratorGrid, Rows: 1, Cols: 1,
					Template: &NodeDefinition{Type: SamplingUnit, Generator: grid(1, 1)}}}},
			wantCode: perrors.ErrCodeInvalidBlueprint,
		},
		{
			name: "empty fixed list",
			bp: Blueprint{ID: "a", Version: 1, Root: NodeDefinition{Type: Container, Shape: Rect(1, 1),
				Generator: &Generator{Kind: GeneratorFixedList}}},
			wantCode: perrors.ErrCodeInvalidBlueprint,
		},
		{
			name: "duplicate fixed list keys",
			bp: Blueprint{ID: "a", Version: 1, Root: NodeDefinition{Type: Container, Shape: Rect(10, 10),
				Generator: &Generator{Kind: GeneratorFixedList, Children: []NodeDefinition{
					{Key: "nw", Type: SamplingUnit, Shape: Rect(1, 1)},
					{Key: "nw", Type: SamplingUnit, Shape: Rect(1, 1)},
				}}}},
			wantCode: perrors.ErrCodeInvalidBlueprint,
		},
		{
			name: "nested without template",
			bp: Blueprint{ID: "a", Version: 1, Root: NodeDefinition{Type: Container, Shape: Circle(5),
				Generator: &Generator{Kind: GeneratorNested}}},
			wantCode: perrors.ErrCodeInvalidBlueprint,
		},
		{
			name: "unknown generator",
			bp: Blueprint{ID: "a", Version: 1, Root: NodeDefinition{Type: Container, Shape: Circle(5),
				Generator: &Generator{Kind: "SPIRAL"}}},
			wantCode: perrors.ErrCodeInvalidBlueprint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bp.Validate()
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if got := perrors.GetCode(err); got != tt.wantCode {
				t.Errorf("Validate() code = %s, want %s (err %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestBuiltinCatalogIsValid(t *testing.T) {
	for _, bp := range Builtin() {
		if err := bp.Validate(); err != nil {
			t.Errorf("builtin %s invalid: %v", bp.Key(), err)
		}
	}
}
