package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/plotkit/pkg/blueprint"
	"github.com/matzehuels/plotkit/pkg/layout"
)

func generate(t *testing.T, id string) *layout.Node {
	t.Helper()
	bp, err := blueprint.Default().Latest(id)
	if err != nil {
		t.Fatalf("Latest(%s): %v", id, err)
	}
	root, err := layout.Generate(bp, layout.Overrides{}, "plot-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return root
}

func TestToDOT(t *testing.T) {
	root := generate(t, "tree-plot-20x20")
	dot := ToDOT(root, Options{})

	if !strings.HasPrefix(dot, "graph G {\n") || !strings.HasSuffix(dot, "}\n") {
		t.Fatalf("unexpected framing:\n%s", dot)
	}
	if !strings.Contains(dot, "layout=neato;") {
		t.Error("missing neato layout")
	}
	if got, want := strings.Count(dot, "pos="), root.Count(); got != want {
		t.Errorf("pinned nodes = %d, want %d", got, want)
	}

	// Root is 20x20 m centred at (10,10) -> 2.5in at the default scale.
	rootLine := `"` + root.ID + `" [`
	if !strings.Contains(dot, rootLine) {
		t.Fatalf("root node missing")
	}
	for _, want := range []string{`pos="2.5,2.5!"`, "width=5", "style=dashed"} {
		if !strings.Contains(lineOf(dot, rootLine), want) {
			t.Errorf("root line missing %s: %s", want, lineOf(dot, rootLine))
		}
	}
}

func TestToDOTOrder(t *testing.T) {
	root := generate(t, "tree-plot-20x20")
	dot := ToDOT(root, Options{})

	rootAt := strings.Index(dot, `"`+root.ID+`"`)
	for _, c := range root.Children {
		if i := strings.Index(dot, `"`+c.ID+`"`); i < rootAt {
			t.Errorf("child %s emitted before root", c.Path)
		}
	}
}

func TestToDOTOptions(t *testing.T) {
	root := generate(t, "tree-plot-20x20")
	unit := root.Children[0]

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"label only", Options{}, `label="Q1"`},
		{"detailed", Options{Detailed: true}, `label="Q1\nroot/r0c0\n10 x 10 m"`},
		{"scale", Options{Scale: 0.1}, "width=1,"},
		{"done", Options{Done: map[string]bool{unit.ID: true}}, `fillcolor="#b7e1a1"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := lineOf(ToDOT(root, tt.opts), `"`+unit.ID+`" [`)
			if !strings.Contains(line, tt.want) {
				t.Errorf("line %q missing %q", line, tt.want)
			}
		})
	}
}

func TestToDOTShapes(t *testing.T) {
	root := generate(t, "circular-plot-400")
	dot := ToDOT(root, Options{})
	if !strings.Contains(lineOf(dot, `"`+root.ID+`" [`), "shape=ellipse") {
		t.Error("circular root should render as ellipse")
	}
}

func TestToDOTNil(t *testing.T) {
	if got := ToDOT(nil, Options{}); strings.Contains(got, "pos=") {
		t.Errorf("nil root produced nodes: %s", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}

func lineOf(dot, prefix string) string {
	for line := range strings.Lines(dot) {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			return line
		}
	}
	return ""
}
