package layout

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWalkPreOrder(t *testing.T) {
	root, err := Generate(builtin(t, "tree-plot-20x20-nested"), Overrides{}, "p")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	var paths []string
	for n := range root.Walk() {
		paths = append(paths, n.Path)
		if len(paths) == 3 {
			break
		}
	}
	want := []string{"root", "root/r0c0", "root/r0c0/r0c0"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Walk() = %v, want %v", paths, want)
	}
}

func TestFindAndIndex(t *testing.T) {
	root, _ := Generate(builtin(t, "belt-transect-50m"), Overrides{}, "p")
	units := root.SamplingUnits()
	if len(units) != 10 {
		t.Fatalf("units = %d, want 10", len(units))
	}
	got, ok := root.Find(units[3].ID)
	if !ok || got != units[3] {
		t.Error("Find() did not return the unit")
	}
	if _, ok := root.Find("missing"); ok {
		t.Error("Find() found a missing id")
	}
	if len(root.Index()) != root.Count() {
		t.Error("Index() size mismatch")
	}
}

func TestReadWriteFile(t *testing.T) {
	root, _ := Generate(builtin(t, "tree-plot-20x20"), Overrides{}, "p")
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteFile(root, path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !reflect.DeepEqual(got, root) {
		t.Error("layout changed after write/read")
	}

	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Error("ReadFile() accepted a layout without root path")
	}
}
