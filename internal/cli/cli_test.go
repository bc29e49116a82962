package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/plotkit/pkg/blueprint"
	perrors "github.com/matzehuels/plotkit/pkg/errors"
	"github.com/matzehuels/plotkit/pkg/layout"
	"github.com/matzehuels/plotkit/pkg/pipeline"
	"github.com/matzehuels/plotkit/pkg/store"
	"github.com/matzehuels/plotkit/pkg/survey"
)

// testEnv runs commands against a SQLite store and file cache in a
// temporary directory.
type testEnv struct {
	t        *testing.T
	config   string
	db       string
	cacheDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, k := range []string{"PLOTKIT_STORE", "PLOTKIT_STORE_PATH", "PLOTKIT_MONGO_URI", "PLOTKIT_CACHE", "PLOTKIT_REDIS_ADDR", "PLOTKIT_ADDR"} {
		t.Setenv(k, "")
	}

	dir := t.TempDir()
	env := &testEnv{
		t:        t,
		config:   filepath.Join(dir, "config.toml"),
		db:       filepath.Join(dir, "plotkit.db"),
		cacheDir: filepath.Join(dir, "cache"),
	}
	cfg := fmt.Sprintf(`[store]
backend = "sqlite"
path = %q

[cache]
backend = "file"
dir = %q

[analysis]
iterations = 10
`, env.db, env.cacheDir)
	if err := os.WriteFile(env.config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return env
}

// run executes a fresh root command and returns what it wrote to stdout.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("plotkit %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func (e *testEnv) plots() []survey.Plot {
	e.t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{Backend: store.BackendSQLite, Path: e.db})
	if err != nil {
		e.t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	plots, err := st.ListPlots(ctx)
	if err != nil {
		e.t.Fatalf("ListPlots: %v", err)
	}
	return plots
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"blueprint", "layout", "plot", "observe", "analyze", "export", "import", "serve", "cache", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q (have %v)", want, names)
		}
	}
}

func TestPlotWorkflow(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("plot", "create", "north", "-b", "tree-plot-20x20", "--surveyor", "ana", "--date", "2026-05-01")
	plots := env.plots()
	if len(plots) != 1 {
		t.Fatalf("plots = %d, want 1", len(plots))
	}
	p := plots[0]
	if p.Name != "north" || p.BlueprintVersion != 1 || p.Status != survey.StatusPlanned {
		t.Fatalf("plot = %+v", p)
	}
	if got := p.SurveyDate.Format("2006-01-02"); got != "2026-05-01" {
		t.Errorf("SurveyDate = %s, want 2026-05-01", got)
	}
	id := p.ID

	env.mustRun("observe", "tree", id, "root/r0c0", "Quercus", "robur", "--gbh", "120,50")
	env.mustRun("observe", "tree", id, "Q2", "Pinus", "sylvestris", "--gbh", "80")
	env.mustRun("observe", "veg", id, "Q1", "Hedera", "helix", "--cover", "15", "--abundance", "4", "--layer", "herb")
	env.mustRun("plot", "progress", id, "Q1", "done")

	if got := env.plots()[0].Status; got != survey.StatusInProgress {
		t.Errorf("status after progress = %s, want %s", got, survey.StatusInProgress)
	}

	out := env.mustRun("analyze", "--seed", "7", "--json")
	var rep pipeline.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if rep.Diversity.Richness != 2 || rep.Diversity.Individuals != 2 {
		t.Errorf("tree diversity = %+v, want 2 species, 2 individuals", rep.Diversity)
	}
	if rep.Vegetation.Individuals != 4 {
		t.Errorf("vegetation individuals = %d, want 4", rep.Vegetation.Individuals)
	}
	if rep.Iterations != 10 {
		t.Errorf("iterations = %d, want 10 from config", rep.Iterations)
	}
	if rep.Seed == nil || *rep.Seed != 7 {
		t.Errorf("seed = %v, want 7", rep.Seed)
	}
	if len(rep.SAC) != 1 {
		t.Errorf("SAC points = %d, want 1", len(rep.SAC))
	}
	if got := rep.Completion[id].Done; got != 1 {
		t.Errorf("completion done = %d, want 1", got)
	}

	dot := env.mustRun("layout", "--plot", id, "-f", "dot")
	if n := strings.Count(dot, "#b7e1a1"); n != 1 {
		t.Errorf("filled units = %d, want 1\n%s", n, dot)
	}

	bundle := filepath.Join(t.TempDir(), "bundle.json")
	env.mustRun("export", "-o", bundle)

	if _, err := env.run("import", bundle); perrors.GetCode(err) != perrors.ErrCodeConflict {
		t.Errorf("import existing plot: code = %s, want %s (err %v)", perrors.GetCode(err), perrors.ErrCodeConflict, err)
	}
	env.mustRun("import", bundle, "--mode", "clone")
	if n := len(env.plots()); n != 2 {
		t.Errorf("plots after clone = %d, want 2", n)
	}

	env.mustRun("plot", "delete", id)
	if n := len(env.plots()); n != 1 {
		t.Errorf("plots after delete = %d, want 1", n)
	}
}

func TestPlotCreateErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
		code perrors.Code
	}{
		{"unknown blueprint", []string{"plot", "create", "x", "-b", "nope"}, perrors.ErrCodeBlueprintNotFound},
		{"bad date", []string{"plot", "create", "x", "-b", "tree-plot-20x20", "--date", "May 1"}, perrors.ErrCodeInvalidInput},
		{"bad version", []string{"plot", "create", "x", "-b", "tree-plot-20x20", "--version", "9"}, perrors.ErrCodeBlueprintNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(tt.args...)
			if got := perrors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (err %v)", got, tt.code, err)
			}
		})
	}
	if n := len(env.plots()); n != 0 {
		t.Errorf("plots = %d, want 0", n)
	}
}

func TestLayoutPreview(t *testing.T) {
	env := newTestEnv(t)

	dot := env.mustRun("layout", "tree-plot-20x20", "-f", "dot", "--width", "40")
	if !strings.Contains(dot, "layout=neato") {
		t.Errorf("missing neato engine:\n%s", dot)
	}
	if !strings.Contains(dot, `pos="5,2.5!"`) {
		t.Errorf("root not centred at 40 x 20 m:\n%s", dot)
	}

	out := env.mustRun("layout", "tree-plot-20x20")
	var root layout.Node
	if err := json.Unmarshal([]byte(out), &root); err != nil {
		t.Fatalf("decode layout: %v", err)
	}
	if root.Width != 20 || len(root.Children) != 4 {
		t.Errorf("root = %gx%g with %d children, want 20 wide with 4", root.Width, root.Height, len(root.Children))
	}

	tests := []struct {
		name string
		args []string
	}{
		{"no blueprint", []string{"layout"}},
		{"plot and blueprint", []string{"layout", "--plot", "p1", "tree-plot-20x20"}},
		{"unknown format", []string{"layout", "tree-plot-20x20", "-f", "png"}},
		{"bad version", []string{"layout", "tree-plot-20x20", "v2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(tt.args...)
			if !perrors.IsInvalid(err) {
				t.Errorf("err = %v, want invalid input", err)
			}
		})
	}
}

func TestBlueprintCommands(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("blueprint", "list")

	out := env.mustRun("blueprint", "show", "tree-plot-20x20", "--toml")
	if !strings.Contains(out, `id = "tree-plot-20x20"`) {
		t.Errorf("toml output missing id:\n%s", out)
	}

	if _, err := env.run("blueprint", "show", "nope"); perrors.GetCode(err) != perrors.ErrCodeBlueprintNotFound {
		t.Errorf("unknown blueprint: err = %v", err)
	}
	if _, err := env.run("blueprint", "show", "tree-plot-20x20", "0"); !perrors.IsInvalid(err) {
		t.Errorf("version 0: err = %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("cache", "path")
	if strings.TrimSpace(out) != env.cacheDir {
		t.Errorf("cache path = %q, want %q", out, env.cacheDir)
	}

	env.mustRun("plot", "create", "north", "-b", "tree-plot-20x20")
	env.mustRun("cache", "clear")
}

func TestMissingConfig(t *testing.T) {
	env := newTestEnv(t)
	env.config = filepath.Join(t.TempDir(), "missing.toml")

	_, err := env.run("plot", "list")
	if got := perrors.GetCode(err); got != perrors.ErrCodeFileNotFound {
		t.Errorf("code = %s, want %s (err %v)", got, perrors.ErrCodeFileNotFound, err)
	}
}

func previewRoot(t *testing.T) *layout.Node {
	t.Helper()
	reg := blueprint.Default()
	bp, err := reg.Latest("tree-plot-20x20")
	if err != nil {
		t.Fatal(err)
	}
	root, err := layout.Preview(bp, layout.Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestResolveUnit(t *testing.T) {
	root := previewRoot(t)
	first := root.SamplingUnits()[0]

	tests := []struct {
		ref      string
		wantPath string
		code     perrors.Code
	}{
		{ref: first.ID, wantPath: first.Path},
		{ref: "root/r1c1", wantPath: "root/r1c1"},
		{ref: "Q2", wantPath: "root/r0c1"},
		{ref: "root", code: perrors.ErrCodeNotFound},
		{ref: "Q9", code: perrors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			n, err := resolveUnit(root, tt.ref)
			if tt.code != "" {
				if got := perrors.GetCode(err); got != tt.code {
					t.Errorf("code = %s, want %s", got, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if n.Path != tt.wantPath {
				t.Errorf("path = %s, want %s", n.Path, tt.wantPath)
			}
		})
	}
}

func TestResolveUnitAmbiguousLabel(t *testing.T) {
	root := previewRoot(t)
	for _, u := range root.SamplingUnits() {
		u.Label = "A"
	}
	if _, err := resolveUnit(root, "A"); !perrors.IsInvalid(err) {
		t.Errorf("err = %v, want invalid input", err)
	}
}

func TestParseProgressStatus(t *testing.T) {
	tests := []struct {
		in   string
		want survey.ProgressStatus
		ok   bool
	}{
		{"done", survey.Done, true},
		{"in-progress", survey.InProgress, true},
		{"NOT_STARTED", survey.NotStarted, true},
		{" Done ", survey.Done, true},
		{"finished", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseProgressStatus(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("err = %v, want ok=%v", err, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPlotStatus(t *testing.T) {
	tests := []struct {
		name string
		s    survey.CompletionSummary
		want survey.Status
	}{
		{"untouched", survey.CompletionSummary{Total: 4, NotStarted: 4}, survey.StatusPlanned},
		{"started", survey.CompletionSummary{Total: 4, NotStarted: 3, InProgress: 1}, survey.StatusInProgress},
		{"partly done", survey.CompletionSummary{Total: 4, NotStarted: 3, Done: 1}, survey.StatusInProgress},
		{"all done", survey.CompletionSummary{Total: 4, Done: 4}, survey.StatusCompleted},
		{"no units", survey.CompletionSummary{}, survey.StatusPlanned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plotStatus(tt.s); got != tt.want {
				t.Errorf("plotStatus = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseFloats(t *testing.T) {
	tests := []struct {
		in   string
		want []float64
		ok   bool
	}{
		{"", nil, true},
		{"120", []float64{120}, true},
		{"120, 45.5", []float64{120, 45.5}, true},
		{"120,abc", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFloats(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("err = %v, want ok=%v", err, tt.ok)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseEnum(t *testing.T) {
	type color string
	const (
		red  color = "red"
		blue color = "blue"
	)

	if got, err := parseEnum("RED", "color", red, blue); err != nil || got != red {
		t.Errorf("RED = %q, %v", got, err)
	}
	if got, err := parseEnum("", "color", red, blue); err != nil || got != "" {
		t.Errorf("empty = %q, %v", got, err)
	}
	if _, err := parseEnum("green", "color", red, blue); !perrors.IsInvalid(err) {
		t.Errorf("green: err = %v, want invalid input", err)
	}
}

func TestShapeFlagsApply(t *testing.T) {
	base := blueprint.Rect(20, 20)

	if got := (shapeFlags{}).apply(base); got != nil {
		t.Errorf("no flags = %+v, want nil", got)
	}

	got := (shapeFlags{width: 40}).apply(base)
	if got == nil || got.Width != 40 || got.Length != 20 || got.Kind != base.Kind {
		t.Errorf("width override = %+v", got)
	}
	if base.Width != 20 {
		t.Errorf("base modified: %+v", base)
	}
}

func TestDescribeShape(t *testing.T) {
	if got := describeShape(blueprint.Rect(20, 10)); got != "20 x 10 m rectangle" {
		t.Errorf("rect = %q", got)
	}
	if got := describeShape(blueprint.Shape{Kind: blueprint.ShapeCircle, Radius: 11.28}); got != "r 11.28 m circle" {
		t.Errorf("circle = %q", got)
	}
}

func TestBlueprintListModel(t *testing.T) {
	bps := blueprint.Default().List()
	if len(bps) < 2 {
		t.Fatalf("catalog has %d blueprints", len(bps))
	}

	var m tea.Model = NewBlueprintListModel(bps)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := m.(BlueprintListModel).Cursor; got != 1 {
		t.Fatalf("cursor = %d, want 1", got)
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("enter should quit")
	}
	sel := m.(BlueprintListModel).Selected
	if sel == nil || sel.Key() != bps[1].Key() {
		t.Errorf("selected = %v, want %s", sel, bps[1].Key())
	}

	var q tea.Model = NewBlueprintListModel(bps)
	q, cmd = q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil || q.(BlueprintListModel).Selected != nil {
		t.Error("q should quit without a selection")
	}
	if !strings.Contains(q.View(), bps[0].ID) {
		t.Errorf("view missing %s", bps[0].ID)
	}
}

func TestSpeciesRowsLimit(t *testing.T) {
	rep := pipeline.Report{}
	if rows := speciesRows(rep.Species, 5); len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{perrors.New(perrors.ErrCodeInvalidShape, "x"), ExitInvalid},
		{perrors.New(perrors.ErrCodePlotNotFound, "x"), ExitNotFound},
		{perrors.New(perrors.ErrCodeConflict, "x"), ExitConflict},
		{perrors.New(perrors.ErrCodeInternal, "x"), ExitFailure},
		{errors.New("plain"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
