// Package pkg provides the core libraries for plotkit field-ecology surveys.
//
// # Overview
//
// Plotkit turns versioned plot blueprints into concrete layouts of sampling
// units, records tree and ground-vegetation observations against those
// units, and summarizes the surveyed community. The pkg directory is
// organized into four main areas:
//
//  1. Domain logic: [blueprint], [layout], [survey], [ecology], [chart]
//  2. Infrastructure: [store], [cache], [config], [observability]
//  3. Orchestration: [pipeline] (store → layout → analysis → report)
//  4. Surfaces: [render], [io], [api]
//
// # Architecture
//
// The typical data flow through plotkit:
//
//	Blueprint catalog (built-in + TOML files)
//	         ↓
//	    [layout] package (deterministic sampling-unit tree)
//	         ↓
//	    [store] package (plots, observations, progress)
//	         ↓
//	    [ecology] package (diversity, IVI, species accumulation)
//	         ↓
//	    [chart] package (plottable series + axes)
//	         ↓
//	    JSON report / DOT / SVG
//
// # Quick Start
//
// Generate a layout and summarize a handful of trees:
//
//	reg := blueprint.Default()
//	bp, _ := reg.Latest("tree-plot-20x20")
//	root, _ := layout.Generate(bp, layout.Overrides{}, "plot-1")
//
//	trees := []ecology.TreeObservation{
//	    {PlotID: "plot-1", SamplingUnitID: root.Children[0].ID, SpeciesName: "Quercus robur", StemGBH: []float64{120}},
//	}
//	d := ecology.Summarize(trees)
//	stats, _ := ecology.CommunityMetrics(trees, 1)
//	curve, _ := ecology.SAC(trees, []string{"plot-1"}, 100, ecology.NewSource(42))
//
// Most callers use [pipeline.Runner], which wires a store, a cache and the
// blueprint registry together and produces a cached [pipeline.Report].
//
// # Testing
//
//	go test ./pkg/...                 # All tests
//	go test ./pkg/ecology/...         # Specific package
//	go test -run Example ./pkg/...    # Examples only
//	go test -tags integration ./pkg/... # MongoDB store and Redis cache
//
// The integration tests skip unless PLOTKIT_TEST_MONGO_URI and
// PLOTKIT_TEST_REDIS_ADDR are set.
//
// [blueprint]: https://pkg.go.dev/github.com/matzehuels/plotkit/pkg/blueprint
// [layout]: https://pkg.go.dev/github.com/matzehuels/plotkit/pkg/layout
// [survey]: https://pkg.go.dev/github.com/matzehuels/plotkit/pkg/survey
// [ecology]: https://pkg.go.dev/github.com/matzehuels/plotkit/pkg/ecology
// [chart]: https://pkg.go.dev/github.com/matzehuels/plotkit/pkg/chart
// [store]: https://pkg.go.dev/github.com/matzehuels/plotkit/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/plotkit/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/plotkit/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/plotkit/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/plotkit/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/plotkit/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/plotkit/pkg/io
// [api]: https://pkg.go.dev/github.com/matzehuels/plotkit/pkg/api
package pkg
