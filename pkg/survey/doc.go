// Package survey models plots in the field and their sampling progress.
//
// A [Plot] pins the exact blueprint version it was laid out with. Its
// committed layout is regenerated from that pinned version on demand, so
// stored sampling-unit ids stay valid after the blueprint catalog moves on:
//
//	p := survey.NewPlot("Sal forest 3", "tree-plot-20x20", 1)
//	root, err := p.Layout(registry, layout.Overrides{})
//
// [Completion] summarizes how many sampling units of a layout have been
// surveyed.
package survey
