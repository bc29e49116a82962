// Package blueprint defines versioned plot layout templates and the
// registry that catalogs them.
//
// # Overview
//
// A [Blueprint] describes how the physical area of a survey plot subdivides
// into nested sampling regions. It is identified by an (ID, Version) pair and
// is never mutated once registered: a breaking change to the geometry ships
// as a new version so that observations recorded against an older layout are
// never reinterpreted under new coordinates.
//
// The tree of [NodeDefinition] values is the design-time description:
//
//   - CONTAINER nodes may carry a [Generator] that derives their children
//   - SAMPLING_UNIT nodes are always leaves; observations are recorded there
//
// Three generator kinds exist:
//
//   - GRID: rows x cols cells that fully tile the parent's bounding box
//   - FIXED_LIST: explicit children placed at an offset inside the parent
//   - NESTED: a single child centered inside the parent
//
// # Registry
//
// [Registry] validates blueprints on registration and rejects duplicate
// (ID, Version) pairs. [Default] returns a registry preloaded with the
// built-in catalog; extra templates can be loaded from TOML files:
//
//	reg := blueprint.Default()
//	if err := reg.LoadFile("field-season-2025.toml"); err != nil {
//	    return err
//	}
//	bp, err := reg.Get("tree-plot-20x20", 1)
//
// # Catalog Files
//
// Catalog files contain an array of blueprint tables:
//
//	[[blueprint]]
//	id = "shrub-plot-10x10"
//	version = 1
//	name = "Shrub plot 10 x 10 m"
//
//	[blueprint.root]
//	type = "CONTAINER"
//	shape = { kind = "RECTANGLE", width = 10.0, length = 10.0 }
//
//	[blueprint.root.generator]
//	kind = "GRID"
//	rows = 2
//	cols = 2
//	label_pattern = "S{index}"
package blueprint
