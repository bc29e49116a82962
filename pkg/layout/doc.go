// Package layout derives the concrete geometric tree of a survey plot from a
// blueprint.
//
// # Overview
//
// [Generate] walks a [blueprint.Blueprint] and returns the root [Node] of a
// tree of containers and sampling units with absolute coordinates (meters,
// relative to the plot's local origin) and stable identifiers:
//
//	root, err := layout.Generate(bp, layout.Overrides{}, plot.ID)
//	for unit := range root.Leaves() {
//	    fmt.Println(unit.Label, unit.ID, unit.X, unit.Y)
//	}
//
// # Identity Modes
//
// Two entry points make the identity contract explicit:
//
//   - [Generate] (committed): requires a plot id. Node ids are UUIDv5 values
//     derived from blueprint id, version, plot id and structural path, so
//     regenerating a layout for the same (blueprint, version, plot) yields
//     byte-identical ids and coordinates. Observations keyed by a
//     sampling-unit id stay valid indefinitely.
//   - [Preview]: design-time rendering without a plot. Ids are random and
//     [Node.Stable] is false; they must never be stored.
//
// # Geometry
//
// Every node carries the lower-left corner (X, Y) and size (Width, Height)
// of its bounding box in one flat coordinate space. A GRID generator divides
// the parent's bounding box independently along X and Y, so cells always
// tile the parent exactly even when their aspect ratio differs from it.
// Row order TOP_TO_BOTTOM places logical row 0 at the highest Y.
//
// # Traversal
//
// [Node.Walk] and [Node.Leaves] return lazy depth-first iterators that can be
// ranged over any number of times.
package layout
