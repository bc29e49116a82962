// Package render hands computed plot layouts to Graphviz.
//
// # Overview
//
// A layout already carries absolute coordinates for every node, so the
// renderer does not let Graphviz place anything. [ToDOT] emits a neato
// graph where each node is pinned to its center (pos="x,y!") and sized to
// its bounding box. Containers are drawn as dashed outlines and sampling
// units as filled boxes on top of them.
//
// # Usage
//
//	root, _ := layout.Generate(bp, layout.Overrides{}, plotID)
//	dot := render.ToDOT(root, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Dependencies
//
// [RenderSVG] uses [github.com/goccy/go-graphviz] for in-process rendering,
// so no Graphviz installation is required. The DOT text can also be fed to
// an external "neato -n" if other output formats are needed.
package render
