package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/plotkit/pkg/blueprint"
	"github.com/matzehuels/plotkit/pkg/layout"
)

// DefaultScale is the drawing scale in inches per metre.
const DefaultScale = 0.25

// Options configures DOT generation.
type Options struct {
	// Detailed adds the node path and dimensions to the labels.
	// When false, only the node label is shown.
	Detailed bool

	// Scale converts metres to inches. Zero means [DefaultScale].
	Scale float64

	// Done marks sampling units that are finished; they are filled green.
	Done map[string]bool
}

// ToDOT converts a layout tree to Graphviz DOT with every node pinned to its
// computed position. The result is meant for the neato engine.
//
// Nodes are emitted parent first so sampling units paint over their
// containers.
func ToDOT(root *layout.Node, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fixedsize=true, fontsize=10, margin=0];\n")
	buf.WriteString("\n")

	if root != nil {
		for n := range root.Walk() {
			attrs := fmtAttrs(n, opts, scale)
			fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *layout.Node, detailed bool) string {
	label := n.Label
	if label == "" {
		label = n.Path
	}
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n%s\n%s x %s m", label, n.Path, fmtNum(n.Width), fmtNum(n.Height))
}

func fmtAttrs(n *layout.Node, opts Options, scale float64) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtNum(n.CenterX()*scale), fmtNum(n.CenterY()*scale)),
		fmt.Sprintf("width=%s", fmtNum(n.Width*scale)),
		fmt.Sprintf("height=%s", fmtNum(n.Height*scale)),
	}

	switch n.Shape.Kind {
	case blueprint.ShapeCircle:
		attrs = append(attrs, "shape=ellipse")
	case blueprint.ShapePoint:
		attrs = append(attrs, "shape=circle")
	default:
		attrs = append(attrs, "shape=box")
	}

	switch {
	case !n.IsSamplingUnit():
		attrs = append(attrs, "style=dashed", "color=grey40", "labelloc=t")
	case opts.Done[n.ID]:
		attrs = append(attrs, "style=filled", "fillcolor=\"#b7e1a1\"")
	default:
		attrs = append(attrs, "style=filled", "fillcolor=white")
	}
	return attrs
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
