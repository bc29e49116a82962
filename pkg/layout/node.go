package layout

import (
	"github.com/matzehuels/plotkit/pkg/blueprint"
)

// Node is one realized node of a plot layout.
// All coordinates are in meters relative to the plot origin.
type Node struct {
	ID    string             `json:"id"`
	Path  string             `json:"path"`
	Label string             `json:"label,omitempty"`
	Type  blueprint.NodeType `json:"type"`
	Role  string             `json:"role,omitempty"`
	Tags  []string           `json:"tags,omitempty"`

	// X, Y is the lower-left corner of the bounding box.
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	Shape  blueprint.Shape `json:"shape"`

	// Stable is false for preview layouts whose ids must not be stored.
	Stable   bool    `json:"stable"`
	Children []*Node `json:"children,omitempty"`
}

// IsSamplingUnit reports whether the node is a leaf where observations are recorded.
func (n *Node) IsSamplingUnit() bool { return n.Type == blueprint.SamplingUnit }

// Right returns the maximum X of the bounding box.
func (n *Node) Right() float64 { return n.X + n.Width }

// Top returns the maximum Y of the bounding box.
func (n *Node) Top() float64 { return n.Y + n.Height }

// CenterX returns the horizontal center point of the node.
func (n *Node) CenterX() float64 { return n.X + n.Width/2 }

// CenterY returns the vertical center point of the node.
func (n *Node) CenterY() float64 { return n.Y + n.Height/2 }

// Area returns the area of the node's shape in square meters.
func (n *Node) Area() float64 {
	a, err := n.Shape.Area()
	if err != nil {
		return n.Width * n.Height
	}
	return a
}

// Contains reports whether the point (x, y) lies inside the bounding box.
func (n *Node) Contains(x, y float64) bool {
	return x >= n.X && x <= n.Right() && y >= n.Y && y <= n.Top()
}
