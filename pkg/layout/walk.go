package layout

import "iter"

// Walk returns a depth-first, pre-order iterator over n and all of its
// descendants. Children are visited in layout order.
func (n *Node) Walk() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// Leaves returns a depth-first iterator over the sampling units below and
// including n.
func (n *Node) Leaves() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for node := range n.Walk() {
			if node.IsSamplingUnit() && !yield(node) {
				return
			}
		}
	}
}

// SamplingUnits collects [Node.Leaves] into a slice.
func (n *Node) SamplingUnits() []*Node {
	var units []*Node
	for u := range n.Leaves() {
		units = append(units, u)
	}
	return units
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	count := 0
	for range n.Walk() {
		count++
	}
	return count
}

// Find returns the node with the given id.
func (n *Node) Find(id string) (*Node, bool) {
	for node := range n.Walk() {
		if node.ID == id {
			return node, true
		}
	}
	return nil, false
}

// ByPath returns the node at the given structural path.
func (n *Node) ByPath(path string) (*Node, bool) {
	for node := range n.Walk() {
		if node.Path == path {
			return node, true
		}
	}
	return nil, false
}

// Index maps every node id in the tree to its node.
func (n *Node) Index() map[string]*Node {
	idx := make(map[string]*Node)
	for node := range n.Walk() {
		idx[node.ID] = node
	}
	return idx
}
