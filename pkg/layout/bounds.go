package layout

import "github.com/matzehuels/phylolayout/pkg/tree"

// ComputeBounds sets MinX and MaxX on every node to the horizontal extent of
// its subtree. Coordinates must already be assigned.
func ComputeBounds(n *tree.Node) {
	if n.IsTip() {
		n.MinX, n.MaxX = n.X, n.X
		return
	}
	for i, c := range n.Children {
		ComputeBounds(c)
		if i == 0 {
			n.MinX, n.MaxX = c.MinX, c.MaxX
			continue
		}
		n.MinX = min(n.MinX, c.MinX)
		n.MaxX = max(n.MaxX, c.MaxX)
	}
}
