package layout

import "github.com/matzehuels/phylolayout/pkg/tree"

// Stats holds whole-tree statistics from the statistics pass.
type Stats struct {
	// MaxDepth is the highest level index reached (0 for a lone tip).
	MaxDepth int
	// LevelWidths[l] is the number of nodes at level l.
	LevelWidths []int
	// MaxBranchLength is the longest cumulative branch length from the
	// root (own length included) to any tip.
	MaxBranchLength float64
}

// ComputeStats runs the statistics pass, setting LayerCount on every node.
func ComputeStats(root *tree.Node) Stats {
	widths := []int{1}
	longest := stat(root, 0, &widths)
	return Stats{
		MaxDepth:        len(widths) - 1,
		LevelWidths:     widths,
		MaxBranchLength: longest,
	}
}

// stat sets n.LayerCount and returns the subtree's max branch length.
func stat(n *tree.Node, level int, widths *[]int) float64 {
	if n.IsTip() {
		n.LayerCount = 0
		return n.BranchLength
	}

	if len(*widths) <= level+1 {
		*widths = append(*widths, 0)
	}
	(*widths)[level+1] += len(n.Children)

	layers := 0
	longest := 0.0
	for _, c := range n.Children {
		l := stat(c, level+1, widths)
		layers = max(layers, c.LayerCount)
		longest = max(longest, l)
	}
	n.LayerCount = 1 + layers
	return n.BranchLength + longest
}
