package layout

import (
	"math"

	"github.com/matzehuels/phylolayout/pkg/errors"
	"github.com/matzehuels/phylolayout/pkg/tree"
)

// Scale holds the step sizes derived from the canvas and the tree.
type Scale struct {
	// XStep is the canvas height divided by the tip count.
	XStep float64 `json:"x_step"`
	// YStep is the canvas width divided by the max branch length.
	YStep float64 `json:"y_step"`
}

// NewScale derives step sizes for a canvas of the given width and height.
// It fails with DEGENERATE_TREE when there are no tips or the longest
// branch path has zero length.
func NewScale(width, height float64, tipCount int, maxBranchLength float64) (Scale, error) {
	if tipCount <= 0 {
		return Scale{}, errors.DegenerateTree("tree has no tips to lay out")
	}
	if !(maxBranchLength > 0) || math.IsInf(maxBranchLength, 0) {
		return Scale{}, errors.DegenerateTree("total branch length is %v; depth axis cannot be scaled", maxBranchLength)
	}
	return Scale{
		XStep: height / float64(tipCount),
		YStep: width / maxBranchLength,
	}, nil
}

// AssignCoordinates runs the coordinate pass top-down from the root and
// returns the nodes in visitation order (pre-order). DisplayOrder must be
// set.
//
// Each node's y is its parent's y plus its own scaled branch length; the
// root starts from 0. Tips sit at DisplayOrder*XStep and internal nodes at
// the arithmetic mean of their children's x.
func AssignCoordinates(root *tree.Node, s Scale) []*tree.Node {
	var visited []*tree.Node
	place(root, 0, s, &visited)
	return visited
}

func place(n *tree.Node, parentY float64, s Scale, visited *[]*tree.Node) {
	n.Y = parentY + n.BranchLength*s.YStep
	*visited = append(*visited, n)

	if n.IsTip() {
		n.X = float64(n.DisplayOrder) * s.XStep
		return
	}

	sum := 0.0
	for _, c := range n.Children {
		place(c, n.Y, s, visited)
		sum += c.X
	}
	n.X = sum / float64(len(n.Children))
}
