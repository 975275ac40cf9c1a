package layout

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/matzehuels/phylolayout/pkg/tree"
)

// SortChildren reorders siblings at every internal node, top-down.
//
// When either sibling is an expanded internal node they compare by ascending
// LayerCount; two tips compare by case-folded name. The sort is stable. LayerCount
// must already be set by ComputeStats.
func SortChildren(root *tree.Node) {
	s := sorter{fold: cases.Fold()}
	s.sort(root)
}

// sorter carries one case folder per sort; a Caser is not safe for
// concurrent use.
type sorter struct {
	fold cases.Caser
}

func (s *sorter) sort(n *tree.Node) {
	if len(n.Children) == 0 {
		return
	}
	slices.SortStableFunc(n.Children, s.compare)
	for _, c := range n.Children {
		s.sort(c)
	}
}

// compare orders tips by folded name and everything else by LayerCount.
// A collapsed node is a tip with LayerCount 0, so it sorts among the leaves
// by name and ahead of every expanded internal sibling.
func (s *sorter) compare(a, b *tree.Node) int {
	if a.IsTip() && b.IsTip() {
		return strings.Compare(s.fold.String(a.Name), s.fold.String(b.Name))
	}
	return cmp.Compare(a.LayerCount, b.LayerCount)
}

// AssignOrders numbers tips left to right and records, for every node
// below the root, the inclusive range of tip orders it spans. The root spans
// 1..n. It returns n, the tip count.
func AssignOrders(root *tree.Node) int {
	order := 0
	root.MinOrder = 1
	assignOrder(root, &order)
	root.MaxOrder = order
	return order
}

func assignOrder(n *tree.Node, order *int) {
	if n.IsTip() {
		*order++
		n.Order = *order
		return
	}
	for _, c := range n.Children {
		c.MinOrder = *order + 1
		assignOrder(c, order)
		c.MaxOrder = *order
	}
}

// AssignDisplayOrders numbers tips left to right into DisplayOrder with its
// own counter, independent of AssignOrders. It returns the tip count.
func AssignDisplayOrders(root *tree.Node) int {
	return assignDisplayOrder(root, 0)
}

func assignDisplayOrder(n *tree.Node, next int) int {
	if n.IsTip() {
		next++
		n.DisplayOrder = next
		return next
	}
	for _, c := range n.Children {
		next = assignDisplayOrder(c, next)
	}
	return next
}
