package tree

import (
	"cmp"
	"slices"

	"github.com/matzehuels/phylolayout/pkg/errors"
)

// CollapseSingletons removes every non-root node with exactly one active
// child, adding its branch length to that child. It returns the number of
// nodes removed.
func CollapseSingletons(t *Tree) int {
	removed := 0
	for _, n := range t.Nodes() {
		if n.Parent == nil || n == t.Root || len(n.Children) != 1 {
			continue
		}
		splice(n)
		removed++
	}
	return removed
}

// Thin removes leaves until the tree has at most target tips.
//
// Leaves are taken shortest branch first (ties by name). A leaf whose parent
// is an anchor is never removed; the root is always an anchor and anchors
// lists further node names. Parents left with one child are spliced out,
// parents left with none are removed. Thin stops early when no removable
// leaf remains and returns the number of leaves removed.
func Thin(t *Tree, target int, anchors ...string) int {
	if target < 0 {
		target = 0
	}
	anchored := make(map[string]bool, len(anchors))
	for _, a := range anchors {
		anchored[a] = true
	}
	isAnchor := func(n *Node) bool {
		return n == t.Root || anchored[n.Name]
	}

	removed := 0
	tips := t.TipCount()
	for tips > target {
		leaves := t.Leaves()
		slices.SortStableFunc(leaves, func(a, b *Node) int {
			if c := cmp.Compare(a.BranchLength, b.BranchLength); c != 0 {
				return c
			}
			return cmp.Compare(a.Name, b.Name)
		})

		progressed := false
		for _, l := range leaves {
			if tips <= target {
				break
			}
			if l.Parent == nil || isAnchor(l.Parent) {
				continue
			}
			tips -= detach(t, l)
			removed++
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return removed
}

// Collapse hides the children of each named internal node.
// Unknown names and tips are reported as INVALID_CONFIG.
func Collapse(t *Tree, names ...string) error {
	for _, name := range names {
		n := t.Find(name)
		if n == nil {
			return errors.New(errors.ErrCodeInvalidConfig, "collapse: no node named %q", name)
		}
		if !n.Collapse() {
			return errors.New(errors.ErrCodeInvalidConfig, "collapse: %q has no children to collapse", name)
		}
	}
	return nil
}

// detach removes n from its parent and repairs the parent. It returns the
// net number of tips lost.
func detach(t *Tree, n *Node) int {
	p := n.Parent
	p.Children = slices.DeleteFunc(p.Children, func(c *Node) bool { return c == n })
	n.Parent = nil

	lost := 0
	if n.IsTip() {
		lost = 1
	}
	if p == t.Root {
		if len(p.Children) == 0 {
			// The root became a childless tip.
			lost--
		}
		return lost
	}
	switch len(p.Children) {
	case 0:
		// p was not a tip while it held n; removing it loses nothing more.
		return lost + detach(t, p) - 1
	case 1:
		splice(p)
	}
	return lost
}

// splice replaces n in its parent's child list with n's only child.
func splice(n *Node) {
	child := n.Children[0]
	parent := n.Parent
	child.SetBranchLength(child.BranchLength + n.BranchLength)
	child.Parent = parent
	for i, c := range parent.Children {
		if c == n {
			parent.Children[i] = child
			break
		}
	}
	n.Parent = nil
	n.Children = nil
}
