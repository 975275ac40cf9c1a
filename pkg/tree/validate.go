package tree

import (
	"github.com/matzehuels/phylolayout/pkg/errors"
)

// Validate performs the strict shape checks the layout passes never do:
// every node is reached exactly once, parent links agree with child lists,
// and leaf names are unique. Collapsed subtrees are checked too.
func Validate(t *Tree) error {
	if t == nil || t.Root == nil {
		return errors.MalformedInput("missing root")
	}
	if t.Root.Parent != nil {
		return errors.MalformedInput("root %q has a parent", t.Root.Name)
	}

	seen := make(map[*Node]bool)
	names := make(map[string]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if seen[n] {
			return errors.MalformedInput("node %q is reachable more than once (cycle or shared subtree)", n.Name)
		}
		seen[n] = true

		if n.Kind == Leaf {
			if names[n.Name] {
				return errors.MalformedInput("duplicate leaf name %q", n.Name)
			}
			names[n.Name] = true
		}

		for _, list := range [][]*Node{n.Children, n.hidden} {
			for _, c := range list {
				if c == nil {
					return errors.MalformedInput("node %q has a nil child", n.Name)
				}
				if c.Parent != n {
					return errors.MalformedInput("node %q is linked under %q but its parent differs", c.Name, n.Name)
				}
				if err := visit(c); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return visit(t.Root)
}
