package tree

// Kind discriminates internal branch points from tips.
type Kind int

const (
	// Internal is a branching point with one or more children.
	Internal Kind = iota
	// Leaf is a named terminal tip.
	Leaf
)

// Record type discriminator values.
const (
	TypeNode = "node"
	TypeLeaf = "leaf"
)

// Input record keys.
const (
	KeyType         = "type"
	KeyName         = "name"
	KeyBranchLength = "brlen"
	KeyChildren     = "children"
)

// String returns the record type for the kind ("node" or "leaf").
func (k Kind) String() string {
	if k == Leaf {
		return TypeLeaf
	}
	return TypeNode
}

// Node is a single vertex of a phylogenetic tree.
//
// Layout fields are zero until the corresponding pass has run.
type Node struct {
	Kind         Kind
	Name         string
	BranchLength float64

	// Attrs holds every field of the input record except children.
	Attrs map[string]any

	// Children is the active child list. Only the ordering pass reorders it.
	Children []*Node
	Parent   *Node

	// hidden holds the children of a collapsed node.
	hidden []*Node

	// Statistics and ordering.
	LayerCount   int
	MinOrder     int
	MaxOrder     int
	Order        int
	DisplayOrder int

	// Coordinates and subtree bounds.
	X, Y       float64
	MinX, MaxX float64
}

// NewLeaf creates a tip node.
func NewLeaf(name string, branchLength float64) *Node {
	return &Node{
		Kind:         Leaf,
		Name:         name,
		BranchLength: branchLength,
		Attrs: map[string]any{
			KeyType:         TypeLeaf,
			KeyName:         name,
			KeyBranchLength: branchLength,
		},
	}
}

// NewInternal creates a branch point and adopts children.
func NewInternal(name string, branchLength float64, children ...*Node) *Node {
	n := &Node{
		Kind:         Internal,
		Name:         name,
		BranchLength: branchLength,
		Attrs: map[string]any{
			KeyType:         TypeNode,
			KeyBranchLength: branchLength,
		},
	}
	if name != "" {
		n.Attrs[KeyName] = name
	}
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

// AddChild appends c to the active children and sets its parent.
func (n *Node) AddChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// IsLeaf reports whether n is a Leaf-typed node.
func (n *Node) IsLeaf() bool { return n.Kind == Leaf }

// IsTip reports whether n occupies a display slot: a leaf, or an internal
// node whose active children list is empty.
func (n *Node) IsTip() bool { return n.Kind == Leaf || len(n.Children) == 0 }

// Collapsed reports whether n's children are hidden.
func (n *Node) Collapsed() bool { return len(n.hidden) > 0 }

// Collapse hides the active children of an internal node.
// It returns false when there is nothing to collapse.
func (n *Node) Collapse() bool {
	if n.Kind != Internal || len(n.Children) == 0 {
		return false
	}
	n.hidden, n.Children = n.Children, nil
	return true
}

// Expand restores the children hidden by Collapse.
// It returns false when n is not collapsed.
func (n *Node) Expand() bool {
	if len(n.hidden) == 0 {
		return false
	}
	n.Children, n.hidden = n.hidden, nil
	return true
}

// SetBranchLength updates the branch length and the matching attribute.
func (n *Node) SetBranchLength(v float64) {
	n.BranchLength = v
	if n.Attrs == nil {
		n.Attrs = make(map[string]any)
	}
	n.Attrs[KeyBranchLength] = v
}

// Walk visits n and its active descendants in pre-order.
// Returning false from fn skips the node's subtree.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Tree is a single rooted hierarchy.
type Tree struct {
	Root *Node
}

// New wraps root in a Tree.
func New(root *Node) *Tree {
	return &Tree{Root: root}
}

// Nodes returns every reachable node in pre-order.
func (t *Tree) Nodes() []*Node {
	var out []*Node
	t.Root.Walk(func(n *Node, _ int) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Leaves returns every reachable Leaf-typed node in pre-order.
func (t *Tree) Leaves() []*Node {
	var out []*Node
	t.Root.Walk(func(n *Node, _ int) bool {
		if n.Kind == Leaf {
			out = append(out, n)
		}
		return true
	})
	return out
}

// NodeCount returns the number of reachable nodes.
func (t *Tree) NodeCount() int {
	count := 0
	t.Root.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// TipCount returns the number of reachable tips (see Node.IsTip).
func (t *Tree) TipCount() int {
	count := 0
	t.Root.Walk(func(n *Node, _ int) bool {
		if n.IsTip() {
			count++
		}
		return true
	})
	return count
}

// Find returns the first node in pre-order with the given name.
func (t *Tree) Find(name string) *Node {
	var found *Node
	t.Root.Walk(func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}
