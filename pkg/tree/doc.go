// Package tree provides the in-memory phylogenetic tree consumed by the
// layout engine.
//
// A [Tree] owns a single rooted hierarchy of [Node] values. Each node is
// either an internal branch point ([Internal]) or a named tip ([Leaf]), and
// carries the length of the edge leading to it from its parent. Layout
// passes mutate nodes in place; nothing in this package copies subtrees.
//
// # Building
//
// Trees are materialized from a decoded hierarchical record, the shape
// produced by decoding JSON or YAML into an untyped value:
//
//	{
//	  "type": "node",
//	  "children": [
//	    {"type": "leaf", "name": "a", "brlen": 2},
//	    {"type": "leaf", "name": "b", "brlen": "1"}
//	  ]
//	}
//
// [Build] checks the structure while walking it and reports problems as
// MALFORMED_INPUT errors. Branch lengths are lenient: anything that does not
// parse as a finite non-negative number becomes 0.
//
// Every field of an input record except "children" is kept in [Node.Attrs]
// so emitted layout records can carry domain annotations (inferred deme,
// sampling time) through to downstream consumers.
//
// # Collapsing
//
// A node exposes exactly one active children list. [Node.Collapse] hides it
// and [Node.Expand] restores it; a collapsed internal node is laid out as a
// tip. See [Node.IsTip].
//
// # Transforms
//
// [CollapseSingletons] and [Thin] reshape a tree before layout. [Validate]
// is an optional strict check for duplicate leaf names and broken links.
package tree
