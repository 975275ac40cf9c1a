// Package layout computes render-ready coordinates for phylogenetic trees.
//
// The engine runs five passes over a [tree.Tree] in strict order, mutating
// nodes in place:
//
//  1. Statistics ([ComputeStats]): post-order layer counts, level widths and
//     the longest root-to-tip branch length.
//  2. Sort ([SortChildren]): siblings are reordered top-down. Lighter
//     subtrees (fewer layers) come first; leaf siblings are ordered by name,
//     case-insensitively. The sort is stable, so ties keep input order.
//  3. Ordering ([AssignOrders], [AssignDisplayOrders]): two independent
//     left-to-right traversals number the tips 1..n and record the order
//     range each subtree spans.
//  4. Coordinates ([AssignCoordinates]): tips are spread evenly along x over
//     the canvas height, internal nodes sit at the mean of their children,
//     and y accumulates scaled branch lengths from the root.
//  5. Bounds ([ComputeBounds]): post-order min/max x of every subtree.
//
// [Run] applies all passes and flattens the result into [Record] values in
// coordinate-pass visitation order (pre-order of the sorted tree).
//
// # Determinism
//
// The passes use no maps, randomness or concurrency. Given the same input
// tree and [Options], Run produces identical records.
//
// # Failure
//
// A tree without tips, or whose longest root-to-tip path has zero length,
// cannot be scaled and fails with DEGENERATE_TREE rather than producing NaN
// or infinite coordinates.
package layout
