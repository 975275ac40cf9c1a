package layout

import (
	"encoding/json"
	"maps"
	"math"
	"strconv"

	"github.com/matzehuels/phylolayout/pkg/tree"
)

// Record field names set by the engine. They override input attributes
// of the same name.
const (
	FieldName         = "name"
	FieldX            = "x"
	FieldY            = "y"
	FieldParent       = "up"
	FieldMinX         = "min_x"
	FieldMaxX         = "max_x"
	FieldLayerCount   = "layer_count"
	FieldOrder        = "order"
	FieldDisplayOrder = "display_order"
	FieldMinOrder     = "min_order"
	FieldMaxOrder     = "max_order"
)

// Record is one flat output entry per visited node.
type Record struct {
	Name string
	X, Y float64

	// Parent is the index of the parent's record, or -1 for the root.
	// Records are in pre-order, so Parent is always less than the
	// record's own index.
	Parent int

	// Attrs holds the node's input attributes plus any requested extras.
	Attrs map[string]any
}

// Map returns the flattened record: attributes overlaid with name, x and y.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Attrs)+3)
	maps.Copy(m, r.Attrs)
	m[FieldName] = r.Name
	m[FieldX] = r.X
	m[FieldY] = r.Y
	return m
}

// MarshalJSON encodes the flattened record. Keys are sorted by
// encoding/json, which keeps output byte-stable. Non-finite floats in
// pass-through attributes are written as the strings "NaN", "+Inf" and
// "-Inf".
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonSafe(r.Map()))
}

func jsonSafe(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return strconv.FormatFloat(x, 'g', -1, 64)
		}
		return x
	case float32:
		return jsonSafe(float64(x))
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = jsonSafe(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonSafe(e)
		}
		return out
	}
	return v
}

// Emit flattens visited nodes into records, in order.
func Emit(visited []*tree.Node, opts Options) []Record {
	index := make(map[*tree.Node]int, len(visited))
	records := make([]Record, len(visited))

	for i, n := range visited {
		index[n] = i

		attrs := make(map[string]any, len(n.Attrs)+8)
		maps.Copy(attrs, n.Attrs)
		delete(attrs, tree.KeyChildren)

		parent := -1
		if p, ok := index[n.Parent]; ok {
			parent = p
		}

		if opts.IncludeParent {
			if n.Parent != nil {
				attrs[FieldParent] = n.Parent.Name
			} else {
				attrs[FieldParent] = nil
			}
		}
		if opts.IncludeBounds {
			attrs[FieldMinX] = n.MinX
			attrs[FieldMaxX] = n.MaxX
		}
		if opts.IncludeStats {
			attrs[FieldLayerCount] = n.LayerCount
			attrs[FieldMinOrder] = n.MinOrder
			attrs[FieldMaxOrder] = n.MaxOrder
			if n.IsTip() {
				attrs[FieldOrder] = n.Order
				attrs[FieldDisplayOrder] = n.DisplayOrder
			}
		}

		records[i] = Record{
			Name:   n.Name,
			X:      n.X,
			Y:      n.Y,
			Parent: parent,
			Attrs:  attrs,
		}
	}

	if opts.Normalize {
		normalize(records)
	}
	if opts.Reflect {
		reflectAxes(records)
	}
	return records
}

// normalize rescales x and y independently into [0, 1]. An axis with no
// extent maps to 0.
func normalize(records []Record) {
	if len(records) == 0 {
		return
	}
	minX, maxX := records[0].X, records[0].X
	minY, maxY := records[0].Y, records[0].Y
	for _, r := range records[1:] {
		minX, maxX = min(minX, r.X), max(maxX, r.X)
		minY, maxY = min(minY, r.Y), max(maxY, r.Y)
	}
	for i := range records {
		records[i].X = rescale(records[i].X, minX, maxX)
		records[i].Y = rescale(records[i].Y, minY, maxY)
	}
}

func rescale(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

// reflectAxes maps (x, y) to (y, -x), turning a left-to-right tree into a
// top-down one.
func reflectAxes(records []Record) {
	for i := range records {
		x, y := records[i].X, records[i].Y
		records[i].X = y
		records[i].Y = negate(x)
	}
}

// negate avoids emitting -0.
func negate(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}
