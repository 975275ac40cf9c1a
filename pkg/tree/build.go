package tree

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/phylolayout/pkg/errors"
)

// Build materializes a decoded hierarchical record into a Tree.
//
// The record must be an object with a "type" of "node" or "leaf". Nodes need
// a non-empty "children" list and leaves need a "name" and no children.
// Violations are returned as MALFORMED_INPUT errors naming the offending
// record path, e.g. "root.children[2].children[0]".
func Build(record any) (*Tree, error) {
	if record == nil {
		return nil, errors.MalformedInput("missing root record")
	}
	root, err := build(record, "root")
	if err != nil {
		return nil, err
	}
	return New(root), nil
}

func build(v any, path string) (*Node, error) {
	rec, ok := v.(map[string]any)
	if !ok {
		return nil, errors.MalformedInput("%s: expected object, got %s", path, describe(v))
	}

	typ, _ := rec[KeyType].(string)
	name, hasName := nameOf(rec[KeyName])
	children, hasChildren := rec[KeyChildren]

	n := &Node{
		Name:         name,
		BranchLength: ParseBranchLength(rec[KeyBranchLength]),
		Attrs:        make(map[string]any, len(rec)),
	}
	for k, val := range rec {
		if k != KeyChildren {
			n.Attrs[k] = val
		}
	}
	if nonFinite(rec[KeyBranchLength]) {
		n.SetBranchLength(n.BranchLength)
	}

	switch typ {
	case TypeLeaf:
		n.Kind = Leaf
		if !hasName || name == "" {
			return nil, errors.MalformedInput("%s: leaf has no name", path)
		}
		if hasChildren && !emptyChildren(children) {
			return nil, errors.MalformedInput("%s: leaf %q has children", path, name)
		}
		return n, nil

	case TypeNode:
		n.Kind = Internal
		list, ok := children.([]any)
		if !ok || len(list) == 0 {
			return nil, errors.MalformedInput("%s: node has no children", path)
		}
		n.Children = make([]*Node, 0, len(list))
		for i, cv := range list {
			c, err := build(cv, fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return nil, err
			}
			c.Parent = n
			n.Children = append(n.Children, c)
		}
		return n, nil

	case "":
		return nil, errors.MalformedInput("%s: missing type", path)
	default:
		return nil, errors.MalformedInput("%s: unknown type %q (must be node or leaf)", path, typ)
	}
}

// emptyChildren reports whether a leaf's children value is null or an empty
// list. Upstream exporters attach "children": [] to every record.
func emptyChildren(v any) bool {
	if v == nil {
		return true
	}
	list, ok := v.([]any)
	return ok && len(list) == 0
}

// nonFinite reports whether v is a NaN or infinite float, as YAML decodes
// .nan and .inf.
func nonFinite(v any) bool {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	default:
		return false
	}
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// ParseBranchLength converts a decoded brlen value to a float.
// Absent, unparsable, non-finite and negative values yield 0.
func ParseBranchLength(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		p, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return 0
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = p
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// nameOf accepts string names and numeric names from YAML or JSON.
func nameOf(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return string(x), true
	case int, int64, uint64, float64:
		return fmt.Sprint(x), true
	}
	return "", false
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64, uint64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
