package tree

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/phylolayout/pkg/errors"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestBuild(t *testing.T) {
	rec := decode(t, `{
		"type": "node", "name": "root",
		"children": [
			{"type": "leaf", "name": "b", "brlen": 1, "deme": 3, "children": []},
			{"type": "node", "brlen": "0.5", "children": [
				{"type": "leaf", "name": "a", "brlen": "2.25", "children": null}
			]}
		]
	}`)

	tr, err := Build(rec)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	root := tr.Root
	if root.Kind != Internal || root.Name != "root" {
		t.Errorf("root = %v %q, want node root", root.Kind, root.Name)
	}
	if len(root.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(root.Children))
	}

	b := root.Children[0]
	if b.Kind != Leaf || b.BranchLength != 1 || b.Parent != root {
		t.Errorf("b = %+v", b)
	}
	if got := b.Attrs["deme"]; got != json.Number("3") {
		t.Errorf("b deme attr = %#v, want json.Number(3)", got)
	}
	if _, ok := b.Attrs[KeyChildren]; ok {
		t.Error("children should not be kept as an attribute")
	}

	inner := root.Children[1]
	if inner.BranchLength != 0.5 {
		t.Errorf("inner brlen = %v, want 0.5", inner.BranchLength)
	}
	if got := inner.Children[0].BranchLength; got != 2.25 {
		t.Errorf("a brlen = %v, want 2.25", got)
	}
	if tr.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", tr.NodeCount())
	}
	if len(tr.Leaves()) != 2 {
		t.Errorf("Leaves() = %d, want 2", len(tr.Leaves()))
	}
}

func TestBuildLeafEmptyChildren(t *testing.T) {
	for _, children := range []string{`[]`, `null`} {
		rec := decode(t, `{"type": "node", "children": [{"type": "leaf", "name": "a", "brlen": 1, "children": `+children+`}]}`)
		tr, err := Build(rec)
		if err != nil {
			t.Fatalf("children %s: Build() error: %v", children, err)
		}
		a := tr.Find("a")
		if a == nil || a.Kind != Leaf || len(a.Children) != 0 {
			t.Errorf("children %s: a = %+v, want leaf without children", children, a)
		}
	}
}

func TestBuildNonFiniteBranchLength(t *testing.T) {
	tests := []struct {
		name  string
		brlen any
	}{
		{"nan", math.NaN()},
		{"+inf", math.Inf(1)},
		{"-inf", math.Inf(-1)},
		{"float32 nan", float32(math.NaN())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := map[string]any{
				"type": "node",
				"children": []any{
					map[string]any{"type": "leaf", "name": "a", "brlen": tt.brlen},
				},
			}
			tr, err := Build(rec)
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			a := tr.Find("a")
			if a.BranchLength != 0 {
				t.Errorf("BranchLength = %v, want 0", a.BranchLength)
			}
			if got := a.Attrs[KeyBranchLength]; got != 0.0 {
				t.Errorf("brlen attr = %#v, want 0", got)
			}
		})
	}
}

func TestBuildMalformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"null root", `null`, "missing root"},
		{"array root", `[1, 2]`, "expected object"},
		{"missing type", `{"name": "x"}`, "missing type"},
		{"unknown type", `{"type": "branch"}`, "unknown type"},
		{"node without children", `{"type": "node"}`, "no children"},
		{"node with empty children", `{"type": "node", "children": []}`, "no children"},
		{"leaf without name", `{"type": "leaf"}`, "no name"},
		{"leaf with children", `{"type": "leaf", "name": "a", "children": [{"type": "leaf", "name": "b"}]}`, "has children"},
		{"child not object", `{"type": "node", "children": ["a"]}`, "root.children[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(decode(t, tt.input))
			if err == nil {
				t.Fatal("Build() should fail")
			}
			if !errors.Is(err, errors.ErrCodeMalformedInput) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeMalformedInput)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParseBranchLength(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"absent", nil, 0},
		{"float", 1.5, 1.5},
		{"int", 3, 3},
		{"json number", json.Number("0.25"), 0.25},
		{"numeric string", " 2.5 ", 2.5},
		{"exponent string", "1e-3", 0.001},
		{"garbage string", "abc", 0},
		{"empty string", "", 0},
		{"bool", true, 0},
		{"negative", -4.0, 0},
		{"nan", math.NaN(), 0},
		{"inf string", "Inf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseBranchLength(tt.in); got != tt.want {
				t.Errorf("ParseBranchLength(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
