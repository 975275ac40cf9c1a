package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/phylolayout/pkg/errors"
	"github.com/matzehuels/phylolayout/pkg/layout"
	"github.com/matzehuels/phylolayout/pkg/observability"
)

const twoLeaves = `{"type": "node", "children": [
	{"type": "leaf", "name": "b", "brlen": 1},
	{"type": "leaf", "name": "a", "brlen": 2}
]}`

const outbreak = `{"type": "node", "name": "root", "children": [
	{"type": "node", "name": "clade", "brlen": 0.4, "children": [
		{"type": "leaf", "name": "Delta", "brlen": 0.1, "deme": "north"},
		{"type": "node", "name": "inner", "brlen": 0.2, "children": [
			{"type": "leaf", "name": "charlie", "brlen": 0.7, "deme": "south"}
		]}
	]},
	{"type": "leaf", "name": "bravo", "brlen": 1.1, "deme": "east"},
	{"type": "leaf", "name": "Alpha", "brlen": 0.2, "deme": "north"},
	{"type": "leaf", "name": "echo", "brlen": 0.05, "deme": "west"}
]}`

func TestExecuteEndToEnd(t *testing.T) {
	r := NewRunner(nil)
	res, err := r.Execute(context.Background(), strings.NewReader(twoLeaves), Options{Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if res.Layout.Scale != (layout.Scale{XStep: 50, YStep: 50}) {
		t.Errorf("scale = %+v, want {50 50}", res.Layout.Scale)
	}

	type point struct {
		Name string
		X, Y float64
	}
	var got []point
	for _, rec := range res.Layout.Records {
		got = append(got, point{rec.Name, rec.X, rec.Y})
	}
	want := []point{{"", 75, 0}, {"a", 50, 100}, {"b", 100, 50}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	if res.Stats.NodeCount != 3 || res.Stats.TipCount != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.RunID == "" {
		t.Error("RunID should be set")
	}
	if !bytes.HasPrefix(res.Output, []byte("[\n")) {
		t.Errorf("Output is not a JSON array:\n%s", res.Output)
	}
}

func TestExecuteDeterministic(t *testing.T) {
	for _, format := range []string{"json", "jsonl", "msgpack", "dot"} {
		t.Run(format, func(t *testing.T) {
			opts := Options{
				Format:        format,
				IncludeParent: true,
				IncludeBounds: true,
				IncludeStats:  true,
			}
			r := NewRunner(nil)

			first, err := r.Execute(context.Background(), strings.NewReader(outbreak), opts)
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			second, err := r.Execute(context.Background(), strings.NewReader(outbreak), opts)
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if !bytes.Equal(first.Output, second.Output) {
				t.Errorf("output differs between runs")
			}
		})
	}
}

func TestExecuteTransforms(t *testing.T) {
	r := NewRunner(nil)

	t.Run("collapse singletons", func(t *testing.T) {
		res, err := r.Execute(context.Background(), strings.NewReader(outbreak), Options{CollapseSingletons: true})
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
		if res.Stats.Spliced != 1 {
			t.Errorf("Spliced = %d, want 1", res.Stats.Spliced)
		}
		if n := res.Tree.Find("inner"); n != nil {
			t.Error("inner should be spliced out")
		}
		// 0.2 + 0.7
		if got := res.Tree.Find("charlie").BranchLength; got < 0.8999 || got > 0.9001 {
			t.Errorf("charlie brlen = %v, want 0.9", got)
		}
	})

	t.Run("collapse subtree", func(t *testing.T) {
		res, err := r.Execute(context.Background(), strings.NewReader(outbreak), Options{Collapse: []string{"clade"}})
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
		if res.Stats.TipCount != 4 || res.Stats.NodeCount != 5 {
			t.Errorf("tips = %d nodes = %d, want 4, 5", res.Stats.TipCount, res.Stats.NodeCount)
		}
	})

	t.Run("thin", func(t *testing.T) {
		res, err := r.Execute(context.Background(), strings.NewReader(outbreak), Options{Thin: 4})
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
		if res.Stats.TipCount != 4 || res.Stats.Thinned != 1 {
			t.Errorf("tips = %d thinned = %d, want 4, 1", res.Stats.TipCount, res.Stats.Thinned)
		}
	})

	t.Run("unknown collapse target", func(t *testing.T) {
		_, err := r.Execute(context.Background(), strings.NewReader(outbreak), Options{Collapse: []string{"nope"}})
		if !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Execute() error = %v, want INVALID_CONFIG", err)
		}
	})

	t.Run("strict duplicate names", func(t *testing.T) {
		dup := `{"type": "node", "children": [
			{"type": "leaf", "name": "a", "brlen": 1},
			{"type": "leaf", "name": "a", "brlen": 1}
		]}`
		if _, err := r.Execute(context.Background(), strings.NewReader(dup), Options{}); err != nil {
			t.Fatalf("non-strict Execute() error: %v", err)
		}
		_, err := r.Execute(context.Background(), strings.NewReader(dup), Options{Strict: true})
		if !errors.Is(err, errors.ErrCodeMalformedInput) {
			t.Errorf("strict Execute() error = %v, want MALFORMED_INPUT", err)
		}
	})
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		code  errors.Code
	}{
		{"malformed", `{"type": "node"}`, Options{}, errors.ErrCodeMalformedInput},
		{"degenerate", `{"type": "node", "children": [{"type": "leaf", "name": "a"}]}`, Options{}, errors.ErrCodeDegenerateTree},
		{"bad canvas", twoLeaves, Options{Width: -1}, errors.ErrCodeInvalidConfig},
		{"bad format", twoLeaves, Options{Format: "png"}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewRunner(nil).Execute(context.Background(), strings.NewReader(tt.input), tt.opts)
			if res != nil {
				t.Error("Execute() should not return a result on failure")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil).Execute(ctx, strings.NewReader(twoLeaves), Options{})
	if err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestExecuteLogsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	res, err := NewRunner(logger).Execute(context.Background(), strings.NewReader(twoLeaves), Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"computed layout", "pass complete", "run=" + res.RunID} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if bytes.Contains(res.Output, []byte(res.RunID)) {
		t.Error("run ID must not appear in output")
	}
}

func TestExecuteHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)

	if _, err := NewRunner(nil).Execute(context.Background(), strings.NewReader(twoLeaves), Options{}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := []string{
		"read", "layout-start",
		"pass:stats", "pass:sort", "pass:order", "pass:coordinates", "pass:bounds", "pass:emit",
		"layout-complete", "write",
	}
	if diff := cmp.Diff(want, hooks.events); diff != "" {
		t.Errorf("hook events mismatch (-want +got):\n%s", diff)
	}
	if hooks.tips != 2 {
		t.Errorf("OnLayoutComplete tips = %d, want 2", hooks.tips)
	}
}

func TestInspect(t *testing.T) {
	s, err := NewRunner(nil).Inspect(context.Background(), strings.NewReader(outbreak), Options{Collapse: []string{"inner"}})
	if err != nil {
		t.Fatalf("Inspect() error: %v", err)
	}

	if s.Nodes != 7 || s.Leaves != 4 || s.Tips != 5 || s.Collapsed != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.Stats.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", s.Stats.MaxDepth)
	}
	if s.Scale == nil || s.Degenerate != "" {
		t.Fatalf("Scale = %v, Degenerate = %q", s.Scale, s.Degenerate)
	}
	if s.Scale.XStep != 200 {
		t.Errorf("XStep = %v, want 200", s.Scale.XStep)
	}
}

func TestInspectDegenerate(t *testing.T) {
	input := `{"type": "node", "children": [{"type": "leaf", "name": "a"}]}`
	s, err := NewRunner(nil).Inspect(context.Background(), strings.NewReader(input), Options{})
	if err != nil {
		t.Fatalf("Inspect() error: %v", err)
	}
	if s.Scale != nil || s.Degenerate == "" {
		t.Errorf("Scale = %v, Degenerate = %q; want degenerate", s.Scale, s.Degenerate)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
	tips   int
}

func (h *recordingHooks) OnReadComplete(context.Context, string, int, time.Duration, error) {
	h.events = append(h.events, "read")
}

func (h *recordingHooks) OnLayoutStart(context.Context, int) {
	h.events = append(h.events, "layout-start")
}

func (h *recordingHooks) OnPassComplete(_ context.Context, pass string, _ time.Duration) {
	h.events = append(h.events, "pass:"+pass)
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, tips int, _ time.Duration, _ error) {
	h.events = append(h.events, "layout-complete")
	h.tips = tips
}

func (h *recordingHooks) OnWriteComplete(context.Context, string, int, time.Duration, error) {
	h.events = append(h.events, "write")
}
