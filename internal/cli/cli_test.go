package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/phylolayout/pkg/errors"
	"github.com/matzehuels/phylolayout/pkg/pipeline"
)

const twoLeaves = `{"type": "node", "children": [
	{"type": "leaf", "name": "b", "brlen": 1},
	{"type": "leaf", "name": "a", "brlen": 2}
]}`

// runCLI executes the root command with stdin and returns stdout and the
// status lines written to stderr.
func runCLI(t *testing.T, stdin string, args ...string) (stdout, status string, err error) {
	t.Helper()

	var statusBuf bytes.Buffer
	prev := statusOut
	statusOut = &statusBuf
	t.Cleanup(func() { statusOut = prev })

	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err = root.ExecuteContext(context.Background())
	return out.String(), statusBuf.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLayoutStdin(t *testing.T) {
	out, status, err := runCLI(t, twoLeaves, "layout", "--width", "100", "--height", "100", "-f", "jsonl")
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}

	want := `{"name":"","type":"node","x":75,"y":0}
{"brlen":2,"name":"a","type":"leaf","x":50,"y":100}
{"brlen":1,"name":"b","type":"leaf","x":100,"y":50}
`
	if out != want {
		t.Errorf("stdout =\n%s\nwant\n%s", out, want)
	}
	if status != "" {
		t.Errorf("status lines should be empty when writing to stdout, got %q", status)
	}
}

func TestLayoutDashReadsStdin(t *testing.T) {
	out, _, err := runCLI(t, twoLeaves, "layout", "-")
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if !strings.HasPrefix(out, "[\n") {
		t.Errorf("expected JSON array, got:\n%s", out)
	}
}

func TestLayoutFileToOutput(t *testing.T) {
	input := writeFile(t, "tree.yaml", `
type: node
children:
  - {type: leaf, name: a, brlen: 1}
  - {type: leaf, name: b, brlen: 2}
`)
	output := filepath.Join(t.TempDir(), "layout.json")

	out, status, err := runCLI(t, "", "layout", input, "-o", output, "--include-parent")
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if out != "" {
		t.Errorf("stdout should be empty with --output, got %q", out)
	}
	if !strings.Contains(status, "Layout complete") || !strings.Contains(status, output) {
		t.Errorf("status = %q", status)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Contains(data, []byte(`"up": null`)) || !bytes.Contains(data, []byte(`"up": ""`)) {
		t.Errorf("output missing parent fields:\n%s", data)
	}
}

func TestLayoutConfig(t *testing.T) {
	config := writeFile(t, "phylolayout.toml", `
width = 100
height = 100
format = "jsonl"
`)

	out, _, err := runCLI(t, twoLeaves, "layout", "--config", config)
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if !strings.HasPrefix(out, `{"name":"","type":"node","x":75,"y":0}`) {
		t.Errorf("config values not applied:\n%s", out)
	}

	// Explicit flags win over the file.
	out, _, err = runCLI(t, twoLeaves, "layout", "--config", config, "-f", "json", "--height", "200")
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if !strings.HasPrefix(out, "[\n") || !strings.Contains(out, `"x": 150`) {
		t.Errorf("flags did not override config:\n%s", out)
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		code  errors.Code
	}{
		{"malformed", `{"type": "node", "children": []}`, []string{"layout"}, errors.ErrCodeMalformedInput},
		{"degenerate", `{"type": "leaf", "name": "a"}`, []string{"layout"}, errors.ErrCodeDegenerateTree},
		{"missing file", "", []string{"layout", filepath.Join(os.TempDir(), "does-not-exist.json")}, errors.ErrCodeFileNotFound},
		{"bad format", twoLeaves, []string{"layout", "-f", "svg"}, errors.ErrCodeInvalidFormat},
		{"bad canvas", twoLeaves, []string{"layout", "--height=-3"}, errors.ErrCodeInvalidConfig},
		{"unknown collapse", twoLeaves, []string{"layout", "--collapse", "zzz"}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, tt.stdin, tt.args...)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
			if out != "" {
				t.Errorf("no output should be written on failure, got %q", out)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	out, _, err := runCLI(t, twoLeaves, "inspect", "--height", "100")
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	for _, want := range []string{"Statistic", "Tips", "Level widths", "1 2", "X step", "50"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectDegenerate(t *testing.T) {
	out, _, err := runCLI(t, `{"type": "leaf", "name": "a"}`, "inspect")
	if err != nil {
		t.Fatalf("inspect error: %v", err)
	}
	if !strings.Contains(out, "Degenerate") {
		t.Errorf("inspect should report a degenerate tree:\n%s", out)
	}
}

func TestOverlay(t *testing.T) {
	base := pipeline.Options{Width: 800, Height: 600, Format: "jsonl", Anchors: []string{"x"}}
	flags := pipeline.Options{Width: 1000, Height: 50, Format: "json", Thin: 10}

	changed := map[string]bool{"height": true, "thin": true}
	got := overlay(base, flags, func(name string) bool { return changed[name] })

	if got.Width != 800 || got.Height != 50 || got.Format != "jsonl" || got.Thin != 10 {
		t.Errorf("overlay() = %+v", got)
	}
	if len(got.Anchors) != 1 || got.Anchors[0] != "x" {
		t.Errorf("Anchors = %v, want [x]", got.Anchors)
	}
}

func TestFormatError(t *testing.T) {
	msg := FormatError(errors.MalformedInput("root: node has no children"))
	if !strings.Contains(msg, "root: node has no children") || !strings.Contains(msg, "[MALFORMED_INPUT]") {
		t.Errorf("FormatError() = %q", msg)
	}

	plain := FormatError(io.ErrUnexpectedEOF)
	if !strings.Contains(plain, io.ErrUnexpectedEOF.Error()) || strings.Contains(plain, "[") {
		t.Errorf("FormatError(plain) = %q", plain)
	}
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, _, err := runCLI(t, "", "completion", shell)
		if err != nil {
			t.Fatalf("completion %s error: %v", shell, err)
		}
		if !strings.Contains(out, "phylolayout") {
			t.Errorf("completion %s output does not mention phylolayout", shell)
		}
	}

	if _, _, err := runCLI(t, "", "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}
