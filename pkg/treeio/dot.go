package treeio

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/phylolayout/pkg/errors"
	"github.com/matzehuels/phylolayout/pkg/layout"
)

// ToDOT converts records to a Graphviz digraph. Each record becomes node
// "n<i>" pinned at its layout position; each non-root record gets one edge
// from its parent. Render with `neato -n` to keep the positions.
func ToDOT(records []layout.Record) string {
	var buf bytes.Buffer
	buf.WriteString("digraph tree {\n")
	buf.WriteString("  node [shape=plaintext, fontsize=10];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	for i, r := range records {
		fmt.Fprintf(&buf, "  n%d [label=%q, pos=\"%s,%s!\"];\n", i, r.Name, fmtCoord(r.X), fmtCoord(r.Y))
	}

	buf.WriteString("\n")
	for i, r := range records {
		if r.Parent >= 0 {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", r.Parent, i)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// validateDOT parses dot with Graphviz to catch malformed output.
func validateDOT(ctx context.Context, dot []byte) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "parse generated DOT")
	}
	defer g.Close()
	return nil
}
