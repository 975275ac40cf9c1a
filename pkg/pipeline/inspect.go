package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/matzehuels/phylolayout/pkg/errors"
	"github.com/matzehuels/phylolayout/pkg/layout"
	"github.com/matzehuels/phylolayout/pkg/tree"
)

// Summary describes a tree without laying it out.
type Summary struct {
	Nodes     int // reachable nodes
	Leaves    int // reachable leaf-typed nodes
	Tips      int // display slots (leaves plus collapsed nodes)
	Collapsed int
	Spliced   int
	Thinned   int

	Stats layout.Stats

	// Scale is nil when the tree is degenerate; Degenerate then holds the
	// reason.
	Scale      *layout.Scale
	Degenerate string
}

// Inspect reads and transforms a tree like Execute, then reports its
// statistics and the scale a layout would use. A degenerate tree is not an
// error here.
func (r *Runner) Inspect(ctx context.Context, in io.Reader, opts Options) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	t, err := r.Read(ctx, in, opts)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	spliced, thinned, err := r.Transform(t, opts)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	stats, tips := layout.Prepare(t.Root)
	s := &Summary{
		Nodes:   t.NodeCount(),
		Leaves:  len(t.Leaves()),
		Tips:    tips,
		Spliced: spliced,
		Thinned: thinned,
		Stats:   stats,
	}
	t.Root.Walk(func(n *tree.Node, _ int) bool {
		if n.Collapsed() {
			s.Collapsed++
		}
		return true
	})

	scale, err := layout.NewScale(opts.Width, opts.Height, tips, stats.MaxBranchLength)
	if err != nil {
		s.Degenerate = errors.UserMessage(err)
	} else {
		s.Scale = &scale
	}
	return s, nil
}
