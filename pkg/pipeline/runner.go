package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/phylolayout/pkg/layout"
	"github.com/matzehuels/phylolayout/pkg/observability"
	"github.com/matzehuels/phylolayout/pkg/tree"
	"github.com/matzehuels/phylolayout/pkg/treeio"
)

// Runner executes pipeline runs.
//
// The Runner is stateless except for the logger. Each Execute call builds
// its own tree, so one Runner may serve several goroutines.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete read → transform → layout → write pipeline.
//
// The context is checked once before work starts; the passes themselves are
// not interruptible. Output is fully encoded before Execute returns.
func (r *Runner) Execute(ctx context.Context, in io.Reader, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: newRunID()}
	opts.Logger = opts.Logger.With("run", result.RunID)

	// Stage 1: Read
	readStart := time.Now()
	t, err := r.Read(ctx, in, opts)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	result.Tree = t
	result.Stats.ReadTime = time.Since(readStart)

	// Stage 2: Transform
	transformStart := time.Now()
	spliced, thinned, err := r.Transform(t, opts)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	result.Stats.Spliced = spliced
	result.Stats.Thinned = thinned
	result.Stats.TransformTime = time.Since(transformStart)

	// Stage 3: Layout
	layoutStart := time.Now()
	res, err := r.Layout(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(res.Records)
	result.Stats.TipCount = res.LeafCount

	opts.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"tips", result.Stats.TipCount,
		"depth", res.Stats.MaxDepth,
		"duration", result.Stats.LayoutTime)

	// Stage 4: Write
	writeStart := time.Now()
	out, err := r.Write(ctx, res.Records, opts)
	if err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	result.Output = out
	result.Stats.WriteTime = time.Since(writeStart)

	opts.Logger.Debug("encoded records",
		"format", opts.Format,
		"bytes", len(out),
		"duration", result.Stats.WriteTime)

	return result, nil
}

// Read decodes and builds the input tree.
func (r *Runner) Read(ctx context.Context, in io.Reader, opts Options) (*tree.Tree, error) {
	r.applyLogger(&opts)
	start := time.Now()

	t, err := treeio.Read(in, opts.InputFormat)
	nodes := 0
	if err == nil {
		nodes = t.NodeCount()
	}
	observability.Pipeline().OnReadComplete(ctx, opts.InputFormat, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("read tree",
		"format", opts.InputFormat,
		"nodes", nodes,
		"leaves", len(t.Leaves()),
		"duration", time.Since(start))
	return t, nil
}

// Transform applies the optional tree transforms in a fixed order: strict
// validation, singleton collapse, thinning, then subtree collapse. It
// returns the number of spliced nodes and thinned tips.
func (r *Runner) Transform(t *tree.Tree, opts Options) (spliced, thinned int, err error) {
	r.applyLogger(&opts)

	if opts.Strict {
		if err := tree.Validate(t); err != nil {
			return 0, 0, err
		}
	}
	if opts.CollapseSingletons {
		spliced = tree.CollapseSingletons(t)
		if spliced > 0 {
			opts.Logger.Debug("collapsed singletons", "spliced", spliced)
		}
	}
	if opts.Thin > 0 {
		before := t.TipCount()
		thinned = tree.Thin(t, opts.Thin, opts.Anchors...)
		opts.Logger.Debug("thinned tree", "from", before, "to", t.TipCount(), "target", opts.Thin)
		if t.TipCount() > opts.Thin {
			opts.Logger.Warn("thinning stopped above target", "tips", t.TipCount(), "target", opts.Thin)
		}
	}
	if len(opts.Collapse) > 0 {
		if err := tree.Collapse(t, opts.Collapse...); err != nil {
			return spliced, thinned, err
		}
		opts.Logger.Debug("collapsed subtrees", "names", opts.Collapse)
	}
	return spliced, thinned, nil
}

// Layout runs the layout passes on t, reporting each pass to the logger and
// the registered hooks.
func (r *Runner) Layout(ctx context.Context, t *tree.Tree, opts Options) (*layout.Result, error) {
	r.applyLogger(&opts)
	hooks := observability.Pipeline()

	lo := opts.LayoutOptions()
	lo.OnPass = func(pass string, elapsed time.Duration) {
		opts.Logger.Debug("pass complete", "pass", pass, "duration", elapsed)
		hooks.OnPassComplete(ctx, pass, elapsed)
	}

	start := time.Now()
	hooks.OnLayoutStart(ctx, t.NodeCount())
	res, err := layout.Run(t, lo)
	tips := 0
	if res != nil {
		tips = res.LeafCount
	}
	hooks.OnLayoutComplete(ctx, tips, time.Since(start), err)
	return res, err
}

// Write encodes records in opts.Format.
func (r *Runner) Write(ctx context.Context, records []layout.Record, opts Options) ([]byte, error) {
	start := time.Now()
	out, err := treeio.Marshal(ctx, records, opts.Format)
	observability.Pipeline().OnWriteComplete(ctx, opts.Format, len(out), time.Since(start), err)
	return out, err
}

// applyLogger sets the runner's logger on opts if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func newRunID() string {
	return uuid.NewString()[:8]
}
