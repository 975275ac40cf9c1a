package layout

import (
	"math"
	"time"

	"github.com/matzehuels/phylolayout/pkg/errors"
	"github.com/matzehuels/phylolayout/pkg/tree"
)

const (
	// DefaultWidth is the default canvas width (depth axis).
	DefaultWidth = 1000.0

	// DefaultHeight is the default canvas height (tip axis).
	DefaultHeight = 1000.0
)

// Pass names reported to Options.OnPass.
const (
	PassStats       = "stats"
	PassSort        = "sort"
	PassOrder       = "order"
	PassCoordinates = "coordinates"
	PassBounds      = "bounds"
	PassEmit        = "emit"
)

// Options configures a layout run.
type Options struct {
	// Width scales the depth (y) axis; Height scales the tip (x) axis.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Emission post-processing.
	Normalize     bool `json:"normalize,omitempty"`
	Reflect       bool `json:"reflect,omitempty"`
	IncludeParent bool `json:"include_parent,omitempty"`
	IncludeBounds bool `json:"include_bounds,omitempty"`
	IncludeStats  bool `json:"include_stats,omitempty"`

	// OnPass, if set, is called after each pass with its elapsed time.
	OnPass func(pass string, elapsed time.Duration) `json:"-"`
}

// SetDefaults fills zero canvas dimensions.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
}

// Validate checks that the canvas dimensions are positive and finite.
func (o *Options) Validate() error {
	if !(o.Width > 0) || math.IsInf(o.Width, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "width must be a positive number, got %v", o.Width)
	}
	if !(o.Height > 0) || math.IsInf(o.Height, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "height must be a positive number, got %v", o.Height)
	}
	return nil
}

// Result is the outcome of a layout run.
type Result struct {
	Stats     Stats
	LeafCount int
	Scale     Scale

	// Visited lists nodes in coordinate-pass order; Records[i] describes
	// Visited[i].
	Visited []*tree.Node
	Records []Record
}

// Prepare runs the passes that cannot fail: statistics, sorting and both
// ordering traversals. It returns the statistics and the tip count.
func Prepare(root *tree.Node) (Stats, int) {
	stats := ComputeStats(root)
	SortChildren(root)
	AssignDisplayOrders(root)
	return stats, AssignOrders(root)
}

// Run lays out t in place and emits one record per node.
func Run(t *tree.Tree, opts Options) (*Result, error) {
	if t == nil || t.Root == nil {
		return nil, errors.MalformedInput("missing root")
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	timed := func(pass string, fn func()) {
		start := time.Now()
		fn()
		if opts.OnPass != nil {
			opts.OnPass(pass, time.Since(start))
		}
	}

	res := &Result{}
	root := t.Root

	timed(PassStats, func() { res.Stats = ComputeStats(root) })
	timed(PassSort, func() { SortChildren(root) })
	timed(PassOrder, func() {
		res.LeafCount = AssignOrders(root)
		AssignDisplayOrders(root)
	})

	scale, err := NewScale(opts.Width, opts.Height, res.LeafCount, res.Stats.MaxBranchLength)
	if err != nil {
		return nil, err
	}
	res.Scale = scale

	timed(PassCoordinates, func() { res.Visited = AssignCoordinates(root, scale) })
	timed(PassBounds, func() { ComputeBounds(root) })
	timed(PassEmit, func() { res.Records = Emit(res.Visited, opts) })

	return res, nil
}
