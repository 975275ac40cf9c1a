// Package pipeline provides the read → transform → layout → write pipeline
// for phylolayout.
//
// The CLI and library callers share this package so that defaults,
// validation and logging behave identically everywhere.
//
// # Architecture
//
// A run has four stages:
//
//  1. Read: decode the hierarchical record (JSON or YAML) and build the tree
//  2. Transform: optional validation, singleton collapse, thinning and
//     subtree collapse
//  3. Layout: the statistics, ordering, coordinate and bounding passes
//  4. Write: encode the emitted records (JSON, JSON Lines, MessagePack, DOT)
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{Width: 800, Height: 600, Format: "jsonl"}
//	result, err := runner.Execute(ctx, os.Stdin, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Output)
//
// Options may also be loaded from a TOML file with [LoadConfig].
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/phylolayout/pkg/errors"
	"github.com/matzehuels/phylolayout/pkg/layout"
	"github.com/matzehuels/phylolayout/pkg/tree"
	"github.com/matzehuels/phylolayout/pkg/treeio"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Library Callers
// =============================================================================

const (
	// DefaultWidth is the default extent of the depth axis.
	DefaultWidth = layout.DefaultWidth

	// DefaultHeight is the default extent of the tip axis.
	DefaultHeight = layout.DefaultHeight

	// DefaultFormat is the default output encoding.
	DefaultFormat = treeio.FormatJSON

	// DefaultInputFormat is the default input encoding.
	DefaultInputFormat = treeio.FormatJSON
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// The toml tags define the config file keys read by LoadConfig.
type Options struct {
	// Encodings
	InputFormat string `toml:"input_format" json:"input_format,omitempty"`
	Format      string `toml:"format" json:"format,omitempty"`

	// Canvas
	Width  float64 `toml:"width" json:"width,omitempty"`
	Height float64 `toml:"height" json:"height,omitempty"`

	// Emission
	Normalize     bool `toml:"normalize" json:"normalize,omitempty"`
	Reflect       bool `toml:"reflect" json:"reflect,omitempty"`
	IncludeParent bool `toml:"include_parent" json:"include_parent,omitempty"`
	IncludeBounds bool `toml:"include_bounds" json:"include_bounds,omitempty"`
	IncludeStats  bool `toml:"include_stats" json:"include_stats,omitempty"`

	// Transforms, applied in field order after the tree is built
	Strict             bool     `toml:"strict" json:"strict,omitempty"`
	CollapseSingletons bool     `toml:"collapse_singletons" json:"collapse_singletons,omitempty"`
	Thin               int      `toml:"thin" json:"thin,omitempty"` // target tip count, 0 disables
	Anchors            []string `toml:"anchors" json:"anchors,omitempty"`
	Collapse           []string `toml:"collapse" json:"collapse,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `toml:"-" json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in log output.
	RunID string

	// Tree is the laid-out tree, annotated in place by the passes.
	Tree *tree.Tree

	// Layout holds the statistics, scale and emitted records.
	Layout *layout.Result

	// Output is the encoded record sequence.
	Output []byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount int // nodes emitted
	TipCount  int // display slots on the tip axis
	Thinned   int // tips removed by thinning
	Spliced   int // single-child nodes removed

	ReadTime      time.Duration
	TransformTime time.Duration
	LayoutTime    time.Duration
	WriteTime     time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.InputFormat == "" {
		o.InputFormat = DefaultInputFormat
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks option values. Call SetDefaults first.
func (o *Options) Validate() error {
	lo := o.LayoutOptions()
	if err := lo.Validate(); err != nil {
		return err
	}
	if err := treeio.ValidateInputFormat(o.InputFormat); err != nil {
		return err
	}
	if err := treeio.ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Thin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "thin must be zero or a positive tip count, got %d", o.Thin)
	}
	return nil
}

// LayoutOptions returns the subset of options consumed by the layout passes.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Width:         o.Width,
		Height:        o.Height,
		Normalize:     o.Normalize,
		Reflect:       o.Reflect,
		IncludeParent: o.IncludeParent,
		IncludeBounds: o.IncludeBounds,
		IncludeStats:  o.IncludeStats,
	}
}
