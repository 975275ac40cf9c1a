package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/phylolayout/pkg/buildinfo"
	"github.com/matzehuels/phylolayout/pkg/errors"
	"github.com/matzehuels/phylolayout/pkg/pipeline"
	"github.com/matzehuels/phylolayout/pkg/treeio"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "phylolayout"

	// stdinPath selects standard input as the tree source.
	stdinPath = "-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose bool
}

// New creates a new CLI instance with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "phylolayout computes deterministic phylogenetic tree layouts",
		Long: `phylolayout turns a rooted phylogenetic tree (internal branch points and
named tips with branch lengths) into render-ready 2D coordinates plus per-node
statistics. The same input always yields byte-identical output.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			c.Logger.Debug("starting", "version", buildinfo.Version, "commit", buildinfo.Commit)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Flags
// =============================================================================

// treeFlags binds the options shared by every command that reads a tree.
// Values given on the command line override values from --config.
type treeFlags struct {
	config string
	opts   pipeline.Options
}

func (f *treeFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "TOML config file")
	fs.StringVar(&f.opts.InputFormat, "input-format", "", "input encoding: json, yaml (default: from extension)")
	fs.Float64Var(&f.opts.Width, "width", pipeline.DefaultWidth, "extent of the depth axis")
	fs.Float64Var(&f.opts.Height, "height", pipeline.DefaultHeight, "extent of the tip axis")
	fs.BoolVar(&f.opts.Strict, "strict", false, "reject duplicate leaf names and shared subtrees")
	fs.BoolVar(&f.opts.CollapseSingletons, "collapse-singletons", false, "splice out nodes with a single child")
	fs.IntVar(&f.opts.Thin, "thin", 0, "remove short-branch leaves until at most this many tips remain")
	fs.StringSliceVar(&f.opts.Anchors, "anchor", nil, "node whose direct leaves thinning keeps (repeatable)")
	fs.StringSliceVar(&f.opts.Collapse, "collapse", nil, "internal node to display as a single tip (repeatable)")
}

// bindOutput adds the emission flags used by the layout command.
func (f *treeFlags) bindOutput(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.opts.Format, "format", "f", pipeline.DefaultFormat, "output encoding: json, jsonl, msgpack, dot")
	fs.BoolVar(&f.opts.Normalize, "normalize", false, "rescale x and y into [0, 1]")
	fs.BoolVar(&f.opts.Reflect, "reflect", false, "map (x, y) to (y, -x) for a top-down tree")
	fs.BoolVar(&f.opts.IncludeParent, "include-parent", false, "add the parent name as \"up\"")
	fs.BoolVar(&f.opts.IncludeBounds, "include-bounds", false, "add min_x and max_x subtree bounds")
	fs.BoolVar(&f.opts.IncludeStats, "include-stats", false, "add layer counts and order ranges")
}

// resolve returns the effective options for cmd: the config file (if any)
// overlaid with every flag set explicitly on the command line.
func (f *treeFlags) resolve(cmd *cobra.Command, input string) (pipeline.Options, error) {
	opts := f.opts
	if f.config != "" {
		fileOpts, err := pipeline.LoadConfig(f.config)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts = overlay(fileOpts, f.opts, cmd.Flags().Changed)
	}
	if opts.InputFormat == "" && input != "" && input != stdinPath {
		opts.InputFormat = treeio.InputFormatFromPath(input)
	}
	opts.Logger = loggerFromContext(cmd.Context())
	return opts, nil
}

// overlay copies each flag-bound field from flags into base when changed
// reports the flag as explicitly set.
func overlay(base, flags pipeline.Options, changed func(name string) bool) pipeline.Options {
	fields := []struct {
		flag  string
		apply func()
	}{
		{"input-format", func() { base.InputFormat = flags.InputFormat }},
		{"format", func() { base.Format = flags.Format }},
		{"width", func() { base.Width = flags.Width }},
		{"height", func() { base.Height = flags.Height }},
		{"normalize", func() { base.Normalize = flags.Normalize }},
		{"reflect", func() { base.Reflect = flags.Reflect }},
		{"include-parent", func() { base.IncludeParent = flags.IncludeParent }},
		{"include-bounds", func() { base.IncludeBounds = flags.IncludeBounds }},
		{"include-stats", func() { base.IncludeStats = flags.IncludeStats }},
		{"strict", func() { base.Strict = flags.Strict }},
		{"collapse-singletons", func() { base.CollapseSingletons = flags.CollapseSingletons }},
		{"thin", func() { base.Thin = flags.Thin }},
		{"anchor", func() { base.Anchors = flags.Anchors }},
		{"collapse", func() { base.Collapse = flags.Collapse }},
	}
	for _, f := range fields {
		if changed(f.flag) {
			f.apply()
		}
	}
	return base
}

// =============================================================================
// Input
// =============================================================================

// openInput returns the tree source: the named file, or stdin for "" and "-".
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == stdinPath {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return stdinPath
	}
	return args[0]
}
