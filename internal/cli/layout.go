package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phylolayout/pkg/pipeline"
)

// layoutCommand creates the layout command for computing tree coordinates.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  treeFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.json|-]",
		Short: "Compute coordinates for every node of a tree",
		Long: `Compute coordinates for every node of a phylogenetic tree.

The input is a single hierarchical record: objects with "type" ("node" or
"leaf"), "name", "brlen" and, on nodes, "children". It is read from the named
file or from stdin when the argument is "-" or omitted.

One record per node is written in pre-order to stdout or --output. Every
input field except "children" is carried over; "name", "x" and "y" are set by
the layout. Tips are spread evenly along the height, and each node's depth is
its cumulative branch length scaled to the width.

Options may be read from a TOML file with --config; flags given on the
command line take precedence.`,
		Example: `  phylolayout layout tree.json
  phylolayout layout --width 800 --height 600 -f jsonl < tree.json
  phylolayout layout tree.yaml --thin 200 --anchor outgroup -o layout.json
  phylolayout layout tree.json -f dot -o tree.dot && neato -n -Tsvg tree.dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := inputArg(args)
			opts, err := flags.resolve(cmd, input)
			if err != nil {
				return err
			}
			return c.runLayout(cmd, input, opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	flags.bind(cmd)
	flags.bindOutput(cmd)

	return cmd
}

// runLayout reads the tree, runs the pipeline and writes the encoded records.
func (c *CLI) runLayout(cmd *cobra.Command, input string, opts pipeline.Options, output string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	in, err := openInput(cmd, input)
	if err != nil {
		return err
	}
	defer in.Close()

	prog := newProgress(logger)
	runner := pipeline.NewRunner(logger)
	result, err := runner.Execute(ctx, in, opts)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Laid out %d nodes", result.Stats.NodeCount))

	if output == "" {
		_, err := cmd.OutOrStdout().Write(result.Output)
		return err
	}
	return writeOutput(ctx, output, result)
}

func writeOutput(ctx context.Context, path string, result *pipeline.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(path, result.Output, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Layout complete")
	printFile(path)
	printStats(
		fmt.Sprintf("%d nodes", result.Stats.NodeCount),
		fmt.Sprintf("%d tips", result.Stats.TipCount),
		fmt.Sprintf("depth %d", result.Layout.Stats.MaxDepth),
	)
	if result.Stats.Thinned > 0 {
		printWarning("thinning removed %d leaves", result.Stats.Thinned)
	}
	return nil
}
