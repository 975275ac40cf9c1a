package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/phylolayout/pkg/pipeline"
)

// inspectCommand creates the inspect command for summarizing a tree.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags treeFlags

	cmd := &cobra.Command{
		Use:   "inspect [tree.json|-]",
		Short: "Print tree statistics and layout scale",
		Long: `Print statistics for a phylogenetic tree without emitting a layout.

The tree is read and transformed exactly as 'layout' would (--strict,
--collapse-singletons, --thin and --collapse apply), then summarized: node,
leaf and tip counts, depth, per-level widths, the longest root-to-tip branch
length and the step sizes a layout on the given canvas would use. Trees that
cannot be laid out are reported rather than rejected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := inputArg(args)
			opts, err := flags.resolve(cmd, input)
			if err != nil {
				return err
			}
			return c.runInspect(cmd, input, opts)
		},
	}

	flags.bind(cmd)
	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, input string, opts pipeline.Options) error {
	in, err := openInput(cmd, input)
	if err != nil {
		return err
	}
	defer in.Close()

	runner := pipeline.NewRunner(loggerFromContext(cmd.Context()))
	summary, err := runner.Inspect(cmd.Context(), in, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, StyleTitle.Render("Tree summary"))
	fmt.Fprintln(out, renderSummary(summary))
	return nil
}

// summaryRows flattens a summary into label/value pairs.
func summaryRows(s *pipeline.Summary) [][]string {
	rows := [][]string{
		{"Nodes", strconv.Itoa(s.Nodes)},
		{"Leaves", strconv.Itoa(s.Leaves)},
		{"Tips", strconv.Itoa(s.Tips)},
		{"Max depth", strconv.Itoa(s.Stats.MaxDepth)},
		{"Level widths", joinInts(s.Stats.LevelWidths)},
		{"Max branch length", formatFloat(s.Stats.MaxBranchLength)},
	}
	if s.Collapsed > 0 {
		rows = append(rows, []string{"Collapsed", strconv.Itoa(s.Collapsed)})
	}
	if s.Spliced > 0 {
		rows = append(rows, []string{"Spliced", strconv.Itoa(s.Spliced)})
	}
	if s.Thinned > 0 {
		rows = append(rows, []string{"Thinned", strconv.Itoa(s.Thinned)})
	}
	if s.Scale != nil {
		rows = append(rows,
			[]string{"X step", formatFloat(s.Scale.XStep)},
			[]string{"Y step", formatFloat(s.Scale.YStep)},
		)
	} else {
		rows = append(rows, []string{"Degenerate", s.Degenerate})
	}
	return rows
}

func renderSummary(s *pipeline.Summary) string {
	rows := summaryRows(s)
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Statistic", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				return base.Inherit(styleLabel)
			}
			if row < len(rows) && rows[row][0] == "Degenerate" {
				return base.Inherit(StyleWarning)
			}
			return base.Inherit(StyleNumber)
		})

	return t.Render()
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
