package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"github.com/scrubdata/scrub/pkg/frame"
)

// inspectCommand creates the inspect command, a read-only column summary.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [input]",
		Short: "Summarize a dataset's columns without modifying it",
		Long: `Inspect classifies every column (numeric, categorical, datetime) and
prints a summary table: dtype, distinct values, missing entries, and
min/max/mean for numeric columns. The dataset is never modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := importDataset(args[0])
			if err != nil {
				return err
			}

			fmt.Println(StyleTitle.Render(args[0]))
			printDetail("%d rows · %d columns", ds.Len(), ds.Width())
			fmt.Println(columnTable(ds))
			return nil
		},
	}
}

// columnTable renders the per-column summary.
func columnTable(ds *frame.Frame) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return StyleValue
		}).
		Headers("COLUMN", "KIND", "DTYPE", "DISTINCT", "MISSING", "MIN", "MAX", "MEAN")

	for _, col := range ds.Columns() {
		t.Row(columnRow(col)...)
	}
	return t.Render()
}

// columnRow summarizes one column.
func columnRow(col *frame.Column) []string {
	kind := frame.KindOf(col)
	row := []string{
		col.Name(),
		kind.String(),
		col.DType().String(),
		strconv.Itoa(distinctCount(col)),
		strconv.Itoa(col.MissingCount()),
	}

	if kind == frame.KindNumeric {
		vals := col.NonMissing()
		row = append(row, numStat(stats.Min, vals), numStat(stats.Max, vals), numStat(stats.Mean, vals))
	} else {
		row = append(row, "—", "—", "—")
	}
	return row
}

// distinctCount counts distinct observed values.
func distinctCount(col *frame.Column) int {
	seen := make(map[string]bool)
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			continue
		}
		seen[col.Display(i)] = true
	}
	return len(seen)
}

// numStat formats one summary statistic, or a dash when it is undefined.
func numStat(fn func(stats.Float64Data) (float64, error), vals []float64) string {
	v, err := fn(vals)
	if err != nil {
		return "—"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
