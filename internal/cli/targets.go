package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/experiment"
	"github.com/teftimov/IOHanalyzer/internal/target"
)

func Targets() *cobra.Command {
	var (
		input       inputFlags
		seq         sequenceFlags
		orientation string
		perCell     bool
		csvPath     string
	)

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Generate comparison targets from a run table",
		Long: heredoc.Doc(`targets builds the per-cell target grid the other commands compare
			against. By default it generates a ladder of targets per cell from
			the observed values, spaced by --scale (log when the values span
			orders of magnitude). With --per-cell it instead derives the
			single default target per cell: the best value any algorithm
			reached, or the largest budget consumed under by_RT.

			--csv exports the grid in the format --targets accepts, so the
			ladder can be edited by hand and fed back in.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c, err := input.load(ctx)
			if err != nil {
				return err
			}
			filters, err := input.filters()
			if err != nil {
				return err
			}
			c = c.Filter(filters.Algorithms, filters.Functions, filters.Dimensions)
			if err := c.Validate(); err != nil {
				return err
			}

			or, err := dataset.ParseOrientation(orientation)
			if err != nil {
				return err
			}

			var t *target.Table
			if perCell {
				t = target.Derive(c, or)
			} else {
				spec, err := experiment.SequenceTargets(c, or, *seq.spec())
				if err != nil {
					return err
				}
				resolved, err := target.Resolve(spec, c)
				if err != nil {
					return err
				}
				t = sequenceTable(resolved, c)
			}

			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("create target table: %w", err)
				}
				defer f.Close()
				if err := t.WriteCSV(f); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "target table written to %s\n", csvPath)
				return nil
			}

			writeTargetTable(cmd.OutOrStdout(), t)
			return nil
		},
	}

	input.register(cmd, true)
	seq.register(cmd)
	cmd.Flags().StringVar(&orientation, "orientation", dataset.ByFunctionValue.String(), "by_FV (value targets) or by_RT (budget targets)")
	cmd.Flags().BoolVar(&perCell, "per-cell", false, "derive the single default target per cell instead of a ladder")
	cmd.Flags().StringVar(&csvPath, "csv", "", "export the grid to this csv file")

	return cmd
}

// sequenceTable lays ragged per-cell ladders into the rectangular grid
// format, padding short rows with blanks.
func sequenceTable(resolved map[dataset.Cell][]float64, c dataset.Collection) *target.Table {
	width := 0
	for _, cell := range c.Cells() {
		if n := len(resolved[cell]); n > width {
			width = n
		}
	}

	cols := make([]string, width)
	for i := range cols {
		cols[i] = fmt.Sprintf("t%d", i+1)
	}

	t := target.NewTable(cols)
	for _, cell := range c.Cells() {
		for i, v := range resolved[cell] {
			_ = t.Set(cell.Key(), i, v)
		}
	}
	return t
}

func writeTargetTable(w io.Writer, t *target.Table) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(append([]string{"cell"}, t.Columns...), "\t"))
	for i, key := range t.Keys {
		row := []string{key}
		for _, v := range t.Rows[i] {
			if math.IsNaN(v) {
				row = append(row, "-")
			} else {
				row = append(row, fmt.Sprintf("%g", v))
			}
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	tw.Flush()
}
