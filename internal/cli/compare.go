package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/experiment"
	"github.com/teftimov/IOHanalyzer/internal/stats"
)

func Compare() *cobra.Command {
	var (
		input       inputFlags
		targets     targetFlags
		orientation string
		bootstrap   int
		seed        uint64
		alpha       float64
		rep         reportFlags
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Pairwise significance tests between algorithms",
		Long: heredoc.Doc(`compare runs a one-sided rank test for every ordered algorithm
			pair, bootstrapping the samples to fold run-to-run variance into
			the p-values, and applies Holm's step-down correction across the
			whole family. Cell (i, j) answers "does algorithm i outperform
			algorithm j" on the chosen orientation.

			A fixed --seed reproduces the exact matrix.`),
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

			spec := &experiment.Spec{
				Name:    specName("compare", input.File),
				Source:  experiment.SourceSpec{Type: experiment.SourceInMem},
				Filters: filters,
				Seed:    seed,
				Analyses: experiment.AnalysesSpec{
					Pairwise: &experiment.PairwiseSpec{
						Orientation:   orientation,
						BootstrapSize: bootstrap,
						Targets:       targets.spec(cmd),
					},
				},
			}

			var res *experiment.Result
			if err := withSpinner("bootstrapping pairwise comparisons...", func() error {
				r, err := experiment.Run(ctx, spec, c)
				if err != nil {
					return err
				}
				res = r
				return nil
			}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			writePairwiseMatrix(out, res.Pairwise, alpha)
			return rep.writeJSON(res, out)
		},
	}

	input.register(cmd, true)
	targets.register(cmd)
	rep.register(cmd)
	cmd.Flags().StringVar(&orientation, "orientation", dataset.ByFunctionValue.String(), "by_FV (runtime to target) or by_RT (value at budget)")
	cmd.Flags().IntVar(&bootstrap, "bootstrap", stats.DefaultBootstrapSize, "bootstrap sample count per comparison")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "rng seed for reproducible resampling")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "significance level for highlighting")

	return cmd
}

// writePairwiseMatrix prints the p-value matrix with fixed-width columns so
// significant entries can be colored without breaking alignment.
func writePairwiseMatrix(w io.Writer, r *experiment.PairwiseResult, alpha float64) {
	width := 10
	for _, a := range r.Algorithms {
		if len(a)+2 > width {
			width = len(a) + 2
		}
	}

	fmt.Fprintf(w, "\nPairwise Comparisons (Holm-adjusted p, %d bootstrap samples)\n\n", r.BootstrapSize)

	cyan := color.New(color.FgCyan)
	_, _ = cyan.Fprintf(w, "%-*s", width, "vs")
	for _, a := range r.Algorithms {
		_, _ = cyan.Fprintf(w, "%-*s", width, a)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", width*(len(r.Algorithms)+1)))

	for i, a := range r.Algorithms {
		fmt.Fprintf(w, "%-*s", width, a)
		for j := range r.Algorithms {
			p := float64(r.P[i][j])
			cell := fmt.Sprintf("%-*s", width, fmtP(p))
			if p < alpha {
				cell = color.GreenString(cell)
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\ngreen marks a significant win for the row at alpha %g\n", alpha)
}

func fmtP(p float64) string {
	if math.IsNaN(p) {
		return "-"
	}
	return fmt.Sprintf("%.4f", p)
}
