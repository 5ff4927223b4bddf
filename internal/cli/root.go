// Package cli implements the ioha command tree: quick single-analysis
// commands fed by a run table csv, and a run command executing a full yaml
// experiment.
package cli

import (
	"log/slog"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

func Root() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "ioha",
		Short: "Estimate and compare optimization algorithm performance",
		Long: heredoc.Doc(`ioha analyzes benchmark run tables of iterative optimization
			heuristics: empirical distributions of the runtime needed to hit
			a function-value target (or of the value reached within a budget),
			areas under those distributions, bootstrapped pairwise significance
			tests and Glicko-2 tournament rankings.

			Quick commands (ecdf, auc, compare, rank, targets) read a run table
			csv directly. The run command executes a yaml experiment against a
			csv or the Postgres archive.`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Tables go to stdout; logging stays out of the way unless asked for.
			if verbose {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			} else {
				slog.SetLogLoggerLevel(slog.LevelWarn)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug logging")

	root.AddCommand(ECDF())
	root.AddCommand(AUC())
	root.AddCommand(Compare())
	root.AddCommand(Rank())
	root.AddCommand(Targets())
	root.AddCommand(Run())

	return root
}
