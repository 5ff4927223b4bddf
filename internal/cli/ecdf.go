package cli

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/experiment"
)

func ECDF() *cobra.Command {
	var (
		input       inputFlags
		targets     targetFlags
		seq         sequenceFlags
		orientation string
		rep         reportFlags
	)

	cmd := &cobra.Command{
		Use:   "ecdf",
		Short: "Empirical distribution of runtimes or reached values",
		Long: heredoc.Doc(`ecdf aggregates one empirical CDF per algorithm. With the default
			by_FV orientation the samples are runtimes to the chosen
			function-value targets, runs that never hit a target counting as
			censored. With by_RT the samples are the values reached within
			the chosen evaluation budgets.

			Targets come from --target or --targets, from a generated ladder
			(--from, --to, --step, --count, --scale), or are derived from the
			data when nothing is set.`),
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

			ts := targets.spec(cmd)
			if ts.Scalar == nil && ts.CSV == "" && seq.changed(cmd) {
				ts.Sequence = seq.spec()
			}

			spec := &experiment.Spec{
				Name:    specName("ecdf", input.File),
				Source:  experiment.SourceSpec{Type: experiment.SourceInMem},
				Filters: filters,
				Analyses: experiment.AnalysesSpec{
					ECDF: &experiment.ECDFSpec{Orientation: orientation, Targets: ts},
				},
			}

			res, err := experiment.Run(ctx, spec, c)
			if err != nil {
				return err
			}
			return rep.write(res, cmd.OutOrStdout())
		},
	}

	input.register(cmd, true)
	targets.register(cmd)
	seq.register(cmd)
	rep.register(cmd)
	cmd.Flags().StringVar(&orientation, "orientation", dataset.ByFunctionValue.String(), "by_FV (runtime to target) or by_RT (value at budget)")

	return cmd
}
