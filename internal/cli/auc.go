package cli

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/experiment"
)

func AUC() *cobra.Command {
	var (
		input       inputFlags
		targets     targetFlags
		orientation string
		from, to    float64
		rep         reportFlags
	)

	cmd := &cobra.Command{
		Use:   "auc",
		Short: "Normalized area under each algorithm's ECDF",
		Long: heredoc.Doc(`auc integrates each algorithm's empirical CDF over [--from, --to]
			and normalizes by the interval width, giving one anytime-performance
			number per algorithm: 1.0 means every run hit every target
			instantly, 0.0 means none did within the horizon.

			The horizon must be finite. A censored distribution extends to
			infinity, so the integration window is the caller's choice of
			budget, not a property of the data.`),
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
				Name:    specName("auc", input.File),
				Source:  experiment.SourceSpec{Type: experiment.SourceInMem},
				Filters: filters,
				Analyses: experiment.AnalysesSpec{
					ECDF: &experiment.ECDFSpec{Orientation: orientation, Targets: targets.spec(cmd)},
					AUC:  &experiment.AUCSpec{From: from, To: to},
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
	rep.register(cmd)
	cmd.Flags().StringVar(&orientation, "orientation", dataset.ByFunctionValue.String(), "by_FV (runtime to target) or by_RT (value at budget)")
	cmd.Flags().Float64Var(&from, "from", 0, "integration window start")
	cmd.Flags().Float64Var(&to, "to", 0, "integration window end")
	if err := cmd.MarkFlagRequired("to"); err != nil {
		panic(err)
	}

	return cmd
}
