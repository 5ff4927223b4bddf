package cli

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/experiment"
)

func Rank() *cobra.Command {
	var (
		input       inputFlags
		targets     targetFlags
		orientation string
		rounds      int
		seed        uint64
		rep         reportFlags
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Glicko-2 tournament ranking of algorithms",
		Long: heredoc.Doc(`rank plays a round-robin tournament: each round draws one run per
			algorithm on every cell, compares the draws on the chosen
			orientation, and feeds the game outcomes into a Glicko-2 rating
			update. Standings come out best rating first, with the rating
			deviation as the uncertainty to read them by.

			More --rounds shrink the deviations; a fixed --seed reproduces
			the exact standings.`),
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
				Name:    specName("rank", input.File),
				Source:  experiment.SourceSpec{Type: experiment.SourceInMem},
				Filters: filters,
				Seed:    seed,
				Analyses: experiment.AnalysesSpec{
					Ranking: &experiment.RankingSpec{
						Rounds:      rounds,
						Orientation: orientation,
						Targets:     targets.spec(cmd),
					},
				},
			}

			var res *experiment.Result
			if err := withSpinner("playing rating rounds...", func() error {
				r, err := experiment.Run(ctx, spec, c)
				if err != nil {
					return err
				}
				res = r
				return nil
			}); err != nil {
				return err
			}

			return rep.write(res, cmd.OutOrStdout())
		},
	}

	input.register(cmd, true)
	targets.register(cmd)
	rep.register(cmd)
	cmd.Flags().StringVar(&orientation, "orientation", dataset.ByFunctionValue.String(), "by_FV (runtime to target) or by_RT (value at budget)")
	cmd.Flags().IntVar(&rounds, "rounds", 100, "tournament rounds to play")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "rng seed for reproducible draws")

	return cmd
}
