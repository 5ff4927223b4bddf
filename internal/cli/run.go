package cli

import (
	"context"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/experiment"
	"github.com/teftimov/IOHanalyzer/internal/storage"
	"github.com/teftimov/IOHanalyzer/internal/storage/factory"
	"github.com/teftimov/IOHanalyzer/pkg/config/env"
)

func Run() *cobra.Command {
	var (
		specPath string
		input    inputFlags
		rep      reportFlags
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a yaml experiment",
		Long: heredoc.Doc(`run executes a declarative experiment: source, filters, seed and
			any combination of the ecdf, auc, pairwise and ranking analyses,
			all from one yaml file.

			A pg source loads the named suite from the Postgres archive
			(PG_CONNECTION_STRING, optionally via .env). An in_mem source
			analyzes the run table passed with -i.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := experiment.Load(specPath)
			if err != nil {
				return err
			}

			c, err := loadSource(ctx, s, &input)
			if err != nil {
				return err
			}

			var res *experiment.Result
			execute := func() error {
				r, err := experiment.Run(ctx, s, c)
				if err != nil {
					return err
				}
				res = r
				return nil
			}
			if s.Analyses.Pairwise != nil || s.Analyses.Ranking != nil {
				err = withSpinner("running "+s.Name+"...", execute)
			} else {
				err = execute()
			}
			if err != nil {
				return err
			}

			return rep.write(res, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&specPath, "file", "f", "", "experiment yaml")
	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(err)
	}
	input.register(cmd, false)
	rep.register(cmd)

	return cmd
}

// loadSource materializes the experiment's collection: the archive for pg
// sources, the -i run table for in_mem ones.
func loadSource(ctx context.Context, s *experiment.Spec, input *inputFlags) (dataset.Collection, error) {
	switch s.Source.Type {
	case experiment.SourcePG:
		// .env is optional for the CLI; settings may come from the
		// environment directly.
		if _, err := os.Stat(".env"); err == nil {
			if err := env.LoadDotEnv(os.Getenv("ENVIRONMENT"), ".env"); err != nil {
				return nil, err
			}
		}
		os.Setenv("STORAGE_TYPE", string(storage.PG))
		cfg, err := factory.LoadEnv()
		if err != nil {
			return nil, err
		}
		r, err := factory.NewReader(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return r.LoadCollection(ctx, s.Source.Suite, s.Filters.Algorithms, s.Filters.Functions, s.Filters.Dimensions)

	case experiment.SourceInMem:
		if input.File == "" {
			return nil, apperr.NewValidation("an in_mem experiment needs -i: the run table csv to analyze")
		}
		return input.load(ctx)

	default:
		return nil, apperr.NewValidationf("unsupported source type %q", s.Source.Type)
	}
}
