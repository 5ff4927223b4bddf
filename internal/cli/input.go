package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/experiment"
	"github.com/teftimov/IOHanalyzer/internal/ingest/collector"
	"github.com/teftimov/IOHanalyzer/internal/ingest/reader"
	"github.com/teftimov/IOHanalyzer/pkg/apis/runmapping"
	"github.com/teftimov/IOHanalyzer/pkg/stringsutil"
)

// inputFlags covers the run table input shared by the quick commands:
// the csv itself, an optional column mapping for non-canonical headers,
// the orientation sign and slice filters.
type inputFlags struct {
	File       string
	Mapping    string
	Maximize   bool
	Algorithms string
	Functions  string
	Dimensions string
}

func (f *inputFlags) register(cmd *cobra.Command, required bool) {
	cmd.Flags().StringVarP(&f.File, "input", "i", "", "run table csv")
	cmd.Flags().StringVar(&f.Mapping, "mapping", "", "column mapping yaml for non-canonical csv headers")
	cmd.Flags().BoolVar(&f.Maximize, "maximize", false, "treat higher function values as better")
	cmd.Flags().StringVar(&f.Algorithms, "algorithms", "", "restrict to these algorithms, comma-separated")
	cmd.Flags().StringVar(&f.Functions, "functions", "", "restrict to these functions, comma-separated")
	cmd.Flags().StringVar(&f.Dimensions, "dimensions", "", "restrict to these dimensions, comma-separated")

	if required {
		if err := cmd.MarkFlagRequired("input"); err != nil {
			panic(err)
		}
	}
}

// load reads the csv into a collection, running the same reader, mapper and
// collector stages the ingest pipeline uses.
func (f *inputFlags) load(ctx context.Context) (dataset.Collection, error) {
	mapping := runmapping.Default()
	if f.Mapping != "" {
		mf, err := os.Open(f.Mapping)
		if err != nil {
			return nil, fmt.Errorf("open column mapping: %w", err)
		}
		loaded, err := reader.NewYAMLMappingLoader(mf).Load(true)
		mf.Close()
		if err != nil {
			return nil, err
		}
		mapping = loaded
	}

	df, err := os.Open(f.File)
	if err != nil {
		return nil, fmt.Errorf("open run table: %w", err)
	}
	defer df.Close()

	rc := collector.NewRunCollector(reader.NewCSVReader(df), reader.NewRunMapper(mapping), f.Maximize)
	results, err := rc.Collect(ctx)
	if err != nil {
		return nil, err
	}

	var c dataset.Collection
	for res := range results {
		if res.Err != nil {
			return nil, res.Err
		}
		c = append(c, res.Result)
	}
	return c, nil
}

func (f *inputFlags) filters() (experiment.FilterSpec, error) {
	spec := experiment.FilterSpec{
		Algorithms: splitList(f.Algorithms),
		Functions:  splitList(f.Functions),
	}
	for _, part := range splitList(f.Dimensions) {
		d, err := strconv.Atoi(part)
		if err != nil {
			return spec, fmt.Errorf("invalid dimension %q: %w", part, err)
		}
		spec.Dimensions = append(spec.Dimensions, d)
	}
	return spec, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return stringsutil.RemoveEmptyStrings(parts)
}

// specName labels a quick experiment after its input file.
func specName(analysis, file string) string {
	return analysis + " " + filepath.Base(file)
}

// targetFlags picks explicit comparison targets: one scalar for every cell,
// or a per-cell csv table.
type targetFlags struct {
	Scalar     float64
	TargetsCSV string
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.Scalar, "target", 0, "one target value applied to every cell")
	cmd.Flags().StringVar(&f.TargetsCSV, "targets", "", "per-cell target table csv")
	cmd.MarkFlagsMutuallyExclusive("target", "targets")
}

func (f *targetFlags) spec(cmd *cobra.Command) experiment.TargetsSpec {
	switch {
	case cmd.Flags().Changed("target"):
		v := f.Scalar
		return experiment.TargetsSpec{Scalar: &v}
	case f.TargetsCSV != "":
		return experiment.TargetsSpec{CSV: f.TargetsCSV}
	default:
		return experiment.TargetsSpec{}
	}
}

// sequenceFlags tune generated per-cell target ladders.
type sequenceFlags struct {
	From  float64
	To    float64
	Step  float64
	Count int
	Scale string
}

func (f *sequenceFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.From, "from", 0, "sequence start, default the observed minimum")
	cmd.Flags().Float64Var(&f.To, "to", 0, "sequence end, default the observed maximum")
	cmd.Flags().Float64Var(&f.Step, "step", 0, "fixed step between targets")
	cmd.Flags().IntVar(&f.Count, "count", 0, "number of targets to generate")
	cmd.Flags().StringVar(&f.Scale, "scale", "", "ladder scale: linear, log or auto")
}

func (f *sequenceFlags) changed(cmd *cobra.Command) bool {
	for _, name := range []string{"from", "to", "step", "count", "scale"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func (f *sequenceFlags) spec() *experiment.SequenceSpec {
	return &experiment.SequenceSpec{From: f.From, To: f.To, Step: f.Step, Count: f.Count, Scale: f.Scale}
}
