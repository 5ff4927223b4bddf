package experiment

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/teftimov/IOHanalyzer/internal/apperr"
	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/internal/stats"
)

// Source types an experiment can load its collection from.
const (
	SourceInMem = "in_mem"
	SourcePG    = "pg"
)

// Spec is a declarative experiment: where the data lives, which slice of it
// to analyze, and which analyses to run. Loaded from yaml.
type Spec struct {
	Name     string       `yaml:"name"`
	Source   SourceSpec   `yaml:"source"`
	Filters  FilterSpec   `yaml:"filters"`
	Seed     uint64       `yaml:"seed"`
	Analyses AnalysesSpec `yaml:"analyses"`

	// baseDir anchors relative file references; the directory of the yaml
	// file when loaded from disk.
	baseDir string
}

// SourceSpec names the storage backend the collection comes from.
type SourceSpec struct {
	Type  string `yaml:"type"`
	Suite string `yaml:"suite"`
}

// FilterSpec restricts the loaded collection; empty axes match everything.
type FilterSpec struct {
	Algorithms []string `yaml:"algorithms"`
	Functions  []string `yaml:"functions"`
	Dimensions []int    `yaml:"dimensions"`
}

// AnalysesSpec holds one optional block per analysis; nil blocks are skipped.
type AnalysesSpec struct {
	ECDF     *ECDFSpec     `yaml:"ecdf"`
	AUC      *AUCSpec      `yaml:"auc"`
	Pairwise *PairwiseSpec `yaml:"pairwise"`
	Ranking  *RankingSpec  `yaml:"ranking"`
}

// TargetsSpec picks comparison targets: a single scalar, a CSV target table,
// or per-cell generated sequences. At most one may be set; with none set the
// orientation-appropriate defaults are derived from the data.
type TargetsSpec struct {
	Scalar   *float64      `yaml:"scalar"`
	CSV      string        `yaml:"csv"`
	Sequence *SequenceSpec `yaml:"sequence"`
}

// SequenceSpec tunes generated target sequences. Zero From/To span the whole
// observed range.
type SequenceSpec struct {
	From  float64 `yaml:"from"`
	To    float64 `yaml:"to"`
	Step  float64 `yaml:"step"`
	Count int     `yaml:"count"`
	Scale string  `yaml:"scale"`
}

type ECDFSpec struct {
	Orientation string      `yaml:"orientation"`
	Targets     TargetsSpec `yaml:"targets"`
}

// AUCSpec integrates the ECDF analysis over [From, To]; it requires the ecdf
// block.
type AUCSpec struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
}

type PairwiseSpec struct {
	Orientation   string      `yaml:"orientation"`
	BootstrapSize int         `yaml:"bootstrap_size"`
	Targets       TargetsSpec `yaml:"targets"`
}

type RankingSpec struct {
	Rounds      int         `yaml:"rounds"`
	Orientation string      `yaml:"orientation"`
	Targets     TargetsSpec `yaml:"targets"`
}

// Load reads and validates an experiment spec from a yaml file. Relative
// file references inside the spec resolve against the file's directory.
func Load(path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read experiment spec: %w", err)
	}
	s, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("experiment spec %s: %w", path, err)
	}
	s.baseDir = filepath.Dir(path)
	return s, nil
}

// Parse decodes and validates an experiment spec.
func Parse(raw []byte) (*Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, apperr.NewValidationWrap("experiment spec is not valid yaml", err)
	}
	s.baseDir = "."
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the spec invariants up front so a runner never starts on a
// half-usable experiment.
func (s *Spec) Validate() error {
	if s.Name == "" {
		return apperr.NewValidation("experiment needs a name")
	}
	switch s.Source.Type {
	case SourceInMem:
	case SourcePG:
		if s.Source.Suite == "" {
			return apperr.NewValidation("pg source needs a suite name")
		}
	case "":
		return apperr.NewValidation("experiment needs a source type")
	default:
		return apperr.NewValidationf("unsupported source type %q, want %q or %q", s.Source.Type, SourceInMem, SourcePG)
	}

	a := s.Analyses
	if a.ECDF == nil && a.AUC == nil && a.Pairwise == nil && a.Ranking == nil {
		return apperr.NewValidation("experiment requests no analyses")
	}

	if a.ECDF != nil {
		if _, err := dataset.ParseOrientation(orDefault(a.ECDF.Orientation)); err != nil {
			return fmt.Errorf("ecdf: %w", err)
		}
		if err := a.ECDF.Targets.validate("ecdf"); err != nil {
			return err
		}
	}
	if a.AUC != nil {
		if a.ECDF == nil {
			return apperr.NewValidation("auc integrates the ecdf analysis; add an ecdf block")
		}
		if a.AUC.To <= a.AUC.From {
			return apperr.NewValidationf("auc: to (%g) must exceed from (%g)", a.AUC.To, a.AUC.From)
		}
	}
	if a.Pairwise != nil {
		if _, err := dataset.ParseOrientation(orDefault(a.Pairwise.Orientation)); err != nil {
			return fmt.Errorf("pairwise: %w", err)
		}
		if a.Pairwise.BootstrapSize < 0 {
			return apperr.NewValidationf("pairwise: bootstrap size must be non-negative, got %d", a.Pairwise.BootstrapSize)
		}
		if err := a.Pairwise.Targets.validate("pairwise"); err != nil {
			return err
		}
	}
	if a.Ranking != nil {
		if _, err := dataset.ParseOrientation(orDefault(a.Ranking.Orientation)); err != nil {
			return fmt.Errorf("ranking: %w", err)
		}
		if a.Ranking.Rounds < 1 {
			return apperr.NewValidationf("ranking: rounds must be at least 1, got %d", a.Ranking.Rounds)
		}
		if err := a.Ranking.Targets.validate("ranking"); err != nil {
			return err
		}
	}
	return nil
}

func (t TargetsSpec) validate(analysis string) error {
	set := 0
	if t.Scalar != nil {
		set++
	}
	if t.CSV != "" {
		set++
	}
	if t.Sequence != nil {
		set++
		if t.Sequence.Scale != "" {
			if _, err := stats.ParseScale(t.Sequence.Scale); err != nil {
				return fmt.Errorf("%s targets: %w", analysis, err)
			}
		}
	}
	if set > 1 {
		return apperr.NewValidationf("%s targets: scalar, csv and sequence are mutually exclusive", analysis)
	}
	return nil
}

// orDefault fills the orientation default: fixed-target comparisons.
func orDefault(s string) string {
	if s == "" {
		return dataset.ByFunctionValue.String()
	}
	return s
}
