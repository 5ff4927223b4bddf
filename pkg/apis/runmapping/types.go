package runmapping

import "fmt"

// RunMapping binds the column headers of a long-format run table to the
// fields of a run record, so tables exported by other benchmarking tools
// can be ingested without rewriting their headers.
// +schema:root=true
// +schema:group=iohanalyzer.dev
// +schema:version=v1
type RunMapping struct {
	// Kind is the resource type identifier
	Kind string `json:"kind" yaml:"kind" schema:"required,enum=RunMapping" description:"Resource type identifier"`

	// Version is the API version
	Version string `json:"version" yaml:"version" schema:"required,enum=v1" description:"API version"`

	// Metadata names and describes the mapping
	Metadata Metadata `json:"metadata" yaml:"metadata" schema:"required" description:"Mapping metadata"`

	// Columns binds each run-record field to a table header
	Columns Columns `json:"columns" yaml:"columns" schema:"required" description:"Run-table column bindings"`
}

type Metadata struct {
	// Name is the human-readable name for the mapping
	Name string `json:"name" yaml:"name" schema:"required,minLength=1,maxLength=100" description:"Human-readable name for the mapping configuration"`

	// Description provides details about the mapping
	Description string `json:"description,omitempty" yaml:"description,omitempty" schema:"maxLength=500" description:"Description of the mapping configuration"`
}

// Columns names the source header of every run-record field. All six
// bindings are required; a table missing one of them cannot be regrouped
// into run trajectories.
type Columns struct {
	// Algorithm is the header of the algorithm id column
	Algorithm string `json:"algorithm" yaml:"algorithm" schema:"required,minLength=1" description:"Header of the algorithm id column"`

	// Function is the header of the function id column
	Function string `json:"function" yaml:"function" schema:"required,minLength=1" description:"Header of the function id column"`

	// Dimension is the header of the problem dimension column
	Dimension string `json:"dimension" yaml:"dimension" schema:"required,minLength=1" description:"Header of the problem dimension column"`

	// Run is the header of the run index column
	Run string `json:"run" yaml:"run" schema:"required,minLength=1" description:"Header of the run index column"`

	// Eval is the header of the evaluation counter column
	Eval string `json:"eval" yaml:"eval" schema:"required,minLength=1" description:"Header of the evaluation counter column"`

	// Value is the header of the best-so-far function value column
	Value string `json:"value" yaml:"value" schema:"required,minLength=1" description:"Header of the best-so-far function value column"`
}

// Default is the mapping for tables that already use the canonical headers.
func Default() *RunMapping {
	return &RunMapping{
		Kind:     "RunMapping",
		Version:  "v1",
		Metadata: Metadata{Name: "canonical long format"},
		Columns: Columns{
			Algorithm: "algorithm",
			Function:  "function",
			Dimension: "dimension",
			Run:       "run",
			Eval:      "eval",
			Value:     "value",
		},
	}
}

func (rm *RunMapping) Validate() error {
	if rm.Kind == "" {
		return fmt.Errorf("kind is required")
	}
	if rm.Version == "" {
		return fmt.Errorf("version is required")
	}
	if rm.Metadata.Name == "" {
		return fmt.Errorf("metadata.name is required")
	}
	for _, col := range []struct {
		name   string
		header string
	}{
		{"columns.algorithm", rm.Columns.Algorithm},
		{"columns.function", rm.Columns.Function},
		{"columns.dimension", rm.Columns.Dimension},
		{"columns.run", rm.Columns.Run},
		{"columns.eval", rm.Columns.Eval},
		{"columns.value", rm.Columns.Value},
	} {
		if col.header == "" {
			return fmt.Errorf("%s is required", col.name)
		}
	}
	return nil
}
