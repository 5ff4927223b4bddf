package reader

import (
	"github.com/teftimov/IOHanalyzer/internal/dataset"
	"github.com/teftimov/IOHanalyzer/pkg/apis/runmapping"
)

// Mapper turns one raw row into a typed run record.
type Mapper interface {
	Map(record map[string]string) (dataset.RunRecord, error)
}

// MappingLoader produces the column mapping a Mapper is built from.
type MappingLoader interface {
	Load(validate bool) (*runmapping.RunMapping, error)
}
