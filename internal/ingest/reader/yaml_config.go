package reader

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/teftimov/IOHanalyzer/pkg/apis/runmapping"
)

// YAMLMappingLoader decodes a column mapping document.
type YAMLMappingLoader struct {
	reader io.Reader
}

func NewYAMLMappingLoader(reader io.Reader) *YAMLMappingLoader {
	return &YAMLMappingLoader{
		reader: reader,
	}
}

func (cl *YAMLMappingLoader) Load(validate bool) (*runmapping.RunMapping, error) {
	decoder := yaml.NewDecoder(cl.reader)
	var mapping runmapping.RunMapping
	if err := decoder.Decode(&mapping); err != nil {
		return nil, err
	}
	if validate {
		if err := mapping.Validate(); err != nil {
			return nil, err
		}
	}
	return &mapping, nil
}
