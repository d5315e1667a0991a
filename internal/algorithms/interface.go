// Algorithm registry for the pixel-buffer transformations
package algorithms

import (
	"fmt"
	"sort"

	"pixel-transforms/internal/core"
)

// Params carries loosely typed task parameters as decoded from YAML or flags.
type Params map[string]interface{}

// Algorithm defines the interface for pixel-buffer transformations.
// Apply never mutates its input and always returns a freshly allocated buffer.
type Algorithm interface {
	Apply(input *core.Buffer, params Params) (*core.Buffer, error)
	GetDefaultParams() Params
	GetName() string
	GetDescription() string
	Validate(params Params) error
	GetParameterInfo() []ParameterInfo
}

// ParameterInfo describes a parameter for CLI help output
type ParameterInfo struct {
	Name        string      `json:"name" yaml:"name"`
	Type        string      `json:"type" yaml:"type"` // "int", "float"
	Min         interface{} `json:"min,omitempty" yaml:"min,omitempty"`
	Max         interface{} `json:"max,omitempty" yaml:"max,omitempty"`
	Default     interface{} `json:"default" yaml:"default"`
	Description string      `json:"description" yaml:"description"`
}

var algorithms = make(map[string]Algorithm)

func Register(name string, algorithm Algorithm) {
	algorithms[name] = algorithm
}

func Get(name string) (Algorithm, bool) {
	algorithm, exists := algorithms[name]
	return algorithm, exists
}

func Apply(name string, input *core.Buffer, params Params) (*core.Buffer, error) {
	algorithm, exists := algorithms[name]
	if !exists {
		return nil, fmt.Errorf("%w: algorithm not found: %s", core.ErrInvalidParameter, name)
	}

	return algorithm.Apply(input, params)
}

func ValidateParameters(name string, params Params) error {
	algorithm, exists := algorithms[name]
	if !exists {
		return fmt.Errorf("%w: algorithm not found: %s", core.ErrInvalidParameter, name)
	}

	return algorithm.Validate(params)
}

func IsValidAlgorithm(name string) bool {
	_, exists := algorithms[name]
	return exists
}

// Names returns the registered algorithm names in sorted order.
func Names() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func GetAlgorithmsByCategory() map[string][]string {
	return map[string][]string{
		"Intensity": {
			"quantize",
		},
		"Smoothing": {
			"box_average",
			"block_average",
			"block_means",
		},
		"Geometry": {
			"rotate",
		},
	}
}

func init() {
	Register("quantize", NewQuantizer())
	Register("box_average", NewBoxAverager())
	Register("rotate", NewRotator())
	Register("block_average", NewBlockAverager())
	Register("block_means", NewBlockMeans())
}
