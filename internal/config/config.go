// Task plan configuration loaded from YAML
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"pixel-transforms/internal/algorithms"
	"pixel-transforms/internal/core"
	"pixel-transforms/internal/pipeline"
)

// Codec selects the image decoding backend.
const (
	CodecGoCV   = "gocv"
	CodecNative = "native"
)

// Sweep runs one algorithm once per value of a single parameter.
type Sweep struct {
	Algorithm string        `yaml:"algorithm"`
	Parameter string        `yaml:"parameter"`
	Values    []interface{} `yaml:"values"`
}

// Config is the task plan for one source image.
type Config struct {
	Input       string  `yaml:"input"`
	OutputDir   string  `yaml:"output_dir"`
	Grayscale   bool    `yaml:"grayscale"`
	Concurrency int     `yaml:"concurrency"`
	Codec       string  `yaml:"codec"`
	Sweeps      []Sweep `yaml:"sweeps"`
}

// Default returns the standard teaching plan. Box kernels are odd because
// even kernels have no centre pixel.
func Default() *Config {
	return &Config{
		OutputDir: "output",
		Codec:     CodecGoCV,
		Sweeps: []Sweep{
			{Algorithm: "quantize", Parameter: "levels", Values: []interface{}{2, 4, 8, 16, 32, 64, 128}},
			{Algorithm: "box_average", Parameter: "kernel_size", Values: []interface{}{3, 11, 21}},
			{Algorithm: "rotate", Parameter: "angle", Values: []interface{}{45, 90}},
			{Algorithm: "block_average", Parameter: "block_size", Values: []interface{}{3, 5, 7}},
		},
	}
}

// Load reads a YAML plan from path on top of the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML plan. Fields that are absent keep their defaults; a
// sweeps list, when present, replaces the default sweeps entirely.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the plan without touching any image.
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must not be negative", core.ErrInvalidParameter)
	}
	switch c.Codec {
	case CodecGoCV, CodecNative:
	default:
		return fmt.Errorf("%w: unknown codec %q", core.ErrInvalidParameter, c.Codec)
	}

	for i, s := range c.Sweeps {
		if !algorithms.IsValidAlgorithm(s.Algorithm) {
			return fmt.Errorf("%w: sweep %d: unknown algorithm %q", core.ErrInvalidParameter, i, s.Algorithm)
		}
		if s.Parameter == "" {
			return fmt.Errorf("%w: sweep %d: missing parameter", core.ErrInvalidParameter, i)
		}
		if len(s.Values) == 0 {
			return fmt.Errorf("%w: sweep %d: no values", core.ErrInvalidParameter, i)
		}
	}
	return nil
}

// Tasks expands the sweeps into one task per value. Values that yield the
// same task ID, such as 45 and 45.0, run once. Parameter values are not
// range checked here; the runner reports each invalid task separately.
func (c *Config) Tasks() []pipeline.Task {
	var tasks []pipeline.Task
	seen := make(map[string]bool)
	for _, s := range c.Sweeps {
		for _, v := range s.Values {
			id := TaskID(s.Algorithm, s.Parameter, v)
			if seen[id] {
				continue
			}
			seen[id] = true
			tasks = append(tasks, pipeline.Task{
				ID:        id,
				Algorithm: s.Algorithm,
				Parameter: s.Parameter,
				Params:    algorithms.Params{s.Parameter: v},
			})
		}
	}
	return tasks
}

// TaskID builds a file-name friendly identifier such as
// "rotate_angle_22.5" or "rotate_angle_m45".
func TaskID(algorithm, parameter string, value interface{}) string {
	var v string
	switch x := value.(type) {
	case float64:
		v = strconv.FormatFloat(x, 'f', -1, 64)
	default:
		v = fmt.Sprint(x)
	}
	v = strings.NewReplacer("-", "m", "+", "", "/", "_", " ", "_").Replace(v)
	return fmt.Sprintf("%s_%s_%s", algorithm, parameter, v)
}
