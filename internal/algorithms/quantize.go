// Intensity-level quantization
package algorithms

import (
	"fmt"
	"math"

	"pixel-transforms/internal/core"
)

const (
	MinLevels = 2
	MaxLevels = 256
)

// ValidateLevels checks a quantization level count.
func ValidateLevels(levels int) error {
	if levels < MinLevels || levels > MaxLevels {
		return fmt.Errorf("%w: levels must be between %d and %d, got %d",
			core.ErrInvalidParameter, MinLevels, MaxLevels, levels)
	}
	return nil
}

// QuantizeTable returns the 256-entry lookup table mapping an 8-bit sample to
// its quantized value. Sample v falls in bin floor(v*levels/256), which is
// floor(v / (256/levels)) computed exactly, and bin i maps back to
// round(i * 255/(levels-1)).
func QuantizeTable(levels int) ([256]uint8, error) {
	var lut [256]uint8
	if err := ValidateLevels(levels); err != nil {
		return lut, err
	}

	scale := 255.0 / float64(levels-1)
	for v := range 256 {
		bin := min(v*levels/256, levels-1)
		lut[v] = core.ClampRound(math.Round(float64(bin) * scale))
	}
	return lut, nil
}

// Quantize reduces every channel of src to the given number of evenly spaced
// intensity levels. Level 0 maps to 0 and level levels-1 maps to 255.
func Quantize(src *core.Buffer, levels int) (*core.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	lut, err := QuantizeTable(levels)
	if err != nil {
		return nil, err
	}

	dst := src.NewLike(src.Rows, src.Cols)
	for i, v := range src.Pix {
		dst.Pix[i] = lut[v]
	}
	return dst, nil
}

// Quantizer implements intensity-level reduction
type Quantizer struct{}

// NewQuantizer creates a new quantization algorithm
func NewQuantizer() *Quantizer {
	return &Quantizer{}
}

func (q *Quantizer) Apply(input *core.Buffer, params Params) (*core.Buffer, error) {
	if err := q.Validate(params); err != nil {
		return nil, err
	}
	levels, _ := intParam(params, "levels", 8)
	return Quantize(input, levels)
}

func (q *Quantizer) GetDefaultParams() Params {
	return Params{
		"levels": 8,
	}
}

func (q *Quantizer) GetName() string {
	return "Quantization"
}

func (q *Quantizer) GetDescription() string {
	return "Reduces each channel to a fixed number of evenly spaced intensity levels"
}

func (q *Quantizer) Validate(params Params) error {
	levels, err := intParam(params, "levels", 8)
	if err != nil {
		return err
	}
	return ValidateLevels(levels)
}

func (q *Quantizer) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "levels",
			Type:        "int",
			Min:         MinLevels,
			Max:         MaxLevels,
			Default:     8,
			Description: "Number of intensity levels per channel",
		},
	}
}
