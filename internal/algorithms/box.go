// Neighborhood (box) averaging with replicate padding
package algorithms

import (
	"fmt"

	"pixel-transforms/internal/core"
)

// MaxKernelSize bounds box kernels so that a window sum of 255*k*k stays
// well inside int64.
const MaxKernelSize = 2*core.MaxDimension + 1

// ValidateKernelSize checks a box kernel size. Even sizes have no centre
// pixel and are rejected.
func ValidateKernelSize(kernelSize int) error {
	if kernelSize <= 0 {
		return fmt.Errorf("%w: kernel_size must be positive, got %d", core.ErrInvalidParameter, kernelSize)
	}
	if kernelSize > MaxKernelSize {
		return fmt.Errorf("%w: kernel_size must be at most %d, got %d", core.ErrInvalidParameter, MaxKernelSize, kernelSize)
	}
	if kernelSize%2 == 0 {
		return fmt.Errorf("%w: kernel_size must be odd, got %d", core.ErrInvalidParameter, kernelSize)
	}
	return nil
}

// BoxAverage replaces every sample with the mean of the kernelSize x
// kernelSize window centred on it, per channel. Windows reaching past the
// border read the nearest edge sample (replicate padding). Means are rounded
// half up.
//
// The sum is computed separably with running window sums, which gives the
// same integer sum as the direct 2D window because clamping rows and columns
// are independent.
func BoxAverage(src *core.Buffer, kernelSize int) (*core.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateKernelSize(kernelSize); err != nil {
		return nil, err
	}
	if kernelSize == 1 {
		return src.Clone(), nil
	}

	rows, cols, ch := src.Rows, src.Cols, src.Channels
	stride := src.Stride()
	half := kernelSize / 2

	// Horizontal window sums.
	horiz := make([]int64, len(src.Pix))
	parallelRows(rows, stride, func(start, end int) {
		for r := start; r < end; r++ {
			row := src.Pix[r*stride : (r+1)*stride]
			out := horiz[r*stride : (r+1)*stride]
			for k := range ch {
				var sum int64
				for dc := -half; dc <= half; dc++ {
					sum += int64(row[clampIndex(dc, cols)*ch+k])
				}
				out[k] = sum
				for c := 1; c < cols; c++ {
					sum += int64(row[clampIndex(c+half, cols)*ch+k])
					sum -= int64(row[clampIndex(c-half-1, cols)*ch+k])
					out[c*ch+k] = sum
				}
			}
		}
	})

	// Vertical window sums over the horizontal sums.
	dst := src.NewLike(rows, cols)
	area := int64(kernelSize) * int64(kernelSize)
	parallelRows(rows, stride, func(start, end int) {
		acc := make([]int64, stride)
		for dr := start - half; dr <= start+half; dr++ {
			line := horiz[clampIndex(dr, rows)*stride:]
			for j := range acc {
				acc[j] += line[j]
			}
		}
		for r := start; r < end; r++ {
			if r > start {
				add := horiz[clampIndex(r+half, rows)*stride:]
				sub := horiz[clampIndex(r-half-1, rows)*stride:]
				for j := range acc {
					acc[j] += add[j] - sub[j]
				}
			}
			out := dst.Pix[r*stride : (r+1)*stride]
			for j, sum := range acc {
				out[j] = uint8((sum + area/2) / area)
			}
		}
	})

	return dst, nil
}

// clampIndex maps i into [0, n) by replicating the nearest edge.
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// BoxAverager implements uniform-kernel neighborhood averaging
type BoxAverager struct{}

// NewBoxAverager creates a new box averaging algorithm
func NewBoxAverager() *BoxAverager {
	return &BoxAverager{}
}

func (b *BoxAverager) Apply(input *core.Buffer, params Params) (*core.Buffer, error) {
	if err := b.Validate(params); err != nil {
		return nil, err
	}
	kernelSize, _ := intParam(params, "kernel_size", 3)
	return BoxAverage(input, kernelSize)
}

func (b *BoxAverager) GetDefaultParams() Params {
	return Params{
		"kernel_size": 3,
	}
}

func (b *BoxAverager) GetName() string {
	return "Box Average"
}

func (b *BoxAverager) GetDescription() string {
	return "Mean of a square neighborhood with replicate padding at the borders"
}

func (b *BoxAverager) Validate(params Params) error {
	kernelSize, err := intParam(params, "kernel_size", 3)
	if err != nil {
		return err
	}
	return ValidateKernelSize(kernelSize)
}

func (b *BoxAverager) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "kernel_size",
			Type:        "int",
			Min:         1,
			Max:         MaxKernelSize,
			Default:     3,
			Description: "Side of the averaging window (must be odd)",
		},
	}
}
