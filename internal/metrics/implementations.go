package metrics

import (
	"fmt"
	"math"

	"pixel-transforms/internal/core"
)

func sameShape(original, processed *core.Buffer) error {
	if err := original.Validate(); err != nil {
		return err
	}
	if err := processed.Validate(); err != nil {
		return err
	}
	if original.Metadata() != processed.Metadata() {
		return fmt.Errorf("%w: %v vs %v", core.ErrDimensionMismatch, original, processed)
	}
	return nil
}

func meanSquaredError(original, processed *core.Buffer) float64 {
	sumSquaredDiff := 0.0
	for i, v := range original.Pix {
		diff := float64(v) - float64(processed.Pix[i])
		sumSquaredDiff += diff * diff
	}
	return sumSquaredDiff / float64(len(original.Pix))
}

// MSE implements the mean squared error over all samples
type MSE struct{}

// NewMSE creates a new MSE metric
func NewMSE() *MSE {
	return &MSE{}
}

func (m *MSE) Calculate(original, processed *core.Buffer) (float64, error) {
	if err := sameShape(original, processed); err != nil {
		return 0, err
	}
	return meanSquaredError(original, processed), nil
}

func (m *MSE) GetName() string {
	return "MSE"
}

func (m *MSE) GetDescription() string {
	return "Mean Squared Error - average squared sample difference"
}

func (m *MSE) GetRange() (float64, float64) {
	return 0, 255 * 255
}

func (m *MSE) IsHigherBetter() bool {
	return false
}

// PSNR implements Peak Signal-to-Noise Ratio metric
type PSNR struct{}

// NewPSNR creates a new PSNR metric
func NewPSNR() *PSNR {
	return &PSNR{}
}

func (p *PSNR) Calculate(original, processed *core.Buffer) (float64, error) {
	if err := sameShape(original, processed); err != nil {
		return 0, err
	}

	mse := meanSquaredError(original, processed)
	if mse == 0 {
		return math.Inf(1), nil // Perfect match
	}

	maxVal := 255.0
	return 20 * math.Log10(maxVal/math.Sqrt(mse)), nil
}

func (p *PSNR) GetName() string {
	return "PSNR"
}

func (p *PSNR) GetDescription() string {
	return "Peak Signal-to-Noise Ratio - measures image quality"
}

func (p *PSNR) GetRange() (float64, float64) {
	return 0, 100 // Practical range, can go higher
}

func (p *PSNR) IsHigherBetter() bool {
	return true
}

// DistinctLevels counts the distinct sample values of the processed buffer.
// The original is ignored, so it also applies when the shape changes.
type DistinctLevels struct{}

func NewDistinctLevels() *DistinctLevels {
	return &DistinctLevels{}
}

func (d *DistinctLevels) Calculate(_, processed *core.Buffer) (float64, error) {
	if err := processed.Validate(); err != nil {
		return 0, err
	}
	var seen [256]bool
	count := 0
	for _, v := range processed.Pix {
		if !seen[v] {
			seen[v] = true
			count++
		}
	}
	return float64(count), nil
}

func (d *DistinctLevels) GetName() string {
	return "Distinct Levels"
}

func (d *DistinctLevels) GetDescription() string {
	return "Number of distinct sample values in the result"
}

func (d *DistinctLevels) GetRange() (float64, float64) {
	return 1, 256
}

func (d *DistinctLevels) IsHigherBetter() bool {
	return true
}
