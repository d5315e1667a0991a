package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixel-transforms/internal/core"
)

func TestPSNRIdentical(t *testing.T) {
	b := core.MustFromRows([][]uint8{{0, 64}, {128, 255}})
	psnr, err := NewPSNR().Calculate(b, b.Clone())
	require.NoError(t, err)
	assert.True(t, math.IsInf(psnr, 1))
}

func TestMSEAndPSNR(t *testing.T) {
	a := core.MustFromRows([][]uint8{{10, 10}, {10, 10}})
	b := core.MustFromRows([][]uint8{{12, 8}, {10, 10}})

	mse, err := NewMSE().Calculate(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, mse, 1e-12)

	psnr, err := NewPSNR().Calculate(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 20*math.Log10(255/math.Sqrt(2)), psnr, 1e-9)
}

func TestShapeMismatch(t *testing.T) {
	a := core.MustFromRows([][]uint8{{1, 2, 3}})
	b := core.MustFromRows([][]uint8{{1}, {2}, {3}})

	_, err := NewMSE().Calculate(a, b)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)

	e := NewEvaluator()
	all := e.CalculateAll(a, b)
	assert.NotContains(t, all, "psnr")
	assert.NotContains(t, all, "mse")
	assert.Equal(t, 3.0, all["distinct_levels"])
}

func TestEvaluator(t *testing.T) {
	e := NewEvaluator()
	assert.Equal(t, []string{"distinct_levels", "mse", "psnr"}, e.Names())

	b := core.MustFromRows([][]uint8{{0, 255}, {0, 255}})
	v, err := e.Calculate("distinct_levels", b, b)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	_, err = e.Calculate("ssim", b, b)
	assert.Error(t, err)

	for _, name := range e.Names() {
		m := e.metrics[name]
		lo, hi := m.GetRange()
		assert.Less(t, lo, hi, name)
		assert.NotEmpty(t, m.GetName())
		assert.NotEmpty(t, m.GetDescription())
	}
}
