package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixel-transforms/internal/core"
)

func TestBlockAverageScenario(t *testing.T) {
	src := core.MustFromRows([][]uint8{
		{10, 20, 30, 40},
		{10, 20, 30, 40},
		{10, 20, 30, 40},
		{10, 20, 30, 40},
	})
	want := core.MustFromRows([][]uint8{
		{15, 15, 35, 35},
		{15, 15, 35, 35},
		{15, 15, 35, 35},
		{15, 15, 35, 35},
	})

	out, err := BlockAverage(src, 2)
	require.NoError(t, err)
	requireSameBuffer(t, want, out)

	means, err := BlockMeans(src, 2)
	require.NoError(t, err)
	requireSameBuffer(t, core.MustFromRows([][]uint8{{15, 35}, {15, 35}}), means)
}

func TestBlockAverageIdentity(t *testing.T) {
	src := gradient(t, 5, 7, 3)
	out, err := BlockAverage(src, 1)
	require.NoError(t, err)
	requireSameBuffer(t, src, out)
}

func TestBlockAverageTilesUniform(t *testing.T) {
	src := gradient(t, 12, 9, 3)
	const size = 3
	out, err := BlockAverage(src, size)
	require.NoError(t, err)
	require.Equal(t, src.Metadata(), out.Metadata())

	for r := range src.Rows {
		for c := range src.Cols {
			for k := range 3 {
				anchor := out.At(r/size*size, c/size*size, k)
				assert.Equal(t, anchor, out.At(r, c, k))
			}
		}
	}
}

func TestBlockAveragePartialTiles(t *testing.T) {
	// 3x3 with block 2: the right column, bottom row and corner tiles are
	// partial and must not be biased by missing samples.
	src := core.MustFromRows([][]uint8{
		{100, 100, 200},
		{100, 100, 200},
		{50, 50, 250},
	})
	want := core.MustFromRows([][]uint8{
		{100, 100, 200},
		{100, 100, 200},
		{50, 50, 250},
	})

	out, err := BlockAverage(src, 2)
	require.NoError(t, err)
	requireSameBuffer(t, want, out)

	means, err := BlockMeans(src, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, means.Rows)
	assert.Equal(t, 2, means.Cols)
}

func TestBlockAverageLargerThanImage(t *testing.T) {
	src := core.MustFromRows([][]uint8{
		{0, 10},
		{20, 31},
	})
	out, err := BlockAverage(src, 1<<30)
	require.NoError(t, err)
	// (0+10+20+31)/4 = 15.25
	assert.Equal(t, []uint8{15, 15, 15, 15}, out.Pix)
}

func TestBlockAverageInvalidSize(t *testing.T) {
	src := gradient(t, 4, 4, 1)
	for _, size := range []int{0, -1} {
		_, err := BlockAverage(src, size)
		assert.ErrorIs(t, err, core.ErrInvalidParameter)
		_, err = BlockMeans(src, size)
		assert.ErrorIs(t, err, core.ErrInvalidParameter)
	}
}
