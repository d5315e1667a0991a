package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBufferShape(t *testing.T) {
	b, err := NewBuffer(3, 4, 3)
	require.NoError(t, err)
	assert.Len(t, b.Pix, 36)
	assert.Equal(t, 12, b.Stride())
	assert.Equal(t, Metadata{Rows: 3, Cols: 4, Channels: 3}, b.Metadata())
	assert.NoError(t, b.Validate())
}

func TestValidateShape(t *testing.T) {
	tests := []struct {
		rows, cols, channels int
	}{
		{0, 4, 1},
		{4, 0, 1},
		{-1, 4, 3},
		{4, 4, 2},
		{4, 4, 4},
		{MaxDimension + 1, 1, 1},
	}
	for _, tt := range tests {
		_, err := NewBuffer(tt.rows, tt.cols, tt.channels)
		assert.ErrorIs(t, err, ErrInvalidParameter, "%+v", tt)
	}
}

func TestValidateSource(t *testing.T) {
	assert.NoError(t, ValidateShape(MaxSourceDimension+1, 1, 1))
	assert.ErrorIs(t, ValidateSourceShape(MaxSourceDimension+1, 1, 1), ErrInvalidParameter)
	assert.ErrorIs(t, ValidateSourceShape(1, MaxSourceDimension+1, 3), ErrInvalidParameter)
	assert.NoError(t, ValidateSourceShape(MaxSourceDimension, MaxSourceDimension, 3))

	wide, err := NewBuffer(1, MaxSourceDimension+1, 1)
	require.NoError(t, err)
	assert.NoError(t, wide.Validate())
	assert.ErrorIs(t, wide.ValidateSource(), ErrInvalidParameter)

	var nilBuf *Buffer
	assert.ErrorIs(t, nilBuf.ValidateSource(), ErrInvalidParameter)
}

func TestFromSamples(t *testing.T) {
	pix := []uint8{1, 2, 3, 4, 5, 6}
	b, err := FromSamples(2, 3, 1, pix)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), b.At(1, 2, 0))

	// the buffer owns its samples
	pix[0] = 99
	assert.Equal(t, uint8(1), b.At(0, 0, 0))

	_, err = FromSamples(2, 3, 3, pix)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestValidateDetectsMismatch(t *testing.T) {
	b := &Buffer{Rows: 2, Cols: 2, Channels: 3, Pix: make([]uint8, 11)}
	assert.ErrorIs(t, b.Validate(), ErrDimensionMismatch)

	var nilBuf *Buffer
	assert.ErrorIs(t, nilBuf.Validate(), ErrInvalidParameter)
}

func TestOffsetInterleaved(t *testing.T) {
	b, err := NewBuffer(2, 2, 3)
	require.NoError(t, err)
	b.Set(1, 0, 2, 42)
	assert.Equal(t, 8, b.Offset(1, 0, 2))
	assert.Equal(t, uint8(42), b.Pix[8])
}

func TestCloneAndEqual(t *testing.T) {
	b := MustFromRows([][]uint8{{1, 2}, {3, 4}})
	c := b.Clone()
	assert.True(t, b.Equal(c))

	c.Set(0, 0, 0, 9)
	assert.False(t, b.Equal(c))
	assert.Equal(t, uint8(1), b.At(0, 0, 0))

	assert.False(t, b.Equal(b.NewLike(2, 2)))
	assert.Equal(t, "Buffer(2x2x1)", b.String())
}

func TestMustFromRowsPanicsOnRaggedGrid(t *testing.T) {
	assert.Panics(t, func() { MustFromRows([][]uint8{{1, 2}, {3}}) })
	assert.Panics(t, func() { MustFromRows(nil) })
}

func TestClampRound(t *testing.T) {
	assert.Equal(t, uint8(0), ClampRound(-3.2))
	assert.Equal(t, uint8(0), ClampRound(0.49))
	assert.Equal(t, uint8(1), ClampRound(0.5))
	assert.Equal(t, uint8(128), ClampRound(127.5))
	assert.Equal(t, uint8(255), ClampRound(254.6))
	assert.Equal(t, uint8(255), ClampRound(300))
}
