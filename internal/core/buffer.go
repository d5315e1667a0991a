// Core pixel buffer shared by every transformation
package core

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter reports an out-of-range task parameter or malformed
	// buffer geometry.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDimensionMismatch reports a sample slice whose length disagrees with
	// the declared rows, cols and channels.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// MaxSourceDimension bounds rows and cols of decoded images and pipeline
// sources.
const MaxSourceDimension = 16384

// MaxDimension bounds rows and cols of any buffer. It leaves room for a
// source rotated by 45 degrees, whose canvas grows by up to sqrt(2).
const MaxDimension = 2 * MaxSourceDimension

// Buffer is a rectangular grid of 8-bit samples stored row-major with the
// channels of each pixel interleaved.
type Buffer struct {
	Rows     int
	Cols     int
	Channels int
	Pix      []uint8
}

// Metadata describes the shape of a buffer
type Metadata struct {
	Rows     int
	Cols     int
	Channels int
}

// NewBuffer allocates a zeroed buffer.
func NewBuffer(rows, cols, channels int) (*Buffer, error) {
	if err := ValidateShape(rows, cols, channels); err != nil {
		return nil, err
	}
	return &Buffer{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Pix:      make([]uint8, rows*cols*channels),
	}, nil
}

// FromSamples builds a buffer from a copy of pix.
func FromSamples(rows, cols, channels int, pix []uint8) (*Buffer, error) {
	if err := ValidateShape(rows, cols, channels); err != nil {
		return nil, err
	}
	if want := rows * cols * channels; len(pix) != want {
		return nil, fmt.Errorf("%w: %dx%dx%d needs %d samples, got %d",
			ErrDimensionMismatch, rows, cols, channels, want, len(pix))
	}
	return &Buffer{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Pix:      bytes.Clone(pix),
	}, nil
}

// MustFromRows builds a single-channel buffer from a literal grid.
// It panics on ragged input and is meant for tests and fixtures.
func MustFromRows(grid [][]uint8) *Buffer {
	if len(grid) == 0 {
		panic("core: empty grid")
	}
	cols := len(grid[0])
	pix := make([]uint8, 0, len(grid)*cols)
	for _, row := range grid {
		if len(row) != cols {
			panic("core: ragged grid")
		}
		pix = append(pix, row...)
	}
	b, err := FromSamples(len(grid), cols, 1, pix)
	if err != nil {
		panic(err)
	}
	return b
}

// ValidateShape checks the declared geometry of a buffer.
func ValidateShape(rows, cols, channels int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrInvalidParameter, rows, cols)
	}
	if rows > MaxDimension || cols > MaxDimension {
		return fmt.Errorf("%w: image too large: %dx%d (max: %d)", ErrInvalidParameter, rows, cols, MaxDimension)
	}
	if channels != 1 && channels != 3 {
		return fmt.Errorf("%w: unsupported number of channels: %d", ErrInvalidParameter, channels)
	}
	return nil
}

// ValidateSourceShape is ValidateShape with the tighter source bound.
func ValidateSourceShape(rows, cols, channels int) error {
	if err := ValidateShape(rows, cols, channels); err != nil {
		return err
	}
	if rows > MaxSourceDimension || cols > MaxSourceDimension {
		return fmt.Errorf("%w: source image too large: %dx%d (max: %d)", ErrInvalidParameter, rows, cols, MaxSourceDimension)
	}
	return nil
}

// ValidateSource checks that b is well formed and small enough to feed a
// sweep.
func (b *Buffer) ValidateSource() error {
	if err := b.Validate(); err != nil {
		return err
	}
	return ValidateSourceShape(b.Rows, b.Cols, b.Channels)
}

// Validate checks that b is well formed. A nil buffer is invalid.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidParameter)
	}
	if err := ValidateShape(b.Rows, b.Cols, b.Channels); err != nil {
		return err
	}
	if want := b.Rows * b.Cols * b.Channels; len(b.Pix) != want {
		return fmt.Errorf("%w: %dx%dx%d needs %d samples, got %d",
			ErrDimensionMismatch, b.Rows, b.Cols, b.Channels, want, len(b.Pix))
	}
	return nil
}

// Metadata returns the shape of b.
func (b *Buffer) Metadata() Metadata {
	return Metadata{Rows: b.Rows, Cols: b.Cols, Channels: b.Channels}
}

// Stride is the number of samples in one row.
func (b *Buffer) Stride() int {
	return b.Cols * b.Channels
}

// Offset returns the index of channel k of pixel (r, c) in Pix.
func (b *Buffer) Offset(r, c, k int) int {
	return (r*b.Cols+c)*b.Channels + k
}

func (b *Buffer) At(r, c, k int) uint8 {
	return b.Pix[b.Offset(r, c, k)]
}

func (b *Buffer) Set(r, c, k int, v uint8) {
	b.Pix[b.Offset(r, c, k)] = v
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{
		Rows:     b.Rows,
		Cols:     b.Cols,
		Channels: b.Channels,
		Pix:      bytes.Clone(b.Pix),
	}
}

// NewLike allocates a zeroed buffer with the channel count of b.
func (b *Buffer) NewLike(rows, cols int) *Buffer {
	return &Buffer{
		Rows:     rows,
		Cols:     cols,
		Channels: b.Channels,
		Pix:      make([]uint8, rows*cols*b.Channels),
	}
}

// Equal reports whether a and b have the same shape and samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.Rows == o.Rows && b.Cols == o.Cols && b.Channels == o.Channels &&
		bytes.Equal(b.Pix, o.Pix)
}

func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(%dx%dx%d)", b.Rows, b.Cols, b.Channels)
}

// ClampRound rounds half up and clamps to the 8-bit range.
func ClampRound(x float64) uint8 {
	v := int64(x + 0.5)
	if x < 0 || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
