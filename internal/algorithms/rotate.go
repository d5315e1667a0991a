// Rotation about the image centre with canvas expansion and bilinear resampling
package algorithms

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"

	"pixel-transforms/internal/core"
)

// Background is the sample value of destination pixels whose source
// position lies outside the input.
const Background uint8 = 0

// sizeEpsilon absorbs floating noise before rounding canvas extents up.
const sizeEpsilon = 1e-9

// ValidateAngle rejects non-finite angles.
func ValidateAngle(degrees float64) error {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return fmt.Errorf("%w: angle must be finite, got %v", core.ErrInvalidParameter, degrees)
	}
	return nil
}

// NormalizeAngle reduces degrees to [0, 360).
func NormalizeAngle(degrees float64) float64 {
	a := math.Mod(degrees, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// RotatedSize returns the smallest canvas that holds a rows x cols
// rectangle rotated by degrees.
func RotatedSize(rows, cols int, degrees float64) (int, int) {
	switch a := NormalizeAngle(degrees); a {
	case 0, 180:
		return rows, cols
	case 90, 270:
		return cols, rows
	default:
		sin, cos := math.Sincos(a * math.Pi / 180)
		w, h := float64(cols), float64(rows)
		newW := math.Abs(w*cos) + math.Abs(h*sin)
		newH := math.Abs(w*sin) + math.Abs(h*cos)
		return ceilExtent(newH), ceilExtent(newW)
	}
}

// ValidateRotation checks the angle and that the grown canvas for a rows x
// cols input stays within core.MaxDimension.
func ValidateRotation(rows, cols int, degrees float64) error {
	if err := ValidateAngle(degrees); err != nil {
		return err
	}
	outRows, outCols := RotatedSize(rows, cols, degrees)
	if outRows > core.MaxDimension || outCols > core.MaxDimension {
		return fmt.Errorf("%w: rotating %dx%d by %v needs a %dx%d canvas (max: %d)",
			core.ErrInvalidParameter, rows, cols, degrees, outRows, outCols, core.MaxDimension)
	}
	return nil
}

func ceilExtent(x float64) int {
	return max(1, int(math.Ceil(x-sizeEpsilon)))
}

// Rotate turns src counter-clockwise by degrees about its centre. The output
// canvas is grown to hold every rotated corner. Multiples of 90 degrees are
// exact sample permutations; other angles are filled by inverse mapping with
// bilinear interpolation and uncovered pixels are set to Background.
func Rotate(src *core.Buffer, degrees float64) (*core.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateRotation(src.Rows, src.Cols, degrees); err != nil {
		return nil, err
	}

	switch a := NormalizeAngle(degrees); a {
	case 0:
		return src.Clone(), nil
	case 90:
		return rotate90(src), nil
	case 180:
		return rotate180(src), nil
	case 270:
		return rotate270(src), nil
	default:
		return rotateBilinear(src, a), nil
	}
}

// rotate90 maps dst(r, c) = src(c, W-1-r).
func rotate90(src *core.Buffer) *core.Buffer {
	dst := src.NewLike(src.Cols, src.Rows)
	ch := src.Channels
	for r := range dst.Rows {
		for c := range dst.Cols {
			s := src.Offset(c, src.Cols-1-r, 0)
			d := dst.Offset(r, c, 0)
			copy(dst.Pix[d:d+ch], src.Pix[s:s+ch])
		}
	}
	return dst
}

// rotate180 maps dst(r, c) = src(H-1-r, W-1-c).
func rotate180(src *core.Buffer) *core.Buffer {
	dst := src.NewLike(src.Rows, src.Cols)
	ch := src.Channels
	for r := range dst.Rows {
		for c := range dst.Cols {
			s := src.Offset(src.Rows-1-r, src.Cols-1-c, 0)
			d := dst.Offset(r, c, 0)
			copy(dst.Pix[d:d+ch], src.Pix[s:s+ch])
		}
	}
	return dst
}

// rotate270 maps dst(r, c) = src(H-1-c, r).
func rotate270(src *core.Buffer) *core.Buffer {
	dst := src.NewLike(src.Cols, src.Rows)
	ch := src.Channels
	for r := range dst.Rows {
		for c := range dst.Cols {
			s := src.Offset(src.Rows-1-c, r, 0)
			d := dst.Offset(r, c, 0)
			copy(dst.Pix[d:d+ch], src.Pix[s:s+ch])
		}
	}
	return dst
}

// inverseMapping returns the transform from destination pixel coordinates
// to source pixel coordinates. Pixel (r, c) covers the unit square centred
// at (c+0.5, r+0.5); y grows downwards, so a counter-clockwise turn on
// screen uses the transposed rotation matrix.
func inverseMapping(srcRows, srcCols, dstRows, dstCols int, degrees float64) matrix.Matrix {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	unrotate := matrix.Matrix{cos, sin, -sin, cos, 0, 0}
	return matrix.Translate(-float64(dstCols)/2, -float64(dstRows)/2).
		Mul(unrotate).
		Mul(matrix.Translate(float64(srcCols)/2, float64(srcRows)/2))
}

func rotateBilinear(src *core.Buffer, degrees float64) *core.Buffer {
	rows, cols := RotatedSize(src.Rows, src.Cols, degrees)
	dst := src.NewLike(rows, cols)
	inv := inverseMapping(src.Rows, src.Cols, rows, cols, degrees)

	w, h := float64(src.Cols), float64(src.Rows)
	ch := src.Channels
	parallelRows(rows, dst.Stride(), func(start, end int) {
		for r := start; r < end; r++ {
			for c := range cols {
				x, y := inv.Apply(float64(c)+0.5, float64(r)+0.5)
				d := dst.Offset(r, c, 0)
				if x < 0 || x >= w || y < 0 || y >= h {
					for k := range ch {
						dst.Pix[d+k] = Background
					}
					continue
				}
				sampleBilinear(src, x-0.5, y-0.5, dst.Pix[d:d+ch])
			}
		}
	})
	return dst
}

// sampleBilinear interpolates all channels of src at pixel-index position
// (x, y) into out. Neighbours beyond the edge replicate the border.
func sampleBilinear(src *core.Buffer, x, y float64, out []uint8) {
	x0f, y0f := math.Floor(x), math.Floor(y)
	fx, fy := x-x0f, y-y0f
	x0, y0 := int(x0f), int(y0f)

	c0, c1 := clampIndex(x0, src.Cols), clampIndex(x0+1, src.Cols)
	r0, r1 := clampIndex(y0, src.Rows), clampIndex(y0+1, src.Rows)

	w00 := (1 - fx) * (1 - fy)
	w01 := fx * (1 - fy)
	w10 := (1 - fx) * fy
	w11 := fx * fy

	i00, i01 := src.Offset(r0, c0, 0), src.Offset(r0, c1, 0)
	i10, i11 := src.Offset(r1, c0, 0), src.Offset(r1, c1, 0)
	for k := range out {
		v := w00*float64(src.Pix[i00+k]) +
			w01*float64(src.Pix[i01+k]) +
			w10*float64(src.Pix[i10+k]) +
			w11*float64(src.Pix[i11+k])
		out[k] = core.ClampRound(v)
	}
}

// Rotator implements arbitrary-angle rotation
type Rotator struct{}

// NewRotator creates a new rotation algorithm
func NewRotator() *Rotator {
	return &Rotator{}
}

func (rt *Rotator) Apply(input *core.Buffer, params Params) (*core.Buffer, error) {
	if err := rt.Validate(params); err != nil {
		return nil, err
	}
	angle, _ := floatParam(params, "angle", 45)
	return Rotate(input, angle)
}

func (rt *Rotator) GetDefaultParams() Params {
	return Params{
		"angle": 45.0,
	}
}

func (rt *Rotator) GetName() string {
	return "Rotation"
}

func (rt *Rotator) GetDescription() string {
	return "Counter-clockwise rotation about the centre on an expanded canvas"
}

func (rt *Rotator) Validate(params Params) error {
	angle, err := floatParam(params, "angle", 45)
	if err != nil {
		return err
	}
	return ValidateAngle(angle)
}

func (rt *Rotator) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{
			Name:        "angle",
			Type:        "float",
			Default:     45.0,
			Description: "Rotation angle in degrees, positive is counter-clockwise",
		},
	}
}
