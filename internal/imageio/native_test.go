package imageio

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixel-transforms/internal/core"
)

func rgbBuffer(t *testing.T) *core.Buffer {
	t.Helper()
	b, err := core.NewBuffer(3, 4, 3)
	require.NoError(t, err)
	for i := range b.Pix {
		b.Pix[i] = uint8(i * 7)
	}
	return b
}

func TestPNGRoundTrip(t *testing.T) {
	for _, src := range []*core.Buffer{
		rgbBuffer(t),
		core.MustFromRows([][]uint8{{0, 50, 100}, {150, 200, 250}}),
	} {
		var out bytes.Buffer
		require.NoError(t, EncodePNG(&out, src))

		got, err := Decode(&out, src.Channels == 1)
		require.NoError(t, err)
		assert.True(t, src.Equal(got), "%v", src)
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	img.SetNRGBA(5, 5, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetNRGBA(6, 5, color.NRGBA{R: 40, G: 50, B: 60, A: 255})

	buf, err := FromImage(img, false)
	require.NoError(t, err)
	assert.Equal(t, core.Metadata{Rows: 1, Cols: 2, Channels: 3}, buf.Metadata())
	assert.Equal(t, []uint8{10, 20, 30, 40, 50, 60}, buf.Pix)
}

func TestFromImageGrayscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{A: 255})

	buf, err := FromImage(img, true)
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 0}, buf.Pix)
}

func TestToImageRejectsMalformed(t *testing.T) {
	_, err := ToImage(&core.Buffer{Rows: 1, Cols: 1, Channels: 3, Pix: []uint8{1}})
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestNativeLoader(t *testing.T) {
	logger, _ := test.NewNullLogger()
	loader := NewNativeLoader(logger)
	dir := t.TempDir()

	src := rgbBuffer(t)
	path := filepath.Join(dir, "out.png")
	require.NoError(t, loader.SaveImage(src, path))

	got, err := loader.LoadImage(path, false)
	require.NoError(t, err)
	assert.True(t, src.Equal(got))

	assert.Error(t, loader.SaveImage(src, filepath.Join(dir, "out.jpg")))
	_, err = loader.LoadImage(filepath.Join(dir, "out.gif"), false)
	assert.Error(t, err)
	_, err = loader.LoadImage(filepath.Join(dir, "missing.png"), false)
	assert.Error(t, err)
}

func TestIsSupportedImageFormat(t *testing.T) {
	for _, name := range []string{"a.png", "b.JPG", "c.jpeg", "d.tif", "e.tiff", "f.bmp"} {
		assert.True(t, IsSupportedImageFormat(name), name)
	}
	for _, name := range []string{"a.gif", "noext", "dir.png/file"} {
		assert.False(t, IsSupportedImageFormat(name), name)
	}
}
