package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"pixel-transforms/internal/core"
)

// Decode reads any registered image format (PNG, JPEG, BMP, TIFF).
func Decode(r io.Reader, grayscale bool) (*core.Buffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return FromImage(img, grayscale)
}

// FromImage converts img to a gray or RGB buffer. Transparent pixels are
// composited over black.
func FromImage(img image.Image, grayscale bool) (*core.Buffer, error) {
	bounds := img.Bounds()
	rect := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	if err := core.ValidateSourceShape(rect.Dy(), rect.Dx(), 1); err != nil {
		return nil, err
	}

	if grayscale {
		gray := image.NewGray(rect)
		draw.Draw(gray, rect, img, bounds.Min, draw.Src)
		buf, err := core.NewBuffer(rect.Dy(), rect.Dx(), 1)
		if err != nil {
			return nil, err
		}
		for y := range rect.Dy() {
			copy(buf.Pix[y*buf.Stride():(y+1)*buf.Stride()], gray.Pix[y*gray.Stride:])
		}
		return buf, nil
	}

	rgba := image.NewRGBA(rect)
	draw.Draw(rgba, rect, img, bounds.Min, draw.Src)
	buf, err := core.NewBuffer(rect.Dy(), rect.Dx(), 3)
	if err != nil {
		return nil, err
	}
	for y := range rect.Dy() {
		row := rgba.Pix[y*rgba.Stride:]
		for x := range rect.Dx() {
			copy(buf.Pix[buf.Offset(y, x, 0):buf.Offset(y, x, 3)], row[x*4:x*4+3])
		}
	}
	return buf, nil
}

// ToImage wraps a copy of buf as an *image.Gray or opaque *image.NRGBA.
func ToImage(buf *core.Buffer) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, buf.Cols, buf.Rows)

	if buf.Channels == 1 {
		gray := image.NewGray(rect)
		copy(gray.Pix, buf.Pix)
		return gray, nil
	}

	img := image.NewNRGBA(rect)
	for r := range buf.Rows {
		for c := range buf.Cols {
			img.SetNRGBA(c, r, color.NRGBA{
				R: buf.At(r, c, 0),
				G: buf.At(r, c, 1),
				B: buf.At(r, c, 2),
				A: 0xff,
			})
		}
	}
	return img, nil
}

// EncodePNG writes buf as PNG.
func EncodePNG(w io.Writer, buf *core.Buffer) error {
	img, err := ToImage(buf)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// NativeLoader is a pure-Go Codec. It writes PNG only.
type NativeLoader struct {
	logger *logrus.Logger
}

func NewNativeLoader(logger *logrus.Logger) *NativeLoader {
	return &NativeLoader{
		logger: logger,
	}
}

func (l *NativeLoader) LoadImage(path string, grayscale bool) (*core.Buffer, error) {
	l.logger.WithField("filepath", path).Debug("Loading image")

	if !IsSupportedImageFormat(path) {
		return nil, fmt.Errorf("unsupported image format: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	defer f.Close()

	buf, err := Decode(f, grayscale)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    buf.Cols,
		"height":   buf.Rows,
		"channels": buf.Channels,
	}).Info("Image loaded successfully")
	return buf, nil
}

func (l *NativeLoader) SaveImage(buf *core.Buffer, path string) (err error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".png" {
		return fmt.Errorf("unsupported output format %q: native codec writes .png", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := EncodePNG(f, buf); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	l.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    buf.Cols,
		"height":   buf.Rows,
		"channels": buf.Channels,
	}).Info("Image saved successfully")
	return nil
}
