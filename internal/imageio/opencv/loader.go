// Image loading and saving through OpenCV
package opencv

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"pixel-transforms/internal/core"
	"pixel-transforms/internal/imageio"
)

var _ imageio.Codec = (*Loader)(nil)

// Loader handles image file operations with gocv
type Loader struct {
	logger *logrus.Logger
}

func NewLoader(logger *logrus.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// LoadImage decodes path into an RGB or single-channel buffer.
func (l *Loader) LoadImage(path string, grayscale bool) (*core.Buffer, error) {
	l.logger.WithField("filepath", path).Debug("Loading image")

	if !imageio.IsSupportedImageFormat(path) {
		return nil, fmt.Errorf("unsupported image format: %s", path)
	}

	flags := gocv.IMReadColor
	if grayscale {
		flags = gocv.IMReadGrayScale
	}
	mat := gocv.IMRead(path, flags)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("failed to load image: %s", path)
	}

	buf, err := MatToBuffer(mat)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}

	l.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    buf.Cols,
		"height":   buf.Rows,
		"channels": buf.Channels,
	}).Info("Image loaded successfully")

	return buf, nil
}

// SaveImage encodes buf to path; the format follows the extension.
func (l *Loader) SaveImage(buf *core.Buffer, path string) error {
	l.logger.WithField("filepath", path).Debug("Saving image")

	if !imageio.IsSupportedImageFormat(path) {
		return fmt.Errorf("unsupported image format: %s", path)
	}

	mat, err := BufferToMat(buf)
	if err != nil {
		return err
	}
	defer mat.Close()

	if !gocv.IMWrite(path, mat) {
		return fmt.Errorf("failed to save image: %s", path)
	}

	l.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    buf.Cols,
		"height":   buf.Rows,
		"channels": buf.Channels,
	}).Info("Image saved successfully")

	return nil
}

// MatToBuffer copies an 8-bit gray or BGR Mat into a buffer. Colour
// samples are reordered to RGB.
func MatToBuffer(mat gocv.Mat) (*core.Buffer, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("%w: image is empty", core.ErrInvalidParameter)
	}
	if err := core.ValidateSourceShape(mat.Rows(), mat.Cols(), 1); err != nil {
		return nil, err
	}

	switch mat.Type() {
	case gocv.MatTypeCV8UC1:
		return matBytes(mat, 1)
	case gocv.MatTypeCV8UC3:
		rgb := gocv.NewMat()
		defer rgb.Close()
		if err := gocv.CvtColor(mat, &rgb, gocv.ColorBGRToRGB); err != nil {
			return nil, fmt.Errorf("bgr to rgb: %w", err)
		}
		return matBytes(rgb, 3)
	case gocv.MatTypeCV8UC4:
		rgb := gocv.NewMat()
		defer rgb.Close()
		if err := gocv.CvtColor(mat, &rgb, gocv.ColorBGRAToRGB); err != nil {
			return nil, fmt.Errorf("bgra to rgb: %w", err)
		}
		return matBytes(rgb, 3)
	default:
		return nil, fmt.Errorf("%w: unsupported mat type %v", core.ErrInvalidParameter, mat.Type())
	}
}

func matBytes(mat gocv.Mat, channels int) (*core.Buffer, error) {
	if !mat.IsContinuous() {
		cont := mat.Clone()
		defer cont.Close()
		return core.FromSamples(cont.Rows(), cont.Cols(), channels, cont.ToBytes())
	}
	return core.FromSamples(mat.Rows(), mat.Cols(), channels, mat.ToBytes())
}

// BufferToMat builds a gray or BGR Mat owning a copy of the samples.
func BufferToMat(buf *core.Buffer) (gocv.Mat, error) {
	if err := buf.Validate(); err != nil {
		return gocv.NewMat(), err
	}

	matType := gocv.MatTypeCV8UC1
	if buf.Channels == 3 {
		matType = gocv.MatTypeCV8UC3
	}
	view, err := gocv.NewMatFromBytes(buf.Rows, buf.Cols, matType, buf.Pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("wrap samples: %w", err)
	}
	defer view.Close()

	if buf.Channels == 1 {
		return view.Clone(), nil
	}
	bgr := gocv.NewMat()
	if err := gocv.CvtColor(view, &bgr, gocv.ColorRGBToBGR); err != nil {
		bgr.Close()
		return gocv.NewMat(), fmt.Errorf("rgb to bgr: %w", err)
	}
	return bgr, nil
}
