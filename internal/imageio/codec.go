// Image decoding and encoding around the pixel buffer
package imageio

import (
	"path/filepath"
	"strings"

	"pixel-transforms/internal/core"
)

// Codec loads and saves pixel buffers.
type Codec interface {
	LoadImage(path string, grayscale bool) (*core.Buffer, error)
	SaveImage(buf *core.Buffer, path string) error
}

var _ Codec = (*NativeLoader)(nil)

var supportedFormats = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

// IsSupportedImageFormat reports whether path has a known image extension.
func IsSupportedImageFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}
