package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// Encoder writes a finished frame to w
type Encoder func(w io.Writer, frame *renderer.Frame) error

// Format describes an output encoding
type Format struct {
	Name        string
	ContentType string
	Encode      Encoder
}

var (
	PPM = Format{Name: "ppm", ContentType: "image/x-portable-pixmap", Encode: WritePPM}
	PNG = Format{Name: "png", ContentType: "image/png", Encode: WritePNG}
)

// FormatForPath picks the encoding from the file extension; "-" means PPM
// on standard output.
func FormatForPath(path string) (Format, error) {
	if path == "-" {
		return PPM, nil
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ppm":
		return PPM, nil
	case ".png":
		return PNG, nil
	default:
		return Format{}, fmt.Errorf("unsupported file extension %q (supported: ppm, png)", ext)
	}
}
