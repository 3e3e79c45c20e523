package output

import (
	"fmt"
	"image/png"
	"io"

	"github.com/nfnt/resize"

	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// WritePNG encodes the frame as a PNG image
func WritePNG(w io.Writer, frame *renderer.Frame) error {
	if err := png.Encode(w, frame.ToRGBA()); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// WriteThumbnail writes a PNG preview whose longer side is at most maxSize
// pixels. Frames already within the bound are written at full size.
func WriteThumbnail(w io.Writer, frame *renderer.Frame, maxSize uint) error {
	if maxSize == 0 {
		return fmt.Errorf("thumbnail size must be positive")
	}

	thumb := resize.Thumbnail(maxSize, maxSize, frame.ToRGBA(), resize.Lanczos3)
	if err := png.Encode(w, thumb); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return nil
}
