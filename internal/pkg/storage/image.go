package storage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// Thumbnailer renders bounded JPEG previews of uploaded images.
type Thumbnailer struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// NewThumbnailer creates a Thumbnailer fitting images into a width x height box.
func NewThumbnailer(width, height int) *Thumbnailer {
	return &Thumbnailer{MaxWidth: width, MaxHeight: height, Quality: 80}
}

// Generate decodes content (honouring EXIF orientation), fits it into the
// bounding box and returns it as JPEG.
func (t *Thumbnailer) Generate(content io.Reader) (*bytes.Buffer, error) {
	img, err := imaging.Decode(content, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fit(img, t.MaxWidth, t.MaxHeight, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, thumb, imaging.JPEG, imaging.JPEGQuality(t.Quality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf, nil
}
