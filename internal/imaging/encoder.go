package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"strings"

	"github.com/chai2010/webp"
)

// Encoder writes an image in the pipeline's target format.
type Encoder interface {
	Encode(w io.Writer, img image.Image, quality int) error
	ContentType() string
	Extension() string
}

type JPEGEncoder struct{}

var _ Encoder = JPEGEncoder{}

func (JPEGEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}
func (JPEGEncoder) ContentType() string { return "image/jpeg" }
func (JPEGEncoder) Extension() string   { return ".jpg" }

type WebPEncoder struct{}

var _ Encoder = WebPEncoder{}

func (WebPEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
}
func (WebPEncoder) ContentType() string { return "image/webp" }
func (WebPEncoder) Extension() string   { return ".webp" }

// EncoderFor returns the encoder of a target format name: jpeg (default) or webp.
func EncoderFor(format string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "jpeg", "jpg":
		return JPEGEncoder{}, nil
	case "webp":
		return WebPEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported target format %q", format)
	}
}
