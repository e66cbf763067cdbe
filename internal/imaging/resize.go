package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	MaxDimension = 1920
	Quality      = 85
	// SkipThreshold is the size under which an in-bounds image already in the target format is kept as is.
	SkipThreshold = 1024 * 1024
)

type Resizer struct {
	enc     Encoder
	maxDim  int
	quality int
}

func NewResizer(enc Encoder) *Resizer {
	if enc == nil {
		enc = JPEGEncoder{}
	}
	return &Resizer{enc: enc, maxDim: MaxDimension, quality: Quality}
}

func (r *Resizer) Encoder() Encoder { return r.enc }

type ResizeResult struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	// Resized is true when the dimensions were scaled down.
	Resized bool
	// Reencoded is false when the input was kept untouched.
	Reencoded bool
	// Oriented is true when the EXIF orientation was baked into the pixels.
	Oriented bool
}

// Resize scales data down to fit MaxDimension on both axes and re-encodes it upright.
// Re-encoding drops the EXIF block, so a non-default orientation always forces it.
func (r *Resizer) Resize(data []byte, contentType string) (*ResizeResult, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	orientation := ExtractEXIF(data).Orientation
	oriented := orientation > 1

	b := img.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), r.maxDim)
	resized := w != b.Dx() || h != b.Dy()

	if !resized && !oriented && contentType == r.enc.ContentType() && len(data) < SkipThreshold {
		return &ResizeResult{Data: data, ContentType: contentType, Width: w, Height: h}, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if _, ok := r.enc.(JPEGEncoder); ok {
		// no alpha in JPEG
		draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	// fitWithin is symmetric, so scaling before rotating gives the same bounds
	upright := applyOrientation(dst, orientation)

	buf := &bytes.Buffer{}
	if err := r.enc.Encode(buf, upright, r.quality); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &ResizeResult{
		Data:        buf.Bytes(),
		ContentType: r.enc.ContentType(),
		Width:       upright.Bounds().Dx(),
		Height:      upright.Bounds().Dy(),
		Resized:     resized,
		Reencoded:   true,
		Oriented:    oriented,
	}, nil
}

// fitWithin scales w x h down, aspect ratio kept, so that neither side exceeds limit.
func fitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		nh := int(float64(h)*float64(limit)/float64(w) + 0.5)
		return limit, max(nh, 1)
	}
	nw := int(float64(w)*float64(limit)/float64(h) + 0.5)
	return max(nw, 1), limit
}
