package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

// GenerateJPEG returns a w x h JPEG with a busy pattern.
func GenerateJPEG(t *testing.T, w, h, quality int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 255})
		}
	}
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("failed to generate JPEG: %v", err)
	}
	return buf.Bytes()
}
