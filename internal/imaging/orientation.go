package imaging

import "image"

// applyOrientation returns src as it should be displayed under EXIF orientation o.
// Orientations 5 to 8 swap width and height. Unknown values return src unchanged.
func applyOrientation(src *image.RGBA, o int) *image.RGBA {
	if o < 2 || o > 8 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dw, dh := w, h
	if o >= 5 {
		dw, dh = h, w
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for dy := 0; dy < dh; dy++ {
		for dx := 0; dx < dw; dx++ {
			sx, sy := orientedSource(o, dx, dy, w, h)
			si := src.PixOffset(b.Min.X+sx, b.Min.Y+sy)
			di := dst.PixOffset(dx, dy)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

// orientedSource maps a destination pixel back to the w x h source.
func orientedSource(o, dx, dy, w, h int) (int, int) {
	switch o {
	case 2: // mirrored
		return w - 1 - dx, dy
	case 3: // upside down
		return w - 1 - dx, h - 1 - dy
	case 4:
		return dx, h - 1 - dy
	case 5: // transpose
		return dy, dx
	case 6: // rotate 90 clockwise
		return dy, h - 1 - dx
	case 7: // transverse
		return w - 1 - dy, h - 1 - dx
	case 8: // rotate 90 counter-clockwise
		return w - 1 - dy, dx
	default:
		return dx, dy
	}
}
