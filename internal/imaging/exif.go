package imaging

import (
	"bytes"
	"encoding/binary"
	"strings"
	"time"
)

const (
	tagOrientation       = 0x0112
	tagExifIFD           = 0x8769
	tagGPSIFD            = 0x8825
	tagDateTimeOriginal  = 0x9003
	tagDateTimeDigitized = 0x9004
	tagGPSLatitudeRef    = 0x0001
	tagGPSLatitude       = 0x0002
	tagGPSLongitudeRef   = 0x0003
	tagGPSLongitude      = 0x0004

	typeASCII    = 2
	typeShort    = 3
	typeLong     = 4
	typeRational = 5

	exifDateLayout = "2006:01:02"
)

var exifHeader = []byte("Exif\x00\x00")

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// EXIFData is what a capture carries about itself. Zero value means nothing was found.
type EXIFData struct {
	Date string
	GPS  *Coordinates
	// Orientation is the IFD0 orientation tag, 1 to 8. Zero when absent or out of range.
	Orientation int
}

// ExtractEXIF reads the capture date, GPS position and orientation from a JPEG's APP1 segment.
// It never fails: anything unreadable is reported as absent.
func ExtractEXIF(data []byte) EXIFData {
	tiff, ok := findAPP1(data)
	if !ok {
		return EXIFData{}
	}
	t, ok := newTIFFReader(tiff)
	if !ok {
		return EXIFData{}
	}
	ifd0Off, ok := t.u32(4)
	if !ok {
		return EXIFData{}
	}
	ifd0, ok := t.readIFD(int(ifd0Off))
	if !ok {
		return EXIFData{}
	}

	var out EXIFData
	if e, found := ifd0[tagOrientation]; found {
		if v, ok := t.short(e); ok && v >= 1 && v <= 8 {
			out.Orientation = int(v)
		}
	}
	if e, found := ifd0[tagExifIFD]; found {
		if off, ok := t.pointer(e); ok {
			if sub, ok := t.readIFD(off); ok {
				out.Date = t.captureDate(sub)
			}
		}
	}
	if e, found := ifd0[tagGPSIFD]; found {
		if off, ok := t.pointer(e); ok {
			if sub, ok := t.readIFD(off); ok {
				out.GPS = t.coordinates(sub)
			}
		}
	}
	return out
}

// findAPP1 walks the JPEG markers up to the start of scan and returns the TIFF block of the Exif segment.
func findAPP1(data []byte) ([]byte, bool) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, false
	}
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			return nil, false
		}
		marker := data[i+1]
		switch {
		case marker == 0xFF:
			i++
			continue
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD8):
			i += 2
			continue
		case marker == 0xDA || marker == 0xD9:
			return nil, false
		}
		length := int(binary.BigEndian.Uint16(data[i+2:]))
		if length < 2 || i+2+length > len(data) {
			return nil, false
		}
		payload := data[i+4 : i+2+length]
		if marker == 0xE1 && bytes.HasPrefix(payload, exifHeader) {
			return payload[len(exifHeader):], true
		}
		i += 2 + length
	}
	return nil, false
}

type tiffReader struct {
	b     []byte
	order binary.ByteOrder
}

type ifdEntry struct {
	typ   uint16
	count uint32
	// raw is the 4-byte value/offset field position.
	raw int
}

func newTIFFReader(b []byte) (tiffReader, bool) {
	if len(b) < 8 {
		return tiffReader{}, false
	}
	var order binary.ByteOrder
	switch string(b[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return tiffReader{}, false
	}
	t := tiffReader{b: b, order: order}
	if magic, _ := t.u16(2); magic != 42 {
		return tiffReader{}, false
	}
	return t, true
}

func (t tiffReader) u16(off int) (uint16, bool) {
	if off < 0 || off+2 > len(t.b) {
		return 0, false
	}
	return t.order.Uint16(t.b[off:]), true
}

func (t tiffReader) u32(off int) (uint32, bool) {
	if off < 0 || off+4 > len(t.b) {
		return 0, false
	}
	return t.order.Uint32(t.b[off:]), true
}

func (t tiffReader) readIFD(off int) (map[uint16]ifdEntry, bool) {
	n, ok := t.u16(off)
	if !ok || off+2+int(n)*12 > len(t.b) {
		return nil, false
	}
	entries := make(map[uint16]ifdEntry, n)
	for i := 0; i < int(n); i++ {
		p := off + 2 + i*12
		tag := t.order.Uint16(t.b[p:])
		entries[tag] = ifdEntry{
			typ:   t.order.Uint16(t.b[p+2:]),
			count: t.order.Uint32(t.b[p+4:]),
			raw:   p + 8,
		}
	}
	return entries, true
}

func typeSize(typ uint16) int {
	switch typ {
	case typeASCII:
		return 1
	case typeShort:
		return 2
	case typeLong:
		return 4
	case typeRational:
		return 8
	default:
		return 0
	}
}

// value returns the bytes of an entry, inline or at its offset.
func (t tiffReader) value(e ifdEntry) ([]byte, bool) {
	size := typeSize(e.typ)
	if size == 0 || e.count == 0 || e.count > uint32(len(t.b)) {
		return nil, false
	}
	total := size * int(e.count)
	start := e.raw
	if total > 4 {
		off, ok := t.u32(e.raw)
		if !ok {
			return nil, false
		}
		start = int(off)
	}
	if start < 0 || start+total > len(t.b) {
		return nil, false
	}
	return t.b[start : start+total], true
}

func (t tiffReader) pointer(e ifdEntry) (int, bool) {
	if e.typ != typeLong || e.count != 1 {
		return 0, false
	}
	off, ok := t.u32(e.raw)
	return int(off), ok
}

func (t tiffReader) short(e ifdEntry) (uint16, bool) {
	if e.typ != typeShort || e.count < 1 {
		return 0, false
	}
	return t.u16(e.raw)
}

func (t tiffReader) ascii(e ifdEntry) (string, bool) {
	if e.typ != typeASCII {
		return "", false
	}
	b, ok := t.value(e)
	if !ok {
		return "", false
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimSpace(string(b)), true
}

func (t tiffReader) rationals(e ifdEntry, n int) ([]float64, bool) {
	if e.typ != typeRational || int(e.count) < n {
		return nil, false
	}
	b, ok := t.value(e)
	if !ok {
		return nil, false
	}
	out := make([]float64, n)
	for i := range out {
		num := t.order.Uint32(b[i*8:])
		den := t.order.Uint32(b[i*8+4:])
		if den == 0 {
			return nil, false
		}
		out[i] = float64(num) / float64(den)
	}
	return out, true
}

func (t tiffReader) captureDate(ifd map[uint16]ifdEntry) string {
	for _, tag := range []uint16{tagDateTimeOriginal, tagDateTimeDigitized} {
		e, found := ifd[tag]
		if !found {
			continue
		}
		s, ok := t.ascii(e)
		if !ok || len(s) < len(exifDateLayout) {
			continue
		}
		d, err := time.Parse(exifDateLayout, s[:len(exifDateLayout)])
		if err != nil {
			continue
		}
		return d.Format(time.DateOnly)
	}
	return ""
}

func (t tiffReader) coordinates(ifd map[uint16]ifdEntry) *Coordinates {
	lat, ok := t.degrees(ifd, tagGPSLatitude, tagGPSLatitudeRef, "S")
	if !ok {
		return nil
	}
	lon, ok := t.degrees(ifd, tagGPSLongitude, tagGPSLongitudeRef, "W")
	if !ok {
		return nil
	}
	return &Coordinates{Latitude: lat, Longitude: lon}
}

// degrees converts a degree/minute/second triple and its hemisphere to signed decimal degrees.
func (t tiffReader) degrees(ifd map[uint16]ifdEntry, valueTag, refTag uint16, negativeRef string) (float64, bool) {
	e, found := ifd[valueTag]
	if !found {
		return 0, false
	}
	dms, ok := t.rationals(e, 3)
	if !ok {
		return 0, false
	}
	deg := dms[0] + dms[1]/60 + dms[2]/3600
	if e, found := ifd[refTag]; found {
		if ref, ok := t.ascii(e); ok && strings.EqualFold(ref, negativeRef) {
			deg = -deg
		}
	}
	return deg, true
}
