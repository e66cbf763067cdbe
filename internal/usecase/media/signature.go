package media

import "bytes"

// SignatureLength is the number of leading bytes MatchesSignature needs.
const SignatureLength = 12

var (
	sigJPEG = []byte{0xFF, 0xD8, 0xFF}
	sigPNG  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	sigWebM = []byte{0x1A, 0x45, 0xDF, 0xA3}
)

// heifBrands and videoBrands only tell the two ftyp families apart. Any other brand
// is accepted for either family.
var heifBrands = map[string]bool{
	"heic": true, "heix": true, "hevc": true, "hevx": true,
	"heim": true, "heis": true, "hevm": true, "hevs": true,
	"mif1": true, "msf1": true, "avif": true, "avis": true,
}

var videoBrands = map[string]bool{
	"isom": true, "iso2": true, "iso4": true, "iso5": true, "iso6": true,
	"mp41": true, "mp42": true, "avc1": true, "dash": true, "qt  ": true,
	"M4V ": true, "3gp4": true, "3gp5": true, "3gp6": true,
}

// MatchesSignature reports whether head, the first bytes of a file, matches the
// magic number of contentType. Box based containers only need "ftyp" at offset 4;
// their brand just keeps still images and videos apart.
func MatchesSignature(contentType string, head []byte) bool {
	switch NormaliseContentType(contentType) {
	case "image/jpeg":
		return bytes.HasPrefix(head, sigJPEG)
	case "image/png":
		return bytes.HasPrefix(head, sigPNG)
	case "image/gif":
		return bytes.HasPrefix(head, []byte("GIF87a")) || bytes.HasPrefix(head, []byte("GIF89a"))
	case "image/webp":
		return len(head) >= 12 && string(head[0:4]) == "RIFF" && string(head[8:12]) == "WEBP"
	case "video/webm":
		return bytes.HasPrefix(head, sigWebM)
	case "image/heic", "image/heif":
		brand, ok := ftypBrand(head)
		return ok && !videoBrands[brand]
	case "video/mp4", "video/quicktime":
		brand, ok := ftypBrand(head)
		return ok && !heifBrands[brand]
	default:
		return false
	}
}

// ftypBrand returns the major brand of an ISO base media file: "ftyp" at offset 4,
// brand at offset 8.
func ftypBrand(head []byte) (string, bool) {
	if len(head) < 12 || string(head[4:8]) != "ftyp" {
		return "", false
	}
	return string(head[8:12]), true
}
