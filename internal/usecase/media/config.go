package media

import (
	"fmt"
	"strings"

	"github.com/fhuszti/athlete-portfolio-go/internal/model"
)

const mb = 1024 * 1024

const (
	MaxImageSize = 20 * mb
	MaxVideoSize = 500 * mb

	// DirectUploadThreshold is the size from which a file bypasses the API
	// and goes straight to the object store.
	DirectUploadThreshold = 4 * mb
)

var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/heic": true,
	"image/heif": true,
}

var AllowedVideoTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,
}

var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"image/heic":      ".heic",
	"image/heif":      ".heif",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/webm":      ".webm",
}

// NormaliseContentType drops parameters and lowercases the type.
func NormaliseContentType(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// MediaTypeOf returns the media type of an allowed content type.
func MediaTypeOf(contentType string) (model.MediaType, bool) {
	ct := NormaliseContentType(contentType)
	switch {
	case AllowedImageTypes[ct]:
		return model.MediaTypeImage, true
	case AllowedVideoTypes[ct]:
		return model.MediaTypeVideo, true
	default:
		return "", false
	}
}

// MaxSizeFor returns the size ceiling of an allowed content type.
func MaxSizeFor(contentType string) int64 {
	if t, _ := MediaTypeOf(contentType); t == model.MediaTypeVideo {
		return MaxVideoSize
	}
	return MaxImageSize
}

func MimeTypeToExtension(contentType string) (string, error) {
	ext, ok := extensions[NormaliseContentType(contentType)]
	if !ok {
		return "", fmt.Errorf("unsupported mime type %q", contentType)
	}
	return ext, nil
}

// ValidateUpload checks the declared content type and size of a file. A file of exactly
// the ceiling is accepted.
func ValidateUpload(contentType string, size int64) error {
	t, ok := MediaTypeOf(contentType)
	if !ok {
		return invalid(fmt.Sprintf("File type %q is not allowed", contentType))
	}
	if size <= 0 {
		return invalid("File is empty")
	}
	if t == model.MediaTypeVideo {
		if size > MaxVideoSize {
			return invalid(fmt.Sprintf("File too large. Maximum size for videos is %dMB", MaxVideoSize/mb))
		}
		return nil
	}
	if size > MaxImageSize {
		return invalid(fmt.Sprintf("File too large. Maximum size for images is %dMB", MaxImageSize/mb))
	}
	return nil
}

// ValidateFile runs the full gate: declared type, size and leading bytes.
func ValidateFile(contentType string, size int64, head []byte) error {
	if err := ValidateUpload(contentType, size); err != nil {
		return err
	}
	if !MatchesSignature(contentType, head) {
		return invalid("File content does not match its declared type")
	}
	return nil
}

// UseDirectUpload reports whether a file of that size goes through the direct upload path.
func UseDirectUpload(size int64) bool {
	return size >= DirectUploadThreshold
}
