package media

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/model"
)

// UploadPrefix holds every uploaded asset, one folder per category.
const UploadPrefix = "medias/"

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeFilename keeps a lowercase, dash separated stem of the file name.
func SanitizeFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	stem := strings.TrimSuffix(base, path.Ext(base))
	stem = unsafeChars.ReplaceAllString(strings.ToLower(stem), "-")
	stem = strings.Trim(stem, "-")
	if len(stem) > 64 {
		stem = strings.TrimRight(stem[:64], "-")
	}
	if stem == "" {
		stem = "media"
	}
	return stem
}

// BuildObjectKey returns medias/<category>/<sanitized>-<millis>.<ext>.
func BuildObjectKey(category model.Category, filename, contentType string, now time.Time) (string, error) {
	ext, err := MimeTypeToExtension(contentType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s/%s-%d%s", UploadPrefix, category, SanitizeFilename(filename), now.UnixMilli(), ext), nil
}
