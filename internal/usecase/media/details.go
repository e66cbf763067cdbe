package media

import (
	"strings"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

func validateDetails(d port.MediaDetails) error {
	if strings.TrimSpace(d.Title) == "" {
		return invalid("Title is required")
	}
	if !d.Category.Valid() {
		return invalid("Category must be one of competitions, training, events")
	}
	if _, err := time.Parse(model.DateLayout, d.Date); err != nil {
		return invalid("Date must be formatted YYYY-MM-DD")
	}
	return nil
}

func newMedia(id string, t model.MediaType, url, pathname string, size int64, d port.MediaDetails, uploadedBy string) model.Media {
	return model.Media{
		ID:          id,
		Type:        t,
		URL:         url,
		Pathname:    pathname,
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Location:    strings.TrimSpace(d.Location),
		Category:    d.Category,
		Date:        d.Date,
		UploadedBy:  uploadedBy,
		UploadedAt:  time.Now().UTC(),
		Size:        size,
	}
}
