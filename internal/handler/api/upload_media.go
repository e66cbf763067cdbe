package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/fhuszti/athlete-portfolio-go/internal/api_context"
	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/renderer"
	"github.com/fhuszti/athlete-portfolio-go/internal/usecase/media"
)

// MetadataHeader carries the URL-encoded JSON details of a proxied upload.
const MetadataHeader = "X-Media-Metadata"

// MediaMetadata is the JSON carried by MetadataHeader.
type MediaMetadata struct {
	Filename    string `json:"filename" validate:"required,max=255,filename"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Location    string `json:"location" validate:"max=200"`
	Category    string `json:"category" validate:"required,category"`
	Date        string `json:"date" validate:"required,isodate"`
}

func (m MediaMetadata) details() port.MediaDetails {
	return port.MediaDetails{
		Title:       strings.TrimSpace(m.Title),
		Description: strings.TrimSpace(m.Description),
		Location:    strings.TrimSpace(m.Location),
		Category:    model.Category(m.Category),
		Date:        m.Date,
	}
}

// UploadMediaHandler stores a small file sent as the raw request body.
func UploadMediaHandler(svc port.MediaUploader, rdr renderer.HTTPRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawMeta := r.Header.Get(MetadataHeader)
		if rawMeta == "" {
			WriteError(w, http.StatusBadRequest, "Missing "+MetadataHeader+" header", nil)
			return
		}
		decoded, err := url.QueryUnescape(rawMeta)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Malformed "+MetadataHeader+" header", err)
			return
		}
		var meta MediaMetadata
		if err := json.Unmarshal([]byte(decoded), &meta); err != nil {
			WriteError(w, http.StatusBadRequest, "Malformed "+MetadataHeader+" header", err)
			return
		}
		if !validate(w, meta) {
			return
		}

		contentType := media.NormaliseContentType(r.Header.Get("Content-Type"))
		if r.ContentLength <= 0 {
			WriteError(w, http.StatusBadRequest, "Content-Length is required", nil)
			return
		}
		if err := media.ValidateUpload(contentType, r.ContentLength); err != nil {
			writeMediaError(w, err, "Upload rejected")
			return
		}

		by, _ := api_context.AuthEmailFromContext(r.Context())
		m, err := svc.UploadMedia(r.Context(), port.UploadMediaInput{
			Filename:    meta.Filename,
			ContentType: contentType,
			Size:        r.ContentLength,
			Body:        http.MaxBytesReader(w, r.Body, r.ContentLength),
			Details:     meta.details(),
			UploadedBy:  by,
		})
		if err != nil {
			writeMediaError(w, err, "Upload failed")
			return
		}
		rdr.Invalidate(r.Context())

		RespondJSON(w, http.StatusCreated, MediaResponse{Success: true, Media: m})
		logger.Infof(r.Context(), "✅  Successfully uploaded media #%s", m.ID)
	}
}
