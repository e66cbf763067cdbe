package api

import (
	"net/http"
	"strings"

	"github.com/fhuszti/athlete-portfolio-go/internal/api_context"
	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/renderer"
)

type RegisterUploadRequest struct {
	Token       string `json:"token" validate:"required"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Location    string `json:"location" validate:"max=200"`
	Category    string `json:"category" validate:"required,category"`
	Date        string `json:"date" validate:"required,isodate"`
}

// RegisterUploadHandler records a media for an object uploaded directly to the store.
func RegisterUploadHandler(svc port.UploadRegistrar, rdr renderer.HTTPRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterUploadRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		by, _ := api_context.AuthEmailFromContext(r.Context())
		m, err := svc.RegisterUpload(r.Context(), port.RegisterUploadInput{
			Token: req.Token,
			Details: port.MediaDetails{
				Title:       strings.TrimSpace(req.Title),
				Description: strings.TrimSpace(req.Description),
				Location:    strings.TrimSpace(req.Location),
				Category:    model.Category(req.Category),
				Date:        req.Date,
			},
			UploadedBy: by,
		})
		if err != nil {
			writeMediaError(w, err, "Could not register upload")
			return
		}
		rdr.Invalidate(r.Context())

		RespondJSON(w, http.StatusCreated, MediaResponse{Success: true, Media: m})
		logger.Infof(r.Context(), "✅  Successfully registered media #%s", m.ID)
	}
}
