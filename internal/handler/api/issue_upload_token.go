package api

import (
	"net/http"

	"github.com/fhuszti/athlete-portfolio-go/internal/api_context"
	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

type IssueUploadTokenRequest struct {
	Filename    string `json:"filename" validate:"required,max=255,filename"`
	ContentType string `json:"contentType" validate:"required"`
	Size        int64  `json:"size" validate:"required,gt=0"`
	Category    string `json:"category" validate:"required,category"`
}

// IssueUploadTokenHandler authorises one direct upload to the object store.
func IssueUploadTokenHandler(svc port.UploadTokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req IssueUploadTokenRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		by, _ := api_context.AuthEmailFromContext(r.Context())
		out, err := svc.IssueUploadToken(r.Context(), port.IssueUploadTokenInput{
			Filename:    req.Filename,
			ContentType: req.ContentType,
			Size:        req.Size,
			Category:    model.Category(req.Category),
			IssuedTo:    by,
		})
		if err != nil {
			writeMediaError(w, err, "Could not issue upload token")
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusCreated, out)
		logger.Infof(r.Context(), "✅  Issued upload token for %q", out.Pathname)
	}
}
