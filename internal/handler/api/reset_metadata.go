package api

import (
	"net/http"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/renderer"
)

type ResetMetadataResponse struct {
	Success     bool          `json:"success"`
	Medias      []model.Media `json:"medias"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

// ResetMetadataHandler wipes every metadata object and writes an empty document.
// Uploaded files are left in place.
func ResetMetadataHandler(svc port.MetadataResetter, rdr renderer.HTTPRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := svc.ResetMetadata(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to reset metadata", err)
			return
		}
		rdr.Invalidate(r.Context())

		if doc.Medias == nil {
			doc.Medias = []model.Media{}
		}
		RespondJSON(w, http.StatusOK, ResetMetadataResponse{Success: true, Medias: doc.Medias, LastUpdated: doc.LastUpdated})
		logger.Warnf(r.Context(), "🧹 metadata reset")
	}
}
