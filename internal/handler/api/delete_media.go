package api

import (
	"net/http"

	"github.com/fhuszti/athlete-portfolio-go/internal/api_context"
	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/renderer"
)

// DeleteMediaHandler deletes a media by ID.
func DeleteMediaHandler(svc port.MediaDeleter, rdr renderer.HTTPRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		if err := svc.DeleteMedia(r.Context(), id); err != nil {
			writeMediaError(w, err, "Failed to delete media")
			return
		}
		rdr.Invalidate(r.Context())

		RespondJSON(w, http.StatusOK, SuccessResponse{Success: true})
		logger.Infof(r.Context(), "✅  Successfully deleted media #%s", id)
	}
}
