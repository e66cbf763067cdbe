package api

import (
	"net/http"

	"github.com/fhuszti/athlete-portfolio-go/internal/api_context"
	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/renderer"
)

type UpdateMediaRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
	Category    *string `json:"category" validate:"omitempty,category"`
	Date        *string `json:"date" validate:"omitempty,isodate"`
}

type MediaResponse struct {
	Success bool         `json:"success"`
	Media   *model.Media `json:"media"`
}

func (req UpdateMediaRequest) patch() model.MediaPatch {
	p := model.MediaPatch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
	}
	if req.Category != nil {
		c := model.Category(*req.Category)
		p.Category = &c
	}
	return p
}

// UpdateMediaHandler edits the metadata of a media by ID.
func UpdateMediaHandler(svc port.MediaUpdater, rdr renderer.HTTPRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "ID is required", nil)
			return
		}

		var req UpdateMediaRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		m, err := svc.UpdateMedia(r.Context(), port.UpdateMediaInput{ID: id, Patch: req.patch()})
		if err != nil {
			writeMediaError(w, err, "Failed to update media")
			return
		}
		rdr.Invalidate(r.Context())

		RespondJSON(w, http.StatusOK, MediaResponse{Success: true, Media: m})
		logger.Infof(r.Context(), "✅  Successfully updated media #%s", id)
	}
}
