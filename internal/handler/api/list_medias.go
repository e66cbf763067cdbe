package api

import (
	"net/http"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/renderer"
)

// ListMediasHandler serves the public gallery, optionally filtered with ?category=.
func ListMediasHandler(rdr renderer.HTTPRenderer, svc port.MediaLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var category *model.Category
		if raw := r.URL.Query().Get("category"); raw != "" {
			c, err := model.ParseCategory(raw)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "Category must be one of competitions, training, events", nil)
				return
			}
			category = &c
		}

		raw, etag, err := rdr.RenderMedias(r.Context(), svc, category)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not list medias", err)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")
		if match := r.Header.Get("If-None-Match"); match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		RespondRawJSON(w, http.StatusOK, raw)
	}
}

// AdminListMediasHandler returns the whole metadata document, never cached.
func AdminListMediasHandler(svc port.MediaLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := svc.GetDocument(r.Context())
		if doc.Medias == nil {
			doc.Medias = []model.Media{}
		}
		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, doc)
		logger.Debugf(r.Context(), "returned %d medias to the admin panel", len(doc.Medias))
	}
}
