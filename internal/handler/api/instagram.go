package api

import (
	"net/http"

	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

type InstagramResponse struct {
	Posts []port.InstagramEmbed `json:"posts"`
}

// InstagramHandler returns the embed metadata of the configured posts.
func InstagramHandler(svc port.InstagramFeed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := svc.GetEmbeds(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Could not load Instagram posts", err)
			return
		}
		if posts == nil {
			posts = []port.InstagramEmbed{}
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		RespondJSON(w, http.StatusOK, InstagramResponse{Posts: posts})
	}
}
