package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fhuszti/athlete-portfolio-go/internal/api_context"
	"github.com/fhuszti/athlete-portfolio-go/internal/handler/api"
	"github.com/fhuszti/athlete-portfolio-go/internal/mediaid"
	"github.com/go-chi/chi/v5"
)

// WithMediaID checks the {id} segment of admin media routes and stores its canonical
// lowercase form in the request context.
func WithMediaID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, "id")
			if raw == "" {
				api.WriteError(w, http.StatusBadRequest, "Media ID is required", nil)
				return
			}
			id, err := mediaid.Parse(raw)
			if err != nil {
				api.WriteError(w, http.StatusBadRequest, "Invalid media ID", err)
				return
			}
			ctx := context.WithValue(r.Context(), api_context.IDKey, strings.ToLower(id.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
