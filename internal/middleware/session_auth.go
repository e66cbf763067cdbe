package middleware

import (
	"net/http"
	"strings"

	"github.com/fhuszti/athlete-portfolio-go/internal/api_context"
	"github.com/fhuszti/athlete-portfolio-go/internal/handler/api"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

// WithSessionAuth requires a valid admin session, read from the session cookie
// or from a Bearer Authorization header.
func WithSessionAuth(verifier port.SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := SessionToken(r)
			if raw == "" {
				api.WriteError(w, http.StatusUnauthorized, "Unauthorized", nil)
				return
			}

			sess, err := verifier.VerifySession(raw)
			if err != nil {
				api.WriteError(w, http.StatusUnauthorized, "Unauthorized", err)
				return
			}

			ctx := api_context.WithAuth(r.Context(), sess.Email, sess.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionToken returns the raw session token carried by r, if any.
func SessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if c, err := r.Cookie(api.SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}
