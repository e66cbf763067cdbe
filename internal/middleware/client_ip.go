package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/fhuszti/athlete-portfolio-go/internal/api_context"
)

// WithClientIP stores the caller address in the context. It expects chi's
// RealIP middleware to have already rewritten RemoteAddr behind a proxy.
func WithClientIP() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(ip); err == nil {
				ip = host
			}
			if ip == "" {
				ip = "unknown"
			}
			ctx := context.WithValue(r.Context(), api_context.ClientIPKey, ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
