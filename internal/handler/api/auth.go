package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/api_context"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/usecase/auth"
)

const SessionCookieName = "session"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=200"`
}

type SessionResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginHandler checks admin credentials and sets the session cookie.
// secureCookie should be true whenever the site is served over HTTPS.
func LoginHandler(svc port.Authenticator, secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		out, err := svc.Login(r.Context(), port.LoginInput{
			Email:    req.Email,
			Password: req.Password,
			ClientIP: api_context.ClientIPFromContext(r.Context()),
		})
		if err != nil {
			var rl *auth.RateLimitedError
			switch {
			case errors.As(err, &rl):
				WriteTooManyRequests(w, rl.Error(), rl.RetryAfter)
			case errors.Is(err, auth.ErrInvalidCredentials):
				WriteError(w, http.StatusUnauthorized, "Invalid email or password", nil)
			default:
				WriteError(w, http.StatusInternalServerError, "Login failed", err)
			}
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    out.Token,
			Path:     "/",
			Expires:  out.ExpiresAt,
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, out)
	}
}

// LogoutHandler clears the session cookie. Tokens are stateless and stay valid until they expire.
func LogoutHandler(secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		RespondJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}

// SessionHandler returns the identity of the authenticated admin.
func SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := api_context.AuthEmailFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		name, _ := api_context.AuthNameFromContext(r.Context())
		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, SessionResponse{Email: email, Name: name})
	}
}
