package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/athlete-portfolio-go/internal/api_context"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/usecase/contact"
)

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactHandler forwards the public contact form by email.
func ContactHandler(svc port.ContactSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ContactRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		err := svc.SendContact(r.Context(), port.ContactInput{
			Name:     req.Name,
			Email:    req.Email,
			Subject:  req.Subject,
			Message:  req.Message,
			ClientIP: api_context.ClientIPFromContext(r.Context()),
		})
		if err != nil {
			var (
				verr *contact.ValidationError
				rl   *contact.RateLimitedError
			)
			switch {
			case errors.As(err, &verr):
				WriteError(w, http.StatusBadRequest, verr.Msg, nil)
			case errors.As(err, &rl):
				WriteTooManyRequests(w, rl.Error(), rl.RetryAfter)
			case errors.Is(err, contact.ErrNotConfigured):
				WriteError(w, http.StatusServiceUnavailable, "Contact form is temporarily unavailable", err)
			default:
				WriteError(w, http.StatusInternalServerError, "Could not send your message, please try again later", err)
			}
			return
		}

		RespondJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}
