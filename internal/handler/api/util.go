package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/usecase/media"
	"github.com/fhuszti/athlete-portfolio-go/internal/validation"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

func WriteError(w http.ResponseWriter, status int, msg string, err error) {
	ctx := context.Background()
	if err != nil {
		logger.Errorf(ctx, "❌  %s: %v", msg, err)
	} else {
		logger.Error(ctx, "❌  "+msg)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, status, ErrorResponse{Error: msg})
}

func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to encode JSON response: %v", err)
	}
}

func RespondRawJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to write JSON payload: %v", err)
	}
}

// WriteTooManyRequests answers 429 with a Retry-After header in whole seconds.
func WriteTooManyRequests(w http.ResponseWriter, msg string, retryAfter time.Duration) {
	secs := int64((retryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
	WriteError(w, http.StatusTooManyRequests, msg, nil)
}

// decodeAndValidate decodes a JSON body into dst and runs struct validation.
// It writes the error response itself and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request payload", err)
		return false
	}
	return validate(w, dst)
}

func validate(w http.ResponseWriter, v any) bool {
	errs := validation.ValidateStruct(v)
	if errs == nil {
		return true
	}
	errsJSON, err := validation.ErrorsToJson(errs)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to encode validation errors", err)
		return false
	}
	logger.Warnf(context.Background(), "❌  Validation failed: %s", errsJSON)
	RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
	return false
}

// writeMediaError maps media use case errors to status codes.
func writeMediaError(w http.ResponseWriter, err error, fallback string) {
	var verr *media.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteError(w, http.StatusBadRequest, verr.Msg, nil)
	case errors.Is(err, media.ErrInvalidToken):
		WriteError(w, http.StatusBadRequest, "Invalid or expired upload token", err)
	case errors.Is(err, media.ErrTokenAlreadyUsed):
		WriteError(w, http.StatusConflict, "Upload token already used", err)
	case errors.Is(err, media.ErrMediaNotFound):
		WriteError(w, http.StatusNotFound, "Media not found", nil)
	default:
		WriteError(w, http.StatusInternalServerError, fallback, err)
	}
}

const maxJSONBody = 1 << 20
