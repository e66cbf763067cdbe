package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/mock"
	"github.com/fhuszti/athlete-portfolio-go/internal/usecase/contact"
)

func TestContactHandler(t *testing.T) {
	body := `{"name":"Jane","email":"jane@example.com","subject":"Hi","message":"Hello"}`

	tests := []struct {
		name         string
		body         string
		svcErr       error
		wantStatus   int
		wantContains string
	}{
		{"happy path", body, nil, http.StatusOK, `"success":true`},
		{"missing message", `{"name":"Jane","email":"jane@example.com"}`, nil, http.StatusBadRequest, `"message":"required"`},
		{"bad email", `{"name":"Jane","email":"jane","message":"Hello"}`, nil, http.StatusBadRequest, `"email":"email"`},
		{"rate limited", body, &contact.RateLimitedError{RetryAfter: time.Hour}, http.StatusTooManyRequests, "too many messages"},
		{"not configured", body, contact.ErrNotConfigured, http.StatusServiceUnavailable, "temporarily unavailable"},
		{"send failure", body, errors.New("resend 500"), http.StatusInternalServerError, "Could not send your message"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.ContactSender{Err: tc.svcErr}
			req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(tc.body))
			req = req.WithContext(contextWithIP(req, "9.9.9.9"))
			rec := httptest.NewRecorder()

			ContactHandler(svc)(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body=%s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.wantContains) {
				t.Errorf("body = %q; want to contain %q", rec.Body.String(), tc.wantContains)
			}
			if tc.wantStatus == http.StatusTooManyRequests && rec.Header().Get("Retry-After") != "3600" {
				t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
			}
			if svc.Called && svc.In.ClientIP != "9.9.9.9" {
				t.Errorf("client ip = %q", svc.In.ClientIP)
			}
		})
	}
}
