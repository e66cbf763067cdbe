package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/mock"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

var testSecret = []byte("test-secret")

func issueToken(t *testing.T, strg *mock.Storage, contentType string, size int64) port.IssueUploadTokenOutput {
	t.Helper()
	issuer := NewUploadTokenIssuer(strg, NewUploadTokenSigner(testSecret, UploadTokenTTL))
	out, err := issuer.IssueUploadToken(context.Background(), port.IssueUploadTokenInput{
		Filename:    "Long Run.mp4",
		ContentType: contentType,
		Size:        size,
		Category:    model.CategoryTraining,
		IssuedTo:    "coach@example.com",
	})
	if err != nil {
		t.Fatalf("IssueUploadToken: %v", err)
	}
	return out
}

func TestIssueUploadToken_Success(t *testing.T) {
	strg := mock.NewStorage()
	out := issueToken(t, strg, "video/mp4", 50*1024*1024)

	if out.Token == "" {
		t.Fatal("expected a token")
	}
	if strg.PolicyKey != out.Pathname || strg.PolicyContentType != "video/mp4" {
		t.Errorf("policy scoped to %q/%q; want %q/video/mp4", strg.PolicyKey, strg.PolicyContentType, out.Pathname)
	}
	if strg.PolicyMaxSize != MaxVideoSize {
		t.Errorf("policy max size = %d; want %d", strg.PolicyMaxSize, MaxVideoSize)
	}
	if strg.PolicyExpiry != UploadTokenTTL {
		t.Errorf("policy expiry = %v; want %v", strg.PolicyExpiry, UploadTokenTTL)
	}
	if out.URL != "https://cdn.example.com/"+out.Pathname {
		t.Errorf("url = %q", out.URL)
	}
	if time.Until(out.ExpiresAt) > UploadTokenTTL || time.Until(out.ExpiresAt) < UploadTokenTTL-time.Minute {
		t.Errorf("expiresAt = %v", out.ExpiresAt)
	}

	scope, err := NewUploadTokenSigner(testSecret, UploadTokenTTL).Verify(out.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if scope.Key != out.Pathname || scope.IssuedTo != "coach@example.com" || scope.TokenID == "" {
		t.Errorf("scope = %+v", scope)
	}
}

func TestIssueUploadToken_Rejections(t *testing.T) {
	tests := []struct {
		name string
		in   port.IssueUploadTokenInput
	}{
		{"bad type", port.IssueUploadTokenInput{Filename: "a.exe", ContentType: "application/x-msdownload", Size: 10, Category: model.CategoryEvents}},
		{"too large", port.IssueUploadTokenInput{Filename: "a.mp4", ContentType: "video/mp4", Size: MaxVideoSize + 1, Category: model.CategoryEvents}},
		{"bad category", port.IssueUploadTokenInput{Filename: "a.mp4", ContentType: "video/mp4", Size: 10, Category: "misc"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			strg := mock.NewStorage()
			issuer := NewUploadTokenIssuer(strg, NewUploadTokenSigner(testSecret, UploadTokenTTL))
			if _, err := issuer.IssueUploadToken(context.Background(), tc.in); !IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if strg.PolicyCalled {
				t.Error("no policy should be presigned")
			}
		})
	}
}

func TestIssueUploadToken_PolicyError(t *testing.T) {
	strg := mock.NewStorage()
	strg.PolicyErr = port.ErrInternal
	issuer := NewUploadTokenIssuer(strg, NewUploadTokenSigner(testSecret, UploadTokenTTL))
	_, err := issuer.IssueUploadToken(context.Background(), port.IssueUploadTokenInput{
		Filename: "a.mp4", ContentType: "video/mp4", Size: 10, Category: model.CategoryEvents,
	})
	if !errors.Is(err, port.ErrInternal) {
		t.Fatalf("error = %v; want ErrInternal", err)
	}
}

func newRegistrar(repo *mock.MediaRepo, strg *mock.Storage, ledger *mock.TokenLedger) port.UploadRegistrar {
	return NewUploadRegistrar(repo, strg, NewUploadTokenSigner(testSecret, UploadTokenTTL), ledger, fixedID)
}

func registerInput(token string) port.RegisterUploadInput {
	return port.RegisterUploadInput{
		Token:      token,
		Details:    port.MediaDetails{Title: "Long run", Date: "2025-05-02", Location: "Annecy, France"},
		UploadedBy: "coach@example.com",
	}
}

func TestRegisterUpload_Success(t *testing.T) {
	strg := mock.NewStorage()
	out := issueToken(t, strg, "video/mp4", 6*1024*1024)
	video := make([]byte, 6*1024*1024)
	copy(video, mp4Head)
	strg.Put(out.Pathname, video, "video/mp4", time.Now())

	repo := &mock.MediaRepo{}
	ledger := &mock.TokenLedger{}
	m, err := newRegistrar(repo, strg, ledger).RegisterUpload(context.Background(), registerInput(out.Token))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Type != model.MediaTypeVideo || m.Category != model.CategoryTraining || m.Pathname != out.Pathname {
		t.Errorf("media = %+v", m)
	}
	if m.Size != int64(len(video)) || m.Location != "Annecy, France" {
		t.Errorf("media = %+v", m)
	}
	if repo.GotAdded == nil {
		t.Fatal("expected AddMedia to be called")
	}
	if len(ledger.Consumed) != 1 {
		t.Errorf("expected the token to be consumed, got %v", ledger.Consumed)
	}
}

func TestRegisterUpload_SingleUse(t *testing.T) {
	strg := mock.NewStorage()
	out := issueToken(t, strg, "video/mp4", 6*1024*1024)
	strg.Put(out.Pathname, mp4Head, "video/mp4", time.Now())

	repo := &mock.MediaRepo{}
	reg := newRegistrar(repo, strg, &mock.TokenLedger{})
	if _, err := reg.RegisterUpload(context.Background(), registerInput(out.Token)); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := reg.RegisterUpload(context.Background(), registerInput(out.Token)); !errors.Is(err, ErrTokenAlreadyUsed) {
		t.Fatalf("second register error = %v; want ErrTokenAlreadyUsed", err)
	}
	if len(repo.Doc.Medias) != 1 {
		t.Errorf("expected a single record, got %d", len(repo.Doc.Medias))
	}
}

func TestRegisterUpload_InvalidTokens(t *testing.T) {
	strg := mock.NewStorage()
	out := issueToken(t, strg, "video/mp4", 6*1024*1024)

	expired, _, err := NewUploadTokenSigner(testSecret, -time.Minute).Sign(UploadScope{Key: "medias/events/a.mp4", ContentType: "video/mp4", MaxSize: 10, Category: model.CategoryEvents})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	forged, _, err := NewUploadTokenSigner([]byte("other"), UploadTokenTTL).Sign(UploadScope{Key: "medias/events/a.mp4", ContentType: "video/mp4", MaxSize: 10, Category: model.CategoryEvents})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for name, tok := range map[string]string{
		"expired":  expired,
		"forged":   forged,
		"garbage":  "not-a-token",
		"tampered": out.Token + "x",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newRegistrar(&mock.MediaRepo{}, strg, &mock.TokenLedger{}).RegisterUpload(context.Background(), registerInput(tok))
			if !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("error = %v; want ErrInvalidToken", err)
			}
		})
	}
}

func TestRegisterUpload_ObjectChecks(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		contentType string
		put         bool
		wantRemoved bool
	}{
		{name: "object missing", put: false},
		{name: "content type differs", data: mp4Head, contentType: "video/webm", put: true, wantRemoved: true},
		{name: "magic bytes differ", data: jpegHead, contentType: "video/mp4", put: true, wantRemoved: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			strg := mock.NewStorage()
			out := issueToken(t, strg, "video/mp4", 6*1024*1024)
			if tc.put {
				strg.Put(out.Pathname, tc.data, tc.contentType, time.Now())
			}
			repo := &mock.MediaRepo{}
			ledger := &mock.TokenLedger{}

			_, err := newRegistrar(repo, strg, ledger).RegisterUpload(context.Background(), registerInput(out.Token))
			if !IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if repo.AddCalled {
				t.Error("nothing should be recorded")
			}
			if len(ledger.Consumed) != 0 {
				t.Error("the token must stay usable after a rejected registration")
			}
			if got := len(strg.Removed) == 1; got != tc.wantRemoved {
				t.Errorf("removed = %v; want %v", strg.Removed, tc.wantRemoved)
			}
		})
	}
}
