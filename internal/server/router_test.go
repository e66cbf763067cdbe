package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/handler/api"
	"github.com/fhuszti/athlete-portfolio-go/internal/mediaid"
	"github.com/fhuszti/athlete-portfolio-go/internal/mock"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/ratelimit"
	"github.com/fhuszti/athlete-portfolio-go/internal/renderer"
	"github.com/fhuszti/athlete-portfolio-go/internal/repository/blob"
	"github.com/fhuszti/athlete-portfolio-go/internal/usecase/auth"
	"github.com/fhuszti/athlete-portfolio-go/internal/usecase/contact"
	"github.com/fhuszti/athlete-portfolio-go/internal/usecase/instagram"
	"github.com/fhuszti/athlete-portfolio-go/internal/usecase/media"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	*httptest.Server
	strg  *mock.Storage
	token string
}

func newTestServer(t *testing.T, adminSecret string) *testServer {
	t.Helper()

	strg := mock.NewStorage()
	repo := blob.NewMediaRepository(strg)
	store := ratelimit.NewMemoryStore()
	sessions := auth.NewSessionSigner([]byte("session-secret"), time.Hour)
	uploads := media.NewUploadTokenSigner([]byte("session-secret"), media.UploadTokenTTL)

	h, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	accounts := []auth.Account{{Email: "coach@example.com", Name: "Coach", PasswordHash: string(h)}}

	r := NewRouter(Deps{
		Lister:        media.NewMediaLister(repo),
		Updater:       media.NewMediaUpdater(repo),
		Deleter:       media.NewMediaDeleter(repo),
		Resetter:      media.NewMetadataResetter(repo),
		Uploader:      media.NewMediaUploader(repo, strg, mediaid.New),
		TokenIssuer:   media.NewUploadTokenIssuer(strg, uploads),
		Registrar:     media.NewUploadRegistrar(repo, strg, uploads, ratelimit.NewMemoryLedger(), mediaid.New),
		Authenticator: auth.NewAuthenticator(accounts, auth.NewLoginLimiter(store), sessions),
		Sessions:      sessions,
		Contact:       contact.NewContactSender(&mock.Mailer{ID: "1"}, contact.NewContactLimiter(store), contact.Options{From: "a@example.com", To: "b@example.com"}),
		Instagram:     instagram.NewInstagramFeed(nil, mock.NewCache(), nil),
		Renderer:      renderer.NewHTTPRenderer(mock.NewCache()),

		AdminURLSecret: adminSecret,
		ContentDir:     t.TempDir(),
	})

	ts := &testServer{Server: httptest.NewServer(r), strg: strg}
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body []byte, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (ts *testServer) login(t *testing.T, path string) {
	t.Helper()
	resp := ts.do(t, http.MethodPost, path, []byte(`{"email":"coach@example.com","password":"correct horse"}`), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	ts.token = out.Token
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func uploadJPEG(t *testing.T, ts *testServer, title, category, date string, size int) model.Media {
	t.Helper()
	body := make([]byte, size)
	copy(body, []byte{0xFF, 0xD8, 0xFF, 0xE1})
	meta, _ := json.Marshal(api.MediaMetadata{Filename: title + ".jpg", Title: title, Category: category, Date: date})

	resp := ts.do(t, http.MethodPost, "/api/admin/upload", body, map[string]string{
		"Content-Type":     "image/jpeg",
		api.MetadataHeader: url.QueryEscape(string(meta)),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}
	out := decode[api.MediaResponse](t, resp)
	if !out.Success || out.Media == nil {
		t.Fatalf("upload response = %+v", out)
	}
	return *out.Media
}

func TestAdminRoutesRequireSession(t *testing.T) {
	ts := newTestServer(t, "")
	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin/media"},
		{http.MethodPost, "/api/admin/media/reset"},
		{http.MethodPatch, "/api/admin/media/01hzx3k4q5v6w7x8y9z0abcdef"},
		{http.MethodDelete, "/api/admin/media/01hzx3k4q5v6w7x8y9z0abcdef"},
		{http.MethodPost, "/api/admin/upload"},
		{http.MethodPost, "/api/admin/upload/token"},
		{http.MethodPost, "/api/admin/upload/register"},
	} {
		if resp := ts.do(t, rt.method, rt.path, nil, nil); resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s = %d; want 401", rt.method, rt.path, resp.StatusCode)
		}
	}
}

func TestUploadThenListSortedByDate(t *testing.T) {
	ts := newTestServer(t, "")
	ts.login(t, "/api/auth/login")

	older := uploadJPEG(t, ts, "Heats", "competitions", "2025-06-17", 1024)
	finale := uploadJPEG(t, ts, "Finale", "competitions", "2025-06-18", 2*1024*1024)
	if finale.Title != "Finale" || finale.Type != model.MediaTypeImage || finale.Category != model.CategoryCompetitions {
		t.Errorf("media = %+v", finale)
	}
	if finale.UploadedBy != "coach@example.com" || finale.Size != 2*1024*1024 {
		t.Errorf("media = %+v", finale)
	}
	if !strings.HasPrefix(finale.Pathname, "medias/competitions/finale-") {
		t.Errorf("pathname = %q", finale.Pathname)
	}

	ts.token = ""
	resp := ts.do(t, http.MethodGet, "/api/medias", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	etag := resp.Header.Get("ETag")
	list := decode[renderer.PublicMedias](t, resp)
	if len(list.Medias) != 2 || list.Medias[0].ID != finale.ID || list.Medias[1].ID != older.ID {
		t.Fatalf("listing = %+v", list.Medias)
	}

	resp = ts.do(t, http.MethodGet, "/api/medias", nil, map[string]string{"If-None-Match": etag})
	if resp.StatusCode != http.StatusNotModified {
		t.Errorf("conditional GET = %d; want 304", resp.StatusCode)
	}
}

func TestUpdateDeleteAndReset(t *testing.T) {
	ts := newTestServer(t, "backstage")
	if resp := ts.do(t, http.MethodPost, "/api/auth/login", []byte(`{}`), nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("public login path should be hidden, got %d", resp.StatusCode)
	}
	ts.login(t, LoginPath("backstage"))

	m := uploadJPEG(t, ts, "Training", "training", "2025-05-01", 2048)

	resp := ts.do(t, http.MethodPatch, "/api/admin/media/"+m.ID, []byte(`{"title":"Morning session","location":"Paris, France"}`), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch status = %d", resp.StatusCode)
	}
	updated := decode[api.MediaResponse](t, resp)
	if updated.Media.Title != "Morning session" || updated.Media.Location != "Paris, France" || updated.Media.URL != m.URL {
		t.Errorf("updated = %+v", updated.Media)
	}

	// public listing reflects the edit
	list := decode[renderer.PublicMedias](t, ts.do(t, http.MethodGet, "/api/medias?category=training", nil, nil))
	if len(list.Medias) != 1 || list.Medias[0].Title != "Morning session" {
		t.Errorf("listing after patch = %+v", list.Medias)
	}

	if resp := ts.do(t, http.MethodDelete, "/api/admin/media/"+mediaid.New(), nil, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("delete unknown = %d; want 404", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodDelete, "/api/admin/media/"+m.ID, nil, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("delete = %d", resp.StatusCode)
	}
	if _, ok := ts.strg.Objects[m.Pathname]; ok {
		t.Error("backing file should be removed")
	}

	uploadJPEG(t, ts, "Another", "events", "2025-07-01", 2048)
	resp = ts.do(t, http.MethodPost, "/api/admin/media/reset", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset = %d", resp.StatusCode)
	}

	before := time.Now().Add(-time.Minute)
	doc := decode[model.MetadataDocument](t, ts.do(t, http.MethodGet, "/api/admin/media", nil, nil))
	if doc.Medias == nil || len(doc.Medias) != 0 {
		t.Errorf("medias after reset = %#v", doc.Medias)
	}
	if doc.LastUpdated.Before(before) {
		t.Errorf("lastUpdated = %v; want recent", doc.LastUpdated)
	}
}

func TestDirectUploadFlow(t *testing.T) {
	ts := newTestServer(t, "")
	ts.login(t, "/api/auth/login")

	size := int64(6 * 1024 * 1024)
	resp := ts.do(t, http.MethodPost, "/api/admin/upload/token",
		[]byte(`{"filename":"Long Run.mp4","contentType":"video/mp4","size":6291456,"category":"training"}`), nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("token status = %d", resp.StatusCode)
	}
	tok := decode[struct {
		Token    string `json:"token"`
		Pathname string `json:"pathname"`
	}](t, resp)

	// simulate the browser posting straight to the store
	data := make([]byte, size)
	copy(data, []byte{0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'})
	ts.strg.Put(tok.Pathname, data, "video/mp4", time.Now())

	body, _ := json.Marshal(map[string]string{"token": tok.Token, "title": "Long run", "category": "training", "date": "2025-05-02"})
	resp = ts.do(t, http.MethodPost, "/api/admin/upload/register", body, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	m := decode[api.MediaResponse](t, resp).Media
	if m.Type != model.MediaTypeVideo || m.Pathname != tok.Pathname || m.Size != size {
		t.Errorf("media = %+v", m)
	}

	if resp := ts.do(t, http.MethodPost, "/api/admin/upload/register", body, nil); resp.StatusCode != http.StatusConflict {
		t.Errorf("token reuse = %d; want 409", resp.StatusCode)
	}
}

func TestPublicFallbacks(t *testing.T) {
	ts := newTestServer(t, "")

	if resp := ts.do(t, http.MethodGet, "/api/content/agenda", nil, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("content = %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodGet, "/api/instagram", nil, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("instagram = %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodGet, "/does-not-exist", nil, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown path = %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodPut, "/api/medias", nil, nil); resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("wrong method = %d", resp.StatusCode)
	}
	if resp := ts.do(t, http.MethodGet, "/healthz", nil, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("healthz = %d", resp.StatusCode)
	}
}
