package e2e

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net/http"
	"testing"

	"github.com/fhuszti/athlete-portfolio-go/internal/client"
	"github.com/fhuszti/athlete-portfolio-go/internal/imaging"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/renderer"
	"github.com/fhuszti/athlete-portfolio-go/internal/server"
	"github.com/fhuszti/athlete-portfolio-go/test/testutil"
	"github.com/go-resty/resty/v2"
)

// fakeMP4 returns size bytes starting with an isom ftyp box.
func fakeMP4(size int) []byte {
	data := make([]byte, size)
	binary.BigEndian.PutUint32(data[0:4], 24)
	copy(data[4:], "ftypisom")
	return data
}

func newUploader(t *testing.T) *client.Uploader {
	t.Helper()
	pipeline := imaging.NewPipeline(nil, nil, imaging.NewResizer(imaging.JPEGEncoder{}))
	u := client.NewUploader(apiServer.URL, pipeline, nil)
	if _, err := u.Login(context.Background(), server.LoginPath(""), adminEmail, adminPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}
	return u
}

func publicMedias(t *testing.T) []model.Media {
	t.Helper()
	var out renderer.PublicMedias
	resp, err := resty.New().R().SetResult(&out).Get(apiServer.URL + "/api/medias")
	if err != nil || resp.StatusCode() != http.StatusOK {
		t.Fatalf("GET /api/medias: %v (%d)", err, resp.StatusCode())
	}
	return out.Medias
}

func findMedia(medias []model.Media, id string) *model.Media {
	for i := range medias {
		if medias[i].ID == id {
			return &medias[i]
		}
	}
	return nil
}

func TestUpload_ProxiedImage(t *testing.T) {
	ctx := context.Background()
	u := newUploader(t)

	photo := testutil.GenerateJPEG(t, 2400, 1600, 95)
	res, err := u.Upload(ctx, client.LocalFile{Name: "Podium Paris.jpg", Data: photo}, client.Details{
		Title:    "Podium",
		Category: model.CategoryCompetitions,
		Date:     "2024-06-15",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Direct {
		t.Error("a resized photo should go through the API")
	}
	if !res.Prepared.Resized {
		t.Error("expected the pipeline to scale the photo down")
	}

	m := findMedia(publicMedias(t), res.Media.ID)
	if m == nil {
		t.Fatalf("media %s missing from the public listing", res.Media.ID)
	}
	if m.Type != model.MediaTypeImage || m.Category != model.CategoryCompetitions || m.UploadedBy != adminEmail {
		t.Errorf("unexpected record %+v", m)
	}

	resp, err := http.Get(m.URL)
	if err != nil {
		t.Fatalf("GET %s: %v", m.URL, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !bytes.Equal(body, res.Prepared.Data) {
		t.Errorf("public object: status %d, %d bytes; want the %d prepared bytes", resp.StatusCode, len(body), len(res.Prepared.Data))
	}
}

func TestUpload_DirectVideo(t *testing.T) {
	ctx := context.Background()
	u := newUploader(t)

	video := fakeMP4(5 * 1024 * 1024)
	res, err := u.Upload(ctx, client.LocalFile{Name: "final.mp4", ContentType: "video/mp4", Data: video}, client.Details{
		Title:    "Final",
		Category: model.CategoryEvents,
		Date:     "2024-07-01",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !res.Direct {
		t.Error("a 5MB file should bypass the API")
	}

	m := findMedia(publicMedias(t), res.Media.ID)
	if m == nil {
		t.Fatalf("media %s missing from the public listing", res.Media.ID)
	}
	if m.Type != model.MediaTypeVideo || m.Size != int64(len(video)) {
		t.Errorf("unexpected record %+v", m)
	}

	info, err := strg.StatFile(ctx, m.Pathname)
	if err != nil {
		t.Fatalf("StatFile %q: %v", m.Pathname, err)
	}
	if info.SizeBytes != int64(len(video)) || info.ContentType != "video/mp4" {
		t.Errorf("stored object = %+v", info)
	}
}

func TestUpload_RejectedBeforeSending(t *testing.T) {
	u := newUploader(t)
	before := len(repo.GetAllMedias(context.Background()))

	_, err := u.Upload(context.Background(), client.LocalFile{Name: "notes.txt", Data: []byte("plain text")}, client.Details{
		Title:    "Notes",
		Category: model.CategoryTraining,
	})
	if err == nil {
		t.Fatal("expected a local validation error")
	}
	if after := len(repo.GetAllMedias(context.Background())); after != before {
		t.Errorf("media count changed from %d to %d", before, after)
	}
}

func TestUpload_RequiresLogin(t *testing.T) {
	u := client.NewUploader(apiServer.URL, nil, nil)
	if _, err := u.Upload(context.Background(), client.LocalFile{Name: "a.jpg", Data: []byte{0xFF, 0xD8, 0xFF}}, client.Details{}); err != client.ErrNotLoggedIn {
		t.Fatalf("got %v; want ErrNotLoggedIn", err)
	}
}
