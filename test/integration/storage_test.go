package integration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/go-resty/resty/v2"
)

func TestStorage_SaveStatGetRemove(t *testing.T) {
	ctx := context.Background()
	strg, cleanup, err := minioInfo.NewBucket(ctx, "storage-crud")
	if err != nil {
		t.Fatalf("bucket: %v", err)
	}
	t.Cleanup(func() { _ = cleanup() })

	key := "medias/training/run-1700000000000.jpg"
	data := []byte("\xFF\xD8\xFFpretend jpeg")
	if err := strg.SaveFile(ctx, key, bytes.NewReader(data), int64(len(data)), map[string]string{"Content-Type": "image/jpeg"}); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	ok, err := strg.FileExists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("FileExists = %t, %v; want true", ok, err)
	}

	info, err := strg.StatFile(ctx, key)
	if err != nil {
		t.Fatalf("StatFile: %v", err)
	}
	if info.SizeBytes != int64(len(data)) || info.ContentType != "image/jpeg" {
		t.Errorf("StatFile = %+v", info)
	}

	rc, err := strg.GetFile(ctx, key)
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(got, data) {
		t.Errorf("GetFile content = %q", got)
	}

	objs, err := strg.ListFiles(ctx, "medias/training/")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(objs) != 1 || objs[0].Key != key {
		t.Errorf("ListFiles = %+v", objs)
	}

	if err := strg.RemoveFile(ctx, key); err != nil {
		t.Fatalf("RemoveFile: %v", err)
	}
	if _, err := strg.StatFile(ctx, key); !errors.Is(err, port.ErrObjectNotFound) {
		t.Errorf("StatFile after remove: got %v; want ErrObjectNotFound", err)
	}
}

func TestStorage_PublicReadPolicy(t *testing.T) {
	ctx := context.Background()
	strg, cleanup, err := minioInfo.NewBucket(ctx, "storage-public")
	if err != nil {
		t.Fatalf("bucket: %v", err)
	}
	t.Cleanup(func() { _ = cleanup() })

	for _, key := range []string{"medias/events/a.jpg", "medias-metadata-1.json"} {
		if err := strg.SaveFile(ctx, key, bytes.NewReader([]byte("x")), 1, nil); err != nil {
			t.Fatalf("SaveFile %q: %v", key, err)
		}
	}

	tests := []struct {
		key  string
		want int
	}{
		{"medias/events/a.jpg", http.StatusOK},
		{"medias-metadata-1.json", http.StatusForbidden},
	}
	for _, tc := range tests {
		resp, err := http.Get(strg.PublicURL(tc.key))
		if err != nil {
			t.Fatalf("GET %q: %v", tc.key, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != tc.want {
			t.Errorf("anonymous GET %q = %d; want %d", tc.key, resp.StatusCode, tc.want)
		}
	}
}

func TestStorage_UploadPolicy(t *testing.T) {
	ctx := context.Background()
	strg, cleanup, err := minioInfo.NewBucket(ctx, "storage-policy")
	if err != nil {
		t.Fatalf("bucket: %v", err)
	}
	t.Cleanup(func() { _ = cleanup() })

	key := "medias/competitions/final-1700000000000.mp4"
	policy, err := strg.GenerateUploadPolicy(ctx, key, "video/mp4", 1024, 5*time.Minute)
	if err != nil {
		t.Fatalf("GenerateUploadPolicy: %v", err)
	}

	post := func(contentType string, body []byte) *resty.Response {
		t.Helper()
		resp, err := resty.New().R().
			SetMultipartFormData(policy.FormData).
			SetMultipartField("file", "final.mp4", contentType, bytes.NewReader(body)).
			Post(policy.URL)
		if err != nil {
			t.Fatalf("POST policy: %v", err)
		}
		return resp
	}

	tests := []struct {
		name        string
		contentType string
		size        int
		wantOK      bool
	}{
		{"wrong content type", "image/jpeg", 10, false},
		{"too large", "video/mp4", 2048, false},
		{"accepted", "video/mp4", 512, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := post(tc.contentType, bytes.Repeat([]byte{'v'}, tc.size))
			if resp.IsSuccess() != tc.wantOK {
				t.Errorf("status = %d; want success=%t (%s)", resp.StatusCode(), tc.wantOK, resp.String())
			}
		})
	}

	info, err := strg.StatFile(ctx, key)
	if err != nil {
		t.Fatalf("StatFile: %v", err)
	}
	if info.SizeBytes != 512 {
		t.Errorf("stored size = %d; want 512", info.SizeBytes)
	}
}
