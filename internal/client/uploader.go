package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/handler/api"
	"github.com/fhuszti/athlete-portfolio-go/internal/imaging"
	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/usecase/media"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
)

var ErrNotLoggedIn = errors.New("not logged in")

type contentLengthKey struct{}

// LocalFile is a file picked on the uploading machine.
type LocalFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Details is what the admin typed in. Empty Date and Location are filled from the file when
// possible, and Date falls back to today.
type Details struct {
	Title       string
	Description string
	Location    string
	Category    model.Category
	Date        string
}

type Result struct {
	Media    *model.Media
	Prepared *imaging.Result
	Direct   bool
}

// Uploader sends local media files to the portfolio API.
type Uploader struct {
	api      *resty.Client
	store    *resty.Client
	pipeline *imaging.Pipeline
	progress ProgressFunc
	loggedIn bool
}

func NewUploader(baseURL string, pipeline *imaging.Pipeline, progress ProgressFunc) *Uploader {
	apiClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Minute).
		SetPreRequestHook(func(_ *resty.Client, req *http.Request) error {
			if n, ok := req.Context().Value(contentLengthKey{}).(int64); ok {
				req.ContentLength = n
			}
			return nil
		})
	// the store must never see the session token
	storeClient := resty.New().SetTimeout(30 * time.Minute)

	return &Uploader{
		api:      apiClient,
		store:    storeClient,
		pipeline: pipeline,
		progress: progress,
	}
}

// Login opens an admin session. loginPath depends on the server's hidden URL segment.
func (u *Uploader) Login(ctx context.Context, loginPath, email, password string) (port.LoginOutput, error) {
	var out port.LoginOutput
	resp, err := u.api.R().
		SetContext(ctx).
		SetBody(api.LoginRequest{Email: email, Password: password}).
		SetResult(&out).
		Post(loginPath)
	if err != nil {
		return port.LoginOutput{}, fmt.Errorf("login request failed: %w", err)
	}
	if resp.IsError() {
		return port.LoginOutput{}, responseError("Login failed", resp)
	}
	u.api.SetAuthToken(out.Token)
	u.loggedIn = true
	logger.Infof(ctx, "✅  Logged in as %s", out.Email)
	return out, nil
}

// Upload prepares a file, checks it locally and sends it through the proxied or the
// direct path depending on its final size.
func (u *Uploader) Upload(ctx context.Context, file LocalFile, details Details) (*Result, error) {
	if !u.loggedIn {
		return nil, ErrNotLoggedIn
	}

	file.ContentType = detectContentType(file)
	prepared := &imaging.Result{
		Data:         file.Data,
		Filename:     file.Name,
		ContentType:  file.ContentType,
		OriginalSize: int64(len(file.Data)),
		FinalSize:    int64(len(file.Data)),
	}
	if u.pipeline != nil {
		p, err := u.pipeline.Process(ctx, imaging.Input{Filename: file.Name, ContentType: file.ContentType, Data: file.Data})
		if err != nil {
			return nil, err
		}
		prepared = p
	}
	if details.Date == "" {
		details.Date = prepared.Date
	}
	if details.Location == "" {
		details.Location = prepared.Location
	}
	if details.Date == "" {
		details.Date = time.Now().Format(time.DateOnly)
	}

	head := prepared.Data
	if len(head) > media.SignatureLength {
		head = head[:media.SignatureLength]
	}
	if err := media.ValidateFile(prepared.ContentType, prepared.FinalSize, head); err != nil {
		return nil, err
	}

	res := &Result{Prepared: prepared, Direct: media.UseDirectUpload(prepared.FinalSize)}
	var err error
	if res.Direct {
		res.Media, err = u.uploadDirect(ctx, prepared, details)
	} else {
		res.Media, err = u.uploadProxied(ctx, prepared, details)
	}
	if err != nil {
		return nil, err
	}
	logger.Infof(ctx, "✅  Uploaded %q as media %s (direct=%t)", prepared.Filename, res.Media.ID, res.Direct)
	return res, nil
}

func (u *Uploader) uploadProxied(ctx context.Context, f *imaging.Result, d Details) (*model.Media, error) {
	meta, err := json.Marshal(api.MediaMetadata{
		Filename:    f.Filename,
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		Category:    string(d.Category),
		Date:        d.Date,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	var out api.MediaResponse
	body := newCountingReader(bytes.NewReader(f.Data), f.FinalSize, u.progress)
	resp, err := u.api.R().
		SetContext(context.WithValue(ctx, contentLengthKey{}, f.FinalSize)).
		SetHeader("Content-Type", f.ContentType).
		SetHeader(api.MetadataHeader, url.QueryEscape(string(meta))).
		SetBody(body).
		SetResult(&out).
		Post("/api/admin/upload")
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	if resp.IsError() {
		return nil, responseError("Upload failed", resp)
	}
	return out.Media, nil
}

func (u *Uploader) uploadDirect(ctx context.Context, f *imaging.Result, d Details) (*model.Media, error) {
	var grant port.IssueUploadTokenOutput
	resp, err := u.api.R().
		SetContext(ctx).
		SetBody(api.IssueUploadTokenRequest{
			Filename:    f.Filename,
			ContentType: f.ContentType,
			Size:        f.FinalSize,
			Category:    string(d.Category),
		}).
		SetResult(&grant).
		Post("/api/admin/upload/token")
	if err != nil {
		return nil, fmt.Errorf("upload token request failed: %w", err)
	}
	if resp.IsError() {
		return nil, responseError("Could not authorise the upload", resp)
	}

	finish := simulateProgress(ctx, f.FinalSize, u.progress)
	resp, err = u.store.R().
		SetContext(ctx).
		SetMultipartFormData(grant.Upload.FormData).
		SetMultipartField("file", f.Filename, f.ContentType, bytes.NewReader(f.Data)).
		Post(grant.Upload.URL)
	if err != nil {
		finish(false)
		return nil, fmt.Errorf("direct upload failed: %w", err)
	}
	if resp.IsError() {
		finish(false)
		return nil, fmt.Errorf("direct upload rejected by the store (%d): %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	finish(true)

	var out api.MediaResponse
	resp, err = u.api.R().
		SetContext(ctx).
		SetBody(api.RegisterUploadRequest{
			Token:       grant.Token,
			Title:       d.Title,
			Description: d.Description,
			Location:    d.Location,
			Category:    string(d.Category),
			Date:        d.Date,
		}).
		SetResult(&out).
		Post("/api/admin/upload/register")
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	if resp.IsError() {
		return nil, responseError("File uploaded but could not be registered", resp)
	}
	return out.Media, nil
}

// detectContentType trusts a declared type unless it is missing or generic.
func detectContentType(f LocalFile) string {
	ct := media.NormaliseContentType(f.ContentType)
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return media.NormaliseContentType(mimetype.Detect(f.Data).String())
}

// responseError turns an API error body into a user facing error.
func responseError(prefix string, resp *resty.Response) error {
	var single api.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &single); err == nil && single.Error != "" {
		return fmt.Errorf("%s: %s", prefix, single.Error)
	}
	var fields map[string]string
	if err := json.Unmarshal(resp.Body(), &fields); err == nil && len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for field, tag := range fields {
			parts = append(parts, field+" ("+tag+")")
		}
		sort.Strings(parts)
		return fmt.Errorf("%s: invalid %s", prefix, strings.Join(parts, ", "))
	}
	return fmt.Errorf("%s: HTTP %d", prefix, resp.StatusCode())
}
