package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/mediaid"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

type mediaUploaderSrv struct {
	repo  port.MediaRepository
	strg  port.Storage
	newID mediaid.Generator
}

// compile-time check: *mediaUploaderSrv must satisfy port.MediaUploader
var _ port.MediaUploader = (*mediaUploaderSrv)(nil)

func NewMediaUploader(repo port.MediaRepository, strg port.Storage, newID mediaid.Generator) port.MediaUploader {
	return &mediaUploaderSrv{repo: repo, strg: strg, newID: newID}
}

// UploadMedia validates and stores a file streamed through the API, then records it.
func (s *mediaUploaderSrv) UploadMedia(ctx context.Context, in port.UploadMediaInput) (*model.Media, error) {
	if err := validateDetails(in.Details); err != nil {
		return nil, err
	}
	contentType := NormaliseContentType(in.ContentType)
	if err := ValidateUpload(contentType, in.Size); err != nil {
		return nil, err
	}

	body := bufio.NewReaderSize(in.Body, 64)
	head, err := body.Peek(SignatureLength)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read upload body: %w", err)
	}
	if !MatchesSignature(contentType, head) {
		return nil, invalid("File content does not match its declared type")
	}

	key, err := BuildObjectKey(in.Details.Category, in.Filename, contentType, time.Now())
	if err != nil {
		return nil, invalid(err.Error())
	}
	if err := s.strg.SaveFile(ctx, key, body, in.Size, map[string]string{"Content-Type": contentType}); err != nil {
		return nil, fmt.Errorf("store file %q: %w", key, err)
	}

	mediaType, _ := MediaTypeOf(contentType)
	m := newMedia(s.newID(), mediaType, s.strg.PublicURL(key), key, in.Size, in.Details, in.UploadedBy)
	if err := s.repo.AddMedia(ctx, m); err != nil {
		if rmErr := s.strg.RemoveFile(ctx, key); rmErr != nil {
			logger.Warnf(ctx, "could not remove orphaned file %q: %v", key, rmErr)
		}
		return nil, fmt.Errorf("record media: %w", err)
	}

	logger.Infof(ctx, "✅  Uploaded media #%s to %q", m.ID, key)
	return &m, nil
}
