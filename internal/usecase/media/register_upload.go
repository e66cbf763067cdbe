package media

import (
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

type uploadRegistrarSrv struct {
	repo   port.MediaRepository
	strg   port.Storage
	signer *UploadTokenSigner
	ledger port.TokenLedger
	newID  mediaid.Generator
}

// compile-time check: *uploadRegistrarSrv must satisfy port.UploadRegistrar
var _ port.UploadRegistrar = (*uploadRegistrarSrv)(nil)

func NewUploadRegistrar(repo port.MediaRepository, strg port.Storage, signer *UploadTokenSigner, ledger port.TokenLedger, newID mediaid.Generator) port.UploadRegistrar {
	return &uploadRegistrarSrv{repo: repo, strg: strg, signer: signer, ledger: ledger, newID: newID}
}

// RegisterUpload records an object uploaded directly to the store. The token is consumed
// only once the object has been checked against its scope.
func (s *uploadRegistrarSrv) RegisterUpload(ctx context.Context, in port.RegisterUploadInput) (*model.Media, error) {
	scope, err := s.signer.Verify(in.Token)
	if err != nil {
		return nil, err
	}
	details := in.Details
	details.Category = scope.Category
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	info, err := s.strg.StatFile(ctx, scope.Key)
	if errors.Is(err, port.ErrObjectNotFound) {
		return nil, invalid("Uploaded file not found in storage")
	}
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", scope.Key, err)
	}
	if err := s.checkObject(ctx, scope.UploadScope, info); err != nil {
		if rmErr := s.strg.RemoveFile(ctx, scope.Key); rmErr != nil {
			logger.Warnf(ctx, "could not remove rejected upload %q: %v", scope.Key, rmErr)
		}
		return nil, err
	}

	fresh, err := s.ledger.Consume(ctx, scope.TokenID, time.Until(scope.ExpiresAt)+time.Minute)
	if err != nil {
		return nil, fmt.Errorf("consume upload token: %w", err)
	}
	if !fresh {
		return nil, ErrTokenAlreadyUsed
	}

	mediaType, _ := MediaTypeOf(scope.ContentType)
	m := newMedia(s.newID(), mediaType, s.strg.PublicURL(scope.Key), scope.Key, info.SizeBytes, details, in.UploadedBy)
	if err := s.repo.AddMedia(ctx, m); err != nil {
		return nil, fmt.Errorf("record media: %w", err)
	}

	logger.Infof(ctx, "✅  Registered media #%s for %q", m.ID, scope.Key)
	return &m, nil
}

func (s *uploadRegistrarSrv) checkObject(ctx context.Context, scope UploadScope, info port.FileInfo) error {
	if NormaliseContentType(info.ContentType) != scope.ContentType {
		return invalid(fmt.Sprintf("Uploaded file type %q does not match the authorised %q", info.ContentType, scope.ContentType))
	}
	if info.SizeBytes <= 0 || info.SizeBytes > scope.MaxSize {
		return invalid(fmt.Sprintf("Uploaded file size %d is outside the authorised range", info.SizeBytes))
	}

	rc, err := s.strg.GetFile(ctx, scope.Key)
	if err != nil {
		return fmt.Errorf("read %q: %w", scope.Key, err)
	}
	defer func() { _ = rc.Close() }()
	head := make([]byte, SignatureLength)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read %q: %w", scope.Key, err)
	}
	if !MatchesSignature(scope.ContentType, head[:n]) {
		return invalid("File content does not match its declared type")
	}
	return nil
}
