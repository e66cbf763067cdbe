package media

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

type uploadTokenIssuerSrv struct {
	strg   port.Storage
	signer *UploadTokenSigner
}

// compile-time check: *uploadTokenIssuerSrv must satisfy port.UploadTokenIssuer
var _ port.UploadTokenIssuer = (*uploadTokenIssuerSrv)(nil)

func NewUploadTokenIssuer(strg port.Storage, signer *UploadTokenSigner) port.UploadTokenIssuer {
	return &uploadTokenIssuerSrv{strg: strg, signer: signer}
}

// IssueUploadToken scopes a direct upload to a fresh key. The returned policy only accepts
// the declared content type and at most the ceiling of its media type.
func (s *uploadTokenIssuerSrv) IssueUploadToken(ctx context.Context, in port.IssueUploadTokenInput) (port.IssueUploadTokenOutput, error) {
	if !in.Category.Valid() {
		return port.IssueUploadTokenOutput{}, invalid("Category must be one of competitions, training, events")
	}
	contentType := NormaliseContentType(in.ContentType)
	if err := ValidateUpload(contentType, in.Size); err != nil {
		return port.IssueUploadTokenOutput{}, err
	}

	key, err := BuildObjectKey(in.Category, in.Filename, contentType, time.Now())
	if err != nil {
		return port.IssueUploadTokenOutput{}, invalid(err.Error())
	}
	maxSize := MaxSizeFor(contentType)

	policy, err := s.strg.GenerateUploadPolicy(ctx, key, contentType, maxSize, s.signer.TTL())
	if err != nil {
		return port.IssueUploadTokenOutput{}, fmt.Errorf("presign upload of %q: %w", key, err)
	}

	token, exp, err := s.signer.Sign(UploadScope{
		Key:         key,
		ContentType: contentType,
		MaxSize:     maxSize,
		Category:    in.Category,
		IssuedTo:    in.IssuedTo,
	})
	if err != nil {
		return port.IssueUploadTokenOutput{}, err
	}

	logger.Infof(ctx, "✅  Issued upload token for %q", key)
	return port.IssueUploadTokenOutput{
		Token:     token,
		Pathname:  key,
		URL:       s.strg.PublicURL(key),
		Upload:    policy,
		ExpiresAt: exp,
	}, nil
}
