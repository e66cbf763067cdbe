package media

import (
	"context"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

type metadataResetterSrv struct {
	repo port.MediaRepository
}

// compile-time check: *metadataResetterSrv must satisfy port.MetadataResetter
var _ port.MetadataResetter = (*metadataResetterSrv)(nil)

func NewMetadataResetter(repo port.MediaRepository) port.MetadataResetter {
	return &metadataResetterSrv{repo: repo}
}

func (s *metadataResetterSrv) ResetMetadata(ctx context.Context) (model.MetadataDocument, error) {
	doc, err := s.repo.Reset(ctx)
	if err != nil {
		return model.MetadataDocument{}, err
	}
	logger.Warnf(ctx, "⚠️  Media metadata reset")
	return doc, nil
}
