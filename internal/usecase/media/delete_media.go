package media

import (
	"context"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

type mediaDeleterSrv struct {
	repo port.MediaRepository
}

// compile-time check: *mediaDeleterSrv must satisfy port.MediaDeleter
var _ port.MediaDeleter = (*mediaDeleterSrv)(nil)

func NewMediaDeleter(repo port.MediaRepository) port.MediaDeleter {
	return &mediaDeleterSrv{repo: repo}
}

// DeleteMedia removes the record and its file. A file that cannot be removed does not
// block the record removal.
func (s *mediaDeleterSrv) DeleteMedia(ctx context.Context, id string) error {
	ok, err := s.repo.DeleteMedia(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMediaNotFound
	}
	logger.Infof(ctx, "✅  Deleted media #%s", id)
	return nil
}
