package media

import (
	"context"

	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

type mediaListerSrv struct {
	repo port.MediaRepository
}

// compile-time check: *mediaListerSrv must satisfy port.MediaLister
var _ port.MediaLister = (*mediaListerSrv)(nil)

func NewMediaLister(repo port.MediaRepository) port.MediaLister {
	return &mediaListerSrv{repo: repo}
}

// ListMedias returns medias sorted by date, most recent first, optionally for one category.
func (s *mediaListerSrv) ListMedias(ctx context.Context, category *model.Category) []model.Media {
	if category != nil {
		return s.repo.GetMediasByCategory(ctx, *category)
	}
	return s.repo.GetAllMedias(ctx)
}

func (s *mediaListerSrv) GetDocument(ctx context.Context) model.MetadataDocument {
	return s.repo.GetMetadata(ctx)
}
