package port

import (
	"context"

	"github.com/fhuszti/athlete-portfolio-go/internal/model"
)

// MediaRepository is the metadata store: one logical document listing every media.
type MediaRepository interface {
	GetMetadata(ctx context.Context) model.MetadataDocument
	SaveMetadata(ctx context.Context, doc model.MetadataDocument) (model.MetadataDocument, error)
	AddMedia(ctx context.Context, media model.Media) error
	UpdateMedia(ctx context.Context, id string, patch model.MediaPatch) (*model.Media, error)
	DeleteMedia(ctx context.Context, id string) (bool, error)
	GetAllMedias(ctx context.Context) []model.Media
	GetMediasByCategory(ctx context.Context, category model.Category) []model.Media
	Reset(ctx context.Context) (model.MetadataDocument, error)
}
