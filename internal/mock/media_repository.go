package mock

import (
	"context"

	"github.com/fhuszti/athlete-portfolio-go/internal/model"
)

// MediaRepo implements port.MediaRepository for tests.
type MediaRepo struct {
	Doc     model.MetadataDocument
	Updated *model.Media
	Deleted bool

	SaveErr   error
	AddErr    error
	UpdateErr error
	DeleteErr error
	ResetErr  error

	GotAdded    *model.Media
	GotPatch    model.MediaPatch
	GotID       string
	GotCategory model.Category

	GetCalled      bool
	SaveCalled     bool
	AddCalled      bool
	UpdateCalled   bool
	DeleteCalled   bool
	ListCalled     bool
	CategoryCalled bool
	ResetCalled    bool
}

func (m *MediaRepo) GetMetadata(ctx context.Context) model.MetadataDocument {
	m.GetCalled = true
	return m.Doc
}

func (m *MediaRepo) SaveMetadata(ctx context.Context, doc model.MetadataDocument) (model.MetadataDocument, error) {
	m.SaveCalled = true
	if m.SaveErr != nil {
		return model.MetadataDocument{}, m.SaveErr
	}
	m.Doc = doc
	return doc, nil
}

func (m *MediaRepo) AddMedia(ctx context.Context, media model.Media) error {
	m.AddCalled = true
	m.GotAdded = &media
	if m.AddErr != nil {
		return m.AddErr
	}
	m.Doc.Medias = append([]model.Media{media}, m.Doc.Medias...)
	return nil
}

func (m *MediaRepo) UpdateMedia(ctx context.Context, id string, patch model.MediaPatch) (*model.Media, error) {
	m.UpdateCalled = true
	m.GotID = id
	m.GotPatch = patch
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	return m.Updated, nil
}

func (m *MediaRepo) DeleteMedia(ctx context.Context, id string) (bool, error) {
	m.DeleteCalled = true
	m.GotID = id
	if m.DeleteErr != nil {
		return false, m.DeleteErr
	}
	return m.Deleted, nil
}

func (m *MediaRepo) GetAllMedias(ctx context.Context) []model.Media {
	m.ListCalled = true
	return m.Doc.Medias
}

func (m *MediaRepo) GetMediasByCategory(ctx context.Context, category model.Category) []model.Media {
	m.CategoryCalled = true
	m.GotCategory = category
	out := []model.Media{}
	for _, md := range m.Doc.Medias {
		if md.Category == category {
			out = append(out, md)
		}
	}
	return out
}

func (m *MediaRepo) Reset(ctx context.Context) (model.MetadataDocument, error) {
	m.ResetCalled = true
	if m.ResetErr != nil {
		return model.MetadataDocument{}, m.ResetErr
	}
	m.Doc = model.MetadataDocument{Medias: []model.Media{}}
	return m.Doc, nil
}
