package mock

import (
	"context"

	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

// HTTPRenderer implements renderer.HTTPRenderer for tests.
type HTTPRenderer struct {
	// stored values
	MediasOut []byte

	// etag values
	EtagMedias string

	// captured inputs
	GotCategory *model.Category

	// errors
	RenderErr error

	// call flags
	RenderCalled     bool
	InvalidateCalled bool
}

func (m *HTTPRenderer) RenderMedias(ctx context.Context, lister port.MediaLister, category *model.Category) ([]byte, string, error) {
	m.RenderCalled = true
	m.GotCategory = category
	return m.MediasOut, m.EtagMedias, m.RenderErr
}

func (m *HTTPRenderer) Invalidate(ctx context.Context) {
	m.InvalidateCalled = true
}
