package media

import (
	"context"
	"strings"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

type mediaUpdaterSrv struct {
	repo port.MediaRepository
}

// compile-time check: *mediaUpdaterSrv must satisfy port.MediaUpdater
var _ port.MediaUpdater = (*mediaUpdaterSrv)(nil)

func NewMediaUpdater(repo port.MediaRepository) port.MediaUpdater {
	return &mediaUpdaterSrv{repo: repo}
}

func (s *mediaUpdaterSrv) UpdateMedia(ctx context.Context, in port.UpdateMediaInput) (*model.Media, error) {
	p := in.Patch
	if p.IsEmpty() {
		return nil, invalid("Nothing to update")
	}
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return nil, invalid("Title is required")
		}
		p.Title = &t
	}
	if p.Category != nil && !p.Category.Valid() {
		return nil, invalid("Category must be one of competitions, training, events")
	}
	if p.Date != nil {
		if _, err := time.Parse(model.DateLayout, *p.Date); err != nil {
			return nil, invalid("Date must be formatted YYYY-MM-DD")
		}
	}

	m, err := s.repo.UpdateMedia(ctx, in.ID, p)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMediaNotFound
	}
	logger.Infof(ctx, "✅  Updated media #%s", m.ID)
	return m, nil
}
