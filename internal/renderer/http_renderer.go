package renderer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

// MediasCacheTTL bounds how long a rendered public listing may be served after an out-of-band change.
const MediasCacheTTL = 5 * time.Minute

// EmptyMediasCacheTTL applies to empty listings, which are also what a failed store read renders.
const EmptyMediasCacheTTL = 10 * time.Second

// HTTPRenderer mediates between HTTP handlers and the media lister use case.
// It provides caching capabilities and returns both the JSON representation of
// the result as well as an ETag value derived from it.
type HTTPRenderer interface {
	// RenderMedias returns the cached JSON listing and its ETag if available or
	// executes the underlying use case and caches the output otherwise.
	RenderMedias(ctx context.Context, lister port.MediaLister, category *model.Category) ([]byte, string, error)
	// Invalidate drops every cached listing. It is called after each metadata write.
	Invalidate(ctx context.Context)
}

// PublicMedias is the body of GET /api/medias.
type PublicMedias struct {
	Medias []model.Media `json:"medias"`
}

type cachedListing struct {
	Raw  json.RawMessage `json:"raw"`
	Etag string          `json:"etag"`
}

type httpRenderer struct {
	cache port.Cache
}

// compile-time check: *httpRenderer must satisfy HTTPRenderer
var _ HTTPRenderer = (*httpRenderer)(nil)

// NewHTTPRenderer creates a new HTTPRenderer implementation.
func NewHTTPRenderer(cache port.Cache) HTTPRenderer {
	return &httpRenderer{cache: cache}
}

// RenderMedias fetches the listing either from cache or from the wrapped use
// case. It returns the JSON encoded output and a quoted ETag string.
func (r *httpRenderer) RenderMedias(ctx context.Context, lister port.MediaLister, category *model.Category) ([]byte, string, error) {
	key := listingKey(category)
	if hit, err := r.cache.Get(ctx, key); err == nil && hit != nil {
		var c cachedListing
		if err := json.Unmarshal(hit, &c); err == nil && c.Etag != "" {
			return c.Raw, c.Etag, nil
		}
	}

	medias := lister.ListMedias(ctx, category)
	raw, err := json.Marshal(PublicMedias{Medias: medias})
	if err != nil {
		return nil, "", fmt.Errorf("json marshal: %w", err)
	}
	etag := ETag(raw)

	ttl := MediasCacheTTL
	if len(medias) == 0 {
		ttl = EmptyMediasCacheTTL
	}
	if entry, err := json.Marshal(cachedListing{Raw: raw, Etag: etag}); err == nil {
		r.cache.Set(ctx, key, entry, ttl)
	}
	return raw, etag, nil
}

func (r *httpRenderer) Invalidate(ctx context.Context) {
	keys := []string{listingKey(nil)}
	for _, c := range model.Categories {
		keys = append(keys, listingKey(&c))
	}
	for _, k := range keys {
		if err := r.cache.Delete(ctx, k); err != nil {
			logger.Warnf(ctx, "could not invalidate %q: %v", k, err)
		}
	}
}

// ETag returns the quoted crc32 of body.
func ETag(body []byte) string {
	return fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(body))
}

func listingKey(category *model.Category) string {
	if category == nil {
		return "medias:all"
	}
	return "medias:" + string(*category)
}
