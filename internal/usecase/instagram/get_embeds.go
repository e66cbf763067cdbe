package instagram

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"golang.org/x/sync/errgroup"
)

const (
	CacheKey = "instagram:embeds"
	CacheTTL = time.Hour

	maxConcurrentFetches = 4
)

type instagramFeedSrv struct {
	fetcher port.OEmbedFetcher
	cache   port.Cache
	urls    []string
}

// compile-time check: *instagramFeedSrv must satisfy port.InstagramFeed
var _ port.InstagramFeed = (*instagramFeedSrv)(nil)

// NewInstagramFeed returns the feed for urls. A nil fetcher yields bare URLs.
func NewInstagramFeed(fetcher port.OEmbedFetcher, cache port.Cache, urls []string) port.InstagramFeed {
	return &instagramFeedSrv{fetcher: fetcher, cache: cache, urls: urls}
}

func (s *instagramFeedSrv) GetEmbeds(ctx context.Context) ([]port.InstagramEmbed, error) {
	if len(s.urls) == 0 {
		return []port.InstagramEmbed{}, nil
	}

	if cached, err := s.cache.Get(ctx, CacheKey); err != nil {
		logger.Warnf(ctx, "instagram cache read failed: %v", err)
	} else if cached != nil {
		var embeds []port.InstagramEmbed
		if err := json.Unmarshal(cached, &embeds); err == nil {
			return embeds, nil
		}
		logger.Warnf(ctx, "discarding unreadable instagram cache entry")
	}

	embeds := make([]port.InstagramEmbed, len(s.urls))
	for i, u := range s.urls {
		embeds[i].URL = u
	}
	if s.fetcher == nil {
		return embeds, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i := range embeds {
		g.Go(func() error {
			raw, err := s.fetcher.FetchOEmbed(gctx, embeds[i].URL)
			if err != nil {
				// one broken post must not hide the others
				logger.Warnf(gctx, "oEmbed fetch failed for %s: %v", embeds[i].URL, err)
				embeds[i].Error = "Embed unavailable"
				return nil
			}
			embeds[i].Embed = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if anyEmbedded(embeds) {
		if data, err := json.Marshal(embeds); err == nil {
			s.cache.Set(ctx, CacheKey, data, CacheTTL)
		}
	}
	return embeds, nil
}

func anyEmbedded(embeds []port.InstagramEmbed) bool {
	for _, e := range embeds {
		if e.Embed != nil {
			return true
		}
	}
	return false
}
