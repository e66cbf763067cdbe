package mock

import (
	"context"
	"encoding/json"
	"sync"
)

// OEmbedFetcher implements port.OEmbedFetcher for tests. It is safe for concurrent use.
type OEmbedFetcher struct {
	mu sync.Mutex

	Embeds map[string]json.RawMessage
	Errs   map[string]error
	Calls  []string
}

func (f *OEmbedFetcher) FetchOEmbed(ctx context.Context, postURL string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, postURL)
	if err := f.Errs[postURL]; err != nil {
		return nil, err
	}
	return f.Embeds[postURL], nil
}

func (f *OEmbedFetcher) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
