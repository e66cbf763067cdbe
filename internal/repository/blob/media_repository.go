package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

var ErrNoMetadata = port.ErrNoMetadata

const (
	MetadataPrefix    = "medias-metadata"
	LegacyMetadataKey = MetadataPrefix + ".json"
)

// MediaRepository keeps the metadata document as a series of immutable objects.
// Every save writes medias-metadata-<unix-millis>.json and the newest object is the
// current document. Superseded objects are swept only after the new one is durable.
//
// The mutex serialises read-modify-write cycles inside one process. Two processes
// writing at once still resolve as last writer wins.
type MediaRepository struct {
	strg     port.Storage
	dispatch port.SweepDispatcher
	now      func() time.Time

	mu sync.Mutex
}

// compile-time checks
var (
	_ port.MediaRepository = (*MediaRepository)(nil)
	_ port.CurrentSweeper  = (*MediaRepository)(nil)
)

type Option func(*MediaRepository)

// WithSweepDispatcher defers stale-object sweeps to a worker instead of running them inline.
func WithSweepDispatcher(d port.SweepDispatcher) Option {
	return func(r *MediaRepository) { r.dispatch = d }
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *MediaRepository) { r.now = now }
}

func NewMediaRepository(strg port.Storage, opts ...Option) *MediaRepository {
	r := &MediaRepository{strg: strg, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// MetadataKey returns the object key of a document written at t.
func MetadataKey(t time.Time) string {
	return fmt.Sprintf("%s-%d.json", MetadataPrefix, t.UnixMilli())
}

// keyStamp extracts the write timestamp of a metadata key. The legacy key stamps 0.
func keyStamp(key string) (int64, bool) {
	if key == LegacyMetadataKey {
		return 0, true
	}
	s, ok := strings.CutPrefix(key, MetadataPrefix+"-")
	if !ok {
		return 0, false
	}
	s, ok = strings.CutSuffix(s, ".json")
	if !ok {
		return 0, false
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}

// newer reports whether a orders after b: store modification time first, then key stamp.
func newer(a, b port.ObjectInfo) bool {
	if !a.LastModified.Equal(b.LastModified) {
		return a.LastModified.After(b.LastModified)
	}
	as, _ := keyStamp(a.Key)
	bs, _ := keyStamp(b.Key)
	if as != bs {
		return as > bs
	}
	return a.Key > b.Key
}

func (r *MediaRepository) listMetadataObjects(ctx context.Context) ([]port.ObjectInfo, error) {
	objs, err := r.strg.ListFiles(ctx, MetadataPrefix)
	if err != nil {
		return nil, err
	}
	out := objs[:0]
	for _, o := range objs {
		if _, ok := keyStamp(o.Key); ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func newest(objs []port.ObjectInfo) port.ObjectInfo {
	current := objs[0]
	for _, o := range objs[1:] {
		if newer(o, current) {
			current = o
		}
	}
	return current
}

// CurrentKey returns the key of the object holding the current document.
func (r *MediaRepository) CurrentKey(ctx context.Context) (string, error) {
	objs, err := r.listMetadataObjects(ctx)
	if err != nil {
		return "", fmt.Errorf("list metadata objects: %w", err)
	}
	if len(objs) == 0 {
		return "", ErrNoMetadata
	}
	return newest(objs).Key, nil
}

func (r *MediaRepository) emptyDocument() model.MetadataDocument {
	return model.NewMetadataDocument(r.now().UTC())
}

// GetMetadata returns the current document. It never fails: when nothing is stored
// or the newest object cannot be read, an empty document is returned.
func (r *MediaRepository) GetMetadata(ctx context.Context) model.MetadataDocument {
	doc, err := r.loadMetadata(ctx)
	if err != nil {
		logger.Warnf(ctx, "⚠️  %v", err)
		return r.emptyDocument()
	}
	return doc
}

// loadMetadata is the strict read behind writes. Only an empty store yields an empty
// document; list, fetch and decode failures are returned.
func (r *MediaRepository) loadMetadata(ctx context.Context) (model.MetadataDocument, error) {
	objs, err := r.listMetadataObjects(ctx)
	if err != nil {
		return model.MetadataDocument{}, fmt.Errorf("could not list metadata objects: %w", err)
	}
	if len(objs) == 0 {
		return r.emptyDocument(), nil
	}
	current := newest(objs)

	rc, err := r.strg.GetFile(ctx, current.Key)
	if err != nil {
		return model.MetadataDocument{}, fmt.Errorf("could not fetch metadata object %q: %w", current.Key, err)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			logger.Warnf(ctx, "failed to close metadata reader: %v", err)
		}
	}()

	var doc model.MetadataDocument
	if err := json.NewDecoder(rc).Decode(&doc); err != nil {
		return model.MetadataDocument{}, fmt.Errorf("could not decode metadata object %q: %w", current.Key, err)
	}
	if doc.Medias == nil {
		doc.Medias = []model.Media{}
	}
	return doc, nil
}

// SaveMetadata writes doc as a new object and then sweeps older copies.
func (r *MediaRepository) SaveMetadata(ctx context.Context, doc model.MetadataDocument) (model.MetadataDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, doc)
}

func (r *MediaRepository) save(ctx context.Context, doc model.MetadataDocument) (model.MetadataDocument, error) {
	now := r.now().UTC()
	doc.LastUpdated = now
	if doc.Medias == nil {
		doc.Medias = []model.Media{}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return model.MetadataDocument{}, fmt.Errorf("marshal metadata: %w", err)
	}

	key, err := r.freeKey(ctx, now)
	if err != nil {
		return model.MetadataDocument{}, err
	}

	logger.Infof(ctx, "writing metadata document %q with %d medias...", key, len(doc.Medias))
	if err := r.strg.SaveFile(ctx, key, bytes.NewReader(data), int64(len(data)), map[string]string{
		"Content-Type":  "application/json",
		"Cache-Control": "no-cache",
	}); err != nil {
		return model.MetadataDocument{}, fmt.Errorf("write metadata %q: %w", key, err)
	}

	// the new object is durable from here on, cleanup can never leave zero copies
	r.sweepAfterSave(ctx, key)
	return doc, nil
}

// freeKey returns the key for t, bumped one millisecond at a time until unused.
func (r *MediaRepository) freeKey(ctx context.Context, t time.Time) (string, error) {
	for {
		key := MetadataKey(t)
		exists, err := r.strg.FileExists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("check metadata key %q: %w", key, err)
		}
		if !exists {
			return key, nil
		}
		t = t.Add(time.Millisecond)
	}
}

func (r *MediaRepository) sweepAfterSave(ctx context.Context, keepKey string) {
	if r.dispatch != nil {
		err := r.dispatch.DispatchSweep(ctx, keepKey)
		if err == nil {
			return
		}
		logger.Warnf(ctx, "could not dispatch metadata sweep, running it inline: %v", err)
	}
	if _, err := r.SweepStale(ctx, keepKey); err != nil {
		logger.Warnf(ctx, "metadata sweep failed: %v", err)
	}
}

// SweepStale deletes every metadata object ordering before keepKey. Objects written
// after keepKey are left alone. Individual deletion failures are logged and skipped.
func (r *MediaRepository) SweepStale(ctx context.Context, keepKey string) (int, error) {
	objs, err := r.listMetadataObjects(ctx)
	if err != nil {
		return 0, fmt.Errorf("list metadata objects: %w", err)
	}
	var keep *port.ObjectInfo
	for i := range objs {
		if objs[i].Key == keepKey {
			keep = &objs[i]
			break
		}
	}
	if keep == nil {
		return 0, fmt.Errorf("metadata object %q not found, refusing to sweep", keepKey)
	}

	removed := 0
	for _, o := range objs {
		if o.Key == keepKey || newer(o, *keep) {
			continue
		}
		if err := r.strg.RemoveFile(ctx, o.Key); err != nil {
			logger.Warnf(ctx, "could not remove stale metadata object %q: %v", o.Key, err)
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Infof(ctx, "🧹 removed %d stale metadata objects", removed)
	}
	return removed, nil
}

func (r *MediaRepository) AddMedia(ctx context.Context, m model.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.loadMetadata(ctx)
	if err != nil {
		return err
	}
	doc.Medias = append([]model.Media{m}, doc.Medias...)
	_, err = r.save(ctx, doc)
	return err
}

// UpdateMedia merges patch into the media with the given id. It returns nil, nil when
// no media has that id.
func (r *MediaRepository) UpdateMedia(ctx context.Context, id string, patch model.MediaPatch) (*model.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.loadMetadata(ctx)
	if err != nil {
		return nil, err
	}
	i := doc.IndexOf(id)
	if i < 0 {
		return nil, nil
	}
	patch.Apply(&doc.Medias[i])
	updated := doc.Medias[i]
	if _, err := r.save(ctx, doc); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMedia removes the media record and, best effort, its backing object.
// It returns false when no media has that id.
func (r *MediaRepository) DeleteMedia(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.loadMetadata(ctx)
	if err != nil {
		return false, err
	}
	i := doc.IndexOf(id)
	if i < 0 {
		return false, nil
	}
	m := doc.Medias[i]
	if m.Pathname != "" {
		if err := r.strg.RemoveFile(ctx, m.Pathname); err != nil {
			logger.Warnf(ctx, "could not remove file %q of media #%s: %v", m.Pathname, id, err)
		}
	}
	doc.Medias = append(doc.Medias[:i:i], doc.Medias[i+1:]...)
	if _, err := r.save(ctx, doc); err != nil {
		return false, err
	}
	return true, nil
}

// GetAllMedias returns every media sorted by date, most recent first.
func (r *MediaRepository) GetAllMedias(ctx context.Context) []model.Media {
	medias := r.GetMetadata(ctx).Medias
	sortByDateDesc(medias)
	return medias
}

func (r *MediaRepository) GetMediasByCategory(ctx context.Context, category model.Category) []model.Media {
	out := []model.Media{}
	for _, m := range r.GetAllMedias(ctx) {
		if m.Category == category {
			out = append(out, m)
		}
	}
	return out
}

func sortByDateDesc(medias []model.Media) {
	sort.SliceStable(medias, func(i, j int) bool {
		return medias[i].Date > medias[j].Date
	})
}

// Reset removes every metadata object, legacy one included, and writes an empty document.
func (r *MediaRepository) Reset(ctx context.Context) (model.MetadataDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	objs, err := r.listMetadataObjects(ctx)
	if err != nil {
		return model.MetadataDocument{}, fmt.Errorf("list metadata objects: %w", err)
	}
	for _, o := range objs {
		if err := r.strg.RemoveFile(ctx, o.Key); err != nil {
			logger.Warnf(ctx, "could not remove metadata object %q: %v", o.Key, err)
		}
	}
	logger.Infof(ctx, "🗑️  metadata reset, %d objects removed", len(objs))
	return r.save(ctx, r.emptyDocument())
}
