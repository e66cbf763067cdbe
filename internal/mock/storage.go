package mock

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/port"
)

// Object is one blob held by Storage.
type Object struct {
	Data         []byte
	ContentType  string
	LastModified time.Time
}

// Storage is an in-memory port.Storage. Each write is stamped by a clock that
// advances one second per save, so the newest object is always unambiguous.
type Storage struct {
	mu      sync.Mutex
	Objects map[string]*Object
	Clock   time.Time

	// errors
	InitBucketErr error
	ListErr       error
	StatErr       error
	GetErr        error
	SaveErr       error
	RemoveErr     error
	PolicyErr     error
	// RemoveErrFor fails RemoveFile for specific keys only.
	RemoveErrFor map[string]error

	// captured inputs
	Saved             []string
	Removed           []string
	PolicyKey         string
	PolicyContentType string
	PolicyMaxSize     int64
	PolicyExpiry      time.Duration

	// call flags
	InitBucketCalled bool
	GetCalled        bool
	SaveCalled       bool
	RemoveCalled     bool
	StatCalled       bool
	PolicyCalled     bool
}

var _ port.Storage = (*Storage)(nil)

func NewStorage() *Storage {
	return &Storage{
		Objects: map[string]*Object{},
		Clock:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Put seeds an object with an explicit modification time.
func (m *Storage) Put(key string, data []byte, contentType string, modified time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Objects == nil {
		m.Objects = map[string]*Object{}
	}
	m.Objects[key] = &Object{Data: data, ContentType: contentType, LastModified: modified}
}

// Keys returns every stored key with the given prefix, sorted.
func (m *Storage) Keys(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.Objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (m *Storage) InitBucket(ctx context.Context) error {
	m.InitBucketCalled = true
	return m.InitBucketErr
}

func (m *Storage) ListFiles(ctx context.Context, prefix string) ([]port.ObjectInfo, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []port.ObjectInfo
	for k, o := range m.Objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, port.ObjectInfo{Key: k, SizeBytes: int64(len(o.Data)), LastModified: o.LastModified})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *Storage) FileExists(ctx context.Context, fileKey string) (bool, error) {
	if m.StatErr != nil {
		return false, m.StatErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[fileKey]
	return ok, nil
}

func (m *Storage) StatFile(ctx context.Context, fileKey string) (port.FileInfo, error) {
	m.StatCalled = true
	if m.StatErr != nil {
		return port.FileInfo{}, m.StatErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.Objects[fileKey]
	if !ok {
		return port.FileInfo{}, port.ErrObjectNotFound
	}
	return port.FileInfo{SizeBytes: int64(len(o.Data)), ContentType: o.ContentType, LastModified: o.LastModified}, nil
}

func (m *Storage) GetFile(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.Objects[fileKey]
	if !ok {
		return nil, port.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(o.Data)), nil
}

func (m *Storage) SaveFile(ctx context.Context, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error {
	m.SaveCalled = true
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Objects == nil {
		m.Objects = map[string]*Object{}
	}
	m.Clock = m.Clock.Add(time.Second)
	m.Objects[fileKey] = &Object{Data: data, ContentType: opts["Content-Type"], LastModified: m.Clock}
	m.Saved = append(m.Saved, fileKey)
	return nil
}

func (m *Storage) RemoveFile(ctx context.Context, fileKey string) error {
	m.RemoveCalled = true
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	if err := m.RemoveErrFor[fileKey]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, fileKey)
	m.Removed = append(m.Removed, fileKey)
	return nil
}

func (m *Storage) PublicURL(fileKey string) string {
	return "https://cdn.example.com/" + fileKey
}

func (m *Storage) GenerateUploadPolicy(ctx context.Context, fileKey, contentType string, maxSize int64, expiry time.Duration) (port.UploadPolicy, error) {
	m.PolicyCalled = true
	m.PolicyKey = fileKey
	m.PolicyContentType = contentType
	m.PolicyMaxSize = maxSize
	m.PolicyExpiry = expiry
	if m.PolicyErr != nil {
		return port.UploadPolicy{}, m.PolicyErr
	}
	return port.UploadPolicy{
		URL:       "https://store.example.com/portfolio",
		FormData:  map[string]string{"key": fileKey, "Content-Type": contentType},
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}
