package port

import (
	"context"
	"errors"
	"io"
	"time"
)

// FileInfo represents metadata about a stored file.
type FileInfo struct {
	SizeBytes    int64
	ContentType  string
	LastModified time.Time
}

// ObjectInfo is one entry of a prefix listing.
type ObjectInfo struct {
	Key          string
	SizeBytes    int64
	LastModified time.Time
}

// UploadPolicy is a presigned form upload scoped to one key, one content type and a size range.
type UploadPolicy struct {
	URL       string            `json:"url"`
	FormData  map[string]string `json:"formData"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// Storage defines blob object store operations.
type Storage interface {
	InitBucket(ctx context.Context) error
	ListFiles(ctx context.Context, prefix string) ([]ObjectInfo, error)
	FileExists(ctx context.Context, fileKey string) (bool, error)
	StatFile(ctx context.Context, fileKey string) (FileInfo, error)
	GetFile(ctx context.Context, fileKey string) (io.ReadCloser, error)
	SaveFile(ctx context.Context, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error
	RemoveFile(ctx context.Context, fileKey string) error
	PublicURL(fileKey string) string
	GenerateUploadPolicy(ctx context.Context, fileKey, contentType string, maxSize int64, expiry time.Duration) (UploadPolicy, error)
}

var (
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrInternal       = errors.New("storage: internal error")
)
