package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PublicPrefix is the key prefix readable anonymously. Metadata objects live outside of it.
const PublicPrefix = "medias/"

type MinioStorage struct {
	client        minioClient
	bucketName    string
	useSSL        bool
	publicBaseURL string
}

// compile-time check: *MinioStorage must satisfy port.Storage
var _ port.Storage = (*MinioStorage)(nil)

type Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	PublicBaseURL string
}

func NewMinioStorage(opts Options) (*MinioStorage, error) {
	logger.Infof(context.Background(), "initialising minio client for bucket %q...", opts.Bucket)
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return &MinioStorage{
		client:        client,
		bucketName:    opts.Bucket,
		useSSL:        opts.UseSSL,
		publicBaseURL: strings.TrimSuffix(opts.PublicBaseURL, "/"),
	}, nil
}

// InitBucket creates the bucket when missing and opens the uploaded assets to anonymous reads.
func (s *MinioStorage) InitBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return mapMinioErr(err)
	}
	if !ok {
		logger.Infof(ctx, "bucket %q does not exist, creating it...", s.bucketName)
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return mapMinioErr(err)
		}
	}
	if err := s.client.SetBucketPolicy(ctx, s.bucketName, publicReadPolicy(s.bucketName)); err != nil {
		return mapMinioErr(err)
	}
	return nil
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/%s*"]}]}`, bucket, PublicPrefix)
}

func (s *MinioStorage) ListFiles(ctx context.Context, prefix string) ([]port.ObjectInfo, error) {
	logger.Debugf(ctx, "listing files with prefix %q in bucket %q...", prefix, s.bucketName)

	var out []port.ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, mapMinioErr(obj.Err)
		}
		out = append(out, port.ObjectInfo{
			Key:          obj.Key,
			SizeBytes:    obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return out, nil
}

func (s *MinioStorage) FileExists(ctx context.Context, fileKey string) (bool, error) {
	_, err := s.StatFile(ctx, fileKey)
	if errors.Is(err, port.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *MinioStorage) StatFile(ctx context.Context, fileKey string) (port.FileInfo, error) {
	logger.Debugf(ctx, "getting stats on file %q in bucket %q...", fileKey, s.bucketName)

	info, err := s.client.StatObject(ctx, s.bucketName, fileKey, minio.StatObjectOptions{})
	if err != nil {
		return port.FileInfo{}, mapMinioErr(err)
	}
	return port.FileInfo{
		SizeBytes:    info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

func (s *MinioStorage) RemoveFile(ctx context.Context, fileKey string) error {
	logger.Infof(ctx, "removing file %q from bucket %q...", fileKey, s.bucketName)

	err := s.client.RemoveObject(ctx, s.bucketName, fileKey, minio.RemoveObjectOptions{})
	return mapMinioErr(err)
}

// GetFile opens the object for reading, asking any intermediate cache to revalidate.
func (s *MinioStorage) GetFile(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	logger.Debugf(ctx, "getting file %q from bucket %q...", fileKey, s.bucketName)

	opts := minio.GetObjectOptions{}
	opts.Set("Cache-Control", "no-cache")
	obj, err := s.client.GetObject(ctx, s.bucketName, fileKey, opts)
	if err != nil {
		return nil, mapMinioErr(err)
	}
	// GetObject is lazy, Stat surfaces a missing key now rather than on first Read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, mapMinioErr(err)
	}
	return obj, nil
}

func (s *MinioStorage) SaveFile(ctx context.Context, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error {
	logger.Infof(ctx, "saving file %q into bucket %q...", fileKey, s.bucketName)

	putOpts := minio.PutObjectOptions{}
	if ct := opts["Content-Type"]; ct != "" {
		putOpts.ContentType = ct
	}
	if cc := opts["Cache-Control"]; cc != "" {
		putOpts.CacheControl = cc
	}

	_, err := s.client.PutObject(ctx, s.bucketName, fileKey, reader, fileSize, putOpts)
	if err != nil {
		return mapMinioErr(err)
	}
	return nil
}

// PublicURL returns the anonymous URL of a key, under the configured public base URL when set.
func (s *MinioStorage) PublicURL(fileKey string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + fileKey
	}
	endpoint := s.client.EndpointURL()
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, endpoint.Host, s.bucketName, fileKey)
}

// GenerateUploadPolicy presigns a form upload restricted to exactly fileKey and contentType,
// with a body between 1 byte and maxSize.
func (s *MinioStorage) GenerateUploadPolicy(ctx context.Context, fileKey, contentType string, maxSize int64, expiry time.Duration) (port.UploadPolicy, error) {
	logger.Infof(ctx, "generating an upload policy for file %q in bucket %q...", fileKey, s.bucketName)

	expiresAt := time.Now().UTC().Add(expiry)
	policy := minio.NewPostPolicy()
	if err := policy.SetBucket(s.bucketName); err != nil {
		return port.UploadPolicy{}, err
	}
	if err := policy.SetKey(fileKey); err != nil {
		return port.UploadPolicy{}, err
	}
	if err := policy.SetExpires(expiresAt); err != nil {
		return port.UploadPolicy{}, err
	}
	if err := policy.SetContentType(contentType); err != nil {
		return port.UploadPolicy{}, err
	}
	if err := policy.SetContentLengthRange(1, maxSize); err != nil {
		return port.UploadPolicy{}, err
	}

	u, formData, err := s.client.PresignedPostPolicy(ctx, policy)
	if err != nil {
		return port.UploadPolicy{}, mapMinioErr(err)
	}
	return port.UploadPolicy{
		URL:       u.String(),
		FormData:  formData,
		ExpiresAt: expiresAt,
	}, nil
}
