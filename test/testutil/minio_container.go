package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/storage"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	MinioRootUser     = "minioadmin"
	MinioRootPassword = "minioadmin"
)

type MinIOContainerInfo struct {
	Endpoint string
	// Raw is an unwrapped client, handy to inspect the bucket behind the storage layer.
	Raw     *minio.Client
	Cleanup func()
}

func StartMinIOContainer() (*MinIOContainerInfo, error) {
	const (
		image        = "minio/minio"
		tag          = "latest"
		internalPort = "9000/tcp"
	)

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: image,
		Tag:        tag,
		Env: []string{
			fmt.Sprintf("MINIO_ROOT_USER=%s", MinioRootUser),
			fmt.Sprintf("MINIO_ROOT_PASSWORD=%s", MinioRootPassword),
		},
		Cmd: []string{"server", "/data"},
	}, func(hostConfig *docker.HostConfig) {
		hostConfig.AutoRemove = true
		hostConfig.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start minio container: %w", err)
	}

	var (
		endpoint string
		client   *minio.Client
	)
	if err := pool.Retry(func() error {
		endpoint = fmt.Sprintf("localhost:%s", resource.GetPort(internalPort))
		c, err := minio.New(endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(MinioRootUser, MinioRootPassword, ""),
			Secure: false,
		})
		if err != nil {
			return err
		}
		// ListBuckets is a light operation to check health
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := c.ListBuckets(ctx); err != nil {
			return err
		}
		client = c
		return nil
	}); err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("minio did not become ready: %w", err)
	}

	return &MinIOContainerInfo{
		Endpoint: endpoint,
		Raw:      client,
		Cleanup: func() {
			if err := pool.Purge(resource); err != nil {
				logger.Warnf(context.Background(), "could not purge minio container: %s", err)
			}
		},
	}, nil
}

// NewBucket returns a storage bound to a fresh, initialised bucket and a function emptying
// and dropping it.
func (ci *MinIOContainerInfo) NewBucket(ctx context.Context, name string) (*storage.MinioStorage, func() error, error) {
	strg, err := storage.NewMinioStorage(storage.Options{
		Endpoint:  ci.Endpoint,
		AccessKey: MinioRootUser,
		SecretKey: MinioRootPassword,
		Bucket:    name,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not create minio storage: %w", err)
	}
	if err := strg.InitBucket(ctx); err != nil {
		return nil, nil, fmt.Errorf("could not init bucket %q: %w", name, err)
	}

	cleanup := func() error {
		for obj := range ci.Raw.ListObjects(ctx, name, minio.ListObjectsOptions{Recursive: true}) {
			if obj.Err != nil {
				continue
			}
			_ = ci.Raw.RemoveObject(ctx, name, obj.Key, minio.RemoveObjectOptions{})
		}
		if err := ci.Raw.RemoveBucket(ctx, name); err != nil {
			return fmt.Errorf("could not remove bucket %q: %w", name, err)
		}
		return nil
	}
	return strg, cleanup, nil
}
