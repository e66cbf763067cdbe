package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/minio/minio-go/v7"
)

// mapMinioErr folds S3 error codes into the port sentinels. Context errors pass through
// untouched so callers can tell a cancelled request from a store failure.
func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchObject", "XMinioInvalidObjectName":
		return port.ErrObjectNotFound
	case "NoSuchBucket", "XMinioInvalidBucketName":
		return port.ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
		return port.ErrUnauthorized
	}
	// HEAD requests carry no body, so StatObject misses only show up as a status
	if resp.StatusCode == 404 && resp.Code == "" {
		return port.ErrObjectNotFound
	}
	return fmt.Errorf("%w: %v", port.ErrInternal, err)
}
