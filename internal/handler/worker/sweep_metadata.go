package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/task"
	"github.com/hibiken/asynq"
)

// SweepMetadataHandler handles a sweep-metadata task.
// It removes every metadata object older than the one named in the payload.
func SweepMetadataHandler(ctx context.Context, p task.SweepMetadataPayload, svc port.MetadataSweeper) error {
	removed, err := svc.SweepStale(ctx, p.KeepKey)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to sweep metadata older than %q: %v", p.KeepKey, err)
		return err
	}

	logger.Infof(ctx, "✅  Swept %d stale metadata objects, kept %q", removed, p.KeepKey)
	return nil
}

// SweepCurrentHandler sweeps everything older than the current metadata object.
// An empty store is not an error.
func SweepCurrentHandler(ctx context.Context, svc port.CurrentSweeper) error {
	key, err := svc.CurrentKey(ctx)
	if errors.Is(err, port.ErrNoMetadata) {
		logger.Info(ctx, "no metadata stored yet, nothing to sweep")
		return nil
	}
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to find the current metadata object: %v", err)
		return err
	}
	return SweepMetadataHandler(ctx, task.SweepMetadataPayload{KeepKey: key}, svc)
}

// NewSweepCurrentTaskHandler adapts SweepCurrentHandler to an asynq handler.
func NewSweepCurrentTaskHandler(svc port.CurrentSweeper) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		return SweepCurrentHandler(ctx, svc)
	}
}

// NewSweepMetadataTaskHandler adapts SweepMetadataHandler to an asynq handler.
// A malformed payload is never retried.
func NewSweepMetadataTaskHandler(svc port.MetadataSweeper) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseSweepMetadataPayload(t)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return SweepMetadataHandler(ctx, p, svc)
	}
}
