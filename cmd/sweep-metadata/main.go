package main

import (
	"context"
	"errors"
	"log"

	"github.com/fhuszti/athlete-portfolio-go/internal/config"
	"github.com/fhuszti/athlete-portfolio-go/internal/repository/blob"
	"github.com/fhuszti/athlete-portfolio-go/internal/storage"
	"github.com/fhuszti/athlete-portfolio-go/internal/task"
)

// Removes every metadata object older than the current one. Queued on the worker when
// Redis is configured, run inline otherwise.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌  Configuration error: %v", err)
	}

	strg, err := storage.NewMinioStorage(storage.Options{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		UseSSL:    cfg.MinioUseSSL,
		Bucket:    cfg.MinioBucket,
	})
	if err != nil {
		log.Fatalf("❌  Failed to initialize MinIO client: %v", err)
	}
	repo := blob.NewMediaRepository(strg)

	key, err := repo.CurrentKey(ctx)
	if errors.Is(err, blob.ErrNoMetadata) {
		log.Println("✅  No metadata stored, nothing to sweep")
		return
	}
	if err != nil {
		log.Fatalf("❌  Could not find the current metadata object: %v", err)
	}

	if cfg.RedisAddr != "" {
		dispatcher := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		defer func() {
			if err := dispatcher.Close(); err != nil {
				log.Printf("dispatcher close error: %v", err)
			}
		}()
		if err := dispatcher.DispatchSweep(ctx, key); err != nil {
			log.Fatalf("❌  Could not queue the sweep: %v", err)
		}
		log.Printf("✅  Sweep keeping %q queued", key)
		return
	}

	removed, err := repo.SweepStale(ctx, key)
	if err != nil {
		log.Fatalf("❌  Sweep failed: %v", err)
	}
	log.Printf("✅  Removed %d stale metadata objects, kept %q", removed, key)
}
