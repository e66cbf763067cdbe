package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fhuszti/athlete-portfolio-go/internal/config"
	workerHandler "github.com/fhuszti/athlete-portfolio-go/internal/handler/worker"
	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/repository/blob"
	"github.com/fhuszti/athlete-portfolio-go/internal/storage"
	"github.com/fhuszti/athlete-portfolio-go/internal/task"
	"github.com/hibiken/asynq"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init("worker")

	strg, err := storage.NewMinioStorage(storage.Options{
		Endpoint:      cfg.MinioEndpoint,
		AccessKey:     cfg.MinioAccessKey,
		SecretKey:     cfg.MinioSecretKey,
		UseSSL:        cfg.MinioUseSSL,
		Bucket:        cfg.MinioBucket,
		PublicBaseURL: cfg.PublicBaseURL,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}

	// sweeps run inline here, a worker never re-dispatches
	repo := blob.NewMediaRepository(strg)

	mux := asynq.NewServeMux()
	mux.Handle(task.TypeSweepMetadata, workerHandler.NewSweepMetadataTaskHandler(repo))
	mux.Handle(task.TypeSweepCurrent, workerHandler.NewSweepCurrentTaskHandler(repo))

	runWorker(ctx, mux, cfg)
}

// startScheduler enqueues the catch-up sweep on cfg.SweepSchedule. It returns nil when
// the schedule is disabled.
func startScheduler(ctx context.Context, redisOpt asynq.RedisClientOpt, cfg *config.Settings) *asynq.Scheduler {
	if cfg.SweepSchedule == "" {
		logger.Info(ctx, "catch-up metadata sweep disabled")
		return nil
	}
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				logger.Warnf(context.Background(), "could not enqueue the catch-up sweep: %v", err)
			}
		},
	})
	if _, err := scheduler.Register(cfg.SweepSchedule, task.NewSweepCurrentTask()); err != nil {
		logger.Errorf(ctx, "❌  Invalid METADATA_SWEEP_SCHEDULE %q: %v", cfg.SweepSchedule, err)
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		logger.Errorf(ctx, "❌  Scheduler failed to start: %v", err)
		os.Exit(1)
	}
	logger.Infof(ctx, "⏰ Catch-up metadata sweep scheduled %s", cfg.SweepSchedule)
	return scheduler
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	srv := asynq.NewServer(redisOpt, asynq.Config{
		// one sweep at a time, they all touch the same objects
		Concurrency: 1,
		Queues:      map[string]int{task.QueueMaintenance: 1},
	})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "🚀 Worker started")
	scheduler := startScheduler(ctx, redisOpt, cfg)

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	if scheduler != nil {
		scheduler.Shutdown()
	}
	// stop accepting new tasks, finish in-flight ones
	srv.Shutdown()
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
