package testutil

import (
	"context"

	workerHandler "github.com/fhuszti/athlete-portfolio-go/internal/handler/worker"
	"github.com/fhuszti/athlete-portfolio-go/internal/logger"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/task"
	"github.com/hibiken/asynq"
)

// StartWorker starts an asynq worker processing both kinds of metadata sweep.
// It returns a function to gracefully shut down the worker.
func StartWorker(sweeper port.CurrentSweeper, redisOpt asynq.RedisClientOpt) func() {
	mux := asynq.NewServeMux()
	mux.Handle(task.TypeSweepMetadata, workerHandler.NewSweepMetadataTaskHandler(sweeper))
	mux.Handle(task.TypeSweepCurrent, workerHandler.NewSweepCurrentTaskHandler(sweeper))

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{task.QueueMaintenance: 1},
	})
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "worker stopped: %v", err)
		}
	}()

	return func() {
		srv.Shutdown()
	}
}
