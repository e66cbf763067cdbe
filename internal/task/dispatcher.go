package task

import (
	"context"
	"errors"

	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/hibiken/asynq"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

type Dispatcher struct {
	client enqueuer
}

// compile-time check
var _ port.SweepDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c}
}

func (d *Dispatcher) DispatchSweep(ctx context.Context, keepKey string) error {
	t, err := NewSweepMetadataTask(keepKey)
	if err != nil {
		return err
	}
	if _, err := d.client.EnqueueContext(ctx, t); err != nil {
		// a sweep for this key is already queued
		if errors.Is(err, asynq.ErrDuplicateTask) {
			return nil
		}
		return err
	}
	return nil
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}
