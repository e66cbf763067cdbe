package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeSweepMetadata = "metadata:sweep"
	TypeSweepCurrent  = "metadata:sweep-current"
	QueueMaintenance  = "maintenance"
)

// NewSweepCurrentTask creates the periodic catch-up sweep. It has no payload: the worker
// keeps whatever object is current when the task runs.
func NewSweepCurrentTask() *asynq.Task {
	return asynq.NewTask(TypeSweepCurrent, nil,
		asynq.Queue(QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
	)
}

// SweepMetadataPayload names the metadata object that must survive the sweep.
type SweepMetadataPayload struct {
	KeepKey string `json:"keep_key"`
}

// NewSweepMetadataTask creates an Asynq task removing the metadata objects older than keepKey.
// Sweeps for the same key are deduplicated for a minute.
func NewSweepMetadataTask(keepKey string) (*asynq.Task, error) {
	if keepKey == "" {
		return nil, fmt.Errorf("sweep-metadata task needs a keep key")
	}
	data, err := json.Marshal(SweepMetadataPayload{KeepKey: keepKey})
	if err != nil {
		return nil, fmt.Errorf("could not marshal sweep-metadata payload: %w", err)
	}
	return asynq.NewTask(TypeSweepMetadata, data,
		asynq.Queue(QueueMaintenance),
		asynq.MaxRetry(3),
		asynq.Unique(time.Minute),
	), nil
}

// ParseSweepMetadataPayload parses the task payload to SweepMetadataPayload.
func ParseSweepMetadataPayload(t *asynq.Task) (SweepMetadataPayload, error) {
	var p SweepMetadataPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return SweepMetadataPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	if p.KeepKey == "" {
		return SweepMetadataPayload{}, fmt.Errorf("payload has no keep_key")
	}
	return p, nil
}
