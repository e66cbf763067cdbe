package task

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
)

func TestSweepMetadataTask_RoundTrip(t *testing.T) {
	tk, err := NewSweepMetadataTask("medias-metadata-1700000000000.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk.Type() != TypeSweepMetadata {
		t.Errorf("type = %q; want %q", tk.Type(), TypeSweepMetadata)
	}
	p, err := ParseSweepMetadataPayload(tk)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.KeepKey != "medias-metadata-1700000000000.json" {
		t.Errorf("keep key = %q", p.KeepKey)
	}
}

func TestSweepMetadataTask_Invalid(t *testing.T) {
	if _, err := NewSweepMetadataTask(""); err == nil {
		t.Error("expected error for empty keep key")
	}
	for _, payload := range []string{"not json", `{}`} {
		if _, err := ParseSweepMetadataPayload(asynq.NewTask(TypeSweepMetadata, []byte(payload))); err == nil {
			t.Errorf("payload %q: expected error", payload)
		}
	}
}

func TestSweepCurrentTask(t *testing.T) {
	tk := NewSweepCurrentTask()
	if tk.Type() != TypeSweepCurrent {
		t.Errorf("type = %q; want %q", tk.Type(), TypeSweepCurrent)
	}
	if len(tk.Payload()) != 0 {
		t.Errorf("payload = %q; want none", tk.Payload())
	}
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, t *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, t)
	return &asynq.TaskInfo{ID: "1", Type: t.Type()}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

func TestDispatchSweep(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"enqueued", nil, false},
		{"duplicate is not an error", asynq.ErrDuplicateTask, false},
		{"redis down", errors.New("dial tcp: refused"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeEnqueuer{err: tc.err}
			d := &Dispatcher{client: f}
			err := d.DispatchSweep(context.Background(), "medias-metadata-1.json")
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v; wantErr %v", err, tc.wantErr)
			}
			if tc.err == nil && len(f.tasks) != 1 {
				t.Errorf("expected 1 enqueued task, got %d", len(f.tasks))
			}
		})
	}
}
