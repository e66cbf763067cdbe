package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/fhuszti/athlete-portfolio-go/internal/mock"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/task"
	"github.com/hibiken/asynq"
)

const keepKey = "medias-metadata-1700000000000.json"

func TestSweepMetadataHandler_ServiceError(t *testing.T) {
	svcErr := errors.New("svc fail")
	svc := &mock.MockSweeper{Err: svcErr}

	err := SweepMetadataHandler(context.Background(), task.SweepMetadataPayload{KeepKey: keepKey}, svc)
	if !errors.Is(err, svcErr) {
		t.Fatalf("got error %v; want %v", err, svcErr)
	}
	if !svc.Called {
		t.Error("service not called")
	}
}

func TestSweepMetadataHandler_Success(t *testing.T) {
	svc := &mock.MockSweeper{Removed: 2}

	err := SweepMetadataHandler(context.Background(), task.SweepMetadataPayload{KeepKey: keepKey}, svc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.KeepKey != keepKey {
		t.Errorf("service got keep key %q; want %q", svc.KeepKey, keepKey)
	}
}

func TestSweepMetadataTaskHandler_InvalidPayload(t *testing.T) {
	svc := &mock.MockSweeper{}
	h := NewSweepMetadataTaskHandler(svc)

	err := h.ProcessTask(context.Background(), asynq.NewTask(task.TypeSweepMetadata, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
	if svc.Called {
		t.Error("service should not be called on invalid payload")
	}
}

func TestSweepMetadataTaskHandler_Success(t *testing.T) {
	svc := &mock.MockSweeper{}
	h := NewSweepMetadataTaskHandler(svc)

	tk, err := task.NewSweepMetadataTask(keepKey)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := h.ProcessTask(context.Background(), tk); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.KeepKey != keepKey {
		t.Errorf("service got keep key %q; want %q", svc.KeepKey, keepKey)
	}
}

func TestSweepCurrentHandler(t *testing.T) {
	lookupErr := errors.New("list failed")
	tests := []struct {
		name       string
		svc        *mock.MockSweeper
		wantErr    error
		wantCalled bool
	}{
		{"empty store", &mock.MockSweeper{CurrentErr: port.ErrNoMetadata}, nil, false},
		{"lookup failure", &mock.MockSweeper{CurrentErr: lookupErr}, lookupErr, false},
		{"sweeps behind the current object", &mock.MockSweeper{Current: keepKey, Removed: 1}, nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := NewSweepCurrentTaskHandler(tc.svc).ProcessTask(context.Background(), task.NewSweepCurrentTask())
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got error %v; want %v", err, tc.wantErr)
			}
			if tc.svc.Called != tc.wantCalled {
				t.Errorf("sweep called = %t; want %t", tc.svc.Called, tc.wantCalled)
			}
			if tc.wantCalled && tc.svc.KeepKey != keepKey {
				t.Errorf("kept %q; want %q", tc.svc.KeepKey, keepKey)
			}
		})
	}
}
