package port

import (
	"context"
	"errors"
)

// ErrNoMetadata is returned when the store holds no metadata object at all.
var ErrNoMetadata = errors.New("no metadata object stored")

// SweepDispatcher hands the removal of metadata objects superseded by keepKey
// to a background worker.
type SweepDispatcher interface {
	DispatchSweep(ctx context.Context, keepKey string) error
}

// MetadataSweeper removes metadata objects that order before keepKey.
type MetadataSweeper interface {
	SweepStale(ctx context.Context, keepKey string) (int, error)
}

// CurrentSweeper can also resolve the object holding the current document.
type CurrentSweeper interface {
	MetadataSweeper
	CurrentKey(ctx context.Context) (string, error)
}
