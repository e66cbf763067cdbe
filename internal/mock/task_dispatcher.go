package mock

import (
	"context"
)

// MockDispatcher implements port.SweepDispatcher for tests.
type MockDispatcher struct {
	SweepCalled bool
	SweepKeys   []string
	SweepErr    error
}

func (m *MockDispatcher) DispatchSweep(ctx context.Context, keepKey string) error {
	m.SweepCalled = true
	m.SweepKeys = append(m.SweepKeys, keepKey)
	return m.SweepErr
}

// MockSweeper implements port.CurrentSweeper for tests.
type MockSweeper struct {
	Called  bool
	KeepKey string
	Removed int
	Err     error

	Current    string
	CurrentErr error
}

func (m *MockSweeper) CurrentKey(ctx context.Context) (string, error) {
	return m.Current, m.CurrentErr
}

func (m *MockSweeper) SweepStale(ctx context.Context, keepKey string) (int, error) {
	m.Called = true
	m.KeepKey = keepKey
	return m.Removed, m.Err
}
