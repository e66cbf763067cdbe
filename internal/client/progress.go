package client

import (
	"context"
	"io"
	"sync/atomic"
	"time"
)

// ProgressFunc receives the number of bytes sent so far out of total.
type ProgressFunc func(sent, total int64)

// countingReader reports every read to a ProgressFunc.
type countingReader struct {
	r        io.Reader
	total    int64
	sent     atomic.Int64
	progress ProgressFunc
}

func newCountingReader(r io.Reader, total int64, progress ProgressFunc) *countingReader {
	return &countingReader{r: r, total: total, progress: progress}
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		sent := c.sent.Add(int64(n))
		if c.progress != nil {
			c.progress(sent, c.total)
		}
	}
	return n, err
}

const (
	simulatedStep     = 500 * time.Millisecond
	simulatedFraction = 0.05
	simulatedCeiling  = 0.9
)

// simulateProgress advances a progress bar on a timer while a request whose body
// cannot be observed is in flight. The returned func stops it and reports completion.
func simulateProgress(ctx context.Context, total int64, progress ProgressFunc) func(ok bool) {
	if progress == nil {
		return func(bool) {}
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	progress(0, total)

	go func() {
		defer close(done)
		ticker := time.NewTicker(simulatedStep)
		defer ticker.Stop()
		step := int64(float64(total) * simulatedFraction)
		ceiling := int64(float64(total) * simulatedCeiling)
		var sent int64
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if sent+step > ceiling {
					continue
				}
				sent += step
				progress(sent, total)
			}
		}
	}()

	return func(ok bool) {
		cancel()
		<-done
		if ok {
			progress(total, total)
		}
	}
}
