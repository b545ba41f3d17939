package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"clicksafe/internal/models"
)

// Sink receives completed checks.
type Sink interface {
	Publish(ctx context.Context, c models.Check) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, c models.Check) error

// Publish implements Sink.
func (f SinkFunc) Publish(ctx context.Context, c models.Check) error { return f(ctx, c) }

// Recorder hands checks to every sink in the background so a slow database
// or broker never delays a response.
type Recorder struct {
	sinks   []Sink
	timeout time.Duration
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// NewRecorder creates a recorder; nil sinks are ignored.
func NewRecorder(timeout time.Duration, sinks ...Sink) *Recorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	r := &Recorder{timeout: timeout, logger: slog.Default().With("component", "check-recorder")}
	for _, s := range sinks {
		if s != nil {
			r.sinks = append(r.sinks, s)
		}
	}
	return r
}

// Record dispatches c asynchronously. Safe on a nil Recorder.
func (r *Recorder) Record(c models.Check) {
	if r == nil || len(r.sinks) == 0 {
		return
	}
	for _, s := range r.sinks {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
			defer cancel()
			if err := s.Publish(ctx, c); err != nil {
				r.logger.Error("failed to record check", "detector", c.Detector, "id", c.ID, "error", err)
			}
		}()
	}
}

// Wait blocks until every in-flight Record has finished.
func (r *Recorder) Wait() {
	if r != nil {
		r.wg.Wait()
	}
}
