package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/im7mortal/kmutex"
	"github.com/juju/clock"
	"github.com/juju/retry"

	"github.com/pkordes/travel-planner/internal/domain"
)

// RetryPolicy bounds the compare-and-set loop around every read-modify-write.
type RetryPolicy struct {
	// Attempts includes the first try.
	Attempts int
	// Delay between attempts. Must be positive.
	Delay time.Duration
	// Clock drives both the retry delay and the metadata timestamps.
	Clock clock.Clock
}

// DefaultRetryPolicy is five attempts, 10ms apart, on the wall clock.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 5, Delay: 10 * time.Millisecond, Clock: clock.WallClock}
}

// ConflictRecorder is told about write contention. The metrics layer
// implements it.
type ConflictRecorder interface {
	WriteRetried(kind string)
	WriteConflict(kind string)
}

type nopRecorder struct{}

func (nopRecorder) WriteRetried(string)  {}
func (nopRecorder) WriteConflict(string) {}

// Writer serializes read-modify-write cycles per resource id and retries
// them when the versioned write finds the row has moved on. One Writer is
// shared by every service so that trip updates and snapshot changes contend
// on the same lock.
type Writer struct {
	locks  *kmutex.Kmutex
	policy RetryPolicy
	log    *slog.Logger
	rec    ConflictRecorder
}

// NewWriter builds a Writer. rec may be nil.
func NewWriter(policy RetryPolicy, log *slog.Logger, rec ConflictRecorder) *Writer {
	if policy.Clock == nil {
		policy.Clock = clock.WallClock
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Writer{locks: kmutex.New(), policy: policy, log: log, rec: rec}
}

// Now is the current time on the policy clock.
func (w *Writer) Now() time.Time {
	return w.policy.Clock.Now()
}

// withLock runs fn while holding the lock for id.
func (w *Writer) withLock(id any, fn func() error) error {
	w.locks.Lock(id)
	defer w.locks.Unlock(id)
	return fn()
}

// retry calls fn until it succeeds or fails with anything other than
// domain.ErrStaleWrite. When the attempts run out it returns ErrConflict.
func (w *Writer) retry(ctx context.Context, kind domain.Kind, id any, fn func() error) error {
	err := retry.Call(retry.CallArgs{
		Func: fn,
		IsFatalError: func(err error) bool {
			return !errors.Is(err, domain.ErrStaleWrite)
		},
		NotifyFunc: func(err error, attempt int) {
			w.rec.WriteRetried(kind.String())
			w.log.WarnContext(ctx, "stale write, retrying", "kind", kind, "id", id, "attempt", attempt)
		},
		Attempts: w.policy.Attempts,
		Delay:    w.policy.Delay,
		Clock:    w.policy.Clock,
		Stop:     ctx.Done(),
	})
	switch {
	case err == nil:
		return nil
	case retry.IsAttemptsExceeded(err):
		w.rec.WriteConflict(kind.String())
		return fmt.Errorf("%w: %s %v was modified concurrently", domain.ErrConflict, kind, id)
	case retry.IsRetryStopped(err):
		return ctx.Err()
	}
	return err
}
