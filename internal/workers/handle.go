package workers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// promise is the write-once producer side of a Handle.
type promise[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func newPromise[T any]() *promise[T] {
	return &promise[T]{done: make(chan struct{})}
}

// resolve stores the outcome. Only the first call has any effect.
func (p *promise[T]) resolve(value T, err error) bool {
	resolved := false
	p.once.Do(func() {
		p.value = value
		p.err = err
		close(p.done)
		resolved = true
	})
	return resolved
}

var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Handle is the single-consumer result of a submitted task.
//
// A Handle returned for a rejected submission is invalid: Valid reports false
// and Err returns the rejection reason. Get may be called once on a valid
// Handle; it blocks until the task finishes.
type Handle[T any] struct {
	id       string
	p        *promise[T]
	rejected error
	consumed atomic.Bool
}

func rejectedHandle[T any](id string, reason error) *Handle[T] {
	return &Handle[T]{id: id, rejected: reason}
}

// Valid reports whether the handle is bound to an accepted task.
func (h *Handle[T]) Valid() bool {
	return h != nil && h.p != nil
}

// ID returns the task identifier used in logs. Rejected submissions get one too.
func (h *Handle[T]) ID() string {
	if h == nil {
		return ""
	}
	return h.id
}

// Err returns why the submission was rejected, or nil for a valid handle.
func (h *Handle[T]) Err() error {
	if h == nil {
		return ErrInvalidHandle
	}
	return h.rejected
}

// Done returns a channel closed once the result is available.
// For an invalid handle the channel is already closed.
func (h *Handle[T]) Done() <-chan struct{} {
	if !h.Valid() {
		return closedCh
	}
	return h.p.done
}

// Ready reports whether Get would return without blocking.
func (h *Handle[T]) Ready() bool {
	select {
	case <-h.Done():
		return true
	default:
		return false
	}
}

// Get blocks until the task finishes and returns its value or error.
func (h *Handle[T]) Get() (T, error) {
	return h.Wait(context.Background())
}

// Wait is Get bounded by ctx. A wait interrupted by ctx does not consume the
// handle, so it can be waited on again.
func (h *Handle[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	if !h.Valid() {
		if reason := h.Err(); reason != nil && reason != ErrInvalidHandle {
			return zero, fmt.Errorf("%w: %w", ErrInvalidHandle, reason)
		}
		return zero, ErrInvalidHandle
	}
	if !h.consumed.CompareAndSwap(false, true) {
		return zero, ErrHandleConsumed
	}

	select {
	case <-h.p.done:
		return h.p.value, h.p.err
	case <-ctx.Done():
		h.consumed.Store(false)
		return zero, ctx.Err()
	}
}
