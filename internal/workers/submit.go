package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/aatumaykin/taskpool/internal/logger"
	"github.com/google/uuid"
)

// Submit queues fn for execution and returns a handle to its result.
// It never blocks: if the pool is not running or the queue is full the
// returned handle is invalid.
func Submit[T any](p *Executor, fn func() (T, error)) *Handle[T] {
	if fn == nil {
		return submit[T](context.Background(), p, nil)
	}
	return submit(context.Background(), p, func(context.Context) (T, error) {
		return fn()
	})
}

// SubmitFunc binds arg to fn and submits the call.
func SubmitFunc[A, R any](p *Executor, fn func(A) R, arg A) *Handle[R] {
	if fn == nil {
		return submit[R](context.Background(), p, nil)
	}
	return submit(context.Background(), p, func(context.Context) (R, error) {
		return fn(arg), nil
	})
}

// SubmitCtx submits fn with ctx. If ctx is already done when a worker picks
// the task up, fn is skipped and the handle resolves with ctx.Err().
func SubmitCtx[T any](ctx context.Context, p *Executor, fn func(context.Context) (T, error)) *Handle[T] {
	return submit(ctx, p, fn)
}

func submit[T any](ctx context.Context, p *Executor, fn func(context.Context) (T, error)) *Handle[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	id := uuid.NewString()
	if fn == nil {
		return rejectedHandle[T](id, p.reject(ctx, &task{id: id}, ErrNilTask))
	}

	pr := newPromise[T]()
	t := &task{
		id:     id,
		queued: time.Now(),
		run: func() error {
			return execute(ctx, pr, fn)
		},
		abandon: func() {
			var zero T
			pr.resolve(zero, ErrTaskAbandoned)
		},
	}

	if err := p.enqueue(ctx, t); err != nil {
		return rejectedHandle[T](id, err)
	}
	return &Handle[T]{id: id, p: pr}
}

// execute runs fn and resolves pr with its outcome. A panic in fn is
// converted into an ErrTaskPanicked error.
func execute[T any](ctx context.Context, pr *promise[T], fn func(context.Context) (T, error)) (err error) {
	var value T
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
		pr.resolve(value, err)
	}()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	value, err = fn(ctx)
	return err
}

// enqueue admits t into the queue or reports why it cannot.
func (p *Executor) enqueue(ctx context.Context, t *task) error {
	if p.State() != StateRunning {
		return p.reject(ctx, t, ErrPoolNotRunning)
	}

	p.mu.Lock()
	// Stop may have flipped the state since the unlocked check.
	if p.State() != StateRunning {
		p.mu.Unlock()
		return p.reject(ctx, t, ErrPoolNotRunning)
	}
	if p.free == 0 {
		p.mu.Unlock()
		return p.reject(ctx, t, ErrQueueFull)
	}

	p.queue.Add(t)
	p.free--
	length := p.queue.Length()
	p.cond.Signal()
	p.mu.Unlock()

	p.incrementSubmitted()
	p.observeQueueLength(length)

	p.logger.DebugCtx(ctx, "task submitted",
		logger.Field{Key: "task_id", Value: t.id},
		logger.Field{Key: "queue_length", Value: length})
	return nil
}

func (p *Executor) reject(ctx context.Context, t *task, reason error) error {
	p.incrementRejected(reason)

	p.logger.DebugCtx(ctx, "task rejected",
		logger.Field{Key: "task_id", Value: t.id},
		logger.Field{Key: "reason", Value: reason.Error()})
	return reason
}
