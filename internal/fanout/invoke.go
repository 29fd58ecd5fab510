package fanout

import (
	"context"

	"github.com/aatumaykin/taskpool/internal/logger"
	"github.com/aatumaykin/taskpool/internal/workers"
)

// ParallelInvoke runs fn on every input through the manager's executor and
// returns the results in input order.
//
// Submissions rejected by admission control are skipped without error, as
// are tasks that resolve with an error (a panic, or cancellation on
// shutdown). The result is therefore a subsequence of fn applied to inputs;
// compare lengths to detect drops, or use Invoke for per-input outcomes.
func ParallelInvoke[T, R any](m *Manager, inputs []T, fn func(T) R) []R {
	handles := make([]*workers.Handle[R], 0, len(inputs))
	for _, in := range inputs {
		handles = append(handles, workers.SubmitFunc(m.pool, fn, in))
	}

	results := make([]R, 0, len(inputs))
	for i, h := range handles {
		if !h.Valid() {
			continue
		}
		v, err := h.Get()
		if err != nil {
			m.logger.Warn("task result dropped",
				logger.Field{Key: "index", Value: i},
				logger.Field{Key: "task_id", Value: h.ID()},
				logger.Field{Key: "error", Value: err.Error()})
			continue
		}
		results = append(results, v)
	}

	if dropped := len(inputs) - len(results); dropped > 0 {
		m.logger.Debug("parallel invoke finished with drops",
			logger.Field{Key: "inputs", Value: len(inputs)},
			logger.Field{Key: "dropped", Value: dropped})
	}
	return results
}

// ParallelInvokeContext is ParallelInvoke bounded by ctx. When ctx is done it
// returns the results collected so far together with ctx.Err(). Tasks that
// have not started by then are skipped by their workers.
func ParallelInvokeContext[T, R any](ctx context.Context, m *Manager, inputs []T, fn func(T) R) ([]R, error) {
	handles := make([]*workers.Handle[R], 0, len(inputs))
	for _, in := range inputs {
		handles = append(handles, workers.SubmitCtx(ctx, m.pool, func(context.Context) (R, error) {
			return fn(in), nil
		}))
	}

	results := make([]R, 0, len(inputs))
	for i, h := range handles {
		if !h.Valid() {
			continue
		}
		v, err := h.Wait(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return results, ctxErr
			}
			m.logger.WarnCtx(ctx, "task result dropped",
				logger.Field{Key: "index", Value: i},
				logger.Field{Key: "task_id", Value: h.ID()},
				logger.Field{Key: "error", Value: err.Error()})
			continue
		}
		results = append(results, v)
	}
	return results, nil
}

// Outcome is the per-input result of Invoke.
type Outcome[R any] struct {
	Index    int    // Position of the input
	TaskID   string // Executor task identifier
	Accepted bool   // False when admission control refused the submission
	Value    R
	Err      error // Rejection reason or task error
}

// Invoke runs fn on every input and reports one Outcome per input, so
// rejected submissions can be told apart from failed ones.
func Invoke[T, R any](m *Manager, inputs []T, fn func(T) (R, error)) []Outcome[R] {
	handles := make([]*workers.Handle[R], 0, len(inputs))
	for _, in := range inputs {
		handles = append(handles, workers.Submit(m.pool, func() (R, error) {
			return fn(in)
		}))
	}

	outcomes := make([]Outcome[R], len(inputs))
	for i, h := range handles {
		o := Outcome[R]{Index: i, TaskID: h.ID(), Accepted: h.Valid()}
		if !o.Accepted {
			o.Err = h.Err()
		} else {
			o.Value, o.Err = h.Get()
		}
		outcomes[i] = o
	}
	return outcomes
}
