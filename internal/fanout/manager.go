// Package fanout submits one task per input to an owned executor and
// collects the results back in input order.
package fanout

import (
	"errors"
	"fmt"

	"github.com/aatumaykin/taskpool/internal/logger"
	"github.com/aatumaykin/taskpool/internal/workers"
)

// ErrNilExecutor is returned by NewManager when no executor is supplied.
var ErrNilExecutor = errors.New("executor is nil")

// Manager owns one executor for its whole lifetime. The executor is started
// by NewManager and stopped by Close.
type Manager struct {
	pool   *workers.Executor
	logger *logger.Logger
}

// NewManager takes ownership of pool, starting it if it has not been started.
func NewManager(pool *workers.Executor, log *logger.Logger) (*Manager, error) {
	if pool == nil {
		return nil, ErrNilExecutor
	}
	if log == nil {
		log = logger.Discard()
	}

	if pool.State() == workers.StateCreated {
		if err := pool.Start(); err != nil && !errors.Is(err, workers.ErrAlreadyStarted) {
			return nil, fmt.Errorf("failed to start executor: %w", err)
		}
	}
	if pool.State() != workers.StateRunning {
		return nil, fmt.Errorf("executor is %s: %w", pool.State(), workers.ErrPoolStopped)
	}

	return &Manager{
		pool:   pool,
		logger: log.With(logger.Field{Key: "component", Value: "fanout"}),
	}, nil
}

// New builds an executor from cfg and wraps it in a Manager.
func New(cfg workers.Config, log *logger.Logger) (*Manager, error) {
	return NewManager(workers.NewPool(cfg, log), log)
}

// Executor returns the owned executor.
func (m *Manager) Executor() *workers.Executor {
	return m.pool
}

// Close stops the owned executor and waits for its workers to exit.
func (m *Manager) Close() error {
	return m.pool.Stop()
}
