// Package workers provides a bounded task executor: a fixed set of worker
// goroutines draining a finite-capacity FIFO queue. Every accepted task is
// paired with a single-consumer Handle that carries its result.
//
// Submission never blocks. When the pool is not running or the queue is
// full, the returned Handle is invalid and Handle.Err reports why.
package workers

import (
	"fmt"
	"strings"
	"time"
)

// State is the lifecycle state of an Executor.
type State int32

const (
	StateCreated State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ShutdownPolicy decides what Stop does with tasks still waiting in the queue.
type ShutdownPolicy string

const (
	// PolicyCancel resolves every undrained handle with ErrTaskAbandoned.
	PolicyCancel ShutdownPolicy = "cancel"
	// PolicyAbandon drops undrained tasks; their handles never resolve.
	PolicyAbandon ShutdownPolicy = "abandon"
)

// ParseShutdownPolicy converts a config value into a ShutdownPolicy.
// An empty string selects PolicyCancel.
func ParseShutdownPolicy(s string) (ShutdownPolicy, error) {
	switch ShutdownPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyCancel:
		return PolicyCancel, nil
	case PolicyAbandon:
		return PolicyAbandon, nil
	default:
		return "", fmt.Errorf("invalid shutdown policy: %s (expected: cancel, abandon)", s)
	}
}

// Config configures an Executor.
type Config struct {
	Workers        int            // Worker goroutines, clamped to [1, constants.MaxPoolSize]
	QueueCapacity  int            // Pending task slots, clamped to [1, constants.MaxQueueCapacity]
	AutoStart      bool           // Start workers inside NewPool
	ShutdownPolicy ShutdownPolicy // Empty means PolicyCancel
	Prometheus     *PrometheusMetrics
}

// PoolMetrics tracks execution metrics for the executor.
type PoolMetrics struct {
	TasksSubmitted uint64
	TasksRejected  uint64
	TasksCompleted uint64
	TasksFailed    uint64
	TasksAbandoned uint64
	TotalDuration  time.Duration
}

// task is the erased deferred call stored in the queue. run executes the body
// and resolves the paired handle; abandon resolves it without running.
type task struct {
	id      string
	queued  time.Time
	run     func() error
	abandon func()
}
