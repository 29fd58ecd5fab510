package workers

import (
	"sync"
	"sync/atomic"

	"github.com/aatumaykin/taskpool/internal/constants"
	"github.com/aatumaykin/taskpool/internal/logger"
	"github.com/eapache/queue"
)

// Executor runs submitted tasks on a fixed set of worker goroutines.
//
// The queue and free-slot counter are only touched under mu. state is read
// without the lock; it only moves forward (created, running, stopped).
type Executor struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    *queue.Queue
	capacity int
	free     int

	state   atomic.Int32
	workers int
	active  atomic.Int64
	wg      sync.WaitGroup

	policy     ShutdownPolicy
	logger     *logger.Logger
	prometheus *PrometheusMetrics

	metricsMu sync.RWMutex
	metrics   PoolMetrics
}

// NewPool creates an executor with the specified configuration.
// Worker count and queue capacity are clamped into their allowed ranges.
func NewPool(cfg Config, log *logger.Logger) *Executor {
	if log == nil {
		log = logger.Discard()
	}
	policy := cfg.ShutdownPolicy
	if policy == "" {
		policy = PolicyCancel
	}

	capacity := clamp(cfg.QueueCapacity, constants.MaxQueueCapacity)
	p := &Executor{
		queue:      queue.New(),
		capacity:   capacity,
		free:       capacity,
		workers:    clamp(cfg.Workers, constants.MaxPoolSize),
		policy:     policy,
		logger:     log.With(logger.Field{Key: "component", Value: "executor"}),
		prometheus: cfg.Prometheus,
	}
	p.cond = sync.NewCond(&p.mu)
	p.state.Store(int32(StateCreated))

	if cfg.AutoStart {
		// A fresh pool is always in StateCreated, so Start cannot fail here.
		_ = p.Start()
	}
	return p
}

func clamp(v, max int) int {
	if v < constants.MinSize {
		return constants.MinSize
	}
	if v > max {
		return max
	}
	return v
}

// Start spawns the worker goroutines and moves the pool to StateRunning.
func (p *Executor) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.state.CompareAndSwap(int32(StateCreated), int32(StateRunning)) {
		if p.State() == StateRunning {
			return ErrAlreadyStarted
		}
		return ErrPoolStopped
	}

	// Submissions need mu, so none is accepted until every worker exists.
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.logger.Info("starting worker pool",
		logger.Field{Key: "workers", Value: p.workers},
		logger.Field{Key: "queue_capacity", Value: p.capacity},
		logger.Field{Key: "shutdown_policy", Value: string(p.policy)})
	return nil
}

// Stop moves the pool to StateStopped, wakes every worker and waits for all
// of them to exit. Tasks still queued are never executed; what happens to
// their handles depends on the shutdown policy.
//
// In-flight tasks run to completion before their worker exits.
func (p *Executor) Stop() error {
	for {
		current := p.state.Load()
		if State(current) == StateStopped {
			return ErrPoolStopped
		}
		if p.state.CompareAndSwap(current, int32(StateStopped)) {
			break
		}
	}

	p.logger.Info("stopping worker pool")

	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()

	pending := p.drainQueue()
	p.settlePending(pending)

	metrics := p.Metrics()
	p.logger.Info("worker pool stopped",
		logger.Field{Key: "tasks_submitted", Value: metrics.TasksSubmitted},
		logger.Field{Key: "tasks_rejected", Value: metrics.TasksRejected},
		logger.Field{Key: "tasks_completed", Value: metrics.TasksCompleted},
		logger.Field{Key: "tasks_failed", Value: metrics.TasksFailed},
		logger.Field{Key: "tasks_abandoned", Value: metrics.TasksAbandoned})
	return nil
}

// drainQueue removes every task still waiting. Only called after all workers
// have exited.
func (p *Executor) drainQueue() []*task {
	p.mu.Lock()
	defer p.mu.Unlock()

	pending := make([]*task, 0, p.queue.Length())
	for p.queue.Length() > 0 {
		pending = append(pending, p.queue.Remove().(*task))
		p.free++
	}
	p.observeQueueLength(0)
	return pending
}

func (p *Executor) settlePending(pending []*task) {
	if len(pending) == 0 {
		return
	}

	p.addAbandoned(len(pending))

	switch p.policy {
	case PolicyAbandon:
		p.logger.Warn("queued tasks dropped without completion",
			logger.Field{Key: "count", Value: len(pending)})
	default:
		for _, t := range pending {
			t.abandon()
		}
		p.logger.Warn("queued tasks cancelled on shutdown",
			logger.Field{Key: "count", Value: len(pending)})
	}
}

// State returns the current lifecycle state.
func (p *Executor) State() State {
	return State(p.state.Load())
}

// WorkerCount returns the number of worker goroutines.
func (p *Executor) WorkerCount() int {
	return p.workers
}

// QueueCapacity returns the maximum number of queued tasks.
func (p *Executor) QueueCapacity() int {
	return p.capacity
}

// QueueSize returns the current number of tasks waiting in the queue.
func (p *Executor) QueueSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Length()
}

// ActiveCount returns the number of tasks currently executing.
func (p *Executor) ActiveCount() int {
	return int(p.active.Load())
}

// Policy returns the shutdown policy applied to queued tasks on Stop.
func (p *Executor) Policy() ShutdownPolicy {
	return p.policy
}
