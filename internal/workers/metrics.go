package workers

import (
	"errors"
	"time"
)

// Metrics returns the current pool metrics.
func (p *Executor) Metrics() PoolMetrics {
	p.metricsMu.RLock()
	defer p.metricsMu.RUnlock()
	return p.metrics
}

// incrementSubmitted increments the accepted task counter.
func (p *Executor) incrementSubmitted() {
	p.metricsMu.Lock()
	p.metrics.TasksSubmitted++
	p.metricsMu.Unlock()
}

// incrementRejected counts a refused submission.
func (p *Executor) incrementRejected(reason error) {
	p.metricsMu.Lock()
	p.metrics.TasksRejected++
	p.metricsMu.Unlock()

	if p.prometheus != nil {
		p.prometheus.RecordRejection(rejectionLabel(reason))
	}
}

// incrementCompleted increments the completed task counter.
func (p *Executor) incrementCompleted(d time.Duration) {
	p.metricsMu.Lock()
	p.metrics.TasksCompleted++
	p.metrics.TotalDuration += d
	p.metricsMu.Unlock()

	if p.prometheus != nil {
		p.prometheus.RecordTask(statusCompleted, d)
	}
}

// incrementFailed increments the failed task counter.
func (p *Executor) incrementFailed(d time.Duration) {
	p.metricsMu.Lock()
	p.metrics.TasksFailed++
	p.metrics.TotalDuration += d
	p.metricsMu.Unlock()

	if p.prometheus != nil {
		p.prometheus.RecordTask(statusFailed, d)
	}
}

// addAbandoned counts tasks that were queued when the pool stopped.
func (p *Executor) addAbandoned(n int) {
	p.metricsMu.Lock()
	p.metrics.TasksAbandoned += uint64(n)
	p.metricsMu.Unlock()

	if p.prometheus != nil {
		p.prometheus.RecordAbandoned(n)
	}
}

func (p *Executor) observeQueueLength(n int) {
	if p.prometheus != nil {
		p.prometheus.SetQueueLength(n)
	}
}

func (p *Executor) observeActive(n int64) {
	if p.prometheus != nil {
		p.prometheus.SetActiveWorkers(n)
	}
}

func rejectionLabel(reason error) string {
	switch {
	case errors.Is(reason, ErrQueueFull):
		return "queue_full"
	case errors.Is(reason, ErrPoolNotRunning):
		return "not_running"
	default:
		return "invalid"
	}
}
