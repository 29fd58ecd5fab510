package workers

import (
	"fmt"
	"time"

	"github.com/aatumaykin/taskpool/internal/logger"
)

// worker is the main worker goroutine that processes tasks from the queue.
// It returns as soon as the pool leaves StateRunning, without draining.
func (p *Executor) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("worker started", logger.Field{Key: "worker_id", Value: id})

	for {
		t, ok := p.next()
		if !ok {
			p.logger.Debug("worker stopping", logger.Field{Key: "worker_id", Value: id})
			return
		}
		p.processTask(id, t)
	}
}

// next waits until a task is queued or the pool stops.
func (p *Executor) next() (*task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.queue.Length() == 0 && p.State() == StateRunning {
		p.cond.Wait()
	}
	if p.State() != StateRunning {
		return nil, false
	}

	t := p.queue.Remove().(*task)
	p.free++
	p.observeQueueLength(p.queue.Length())
	return t, true
}

// processTask handles a single task execution with metrics and error handling.
func (p *Executor) processTask(workerID int, t *task) {
	startTime := time.Now()
	p.observeActive(p.active.Add(1))
	defer func() {
		p.observeActive(p.active.Add(-1))
	}()
	defer func() {
		if r := recover(); r != nil {
			p.incrementFailed(time.Since(startTime))
			p.logger.Error("worker panic recovered",
				fmt.Errorf("panic: %v", r),
				logger.Field{Key: "worker_id", Value: workerID},
				logger.Field{Key: "task_id", Value: t.id})
		}
	}()

	p.logger.Debug("processing task",
		logger.Field{Key: "worker_id", Value: workerID},
		logger.Field{Key: "task_id", Value: t.id},
		logger.Field{Key: "wait_ms", Value: startTime.Sub(t.queued).Milliseconds()})

	err := t.run()
	duration := time.Since(startTime)

	if err != nil {
		p.incrementFailed(duration)
	} else {
		p.incrementCompleted(duration)
	}

	p.logger.Debug("task processed",
		logger.Field{Key: "worker_id", Value: workerID},
		logger.Field{Key: "task_id", Value: t.id},
		logger.Field{Key: "duration_ms", Value: duration.Milliseconds()},
		logger.Field{Key: "error", Value: err})
}
