// Package feeder drives an executor at a fixed rate: one task per tick on a
// cron schedule, each task sleeping for a configured duration. With tasks
// outlasting the tick the executor saturates and starts rejecting work,
// which the feeder records per tick.
package feeder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aatumaykin/taskpool/internal/logger"
	"github.com/aatumaykin/taskpool/internal/workers"
	"github.com/robfig/cron/v3"
)

var (
	// ErrNilExecutor is returned by New when no executor is supplied.
	ErrNilExecutor = errors.New("executor is nil")
	// ErrInvalidConfig wraps every configuration error reported by New.
	ErrInvalidConfig = errors.New("invalid feeder config")
)

// Config configures a Feeder.
type Config struct {
	Count        int           // Number of tasks to submit
	Interval     time.Duration // Tick period, used when Schedule is empty
	Schedule     string        // Optional cron expression or descriptor, overrides Interval
	TaskDuration time.Duration // How long each task sleeps
}

// Tick records the outcome of one submission.
type Tick struct {
	Seq       int
	TaskID    string
	At        time.Time
	Accepted  bool
	Reason    string // rejection reason, empty when accepted
	QueueSize int    // queue length right after the submission
}

// Report summarizes a Run.
type Report struct {
	Ticks     []Tick
	Accepted  int
	Rejected  int
	Completed int
	Failed    int
}

// Feeder submits sleeping tasks to an executor on a schedule.
type Feeder struct {
	pool     *workers.Executor
	cfg      Config
	schedule cron.Schedule
	logger   *logger.Logger
}

// New validates cfg and returns a Feeder for pool.
func New(pool *workers.Executor, cfg Config, log *logger.Logger) (*Feeder, error) {
	if pool == nil {
		return nil, ErrNilExecutor
	}
	if log == nil {
		log = logger.Discard()
	}
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive (got %d)", ErrInvalidConfig, cfg.Count)
	}
	if cfg.TaskDuration < 0 {
		return nil, fmt.Errorf("%w: task duration must be >= 0 (got %s)", ErrInvalidConfig, cfg.TaskDuration)
	}

	schedule, err := parseSchedule(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Feeder{
		pool:     pool,
		cfg:      cfg,
		schedule: schedule,
		logger:   log.With(logger.Field{Key: "component", Value: "feeder"}),
	}, nil
}

var scheduleParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func parseSchedule(cfg Config) (cron.Schedule, error) {
	if cfg.Schedule != "" {
		schedule, err := scheduleParser.Parse(cfg.Schedule)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule %q: %w", cfg.Schedule, err)
		}
		return schedule, nil
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive (got %s)", cfg.Interval)
	}
	return every(cfg.Interval), nil
}

// every fires at a constant period. cron.Every rounds to whole seconds,
// which is too coarse for sub-second intervals.
type every time.Duration

func (e every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

// Run submits Count tasks, one per tick, then waits for every accepted task
// to resolve. It returns early with ctx.Err() when ctx is done; the report
// then covers the ticks fired so far.
func (f *Feeder) Run(ctx context.Context) (Report, error) {
	var (
		mu      sync.Mutex
		report  Report
		handles []*workers.Handle[time.Duration]
		seq     int
		done    = make(chan struct{})
	)

	c := cron.New(
		cron.WithLogger(cronLogger{f.logger}),
		cron.WithChain(cron.Recover(cronLogger{f.logger})),
	)
	c.Schedule(f.schedule, cron.FuncJob(func() {
		mu.Lock()
		defer mu.Unlock()

		if seq >= f.cfg.Count || ctx.Err() != nil {
			return
		}
		seq++

		h := workers.SubmitCtx(ctx, f.pool, f.sleep)
		tick := Tick{
			Seq:       seq,
			TaskID:    h.ID(),
			At:        time.Now(),
			Accepted:  h.Valid(),
			QueueSize: f.pool.QueueSize(),
		}
		if tick.Accepted {
			report.Accepted++
			handles = append(handles, h)
			f.logger.InfoCtx(ctx, "task accepted",
				logger.Field{Key: "seq", Value: seq},
				logger.Field{Key: "task_id", Value: tick.TaskID},
				logger.Field{Key: "queue_size", Value: tick.QueueSize})
		} else {
			report.Rejected++
			tick.Reason = h.Err().Error()
			f.logger.WarnCtx(ctx, "task rejected",
				logger.Field{Key: "seq", Value: seq},
				logger.Field{Key: "task_id", Value: tick.TaskID},
				logger.Field{Key: "reason", Value: tick.Reason})
		}
		report.Ticks = append(report.Ticks, tick)

		if seq == f.cfg.Count {
			close(done)
		}
	}))

	f.logger.InfoCtx(ctx, "feeder started",
		logger.Field{Key: "count", Value: f.cfg.Count},
		logger.Field{Key: "interval", Value: f.cfg.Interval.String()},
		logger.Field{Key: "schedule", Value: f.cfg.Schedule},
		logger.Field{Key: "task_duration", Value: f.cfg.TaskDuration.String()})

	c.Start()
	var runErr error
	select {
	case <-done:
	case <-ctx.Done():
		runErr = ctx.Err()
	}
	<-c.Stop().Done()

	mu.Lock()
	defer mu.Unlock()

	if runErr == nil {
		for _, h := range handles {
			if _, err := h.Wait(ctx); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					runErr = ctxErr
					break
				}
				report.Failed++
				continue
			}
			report.Completed++
		}
	}

	f.logger.InfoCtx(ctx, "feeder finished",
		logger.Field{Key: "accepted", Value: report.Accepted},
		logger.Field{Key: "rejected", Value: report.Rejected},
		logger.Field{Key: "completed", Value: report.Completed},
		logger.Field{Key: "failed", Value: report.Failed})
	return report, runErr
}

// sleep is the task body: it holds a worker for TaskDuration.
func (f *Feeder) sleep(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	timer := time.NewTimer(f.cfg.TaskDuration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return time.Since(start), nil
	case <-ctx.Done():
		return time.Since(start), ctx.Err()
	}
}
