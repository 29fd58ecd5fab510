package feeder

import (
	"context"
	"testing"
	"time"

	"github.com/aatumaykin/taskpool/internal/logger"
	"github.com/aatumaykin/taskpool/internal/workers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, size, capacity int) *workers.Executor {
	t.Helper()
	p := workers.NewPool(workers.Config{Workers: size, QueueCapacity: capacity, AutoStart: true}, logger.Discard())
	t.Cleanup(func() { _ = p.Stop() })
	return p
}

func TestNew(t *testing.T) {
	pool := newTestPool(t, 1, 1)

	tests := []struct {
		name    string
		pool    *workers.Executor
		cfg     Config
		wantErr error
	}{
		{"valid interval", pool, Config{Count: 1, Interval: time.Second}, nil},
		{"valid schedule", pool, Config{Count: 1, Schedule: "@every 1s"}, nil},
		{"valid cron expression", pool, Config{Count: 1, Schedule: "*/5 * * * * *"}, nil},
		{"nil executor", nil, Config{Count: 1, Interval: time.Second}, ErrNilExecutor},
		{"zero count", pool, Config{Interval: time.Second}, ErrInvalidConfig},
		{"zero interval", pool, Config{Count: 1}, ErrInvalidConfig},
		{"negative task duration", pool, Config{Count: 1, Interval: time.Second, TaskDuration: -1}, ErrInvalidConfig},
		{"bad schedule", pool, Config{Count: 1, Schedule: "every now and then"}, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.pool, tt.cfg, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, f)
		})
	}
}

func TestEvery(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 300, time.UTC)
	assert.Equal(t, now.Add(150*time.Millisecond), every(150*time.Millisecond).Next(now))
}

func TestRun_AllAccepted(t *testing.T) {
	pool := newTestPool(t, 4, 10)
	f, err := New(pool, Config{Count: 4, Interval: 10 * time.Millisecond, TaskDuration: 5 * time.Millisecond}, nil)
	require.NoError(t, err)

	report, err := f.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Accepted)
	assert.Zero(t, report.Rejected)
	assert.Equal(t, 4, report.Completed)
	assert.Zero(t, report.Failed)
	require.Len(t, report.Ticks, 4)
	for i, tick := range report.Ticks {
		assert.Equal(t, i+1, tick.Seq)
		assert.True(t, tick.Accepted)
		assert.Empty(t, tick.Reason)
		assert.NotEmpty(t, tick.TaskID)
	}
}

func TestRun_SaturationCausesRejections(t *testing.T) {
	pool := newTestPool(t, 1, 1)
	f, err := New(pool, Config{Count: 5, Interval: 20 * time.Millisecond, TaskDuration: 300 * time.Millisecond}, nil)
	require.NoError(t, err)

	report, err := f.Run(context.Background())
	require.NoError(t, err)

	// one task running plus one queued is all the executor can hold
	// while the ticks fire
	assert.Equal(t, 5, report.Accepted+report.Rejected)
	assert.LessOrEqual(t, report.Accepted, 2)
	assert.GreaterOrEqual(t, report.Rejected, 3)
	assert.Equal(t, report.Accepted, report.Completed)

	assert.True(t, report.Ticks[0].Accepted)
	for _, tick := range report.Ticks {
		if !tick.Accepted {
			assert.Equal(t, workers.ErrQueueFull.Error(), tick.Reason)
		}
	}
	assert.Equal(t, uint64(report.Rejected), pool.Metrics().TasksRejected)
}

func TestRun_StoppedExecutorRejectsEverything(t *testing.T) {
	pool := newTestPool(t, 1, 1)
	require.NoError(t, pool.Stop())

	f, err := New(pool, Config{Count: 3, Interval: 5 * time.Millisecond}, nil)
	require.NoError(t, err)

	report, err := f.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Accepted)
	assert.Equal(t, 3, report.Rejected)
	for _, tick := range report.Ticks {
		assert.Equal(t, workers.ErrPoolNotRunning.Error(), tick.Reason)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	pool := newTestPool(t, 2, 2)
	f, err := New(pool, Config{Count: 1000, Interval: 10 * time.Millisecond, TaskDuration: time.Millisecond}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	report, err := f.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, len(report.Ticks), 1000)
}
