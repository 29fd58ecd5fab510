package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stopWhileBusy stops p while one task occupies its only worker and the
// given number of tasks wait in the queue. It returns the busy handle and
// the queued ones after Stop has returned.
func stopWhileBusy(t *testing.T, policy ShutdownPolicy, queued int) (*Executor, *Handle[int], []*Handle[int]) {
	t.Helper()

	pool := NewPool(Config{
		Workers:        1,
		QueueCapacity:  queued,
		AutoStart:      true,
		ShutdownPolicy: policy,
	}, newTestLogger(t))
	g := newGate()
	t.Cleanup(g.open)

	busy := occupy(t, pool, g)

	pending := make([]*Handle[int], 0, queued)
	for i := 0; i < queued; i++ {
		h := SubmitFunc(pool, func(x int) int { return x }, i)
		require.True(t, h.Valid())
		pending = append(pending, h)
	}

	stopped := make(chan error, 1)
	go func() { stopped <- pool.Stop() }()

	// The busy worker must observe the stop flag before it is released,
	// otherwise it would pick up the next queued task.
	require.Eventually(t, func() bool {
		return pool.State() == StateStopped
	}, time.Second, time.Millisecond)
	g.open()

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
	return pool, busy, pending
}

func TestStop_CancelPolicyResolvesQueuedHandles(t *testing.T) {
	pool, busy, pending := stopWhileBusy(t, PolicyCancel, 3)

	v, err := busy.Get()
	require.NoError(t, err, "in-flight task runs to completion")
	assert.Equal(t, -1, v)

	for _, h := range pending {
		_, err := h.Get()
		assert.ErrorIs(t, err, ErrTaskAbandoned)
	}

	m := pool.Metrics()
	assert.Equal(t, uint64(3), m.TasksAbandoned)
	assert.Equal(t, uint64(1), m.TasksCompleted)
	assert.Equal(t, 0, pool.QueueSize())
}

func TestStop_AbandonPolicyLeavesHandlesUnresolved(t *testing.T) {
	pool, busy, pending := stopWhileBusy(t, PolicyAbandon, 2)

	_, err := busy.Get()
	require.NoError(t, err)

	for _, h := range pending {
		assert.False(t, h.Ready())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		_, err := h.Wait(ctx)
		cancel()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}

	assert.Equal(t, uint64(2), pool.Metrics().TasksAbandoned)
	assert.Equal(t, 0, pool.QueueSize())
}

func TestStop_EmptyQueueAbandonsNothing(t *testing.T) {
	pool := NewPool(Config{Workers: 2, QueueCapacity: 2, AutoStart: true}, newTestLogger(t))

	v, err := Submit(pool, func() (int, error) { return 3, nil }).Get()
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	require.NoError(t, pool.Stop())
	assert.Equal(t, uint64(0), pool.Metrics().TasksAbandoned)
}
