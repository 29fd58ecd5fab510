package workers

import (
	"sync"
	"testing"

	"github.com/aatumaykin/taskpool/internal/logger"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "debug", Format: "text", Output: "stdout"})
	require.NoError(t, err)
	return log
}

// gate blocks tasks until opened. open is safe to call more than once.
type gate struct {
	ch   chan struct{}
	once sync.Once
}

func newGate() *gate {
	return &gate{ch: make(chan struct{})}
}

func (g *gate) wait() {
	<-g.ch
}

func (g *gate) open() {
	g.once.Do(func() { close(g.ch) })
}

// occupy submits a task that holds a worker until g is opened and waits until
// the worker has picked it up.
func occupy(t *testing.T, p *Executor, g *gate) *Handle[int] {
	t.Helper()
	started := make(chan struct{})
	h := Submit(p, func() (int, error) {
		close(started)
		g.wait()
		return -1, nil
	})
	require.True(t, h.Valid(), "blocking task must be accepted")
	<-started
	return h
}
