package workers

import "errors"

var (
	// Admission errors, reported through an invalid Handle.
	ErrPoolNotRunning = errors.New("executor is not running")
	ErrQueueFull      = errors.New("task queue is full")
	ErrNilTask        = errors.New("task function is nil")

	// Lifecycle errors.
	ErrAlreadyStarted = errors.New("executor is already started")
	ErrPoolStopped    = errors.New("executor is stopped")

	// Handle errors.
	ErrInvalidHandle  = errors.New("handle is not bound to an accepted task")
	ErrHandleConsumed = errors.New("handle result was already read")
	ErrTaskAbandoned  = errors.New("task abandoned on shutdown")
	ErrTaskPanicked   = errors.New("task panicked")
)
