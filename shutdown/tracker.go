package shutdown

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrTrackerClosed is returned by Start once shutdown has begun.
	ErrTrackerClosed = errors.New("shutdown: tracker closed")

	// ErrWaitTimeout is returned by Wait when in-flight operations do
	// not drain within the allotted time.
	ErrWaitTimeout = errors.New("shutdown: timed out waiting for operations")
)

// Tracker counts in-flight operations so shutdown can wait for active
// diagnoses to finish before tearing down the model session.
type Tracker struct {
	mu     sync.RWMutex
	wg     sync.WaitGroup
	active int
	closed bool
}

// NewTracker creates an open Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Start registers a new operation. It fails once Close has been called,
// which lets request handlers reject work during shutdown.
func (t *Tracker) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTrackerClosed
	}
	t.active++
	t.wg.Add(1)
	return nil
}

// Done marks one operation complete. Calls without a matching Start are
// ignored.
func (t *Tracker) Done() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == 0 {
		return
	}
	t.active--
	t.wg.Done()
}

// Close stops accepting new operations. Idempotent.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
}

// Active returns the current number of in-flight operations.
func (t *Tracker) Active() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}

// Wait blocks until all in-flight operations complete or the timeout
// elapses, in which case it returns ErrWaitTimeout.
func (t *Tracker) Wait(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return ErrWaitTimeout
	}
}
