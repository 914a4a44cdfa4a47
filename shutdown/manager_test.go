package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"ricedoctor/core"
)

func TestManagerShutdownRunsCleanup(t *testing.T) {
	m := NewManager(nil, WithTimeout(2*time.Second))

	cleaned := false
	m.Register("resource", 10, func(context.Context) error {
		cleaned = true
		return nil
	})

	m.Shutdown(core.ExitCodeSIGTERM)
	m.Wait()

	if !cleaned {
		t.Error("registered cleanup did not run")
	}
	if got := m.ExitCode(); got != core.ExitCodeSIGTERM {
		t.Errorf("ExitCode() = %d, want %d", got, core.ExitCodeSIGTERM)
	}
}

func TestManagerShutdownIsIdempotent(t *testing.T) {
	m := NewManager(nil, WithTimeout(time.Second))

	calls := 0
	m.Register("once", 0, func(context.Context) error {
		calls++
		return nil
	})

	m.Shutdown(core.ExitCodeSuccess)
	m.Shutdown(core.ExitCodeError)
	m.Wait()

	if calls != 1 {
		t.Errorf("cleanup ran %d times, want 1", calls)
	}
	if got := m.ExitCode(); got != core.ExitCodeSuccess {
		t.Errorf("ExitCode() = %d, want %d (first call wins)", got, core.ExitCodeSuccess)
	}
}

func TestManagerCleanupErrorForcesErrorExit(t *testing.T) {
	m := NewManager(nil, WithTimeout(time.Second))
	m.Register("broken", 0, func(context.Context) error {
		return errors.New("boom")
	})

	m.Shutdown(core.ExitCodeSuccess)
	m.Wait()

	if got := m.ExitCode(); got != core.ExitCodeError {
		t.Errorf("ExitCode() = %d, want %d", got, core.ExitCodeError)
	}
}

func TestManagerDrainsInFlightOperations(t *testing.T) {
	m := NewManager(nil, WithTimeout(2*time.Second))

	if err := m.Tracker().Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	finished := make(chan struct{})
	go func() {
		time.Sleep(30 * time.Millisecond)
		m.Tracker().Done()
		close(finished)
	}()

	m.Shutdown(core.ExitCodeSuccess)
	m.Wait()

	select {
	case <-finished:
	default:
		t.Error("shutdown completed before in-flight operation finished")
	}
	if err := m.Tracker().Start(); !errors.Is(err, ErrTrackerClosed) {
		t.Errorf("Start() after shutdown error = %v, want ErrTrackerClosed", err)
	}
}
