package shutdown

import (
	"errors"
	"testing"
	"time"
)

func TestTrackerStartAndDone(t *testing.T) {
	tr := NewTracker()

	if err := tr.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := tr.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := tr.Active(); got != 2 {
		t.Errorf("Active() = %d, want 2", got)
	}

	tr.Done()
	if got := tr.Active(); got != 1 {
		t.Errorf("Active() after Done = %d, want 1", got)
	}

	// Unmatched Done calls are ignored.
	tr.Done()
	tr.Done()
	if got := tr.Active(); got != 0 {
		t.Errorf("Active() = %d, want 0", got)
	}
}

func TestTrackerRejectsStartAfterClose(t *testing.T) {
	tr := NewTracker()
	tr.Close()

	if err := tr.Start(); !errors.Is(err, ErrTrackerClosed) {
		t.Errorf("Start() after Close error = %v, want ErrTrackerClosed", err)
	}
}

func TestTrackerWaitDrains(t *testing.T) {
	tr := NewTracker()
	if err := tr.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		tr.Done()
	}()

	if err := tr.Wait(2 * time.Second); err != nil {
		t.Errorf("Wait() error = %v, want nil", err)
	}
}

func TestTrackerWaitTimeout(t *testing.T) {
	tr := NewTracker()
	if err := tr.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer tr.Done()

	if err := tr.Wait(10 * time.Millisecond); !errors.Is(err, ErrWaitTimeout) {
		t.Errorf("Wait() error = %v, want ErrWaitTimeout", err)
	}
}
