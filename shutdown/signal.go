package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalCounter listens for termination signals. The first signal invokes
// the graceful handler; if the operator sends a second signal before
// shutdown completes, the force handler runs instead.
type SignalCounter struct {
	mu       sync.Mutex
	count    int
	graceful func(os.Signal)
	force    func(os.Signal)
	ch       chan os.Signal
	stopOnce sync.Once
}

// NewSignalCounter creates a counter with the given handlers. Either
// handler may be nil.
func NewSignalCounter(graceful, force func(os.Signal)) *SignalCounter {
	return &SignalCounter{
		graceful: graceful,
		force:    force,
		ch:       make(chan os.Signal, 2),
	}
}

// Listen begins watching for SIGINT and SIGTERM. It returns immediately;
// handlers run on a background goroutine.
func (s *SignalCounter) Listen() {
	signal.Notify(s.ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		for sig := range s.ch {
			s.handle(sig)
		}
	}()
}

func (s *SignalCounter) handle(sig os.Signal) {
	s.mu.Lock()
	s.count++
	n := s.count
	s.mu.Unlock()

	switch {
	case n == 1:
		if s.graceful != nil {
			go s.graceful(sig)
		}
	case n >= 2:
		if s.force != nil {
			s.force(sig)
		}
	}
}

// Stop detaches the signal handler. Safe to call multiple times.
func (s *SignalCounter) Stop() {
	s.stopOnce.Do(func() {
		signal.Stop(s.ch)
		close(s.ch)
	})
}

// Count returns how many signals have been received.
func (s *SignalCounter) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
