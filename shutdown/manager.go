package shutdown

import (
	"context"
	"os"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ricedoctor/core"
)

// DefaultTimeout bounds the full shutdown sequence when no override is
// given.
const DefaultTimeout = 30 * time.Second

// Manager coordinates graceful shutdown: it tracks in-flight diagnoses,
// runs registered cleanup in priority order, and maps the triggering
// signal to a conventional exit code.
type Manager struct {
	logger   *zap.Logger
	registry *Registry
	tracker  *Tracker
	signals  *SignalCounter
	timeout  time.Duration

	mu       sync.Mutex
	started  bool
	exitCode int
	done     chan struct{}
	once     sync.Once
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout overrides the total shutdown deadline.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// NewManager creates a Manager. A nil logger is replaced with a no-op one.
func NewManager(logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		logger:   logger,
		registry: NewRegistry(),
		tracker:  NewTracker(),
		timeout:  DefaultTimeout,
		exitCode: core.ExitCodeSuccess,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a cleanup function. Lower priority runs earlier.
func (m *Manager) Register(name string, priority int, fn core.ShutdownFunc) {
	m.registry.Register(name, priority, fn)
}

// Tracker returns the in-flight operation tracker for request handlers.
func (m *Manager) Tracker() *Tracker {
	return m.tracker
}

// Start installs the signal handlers. A first SIGINT or SIGTERM triggers
// graceful shutdown; a second forces immediate exit.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	m.signals = NewSignalCounter(
		func(sig os.Signal) {
			m.logger.Info("shutdown signal received",
				zap.String("signal", sig.String()))
			m.Shutdown(signalExitCode(sig))
		},
		func(sig os.Signal) {
			m.logger.Warn("second signal received, forcing exit",
				zap.String("signal", sig.String()))
			os.Exit(core.ExitCodeError)
		},
	)
	m.signals.Listen()
}

// Shutdown runs the shutdown sequence once: stop accepting new work,
// drain in-flight operations, then execute registered cleanup within the
// remaining deadline. Subsequent calls are no-ops.
func (m *Manager) Shutdown(exitCode int) {
	m.once.Do(func() {
		m.mu.Lock()
		m.exitCode = exitCode
		m.mu.Unlock()

		start := time.Now()
		m.logger.Info("shutdown started",
			zap.Int("pending_operations", m.tracker.Active()),
			zap.Duration("timeout", m.timeout))

		m.tracker.Close()
		if err := m.tracker.Wait(m.timeout); err != nil {
			m.logger.Warn("in-flight operations did not drain",
				zap.Error(err),
				zap.Int("still_active", m.tracker.Active()))
			m.setExitError()
		}

		remaining := m.timeout - time.Since(start)
		if remaining < time.Second {
			remaining = time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), remaining)
		defer cancel()

		if errs := m.registry.Shutdown(ctx); len(errs) > 0 {
			for _, err := range errs {
				m.logger.Error("cleanup handler failed", zap.Error(err))
			}
			m.setExitError()
		}

		if m.signals != nil {
			m.signals.Stop()
		}
		m.logger.Info("shutdown complete",
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("exit_code", m.ExitCode()))
		close(m.done)
	})
}

func (m *Manager) setExitError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.exitCode == core.ExitCodeSuccess {
		m.exitCode = core.ExitCodeError
	}
}

// Wait blocks until the shutdown sequence has completed.
func (m *Manager) Wait() {
	<-m.done
}

// ExitCode returns the process exit code chosen during shutdown.
func (m *Manager) ExitCode() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exitCode
}

func signalExitCode(sig os.Signal) int {
	switch sig {
	case syscall.SIGTERM:
		return core.ExitCodeSIGTERM
	case os.Interrupt, syscall.SIGINT:
		return core.ExitCodeSIGINT
	default:
		return core.ExitCodeError
	}
}
