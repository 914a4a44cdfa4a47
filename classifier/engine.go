package classifier

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Backend runs one classification over a staged image file and returns a
// ranked probability distribution. Implementations are stateless with
// respect to call history; each call is independent.
type Backend interface {
	Classify(ctx context.Context, imagePath string) (Distribution, error)
}

// Handle wraps a loaded classifier backend together with its metadata.
// Exactly one Handle exists per process (see Loader); it is safe for
// concurrent use after creation and lives until process exit.
type Handle struct {
	Meta     Metadata
	LoadedAt time.Time

	backend Backend
}

// NewHandle wraps an already-constructed backend. Hosts normally obtain a
// Handle through Loader.Acquire instead.
func NewHandle(meta Metadata, backend Backend) *Handle {
	return &Handle{
		Meta:     meta,
		LoadedAt: time.Now(),
		backend:  backend,
	}
}

// BackendName reports which backend the handle wraps. Backends identify
// themselves through an optional Name method.
func (h *Handle) BackendName() string {
	if n, ok := h.backend.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "unknown"
}

// Engine invokes the classification backend and enforces the distribution
// invariants on its output. It holds no per-call state.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an Engine. A nil logger disables logging.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Classify runs the backend over the staged image file and validates the
// returned distribution: non-empty, descending, summing to 1.0.
func (e *Engine) Classify(ctx context.Context, h *Handle, imagePath string) (Distribution, error) {
	if h == nil || h.backend == nil {
		return nil, fmt.Errorf("%w: no model handle", ErrInferenceFailed)
	}

	start := time.Now()
	dist, err := h.backend.Classify(ctx, imagePath)
	if err != nil {
		return nil, err
	}

	if err := dist.Validate(); err != nil {
		return nil, err
	}

	top := dist.Top()
	e.logger.Debug("classification complete",
		zap.String("top_label", top.Label),
		zap.Float64("top_probability", top.Probability),
		zap.Int("classes", len(dist)),
		zap.Duration("duration", time.Since(start)),
	)

	return dist, nil
}
