package classifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Backend names accepted by LoaderConfig.Backend.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// LoaderConfig contains configuration for the Loader.
type LoaderConfig struct {
	// ModelPath is the path to the exported ONNX model file.
	// Only used by the local backend.
	ModelPath string

	// MetadataPath is the path to the metadata JSON exported with the model.
	MetadataPath string

	// Backend selects the inference backend: "local" or "remote".
	Backend string

	// Remote configures the OpenAI-compatible vision endpoint when
	// Backend is "remote".
	Remote RemoteConfig

	// RunStartupTest runs a zero-input warm-up inference after loading.
	// Local backend only.
	RunStartupTest bool

	// Logger is an optional logger for load events.
	Logger *zap.Logger
}

// Loader owns the process-wide model handle. The first Acquire performs the
// expensive artifact load; every later call returns the same *Handle without
// reloading. A load failure is memoized the same way: once loading has
// failed, the process serves no diagnoses until restart.
type Loader struct {
	cfg    LoaderConfig
	logger *zap.Logger

	once   sync.Once
	handle *Handle
	err    error
}

// NewLoader creates a Loader. Nothing is loaded until the first Acquire.
func NewLoader(cfg LoaderConfig) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{cfg: cfg, logger: logger}
}

// Acquire returns the process-wide model handle, loading it on first use.
// Concurrent first calls block until the single load attempt completes.
func (l *Loader) Acquire(ctx context.Context) (*Handle, error) {
	l.once.Do(func() {
		l.handle, l.err = l.load(ctx)
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.handle, nil
}

// Metadata returns the loaded model's metadata. The second return is false
// until a successful Acquire.
func (l *Loader) Metadata() (Metadata, bool) {
	if l.handle == nil {
		return Metadata{}, false
	}
	return l.handle.Meta, true
}

// Close releases backend resources. Registered as a shutdown hook; the
// handle is otherwise never torn down during the process lifetime.
func (l *Loader) Close(ctx context.Context) error {
	if l.handle == nil {
		return nil
	}
	if closer, ok := l.handle.backend.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (l *Loader) load(ctx context.Context) (*Handle, error) {
	l.logger.Info("loading classifier",
		zap.String("backend", l.cfg.Backend),
		zap.String("model_path", l.cfg.ModelPath),
		zap.String("metadata_path", l.cfg.MetadataPath),
	)

	meta, err := LoadMetadata(l.cfg.MetadataPath)
	if err != nil {
		return nil, err
	}

	var backend Backend
	switch l.cfg.Backend {
	case BackendRemote:
		backend = NewRemoteBackend(l.cfg.Remote, meta)

	case BackendLocal, "":
		if err := validateModelPath(l.cfg.ModelPath); err != nil {
			return nil, err
		}

		session, err := NewSession(l.cfg.ModelPath, meta)
		if err != nil {
			return nil, err
		}

		if l.cfg.RunStartupTest {
			if err := l.runStartupTest(session, meta); err != nil {
				session.Close()
				return nil, err
			}
		}
		backend = session

	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrModelLoadFailed, l.cfg.Backend)
	}

	handle := NewHandle(meta, backend)
	l.logger.Info("classifier loaded",
		zap.Strings("classes", meta.Classes),
		zap.Int("image_size", meta.ImageSize),
		zap.Time("loaded_at", handle.LoadedAt),
	)
	return handle, nil
}

// runStartupTest verifies the session produces output for a zero input.
// Catches artifact/shape mismatches at startup instead of on the first
// operator request.
func (l *Loader) runStartupTest(session *Session, meta Metadata) error {
	start := time.Now()
	logits, err := session.Predict(make([]float32, meta.InputSize()))
	if err != nil {
		return fmt.Errorf("%w: startup test: %v", ErrModelLoadFailed, err)
	}
	if len(logits) < len(meta.Classes) {
		return fmt.Errorf("%w: startup test returned %d outputs for %d classes",
			ErrModelLoadFailed, len(logits), len(meta.Classes))
	}

	l.logger.Info("startup test passed", zap.Duration("duration", time.Since(start)))
	return nil
}

// validateModelPath checks the model artifact exists and is a regular file.
func validateModelPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty model path", ErrModelNotFound)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrModelNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelLoadFailed, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrModelLoadFailed, path)
	}
	return nil
}
