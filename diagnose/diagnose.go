package diagnose

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ricedoctor/classifier"
	"ricedoctor/knowledge"
	"ricedoctor/logging"
	"ricedoctor/metrics"
)

// HandleProvider yields the process-wide model handle. classifier.Loader
// satisfies this; tests substitute stubs.
type HandleProvider interface {
	Acquire(ctx context.Context) (*classifier.Handle, error)
}

// Result is the complete outcome of one successful diagnose call: the
// top-1 diagnosis plus the treatment advisory, which is explicitly absent
// when the classifier knows a label the knowledge base does not cover.
type Result struct {
	Diagnosis Diagnosis          `json:"diagnosis"`
	Advisory  knowledge.Advisory `json:"advisory"`
}

// Orchestrator runs the diagnostic pipeline. One call is one attempt: no
// internal retries, failures propagate to the caller, and the staged image
// is released on every exit path. Per-call failures never corrupt the
// shared model handle.
type Orchestrator struct {
	provider   HandleProvider
	engine     *classifier.Engine
	kb         *knowledge.Base
	collector  metrics.Collector
	stagingDir string
	logger     *zap.Logger
}

// NewOrchestrator wires the pipeline. collector may be nil when no metrics
// are wanted; logger may be nil to disable logging.
func NewOrchestrator(
	provider HandleProvider,
	engine *classifier.Engine,
	kb *knowledge.Base,
	collector metrics.Collector,
	stagingDir string,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		provider:   provider,
		engine:     engine,
		kb:         kb,
		collector:  collector,
		stagingDir: stagingDir,
		logger:     logger,
	}
}

// Diagnose classifies one in-memory image and resolves its advisory.
func (o *Orchestrator) Diagnose(ctx context.Context, imageData []byte) (Result, error) {
	callID := uuid.New().String()
	start := time.Now()

	result, backend, err := o.diagnose(ctx, imageData)
	o.record(callID, result, start, err)

	if err != nil {
		o.logger.Warn("diagnosis failed",
			zap.String("call_id", callID),
			zap.Int("image_bytes", len(imageData)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return Result{}, err
	}

	o.logger.Info("diagnosis complete",
		zap.String("call_id", callID),
		zap.Object("metrics", logging.DiagnosisMetrics{
			Backend:       backend,
			Label:         result.Diagnosis.Label,
			Confidence:    result.Diagnosis.Confidence,
			ImageBytes:    len(imageData),
			Duration:      time.Since(start),
			AdvisoryFound: result.Advisory.Available,
		}),
	)
	return result, nil
}

func (o *Orchestrator) diagnose(ctx context.Context, imageData []byte) (Result, string, error) {
	handle, err := o.provider.Acquire(ctx)
	if err != nil {
		return Result{}, "", err
	}
	backend := handle.BackendName()

	staged, err := Stage(o.stagingDir, imageData)
	if err != nil {
		return Result{}, backend, err
	}
	// Release on every exit path, including inference failure.
	defer func() {
		if releaseErr := staged.Release(); releaseErr != nil {
			o.logger.Warn("failed to release staged image",
				zap.String("path", staged.Path()),
				zap.Error(releaseErr),
			)
		}
	}()

	dist, err := o.engine.Classify(ctx, handle, staged.Path())
	if err != nil {
		return Result{}, backend, err
	}

	diagnosis, err := Interpret(dist)
	if err != nil {
		return Result{}, backend, err
	}

	return Result{
		Diagnosis: diagnosis,
		Advisory:  o.kb.Lookup(diagnosis.Label),
	}, backend, nil
}

func (o *Orchestrator) record(callID string, result Result, start time.Time, err error) {
	if o.collector == nil {
		return
	}

	record := metrics.DiagnosisRecord{
		ID:        callID,
		StartTime: start,
		EndTime:   time.Now(),
	}
	record.Duration = record.EndTime.Sub(start)

	if err != nil {
		record.Status = metrics.DiagnosisStatusError
		record.ErrorMsg = err.Error()
	} else {
		record.Status = metrics.DiagnosisStatusSuccess
		record.Label = result.Diagnosis.Label
		record.Confidence = result.Diagnosis.Confidence
		record.AdvisoryFound = result.Advisory.Available
	}

	o.collector.RecordDiagnosis(record)
}
