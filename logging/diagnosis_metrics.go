package logging

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// DiagnosisMetrics captures telemetry for one classification call.
// Implements zapcore.ObjectMarshaler so it can be logged as a nested
// object: logger.Info("diagnosis complete", zap.Object("metrics", m)).
type DiagnosisMetrics struct {
	// Backend identifies the inference backend ("local" or "remote")
	Backend string `json:"backend"`

	// Label is the diagnosed condition
	Label string `json:"label"`

	// Confidence is the reported top-1 confidence percentage (0-100)
	Confidence float64 `json:"confidence"`

	// ImageBytes is the size of the submitted image
	ImageBytes int `json:"image_bytes"`

	// Duration is the total time taken for the call
	Duration time.Duration `json:"duration"`

	// AdvisoryFound indicates knowledge base coverage for the label
	AdvisoryFound bool `json:"advisory_found"`
}

// MarshalLogObject implements zapcore.ObjectMarshaler. Duration is encoded
// in milliseconds for readability.
func (m DiagnosisMetrics) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("backend", m.Backend)
	enc.AddString("label", m.Label)
	enc.AddFloat64("confidence", m.Confidence)
	enc.AddInt("image_bytes", m.ImageBytes)
	enc.AddInt64("duration_ms", m.Duration.Milliseconds())
	enc.AddBool("advisory_found", m.AdvisoryFound)
	return nil
}
