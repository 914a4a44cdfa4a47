// Package metrics provides pure data types and in-memory storage for
// diagnosis telemetry. Nothing here is persisted; the store exists for the
// dashboard surface and is rebuilt empty on every process start.
package metrics

import "time"

// DiagnosisRecord represents a single diagnose call.
// This is a pure data structure for tracking individual classifications.
type DiagnosisRecord struct {
	// ID is the unique identifier for this call
	ID string `json:"id"`

	// Label is the diagnosed condition (empty on failure)
	Label string `json:"label,omitempty"`

	// Confidence is the reported top-1 confidence percentage (0-100)
	Confidence float64 `json:"confidence,omitempty"`

	// AdvisoryFound indicates whether the knowledge base covered the label
	AdvisoryFound bool `json:"advisory_found"`

	// Status indicates the outcome: "success" or "error"
	Status string `json:"status"`

	// StartTime is when the call began
	StartTime time.Time `json:"start_time"`

	// EndTime is when the call completed
	EndTime time.Time `json:"end_time,omitempty"`

	// Duration is the total call time
	Duration time.Duration `json:"duration"`

	// ErrorMsg contains error details if Status is "error"
	ErrorMsg string `json:"error_msg,omitempty"`
}

// LabelMetrics represents aggregated statistics for one diagnosed label.
type LabelMetrics struct {
	// Count is the number of successful diagnoses of this label
	Count int64 `json:"count"`

	// AvgConfidence is the mean reported confidence (0-100)
	AvgConfidence float64 `json:"avg_confidence"`

	// AvgDuration is the mean call duration for this label
	AvgDuration time.Duration `json:"avg_duration"`
}

// DiagnosisMetrics represents aggregated call statistics.
type DiagnosisMetrics struct {
	// TotalProcessed is the total number of diagnose calls
	TotalProcessed int64 `json:"total_processed"`

	// TotalSuccess is the count of successful calls
	TotalSuccess int64 `json:"total_success"`

	// TotalErrors is the count of failed calls
	TotalErrors int64 `json:"total_errors"`

	// AdvisoryMisses counts successful diagnoses with no advisory coverage
	AdvisoryMisses int64 `json:"advisory_misses"`

	// ByLabel contains per-label statistics
	ByLabel map[string]*LabelMetrics `json:"by_label"`
}

// SystemStatus represents overall process health for the dashboard.
type SystemStatus struct {
	// Health indicates the system state: "running", "error", "stopped"
	Health string `json:"health"`

	// Version is the application version string
	Version string `json:"version"`

	// ModelLoaded indicates whether the classifier handle is usable
	ModelLoaded bool `json:"model_loaded"`

	// Uptime is the duration since process start
	Uptime time.Duration `json:"uptime"`

	// LastCheck is the timestamp of this status snapshot
	LastCheck time.Time `json:"last_check"`
}

// Status constants for DiagnosisRecord
const (
	DiagnosisStatusSuccess = "success"
	DiagnosisStatusError   = "error"
)

// Health constants for SystemStatus
const (
	SystemHealthRunning = "running"
	SystemHealthError   = "error"
	SystemHealthStopped = "stopped"
)
