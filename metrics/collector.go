package metrics

// Collector defines the interface for recording and reading diagnosis
// telemetry. Implementations must be concurrency-safe; zero values are
// returned for unavailable metrics.
type Collector interface {
	// RecordDiagnosis logs a completed diagnose call.
	RecordDiagnosis(record DiagnosisRecord)

	// GetMetrics returns aggregated call statistics.
	GetMetrics() DiagnosisMetrics

	// GetRecentDiagnoses returns the N most recent records, newest first.
	GetRecentDiagnoses(limit int) []DiagnosisRecord

	// SetModelLoaded records whether the classifier handle is usable.
	SetModelLoaded(loaded bool)

	// GetSystemStatus returns the overall process health snapshot.
	GetSystemStatus() SystemStatus
}
