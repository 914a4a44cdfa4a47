package metrics

import (
	"sync"
	"time"
)

// Store is the in-memory Collector implementation: a circular buffer of
// recent diagnosis records plus running aggregates. Thread-safe.
type Store struct {
	mu sync.RWMutex

	// Circular history buffer
	history []DiagnosisRecord
	cap     int
	head    int
	size    int

	// Aggregates
	totalCalls     int64
	totalSuccess   int64
	totalErrors    int64
	advisoryMisses int64
	byLabel        map[string]*labelStats

	// System metadata
	startTime   time.Time
	version     string
	modelLoaded bool
}

// labelStats holds per-label aggregation data
type labelStats struct {
	count           int64
	totalConfidence float64
	totalDuration   time.Duration
}

// StoreConfig configures the Store behavior.
type StoreConfig struct {
	// HistoryCapacity is the max number of records to retain
	HistoryCapacity int
	// Version is the application version string
	Version string
}

// DefaultStoreConfig returns a default configuration.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		HistoryCapacity: 100,
		Version:         "0.0.0",
	}
}

// NewStore creates a Store. The startTime is used to calculate uptime.
func NewStore(config StoreConfig, startTime time.Time) *Store {
	capacity := config.HistoryCapacity
	if capacity < 1 {
		capacity = 100
	}

	return &Store{
		history:   make([]DiagnosisRecord, capacity),
		cap:       capacity,
		byLabel:   make(map[string]*labelStats),
		startTime: startTime,
		version:   config.Version,
	}
}

// RecordDiagnosis implements Collector.
func (s *Store) RecordDiagnosis(record DiagnosisRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[s.head] = record
	s.head = (s.head + 1) % s.cap
	if s.size < s.cap {
		s.size++
	}

	s.totalCalls++
	switch record.Status {
	case DiagnosisStatusSuccess:
		s.totalSuccess++
		if !record.AdvisoryFound {
			s.advisoryMisses++
		}

		stats, ok := s.byLabel[record.Label]
		if !ok {
			stats = &labelStats{}
			s.byLabel[record.Label] = stats
		}
		stats.count++
		stats.totalConfidence += record.Confidence
		stats.totalDuration += record.Duration

	case DiagnosisStatusError:
		s.totalErrors++
	}
}

// GetMetrics implements Collector.
func (s *Store) GetMetrics() DiagnosisMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byLabel := make(map[string]*LabelMetrics, len(s.byLabel))
	for label, stats := range s.byLabel {
		byLabel[label] = &LabelMetrics{
			Count:         stats.count,
			AvgConfidence: stats.totalConfidence / float64(stats.count),
			AvgDuration:   stats.totalDuration / time.Duration(stats.count),
		}
	}

	return DiagnosisMetrics{
		TotalProcessed: s.totalCalls,
		TotalSuccess:   s.totalSuccess,
		TotalErrors:    s.totalErrors,
		AdvisoryMisses: s.advisoryMisses,
		ByLabel:        byLabel,
	}
}

// GetRecentDiagnoses implements Collector. Records are returned newest
// first; limit <= 0 returns everything retained.
func (s *Store) GetRecentDiagnoses(limit int) []DiagnosisRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > s.size {
		limit = s.size
	}

	records := make([]DiagnosisRecord, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (s.head - 1 - i + s.cap) % s.cap
		records = append(records, s.history[idx])
	}
	return records
}

// SetModelLoaded implements Collector.
func (s *Store) SetModelLoaded(loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modelLoaded = loaded
}

// GetSystemStatus implements Collector.
func (s *Store) GetSystemStatus() SystemStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	health := SystemHealthRunning
	if !s.modelLoaded {
		health = SystemHealthError
	}

	return SystemStatus{
		Health:      health,
		Version:     s.version,
		ModelLoaded: s.modelLoaded,
		Uptime:      time.Since(s.startTime),
		LastCheck:   time.Now(),
	}
}
