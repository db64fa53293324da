package batch

import (
	"sync"
	"time"
)

// Metrics tracks item processing statistics
type Metrics struct {
	mu sync.Mutex

	processed int64
	succeeded int64
	failed    int64

	total time.Duration
	min   time.Duration
	max   time.Duration
}

// NewMetrics creates an empty metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordSuccess records a successfully processed item
func (m *Metrics) RecordSuccess(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.succeeded++
	m.record(d)
}

// RecordFailure records a failed item
func (m *Metrics) RecordFailure(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failed++
	m.record(d)
}

func (m *Metrics) record(d time.Duration) {
	m.processed++
	m.total += d
	if m.processed == 1 || d < m.min {
		m.min = d
	}
	if d > m.max {
		m.max = d
	}
}

// Stats returns a snapshot of the metrics
func (m *Metrics) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		Processed:   m.processed,
		Succeeded:   m.succeeded,
		Failed:      m.failed,
		MinDuration: m.min,
		MaxDuration: m.max,
	}
	if m.processed > 0 {
		s.AvgDuration = m.total / time.Duration(m.processed)
	}
	return s
}

// Stats holds batch statistics
type Stats struct {
	Processed   int64         `json:"processed"`
	Succeeded   int64         `json:"succeeded"`
	Failed      int64         `json:"failed"`
	MinDuration time.Duration `json:"min_duration"`
	MaxDuration time.Duration `json:"max_duration"`
	AvgDuration time.Duration `json:"avg_duration"`
}

// SuccessRate returns the success rate as a percentage
func (s Stats) SuccessRate() float64 {
	if s.Processed == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Processed) * 100
}
