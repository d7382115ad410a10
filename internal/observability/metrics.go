package observability

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates per-operation counters for the scheduling engine.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64
	conflicts     atomic.Int64
	notifications atomic.Int64

	operations map[string]*OperationMetrics
}

// OperationMetrics holds counters for a single operation name.
type OperationMetrics struct {
	executionCount atomic.Int64
	totalDuration  atomic.Int64 // milliseconds
	errorCount     atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{operations: make(map[string]*OperationMetrics)}
}

// RecordRequest records one invocation of op.
func (m *Metrics) RecordRequest(op string, duration time.Duration, err error) {
	m.requestTotal.Add(1)
	om := m.operation(op)
	om.executionCount.Add(1)
	om.totalDuration.Add(duration.Milliseconds())
	if err != nil {
		m.requestFailed.Add(1)
		om.errorCount.Add(1)
	}
}

// RecordConflict records a lost optimistic-concurrency race.
func (m *Metrics) RecordConflict() {
	m.conflicts.Add(1)
}

// RecordNotification records an emitted notification snapshot.
func (m *Metrics) RecordNotification() {
	m.notifications.Add(1)
}

func (m *Metrics) operation(op string) *OperationMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	om, ok := m.operations[op]
	if !ok {
		om = &OperationMetrics{}
		m.operations[op] = om
	}
	return om
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)
	m.conflicts.Store(0)
	m.notifications.Store(0)

	m.mu.Lock()
	m.operations = make(map[string]*OperationMetrics)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the counters.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	ops := make(map[string]OperationSnapshot, len(m.operations))
	for name, om := range m.operations {
		count := om.executionCount.Load()
		snap := OperationSnapshot{
			ExecutionCount: count,
			TotalDuration:  om.totalDuration.Load(),
			ErrorCount:     om.errorCount.Load(),
		}
		if count > 0 {
			snap.AverageDuration = snap.TotalDuration / count
		}
		ops[name] = snap
	}

	return &MetricsSnapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		Conflicts:     m.conflicts.Load(),
		Notifications: m.notifications.Load(),
		Operations:    ops,
	}
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	RequestTotal  int64
	RequestFailed int64
	Conflicts     int64
	Notifications int64
	Operations    map[string]OperationSnapshot
}

// OperationSnapshot is the copied state of one operation's counters.
type OperationSnapshot struct {
	ExecutionCount  int64
	TotalDuration   int64
	ErrorCount      int64
	AverageDuration int64
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}

// OperationNames returns the recorded operation names in sorted order.
func (s *MetricsSnapshot) OperationNames() []string {
	names := make([]string, 0, len(s.Operations))
	for name := range s.Operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
