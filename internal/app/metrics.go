package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks tick loop timing. It may be read from any goroutine.
type Metrics struct {
	tickCount   atomic.Uint64
	tickTotalNs atomic.Int64
	tickMinNs   atomic.Int64
	tickMaxNs   atomic.Int64
	overruns    atomic.Uint64
	eventCount  atomic.Uint64
	reloads     atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	m.tickMinNs.Store(1<<63 - 1)
	return m
}

// RecordTick records the duration of one pipeline pass. A pass longer
// than budget counts as an overrun.
func (m *Metrics) RecordTick(d, budget time.Duration) {
	ns := d.Nanoseconds()
	m.tickCount.Add(1)
	m.tickTotalNs.Add(ns)
	if budget > 0 && d > budget {
		m.overruns.Add(1)
	}

	for {
		old := m.tickMinNs.Load()
		if ns >= old || m.tickMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.tickMaxNs.Load()
		if ns <= old || m.tickMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordEvents records gesture events produced by one pass.
func (m *Metrics) RecordEvents(n int) {
	m.eventCount.Add(uint64(n))
}

// RecordReload records a settings reload.
func (m *Metrics) RecordReload() {
	m.reloads.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	count := m.tickCount.Load()
	var avg int64
	if count > 0 {
		avg = m.tickTotalNs.Load() / int64(count)
	}
	minNs := m.tickMinNs.Load()
	if minNs == 1<<63-1 {
		minNs = 0
	}
	return MetricsSnapshot{
		Uptime:    time.Since(m.startTime),
		Ticks:     count,
		AvgTickNs: avg,
		MinTickNs: minNs,
		MaxTickNs: m.tickMaxNs.Load(),
		Overruns:  m.overruns.Load(),
		Events:    m.eventCount.Load(),
		Reloads:   m.reloads.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime    time.Duration
	Ticks     uint64
	AvgTickNs int64
	MinTickNs int64
	MaxTickNs int64
	Overruns  uint64
	Events    uint64
	Reloads   uint64
}

// OverrunRate returns the percentage of ticks that exceeded their budget.
func (s MetricsSnapshot) OverrunRate() float64 {
	if s.Ticks == 0 {
		return 0
	}
	return float64(s.Overruns) / float64(s.Ticks) * 100
}
