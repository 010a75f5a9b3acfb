// Package metrics records render and export timings for neuralx.
//
// Metrics are collected in-memory with atomic operations. Collection is on by
// default and can be disabled with NEURALX_METRICS=0. The program logs a
// summary through pkg/debug when it exits.
//
//	func (m Model) View() string {
//	    defer metrics.Timer(metrics.RenderReader)()
//	    ...
//	}
package metrics

import (
	"os"
	"sort"
	"sync/atomic"
	"time"

	"github.com/vanderheijden86/neuralx/pkg/debug"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("NEURALX_METRICS") != "0")
}

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric tracks timing statistics for a named operation.
type TimingMetric struct {
	name    string
	count   atomic.Int64
	totalNs atomic.Int64
	maxNs   atomic.Int64
	minNs   atomic.Int64 // 0 means not set
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record records a single measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.totalNs.Add(ns)

	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.minNs.Load()
		if old != 0 && ns >= old {
			break
		}
		if m.minNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string {
	return m.name
}

// Count returns the number of recorded measurements.
func (m *TimingMetric) Count() int64 {
	return m.count.Load()
}

// Stats returns a snapshot of the metric.
func (m *TimingMetric) Stats() TimingStats {
	count := m.count.Load()
	total := m.totalNs.Load()
	var avg int64
	if count > 0 {
		avg = total / count
	}
	return TimingStats{
		Name:    m.name,
		Count:   count,
		TotalMs: float64(total) / 1e6,
		AvgMs:   float64(avg) / 1e6,
		MaxMs:   float64(m.maxNs.Load()) / 1e6,
		MinMs:   float64(m.minNs.Load()) / 1e6,
	}
}

// Reset clears all recorded measurements.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.totalNs.Store(0)
	m.maxNs.Store(0)
	m.minNs.Store(0)
}

// TimingStats holds a snapshot of timing statistics.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer returns a function that records elapsed time when called.
func Timer(m *TimingMetric) func() {
	if !Enabled() || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

// Timing metrics for the views and exporters.
var (
	RenderLanding   = newTimingMetric("render_landing")
	RenderReader    = newTimingMetric("render_reader")
	RenderDashboard = newTimingMetric("render_dashboard")
	ReaderLayout    = newTimingMetric("reader_layout")
	ExportChart     = newTimingMetric("export_chart")
	ExportSQLite    = newTimingMetric("export_sqlite")
	ExportText      = newTimingMetric("export_text")
)

// AllTimingMetrics returns all registered timing metrics.
func AllTimingMetrics() []*TimingMetric {
	return []*TimingMetric{
		RenderLanding,
		RenderReader,
		RenderDashboard,
		ReaderLayout,
		ExportChart,
		ExportSQLite,
		ExportText,
	}
}

// ResetAll resets all timing metrics.
func ResetAll() {
	for _, m := range AllTimingMetrics() {
		m.Reset()
	}
}

// AllTimingStats returns stats for metrics that have data, slowest total first.
func AllTimingStats() []TimingStats {
	var stats []TimingStats
	for _, m := range AllTimingMetrics() {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalMs > stats[j].TotalMs
	})
	return stats
}

// LogSummary writes every non-empty metric to the debug log.
func LogSummary() {
	if !debug.Enabled() {
		return
	}
	for _, s := range AllTimingStats() {
		debug.Log("metric %s: n=%d avg=%.3fms max=%.3fms total=%.3fms",
			s.Name, s.Count, s.AvgMs, s.MaxMs, s.TotalMs)
	}
}
