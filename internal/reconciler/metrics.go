package reconciler

import (
	"sync/atomic"
	"time"
)

type RunMetrics struct {
	totalRuns       int64
	totalFailed     int64
	totalSkipped    int64
	totalDrifted    int64
	totalDurationNs int64
	lastRunNs       int64
}

func NewRunMetrics() *RunMetrics {
	return &RunMetrics{}
}

func (m *RunMetrics) RecordRun(duration time.Duration, drifted int) {
	atomic.AddInt64(&m.totalRuns, 1)
	atomic.AddInt64(&m.totalDrifted, int64(drifted))
	atomic.AddInt64(&m.totalDurationNs, int64(duration))
	atomic.StoreInt64(&m.lastRunNs, time.Now().UnixNano())
}

func (m *RunMetrics) RecordFailure() {
	atomic.AddInt64(&m.totalFailed, 1)
}

func (m *RunMetrics) RecordSkip() {
	atomic.AddInt64(&m.totalSkipped, 1)
}

func (m *RunMetrics) GetStats() map[string]interface{} {
	runs := atomic.LoadInt64(&m.totalRuns)
	durationNs := atomic.LoadInt64(&m.totalDurationNs)

	avg := time.Duration(0)
	if runs > 0 {
		avg = time.Duration(durationNs / runs)
	}

	stats := map[string]interface{}{
		"total_runs":      runs,
		"total_failed":    atomic.LoadInt64(&m.totalFailed),
		"total_skipped":   atomic.LoadInt64(&m.totalSkipped),
		"total_drifted":   atomic.LoadInt64(&m.totalDrifted),
		"avg_duration_ms": avg.Milliseconds(),
	}
	if last := atomic.LoadInt64(&m.lastRunNs); last > 0 {
		stats["last_run"] = time.Unix(0, last).UTC().Format(time.RFC3339)
	}
	return stats
}
