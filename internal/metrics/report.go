package metrics

import (
	"time"
)

// Report is the final summary of a run.
type Report struct {
	Requests    int64         `json:"requests"`
	Concurrency int           `json:"concurrency"`
	Success     int64         `json:"success"`
	Failed      int64         `json:"failed"`
	Elapsed     time.Duration `json:"elapsed"`
	Throughput  float64       `json:"throughput"`
	Latency     LatencyStats  `json:"latency"`
	StartTime   time.Time     `json:"startTime"`
	EndTime     time.Time     `json:"endTime"`
}

// LatencyStats summarizes request latencies. Mean is exact; the
// percentiles come from the HDR histogram.
type LatencyStats struct {
	Mean time.Duration `json:"mean"`
	Min  time.Duration `json:"min"`
	Max  time.Duration `json:"max"`
	P50  time.Duration `json:"p50"`
	P90  time.Duration `json:"p90"`
	P99  time.Duration `json:"p99"`
}

// ElapsedSeconds returns the run duration in seconds.
func (r *Report) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

// Millis converts a duration to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
