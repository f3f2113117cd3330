package output

import (
	"time"

	"github.com/wesleyorama2/hakai/internal/metrics"
)

// JSONReport is the machine-readable form of the final report. Durations
// are in milliseconds.
type JSONReport struct {
	Requests       int64       `json:"requests"`
	Concurrency    int         `json:"concurrency"`
	Success        int64       `json:"success"`
	Failed         int64       `json:"failed"`
	ElapsedSeconds float64     `json:"elapsedSeconds"`
	Throughput     float64     `json:"throughput"`
	Latency        JSONLatency `json:"latencyMs"`
	StartTime      string      `json:"startTime"`
	EndTime        string      `json:"endTime"`
}

// JSONLatency holds latency statistics in milliseconds.
type JSONLatency struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
	P99  float64 `json:"p99"`
}

// NewJSONReport converts a report to its JSON form.
func NewJSONReport(r *metrics.Report) JSONReport {
	return JSONReport{
		Requests:       r.Requests,
		Concurrency:    r.Concurrency,
		Success:        r.Success,
		Failed:         r.Failed,
		ElapsedSeconds: r.ElapsedSeconds(),
		Throughput:     r.Throughput,
		Latency: JSONLatency{
			Mean: metrics.Millis(r.Latency.Mean),
			Min:  metrics.Millis(r.Latency.Min),
			Max:  metrics.Millis(r.Latency.Max),
			P50:  metrics.Millis(r.Latency.P50),
			P90:  metrics.Millis(r.Latency.P90),
			P99:  metrics.Millis(r.Latency.P99),
		},
		StartTime: r.StartTime.Format(time.RFC3339Nano),
		EndTime:   r.EndTime.Format(time.RFC3339Nano),
	}
}
