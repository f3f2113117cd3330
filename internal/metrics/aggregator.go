package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// ProgressEvery is the number of outcomes between two progress markers.
	ProgressEvery = 100

	// Histogram range: 1 microsecond to 1 hour, 3 significant figures
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// Display receives the aggregator's live feedback and its final report.
type Display interface {
	// Progress is called after a run of ProgressEvery outcomes ending in a success
	Progress()

	// Failure is called for every failed outcome
	Failure()

	// Report is called once, after the terminator
	Report(r *Report)
}

// Aggregator is the single consumer of the results channel and the only
// writer of the run statistics, so none of its fields need locking.
type Aggregator struct {
	concurrency int
	display     Display

	success     int64
	fail        int64
	sinceMarker int
	latencySum  time.Duration
	latencyHist *hdrhistogram.Histogram

	startTime time.Time
	endTime   time.Time
}

// NewAggregator creates an aggregator for a run with the given concurrency.
// A nil display discards feedback.
func NewAggregator(concurrency int, display Display) *Aggregator {
	if display == nil {
		display = nopDisplay{}
	}
	return &Aggregator{
		concurrency: concurrency,
		display:     display,
		latencyHist: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
	}
}

// Run consumes outcomes until results is closed, then hands the final report
// to the display and returns it.
func (a *Aggregator) Run(results <-chan Outcome) *Report {
	a.startTime = time.Now()

	for outcome := range results {
		a.Record(outcome)
	}

	a.endTime = time.Now()

	report := a.Report()
	a.display.Report(report)
	return report
}

// Record counts one outcome and emits progress feedback.
func (a *Aggregator) Record(o Outcome) {
	a.sinceMarker++

	a.latencySum += o.Elapsed
	latencyMicros := o.Elapsed.Microseconds()
	if latencyMicros < histogramMin {
		latencyMicros = histogramMin
	}
	if latencyMicros > histogramMax {
		latencyMicros = histogramMax
	}
	// Values are clamped to the histogram range, so this cannot fail.
	_ = a.latencyHist.RecordValue(latencyMicros)

	if o.Success {
		a.success++
		if a.sinceMarker >= ProgressEvery {
			a.display.Progress()
			a.sinceMarker = 0
		}
		return
	}

	a.fail++
	a.display.Failure()
}

// Report builds the statistics seen so far. The end time is the moment the
// terminator was observed, or now if the run is still going.
func (a *Aggregator) Report() *Report {
	end := a.endTime
	if end.IsZero() {
		end = time.Now()
	}

	total := a.success + a.fail
	elapsed := end.Sub(a.startTime)

	r := &Report{
		Requests:    total,
		Concurrency: a.concurrency,
		Success:     a.success,
		Failed:      a.fail,
		Elapsed:     elapsed,
		StartTime:   a.startTime,
		EndTime:     end,
	}

	if elapsed > 0 && total > 0 {
		r.Throughput = float64(total) / elapsed.Seconds()
	}

	if total > 0 {
		r.Latency = LatencyStats{
			Mean: a.latencySum / time.Duration(total),
			Min:  time.Duration(a.latencyHist.Min()) * time.Microsecond,
			Max:  time.Duration(a.latencyHist.Max()) * time.Microsecond,
			P50:  time.Duration(a.latencyHist.ValueAtQuantile(50)) * time.Microsecond,
			P90:  time.Duration(a.latencyHist.ValueAtQuantile(90)) * time.Microsecond,
			P99:  time.Duration(a.latencyHist.ValueAtQuantile(99)) * time.Microsecond,
		}
	}

	return r
}

type nopDisplay struct{}

func (nopDisplay) Progress()        {}
func (nopDisplay) Failure()         {}
func (nopDisplay) Report(r *Report) {}
