package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// recordingDisplay captures markers in the order the aggregator emits them.
type recordingDisplay struct {
	markers strings.Builder
	reports []*Report
}

func (d *recordingDisplay) Progress()        { d.markers.WriteString(".") }
func (d *recordingDisplay) Failure()         { d.markers.WriteString("x") }
func (d *recordingDisplay) Report(r *Report) { d.reports = append(d.reports, r) }

func outcomes(success bool, n int, elapsed time.Duration) []Outcome {
	out := make([]Outcome, n)
	for i := range out {
		out[i] = Outcome{Success: success, Elapsed: elapsed}
	}
	return out
}

func runAll(a *Aggregator, in []Outcome) *Report {
	ch := make(chan Outcome, len(in))
	for _, o := range in {
		ch <- o
	}
	close(ch)
	return a.Run(ch)
}

func TestAggregator_ProgressMarkers(t *testing.T) {
	tests := []struct {
		name    string
		input   []Outcome
		markers string
	}{
		{
			name:    "no outcomes",
			input:   nil,
			markers: "",
		},
		{
			name:    "fewer than a hundred successes",
			input:   outcomes(true, 99, time.Millisecond),
			markers: "",
		},
		{
			name:    "exactly a hundred successes",
			input:   outcomes(true, 100, time.Millisecond),
			markers: ".",
		},
		{
			name:    "two hundred and fifty successes",
			input:   outcomes(true, 250, time.Millisecond),
			markers: "..",
		},
		{
			name:    "every failure is marked",
			input:   outcomes(false, 5, time.Millisecond),
			markers: "xxxxx",
		},
		{
			name: "failures count toward the next marker",
			input: append(append(outcomes(true, 50, time.Millisecond),
				outcomes(false, 60, time.Millisecond)...),
				outcomes(true, 1, time.Millisecond)...),
			markers: strings.Repeat("x", 60) + ".",
		},
		{
			name: "a failure at the hundredth outcome delays the marker",
			input: append(append(outcomes(true, 99, time.Millisecond),
				outcomes(false, 1, time.Millisecond)...),
				outcomes(true, 1, time.Millisecond)...),
			markers: "x.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			display := &recordingDisplay{}
			runAll(NewAggregator(1, display), tt.input)
			assert.Equal(t, tt.markers, display.markers.String())
		})
	}
}

func TestAggregator_Report(t *testing.T) {
	display := &recordingDisplay{}
	a := NewAggregator(4, display)

	in := append(outcomes(true, 3, 10*time.Millisecond), outcomes(false, 1, 30*time.Millisecond)...)
	report := runAll(a, in)

	require.Len(t, display.reports, 1, "the report is displayed exactly once")
	assert.Same(t, report, display.reports[0])

	assert.Equal(t, int64(4), report.Requests)
	assert.Equal(t, 4, report.Concurrency)
	assert.Equal(t, int64(3), report.Success)
	assert.Equal(t, int64(1), report.Failed)
	assert.Equal(t, 15*time.Millisecond, report.Latency.Mean)
	assert.InDelta(t, float64(10*time.Millisecond), float64(report.Latency.Min), float64(50*time.Microsecond))
	assert.InDelta(t, float64(30*time.Millisecond), float64(report.Latency.Max), float64(50*time.Microsecond))
	assert.False(t, report.EndTime.Before(report.StartTime))
	assert.GreaterOrEqual(t, report.Throughput, 0.0)
}

func TestAggregator_EmptyRun(t *testing.T) {
	display := &recordingDisplay{}
	report := runAll(NewAggregator(2, display), nil)

	assert.Equal(t, int64(0), report.Requests)
	assert.Equal(t, int64(0), report.Success)
	assert.Equal(t, int64(0), report.Failed)
	assert.Equal(t, 0.0, report.Throughput)
	assert.Equal(t, time.Duration(0), report.Latency.Mean)
	require.Len(t, display.reports, 1)
}

func TestAggregator_NilDisplay(t *testing.T) {
	a := NewAggregator(1, nil)
	report := runAll(a, outcomes(false, 3, time.Millisecond))
	assert.Equal(t, int64(3), report.Failed)
}

func TestAggregator_ClampsLatency(t *testing.T) {
	a := NewAggregator(1, nil)
	a.Record(Outcome{Success: true, Elapsed: 0})
	a.Record(Outcome{Success: true, Elapsed: 2 * time.Hour})

	r := a.Report()
	assert.Equal(t, int64(2), r.Requests)
	assert.Equal(t, time.Microsecond, r.Latency.Min)
	assert.Equal(t, time.Hour, r.Latency.Mean)
}

func TestAggregator_CountsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		results := rapid.SliceOfN(rapid.Bool(), 0, 500).Draw(t, "results")

		in := make([]Outcome, len(results))
		wantSuccess, wantFail := 0, 0
		for i, ok := range results {
			in[i] = Outcome{Success: ok, Elapsed: time.Millisecond}
			if ok {
				wantSuccess++
			} else {
				wantFail++
			}
		}

		display := &recordingDisplay{}
		report := runAll(NewAggregator(1, display), in)

		if report.Success != int64(wantSuccess) || report.Failed != int64(wantFail) {
			t.Fatalf("got %d/%d, want %d/%d", report.Success, report.Failed, wantSuccess, wantFail)
		}
		if report.Requests != int64(len(results)) {
			t.Fatalf("requests = %d, want %d", report.Requests, len(results))
		}

		markers := display.markers.String()
		if got := strings.Count(markers, "x"); got != wantFail {
			t.Fatalf("failure markers = %d, want %d", got, wantFail)
		}
		if got := strings.Count(markers, "."); got > len(results)/ProgressEvery {
			t.Fatalf("progress markers = %d, exceeds %d", got, len(results)/ProgressEvery)
		}
	})
}
