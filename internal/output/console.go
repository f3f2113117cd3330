// Package output renders run progress and the final report on the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/wesleyorama2/hakai/internal/metrics"
)

// Markers written during a run
const (
	ProgressMarker = "."
	FailureMarker  = "x"
)

// Console writes progress markers, verbose response lines and the final
// report. Workers and the aggregator share it, so every write holds mu.
type Console struct {
	mu         sync.Mutex
	writer     io.Writer
	colors     *ColorScheme
	jsonReport bool
}

// ConsoleConfig contains configuration for Console.
type ConsoleConfig struct {
	Writer      io.Writer
	NoColor     bool
	ForceColors bool
	JSON        bool
}

// NewConsole creates a console. Colors are used only on a terminal, unless
// forced or disabled.
func NewConsole(config ConsoleConfig) *Console {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}

	useColors := config.ForceColors || (!config.NoColor && isTerminal(config.Writer) && supportsColors())

	colors := NoColorScheme()
	if useColors {
		colors = DefaultColorScheme()
		colors.EnableColors()
	}

	return &Console{
		writer:     config.Writer,
		colors:     colors,
		jsonReport: config.JSON,
	}
}

// Progress prints the progress marker.
func (c *Console) Progress() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.write(c.colors.Progress.Sprint(ProgressMarker))
}

// Failure prints the failure marker.
func (c *Console) Failure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.write(c.colors.Failure.Sprint(FailureMarker))
}

// Response prints one verbose line for an executed request.
func (c *Console) Response(url string, elapsed time.Duration, bodySize int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.write(FormatResponseLine(url, elapsed, bodySize) + "\n")
}

// Report prints the final report, as text or JSON.
func (c *Console) Report(r *metrics.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.jsonReport {
		b, err := json.MarshalIndent(NewJSONReport(r), "", "  ")
		if err != nil {
			c.write(fmt.Sprintf("\nerror encoding report: %v\n", err))
			return
		}
		c.write("\n" + string(b) + "\n")
		return
	}

	c.write(c.FormatReport(r))
}

// FormatResponseLine formats a verbose response line.
func FormatResponseLine(url string, elapsed time.Duration, bodySize int64) string {
	return fmt.Sprintf("Response: url=%s, delta=%d[msec], body_size=%d[byte]",
		url, elapsed.Milliseconds(), bodySize)
}

// FormatReport renders the final report as text.
func (c *Console) FormatReport(r *metrics.Report) string {
	s := fmt.Sprintf("\nrequest count:%s, concurrency:%s, time:%s, %s req/s\n",
		c.colors.Value.Sprint(r.Requests),
		c.colors.Value.Sprint(r.Concurrency),
		c.colors.Value.Sprintf("%.3f", r.ElapsedSeconds()),
		c.colors.Highlight.Sprintf("%.3f", r.Throughput))

	s += fmt.Sprintf("%s %d\n", c.colors.Success.Sprint("SUCCESS"), r.Success)
	s += fmt.Sprintf("%s %d\n", c.colors.Error.Sprint("FAILED"), r.Failed)
	s += fmt.Sprintf("%s %.3f\n", c.colors.Label.Sprint("Average response time[ms]:"), metrics.Millis(r.Latency.Mean))
	s += fmt.Sprintf("%s min=%.3f p50=%.3f p90=%.3f p99=%.3f max=%.3f\n",
		c.colors.Label.Sprint("Latency[ms]:"),
		metrics.Millis(r.Latency.Min),
		metrics.Millis(r.Latency.P50),
		metrics.Millis(r.Latency.P90),
		metrics.Millis(r.Latency.P99),
		metrics.Millis(r.Latency.Max))

	return s
}

// write writes s and flushes buffered writers, so markers show up
// immediately during long runs. Callers hold mu.
func (c *Console) write(s string) {
	fmt.Fprint(c.writer, s)

	if f, ok := c.writer.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}
