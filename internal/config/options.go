package config

import (
	"fmt"
	"time"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = time.Second

// RunOptions are the per-process settings of a run. The value is copied into
// every dispatched task and never mutated after startup.
type RunOptions struct {
	// Concurrency is the number of workers
	Concurrency int

	// Loops is the total number of scenario repetitions
	Loops int

	// Verbose prints one line per request
	Verbose bool

	// Timeout bounds each request, including reading the response body
	Timeout time.Duration

	// QueueSize caps each worker queue. Zero sizes every queue to hold all
	// tasks assigned to its worker, so dispatch never blocks.
	QueueSize int

	// NoColor disables colored terminal output
	NoColor bool

	// JSON prints the final report as JSON instead of text
	JSON bool

	// LogFile additionally writes diagnostics as JSON lines to a rotated file
	LogFile string

	// History is the run history file the report is saved to, if set
	History string
}

// DefaultRunOptions returns the options used when no flag overrides them.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		Concurrency: 1,
		Loops:       1,
		Timeout:     DefaultTimeout,
	}
}

// Validate reports options that would prevent a run from starting.
func (o RunOptions) Validate() error {
	errs := &ValidationErrors{}

	if o.Concurrency < 1 {
		errs.Add("concurrency", fmt.Sprintf("must be at least 1, got %d", o.Concurrency))
	}
	if o.Loops < 0 {
		errs.Add("loops", fmt.Sprintf("cannot be negative, got %d", o.Loops))
	}
	if o.Timeout <= 0 {
		errs.Add("timeout", fmt.Sprintf("must be positive, got %s", o.Timeout))
	}
	if o.QueueSize < 0 {
		errs.Add("queue-size", fmt.Sprintf("cannot be negative, got %d", o.QueueSize))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
