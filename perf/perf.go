package perf

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/hakai/internal/config"
	"github.com/wesleyorama2/hakai/internal/engine"
	"github.com/wesleyorama2/hakai/internal/http"
	"github.com/wesleyorama2/hakai/internal/metrics"
)

type (
	// Scenario is a scenario document.
	Scenario = config.Scenario

	// Action is one request template of a scenario.
	Action = config.Action

	// Options are the settings of a run.
	Options = config.RunOptions

	// Report is the final summary of a run.
	Report = metrics.Report

	// Display receives progress markers and the final report.
	Display = metrics.Display

	// Executor performs one action. Every failure must be folded into the
	// returned outcome.
	Executor = engine.Executor
)

// LoadScenario reads, validates and resolves a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	return config.LoadScenario(path)
}

// Prepare applies defaults to a scenario built in code, validates it and
// substitutes its placeholders.
func Prepare(s *Scenario) error {
	config.ApplyDefaults(s)
	if err := s.Validate(); err != nil {
		return err
	}
	s.Resolve()
	return nil
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency sets the number of workers.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		r.opts.Concurrency = n
	}
}

// WithLoops sets how many times the scenario is replayed.
func WithLoops(n int) Option {
	return func(r *Runner) {
		r.opts.Loops = n
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.opts.Timeout = d
	}
}

// WithQueueSize bounds each worker queue.
func WithQueueSize(n int) Option {
	return func(r *Runner) {
		r.opts.QueueSize = n
	}
}

// WithDisplay receives live feedback and the final report.
func WithDisplay(d Display) Option {
	return func(r *Runner) {
		r.display = d
	}
}

// WithLogger sets the diagnostic logger. Logging is disabled by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithExecutor replaces the HTTP executor, mostly useful in tests.
func WithExecutor(e Executor) Option {
	return func(r *Runner) {
		r.executor = e
	}
}

// Runner runs one scenario with fixed options. A Runner may be run several
// times; each run starts from fresh counters.
type Runner struct {
	scenario Scenario
	opts     Options
	display  Display
	logger   zerolog.Logger
	executor Executor
}

// NewRunner creates a runner. Options default to one worker, one loop and
// a one second request timeout.
func NewRunner(scenario *Scenario, options ...Option) (*Runner, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is required")
	}

	r := &Runner{
		scenario: scenario.Clone(),
		opts:     config.DefaultRunOptions(),
		logger:   zerolog.Nop(),
	}

	for _, option := range options {
		option(r)
	}

	if err := r.opts.Validate(); err != nil {
		return nil, err
	}

	if r.executor == nil {
		clientOpts := []http.ClientOption{
			http.WithTimeout(r.opts.Timeout),
			http.WithLogger(r.logger),
		}
		if r.scenario.UserAgent != "" {
			clientOpts = append(clientOpts, http.WithUserAgent(r.scenario.UserAgent))
		}
		r.executor = http.NewClient(clientOpts...)
	}

	return r, nil
}

// Options returns the resolved run options.
func (r *Runner) Options() Options {
	return r.opts
}

// Run replays the scenario and returns once every outcome was aggregated.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	o, err := engine.New(r.opts, r.scenario, r.executor, r.display, r.logger)
	if err != nil {
		return nil, err
	}
	return o.Run(ctx), nil
}
