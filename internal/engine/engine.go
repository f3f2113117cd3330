// Package engine runs a scenario with a fixed pool of workers and collects
// the outcomes into a report.
package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wesleyorama2/hakai/internal/config"
	"github.com/wesleyorama2/hakai/internal/metrics"
)

// Orchestrator owns a run: it creates the aggregator and the worker pool,
// hands out one task per loop and shuts both down in order.
//
// Example usage:
//
//	scenario, _ := config.LoadScenario("scenario.yaml")
//	o, _ := engine.New(opts, *scenario, client, console, logger)
//	report := o.Run(context.Background())
type Orchestrator struct {
	opts     config.RunOptions
	scenario config.Scenario
	executor Executor
	display  metrics.Display
	logger   zerolog.Logger
	runID    string

	pool *WorkerPool
}

// New creates an orchestrator. It fails on options that cannot start a run.
func New(opts config.RunOptions, scenario config.Scenario, executor Executor, display metrics.Display, logger zerolog.Logger) (*Orchestrator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if executor == nil {
		return nil, fmt.Errorf("executor is required")
	}

	runID := uuid.NewString()

	return &Orchestrator{
		opts:     opts,
		scenario: scenario.Clone(),
		executor: executor,
		display:  display,
		logger:   logger.With().Str("run_id", runID).Logger(),
		runID:    runID,
	}, nil
}

// RunID identifies this run in log output.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// Pool returns the worker pool of the last run, or nil before Run.
func (o *Orchestrator) Pool() *WorkerPool {
	return o.pool
}

// Run executes Loops scenario repetitions and returns the final report once
// the aggregator has printed it.
//
// Shutdown order matters: worker queues are closed after the last dispatch,
// the results channel is closed only after every worker exited, and Run
// returns only after the aggregator consumed the terminator.
func (o *Orchestrator) Run(ctx context.Context) *metrics.Report {
	o.logger.Info().
		Str("domain", o.scenario.Domain).
		Int("concurrency", o.opts.Concurrency).
		Int("loops", o.opts.Loops).
		Int("actions", len(o.scenario.Actions)).
		Msg("starting run")

	resultsBuffer := o.opts.Concurrency * len(o.scenario.Actions)
	results := make(chan metrics.Outcome, resultsBuffer)

	aggregator := metrics.NewAggregator(o.opts.Concurrency, o.display)
	reportCh := make(chan *metrics.Report, 1)
	go func() {
		reportCh <- aggregator.Run(results)
	}()

	o.pool = NewWorkerPool(o.opts.Concurrency, o.queueCapacity, o.executor, o.logger)
	o.pool.Start(ctx)

	for i := 0; i < o.opts.Loops; i++ {
		o.pool.Dispatch(NewTask(i, o.opts, o.scenario, results))
	}

	o.pool.Stop()
	o.pool.Wait()

	close(results)
	report := <-reportCh

	o.logger.Info().
		Int64("requests", report.Requests).
		Int64("success", report.Success).
		Int64("failed", report.Failed).
		Dur("elapsed", report.Elapsed).
		Msg("run finished")

	return report
}

// queueCapacity sizes worker i's queue. Without an explicit bound the queue
// holds every task the worker will receive, so dispatch never blocks.
func (o *Orchestrator) queueCapacity(i int) int {
	if o.opts.QueueSize > 0 {
		return o.opts.QueueSize
	}
	return AssignedTasks(o.opts.Loops, o.opts.Concurrency, i)
}
