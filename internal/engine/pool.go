package engine

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/hakai/internal/config"
	"github.com/wesleyorama2/hakai/internal/metrics"
)

// Executor performs a single action against a resolved URL.
// Implementations must fold every failure into the returned Outcome.
type Executor interface {
	Execute(ctx context.Context, url string, action config.Action) metrics.Outcome
}

// Worker drains its own task queue, running one scenario at a time.
type Worker struct {
	// ID is the worker's index in the pool
	ID int

	queue    chan Task
	executor Executor
	logger   zerolog.Logger

	// Tasks counts the scenarios this worker completed. Only read it after
	// the pool has been waited on.
	Tasks int
}

// run is the worker loop. It returns once the queue is closed and drained.
func (w *Worker) run(ctx context.Context) {
	for task := range w.queue {
		w.runScenario(ctx, task)
		w.Tasks++
	}
	w.logger.Debug().Int("tasks", w.Tasks).Msg("worker stopped")
}

// runScenario executes every action of the task in document order and sends
// each outcome as soon as it is known.
func (w *Worker) runScenario(ctx context.Context, task Task) {
	for _, action := range task.Scenario.Actions {
		var outcome metrics.Outcome

		url, err := task.Scenario.URLFor(action)
		if err != nil {
			outcome = metrics.Outcome{URL: action.Path, Err: err}
			w.logger.Debug().Err(err).Str("path", action.Path).Msg("cannot resolve action URL")
		} else {
			outcome = w.executor.Execute(ctx, url, action)
		}

		outcome.Worker = w.ID
		task.Results <- outcome
	}
}

// WorkerPool is a fixed set of workers, each with a dedicated queue.
// Task i is always routed to worker i mod size.
type WorkerPool struct {
	workers []*Worker
	wg      sync.WaitGroup
	started bool
}

// NewWorkerPool creates size workers. capacity(i) gives the queue capacity of
// worker i.
func NewWorkerPool(size int, capacity func(i int) int, executor Executor, logger zerolog.Logger) *WorkerPool {
	p := &WorkerPool{
		workers: make([]*Worker, size),
	}

	for i := 0; i < size; i++ {
		p.workers[i] = &Worker{
			ID:       i,
			queue:    make(chan Task, capacity(i)),
			executor: executor,
			logger:   logger.With().Str("component", "worker").Int("worker", i).Logger(),
		}
	}

	return p
}

// Size returns the number of workers.
func (p *WorkerPool) Size() int {
	return len(p.workers)
}

// Workers returns the pool's workers.
func (p *WorkerPool) Workers() []*Worker {
	return p.workers
}

// Start launches one goroutine per worker.
func (p *WorkerPool) Start(ctx context.Context) {
	if p.started {
		return
	}
	p.started = true

	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.run(ctx)
		}(w)
	}
}

// Dispatch enqueues a task on worker Index mod Size. It blocks only when that
// worker's queue is bounded and full.
func (p *WorkerPool) Dispatch(task Task) {
	p.workers[task.Index%len(p.workers)].queue <- task
}

// Stop signals every worker that no more tasks will arrive. Workers finish
// what is already queued before exiting. Stop must be called once, after the
// last Dispatch.
func (p *WorkerPool) Stop() {
	for _, w := range p.workers {
		close(w.queue)
	}
}

// Wait blocks until every worker has exited.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// AssignedTasks returns how many of loops round-robin tasks land on worker i
// of a pool of the given size.
func AssignedTasks(loops, size, i int) int {
	n := loops / size
	if i < loops%size {
		n++
	}
	return n
}
