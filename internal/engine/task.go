package engine

import (
	"github.com/wesleyorama2/hakai/internal/config"
	"github.com/wesleyorama2/hakai/internal/metrics"
)

// Task is one scenario repetition dispatched to exactly one worker.
//
// Options and Scenario are copies owned by the task, so workers never share
// mutable state through them.
type Task struct {
	// Index is the repetition number, 0-based
	Index int

	Options  config.RunOptions
	Scenario config.Scenario

	// Results is the shared outcome channel of the run
	Results chan<- metrics.Outcome
}

// NewTask builds the task for repetition index.
func NewTask(index int, opts config.RunOptions, scenario config.Scenario, results chan<- metrics.Outcome) Task {
	return Task{
		Index:    index,
		Options:  opts,
		Scenario: scenario.Clone(),
		Results:  results,
	}
}
