package engine

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/wesleyorama2/hakai/internal/config"
	"github.com/wesleyorama2/hakai/internal/metrics"
)

func TestAssignedTasks(t *testing.T) {
	tests := []struct {
		loops, size int
		want        []int
	}{
		{10, 3, []int{4, 3, 3}},
		{9, 3, []int{3, 3, 3}},
		{2, 4, []int{1, 1, 0, 0}},
		{0, 2, []int{0, 0}},
		{5, 1, []int{5}},
	}

	for _, tt := range tests {
		got := make([]int, tt.size)
		for i := range got {
			got[i] = AssignedTasks(tt.loops, tt.size, i)
		}
		assert.Equal(t, tt.want, got, "loops=%d size=%d", tt.loops, tt.size)
	}
}

func TestAssignedTasks_SumProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		loops := rapid.IntRange(0, 10000).Draw(t, "loops")
		size := rapid.IntRange(1, 64).Draw(t, "size")

		sum := 0
		for i := 0; i < size; i++ {
			sum += AssignedTasks(loops, size, i)
		}
		if sum != loops {
			t.Fatalf("sum = %d, want %d", sum, loops)
		}
	})
}

func TestWorkerPool_DispatchRouting(t *testing.T) {
	exec := &fakeExecutor{}
	capacity := func(i int) int { return AssignedTasks(7, 3, i) }
	pool := NewWorkerPool(3, capacity, exec, zerolog.Nop())

	results := make(chan metrics.Outcome, 7)
	scenario := testScenario("/ok")
	for i := 0; i < 7; i++ {
		pool.Dispatch(NewTask(i, testOptions(3, 7), scenario, results))
	}

	// Tasks queue up before the workers start; dispatch must not block.
	pool.Start(context.Background())
	pool.Start(context.Background())
	pool.Stop()
	pool.Wait()
	close(results)

	workers := map[int]int{}
	for o := range results {
		assert.True(t, o.Success)
		workers[o.Worker]++
	}
	assert.Equal(t, map[int]int{0: 3, 1: 2, 2: 2}, workers)
}

func TestWorkerPool_UnresolvableURL(t *testing.T) {
	exec := &fakeExecutor{}
	pool := NewWorkerPool(1, func(int) int { return 1 }, exec, zerolog.Nop())

	results := make(chan metrics.Outcome, 1)
	scenario := config.Scenario{
		Domain:  "http://example.test",
		Actions: []config.Action{{Path: "%zz", Method: "GET"}},
	}

	pool.Start(context.Background())
	pool.Dispatch(NewTask(0, testOptions(1, 1), scenario, results))
	pool.Stop()
	pool.Wait()

	outcome := <-results
	assert.False(t, outcome.Success)
	require.Error(t, outcome.Err)
	assert.Equal(t, 0, exec.count(), "no request for an unresolvable URL")
}

func TestNewTask_ClonesScenario(t *testing.T) {
	scenario := testScenario("/a")
	task := NewTask(0, testOptions(1, 1), scenario, nil)

	task.Scenario.Actions[0].Path = "/changed"
	assert.Equal(t, "/a", scenario.Actions[0].Path)
}
