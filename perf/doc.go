// Package perf runs hakai scenarios from Go code.
//
// It wraps the same engine the hakai command uses: a fixed pool of workers
// replays a scenario Loops times, round-robin, and the outcomes are
// aggregated into a Report.
//
// # Quick Start
//
//	scenario, _ := perf.LoadScenario("scenario.yaml")
//	runner, _ := perf.NewRunner(scenario, perf.WithConcurrency(8), perf.WithLoops(1000))
//	report, _ := runner.Run(context.Background())
//
//	fmt.Printf("SUCCESS %d FAILED %d\n", report.Success, report.Failed)
//	fmt.Printf("p99: %v\n", report.Latency.P99)
//
// # Building Scenarios
//
// Scenarios can also be built in code. Call Prepare to apply defaults,
// validate and substitute %(name)% placeholders:
//
//	scenario := &perf.Scenario{
//	    Domain: "https://api.example.com",
//	    Consts: map[string]string{"version": "v1"},
//	    Actions: []perf.Action{
//	        {Method: "GET", Path: "/%(version)%/health"},
//	    },
//	}
//	if err := perf.Prepare(scenario); err != nil {
//	    return err
//	}
//
// # Live Feedback
//
// By default nothing is printed. Pass WithDisplay to receive progress
// markers and the final report, for example an output.Console from the
// command line tool or any type implementing Display.
package perf
