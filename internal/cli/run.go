package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/hakai/internal/config"
	"github.com/wesleyorama2/hakai/internal/engine"
	"github.com/wesleyorama2/hakai/internal/history"
	"github.com/wesleyorama2/hakai/internal/http"
	"github.com/wesleyorama2/hakai/internal/metrics"
	"github.com/wesleyorama2/hakai/internal/output"
)

// runAttack loads the scenario and runs it. Configuration errors abort
// before any worker starts.
func runAttack(cmd *cobra.Command, scenarioFile string, opts config.RunOptions) error {
	logger, closeLog := newLogger(cmd.ErrOrStderr(), opts)
	defer closeLog()

	if err := opts.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid options")
		return fmt.Errorf("invalid options: %w", err)
	}

	scenario, err := config.LoadScenario(scenarioFile)
	if err != nil {
		logger.Error().Err(err).Str("file", scenarioFile).Msg("cannot load scenario")
		return fmt.Errorf("cannot load scenario: %w", err)
	}

	console := output.NewConsole(output.ConsoleConfig{
		Writer:  cmd.OutOrStdout(),
		NoColor: opts.NoColor,
		JSON:    opts.JSON,
	})

	clientOpts := []http.ClientOption{
		http.WithTimeout(opts.Timeout),
		http.WithUserAgent(scenario.UserAgent),
		http.WithLogger(logger),
	}
	if opts.Verbose {
		clientOpts = append(clientOpts, http.WithResponseLogger(console))
	}
	client := http.NewClient(clientOpts...)

	orchestrator, err := engine.New(opts, *scenario, client, console, logger)
	if err != nil {
		logger.Error().Err(err).Msg("cannot create engine")
		return err
	}

	report := orchestrator.Run(cmd.Context())
	logRunSummary(logger, report)

	if opts.History != "" {
		saveHistory(logger, opts, scenarioFile, scenario, orchestrator.RunID(), report)
	}

	return nil
}

// saveHistory records the report in the history file. A history failure
// does not fail the run; the report was already printed.
func saveHistory(logger zerolog.Logger, opts config.RunOptions, scenarioFile string, scenario *config.Scenario, runID string, report *metrics.Report) {
	store, err := history.Open(opts.History)
	if err != nil {
		logger.Warn().Err(err).Msg("cannot save run history")
		return
	}
	defer store.Close()

	err = store.Save(history.Entry{
		ID:          runID,
		Timestamp:   report.StartTime,
		Scenario:    scenarioFile,
		Domain:      scenario.Domain,
		Concurrency: opts.Concurrency,
		Loops:       opts.Loops,
		Report:      report,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("cannot save run history")
		return
	}

	logger.Debug().Str("file", store.Path()).Msg("run saved to history")
}

// logRunSummary warns when nothing succeeded, which usually means the
// domain is wrong or the target is down.
func logRunSummary(logger zerolog.Logger, report *metrics.Report) {
	if report.Requests > 0 && report.Success == 0 {
		logger.Warn().
			Int64("failed", report.Failed).
			Msg("no request succeeded")
	}
}
