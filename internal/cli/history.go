package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wesleyorama2/hakai/internal/history"
	"github.com/wesleyorama2/hakai/internal/output"
)

// historyEntryJSON is the JSON form of one saved run.
type historyEntryJSON struct {
	ID          string            `json:"id"`
	Timestamp   string            `json:"timestamp"`
	Scenario    string            `json:"scenario"`
	Domain      string            `json:"domain"`
	Concurrency int               `json:"concurrency"`
	Loops       int               `json:"loops"`
	Report      output.JSONReport `json:"report"`
}

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [RUN_ID]",
		Short: "List saved runs, or print one as JSON",
		Long: `history reads the file given by --history (or HAKAI_HISTORY).
Without arguments it lists the most recent runs; with a run id it prints
that run's report as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			path := v.GetString("history")
			if path == "" {
				return fmt.Errorf("no history file: set --history or %s_HISTORY", envPrefix)
			}

			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				entry, err := store.Get(args[0])
				if err != nil {
					return err
				}
				return printHistoryEntry(cmd.OutOrStdout(), entry)
			}

			entries, err := store.List(v.GetInt("limit"))
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "number of runs to list (0 = all)")
	if err := v.BindPFlag("limit", cmd.Flags().Lookup("limit")); err != nil {
		panic(fmt.Sprintf("cannot bind flags: %v", err))
	}

	return cmd
}

func printHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no runs saved")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSTARTED\tCONCURRENCY\tREQUESTS\tSUCCESS\tFAILED\tREQ/S\tSCENARIO")
	for _, e := range entries {
		var requests, success, failed int64
		var throughput float64
		if e.Report != nil {
			requests, success, failed = e.Report.Requests, e.Report.Success, e.Report.Failed
			throughput = e.Report.Throughput
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%.3f\t%s\n",
			e.ID, e.Timestamp.Local().Format(time.DateTime), e.Concurrency,
			requests, success, failed, throughput, e.Scenario)
	}
	tw.Flush()
}

func printHistoryEntry(w io.Writer, e *history.Entry) error {
	view := historyEntryJSON{
		ID:          e.ID,
		Timestamp:   e.Timestamp.Format(time.RFC3339Nano),
		Scenario:    e.Scenario,
		Domain:      e.Domain,
		Concurrency: e.Concurrency,
		Loops:       e.Loops,
	}
	if e.Report != nil {
		view.Report = output.NewJSONReport(e.Report)
	}

	b, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
