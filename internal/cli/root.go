package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/wesleyorama2/hakai/internal/config"
)

var version = "0.1.0"

// envPrefix prefixes environment variables that provide flag defaults,
// e.g. HAKAI_MAX_REQUEST=10.
const envPrefix = "HAKAI"

// RootCmd represents the base command
var RootCmd = NewRootCmd()

// NewRootCmd builds the hakai command with its flags bound to viper, so each
// flag can also be set through the environment.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "hakai [options] CONFIG_FILE.yaml",
		Short:   "Replay an HTTP scenario with a pool of concurrent workers",
		Version: version,
		Long: `hakai replays the requests of a scenario document against a target origin.
The scenario is repeated --loop times, spread round-robin over --max-request
workers, and a summary of successes, failures, latency and throughput is
printed at the end.

Every flag may also be set with an environment variable, for example
HAKAI_MAX_REQUEST=10 or HAKAI_TIMEOUT=2s.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid past this point; further errors are not usage errors.
			cmd.SilenceUsage = true
			return runAttack(cmd, args[0], optionsFromViper(v))
		},
	}

	defaults := config.DefaultRunOptions()
	flags := cmd.Flags()
	flags.IntP("max-request", "c", defaults.Concurrency, "max concurrency request")
	flags.IntP("loop", "n", defaults.Loops, "scenario exec N-loop")
	flags.BoolP("verbose", "v", false, "verbose log")
	flags.DurationP("timeout", "t", defaults.Timeout, "per-request timeout")
	flags.Int("queue-size", 0, "bound each worker queue (0 = unbounded)")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("json", false, "print the final report as JSON")
	flags.String("log-file", "", "also write diagnostics to this file, rotated at 10MB")
	cmd.PersistentFlags().String("history", "", "run history file; each report is saved there")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("cannot bind flags: %v", err))
	}
	if err := v.BindPFlags(cmd.PersistentFlags()); err != nil {
		panic(fmt.Sprintf("cannot bind flags: %v", err))
	}

	cmd.AddCommand(newHistoryCmd(v))

	return cmd
}

// optionsFromViper resolves run options from flags and environment.
func optionsFromViper(v *viper.Viper) config.RunOptions {
	return config.RunOptions{
		Concurrency: v.GetInt("max-request"),
		Loops:       v.GetInt("loop"),
		Verbose:     v.GetBool("verbose"),
		Timeout:     v.GetDuration("timeout"),
		QueueSize:   v.GetInt("queue-size"),
		NoColor:     v.GetBool("no-color"),
		JSON:        v.GetBool("json"),
		LogFile:     v.GetString("log-file"),
		History:     v.GetString("history"),
	}
}

// Log file rotation limits
const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
	logFileMaxAgeDays = 7
)

// newLogger creates the diagnostic logger. Diagnostics go to w, normally
// stderr, so they never interleave with the report on stdout. With a log
// file they are also written there as JSON; the returned func closes it.
func newLogger(w io.Writer, opts config.RunOptions) (zerolog.Logger, func() error) {
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    opts.NoColor,
	}

	closeLog := func() error { return nil }
	if opts.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   opts.LogFile,
			MaxSize:    logFileMaxSizeMB,
			MaxBackups: logFileMaxBackups,
			MaxAge:     logFileMaxAgeDays,
		}
		out = zerolog.MultiLevelWriter(out, file)
		closeLog = file.Close
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), closeLog
}

// Execute runs the root command.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
