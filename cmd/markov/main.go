// Command markov runs Markov algorithms and estimates their time and space growth.
//
//	markov run   -e "a : bb" -e "b : a." -w a --trace
//	markov time  -f examples/rulesets/bubble-sort.yaml
//	markov space -r rules.txt -w ab --sizes 1,2,4,8 --json
//	markov serve --addr :8080
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

// options collects every flag; subcommands read the ones they register.
type options struct {
	logLevel string
	budget   int

	rulesFile   string
	rulesetFile string
	exprs       []string
	word        string

	sizes   []int
	workers int
	json    bool
	verbose bool
	trace   bool

	addr string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "markov",
		Short: "Interpret Markov algorithms and estimate their growth",
		Long: `markov rewrites words with ordered Markov algorithm rules and
estimates how step count (time) and peak word length (space) grow with input size.

Rule grammar, one rule per line, in priority order:

  pattern : replacement      ordinary rule
  pattern : replacement .    terminal rule`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().IntVar(&opts.budget, "budget", 0, "step budget per run (0 = default 10000)")

	root.AddCommand(
		newRunCmd(opts),
		newEstimateCmd(opts, "time"),
		newEstimateCmd(opts, "space"),
		newServeCmd(opts),
	)
	return root
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: "15:04:05",
	})), nil
}
