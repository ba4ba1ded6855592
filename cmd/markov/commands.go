package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexshd/markovbench"
	"github.com/alexshd/markovbench/server"
)

const shutdownTimeout = 10 * time.Second

func addRuleFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.StringVarP(&opts.rulesFile, "rules", "r", "", "file with rule text")
	f.StringVarP(&opts.rulesetFile, "ruleset", "f", "", "YAML rule set file")
	f.StringArrayVarP(&opts.exprs, "expr", "e", nil, "rule line (repeatable, in priority order)")
	f.StringVarP(&opts.word, "word", "w", "", "seed word (overrides the rule set's word)")
	f.BoolVar(&opts.json, "json", false, "print JSON")
	cmd.MarkFlagsMutuallyExclusive("rules", "ruleset", "expr")
}

// loadInput resolves rule text and word from whichever source was given.
func loadInput(cmd *cobra.Command, opts *options) (text, word string, err error) {
	word = opts.word

	switch {
	case opts.rulesetFile != "":
		rs, err := markovbench.LoadRuleSet(opts.rulesetFile)
		if err != nil {
			return "", "", err
		}
		if !cmd.Flags().Changed("word") {
			word = rs.Word
		}
		return rs.Text(), word, nil

	case opts.rulesFile != "":
		data, err := os.ReadFile(opts.rulesFile)
		if err != nil {
			return "", "", fmt.Errorf("read rules: %w", err)
		}
		return string(data), word, nil

	default:
		return strings.Join(opts.exprs, "\n"), word, nil
	}
}

func newRunCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Rewrite a word until a terminal rule fires or no rule matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, word, err := loadInput(cmd, opts)
			if err != nil {
				return err
			}

			res, err := markovbench.Interpret(text, word, markovbench.WithStepBudget(opts.budget))
			if err != nil {
				return err
			}
			slog.Debug("run finished", "steps", res.Steps(), "peak", res.PeakLength)

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, server.RunResponse{
					Output: res.FinalWord,
					Steps:  res.Steps(),
					Trace:  res.Trace,
				})
			}

			if opts.trace {
				fmt.Fprintf(out, "%5d  %q\n", 0, word)
				for _, st := range res.Trace {
					fmt.Fprintf(out, "%5d  %q  (%s)\n", st.Step, st.Word, ruleLabel(st))
				}
			}
			fmt.Fprintf(out, "output: %q\nsteps:  %d\npeak:   %d (%q)\n",
				res.FinalWord, res.Steps(), res.PeakLength, res.PeakWord)
			return nil
		},
	}

	addRuleFlags(cmd, opts)
	cmd.Flags().BoolVarP(&opts.trace, "trace", "t", false, "print every step")
	return cmd
}

func ruleLabel(st markovbench.TraceStep) string {
	if st.Terminal {
		return st.Rule + markovbench.TerminalMarker
	}
	return st.Rule
}

func newEstimateCmd(opts *options, kind string) *cobra.Command {
	short := "Estimate how the rewrite step count grows with input size"
	if kind == string(markovbench.KindSpace) {
		short = "Estimate how the peak word length grows with input size"
	}

	cmd := &cobra.Command{
		Use:   kind,
		Short: short,
		Long: short + `.

The word is repeated once per size (default sizes 2,4,8,...,128), each
repetition is run on a fresh engine, and the samples are classified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, word, err := loadInput(cmd, opts)
			if err != nil {
				return err
			}

			cfg := estimatorConfig(opts)
			estimateFn := markovbench.EstimateTimeText
			if kind == string(markovbench.KindSpace) {
				estimateFn = markovbench.EstimateSpaceText
			}

			est, err := estimateFn(cmd.Context(), text, word, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				resp := server.EstimateResponse{BigO: est.Label, Samples: est.Samples}
				if est.Kind == markovbench.KindSpace {
					resp.Words = est.Words
				}
				return writeJSON(out, resp)
			}
			return printEstimate(out, est, cfg.Classifier, opts.verbose)
		},
	}

	addRuleFlags(cmd, opts)
	cmd.Flags().IntSliceVar(&opts.sizes, "sizes", markovbench.ScaleFactors, "input sizes (repetitions of the word)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "max concurrent runs (0 = one per size)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "print every cascade stage's fit")
	return cmd
}

func estimatorConfig(opts *options) markovbench.Config {
	cfg := markovbench.DefaultConfig()
	if len(opts.sizes) > 0 {
		cfg.Sizes = opts.sizes
	}
	if opts.budget > 0 {
		cfg.StepBudget = opts.budget
	}
	cfg.Workers = opts.workers
	cfg.Logger = slog.Default()
	return cfg
}

func printEstimate(w io.Writer, est markovbench.Estimate, cfg markovbench.ClassifierConfig, verbose bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "n\t%s\t\n", est.Kind)
	for _, s := range est.Samples {
		fmt.Fprintf(tw, "%d\t%d\t\n", s.N, s.Metric)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(w, "\ncascade (R² > %.2f):\n", cfg.MinRSquared)
		for _, sf := range markovbench.Explain(est.Samples, cfg) {
			mark := " "
			if sf.Accepted {
				mark = "*"
			}
			fmt.Fprintf(w, "  %s %-12s slope=%.4f R²=%.4f  %s\n",
				mark, sf.Stage, sf.Fit.Slope, sf.Fit.RSquared, sf.Label)
		}
	}

	fmt.Fprintf(w, "\n%s: %s\n", est.Kind, est.Label)
	return nil
}

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API (/api/run, /api/time, /api/space, /metrics)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr: opts.addr,
				Handler: server.New(
					server.WithLogger(slog.Default()),
					server.WithEstimatorConfig(estimatorConfig(opts)),
				),
				ReadHeaderTimeout: 5 * time.Second,
			}
			return serve(ctx, srv)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "max concurrent runs per estimation (0 = one per size)")
	return cmd
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
