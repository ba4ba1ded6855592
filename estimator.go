package markovbench

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ScaleFactors is the standard size ladder: repetition factors applied to a base word.
var ScaleFactors = []int{2, 4, 8, 16, 32, 64, 128}

// Kind selects the metric an estimation measures.
type Kind string

const (
	KindTime  Kind = "time"  // Rewrite steps
	KindSpace Kind = "space" // Peak word length
)

// WordBuilder produces the subject word for input size n.
// It is called from multiple goroutines and must be safe for concurrent use.
type WordBuilder func(n int) string

// Estimate is the outcome of one estimation call.
type Estimate struct {
	Kind    Kind
	Label   string         // Growth class, e.g. "O(n^2)"
	Samples []Sample       // In Config.Sizes order
	Words   map[int]string // Built subject word per size
}

// Config controls estimation.
type Config struct {
	Sizes      []int            // Input sizes to sample (default: ScaleFactors)
	StepBudget int              // Per-run step budget (0 = DefaultStepBudget)
	Workers    int              // Max concurrent runs (0 = one goroutine per size)
	Classifier ClassifierConfig // Cascade thresholds
	Logger     *slog.Logger     // nil discards
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Sizes:      append([]int(nil), ScaleFactors...),
		StepBudget: DefaultStepBudget,
		Workers:    0,
		Classifier: DefaultClassifierConfig(),
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// EstimateTime classifies how the rewrite step count grows with input size.
func EstimateTime(ctx context.Context, rules []Rule, build WordBuilder, cfg Config) (Estimate, error) {
	return estimate(ctx, KindTime, rules, build, cfg)
}

// EstimateSpace classifies how the peak word length grows with input size.
func EstimateSpace(ctx context.Context, rules []Rule, build WordBuilder, cfg Config) (Estimate, error) {
	return estimate(ctx, KindSpace, rules, build, cfg)
}

func estimate(ctx context.Context, kind Kind, rules []Rule, build WordBuilder, cfg Config) (Estimate, error) {
	if len(rules) == 0 || build == nil {
		return Estimate{}, ErrMissingInput
	}
	if len(cfg.Sizes) == 0 {
		return Estimate{}, &ValidationError{Reason: "no input sizes"}
	}
	for _, n := range cfg.Sizes {
		if n < 1 {
			return Estimate{}, &ValidationError{Reason: fmt.Sprintf("input size %d must be at least 1", n)}
		}
	}

	log := cfg.logger().With("kind", string(kind))

	samples, words, err := collect(ctx, kind, rules, build, cfg)
	if err != nil {
		log.Warn("estimation aborted", "error", err)
		return Estimate{}, err
	}

	label := ClassifyWith(samples, cfg.Classifier)
	log.Info("estimation complete", "label", label, "sizes", len(samples))

	return Estimate{
		Kind:    kind,
		Label:   label,
		Samples: samples,
		Words:   words,
	}, nil
}

// collect runs one fresh engine per size. Runs share nothing, so they fan out
// freely; results land at their size's index, which keeps Sizes order. Any
// failure cancels the remaining sizes and fails the whole call.
func collect(ctx context.Context, kind Kind, rules []Rule, build WordBuilder, cfg Config) ([]Sample, map[int]string, error) {
	log := cfg.logger()
	samples := make([]Sample, len(cfg.Sizes))
	built := make([]string, len(cfg.Sizes))

	g, gCtx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}

	for i, n := range cfg.Sizes {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			word := build(n)
			eng, err := NewEngine(rules, WithStepBudget(cfg.StepBudget))
			if err != nil {
				return fmt.Errorf("failed at n=%d: %w", n, err)
			}

			res, err := eng.Run(word)
			if err != nil {
				return fmt.Errorf("failed at n=%d: %w", n, err)
			}

			metric := res.Steps()
			if kind == KindSpace {
				metric = res.PeakLength
			}

			samples[i] = Sample{N: n, Metric: metric}
			built[i] = word
			log.Debug("sample collected", "kind", string(kind), "n", n, "metric", metric)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	words := make(map[int]string, len(built))
	for i, n := range cfg.Sizes {
		words[n] = built[i]
	}
	return samples, words, nil
}

// Repeat builds words by repeating base n times.
func Repeat(base string) WordBuilder {
	return func(n int) string {
		return strings.Repeat(base, n)
	}
}

// EstimateTimeText parses rule text and estimates time growth over repetitions of word.
// Both text and word are required.
func EstimateTimeText(ctx context.Context, text, word string, cfg Config) (Estimate, error) {
	return estimateText(ctx, KindTime, text, word, cfg)
}

// EstimateSpaceText is EstimateTimeText for peak word length.
func EstimateSpaceText(ctx context.Context, text, word string, cfg Config) (Estimate, error) {
	return estimateText(ctx, KindSpace, text, word, cfg)
}

func estimateText(ctx context.Context, kind Kind, text, word string, cfg Config) (Estimate, error) {
	if text == "" || word == "" {
		return Estimate{}, ErrMissingInput
	}

	rules, err := ParseRules(text)
	if err != nil {
		return Estimate{}, err
	}
	if len(rules) == 0 {
		return Estimate{}, &ValidationError{Reason: "no rules"}
	}

	return estimate(ctx, kind, rules, Repeat(word), cfg)
}
