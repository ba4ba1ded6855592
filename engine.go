package markovbench

import (
	"strings"
	"unicode/utf8"
)

// DefaultStepBudget bounds every run. It is the only guard against divergent rule sets.
const DefaultStepBudget = 10_000

// TraceStep records the word after one successful rewrite.
type TraceStep struct {
	Step     int    `json:"step"`               // 1-based
	Word     string `json:"word"`               // State after this step
	Rule     string `json:"rule"`               // "pattern:replacement" of the applied rule
	Terminal bool   `json:"terminal,omitempty"` // Applied rule ended the run
}

// RunResult is everything a run produces. Peak fields are the space witness:
// the longest word seen across the seed and every intermediate state.
type RunResult struct {
	FinalWord  string
	Trace      []TraceStep
	PeakLength int
	PeakWord   string
}

// Steps returns the number of rewrites performed.
func (r RunResult) Steps() int {
	return len(r.Trace)
}

// Option configures an Engine.
type Option func(*Engine)

// WithStepBudget overrides DefaultStepBudget. Non-positive values are ignored.
func WithStepBudget(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.budget = n
		}
	}
}

// Engine applies an ordered rule list to subject words.
//
// An Engine is immutable after construction and holds no per-run state, so Run
// may be called concurrently.
type Engine struct {
	rules  []Rule
	budget int
}

// NewEngine builds an engine over rules. Rule order is priority order.
func NewEngine(rules []Rule, opts ...Option) (*Engine, error) {
	if len(rules) == 0 {
		return nil, &ValidationError{Reason: "no rules"}
	}

	e := &Engine{
		rules:  append([]Rule(nil), rules...),
		budget: DefaultStepBudget,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Rules returns a copy of the engine's rule list.
func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// StepBudget returns the maximum number of rewrites per run.
func (e *Engine) StepBudget() int {
	return e.budget
}

// match returns the first rule (in list order) whose pattern occurs in word and
// the byte offset of its leftmost occurrence. Rule priority dominates position.
func (e *Engine) match(word string) (Rule, int, bool) {
	for _, r := range e.rules {
		if pos := strings.Index(word, r.Pattern); pos >= 0 {
			return r, pos, true
		}
	}
	return Rule{}, -1, false
}

// Run rewrites seed until no rule matches or a terminal rule fires.
// It fails with a *StepLimitError when the budget runs out first.
func (e *Engine) Run(seed string) (RunResult, error) {
	word := seed
	peakWord := seed
	peakLen := utf8.RuneCountInString(seed)
	trace := make([]TraceStep, 0)

	for step := 1; step <= e.budget; step++ {
		rule, pos, ok := e.match(word)
		if !ok {
			return RunResult{FinalWord: word, Trace: trace, PeakLength: peakLen, PeakWord: peakWord}, nil
		}

		word = word[:pos] + rule.Replacement + word[pos+len(rule.Pattern):]

		if n := utf8.RuneCountInString(word); n > peakLen {
			peakLen = n
			peakWord = word
		}

		trace = append(trace, TraceStep{
			Step:     step,
			Word:     word,
			Rule:     rule.Descriptor(),
			Terminal: rule.Terminal,
		})

		if rule.Terminal {
			return RunResult{FinalWord: word, Trace: trace, PeakLength: peakLen, PeakWord: peakWord}, nil
		}
	}

	return RunResult{}, &StepLimitError{Budget: e.budget, Word: word}
}

// Interpret parses rule text and runs it on word. Blank text is a no-op:
// the word comes back unchanged with an empty trace.
func Interpret(text, word string, opts ...Option) (RunResult, error) {
	if strings.TrimSpace(text) == "" {
		return RunResult{
			FinalWord:  word,
			Trace:      []TraceStep{},
			PeakLength: utf8.RuneCountInString(word),
			PeakWord:   word,
		}, nil
	}

	rules, err := ParseRules(text)
	if err != nil {
		return RunResult{}, err
	}

	eng, err := NewEngine(rules, opts...)
	if err != nil {
		return RunResult{}, err
	}
	return eng.Run(word)
}
