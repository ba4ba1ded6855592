// Package markovbench interprets Markov algorithms and measures their growth.
//
// # Overview
//
// A Markov algorithm is an ordered list of string rewrite rules. The engine
// repeatedly picks the first rule (in list order) whose pattern occurs anywhere
// in the current word and replaces that pattern's leftmost occurrence. It stops
// when a terminal rule fires or no rule matches. Rule priority dominates
// position: a later rule matching further left never wins.
//
// On top of the engine, the estimators run a rule set over a ladder of input
// sizes and infer an asymptotic growth class for:
//
//   - time  - number of rewrite steps
//   - space - peak word length observed during the run
//
// # Architecture
//
// The package components:
//
//   - rule/parse    - Rule values and the line grammar "pattern:replacement[.]"
//   - ruleset       - YAML rule-set files
//   - engine        - Leftmost-first rewriting loop with a step budget
//   - regression    - Closed-form least squares and R²
//   - classify      - Growth-class cascade over (n, metric) samples
//   - estimator     - Parallel sampling across input sizes
//   - assertions    - Test helpers for growth classes and run properties
//
// # Quick Start
//
// Run a rule set on a word:
//
//	rules, err := markovbench.ParseRules("a : bb\nb : a.")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	eng, err := markovbench.NewEngine(rules)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := eng.Run("a")
//	// res.FinalWord == "ab", res.Steps() == 2, res.PeakLength == 2
//
// Classify time growth over repeated base words:
//
//	sorter, _ := markovbench.ParseRules("ba : ab")
//	est, err := markovbench.EstimateTime(ctx, sorter, markovbench.Repeat("ba"), markovbench.DefaultConfig())
//	fmt.Println(est.Label) // "O(n^2)"
//
// # The Cascade
//
// Samples with a constant metric are O(1). Otherwise four least-squares
// models are tried in fixed order and the first with R² > 0.80 wins:
//
//	metric/n  ~ ln n     → O(n log n)
//	metric    ~ ln n     → O(log n)
//	ln metric ~ ln n     → O(n^p), p = slope rounded
//	ln metric ~ n        → O(b^n), b = e^slope
//
// Nothing clearing the threshold yields "?". The classifier is a heuristic:
// smaller classes are tested first and the first plausible fit is reported.
//
// # Divergence
//
// The step budget (DefaultStepBudget = 10,000) is the only guard against rule
// sets that never halt, e.g. an empty non-terminal pattern. Exhausting it
// returns an error matching ErrStepLimitExceeded; estimators abort the whole
// call rather than classify partial data.
package markovbench
