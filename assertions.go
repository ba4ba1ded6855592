package markovbench

import (
	"errors"
	"testing"
	"unicode/utf8"
)

// AssertGrowthClass verifies an estimation landed on the expected growth class.
//
// On mismatch the per-stage fits are logged so the failing cascade stage is visible.
func AssertGrowthClass(t *testing.T, est Estimate, want string) {
	t.Helper()

	if est.Label != want {
		t.Errorf("%s growth: got %s, want %s", est.Kind, est.Label, want)
		PrintAnalysis(t, est)
		return
	}

	t.Logf("✓ %s growth: %s over %d sizes", est.Kind, est.Label, len(est.Samples))
}

// AssertHalts runs eng on seed and fails the test unless the run halts
// within the engine's budget. It returns the result for further checks.
func AssertHalts(t *testing.T, eng *Engine, seed string) RunResult {
	t.Helper()

	res, err := eng.Run(seed)
	if err != nil {
		t.Fatalf("Run(%q) did not halt: %v", seed, err)
	}

	AssertPeakWitness(t, seed, res)
	return res
}

// AssertDiverges verifies the run exhausts its budget instead of halting.
func AssertDiverges(t *testing.T, eng *Engine, seed string) {
	t.Helper()

	res, err := eng.Run(seed)
	if err == nil {
		t.Fatalf("Run(%q) halted after %d steps with %q, expected step limit",
			seed, res.Steps(), res.FinalWord)
	}
	if !errors.Is(err, ErrStepLimitExceeded) {
		t.Fatalf("Run(%q): expected step limit error, got %v", seed, err)
	}

	t.Logf("✓ Diverges: %v", err)
}

// AssertPeakWitness verifies PeakLength and PeakWord are the true maximum over
// the seed and every traced word.
//
// Property:
//
//	PeakLength = max(len(seed), len(trace[i].Word)) ≥ len(FinalWord)
func AssertPeakWitness(t *testing.T, seed string, res RunResult) {
	t.Helper()

	want := utf8.RuneCountInString(seed)
	for _, st := range res.Trace {
		if n := utf8.RuneCountInString(st.Word); n > want {
			want = n
		}
	}

	if res.PeakLength != want {
		t.Errorf("PeakLength = %d, true maximum is %d", res.PeakLength, want)
	}
	if got := utf8.RuneCountInString(res.PeakWord); got != res.PeakLength {
		t.Errorf("PeakWord %q has length %d, PeakLength is %d", res.PeakWord, got, res.PeakLength)
	}
	if final := utf8.RuneCountInString(res.FinalWord); res.PeakLength < final {
		t.Errorf("PeakLength %d below final word length %d", res.PeakLength, final)
	}
}

// PrintAnalysis outputs the samples and every cascade stage's fit to the test log.
func PrintAnalysis(t *testing.T, est Estimate) {
	t.Helper()

	cfg := DefaultClassifierConfig()

	t.Logf("\n=== %s growth analysis ===", est.Kind)
	t.Logf("  n      metric")
	t.Logf("  -----  ----------")
	for _, s := range est.Samples {
		t.Logf("  %-5d  %10d", s.N, s.Metric)
	}

	t.Logf("\nCascade (threshold R² > %.2f):", cfg.MinRSquared)
	for _, sf := range Explain(est.Samples, cfg) {
		mark := "✗"
		if sf.Accepted {
			mark = "✓"
		}
		t.Logf("  %s %-12s slope=%9.4f intercept=%9.4f R²=%.4f → %s",
			mark, sf.Stage, sf.Fit.Slope, sf.Fit.Intercept, sf.Fit.RSquared, sf.Label)
	}
	t.Logf("\nResult: %s", est.Label)
}
