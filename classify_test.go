package markovbench

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func samplesOf(sizes []int, f func(n int) int) []Sample {
	out := make([]Sample, len(sizes))
	for i, n := range sizes {
		out[i] = Sample{N: n, Metric: f(n)}
	}
	return out
}

func pairs(ps ...[2]int) []Sample {
	out := make([]Sample, len(ps))
	for i, p := range ps {
		out[i] = Sample{N: p[0], Metric: p[1]}
	}
	return out
}

// TestClassify_StandardClasses verifies the cascade on exact growth curves
// over the standard scale factors.
func TestClassify_StandardClasses(t *testing.T) {
	cases := []struct {
		name string
		f    func(n int) int
		want string
	}{
		{"constant", func(int) int { return 5 }, ClassConstant},
		{"zero", func(int) int { return 0 }, ClassConstant},
		{"linear", func(n int) int { return n }, ClassLinear},
		{"linear with offset", func(n int) int { return 2*n + 3 }, ClassLinear},
		{"quadratic", func(n int) int { return n * n }, ClassQuadratic},
		{"triangular", func(n int) int { return n * (n + 1) / 2 }, ClassQuadratic},
		{"cubic", func(n int) int { return n * n * n }, ClassCubic},
		{"n log n", func(n int) int { return int(float64(n) * math.Log(float64(n))) }, ClassLinearithmic},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			samples := samplesOf(ScaleFactors, tc.f)
			got := Classify(samples)
			if got != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, got)
				PrintAnalysis(t, Estimate{Kind: KindTime, Label: got, Samples: samples})
			}
		})
	}
}

// TestClassify_Logarithmic: with metric = 10·ln n, metric/n against ln n
// already fits well, so the n log n stage claims it first. The cascade order
// is a fixed priority, not a best-fit search.
func TestClassify_Logarithmic(t *testing.T) {
	samples := samplesOf(ScaleFactors, func(n int) int { return int(10 * math.Log(float64(n))) })

	if got := Classify(samples); got != ClassLinearithmic {
		t.Errorf("Expected %s (first stage wins), got %s", ClassLinearithmic, got)
	}

	fits := Explain(samples, DefaultClassifierConfig())
	if !fits[1].Accepted || fits[1].Label != ClassLogarithmic {
		t.Errorf("log n stage should also accept, got %+v", fits[1])
	}
}

// TestClassify_LogStage verifies the log n stage when metric/n does not fit.
func TestClassify_LogStage(t *testing.T) {
	// A large constant makes metric/n behave like 1/n, which is far from
	// linear in ln n, so the second stage decides.
	samples := samplesOf(ScaleFactors, func(n int) int {
		return 1000 + int(100*math.Log(float64(n)))
	})

	if got := Classify(samples); got != ClassLogarithmic {
		t.Errorf("Expected %s, got %s", ClassLogarithmic, got)
		PrintAnalysis(t, Estimate{Kind: KindTime, Label: got, Samples: samples})
	}
}

// TestClassify_HigherPower verifies unrounded exponents outside the lookup.
func TestClassify_HigherPower(t *testing.T) {
	samples := samplesOf(ScaleFactors, func(n int) int { return n * n * n * n * n })
	got := Classify(samples)

	if !strings.HasPrefix(got, "O(n^") || !strings.HasSuffix(got, ")") {
		t.Fatalf("Expected O(n^<slope>), got %s", got)
	}
	exp, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimPrefix(got, "O(n^"), ")"), 64)
	if err != nil {
		t.Fatalf("Exponent not numeric in %s: %v", got, err)
	}
	if math.Abs(exp-5) > 1e-9 {
		t.Errorf("Expected exponent ≈5, got %v", exp)
	}
	if !strings.Contains(got, ".") {
		t.Errorf("Exponent should always carry a decimal point, got %s", got)
	}
}

// TestClassify_Exponential verifies the semi-log stage and base rendering.
func TestClassify_Exponential(t *testing.T) {
	doubling := pairs(
		[2]int{1, 1}, [2]int{2, 1}, [2]int{3, 1}, [2]int{4, 2}, [2]int{5, 4},
		[2]int{6, 8}, [2]int{7, 16}, [2]int{8, 32}, [2]int{9, 64}, [2]int{10, 128},
	)
	if got := Classify(doubling); got != ClassExponential2 {
		t.Errorf("Expected %s, got %s", ClassExponential2, got)
		PrintAnalysis(t, Estimate{Kind: KindTime, Label: got, Samples: doubling})
	}

	slower := pairs(
		[2]int{1, 1}, [2]int{2, 1}, [2]int{3, 1}, [2]int{4, 1}, [2]int{5, 1}, [2]int{6, 2},
		[2]int{7, 4}, [2]int{8, 8}, [2]int{9, 16}, [2]int{10, 32}, [2]int{11, 64}, [2]int{12, 128},
	)
	if got := Classify(slower); got != "O(1.6^n)" {
		t.Errorf("Expected O(1.6^n), got %s", got)
		PrintAnalysis(t, Estimate{Kind: KindTime, Label: got, Samples: slower})
	}
}

// TestClassify_Unknown verifies "?" when no model clears the threshold.
func TestClassify_Unknown(t *testing.T) {
	samples := samplesOf(ScaleFactors, func(n int) int {
		if n < 8 {
			return 0
		}
		return 1
	})
	if got := Classify(samples); got != ClassUnknown {
		t.Errorf("Expected %s, got %s", ClassUnknown, got)
	}
}

// TestClassify_SmallInputs covers empty and single-sample input.
func TestClassify_SmallInputs(t *testing.T) {
	if got := Classify(nil); got != ClassUnknown {
		t.Errorf("Empty samples: expected %s, got %s", ClassUnknown, got)
	}
	if got := Classify(pairs([2]int{4, 7})); got != ClassConstant {
		t.Errorf("Single sample: expected %s, got %s", ClassConstant, got)
	}
}

// TestClassifyWith_Threshold verifies the threshold is configurable.
func TestClassifyWith_Threshold(t *testing.T) {
	samples := samplesOf(ScaleFactors, func(n int) int { return n * (n + 1) / 2 })

	strict := DefaultClassifierConfig()
	strict.MinRSquared = 0.9999
	if got := ClassifyWith(samples, strict); got == ClassQuadratic {
		t.Errorf("R² > 0.9999 should reject the triangular power fit, got %s", got)
	}
}

// TestExponentialLabel verifies the base tolerance around 2.
func TestExponentialLabel(t *testing.T) {
	cfg := DefaultClassifierConfig()
	cases := []struct {
		base float64
		want string
	}{
		{2.0, ClassExponential2},
		{1.75, ClassExponential2},
		{2.25, ClassExponential2},
		{1.6, "O(1.6^n)"},
		{3.0, "O(3.0^n)"},
	}
	for _, tc := range cases {
		got := exponentialLabel(LinearFit{Slope: math.Log(tc.base)}, cfg)
		if got != tc.want {
			t.Errorf("base %.2f: expected %s, got %s", tc.base, tc.want, got)
		}
	}
}

// TestPolynomialLabel verifies rounding into the lookup table.
func TestPolynomialLabel(t *testing.T) {
	cases := []struct {
		slope float64
		want  string
	}{
		{0.2, ClassConstant},
		{0.98, ClassLinear},
		{1.9126, ClassQuadratic},
		{2.5, ClassQuadratic}, // half rounds to even
		{3.4, ClassCubic},
		{4.0, "O(n^4.0)"},
		{-1.25, "O(n^-1.25)"},
	}
	for _, tc := range cases {
		if got := polynomialLabel(LinearFit{Slope: tc.slope}, DefaultClassifierConfig()); got != tc.want {
			t.Errorf("slope %v: expected %s, got %s", tc.slope, tc.want, got)
		}
	}
}

// TestExplain_ReportsAllStages verifies diagnostics cover the whole cascade in order.
func TestExplain_ReportsAllStages(t *testing.T) {
	fits := Explain(samplesOf(ScaleFactors, func(n int) int { return n }), DefaultClassifierConfig())

	want := []string{"n log n", "log n", "polynomial", "exponential"}
	if len(fits) != len(want) {
		t.Fatalf("Expected %d stages, got %d", len(want), len(fits))
	}
	for i, sf := range fits {
		if sf.Stage != want[i] {
			t.Errorf("stage %d: expected %s, got %s", i, want[i], sf.Stage)
		}
	}
	if fits[0].Accepted || fits[1].Accepted || !fits[2].Accepted {
		t.Errorf("Unexpected acceptance pattern: %+v", fits)
	}
}
