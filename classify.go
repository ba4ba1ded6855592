package markovbench

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Growth class labels.
const (
	ClassConstant     = "O(1)"
	ClassLogarithmic  = "O(log n)"
	ClassLinearithmic = "O(n log n)"
	ClassLinear       = "O(n)"
	ClassQuadratic    = "O(n^2)"
	ClassCubic        = "O(n^3)"
	ClassExponential2 = "O(2^n)"
	ClassUnknown      = "?"
)

// Heuristic classifier constants.
const (
	DefaultMinRSquared   = 0.80 // A model must explain more than this share of variance
	DefaultBaseTolerance = 0.3  // |base − 2| below this reports O(2^n)
)

// polynomialClasses maps a rounded power-law exponent to its label.
var polynomialClasses = map[int]string{
	0: ClassConstant,
	1: ClassLinear,
	2: ClassQuadratic,
	3: ClassCubic,
}

// Sample is one measurement: metric observed for input size N.
type Sample struct {
	N      int `json:"n"`
	Metric int `json:"metric"`
}

// ClassifierConfig holds the cascade thresholds.
type ClassifierConfig struct {
	MinRSquared   float64
	BaseTolerance float64
}

// DefaultClassifierConfig returns the standard thresholds.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MinRSquared:   DefaultMinRSquared,
		BaseTolerance: DefaultBaseTolerance,
	}
}

// stage is one model in the cascade: a transform of the samples into (x, y)
// points and a label derived from the fitted line.
type stage struct {
	name  string
	x     func(s Sample) float64
	y     func(s Sample) float64
	label func(fit LinearFit, cfg ClassifierConfig) string
}

// cascade is evaluated top to bottom; the first stage whose fit clears
// MinRSquared decides the class.
var cascade = []stage{
	{
		name:  "n log n",
		x:     logN,
		y:     func(s Sample) float64 { return float64(s.Metric) / float64(s.N) },
		label: func(LinearFit, ClassifierConfig) string { return ClassLinearithmic },
	},
	{
		name:  "log n",
		x:     logN,
		y:     func(s Sample) float64 { return float64(s.Metric) },
		label: func(LinearFit, ClassifierConfig) string { return ClassLogarithmic },
	},
	{
		name:  "polynomial",
		x:     logN,
		y:     logMetric,
		label: polynomialLabel,
	},
	{
		name:  "exponential",
		x:     func(s Sample) float64 { return float64(s.N) },
		y:     logMetric,
		label: exponentialLabel,
	},
}

func logN(s Sample) float64 {
	return math.Log(float64(s.N))
}

// logMetric treats ln(0) as 0.
func logMetric(s Sample) float64 {
	if s.Metric <= 0 {
		return 0
	}
	return math.Log(float64(s.Metric))
}

func polynomialLabel(fit LinearFit, _ ClassifierConfig) string {
	p := math.RoundToEven(fit.Slope)
	if label, ok := polynomialClasses[int(p)]; ok {
		return label
	}
	return "O(n^" + formatExponent(fit.Slope) + ")"
}

func exponentialLabel(fit LinearFit, cfg ClassifierConfig) string {
	base := math.Exp(fit.Slope)
	if math.Abs(base-2) < cfg.BaseTolerance {
		return ClassExponential2
	}
	return fmt.Sprintf("O(%.1f^n)", base)
}

// formatExponent prints the shortest exact form of v, always with a decimal point.
func formatExponent(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// StageFit is the diagnostic record of one cascade stage.
type StageFit struct {
	Stage    string
	Fit      LinearFit
	Accepted bool   // Fit cleared MinRSquared
	Label    string // Label this stage would report
}

// Classify infers a growth class from samples using the default thresholds.
func Classify(samples []Sample) string {
	return ClassifyWith(samples, DefaultClassifierConfig())
}

// ClassifyWith infers a growth class from samples ordered by size.
//
// Constant metrics are O(1). Otherwise each cascade model is fitted in turn:
// metric/n against ln n (n log n), metric against ln n (log n), ln metric
// against ln n (power law), ln metric against n (exponential). The first fit
// with R² above the threshold wins; none clearing it yields "?".
// Every regression needs at least two samples.
func ClassifyWith(samples []Sample, cfg ClassifierConfig) string {
	if len(samples) == 0 {
		return ClassUnknown
	}
	if constantMetric(samples) {
		return ClassConstant
	}
	if len(samples) < 2 {
		return ClassUnknown
	}

	for _, st := range cascade {
		fit := fitStage(st, samples)
		if fit.RSquared > cfg.MinRSquared {
			return st.label(fit, cfg)
		}
	}
	return ClassUnknown
}

// Explain fits every cascade stage regardless of outcome, for diagnostics.
func Explain(samples []Sample, cfg ClassifierConfig) []StageFit {
	fits := make([]StageFit, 0, len(cascade))
	for _, st := range cascade {
		fit := fitStage(st, samples)
		fits = append(fits, StageFit{
			Stage:    st.name,
			Fit:      fit,
			Accepted: len(samples) > 1 && fit.RSquared > cfg.MinRSquared,
			Label:    st.label(fit, cfg),
		})
	}
	return fits
}

func fitStage(st stage, samples []Sample) LinearFit {
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = st.x(s)
		ys[i] = st.y(s)
	}
	return FitLinear(xs, ys)
}

func constantMetric(samples []Sample) bool {
	for _, s := range samples[1:] {
		if s.Metric != samples[0].Metric {
			return false
		}
	}
	return true
}
