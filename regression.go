package markovbench

// LinearFit is an ordinary least squares line y = Slope·x + Intercept.
type LinearFit struct {
	Slope     float64
	Intercept float64
	RSquared  float64 // R²: goodness of fit (1.0 = perfect)
}

// Predict evaluates the fitted line at x.
func (f LinearFit) Predict(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// FitLinear fits ys against xs by closed-form least squares:
//
//	slope     = (nΣxy − ΣxΣy) / (nΣx² − (Σx)²)
//	intercept = (Σy − slope·Σx) / n
//
// A zero denominator (fewer than two distinct x values) degenerates to
// slope = intercept = 0. R² is then computed against whatever line resulted.
func FitLinear(xs, ys []float64) LinearFit {
	slope, intercept := leastSquares(xs, ys)
	return LinearFit{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rSquared(xs, ys, slope, intercept),
	}
}

func leastSquares(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	if n == 0 {
		return 0, 0
	}

	var sumX, sumY, sumXX, sumXY float64
	for i, x := range xs {
		y := ys[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	normal := n*sumXX - sumX*sumX
	if normal == 0 {
		return 0, 0
	}

	slope = (n*sumXY - sumX*sumY) / normal
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// rSquared is 1 − SS_res/SS_tot, defined as 0 when SS_tot = 0.
func rSquared(xs, ys []float64, slope, intercept float64) float64 {
	if len(ys) == 0 {
		return 0
	}

	var meanY float64
	for _, y := range ys {
		meanY += y
	}
	meanY /= float64(len(ys))

	var ssRes, ssTot float64
	for i, y := range ys {
		predicted := slope*xs[i] + intercept
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - meanY) * (y - meanY)
	}

	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}
