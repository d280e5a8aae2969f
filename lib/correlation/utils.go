package correlation

import (
	"fmt"
	"math"
)

// This is the formula for incremental pearson.
func PearsonCorrelation(x []float64, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0.0, fmt.Errorf("correlation needs arguments of the same length")
	}
	var s1, s2, s3, s4, s5 float64
	for i, xi := range x {
		s1 += xi
		s2 += xi * xi
		s3 += y[i]
		s4 += y[i] * y[i]
		s5 += xi * y[i]
	}
	n := float64(len(x))

	return (n*s5 - (s1 * s3)) / math.Sqrt((n*s2-s1*s1)*(n*s4-s3*s3)), nil
}

func checkLengths(x []float64, y []float64, w []float64) error {
	if len(x) != len(y) || len(x) != len(w) {
		return fmt.Errorf("weighted correlation needs arguments of the same length (x: %d, y: %d, w: %d)",
			len(x), len(y), len(w))
	}
	return nil
}

// A row takes part in a pairwise computation only if neither value is missing.
func eligible(xk float64, yk float64) bool {
	return !math.IsNaN(xk) && !math.IsNaN(yk)
}

// PairwiseComplete returns the indices of the rows where neither x nor y is missing.
func PairwiseComplete(x []float64, y []float64) ([]int, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("pairwise completion needs arguments of the same length")
	}
	ret := make([]int, 0, len(x))
	for k, xk := range x {
		if eligible(xk, y[k]) {
			ret = append(ret, k)
		}
	}
	return ret, nil
}

// WeightedPearson computes the weighted pearson correlation of x and y using the
// classical two-pass formula: weighted sums and means first, then the centered
// sums of squares in expanded form.
// Rows where x or y is NaN are skipped. There is no guard for a total eligible
// weight <= 1 or for zero variance; those cases come out as NaN or Inf.
// The second return value is the total weight of the eligible rows (npair).
func WeightedPearson(x []float64, y []float64, w []float64) (float64, float64, error) {
	if err := checkLengths(x, y, w); err != nil {
		return 0.0, 0.0, err
	}
	var npair, sumx, sumy, sumxy float64
	for k, xk := range x {
		yk := y[k]
		if eligible(xk, yk) {
			npair += w[k]
			sumx += w[k] * xk
			sumy += w[k] * yk
			sumxy += w[k] * xk * yk
		}
	}

	meanx := sumx / npair
	meany := sumy / npair

	var sumx2, sumy2 float64
	for k, xk := range x {
		yk := y[k]
		if eligible(xk, yk) {
			sumx2 += w[k]*xk*xk - 2*w[k]*xk*meanx + w[k]*meanx*meanx
			sumy2 += w[k]*yk*yk - 2*w[k]*yk*meany + w[k]*meany*meany
		}
	}

	sdx := math.Sqrt(sumx2 / (npair - 1))
	sdy := math.Sqrt(sumy2 / (npair - 1))

	return (sumxy - npair*meanx*meany) / ((npair - 1) * sdx * sdy), npair, nil
}

// WeightedPearsonWelford computes the same statistic as WeightedPearson in a
// single pass, updating the weighted means and co-moments incrementally
// (West 1979). This avoids the cancellation in the expanded sum of squares.
// The final step uses the same (npair - 1) degrees of freedom as the two-pass
// formula, so degenerate inputs produce the same NaN/Inf results.
func WeightedPearsonWelford(x []float64, y []float64, w []float64) (float64, float64, error) {
	if err := checkLengths(x, y, w); err != nil {
		return 0.0, 0.0, err
	}
	var npair, meanx, meany, cxy, sxx, syy float64
	for k, xk := range x {
		yk := y[k]
		if !eligible(xk, yk) {
			continue
		}
		npair += w[k]
		if npair == 0.0 {
			// Zero-weight rows before any weighted row contribute nothing.
			continue
		}
		dx := xk - meanx
		dy := yk - meany
		ratio := w[k] / npair
		meanx += ratio * dx
		meany += ratio * dy
		sxx += w[k] * dx * (xk - meanx)
		syy += w[k] * dy * (yk - meany)
		cxy += w[k] * dx * (yk - meany)
	}
	if npair == 0.0 {
		// Same result as 0/0 in the two-pass formula.
		return math.NaN(), npair, nil
	}

	sdx := math.Sqrt(sxx / (npair - 1))
	sdy := math.Sqrt(syy / (npair - 1))

	return cxy / ((npair - 1) * sdx * sdy), npair, nil
}
