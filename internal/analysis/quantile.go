package analysis

import "math"

// quantile interpolates linearly between the closest ranks of sorted data
// (h = (n-1)p). montanaflynn/stats and gonum/stat only offer nearest-rank and
// p*n interpolation, which disagree with the usual describe() quartiles.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
