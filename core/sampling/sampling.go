// Package sampling holds the small numeric kernels the particle
// filter is built on: CDF construction, categorical draws, uniform
// subset selection, and vector norms.  All randomness comes from a
// *rand.Rand passed in by the caller so that a run is reproducible
// from its seed.
package sampling

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

var (
	// ErrEmptyDistribution is returned when sampling from a
	// zero-length distribution.
	ErrEmptyDistribution = errors.New("sampling: empty distribution")

	// ErrDegenerateDistribution is returned when a distribution has
	// no mass to normalize.
	ErrDegenerateDistribution = errors.New("sampling: distribution has zero mass")
)

// NormalizeToCDF turns a vector of non-negative masses into its
// cumulative distribution in place, so that xs[i] becomes
// sum(xs[0..i])/sum(xs).  The last entry is forced to exactly 1.0 to
// absorb rounding.  Empty or all-zero input yields
// ErrDegenerateDistribution and leaves xs untouched.
func NormalizeToCDF(xs []float64) error {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	if len(xs) == 0 || sum == 0 {
		return ErrDegenerateDistribution
	}
	var cum float64
	for i, x := range xs {
		cum += x
		xs[i] = cum / sum
	}
	xs[len(xs)-1] = 1.0
	return nil
}

// Categorical draws from the distribution described by cdf, returning
// the least index i with cdf[i] >= u for u uniform in [0, 1).  A
// one-element CDF always yields 0.
func Categorical(cdf []float64, rng *rand.Rand) (int, error) {
	if len(cdf) == 0 {
		return 0, ErrEmptyDistribution
	}
	if len(cdf) == 1 {
		return 0, nil
	}
	return searchCDF(cdf, rng.Float64()), nil
}

// searchCDF returns the least i with cdf[i] >= u.
func searchCDF(cdf []float64, u float64) int {
	return sort.SearchFloat64s(cdf, u)
}

// WithoutReplacement returns a uniform k-subset of [0, n), in
// unspecified order.  When k >= n all of [0, n) is returned.
func WithoutReplacement(n, k int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if k >= n {
		return idx
	}
	// Partial Fisher-Yates: after i swaps, idx[:i] is a uniform
	// i-subset.
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}

// L2Norm returns the Euclidean norm of xs.
func L2Norm(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x * x
	}
	return math.Sqrt(sum)
}
