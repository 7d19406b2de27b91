// internal/ranks/ranks.go
package ranks

import (
	"math/rand"
	"sort"

	"idr/internal/peaks"
)

// Vectors returns the per-replicate rank of each merged peak's aggregated
// signal: rank 0 is the weakest peak, rank n-1 the strongest. Ties break by a
// seeded PRNG so reruns with the same seed are identical.
func Vectors(merged []peaks.MergedPeak, seed int64) (r1, r2 []int) {
	rng := rand.New(rand.NewSource(seed))
	s1 := make([]float64, len(merged))
	s2 := make([]float64, len(merged))
	for i, m := range merged {
		s1[i] = m.Signal1
		s2[i] = m.Signal2
	}
	return rank(s1, rng), rank(s2, rng)
}

func rank(signal []float64, rng *rand.Rand) []int {
	n := len(signal)
	tie := make([]float64, n)
	for i := range tie {
		tie[i] = rng.Float64()
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if signal[i] != signal[j] {
			return signal[i] < signal[j]
		}
		return tie[i] < tie[j]
	})
	r := make([]int, n)
	for pos, idx := range order {
		r[idx] = pos
	}
	return r
}
