package ranks

import (
	"testing"

	"idr/internal/peaks"
)

func mergedWith(signals1, signals2 []float64) []peaks.MergedPeak {
	out := make([]peaks.MergedPeak, len(signals1))
	for i := range signals1 {
		out[i] = peaks.MergedPeak{Signal1: signals1[i], Signal2: signals2[i]}
	}
	return out
}

func TestRanksFollowSignalOrder(t *testing.T) {
	m := mergedWith([]float64{5, 1, 9}, []float64{2, 8, 4})
	r1, r2 := Vectors(m, 0)
	if r1[0] != 1 || r1[1] != 0 || r1[2] != 2 {
		t.Errorf("r1 = %v, want [1 0 2]", r1)
	}
	if r2[0] != 0 || r2[1] != 2 || r2[2] != 1 {
		t.Errorf("r2 = %v, want [0 2 1]", r2)
	}
}

func TestRanksArePermutation(t *testing.T) {
	m := mergedWith([]float64{3, 3, 3, 3}, []float64{1, 1, 2, 2})
	r1, _ := Vectors(m, 42)
	seen := make(map[int]bool)
	for _, r := range r1 {
		if r < 0 || r >= len(m) || seen[r] {
			t.Fatalf("r1 = %v is not a permutation", r1)
		}
		seen[r] = true
	}
}

func TestSeedDeterminism(t *testing.T) {
	m := mergedWith([]float64{1, 1, 1, 1, 1}, []float64{2, 2, 2, 2, 2})
	a1, a2 := Vectors(m, 7)
	b1, b2 := Vectors(m, 7)
	for i := range a1 {
		if a1[i] != b1[i] || a2[i] != b2[i] {
			t.Fatalf("same seed, different ranks: %v vs %v / %v vs %v", a1, b1, a2, b2)
		}
	}
}
