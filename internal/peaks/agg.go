package peaks

import "fmt"

// AggFunc folds the signals of replicate peaks that were merged into one
// region. An empty slice aggregates to 0 (a replicate with no overlapping
// peak contributes no signal).
type AggFunc func([]float64) float64

func Sum(xs []float64) float64 {
	t := 0.0
	for _, x := range xs {
		t += x
	}
	return t
}

func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return Sum(xs) / float64(len(xs))
}

func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// Aggregator maps a --peak-merge-method name to its function.
func Aggregator(name string) (AggFunc, error) {
	switch name {
	case "sum":
		return Sum, nil
	case "avg":
		return Mean, nil
	case "min":
		return Min, nil
	case "max":
		return Max, nil
	default:
		return nil, fmt.Errorf("invalid --peak-merge-method %q", name)
	}
}

// DefaultAggregator picks the conventional merge method for a signal column:
// scores and signal values add, p/q values average.
func DefaultAggregator(signalIndex int) AggFunc {
	if signalIndex == 4 || signalIndex == 6 {
		return Sum
	}
	return Mean
}
