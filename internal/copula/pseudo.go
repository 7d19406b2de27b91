package copula

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Bisection tolerance for inverting the mixture marginal CDF.
const pseudoEPS = 1e-12

// Params are the Gaussian copula mixture parameters: the reproducible
// component is N(mu, sigma^2) with correlation rho and weight p; the noise
// component is standard normal with correlation 0.
type Params struct {
	Mu    float64
	Sigma float64
	Rho   float64
	P     float64
}

// PseudoValues maps each rank to the latent z-score whose mixture-marginal
// quantile matches the rank's empirical quantile (r+1)/(n+1). Ranks must be a
// permutation of 0..n-1.
func PseudoValues(r []int, mu, sigma, p float64) []float64 {
	n := len(r)
	std := distuv.Normal{Mu: 0, Sigma: 1}
	cdf := func(z float64) float64 {
		return p*std.CDF((z-mu)/sigma) + (1-p)*std.CDF(z)
	}

	// Solve on the sorted quantile grid; the inverse is monotone, so each
	// solution is the lower bracket for the next.
	zs := make([]float64, n)
	lo := mu - 8*sigma
	if s := -8.0; s < lo {
		lo = s
	}
	hi0 := mu + 8*sigma
	if s := 8.0; s > hi0 {
		hi0 = s
	}
	for k := 0; k < n; k++ {
		q := float64(k+1) / float64(n+1)
		a, b := lo, hi0
		for cdf(a) > q {
			a -= 8
		}
		for cdf(b) < q {
			b += 8
		}
		for i := 0; i < 200 && b-a > pseudoEPS; i++ {
			mid := (a + b) / 2
			if cdf(mid) < q {
				a = mid
			} else {
				b = mid
			}
		}
		zs[k] = (a + b) / 2
		lo = zs[k]
	}

	out := make([]float64, n)
	for i, ri := range r {
		out[i] = zs[ri]
	}
	return out
}
