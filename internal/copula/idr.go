// internal/copula/idr.go
package copula

import (
	"sort"

	"go.uber.org/zap"
)

// IDR computes per-peak irreproducibility. The local IDR of a peak is
// 1 - posterior membership in the reproducible component; the global IDR of a
// peak is the expected local IDR over all peaks at least as reproducible as
// it (running mean of the ascending-sorted local values, ties taking the
// largest rank). filterNoise forces peaks below the noise mean (z1+z2 < 0)
// to local IDR 1.
func IDR(theta Params, r1, r2 []int, filterNoise bool) (local, global []float64, err error) {
	z1 := PseudoValues(r1, theta.Mu, theta.Sigma, theta.P)
	z2 := PseudoValues(r2, theta.Mu, theta.Sigma, theta.P)

	post, err := PosteriorMembership(theta, z1, z2)
	if err != nil {
		return nil, nil, err
	}
	n := len(post)
	local = make([]float64, n)
	for i := range post {
		local[i] = 1 - post[i]
		if filterNoise && z1[i]+z2[i] < 0 {
			local[i] = 1
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return local[order[a]] < local[order[b]] })

	ordered := make([]float64, n)
	for pos, idx := range order {
		ordered[pos] = local[idx]
	}

	prefix := make([]float64, n+1)
	for i, v := range ordered {
		prefix[i+1] = prefix[i] + v
	}

	global = make([]float64, n)
	for i := 0; i < n; {
		// Run of tied local values shares the largest rank.
		j := i + 1
		for j < n && ordered[j] == ordered[i] {
			j++
		}
		mean := prefix[j] / float64(j)
		for k := i; k < j; k++ {
			global[order[k]] = mean
		}
		i = j
	}
	return local, global, nil
}

// FitAndComputeIDR estimates the model and derives local and global IDR
// values, logging the initial and final parameter sets the way the command
// line reports them.
func FitAndComputeIDR(cfg Config, r1, r2 []int, filterNoise bool, log *zap.Logger) (local, global []float64, fit Fit, err error) {
	log.Info("initial parameter values",
		zap.Float64("mu", cfg.Start.Mu),
		zap.Float64("sigma", cfg.Start.Sigma),
		zap.Float64("rho", cfg.Start.Rho),
		zap.Float64("mix", cfg.Start.P),
	)
	log.Debug("fitting the model parameters")

	fit, err = EstimateParams(cfg, r1, r2, log)
	if err != nil {
		return nil, nil, fit, err
	}

	log.Info("final parameter values",
		zap.Float64("mu", fit.Params.Mu),
		zap.Float64("sigma", fit.Params.Sigma),
		zap.Float64("rho", fit.Params.Rho),
		zap.Float64("mix", fit.Params.P),
		zap.Int("iterations", fit.Iterations),
		zap.Bool("converged", fit.Converged),
	)

	local, global, err = IDR(fit.Params, r1, r2, filterNoise)
	return local, global, fit, err
}
