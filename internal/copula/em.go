// internal/copula/em.go
package copula

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Parameter bounds keeping the mixture identifiable and the covariance
// positive definite.
const (
	minMixWeight = 0.01
	maxMixWeight = 0.99
	maxCorr      = 0.99
	minSigma     = 1e-3
)

// Config controls the model fit.
type Config struct {
	Start    Params
	MaxIter  int
	Eps      float64
	FixMu    bool
	FixSigma bool
}

// Fit is the outcome of parameter estimation.
type Fit struct {
	Params     Params
	Iterations int
	LogLik     float64
	Converged  bool
}

var errNotPositiveDefinite = errors.New("copula: covariance not positive definite")

// bivariate returns log-density functions for the reproducible and noise
// components under theta.
func bivariate(theta Params) (rep, noise func(z1, z2 float64) float64, err error) {
	s2 := theta.Sigma * theta.Sigma
	covRep := mat.NewSymDense(2, []float64{s2, theta.Rho * s2, theta.Rho * s2, s2})
	repDist, ok := distmv.NewNormal([]float64{theta.Mu, theta.Mu}, covRep, nil)
	if !ok {
		return nil, nil, errNotPositiveDefinite
	}
	noiseDist, ok := distmv.NewNormal([]float64{0, 0}, mat.NewSymDense(2, []float64{1, 0, 0, 1}), nil)
	if !ok {
		return nil, nil, errNotPositiveDefinite
	}
	rep = func(z1, z2 float64) float64 { return repDist.LogProb([]float64{z1, z2}) }
	noise = func(z1, z2 float64) float64 { return noiseDist.LogProb([]float64{z1, z2}) }
	return rep, noise, nil
}

// PosteriorMembership returns, for each point, the posterior probability that
// it belongs to the reproducible component.
func PosteriorMembership(theta Params, z1, z2 []float64) ([]float64, error) {
	rep, noise, err := bivariate(theta)
	if err != nil {
		return nil, err
	}
	post := make([]float64, len(z1))
	for i := range z1 {
		lr := rep(z1[i], z2[i])
		ln := noise(z1[i], z2[i])
		// Ratio in log space: post = p*fr / (p*fr + (1-p)*fn).
		d := math.Exp(lr - ln)
		post[i] = theta.P * d / (theta.P*d + (1 - theta.P))
	}
	return post, nil
}

func logLik(theta Params, z1, z2 []float64) (float64, error) {
	rep, noise, err := bivariate(theta)
	if err != nil {
		return 0, err
	}
	ll := 0.0
	for i := range z1 {
		lr := rep(z1[i], z2[i])
		ln := noise(z1[i], z2[i])
		// log(p*e^lr + (1-p)*e^ln), stabilized around the larger term.
		m := lr
		if ln > m {
			m = ln
		}
		ll += m + math.Log(theta.P*math.Exp(lr-m)+(1-theta.P)*math.Exp(ln-m))
	}
	return ll, nil
}

// EstimateParams fits theta by EM, recomputing pseudo-values from the current
// marginal at every iteration. Convergence is declared when no parameter
// moves by more than cfg.Eps.
func EstimateParams(cfg Config, r1, r2 []int, log *zap.Logger) (Fit, error) {
	if len(r1) != len(r2) {
		return Fit{}, fmt.Errorf("copula: rank vectors differ in length: %d vs %d", len(r1), len(r2))
	}
	n := float64(len(r1))
	theta := clampParams(cfg.Start)

	var fit Fit
	for it := 1; it <= cfg.MaxIter; it++ {
		z1 := PseudoValues(r1, theta.Mu, theta.Sigma, theta.P)
		z2 := PseudoValues(r2, theta.Mu, theta.Sigma, theta.P)

		w, err := PosteriorMembership(theta, z1, z2)
		if err != nil {
			return fit, err
		}
		sw := floats.Sum(w)
		if sw == 0 {
			return fit, errors.New("copula: posterior mass collapsed to zero")
		}

		next := theta
		next.P = stat.Mean(w, nil)
		if !cfg.FixMu {
			num := 0.0
			for i := range w {
				num += w[i] * (z1[i] + z2[i])
			}
			next.Mu = num / (2 * sw)
		}
		if !cfg.FixSigma {
			num := 0.0
			for i := range w {
				d1 := z1[i] - next.Mu
				d2 := z2[i] - next.Mu
				num += w[i] * (d1*d1 + d2*d2)
			}
			next.Sigma = math.Sqrt(num / (2 * sw))
		}
		{
			num := 0.0
			for i := range w {
				num += w[i] * (z1[i] - next.Mu) * (z2[i] - next.Mu)
			}
			next.Rho = num / (next.Sigma * next.Sigma * sw)
		}
		next = clampParams(next)

		ll, err := logLik(next, z1, z2)
		if err != nil {
			return fit, err
		}

		delta := maxDelta(theta, next)
		log.Debug("em iteration",
			zap.Int("iter", it),
			zap.Float64("mu", next.Mu),
			zap.Float64("sigma", next.Sigma),
			zap.Float64("rho", next.Rho),
			zap.Float64("mix", next.P),
			zap.Float64("loglik", ll/n),
			zap.Float64("delta", delta),
		)

		theta = next
		fit = Fit{Params: theta, Iterations: it, LogLik: ll}
		if delta < cfg.Eps {
			fit.Converged = true
			break
		}
	}
	return fit, nil
}

func clampParams(t Params) Params {
	if t.Sigma < minSigma {
		t.Sigma = minSigma
	}
	if t.Rho > maxCorr {
		t.Rho = maxCorr
	}
	if t.Rho < -maxCorr {
		t.Rho = -maxCorr
	}
	if t.P < minMixWeight {
		t.P = minMixWeight
	}
	if t.P > maxMixWeight {
		t.P = maxMixWeight
	}
	return t
}

func maxDelta(a, b Params) float64 {
	d := math.Abs(a.Mu - b.Mu)
	if v := math.Abs(a.Sigma - b.Sigma); v > d {
		d = v
	}
	if v := math.Abs(a.Rho - b.Rho); v > d {
		d = v
	}
	if v := math.Abs(a.P - b.P); v > d {
		d = v
	}
	return d
}
