// Package estimate implements the MLE fitting procedures of §4.2-§4.3: a shared
// log-reparameterized Newton-Raphson engine driven by central finite differences, one fitting
// routine per family built on top of it, and the observed-information/sandwich-covariance
// machinery. The teacher has no numerical-optimization code of its own (its "engines" compute
// heuristic scores, not MLEs), so this package is grounded directly in the spec's algorithm
// descriptions; its small-pure-function, heavily-tested layering follows the teacher's
// engine package shape (one file per concern, table-driven tests alongside).
package estimate

import "math"

// Options controls the shared convergence behavior of every family's estimator (§4.2).
type Options struct {
	Eps   float64 // convergence tolerance; defaults to 1e-8
	MaxIt int     // iteration cap; defaults to 200
}

// DefaultOptions returns the tolerances every family's estimator uses by default: Eps 1e-8 and
// a 200-iteration cap.
func DefaultOptions() Options {
	return Options{Eps: 1e-8, MaxIt: 200}
}

func (o Options) normalize() Options {
	if o.Eps <= 0 {
		o.Eps = 1e-8
	}
	if o.MaxIt <= 0 {
		o.MaxIt = 200
	}
	return o
}

// paramDomain mirrors distributions.Domain without importing it, so this package stays free of
// family metadata concerns; callers pass the domain for each native coordinate.
type paramDomain int

const (
	domainPositive paramDomain = iota
	domainReal
)

// objective is the quantity being maximized: the total log-likelihood as a function of the
// native parameter vector theta.
type objective func(theta []float64) float64

// newtonResult carries the outcome of one Newton-Raphson run in eta-space.
type newtonResult struct {
	ThetaHat   []float64
	LogLik     float64
	Converged  bool
	Iterations int
}

// runNewton maximizes obj over the native parameter vector by running Newton-Raphson in the
// log-reparameterized coordinate eta (eta_i = log(theta_i) for positive-domain coordinates,
// eta_i = theta_i otherwise), using central finite differences for the gradient and Hessian at
// every step. This keeps every family's iterative fit on one code path; only obj and the domain
// list vary per family.
func runNewton(obj objective, theta0 []float64, domains []paramDomain, opt Options) newtonResult {
	opt = opt.normalize()
	n := len(theta0)
	eta := toEta(theta0, domains)

	etaObj := func(e []float64) float64 {
		return obj(fromEta(e, domains))
	}

	prevLL := etaObj(eta)
	converged := false
	iter := 0
	for ; iter < opt.MaxIt; iter++ {
		grad := gradientFD(etaObj, eta)
		hess := hessianFD(etaObj, eta)

		step, ok := solveLinear(hess, grad)
		if ok {
			// Where the Hessian is not negative definite the Newton step can point downhill; take a
			// plain gradient-ascent step instead and let the backtracking below size it.
			uphill := 0.0
			for i := range step {
				uphill -= grad[i] * step[i]
			}
			if uphill <= 0 {
				for i := range step {
					step[i] = -grad[i]
				}
			}
		}
		if !ok {
			// Hessian not invertible at this point; fall back to a damped gradient step.
			step = make([]float64, n)
			for i := range step {
				step[i] = -0.01 * grad[i]
			}
		}

		next := make([]float64, n)
		maxDelta := 0.0
		damping := 1.0
		for {
			for i := range next {
				next[i] = eta[i] - damping*step[i]
			}
			ll := etaObj(next)
			if !math.IsNaN(ll) && !math.IsInf(ll, 0) && !(ll < prevLL) {
				break
			}
			damping *= 0.5
			if damping < 1e-6 {
				copy(next, eta)
				break
			}
		}

		for i := range next {
			d := next[i] - eta[i]
			if d < 0 {
				d = -d
			}
			if d > maxDelta {
				maxDelta = d
			}
		}

		nextLL := etaObj(next)
		relLL := math.Abs(nextLL-prevLL) / (math.Abs(prevLL) + 1)
		eta = next
		prevLL = nextLL

		if maxDelta < opt.Eps && relLL < opt.Eps {
			converged = true
			iter++
			break
		}
	}

	theta := fromEta(eta, domains)
	return newtonResult{
		ThetaHat:   theta,
		LogLik:     obj(theta),
		Converged:  converged,
		Iterations: iter,
	}
}

func toEta(theta []float64, domains []paramDomain) []float64 {
	eta := make([]float64, len(theta))
	for i, d := range domains {
		if d == domainPositive {
			eta[i] = math.Log(theta[i])
		} else {
			eta[i] = theta[i]
		}
	}
	return eta
}

func fromEta(eta []float64, domains []paramDomain) []float64 {
	theta := make([]float64, len(eta))
	for i, d := range domains {
		if d == domainPositive {
			theta[i] = math.Exp(eta[i])
		} else {
			theta[i] = eta[i]
		}
	}
	return theta
}

// gradientFD returns the central finite-difference gradient of f at x.
func gradientFD(f func([]float64) float64, x []float64) []float64 {
	n := len(x)
	g := make([]float64, n)
	for i := 0; i < n; i++ {
		h := stepSize(x[i])
		xp := append([]float64{}, x...)
		xm := append([]float64{}, x...)
		xp[i] += h
		xm[i] -= h
		g[i] = (f(xp) - f(xm)) / (2 * h)
	}
	return g
}

// hessianFD returns the symmetrized central finite-difference Hessian of f at x.
func hessianFD(f func([]float64) float64, x []float64) matrix {
	n := len(x)
	h := make([]float64, n)
	for i := range x {
		h[i] = stepSize(x[i])
	}
	f0 := f(x)
	out := newMatrix(n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if i == j {
				xp := append([]float64{}, x...)
				xm := append([]float64{}, x...)
				xp[i] += h[i]
				xm[i] -= h[i]
				out[i][i] = (f(xp) - 2*f0 + f(xm)) / (h[i] * h[i])
				continue
			}
			xpp := append([]float64{}, x...)
			xpm := append([]float64{}, x...)
			xmp := append([]float64{}, x...)
			xmm := append([]float64{}, x...)
			xpp[i] += h[i]
			xpp[j] += h[j]
			xpm[i] += h[i]
			xpm[j] -= h[j]
			xmp[i] -= h[i]
			xmp[j] += h[j]
			xmm[i] -= h[i]
			xmm[j] -= h[j]
			v := (f(xpp) - f(xpm) - f(xmp) + f(xmm)) / (4 * h[i] * h[j])
			out[i][j] = v
			out[j][i] = v
		}
	}
	return out
}

func stepSize(x float64) float64 {
	h := 1e-5 * (1 + math.Abs(x))
	return h
}
