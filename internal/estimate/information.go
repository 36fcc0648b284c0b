package estimate

// informationResult is the native-parameterization covariance matrix produced for a Fit object,
// along with whether the robust sandwich fallback of §4.3 was used.
type informationResult struct {
	Sigma  matrix
	Robust bool
}

// observedInformation computes the observed information J(theta_hat) = -Hessian of the total
// log-likelihood at theta_hat (in native coordinates), tests it for positive-definiteness via
// Cholesky, and inverts it to get Sigma = J^-1. If the test fails, it falls back to the robust
// sandwich Sigma = J+ B J+ with J+ a pseudo-inverse and B = sum of outer products of
// per-observation native-parameter scores, per §4.3.
//
// obj is the total log-likelihood as a function of native theta; perObsLogLik is the per-observation
// log-likelihood contribution (same signature, evaluated one row at a time) used only on the
// fallback path to build B.
func observedInformation(obj objective, thetaHat []float64, perObsLogLik []func(theta []float64) float64) informationResult {
	n := len(thetaHat)

	// The MLE gradient of the joint log-likelihood vanishes at theta_hat, so the Hessian
	// computed directly in native coordinates equals the eta-space Hessian rescaled by the
	// diagonal Jacobian d(theta)/d(eta); computing it directly in native coordinates sidesteps
	// that rescaling and is equally valid since finite differences don't care which
	// coordinates they're taken in.
	hess := hessianFD(obj, thetaHat)
	j := newMatrix(n)
	for i := 0; i < n; i++ {
		for jj := 0; jj < n; jj++ {
			j[i][jj] = -hess[i][jj]
		}
	}
	j = j.symmetrize()

	if l, ok := cholesky(j); ok {
		sigma := invertFromCholesky(l)
		if sigma != nil {
			return informationResult{Sigma: sigma, Robust: false}
		}
	}

	// Fallback: robust sandwich covariance using a pseudo-inverse of J and the per-observation
	// score outer-product sum B (§4.3).
	jPinv := pseudoInverse(j, 1e-8)
	b := newMatrix(n)
	for _, rowLL := range perObsLogLik {
		s := gradientFD(rowLL, thetaHat)
		for i := 0; i < n; i++ {
			for jj := 0; jj < n; jj++ {
				b[i][jj] += s[i] * s[jj]
			}
		}
	}
	sigma := matMul(matMul(jPinv, b), jPinv)
	return informationResult{Sigma: sigma, Robust: true}
}
