package solver

import "github.com/nikovasil/mcreward/sparsemat"

// cg runs preconditioned conjugate gradients. See the package doc for
// the symmetry caveat: A (the shifted TAPM) is generally non-symmetric,
// and CG's convergence guarantee only holds for SPD systems; this is
// kept as the default per the documented trade-off, with BiCGStab
// offered as an alternative for callers that need it.
func cg(a *sparsemat.Matrix, b []float64, pc *preconditioner, cfg config) ([]float64, error) {
	n := len(b)
	x := make([]float64, n) // x0 = 0

	r := subtract(b, matVec(a, x))
	bNorm := norm2(b)
	if bNorm == 0 {
		bNorm = 1
	}
	if norm2(r)/bNorm <= cfg.tol {
		return x, nil
	}

	z := pc.apply(r)
	p := append([]float64(nil), z...)
	rzOld := dot(r, z)

	for iter := 0; iter < cfg.maxIter; iter++ {
		ap := matVec(a, p)
		denom := dot(p, ap)
		if denom == 0 {
			break
		}
		alpha := rzOld / denom

		x = axpy(alpha, p, x)
		r = axpy(-alpha, ap, r)

		if norm2(r)/bNorm <= cfg.tol {
			break
		}

		z = pc.apply(r)
		rzNew := dot(r, z)
		if rzOld == 0 {
			break
		}
		beta := rzNew / rzOld

		np := scaleCopy(beta, p)
		np = axpy(1, z, np)
		p = np
		rzOld = rzNew
	}

	return x, nil
}
