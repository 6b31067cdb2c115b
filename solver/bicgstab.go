package solver

import "github.com/nikovasil/mcreward/sparsemat"

// bicgstab runs preconditioned BiCGStab, a Krylov method that does not
// assume symmetry, offered via WithMethod for systems where CG's
// convergence guarantee does not apply.
func bicgstab(a *sparsemat.Matrix, b []float64, pc *preconditioner, cfg config) ([]float64, error) {
	n := len(b)
	x := make([]float64, n)

	r := subtract(b, matVec(a, x))
	rHat := append([]float64(nil), r...)
	bNorm := norm2(b)
	if bNorm == 0 {
		bNorm = 1
	}
	if norm2(r)/bNorm <= cfg.tol {
		return x, nil
	}

	rho, alpha, omega := 1.0, 1.0, 1.0
	v := make([]float64, n)
	p := make([]float64, n)

	for iter := 0; iter < cfg.maxIter; iter++ {
		rhoNew := dot(rHat, r)
		if rhoNew == 0 {
			break
		}
		if iter > 0 {
			beta := (rhoNew / rho) * (alpha / omega)
			// p = r + beta*(p - omega*v)
			tmp := subtract(p, scaleCopy(omega, v))
			p = axpy(beta, tmp, append([]float64(nil), r...))
		} else {
			p = append([]float64(nil), r...)
		}
		rho = rhoNew

		pHat := pc.apply(p)
		v = matVec(a, pHat)
		alpha = rho / dot(rHat, v)

		s := subtract(r, scaleCopy(alpha, v))
		if norm2(s)/bNorm <= cfg.tol {
			x = axpy(alpha, pHat, x)
			break
		}

		sHat := pc.apply(s)
		t := matVec(a, sHat)
		tDotT := dot(t, t)
		if tDotT == 0 {
			x = axpy(alpha, pHat, x)
			break
		}
		omega = dot(t, s) / tDotT

		x = axpy(alpha, pHat, x)
		x = axpy(omega, sHat, x)

		r = subtract(s, scaleCopy(omega, t))
		if norm2(r)/bNorm <= cfg.tol {
			break
		}
		if omega == 0 {
			break
		}
	}

	return x, nil
}
