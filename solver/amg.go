package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/nikovasil/mcreward/sparsemat"
)

// level holds one tier of the AMG hierarchy: the (possibly Galerkin-
// coarsened) operator at this level, the spai0 smoother for it, and
// the aggregation-based prolongation from the next-coarser level (nil
// at the coarsest level, which is solved directly instead).
type level struct {
	a          *sparsemat.Matrix
	diagInv    []float64 // spai0 smoother: diagonal approximate inverse
	prolong    [][]int   // prolong[i] = list of fine rows aggregated into coarse row i (piecewise-constant prolongation)
	fineToCoar []int     // fineToCoar[fine row] = coarse aggregate index
	dense      *mat.Dense
	denseLU    *mat.LU
}

// preconditioner is a multigrid V-cycle usable as an AMG preconditioner.
type preconditioner struct {
	levels []*level
	cfg    config
}

// buildPreconditioner constructs the AMG hierarchy for a by repeated
// aggregation coarsening until the coarse dimension is at or below
// cfg.coarseCap, where it is factored densely for a direct solve.
func buildPreconditioner(a *sparsemat.Matrix, cfg config) *preconditioner {
	pc := &preconditioner{cfg: cfg}

	cur := a
	for {
		lvl := &level{a: cur, diagInv: spai0(cur)}
		pc.levels = append(pc.levels, lvl)

		n := cur.Rows()
		if n <= cfg.coarseCap {
			lvl.dense = toDense(cur)
			var lu mat.LU
			lu.Factorize(lvl.dense)
			lvl.denseLU = &lu

			return pc
		}

		aggregates, fineToCoar := aggregate(cur)
		if len(aggregates) >= n {
			// Aggregation could not coarsen further (e.g. a diagonal
			// matrix with no off-diagonal structure): fall back to a
			// direct solve at this level rather than looping forever.
			lvl.dense = toDense(cur)
			var lu mat.LU
			lu.Factorize(lvl.dense)
			lvl.denseLU = &lu

			return pc
		}
		lvl.prolong = aggregates
		lvl.fineToCoar = fineToCoar

		cur = galerkinCoarsen(cur, aggregates)
	}
}

// spai0 computes a degree-0 sparse approximate inverse: the reciprocal
// of each diagonal entry (0 where the diagonal itself is 0, which
// degrades gracefully to an identity smoother contribution there).
func spai0(a *sparsemat.Matrix) []float64 {
	n := a.Rows()
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		aii := a.At(i, i)
		if aii != 0 {
			d[i] = 1.0 / aii
		}
	}

	return d
}

// aggregate performs one pass of greedy standard aggregation over the
// (symmetrized) sparsity graph of a: each unaggregated node seeds a
// new aggregate that absorbs its unaggregated neighbors with
// sufficiently strong connection (nonzero off-diagonal entry in
// either direction). Returns the list of aggregates (fine-row indices
// per aggregate) and the fine-to-coarse row map.
func aggregate(a *sparsemat.Matrix) ([][]int, []int) {
	n := a.Rows()
	assigned := make([]bool, n)
	fineToCoar := make([]int, n)
	var aggregates [][]int

	neighbors := buildSymmetricAdjacency(a)

	for i := 0; i < n; i++ {
		if assigned[i] {
			continue
		}
		agg := []int{i}
		assigned[i] = true
		coarseIdx := len(aggregates)
		fineToCoar[i] = coarseIdx
		for _, j := range neighbors[i] {
			if !assigned[j] {
				assigned[j] = true
				fineToCoar[j] = coarseIdx
				agg = append(agg, j)
			}
		}
		aggregates = append(aggregates, agg)
	}

	return aggregates, fineToCoar
}

// buildSymmetricAdjacency returns, for each row, the set of columns
// with a nonzero entry in either A[i][j] or A[j][i] (strength graph
// used for aggregation on possibly non-symmetric A).
func buildSymmetricAdjacency(a *sparsemat.Matrix) [][]int {
	n := a.Rows()
	seen := make([]map[int]struct{}, n)
	for i := range seen {
		seen[i] = make(map[int]struct{})
	}
	for i := 0; i < n; i++ {
		for j, v := range a.Row(i) {
			if i == j || v == 0 {
				continue
			}
			seen[i][j] = struct{}{}
			seen[j][i] = struct{}{}
		}
	}
	out := make([][]int, n)
	for i, set := range seen {
		for j := range set {
			out[i] = append(out[i], j)
		}
	}

	return out
}

// galerkinCoarsen builds the coarse operator Ac = P^T A P where P is
// the piecewise-constant aggregation prolongation implied by
// aggregates (P[fine][coarse] = 1 iff fine row belongs to that
// aggregate). Computed directly without materializing P, by summing
// fine entries into their aggregate pair.
func galerkinCoarsen(a *sparsemat.Matrix, aggregates [][]int) *sparsemat.Matrix {
	nc := len(aggregates)
	fineToCoar := make([]int, a.Rows())
	for ci, agg := range aggregates {
		for _, fi := range agg {
			fineToCoar[fi] = ci
		}
	}

	coarse, _ := sparsemat.New(nc, nc)
	for i := 0; i < a.Rows(); i++ {
		ci := fineToCoar[i]
		for j, v := range a.Row(i) {
			cj := fineToCoar[j]
			_ = coarse.Add(ci, cj, v)
		}
	}

	return coarse
}

// toDense converts a square sparse matrix to a gonum dense matrix, for
// the coarsest-level direct solve.
func toDense(a *sparsemat.Matrix) *mat.Dense {
	n := a.Rows()
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j, v := range a.Row(i) {
			d.Set(i, j, v)
		}
	}

	return d
}

// apply runs one multigrid V-cycle approximating M^-1 r, returning the
// correction vector for level 0.
func (pc *preconditioner) apply(r []float64) []float64 {
	return pc.vcycle(0, r)
}

func (pc *preconditioner) vcycle(li int, r []float64) []float64 {
	lvl := pc.levels[li]
	n := len(r)
	x := make([]float64, n)

	if lvl.denseLU != nil {
		bv := mat.NewVecDense(n, append([]float64(nil), r...))
		var xv mat.VecDense
		if err := lvl.denseLU.SolveVecTo(&xv, false, bv); err != nil {
			// Singular coarse system (degenerate chain): fall back to
			// returning the residual itself rather than failing the
			// whole solve; the outer Krylov iteration still converges
			// toward the fine-level residual on its own.
			return append([]float64(nil), r...)
		}
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = xv.AtVec(i)
		}

		return out
	}

	// Pre-smooth with damped (spai0) Jacobi.
	jacobiSmooth(lvl, x, r, pc.cfg.preSmooth, pc.cfg.jacobiOmega)

	// Compute residual, restrict to coarse grid by summing fine
	// residuals within each aggregate (P^T).
	res := subtract(r, matVec(lvl.a, x))
	nc := len(lvl.prolong)
	coarseRes := make([]float64, nc)
	for ci, agg := range lvl.prolong {
		var sum float64
		for _, fi := range agg {
			sum += res[fi]
		}
		coarseRes[ci] = sum
	}

	coarseCorr := pc.vcycle(li+1, coarseRes)

	// Prolong the coarse correction back (piecewise constant).
	for ci, agg := range lvl.prolong {
		for _, fi := range agg {
			x[fi] += coarseCorr[ci]
		}
	}

	// Post-smooth.
	jacobiSmooth(lvl, x, r, pc.cfg.postSmooth, pc.cfg.jacobiOmega)

	return x
}

// jacobiSmooth runs `sweeps` damped-Jacobi iterations in place on x,
// approximating A x = r, using the level's spai0 diagonal inverse.
func jacobiSmooth(lvl *level, x, r []float64, sweeps int, omega float64) {
	n := len(x)
	for s := 0; s < sweeps; s++ {
		ax := matVec(lvl.a, x)
		for i := 0; i < n; i++ {
			if lvl.diagInv[i] == 0 {
				continue
			}
			next := x[i] + omega*lvl.diagInv[i]*(r[i]-ax[i])
			if isFinite(next) {
				x[i] = next
			}
		}
	}
}

// isFinite reports whether v is a finite float (guards against AMG
// degradation on a pathological diagonal producing NaN/Inf).
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
