// Package solver solves sparse linear systems A x = b by conjugate
// gradients preconditioned by an algebraic multigrid (AMG) V-cycle:
// aggregation coarsening with an spai0 (diagonal sparse-approximate-
// inverse) smoother, recursing until the coarse system is small enough
// for a dense direct solve.
//
// A x = b here is always the shifted target-adjusted probability
// matrix (P - I) from the analyzer package, which is generally
// non-symmetric for non-reversible chains. Conjugate gradients is only
// guaranteed to converge on symmetric positive-definite systems; this
// package keeps CG as the default solver anyway, accepting potential
// inaccuracy on asymmetric systems rather than paying for a fully
// general Krylov method by default. Callers that need robustness on
// strongly asymmetric systems can select BiCGStab via WithMethod.
//
// The solver never returns a "did not converge" error: it stops on
// whichever of the iteration limit or residual tolerance triggers
// first and returns its best available answer, per contract. No
// retries are attempted.
package solver

import (
	"errors"
	"fmt"

	"github.com/nikovasil/mcreward/sparsemat"
)

// ErrDimensionMismatch indicates dim(b) != dim(A) rows, or A is not square.
var ErrDimensionMismatch = errors.New("solver: dimension mismatch")

// Method selects the outer Krylov iteration.
type Method int

const (
	// CG is preconditioned conjugate gradients (default).
	CG Method = iota
	// BiCGStab is preconditioned BiCGStab, offered for non-symmetric
	// systems where CG's convergence guarantees do not apply.
	BiCGStab
)

// config holds solver tuning parameters, assembled from Option values.
type config struct {
	method      Method
	maxIter     int
	tol         float64
	coarseCap   int // switch to dense direct solve once dim <= coarseCap
	preSmooth   int
	postSmooth  int
	jacobiOmega float64 // damping factor for the spai0/weighted-Jacobi smoother
}

func defaultConfig() config {
	return config{
		method:      CG,
		maxIter:     500,
		tol:         1e-10,
		coarseCap:   32,
		preSmooth:   2,
		postSmooth:  2,
		jacobiOmega: 0.8,
	}
}

// Option configures Solve.
type Option func(*config)

// WithMethod selects the outer Krylov iteration (CG by default).
func WithMethod(m Method) Option { return func(c *config) { c.method = m } }

// WithMaxIter caps the number of outer Krylov iterations.
func WithMaxIter(n int) Option { return func(c *config) { c.maxIter = n } }

// WithTolerance sets the relative residual-norm stopping threshold.
func WithTolerance(tol float64) Option { return func(c *config) { c.tol = tol } }

// WithCoarseCap sets the dimension at or below which the AMG hierarchy
// switches to a dense direct solve instead of recursing further.
func WithCoarseCap(n int) Option { return func(c *config) { c.coarseCap = n } }

// Solve returns x solving A x = b. dim(A) must be (m, n) with
// dim(b) == m; the returned x has length n. For this module's use,
// A is always square (n == m): a non-square A used with CG/BiCGStab
// (both of which assume a square operator) is rejected.
func Solve(a *sparsemat.Matrix, b []float64, opts ...Option) ([]float64, error) {
	if a.Rows() != a.Cols() {
		return nil, fmt.Errorf("solver.Solve: A is %dx%d: %w", a.Rows(), a.Cols(), ErrDimensionMismatch)
	}
	if len(b) != a.Rows() {
		return nil, fmt.Errorf("solver.Solve: len(b)=%d, rows(A)=%d: %w", len(b), a.Rows(), ErrDimensionMismatch)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	pc := buildPreconditioner(a, cfg)

	switch cfg.method {
	case BiCGStab:
		return bicgstab(a, b, pc, cfg)
	default:
		return cg(a, b, pc, cfg)
	}
}
