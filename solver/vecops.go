package solver

import (
	"gonum.org/v1/gonum/floats"

	"github.com/nikovasil/mcreward/sparsemat"
)

// matVec computes y = A x for a square sparse A.
func matVec(a *sparsemat.Matrix, x []float64) []float64 {
	n := a.Rows()
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for j, v := range a.Row(i) {
			sum += v * x[j]
		}
		y[i] = sum
	}

	return y
}

// axpy computes y := alpha*x + y in place, returning y, via gonum/floats.
func axpy(alpha float64, x, y []float64) []float64 {
	floats.AddScaled(y, alpha, x)

	return y
}

// dot returns the Euclidean dot product of x and y via gonum/floats.
func dot(x, y []float64) float64 {
	return floats.Dot(x, y)
}

// scaleCopy returns a new slice holding alpha*x.
func scaleCopy(alpha float64, x []float64) []float64 {
	y := make([]float64, len(x))
	copy(y, x)
	floats.Scale(alpha, y)

	return y
}

// subtract returns a new slice holding x - y.
func subtract(x, y []float64) []float64 {
	z := make([]float64, len(x))
	floats.SubTo(z, x, y)

	return z
}

// norm2 returns the Euclidean norm of x via gonum/floats.
func norm2(x []float64) float64 {
	return floats.Norm(x, 2)
}
