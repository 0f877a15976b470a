package fem

import (
	"math"
	"testing"

	"github.com/periodicmedia/guidewave/utils"
	"github.com/stretchr/testify/assert"
)

func TestQuadratureWeights(t *testing.T) {
	// Weights sum to the reference simplex measures
	for dim, measure := range map[int]float64{1: 1, 2: 0.5, 3: 1. / 6.} {
		q := DefaultQuadrature(dim)
		assert.True(t, near(q.Weights.Sum(), measure))
	}
}

func TestShapeEval(t *testing.T) {
	{ // Values at the reference vertices are the Kronecker delta
		pts := utils.NewMatrix(3, 2, []float64{0, 0, 1, 0, 0, 1})
		W := ShapeEval(2, []float64{1, 0, 0}, pts)
		for a := 0; a < 3; a++ {
			for q := 0; q < 3; q++ {
				want := 0.0
				if a == q {
					want = 1
				}
				assert.True(t, near(W.At(a, q), want))
			}
		}
	}
	{ // Gradient combination is constant over the simplex
		pts := utils.NewMatrix(2, 2, []float64{0.1, 0.2, 0.5, 0.3})
		W := ShapeEval(2, []float64{0, 1, 0}, pts)
		assert.True(t, near(W.At(0, 0), -1))
		assert.True(t, near(W.At(0, 1), -1))
		assert.True(t, near(W.At(1, 0), 1))
		assert.True(t, near(W.At(2, 0), 0))
	}
}

func TestElementMassTriangle(t *testing.T) {
	var (
		verts = [][]float64{{0, 0}, {1, 0}, {0, 1}}
		quad  = DefaultQuadrature(2)
		value = []float64{1, 0, 0}
		area  = 0.5
	)
	M := ElementMatrix(2, verts, value, value, ConstCoeff(1), quad)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			want := area / 12
			if a == b {
				want = area / 6
			}
			assert.True(t, near(real(M.At(a, b)), want))
			assert.True(t, near(imag(M.At(a, b)), 0))
		}
	}
	// The quadrature path agrees with the exact constant path
	Mq := ElementMatrix(2, verts, value, value, FnCoeff(func([]float64) complex128 { return 1 }), quad)
	assert.True(t, near(M.Subtract(Mq).FrobNorm(), 0))
}

func TestElementStiffnessTriangle(t *testing.T) {
	var (
		verts = [][]float64{{0, 0}, {1, 0}, {0, 1}}
		quad  = DefaultQuadrature(2)
		dx    = []float64{0, 1, 0}
		dy    = []float64{0, 0, 1}
	)
	K := ElementMatrix(2, verts, dx, dx, ConstCoeff(1), quad)
	K.Add(ElementMatrix(2, verts, dy, dy, ConstCoeff(1), quad))
	// grad(lambda0) = (-1,-1), grad(lambda1) = (1,0), grad(lambda2) = (0,1)
	want := [][]float64{
		{1, -0.5, -0.5},
		{-0.5, 0.5, 0},
		{-0.5, 0, 0.5},
	}
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			assert.True(t, near(real(K.At(a, b)), want[a][b]))
		}
	}
}

func TestElementIntervalMass(t *testing.T) {
	var (
		h     = 0.3
		verts = [][]float64{{0}, {h}}
		quad  = DefaultQuadrature(1)
		value = []float64{1, 0}
		deriv = []float64{0, 1}
	)
	M := ElementMatrix(1, verts, value, value, ConstCoeff(1), quad)
	assert.True(t, near(real(M.At(0, 0)), h/3))
	assert.True(t, near(real(M.At(0, 1)), h/6))
	K := ElementMatrix(1, verts, deriv, deriv, ConstCoeff(1), quad)
	assert.True(t, near(real(K.At(0, 0)), 1/h))
	assert.True(t, near(real(K.At(0, 1)), -1/h))
}

func TestDegenerateElementPanics(t *testing.T) {
	verts := [][]float64{{0, 0}, {1, 0}, {2, 0}} // collinear
	assert.Panics(t, func() {
		ElementMatrix(2, verts, []float64{1, 0, 0}, []float64{1, 0, 0},
			ConstCoeff(1), DefaultQuadrature(2))
	})
}

func TestEmbeddedFaceMass(t *testing.T) {
	// A segment embedded in a 2D mesh: mass scales with its length
	var (
		l     = math.Sqrt(2)
		verts = [][]float64{{0, 0}, {1, 1}}
		value = []float64{1, 0}
	)
	M := ElementMatrix(2, verts, value, value, ConstCoeff(1), DefaultQuadrature(1))
	assert.True(t, near(real(M.At(0, 0)), l/3))
	assert.True(t, near(real(M.At(1, 0)), l/6))
}

func TestEmbeddedDerivativePanics(t *testing.T) {
	// Derivative terms need the inverse Jacobian, which an embedded
	// element does not have
	var (
		verts = [][]float64{{0, 0}, {1, 1}}
		deriv = []float64{0, 1, 0}
		value = []float64{1, 0, 0}
	)
	assert.Panics(t, func() {
		ElementMatrix(2, verts, deriv, value, ConstCoeff(1), DefaultQuadrature(1))
	})
	assert.Panics(t, func() {
		ElementMatrix(2, verts, value, deriv, ConstCoeff(1), DefaultQuadrature(1))
	})
}

func TestComplexCoefficient(t *testing.T) {
	verts := [][]float64{{0, 0}, {1, 0}, {0, 1}}
	c := 2 + 3i
	M := ElementMatrix(2, verts, []float64{1, 0, 0}, []float64{1, 0, 0},
		ConstCoeff(c), DefaultQuadrature(2))
	M0 := ElementMatrix(2, verts, []float64{1, 0, 0}, []float64{1, 0, 0},
		ConstCoeff(1), DefaultQuadrature(2))
	diff := M.Subtract(M0.Scale(c))
	assert.True(t, near(diff.FrobNorm(), 0))
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}

func cnear(a, b complex128, tolI ...float64) bool {
	return near(real(a), real(b), tolI...) && near(imag(a), imag(b), tolI...)
}
