package fem

import (
	"fmt"

	"github.com/periodicmedia/guidewave/utils"
)

// ShapeEval evaluates, for each of the dim+1 piecewise-linear basis
// functions on the reference simplex, the combination
//
//	alpha[0]*phi + sum_j alpha[j]*dphi/dxi_j
//
// at the given reference points (one point per row of pts). The result has
// one row per basis function and one column per point.
func ShapeEval(dim int, alpha []float64, pts utils.Matrix) (R utils.Matrix) {
	var (
		nq, pc = pts.Dims()
		nv     = dim + 1
	)
	if len(alpha) != dim+1 {
		panic(fmt.Errorf("ShapeEval: alpha length %d does not match dimension %d", len(alpha), dim))
	}
	if pc != dim {
		panic(fmt.Errorf("ShapeEval: points have %d coordinates, want %d", pc, dim))
	}
	R = utils.NewMatrix(nv, nq)
	for q := 0; q < nq; q++ {
		// Basis 0 is 1-sum(xi), basis i is xi_i; gradients are constant
		v0 := alpha[0]
		for j := 0; j < dim; j++ {
			v0 -= alpha[0] * pts.At(q, j)
		}
		for j := 1; j <= dim; j++ {
			v0 -= alpha[j]
		}
		R.Set(0, q, v0)
		for i := 1; i <= dim; i++ {
			R.Set(i, q, alpha[0]*pts.At(q, i-1)+alpha[i])
		}
	}
	return
}
