package fem

import (
	"fmt"
	"math"

	"github.com/periodicmedia/guidewave/utils"
)

// QuadRule holds quadrature points on the reference simplex of the given
// topological dimension, one point per row, and the matching weights. The
// weights sum to the reference simplex measure (1, 1/2, 1/6).
type QuadRule struct {
	Dim     int
	Points  utils.Matrix
	Weights utils.Vector
}

// DefaultQuadrature returns the rule used when AssembleOptions does not
// override it: 2-point Gauss on the segment, the 4-point degree-3 rule on
// the triangle (centroid plus three interior points), and the symmetric
// 4-point rule on the tetrahedron.
func DefaultQuadrature(dim int) (q QuadRule) {
	switch dim {
	case 1:
		a := 0.5 / math.Sqrt(3)
		q = QuadRule{
			Dim:     1,
			Points:  utils.NewMatrix(2, 1, []float64{0.5 - a, 0.5 + a}),
			Weights: utils.NewVector(2, []float64{0.5, 0.5}),
		}
	case 2:
		q = QuadRule{
			Dim: 2,
			Points: utils.NewMatrix(4, 2, []float64{
				1. / 3., 1. / 3.,
				0.2, 0.2,
				0.6, 0.2,
				0.2, 0.6,
			}),
			Weights: utils.NewVector(4, []float64{-27. / 96., 25. / 96., 25. / 96., 25. / 96.}),
		}
	case 3:
		var (
			a = 0.5854101966249685
			b = 0.1381966011250105
		)
		q = QuadRule{
			Dim: 3,
			Points: utils.NewMatrix(4, 3, []float64{
				b, b, b,
				a, b, b,
				b, a, b,
				b, b, a,
			}),
			Weights: utils.NewVector(4, []float64{1. / 24., 1. / 24., 1. / 24., 1. / 24.}),
		}
	default:
		panic(fmt.Errorf("no quadrature rule for topological dimension %d", dim))
	}
	return
}
