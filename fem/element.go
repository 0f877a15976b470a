package fem

import (
	"fmt"
	"math"

	"github.com/periodicmedia/guidewave/utils"
)

var refVolume = []float64{0, 1, 0.5, 1. / 6.}

// elemGeom carries the affine map of one mesh element onto the reference
// simplex: x = p0 + E*xi with E holding the edge vectors.
type elemGeom struct {
	dim     int // topological dimension of the element
	meshDim int
	p0      []float64
	edges   [][]float64
	scale   float64       // Jacobian measure factor: length, cross norm or |det|
	invJ    utils.Matrix  // dxd inverse of E, only when dim == meshDim
	hasInvJ bool
}

func newElemGeom(meshDim int, verts [][]float64) (g elemGeom) {
	var (
		dim = len(verts) - 1
	)
	g = elemGeom{dim: dim, meshDim: meshDim, p0: verts[0]}
	var maxEdge float64
	for a := 1; a <= dim; a++ {
		e := make([]float64, meshDim)
		var n float64
		for d := 0; d < meshDim; d++ {
			e[d] = verts[a][d] - verts[0][d]
			n += e[d] * e[d]
		}
		if n = math.Sqrt(n); n > maxEdge {
			maxEdge = n
		}
		g.edges = append(g.edges, e)
	}
	switch {
	case dim == 1:
		var n float64
		for _, v := range g.edges[0] {
			n += v * v
		}
		g.scale = math.Sqrt(n)
	case dim == 2 && meshDim == 2:
		g.scale = math.Abs(g.edges[0][0]*g.edges[1][1] - g.edges[0][1]*g.edges[1][0])
	case dim == 2 && meshDim == 3:
		cx := g.edges[0][1]*g.edges[1][2] - g.edges[0][2]*g.edges[1][1]
		cy := g.edges[0][2]*g.edges[1][0] - g.edges[0][0]*g.edges[1][2]
		cz := g.edges[0][0]*g.edges[1][1] - g.edges[0][1]*g.edges[1][0]
		g.scale = math.Sqrt(cx*cx + cy*cy + cz*cz)
	case dim == 3:
		g.scale = math.Abs(det3(g.edges))
	default:
		panic(fmt.Errorf("unsupported element: %d vertices in a %d-dimensional mesh", dim+1, meshDim))
	}
	if g.scale <= 1e-14*math.Pow(maxEdge, float64(dim)) {
		panic(fmt.Errorf("degenerate element with measure factor %g", g.scale))
	}
	if dim == meshDim {
		g.invJ = invertEdges(g.edges)
		g.hasInvJ = true
	}
	return
}

func det3(e [][]float64) float64 {
	return e[0][0]*(e[1][1]*e[2][2]-e[1][2]*e[2][1]) -
		e[1][0]*(e[0][1]*e[2][2]-e[0][2]*e[2][1]) +
		e[2][0]*(e[0][1]*e[1][2]-e[0][2]*e[1][1])
}

// invertEdges inverts the square edge matrix E with E[d][a] = edges[a][d].
func invertEdges(edges [][]float64) (R utils.Matrix) {
	var (
		n = len(edges)
	)
	R = utils.NewMatrix(n, n)
	switch n {
	case 1:
		R.Set(0, 0, 1/edges[0][0])
	case 2:
		d := edges[0][0]*edges[1][1] - edges[1][0]*edges[0][1]
		R.Set(0, 0, edges[1][1]/d)
		R.Set(0, 1, -edges[1][0]/d)
		R.Set(1, 0, -edges[0][1]/d)
		R.Set(1, 1, edges[0][0]/d)
	case 3:
		d := det3(edges)
		cof := func(i, j int) float64 {
			// Cofactor of E[i][j], E[d][a] = edges[a][d]
			i1, i2 := (i+1)%3, (i+2)%3
			j1, j2 := (j+1)%3, (j+2)%3
			return edges[j1][i1]*edges[j2][i2] - edges[j2][i1]*edges[j1][i2]
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				R.Set(i, j, cof(j, i)/d)
			}
		}
	}
	return
}

// refAlpha maps a value/physical-derivative combination onto the reference
// coordinates of the element.
func (g elemGeom) refAlpha(alpha []float64) (r []float64) {
	r = make([]float64, g.dim+1)
	r[0] = alpha[0]
	if !g.hasInvJ {
		for _, v := range alpha[1:] {
			if v != 0 {
				panic(fmt.Errorf("derivative term on a %d-dimensional element embedded in a %d-dimensional mesh", g.dim, g.meshDim))
			}
		}
		return
	}
	for k := 0; k < g.dim; k++ {
		for j := 0; j < g.dim; j++ {
			r[k+1] += alpha[j+1] * g.invJ.At(k, j)
		}
	}
	return
}

func (g elemGeom) mapPoint(xi []float64) (x []float64) {
	x = make([]float64, g.meshDim)
	copy(x, g.p0)
	for a := 0; a < g.dim; a++ {
		for d := 0; d < g.meshDim; d++ {
			x[d] += xi[a] * g.edges[a][d]
		}
	}
	return
}

// ElementMatrix computes the local dense matrix of one element for the
// trial/test combinations alphaU, alphaV and a scalar coefficient. Entry
// (a,b) pairs test function a with trial function b. Scalar coefficients
// take the exact constant-coefficient path; everything else goes through
// the quadrature rule.
func ElementMatrix(meshDim int, verts [][]float64, alphaU, alphaV []float64, c Coeff, quad QuadRule) (R utils.CMatrix) {
	var (
		g  = newElemGeom(meshDim, verts)
		nv = g.dim + 1
	)
	R = utils.NewCMatrix(nv, nv)
	if c.isConstant() {
		if onlyValue(alphaU) && onlyValue(alphaV) {
			m := refMass(g.dim)
			for a := 0; a < nv; a++ {
				for b := 0; b < nv; b++ {
					R.Set(a, b, c.Scalar*complex(alphaV[0]*alphaU[0]*g.scale*m.At(a, b), 0))
				}
			}
			return
		}
		if alphaU[0] == 0 && alphaV[0] == 0 && g.hasInvJ {
			// Constant-gradient integrand: exact with a single evaluation
			var (
				au  = g.refAlpha(alphaU)
				av  = g.refAlpha(alphaV)
				xi0 = utils.NewMatrix(1, g.dim)
				wu  = ShapeEval(g.dim, au, xi0)
				wv  = ShapeEval(g.dim, av, xi0)
				vol = g.scale * refVolume[g.dim]
			)
			for a := 0; a < nv; a++ {
				for b := 0; b < nv; b++ {
					R.Set(a, b, c.Scalar*complex(vol*wv.At(a, 0)*wu.At(b, 0), 0))
				}
			}
			return
		}
	}
	var (
		au    = g.refAlpha(alphaU)
		av    = g.refAlpha(alphaV)
		wu    = ShapeEval(g.dim, au, quad.Points)
		wv    = ShapeEval(g.dim, av, quad.Points)
		nq, _ = quad.Points.Dims()
		fn    = c.component(0, 0)
	)
	for q := 0; q < nq; q++ {
		xi := make([]float64, g.dim)
		for j := 0; j < g.dim; j++ {
			xi[j] = quad.Points.At(q, j)
		}
		w := fn(g.mapPoint(xi)) * complex(quad.Weights.AtVec(q)*g.scale, 0)
		for a := 0; a < nv; a++ {
			for b := 0; b < nv; b++ {
				R.AddAt(a, b, w*complex(wv.At(a, q)*wu.At(b, q), 0))
			}
		}
	}
	return
}

func onlyValue(alpha []float64) bool {
	for _, v := range alpha[1:] {
		if v != 0 {
			return false
		}
	}
	return alpha[0] != 0
}

func refMass(dim int) (R utils.Matrix) {
	var (
		nv    = dim + 1
		denom = []float64{0, 6, 24, 120}[dim]
	)
	R = utils.NewMatrix(nv, nv)
	for a := 0; a < nv; a++ {
		for b := 0; b < nv; b++ {
			v := 1.0
			if a == b {
				v = 2
			}
			R.Set(a, b, v/denom)
		}
	}
	return
}
