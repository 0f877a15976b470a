package fem

import (
	"fmt"

	"github.com/periodicmedia/guidewave/mesh"
	"github.com/periodicmedia/guidewave/utils"
)

// AssembleOptions is the explicit configuration record for an assembly
// call. The zero value of a field means "use the default".
type AssembleOptions struct {
	Quadrature *QuadRule
	Verbose    bool
}

func DefaultAssembleOptions() AssembleOptions { return AssembleOptions{} }

// Assemble scatters the elementary matrices of every element of the domain
// into a global sparse operator over the mesh degrees of freedom. It is a
// pure function of (domain, form, options): nothing is mutated.
//
// Terms with operator-valued coefficients are assembled one scalar
// sub-problem per output entry and summed.
func Assemble(dom *mesh.Domain, form Form, opts AssembleOptions) (K utils.CDOK) {
	var (
		msh = dom.Mesh()
		N   = msh.NPoints
	)
	if form.Dim != msh.Dim {
		panic(fmt.Errorf("form dimension %d does not match mesh dimension %d", form.Dim, msh.Dim))
	}
	if dom.Dim > msh.Dim {
		panic(fmt.Errorf("domain dimension %d exceeds mesh dimension %d", dom.Dim, msh.Dim))
	}
	form.validate()
	if dom.Dim < msh.Dim {
		// A derivative transverse to a lower-dimensional domain is undefined
		for _, t := range form.Terms {
			if !valueOnly(t.AlphaU) || !valueOnly(t.AlphaV) {
				panic(fmt.Errorf("tangential derivative coefficients are invalid on %d-dimensional domain %q in a %d-dimensional mesh",
					dom.Dim, dom.Name, msh.Dim))
			}
		}
	}
	quad := DefaultQuadrature(dom.Dim)
	if opts.Quadrature != nil {
		quad = *opts.Quadrature
	}
	if opts.Verbose {
		fmt.Printf("assembling %d elements of domain %q, %d form terms, N = %d\n",
			dom.NumElements(), dom.Name, len(form.Terms), N)
	}
	K = utils.NewCDOK(N, N)
	nv := dom.Dim + 1
	for e := 0; e < dom.NumElements(); e++ {
		ids := dom.ElementVerts(e)
		if len(ids) != nv {
			panic(fmt.Errorf("element %d of domain %q has %d points, want %d", e, dom.Name, len(ids), nv))
		}
		verts := make([][]float64, nv)
		for a, p := range ids {
			verts[a] = msh.Point(p)
		}
		for _, t := range form.Terms {
			if t.Coeff.Kind == CoeffSpectral {
				panic(fmt.Errorf("spectral operator coefficients enter through InjectBoundaryOperator, not Assemble"))
			}
			for i := 0; i < t.Coeff.MatNr; i++ {
				for j := 0; j < t.Coeff.MatNc; j++ {
					sub := t.Coeff
					if sub.Kind == CoeffMatrixFunction {
						inner := t.Coeff
						sub = FnCoeff(inner.component(i, j))
					}
					elem := ElementMatrix(msh.Dim, verts,
						t.AlphaU.Row(j).Data(), t.AlphaV.Row(i).Data(), sub, quad)
					for a := 0; a < nv; a++ {
						for b := 0; b < nv; b++ {
							if v := elem.At(a, b); v != 0 {
								K.Add(ids[a], ids[b], v)
							}
						}
					}
				}
			}
		}
	}
	return
}

func valueOnly(alpha utils.Matrix) bool {
	nr, nc := alpha.Dims()
	for i := 0; i < nr; i++ {
		for j := 1; j < nc; j++ {
			if alpha.At(i, j) != 0 {
				return false
			}
		}
	}
	return true
}
