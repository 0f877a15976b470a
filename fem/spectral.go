package fem

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/periodicmedia/guidewave/mesh"
	"github.com/periodicmedia/guidewave/utils"
)

// SpectralBasis is an ordered finite set of boundary trace functions
// sampled at the points of a boundary domain. The mass matrix, its inverse
// and the nodal/spectral change-of-basis matrices are computed on first use
// and memoized; a basis is never recomputed, only reconstructed.
type SpectralBasis struct {
	Dom *mesh.Domain
	Phi utils.CMatrix // nodal samples, one column per basis function

	cache *basisCache
}

type basisCache struct {
	bmass      utils.CMatrix // FE mass on the boundary domain points
	mass       utils.CMatrix
	massInv    utils.CMatrix
	toSpectral utils.CMatrix
}

func NewSpectralBasis(dom *mesh.Domain, phi utils.CMatrix) (sb *SpectralBasis) {
	if phi.Nr != len(dom.PointIDs()) {
		panic(fmt.Errorf("basis sample rows %d do not match the %d points of domain %q",
			phi.Nr, len(dom.PointIDs()), dom.Name))
	}
	sb = &SpectralBasis{Dom: dom, Phi: phi}
	return
}

// NewFourierBasis samples nb truncated Fourier modes exp(2i*pi*m*y/L)/sqrt(L),
// m = 0, 1, -1, 2, -2, ..., where y is coordinate coord of each domain point.
func NewFourierBasis(dom *mesh.Domain, nb, coord int, L float64) (sb *SpectralBasis) {
	var (
		ids = dom.PointIDs()
		msh = dom.Mesh()
		phi = utils.NewCMatrix(len(ids), nb)
	)
	for n := 0; n < nb; n++ {
		m := (n + 1) / 2
		if n%2 == 0 {
			m = -m
		}
		for i, p := range ids {
			y := msh.Point(p)[coord]
			phi.Set(i, n, cmplx.Exp(complex(0, 2*math.Pi*float64(m)*y/L))/complex(math.Sqrt(L), 0))
		}
	}
	return NewSpectralBasis(dom, phi)
}

// NewNodalBasis uses the domain's own hat functions as the basis.
func NewNodalBasis(dom *mesh.Domain) (sb *SpectralBasis) {
	return NewSpectralBasis(dom, utils.NewCIdentity(len(dom.PointIDs())))
}

func (sb *SpectralBasis) Size() int { return sb.Phi.Nc }

func (sb *SpectralBasis) ensure() {
	if sb.cache != nil {
		return
	}
	var (
		ids  = sb.Dom.PointIDs()
		npts = len(ids)
	)
	Kb := Assemble(sb.Dom, Mass(sb.Dom.Mesh().Dim, ConstCoeff(1)), DefaultAssembleOptions()).ToCSR()
	bmass := utils.NewCMatrix(npts, npts)
	inv := make(map[int]int, npts)
	for i, p := range ids {
		inv[p] = i
	}
	Kb.Re.DoNonZero(func(i, j int, v float64) {
		bmass.Set(inv[i], inv[j], complex(v, 0))
	})
	mass := sb.Phi.ConjTranspose().Mul(bmass).Mul(sb.Phi)
	massInv, err := mass.Inverse()
	if err != nil {
		panic(fmt.Errorf("spectral basis mass matrix is singular on domain %q: %v", sb.Dom.Name, err))
	}
	sb.cache = &basisCache{
		bmass:      bmass,
		mass:       mass,
		massInv:    massInv,
		toSpectral: massInv.Mul(sb.Phi.ConjTranspose()).Mul(bmass),
	}
}

func (sb *SpectralBasis) MassMatrix() utils.CMatrix   { sb.ensure(); return sb.cache.mass }
func (sb *SpectralBasis) MassInverse() utils.CMatrix  { sb.ensure(); return sb.cache.massInv }
func (sb *SpectralBasis) BoundaryMass() utils.CMatrix { sb.ensure(); return sb.cache.bmass }

// NodalToSpectral projects columns of nodal values on the domain points
// onto basis coefficients.
func (sb *SpectralBasis) NodalToSpectral(u utils.CMatrix) utils.CMatrix {
	sb.ensure()
	if u.Nr != sb.Phi.Nr {
		panic(fmt.Errorf("nodal data has %d rows, domain %q has %d points", u.Nr, sb.Dom.Name, sb.Phi.Nr))
	}
	return sb.cache.toSpectral.Mul(u)
}

// SpectralToNodal expands coefficient columns into nodal values.
func (sb *SpectralBasis) SpectralToNodal(c utils.CMatrix) utils.CMatrix {
	if c.Nr != sb.Size() {
		panic(fmt.Errorf("coefficient data has %d rows, basis has %d functions", c.Nr, sb.Size()))
	}
	return sb.Phi.Mul(c)
}

// Convert re-tags an operator matrix between its weak-evaluation and
// projection representations through the cached mass matrix.
func (sb *SpectralBasis) Convert(op utils.CMatrix, from, to Representation) utils.CMatrix {
	sb.checkShape(op)
	if from == to {
		return op.Copy()
	}
	sb.ensure()
	if from == Projection { // to weak evaluation
		return sb.cache.mass.Mul(op)
	}
	return sb.cache.massInv.Mul(op)
}

func (sb *SpectralBasis) checkShape(op utils.CMatrix) {
	if op.Nr != sb.Size() || op.Nc != sb.Size() {
		panic(fmt.Errorf("operator is %dx%d, spectral basis has %d functions", op.Nr, op.Nc, sb.Size()))
	}
}

// InjectBoundaryOperator adds the weak contribution of a spectral-basis
// operator to the global system on the basis' boundary domain.
func InjectBoundaryOperator(K utils.CDOK, sb *SpectralBasis, op utils.CMatrix, rep Representation) {
	sb.checkShape(op)
	sb.ensure()
	var (
		proj = sb.Convert(op, rep, Projection)
		ids  = sb.Dom.PointIDs()
		G    = sb.cache.bmass.Mul(sb.Phi).Mul(proj).Mul(sb.cache.toSpectral)
	)
	for i := range ids {
		for j := range ids {
			if v := G.At(i, j); v != 0 {
				K.Add(ids[i], ids[j], v)
			}
		}
	}
}

// BoundaryLoad returns the global right-hand-side columns of the weak
// forcing by each basis function on the domain, scaled by s.
func (sb *SpectralBasis) BoundaryLoad(N int, s complex128) (rhs utils.CMatrix) {
	sb.ensure()
	var (
		ids = sb.Dom.PointIDs()
		L   = sb.cache.bmass.Mul(sb.Phi) // npts x nb
	)
	rhs = utils.NewCMatrix(N, sb.Size())
	for i, p := range ids {
		for n := 0; n < sb.Size(); n++ {
			rhs.Set(p, n, s*L.At(i, n))
		}
	}
	return
}
