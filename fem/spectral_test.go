package fem

import (
	"testing"

	"github.com/periodicmedia/guidewave/mesh"
	"github.com/periodicmedia/guidewave/utils"
	"github.com/stretchr/testify/assert"
)

func TestFourierOrthogonality(t *testing.T) {
	var (
		L   = 2.0
		msh = mesh.NewRectangleMesh(2, 64, 1, L)
		sb  = NewFourierBasis(msh.Domain("xmin"), 3, 1, L)
	)
	// The Fourier modes are orthonormal in L2 of the face; the piecewise
	// linear interpolation perturbs that at second order in the mesh step
	M := sb.MassMatrix()
	diff := M.Copy().Subtract(utils.NewCIdentity(3))
	assert.True(t, near(diff.MaxAbs(), 0, 1e-2))
}

func TestChangeOfBasisRoundTrip(t *testing.T) {
	var (
		msh = mesh.NewRectangleMesh(2, 12, 1, 1)
		sb  = NewFourierBasis(msh.Domain("xmax"), 4, 1, 1)
	)
	// Projecting the basis samples onto the basis is the identity
	C := sb.NodalToSpectral(sb.Phi)
	diff := C.Subtract(utils.NewCIdentity(4))
	assert.True(t, near(diff.MaxAbs(), 0, 1e-10))

	// Coefficients survive an expand-project round trip
	c := utils.NewCMatrix(4, 1, []complex128{1, 2i, -0.5, 1 - 1i})
	back := sb.NodalToSpectral(sb.SpectralToNodal(c))
	assert.True(t, near(back.Subtract(c).MaxAbs(), 0, 1e-10))
}

func TestNodalBasis(t *testing.T) {
	var (
		msh = mesh.NewRectangleMesh(2, 6, 1, 1)
		sb  = NewNodalBasis(msh.Domain("xmin"))
	)
	assert.Equal(t, 7, sb.Size())
	c := utils.NewCMatrix(7, 2)
	c.Set(3, 0, 1+1i)
	c.Set(0, 1, -2)
	back := sb.NodalToSpectral(sb.SpectralToNodal(c.Copy()))
	assert.True(t, near(back.Subtract(c).MaxAbs(), 0, 1e-10))
}

func TestRepresentationConvert(t *testing.T) {
	var (
		msh = mesh.NewRectangleMesh(2, 8, 1, 1)
		sb  = NewFourierBasis(msh.Domain("xmin"), 3, 1, 1)
		op  = utils.NewCMatrix(3, 3, []complex128{1, 2i, 0, 0, -1, 1, 0.5, 0, 3})
	)
	weak := sb.Convert(op, Projection, WeakEvaluation)
	back := sb.Convert(weak, WeakEvaluation, Projection)
	assert.True(t, near(back.Subtract(op).MaxAbs(), 0, 1e-10))
	same := sb.Convert(op, Projection, Projection)
	assert.True(t, near(same.Subtract(op).MaxAbs(), 0))

	assert.Panics(t, func() { sb.Convert(utils.NewCIdentity(2), Projection, WeakEvaluation) })
}

func TestInjectBoundaryOperator(t *testing.T) {
	var (
		msh = mesh.NewRectangleMesh(3, 5, 1, 1)
		dom = msh.Domain("xmin")
		sb  = NewNodalBasis(dom)
		N   = msh.NPoints
	)
	// For the nodal basis, injecting the identity adds exactly the face
	// mass matrix
	K := utils.NewCDOK(N, N)
	InjectBoundaryOperator(K, sb, utils.NewCIdentity(sb.Size()), Projection)
	Mface := Assemble(dom, Mass(2, ConstCoeff(1)), AssembleOptions{})
	A := K.ToCSR().ToCMatrix()
	B := Mface.ToCSR().ToCMatrix()
	assert.True(t, near(A.Subtract(B).MaxAbs(), 0, 1e-12))
}

func TestBoundaryLoad(t *testing.T) {
	var (
		ly  = 1.5
		msh = mesh.NewRectangleMesh(3, 6, 1, ly)
		dom = msh.Domain("xmax")
		sb  = NewNodalBasis(dom)
		N   = msh.NPoints
	)
	rhs := sb.BoundaryLoad(N, 2)
	assert.Equal(t, N, rhs.Nr)
	assert.Equal(t, sb.Size(), rhs.Nc)
	// Total load of the nodal basis is twice the face length
	var sum complex128
	for i := 0; i < rhs.Nr; i++ {
		for j := 0; j < rhs.Nc; j++ {
			sum += rhs.At(i, j)
		}
	}
	assert.True(t, cnear(sum, complex(2*ly, 0), 1e-12))
	// Rows away from the face are untouched
	offFace := 0
	ids := dom.PointIDs()
	for p := 0; p < N; p++ {
		if !ids.Contains(p) {
			offFace = p
			break
		}
	}
	for j := 0; j < rhs.Nc; j++ {
		assert.True(t, cnear(rhs.At(offFace, j), 0))
	}
}
