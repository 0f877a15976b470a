package halfguide

import (
	"fmt"
	"math/cmplx"

	"github.com/periodicmedia/guidewave/fem"
	"github.com/periodicmedia/guidewave/utils"
)

// CellOperators returns, for each of numCells periods, the operator
// mapping entry-face spectral data to the nodal field on that period's
// cell. The iteration is the linear recurrence R0 <- R*R0, R1 = D*R0; the
// cost is linear in numCells.
func (sol *Solution) CellOperators(numCells int) (cells []utils.CMatrix) {
	if numCells < 1 {
		panic(fmt.Errorf("number of cells must be positive, have %d", numCells))
	}
	Tinv, err := sol.T.Inverse()
	if err != nil {
		panic(fmt.Errorf("entry-face trace of the mode family is singular: %v", err))
	}
	var (
		R0 = sol.X0.Mul(Tinv)
		R1 = sol.X1.Mul(Tinv)
	)
	cells = make([]utils.CMatrix, numCells)
	for p := 0; p < numCells; p++ {
		cells[p] = sol.E0.Mul(R0).Add(sol.E1.Mul(R1))
		R0 = sol.R.Mul(R0)
		R1 = sol.D.Mul(R0)
	}
	return
}

// Reconstruct expands one concrete boundary datum, given by its spectral
// coefficients on the entry face, into the nodal field on numCells
// consecutive periods.
func (sol *Solution) Reconstruct(numCells int, ghat utils.CVector) (cells []utils.CVector) {
	if numCells < 1 {
		panic(fmt.Errorf("number of cells must be positive, have %d", numCells))
	}
	if ghat.Len() != sol.X0.Nr {
		panic(fmt.Errorf("datum has %d coefficients, spectral basis %d", ghat.Len(), sol.X0.Nr))
	}
	C, err := sol.T.Solve(ghat.AsColumn())
	if err != nil {
		panic(fmt.Errorf("entry-face trace of the mode family is singular: %v", err))
	}
	var (
		r0 = sol.X0.MulVec(C.Col(0))
		r1 = sol.X1.MulVec(C.Col(0))
	)
	cells = make([]utils.CVector, numCells)
	for p := 0; p < numCells; p++ {
		cells[p] = sol.E0.MulVec(r0).Add(sol.E1.MulVec(r1))
		r0 = sol.R.MulVec(r0)
		r1 = sol.D.MulVec(r0)
	}
	return
}

// FluxOperator maps entry-face spectral data to the weak normal trace of
// the full half-guide solution on that face.
func (sol *Solution) FluxOperator() (F utils.CMatrix) {
	Tinv, err := sol.T.Inverse()
	if err != nil {
		panic(fmt.Errorf("entry-face trace of the mode family is singular: %v", err))
	}
	F = sol.F00.Mul(sol.X0).Add(sol.F10.Mul(sol.X1)).Mul(Tinv)
	return
}

// Transmission computes the Dirichlet-to-Neumann-like operator of the
// half-guide on its entry face, for coupling two half-guides across an
// interface: Lambda = -conj(BCu)*trace + conj(BCdu)*flux in the spectral
// basis.
func (sol *Solution) Transmission() (L utils.CMatrix) {
	Tinv, err := sol.T.Inverse()
	if err != nil {
		panic(fmt.Errorf("entry-face trace of the mode family is singular: %v", err))
	}
	var (
		trace = sol.E00.Mul(sol.X0).Add(sol.E10.Mul(sol.X1)).Mul(Tinv)
		flux  = sol.F00.Mul(sol.X0).Add(sol.F10.Mul(sol.X1)).Mul(Tinv)
		bc    = sol.Cfg.BC
	)
	switch bc.Tangential.Kind {
	case fem.CoeffScalar:
		L = trace.Scale(-cmplx.Conj(bc.Tangential.Scalar))
	case fem.CoeffSpectral:
		L = bc.Tangential.Op.ConjTranspose().Mul(trace).Scale(-1)
	default:
		panic(fmt.Errorf("transmission operator needs a scalar or spectral tangential coefficient"))
	}
	L.Add(flux.Scale(cmplx.Conj(bc.NormalCoeff)))
	return
}
