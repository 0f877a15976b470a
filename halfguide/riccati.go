package halfguide

import (
	"fmt"
	"math/cmplx"

	"github.com/periodicmedia/guidewave/utils"
)

// solveRiccati forms the 2Nb x 2Nb generalized eigenvalue problem pairing
// exit-face traces against entry-face traces, keeps the modes with
// outgoing or decaying energy flux, and builds the propagation pair
// (R, D). Fewer than Nb admissible modes is fatal: the problem is
// ill-posed and no fallback selection exists.
func (sol *Solution) solveRiccati() (err error) {
	var (
		cfg   = sol.Cfg
		Nb    = cfg.BC.Basis0.Size()
		s     = complex(float64(cfg.Orientation), 0)
		omega = cfg.Frequency
		tol   = cfg.tol()
	)
	Apen := utils.NewCMatrix(2*Nb, 2*Nb)
	Apen.SetSubmatrix(0, 0, sol.E01)
	Apen.SetSubmatrix(0, Nb, sol.E11)
	Apen.SetSubmatrix(Nb, 0, sol.F01.Copy().Scale(s))
	Apen.SetSubmatrix(Nb, Nb, sol.F11.Copy().Scale(s))
	Bpen := utils.NewCMatrix(2*Nb, 2*Nb)
	Bpen.SetSubmatrix(0, 0, sol.E00)
	Bpen.SetSubmatrix(0, Nb, sol.E10)
	Bpen.SetSubmatrix(Nb, 0, sol.F00.Copy().Scale(-s))
	Bpen.SetSubmatrix(Nb, Nb, sol.F10.Copy().Scale(-s))

	vals, vecs, err := utils.GeneralizedEig(Apen, Bpen)
	if err != nil {
		return fmt.Errorf("riccati eigenvalue phase failed: %v", err)
	}

	// Radiation-condition pick: strictly decaying modes are admissible,
	// strictly growing ones are not, and modes on the unit circle are
	// classified by the sign of the energy flux functional
	const modeTol = 1e-8
	var (
		admVals []complex128
		admVecs []utils.CVector
	)
	for k, lam := range vals {
		switch a := cmplx.Abs(lam); {
		case a < 1-modeTol:
			admVals = append(admVals, lam)
			admVecs = append(admVecs, vecs[k])
		case a > 1+modeTol:
			// grows with distance, inadmissible
		default:
			x0 := utils.CVector{Data: vecs[k].Data[:Nb]}
			x1 := utils.CVector{Data: vecs[k].Data[Nb:]}
			t := sol.E01.MulVec(x0).Add(sol.E11.MulVec(x1))
			f := sol.F01.MulVec(x0).Add(sol.F11.MulVec(x1))
			if q := float64(cfg.Orientation) * omega * imagInner(t, f); q > 0 {
				admVals = append(admVals, lam)
				admVecs = append(admVecs, vecs[k])
			}
		}
	}
	if len(admVals) < Nb {
		return fmt.Errorf("only %d admissible propagation modes for a spectral basis of size %d", len(admVals), Nb)
	}

	// The candidate list may repeat modes; a pivoted QR keeps an
	// independent subset of exactly Nb
	Cand := utils.NewCMatrix(2*Nb, len(admVecs))
	for k, v := range admVecs {
		Cand.SetCol(k, v.Data)
	}
	_, Rqr, piv := Cand.QRPivot()
	lead := cmplx.Abs(Rqr.At(0, 0))
	var sel utils.Index
	for k := 0; k < len(admVecs) && k < 2*Nb; k++ {
		if cmplx.Abs(Rqr.At(k, k)) > tol*lead {
			sel = append(sel, piv[k])
		}
	}
	if len(sel) < Nb {
		return fmt.Errorf("only %d independent admissible modes for a spectral basis of size %d", len(sel), Nb)
	}
	sel = sel[:Nb]

	sol.X0 = utils.NewCMatrix(Nb, Nb)
	sol.X1 = utils.NewCMatrix(Nb, Nb)
	sol.Lambda = make([]complex128, Nb)
	for m, k := range sel {
		sol.X0.SetCol(m, admVecs[k].Data[:Nb])
		sol.X1.SetCol(m, admVecs[k].Data[Nb:])
		sol.Lambda[m] = admVals[k]
	}
	X0inv, ierr := sol.X0.Inverse()
	if ierr != nil {
		return fmt.Errorf("entry-face mode matrix is singular: %v", ierr)
	}
	LamX0inv := utils.NewCMatrix(Nb, Nb)
	for i := 0; i < Nb; i++ {
		for j := 0; j < Nb; j++ {
			LamX0inv.Set(i, j, sol.Lambda[i]*X0inv.At(i, j))
		}
	}
	sol.R = sol.X0.Mul(LamX0inv)
	sol.D = sol.X1.Mul(X0inv)
	sol.T = sol.E00.Mul(sol.X0).Add(sol.E10.Mul(sol.X1))
	return
}

func imagInner(a, b utils.CVector) float64 {
	return imag(a.InnerProduct(b))
}
