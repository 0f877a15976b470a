package utils

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// CEig computes eigenvalue/right-eigenvector candidates of a complex square
// matrix. gonum's Eigen factors real matrices only, so the matrix M = X+iY is
// embedded as the real 2n x 2n matrix [[X,-Y],[Y,X]], whose spectrum is the
// union of the spectrum of M and its conjugate. Each eigenpair (lambda,[a;b])
// of the embedding yields w = a+ib with M w = lambda w whenever w is nonzero;
// vanishing w marks a pair belonging to the conjugate copy, which is skipped.
// Candidates may contain repeats when the spectrum of M is conjugation
// symmetric; callers select an independent subset.
func (m CMatrix) CEig() (vals []complex128, vecs []CVector, err error) {
	var (
		n = m.Nr
	)
	if m.Nr != m.Nc {
		err = fmt.Errorf("CEig requires a square matrix, have %dx%d", m.Nr, m.Nc)
		return
	}
	Z := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := m.At(i, j)
			Z.Set(i, j, real(v))
			Z.Set(i, j+n, -imag(v))
			Z.Set(i+n, j, imag(v))
			Z.Set(i+n, j+n, real(v))
		}
	}
	var eig mat.Eigen
	if !eig.Factorize(Z, mat.EigenRight) {
		err = fmt.Errorf("eigendecomposition of the realified %dx%d matrix failed", 2*n, 2*n)
		return
	}
	ev := eig.Values(nil)
	var V mat.CDense
	eig.VectorsTo(&V)
	for k := 0; k < 2*n; k++ {
		var znorm float64
		z := make([]complex128, 2*n)
		for i := 0; i < 2*n; i++ {
			z[i] = V.At(i, k)
			znorm += real(z[i])*real(z[i]) + imag(z[i])*imag(z[i])
		}
		// w = a+ib recovers the eigenvector of M for eigenvalue lambda,
		// conj(a)+i*conj(b) the one of conj(lambda)
		w := NewCVector(n)
		wc := NewCVector(n)
		for i := 0; i < n; i++ {
			w.Data[i] = z[i] + 1i*z[i+n]
			wc.Data[i] = cmplx.Conj(z[i]) + 1i*cmplx.Conj(z[i+n])
		}
		const tol = 1e-8
		if nw := w.Norm(); nw*nw > tol*znorm {
			vals = append(vals, ev[k])
			vecs = append(vecs, w.Scale(complex(1/nw, 0)))
		}
		if nw := wc.Norm(); nw*nw > tol*znorm {
			vals = append(vals, cmplx.Conj(ev[k]))
			vecs = append(vecs, wc.Scale(complex(1/nw, 0)))
		}
	}
	return
}

// GeneralizedEig returns eigenpair candidates of the pencil A*x = lambda*B*x.
// When B is invertible the pencil reduces to inv(B)*A; otherwise a fixed
// spectral shift moves the problem to an invertible one and the eigenvalues
// are mapped back.
func GeneralizedEig(A, B CMatrix) (vals []complex128, vecs []CVector, err error) {
	if A.Nr != B.Nr || A.Nc != B.Nc || A.Nr != A.Nc {
		err = fmt.Errorf("GeneralizedEig needs equal square matrices, have %dx%d and %dx%d",
			A.Nr, A.Nc, B.Nr, B.Nc)
		return
	}
	if M, serr := B.Solve(A); serr == nil {
		vals, vecs, err = M.CEig()
		return
	}
	// Shift-invert: solve (A - sigma*B) y = B y / mu, lambda = sigma + 1/mu
	const sigma = 0.5702 + 0.9153i
	S := A.Copy().Add(B.Copy().Scale(-sigma))
	M, serr := S.Solve(B)
	if serr != nil {
		err = fmt.Errorf("singular pencil in GeneralizedEig: %v", serr)
		return
	}
	muVals, muVecs, merr := M.CEig()
	if merr != nil {
		err = merr
		return
	}
	for k, mu := range muVals {
		if mu == 0 {
			// Eigenvalue at infinity, not a propagation mode
			continue
		}
		vals = append(vals, sigma+1/mu)
		vecs = append(vecs, muVecs[k])
	}
	return
}
