package utils

import (
	"fmt"
	"math/cmplx"
)

// Solve computes X such that m*X = B by LU factorization with partial
// pivoting. The receiver is not modified.
func (m CMatrix) Solve(B CMatrix) (X CMatrix, err error) {
	var (
		n = m.Nr
	)
	if m.Nr != m.Nc {
		err = fmt.Errorf("CMatrix Solve requires a square matrix, have %dx%d", m.Nr, m.Nc)
		return
	}
	if B.Nr != n {
		err = fmt.Errorf("CMatrix Solve dimension mismatch: %dx%d system, %dx%d rhs", n, n, B.Nr, B.Nc)
		return
	}
	LU := m.Copy()
	X = B.Copy()
	piv := make([]int, n)
	for i := range piv {
		piv[i] = i
	}
	for k := 0; k < n; k++ {
		// Partial pivot on the largest remaining entry in column k
		p, pmax := k, cmplx.Abs(LU.At(k, k))
		for i := k + 1; i < n; i++ {
			if a := cmplx.Abs(LU.At(i, k)); a > pmax {
				p, pmax = i, a
			}
		}
		if pmax == 0 {
			err = fmt.Errorf("singular matrix in CMatrix Solve at pivot %d", k)
			return
		}
		if p != k {
			swapRows(LU.Data[k*n:k*n+n], LU.Data[p*n:p*n+n])
			swapRows(X.Data[k*X.Nc:k*X.Nc+X.Nc], X.Data[p*X.Nc:p*X.Nc+X.Nc])
		}
		pivVal := LU.At(k, k)
		for i := k + 1; i < n; i++ {
			l := LU.At(i, k) / pivVal
			LU.Set(i, k, l)
			if l == 0 {
				continue
			}
			for j := k + 1; j < n; j++ {
				LU.AddAt(i, j, -l*LU.At(k, j))
			}
			for j := 0; j < X.Nc; j++ {
				X.AddAt(i, j, -l*X.At(k, j))
			}
		}
	}
	// Back substitution against U
	for j := 0; j < X.Nc; j++ {
		for i := n - 1; i >= 0; i-- {
			s := X.At(i, j)
			for k := i + 1; k < n; k++ {
				s -= LU.At(i, k) * X.At(k, j)
			}
			X.Set(i, j, s/LU.At(i, i))
		}
	}
	return
}

func swapRows(a, b []complex128) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}

func (m CMatrix) Inverse() (R CMatrix, err error) {
	R, err = m.Solve(NewCIdentity(m.Nr))
	return
}
