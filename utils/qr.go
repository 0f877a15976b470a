package utils

import (
	"math"
	"math/cmplx"
)

// QRPivot factors the receiver as m*P = Q*R with Householder reflections and
// column pivoting, so that the diagonal of R is non-increasing in magnitude.
// Q is mr x mr unitary, R is mr x mc upper triangular, and piv lists the
// column of m occupying each column of R.
func (m CMatrix) QRPivot() (Q, R CMatrix, piv Index) {
	var (
		mr, mc = m.Dims()
		steps  = mr
	)
	if mc < mr {
		steps = mc
	}
	R = m.Copy()
	Q = NewCIdentity(mr)
	piv = NewRange(0, mc-1)
	colNorm := make([]float64, mc)
	for j := 0; j < mc; j++ {
		for i := 0; i < mr; i++ {
			v := R.At(i, j)
			colNorm[j] += real(v)*real(v) + imag(v)*imag(v)
		}
	}
	for k := 0; k < steps; k++ {
		// Move the column with the largest remaining norm to position k
		jmax := k
		for j := k + 1; j < mc; j++ {
			if colNorm[j] > colNorm[jmax] {
				jmax = j
			}
		}
		if jmax != k {
			for i := 0; i < mr; i++ {
				vk, vj := R.At(i, k), R.At(i, jmax)
				R.Set(i, k, vj)
				R.Set(i, jmax, vk)
			}
			colNorm[k], colNorm[jmax] = colNorm[jmax], colNorm[k]
			piv[k], piv[jmax] = piv[jmax], piv[k]
		}
		// Householder vector for column k below the diagonal
		var xnorm float64
		for i := k; i < mr; i++ {
			v := R.At(i, k)
			xnorm += real(v)*real(v) + imag(v)*imag(v)
		}
		xnorm = math.Sqrt(xnorm)
		if xnorm == 0 {
			continue
		}
		alpha := complex(-xnorm, 0)
		if xkk := R.At(k, k); xkk != 0 {
			alpha = -xkk / complex(cmplx.Abs(xkk), 0) * complex(xnorm, 0)
		}
		v := make([]complex128, mr)
		for i := k; i < mr; i++ {
			v[i] = R.At(i, k)
		}
		v[k] -= alpha
		var vnorm2 float64
		for i := k; i < mr; i++ {
			vnorm2 += real(v[i])*real(v[i]) + imag(v[i])*imag(v[i])
		}
		if vnorm2 == 0 {
			continue
		}
		beta := complex(2/vnorm2, 0)
		// Apply H = I - beta*v*v' to R (columns k..mc) and accumulate into Q
		for j := k; j < mc; j++ {
			var s complex128
			for i := k; i < mr; i++ {
				s += cmplx.Conj(v[i]) * R.At(i, j)
			}
			s *= beta
			for i := k; i < mr; i++ {
				R.AddAt(i, j, -s*v[i])
			}
		}
		for j := 0; j < mr; j++ {
			var s complex128
			for i := k; i < mr; i++ {
				s += cmplx.Conj(v[i]) * Q.At(i, j)
			}
			s *= beta
			for i := k; i < mr; i++ {
				Q.AddAt(i, j, -s*v[i])
			}
		}
		// Zero out rounding residue below the diagonal
		for i := k + 1; i < mr; i++ {
			R.Set(i, k, 0)
		}
		for j := k + 1; j < mc; j++ {
			v := R.At(k, j)
			colNorm[j] -= real(v)*real(v) + imag(v)*imag(v)
			if colNorm[j] < 0 {
				colNorm[j] = 0
			}
		}
	}
	// Q accumulated H_k...H_1, which is Q conjugate-transposed
	Q = Q.ConjTranspose()
	return
}
