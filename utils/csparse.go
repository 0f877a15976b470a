package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
)

// CDOK is a complex sparse builder backed by a pair of real DOK matrices,
// since the sparse package stores float64 entries only.
type CDOK struct {
	Re, Im *sparse.DOK
	Nr, Nc int
}

func NewCDOK(nr, nc int) (R CDOK) {
	R = CDOK{
		Re: sparse.NewDOK(nr, nc),
		Im: sparse.NewDOK(nr, nc),
		Nr: nr,
		Nc: nc,
	}
	return
}

func (m CDOK) Dims() (nr, nc int) { return m.Nr, m.Nc }

func (m CDOK) At(i, j int) complex128 {
	return complex(m.Re.At(i, j), m.Im.At(i, j))
}

func (m CDOK) Set(i, j int, v complex128) {
	m.Re.Set(i, j, real(v))
	m.Im.Set(i, j, imag(v))
}

// Add scatters v into entry (i,j), summing with what is already there.
func (m CDOK) Add(i, j int, v complex128) {
	if re := real(v); re != 0 {
		m.Re.Set(i, j, m.Re.At(i, j)+re)
	}
	if im := imag(v); im != 0 {
		m.Im.Set(i, j, m.Im.At(i, j)+im)
	}
}

func (m CDOK) AddCDOK(A CDOK) {
	if m.Nr != A.Nr || m.Nc != A.Nc {
		panic(fmt.Errorf("dimension mismatch in CDOK AddCDOK: %dx%d plus %dx%d", m.Nr, m.Nc, A.Nr, A.Nc))
	}
	A.Re.DoNonZero(func(i, j int, v float64) {
		m.Re.Set(i, j, m.Re.At(i, j)+v)
	})
	A.Im.DoNonZero(func(i, j int, v float64) {
		m.Im.Set(i, j, m.Im.At(i, j)+v)
	})
}

func (m CDOK) ToCSR() (R CCSR) {
	R = CCSR{
		Re: m.Re.ToCSR(),
		Im: m.Im.ToCSR(),
		Nr: m.Nr,
		Nc: m.Nc,
	}
	return
}

// CCSR is the compressed, multiply-ready form of CDOK.
type CCSR struct {
	Re, Im *sparse.CSR
	Nr, Nc int
}

func (m CCSR) Dims() (nr, nc int) { return m.Nr, m.Nc }

// MulCMatrix computes the dense product m*X by iterating the stored
// non-zeros, keeping the cost at nnz times the column count of X.
func (m CCSR) MulCMatrix(X CMatrix) (R CMatrix) {
	if m.Nc != X.Nr {
		panic(fmt.Errorf("dimension mismatch in CCSR MulCMatrix: %dx%d times %dx%d", m.Nr, m.Nc, X.Nr, X.Nc))
	}
	R = NewCMatrix(m.Nr, X.Nc)
	m.Re.DoNonZero(func(i, j int, v float64) {
		rowX := X.Data[j*X.Nc : (j+1)*X.Nc]
		rowR := R.Data[i*X.Nc : (i+1)*X.Nc]
		for k, x := range rowX {
			rowR[k] += complex(v, 0) * x
		}
	})
	m.Im.DoNonZero(func(i, j int, v float64) {
		rowX := X.Data[j*X.Nc : (j+1)*X.Nc]
		rowR := R.Data[i*X.Nc : (i+1)*X.Nc]
		for k, x := range rowX {
			rowR[k] += complex(0, v) * x
		}
	})
	return
}

func (m CCSR) MulCVec(v CVector) (R CVector) {
	R = m.MulCMatrix(v.AsColumn()).Col(0)
	return
}

// ToCMatrix densifies; intended for reduced systems small enough for a
// direct solve.
func (m CCSR) ToCMatrix() (R CMatrix) {
	R = NewCMatrix(m.Nr, m.Nc)
	m.Re.DoNonZero(func(i, j int, v float64) {
		R.AddAt(i, j, complex(v, 0))
	})
	m.Im.DoNonZero(func(i, j int, v float64) {
		R.AddAt(i, j, complex(0, v))
	})
	return
}
