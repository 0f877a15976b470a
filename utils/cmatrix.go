package utils

import (
	"fmt"
	"math"
	"math/cmplx"
)

// CMatrix is the complex counterpart of Matrix, stored row-major. The PDE
// fields, operators and spectral coefficients are complex throughout, while
// gonum's mat.Dense is real-only, so the complex algebra lives here.
type CMatrix struct {
	Data   []complex128
	Nr, Nc int
}

func NewCMatrix(nr, nc int, dataO ...[]complex128) (R CMatrix) {
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewCMatrix nr,nc = %v,%v, len(data[0]) = %v\n",
				nr, nc, len(dataO[0]))
			panic(err)
		}
		R = CMatrix{dataO[0], nr, nc}
	} else {
		R = CMatrix{make([]complex128, nr*nc), nr, nc}
	}
	return
}

func NewCIdentity(n int) (R CMatrix) {
	R = NewCMatrix(n, n)
	for i := 0; i < n; i++ {
		R.Data[i*n+i] = 1
	}
	return
}

func (m CMatrix) Dims() (nr, nc int)            { return m.Nr, m.Nc }
func (m CMatrix) At(i, j int) complex128        { return m.Data[i*m.Nc+j] }
func (m CMatrix) Set(i, j int, v complex128)    { m.Data[i*m.Nc+j] = v }
func (m CMatrix) AddAt(i, j int, v complex128)  { m.Data[i*m.Nc+j] += v }

func (m CMatrix) Copy() (R CMatrix) { // Does not change receiver
	dataR := make([]complex128, len(m.Data))
	copy(dataR, m.Data)
	R = NewCMatrix(m.Nr, m.Nc, dataR)
	return
}

func (m CMatrix) Mul(A CMatrix) (R CMatrix) { // Does not change receiver
	if m.Nc != A.Nr {
		panic(fmt.Errorf("dimension mismatch in CMatrix Mul: %dx%d times %dx%d", m.Nr, m.Nc, A.Nr, A.Nc))
	}
	R = NewCMatrix(m.Nr, A.Nc)
	for i := 0; i < m.Nr; i++ {
		for k := 0; k < m.Nc; k++ {
			mik := m.Data[i*m.Nc+k]
			if mik == 0 {
				continue
			}
			rowA := A.Data[k*A.Nc : (k+1)*A.Nc]
			rowR := R.Data[i*A.Nc : (i+1)*A.Nc]
			for j, val := range rowA {
				rowR[j] += mik * val
			}
		}
	}
	return
}

func (m CMatrix) MulVec(v CVector) (R CVector) { // Does not change receiver
	if m.Nc != v.Len() {
		panic(fmt.Errorf("dimension mismatch in CMatrix MulVec: %dx%d times %d", m.Nr, m.Nc, v.Len()))
	}
	R = NewCVector(m.Nr)
	for i := 0; i < m.Nr; i++ {
		var s complex128
		row := m.Data[i*m.Nc : (i+1)*m.Nc]
		for j, val := range row {
			s += val * v.Data[j]
		}
		R.Data[i] = s
	}
	return
}

func (m CMatrix) ConjTranspose() (R CMatrix) { // Does not change receiver
	R = NewCMatrix(m.Nc, m.Nr)
	for i := 0; i < m.Nr; i++ {
		for j := 0; j < m.Nc; j++ {
			R.Data[j*m.Nr+i] = cmplx.Conj(m.Data[i*m.Nc+j])
		}
	}
	return
}

func (m CMatrix) Transpose() (R CMatrix) { // Does not change receiver
	R = NewCMatrix(m.Nc, m.Nr)
	for i := 0; i < m.Nr; i++ {
		for j := 0; j < m.Nc; j++ {
			R.Data[j*m.Nr+i] = m.Data[i*m.Nc+j]
		}
	}
	return
}

func (m CMatrix) Scale(a complex128) CMatrix { // Changes receiver
	for i := range m.Data {
		m.Data[i] *= a
	}
	return m
}

func (m CMatrix) Add(A CMatrix) CMatrix { // Changes receiver
	if m.Nr != A.Nr || m.Nc != A.Nc {
		panic(fmt.Errorf("dimension mismatch in CMatrix Add: %dx%d plus %dx%d", m.Nr, m.Nc, A.Nr, A.Nc))
	}
	for i := range m.Data {
		m.Data[i] += A.Data[i]
	}
	return m
}

func (m CMatrix) Subtract(A CMatrix) CMatrix { // Changes receiver
	if m.Nr != A.Nr || m.Nc != A.Nc {
		panic(fmt.Errorf("dimension mismatch in CMatrix Subtract: %dx%d minus %dx%d", m.Nr, m.Nc, A.Nr, A.Nc))
	}
	for i := range m.Data {
		m.Data[i] -= A.Data[i]
	}
	return m
}

func (m CMatrix) SliceRows(I Index) (R CMatrix) { // Does not change receiver
	R = NewCMatrix(len(I), m.Nc)
	for ii, i := range I {
		copy(R.Data[ii*m.Nc:(ii+1)*m.Nc], m.Data[i*m.Nc:(i+1)*m.Nc])
	}
	return
}

func (m CMatrix) SliceCols(I Index) (R CMatrix) { // Does not change receiver
	R = NewCMatrix(m.Nr, len(I))
	for i := 0; i < m.Nr; i++ {
		for jj, j := range I {
			R.Data[i*len(I)+jj] = m.Data[i*m.Nc+j]
		}
	}
	return
}

func (m CMatrix) Col(j int) (V CVector) {
	V = NewCVector(m.Nr)
	for i := 0; i < m.Nr; i++ {
		V.Data[i] = m.Data[i*m.Nc+j]
	}
	return
}

func (m CMatrix) SetCol(j int, data []complex128) CMatrix { // Changes receiver
	for i := 0; i < m.Nr; i++ {
		m.Data[i*m.Nc+j] = data[i]
	}
	return m
}

// SetSubmatrix writes A into the receiver with its (0,0) entry at (i0,j0).
func (m CMatrix) SetSubmatrix(i0, j0 int, A CMatrix) CMatrix { // Changes receiver
	for i := 0; i < A.Nr; i++ {
		for j := 0; j < A.Nc; j++ {
			m.Data[(i0+i)*m.Nc+j0+j] = A.Data[i*A.Nc+j]
		}
	}
	return m
}

func (m CMatrix) FrobNorm() (nrm float64) {
	var s float64
	for _, v := range m.Data {
		s += real(v)*real(v) + imag(v)*imag(v)
	}
	nrm = math.Sqrt(s)
	return
}

func (m CMatrix) MaxAbs() (mx float64) {
	for _, v := range m.Data {
		if a := cmplx.Abs(v); a > mx {
			mx = a
		}
	}
	return
}

type CVector struct {
	Data []complex128
}

func NewCVector(N int, dataO ...[]complex128) (R CVector) {
	if len(dataO) != 0 {
		if len(dataO[0]) != N {
			panic(fmt.Errorf("mismatch in allocation: NewCVector N = %v, len(data[0]) = %v", N, len(dataO[0])))
		}
		R = CVector{dataO[0]}
	} else {
		R = CVector{make([]complex128, N)}
	}
	return
}

func (v CVector) Len() int                  { return len(v.Data) }
func (v CVector) AtVec(i int) complex128    { return v.Data[i] }
func (v CVector) SetVec(i int, c complex128) { v.Data[i] = c }

func (v CVector) Copy() (R CVector) {
	dataR := make([]complex128, len(v.Data))
	copy(dataR, v.Data)
	R = CVector{dataR}
	return
}

func (v CVector) Scale(a complex128) CVector { // Changes receiver
	for i := range v.Data {
		v.Data[i] *= a
	}
	return v
}

func (v CVector) Add(a CVector) CVector { // Changes receiver
	for i := range v.Data {
		v.Data[i] += a.Data[i]
	}
	return v
}

// InnerProduct is the Hermitian inner product conj(v)·a.
func (v CVector) InnerProduct(a CVector) (s complex128) {
	for i := range v.Data {
		s += cmplx.Conj(v.Data[i]) * a.Data[i]
	}
	return
}

func (v CVector) Norm() float64 {
	var s float64
	for _, val := range v.Data {
		s += real(val)*real(val) + imag(val)*imag(val)
	}
	return math.Sqrt(s)
}

// AsColumn views the vector as an n x 1 matrix sharing storage.
func (v CVector) AsColumn() CMatrix {
	return CMatrix{v.Data, len(v.Data), 1}
}
