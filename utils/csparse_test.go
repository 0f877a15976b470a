package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCDOK(t *testing.T) {
	K := NewCDOK(3, 3)
	K.Add(0, 0, 2+1i)
	K.Add(0, 0, 1) // accumulates
	K.Add(1, 2, -1i)
	K.Add(2, 1, 4)
	assert.True(t, cnear(K.At(0, 0), 3+1i))
	assert.True(t, cnear(K.At(1, 2), -1i))
	assert.True(t, cnear(K.At(2, 2), 0))

	B := NewCDOK(3, 3)
	B.Add(0, 0, 1i)
	B.Add(2, 2, 5)
	K.AddCDOK(B)
	assert.True(t, cnear(K.At(0, 0), 3+2i))
	assert.True(t, cnear(K.At(2, 2), 5))
}

func TestCCSRMul(t *testing.T) {
	K := NewCDOK(2, 3)
	K.Add(0, 0, 1+1i)
	K.Add(0, 2, 2)
	K.Add(1, 1, -3i)
	A := K.ToCSR()

	X := NewCMatrix(3, 2, []complex128{1, 0, 0, 1, 1i, 1})
	R := A.MulCMatrix(X)
	// Row 0: (1+1i)*[1,0] + 2*[1i,1]
	assert.True(t, cnear(R.At(0, 0), 1+3i))
	assert.True(t, cnear(R.At(0, 1), 2))
	// Row 1: -3i*[0,1]
	assert.True(t, cnear(R.At(1, 0), 0))
	assert.True(t, cnear(R.At(1, 1), -3i))

	v := NewCVector(3, []complex128{1, 1, 1})
	rv := A.MulCVec(v)
	assert.True(t, cnear(rv.AtVec(0), 3+1i))
	assert.True(t, cnear(rv.AtVec(1), -3i))

	D := A.ToCMatrix()
	assert.True(t, cnear(D.At(0, 2), 2))
	assert.True(t, cnear(D.At(1, 0), 0))
}
