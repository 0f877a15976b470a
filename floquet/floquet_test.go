package floquet

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWavenumbers(t *testing.T) {
	var (
		period = 2.0
		M      = 9
		ks     = Wavenumbers(M, period)
	)
	assert.Equal(t, M, len(ks))
	assert.True(t, near(ks[0], -math.Pi/period))
	assert.True(t, near(ks[M-1], math.Pi/period))
	// Symmetric about zero
	for m := 0; m < M; m++ {
		assert.True(t, near(ks[m], -ks[M-1-m], 1e-12))
	}
	assert.Panics(t, func() { Wavenumbers(1, period) })
}

func TestReconstructPhaseCancellation(t *testing.T) {
	// Samples of the form U_m(x) = exp(-i*k_m*x)*v(x) stack coherently in
	// the first period: both phase factors cancel at tau = 0 and the sum
	// collapses to the closed form scale*M*v(x).
	var (
		period = 1.5
		M      = 21
		ks     = Wavenumbers(M, period)
		xInf   = []float64{0, 0.3, 0.8, 1.2}
		v      = []complex128{1, 2i, -0.5, 1 - 1i}
	)
	samples := make([]Sample, M)
	for m, k := range ks {
		u := make([]complex128, len(xInf))
		for i, x := range xInf {
			u[i] = cmplx.Exp(complex(0, -k*x)) * v[i]
		}
		samples[m] = Sample{K: k, UPos: u, UNeg: u}
	}
	field := Reconstruct(samples, period, 2, xInf, true)
	var (
		weight = 2 * math.Pi / (period * float64(M-1))
		scale  = complex(math.Sqrt(period/(2*math.Pi))*weight*float64(M), 0)
	)
	for i := range xInf {
		assert.True(t, cnear(field.At(i, 0), scale*v[i], 1e-12))
	}
	// Away from the first period the phases disagree and the stack loses
	// coherence
	for i := range xInf {
		if v[i] != 0 {
			assert.True(t, cmplx.Abs(field.At(i, 1)) < cmplx.Abs(field.At(i, 0)))
		}
	}
}

func TestReconstructOrientationSplit(t *testing.T) {
	var (
		period = 1.0
		M      = 5
		ks     = Wavenumbers(M, period)
		xInf   = []float64{0.25}
	)
	samples := make([]Sample, M)
	for m, k := range ks {
		samples[m] = Sample{
			K:    k,
			UPos: []complex128{complex(1, 0)},
			UNeg: []complex128{complex(0, 1)},
		}
	}
	pos := Reconstruct(samples, period, 1, xInf, true)
	neg := Reconstruct(samples, period, 1, xInf, false)
	assert.True(t, cnear(neg.At(0, 0), 1i*pos.At(0, 0), 1e-12))
}

func TestReconstructShapeChecks(t *testing.T) {
	samples := []Sample{
		{K: 0, UPos: []complex128{1, 2}},
		{K: 1, UPos: []complex128{1, 2}},
	}
	assert.Panics(t, func() { Reconstruct(samples, 1, 1, []float64{0}, true) })
	assert.Panics(t, func() { Reconstruct(samples[:1], 1, 1, []float64{0, 1}, true) })
}

func TestBatchRoundTrip(t *testing.T) {
	var (
		M      = 7
		period = 1.0
		dir    = t.TempDir()
	)
	solver := func(k float64) (uPos, uNeg []complex128, err error) {
		uPos = []complex128{complex(k, 0), complex(0, k)}
		uNeg = []complex128{complex(-k, 0), complex(0, -k)}
		return
	}
	err := RunBatch(context.Background(), solver, M, period, dir)
	assert.NoError(t, err)
	samples, err := ReadBatch(dir, M)
	assert.NoError(t, err)
	ks := Wavenumbers(M, period)
	for m, s := range samples {
		assert.True(t, near(s.K, ks[m], 1e-14))
		assert.True(t, cnear(s.UPos[0], complex(ks[m], 0), 1e-14))
		assert.True(t, cnear(s.UNeg[1], complex(0, -ks[m]), 1e-14))
	}
}

func TestBatchAbortsOnFailure(t *testing.T) {
	var (
		M   = 6
		dir = t.TempDir()
	)
	solver := func(k float64) (uPos, uNeg []complex128, err error) {
		if k > 0 {
			err = fmt.Errorf("synthetic failure at k = %g", k)
			return
		}
		uPos, uNeg = []complex128{1}, []complex128{1}
		return
	}
	err := RunBatch(context.Background(), solver, M, 1.0, dir)
	assert.Error(t, err)
	// The batch is unusable as a whole: at least one artifact is missing
	_, rerr := ReadBatch(dir, M)
	assert.Error(t, rerr)
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}

func cnear(a, b complex128, tolI ...float64) bool {
	return near(real(a), real(b), tolI...) && near(imag(a), imag(b), tolI...)
}
