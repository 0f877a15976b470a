package floquet

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/periodicmedia/guidewave/utils"
)

// Sample is the hand-off artifact of one Bloch-wavenumber half-guide
// solve: the complex nodal solutions for the positive and negative
// orientation half-guides at wavenumber K.
type Sample struct {
	K    float64
	UPos []complex128
	UNeg []complex128
}

// Wavenumbers returns M samples spanning one Brillouin cell
// [-pi/period, pi/period], endpoints included.
func Wavenumbers(M int, period float64) (ks []float64) {
	if M < 2 {
		panic(fmt.Errorf("at least two Floquet samples are required, have %d", M))
	}
	var (
		k0 = -math.Pi / period
		dk = 2 * math.Pi / (period * float64(M-1))
	)
	ks = make([]float64, M)
	for m := range ks {
		ks[m] = k0 + float64(m)*dk
	}
	return
}

// Reconstruct numerically inverts the Bloch-sampled family into the field
// on the non-periodic guide: a rectangular-rule accumulation over the
// Brillouin cell with weight (2*pi/period)/(M-1), one phase factor for the
// in-cell coordinate and one for the period offset. xInf holds the
// infinite-direction coordinate of each solution node. The result has one
// column per period index.
func Reconstruct(samples []Sample, period float64, numCells int, xInf []float64, positive bool) (field utils.CMatrix) {
	var (
		M = len(samples)
	)
	if M < 2 {
		panic(fmt.Errorf("at least two Floquet samples are required, have %d", M))
	}
	n := len(sampleU(samples[0], positive))
	if len(xInf) != n {
		panic(fmt.Errorf("have %d node coordinates for %d solution values", len(xInf), n))
	}
	var (
		weight = 2 * math.Pi / (period * float64(M-1))
		scale  = complex(math.Sqrt(period/(2*math.Pi))*weight, 0)
	)
	field = utils.NewCMatrix(n, numCells)
	for _, s := range samples {
		u := sampleU(s, positive)
		if len(u) != n {
			panic(fmt.Errorf("sample at k = %g has %d values, want %d", s.K, len(u), n))
		}
		for tau := 0; tau < numCells; tau++ {
			cellPhase := cmplx.Exp(complex(0, s.K*float64(tau)*period))
			for i := 0; i < n; i++ {
				ph := cmplx.Exp(complex(0, s.K*xInf[i]))
				field.AddAt(i, tau, scale*ph*cellPhase*u[i])
			}
		}
	}
	return
}

func sampleU(s Sample, positive bool) []complex128 {
	if positive {
		return s.UPos
	}
	return s.UNeg
}
