package fem

import (
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/periodicmedia/guidewave/utils"
	"github.com/stretchr/testify/assert"
)

// reductionResidual checks the defining invariant of a Reduction: every
// state P*x + B[:,c] satisfies C*u = RHS[:,c], whatever x is.
func reductionResidual(ec EssentialConditions, red Reduction) (worst float64) {
	var (
		rng   = rand.New(rand.NewSource(42))
		nfree = red.P.Nc
		k     = red.B.Nc
	)
	for c := 0; c < k; c++ {
		x := utils.NewCMatrix(nfree, 1)
		for i := 0; i < nfree; i++ {
			x.Set(i, 0, complex(rng.NormFloat64(), rng.NormFloat64()))
		}
		u := red.P.Mul(x)
		for i := 0; i < u.Nr; i++ {
			u.AddAt(i, 0, red.B.At(i, c))
		}
		r := ec.C.Mul(u)
		for i := 0; i < r.Nr; i++ {
			d := r.At(i, 0) - ec.RHS.At(i, c)
			if a := cmplx.Abs(d); a > worst {
				worst = a
			}
		}
	}
	return
}

func TestDirichletReduce(t *testing.T) {
	var (
		N      = 6
		ids    = utils.Index{1, 4}
		values = utils.NewCMatrix(2, 1, []complex128{3 + 1i, -2})
	)
	ec := NewDirichlet(N, ids, values)
	red := ec.Reduce(1e-10)
	assert.Equal(t, 4, len(red.Reduced))
	assert.Equal(t, 2, len(red.Eliminated))
	assert.True(t, red.Eliminated.Contains(1))
	assert.True(t, red.Eliminated.Contains(4))
	assert.True(t, near(reductionResidual(ec, red), 0, 1e-12))
	assert.Equal(t, 0, len(red.Warnings))
	// The pinned values land in the offset
	assert.True(t, cnear(red.B.At(1, 0), 3+1i))
	assert.True(t, cnear(red.B.At(4, 0), -2))
}

func TestPeriodicReduce(t *testing.T) {
	var (
		N     = 5
		phase = complex128(0.5 + 0.8i)
		pairs = [][2]int{{0, 4}, {1, 3}}
	)
	ec := NewPeriodic(N, pairs, phase)
	red := ec.Reduce(1e-10)
	assert.Equal(t, 3, len(red.Reduced))
	assert.True(t, near(reductionResidual(ec, red), 0, 1e-12))
	// Any reduced state honors u[p1] = phase*u[p0]
	x := utils.NewCMatrix(3, 1, []complex128{1 + 2i, -1, 0.5i})
	u := red.P.Mul(x)
	for _, pr := range pairs {
		assert.True(t, cnear(u.At(pr[1], 0), phase*u.At(pr[0], 0)))
	}
}

func TestRedundantAndInconsistent(t *testing.T) {
	var (
		N = 4
	)
	{ // A repeated consistent row is dropped without a warning
		ec := Concat(
			NewDirichlet(N, utils.Index{0}, utils.NewCMatrix(1, 1, []complex128{2})),
			NewDirichlet(N, utils.Index{0}, utils.NewCMatrix(1, 1, []complex128{2})))
		red := ec.Reduce(1e-10)
		assert.Equal(t, 1, len(red.Eliminated))
		assert.Equal(t, 0, len(red.Warnings))
		assert.True(t, cnear(red.B.At(0, 0), 2))
	}
	{ // Contradictory rows warn and one constraint row survives
		ec := Concat(
			NewDirichlet(N, utils.Index{0}, utils.NewCMatrix(1, 1, []complex128{1})),
			NewDirichlet(N, utils.Index{0}, utils.NewCMatrix(1, 1, []complex128{2})))
		red := ec.Reduce(1e-10)
		assert.Equal(t, 1, len(red.Eliminated))
		assert.Equal(t, 1, len(red.Warnings))
	}
}

func TestConcatBroadcast(t *testing.T) {
	var (
		N      = 5
		single = NewDirichlet(N, utils.Index{0}, utils.NewCMatrix(1, 1, []complex128{7}))
		multi  = NewDirichlet(N, utils.Index{2, 3},
			utils.NewCMatrix(2, 3, []complex128{1, 2, 3, 4, 5, 6}))
	)
	ec := Concat(single, multi)
	assert.Equal(t, 3, ec.RHS.Nc)
	assert.Equal(t, 3, ec.C.Nr)
	// The single column was replicated
	for j := 0; j < 3; j++ {
		assert.True(t, cnear(ec.RHS.At(0, j), 7))
	}
	red := ec.Reduce(1e-10)
	assert.True(t, near(reductionResidual(ec, red), 0, 1e-12))

	// Mismatched multi-column sets cannot broadcast
	other := NewDirichlet(N, utils.Index{4},
		utils.NewCMatrix(1, 2, []complex128{1, 2}))
	assert.Panics(t, func() { Concat(multi, other) })
}

func TestReduceIdempotent(t *testing.T) {
	// Reducing an already consistent combined set leaves a parametrization
	// whose columns satisfy the constraints themselves
	var (
		N  = 6
		ec = Concat(
			NewPeriodic(N, [][2]int{{0, 5}}, 1),
			NewDirichlet(N, utils.Index{2}, utils.NewCMatrix(1, 1, []complex128{1i})))
	)
	red := ec.Reduce(1e-10)
	assert.Equal(t, N-2, len(red.Reduced))
	// Each column of P lies in the null space of C
	CP := ec.C.Mul(red.P)
	assert.True(t, near(CP.FrobNorm(), 0, 1e-12))
}
