package fem

import (
	"fmt"
	"math/cmplx"

	"github.com/periodicmedia/guidewave/utils"
)

// EssentialConditions is a set of affine equality constraints C*u = RHS on
// the global degrees of freedom. RHS may carry several columns, one
// constrained state per column.
type EssentialConditions struct {
	C   utils.CMatrix
	RHS utils.CMatrix
}

func NewEssentialConditions(C, RHS utils.CMatrix) (ec EssentialConditions) {
	if C.Nr != RHS.Nr {
		panic(fmt.Errorf("constraint matrix has %d rows, right-hand side %d", C.Nr, RHS.Nr))
	}
	ec = EssentialConditions{C: C, RHS: RHS}
	return
}

// NewDirichlet pins the listed degrees of freedom to the rows of values.
func NewDirichlet(N int, ids utils.Index, values utils.CMatrix) EssentialConditions {
	if values.Nr != len(ids) {
		panic(fmt.Errorf("%d Dirichlet values for %d degrees of freedom", values.Nr, len(ids)))
	}
	C := utils.NewCMatrix(len(ids), N)
	for i, p := range ids {
		C.Set(i, p, 1)
	}
	return NewEssentialConditions(C, values.Copy())
}

// NewPeriodic ties each pair (p0,p1) by u[p1] = phase*u[p0].
func NewPeriodic(N int, pairs [][2]int, phase complex128) EssentialConditions {
	C := utils.NewCMatrix(len(pairs), N)
	for i, pr := range pairs {
		C.Set(i, pr[1], 1)
		C.AddAt(i, pr[0], -phase)
	}
	return NewEssentialConditions(C, utils.NewCMatrix(len(pairs), 1))
}

// Concat stacks two constraint sets. A single right-hand-side column on one
// side is broadcast to match the column count of the other.
func Concat(a, b EssentialConditions) (ec EssentialConditions) {
	if a.C.Nc != b.C.Nc {
		panic(fmt.Errorf("constraint sets act on %d and %d degrees of freedom", a.C.Nc, b.C.Nc))
	}
	ka, kb := a.RHS.Nc, b.RHS.Nc
	k := ka
	if kb > k {
		k = kb
	}
	if ka != kb && ka != 1 && kb != 1 {
		panic(fmt.Errorf("cannot broadcast right-hand sides with %d and %d columns", ka, kb))
	}
	C := utils.NewCMatrix(a.C.Nr+b.C.Nr, a.C.Nc)
	C.SetSubmatrix(0, 0, a.C)
	C.SetSubmatrix(a.C.Nr, 0, b.C)
	RHS := utils.NewCMatrix(a.C.Nr+b.C.Nr, k)
	RHS.SetSubmatrix(0, 0, broadcast(a.RHS, k))
	RHS.SetSubmatrix(a.C.Nr, 0, broadcast(b.RHS, k))
	ec = EssentialConditions{C: C, RHS: RHS}
	return
}

func broadcast(m utils.CMatrix, k int) utils.CMatrix {
	if m.Nc == k {
		return m
	}
	R := utils.NewCMatrix(m.Nr, k)
	for i := 0; i < m.Nr; i++ {
		for j := 0; j < k; j++ {
			R.Set(i, j, m.At(i, 0))
		}
	}
	return R
}

// Reduction is the minimal affine parametrization of a constraint set:
// every admissible state is P*x + B[:,c] with x free.
type Reduction struct {
	P          utils.CMatrix // N x nfree embedding of the free parameters
	B          utils.CMatrix // N x k particular offsets
	Eliminated utils.Index   // DOFs expressed through the others
	Reduced    utils.Index   // free DOFs, ascending
	Warnings   []string
}

// Reduce collapses the constraints into the minimal parametrization by a
// rank-revealing column-pivoted QR factorization of C. Redundant rows are
// dropped silently when their transformed right-hand side vanishes and
// with a non-fatal warning when it does not (the constraint set is then
// inconsistent and the offending row cannot be satisfied).
func (ec EssentialConditions) Reduce(tol float64) (red Reduction) {
	var (
		m, N = ec.C.Dims()
		k    = ec.RHS.Nc
	)
	Q, R, piv := ec.C.QRPivot()
	Qrhs := Q.ConjTranspose().Mul(ec.RHS)
	// The pivoted diagonal of R is non-increasing; rank cutoff at tol
	rank := 0
	for rank < m && rank < N && cmplx.Abs(R.At(rank, rank)) >= tol {
		rank++
	}
	for i := rank; i < m; i++ {
		var resid float64
		for j := 0; j < k; j++ {
			if a := cmplx.Abs(Qrhs.At(i, j)); a > resid {
				resid = a
			}
		}
		if resid > tol {
			w := fmt.Sprintf("inconsistent essential condition dropped (0 = %.3e)", resid)
			fmt.Printf("warning: %s\n", w)
			red.Warnings = append(red.Warnings, w)
		}
	}
	var (
		nfree = N - rank
		elim  = utils.Index(piv[:rank])
		free  = elim.Complement(N)
	)
	// Back-substitute the invertible leading block: S = inv(R11)*[R12 | Qrhs_top]
	S := utils.NewCMatrix(rank, nfree+k)
	for i := 0; i < rank; i++ {
		for j := 0; j < nfree; j++ {
			S.Set(i, j, R.At(i, rank+j))
		}
		for j := 0; j < k; j++ {
			S.Set(i, nfree+j, Qrhs.At(i, j))
		}
	}
	for i := rank - 1; i >= 0; i-- {
		for j := 0; j < nfree+k; j++ {
			v := S.At(i, j)
			for l := i + 1; l < rank; l++ {
				v -= R.At(i, l) * S.At(l, j)
			}
			S.Set(i, j, v/R.At(i, i))
		}
	}
	// Column j of R12 constrains DOF piv[rank+j]; map it into the sorted
	// free ordering
	colOf := make(map[int]int, nfree)
	for j, p := range free {
		colOf[p] = j
	}
	red.P = utils.NewCMatrix(N, nfree)
	red.B = utils.NewCMatrix(N, k)
	for j, p := range free {
		red.P.Set(p, j, 1)
	}
	for i := 0; i < rank; i++ {
		p := piv[i]
		for j := 0; j < nfree; j++ {
			red.P.Set(p, colOf[piv[rank+j]], -S.At(i, j))
		}
		for j := 0; j < k; j++ {
			red.B.Set(p, j, S.At(i, nfree+j))
		}
	}
	red.Eliminated = elim
	red.Reduced = free
	return
}
