package fem

import (
	"fmt"

	"github.com/periodicmedia/guidewave/utils"
)

// CoeffKind tags the representation of a form coefficient.
type CoeffKind int

const (
	CoeffScalar CoeffKind = iota
	CoeffFunction
	CoeffMatrixFunction
	CoeffSpectral
)

// Representation tags how a spectral-basis operator matrix is to be read:
// WeakEvaluation holds inner products of operator images against basis
// functions, Projection holds coefficients of the images in the basis.
type Representation int

const (
	WeakEvaluation Representation = iota
	Projection
)

// Coeff is the tagged coefficient variant consumed by the assembler and the
// spectral bridge: a constant, a scalar function of the physical point, an
// operator-valued function, or an operator on a spectral basis.
type Coeff struct {
	Kind   CoeffKind
	Scalar complex128
	Fn     func(x []float64) complex128
	MatFn  func(x []float64) utils.CMatrix
	MatNr  int
	MatNc  int
	Op     utils.CMatrix
	Rep    Representation
}

func ConstCoeff(c complex128) Coeff {
	return Coeff{Kind: CoeffScalar, Scalar: c, MatNr: 1, MatNc: 1}
}

func FnCoeff(f func(x []float64) complex128) Coeff {
	return Coeff{Kind: CoeffFunction, Fn: f, MatNr: 1, MatNc: 1}
}

func MatFnCoeff(nr, nc int, f func(x []float64) utils.CMatrix) Coeff {
	return Coeff{Kind: CoeffMatrixFunction, MatFn: f, MatNr: nr, MatNc: nc}
}

func SpectralCoeff(op utils.CMatrix, rep Representation) Coeff {
	return Coeff{Kind: CoeffSpectral, Op: op, Rep: rep, MatNr: 1, MatNc: 1}
}

// component returns the scalar function picking entry (i,j) of the
// coefficient output.
func (c Coeff) component(i, j int) func(x []float64) complex128 {
	switch c.Kind {
	case CoeffScalar:
		v := c.Scalar
		return func([]float64) complex128 { return v }
	case CoeffFunction:
		return c.Fn
	case CoeffMatrixFunction:
		return func(x []float64) complex128 { return c.MatFn(x).At(i, j) }
	}
	panic(fmt.Errorf("coefficient kind %d has no pointwise components", c.Kind))
}

func (c Coeff) isConstant() bool { return c.Kind == CoeffScalar }

// Term is one (alpha_u, alpha_v, coefficient) triple of a Form. AlphaU has
// one row per column of the coefficient output, AlphaV one row per row of
// it; each row is a (dim+1)-vector of value/derivative weights.
type Term struct {
	AlphaU utils.Matrix
	AlphaV utils.Matrix
	Coeff  Coeff
}

// Form is a symbolic bilinear expression: the sum of its terms. Forms are
// immutable values; the builders below return new Forms.
type Form struct {
	Dim   int
	Terms []Term
}

func NewForm(dim int, terms ...Term) (f Form) {
	f = Form{Dim: dim, Terms: terms}
	f.validate()
	return
}

func (f Form) validate() {
	for _, t := range f.Terms {
		ur, uc := t.AlphaU.Dims()
		vr, vc := t.AlphaV.Dims()
		if uc != f.Dim+1 || vc != f.Dim+1 {
			panic(fmt.Errorf("form term alpha width %d,%d does not match dimension %d", uc, vc, f.Dim))
		}
		if ur != t.Coeff.MatNc || vr != t.Coeff.MatNr {
			panic(fmt.Errorf("form term coefficient output %dx%d does not match alpha rows %d,%d",
				t.Coeff.MatNr, t.Coeff.MatNc, vr, ur))
		}
	}
}

// FormAdd concatenates the terms of the operands into a new Form.
func FormAdd(a, b Form) (f Form) {
	if a.Dim != b.Dim {
		panic(fmt.Errorf("cannot add forms of dimensions %d and %d", a.Dim, b.Dim))
	}
	terms := make([]Term, 0, len(a.Terms)+len(b.Terms))
	terms = append(terms, a.Terms...)
	terms = append(terms, b.Terms...)
	f = Form{Dim: a.Dim, Terms: terms}
	return
}

// FormScale multiplies every coefficient by the scalar s.
func FormScale(a Form, s complex128) (f Form) {
	terms := make([]Term, len(a.Terms))
	for i, t := range a.Terms {
		terms[i] = Term{AlphaU: t.AlphaU, AlphaV: t.AlphaV, Coeff: scaleCoeff(t.Coeff, s)}
	}
	f = Form{Dim: a.Dim, Terms: terms}
	return
}

func FormNeg(a Form) Form { return FormScale(a, -1) }

// FormMulFn post-multiplies every coefficient by the scalar function g.
func FormMulFn(a Form, g func(x []float64) complex128) (f Form) {
	terms := make([]Term, len(a.Terms))
	for i, t := range a.Terms {
		terms[i] = Term{AlphaU: t.AlphaU, AlphaV: t.AlphaV, Coeff: mulCoeff(t.Coeff, g)}
	}
	f = Form{Dim: a.Dim, Terms: terms}
	return
}

func scaleCoeff(c Coeff, s complex128) Coeff {
	switch c.Kind {
	case CoeffScalar:
		c.Scalar *= s
		return c
	case CoeffFunction:
		inner := c.Fn
		c.Fn = func(x []float64) complex128 { return s * inner(x) }
		return c
	case CoeffMatrixFunction:
		inner := c.MatFn
		c.MatFn = func(x []float64) utils.CMatrix { return inner(x).Copy().Scale(s) }
		return c
	case CoeffSpectral:
		c.Op = c.Op.Copy().Scale(s)
		return c
	}
	panic(fmt.Errorf("unknown coefficient kind %d", c.Kind))
}

func mulCoeff(c Coeff, g func(x []float64) complex128) Coeff {
	switch c.Kind {
	case CoeffScalar:
		v := c.Scalar
		return Coeff{Kind: CoeffFunction, Fn: func(x []float64) complex128 { return v * g(x) }, MatNr: 1, MatNc: 1}
	case CoeffFunction:
		inner := c.Fn
		c.Fn = func(x []float64) complex128 { return g(x) * inner(x) }
		return c
	case CoeffMatrixFunction:
		inner := c.MatFn
		c.MatFn = func(x []float64) utils.CMatrix { return inner(x).Copy().Scale(g(x)) }
		return c
	}
	panic(fmt.Errorf("coefficient kind %d cannot be multiplied by a function", c.Kind))
}

func unitRow(dim, entry int) (R utils.Matrix) {
	R = utils.NewMatrix(1, dim+1)
	R.Set(0, entry, 1)
	return
}

// Mass builds the identity-identity form: integral of c*u*v.
func Mass(dim int, c Coeff) Form {
	return NewForm(dim, Term{AlphaU: unitRow(dim, 0), AlphaV: unitRow(dim, 0), Coeff: c})
}

// Stiffness builds the gradient-gradient form with scalar coefficient:
// sum_j integral of c*du/dx_j*dv/dx_j.
func Stiffness(dim int, c Coeff) (f Form) {
	terms := make([]Term, dim)
	for j := 0; j < dim; j++ {
		terms[j] = Term{AlphaU: unitRow(dim, j+1), AlphaV: unitRow(dim, j+1), Coeff: c}
	}
	f = NewForm(dim, terms...)
	return
}

// AnisotropicStiffness builds grad-grad with an operator-valued coefficient:
// sum_ij integral of A_ij*du/dx_j*dv/dx_i.
func AnisotropicStiffness(dim int, A Coeff) Form {
	if A.MatNr != dim || A.MatNc != dim {
		panic(fmt.Errorf("anisotropic stiffness needs a %dx%d coefficient, have %dx%d",
			dim, dim, A.MatNr, A.MatNc))
	}
	grad := utils.NewMatrix(dim, dim+1)
	for j := 0; j < dim; j++ {
		grad.Set(j, j+1, 1)
	}
	return NewForm(dim, Term{AlphaU: grad, AlphaV: grad.Copy(), Coeff: A})
}

// DMass builds the convection-like pairing: integral of c*du/dx_j*v.
func DMass(dim, j int, c Coeff) Form {
	return NewForm(dim, Term{AlphaU: unitRow(dim, j+1), AlphaV: unitRow(dim, 0), Coeff: c})
}

// MassD builds integral of c*u*dv/dx_j.
func MassD(dim, j int, c Coeff) Form {
	return NewForm(dim, Term{AlphaU: unitRow(dim, 0), AlphaV: unitRow(dim, j+1), Coeff: c})
}
