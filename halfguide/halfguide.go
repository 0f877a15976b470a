package halfguide

import (
	"fmt"
	"math"

	"github.com/periodicmedia/guidewave/fem"
	"github.com/periodicmedia/guidewave/mesh"
	"github.com/periodicmedia/guidewave/utils"
)

// BoundaryCondition is the transverse-face condition record of the cell
// problem: NormalCoeff*du/dnu + T(u) = forcing on the entry/exit faces,
// with T given by the tangential coefficient variant. NormalCoeff == 0
// selects the essential (Dirichlet) path.
type BoundaryCondition struct {
	NormalCoeff complex128
	Tangential  fem.Coeff
	Forcing     func(x []float64) complex128
	Basis0      *fem.SpectralBasis // entry face
	Basis1      *fem.SpectralBasis // exit face
}

// PeriodicSpec identifies the two opposite transverse boundaries of one
// bounded direction, with an optional Bloch phase across the period.
type PeriodicSpec struct {
	Dir    int
	Length float64
	Phase  complex128
}

// Config drives one half-guide solve. Invalid orientation or infinite
// direction are fatal before any computation starts.
type Config struct {
	Mesh        *mesh.Mesh
	Interior    string
	InfiniteDir int
	Orientation int
	Frequency   float64
	NumCells    int
	CellForm    fem.Form
	Periodic    []PeriodicSpec
	BC          BoundaryCondition
	Tol         float64
	Options     fem.AssembleOptions
}

func (cfg *Config) validate() {
	if cfg.Orientation != 1 && cfg.Orientation != -1 {
		panic(fmt.Errorf("orientation must be -1 or +1, have %d", cfg.Orientation))
	}
	if cfg.InfiniteDir < 0 || cfg.InfiniteDir >= cfg.Mesh.Dim {
		panic(fmt.Errorf("infinite direction %d outside the mesh dimension range [0,%d)",
			cfg.InfiniteDir, cfg.Mesh.Dim))
	}
	if cfg.BC.Basis0 == nil || cfg.BC.Basis1 == nil {
		panic(fmt.Errorf("both transverse-face spectral bases must be supplied"))
	}
	if cfg.BC.Basis0.Size() != cfg.BC.Basis1.Size() {
		panic(fmt.Errorf("spectral basis sizes differ between faces: %d and %d",
			cfg.BC.Basis0.Size(), cfg.BC.Basis1.Size()))
	}
}

func (cfg *Config) tol() float64 {
	if cfg.Tol > 0 {
		return cfg.Tol
	}
	return 1e-10
}

// Solution is the outcome of one half-guide solve: the two families of cell
// solutions, their traces, the propagation pair (R, D) and everything the
// reconstruction and transmission phases need.
type Solution struct {
	Cfg *Config

	E0, E1 utils.CMatrix // cell solutions, one column per basis function

	E00, E01, E10, E11 utils.CMatrix // traces of Ek on face l, projection representation
	F00, F01, F10, F11 utils.CMatrix // weak normal traces of Ek on face l

	R, D   utils.CMatrix // propagation operator pair
	T      utils.CMatrix // entry-face trace of the selected mode family
	X0, X1 utils.CMatrix
	Lambda []complex128
}

// Solve runs the sequential phases of the half-guide problem: cell
// problems, trace extraction, the Riccati eigenvalue phase and the
// propagation-pair construction. Reconstruction and the transmission
// operator are separate calls on the returned Solution.
func Solve(cfg *Config) (sol *Solution, err error) {
	cfg.validate()
	var (
		msh = cfg.Mesh
		dom = msh.Domain(cfg.Interior)
		N   = msh.NPoints
		b0  = cfg.BC.Basis0
		b1  = cfg.BC.Basis1
		Nb  = b0.Size()
		tol = cfg.tol()
	)
	sol = &Solution{Cfg: cfg}

	A := fem.Assemble(dom, cfg.CellForm, cfg.Options)
	periodic := cfg.periodicConditions(N)

	if cfg.BC.NormalCoeff == 0 {
		// Dirichlet path: basis data imposed as essential-condition
		// right-hand sides, one column per basis function
		zero1 := fem.NewDirichlet(N, b1.Dom.PointIDs(), utils.NewCMatrix(len(b1.Dom.PointIDs()), 1))
		zero0 := fem.NewDirichlet(N, b0.Dom.PointIDs(), utils.NewCMatrix(len(b0.Dom.PointIDs()), 1))
		Acsr := A.ToCSR()

		ec0 := fem.Concat(periodic, fem.Concat(
			fem.NewDirichlet(N, b0.Dom.PointIDs(), b0.Phi), zero1))
		if sol.E0, err = solveConstrained(Acsr, ec0.Reduce(tol), utils.NewCMatrix(N, Nb)); err != nil {
			return
		}
		ec1 := fem.Concat(periodic, fem.Concat(
			zero0, fem.NewDirichlet(N, b1.Dom.PointIDs(), b1.Phi)))
		if sol.E1, err = solveConstrained(Acsr, ec1.Reduce(tol), utils.NewCMatrix(N, Nb)); err != nil {
			return
		}
		sol.E00, sol.E11 = utils.NewCIdentity(Nb), utils.NewCIdentity(Nb)
		sol.E01, sol.E10 = utils.NewCMatrix(Nb, Nb), utils.NewCMatrix(Nb, Nb)
		sol.F00, sol.F01 = weakFlux(Acsr, sol.E0, b0), weakFlux(Acsr, sol.E0, b1)
		sol.F10, sol.F11 = weakFlux(Acsr, sol.E1, b0), weakFlux(Acsr, sol.E1, b1)
	} else {
		// Robin path: the tangential operator augments the volumic system
		// through the spectral bridge and the basis functions act as
		// boundary forcing terms
		inv := 1 / cfg.BC.NormalCoeff
		Aaug := fem.Assemble(dom, cfg.CellForm, cfg.Options)
		cfg.addTangential(Aaug, b0, inv)
		cfg.addTangential(Aaug, b1, inv)
		var (
			Acsr  = A.ToCSR()
			Acsra = Aaug.ToCSR()
			red   = periodic.Reduce(tol)
		)
		if sol.E0, err = solveConstrained(Acsra, red, b0.BoundaryLoad(N, inv)); err != nil {
			return
		}
		if sol.E1, err = solveConstrained(Acsra, red, b1.BoundaryLoad(N, inv)); err != nil {
			return
		}
		// Traces by projection through the nodal-to-spectral change of basis
		sol.E00 = b0.NodalToSpectral(sliceRows(sol.E0, b0.Dom.PointIDs()))
		sol.E01 = b1.NodalToSpectral(sliceRows(sol.E0, b1.Dom.PointIDs()))
		sol.E10 = b0.NodalToSpectral(sliceRows(sol.E1, b0.Dom.PointIDs()))
		sol.E11 = b1.NodalToSpectral(sliceRows(sol.E1, b1.Dom.PointIDs()))
		sol.F00, sol.F01 = weakFlux(Acsr, sol.E0, b0), weakFlux(Acsr, sol.E0, b1)
		sol.F10, sol.F11 = weakFlux(Acsr, sol.E1, b0), weakFlux(Acsr, sol.E1, b1)
	}

	err = sol.solveRiccati()
	return
}

// periodicConditions builds the transverse periodicity constraints from
// the mesh geometry: boundary points at the low and high coordinate of
// each bounded direction are paired by their remaining coordinates.
func (cfg *Config) periodicConditions(N int) (ec fem.EssentialConditions) {
	ec = fem.NewEssentialConditions(utils.NewCMatrix(0, N), utils.NewCMatrix(0, 1))
	for _, ps := range cfg.Periodic {
		pairs := matchPeriodicPoints(cfg.Mesh, ps.Dir, ps.Length)
		phase := ps.Phase
		if phase == 0 {
			phase = 1
		}
		ec = fem.Concat(ec, fem.NewPeriodic(N, pairs, phase))
	}
	return
}

func matchPeriodicPoints(msh *mesh.Mesh, dir int, length float64) (pairs [][2]int) {
	const rel = 1e-8
	var (
		tol    = rel * length
		lo     = math.Inf(1)
		loSide []int
		hiSide []int
	)
	for p := 0; p < msh.NPoints; p++ {
		if c := msh.Point(p)[dir]; c < lo {
			lo = c
		}
	}
	for p := 0; p < msh.NPoints; p++ {
		c := msh.Point(p)[dir]
		if math.Abs(c-lo) < tol {
			loSide = append(loSide, p)
		} else if math.Abs(c-lo-length) < tol {
			hiSide = append(hiSide, p)
		}
	}
	for _, p0 := range loSide {
		found := false
		for _, p1 := range hiSide {
			match := true
			for d := 0; d < msh.Dim; d++ {
				if d == dir {
					continue
				}
				if math.Abs(msh.Point(p0)[d]-msh.Point(p1)[d]) > tol {
					match = false
					break
				}
			}
			if match {
				pairs = append(pairs, [2]int{p0, p1})
				found = true
				break
			}
		}
		if !found {
			panic(fmt.Errorf("no periodic partner for point %d across direction %d", p0, dir))
		}
	}
	return
}

func (cfg *Config) addTangential(K utils.CDOK, sb *fem.SpectralBasis, inv complex128) {
	t := cfg.BC.Tangential
	switch t.Kind {
	case fem.CoeffSpectral:
		fem.InjectBoundaryOperator(K, sb, t.Op.Copy().Scale(inv), t.Rep)
	case fem.CoeffScalar, fem.CoeffFunction:
		face := fem.FormScale(fem.Mass(cfg.Mesh.Dim, t), inv)
		K.AddCDOK(fem.Assemble(sb.Dom, face, cfg.Options))
	default:
		panic(fmt.Errorf("unsupported tangential coefficient kind %d", t.Kind))
	}
}

// solveConstrained solves A*(P*x + B) = rhs on the reduced parameter space.
func solveConstrained(A utils.CCSR, red fem.Reduction, rhs utils.CMatrix) (U utils.CMatrix, err error) {
	var (
		PH = red.P.ConjTranspose()
		B  = red.B
	)
	if B.Nc != rhs.Nc {
		if B.Nc != 1 {
			err = fmt.Errorf("offset has %d columns, right-hand side %d", B.Nc, rhs.Nc)
			return
		}
		Bk := utils.NewCMatrix(B.Nr, rhs.Nc)
		for i := 0; i < B.Nr; i++ {
			for j := 0; j < rhs.Nc; j++ {
				Bk.Set(i, j, B.At(i, 0))
			}
		}
		B = Bk
	}
	Ar := PH.Mul(A.MulCMatrix(red.P))
	Rr := PH.Mul(rhs.Copy().Subtract(A.MulCMatrix(B)))
	X, err := Ar.Solve(Rr)
	if err != nil {
		err = fmt.Errorf("reduced cell system is singular: %v", err)
		return
	}
	U = red.P.Mul(X).Add(B)
	return
}

// weakFlux extracts the weak normal derivative of the columns of E on the
// basis' face: the residual of the volumic operator paired against each
// basis function.
func weakFlux(A utils.CCSR, E utils.CMatrix, sb *fem.SpectralBasis) utils.CMatrix {
	res := A.MulCMatrix(E)
	return sb.Phi.ConjTranspose().Mul(sliceRows(res, sb.Dom.PointIDs()))
}

func sliceRows(M utils.CMatrix, ids utils.Index) utils.CMatrix {
	return M.SliceRows(ids)
}
