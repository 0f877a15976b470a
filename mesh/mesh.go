package mesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/periodicmedia/guidewave/utils"
)

// Mesh is the immutable geometry hand-off from the external mesher: point
// coordinates, one connectivity table per topological dimension, integer
// reference tags per element, and named sub-domains. Solvers only read it.
type Mesh struct {
	Dim     int
	NPoints int
	Points  []float64 // NPoints*Dim, point-major

	Segments  [][]int
	Triangles [][]int
	Tets      [][]int

	SegRefs []int
	TriRefs []int
	TetRefs []int

	Domains map[string]*Domain
}

func NewMesh(dim int, points []float64) (msh *Mesh) {
	if dim < 1 || dim > 3 {
		panic(fmt.Errorf("mesh dimension must be 1, 2 or 3, have %d", dim))
	}
	if len(points)%dim != 0 {
		panic(fmt.Errorf("point array length %d is not a multiple of dimension %d", len(points), dim))
	}
	msh = &Mesh{
		Dim:     dim,
		NPoints: len(points) / dim,
		Points:  points,
		Domains: make(map[string]*Domain),
	}
	return
}

func (msh *Mesh) Point(i int) []float64 {
	return msh.Points[i*msh.Dim : (i+1)*msh.Dim]
}

// Table returns the connectivity table for elements of topological dimension d.
func (msh *Mesh) Table(d int) [][]int {
	switch d {
	case 1:
		return msh.Segments
	case 2:
		return msh.Triangles
	case 3:
		return msh.Tets
	}
	panic(fmt.Errorf("no element table for topological dimension %d", d))
}

func (msh *Mesh) Refs(d int) []int {
	switch d {
	case 1:
		return msh.SegRefs
	case 2:
		return msh.TriRefs
	case 3:
		return msh.TetRefs
	}
	panic(fmt.Errorf("no reference tags for topological dimension %d", d))
}

func (msh *Mesh) AddDomain(name string, dim int, elems utils.Index) (dom *Domain) {
	dom = &Domain{
		Name:  name,
		Dim:   dim,
		Elems: elems,
		msh:   msh,
	}
	msh.Domains[name] = dom
	return
}

// DomainByRef collects all elements of dimension dim carrying the tag ref
// into a named domain.
func (msh *Mesh) DomainByRef(name string, dim, ref int) (dom *Domain) {
	var (
		refs  = msh.Refs(dim)
		elems utils.Index
	)
	for e, r := range refs {
		if r == ref {
			elems = append(elems, e)
		}
	}
	return msh.AddDomain(name, dim, elems)
}

func (msh *Mesh) Domain(name string) *Domain {
	dom, ok := msh.Domains[name]
	if !ok {
		panic(fmt.Errorf("mesh has no domain named %q", name))
	}
	return dom
}

// Domain is a named sub-collection of same-dimension mesh elements.
type Domain struct {
	Name  string
	Dim   int
	Elems utils.Index
	msh   *Mesh

	pointIDs utils.Index // derived, built on first use
}

func (dom *Domain) Mesh() *Mesh { return dom.msh }

func (dom *Domain) NumElements() int { return len(dom.Elems) }

// ElementVerts returns the global point ids of local element e of the domain.
func (dom *Domain) ElementVerts(e int) []int {
	return dom.msh.Table(dom.Dim)[dom.Elems[e]]
}

// PointIDs returns the sorted unique point ids touched by the domain.
func (dom *Domain) PointIDs() utils.Index {
	if dom.pointIDs != nil {
		return dom.pointIDs
	}
	seen := make(map[int]bool)
	for e := range dom.Elems {
		for _, p := range dom.ElementVerts(e) {
			seen[p] = true
		}
	}
	ids := make(utils.Index, 0, len(seen))
	for p := range seen {
		ids = append(ids, p)
	}
	sort.Ints(ids)
	dom.pointIDs = ids
	return ids
}

// Locate finds the domain element containing x and the barycentric
// coordinates of x within it, used to trace a field from a reference-cell
// mesh onto an embedded one. For domains of lower dimension than the mesh,
// x is matched against its orthogonal projection onto the element.
func (dom *Domain) Locate(x []float64) (elem int, bary []float64, ok bool) {
	const tol = 1e-9
	var (
		msh = dom.msh
		nv  = dom.Dim + 1
	)
	for e := 0; e < dom.NumElements(); e++ {
		verts := dom.ElementVerts(e)
		p0 := msh.Point(verts[0])
		// Solve for the simplex coordinates of x-p0 in the edge basis
		// via the normal equations (handles embedded elements too)
		G := utils.NewMatrix(dom.Dim, dom.Dim)
		rhs := make([]float64, dom.Dim)
		edges := make([][]float64, dom.Dim)
		for a := 0; a < dom.Dim; a++ {
			ea := make([]float64, msh.Dim)
			pa := msh.Point(verts[a+1])
			for d := 0; d < msh.Dim; d++ {
				ea[d] = pa[d] - p0[d]
			}
			edges[a] = ea
		}
		for a := 0; a < dom.Dim; a++ {
			for b := 0; b < dom.Dim; b++ {
				var s float64
				for d := 0; d < msh.Dim; d++ {
					s += edges[a][d] * edges[b][d]
				}
				G.Set(a, b, s)
			}
			var s float64
			for d := 0; d < msh.Dim; d++ {
				s += edges[a][d] * (x[d] - p0[d])
			}
			rhs[a] = s
		}
		xi, err := solveSmall(G, rhs)
		if err != nil {
			continue // degenerate element, cannot contain x
		}
		b := make([]float64, nv)
		b[0] = 1
		inside := true
		for a := 0; a < dom.Dim; a++ {
			b[a+1] = xi[a]
			b[0] -= xi[a]
		}
		for _, v := range b {
			if v < -tol || v > 1+tol {
				inside = false
				break
			}
		}
		if !inside {
			continue
		}
		// Residual check for embedded elements: x must lie on the element
		var res float64
		for d := 0; d < msh.Dim; d++ {
			r := x[d] - p0[d]
			for a := 0; a < dom.Dim; a++ {
				r -= xi[a] * edges[a][d]
			}
			res += r * r
		}
		if math.Sqrt(res) > tol*(1+vecNorm(x)) {
			continue
		}
		return e, b, true
	}
	return 0, nil, false
}

func solveSmall(G utils.Matrix, rhs []float64) (x []float64, err error) {
	var (
		n = len(rhs)
	)
	A := G.Copy()
	x = make([]float64, n)
	copy(x, rhs)
	for k := 0; k < n; k++ {
		p := k
		for i := k + 1; i < n; i++ {
			if math.Abs(A.At(i, k)) > math.Abs(A.At(p, k)) {
				p = i
			}
		}
		if A.At(p, k) == 0 {
			err = fmt.Errorf("singular system")
			return
		}
		if p != k {
			for j := 0; j < n; j++ {
				akj, apj := A.At(k, j), A.At(p, j)
				A.Set(k, j, apj)
				A.Set(p, j, akj)
			}
			x[k], x[p] = x[p], x[k]
		}
		for i := k + 1; i < n; i++ {
			l := A.At(i, k) / A.At(k, k)
			for j := k; j < n; j++ {
				A.Set(i, j, A.At(i, j)-l*A.At(k, j))
			}
			x[i] -= l * x[k]
		}
	}
	for i := n - 1; i >= 0; i-- {
		for j := i + 1; j < n; j++ {
			x[i] -= A.At(i, j) * x[j]
		}
		x[i] /= A.At(i, i)
	}
	return
}

func vecNorm(x []float64) (s float64) {
	for _, v := range x {
		s += v * v
	}
	return math.Sqrt(s)
}
