package mesh

import (
	"fmt"

	"github.com/periodicmedia/guidewave/utils"
)

// Side naming scheme for rectangular domains, in the fixed tag order the
// external mesher uses (tags 1..4).
var RectangleSides = []string{"ymin", "xmax", "ymax", "xmin"}

// Cuboid extension of the same scheme (tags 1..6).
var CuboidFaces = []string{"zmin", "ymin", "xmax", "ymax", "xmin", "zmax"}

// NewIntervalMesh builds n segments on [0,l] with an "interior" domain plus
// point tags at the two ends carried on the segment refs.
func NewIntervalMesh(n int, l float64) (msh *Mesh) {
	if n < 1 {
		panic(fmt.Errorf("interval mesh needs at least one segment, have %d", n))
	}
	points := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		points[i] = l * float64(i) / float64(n)
	}
	msh = NewMesh(1, points)
	for e := 0; e < n; e++ {
		msh.Segments = append(msh.Segments, []int{e, e + 1})
		msh.SegRefs = append(msh.SegRefs, 10)
	}
	msh.AddDomain("interior", 1, utils.NewRange(0, n-1))
	return
}

// NewRectangleMesh triangulates the rectangle [0,lx]x[0,ly] on a regular
// nx by ny grid. It stands in for the external mesher in tests: the result
// carries the "interior" triangle domain and the four named side domains
// {ymin, xmax, ymax, xmin} as tagged segment sets.
func NewRectangleMesh(nx, ny int, lx, ly float64) (msh *Mesh) {
	if nx < 1 || ny < 1 {
		panic(fmt.Errorf("rectangle mesh needs nx,ny >= 1, have %d,%d", nx, ny))
	}
	var (
		npx    = nx + 1
		points = make([]float64, 0, 2*npx*(ny+1))
	)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			points = append(points, lx*float64(i)/float64(nx), ly*float64(j)/float64(ny))
		}
	}
	msh = NewMesh(2, points)
	id := func(i, j int) int { return i + j*npx }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			msh.Triangles = append(msh.Triangles,
				[]int{id(i, j), id(i+1, j), id(i+1, j+1)},
				[]int{id(i, j), id(i+1, j+1), id(i, j+1)})
			msh.TriRefs = append(msh.TriRefs, 10, 10)
		}
	}
	for i := 0; i < nx; i++ { // ymin (1), ymax (3)
		msh.Segments = append(msh.Segments, []int{id(i, 0), id(i+1, 0)})
		msh.SegRefs = append(msh.SegRefs, 1)
	}
	for j := 0; j < ny; j++ { // xmax (2)
		msh.Segments = append(msh.Segments, []int{id(nx, j), id(nx, j+1)})
		msh.SegRefs = append(msh.SegRefs, 2)
	}
	for i := 0; i < nx; i++ {
		msh.Segments = append(msh.Segments, []int{id(i, ny), id(i+1, ny)})
		msh.SegRefs = append(msh.SegRefs, 3)
	}
	for j := 0; j < ny; j++ { // xmin (4)
		msh.Segments = append(msh.Segments, []int{id(0, j), id(0, j+1)})
		msh.SegRefs = append(msh.SegRefs, 4)
	}
	msh.AddDomain("interior", 2, utils.NewRange(0, len(msh.Triangles)-1))
	for tag, name := range RectangleSides {
		msh.DomainByRef(name, 1, tag+1)
	}
	return
}
