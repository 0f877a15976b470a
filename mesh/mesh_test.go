package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectangleMesh(t *testing.T) {
	var (
		nx, ny = 4, 3
		lx, ly = 2.0, 1.5
	)
	msh := NewRectangleMesh(nx, ny, lx, ly)
	assert.Equal(t, (nx+1)*(ny+1), msh.NPoints)
	assert.Equal(t, 2*nx*ny, len(msh.Triangles))
	assert.Equal(t, 2*(nx+ny), len(msh.Segments))

	interior := msh.Domain("interior")
	assert.Equal(t, 2*nx*ny, interior.NumElements())
	assert.Equal(t, msh.NPoints, len(interior.PointIDs()))

	// Side domains carry the expected point counts and coordinates
	for _, side := range []struct {
		name  string
		count int
		coord int
		value float64
	}{
		{"ymin", nx + 1, 1, 0},
		{"xmax", ny + 1, 0, lx},
		{"ymax", nx + 1, 1, ly},
		{"xmin", ny + 1, 0, 0},
	} {
		dom := msh.Domain(side.name)
		ids := dom.PointIDs()
		assert.Equal(t, side.count, len(ids), side.name)
		for _, p := range ids {
			assert.True(t, near(msh.Point(p)[side.coord], side.value), side.name)
		}
	}
}

func TestIntervalMesh(t *testing.T) {
	msh := NewIntervalMesh(5, 2.5)
	assert.Equal(t, 6, msh.NPoints)
	assert.Equal(t, 5, len(msh.Segments))
	assert.True(t, near(msh.Point(5)[0], 2.5))
	assert.Equal(t, 5, msh.Domain("interior").NumElements())
}

func TestLocate(t *testing.T) {
	msh := NewRectangleMesh(4, 4, 1, 1)
	interior := msh.Domain("interior")
	{
		elem, bary, ok := interior.Locate([]float64{0.3, 0.6})
		assert.True(t, ok)
		assert.True(t, elem >= 0)
		sum := 0.0
		for _, b := range bary {
			assert.True(t, b > -1e-9)
			sum += b
		}
		assert.True(t, near(sum, 1))
	}
	{ // A mesh vertex lies in some element with a unit barycentric weight
		_, bary, ok := interior.Locate([]float64{0.25, 0.25})
		assert.True(t, ok)
		mx := 0.0
		for _, b := range bary {
			if b > mx {
				mx = b
			}
		}
		assert.True(t, near(mx, 1))
	}
	{ // Outside the mesh
		_, _, ok := interior.Locate([]float64{1.5, 0.5})
		assert.False(t, ok)
	}
	{ // On a boundary face domain
		xmin := msh.Domain("xmin")
		_, bary, ok := xmin.Locate([]float64{0, 0.375})
		assert.True(t, ok)
		assert.Equal(t, 2, len(bary))
	}
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
