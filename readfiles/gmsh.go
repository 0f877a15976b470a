package readfiles

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/periodicmedia/guidewave/mesh"
)

// ReadGmsh22 reads a Gmsh MSH file, ASCII format version 2.2, into the
// solver's mesh structure. Physical tags become element reference tags and
// named physical groups become named domains. The mesher is otherwise a
// black box: only the structure written here is consumed.
func ReadGmsh22(filename string, dim int) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var (
		scanner = bufio.NewScanner(file)
		points  []float64
		names   = make(map[int]string) // physical tag -> group name
		nameDim = make(map[int]int)
		msh     *mesh.Mesh
	)
	type rawElem struct {
		etype, tag int
		verts      []int
	}
	var elems []rawElem

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "$MeshFormat":
			if !scanner.Scan() {
				return nil, fmt.Errorf("unexpected EOF in MeshFormat")
			}
			parts := strings.Fields(scanner.Text())
			if len(parts) < 3 || !strings.HasPrefix(parts[0], "2.") {
				return nil, fmt.Errorf("unsupported Gmsh format %q, want 2.x ASCII", scanner.Text())
			}
			if parts[1] != "0" {
				return nil, fmt.Errorf("binary Gmsh files are not supported")
			}

		case "$PhysicalNames":
			if !scanner.Scan() {
				return nil, fmt.Errorf("unexpected EOF in PhysicalNames")
			}
			n, _ := strconv.Atoi(strings.TrimSpace(scanner.Text()))
			for i := 0; i < n && scanner.Scan(); i++ {
				parts := strings.Fields(scanner.Text())
				if len(parts) < 3 {
					return nil, fmt.Errorf("invalid PhysicalNames line %q", scanner.Text())
				}
				d, _ := strconv.Atoi(parts[0])
				tag, _ := strconv.Atoi(parts[1])
				names[tag] = strings.Trim(parts[2], `"`)
				nameDim[tag] = d
			}

		case "$Nodes":
			if !scanner.Scan() {
				return nil, fmt.Errorf("unexpected EOF in Nodes")
			}
			n, _ := strconv.Atoi(strings.TrimSpace(scanner.Text()))
			points = make([]float64, 0, n*dim)
			for i := 0; i < n && scanner.Scan(); i++ {
				parts := strings.Fields(scanner.Text())
				if len(parts) < 4 {
					return nil, fmt.Errorf("invalid node line %q", scanner.Text())
				}
				for d := 0; d < dim; d++ {
					v, perr := strconv.ParseFloat(parts[1+d], 64)
					if perr != nil {
						return nil, fmt.Errorf("bad node coordinate %q: %v", parts[1+d], perr)
					}
					points = append(points, v)
				}
			}

		case "$Elements":
			if !scanner.Scan() {
				return nil, fmt.Errorf("unexpected EOF in Elements")
			}
			n, _ := strconv.Atoi(strings.TrimSpace(scanner.Text()))
			for i := 0; i < n && scanner.Scan(); i++ {
				parts := strings.Fields(scanner.Text())
				if len(parts) < 3 {
					return nil, fmt.Errorf("invalid element line %q", scanner.Text())
				}
				etype, _ := strconv.Atoi(parts[1])
				ntags, _ := strconv.Atoi(parts[2])
				nv, ok := gmshElemVerts[etype]
				if !ok {
					continue // points and higher-order elements are skipped
				}
				if len(parts) < 3+ntags+nv {
					return nil, fmt.Errorf("truncated element line %q", scanner.Text())
				}
				tag := 0
				if ntags > 0 {
					tag, _ = strconv.Atoi(parts[3])
				}
				verts := make([]int, nv)
				for v := 0; v < nv; v++ {
					id, _ := strconv.Atoi(parts[3+ntags+v])
					verts[v] = id - 1 // gmsh is 1-based
				}
				elems = append(elems, rawElem{etype: etype, tag: tag, verts: verts})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %v", err)
	}
	if points == nil {
		return nil, fmt.Errorf("no $Nodes section in %s", filename)
	}

	msh = mesh.NewMesh(dim, points)
	for _, e := range elems {
		switch e.etype {
		case 1:
			msh.Segments = append(msh.Segments, e.verts)
			msh.SegRefs = append(msh.SegRefs, e.tag)
		case 2:
			msh.Triangles = append(msh.Triangles, e.verts)
			msh.TriRefs = append(msh.TriRefs, e.tag)
		case 4:
			msh.Tets = append(msh.Tets, e.verts)
			msh.TetRefs = append(msh.TetRefs, e.tag)
		}
	}
	for tag, name := range names {
		if d := nameDim[tag]; d >= 1 && d <= dim {
			msh.DomainByRef(name, d, tag)
		}
	}
	return msh, nil
}

// gmsh element type -> vertex count for the linear simplices we accept
var gmshElemVerts = map[int]int{
	1: 2, // 2-node line
	2: 3, // 3-node triangle
	4: 4, // 4-node tetrahedron
}
