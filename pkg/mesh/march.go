package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/voxmesh/pkg/voxel"
)

// Cube corner offsets and the edges joining them, matching the canonical
// marching-cubes numbering that mcEdgeTable/mcTriTable are written against.
var (
	cubeCorner = [8][3]int{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	cubeEdge = [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
)

// MarchingCubes replaces the mesh contents with the iso-surface extracted
// from the grid. Each cube of eight adjacent samples is classified into one
// of 256 configurations; the configuration table lists the crossed edges
// grouped into triangles, so no configuration is special-cased in control
// flow. Crossing points are placed at edge midpoints for binary grids and
// by linear interpolation when the grid exposes scalar samples. Vertices
// are shared across neighboring cubes through the spatial hash, then a
// merge pass and normal derivation finish the mesh.
//
// A grid too small to contain a cube produces an empty mesh, which is a
// valid result, not an error.
func (m *Mesh) MarchingCubes(g voxel.Grid) {
	m.Clear()
	if g == nil {
		return
	}
	nx, ny, nz := g.Dims()
	if nx < 2 || ny < 2 || nz < 2 {
		return
	}

	sg, hasScalar := g.(voxel.ScalarGrid)
	origin := g.Origin()
	cell := g.CellSize()

	h := newPointHash(m.Tolerance())

	// crossing returns the surface point on the edge between two global
	// sample coordinates. Endpoints are ordered canonically so adjacent
	// cubes compute bit-identical points for their shared edges.
	crossing := func(ax, ay, az, bx, by, bz int) v3.Vec {
		if bx < ax || (bx == ax && (by < ay || (by == ay && bz < az))) {
			ax, ay, az, bx, by, bz = bx, by, bz, ax, ay, az
		}
		pa := origin.Add(v3.Vec{X: float64(ax) * cell.X, Y: float64(ay) * cell.Y, Z: float64(az) * cell.Z})
		pb := origin.Add(v3.Vec{X: float64(bx) * cell.X, Y: float64(by) * cell.Y, Z: float64(bz) * cell.Z})
		if !hasScalar {
			return pa.Add(pb).MulScalar(0.5)
		}
		va := sg.Value(ax, ay, az)
		vb := sg.Value(bx, by, bz)
		d := vb - va
		t := 0.5
		if d != 0 {
			t = (sg.IsoLevel() - va) / d
		}
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		return pa.Add(pb.Sub(pa).MulScalar(t))
	}

	// vertexAt inserts a crossing point once, returning its index.
	vertexAt := func(p v3.Vec) int {
		if idx, ok := h.lookup(p); ok {
			return idx
		}
		idx := m.AddVertex(p)
		h.insert(p, idx)
		return idx
	}

	var edgeVert [12]int
	for z := 0; z < nz-1; z++ {
		for y := 0; y < ny-1; y++ {
			for x := 0; x < nx-1; x++ {
				config := 0
				for c := 0; c < 8; c++ {
					if g.Inside(x+cubeCorner[c][0], y+cubeCorner[c][1], z+cubeCorner[c][2]) {
						config |= 1 << uint(c)
					}
				}
				edges := mcEdgeTable[config]
				if edges == 0 {
					// Fully inside or fully outside; nothing crosses.
					continue
				}
				for e := 0; e < 12; e++ {
					if edges&(1<<uint(e)) == 0 {
						continue
					}
					ca := cubeCorner[cubeEdge[e][0]]
					cb := cubeCorner[cubeEdge[e][1]]
					p := crossing(x+ca[0], y+ca[1], z+ca[2], x+cb[0], y+cb[1], z+cb[2])
					edgeVert[e] = vertexAt(p)
				}
				row := &mcTriTable[config]
				for t := 0; row[t] != -1; t += 3 {
					v0 := edgeVert[row[t]]
					v1 := edgeVert[row[t+1]]
					v2 := edgeVert[row[t+2]]
					if v0 == v1 || v1 == v2 || v2 == v0 {
						// Interpolation collapsed the triangle; skip it.
						continue
					}
					// The table is written for bit i = "corner i outside";
					// with bit i = "corner i inside" the listed order winds
					// inward, so swap two vertices to face outward.
					m.AddTriangle(v0, v2, v1)
				}
			}
		}
	}

	m.MergeVerts()
	m.DeriveFaceNorms()
	m.DeriveVertNorms()
}
