package mesh

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/voxmesh/pkg/voxel"
)

func mustSphere(t *testing.T, r float64) sdf.SDF3 {
	t.Helper()
	s, err := sdf.Sphere3D(r)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// singleVoxelVolume builds a 3x3x3 sample lattice with only the center
// sample inside, the smallest volume producing a closed surface.
func singleVoxelVolume() *voxel.Volume {
	v := voxel.NewVolume(3, 3, 3, v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1})
	v.Set(1, 1, 1, true)
	return v
}

func TestMarchingCubesSingleVoxel(t *testing.T) {
	m := New()
	m.MarchingCubes(singleVoxelVolume())

	// An isolated inside sample is wrapped by an octahedron: one crossing
	// per incident lattice edge (6), one triangle per incident cube (8).
	if m.NumVerts() != 6 {
		t.Fatalf("vert count = %d, want 6", m.NumVerts())
	}
	if m.NumFaces() != 8 {
		t.Fatalf("face count = %d, want 8", m.NumFaces())
	}
	if !m.BasicValidity() {
		t.Error("BasicValidity failed")
	}
	if !m.ManifoldValidity() {
		t.Error("ManifoldValidity failed")
	}
	if !m.ConnectionValidity() {
		t.Error("ConnectionValidity failed")
	}
}

func TestMarchingCubesOutwardNormals(t *testing.T) {
	m := New()
	m.MarchingCubes(singleVoxelVolume())

	center := v3.Vec{X: 1, Y: 1, Z: 1}
	for i, tri := range m.Tris {
		mid := m.Verts[tri.V[0]].Add(m.Verts[tri.V[1]]).Add(m.Verts[tri.V[2]]).DivScalar(3)
		if tri.N.Dot(mid.Sub(center)) <= 0 {
			t.Errorf("face %d normal points inward", i)
		}
		if math.Abs(tri.N.Length()-1) > 1e-12 {
			t.Errorf("face %d normal not unit length: %v", i, tri.N.Length())
		}
	}
}

func TestMarchingCubesEmptyAndFull(t *testing.T) {
	tests := []struct {
		name string
		grid voxel.Grid
	}{
		{"nil grid", nil},
		{"empty volume", voxel.NewVolume(4, 4, 4, v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1})},
		{"too small", voxel.NewVolume(1, 1, 1, v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1})},
		{"full volume", func() voxel.Grid {
			v := voxel.NewVolume(3, 3, 3, v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1})
			v.Fill(true)
			return v
		}()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := ValidTet() // pre-populated so we see the Clear happen
			m.MarchingCubes(tc.grid)
			if !m.Empty() {
				t.Fatalf("expected empty mesh, got %d verts", m.NumVerts())
			}
		})
	}
}

func TestMarchingCubesSlab(t *testing.T) {
	// A 2x2x1 block of inside samples on a padded lattice still closes.
	v := voxel.NewVolume(4, 4, 3, v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1})
	for x := 1; x <= 2; x++ {
		for y := 1; y <= 2; y++ {
			v.Set(x, y, 1, true)
		}
	}

	m := New()
	m.MarchingCubes(v)

	if m.Empty() {
		t.Fatal("slab produced no surface")
	}
	if !m.BasicValidity() || !m.ManifoldValidity() || !m.ConnectionValidity() {
		t.Fatal("slab surface failed validity")
	}
}

func TestMarchingCubesScalarInterpolation(t *testing.T) {
	// A sphere sampled as signed distance: crossings should land near the
	// radius, not at edge midpoints.
	g, err := voxel.Rasterize(mustSphere(t, 1.0), 16)
	if err != nil {
		t.Fatal(err)
	}

	m := New()
	m.MarchingCubes(g)

	if m.Empty() {
		t.Fatal("sphere produced no surface")
	}
	if !m.BasicValidity() || !m.ManifoldValidity() || !m.ConnectionValidity() {
		t.Fatal("sphere surface failed validity")
	}

	// Every vertex sits close to the unit sphere. Interpolation keeps the
	// error well under a cell size; midpoint placement would not.
	cell := g.CellSize().X
	for i, p := range m.Verts {
		r := p.Length()
		if math.Abs(r-1.0) > cell/2 {
			t.Fatalf("vertex %d at radius %v, want 1.0 +/- %v", i, r, cell/2)
		}
	}
}

func TestMarchingCubesSharedEdgeVerts(t *testing.T) {
	// Two adjacent inside samples: the shared cube face must reuse crossing
	// vertices rather than duplicating them. 10 crossed lattice edges, so
	// exactly 10 verts.
	v := voxel.NewVolume(4, 3, 3, v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1})
	v.Set(1, 1, 1, true)
	v.Set(2, 1, 1, true)

	m := New()
	m.MarchingCubes(v)

	if m.NumVerts() != 10 {
		t.Fatalf("vert count = %d, want 10", m.NumVerts())
	}
	if !m.ManifoldValidity() {
		t.Fatal("two-voxel surface is not manifold")
	}
}
