package shape

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/voxmesh/pkg/mesh"
)

func TestPointContainment(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		p     v3.Vec
		want  bool
	}{
		{"sphere center", &Sphere{Radius: 1}, v3.Vec{}, true},
		{"sphere surface", &Sphere{Radius: 1}, v3.Vec{X: 1}, true},
		{"sphere outside", &Sphere{Radius: 1}, v3.Vec{X: 1.01}, false},
		{"sphere offset center", &Sphere{Center: v3.Vec{X: 5}, Radius: 1}, v3.Vec{X: 5.5}, true},
		{"cylinder inside", &Cylinder{Radius: 1, Height: 2}, v3.Vec{X: 0.5, Z: 0.9}, true},
		{"cylinder past cap", &Cylinder{Radius: 1, Height: 2}, v3.Vec{Z: 1.1}, false},
		{"cylinder past wall", &Cylinder{Radius: 1, Height: 2}, v3.Vec{X: 0.8, Y: 0.8}, false},
		{"cube inside", &Cube{Max: v3.Vec{X: 1, Y: 1, Z: 1}}, v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, true},
		{"cube face", &Cube{Max: v3.Vec{X: 1, Y: 1, Z: 1}}, v3.Vec{X: 1, Y: 0.5, Z: 0.5}, true},
		{"cube outside", &Cube{Max: v3.Vec{X: 1, Y: 1, Z: 1}}, v3.Vec{X: 0.5, Y: 0.5, Z: -0.1}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.shape.PointContainment(tc.p); got != tc.want {
				t.Errorf("PointContainment(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

// rebuild reconstructs an indexed mesh from packed geometry so the mesh
// validity checks can vet a tessellation.
func rebuild(t *testing.T, g *mesh.Geometry) *mesh.Mesh {
	t.Helper()
	m := mesh.New()
	for i := 0; i+2 < len(g.Vertices); i += 3 {
		m.AddVertex(v3.Vec{
			X: float64(g.Vertices[i]),
			Y: float64(g.Vertices[i+1]),
			Z: float64(g.Vertices[i+2]),
		})
	}
	for i := 0; i+2 < len(g.Indices); i += 3 {
		m.AddTriangle(int(g.Indices[i]), int(g.Indices[i+1]), int(g.Indices[i+2]))
	}
	m.DeriveFaceNorms()
	m.DeriveVertNorms()
	return m
}

func TestTessellationsAreClosed(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
	}{
		{"sphere", &Sphere{Radius: 1}},
		{"cylinder", &Cylinder{Radius: 1, Height: 2}},
		{"cube", &Cube{Min: v3.Vec{X: -1, Y: -1, Z: -1}, Max: v3.Vec{X: 1, Y: 1, Z: 1}}},
	}
	view := &mesh.View{Detail: 8}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := tc.shape.GenGeometry(view)
			if g.TriangleCount() == 0 {
				t.Fatal("no triangles generated")
			}
			m := rebuild(t, g)
			if !m.BasicValidity() {
				t.Error("tessellation failed BasicValidity")
			}
			if !m.ManifoldValidity() {
				t.Error("tessellation is not a closed manifold")
			}
			if !m.ConnectionValidity() {
				t.Error("tessellation is not connected")
			}
		})
	}
}

func TestSphereVertsOnSurface(t *testing.T) {
	s := &Sphere{Center: v3.Vec{X: 2}, Radius: 1.5}
	g := s.GenGeometry(&mesh.View{Detail: 12})
	for i := 0; i+2 < len(g.Vertices); i += 3 {
		p := v3.Vec{
			X: float64(g.Vertices[i]),
			Y: float64(g.Vertices[i+1]),
			Z: float64(g.Vertices[i+2]),
		}
		r := p.Sub(s.Center).Length()
		if math.Abs(r-s.Radius) > 1e-5 {
			t.Fatalf("vertex %d at radius %v, want %v", i/3, r, s.Radius)
		}
	}
}

func TestTessellationNormalsOutward(t *testing.T) {
	s := &Sphere{Radius: 1}
	g := s.GenGeometry(nil) // nil view must fall back to the default detail
	m := rebuild(t, g)
	for i, tri := range m.Tris {
		mid := m.Verts[tri.V[0]].Add(m.Verts[tri.V[1]]).Add(m.Verts[tri.V[2]]).DivScalar(3)
		if tri.N.Dot(mid) <= 0 {
			t.Fatalf("face %d normal points into the sphere", i)
		}
	}
}

func TestMeshIsAShape(t *testing.T) {
	var s Shape = mesh.ValidTet()
	if !s.PointContainment(v3.Vec{X: 0.2, Y: 0.2, Z: 0.2}) {
		t.Fatal("mesh-as-shape containment failed")
	}
	if g := s.GenGeometry(&mesh.View{}); g.TriangleCount() != 4 {
		t.Fatalf("mesh-as-shape packed %d triangles, want 4", g.TriangleCount())
	}
}
