package mesh

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestGenGeometryCounts(t *testing.T) {
	m := ValidTet()
	g := m.GenGeometry(&View{})

	if g.VertexCount() != 4 {
		t.Fatalf("vertex count = %d, want 4", g.VertexCount())
	}
	if g.TriangleCount() != 4 {
		t.Fatalf("triangle count = %d, want 4", g.TriangleCount())
	}
	if len(g.Normals) != len(g.Vertices) {
		t.Fatalf("normals length %d != vertices length %d", len(g.Normals), len(g.Vertices))
	}
	if g.Color != m.Color() {
		t.Fatalf("color = %v, want %v", g.Color, m.Color())
	}
}

func TestGenGeometryTransform(t *testing.T) {
	m := New()
	m.AddVertex(v3.Vec{X: 1, Y: 0, Z: 0})
	m.AddVertex(v3.Vec{X: 0, Y: 1, Z: 0})
	m.AddVertex(v3.Vec{X: 0, Y: 0, Z: 1})
	m.AddTriangle(0, 1, 2)
	m.DeriveFaceNorms()
	m.DeriveVertNorms()

	m.SetScale(2)
	m.SetTranslation(v3.Vec{X: 10})
	m.SetRotations(0, 0, math.Pi/2) // quarter turn about z

	g := m.GenGeometry(nil)

	// First vertex (1,0,0): scaled to (2,0,0), rotated to (0,2,0),
	// translated to (10,2,0).
	const eps = 1e-6
	got := [3]float64{float64(g.Vertices[0]), float64(g.Vertices[1]), float64(g.Vertices[2])}
	want := [3]float64{10, 2, 0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > eps {
			t.Fatalf("transformed vertex = %v, want %v", got, want)
		}
	}

	// Normals rotate but never translate or scale.
	n := [3]float64{float64(g.Normals[0]), float64(g.Normals[1]), float64(g.Normals[2])}
	length := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if math.Abs(length-1) > 1e-5 {
		t.Fatalf("normal length = %v, want 1", length)
	}
}

func TestGenGeometrySkipsBadIndices(t *testing.T) {
	m := ValidTet()
	m.Tris[0].V[0] = 42
	g := m.GenGeometry(&View{Detail: 16})
	if g.TriangleCount() != 3 {
		t.Fatalf("triangle count = %d, want 3 (bad triangle dropped)", g.TriangleCount())
	}
}
