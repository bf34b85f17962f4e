package mesh

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestLaplacianSmoothNoOps(t *testing.T) {
	tests := []struct {
		name string
		iter int
		rate float64
	}{
		{"zero iterations", 0, 0.5},
		{"negative iterations", -2, 0.5},
		{"zero rate", 3, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := ValidTet()
			want := append([]v3.Vec(nil), m.Verts...)
			m.LaplacianSmooth(tc.iter, tc.rate)
			for i, p := range m.Verts {
				if p != want[i] {
					t.Fatalf("vertex %d moved: %v -> %v", i, want[i], p)
				}
			}
		})
	}
}

func TestLaplacianSmoothEmptyMesh(t *testing.T) {
	m := New()
	m.LaplacianSmooth(5, 0.5) // must not panic
	if !m.Empty() {
		t.Fatal("smoothing created geometry")
	}
}

func TestLaplacianSmoothContracts(t *testing.T) {
	m := ValidTet()
	var centroid v3.Vec
	for _, p := range m.Verts {
		centroid = centroid.Add(p)
	}
	centroid = centroid.DivScalar(float64(len(m.Verts)))

	before := make([]float64, len(m.Verts))
	for i, p := range m.Verts {
		before[i] = p.Sub(centroid).Length()
	}

	m.LaplacianSmooth(1, 0.5)

	for i, p := range m.Verts {
		after := p.Sub(centroid).Length()
		if after >= before[i] {
			t.Errorf("vertex %d did not move toward the centroid: %v -> %v", i, before[i], after)
		}
	}
	if m.NumFaces() != 4 || m.NumVerts() != 4 {
		t.Fatal("smoothing changed topology")
	}
}

func TestLaplacianSmoothFullRateOneVertexChain(t *testing.T) {
	// With rate 1 a vertex lands exactly on its neighbor centroid, and the
	// double buffer must keep every read at start-of-iteration positions.
	m := New()
	a := m.AddVertex(v3.Vec{X: 0, Y: 0, Z: 0})
	b := m.AddVertex(v3.Vec{X: 1, Y: 0, Z: 0})
	c := m.AddVertex(v3.Vec{X: 2, Y: 0, Z: 0})
	m.AddTriangle(a, b, c)

	m.LaplacianSmooth(1, 1.0)

	// b's neighbors were a and c (plus the closing edge a-c makes a and c
	// neighbors of each other too).
	wantB := v3.Vec{X: 1, Y: 0, Z: 0}
	if !m.Verts[b].Equals(wantB, 1e-12) {
		t.Errorf("middle vertex = %v, want %v", m.Verts[b], wantB)
	}
	wantA := v3.Vec{X: 1.5, Y: 0, Z: 0}
	if !m.Verts[a].Equals(wantA, 1e-12) {
		t.Errorf("end vertex = %v, want %v (stale-read in double buffer?)", m.Verts[a], wantA)
	}
}

func TestLaplacianSmoothBasePreserved(t *testing.T) {
	m := ValidTet()
	want := append([]v3.Vec(nil), m.Base...)
	m.LaplacianSmooth(3, 0.5)
	for i, p := range m.Base {
		if p != want[i] {
			t.Fatalf("smoothing touched rest position %d", i)
		}
	}
}
