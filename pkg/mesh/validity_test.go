package mesh

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestValidityFixtures(t *testing.T) {
	tests := []struct {
		name      string
		build     func() *Mesh
		basic     bool
		manifold  bool
		connected bool
	}{
		{"empty", New, true, true, true},
		{"valid tet", ValidTet, true, true, true},
		{"basic break", BasicBreak, false, false, false},
		{"open tet", OpenTet, true, false, true},
		{"overlap tet", OverlapTet, true, false, true},
		{"touching tets", TouchTets, true, true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := tc.build()
			if got := m.BasicValidity(); got != tc.basic {
				t.Errorf("BasicValidity() = %v, want %v", got, tc.basic)
			}
			if got := m.ManifoldValidity(); got != tc.manifold {
				t.Errorf("ManifoldValidity() = %v, want %v", got, tc.manifold)
			}
			if got := m.ConnectionValidity(); got != tc.connected {
				t.Errorf("ConnectionValidity() = %v, want %v", got, tc.connected)
			}
		})
	}
}

func TestBasicValidityDanglingVertex(t *testing.T) {
	m := ValidTet()
	m.AddVertex(v3.Vec{X: 5, Y: 5, Z: 5})
	if m.BasicValidity() {
		t.Fatal("mesh with an unreferenced vertex passed BasicValidity")
	}
}

func TestBasicValidityDuplicateWithinTolerance(t *testing.T) {
	m := New()
	m.SetTolerance(1e-3)
	a := m.AddVertex(v3.Vec{X: 0, Y: 0, Z: 0})
	b := m.AddVertex(v3.Vec{X: 1, Y: 0, Z: 0})
	c := m.AddVertex(v3.Vec{X: 0.5e-3, Y: 0, Z: 0})
	m.AddTriangle(a, b, c)
	if m.BasicValidity() {
		t.Fatal("vertices closer than tolerance passed BasicValidity")
	}
}

func TestManifoldValidityDegenerateTriangle(t *testing.T) {
	m := New()
	a := m.AddVertex(v3.Vec{X: 0, Y: 0, Z: 0})
	b := m.AddVertex(v3.Vec{X: 1, Y: 0, Z: 0})
	m.AddTriangle(a, a, b)
	if m.ManifoldValidity() {
		t.Fatal("degenerate triangle passed ManifoldValidity")
	}
}

func TestConnectionValidityTwoIslands(t *testing.T) {
	m := ValidTet()
	other := ValidTet()
	for i := range other.Verts {
		other.Verts[i] = other.Verts[i].Add(v3.Vec{X: 10})
		other.Base[i] = other.Verts[i]
	}
	m.MergeMesh(other, false)
	if !m.BasicValidity() {
		t.Fatal("two disjoint tets should pass BasicValidity")
	}
	if !m.ManifoldValidity() {
		t.Fatal("two disjoint closed tets should pass ManifoldValidity")
	}
	if m.ConnectionValidity() {
		t.Fatal("two disjoint tets passed ConnectionValidity")
	}
}
