package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// faceNormal computes the unit normal of a triangle from its vertex
// positions. With counter-clockwise winding seen from outside, the normal
// faces outward. A degenerate triangle yields a zero vector.
func (m *Mesh) faceNormal(t Triangle) v3.Vec {
	p0 := m.Verts[t.V[0]]
	p1 := m.Verts[t.V[1]]
	p2 := m.Verts[t.V[2]]
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Length() == 0 {
		return v3.Vec{}
	}
	return n.Normalize()
}

// DeriveFaceNorms recomputes every triangle's cached face normal from the
// current vertex positions. Triangles with out-of-range indices are left
// untouched; BasicValidity reports them.
func (m *Mesh) DeriveFaceNorms() {
	n := len(m.Verts)
	for i := range m.Tris {
		t := &m.Tris[i]
		if t.V[0] < 0 || t.V[0] >= n || t.V[1] < 0 || t.V[1] >= n || t.V[2] < 0 || t.V[2] >= n {
			continue
		}
		t.N = m.faceNormal(*t)
	}
}

// DeriveVertNorms averages the face normals of the triangles incident on
// each vertex and normalizes. Vertices with no incident faces keep a zero
// normal.
func (m *Mesh) DeriveVertNorms() {
	for i := range m.Norms {
		m.Norms[i] = v3.Vec{}
	}
	n := len(m.Verts)
	for _, t := range m.Tris {
		for _, v := range t.V {
			if v >= 0 && v < n {
				m.Norms[v] = m.Norms[v].Add(t.N)
			}
		}
	}
	for i := range m.Norms {
		if m.Norms[i].Length() > 0 {
			m.Norms[i] = m.Norms[i].Normalize()
		}
	}
}
