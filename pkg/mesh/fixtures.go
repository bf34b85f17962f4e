package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Canned meshes exercising the validity checks. They are exported because
// the scripting layer and the command line expose them as demo inputs, not
// only the tests.

// ValidTet builds the smallest closed manifold: a tetrahedron with outward
// winding. It passes every validity check.
func ValidTet() *Mesh {
	m := New()
	p0 := m.AddVertex(v3.Vec{X: 0, Y: 0, Z: 0})
	p1 := m.AddVertex(v3.Vec{X: 1, Y: 0, Z: 0})
	p2 := m.AddVertex(v3.Vec{X: 0, Y: 1, Z: 0})
	p3 := m.AddVertex(v3.Vec{X: 0, Y: 0, Z: 1})
	m.AddTriangle(p0, p2, p1)
	m.AddTriangle(p0, p1, p3)
	m.AddTriangle(p0, p3, p2)
	m.AddTriangle(p1, p2, p3)
	m.DeriveFaceNorms()
	m.DeriveVertNorms()
	return m
}

// BasicBreak builds a tetrahedron damaged in the three ways BasicValidity
// detects: a triangle referencing a missing vertex, a vertex no triangle
// uses, and a duplicate vertex pair closer than the tolerance.
func BasicBreak() *Mesh {
	m := ValidTet()
	// Out-of-range reference.
	m.Tris[3].V[2] = len(m.Verts) + 5
	// Dangling vertex.
	m.AddVertex(v3.Vec{X: 3, Y: 3, Z: 3})
	// Duplicate of vertex 0, offset well under the tolerance.
	m.AddVertex(v3.Vec{X: m.Tolerance() * 0.25, Y: 0, Z: 0})
	return m
}

// OpenTet builds a tetrahedron missing one face. It passes BasicValidity
// but the three boundary edges make ManifoldValidity fail.
func OpenTet() *Mesh {
	m := ValidTet()
	m.Tris = m.Tris[:3]
	// Vertex 1, 2 and 3 still appear in the remaining faces, so no
	// dangling vertices are introduced.
	return m
}

// OverlapTet builds a tetrahedron with every face doubled. Each directed
// edge then appears twice, which ManifoldValidity rejects.
func OverlapTet() *Mesh {
	m := ValidTet()
	for _, t := range m.Tris[:4] {
		m.AddTriangle(t.V[0], t.V[1], t.V[2])
	}
	m.DeriveFaceNorms()
	return m
}

// TouchTets builds two closed tetrahedra whose apexes coincide, stored as
// separate vertices until MergeVerts fuses them. The fused mesh pinches at
// the shared vertex: every directed edge still pairs up, and the edge graph
// is one component, so both ManifoldValidity and ConnectionValidity accept
// it even though the surface is not a simple solid.
func TouchTets() *Mesh {
	m := ValidTet()

	// Second tetrahedron mirrored through the shared apex at (1,0,0).
	q0 := m.AddVertex(v3.Vec{X: 1, Y: 0, Z: 0})
	q1 := m.AddVertex(v3.Vec{X: 2, Y: 0, Z: 0})
	q2 := m.AddVertex(v3.Vec{X: 1, Y: 1, Z: 0})
	q3 := m.AddVertex(v3.Vec{X: 1, Y: 0, Z: 1})
	m.AddTriangle(q0, q2, q1)
	m.AddTriangle(q0, q1, q3)
	m.AddTriangle(q0, q3, q2)
	m.AddTriangle(q1, q2, q3)

	m.MergeVerts()
	m.DeriveFaceNorms()
	m.DeriveVertNorms()
	return m
}
