package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Deformer maps a point to its deformed position. The mesh treats the
// deformation as opaque; lattice internals live elsewhere.
type Deformer interface {
	Deform(p v3.Vec) v3.Vec
}

// ApplyFFD writes the deformation of every vertex's rest position into
// Verts, leaving Base untouched. Because the mapping always starts from the
// rest state, reapplying the same deformer is idempotent, never cumulative.
// Face and vertex normals are rederived for the new positions.
func (m *Mesh) ApplyFFD(d Deformer) {
	if d == nil || m.Empty() {
		return
	}
	for i := range m.Base {
		m.Verts[i] = d.Deform(m.Base[i])
	}
	m.DeriveFaceNorms()
	m.DeriveVertNorms()
	m.spheres = nil
}
