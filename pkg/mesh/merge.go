package mesh

// MergeVerts connects triangles by merging duplicate vertices. Vertices
// within tolerance of an earlier vertex are remapped to the first-seen
// index, triangle indices are rewritten, and Verts/Base/Norms are compacted
// to drop the duplicates. Winding is untouched. The vertex count never
// grows.
func (m *Mesh) MergeVerts() {
	if m.Empty() {
		return
	}

	h := newPointHash(m.Tolerance())
	remap := make([]int, len(m.Verts))

	verts := m.Verts[:0:0]
	base := m.Base[:0:0]
	norms := m.Norms[:0:0]

	for i, p := range m.Verts {
		if idx, ok := h.lookup(p); ok {
			remap[i] = idx
			continue
		}
		idx := len(verts)
		h.insert(p, idx)
		verts = append(verts, p)
		base = append(base, m.Base[i])
		norms = append(norms, m.Norms[i])
		remap[i] = idx
	}

	for i := range m.Tris {
		t := &m.Tris[i]
		for j := 0; j < 3; j++ {
			v := t.V[j]
			if v >= 0 && v < len(remap) {
				t.V[j] = remap[v]
			}
		}
	}

	m.Verts = verts
	m.Base = base
	m.Norms = norms
	m.spheres = nil
}
