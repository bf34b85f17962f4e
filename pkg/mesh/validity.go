package mesh

// The three validity checks are independent, read-only predicates over the
// current mesh snapshot. Callers may run any subset in any order; none of
// them mutates the mesh, and each returns false at the first violation
// rather than aggregating a report.

// BasicValidity checks structural soundness: every triangle index lies in
// [0, len(Verts)), no vertex dangles unreferenced by any triangle, and no
// two vertices coincide within tolerance. An empty mesh is valid.
func (m *Mesh) BasicValidity() bool {
	n := len(m.Verts)
	if len(m.Base) != n || len(m.Norms) != n {
		return false
	}

	referenced := make([]bool, n)
	for _, t := range m.Tris {
		for _, v := range t.V {
			if v < 0 || v >= n {
				return false
			}
			referenced[v] = true
		}
	}
	for _, r := range referenced {
		if !r {
			return false
		}
	}

	h := newPointHash(m.Tolerance())
	for i, p := range m.Verts {
		if _, ok := h.lookup(p); ok {
			return false
		}
		h.insert(p, i)
	}
	return true
}

// ManifoldValidity checks that the mesh is a closed 2-manifold: every
// directed edge occurs exactly once and its reversal occurs exactly once in
// some other triangle, so each undirected edge is shared by exactly two
// triangles with opposite traversal. Degenerate triangles (repeated index,
// a self-loop edge) fail immediately.
func (m *Mesh) ManifoldValidity() bool {
	n := len(m.Verts)
	count := make(map[Edge]int, len(m.Tris)*3)

	for _, t := range m.Tris {
		if t.degenerate() {
			return false
		}
		for e := 0; e < 3; e++ {
			a, b := t.V[e], t.V[(e+1)%3]
			if a < 0 || a >= n || b < 0 || b >= n {
				return false
			}
			count[Edge{V: [2]int{a, b}}]++
		}
	}

	for e, c := range count {
		if c != 1 {
			return false
		}
		if count[Edge{V: [2]int{e.V[1], e.V[0]}}] != 1 {
			return false
		}
	}
	return true
}

// ConnectionValidity checks that every vertex is reachable from vertex 0 by
// traversing triangle edges. A mesh with zero vertices is vacuously
// connected. Vertices referenced by no triangle are unreachable and fail
// the check.
func (m *Mesh) ConnectionValidity() bool {
	n := len(m.Verts)
	if n == 0 {
		return true
	}

	adj := make([][]int, n)
	for _, t := range m.Tris {
		for e := 0; e < 3; e++ {
			a, b := t.V[e], t.V[(e+1)%3]
			if a < 0 || a >= n || b < 0 || b >= n {
				return false
			}
			adj[a] = append(adj[a], b)
			adj[b] = append(adj[b], a)
		}
	}

	visited := make([]bool, n)
	queue := []int{0}
	visited[0] = true
	seen := 1
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range adj[v] {
			if !visited[w] {
				visited[w] = true
				seen++
				queue = append(queue, w)
			}
		}
	}
	return seen == n
}
