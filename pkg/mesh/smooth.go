package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// neighbors builds the edge-connected neighbor lists from the triangle
// list, deduplicating shared edges.
func (m *Mesh) neighbors() [][]int {
	n := len(m.Verts)
	seen := make(map[Edge]struct{}, len(m.Tris)*3)
	adj := make([][]int, n)

	add := func(a, b int) {
		if a < 0 || a >= n || b < 0 || b >= n || a == b {
			return
		}
		lo, hi := a, b
		if lo > hi {
			lo, hi = hi, lo
		}
		e := Edge{V: [2]int{lo, hi}}
		if _, ok := seen[e]; ok {
			return
		}
		seen[e] = struct{}{}
		adj[lo] = append(adj[lo], hi)
		adj[hi] = append(adj[hi], lo)
	}

	for _, t := range m.Tris {
		add(t.V[0], t.V[1])
		add(t.V[1], t.V[2])
		add(t.V[2], t.V[0])
	}
	return adj
}

// LaplacianSmooth relaxes vertices toward the centroid of their
// edge-connected neighbors for iter iterations, moving each vertex a
// fraction rate (0 none, 1 full) of the way. Positions are double-buffered
// so every vertex within an iteration reads its neighbors' start-of-
// iteration positions. Topology is untouched; connectivity is derived once
// since it cannot change mid-call.
func (m *Mesh) LaplacianSmooth(iter int, rate float64) {
	if iter <= 0 || rate == 0 || m.Empty() {
		return
	}

	adj := m.neighbors()
	next := make([]v3.Vec, len(m.Verts))

	for it := 0; it < iter; it++ {
		for i := range m.Verts {
			nb := adj[i]
			if len(nb) == 0 {
				next[i] = m.Verts[i]
				continue
			}
			var centroid v3.Vec
			for _, j := range nb {
				centroid = centroid.Add(m.Verts[j])
			}
			centroid = centroid.DivScalar(float64(len(nb)))
			delta := centroid.Sub(m.Verts[i]).MulScalar(rate)
			next[i] = m.Verts[i].Add(delta)
		}
		m.Verts, next = next, m.Verts
	}
	m.spheres = nil
}
