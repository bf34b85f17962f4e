package mesh

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// defaultAccelThreshold is the triangle count below which brute-force
// containment beats the bounding-sphere structure's build cost.
const defaultAccelThreshold = 100

// accelSpheres is the number of bounding spheres placed along the longest
// bounding-box axis.
const accelSpheres = 5

// accelSphere covers a slab of the mesh along its longest axis and owns
// the indices of the triangles whose bounds overlap that slab.
type accelSphere struct {
	c   v3.Vec
	r   float64
	ind []int
}

// SetAccelThreshold overrides the triangle count at which containment
// queries switch to the bounding-sphere structure. Non-positive disables
// acceleration entirely.
func (m *Mesh) SetAccelThreshold(n int) {
	m.accelThreshold = n
	m.spheres = nil
}

// axisComp selects one component of a vector by axis index.
func axisComp(v v3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// rayEpsilon rejects intersections at the ray origin and near-parallel hits.
const rayEpsilon = 1e-9

// rayTriangle intersects a ray with a triangle (Moller-Trumbore) and
// returns the hit distance along the direction, or false.
func rayTriangle(orig, dir, p0, p1, p2 v3.Vec) (float64, bool) {
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	pv := dir.Cross(e2)
	det := e1.Dot(pv)
	if math.Abs(det) < rayEpsilon {
		return 0, false
	}
	inv := 1.0 / det
	tv := orig.Sub(p0)
	u := tv.Dot(pv) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	qv := tv.Cross(e1)
	v := dir.Dot(qv) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(qv) * inv
	if t <= rayEpsilon {
		return 0, false
	}
	return t, true
}

// containmentRayDir is a fixed skew direction, chosen so axis-aligned test
// geometry rarely presents an edge-on triangle to the ray.
var containmentRayDir = v3.Vec{X: 0.756743, Y: 0.443271, Z: 0.480921}

// PointContainment reports whether a point lies inside the closed surface,
// by parity of ray-triangle crossings. The answer is only meaningful for a
// mesh that passes ManifoldValidity; an empty mesh contains nothing. Large
// meshes are pruned through the bounding-sphere slabs before triangles are
// tested.
func (m *Mesh) PointContainment(pnt v3.Vec) bool {
	if len(m.Tris) == 0 {
		return false
	}

	if m.accelThreshold > 0 && len(m.Tris) >= m.accelThreshold {
		if m.spheres == nil {
			m.buildSphereAccel(accelSpheres)
		}
		return m.containmentAccel(pnt)
	}

	crossings := 0
	for _, t := range m.Tris {
		if _, hit := rayTriangle(pnt, containmentRayDir,
			m.Verts[t.V[0]], m.Verts[t.V[1]], m.Verts[t.V[2]]); hit {
			crossings++
		}
	}
	return crossings%2 == 1
}

// buildSphereAccel partitions the mesh into n spheres along its longest
// bounding-box axis. Each sphere covers one slab and owns every triangle
// whose bounds touch the slab, so a triangle may appear in more than one
// sphere but never in none.
func (m *Mesh) buildSphereAccel(n int) {
	bb := m.BoundBox()
	size := bb.Max.Sub(bb.Min)

	axis := 0
	longest := size.X
	if size.Y > longest {
		axis, longest = 1, size.Y
	}
	if size.Z > longest {
		axis, longest = 2, size.Z
	}
	if n < 1 || longest <= 0 {
		m.spheres = []accelSphere{}
		return
	}

	slab := longest / float64(n)
	center := bb.Min.Add(size.MulScalar(0.5))
	// Radius covers the slab half-length plus the full cross-section.
	crossR := 0.5 * math.Sqrt(size.X*size.X+size.Y*size.Y+size.Z*size.Z)
	r := 0.5*slab + crossR

	spheres := make([]accelSphere, n)
	for i := range spheres {
		c := center
		d := axisComp(bb.Min, axis) + (float64(i)+0.5)*slab
		switch axis {
		case 0:
			c.X = d
		case 1:
			c.Y = d
		default:
			c.Z = d
		}
		spheres[i] = accelSphere{c: c, r: r}
	}

	for ti, t := range m.Tris {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range t.V {
			if v < 0 || v >= len(m.Verts) {
				continue
			}
			c := axisComp(m.Verts[v], axis)
			lo = math.Min(lo, c)
			hi = math.Max(hi, c)
		}
		if lo > hi {
			continue
		}
		first := int((lo - axisComp(bb.Min, axis)) / slab)
		last := int((hi - axisComp(bb.Min, axis)) / slab)
		if first < 0 {
			first = 0
		}
		if last >= n {
			last = n - 1
		}
		for s := first; s <= last; s++ {
			spheres[s].ind = append(spheres[s].ind, ti)
		}
	}
	m.spheres = spheres
}

// containmentAccel counts ray crossings using the sphere slabs to prune,
// deduplicating triangles shared between slabs.
func (m *Mesh) containmentAccel(pnt v3.Vec) bool {
	tested := make(map[int]struct{})
	crossings := 0
	for _, s := range m.spheres {
		if !rayHitsSphere(pnt, containmentRayDir, s.c, s.r) {
			continue
		}
		for _, ti := range s.ind {
			if _, done := tested[ti]; done {
				continue
			}
			tested[ti] = struct{}{}
			t := m.Tris[ti]
			if _, hit := rayTriangle(pnt, containmentRayDir,
				m.Verts[t.V[0]], m.Verts[t.V[1]], m.Verts[t.V[2]]); hit {
				crossings++
			}
		}
	}
	return crossings%2 == 1
}

// rayHitsSphere reports whether a forward ray passes within r of c.
func rayHitsSphere(orig, dir, c v3.Vec, r float64) bool {
	oc := c.Sub(orig)
	if oc.Length() <= r {
		return true
	}
	t := oc.Dot(dir)
	if t < 0 {
		return false
	}
	closest := orig.Add(dir.MulScalar(t))
	return c.Sub(closest).Length() <= r
}
