// Package mesh implements an indexed triangle mesh and the geometric
// algorithms that operate on it: duplicate-vertex merging through a spatial
// hash, normal derivation, marching-cubes extraction from a voxel grid,
// validity checking (basic, closed 2-manifold, connectivity), Laplacian
// smoothing and free-form deformation.
//
// A Mesh is owned by a single goroutine at a time. Mutating operations must
// not run concurrently; the validity checks are read-only and may inspect an
// otherwise idle mesh.
package mesh

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultTolerance is the point-equality tolerance used by vertex merging
// and duplicate detection when none is configured.
const DefaultTolerance = 1e-4

// Triangle indexes three vertices of the owning mesh, wound
// counter-clockwise when seen from outside, with a cached face normal.
type Triangle struct {
	V [3]int
	N v3.Vec
}

// Contains reports whether the triangle references the given vertex index.
func (t Triangle) Contains(idx int) bool {
	return idx == t.V[0] || idx == t.V[1] || idx == t.V[2]
}

// degenerate reports whether two of the triangle's indices coincide.
func (t Triangle) degenerate() bool {
	return t.V[0] == t.V[1] || t.V[1] == t.V[2] || t.V[2] == t.V[0]
}

// Edge indexes two vertices. Direction matters: a triangle's edge (a,b)
// must be matched by (b,a) in its unique manifold neighbor.
type Edge struct {
	V [2]int
}

// Mesh is an indexed triangle mesh. Verts, Base and Norms always have equal
// length; every triangle index is below len(Verts) in a valid mesh. Base
// holds the undeformed rest positions so deformation can be reapplied
// without accumulating.
type Mesh struct {
	Verts []v3.Vec
	Base  []v3.Vec
	Norms []v3.Vec
	Tris  []Triangle

	scale            float64
	trx              v3.Vec
	xrot, yrot, zrot float64
	col              [4]float32

	tol float64

	spheres        []accelSphere
	accelThreshold int
}

// New returns an empty mesh with default tolerance, unit scale and a
// neutral grey color.
func New() *Mesh {
	return &Mesh{
		scale:          1.0,
		col:            [4]float32{0.7, 0.7, 0.75, 1.0},
		tol:            DefaultTolerance,
		accelThreshold: defaultAccelThreshold,
	}
}

// Clear removes all vertices and triangles, keeping configuration
// (tolerance, transform, color) intact.
func (m *Mesh) Clear() {
	m.Verts = m.Verts[:0]
	m.Base = m.Base[:0]
	m.Norms = m.Norms[:0]
	m.Tris = m.Tris[:0]
	m.spheres = nil
}

// Empty reports whether the mesh has no geometry. An empty mesh is a valid
// terminal state, not an error.
func (m *Mesh) Empty() bool { return len(m.Verts) == 0 }

// NumVerts returns the vertex count.
func (m *Mesh) NumVerts() int { return len(m.Verts) }

// NumFaces returns the triangle count.
func (m *Mesh) NumFaces() int { return len(m.Tris) }

// SetTolerance sets the point-equality tolerance used by merging, duplicate
// detection and hash bucketing. Non-positive values restore the default.
func (m *Mesh) SetTolerance(tol float64) {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	m.tol = tol
}

// Tolerance returns the configured point-equality tolerance.
func (m *Mesh) Tolerance() float64 {
	if m.tol <= 0 {
		return DefaultTolerance
	}
	return m.tol
}

// SetScale sets the uniform scale factor applied when packing geometry.
func (m *Mesh) SetScale(s float64) { m.scale = s }

// Scale returns the uniform scale factor.
func (m *Mesh) Scale() float64 { return m.scale }

// SetTranslation sets the translation applied when packing geometry.
func (m *Mesh) SetTranslation(t v3.Vec) { m.trx = t }

// Translation returns the translation vector.
func (m *Mesh) Translation() v3.Vec { return m.trx }

// SetRotations sets the rotation angles (radians) about the x, y and z axes.
func (m *Mesh) SetRotations(ax, ay, az float64) {
	m.xrot, m.yrot, m.zrot = ax, ay, az
}

// Rotations returns the rotation angles about the x, y and z axes.
func (m *Mesh) Rotations() (ax, ay, az float64) {
	return m.xrot, m.yrot, m.zrot
}

// SetColor sets the RGBA render color.
func (m *Mesh) SetColor(c [4]float32) { m.col = c }

// Color returns the RGBA render color.
func (m *Mesh) Color() [4]float32 { return m.col }

// AddVertex appends a vertex, keeping Verts, Base and Norms in lockstep,
// and returns its index.
func (m *Mesh) AddVertex(p v3.Vec) int {
	idx := len(m.Verts)
	m.Verts = append(m.Verts, p)
	m.Base = append(m.Base, p)
	m.Norms = append(m.Norms, v3.Vec{})
	return idx
}

// AddTriangle appends a triangle with the given vertex indices.
func (m *Mesh) AddTriangle(v0, v1, v2 int) {
	m.Tris = append(m.Tris, Triangle{V: [3]int{v0, v1, v2}})
	m.spheres = nil
}

// BoundBox returns the axis-aligned bounding box of the current vertices.
// An empty mesh yields a zero box.
func (m *Mesh) BoundBox() sdf.Box3 {
	if len(m.Verts) == 0 {
		return sdf.Box3{}
	}
	bb := sdf.Box3{Min: m.Verts[0], Max: m.Verts[0]}
	for _, p := range m.Verts[1:] {
		bb.Min = bb.Min.Min(p)
		bb.Max = bb.Max.Max(p)
	}
	return bb
}

// MergeMesh appends another mesh's vertices and triangles into this one,
// shifting the incoming indices. Data is copied, never aliased. Set
// lastCall on the final merge of a batch to run the single deduplication
// pass that stitches the appended shells together.
func (m *Mesh) MergeMesh(other *Mesh, lastCall bool) {
	if other != nil && !other.Empty() {
		shift := len(m.Verts)
		m.Verts = append(m.Verts, other.Verts...)
		m.Base = append(m.Base, other.Base...)
		m.Norms = append(m.Norms, other.Norms...)
		for _, t := range other.Tris {
			m.Tris = append(m.Tris, Triangle{
				V: [3]int{t.V[0] + shift, t.V[1] + shift, t.V[2] + shift},
				N: t.N,
			})
		}
		m.spheres = nil
	}
	if lastCall {
		m.MergeVerts()
		m.DeriveFaceNorms()
		m.DeriveVertNorms()
	}
}

// BoxFit uniformly scales and recenters the vertices so they fit a cube of
// the given side length centered at the origin. Base vertices follow so the
// rest state stays consistent with the fitted positions.
func (m *Mesh) BoxFit(sidelen float64) {
	if m.Empty() || sidelen <= 0 {
		return
	}
	bb := m.BoundBox()
	size := bb.Max.Sub(bb.Min)
	longest := size.X
	if size.Y > longest {
		longest = size.Y
	}
	if size.Z > longest {
		longest = size.Z
	}
	if longest <= 0 {
		return
	}
	s := sidelen / longest
	center := bb.Min.Add(size.MulScalar(0.5))
	for i := range m.Verts {
		m.Verts[i] = m.Verts[i].Sub(center).MulScalar(s)
	}
	for i := range m.Base {
		m.Base[i] = m.Base[i].Sub(center).MulScalar(s)
	}
	m.spheres = nil
}
