package mesh

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Geometry is a triangle mesh packed for rendering. All arrays are flat:
// Vertices and Normals hold 3 floats per vertex, Indices 3 uint32s per
// triangle. The layout is ready for GPU upload; the renderer itself lives
// outside this package.
type Geometry struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint32
	Color    [4]float32
}

// VertexCount returns the number of packed vertices.
func (g *Geometry) VertexCount() int { return len(g.Vertices) / 3 }

// TriangleCount returns the number of packed triangles.
func (g *Geometry) TriangleCount() int { return len(g.Indices) / 3 }

// View carries tessellation quality hints for geometry generation.
// Procedural shapes use Detail as the segment count per revolution; an
// indexed mesh ignores it.
type View struct {
	Detail int
}

// modelMatrix composites the mesh's scale, rotations and translation into
// one transform, applied in that order.
func (m *Mesh) modelMatrix() mgl64.Mat4 {
	t := mgl64.Translate3D(m.trx.X, m.trx.Y, m.trx.Z)
	r := m.rotationMatrix()
	s := mgl64.Scale3D(m.scale, m.scale, m.scale)
	return t.Mul4(r).Mul4(s)
}

// rotationMatrix composites the three axis rotations (x first, then y,
// then z). Normals are transformed by this alone; with uniform scale the
// rotation part is its own inverse-transpose.
func (m *Mesh) rotationMatrix() mgl64.Mat4 {
	rx := mgl64.HomogRotate3DX(m.xrot)
	ry := mgl64.HomogRotate3DY(m.yrot)
	rz := mgl64.HomogRotate3DZ(m.zrot)
	return rz.Mul4(ry).Mul4(rx)
}

// GenGeometry packs the transformed mesh into a flat geometry buffer.
func (m *Mesh) GenGeometry(view *View) *Geometry {
	_ = view

	g := &Geometry{
		Vertices: make([]float32, 0, len(m.Verts)*3),
		Normals:  make([]float32, 0, len(m.Verts)*3),
		Indices:  make([]uint32, 0, len(m.Tris)*3),
		Color:    m.col,
	}

	tfm := m.modelMatrix()
	rot := m.rotationMatrix()

	for i, p := range m.Verts {
		tp := tfm.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
		g.Vertices = append(g.Vertices, float32(tp[0]), float32(tp[1]), float32(tp[2]))

		n := m.Norms[i]
		tn := rot.Mul4x1(mgl64.Vec4{n.X, n.Y, n.Z, 0})
		g.Normals = append(g.Normals, float32(tn[0]), float32(tn[1]), float32(tn[2]))
	}

	nv := len(m.Verts)
	for _, t := range m.Tris {
		if t.V[0] < 0 || t.V[0] >= nv || t.V[1] < 0 || t.V[1] >= nv || t.V[2] < 0 || t.V[2] >= nv {
			continue
		}
		g.Indices = append(g.Indices, uint32(t.V[0]), uint32(t.V[1]), uint32(t.V[2]))
	}
	return g
}
