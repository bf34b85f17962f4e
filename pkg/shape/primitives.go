package shape

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/voxmesh/pkg/mesh"
)

// Sphere is an analytic ball. Containment is exact; GenGeometry emits a
// latitude/longitude tessellation at the view's detail.
type Sphere struct {
	Center v3.Vec
	Radius float64
}

// PointContainment reports whether p lies inside or on the sphere.
func (s *Sphere) PointContainment(p v3.Vec) bool {
	return p.Sub(s.Center).Length() <= s.Radius
}

// GenGeometry tessellates the sphere into a closed triangle mesh.
func (s *Sphere) GenGeometry(view *mesh.View) *mesh.Geometry {
	n := detail(view)
	m := mesh.New()

	// Rings of vertices from north pole to south pole. Pole rings collapse
	// to a single point each; MergeVerts fuses the copies.
	ring := func(i int) []int {
		theta := math.Pi * float64(i) / float64(n)
		idx := make([]int, n)
		for j := 0; j < n; j++ {
			phi := 2 * math.Pi * float64(j) / float64(n)
			idx[j] = m.AddVertex(s.Center.Add(v3.Vec{
				X: s.Radius * math.Sin(theta) * math.Cos(phi),
				Y: s.Radius * math.Sin(theta) * math.Sin(phi),
				Z: s.Radius * math.Cos(theta),
			}))
		}
		return idx
	}

	upper := ring(0)
	for i := 1; i <= n; i++ {
		lower := ring(i)
		for j := 0; j < n; j++ {
			k := (j + 1) % n
			a, b := upper[j], upper[k]
			d, c := lower[j], lower[k]
			if i > 1 { // upper is not the north pole
				m.AddTriangle(a, c, b)
			}
			if i < n { // lower is not the south pole
				m.AddTriangle(a, d, c)
			}
		}
		upper = lower
	}

	m.MergeVerts()
	m.DeriveFaceNorms()
	m.DeriveVertNorms()
	return m.GenGeometry(view)
}

// Cylinder is an analytic cylinder centered at Center with its axis along
// z, spanning Height symmetrically.
type Cylinder struct {
	Center v3.Vec
	Radius float64
	Height float64
}

// PointContainment reports whether p lies inside or on the cylinder.
func (c *Cylinder) PointContainment(p v3.Vec) bool {
	d := p.Sub(c.Center)
	if math.Abs(d.Z) > c.Height/2 {
		return false
	}
	return math.Sqrt(d.X*d.X+d.Y*d.Y) <= c.Radius
}

// GenGeometry tessellates the cylinder: a ring of side quads plus two cap
// fans around the axis endpoints.
func (c *Cylinder) GenGeometry(view *mesh.View) *mesh.Geometry {
	n := detail(view)
	m := mesh.New()
	h := c.Height / 2

	bot := make([]int, n)
	top := make([]int, n)
	for j := 0; j < n; j++ {
		phi := 2 * math.Pi * float64(j) / float64(n)
		x := c.Radius * math.Cos(phi)
		y := c.Radius * math.Sin(phi)
		bot[j] = m.AddVertex(c.Center.Add(v3.Vec{X: x, Y: y, Z: -h}))
		top[j] = m.AddVertex(c.Center.Add(v3.Vec{X: x, Y: y, Z: h}))
	}
	bc := m.AddVertex(c.Center.Add(v3.Vec{Z: -h}))
	tc := m.AddVertex(c.Center.Add(v3.Vec{Z: h}))

	for j := 0; j < n; j++ {
		k := (j + 1) % n
		m.AddTriangle(bot[j], bot[k], top[k])
		m.AddTriangle(bot[j], top[k], top[j])
		m.AddTriangle(tc, top[j], top[k])
		m.AddTriangle(bc, bot[k], bot[j])
	}

	m.DeriveFaceNorms()
	m.DeriveVertNorms()
	return m.GenGeometry(view)
}

// Cube is an axis-aligned box between Min and Max.
type Cube struct {
	Min v3.Vec
	Max v3.Vec
}

// PointContainment reports whether p lies inside or on the box.
func (c *Cube) PointContainment(p v3.Vec) bool {
	return p.X >= c.Min.X && p.X <= c.Max.X &&
		p.Y >= c.Min.Y && p.Y <= c.Max.Y &&
		p.Z >= c.Min.Z && p.Z <= c.Max.Z
}

// cubeFaces indexes the box corners (bit 0 = x max, bit 1 = y max,
// bit 2 = z max) into outward-wound triangles.
var cubeFaces = [12][3]int{
	{0, 2, 1}, {1, 2, 3}, // z min
	{4, 5, 6}, {5, 7, 6}, // z max
	{0, 1, 4}, {1, 5, 4}, // y min
	{2, 6, 3}, {3, 6, 7}, // y max
	{0, 4, 2}, {2, 4, 6}, // x min
	{1, 3, 5}, {3, 7, 5}, // x max
}

// GenGeometry emits the twelve box triangles. Detail is irrelevant for a
// box, so the view only feeds through to the packing step.
func (c *Cube) GenGeometry(view *mesh.View) *mesh.Geometry {
	m := mesh.New()
	for corner := 0; corner < 8; corner++ {
		p := c.Min
		if corner&1 != 0 {
			p.X = c.Max.X
		}
		if corner&2 != 0 {
			p.Y = c.Max.Y
		}
		if corner&4 != 0 {
			p.Z = c.Max.Z
		}
		m.AddVertex(p)
	}
	for _, f := range cubeFaces {
		m.AddTriangle(f[0], f[1], f[2])
	}
	m.DeriveFaceNorms()
	m.DeriveVertNorms()
	return m.GenGeometry(view)
}
