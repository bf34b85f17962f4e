// Package shape defines the shape capability interface and the closed set
// of analytic primitives implementing it. A Shape can pack itself into
// render geometry and answer point containment; anything else a caller
// wants must go through those two capabilities, so new shapes slot in
// without touching their consumers.
package shape

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/voxmesh/pkg/mesh"
)

// Shape is the capability every renderable, queryable solid provides.
type Shape interface {
	// GenGeometry packs the shape into flat render buffers. The view
	// carries tessellation quality; analytic shapes honor its Detail,
	// indexed meshes ignore it.
	GenGeometry(view *mesh.View) *mesh.Geometry

	// PointContainment reports whether a point lies inside the shape.
	PointContainment(p v3.Vec) bool
}

// Compile-time interface checks. A Mesh is itself a Shape, so extracted
// surfaces and analytic primitives mix freely in one scene list.
var (
	_ Shape = (*mesh.Mesh)(nil)
	_ Shape = (*Sphere)(nil)
	_ Shape = (*Cylinder)(nil)
	_ Shape = (*Cube)(nil)
)

// defaultDetail is the tessellation segment count used when the view gives
// none.
const defaultDetail = 16

// detail extracts a usable segment count from a view.
func detail(view *mesh.View) int {
	if view == nil || view.Detail < 3 {
		return defaultDetail
	}
	return view.Detail
}
