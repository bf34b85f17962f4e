// Package voxel provides regular 3D occupancy and density grids that feed
// the marching-cubes extractor. Grids are read-only from the extractor's
// point of view; only their owner mutates them.
package voxel

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Grid is the sample lattice consumed by marching cubes. Samples live at
// grid points, not cell centers: point (x,y,z) sits at
// Origin + (x,y,z)*CellSize. Queries outside the dimensions must report
// outside.
type Grid interface {
	// Dims returns the number of sample points along each axis.
	Dims() (nx, ny, nz int)

	// Origin returns the world position of sample (0,0,0).
	Origin() v3.Vec

	// CellSize returns the spacing between adjacent samples per axis.
	CellSize() v3.Vec

	// Inside reports whether the sample at (x,y,z) lies inside the solid.
	Inside(x, y, z int) bool
}

// ScalarGrid is a Grid that also exposes scalar samples, letting the
// extractor place surface crossings by linear interpolation instead of at
// edge midpoints. A sample is inside when its value is below the iso level.
type ScalarGrid interface {
	Grid

	// Value returns the scalar sample at (x,y,z).
	Value(x, y, z int) float64

	// IsoLevel returns the surface threshold.
	IsoLevel() float64
}

// Volume is a binary occupancy grid with bit-packed storage.
type Volume struct {
	nx, ny, nz int
	origin     v3.Vec
	cell       v3.Vec
	bits       []uint64
}

// Compile-time interface check.
var _ Grid = (*Volume)(nil)

// NewVolume creates an all-outside volume with the given sample counts,
// world origin and sample spacing. Non-positive dimensions yield an empty
// volume, which marching cubes treats as a valid empty surface.
func NewVolume(nx, ny, nz int, origin, cell v3.Vec) *Volume {
	if nx < 0 {
		nx = 0
	}
	if ny < 0 {
		ny = 0
	}
	if nz < 0 {
		nz = 0
	}
	n := nx * ny * nz
	return &Volume{
		nx:     nx,
		ny:     ny,
		nz:     nz,
		origin: origin,
		cell:   cell,
		bits:   make([]uint64, (n+63)/64),
	}
}

// Dims returns the sample counts along each axis.
func (v *Volume) Dims() (int, int, int) { return v.nx, v.ny, v.nz }

// Origin returns the world position of sample (0,0,0).
func (v *Volume) Origin() v3.Vec { return v.origin }

// CellSize returns the spacing between adjacent samples.
func (v *Volume) CellSize() v3.Vec { return v.cell }

// index maps a sample coordinate to a flat bit index, or -1 out of bounds.
func (v *Volume) index(x, y, z int) int {
	if x < 0 || x >= v.nx || y < 0 || y >= v.ny || z < 0 || z >= v.nz {
		return -1
	}
	return (z*v.ny+y)*v.nx + x
}

// Set marks the sample at (x,y,z) as inside or outside. Out-of-bounds
// coordinates are ignored.
func (v *Volume) Set(x, y, z int, inside bool) {
	i := v.index(x, y, z)
	if i < 0 {
		return
	}
	if inside {
		v.bits[i>>6] |= 1 << uint(i&63)
	} else {
		v.bits[i>>6] &^= 1 << uint(i&63)
	}
}

// Get reports the sample at (x,y,z). Out-of-bounds samples are outside.
func (v *Volume) Get(x, y, z int) bool {
	i := v.index(x, y, z)
	if i < 0 {
		return false
	}
	return v.bits[i>>6]&(1<<uint(i&63)) != 0
}

// Inside implements Grid.
func (v *Volume) Inside(x, y, z int) bool { return v.Get(x, y, z) }

// Fill sets every sample to the given state.
func (v *Volume) Fill(inside bool) {
	var word uint64
	if inside {
		word = ^uint64(0)
	}
	for i := range v.bits {
		v.bits[i] = word
	}
	if inside {
		v.clearTail()
	}
}

// clearTail zeroes the padding bits past the last sample so counts stay
// exact after a Fill.
func (v *Volume) clearTail() {
	n := v.nx * v.ny * v.nz
	if n == 0 || n%64 == 0 {
		return
	}
	v.bits[len(v.bits)-1] &= (1 << uint(n%64)) - 1
}

// CountInside returns the number of inside samples.
func (v *Volume) CountInside() int {
	count := 0
	for _, w := range v.bits {
		for ; w != 0; w &= w - 1 {
			count++
		}
	}
	return count
}

// Empty reports whether the volume has no samples at all.
func (v *Volume) Empty() bool { return v.nx*v.ny*v.nz == 0 }

// PointAt returns the world position of sample (x,y,z).
func (v *Volume) PointAt(x, y, z int) v3.Vec {
	return v.origin.Add(v3.Vec{
		X: float64(x) * v.cell.X,
		Y: float64(y) * v.cell.Y,
		Z: float64(z) * v.cell.Z,
	})
}
