package voxel

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DensityGrid stores signed-distance samples of a solid. It implements
// ScalarGrid, so marching cubes interpolates crossings along cube edges
// instead of snapping them to midpoints.
type DensityGrid struct {
	nx, ny, nz int
	origin     v3.Vec
	cell       v3.Vec
	values     []float64
	iso        float64
}

// Compile-time interface checks.
var (
	_ Grid       = (*DensityGrid)(nil)
	_ ScalarGrid = (*DensityGrid)(nil)
)

// Dims returns the sample counts along each axis.
func (g *DensityGrid) Dims() (int, int, int) { return g.nx, g.ny, g.nz }

// Origin returns the world position of sample (0,0,0).
func (g *DensityGrid) Origin() v3.Vec { return g.origin }

// CellSize returns the spacing between adjacent samples.
func (g *DensityGrid) CellSize() v3.Vec { return g.cell }

// IsoLevel returns the surface threshold. Samples below it are inside.
func (g *DensityGrid) IsoLevel() float64 { return g.iso }

// Value returns the signed-distance sample at (x,y,z). Out-of-bounds
// samples read as far outside.
func (g *DensityGrid) Value(x, y, z int) float64 {
	if x < 0 || x >= g.nx || y < 0 || y >= g.ny || z < 0 || z >= g.nz {
		return 1e9
	}
	return g.values[(z*g.ny+y)*g.nx+x]
}

// Inside implements Grid.
func (g *DensityGrid) Inside(x, y, z int) bool {
	return g.Value(x, y, z) < g.iso
}

// Rasterize samples a solid into a DensityGrid with the given number of
// cells along its longest bounding-box axis. The sample lattice is padded
// by one cell on every side so the extracted surface always closes.
func Rasterize(s sdf.SDF3, cells int) (*DensityGrid, error) {
	if s == nil {
		return nil, fmt.Errorf("rasterize: nil solid")
	}
	if cells < 1 {
		return nil, fmt.Errorf("rasterize: cells must be positive, got %d", cells)
	}

	bb := s.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	longest := size.X
	if size.Y > longest {
		longest = size.Y
	}
	if size.Z > longest {
		longest = size.Z
	}
	if longest <= 0 {
		return nil, fmt.Errorf("rasterize: solid has a degenerate bounding box")
	}

	step := longest / float64(cells)
	cell := v3.Vec{X: step, Y: step, Z: step}

	// One cell of padding keeps every boundary crossing within the lattice.
	nx := int(size.X/step) + 3
	ny := int(size.Y/step) + 3
	nz := int(size.Z/step) + 3
	origin := bb.Min.Sub(cell)

	g := &DensityGrid{
		nx:     nx,
		ny:     ny,
		nz:     nz,
		origin: origin,
		cell:   cell,
		values: make([]float64, nx*ny*nz),
	}

	i := 0
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				p := origin.Add(v3.Vec{
					X: float64(x) * step,
					Y: float64(y) * step,
					Z: float64(z) * step,
				})
				g.values[i] = s.Evaluate(p)
				i++
			}
		}
	}
	return g, nil
}

// RasterizeBinary samples a solid into a bit-packed Volume, discarding the
// distance information. Useful when the volume is combined with other
// occupancy data before extraction.
func RasterizeBinary(s sdf.SDF3, cells int) (*Volume, error) {
	g, err := Rasterize(s, cells)
	if err != nil {
		return nil, err
	}
	v := NewVolume(g.nx, g.ny, g.nz, g.origin, g.cell)
	for z := 0; z < g.nz; z++ {
		for y := 0; y < g.ny; y++ {
			for x := 0; x < g.nx; x++ {
				if g.Inside(x, y, z) {
					v.Set(x, y, z, true)
				}
			}
		}
	}
	return v, nil
}
