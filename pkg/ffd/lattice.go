// Package ffd implements free-form deformation through a trivariate
// Bernstein control-point lattice. The lattice spans a box; moving control
// points bends the space inside the box, and the deformation of any point
// is the Bernstein-weighted blend of the control points. Points outside
// the box pass through unchanged.
package ffd

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/voxmesh/pkg/mesh"
)

// Lattice is a grid of movable control points over a box. A fresh lattice
// deforms nothing: control points start at their rest positions, so Deform
// is the identity until SetControl moves one.
type Lattice struct {
	box        sdf.Box3
	nx, ny, nz int // control points per axis, degree+1
	ctrl       []v3.Vec
}

// Compile-time interface check.
var _ mesh.Deformer = (*Lattice)(nil)

// NewLattice builds a lattice over the box with the given number of
// control points per axis, at least two per axis.
func NewLattice(box sdf.Box3, nx, ny, nz int) (*Lattice, error) {
	if nx < 2 || ny < 2 || nz < 2 {
		return nil, fmt.Errorf("ffd: need at least 2 control points per axis, got %dx%dx%d", nx, ny, nz)
	}
	size := box.Max.Sub(box.Min)
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, fmt.Errorf("ffd: degenerate lattice box")
	}

	l := &Lattice{box: box, nx: nx, ny: ny, nz: nz}
	l.ctrl = make([]v3.Vec, nx*ny*nz)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				l.ctrl[l.index(i, j, k)] = l.restPosition(i, j, k)
			}
		}
	}
	return l, nil
}

// Dims returns the control point counts per axis.
func (l *Lattice) Dims() (nx, ny, nz int) { return l.nx, l.ny, l.nz }

// Box returns the lattice's span.
func (l *Lattice) Box() sdf.Box3 { return l.box }

func (l *Lattice) index(i, j, k int) int {
	return (k*l.ny+j)*l.nx + i
}

// restPosition returns the undeformed position of control point (i,j,k),
// evenly spaced over the box.
func (l *Lattice) restPosition(i, j, k int) v3.Vec {
	size := l.box.Max.Sub(l.box.Min)
	return l.box.Min.Add(v3.Vec{
		X: size.X * float64(i) / float64(l.nx-1),
		Y: size.Y * float64(j) / float64(l.ny-1),
		Z: size.Z * float64(k) / float64(l.nz-1),
	})
}

// Control returns the current position of control point (i,j,k).
func (l *Lattice) Control(i, j, k int) (v3.Vec, error) {
	if err := l.checkIndex(i, j, k); err != nil {
		return v3.Vec{}, err
	}
	return l.ctrl[l.index(i, j, k)], nil
}

// SetControl moves control point (i,j,k) to p.
func (l *Lattice) SetControl(i, j, k int, p v3.Vec) error {
	if err := l.checkIndex(i, j, k); err != nil {
		return err
	}
	l.ctrl[l.index(i, j, k)] = p
	return nil
}

// MoveControl displaces control point (i,j,k) by delta from its current
// position.
func (l *Lattice) MoveControl(i, j, k int, delta v3.Vec) error {
	if err := l.checkIndex(i, j, k); err != nil {
		return err
	}
	idx := l.index(i, j, k)
	l.ctrl[idx] = l.ctrl[idx].Add(delta)
	return nil
}

// Reset returns every control point to its rest position, making the
// lattice the identity again.
func (l *Lattice) Reset() {
	for k := 0; k < l.nz; k++ {
		for j := 0; j < l.ny; j++ {
			for i := 0; i < l.nx; i++ {
				l.ctrl[l.index(i, j, k)] = l.restPosition(i, j, k)
			}
		}
	}
}

func (l *Lattice) checkIndex(i, j, k int) error {
	if i < 0 || i >= l.nx || j < 0 || j >= l.ny || k < 0 || k >= l.nz {
		return fmt.Errorf("ffd: control point (%d,%d,%d) outside %dx%dx%d lattice", i, j, k, l.nx, l.ny, l.nz)
	}
	return nil
}

// Deform maps a point through the lattice: its box-local parameter is
// blended over all control points with trivariate Bernstein weights.
// Points outside the box are returned unchanged.
func (l *Lattice) Deform(p v3.Vec) v3.Vec {
	size := l.box.Max.Sub(l.box.Min)
	s := (p.X - l.box.Min.X) / size.X
	t := (p.Y - l.box.Min.Y) / size.Y
	u := (p.Z - l.box.Min.Z) / size.Z
	if s < 0 || s > 1 || t < 0 || t > 1 || u < 0 || u > 1 {
		return p
	}

	bx := bernstein(l.nx-1, s)
	by := bernstein(l.ny-1, t)
	bz := bernstein(l.nz-1, u)

	var out v3.Vec
	for k := 0; k < l.nz; k++ {
		for j := 0; j < l.ny; j++ {
			wjk := by[j] * bz[k]
			for i := 0; i < l.nx; i++ {
				out = out.Add(l.ctrl[l.index(i, j, k)].MulScalar(bx[i] * wjk))
			}
		}
	}
	return out
}

// bernstein evaluates all degree-n Bernstein basis polynomials at t using
// the de Casteljau style recurrence. The weights sum to one.
func bernstein(n int, t float64) []float64 {
	b := make([]float64, n+1)
	b[0] = 1
	for d := 1; d <= n; d++ {
		prev := 0.0
		for i := 0; i <= d; i++ {
			cur := b[i]
			b[i] = prev*t + cur*(1-t)
			prev = cur
		}
	}
	return b
}
