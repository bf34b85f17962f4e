package voxel

import (
	"bufio"
	"fmt"
	"io"
	"os"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Grid files are whitespace-separated text: a header line with the three
// sample counts, origin and cell size, followed by one 0/1 token per
// sample, x fastest, then y, then z.

// WriteGrid writes a volume to w in the text grid format.
func WriteGrid(w io.Writer, v *Volume) error {
	bw := bufio.NewWriter(w)
	_, err := fmt.Fprintf(bw, "%d %d %d %g %g %g %g %g %g\n",
		v.nx, v.ny, v.nz,
		v.origin.X, v.origin.Y, v.origin.Z,
		v.cell.X, v.cell.Y, v.cell.Z)
	if err != nil {
		return err
	}
	for z := 0; z < v.nz; z++ {
		for y := 0; y < v.ny; y++ {
			for x := 0; x < v.nx; x++ {
				c := byte('0')
				if v.Get(x, y, z) {
					c = '1'
				}
				if err := bw.WriteByte(c); err != nil {
					return err
				}
				sep := byte(' ')
				if x == v.nx-1 {
					sep = '\n'
				}
				if err := bw.WriteByte(sep); err != nil {
					return err
				}
			}
		}
	}
	return bw.Flush()
}

// ReadGrid reads a volume from r in the text grid format.
func ReadGrid(r io.Reader) (*Volume, error) {
	br := bufio.NewReader(r)
	var nx, ny, nz int
	var origin, cell v3.Vec
	_, err := fmt.Fscan(br, &nx, &ny, &nz,
		&origin.X, &origin.Y, &origin.Z,
		&cell.X, &cell.Y, &cell.Z)
	if err != nil {
		return nil, fmt.Errorf("grid header: %w", err)
	}
	if nx < 0 || ny < 0 || nz < 0 {
		return nil, fmt.Errorf("grid header: negative dimensions %dx%dx%d", nx, ny, nz)
	}

	v := NewVolume(nx, ny, nz, origin, cell)
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				var b int
				if _, err := fmt.Fscan(br, &b); err != nil {
					return nil, fmt.Errorf("grid sample (%d,%d,%d): %w", x, y, z, err)
				}
				if b != 0 {
					v.Set(x, y, z, true)
				}
			}
		}
	}
	return v, nil
}

// SaveGrid writes a volume to the named file.
func SaveGrid(path string, v *Volume) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteGrid(f, v); err != nil {
		return err
	}
	return f.Sync()
}

// LoadGrid reads a volume from the named file.
func LoadGrid(path string) (*Volume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGrid(f)
}
