package mesh

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Binary STL stores a flat triangle soup: an 80-byte header, a uint32
// record count, then one 50-byte record per triangle (face normal, three
// vertices, attribute word). There is no index sharing on disk; shared
// topology is rebuilt on load by merging duplicate vertices.

const stlHeaderLen = 80

// stlRecord matches the on-disk triangle layout.
type stlRecord struct {
	Normal [3]float32
	Verts  [3][3]float32
	Attr   uint16
}

// ReadSTL replaces the mesh contents with the triangles from a binary STL
// file. Shared-vertex topology is rederived via MergeVerts. On any error
// the mesh is left unchanged.
func (m *Mesh) ReadSTL(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.readSTL(bufio.NewReader(f))
}

func (m *Mesh) readSTL(r io.Reader) error {
	var header [stlHeaderLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return fmt.Errorf("stl header: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("stl record count: %w", err)
	}

	// Stage into a scratch mesh so a truncated file never leaves the
	// receiver half-populated.
	scratch := New()
	scratch.SetTolerance(m.Tolerance())

	var rec stlRecord
	for i := uint32(0); i < count; i++ {
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("stl record %d of %d: %w", i, count, err)
		}
		var idx [3]int
		for j := 0; j < 3; j++ {
			idx[j] = scratch.AddVertex(v3.Vec{
				X: float64(rec.Verts[j][0]),
				Y: float64(rec.Verts[j][1]),
				Z: float64(rec.Verts[j][2]),
			})
		}
		scratch.Tris = append(scratch.Tris, Triangle{
			V: idx,
			N: v3.Vec{
				X: float64(rec.Normal[0]),
				Y: float64(rec.Normal[1]),
				Z: float64(rec.Normal[2]),
			},
		})
	}

	scratch.MergeVerts()
	scratch.DeriveFaceNorms()
	scratch.DeriveVertNorms()

	m.Verts = scratch.Verts
	m.Base = scratch.Base
	m.Norms = scratch.Norms
	m.Tris = scratch.Tris
	m.spheres = nil
	return nil
}

// WriteSTL saves the mesh to a binary STL file, re-expanding shared
// vertices into independent per-triangle copies.
func (m *Mesh) WriteSTL(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := m.writeSTL(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

func (m *Mesh) writeSTL(w io.Writer) error {
	var header [stlHeaderLen]byte
	copy(header[:], "voxmesh binary stl")
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Tris))); err != nil {
		return err
	}

	n := len(m.Verts)
	var rec stlRecord
	for i, t := range m.Tris {
		if t.V[0] < 0 || t.V[0] >= n || t.V[1] < 0 || t.V[1] >= n || t.V[2] < 0 || t.V[2] >= n {
			return fmt.Errorf("stl write: triangle %d references a missing vertex", i)
		}
		rec.Normal = [3]float32{float32(t.N.X), float32(t.N.Y), float32(t.N.Z)}
		for j := 0; j < 3; j++ {
			p := m.Verts[t.V[j]]
			rec.Verts[j] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
		}
		rec.Attr = 0
		if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("stl record %d: %w", i, err)
		}
	}
	return nil
}
