package mesh

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// pointHash buckets 3D points on a uniform lattice so near-duplicates land
// in the same or an adjacent bucket. The bucket cell is twice the equality
// tolerance, so two points within tolerance of each other differ by at most
// one cell per axis; lookup probes the home cell and both neighbors on each
// axis. A hash hit is never taken on faith: candidates are confirmed by
// coordinate comparison within tolerance.
type pointHash struct {
	cell    float64
	tol     float64
	buckets map[int64][]pointEntry
}

type pointEntry struct {
	idx int
	p   v3.Vec
}

// Bucket mixing constants. Large odd primes spread neighboring lattice
// cells across the key space (Teschner et al. spatial hashing).
const (
	hashP1 = 73856093
	hashP2 = 19349663
	hashP3 = 83492791
)

func newPointHash(tol float64) *pointHash {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	return &pointHash{
		cell:    2 * tol,
		tol:     tol,
		buckets: make(map[int64][]pointEntry),
	}
}

// key mixes three lattice coordinates into one bucket key.
func key(ix, iy, iz int64) int64 {
	return ix*hashP1 ^ iy*hashP2 ^ iz*hashP3
}

// lattice quantizes a single coordinate.
func (h *pointHash) lattice(c float64) int64 {
	return int64(math.Floor(c / h.cell))
}

// insert records a point under its home bucket.
func (h *pointHash) insert(p v3.Vec, idx int) {
	k := key(h.lattice(p.X), h.lattice(p.Y), h.lattice(p.Z))
	h.buckets[k] = append(h.buckets[k], pointEntry{idx: idx, p: p})
}

// lookup returns the index of a previously inserted point within tolerance
// of p, or false if none exists. The probe is centered on the home cell:
// quantizing p±tol instead can round a half-cell coordinate past the home
// cell and miss a bit-identical insert.
func (h *pointHash) lookup(p v3.Vec) (int, bool) {
	hx := h.lattice(p.X)
	hy := h.lattice(p.Y)
	hz := h.lattice(p.Z)

	for ix := hx - 1; ix <= hx+1; ix++ {
		for iy := hy - 1; iy <= hy+1; iy++ {
			for iz := hz - 1; iz <= hz+1; iz++ {
				k := key(ix, iy, iz)
				for _, e := range h.buckets[k] {
					if e.p.Equals(p, h.tol) {
						return e.idx, true
					}
				}
			}
		}
	}
	return 0, false
}
