// Package tessellate wires the extraction pipeline together: a voxel grid
// or an SDF solid goes in, a merged, smoothed, optionally validated
// triangle mesh comes out. The individual stages live in pkg/mesh and
// pkg/voxel; this package only sequences them and reports progress.
package tessellate

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	"go.uber.org/zap"

	"github.com/chazu/voxmesh/pkg/mesh"
	"github.com/chazu/voxmesh/pkg/voxel"
)

// Options controls the pipeline stages. The zero value extracts with the
// default tolerance, no smoothing and no validation.
type Options struct {
	// Tolerance is the vertex-merge tolerance; non-positive keeps the
	// mesh default.
	Tolerance float64

	// SmoothIterations and SmoothRate configure the Laplacian smoothing
	// pass; zero iterations skips it.
	SmoothIterations int
	SmoothRate       float64

	// Validate runs the basic, manifold and connectivity checks on the
	// extracted surface and fails the pipeline if any is violated.
	Validate bool

	// Logger receives per-stage progress. Nil keeps the pipeline silent.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// FromVolume extracts the iso-surface of a voxel grid into a mesh. An
// empty grid yields an empty mesh without error.
func FromVolume(g voxel.Grid, opts Options) (*mesh.Mesh, error) {
	log := opts.logger()

	m := mesh.New()
	if opts.Tolerance > 0 {
		m.SetTolerance(opts.Tolerance)
	}

	m.MarchingCubes(g)
	log.Debug("surface extracted",
		zap.Int("verts", m.NumVerts()),
		zap.Int("faces", m.NumFaces()))

	if opts.SmoothIterations > 0 {
		m.LaplacianSmooth(opts.SmoothIterations, opts.SmoothRate)
		m.DeriveFaceNorms()
		m.DeriveVertNorms()
		log.Debug("surface smoothed",
			zap.Int("iterations", opts.SmoothIterations),
			zap.Float64("rate", opts.SmoothRate))
	}

	if opts.Validate {
		if err := check(m); err != nil {
			return nil, err
		}
		log.Debug("surface validated")
	}
	return m, nil
}

// FromSDF rasterizes a solid at the given resolution and extracts its
// surface.
func FromSDF(s sdf.SDF3, cells int, opts Options) (*mesh.Mesh, error) {
	g, err := voxel.Rasterize(s, cells)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	opts.logger().Debug("solid rasterized",
		zap.Int("cells", cells))
	return FromVolume(g, opts)
}

// check runs the three validity predicates, strictest diagnosis first.
func check(m *mesh.Mesh) error {
	if !m.BasicValidity() {
		return fmt.Errorf("tessellate: extracted surface failed basic validity")
	}
	if !m.ManifoldValidity() {
		return fmt.Errorf("tessellate: extracted surface is not a closed manifold")
	}
	if !m.ConnectionValidity() {
		return fmt.Errorf("tessellate: extracted surface is not connected")
	}
	return nil
}
