package engine

import (
	"fmt"
	"strings"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/voxmesh/pkg/ffd"
	"github.com/chazu/voxmesh/pkg/mesh"
	"github.com/chazu/voxmesh/pkg/tessellate"
	"github.com/chazu/voxmesh/pkg/voxel"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms pipeline Lisp source before it reaches
// zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal),
//     avoiding global symbol registration that would collide with user
//     variables of the same name.
//
//  2. Kebab-case to underscore: merge-verts -> merge_verts, since zygomys
//     reads a hyphen inside an identifier as subtraction.
//
//  3. ; line comments become // comments, which is what zygomys expects.
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Kebab-case: a hyphen between identifier characters is part of
		// the name, not a minus.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a point or vector.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.3f %.3f %.3f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps an SDF solid built by the CSG constructors.
type sexpSolid struct {
	s sdf.SDF3
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	bb := s.s.BoundingBox()
	return fmt.Sprintf("(solid %.2fx%.2fx%.2f)",
		bb.Max.X-bb.Min.X, bb.Max.Y-bb.Min.Y, bb.Max.Z-bb.Min.Z)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpGrid wraps a voxel grid ready for extraction.
type sexpGrid struct {
	g voxel.Grid
}

func (g *sexpGrid) SexpString(ps *zygo.PrintState) string {
	nx, ny, nz := g.g.Dims()
	return fmt.Sprintf("(grid %dx%dx%d)", nx, ny, nz)
}
func (g *sexpGrid) Type() *zygo.RegisteredType { return nil }

// sexpMesh wraps a mesh flowing through the pipeline.
type sexpMesh struct {
	m *mesh.Mesh
}

func (m *sexpMesh) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mesh %dv %df)", m.m.NumVerts(), m.m.NumFaces())
}
func (m *sexpMesh) Type() *zygo.RegisteredType { return nil }

// sexpLattice wraps an FFD lattice.
type sexpLattice struct {
	l *ffd.Lattice
}

func (l *sexpLattice) SexpString(ps *zygo.PrintState) string {
	nx, ny, nz := l.l.Dims()
	return fmt.Sprintf("(lattice %dx%dx%d)", nx, ny, nz)
}
func (l *sexpLattice) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string, returning the
// bare keyword name if so.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds a parsed mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toSolid(s zygo.Sexp) (sdf.SDF3, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.s, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

func toGrid(s zygo.Sexp) (voxel.Grid, error) {
	if v, ok := s.(*sexpGrid); ok {
		return v.g, nil
	}
	return nil, fmt.Errorf("expected grid, got %T (%s)", s, s.SexpString(nil))
}

func toMesh(s zygo.Sexp) (*mesh.Mesh, error) {
	if v, ok := s.(*sexpMesh); ok {
		return v.m, nil
	}
	return nil, fmt.Errorf("expected mesh, got %T (%s)", s, s.SexpString(nil))
}

func toLattice(s zygo.Sexp) (*ffd.Lattice, error) {
	if v, ok := s.(*sexpLattice); ok {
		return v.l, nil
	}
	return nil, fmt.Errorf("expected lattice, got %T (%s)", s, s.SexpString(nil))
}

// kwFloat reads an optional keyword number, keeping def when absent.
func kwFloat(pa kwArgs, name string, def float64) (float64, error) {
	v, ok := pa.kw[name]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// kwInt reads an optional keyword integer, keeping def when absent.
func kwInt(pa kwArgs, name string, def int) (int, error) {
	v, ok := pa.kw[name]
	if !ok {
		return def, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the pipeline builtins into a zygomys
// environment. Builtins that produce meshes feed the result registry via
// defmesh. Source must be preprocessed with preprocessSource first so
// :keyword tokens arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, result *Result) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere :radius 1 :center (vec3 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, err := kwFloat(pa, "radius", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		s, err := sdf.Sphere3D(r)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return placeSolid(pa, s)
	})

	// -----------------------------------------------------------------------
	// (box :size (vec3 1 2 3) :center (vec3 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		size := v3.Vec{X: 1, Y: 1, Z: 1}
		if v, ok := pa.kw["size"]; ok {
			var err error
			if size, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
		}
		s, err := sdf.Box3D(size, 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		return placeSolid(pa, s)
	})

	// -----------------------------------------------------------------------
	// (cylinder :radius 1 :height 2 :center (vec3 0 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, err := kwFloat(pa, "radius", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		h, err := kwFloat(pa, "height", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		s, err := sdf.Cylinder3D(h, r, 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		return placeSolid(pa, s)
	})

	// -----------------------------------------------------------------------
	// (union a b ...)
	// -----------------------------------------------------------------------
	env.AddFunction("union", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("union requires at least 2 solids, got %d", len(args))
		}
		solids := make([]sdf.SDF3, len(args))
		for i, a := range args {
			s, err := toSolid(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("union: argument %d: %w", i, err)
			}
			solids[i] = s
		}
		return &sexpSolid{s: sdf.Union3D(solids...)}, nil
	})

	// -----------------------------------------------------------------------
	// (translate solid (vec3 1 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("translate requires a solid and a vec3")
		}
		s, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		d, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		return &sexpSolid{s: sdf.Transform3D(s, sdf.Translate3d(d))}, nil
	})

	// -----------------------------------------------------------------------
	// (voxelize solid :cells 64)          — scalar grid, interpolated surface
	// (voxelize-binary solid :cells 64)   — occupancy grid, saveable
	// -----------------------------------------------------------------------
	env.AddFunction("voxelize", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s, cells, err := voxelizeArgs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("voxelize: %w", err)
		}
		g, err := voxel.Rasterize(s, cells)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("voxelize: %w", err)
		}
		return &sexpGrid{g: g}, nil
	})

	env.AddFunction("voxelize_binary", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s, cells, err := voxelizeArgs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("voxelize-binary: %w", err)
		}
		v, err := voxel.RasterizeBinary(s, cells)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("voxelize-binary: %w", err)
		}
		return &sexpGrid{g: v}, nil
	})

	// -----------------------------------------------------------------------
	// (load-grid "cave.grid") / (save-grid grid "cave.grid")
	// -----------------------------------------------------------------------
	env.AddFunction("load_grid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("load-grid requires a path")
		}
		path, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-grid: %w", err)
		}
		v, err := voxel.LoadGrid(path)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-grid: %w", err)
		}
		return &sexpGrid{g: v}, nil
	})

	env.AddFunction("save_grid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("save-grid requires a grid and a path")
		}
		g, err := toGrid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-grid: %w", err)
		}
		v, ok := g.(*voxel.Volume)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("save-grid: only binary grids can be saved; use voxelize-binary")
		}
		path, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-grid: %w", err)
		}
		if err := voxel.SaveGrid(path, v); err != nil {
			return zygo.SexpNull, fmt.Errorf("save-grid: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (extract grid :tolerance 1e-4 :iterations 3 :rate 0.5 :validate true)
	// -----------------------------------------------------------------------
	env.AddFunction("extract", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("extract requires a grid")
		}
		g, err := toGrid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extract: %w", err)
		}

		opts := tessellate.Options{}
		if opts.Tolerance, err = kwFloat(pa, "tolerance", 0); err != nil {
			return zygo.SexpNull, fmt.Errorf("extract: %w", err)
		}
		if opts.SmoothIterations, err = kwInt(pa, "iterations", 0); err != nil {
			return zygo.SexpNull, fmt.Errorf("extract: %w", err)
		}
		if opts.SmoothRate, err = kwFloat(pa, "rate", 0.5); err != nil {
			return zygo.SexpNull, fmt.Errorf("extract: %w", err)
		}
		if v, ok := pa.kw["validate"]; ok {
			if opts.Validate, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("extract: validate: %w", err)
			}
		}

		m, err := tessellate.FromVolume(g, opts)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extract: %w", err)
		}
		return &sexpMesh{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (load-stl "part.stl") / (save-stl mesh "part.stl")
	// -----------------------------------------------------------------------
	env.AddFunction("load_stl", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("load-stl requires a path")
		}
		path, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-stl: %w", err)
		}
		m := mesh.New()
		if err := m.ReadSTL(path); err != nil {
			return zygo.SexpNull, fmt.Errorf("load-stl: %w", err)
		}
		return &sexpMesh{m: m}, nil
	})

	env.AddFunction("save_stl", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("save-stl requires a mesh and a path")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-stl: %w", err)
		}
		path, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-stl: %w", err)
		}
		if err := m.WriteSTL(path); err != nil {
			return zygo.SexpNull, fmt.Errorf("save-stl: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// Mesh processing. Each mutates its mesh argument and returns it so
	// calls chain naturally in a let body.
	// -----------------------------------------------------------------------
	env.AddFunction("merge_verts", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("merge-verts requires a mesh")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("merge-verts: %w", err)
		}
		m.MergeVerts()
		m.DeriveFaceNorms()
		m.DeriveVertNorms()
		return args[0], nil
	})

	env.AddFunction("smooth", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("smooth requires a mesh")
		}
		m, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("smooth: %w", err)
		}
		iter, err := kwInt(pa, "iterations", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("smooth: %w", err)
		}
		rate, err := kwFloat(pa, "rate", 0.5)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("smooth: %w", err)
		}
		m.LaplacianSmooth(iter, rate)
		m.DeriveFaceNorms()
		m.DeriveVertNorms()
		return pa.positional[0], nil
	})

	env.AddFunction("box_fit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("box-fit requires a mesh and a side length")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box-fit: %w", err)
		}
		side, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box-fit: %w", err)
		}
		m.BoxFit(side)
		return args[0], nil
	})

	// (merge-mesh dst src :last-call true) appends src into dst.
	env.AddFunction("merge_mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("merge-mesh requires two meshes")
		}
		dst, err := toMesh(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("merge-mesh: %w", err)
		}
		src, err := toMesh(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("merge-mesh: %w", err)
		}
		lastCall := true
		if v, ok := pa.kw["last-call"]; ok {
			if lastCall, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("merge-mesh: last-call: %w", err)
			}
		}
		dst.MergeMesh(src, lastCall)
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (lattice :min (vec3 ...) :max (vec3 ...) :nx 2 :ny 2 :nz 2)
	// (move-control lat i j k (vec3 dx dy dz))
	// (apply-ffd mesh lat)
	// -----------------------------------------------------------------------
	env.AddFunction("lattice", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		box := sdf.Box3{}
		var err error
		if v, ok := pa.kw["min"]; ok {
			if box.Min, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("lattice: min: %w", err)
			}
		}
		if v, ok := pa.kw["max"]; ok {
			if box.Max, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("lattice: max: %w", err)
			}
		}
		nx, err := kwInt(pa, "nx", 2)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("lattice: %w", err)
		}
		ny, err := kwInt(pa, "ny", 2)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("lattice: %w", err)
		}
		nz, err := kwInt(pa, "nz", 2)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("lattice: %w", err)
		}
		l, err := ffd.NewLattice(box, nx, ny, nz)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("lattice: %w", err)
		}
		return &sexpLattice{l: l}, nil
	})

	env.AddFunction("move_control", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 5 {
			return zygo.SexpNull, fmt.Errorf("move-control requires a lattice, three indices and a vec3")
		}
		l, err := toLattice(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move-control: %w", err)
		}
		var idx [3]int
		for i := 0; i < 3; i++ {
			if idx[i], err = toInt(args[i+1]); err != nil {
				return zygo.SexpNull, fmt.Errorf("move-control: index %d: %w", i, err)
			}
		}
		d, err := toVec3(args[4])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move-control: %w", err)
		}
		if err := l.MoveControl(idx[0], idx[1], idx[2], d); err != nil {
			return zygo.SexpNull, fmt.Errorf("move-control: %w", err)
		}
		return args[0], nil
	})

	env.AddFunction("apply_ffd", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("apply-ffd requires a mesh and a lattice")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("apply-ffd: %w", err)
		}
		l, err := toLattice(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("apply-ffd: %w", err)
		}
		m.ApplyFFD(l)
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (validate mesh) — all three checks; (contains mesh (vec3 ...))
	// -----------------------------------------------------------------------
	env.AddFunction("validate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("validate requires a mesh")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("validate: %w", err)
		}
		ok := m.BasicValidity() && m.ManifoldValidity() && m.ConnectionValidity()
		return &zygo.SexpBool{Val: ok}, nil
	})

	env.AddFunction("contains", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("contains requires a mesh and a vec3")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("contains: %w", err)
		}
		p, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("contains: %w", err)
		}
		return &zygo.SexpBool{Val: m.PointContainment(p)}, nil
	})

	// -----------------------------------------------------------------------
	// (info mesh) — human-readable summary string
	// -----------------------------------------------------------------------
	env.AddFunction("info", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("info requires a mesh")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("info: %w", err)
		}
		bb := m.BoundBox()
		s := fmt.Sprintf("verts=%d faces=%d bounds=(%.3f,%.3f,%.3f)-(%.3f,%.3f,%.3f)",
			m.NumVerts(), m.NumFaces(),
			bb.Min.X, bb.Min.Y, bb.Min.Z, bb.Max.X, bb.Max.Y, bb.Max.Z)
		return &zygo.SexpStr{S: s}, nil
	})

	// -----------------------------------------------------------------------
	// (defmesh "name" mesh) — register a result
	// -----------------------------------------------------------------------
	env.AddFunction("defmesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("defmesh requires a name and a mesh")
		}
		meshName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defmesh: name: %w", err)
		}
		m, err := toMesh(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defmesh: %w", err)
		}
		result.register(meshName, m)
		return args[1], nil
	})

	// (tet) builds the demo tetrahedron fixture.
	env.AddFunction("tet", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &sexpMesh{m: mesh.ValidTet()}, nil
	})
}

// placeSolid applies an optional :center translation to a freshly built,
// origin-centered solid.
func placeSolid(pa kwArgs, s sdf.SDF3) (zygo.Sexp, error) {
	if v, ok := pa.kw["center"]; ok {
		c, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("center: %w", err)
		}
		s = sdf.Transform3D(s, sdf.Translate3d(c))
	}
	return &sexpSolid{s: s}, nil
}

// voxelizeArgs parses the shared (solid :cells n) argument form.
func voxelizeArgs(args []zygo.Sexp) (sdf.SDF3, int, error) {
	pa := parseArgs(args)
	if len(pa.positional) != 1 {
		return nil, 0, fmt.Errorf("requires a solid")
	}
	s, err := toSolid(pa.positional[0])
	if err != nil {
		return nil, 0, err
	}
	cells, err := kwInt(pa, "cells", 64)
	if err != nil {
		return nil, 0, err
	}
	return s, cells, nil
}
