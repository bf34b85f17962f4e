package engine

import (
	"fmt"
	"path/filepath"
	"testing"
)

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"keyword", "(sphere :radius 1)", `(sphere "__kw_radius" 1)`},
		{"kebab call", "(merge-verts m)", "(merge_verts m)"},
		{"kebab keyword", "(merge-mesh a b :last-call true)", `(merge_mesh a b "__kw_last-call" true)`},
		{"minus untouched", "(- 5 3)", "(- 5 3)"},
		{"negative literal", "(vec3 -1 0 0)", "(vec3 -1 0 0)"},
		{"string untouched", `(load-stl "my-file.stl")`, `(load_stl "my-file.stl")`},
		{"assignment", "(x := 5)", "(x := 5)"},
		{"comment", "; note\n(tet)", "// note\n(tet)"},
		{"double comment", ";; note\n(tet)", "// note\n(tet)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := preprocessSource(tc.in); got != tc.want {
				t.Errorf("preprocessSource(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// run evaluates a script, failing the test on any error.
func run(t *testing.T, source string) *Result {
	t.Helper()
	eng := NewEngine()
	res, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if res == nil {
		t.Fatal("nil result")
	}
	return res
}

func TestPipelineSphere(t *testing.T) {
	res := run(t, `
(defmesh "ball"
  (extract (voxelize (sphere :radius 1) :cells 12) :validate true))
`)
	m, ok := res.Meshes["ball"]
	if !ok {
		t.Fatalf("mesh %q not registered; have %v", "ball", res.Order)
	}
	if m.Empty() {
		t.Fatal("registered mesh is empty")
	}
	if !m.ManifoldValidity() {
		t.Fatal("extracted sphere is not manifold")
	}
}

func TestPipelineUnionAndTranslate(t *testing.T) {
	res := run(t, `
(defmesh "pair"
  (extract
    (voxelize
      (union (sphere :radius 1)
             (translate (sphere :radius 1) (vec3 3 0 0)))
      :cells 16)))
`)
	m := res.Meshes["pair"]
	if m == nil || m.Empty() {
		t.Fatal("union pipeline produced nothing")
	}
	// Two separated shells: manifold but not connected.
	if !m.ManifoldValidity() {
		t.Fatal("union surface is not manifold")
	}
	if m.ConnectionValidity() {
		t.Fatal("two separated spheres should not be connected")
	}
}

func TestPipelineSmoothAndFit(t *testing.T) {
	res := run(t, `
(defmesh "shaped"
  (box-fit (smooth (extract (voxelize (box :size (vec3 2 1 1)) :cells 10))
                   :iterations 2 :rate 0.5)
           1.0))
`)
	m := res.Meshes["shaped"]
	if m == nil || m.Empty() {
		t.Fatal("pipeline produced nothing")
	}
	bb := m.BoundBox()
	size := bb.Max.Sub(bb.Min)
	if size.X > 1.001 || size.Y > 1.001 || size.Z > 1.001 {
		t.Fatalf("box-fit left size %v, want within unit cube", size)
	}
}

func TestPipelineSTLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tet.stl")
	res := run(t, fmt.Sprintf(`
(save-stl (tet) %q)
(defmesh "loaded" (load-stl %q))
`, path, path))

	m := res.Meshes["loaded"]
	if m == nil {
		t.Fatal("loaded mesh not registered")
	}
	if m.NumVerts() != 4 || m.NumFaces() != 4 {
		t.Fatalf("round-tripped tet has %dv/%df, want 4/4", m.NumVerts(), m.NumFaces())
	}
}

func TestPipelineGridRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ball.grid")
	res := run(t, fmt.Sprintf(`
(save-grid (voxelize-binary (sphere :radius 1) :cells 8) %q)
(defmesh "fromdisk" (extract (load-grid %q)))
`, path, path))

	m := res.Meshes["fromdisk"]
	if m == nil || m.Empty() {
		t.Fatal("grid round trip produced no mesh")
	}
}

func TestPipelineFFD(t *testing.T) {
	res := run(t, `
(def lat (lattice :min (vec3 -0.5 -0.5 -0.5) :max (vec3 1.5 1.5 1.5)))
(move-control lat 1 1 1 (vec3 0.5 0 0))
(defmesh "bent" (apply-ffd (tet) lat))
`)
	m := res.Meshes["bent"]
	if m == nil {
		t.Fatal("deformed mesh not registered")
	}
	moved := false
	for i := range m.Verts {
		if !m.Verts[i].Equals(m.Base[i], 1e-12) {
			moved = true
			break
		}
	}
	if !moved {
		t.Fatal("deformation moved no vertices")
	}
}

func TestPipelineDefmeshOverwrite(t *testing.T) {
	res := run(t, `
(defmesh "m" (tet))
(defmesh "m" (extract (voxelize (sphere :radius 1) :cells 8)))
`)
	if len(res.Order) != 1 {
		t.Fatalf("order = %v, want a single name", res.Order)
	}
	if res.Meshes["m"].NumFaces() == 4 {
		t.Fatal("redefinition did not replace the mesh")
	}
}

func TestBuiltinArgumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"vec3 arity", "(vec3 1 2)"},
		{"vec3 type", `(vec3 "a" 2 3)`},
		{"union arity", "(union (sphere :radius 1))"},
		{"extract wrong type", "(extract (tet))"},
		{"smooth wrong type", "(smooth (sphere :radius 1))"},
		{"defmesh missing name", "(defmesh (tet))"},
		{"move-control bounds", `
(def lat (lattice :min (vec3 0 0 0) :max (vec3 1 1 1)))
(move-control lat 9 0 0 (vec3 1 0 0))`},
		{"save-grid scalar grid", `(save-grid (voxelize (sphere :radius 1) :cells 4) "x.grid")`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eng := NewEngine()
			res, evalErrs, err := eng.Evaluate(tc.source)
			if err != nil {
				t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
			}
			if res != nil {
				t.Fatal("expected nil result")
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected an eval error")
			}
		})
	}
}
