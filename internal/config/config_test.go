package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voxmesh.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Fatalf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
tolerance: 0.001
extract:
  cells: 128
smooth:
  iterations: 5
  rate: 0.3
log:
  level: debug
  file: /tmp/voxmesh.log
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tolerance != 0.001 {
		t.Errorf("tolerance = %g, want 0.001", cfg.Tolerance)
	}
	if cfg.Extract.Cells != 128 {
		t.Errorf("extract.cells = %d, want 128", cfg.Extract.Cells)
	}
	if cfg.Smooth.Iterations != 5 || cfg.Smooth.Rate != 0.3 {
		t.Errorf("smooth = %+v, want 5/0.3", cfg.Smooth)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/voxmesh.log" {
		t.Errorf("log = %+v", cfg.Log)
	}
	// Unset keys keep their defaults.
	if cfg.AccelThreshold != Default().AccelThreshold {
		t.Errorf("accel_threshold = %d, want default %d", cfg.AccelThreshold, Default().AccelThreshold)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "tolerance: [\n"},
		{"negative tolerance", "tolerance: -1\n"},
		{"zero cells", "extract:\n  cells: 0\n"},
		{"rate above one", "smooth:\n  rate: 1.5\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
