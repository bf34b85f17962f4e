package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tc := range tests {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxmesh.log")
	log := NewWithFileConfig("debug", DefaultFileConfig(path), false)

	log.Info("surface extracted", zap.Int("faces", 8))
	if err := log.Sync(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "surface extracted") {
		t.Fatalf("log file missing the entry: %q", data)
	}
	if !strings.Contains(string(data), "faces") {
		t.Fatal("log file missing the structured field")
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxmesh.log")
	log := NewWithFileConfig("warn", DefaultFileConfig(path), false)

	log.Info("quiet")
	log.Warn("loud")
	if err := log.Sync(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "quiet") {
		t.Fatal("info entry leaked past the warn level")
	}
	if !strings.Contains(string(data), "loud") {
		t.Fatal("warn entry missing")
	}
}

func TestNoSinks(t *testing.T) {
	log := NewWithFileConfig("info", FileConfig{}, false)
	log.Info("dropped") // must not panic
}
