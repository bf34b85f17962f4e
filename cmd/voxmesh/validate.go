package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chazu/voxmesh/pkg/mesh"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file.stl]",
	Short: "Check an STL mesh for structural problems",
	Long: `Run the three validity checks on a binary STL file: basic structural
soundness, closed 2-manifold topology, and single-component
connectivity. Exits non-zero if any check fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	m := mesh.New()
	m.SetTolerance(cfg.Tolerance)
	if err := m.ReadSTL(args[0]); err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	log.Debug("mesh loaded",
		zap.String("file", args[0]),
		zap.Int("verts", m.NumVerts()),
		zap.Int("faces", m.NumFaces()))

	basic := m.BasicValidity()
	manifold := m.ManifoldValidity()
	connected := m.ConnectionValidity()

	fmt.Printf("basic:     %s\n", passFail(basic))
	fmt.Printf("manifold:  %s\n", passFail(manifold))
	fmt.Printf("connected: %s\n", passFail(connected))

	if !basic || !manifold || !connected {
		return fmt.Errorf("%s failed validation", args[0])
	}
	return nil
}
