package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/voxmesh/pkg/mesh"
)

var infoCmd = &cobra.Command{
	Use:   "info [file.stl]",
	Short: "Display information about an STL mesh",
	Long:  "Show vertex and triangle counts, bounding box and validity summary for a binary STL file.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	m := mesh.New()
	m.SetTolerance(cfg.Tolerance)
	if err := m.ReadSTL(args[0]); err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	bb := m.BoundBox()
	size := bb.Max.Sub(bb.Min)

	fmt.Printf("File: %s\n\n", args[0])
	fmt.Println("Mesh statistics:")
	fmt.Printf("  Vertices:  %d\n", m.NumVerts())
	fmt.Printf("  Triangles: %d\n\n", m.NumFaces())
	fmt.Println("Bounding box:")
	fmt.Printf("  Min:  (%.6f, %.6f, %.6f)\n", bb.Min.X, bb.Min.Y, bb.Min.Z)
	fmt.Printf("  Max:  (%.6f, %.6f, %.6f)\n", bb.Max.X, bb.Max.Y, bb.Max.Z)
	fmt.Printf("  Size: (%.6f, %.6f, %.6f)\n\n", size.X, size.Y, size.Z)
	fmt.Println("Validity:")
	fmt.Printf("  Basic:     %s\n", passFail(m.BasicValidity()))
	fmt.Printf("  Manifold:  %s\n", passFail(m.ManifoldValidity()))
	fmt.Printf("  Connected: %s\n", passFail(m.ConnectionValidity()))
	return nil
}

func passFail(ok bool) string {
	if ok {
		return "pass"
	}
	return "FAIL"
}
