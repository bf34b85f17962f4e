package main

import (
	"fmt"
	"strconv"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/cobra"

	"github.com/chazu/voxmesh/pkg/mesh"
)

var containsCmd = &cobra.Command{
	Use:   "contains [file.stl] [x] [y] [z]",
	Short: "Test whether a point lies inside an STL mesh",
	Long: `Cast a ray from the given point and count surface crossings. Prints
"inside" or "outside"; exits non-zero when the point is outside.`,
	Args: cobra.ExactArgs(4),
	RunE: runContains,
}

func init() {
	rootCmd.AddCommand(containsCmd)
}

func runContains(cmd *cobra.Command, args []string) error {
	var p v3.Vec
	for i, dst := range []*float64{&p.X, &p.Y, &p.Z} {
		f, err := strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return fmt.Errorf("coordinate %q: %w", args[i+1], err)
		}
		*dst = f
	}

	m := mesh.New()
	m.SetTolerance(cfg.Tolerance)
	m.SetAccelThreshold(cfg.AccelThreshold)
	if err := m.ReadSTL(args[0]); err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	if !m.PointContainment(p) {
		fmt.Println("outside")
		return fmt.Errorf("(%g, %g, %g) is outside %s", p.X, p.Y, p.Z, args[0])
	}
	fmt.Println("inside")
	return nil
}
