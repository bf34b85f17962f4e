package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chazu/voxmesh/pkg/engine"
)

var scriptOutDir string

var scriptCmd = &cobra.Command{
	Use:   "script [file.lisp]",
	Short: "Evaluate a modeling script and save its meshes",
	Long: `Run a Lisp modeling script. Every mesh the script registers with
(defmesh "name" ...) is written to <name>.stl in the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	scriptCmd.Flags().StringVarP(&scriptOutDir, "out", "o", ".", "directory to write the registered meshes into")
	rootCmd.AddCommand(scriptCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	eng := engine.NewEngine()
	res, evalErrs, err := eng.Evaluate(string(source))
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", args[0], err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			if e.Line > 0 {
				fmt.Fprintf(os.Stderr, "%s:%d: %s\n", args[0], e.Line, e.Message)
			} else {
				fmt.Fprintf(os.Stderr, "%s: %s\n", args[0], e.Message)
			}
		}
		return fmt.Errorf("%s: %d error(s)", args[0], len(evalErrs))
	}

	if len(res.Order) == 0 {
		log.Warn("script registered no meshes", zap.String("file", args[0]))
		fmt.Println("no meshes registered")
		return nil
	}

	if err := os.MkdirAll(scriptOutDir, 0o755); err != nil {
		return err
	}
	for _, name := range res.Order {
		m := res.Meshes[name]
		path := filepath.Join(scriptOutDir, name+".stl")
		if err := m.WriteSTL(path); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Info("mesh saved",
			zap.String("name", name),
			zap.String("file", path),
			zap.Int("faces", m.NumFaces()))
		fmt.Printf("%s: %d vertices, %d triangles\n", path, m.NumVerts(), m.NumFaces())
	}
	return nil
}
