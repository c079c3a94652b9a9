// Command analyze prints the shape catalogue of configuration files: every
// shape drawn in its four orientations, the number of distinct orientations,
// and whether a full turn in either direction brings the piece back exactly
// where it started.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/blockfall/game/engine"
)

// ShapeAnalysis is the rotation summary of one shape
type ShapeAnalysis struct {
	Name string
	// Orientations holds the mask after 0, 1, 2 and 3 clockwise quarter turns
	Orientations [4][]string
	Distinct     int
	// RoundTrip is true when four turns either way, and a turn followed by its
	// inverse, restore position, pivot and mask
	RoundTrip bool
}

func drawMask(p *engine.Piece[engine.Kind], name byte) []string {
	rows := make([]string, p.Height())
	for y := range rows {
		var b strings.Builder
		for x := 0; x < p.Width(); x++ {
			if p.Mask.IsEmpty(x, y) {
				b.WriteByte('.')
			} else {
				b.WriteByte(name)
			}
		}
		rows[y] = b.String()
	}
	return rows
}

func samePiece(a, b *engine.Piece[engine.Kind]) bool {
	return a.Pos == b.Pos && a.Pivot == b.Pivot && a.Mask.Equal(b.Mask)
}

// analyzeShape rotates the shape through a full turn in both directions
func analyzeShape(def engine.ShapeDef, kind engine.Kind) (ShapeAnalysis, error) {
	shape, err := def.Shape(kind)
	if err != nil {
		return ShapeAnalysis{}, err
	}
	start, err := engine.NewPiece(shape.Mask, shape.Pivot)
	if err != nil {
		return ShapeAnalysis{}, fmt.Errorf("shape %q: %w", def.Name, err)
	}
	start.At(10, 10)

	result := ShapeAnalysis{Name: def.Name, RoundTrip: true}

	var seen []*engine.Grid[engine.Kind]
	p := start.Clone()
	for i := range result.Orientations {
		result.Orientations[i] = drawMask(p, def.Name[0])

		distinct := true
		for _, m := range seen {
			if m.Equal(p.Mask) {
				distinct = false
				break
			}
		}
		if distinct {
			seen = append(seen, p.Mask.Clone())
		}

		back := p.Clone()
		back.RotateRight()
		back.RotateLeft()
		if !samePiece(back, p) {
			result.RoundTrip = false
		}

		p.RotateRight()
	}
	if !samePiece(p, start) {
		result.RoundTrip = false
	}

	p = start.Clone()
	for range 4 {
		p.RotateLeft()
	}
	if !samePiece(p, start) {
		result.RoundTrip = false
	}

	result.Distinct = len(seen)
	return result, nil
}

// analyzeConfig writes the catalogue report for one config file
func analyzeConfig(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := engine.ValidateGameConfig(&config); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fmt.Fprintf(w, "Name: %s\n", config.Name)
	fmt.Fprintf(w, "Board: %d x %d, tick %dms\n", config.Width, config.Height, config.TickMS)
	fmt.Fprintf(w, "Spawn column: %d\n", config.Width/2)

	failures := 0
	for i, def := range config.ShapeDefs() {
		a, err := analyzeShape(def, engine.Kind(i+1))
		if err != nil {
			return err
		}

		status := "✅ round trip"
		if !a.RoundTrip {
			status = "⚠️  drifts after a full turn"
			failures++
		}
		fmt.Fprintf(w, "\nShape %s: %d orientation(s), pivot (%g, %g) %s\n", a.Name, a.Distinct, def.Pivot[0], def.Pivot[1], status)

		height := 0
		for _, o := range a.Orientations {
			height = max(height, len(o))
		}
		for y := 0; y < height; y++ {
			var line strings.Builder
			for _, o := range a.Orientations {
				cell := ""
				if y < len(o) {
					cell = o[y]
				}
				fmt.Fprintf(&line, "  %-6s", cell)
			}
			fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
		}
	}

	if failures > 0 {
		return fmt.Errorf("%s: %d shape(s) do not rotate back to their start", path, failures)
	}
	return nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		var err error
		files, err = filepath.Glob(filepath.Join(cmd.String("config-dir"), "*.json"))
		if err != nil {
			return err
		}
	}

	var failed []string
	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		if err := analyzeConfig(os.Stdout, file); err != nil {
			fmt.Printf("❌ %v\n", err)
			failed = append(failed, filepath.Base(file))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("analysis failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Print the shape catalogue of blockfall configurations",
		ArgsUsage: "[file.json ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory scanned when no files are given",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Action: run,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
