// Command validate checks game configuration JSON files. By default it scans
// the configs directory; explicit files can be passed as arguments. It checks:
//   - JSON structure and the engine's own config validation
//   - Every shape can enter the board from the spawn column
//   - The layout leaves room for every shape below the spawn row
//   - Empty layout cells that no piece can ever reach from the top
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/blockfall/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%v", err)
		return result
	}

	checkSpawn(&config, &result)
	if !result.Valid {
		return result
	}

	open, sealed := layoutHoles(&config)

	result.info("Name: %s", config.Name)
	result.info("Board: %dx%d, tick %dms", config.Width, config.Height, config.TickMS)
	result.info("Shapes: %d", len(config.ShapeDefs()))
	result.info("Layout rows: %d", len(config.Layout))
	if len(config.Layout) > 0 {
		result.info("Layout holes: %d open, %d sealed", open, sealed)
	}
	return result
}

// checkSpawn verifies that every shape, placed where the board spawns it, can take
// its first step into the frame without leaving it or landing on the layout
func checkSpawn(config *engine.GameConfig, result *ValidationResult) {
	frame := engine.Rect{Width: config.Width, Height: config.Height}
	frozen := engine.Layer[engine.Kind]{Grid: engine.LayoutGrid(config)}

	for i, def := range config.ShapeDefs() {
		shape, err := def.Shape(engine.Kind(i + 1))
		if err != nil {
			result.fail("%v", err)
			continue
		}
		piece, err := engine.NewPiece(shape.Mask, shape.Pivot)
		if err != nil {
			result.fail("shape %q: %v", def.Name, err)
			continue
		}
		piece.At(frame.X+frame.Width/2, frame.Y)
		if !engine.ValidPlacement(piece, frozen, frame) {
			result.fail("Shape %q spawning at column %d cannot enter the board: the game would end on the first tick",
				def.Name, frame.Width/2)
		}
	}
}

// layoutHoles counts empty layout cells that are reachable from the top of the board
// through empty cells (open) and those fully enclosed by layout cells (sealed)
func layoutHoles(config *engine.GameConfig) (open, sealed int) {
	grid := engine.LayoutGrid(config)
	w, h := grid.Width(), grid.Height()

	visited := engine.NewGrid[bool](w, h)
	queue := []engine.Point{}
	for x := 0; x < w; x++ {
		if grid.IsEmpty(x, 0) {
			visited.Set(x, 0, true)
			queue = append(queue, engine.Point{X: x})
		}
	}

	directions := []engine.Point{{X: -1}, {X: 1}, {Y: -1}, {Y: 1}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, d := range directions {
			next := current.Add(d)
			if next.X < 0 || next.Y < 0 || next.X >= w || next.Y >= h {
				continue
			}
			if visited.Get(next.X, next.Y) || !grid.IsEmpty(next.X, next.Y) {
				continue
			}
			visited.Set(next.X, next.Y, true)
			queue = append(queue, next)
		}
	}

	top := h - len(config.Layout)
	for y := top; y < h; y++ {
		for x := 0; x < w; x++ {
			if !grid.IsEmpty(x, y) {
				continue
			}
			if visited.Get(x, y) {
				open++
			} else {
				sealed++
			}
		}
	}
	return open, sealed
}

// collectFiles expands the command arguments, or globs the config directory when
// no files were given
func collectFiles(configDir string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	return filepath.Glob(filepath.Join(configDir, "*.json"))
}

// report prints one result and returns whether it was valid
func report(result ValidationResult) bool {
	fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

	if result.Valid {
		fmt.Println("✅ VALID")
		for _, info := range result.Errors {
			fmt.Println("  " + info)
		}
		return true
	}

	fmt.Println("❌ INVALID")
	for _, err := range result.Errors {
		if !strings.HasPrefix(err, "✓") {
			fmt.Println("  ❌ " + err)
		}
	}
	return false
}

func run(ctx context.Context, cmd *cli.Command) error {
	files, err := collectFiles(cmd.String("config-dir"), cmd.Args().Slice())
	if err != nil {
		return fmt.Errorf("finding config files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no config files found in %s", cmd.String("config-dir"))
	}

	allValid := true
	for _, file := range files {
		if !report(validateConfig(file)) {
			allValid = false
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		return cli.Exit("❌ Some configurations have errors", 1)
	}
	fmt.Println("✅ All configurations are valid!")
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate blockfall game configurations",
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
