package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// Validation constants
	MinWidth       = 4
	MaxWidth       = 64
	MinHeight      = 4
	MaxHeight      = 128
	MinTickMS      = 20
	MaxTickMS      = 10000
	MaxBulkActions = 50

	DefaultWidth  = 10
	DefaultHeight = 29
	DefaultTickMS = 170

	WebSocketBufferSize = 256
)

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	TickMS      int    `json:"tick_ms"`
	Seed        uint64 `json:"seed,omitempty"`

	// Layout prefills the bottom rows of the board. '.' is empty, '#' is garbage and a
	// shape name fills the cell with that shape's kind.
	Layout []string `json:"layout,omitempty"`

	// Shapes replaces the standard tetrominoes when set
	Shapes []ShapeDef `json:"shapes,omitempty"`

	Messages struct {
		Welcome   string `json:"welcome"`
		GameOver  string `json:"game_over"`
		LineClear string `json:"line_clear"`
	} `json:"messages"`
}

// ShapeDefs returns the configured catalogue, or the standard tetrominoes
func (c *GameConfig) ShapeDefs() []ShapeDef {
	if len(c.Shapes) > 0 {
		return c.Shapes
	}
	return StandardShapes()
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.Width < MinWidth || config.Width > MaxWidth {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinWidth, MaxWidth, config.Width)
	}
	if config.Height < MinHeight || config.Height > MaxHeight {
		return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinHeight, MaxHeight, config.Height)
	}
	if config.TickMS < MinTickMS || config.TickMS > MaxTickMS {
		return fmt.Errorf("config validation: tick_ms must be between %d and %d, got %d", MinTickMS, MaxTickMS, config.TickMS)
	}

	// Validate shapes
	defs := config.ShapeDefs()
	if len(defs) >= int(KindGarbage) {
		return fmt.Errorf("config validation: at most %d shapes are allowed, got %d", int(KindGarbage)-1, len(defs))
	}
	names := make(map[byte]bool, len(defs))
	for i, def := range defs {
		if len(def.Name) != 1 || def.Name == "." || def.Name == "#" {
			return fmt.Errorf("config validation: shape %d name must be a single character other than '.' and '#', got %q", i+1, def.Name)
		}
		if names[def.Name[0]] {
			return fmt.Errorf("config validation: duplicate shape name %q", def.Name)
		}
		names[def.Name[0]] = true

		shape, err := def.Shape(Kind(i + 1))
		if err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		if spawn := config.Width / 2; spawn+shape.Mask.Width() > config.Width {
			return fmt.Errorf("config validation: shape %q spawning at column %d does not fit a %d-wide board",
				def.Name, spawn, config.Width)
		}
		side := max(shape.Mask.Width(), shape.Mask.Height())
		if side > min(config.Width, config.Height) {
			return fmt.Errorf("config validation: shape %q does not fit a %dx%d board in every rotation",
				def.Name, config.Width, config.Height)
		}
	}

	// Validate layout
	if len(config.Layout) > config.Height-1 {
		return fmt.Errorf("config validation: layout may fill at most %d rows, got %d", config.Height-1, len(config.Layout))
	}
	for i, row := range config.Layout {
		if len(row) != config.Width {
			return fmt.Errorf("config validation: layout row %d must have %d characters to match width, got %d",
				i+1, config.Width, len(row))
		}
		full := true
		for j := 0; j < len(row); j++ {
			char := row[j]
			switch {
			case char == '.':
				full = false
			case char == '#', names[char]:
			default:
				return fmt.Errorf("config validation: invalid character '%c' at layout row %d, col %d", char, i+1, j+1)
			}
		}
		if full {
			return fmt.Errorf("config validation: layout row %d is already full", i+1)
		}
	}

	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.GameOver == "" {
		return fmt.Errorf("config validation: messages.game_over is required")
	}
	if config.Messages.LineClear != "" && !strings.Contains(config.Messages.LineClear, "%d") {
		return fmt.Errorf("config validation: messages.line_clear must contain %%d for the cleared row count")
	}

	return nil
}

// LayoutGrid builds the frozen grid described by the layout, aligned to the bottom row
func LayoutGrid(config *GameConfig) *Grid[Kind] {
	g := NewGrid[Kind](config.Width, config.Height)
	kinds := make(map[byte]Kind)
	for i, def := range config.ShapeDefs() {
		if def.Name != "" {
			kinds[def.Name[0]] = Kind(i + 1)
		}
	}
	top := config.Height - len(config.Layout)
	for i, row := range config.Layout {
		for x := 0; x < len(row) && x < config.Width; x++ {
			switch row[x] {
			case '.':
			case '#':
				g.Set(x, top+i, KindGarbage)
			default:
				if k, ok := kinds[row[x]]; ok {
					g.Set(x, top+i, k)
				}
			}
		}
	}
	return g
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns the classic 10x29 board with the standard tetrominoes
func DefaultConfig() *GameConfig {
	config := &GameConfig{
		Name:        "classic",
		Description: "Classic 10x29 board with the seven standard tetrominoes",
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		TickMS:      DefaultTickMS,
	}
	config.Messages.Welcome = "Welcome! Stack the falling pieces and clear full rows."
	config.Messages.GameOver = "The stack reached the top. Game over!"
	config.Messages.LineClear = "Cleared %d row(s)!"
	return config
}
