package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createValidConfig() *GameConfig {
	config := DefaultConfig()
	config.Name = "test"
	config.Description = "Test configuration"
	config.Seed = 1
	return config
}

func TestValidateGameConfig_Valid(t *testing.T) {
	assert.NoError(t, ValidateGameConfig(createValidConfig()))
	assert.NoError(t, ValidateGameConfig(DefaultConfig()))
}

func TestValidateGameConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *GameConfig)
	}{
		{"missing name", func(c *GameConfig) { c.Name = "" }},
		{"missing description", func(c *GameConfig) { c.Description = "" }},
		{"too narrow", func(c *GameConfig) { c.Width = MinWidth - 1 }},
		{"too wide", func(c *GameConfig) { c.Width = MaxWidth + 1 }},
		{"too short", func(c *GameConfig) { c.Height = MinHeight - 1 }},
		{"too tall", func(c *GameConfig) { c.Height = MaxHeight + 1 }},
		{"tick too fast", func(c *GameConfig) { c.TickMS = MinTickMS - 1 }},
		{"tick too slow", func(c *GameConfig) { c.TickMS = MaxTickMS + 1 }},
		{"layout taller than board", func(c *GameConfig) {
			c.Width, c.Height = 4, 4
			c.Layout = []string{"#...", "#...", "#...", "#..."}
		}},
		{"layout row wrong width", func(c *GameConfig) { c.Layout = []string{"#.."} }},
		{"layout bad character", func(c *GameConfig) { c.Layout = []string{"#...x....."} }},
		{"layout full row", func(c *GameConfig) { c.Layout = []string{"##########"} }},
		{"shape name too long", func(c *GameConfig) {
			c.Shapes = []ShapeDef{{Name: "AB", Rows: []string{"#"}}}
		}},
		{"shape name reserved", func(c *GameConfig) {
			c.Shapes = []ShapeDef{{Name: "#", Rows: []string{"#"}}}
		}},
		{"duplicate shape", func(c *GameConfig) {
			c.Shapes = []ShapeDef{{Name: "A", Rows: []string{"#"}}, {Name: "A", Rows: []string{"##"}}}
		}},
		{"shape pivot parity", func(c *GameConfig) {
			c.Shapes = []ShapeDef{{Name: "A", Rows: []string{"##"}, Pivot: [2]float64{0.5, 1}}}
		}},
		{"shape too large", func(c *GameConfig) {
			c.Width = 4
			c.Layout = nil
			c.Shapes = []ShapeDef{{Name: "A", Rows: []string{"#####"}}}
		}},
		{"shape past the spawn column", func(c *GameConfig) {
			c.Width = 6
			c.Layout = nil
			c.Shapes = []ShapeDef{{Name: "A", Rows: []string{"#####"}, Pivot: [2]float64{2, 0}}}
		}},
		{"standard shapes on a narrow board", func(c *GameConfig) {
			c.Width = 6
			c.Layout = nil
		}},
		{"missing welcome", func(c *GameConfig) { c.Messages.Welcome = "" }},
		{"missing game over", func(c *GameConfig) { c.Messages.GameOver = "" }},
		{"line clear without count", func(c *GameConfig) { c.Messages.LineClear = "Nice!" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := createValidConfig()
			tt.modify(config)
			assert.Error(t, ValidateGameConfig(config))
		})
	}

	assert.Error(t, ValidateGameConfig(nil))
}

func TestValidateGameConfig_SpawnFit(t *testing.T) {
	config := createValidConfig()
	config.Width = 7
	config.Shapes = []ShapeDef{{Name: "A", Rows: []string{"####"}, Pivot: [2]float64{1, 0}}}
	assert.NoError(t, ValidateGameConfig(config), "column 3 + 4 cells fills the board exactly")

	config.Width = 6
	err := ValidateGameConfig(config)
	assert.ErrorContains(t, err, `shape "A" spawning at column 3 does not fit a 6-wide board`)
}

func TestLayoutGrid(t *testing.T) {
	config := createValidConfig()
	config.Width, config.Height = 4, 5
	config.Layout = []string{
		"T...",
		"#.IO",
	}

	g := LayoutGrid(config)
	assert.Equal(t, 4, g.Width())
	assert.Equal(t, 5, g.Height())
	assert.Equal(t, Kind(3), g.Get(0, 3))
	assert.Equal(t, KindGarbage, g.Get(0, 4))
	assert.Equal(t, Kind(1), g.Get(2, 4))
	assert.Equal(t, Kind(2), g.Get(3, 4))
	assert.Equal(t, 4, g.Count())
}

func TestLoadGameConfig(t *testing.T) {
	dir := t.TempDir()
	config := createValidConfig()
	config.Name = "wide"
	config.Width = 12
	data, err := json.Marshal(config)
	require.NoError(t, err)

	path := filepath.Join(dir, "wide.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := LoadGameConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "wide", loaded.Name)
	assert.Equal(t, 12, loaded.Width)

	t.Run("config dir override", func(t *testing.T) {
		t.Setenv("CONFIG_DIR", dir)
		loaded, err := LoadGameConfig("configs/wide.json")
		require.NoError(t, err)
		assert.Equal(t, "wide", loaded.Name)
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
		_, err := LoadGameConfig(bad)
		assert.Error(t, err)
	})

	t.Run("fails validation", func(t *testing.T) {
		invalid := filepath.Join(dir, "invalid.json")
		require.NoError(t, os.WriteFile(invalid, []byte(`{"name":"x"}`), 0644))
		_, err := LoadGameConfig(invalid)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadGameConfig(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})
}

func TestGameConfigCustomShapesJSON(t *testing.T) {
	raw := `{
		"name": "dominoes",
		"description": "Two-cell pieces only",
		"width": 6,
		"height": 8,
		"tick_ms": 200,
		"shapes": [
			{"name": "D", "rows": ["##"], "pivot": [0.5, 0.5]},
			{"name": "U", "rows": ["#"], "pivot": [0, 0]}
		],
		"layout": ["DD..U."],
		"messages": {"welcome": "hi", "game_over": "bye", "line_clear": "%d!"}
	}`
	var config GameConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &config))
	require.NoError(t, ValidateGameConfig(&config))

	defs := config.ShapeDefs()
	require.Len(t, defs, 2)
	assert.Equal(t, "D", defs[0].Name)

	g := LayoutGrid(&config)
	assert.Equal(t, Kind(1), g.Get(0, 7))
	assert.Equal(t, Kind(2), g.Get(4, 7))
}
