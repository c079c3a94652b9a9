package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wricardo/blockfall/game/engine"
)

// recordingSound remembers every cue in order
type recordingSound struct {
	cues []string
}

func (r *recordingSound) Lock()           { r.cues = append(r.cues, "lock") }
func (r *recordingSound) Clear(lines int) { r.cues = append(r.cues, strings.Repeat("clear", lines)) }
func (r *recordingSound) GameOver()       { r.cues = append(r.cues, "game over") }
func (r *recordingSound) Close()          {}

func unitEngine(t *testing.T) *engine.GameEngine {
	t.Helper()
	config := &engine.GameConfig{
		Name:        "unit",
		Description: "Single-cell pieces",
		Width:       4,
		Height:      4,
		TickMS:      100,
		Shapes:      []engine.ShapeDef{{Name: "X", Rows: []string{"#"}, Color: "#ff0000"}},
	}
	config.Messages.Welcome = "Welcome!"
	config.Messages.GameOver = "Game over!"
	config.Messages.LineClear = "Cleared %d!"
	e, err := engine.NewEngine(config)
	require.NoError(t, err)
	return e
}

func simScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(60, 24)
	t.Cleanup(s.Fini)
	return s
}

func key(ch rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, ch, tcell.ModNone)
}

// dropAt brings the next piece into row 0, steers it from the spawn column to
// column x and hard drops it
func dropAt(g *game, x int) {
	g.gravity()
	g.gravity()
	for c := 2; c > x; c-- {
		g.handle(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	}
	for c := 2; c < x; c++ {
		g.handle(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	}
	g.handle(key(' '))
}

func TestGame_HandleQuit(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want bool
	}{
		{"q quits", key('q'), false},
		{"escape quits", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false},
		{"ctrl-c quits", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), false},
		{"unmapped key is ignored", key('w'), true},
		{"move keeps running", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(simScreen(t), unitEngine(t), silent{})
			assert.Equal(t, tt.want, g.handle(tt.ev))
		})
	}
}

func TestGame_Cues(t *testing.T) {
	sound := &recordingSound{}
	g := newGame(simScreen(t), unitEngine(t), sound)

	for _, x := range []int{0, 1, 2} {
		dropAt(g, x)
	}
	assert.Equal(t, []string{"lock", "lock", "lock"}, sound.cues)

	dropAt(g, 3)
	assert.Equal(t, "clear", sound.cues[3])
	assert.Equal(t, 1, g.engine.LinesCleared())
	assert.Equal(t, "Cleared 1!", g.engine.GetState().Message)
}

func TestGame_GameOver(t *testing.T) {
	sound := &recordingSound{}
	g := newGame(simScreen(t), unitEngine(t), sound)

	for range 4 {
		dropAt(g, 2)
	}
	g.gravity() // spawn above the full column
	g.gravity() // cannot enter
	require.True(t, g.engine.IsGameOver())
	assert.Equal(t, "game over", sound.cues[len(sound.cues)-1])

	ticks := g.engine.GetState().Ticks
	g.gravity()
	assert.Equal(t, ticks, g.engine.GetState().Ticks, "gravity stops once the game is over")

	g.handle(key('p'))
	assert.False(t, g.paused, "a finished game cannot be paused")

	g.handle(key('r'))
	assert.False(t, g.engine.IsGameOver())
	assert.Equal(t, engine.StateEmpty, g.engine.BoardState())
}

func TestGame_Pause(t *testing.T) {
	g := newGame(simScreen(t), unitEngine(t), silent{})
	g.gravity()
	g.gravity()

	g.handle(key('p'))
	require.True(t, g.paused)

	before := g.engine.GetState()
	g.gravity()
	g.handle(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	after := g.engine.GetState()
	assert.Equal(t, before.Ticks, after.Ticks)
	assert.Equal(t, before.Active.Pos, after.Active.Pos)

	g.handle(key('p'))
	assert.False(t, g.paused)
	g.handle(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	assert.Equal(t, 1, g.engine.GetState().Active.Pos.X)
}

func TestGame_Run(t *testing.T) {
	t.Run("quits on q", func(t *testing.T) {
		s := simScreen(t)
		g := newGame(s, unitEngine(t), silent{})
		s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

		done := make(chan error, 1)
		go func() { done <- g.run(context.Background(), time.Hour) }()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("run did not return after q")
		}
	})

	t.Run("gravity ticks", func(t *testing.T) {
		g := newGame(simScreen(t), unitEngine(t), silent{})
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		err := g.run(ctx, 5*time.Millisecond)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Greater(t, g.engine.GetState().Ticks, 0)
	})
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	data := `{
		"name": "tiny",
		"description": "Tiny board",
		"width": 8,
		"height": 8,
		"tick_ms": 120,
		"seed": 3,
		"messages": {"welcome": "Hi", "game_over": "Bye"}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.json"), []byte(data), 0644))

	cfg, err := loadConfig(dir, "tiny", 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), cfg.Seed)
	assert.Equal(t, 120*time.Millisecond, tickInterval(cfg, 0))
	assert.Equal(t, 40*time.Millisecond, tickInterval(cfg, 40*time.Millisecond))

	cfg, err = loadConfig(dir, "tiny", 99)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), cfg.Seed)

	again, err := loadConfig(dir, "tiny", 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), again.Seed, "seed override must not leak into the cached config")

	_, err = loadConfig(dir, "missing", 0)
	assert.ErrorContains(t, err, `loading config "missing"`)

	_, err = loadConfig(filepath.Join(dir, "nope"), "tiny", 0)
	assert.ErrorContains(t, err, "opening config directory")
}

func TestCommand_MissingConfig(t *testing.T) {
	err := newCommand().Run(context.Background(), []string{"blockfall", "--config-dir", t.TempDir(), "--config", "nope", "--mute"})
	assert.Error(t, err)
}

func TestRepositoryConfigsPlay(t *testing.T) {
	files, _ := filepath.Glob(filepath.Join("..", "..", "configs", "*.json"))
	if len(files) == 0 {
		t.Skip("Skipping test - configs directory not found")
	}
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".json")
		t.Run(name, func(t *testing.T) {
			cfg, err := loadConfig(filepath.Dir(file), name, 1)
			require.NoError(t, err)
			e, err := engine.NewEngine(cfg)
			require.NoError(t, err)

			g := newGame(simScreen(t), e, silent{})
			g.gravity()
			g.gravity()
			assert.Equal(t, engine.StateFalling, e.BoardState())
			g.draw()
		})
	}
}
