// Command blockfall plays a configuration in the terminal. Gravity runs at the
// config's tick rate; the keyboard drives the falling piece.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/blockfall/game/config"
	"github.com/wricardo/blockfall/game/engine"
)

// game is one terminal session: the screen, the engine it shows, and the sounds it plays
type game struct {
	screen   tcell.Screen
	engine   *engine.GameEngine
	renderer *screenRenderer
	sound    soundboard
	paused   bool
}

func newGame(screen tcell.Screen, e *engine.GameEngine, sound soundboard) *game {
	return &game{
		screen:   screen,
		engine:   e,
		renderer: newScreenRenderer(screen, e),
		sound:    sound,
	}
}

// step applies one action and plays whatever the resulting tick calls for
func (g *game) step(action engine.Action) engine.ActionResult {
	result := g.engine.Apply(action)
	cue(g.sound, result.Tick)
	return result
}

// gravity advances the board by one tick unless the game is paused or over
func (g *game) gravity() {
	if g.paused || g.engine.IsGameOver() {
		return
	}
	g.step(engine.ActionTick)
}

// handle processes one terminal event and reports whether the game keeps running
func (g *game) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		cmd, ok := mapKey(ev)
		if !ok {
			return true
		}
		switch {
		case cmd.Quit:
			return false
		case cmd.Reset:
			g.engine.Reset()
			g.paused = false
		case cmd.Pause:
			if !g.engine.IsGameOver() {
				g.paused = !g.paused
			}
		case cmd.Action != "":
			if !g.paused {
				g.step(cmd.Action)
			}
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return true
}

func (g *game) draw() {
	g.screen.Clear()

	board := g.engine.Board()
	g.renderer.ghost = g.renderer.ghost[:0]
	if ghost := board.Ghost(); ghost != nil {
		for pt := range ghost.Occupied() {
			g.renderer.ghost = append(g.renderer.ghost, pt)
		}
	}
	board.Draw(g.renderer)
	g.renderer.sidebar(g.engine.GetState(), g.paused)

	g.screen.Show()
}

// run is the main loop: key events and gravity ticks, redrawing after each
func (g *game) run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	g.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventChan:
			if !g.handle(ev) {
				return nil
			}
		case <-ticker.C:
			g.gravity()
		}
		g.draw()
	}
}

// loadConfig reads the named config and applies the command line overrides
func loadConfig(dir, name string, seed int) (*engine.GameConfig, error) {
	manager, err := config.NewManager(dir)
	if err != nil {
		return nil, fmt.Errorf("opening config directory: %w", err)
	}
	loaded, err := manager.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config %q: %w", name, err)
	}
	cfg := *loaded
	if seed > 0 {
		cfg.Seed = uint64(seed)
	}
	return &cfg, nil
}

// tickInterval is the override when set, otherwise the config's own rate
func tickInterval(cfg *engine.GameConfig, override time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	return time.Duration(cfg.TickMS) * time.Millisecond
}

func play(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config-dir"), cmd.String("config"), cmd.Int("seed"))
	if err != nil {
		return err
	}
	e, err := engine.NewEngine(cfg)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	var sound soundboard = silent{}
	if !cmd.Bool("mute") {
		cues, err := newSpeakerCues()
		if err != nil {
			// Non-fatal, the game runs without sound
			log.Printf("[AUDIO] initialization failed: %v", err)
		} else {
			sound = cues
		}
	}
	defer sound.Close()

	return newGame(screen, e, sound).run(ctx, tickInterval(cfg, cmd.Duration("tick")))
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "blockfall",
		Usage: "Play a blockfall configuration in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "config",
				Value:   "classic",
				Usage:   "configuration to play",
				Sources: cli.EnvVars("BLOCKFALL_CONFIG"),
			},
			&cli.DurationFlag{
				Name:  "tick",
				Usage: "gravity interval, overrides the config's tick_ms",
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "shape sequence seed, overrides the config's seed",
			},
			&cli.BoolFlag{
				Name:  "mute",
				Usage: "disable sound",
			},
		},
		Action: play,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
