// Command autoplay plays blockfall sessions over the REST API. For every piece it
// scores each reachable rotation and column, then sends the winning sequence as
// one bulk action. Run the server with -tick 0 so pieces only move when asked.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/blockfall/game/engine"
)

// Options bound a run
type Options struct {
	MaxGames    int
	MaxPieces   int
	TargetLines int
	Delay       time.Duration
	Verbose     bool
}

// GameSummary is the outcome of one game
type GameSummary struct {
	Pieces   int
	Lines    int
	GameOver bool
}

// entering reports whether the falling piece is still partly above the well,
// where it cannot turn or slide
func entering(state *engine.GameState) bool {
	if state.Active == nil {
		return false
	}
	for _, pt := range state.Active.Cells {
		if pt.Y < state.Frame.Y {
			return true
		}
	}
	return false
}

// playGame plays the attached session until game over or the piece limit
func playGame(ctx context.Context, client *Client, planner *Planner, state *engine.GameState, opts Options) (GameSummary, error) {
	var summary GameSummary

	for !state.GameOver && summary.Pieces < opts.MaxPieces {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if state.Active == nil || entering(state) {
			outcome, err := client.Act(ctx, engine.ActionTick)
			if err != nil {
				return summary, err
			}
			state = outcome.GameState
			continue
		}

		actions := []engine.Action{engine.ActionHardDrop}
		placement, err := planner.Plan(state)
		switch {
		case err == nil:
			actions = placement.Actions()
			if opts.Verbose {
				log.Printf("[PLAN] %s %s", state.Active.Kind, placement)
			}
		case errors.Is(err, ErrNoPlacement):
			log.Printf("[PLAN] %s has no safe placement, dropping in place", state.Active.Kind)
		default:
			return summary, err
		}

		result, err := client.BulkAct(ctx, actions)
		if err != nil {
			return summary, err
		}
		if result.Rejected > 0 && opts.Verbose {
			log.Printf("[PLAN] %d action(s) rejected, the board moved under the plan", result.Rejected)
		}
		state = result.GameState
		summary.Pieces += result.PiecesLocked

		if opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}
	}

	summary.Lines = state.LinesCleared
	summary.GameOver = state.GameOver
	return summary, nil
}

// autoplay plays up to MaxGames games, stopping early once a game reaches TargetLines
func autoplay(ctx context.Context, client *Client, planner *Planner, opts Options) ([]GameSummary, error) {
	var games []GameSummary
	for attempt := 1; attempt <= opts.MaxGames; attempt++ {
		state, err := client.Reset(ctx)
		if err != nil {
			return games, fmt.Errorf("reset: %w", err)
		}

		log.Printf("=== 🎮 Game %d/%d ===", attempt, opts.MaxGames)
		summary, err := playGame(ctx, client, planner, state, opts)
		games = append(games, summary)
		if err != nil {
			return games, err
		}

		status := "piece limit"
		if summary.GameOver {
			status = "game over"
		}
		log.Printf("Game %d: pieces=%d lines=%d (%s)", attempt, summary.Pieces, summary.Lines, status)

		if opts.TargetLines > 0 && summary.Lines >= opts.TargetLines {
			log.Printf("🎉 Reached %d lines in game %d", opts.TargetLines, attempt)
			return games, nil
		}
	}

	if opts.TargetLines > 0 {
		return games, fmt.Errorf("did not reach %d lines in %d game(s)", opts.TargetLines, len(games))
	}
	return games, nil
}

// attach resumes the given or saved session, creating a new one when neither works
func attach(ctx context.Context, client *Client, resume, sessionFile, configID string) error {
	if resume == "" && sessionFile != "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			resume = string(bytes.TrimSpace(data))
		}
	}

	if resume != "" {
		client.Attach(resume)
		session, err := client.GetSession(ctx)
		if err == nil {
			log.Printf("🔄 Resuming session %s (%s)", session.ID, session.GameState.Describe())
			return nil
		}
		log.Printf("⚠️  Failed to resume session %s (may be expired): %v", resume, err)
	}

	session, err := client.CreateSession(ctx, configID)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	log.Printf("✨ Session created: %s (%s)", session.ID, session.GameState.Describe())

	if sessionFile != "" {
		if err := os.WriteFile(sessionFile, []byte(session.ID), 0644); err != nil {
			log.Printf("Warning: failed to save session ID: %v", err)
		}
	}
	return nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Connecting to game server at %s", cmd.String("url"))
	client := NewClient(cmd.String("url"))

	if err := attach(ctx, client, cmd.String("continue"), cmd.String("session-file"), cmd.String("config")); err != nil {
		return err
	}

	_, err := autoplay(ctx, client, NewPlanner(), Options{
		MaxGames:    cmd.Int("max-games"),
		MaxPieces:   cmd.Int("max-pieces"),
		TargetLines: cmd.Int("target-lines"),
		Delay:       cmd.Duration("delay"),
		Verbose:     cmd.Bool("verbose"),
	})
	log.Printf("Session: %s", client.SessionID())
	return err
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "Play blockfall sessions automatically over the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "game server URL", Sources: cli.EnvVars("BLOCKFALL_URL")},
			&cli.StringFlag{Name: "config", Usage: "config ID for a new session"},
			&cli.StringFlag{Name: "continue", Usage: "resume an existing session by ID"},
			&cli.StringFlag{Name: "session-file", Value: ".session", Usage: "file remembering the session between runs, empty to disable"},
			&cli.IntFlag{Name: "max-games", Value: 10, Usage: "games to play"},
			&cli.IntFlag{Name: "max-pieces", Value: 500, Usage: "pieces per game"},
			&cli.IntFlag{Name: "target-lines", Usage: "stop once a game clears this many lines, fail if none does"},
			&cli.DurationFlag{Name: "delay", Usage: "pause between pieces"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log every placement"},
		},
		Action: run,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
