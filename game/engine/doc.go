// Package engine provides the core game logic for the falling-block puzzle.
//
// The engine package implements the game mechanics including:
//   - Grid storage with bounds-checked access and row compaction
//   - Pieces that translate and rotate a quarter turn about a fixed pivot
//   - Collision and placement checks against the frozen grid and the frame
//   - The board state machine: spawn, fall, lock, clear rows, game over
//   - Configuration loading and validation
//
// Core Types:
//
// Grid, Piece and Board are generic over the cell attribute; the zero value of
// the attribute type marks an empty cell. GameEngine drives a Board[Kind] from a
// GameConfig and produces GameState snapshots for the transports.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.Apply(engine.ActionTick) // spawns the first piece
//	gameEngine.Apply(engine.ActionRotateRight)
//	state := gameEngine.GetState()
//
// Game Rules:
//
// A piece appears one row above the top centre of the board and falls one row
// per tick. Moves and rotations are rejected when the piece would leave the
// board or cover a frozen cell. A piece that cannot fall any further locks into
// the frozen grid and every full row is removed. If a new piece cannot even
// enter the board, the game is over.
//
// Pivots are stored in half cells so rotation stays exact for shapes that turn
// around a cell corner, such as the O piece.
package engine
