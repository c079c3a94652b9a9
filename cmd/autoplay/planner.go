package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/wricardo/blockfall/game/engine"
)

// Weights score a board after a placement. Lines is a reward, the rest are penalties.
type Weights struct {
	Height    float64
	Lines     float64
	Holes     float64
	Bumpiness float64
}

// DefaultWeights are the classic four-feature weights for ten-wide wells
var DefaultWeights = Weights{Height: -0.51, Lines: 0.76, Holes: -0.36, Bumpiness: -0.18}

// ErrNoPiece is returned when the snapshot has no falling piece to plan for
var ErrNoPiece = errors.New("no falling piece")

// ErrNoPlacement is returned when every reachable placement ends the game
var ErrNoPlacement = errors.New("no placement keeps the piece on the board")

// Placement is one way to play the falling piece: turn it clockwise, slide it, drop it
type Placement struct {
	Rotations int
	Shift     int
	Lines     int
	Score     float64
}

// Actions is the input sequence that produces the placement
func (p Placement) Actions() []engine.Action {
	actions := make([]engine.Action, 0, p.Rotations+abs(p.Shift)+1)
	for range p.Rotations {
		actions = append(actions, engine.ActionRotateRight)
	}
	step := engine.ActionRight
	if p.Shift < 0 {
		step = engine.ActionLeft
	}
	for range abs(p.Shift) {
		actions = append(actions, step)
	}
	return append(actions, engine.ActionHardDrop)
}

// Planner searches every rotation and column for the best scoring drop
type Planner struct {
	Weights Weights
}

func NewPlanner() *Planner {
	return &Planner{Weights: DefaultWeights}
}

// snapshot rebuilds the frozen grid and the falling piece from a game state
func snapshot(state *engine.GameState) (*engine.Grid[engine.Kind], *engine.Piece[engine.Kind], error) {
	if state.Active == nil {
		return nil, nil, ErrNoPiece
	}

	frame := state.Frame
	frozen := engine.NewGrid[engine.Kind](frame.Width, frame.Height)
	for y, row := range state.Board {
		for x := 0; x < len(row) && x < frame.Width; x++ {
			if row[x] != '.' && row[x] != '@' {
				frozen.Set(x, y, 1)
			}
		}
	}

	view := state.Active
	mask := engine.NewGrid[engine.Kind](view.Width, view.Height)
	for _, pt := range view.Cells {
		rel := pt.Sub(view.Pos)
		mask.Set(rel.X, rel.Y, 1)
	}
	offset, err := engine.PivotAt(view.Pivot[0]-float64(view.Pos.X), view.Pivot[1]-float64(view.Pos.Y))
	if err != nil {
		return nil, nil, err
	}
	piece, err := engine.NewPiece(mask, offset)
	if err != nil {
		return nil, nil, err
	}
	return frozen, piece.At(view.Pos.X, view.Pos.Y), nil
}

// Plan picks the best placement for the falling piece. The search mirrors what the
// server will do with the action sequence: rejected turns or slides leave the piece
// where it was, so only reachable placements are scored.
func (pl *Planner) Plan(state *engine.GameState) (Placement, error) {
	frozen, start, err := snapshot(state)
	if err != nil {
		return Placement{}, err
	}
	frame := state.Frame
	layer := engine.Layer[engine.Kind]{Origin: engine.Point{X: frame.X, Y: frame.Y}, Grid: frozen}

	best := Placement{Score: math.Inf(-1)}
	found := false

	turned := start.Clone()
	for rotations := range 4 {
		if rotations > 0 {
			next := turned.Clone()
			next.RotateRight()
			if !engine.ValidPlacement(next, layer, frame) {
				break
			}
			turned = next
		}

		for _, dir := range []int{-1, 1} {
			piece := turned.Clone()
			shift := 0
			for {
				// the starting column is scored on the left pass only
				if dir == -1 || shift != 0 {
					if p, ok := pl.score(piece, layer, frame); ok && p.Score > best.Score {
						p.Rotations, p.Shift = rotations, shift
						best, found = p, true
					}
				}
				next := piece.Clone()
				next.Translate(dir, 0)
				if !engine.ValidPlacement(next, layer, frame) {
					break
				}
				piece = next
				shift += dir
			}
		}
	}

	if !found {
		return Placement{}, ErrNoPlacement
	}
	return best, nil
}

// score drops the piece, clears full rows and evaluates the resulting well
func (pl *Planner) score(piece *engine.Piece[engine.Kind], layer engine.Layer[engine.Kind], frame engine.Rect) (Placement, bool) {
	dropped := piece.Clone()
	for {
		next := dropped.Clone()
		next.Translate(0, 1)
		if !engine.ValidPlacement(next, layer, frame) {
			break
		}
		dropped = next
	}

	grid := layer.Grid.Clone()
	for pt := range dropped.Occupied() {
		local := pt.Sub(layer.Origin)
		if local.Y < 0 {
			return Placement{}, false
		}
		grid.Set(local.X, local.Y, 1)
	}

	lines := 0
	for y := 0; y < grid.Height(); y++ {
		if grid.RowFull(y) {
			grid.ShiftDown(y)
			lines++
		}
	}

	f := measure(grid)
	w := pl.Weights
	return Placement{
		Lines: lines,
		Score: w.Height*float64(f.height) + w.Lines*float64(lines) + w.Holes*float64(f.holes) + w.Bumpiness*float64(f.bumpiness),
	}, true
}

type features struct {
	height    int
	holes     int
	bumpiness int
}

// measure computes aggregate column height, covered empty cells, and the summed
// height difference of neighbouring columns
func measure(grid *engine.Grid[engine.Kind]) features {
	var f features
	w, h := grid.Width(), grid.Height()
	heights := make([]int, w)
	for x := 0; x < w; x++ {
		covered := false
		for y := 0; y < h; y++ {
			if !grid.IsEmpty(x, y) {
				if !covered {
					heights[x] = h - y
					covered = true
				}
			} else if covered {
				f.holes++
			}
		}
		f.height += heights[x]
	}
	for x := 1; x < w; x++ {
		f.bumpiness += abs(heights[x] - heights[x-1])
	}
	return f
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (p Placement) String() string {
	return fmt.Sprintf("rotate %d, shift %+d, %d line(s), score %.2f", p.Rotations, p.Shift, p.Lines, p.Score)
}
