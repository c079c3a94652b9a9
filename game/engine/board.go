package engine

import (
	"errors"
	"fmt"
	"iter"
)

// State is the board's position in the spawn/fall/lock cycle
type State uint8

const (
	// StateEmpty means no piece is falling; the next tick spawns one
	StateEmpty State = iota
	// StateFalling means the active piece accepts moves and rotations
	StateFalling
	// StateGameOver is terminal: a spawned piece could not enter the frame
	StateGameOver
)

var stateNames = map[State]string{
	StateEmpty:    "empty",
	StateFalling:  "falling",
	StateGameOver: "game_over",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// MarshalText encodes the state by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown board state %q", text)
}

// Shape is what a ShapeSource hands the board on spawn: a mask whose occupied cells
// carry the shape's attribute, and the pivot relative to the mask's top-left cell
type Shape[T comparable] struct {
	Name  string
	Mask  *Grid[T]
	Pivot Pivot
}

// ShapeSource supplies the next shape to spawn
type ShapeSource[T comparable] interface {
	Next() Shape[T]
}

// ShapeSourceFunc adapts a function to ShapeSource
type ShapeSourceFunc[T comparable] func() Shape[T]

// Next calls f
func (f ShapeSourceFunc[T]) Next() Shape[T] { return f() }

// Renderer consumes one frame: the playfield rectangle and every occupied cell,
// frozen and falling, in absolute coordinates
type Renderer[T comparable] interface {
	Render(frame Rect, cells iter.Seq2[Point, T])
}

// TickResult describes what a single gravity tick did
type TickResult struct {
	Spawned     bool  `json:"spawned,omitempty"`
	Moved       bool  `json:"moved,omitempty"`
	Locked      bool  `json:"locked,omitempty"`
	ClearedRows []int `json:"cleared_rows,omitempty"`
	GameOver    bool  `json:"game_over,omitempty"`
}

// Board owns the frozen grid and the falling piece. All mutation goes through its
// methods; it is not safe for concurrent use.
type Board[T comparable] struct {
	frame  Rect
	frozen *Grid[T]
	active *Piece[T]
	state  State
	shapes ShapeSource[T]
}

// NewBoard creates an empty board over frame
func NewBoard[T comparable](frame Rect, shapes ShapeSource[T]) (*Board[T], error) {
	if frame.Empty() {
		return nil, fmt.Errorf("board frame must have positive size, got %dx%d", frame.Width, frame.Height)
	}
	if shapes == nil {
		return nil, errors.New("board needs a shape source")
	}
	return &Board[T]{
		frame:  frame,
		frozen: NewGrid[T](frame.Width, frame.Height),
		shapes: shapes,
	}, nil
}

// Preload copies g into the frozen grid. Only an empty board without a falling piece
// can be preloaded.
func (b *Board[T]) Preload(g *Grid[T]) error {
	if b.state != StateEmpty || b.active != nil {
		return fmt.Errorf("cannot preload a board in state %s", b.state)
	}
	if g.Width() != b.frame.Width || g.Height() != b.frame.Height {
		return fmt.Errorf("preload grid is %dx%d, board is %dx%d",
			g.Width(), g.Height(), b.frame.Width, b.frame.Height)
	}
	b.frozen = g.Clone()
	return nil
}

// Reset clears the frozen grid and the active piece
func (b *Board[T]) Reset() {
	b.frozen.Clear()
	b.active = nil
	b.state = StateEmpty
}

// Frame returns the playfield rectangle
func (b *Board[T]) Frame() Rect { return b.frame }

// State returns the current board state
func (b *Board[T]) State() State { return b.state }

// Frozen returns a copy of the frozen grid in frame-local coordinates
func (b *Board[T]) Frozen() *Grid[T] { return b.frozen.Clone() }

// Active returns a copy of the falling piece, or nil
func (b *Board[T]) Active() *Piece[T] {
	if b.active == nil {
		return nil
	}
	return b.active.Clone()
}

func (b *Board[T]) frozenLayer() Layer[T] {
	return Layer[T]{Origin: Point{X: b.frame.X, Y: b.frame.Y}, Grid: b.frozen}
}

// SpawnRow is the row a new piece starts on, one above the frame
func (b *Board[T]) SpawnRow() int { return b.frame.Y - 1 }

// Spawn places the next shape at the top centre of the frame. It only acts on an empty board.
func (b *Board[T]) Spawn() bool {
	if b.state != StateEmpty {
		return false
	}
	shape := b.shapes.Next()
	piece, err := NewPiece(shape.Mask, shape.Pivot)
	if err != nil {
		panic(fmt.Sprintf("engine: invalid shape %q: %v", shape.Name, err))
	}
	b.active = piece.At(b.frame.X+b.frame.Width/2, b.SpawnRow())
	b.state = StateFalling
	return true
}

// try applies op to a copy of the active piece and commits it when the copy fits
func (b *Board[T]) try(op func(*Piece[T])) bool {
	if b.state != StateFalling || b.active == nil {
		return false
	}
	candidate := b.active.Clone()
	op(candidate)
	if !ValidPlacement(candidate, b.frozenLayer(), b.frame) {
		return false
	}
	b.active = candidate
	return true
}

// TryMove translates the active piece by (dx, dy) if the result is a valid placement
func (b *Board[T]) TryMove(dx, dy int) bool {
	return b.try(func(p *Piece[T]) { p.Translate(dx, dy) })
}

// TryRotateLeft rotates the active piece counter-clockwise if the result is a valid placement
func (b *Board[T]) TryRotateLeft() bool {
	return b.try(func(p *Piece[T]) { p.RotateLeft() })
}

// TryRotateRight rotates the active piece clockwise if the result is a valid placement
func (b *Board[T]) TryRotateRight() bool {
	return b.try(func(p *Piece[T]) { p.RotateRight() })
}

// HardDrop moves the active piece down until it is rejected and returns the rows travelled.
// The piece locks on the next tick.
func (b *Board[T]) HardDrop() int {
	rows := 0
	for b.TryMove(0, 1) {
		rows++
	}
	return rows
}

// Tick advances gravity by one step: spawn on an empty board, otherwise move the piece
// down and lock it when it cannot move
func (b *Board[T]) Tick() TickResult {
	switch b.state {
	case StateGameOver:
		return TickResult{GameOver: true}
	case StateEmpty:
		return TickResult{Spawned: b.Spawn()}
	}

	if b.TryMove(0, 1) {
		return TickResult{Moved: true}
	}

	piece := b.active
	b.active = nil
	if piece.Pos.Y == b.SpawnRow() {
		b.state = StateGameOver
		return TickResult{GameOver: true}
	}

	b.freeze(piece)
	b.state = StateEmpty
	return TickResult{Locked: true, ClearedRows: b.ClearLines()}
}

// freeze copies the piece's occupied cells into the frozen grid
func (b *Board[T]) freeze(p *Piece[T]) {
	origin := Point{X: b.frame.X, Y: b.frame.Y}
	for pt, v := range p.Occupied() {
		local := pt.Sub(origin)
		b.frozen.Set(local.X, local.Y, v)
	}
}

// ClearLines removes every full row, scanning from the bottom, and returns the
// frame-local indices the cleared rows had before clearing
func (b *Board[T]) ClearLines() []int {
	var cleared []int
	y := b.frozen.Height() - 1
	for y >= 0 {
		if !b.frozen.RowFull(y) {
			y--
			continue
		}
		// rows below y were never shifted, so every earlier clear moved this row down once
		cleared = append(cleared, y-len(cleared))
		b.frozen.ShiftDown(y)
	}
	return cleared
}

// Ghost returns a copy of the active piece dropped as far as it can go, or nil
func (b *Board[T]) Ghost() *Piece[T] {
	if b.active == nil {
		return nil
	}
	ghost := b.active.Clone()
	layer := b.frozenLayer()
	for {
		next := ghost.Clone()
		next.Translate(0, 1)
		if !ValidPlacement(next, layer, b.frame) {
			return ghost
		}
		ghost = next
	}
}

// Cells iterates over every occupied cell in absolute coordinates: the frozen grid
// first, then the falling piece
func (b *Board[T]) Cells() iter.Seq2[Point, T] {
	return func(yield func(Point, T) bool) {
		origin := Point{X: b.frame.X, Y: b.frame.Y}
		for pt, v := range b.frozen.Occupied() {
			if !yield(pt.Add(origin), v) {
				return
			}
		}
		if b.active == nil {
			return
		}
		for pt, v := range b.active.Occupied() {
			if !yield(pt, v) {
				return
			}
		}
	}
}

// Draw hands the current frame to r
func (b *Board[T]) Draw(r Renderer[T]) {
	r.Render(b.frame, b.Cells())
}
