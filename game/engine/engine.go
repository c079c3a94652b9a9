package engine

import (
	"fmt"
	"strings"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	IsGameOver() bool
	BoardState() State

	// Input
	Apply(action Action) ActionResult
	BulkApply(actions []Action) []ActionResult

	// Configuration
	GetConfig() *GameConfig

	// History
	GetHistory() []HistoryEntry
	GetLastAction() *HistoryEntry
}

// GameEngine drives a Board[Kind] from a GameConfig and keeps the bookkeeping the
// hosted game reports: counters, the last message, and the action history
type GameEngine struct {
	config *GameConfig
	board  *Board[Kind]
	source *RandomSource
	names  []byte

	message      string
	linesCleared int
	piecesLocked int
	ticks        int

	// history keeps the last MaxHistory entries; total and current count every action
	history []HistoryEntry
	total   int
	current int
}

// MaxHistory bounds the action history an engine retains
const MaxHistory = 1000

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	defs := config.ShapeDefs()
	source, err := NewRandomSource(defs, config.Seed)
	if err != nil {
		return nil, err
	}
	board, err := NewBoard[Kind](Rect{Width: config.Width, Height: config.Height}, source)
	if err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:  config,
		board:   board,
		source:  source,
		names:   make([]byte, len(defs)),
		history: []HistoryEntry{},
	}
	for i, def := range defs {
		e.names[i] = def.Name[0]
	}
	e.start()
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the classic configuration
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("engine: default config is invalid: %v", err))
	}
	return e
}

func (e *GameEngine) start() {
	if e.config.Seed != 0 {
		e.source.Reseed(e.config.Seed)
	}
	e.board.Reset()
	if len(e.config.Layout) > 0 {
		if err := e.board.Preload(LayoutGrid(e.config)); err != nil {
			panic(fmt.Sprintf("engine: preload layout: %v", err))
		}
	}
	e.message = e.config.Messages.Welcome
	e.linesCleared = 0
	e.piecesLocked = 0
	e.ticks = 0
}

// Board exposes the underlying board for renderers
func (e *GameEngine) Board() *Board[Kind] { return e.board }

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig { return e.config }

// BoardState returns the board's state machine position
func (e *GameEngine) BoardState() State { return e.board.State() }

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool { return e.board.State() == StateGameOver }

// LinesCleared returns the rows cleared since the last reset
func (e *GameEngine) LinesCleared() int { return e.linesCleared }

// KindName returns the display character of a cell kind
func (e *GameEngine) KindName(k Kind) byte {
	switch {
	case k == KindEmpty:
		return '.'
	case k == KindGarbage:
		return '#'
	case int(k) <= len(e.names):
		return e.names[k-1]
	}
	return '?'
}

// ShapeDef returns the catalogue entry for a kind
func (e *GameEngine) ShapeDef(k Kind) (ShapeDef, bool) {
	defs := e.config.ShapeDefs()
	if k == KindEmpty || int(k) > len(defs) {
		return ShapeDef{}, false
	}
	return defs[k-1], true
}

// Apply runs one input action against the board and records it in the history.
// A hard drop locks the piece immediately by following the drop with a tick.
func (e *GameEngine) Apply(action Action) ActionResult {
	result := ActionResult{Action: action}
	from := e.activePos()

	if !e.IsGameOver() {
		switch action {
		case ActionLeft:
			result.Accepted = e.board.TryMove(-1, 0)
		case ActionRight:
			result.Accepted = e.board.TryMove(1, 0)
		case ActionDown:
			result.Accepted = e.board.TryMove(0, 1)
		case ActionRotateLeft:
			result.Accepted = e.board.TryRotateLeft()
		case ActionRotateRight:
			result.Accepted = e.board.TryRotateRight()
		case ActionHardDrop:
			if e.board.State() == StateFalling {
				result.Dropped = e.board.HardDrop()
				result.Tick = e.tick()
				result.Accepted = true
			}
		case ActionTick:
			result.Tick = e.tick()
			result.Accepted = true
		}
	}

	e.record(result, from)
	return result
}

// BulkApply executes multiple actions in sequence, stopping once the game is over
func (e *GameEngine) BulkApply(actions []Action) []ActionResult {
	results := make([]ActionResult, 0, len(actions))

	for _, action := range actions {
		if e.IsGameOver() {
			break
		}
		results = append(results, e.Apply(action))
	}

	return results
}

func (e *GameEngine) tick() TickResult {
	res := e.board.Tick()
	e.ticks++

	switch {
	case res.GameOver:
		e.message = e.config.Messages.GameOver
	case res.Locked:
		e.piecesLocked++
		if n := len(res.ClearedRows); n > 0 {
			e.linesCleared += n
			if e.config.Messages.LineClear != "" {
				e.message = fmt.Sprintf(e.config.Messages.LineClear, n)
			}
		}
	}
	return res
}

func (e *GameEngine) activePos() *Point {
	if p := e.board.Active(); p != nil {
		pos := p.Pos
		return &pos
	}
	return nil
}

func (e *GameEngine) record(result ActionResult, from *Point) {
	entry := HistoryEntry{
		Action:       result.Action,
		Accepted:     result.Accepted,
		FromPos:      from,
		ToPos:        e.activePos(),
		State:        e.board.State(),
		LinesCleared: len(result.Tick.ClearedRows),
		Timestamp:    time.Now().Unix(),
		ActionNumber: e.total + 1,
	}
	if len(e.history) == MaxHistory {
		e.history = append(e.history[:0], e.history[1:]...)
	}
	e.history = append(e.history, entry)
	e.total++
	e.current++
}

// Reset restarts the game from its config. A seeded config deals the same shapes again.
func (e *GameEngine) Reset() *GameState {
	// Cumulative history survives; only the current segment restarts
	e.start()
	e.current = 0
	return e.GetState()
}

// GetHistory returns the retained action history, oldest first
func (e *GameEngine) GetHistory() []HistoryEntry {
	return e.history
}

// GetLastAction returns the last action applied, or nil if none
func (e *GameEngine) GetLastAction() *HistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// GetState builds a snapshot of the game
func (e *GameEngine) GetState() *GameState {
	frame := e.board.Frame()
	state := &GameState{
		ConfigName:          e.config.Name,
		Frame:               frame,
		State:               e.board.State(),
		GameOver:            e.IsGameOver(),
		Message:             e.message,
		Board:               e.renderRows(),
		LinesCleared:        e.linesCleared,
		PiecesLocked:        e.piecesLocked,
		Ticks:               e.ticks,
		TotalActions:        e.total,
		CurrentActionsCount: e.current,
	}

	if p := e.board.Active(); p != nil {
		view := &PieceView{Pos: p.Pos, Width: p.Width(), Height: p.Height()}
		view.Pivot[0], view.Pivot[1] = p.Pivot.Cells()
		for pt, k := range p.Occupied() {
			view.Cells = append(view.Cells, pt)
			view.Kind = string(e.KindName(k))
		}
		state.Active = view
	}
	if g := e.board.Ghost(); g != nil {
		for pt := range g.Occupied() {
			state.Ghost = append(state.Ghost, pt)
		}
	}
	return state
}

func (e *GameEngine) renderRows() []string {
	frozen := e.board.Frozen()
	rows := make([][]byte, frozen.Height())
	for y := range rows {
		rows[y] = make([]byte, frozen.Width())
		for x := range rows[y] {
			rows[y][x] = e.KindName(frozen.Get(x, y))
		}
	}
	if p := e.board.Active(); p != nil {
		frame := e.board.Frame()
		for pt := range p.Occupied() {
			local := pt.Sub(Point{X: frame.X, Y: frame.Y})
			if local.Y >= 0 && local.Y < len(rows) && local.X >= 0 && local.X < frozen.Width() {
				rows[local.Y][local.X] = '@'
			}
		}
	}

	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = string(row)
	}
	return out
}

// Describe returns a short human summary of the snapshot
func (s *GameState) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s board %dx%d, state %s", s.ConfigName, s.Frame.Width, s.Frame.Height, s.State)
	if s.Active != nil {
		fmt.Fprintf(&b, ", piece %s at (%d, %d)", s.Active.Kind, s.Active.Pos.X, s.Active.Pos.Y)
	}
	fmt.Fprintf(&b, ", %d lines cleared", s.LinesCleared)
	return b.String()
}
