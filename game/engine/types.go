package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Action is a discrete input event
type Action string

const (
	ActionLeft        Action = "left"
	ActionRight       Action = "right"
	ActionDown        Action = "down"
	ActionRotateLeft  Action = "rotate_left"
	ActionRotateRight Action = "rotate_right"
	ActionHardDrop    Action = "hard_drop"
	ActionTick        Action = "tick"
)

// ErrUnknownAction is returned by ParseAction for input it does not recognise
var ErrUnknownAction = errors.New("unknown action")

var actionAliases = map[string]Action{
	"left":         ActionLeft,
	"right":        ActionRight,
	"down":         ActionDown,
	"soft_drop":    ActionDown,
	"rotate_left":  ActionRotateLeft,
	"ccw":          ActionRotateLeft,
	"z":            ActionRotateLeft,
	"rotate_right": ActionRotateRight,
	"cw":           ActionRotateRight,
	"x":            ActionRotateRight,
	"hard_drop":    ActionHardDrop,
	"drop":         ActionHardDrop,
	"up":           ActionHardDrop,
	"tick":         ActionTick,
}

// ParseAction normalises user input into an Action
func ParseAction(s string) (Action, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if a, ok := actionAliases[key]; ok {
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Actions lists the canonical actions
func Actions() []Action {
	return []Action{ActionLeft, ActionRight, ActionDown, ActionRotateLeft, ActionRotateRight, ActionHardDrop, ActionTick}
}

// ActionResult reports the outcome of one Apply call
type ActionResult struct {
	Action   Action     `json:"action"`
	Accepted bool       `json:"accepted"`
	Dropped  int        `json:"dropped,omitempty"`
	Tick     TickResult `json:"tick"`
}

// PieceView is the JSON view of the falling piece
type PieceView struct {
	Kind   string     `json:"kind"`
	Pos    Point      `json:"pos"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Pivot  [2]float64 `json:"pivot"`
	Cells  []Point    `json:"cells"`
}

// GameState is a snapshot of a game, safe to serialise and hand to other goroutines
type GameState struct {
	ConfigName string `json:"config_name"`
	Frame      Rect   `json:"frame"`
	State      State  `json:"state"`
	GameOver   bool   `json:"game_over"`
	Message    string `json:"message"`

	// Board renders the frozen grid with the falling piece drawn as '@'.
	// Frozen cells show their shape name, '#' for garbage, '.' for empty.
	Board  []string   `json:"board"`
	Active *PieceView `json:"active,omitempty"`
	Ghost  []Point    `json:"ghost,omitempty"`

	LinesCleared int `json:"lines_cleared"`
	PiecesLocked int `json:"pieces_locked"`
	Ticks        int `json:"ticks"`

	// TotalActions counts every action applied; CurrentActionsCount restarts on reset.
	// The entries themselves are paged through the history endpoint.
	TotalActions        int `json:"total_actions"`
	CurrentActionsCount int `json:"current_actions_count"`
}

// HistoryEntry represents a single action in the game history
type HistoryEntry struct {
	Action       Action `json:"action"`
	Accepted     bool   `json:"accepted"`
	FromPos      *Point `json:"from_pos,omitempty"`
	ToPos        *Point `json:"to_pos,omitempty"`
	State        State  `json:"state"`
	LinesCleared int    `json:"lines_cleared,omitempty"`
	Timestamp    int64  `json:"timestamp"`
	ActionNumber int    `json:"action_number"`
}
