package service

import (
	"time"

	"github.com/wricardo/blockfall/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ActionOutcome contains the result of a single action
type ActionOutcome struct {
	Action    engine.Action       `json:"action"`
	Accepted  bool                `json:"accepted"`
	Result    engine.ActionResult `json:"result"`
	GameState *engine.GameState   `json:"game_state"`
	Message   string              `json:"message"`
	Events    []GameEvent         `json:"events,omitempty"`
}

// BulkOptions controls a bulk action run
type BulkOptions struct {
	Reset        bool `json:"reset"`
	StopOnReject bool `json:"stop_on_reject"`
}

// BulkActionResult contains the result of multiple actions
type BulkActionResult struct {
	// Summary
	ActionsExecuted  int               `json:"actions_executed"`
	RequestedActions int               `json:"requested_actions"`
	Accepted         int               `json:"accepted"`
	Rejected         int               `json:"rejected"`
	Success          bool              `json:"success"` // every executed action was accepted
	GameState        *engine.GameState `json:"game_state"`
	Events           []GameEvent       `json:"events"`
	StoppedReason    string            `json:"stopped_reason,omitempty"`    // Human-readable reason
	StopReasonCode   string            `json:"stop_reason_code,omitempty"`  // Machine-friendly code: rejected|game_over
	StoppedOnAction  int               `json:"stopped_on_action,omitempty"` // 1-based index of the action that caused stop
	Truncated        bool              `json:"truncated,omitempty"`
	Limit            int               `json:"limit,omitempty"`

	// Per-action trace (only for this call)
	Results []engine.ActionResult `json:"results,omitempty"`

	// Deltas over this call
	LinesCleared int `json:"lines_cleared"`
	PiecesLocked int `json:"pieces_locked"`

	GameOver bool   `json:"game_over"`
	Message  string `json:"message,omitempty"`
}

// TickUpdate is produced for every session advanced by TickDue
type TickUpdate struct {
	SessionID string              `json:"session_id"`
	Result    engine.ActionResult `json:"result"`
	Events    []GameEvent         `json:"events,omitempty"`
	GameState *engine.GameState   `json:"game_state"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string        `json:"type"` // "spawn", "move", "rotate", "rejected", "lock", "line_clear", "game_over", "reset"
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Position  *engine.Point `json:"position,omitempty"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated action history
type HistoryResponse struct {
	Actions      []engine.HistoryEntry `json:"actions"`
	TotalActions int                   `json:"total_actions"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
	HasNext      bool                  `json:"has_next"`
	HasPrevious  bool                  `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	TickMS      int    `json:"tick_ms"`
	Shapes      int    `json:"shapes"`
}
