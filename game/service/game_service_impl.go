package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/blockfall/game/engine"
)

// gameServiceImpl implements the GameService interface. Every engine mutation
// happens under mu, so each board only ever sees one writer at a time.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
		}
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return sess, nil
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found, available configs: %v: %w", configName, configIDs, ErrConfigNotFound)
				}
				return nil, fmt.Errorf("config '%s' not found, use /api/configs to list available configurations: %w", configName, ErrConfigNotFound)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(sess, configName), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions, oldest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
		}
		return err
	}
	return nil
}

// Act applies a single action to a session
func (s *gameServiceImpl) Act(ctx context.Context, sessionID, action string, reset bool) (*ActionOutcome, error) {
	parsed, err := engine.ParseAction(action)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	return s.apply(sess, parsed, events), nil
}

// Tick advances gravity for one session
func (s *gameServiceImpl) Tick(ctx context.Context, sessionID string) (*ActionOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)
	sess.LastTickAt = time.Now()

	return s.apply(sess, engine.ActionTick, []GameEvent{}), nil
}

func (s *gameServiceImpl) apply(sess *Session, action engine.Action, events []GameEvent) *ActionOutcome {
	eng := sess.Engine
	res := eng.Apply(action)
	state := eng.GetState()
	events = append(events, extractActionEvents(eng, res, state)...)

	return &ActionOutcome{
		Action:    action,
		Accepted:  res.Accepted,
		Result:    res,
		GameState: state,
		Message:   state.Message,
		Events:    events,
	}
}

// TickDue advances every live session whose tick interval has elapsed since its last tick.
// Sessions that are over are skipped. Ticking does not count as access.
func (s *gameServiceImpl) TickDue(ctx context.Context, now time.Time) ([]TickUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updates []TickUpdate
	for _, sess := range s.sessions.List() {
		if err := ctx.Err(); err != nil {
			return updates, err
		}
		if sess.Engine.IsGameOver() {
			continue
		}
		interval := time.Duration(sess.Config.TickMS) * time.Millisecond
		if !sess.LastTickAt.IsZero() && now.Sub(sess.LastTickAt) < interval {
			continue
		}
		sess.LastTickAt = now

		res := sess.Engine.Apply(engine.ActionTick)
		state := sess.Engine.GetState()
		updates = append(updates, TickUpdate{
			SessionID: sess.ID,
			Result:    res,
			Events:    extractActionEvents(sess.Engine, res, state),
			GameState: state,
		})
	}
	return updates, nil
}

// BulkAct applies multiple actions in sequence
func (s *gameServiceImpl) BulkAct(ctx context.Context, sessionID string, actions []string, opts BulkOptions) (*BulkActionResult, error) {
	parsed := make([]engine.Action, 0, len(actions))
	for i, a := range actions {
		action, err := engine.ParseAction(a)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i+1, err)
		}
		parsed = append(parsed, action)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	eng := sess.Engine
	result := &BulkActionResult{
		RequestedActions: len(parsed),
		Events:           make([]GameEvent, 0),
		Success:          true,
	}

	if opts.Reset {
		eng.Reset()
		result.Events = append(result.Events, resetEvent())
	}

	// Limit actions to prevent abuse
	if len(parsed) > engine.MaxBulkActions {
		result.Truncated = true
		result.Limit = engine.MaxBulkActions
		parsed = parsed[:engine.MaxBulkActions]
	}

	start := eng.GetState()
	for i, action := range parsed {
		if eng.IsGameOver() {
			result.StoppedReason = "game over"
			result.StopReasonCode = "game_over"
			result.StoppedOnAction = i + 1
			break
		}

		res := eng.Apply(action)
		result.ActionsExecuted++
		result.Results = append(result.Results, res)
		result.Events = append(result.Events, extractActionEvents(eng, res, eng.GetState())...)

		if res.Accepted {
			result.Accepted++
			continue
		}
		result.Rejected++
		result.Success = false
		if opts.StopOnReject {
			result.StoppedReason = fmt.Sprintf("action %d rejected: %s", i+1, action)
			result.StopReasonCode = "rejected"
			result.StoppedOnAction = i + 1
			break
		}
	}

	end := eng.GetState()
	result.GameState = end
	result.LinesCleared = end.LinesCleared - start.LinesCleared
	result.PiecesLocked = end.PiecesLocked - start.PiecesLocked
	result.GameOver = end.GameOver
	result.Message = end.Message
	if result.GameOver && result.StopReasonCode == "" {
		result.StopReasonCode = "game_over"
	}

	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)
	sess.LastTickAt = time.Time{}
	return sess.Engine.Reset(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetHistory returns paginated action history
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var actions []engine.HistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			actions = append(actions, history[i])
		}
	} else if start < total {
		actions = append(actions, history[start:end]...)
	}

	if actions == nil {
		actions = []engine.HistoryEntry{}
	}

	return &HistoryResponse{
		Actions:      actions,
		TotalActions: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      "reset",
		Message:   "Game reset to initial state",
		Timestamp: time.Now(),
	}
}

// extractActionEvents describes what an applied action did
func extractActionEvents(eng *engine.GameEngine, res engine.ActionResult, state *engine.GameState) []GameEvent {
	now := time.Now()
	var events []GameEvent
	var pos *engine.Point
	if state.Active != nil {
		p := state.Active.Pos
		pos = &p
	}

	switch {
	case !res.Accepted:
		events = append(events, GameEvent{
			Type:      "rejected",
			Message:   fmt.Sprintf("%s rejected", res.Action),
			Timestamp: now,
			Position:  pos,
		})
	case res.Action == engine.ActionRotateLeft || res.Action == engine.ActionRotateRight:
		events = append(events, GameEvent{
			Type:      "rotate",
			Message:   fmt.Sprintf("Rotated %s", strings.TrimPrefix(string(res.Action), "rotate_")),
			Timestamp: now,
			Position:  pos,
		})
	case res.Action != engine.ActionTick:
		msg := fmt.Sprintf("Moved %s", res.Action)
		if res.Action == engine.ActionHardDrop {
			msg = fmt.Sprintf("Dropped %d rows", res.Dropped)
		} else if pos != nil {
			msg = fmt.Sprintf("Moved %s to (%d,%d)", res.Action, pos.X, pos.Y)
		}
		events = append(events, GameEvent{Type: "move", Message: msg, Timestamp: now, Position: pos})
	}

	tick := res.Tick
	if tick.Spawned && state.Active != nil {
		events = append(events, GameEvent{
			Type:      "spawn",
			Message:   fmt.Sprintf("Piece %s entered at (%d,%d)", state.Active.Kind, pos.X, pos.Y),
			Timestamp: now,
			Position:  pos,
		})
	}
	if tick.Locked {
		events = append(events, GameEvent{
			Type:      "lock",
			Message:   fmt.Sprintf("Piece locked, %d pieces placed", state.PiecesLocked),
			Timestamp: now,
		})
	}
	if n := len(tick.ClearedRows); n > 0 {
		events = append(events, GameEvent{
			Type:      "line_clear",
			Message:   fmt.Sprintf("Cleared %d row(s), %d total", n, state.LinesCleared),
			Timestamp: now,
		})
	}
	if tick.GameOver && res.Accepted {
		events = append(events, GameEvent{
			Type:      "game_over",
			Message:   eng.GetConfig().Messages.GameOver,
			Timestamp: now,
		})
	}
	return events
}
