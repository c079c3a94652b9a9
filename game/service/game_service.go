package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/blockfall/game/engine"
)

var (
	// ErrSessionNotFound is returned when no session matches an ID
	ErrSessionNotFound = errors.New("session not found")
	// ErrConfigNotFound is returned when no configuration matches a name
	ErrConfigNotFound = errors.New("configuration not found")
	// ErrInvalidConfig wraps validation failures
	ErrInvalidConfig = errors.New("invalid configuration")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Act(ctx context.Context, sessionID, action string, reset bool) (*ActionOutcome, error)
	BulkAct(ctx context.Context, sessionID string, actions []string, opts BulkOptions) (*BulkActionResult, error)
	Tick(ctx context.Context, sessionID string) (*ActionOutcome, error)
	TickDue(ctx context.Context, now time.Time) ([]TickUpdate, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time

	// LastTickAt is when the clock last advanced this session; zero until the first tick
	LastTickAt time.Time
}
