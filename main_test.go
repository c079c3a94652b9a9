package main

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/service"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "Blockfall Server" {
		t.Errorf("Expected app name Blockfall Server, got %s", AppName)
	}
}

func TestInitializeServices(t *testing.T) {
	originalConfigDir := *configDir
	*configDir = "configs"
	defer func() { *configDir = originalConfigDir }()

	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	gameService, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	info, err := gameService.CreateSession(context.Background(), "classic")
	if err != nil {
		t.Fatalf("Failed to create classic session: %v", err)
	}
	if info.GameConfig.Width != 10 {
		t.Errorf("Expected classic width 10, got %d", info.GameConfig.Width)
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	originalConfigDir := *configDir
	*configDir = "/non/existent/path"
	defer func() { *configDir = originalConfigDir }()

	if _, err := initializeServices(); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}
	if *host == "" {
		t.Error("Host should have a default value")
	}
	if *configDir == "" {
		t.Error("Config directory should have a default value")
	}
	if *tick <= 0 {
		t.Errorf("Gravity clock should be on by default, got %v", *tick)
	}
}

type fakeTicks struct {
	updates []service.TickUpdate
	err     error
	calls   int
}

func (f *fakeTicks) TickDue(ctx context.Context, now time.Time) ([]service.TickUpdate, error) {
	f.calls++
	return f.updates, f.err
}

type recordedBroadcast struct {
	sessionID string
	events    int
}

type fakeBroadcaster struct {
	sent []recordedBroadcast
}

func (f *fakeBroadcaster) BroadcastToSession(sessionID string, state *engine.GameState, events ...service.GameEvent) {
	f.sent = append(f.sent, recordedBroadcast{sessionID: sessionID, events: len(events)})
}

func TestStepGravity(t *testing.T) {
	tests := []struct {
		name      string
		ticks     *fakeTicks
		wantCount int
		wantSent  []recordedBroadcast
	}{
		{
			name: "broadcasts every update",
			ticks: &fakeTicks{updates: []service.TickUpdate{
				{SessionID: "a1", GameState: &engine.GameState{}, Events: []service.GameEvent{{Type: "spawn"}}},
				{SessionID: "b2", GameState: &engine.GameState{}},
			}},
			wantCount: 2,
			wantSent:  []recordedBroadcast{{"a1", 1}, {"b2", 0}},
		},
		{
			name:      "nothing due",
			ticks:     &fakeTicks{},
			wantCount: 0,
		},
		{
			name:      "error is logged and skipped",
			ticks:     &fakeTicks{err: errors.New("boom")},
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &fakeBroadcaster{}
			if got := stepGravity(context.Background(), tt.ticks, out, time.Now()); got != tt.wantCount {
				t.Errorf("stepGravity() = %d, want %d", got, tt.wantCount)
			}
			if len(out.sent) != len(tt.wantSent) {
				t.Fatalf("Expected %d broadcasts, got %d", len(tt.wantSent), len(out.sent))
			}
			for i, want := range tt.wantSent {
				if out.sent[i] != want {
					t.Errorf("Broadcast %d = %+v, want %+v", i, out.sent[i], want)
				}
			}
		})
	}
}

func TestGravityRoutine(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		ticks := &fakeTicks{}
		gravityRoutine(context.Background(), ticks, &fakeBroadcaster{}, 0)
		if ticks.calls != 0 {
			t.Errorf("Expected no TickDue calls, got %d", ticks.calls)
		}
	})

	t.Run("stops with context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			gravityRoutine(ctx, &fakeTicks{}, &fakeBroadcaster{}, time.Millisecond)
			close(done)
		}()

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("gravityRoutine did not return after cancel")
		}
	})
}
