package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/blockfall/api"
	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/service"
	"github.com/wricardo/blockfall/game/session"
)

// unitConfigs serves a 4x4 board of single-cell pieces for every name
type unitConfigs struct{}

func (unitConfigs) config() *engine.GameConfig {
	config := &engine.GameConfig{
		Name:        "unit",
		Description: "Single-cell pieces",
		Width:       4,
		Height:      4,
		TickMS:      100,
		Shapes:      []engine.ShapeDef{{Name: "X", Rows: []string{"#"}}},
	}
	config.Messages.Welcome = "Welcome!"
	config.Messages.GameOver = "Game over!"
	return config
}

func (c unitConfigs) LoadConfig(name string) (*engine.GameConfig, error) { return c.config(), nil }
func (c unitConfigs) ListConfigs() ([]*service.ConfigInfo, error) {
	return []*service.ConfigInfo{{ConfigID: "unit", Name: "unit", Description: "Single-cell pieces", Width: 4, Height: 4, TickMS: 100, Shapes: 1}}, nil
}
func (c unitConfigs) GetDefault() *engine.GameConfig            { return c.config() }
func (unitConfigs) SaveConfig(string, *engine.GameConfig) error { return nil }

// newBackedClient starts the real REST API on an httptest server and points a client at it
func newBackedClient(t *testing.T) *Client {
	t.Helper()
	svc := service.NewGameService(session.NewManager(), unitConfigs{})
	server := httptest.NewServer(api.NewServer(svc, nil))
	t.Cleanup(server.Close)
	return NewClient(server.URL)
}

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func createSession(t *testing.T, client *Client) string {
	t.Helper()
	var info service.SessionInfo
	if err := client.apiCall(context.Background(), "POST", "/api/sessions", map[string]string{}, &info); err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	return info.ID
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash to be trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "test-session"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "test-session" {
		t.Errorf("Expected id test-session, got %v", response["id"])
	}
}

func TestClient_apiCall_Errors(t *testing.T) {
	t.Run("unreachable host", func(t *testing.T) {
		client := NewClient("http://invalid-url-that-does-not-exist:9999")
		if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
			t.Error("Expected error for invalid URL")
		}
	})

	t.Run("plain text error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
		if err == nil || !strings.Contains(err.Error(), "API error: 500") {
			t.Errorf("Expected 'API error: 500', got: %v", err)
		}
	})

	t.Run("json error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
		}))
		defer server.Close()

		err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
		if err == nil || err.Error() != "session not found" {
			t.Errorf("Expected 'session not found', got: %v", err)
		}
	})
}

func TestClient_SessionTools(t *testing.T) {
	client := newBackedClient(t)
	ctx := context.Background()

	result, err := client.handleCreateSession(ctx, callTool("create_session", map[string]interface{}{"config_id": "unit"}))
	if err != nil {
		t.Fatalf("handleCreateSession failed: %v", err)
	}
	text := resultText(t, result)
	if !strings.HasPrefix(text, "Session ") || !strings.Contains(text, "config: unit") {
		t.Errorf("Unexpected create_session output: %s", text)
	}
	id := strings.Fields(text)[1]

	result, _ = client.handleListSessions(ctx, callTool("list_sessions", nil))
	if text := resultText(t, result); !strings.Contains(text, "Active sessions (1)") || !strings.Contains(text, id) {
		t.Errorf("Unexpected list_sessions output: %s", text)
	}

	result, _ = client.handleGetSession(ctx, callTool("get_session", map[string]interface{}{"session_id": id}))
	if text := resultText(t, result); !strings.Contains(text, "unit board 4x4, state empty") {
		t.Errorf("Unexpected get_session output: %s", text)
	}

	result, _ = client.handleGetSession(ctx, callTool("get_session", map[string]interface{}{"session_id": "nope"}))
	if !result.IsError {
		t.Error("Expected error result for unknown session")
	}
}

func TestClient_PlayThroughTools(t *testing.T) {
	client := newBackedClient(t)
	ctx := context.Background()
	id := createSession(t, client)

	// spawn above the board, then fall into row 0
	for range 2 {
		result, err := client.handleTick(ctx, callTool("tick", map[string]interface{}{"session_id": id}))
		if err != nil || result.IsError {
			t.Fatalf("tick failed: %v %s", err, resultText(t, result))
		}
	}

	result, _ := client.handleBoardState(ctx, callTool("board_state", map[string]interface{}{"session_id": id}))
	text := resultText(t, result)
	for _, want := range []string{" 0 |..@.|", " 3 |..+.|", "Falling: X at (2, 0)"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in board_state output:\n%s", want, text)
		}
	}

	result, _ = client.handleAct(ctx, callTool("act", map[string]interface{}{
		"session_id": id, "action": "right", "intent": "move toward the wall",
	}))
	if text := resultText(t, result); !strings.Contains(text, "right: OK") {
		t.Errorf("Expected accepted right move, got: %s", text)
	}

	result, _ = client.handleAct(ctx, callTool("act", map[string]interface{}{
		"session_id": id, "action": "right", "intent": "hit the wall",
	}))
	if text := resultText(t, result); !strings.Contains(text, "right: REJECTED") {
		t.Errorf("Expected rejected right move, got: %s", text)
	}

	result, _ = client.handleAct(ctx, callTool("act", map[string]interface{}{
		"session_id": id, "action": "jump", "intent": "nonsense",
	}))
	if !result.IsError {
		t.Error("Expected error result for unknown action")
	}

	result, _ = client.handleBulkAct(ctx, callTool("bulk_act", map[string]interface{}{
		"session_id": id,
		"actions":    []interface{}{"hard_drop"},
		"intent":     "lock in the corner",
	}))
	if text := resultText(t, result); !strings.Contains(text, "executed 1/1 actions") || !strings.Contains(text, "1 piece(s) locked") {
		t.Errorf("Unexpected bulk_act output: %s", text)
	}

	result, _ = client.handleDescribeCell(ctx, callTool("describe_cell", map[string]interface{}{
		"session_id": id, "x": float64(3), "y": float64(3),
	}))
	if text := resultText(t, result); !strings.Contains(text, "frozen, left by a X piece") || !strings.Contains(text, "(1/4 filled)") {
		t.Errorf("Unexpected describe_cell output: %s", text)
	}

	result, _ = client.handleDescribeCell(ctx, callTool("describe_cell", map[string]interface{}{
		"session_id": id, "x": float64(9), "y": float64(0),
	}))
	if text := resultText(t, result); !strings.Contains(text, "outside") {
		t.Errorf("Expected out of bounds description, got: %s", text)
	}

	result, _ = client.handleActionHistory(ctx, callTool("action_history", map[string]interface{}{
		"session_id": id, "order": "asc", "limit": float64(2),
	}))
	if text := resultText(t, result); !strings.Contains(text, "page 1/3, 5 total") || !strings.Contains(text, "#1 tick ok") {
		t.Errorf("Unexpected action_history output: %s", text)
	}

	result, _ = client.handleReset(ctx, callTool("reset_game", map[string]interface{}{"session_id": id}))
	if text := resultText(t, result); !strings.Contains(text, "Game reset successfully") || !strings.Contains(text, "send tick") {
		t.Errorf("Unexpected reset_game output: %s", text)
	}
}

func TestClient_handleListConfigs(t *testing.T) {
	client := newBackedClient(t)

	result, _ := client.handleListConfigs(context.Background(), callTool("list_configs", nil))
	if text := resultText(t, result); !strings.Contains(text, "- unit: unit (4x4, 1 shapes, tick 100ms)") {
		t.Errorf("Unexpected list_configs output: %s", text)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callTool("game_instructions", nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}
	text := resultText(t, result)
	for _, action := range engine.Actions() {
		if !strings.Contains(text, string(action)) {
			t.Errorf("Instructions do not mention action %q", action)
		}
	}
}

func TestFormatGameState(t *testing.T) {
	tests := []struct {
		name  string
		state *engine.GameState
		want  []string
	}{
		{
			name: "falling piece",
			state: &engine.GameState{
				ConfigName: "classic",
				Frame:      engine.Rect{Width: 3, Height: 2},
				State:      engine.StateFalling,
				Board:      []string{".@.", "TT."},
				Active:     &engine.PieceView{Kind: "O", Pos: engine.Point{X: 1}, Width: 1, Height: 1, Cells: []engine.Point{{X: 1}}},
				Ghost:      []engine.Point{{X: 2, Y: 1}},
				Message:    "Welcome!",
			},
			want: []string{"classic board 3x2, state falling", " 1 |TT+|", "Falling: O at (1, 0), 1x1, cells (1,0)", "Welcome!"},
		},
		{
			name: "game over",
			state: &engine.GameState{
				Frame:    engine.Rect{Width: 1, Height: 1},
				State:    engine.StateGameOver,
				GameOver: true,
				Board:    []string{"I"},
			},
			want: []string{"GAME OVER"},
		},
		{
			name: "waiting for spawn",
			state: &engine.GameState{
				Frame: engine.Rect{Width: 1, Height: 1},
				Board: []string{"."},
			},
			want: []string{"send tick to spawn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := formatGameState(tt.state)
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("Expected %q in output:\n%s", want, out)
				}
			}
		})
	}
}

func TestFormatBulkActionResult(t *testing.T) {
	result := &service.BulkActionResult{
		ActionsExecuted:  2,
		RequestedActions: 60,
		Accepted:         1,
		Rejected:         1,
		Truncated:        true,
		Limit:            engine.MaxBulkActions,
		StoppedReason:    "Action 2 (left) was rejected",
		StoppedOnAction:  2,
		Results: []engine.ActionResult{
			{Action: engine.ActionTick, Accepted: true, Tick: engine.TickResult{Locked: true, ClearedRows: []int{3}}},
			{Action: engine.ActionLeft},
		},
	}

	out := formatBulkActionResult("ab12", result)
	for _, want := range []string{
		"executed 2/60 actions (1 accepted, 1 rejected)",
		"truncated to 50 actions",
		"Stopped at action 2",
		"lock clear=1",
		" 2. left",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}
