package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Blockfall",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Blockfall - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Steer falling pieces into the well and complete horizontal rows. Complete rows
are removed and everything above them drops. The game ends when a new piece
cannot enter the board.

AVAILABLE TOOLS:
- create_session: Create a new game session
- list_sessions: List all active sessions
- get_session: Get session details
- board_state: Get the current board
- act: Apply one action (left/right/down/rotate_left/rotate_right/hard_drop/tick) - requires intent explanation
- bulk_act: Apply several actions at once - requires intent explanation
- tick: Advance gravity by one step
- reset_game: Restart the game
- action_history: View past actions
- list_configs: List available configurations
- game_instructions: Get the full rules
- describe_cell: Get detailed info about one board cell

Nothing falls on its own through this interface unless the server clock is on:
send 'tick' to spawn the first piece and to pull the piece down.

NOTE: The 'intent' parameter on act/bulk_act serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func actionNames() []string {
	names := make([]string, 0, len(engine.Actions()))
	for _, a := range engine.Actions() {
		names = append(names, string(a))
	}
	return names
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Get the current board, falling piece and ghost",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleBoardState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "act",
		Description: "Apply one action to the falling piece",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"action": map[string]interface{}{
					"type":        "string",
					"enum":        actionNames(),
					"description": "Action to apply",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset the game before applying the action",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "What you are trying to achieve with this action",
				},
			},
			Required: []string{"session_id", "action", "intent"},
		},
	}, c.handleAct)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_act",
		Description: fmt.Sprintf("Apply up to %d actions in order", engine.MaxBulkActions),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"actions": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": actionNames(),
					},
					"description": "Actions to apply in order",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset the game before applying the actions",
				},
				"stop_on_reject": map[string]interface{}{
					"type":        "boolean",
					"description": "Stop at the first action the board rejects",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "What you are trying to achieve with these actions",
				},
			},
			Required: []string{"session_id", "actions", "intent"},
		},
	}, c.handleBulkAct)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tick",
		Description: "Advance gravity by one step: spawn, fall, or lock and clear rows",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleTick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to its initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "action_history",
		Description: "Get paginated action history",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Entries per page (default 20)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleActionHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules, coordinate system and action reference",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe one board cell: frozen, falling piece, ghost or empty",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"x": map[string]interface{}{
					"type":        "number",
					"description": "Column, 0 is the left wall",
				},
				"y": map[string]interface{}{
					"type":        "number",
					"description": "Row, 0 is the top of the board",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall makes an HTTP call to the REST API
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(resp.Sessions) == 0 {
		return mcp.NewToolResultText("No active sessions. Use create_session to start one."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions (%d):\n", resp.Count)
	for _, s := range resp.Sessions {
		b.WriteString("- " + formatSessionInfo(s) + "\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatSessionInfo(&session)
	if session.GameState != nil {
		response += "\n\n" + formatGameState(session.GameState)
	}
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleAct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	action, _ := args["action"].(string)
	reset, _ := args["reset"].(bool)

	body := map[string]interface{}{
		"action": action,
		"reset":  reset,
	}

	var result service.ActionOutcome
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/action"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionOutcome(&result)), nil
}

func (c *Client) handleBulkAct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	actionsRaw, _ := args["actions"].([]interface{})
	reset, _ := args["reset"].(bool)
	stopOnReject, _ := args["stop_on_reject"].(bool)

	actions := make([]string, 0, len(actionsRaw))
	for _, a := range actionsRaw {
		if s, ok := a.(string); ok {
			actions = append(actions, s)
		}
	}

	body := map[string]interface{}{
		"actions":        actions,
		"reset":          reset,
		"stop_on_reject": stopOnReject,
	}

	var result service.BulkActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-action"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkActionResult(sessionID, &result)), nil
}

func (c *Client) handleTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var result service.ActionOutcome
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/tick"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionOutcome(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := resp.Message
	if resp.State != nil {
		response += "\n\n" + formatGameState(resp.State)
	}
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleActionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	if page, ok := args["page"].(float64); ok && page > 0 {
		query.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok && limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		query.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []*service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(configs) == 0 {
		return mcp.NewToolResultText("No configurations available."), nil
	}

	var b strings.Builder
	b.WriteString("Available configurations:\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "- %s: %s (%dx%d, %d shapes, tick %dms) - %s\n",
			cfg.ConfigID, cfg.Name, cfg.Width, cfg.Height, cfg.Shapes, cfg.TickMS, cfg.Description)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `BLOCKFALL - RULES

BOARD
The board is a rectangle of cells, width x height. Row 0 is the top and the
last row is the floor. Column 0 is the left wall.

LEGEND (board rows)
  .   empty cell
  @   the falling piece
  A-Z frozen cell, the letter is the name of the shape that left it
  #   pre-filled cell from the config layout
  +   ghost: where the falling piece would land (board_state output only)

LIFECYCLE
  empty    no piece is falling; the next tick spawns one at the top centre
  falling  a piece is falling and accepts moves and rotations
  game_over a new piece could not enter the board

ACTIONS
  left, right     shift the piece one column
  down            shift the piece one row (soft drop)
  rotate_left     rotate 90 degrees counter-clockwise about the pivot
  rotate_right    rotate 90 degrees clockwise about the pivot
  hard_drop       drop the piece as far as it goes and lock it
  tick            one gravity step: spawn, fall, or lock and clear rows

A move or rotation that would leave the board or overlap a frozen cell is
rejected and the piece stays where it was. A rejected action is not an error.
There are no wall kicks.

LOCKING AND CLEARING
When a tick cannot move the piece down it freezes into the board. Every full
row is then removed and the rows above drop to fill the gap. If the piece
could not move down from the spawn row, the game is over.

TIPS
- Call tick once on a fresh session to spawn the first piece.
- Use board_state to see the ghost before committing with hard_drop.
- bulk_act with stop_on_reject=true is a safe way to try a placement.
- describe_cell answers questions about a single cell without reading the rows.`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	xf, okX := args["x"].(float64)
	yf, okY := args["y"].(float64)
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required numbers"), nil
	}
	x, y := int(xf), int(yf)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describeCell(&state, x, y)), nil
}

// describeCell explains what occupies board cell (x, y)
func describeCell(state *engine.GameState, x, y int) string {
	if y < 0 || y >= len(state.Board) || x < 0 || x >= len(state.Board[y]) {
		return fmt.Sprintf("Cell (%d, %d) is outside the %dx%d board.", x, y, state.Frame.Width, state.Frame.Height)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cell (%d, %d): ", x, y)

	switch ch := state.Board[y][x]; ch {
	case '@':
		kind := "?"
		if state.Active != nil {
			kind = state.Active.Kind
		}
		fmt.Fprintf(&b, "part of the falling %s piece", kind)
	case '.':
		if isGhost(state, x, y) {
			b.WriteString("empty, the falling piece would land here")
		} else {
			b.WriteString("empty")
		}
	case '#':
		b.WriteString("frozen, pre-filled by the layout")
	default:
		fmt.Fprintf(&b, "frozen, left by a %c piece", ch)
	}

	row := state.Board[y]
	filled := len(row) - strings.Count(row, ".")
	fmt.Fprintf(&b, "\nRow %d: %s (%d/%d filled)", y, row, filled, len(row))
	return b.String()
}

func isGhost(state *engine.GameState, x, y int) bool {
	for _, pt := range state.Ghost {
		if pt.X-state.Frame.X == x && pt.Y-state.Frame.Y == y {
			return true
		}
	}
	return false
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	status := "no state"
	if session.GameState != nil {
		status = fmt.Sprintf("%s, %d lines", session.GameState.State, session.GameState.LinesCleared)
	}
	return fmt.Sprintf("Session %s (config: %s, %s, last used %s)",
		session.ID, session.ConfigName, status, session.LastAccessedAt.Format(time.RFC3339))
}

// renderBoard draws the board rows with the ghost overlaid as '+'
func renderBoard(state *engine.GameState) string {
	rows := make([][]byte, len(state.Board))
	for i, row := range state.Board {
		rows[i] = []byte(row)
	}
	for _, pt := range state.Ghost {
		x, y := pt.X-state.Frame.X, pt.Y-state.Frame.Y
		if y >= 0 && y < len(rows) && x >= 0 && x < len(rows[y]) && rows[y][x] == '.' {
			rows[y][x] = '+'
		}
	}

	var b strings.Builder
	width := state.Frame.Width
	b.WriteString("   +" + strings.Repeat("-", width) + "+\n")
	for y, row := range rows {
		fmt.Fprintf(&b, "%2d |%s|\n", y, row)
	}
	b.WriteString("   +" + strings.Repeat("-", width) + "+")
	return b.String()
}

func formatGameState(state *engine.GameState) string {
	var b strings.Builder
	b.WriteString(state.Describe())
	b.WriteString("\n\n")
	b.WriteString(renderBoard(state))
	b.WriteString("\n")

	if state.Active != nil {
		fmt.Fprintf(&b, "\nFalling: %s at (%d, %d), %dx%d, cells %s\n",
			state.Active.Kind, state.Active.Pos.X, state.Active.Pos.Y,
			state.Active.Width, state.Active.Height, formatPoints(state.Active.Cells))
	}
	fmt.Fprintf(&b, "Pieces locked: %d | Lines cleared: %d | Ticks: %d\n",
		state.PiecesLocked, state.LinesCleared, state.Ticks)

	if state.Message != "" {
		b.WriteString("\n" + state.Message + "\n")
	}
	if state.GameOver {
		b.WriteString("\nGAME OVER - use reset_game to play again.\n")
	} else if state.State == engine.StateEmpty {
		b.WriteString("\nNo piece is falling - send tick to spawn the next one.\n")
	}
	return b.String()
}

func formatPoints(points []engine.Point) string {
	parts := make([]string, len(points))
	for i, pt := range points {
		parts[i] = fmt.Sprintf("(%d,%d)", pt.X, pt.Y)
	}
	return strings.Join(parts, " ")
}

func formatEvents(b *strings.Builder, events []service.GameEvent) {
	for _, e := range events {
		if e.Type == "move" || e.Type == "rotate" {
			continue
		}
		fmt.Fprintf(b, "  [%s] %s\n", e.Type, e.Message)
	}
}

func formatActionOutcome(result *service.ActionOutcome) string {
	var b strings.Builder
	if result.Accepted {
		fmt.Fprintf(&b, "%s: OK", result.Action)
	} else {
		fmt.Fprintf(&b, "%s: REJECTED (piece unchanged)", result.Action)
	}
	if result.Result.Dropped > 0 {
		fmt.Fprintf(&b, ", dropped %d rows", result.Result.Dropped)
	}
	if n := len(result.Result.Tick.ClearedRows); n > 0 {
		fmt.Fprintf(&b, ", cleared %d line(s)", n)
	}
	b.WriteString("\n")

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		formatEvents(&b, result.Events)
	}
	if result.GameState != nil {
		b.WriteString("\n" + formatGameState(result.GameState))
	}
	return b.String()
}

func formatBulkActionResult(sessionID string, result *service.BulkActionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s: executed %d/%d actions (%d accepted, %d rejected)\n",
		sessionID, result.ActionsExecuted, result.RequestedActions, result.Accepted, result.Rejected)

	if result.Truncated {
		fmt.Fprintf(&b, "Request truncated to %d actions.\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped at action %d: %s\n", result.StoppedOnAction, result.StoppedReason)
	}
	fmt.Fprintf(&b, "This call: %d piece(s) locked, %d line(s) cleared\n", result.PiecesLocked, result.LinesCleared)

	if len(result.Results) > 0 {
		b.WriteString("Trace:\n")
		for i, r := range result.Results {
			mark := "ok"
			if !r.Accepted {
				mark = "rejected"
			}
			extra := ""
			if r.Tick.Locked {
				extra = " lock"
			}
			if n := len(r.Tick.ClearedRows); n > 0 {
				extra += fmt.Sprintf(" clear=%d", n)
			}
			fmt.Fprintf(&b, "  %2d. %-12s %s%s\n", i+1, r.Action, mark, extra)
		}
	}

	if result.GameState != nil {
		b.WriteString("\n" + formatGameState(result.GameState))
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action history (page %d/%d, %d total):\n", history.Page, history.TotalPages, history.TotalActions)

	for _, entry := range history.Actions {
		status := "ok"
		if !entry.Accepted {
			status = "rejected"
		}
		pos := ""
		if entry.ToPos != nil {
			pos = fmt.Sprintf(" -> (%d,%d)", entry.ToPos.X, entry.ToPos.Y)
		}
		cleared := ""
		if entry.LinesCleared > 0 {
			cleared = fmt.Sprintf(" cleared=%d", entry.LinesCleared)
		}
		fmt.Fprintf(&b, "  #%d %s %s%s [%s]%s\n", entry.ActionNumber, entry.Action, status, pos, entry.State, cleared)
	}

	if history.HasNext {
		b.WriteString("More entries on the next page.\n")
	}
	return b.String()
}
