// Package mcp provides the Model Context Protocol front end for blockfall.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API and the JSON answer is rendered as text an AI agent
// can read, including an ASCII board with the ghost piece overlaid.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - board_state: board rows, falling piece, ghost and counters
//   - act: apply one action (left, right, down, rotate_left, rotate_right, hard_drop, tick)
//   - bulk_act: apply up to 50 actions, optionally stopping at the first rejection
//   - tick: one gravity step
//   - reset_game: restart from the session's config
//   - action_history: paginated history
//   - list_configs: available configurations
//   - game_instructions: rules and legend
//   - describe_cell: what occupies one board cell
//
// Transport Modes:
//
// The server binary exposes the MCP server over stdio (mcp mode) and over a
// POST /mcp endpoint next to the REST API.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
