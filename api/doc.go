// Package api provides the HTTP REST handlers for the blockfall server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Several sessions at once (?sessionIds=a,b or ?configName=classic)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current board snapshot
//   - POST /api/sessions/{id}/action - Apply one action ({"action": "left", "reset": false})
//   - POST /api/sessions/{id}/bulk-action - Apply up to 50 actions ({"actions": [...], "stop_on_reject": true})
//   - POST /api/sessions/{id}/tick - Advance gravity by one step
//   - POST /api/sessions/{id}/reset - Restart the game from its config
//   - GET /api/sessions/{id}/history - Paginated action history (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - POST /api/configs - Save a configuration
//   - GET /api/configs/{name} - Get one configuration
//
// Other:
//   - GET /health - Liveness probe
//   - GET /ws?session={id} - WebSocket for state updates and actions
//
// Actions are left, right, down, rotate_left, rotate_right, hard_drop and
// tick. A rejected action (blocked move, rotation into a wall) is not an error:
// the response is 200 with "accepted": false.
//
// Error Handling:
//
// Errors are returned as JSON with a status code derived from the service
// error: unknown session or config is 404, unknown action or invalid config
// is 400, anything else is 500.
//
//	{"error": "session ab12: session not found"}
//
// Every state change is also pushed to the session's WebSocket clients.
package api
