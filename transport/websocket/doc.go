// Package websocket provides the WebSocket transport for blockfall sessions.
//
// A connection is attached to one session. It is both a remote renderer,
// receiving a state update whenever the board changes, and a remote input
// source, sending actions for the same session.
//
// Architecture:
//
// A central Hub owns every connection. Register, unregister and outbound
// messages all pass through the Run loop; each client has its own read and
// write goroutines.
//
// Message Protocol:
//
//   - Incoming: {"action": "rotate_right"} or {"action": "tick", "reset": true}
//   - Outgoing: {"session_id": "ab12", "event": "state_update", "game_state": {...}, "events": [...]}
//   - Errors:   {"session_id": "ab12", "event": "error", "data": "unknown action \"jump\""}
//
// Successful actions are broadcast to every client of the session. Errors go
// only to the client that sent the frame.
//
// Usage:
//
//	hub := websocket.NewHub()
//	hub.SetService(gameService)
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// The hub holds no game state of its own; the board lives in the service.
package websocket
