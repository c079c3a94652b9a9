// Package session provides session management for the blockfall server.
//
// The session package implements:
//   - Thread-safe in-memory session storage and retrieval
//   - Unique session ID generation
//   - Expiry of idle sessions
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// service.Session holds one game engine together with its configuration and
// the creation, last access and last tick timestamps.
//
// Session Identifiers:
//
// Callers may pick an ID (letters, digits, '-' and '_'). Otherwise the manager
// generates a random 4-character hex ID that is not already in use. Lookups
// are case-insensitive.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//	removed := manager.CleanupExpiredSessions(time.Hour)
//
// Sessions are not persisted; a restart starts with an empty manager.
package session
