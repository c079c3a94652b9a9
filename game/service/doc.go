// Package service provides the business logic layer for the blockfall server.
//
// The service package implements:
//   - Multi-session game management
//   - Action parsing, single and bulk application
//   - The per-session gravity clock (TickDue)
//   - Action history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine; the service serializes
// every mutation so a board only sees one writer at a time.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := gameService.Act(ctx, info.ID, "rotate_right", false)
//
// Gravity:
//
// Sessions do not tick on their own. Either a client sends "tick" actions, or
// the server clock calls TickDue, which advances every session whose TickMS
// interval has elapsed.
package service
