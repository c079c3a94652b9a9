// Package config provides configuration management for the blockfall server.
//
// The config package handles:
//   - Loading game configurations from JSON files
//   - Configuration validation and caching
//   - Default configuration selection
//   - Fetching configuration sets from remote sources
//
// Configuration Format:
//
// Each file in the configs directory describes one game:
//   - Board width, height and gravity interval (tick_ms)
//   - An optional shape catalogue replacing the standard tetrominoes
//   - An optional layout of pre-filled rows at the bottom of the board
//   - Messages for the welcome, line clear and game over events
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("sprint")
//	configs, err := manager.ListConfigs()
//
// Remote configuration sets are copied in with Fetch, which accepts any
// go-getter address:
//
//	ids, err := config.Fetch(ctx, "git::https://example.com/boards.git//configs", "configs")
package config
