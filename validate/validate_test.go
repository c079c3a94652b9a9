package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `{
	"name": "test",
	"description": "Test configuration",
	"width": 8,
	"height": 8,
	"tick_ms": 200,
	"layout": [
		"##.#####",
		"#.######"
	],
	"messages": {
		"welcome": "Welcome!",
		"game_over": "Game over!",
		"line_clear": "Cleared %d!"
	}
}`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func hasMessage(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "test.json", validConfig)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, but got errors: %v", result.Errors)
	}
	if result.File != "test.json" {
		t.Errorf("Expected file name test.json, got %s", result.File)
	}

	for _, want := range []string{"Name: test", "Board: 8x8, tick 200ms", "Shapes: 7", "Layout holes: 1 open, 1 sealed"} {
		if !hasMessage(result.Errors, want) {
			t.Errorf("Expected info %q in %v", want, result.Errors)
		}
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "invalid json",
			content: `{"name": "broken",`,
			want:    "Invalid JSON",
		},
		{
			name:    "width too small",
			content: strings.Replace(validConfig, `"width": 8`, `"width": 2`, 1),
			want:    "width must be between",
		},
		{
			name:    "full layout row",
			content: strings.Replace(validConfig, `"##.#####"`, `"########"`, 1),
			want:    "already full",
		},
		{
			name: "shape too wide for the spawn column",
			content: `{
				"name": "narrow",
				"description": "I piece spawning at column 2 of a 4-wide board",
				"width": 4,
				"height": 6,
				"tick_ms": 100,
				"shapes": [{"name": "I", "rows": ["####"], "pivot": [1, 0]}],
				"messages": {"welcome": "Hi", "game_over": "Bye"}
			}`,
			want: `shape "I" spawning at column 2 does not fit a 4-wide board`,
		},
		{
			name: "layout blocks the spawn",
			content: `{
				"name": "blocked",
				"description": "Layout reaches the second row",
				"width": 4,
				"height": 4,
				"tick_ms": 100,
				"shapes": [{"name": "O", "rows": ["##", "##"], "pivot": [0.5, 0.5]}],
				"layout": ["..#.", "###.", "###."],
				"messages": {"welcome": "Hi", "game_over": "Bye"}
			}`,
			want: `Shape "O" spawning at column 2 cannot enter the board`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "bad.json", tt.content)

			result := validateConfig(path)
			if result.Valid {
				t.Fatal("Expected invalid config")
			}
			if !hasMessage(result.Errors, tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig("/non/existent/file.json")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if !hasMessage(result.Errors, "Failed to read file") {
		t.Errorf("Expected read error, got %v", result.Errors)
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.json", validConfig)
	writeConfig(t, dir, "b.json", validConfig)
	writeConfig(t, dir, "notes.txt", "ignored")

	files, err := collectFiles(dir, nil)
	if err != nil {
		t.Fatalf("collectFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("Expected 2 json files, got %v", files)
	}

	files, _ = collectFiles(dir, []string{"x.json"})
	if len(files) != 1 || files[0] != "x.json" {
		t.Errorf("Expected explicit arguments to win, got %v", files)
	}
}

func TestCommand_ValidDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "test.json", validConfig)

	if err := newCommand().Run(context.Background(), []string{"validate", "--config-dir", dir}); err != nil {
		t.Errorf("Expected all configs to validate, got %v", err)
	}
}

func TestCommand_EmptyDirectory(t *testing.T) {
	err := newCommand().Run(context.Background(), []string{"validate", "--config-dir", t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "no config files found") {
		t.Errorf("Expected no config files error, got %v", err)
	}
}

func TestRepositoryConfigs(t *testing.T) {
	files, _ := filepath.Glob(filepath.Join("..", "configs", "*.json"))
	if len(files) == 0 {
		t.Skip("Skipping test - configs directory not found")
	}
	for _, file := range files {
		if result := validateConfig(file); !result.Valid {
			t.Errorf("%s is invalid: %v", file, result.Errors)
		}
	}
}
