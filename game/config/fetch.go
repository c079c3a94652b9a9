package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	get "github.com/hashicorp/go-getter"

	"github.com/wricardo/blockfall/game/engine"
)

// Fetch downloads a directory of configurations from src (any go-getter
// address: local path, git::, http, s3::, ...) and copies every valid
// *.json file into dir. Invalid files are skipped and logged. It returns
// the IDs that were written.
func Fetch(ctx context.Context, src, dir string) ([]string, error) {
	tmp, err := os.MkdirTemp("", "blockfall-configs-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	staged := filepath.Join(tmp, "src")
	log.Printf("Fetching configurations from %s", src)
	if err := get.Get(staged, src, get.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}

	entries, err := os.ReadDir(staged)
	if err != nil {
		return nil, fmt.Errorf("failed to read fetched configs: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}

	var written []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(staged, entry.Name()))
		if err != nil {
			return written, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}

		var config engine.GameConfig
		if err := json.Unmarshal(data, &config); err != nil {
			log.Printf("Skipping %s: %v", entry.Name(), err)
			continue
		}
		if err := engine.ValidateGameConfig(&config); err != nil {
			log.Printf("Skipping %s: %v", entry.Name(), err)
			continue
		}

		if err := os.WriteFile(filepath.Join(dir, entry.Name()), data, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", entry.Name(), err)
		}
		written = append(written, strings.TrimSuffix(entry.Name(), ".json"))
	}

	log.Printf("Fetched %d configuration(s) into %s", len(written), dir)
	return written, nil
}
