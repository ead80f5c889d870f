package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/serpent-arcade/serpent/pkg/log"
)

type DatabaseConfig struct {
	// Driver is one of "memory", "sqlite" or "postgres".
	Driver string `json:"driver"`
	// Path is the sqlite database file.
	Path string `json:"path"`
	// URL is the postgres connection string.
	URL string `json:"url"`
}

type ReplayConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type Config struct {
	BoardSize      int            `json:"board_size"`
	TickIntervalMS int            `json:"tick_interval_ms"`
	CellSize       int            `json:"cell_size"`
	Sound          bool           `json:"sound"`
	LogLevel       string         `json:"log_level"`
	Database       DatabaseConfig `json:"database"`
	Replay         ReplayConfig   `json:"replay"`
}

func Default() *Config {
	return &Config{
		BoardSize:      20,
		TickIntervalMS: 150,
		CellSize:       24,
		Sound:          true,
		LogLevel:       "info",
		Database: DatabaseConfig{
			Driver: "memory",
			Path:   "serpent.db",
		},
		Replay: ReplayConfig{
			Enabled: false,
			Path:    "serpent.replay",
		},
	}
}

// TickInterval returns the configured simulation step interval.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// Load reads the config file, creating it with defaults when missing.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %v", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config: %v", err)
	}
	return nil
}

// Watch reloads the file whenever it changes on disk and hands the new
// config to onChange. The watch runs until the returned watcher is
// closed. The directory is watched rather than the file itself so that
// editors that replace the file atomically keep triggering reloads.
func Watch(path string, onChange func(*Config)) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %v", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %v", dir, err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					log.Error("Failed to reload config: %v", err)
					continue
				}
				log.Info("Reloaded config from %s", path)
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("Config watcher error: %v", err)
			}
		}
	}()

	return watcher, nil
}
