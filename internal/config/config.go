// Package config loads arenakit.toml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pavanmanishd/arena/v2"
)

// FileName is the configuration file searched for from the working
// directory upward.
const FileName = "arenakit.toml"

type Config struct {
	Arena ArenaConfig `toml:"arena"`
	CLI   CLIConfig   `toml:"cli"`
	Log   LogConfig   `toml:"log"`
}

type ArenaConfig struct {
	ChunkSize int    `toml:"chunk_size"`
	Source    string `toml:"source"` // "heap" or "mmap"
}

type CLIConfig struct {
	Width int `toml:"width"` // help wrap width; 0 detects the terminal
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Arena: ArenaConfig{ChunkSize: arena.DefaultChunkSize, Source: "heap"},
		Log:   LogConfig{Level: "warn", Format: "text"},
	}
}

// Find looks for FileName in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes the file at path on top of Default. Unknown keys are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest FileName above startDir, or returns Default
// when there is none.
func Discover(startDir string) (Config, string, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Default(), "", err
	}
	cfg, err := Load(path)
	return cfg, path, err
}

func (c Config) Validate() error {
	if c.Arena.ChunkSize < 0 {
		return fmt.Errorf("[arena].chunk_size must not be negative: %d", c.Arena.ChunkSize)
	}
	if _, err := c.Arena.ChunkSource(); err != nil {
		return err
	}
	if c.CLI.Width < 0 {
		return fmt.Errorf("[cli].width must not be negative: %d", c.CLI.Width)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("[log].format must be text or json: %q", c.Log.Format)
	}
	return nil
}

// ChunkSource maps Source to an arena chunk source.
func (c ArenaConfig) ChunkSource() (arena.ChunkSource, error) {
	switch c.Source {
	case "", "heap":
		return arena.HeapChunks{}, nil
	case "mmap":
		return arena.MmapChunks{}, nil
	}
	return nil, fmt.Errorf("[arena].source must be heap or mmap: %q", c.Source)
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.Level == "" {
		return slog.LevelWarn, nil
	}
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("[log].level: %w", err)
	}
	return lvl, nil
}
