// Package config loads the user settings file (settings.toml) with
// PLANETBOWL_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

const fileName = "settings.toml"

// Load reads settings from the first file found over the defaults, then
// applies environment overrides.
// Search order: ./settings.toml, $XDG_CONFIG_HOME/planetbowl/settings.toml,
// ~/.config/planetbowl/settings.toml
func Load() (*Config, error) {
	cfg := Default()

	if path := findConfigFile(); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// LoadFrom reads settings from a specific file path.
// Keys missing from the file keep their defaults; an explicit zero volume
// stays zero.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing settings file path.
func findConfigFile() string {
	paths := []string{fileName}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		if home, err := os.UserHomeDir(); err == nil {
			xdgConfig = filepath.Join(home, ".config")
		}
	}
	if xdgConfig != "" {
		paths = append(paths, filepath.Join(xdgConfig, "planetbowl", fileName))
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
// Unparsable values are ignored.
func applyEnvOverrides(cfg *Config) {
	// Audio
	if v, ok := envFloat("PLANETBOWL_MASTER_VOLUME"); ok {
		cfg.Audio.MasterVolume = v
	}
	if v, ok := envFloat("PLANETBOWL_EFFECTS_VOLUME"); ok {
		cfg.Audio.EffectsVolume = v
	}
	if v, ok := envBool("PLANETBOWL_MUTE"); ok {
		cfg.Audio.Mute = v
	}
	if v, ok := envFloat("PLANETBOWL_CROSSFADE"); ok {
		cfg.Audio.CrossfadeDuration = v
	}

	// Game
	if v := os.Getenv("PLANETBOWL_SCENE"); v != "" {
		cfg.Game.Scene = v
	}
	if v, ok := envBool("PLANETBOWL_DEBUG"); ok {
		cfg.Game.Debug = v
	}
	if v, ok := envBool("PLANETBOWL_WATCH"); ok {
		cfg.Game.Watch = v
	}
}

func envFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
