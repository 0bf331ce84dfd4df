// Package config loads the yaml settings for the rope world and watches them
// for changes.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var ErrInvalid = errors.New("config: invalid")

// Rope tunes the spatial realization of connections.
type Rope struct {
	CollisionWidth  float64 `yaml:"collision_width"`
	CollisionHeight float64 `yaml:"collision_height"`
	HangingHeight   float64 `yaml:"hanging_height"`
	VisibleRange    float64 `yaml:"visible_range"` // squared distance
	MaxLength       float64 `yaml:"max_length"`
}

type World struct {
	MinBuildHeight int `yaml:"min_build_height"`
	MaxBuildHeight int `yaml:"max_build_height"`
	MaxEntities    int `yaml:"max_entities"`
	TickRate       int `yaml:"tick_rate"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Store struct {
	SnapshotFile string `yaml:"snapshot_file"`
	RedisAddr    string `yaml:"redis_addr"`
	RedisKey     string `yaml:"redis_key"`
}

type Config struct {
	Rope   Rope   `yaml:"rope"`
	World  World  `yaml:"world"`
	Log    Log    `yaml:"log"`
	Server Server `yaml:"server"`
	Store  Store  `yaml:"store"`
}

// Default returns the embedded defaults.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic("config: embedded defaults: " + err.Error())
	}
	return cfg
}

// Parse overlays data onto the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path and overlays it onto the defaults. An empty path yields
// the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Rope.CollisionWidth <= 0:
		return fmt.Errorf("%w: rope.collision_width must be positive", ErrInvalid)
	case c.Rope.CollisionHeight <= 0:
		return fmt.Errorf("%w: rope.collision_height must be positive", ErrInvalid)
	case c.Rope.HangingHeight < 0:
		return fmt.Errorf("%w: rope.hanging_height must not be negative", ErrInvalid)
	case c.Rope.VisibleRange <= 0:
		return fmt.Errorf("%w: rope.visible_range must be positive", ErrInvalid)
	case c.Rope.MaxLength <= 0:
		return fmt.Errorf("%w: rope.max_length must be positive", ErrInvalid)
	case c.World.MaxBuildHeight <= c.World.MinBuildHeight:
		return fmt.Errorf("%w: world build height range is empty", ErrInvalid)
	case c.World.TickRate <= 0:
		return fmt.Errorf("%w: world.tick_rate must be positive", ErrInvalid)
	}
	return nil
}
