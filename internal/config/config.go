// Package config loads blockfall settings from YAML.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/hersh/blockfall/internal/game"
)

// Config is the whole settings file.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	UI     UIConfig     `yaml:"ui"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// EngineConfig fixes the grid and timing of every game.
type EngineConfig struct {
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	FallInterval time.Duration `yaml:"fall_interval"`
	Seed         int64         `yaml:"seed"`       // 0 = seeded from the clock
	Randomizer   string        `yaml:"randomizer"` // "uniform" or "bag"
}

// UIConfig controls the terminal front end.
type UIConfig struct {
	FrameRate int  `yaml:"frame_rate"`
	ShowGhost bool `yaml:"show_ghost"`
}

// ServerConfig controls the remote session server.
type ServerConfig struct {
	Addr          string        `yaml:"addr"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	MaxSessions   int           `yaml:"max_sessions"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	eng := game.DefaultConfig()
	return Config{
		Engine: EngineConfig{
			Width:        eng.Width,
			Height:       eng.Height,
			FallInterval: eng.FallInterval,
			Randomizer:   eng.Randomizer,
		},
		UI: UIConfig{
			FrameRate: 60,
			ShowGhost: true,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			FrameInterval: 16 * time.Millisecond,
			MaxSessions:   64,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Game converts the engine section into an engine config.
func (c Config) Game() game.Config {
	return game.Config{
		Width:        c.Engine.Width,
		Height:       c.Engine.Height,
		FallInterval: c.Engine.FallInterval,
		Seed:         c.Engine.Seed,
		Randomizer:   c.Engine.Randomizer,
	}
}

// Validate reports every impossible setting at once.
func (c Config) Validate() error {
	var errs []error
	if err := c.Game().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("engine: %w", err))
	}
	if _, err := game.NewRandomizer(c.Engine.Randomizer, 1); err != nil {
		errs = append(errs, fmt.Errorf("engine: %w", err))
	}
	if c.UI.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("ui: frame_rate must be positive, got %d", c.UI.FrameRate))
	}
	if c.Server.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("server: frame_interval must be positive, got %s", c.Server.FrameInterval))
	}
	if c.Server.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("server: max_sessions must not be negative, got %d", c.Server.MaxSessions))
	}
	return errors.Join(errs...)
}
