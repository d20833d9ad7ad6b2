// Package config provides YAML-based session configuration loading for
// the strategy platform.
package config

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-strategy/internal/scheduler"
	"github.com/vovakirdan/tui-strategy/internal/theme"
)

// WorldConfig defines the generated world: which theme to use and the
// grid dimensions.
type WorldConfig struct {
	Theme  string `yaml:"theme"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Config is the full session configuration.
type Config struct {
	World     WorldConfig      `yaml:"world"`
	Scheduler scheduler.Config `yaml:"scheduler"`
}

// Validate checks the world section and delegates the scheduler section
// to its own validator.
func (c Config) Validate() error {
	if strings.TrimSpace(c.World.Theme) == "" {
		return fmt.Errorf("config: world theme is empty")
	}
	if !theme.Exists(c.World.Theme) {
		return fmt.Errorf("config: unknown theme %q (known: %s)",
			c.World.Theme, strings.Join(theme.List(), ", "))
	}
	if c.World.Width < 8 || c.World.Height < 8 {
		return fmt.Errorf("config: world dimensions %dx%d are too small, minimum is 8x8",
			c.World.Width, c.World.Height)
	}
	if c.World.Width > 1024 || c.World.Height > 1024 {
		return fmt.Errorf("config: world dimensions %dx%d exceed the 1024x1024 limit",
			c.World.Width, c.World.Height)
	}
	return c.Scheduler.Validate()
}
