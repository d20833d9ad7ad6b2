package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-strategy/internal/scheduler"
)

//go:embed defaults/session.yaml
var defaultSessionYAML []byte

// Default returns the built-in session configuration.
func Default() Config {
	return Config{
		World: WorldConfig{
			Theme:  "FIRE",
			Width:  64,
			Height: 64,
		},
		Scheduler: scheduler.DefaultConfig(),
	}
}

// DefaultYAML returns the embedded default session YAML, for users who
// want a starting point for a custom config file.
func DefaultYAML() []byte {
	return defaultSessionYAML
}
