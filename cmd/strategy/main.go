// strategy is a deterministic simulation platform for procedurally
// generated worlds, watchable in the terminal.
//
// Usage:
//
//	strategy themes            - List available world themes
//	strategy generate          - Generate a world and print its summary
//	strategy run               - Run a headless session and record a replay
//	strategy watch             - Watch a live session in the terminal
//	strategy serve             - Start SSH server for remote watching
//	strategy sessions          - Show recently saved sessions
//	strategy verify <id>       - Re-run a saved session's replay and verify it
//
// Global flags:
//
//	--seed <value>   - World seed (0 = random based on time)
//	--config <path>  - Path to custom session config YAML
//	--db <path>      - Set database path (default: ~/.strategy/sessions.db)
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-strategy/internal/config"
	"github.com/vovakirdan/tui-strategy/internal/theme"
	"github.com/vovakirdan/tui-strategy/internal/worldgen"
)

var (
	// Global flags
	flagSeed   int64
	flagConfig string
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Deterministic strategy simulation in your terminal",
	Long: `Strategy is a terminal-based simulation platform. Every session is
fully determined by its seed: the generated world, the unit behavior,
and the outcome all reproduce exactly.

Available commands:
  themes    - List world themes
  generate  - Generate a world and inspect it
  run       - Run a headless session and record a replay
  watch     - Watch a live session
  serve     - Start SSH server for remote watching
  sessions  - View saved sessions
  verify    - Verify a saved session's replay

Examples:
  strategy generate --theme ICE --seed 42
  strategy run --seed 42 --duration 120
  strategy watch --theme VERDANT
  strategy serve --ssh :2222
  strategy verify 3`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "World seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom session config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.strategy/sessions.db", "Path to sessions database")

	// Add subcommands
	rootCmd.AddCommand(themesCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(verifyCmd)
}

// effectiveSeed resolves the global seed flag, drawing from the clock
// when unset.
func effectiveSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// loadSession loads the session config and applies per-command world
// overrides. Empty/zero overrides keep the configured values.
func loadSession(themeOverride string, width, height int) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if themeOverride != "" {
		cfg.World.Theme = themeOverride
	}
	if width > 0 {
		cfg.World.Width = width
	}
	if height > 0 {
		cfg.World.Height = height
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildWorld generates the world for a session config.
func buildWorld(cfg config.Config, seed int64) (theme.Descriptor, *worldgen.TileGrid, error) {
	th, err := theme.Get(cfg.World.Theme)
	if err != nil {
		return theme.Descriptor{}, nil, err
	}
	gen, err := worldgen.New(th)
	if err != nil {
		return theme.Descriptor{}, nil, err
	}
	grid, err := gen.Generate(seed, cfg.World.Width, cfg.World.Height)
	if err != nil {
		return theme.Descriptor{}, nil, err
	}
	return th, grid, nil
}
