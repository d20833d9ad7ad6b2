package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-strategy/internal/platform/tui"
	"github.com/vovakirdan/tui-strategy/internal/scheduler"
	"github.com/vovakirdan/tui-strategy/internal/sim"
	"github.com/vovakirdan/tui-strategy/internal/storage"
)

var (
	flagWatchTheme  string
	flagWatchWidth  int
	flagWatchHeight int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a live session in the terminal",
	Long: `Generate a world and watch the session evolve in real time.

Controls:
  P/Space/Esc - Pause and resume
  Q/Ctrl+C    - Quit

Examples:
  strategy watch
  strategy watch --theme ICE --seed 42
  strategy watch --width 96 --height 48`,
	Run: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchTheme, "theme", "", "World theme (overrides config)")
	watchCmd.Flags().IntVar(&flagWatchWidth, "width", 0, "World width (overrides config)")
	watchCmd.Flags().IntVar(&flagWatchHeight, "height", 0, "World height (overrides config)")
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg, err := loadSession(flagWatchTheme, flagWatchWidth, flagWatchHeight)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed := effectiveSeed()
	th, grid, err := buildWorld(cfg, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	session, err := sim.New(grid, th, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	loop, err := scheduler.NewLoop(cfg.Scheduler, scheduler.Callbacks{
		FixedUpdate: session.FixedUpdate,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := loop.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := loop.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open sessions database: %v\n", err)
		// Continue without storage - watching still works
		store = nil
	}

	// Seed the viewport from the terminal size; resize messages take
	// over once the program is running.
	viewW, viewH := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		viewW, viewH = w, h
	}

	runErr := tui.Run(loop, session, th, tui.WatchOptions{
		Seed:       seed,
		ThemeName:  th.Name,
		Store:      store,
		ViewWidth:  viewW,
		ViewHeight: viewH,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running session: %v\n", runErr)
		os.Exit(1)
	}
}
