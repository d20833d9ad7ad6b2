package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-strategy/internal/replay"
	"github.com/vovakirdan/tui-strategy/internal/scheduler"
	"github.com/vovakirdan/tui-strategy/internal/sim"
	"github.com/vovakirdan/tui-strategy/internal/storage"
	"github.com/vovakirdan/tui-strategy/internal/worldgen"
)

var (
	flagRunTheme    string
	flagRunWidth    int
	flagRunHeight   int
	flagRunDuration float64
	flagRunNoSave   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a headless session and record a replay",
	Long: `Run a session without a display, driving the loop at a synthetic
fixed frame cadence. The session stops when a winner is decided or the
duration limit is reached. The replay is verified and saved along with
the session record.

Examples:
  strategy run --seed 42
  strategy run --theme WASTELAND --duration 300
  strategy run --seed 42 --no-save`,
	Run: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagRunTheme, "theme", "", "World theme (overrides config)")
	runCmd.Flags().IntVar(&flagRunWidth, "width", 0, "World width (overrides config)")
	runCmd.Flags().IntVar(&flagRunHeight, "height", 0, "World height (overrides config)")
	runCmd.Flags().Float64Var(&flagRunDuration, "duration", 60, "Simulated duration limit in seconds")
	runCmd.Flags().BoolVar(&flagRunNoSave, "no-save", false, "Skip saving the session and replay")
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := loadSession(flagRunTheme, flagRunWidth, flagRunHeight)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagRunDuration <= 0 {
		fmt.Fprintln(os.Stderr, "Error: duration must be positive")
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

	rec := replay.NewRecorder(replay.Header{
		Seed:             seed,
		Theme:            th.Name,
		Width:            grid.Width,
		Height:           grid.Height,
		GeneratorVersion: worldgen.Version,
		WorldChecksum:    grid.Checksum(),
	}, cfg.Scheduler)

	// Drive the loop at the configured frame rate with ideal deltas.
	delta := 1.0 / float64(cfg.Scheduler.TargetFPS)
	frames := int(flagRunDuration * float64(cfg.Scheduler.TargetFPS))
	for i := 0; i < frames; i++ {
		loop.Advance(delta)
		rec.RecordFrame(delta)
		if session.Winner() >= 0 {
			break
		}
	}
	loop.Stop()

	recording := rec.Finish(session.Tick(), session.Checksum())
	snap := session.Snapshot()

	fmt.Printf("theme:     %s\n", th.Name)
	fmt.Printf("seed:      %d\n", seed)
	fmt.Printf("size:      %dx%d\n", snap.Width, snap.Height)
	fmt.Printf("ticks:     %d (%.1fs simulated)\n", snap.Tick, snap.Elapsed)
	fmt.Printf("stockpile: P0 %.1f  P1 %.1f (target %.1f)\n",
		snap.Stockpiles[0], snap.Stockpiles[1], snap.WinTarget)
	if snap.Winner >= 0 {
		fmt.Printf("winner:    player %d\n", snap.Winner)
	} else {
		fmt.Printf("winner:    undecided\n")
	}
	fmt.Printf("checksum:  %016x\n", recording.FinalChecksum)

	stats := loop.Stats()
	if stats.UPS > 0 {
		fmt.Printf("perf:      %.0f ups, fixed update %.3fms avg, %d dropped frames\n",
			stats.UPS, stats.FixedUpdateTime, stats.DroppedFrames)
	}

	if err := replay.Verify(recording); err != nil {
		fmt.Fprintf(os.Stderr, "Replay verification FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("replay:    verified")

	if flagRunNoSave {
		return
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open sessions database: %v\n", err)
		return
	}
	defer store.Close()

	id, err := store.SaveSession(storage.SessionRecord{
		Seed:          seed,
		Theme:         th.Name,
		Width:         snap.Width,
		Height:        snap.Height,
		Ticks:         snap.Tick,
		WorldChecksum: recording.Header.WorldChecksum,
		FinalChecksum: recording.FinalChecksum,
		Winner:        snap.Winner,
		DurationSecs:  snap.Elapsed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save session: %v\n", err)
		return
	}

	data, err := replay.Marshal(recording)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not encode replay: %v\n", err)
		return
	}
	if err := store.SaveReplay(id, data); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save replay: %v\n", err)
		return
	}
	fmt.Printf("saved:     session %d\n", id)
}
