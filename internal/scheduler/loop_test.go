package scheduler

import (
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func newTestLoop(t *testing.T, cfg Config, cb Callbacks) *Loop {
	t.Helper()
	if cb.FixedUpdate == nil {
		cb.FixedUpdate = func(dt float64) error { return nil }
	}
	l, err := NewLoop(cfg, cb)
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	l.SetLogger(log.New(io.Discard))
	if err := l.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return l
}

func TestConfigValidation(t *testing.T) {
	bad := []Config{
		{FixedTimestep: 0, MaxFrameSkip: 5, MaxDelta: 0.1, TargetFPS: 60},
		{FixedTimestep: 1.0 / 60, MaxFrameSkip: 0, MaxDelta: 0.1, TargetFPS: 60},
		{FixedTimestep: 1.0 / 60, MaxFrameSkip: 5, MaxDelta: 0.001, TargetFPS: 60},
		{FixedTimestep: 1.0 / 60, MaxFrameSkip: 5, MaxDelta: 0.1, TargetFPS: 0},
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("config %d validated, want error", i)
		}
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestRequiresFixedUpdate(t *testing.T) {
	if _, err := NewLoop(DefaultConfig(), Callbacks{}); err == nil {
		t.Error("expected error when FixedUpdate is nil")
	}
}

func TestStartBeforeInitialize(t *testing.T) {
	l, err := NewLoop(DefaultConfig(), Callbacks{FixedUpdate: func(float64) error { return nil }})
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	if err := l.Start(); err == nil {
		t.Error("Start before Initialize should fail")
	}
}

func TestInitializeReentrant(t *testing.T) {
	calls := 0
	l, err := NewLoop(DefaultConfig(), Callbacks{
		Initialize:  func() error { calls++; return nil },
		FixedUpdate: func(float64) error { return nil },
	})
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := l.Initialize(); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("Initialize callback ran %d times, want 1", calls)
	}
}

func TestDeterministicUpdateCount(t *testing.T) {
	// Given a fixed sequence of frame deltas, the number of fixed updates
	// must be deterministic across runs.
	deltas := []float64{0.016, 0.02, 0.1, 0.005, 0.033, 0.0, 0.07, 0.016}

	run := func() int {
		updates := 0
		l := newTestLoop(t, DefaultConfig(), Callbacks{
			FixedUpdate: func(dt float64) error { updates++; return nil },
		})
		for _, d := range deltas {
			l.Advance(d)
		}
		return updates
	}

	first := run()
	for i := 0; i < 5; i++ {
		if got := run(); got != first {
			t.Fatalf("run %d produced %d updates, first run produced %d", i, got, first)
		}
	}
}

func TestUpdatesBoundedByFrameSkip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDelta = 10 // do not clamp in this test

	perFrame := 0
	l := newTestLoop(t, cfg, Callbacks{
		FixedUpdate: func(dt float64) error { perFrame++; return nil },
	})

	for _, d := range []float64{0.5, 1.0, 3.0} {
		perFrame = 0
		l.Advance(d)
		if perFrame > cfg.MaxFrameSkip {
			t.Errorf("delta %v ran %d updates, cap is %d", d, perFrame, cfg.MaxFrameSkip)
		}
	}
}

func TestDeltaClamping(t *testing.T) {
	// maxDelta=0.1 with a 5s stall: consumed delta must clamp to 0.1.
	cfg := DefaultConfig()
	cfg.MaxDelta = 0.1
	cfg.MaxFrameSkip = 100

	updates := 0
	l := newTestLoop(t, cfg, Callbacks{
		FixedUpdate: func(dt float64) error { updates++; return nil },
	})

	l.Advance(5.0)

	wantUpdates := int(0.1 / cfg.FixedTimestep) // 6 at 1/60
	if updates != wantUpdates {
		t.Errorf("5s stall ran %d updates, want %d (clamped to MaxDelta)", updates, wantUpdates)
	}
	if l.Accumulator() > cfg.FixedTimestep {
		t.Errorf("accumulator %v after clamped stall, want < one timestep", l.Accumulator())
	}
}

func TestFrameSkipRetainsAccumulator(t *testing.T) {
	// fixedTimestep=1/60, maxFrameSkip=5: a single 200ms frame triggers
	// exactly min(floor(0.2*60), 5) = 5 updates, and the unconsumed
	// remainder stays in the accumulator rather than being reset.
	cfg := DefaultConfig()
	cfg.FixedTimestep = 1.0 / 60.0
	cfg.MaxFrameSkip = 5
	cfg.MaxDelta = 1.0

	updates := 0
	l := newTestLoop(t, cfg, Callbacks{
		FixedUpdate: func(dt float64) error { updates++; return nil },
	})

	l.Advance(0.2)

	if updates != 5 {
		t.Errorf("got %d updates, want 5", updates)
	}
	wantRemainder := 0.2 - 5*cfg.FixedTimestep
	if math.Abs(l.Accumulator()-wantRemainder) > 1e-9 {
		t.Errorf("accumulator = %v, want %v (not reset to zero)", l.Accumulator(), wantRemainder)
	}
	if l.Accumulator() == 0 {
		t.Error("accumulator was reset to zero after hitting the frame-skip cap")
	}
}

func TestSustainedOverloadBoundsAccumulator(t *testing.T) {
	// Defaults admit 6 ticks per clamped frame but run at most 5: a host
	// that is slow every single frame must shed the excess instead of
	// building an ever-growing backlog.
	cfg := DefaultConfig()
	l := newTestLoop(t, cfg, Callbacks{})

	for i := 0; i < 1000; i++ {
		l.Advance(cfg.MaxDelta)
	}

	if acc := l.Accumulator(); acc > cfg.MaxDelta+1e-9 {
		t.Errorf("accumulator = %v after sustained overload, want <= MaxDelta %v", acc, cfg.MaxDelta)
	}
	if dropped := l.Stats().DroppedFrames; dropped == 0 {
		t.Error("sustained overload recorded no dropped frames")
	}
}

func TestVariableUpdateAndRenderOncePerFrame(t *testing.T) {
	variable, renders := 0, 0
	l := newTestLoop(t, DefaultConfig(), Callbacks{
		FixedUpdate:    func(dt float64) error { return nil },
		VariableUpdate: func(dt float64) { variable++ },
		Render:         func() error { renders++; return nil },
	})

	for i := 0; i < 10; i++ {
		l.Advance(0.05)
	}

	if variable != 10 || renders != 10 {
		t.Errorf("variable=%d renders=%d, want 10 each (once per frame)", variable, renders)
	}
}

func TestPauseFreezesAccumulatorAndUpdates(t *testing.T) {
	updates := 0
	l := newTestLoop(t, DefaultConfig(), Callbacks{
		FixedUpdate: func(dt float64) error { updates++; return nil },
	})

	l.Advance(0.01) // below one timestep: accumulates, no update
	accBefore := l.Accumulator()
	updatesBefore := updates

	l.Pause()
	if l.State() != StatePaused {
		t.Fatalf("state = %s, want paused", l.State())
	}
	for i := 0; i < 20; i++ {
		l.Advance(0.1)
	}

	if updates != updatesBefore {
		t.Errorf("paused loop ran %d fixed updates", updates-updatesBefore)
	}
	if l.Accumulator() != accBefore {
		t.Errorf("accumulator changed while paused: %v -> %v", accBefore, l.Accumulator())
	}

	l.Resume()
	l.Advance(0.01)
	if l.Accumulator() == accBefore && updates == updatesBefore {
		t.Error("loop did not continue after resume")
	}
}

func TestPauseExcludesWallTimeFromDelta(t *testing.T) {
	updates := 0
	l := newTestLoop(t, DefaultConfig(), Callbacks{
		FixedUpdate: func(dt float64) error { updates++; return nil },
	})

	base := time.Now()
	l.Frame(base)
	l.Frame(base.Add(16 * time.Millisecond))

	l.Pause()
	l.Resume()

	// First frame after resume re-baselines: a long wall-clock gap while
	// paused must not turn into a catch-up burst.
	updatesBefore := updates
	l.Frame(base.Add(10 * time.Second))
	if updates != updatesBefore {
		t.Errorf("resume frame ran %d updates, want 0 (paused duration excluded)", updates-updatesBefore)
	}
}

func TestFocusLossPausesWhenEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PauseOnFocusLoss = true
	cfg.AutoResume = true

	l := newTestLoop(t, cfg, Callbacks{})

	l.SetFocused(false)
	if l.State() != StatePaused {
		t.Errorf("state after focus loss = %s, want paused", l.State())
	}
	l.SetFocused(true)
	if l.State() != StateRunning {
		t.Errorf("state after focus regain = %s, want running", l.State())
	}
}

func TestFocusIgnoredWhenDisabled(t *testing.T) {
	l := newTestLoop(t, DefaultConfig(), Callbacks{})
	l.SetFocused(false)
	if l.State() != StateRunning {
		t.Errorf("state = %s, want running (pause on focus loss disabled)", l.State())
	}
}

func TestTickErrorCapturedLoopContinues(t *testing.T) {
	boom := errors.New("boom")
	var captured []error

	calls := 0
	l := newTestLoop(t, DefaultConfig(), Callbacks{
		FixedUpdate: func(dt float64) error {
			calls++
			if calls == 1 {
				return boom
			}
			return nil
		},
		OnError: func(err error) bool {
			captured = append(captured, err)
			return false
		},
	})

	l.Advance(0.05)

	if len(captured) != 1 {
		t.Fatalf("captured %d errors, want 1", len(captured))
	}
	if !errors.Is(captured[0], boom) {
		t.Errorf("captured %v, want wrapped boom", captured[0])
	}
	if l.State() != StateRunning {
		t.Errorf("state = %s, want running (handler did not request stop)", l.State())
	}
	if calls < 2 {
		t.Error("loop did not keep running after captured error")
	}
}

func TestTickErrorStopRequested(t *testing.T) {
	l := newTestLoop(t, DefaultConfig(), Callbacks{
		FixedUpdate: func(dt float64) error { return errors.New("fatal") },
		OnError:     func(err error) bool { return true },
	})

	l.Advance(0.05)

	if l.State() != StateStopped {
		t.Errorf("state = %s, want stopped", l.State())
	}
}

func TestRenderErrorCaptured(t *testing.T) {
	var captured error
	l := newTestLoop(t, DefaultConfig(), Callbacks{
		FixedUpdate: func(dt float64) error { return nil },
		Render:      func() error { return errors.New("render boom") },
		OnError:     func(err error) bool { captured = err; return false },
	})

	l.Advance(0.02)

	if captured == nil {
		t.Error("render error was not surfaced through OnError")
	}
	if l.State() != StateRunning {
		t.Errorf("state = %s, want running", l.State())
	}
}

func TestCleanupIdempotentAndPartial(t *testing.T) {
	cleanups := 0
	l, err := NewLoop(DefaultConfig(), Callbacks{
		FixedUpdate: func(dt float64) error { return nil },
		Cleanup:     func() error { cleanups++; return nil },
	})
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}

	// Cleanup from a never-initialized loop must be safe.
	if err := l.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if err := l.Cleanup(); err != nil {
		t.Fatalf("second Cleanup: %v", err)
	}
	if cleanups != 1 {
		t.Errorf("cleanup callback ran %d times, want 1", cleanups)
	}
	if l.State() != StateStopped {
		t.Errorf("state = %s, want stopped", l.State())
	}
}

func TestDroppedFrameCounter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDelta = 1.0
	cfg.MaxFrameSkip = 2

	l := newTestLoop(t, cfg, Callbacks{})

	l.Advance(0.5) // far more work than 2 steps allow
	stats := l.Stats()
	if stats.DroppedFrames != 1 {
		t.Errorf("dropped frames = %d, want 1", stats.DroppedFrames)
	}
}

func TestQualityLevelDefaultsToFull(t *testing.T) {
	l := newTestLoop(t, DefaultConfig(), Callbacks{})
	if l.QualityLevel() != 1.0 {
		t.Errorf("quality = %v, want 1.0", l.QualityLevel())
	}
}

func TestAdaptiveQualityLowersUnderLoad(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableAdaptiveQuality = true

	l := newTestLoop(t, cfg, Callbacks{})
	// Feed published average frame times directly through the adjustment.
	budget := 1.0 / float64(cfg.TargetFPS)
	l.adjustQuality(budget * 2)
	if l.QualityLevel() >= 1.0 {
		t.Errorf("quality = %v, want < 1.0 after sustained overload", l.QualityLevel())
	}
	for i := 0; i < 100; i++ {
		l.adjustQuality(budget * 2)
	}
	if l.QualityLevel() < 0 {
		t.Errorf("quality = %v, must not go below 0", l.QualityLevel())
	}

	for i := 0; i < 100; i++ {
		l.adjustQuality(budget * 0.5)
	}
	if l.QualityLevel() != 1.0 {
		t.Errorf("quality = %v, want recovery to 1.0", l.QualityLevel())
	}
}

func TestFrameInterval(t *testing.T) {
	l := newTestLoop(t, DefaultConfig(), Callbacks{})
	if l.FrameInterval() != time.Second/60 {
		t.Errorf("frame interval = %v, want %v", l.FrameInterval(), time.Second/60)
	}
}
