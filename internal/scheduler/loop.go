package scheduler

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// State is the loop lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Loop is the fixed-timestep scheduler. All mutation happens synchronously
// inside the host callback that drives it; there is no concurrent writer.
type Loop struct {
	cfg Config
	cb  Callbacks

	state       state
	logger      *log.Logger
	initialized bool
	cleanedUp   bool
}

// state groups the mutable loop variables into one owned struct rather
// than loose closure captures.
type state struct {
	phase        State
	accumulator  float64
	lastFrame    time.Time
	hasLastFrame bool
	monitor      monitor
	quality      float64
}

// NewLoop validates the config and constructs a loop in the
// Uninitialized state.
func NewLoop(cfg Config, cb Callbacks) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cb.FixedUpdate == nil {
		return nil, fmt.Errorf("scheduler: FixedUpdate callback is required")
	}
	l := &Loop{
		cfg: cfg,
		cb:  cb,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "scheduler",
		}),
	}
	l.state.phase = StateUninitialized
	l.state.quality = 1.0
	l.state.monitor = newMonitor(cfg)
	return l, nil
}

// SetLogger overrides the loop's logger.
func (l *Loop) SetLogger(logger *log.Logger) {
	l.logger = logger
}

// Initialize performs one-time setup. Re-entrant calls are no-ops. Must
// complete before Start.
func (l *Loop) Initialize() error {
	if l.initialized {
		return nil
	}
	if l.cb.Initialize != nil {
		if err := l.cb.Initialize(); err != nil {
			return fmt.Errorf("scheduler: initialize failed: %w", err)
		}
	}
	l.initialized = true
	l.state.phase = StateInitialized
	return nil
}

// Start transitions the loop to Running and begins consuming frames.
func (l *Loop) Start() error {
	switch l.state.phase {
	case StateInitialized:
		l.state.phase = StateRunning
		l.state.hasLastFrame = false
		return nil
	case StateRunning:
		return nil
	case StateUninitialized:
		return fmt.Errorf("scheduler: cannot start before Initialize")
	default:
		return fmt.Errorf("scheduler: cannot start from state %s", l.state.phase)
	}
}

// Pause freezes the loop. The accumulated remainder is kept, not
// discarded, so resuming continues exactly where the simulation left off.
func (l *Loop) Pause() {
	if l.state.phase == StateRunning {
		l.state.phase = StatePaused
	}
}

// Resume transitions Paused back to Running. The next frame re-baselines
// its clock so the paused wall time never enters the delta computation.
func (l *Loop) Resume() {
	if l.state.phase == StatePaused {
		l.state.phase = StateRunning
		l.state.hasLastFrame = false
	}
}

// SetFocused informs the loop of host input focus. With PauseOnFocusLoss
// enabled, losing focus pauses and, with AutoResume, regaining focus
// resumes.
func (l *Loop) SetFocused(focused bool) {
	if !l.cfg.PauseOnFocusLoss {
		return
	}
	if !focused {
		l.Pause()
	} else if l.cfg.AutoResume {
		l.Resume()
	}
}

// Stop halts the loop permanently. Safe to call from any state.
func (l *Loop) Stop() {
	l.state.phase = StateStopped
}

// Cleanup tears the loop down. Idempotent, and safe to call from a
// partially-initialized state.
func (l *Loop) Cleanup() error {
	if l.cleanedUp {
		return nil
	}
	l.cleanedUp = true
	l.state.phase = StateStopped
	if l.cb.Cleanup != nil {
		if err := l.cb.Cleanup(); err != nil {
			return fmt.Errorf("scheduler: cleanup failed: %w", err)
		}
	}
	return nil
}

// State returns the current lifecycle state.
func (l *Loop) State() State {
	return l.state.phase
}

// Accumulator exposes the unconsumed simulated time remainder, in
// seconds.
func (l *Loop) Accumulator() float64 {
	return l.state.accumulator
}

// QualityLevel is the adaptive quality signal in [0, 1]. Render-layer
// consumers may shed detail as it drops; the scheduler itself never
// touches rendering.
func (l *Loop) QualityLevel() float64 {
	return l.state.quality
}

// FrameInterval returns the target frame duration for hosts that honor
// EnableFrameRateLimiting. The scheduler only publishes the interval; the
// host owns the pacing.
func (l *Loop) FrameInterval() time.Duration {
	return time.Second / time.Duration(l.cfg.TargetFPS)
}

// Stats returns a read-only snapshot of the performance counters.
func (l *Loop) Stats() PerformanceStats {
	stats := l.state.monitor.snapshot()
	stats.QualityLevel = l.state.quality
	return stats
}

// Frame is the host-driven entry point: it computes the real elapsed time
// since the previous frame and advances the loop. Frames arriving while
// not Running only re-baseline the clock.
func (l *Loop) Frame(now time.Time) {
	if l.state.phase != StateRunning {
		l.state.lastFrame = now
		return
	}
	delta := 0.0
	if l.state.hasLastFrame {
		delta = now.Sub(l.state.lastFrame).Seconds()
	}
	l.state.lastFrame = now
	l.state.hasLastFrame = true
	l.Advance(delta)
}

// Advance is the deterministic core of the loop: given a frame delta in
// seconds, it runs the bounded fixed-step catch-up, then the variable
// update and render exactly once. Given the same sequence of deltas the
// number and order of FixedUpdate calls is fully deterministic.
func (l *Loop) Advance(delta float64) {
	if l.state.phase != StateRunning {
		return
	}

	frameStart := time.Now()

	if delta < 0 {
		delta = 0
	}
	// Ticks beyond MaxDelta are lost; a long stall must not trigger a
	// catch-up burst.
	if delta > l.cfg.MaxDelta {
		delta = l.cfg.MaxDelta
	}
	l.state.accumulator += delta

	steps := 0
	for l.state.accumulator >= l.cfg.FixedTimestep && steps < l.cfg.MaxFrameSkip {
		t0 := time.Now()
		err := l.cb.FixedUpdate(l.cfg.FixedTimestep)
		l.state.monitor.recordFixedUpdate(time.Since(t0))
		l.state.accumulator -= l.cfg.FixedTimestep
		steps++
		if err != nil {
			if l.captureError(fmt.Errorf("fixed update: %w", err)) {
				l.Stop()
				return
			}
		}
	}

	// Cap hit with work left over: the remainder stays in the
	// accumulator for the next frame, but it is never allowed to exceed
	// MaxDelta. A sustained-slow host sheds the excess as lost ticks
	// instead of building an unbounded backlog.
	if steps == l.cfg.MaxFrameSkip && l.state.accumulator >= l.cfg.FixedTimestep {
		l.state.monitor.recordDroppedFrame()
		if l.state.accumulator > l.cfg.MaxDelta {
			l.state.accumulator = l.cfg.MaxDelta
		}
	}

	if l.cb.VariableUpdate != nil {
		t0 := time.Now()
		l.cb.VariableUpdate(delta)
		l.state.monitor.recordVariableUpdate(time.Since(t0))
	}

	if l.cb.Render != nil {
		t0 := time.Now()
		err := l.cb.Render()
		l.state.monitor.recordRender(time.Since(t0))
		if err != nil {
			if l.captureError(fmt.Errorf("render: %w", err)) {
				l.Stop()
				return
			}
		}
	}

	l.state.monitor.recordFrame(time.Since(frameStart))
	if published, avgFrameSec := l.state.monitor.maybePublish(frameStart); published {
		l.adjustQuality(avgFrameSec)
	}
}

// captureError surfaces a tick error through OnError instead of letting
// it kill the frame chain. Returns true when the handler requests a stop.
func (l *Loop) captureError(err error) bool {
	if l.cb.OnError != nil {
		return l.cb.OnError(err)
	}
	l.logger.Error("tick error", "error", err)
	return false
}

// adjustQuality lowers the quality signal while sustained frame time
// exceeds the budget and restores it slowly once load subsides.
func (l *Loop) adjustQuality(avgFrameSec float64) {
	if !l.cfg.EnableAdaptiveQuality {
		return
	}
	budget := 1.0 / float64(l.cfg.TargetFPS)
	switch {
	case avgFrameSec > budget*1.2:
		l.state.quality -= 0.1
		if l.state.quality < 0 {
			l.state.quality = 0
		}
	case avgFrameSec < budget*0.9:
		l.state.quality += 0.05
		if l.state.quality > 1 {
			l.state.quality = 1
		}
	}
}
