// Package scheduler implements the fixed-timestep game loop: it decouples
// simulation advancement from the host's variable frame cadence, bounds
// catch-up work after stalls, and publishes performance telemetry. The
// loop owns all of its state explicitly; hosts drive it one frame at a
// time from whatever callback source they have (terminal tick, headless
// clock).
package scheduler

import "fmt"

// Config holds the scheduler's construction-time options. It is copied in
// and never mutated afterwards.
type Config struct {
	// FixedTimestep is the constant simulated time increment, in seconds,
	// advanced once per fixed update.
	FixedTimestep float64 `yaml:"fixed_timestep"`

	// MaxFrameSkip bounds how many fixed updates may run during a single
	// host frame. When the cap is hit, remaining accumulated time carries
	// over to the next frame.
	MaxFrameSkip int `yaml:"max_frame_skip"`

	// MaxDelta clamps a single frame's real elapsed time, in seconds.
	// A long stall (tab in background, suspended process) loses its ticks
	// instead of causing a catch-up burst.
	MaxDelta float64 `yaml:"max_delta"`

	// TargetFPS is the intended host frame rate. Used for the frame-time
	// budget of adaptive quality and for FrameInterval.
	TargetFPS int `yaml:"target_fps"`

	EnablePerformanceMonitoring bool `yaml:"enable_performance_monitoring"`
	EnableAdaptiveQuality       bool `yaml:"enable_adaptive_quality"`
	EnableFrameRateLimiting     bool `yaml:"enable_frame_rate_limiting"`
	PauseOnFocusLoss            bool `yaml:"pause_on_focus_loss"`
	AutoResume                  bool `yaml:"auto_resume"`
}

// DefaultConfig returns the standard 60 Hz configuration.
func DefaultConfig() Config {
	return Config{
		FixedTimestep:               1.0 / 60.0,
		MaxFrameSkip:                5,
		MaxDelta:                    0.1,
		TargetFPS:                   60,
		EnablePerformanceMonitoring: true,
		EnableAdaptiveQuality:       false,
		EnableFrameRateLimiting:     true,
		PauseOnFocusLoss:            false,
		AutoResume:                  true,
	}
}

// Validate reports configuration errors. Invalid configs are rejected at
// loop construction, never silently defaulted.
func (c Config) Validate() error {
	if c.FixedTimestep <= 0 {
		return fmt.Errorf("scheduler: fixed timestep must be positive, got %v", c.FixedTimestep)
	}
	if c.MaxFrameSkip <= 0 {
		return fmt.Errorf("scheduler: max frame skip must be positive, got %d", c.MaxFrameSkip)
	}
	if c.MaxDelta < c.FixedTimestep {
		return fmt.Errorf("scheduler: max delta %v is below the fixed timestep %v", c.MaxDelta, c.FixedTimestep)
	}
	if c.TargetFPS <= 0 {
		return fmt.Errorf("scheduler: target fps must be positive, got %d", c.TargetFPS)
	}
	return nil
}

// Callbacks bundles the host hooks the loop invokes. FixedUpdate is the
// only required callback; the rest may be nil.
type Callbacks struct {
	// Initialize runs once before the loop can start.
	Initialize func() error

	// FixedUpdate advances the simulation by exactly dt seconds of
	// logical time. Called zero or more times per frame.
	FixedUpdate func(dt float64) error

	// VariableUpdate runs once per frame with the real frame delta, for
	// frame-rate-dependent cosmetic interpolation only.
	VariableUpdate func(dt float64)

	// Render runs exactly once per frame, after all updates.
	Render func() error

	// Cleanup runs during loop teardown.
	Cleanup func() error

	// OnError receives errors captured from FixedUpdate or Render.
	// Returning true stops the loop; returning false keeps it running.
	OnError func(err error) bool
}
