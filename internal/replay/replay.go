// Package replay records the inputs that fully determine a session
// (seed, theme, dimensions, scheduler config, and the external frame
// delta sequence) and verifies a recording by re-running it and
// comparing checksums. The same recording always reproduces the same
// world and the same final state.
package replay

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-strategy/internal/scheduler"
	"github.com/vovakirdan/tui-strategy/internal/sim"
	"github.com/vovakirdan/tui-strategy/internal/theme"
	"github.com/vovakirdan/tui-strategy/internal/worldgen"
)

// Header pins everything world generation depends on.
type Header struct {
	Seed             int64  `yaml:"seed"`
	Theme            string `yaml:"theme"`
	Width            int    `yaml:"width"`
	Height           int    `yaml:"height"`
	GeneratorVersion int    `yaml:"generator_version"`
	WorldChecksum    uint64 `yaml:"world_checksum"`
}

// Recording is a complete replay: the header, the scheduler config the
// session ran under, and the frame deltas the host delivered.
type Recording struct {
	Header    Header           `yaml:"header"`
	Scheduler scheduler.Config `yaml:"scheduler"`

	Deltas        []float64 `yaml:"deltas"`
	FinalTick     uint64    `yaml:"final_tick"`
	FinalChecksum uint64    `yaml:"final_checksum"`
}

// Recorder accumulates a recording during a live session.
type Recorder struct {
	rec Recording
}

// NewRecorder starts a recording for a session with the given header and
// scheduler config.
func NewRecorder(h Header, cfg scheduler.Config) *Recorder {
	return &Recorder{rec: Recording{Header: h, Scheduler: cfg}}
}

// RecordFrame appends one external frame delta, in seconds.
func (r *Recorder) RecordFrame(delta float64) {
	r.rec.Deltas = append(r.rec.Deltas, delta)
}

// Finish seals the recording with the session's final tick and state
// checksum.
func (r *Recorder) Finish(finalTick uint64, finalChecksum uint64) Recording {
	r.rec.FinalTick = finalTick
	r.rec.FinalChecksum = finalChecksum
	return r.rec
}

// Marshal encodes a recording for persistence.
func Marshal(rec Recording) ([]byte, error) {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot encode recording: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a persisted recording.
func Unmarshal(data []byte) (Recording, error) {
	var rec Recording
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Recording{}, fmt.Errorf("replay: cannot decode recording: %w", err)
	}
	return rec, nil
}

// Verify re-runs a recording from scratch and checks that the world and
// the final simulation state reproduce exactly.
func Verify(rec Recording) error {
	if rec.Header.GeneratorVersion != worldgen.Version {
		return fmt.Errorf("replay: recorded with generator version %d, this build is version %d",
			rec.Header.GeneratorVersion, worldgen.Version)
	}

	th, err := theme.Get(rec.Header.Theme)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	gen, err := worldgen.New(th)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	grid, err := gen.Generate(rec.Header.Seed, rec.Header.Width, rec.Header.Height)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	if got := grid.Checksum(); got != rec.Header.WorldChecksum {
		return fmt.Errorf("replay: world checksum mismatch: got %x, recorded %x", got, rec.Header.WorldChecksum)
	}

	session, err := sim.New(grid, th, rec.Header.Seed)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	loop, err := scheduler.NewLoop(rec.Scheduler, scheduler.Callbacks{
		FixedUpdate: session.FixedUpdate,
	})
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	if err := loop.Initialize(); err != nil {
		return err
	}
	if err := loop.Start(); err != nil {
		return err
	}
	for _, d := range rec.Deltas {
		loop.Advance(d)
	}

	if session.Tick() != rec.FinalTick {
		return fmt.Errorf("replay: final tick mismatch: got %d, recorded %d", session.Tick(), rec.FinalTick)
	}
	if got := session.Checksum(); got != rec.FinalChecksum {
		return fmt.Errorf("replay: final state checksum mismatch: got %x, recorded %x", got, rec.FinalChecksum)
	}
	return nil
}
