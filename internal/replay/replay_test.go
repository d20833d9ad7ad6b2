package replay

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-strategy/internal/scheduler"
	"github.com/vovakirdan/tui-strategy/internal/sim"
	"github.com/vovakirdan/tui-strategy/internal/theme"
	"github.com/vovakirdan/tui-strategy/internal/worldgen"
)

// recordSession runs a deterministic session and returns its recording.
func recordSession(t *testing.T, seed int64, deltas []float64) Recording {
	t.Helper()

	th, err := theme.Get("FIRE")
	if err != nil {
		t.Fatalf("theme: %v", err)
	}
	gen, err := worldgen.New(th)
	if err != nil {
		t.Fatalf("worldgen.New: %v", err)
	}
	gen.SetLogger(log.New(io.Discard))
	grid, err := gen.Generate(seed, 32, 32)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	session, err := sim.New(grid, th, seed)
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}

	cfg := scheduler.DefaultConfig()
	rec := NewRecorder(Header{
		Seed:             seed,
		Theme:            "FIRE",
		Width:            32,
		Height:           32,
		GeneratorVersion: worldgen.Version,
		WorldChecksum:    grid.Checksum(),
	}, cfg)

	loop, err := scheduler.NewLoop(cfg, scheduler.Callbacks{
		FixedUpdate: session.FixedUpdate,
	})
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	if err := loop.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := loop.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for _, d := range deltas {
		loop.Advance(d)
		rec.RecordFrame(d)
	}
	return rec.Finish(session.Tick(), session.Checksum())
}

func uniformDeltas(n int, d float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = d
	}
	return out
}

func TestVerifyRoundTrip(t *testing.T) {
	rec := recordSession(t, 12345, uniformDeltas(120, 1.0/60.0))
	if err := Verify(rec); err != nil {
		t.Errorf("verification of a faithful recording failed: %v", err)
	}
}

func TestVerifyWithJitteredDeltas(t *testing.T) {
	// Irregular frame pacing still reproduces, because the deltas are
	// part of the recording.
	deltas := []float64{0.016, 0.033, 0.005, 0.040, 0.016, 0.120, 0.016}
	rec := recordSession(t, 99, deltas)
	if err := Verify(rec); err != nil {
		t.Errorf("verification failed under jittered deltas: %v", err)
	}
}

func TestVerifyDetectsTamperedChecksum(t *testing.T) {
	rec := recordSession(t, 7, uniformDeltas(60, 1.0/60.0))
	rec.FinalChecksum ^= 1
	if err := Verify(rec); err == nil {
		t.Error("expected tampered final checksum to fail verification")
	}
}

func TestVerifyDetectsTamperedWorld(t *testing.T) {
	rec := recordSession(t, 7, uniformDeltas(60, 1.0/60.0))
	rec.Header.WorldChecksum ^= 1
	if err := Verify(rec); err == nil {
		t.Error("expected tampered world checksum to fail verification")
	}
}

func TestVerifyDetectsTamperedDeltas(t *testing.T) {
	rec := recordSession(t, 7, uniformDeltas(60, 1.0/60.0))
	rec.Deltas = rec.Deltas[:len(rec.Deltas)-10]
	if err := Verify(rec); err == nil {
		t.Error("expected truncated delta trace to fail verification")
	}
}

func TestVerifyRejectsGeneratorVersionMismatch(t *testing.T) {
	rec := recordSession(t, 7, uniformDeltas(10, 1.0/60.0))
	rec.Header.GeneratorVersion++
	if err := Verify(rec); err == nil {
		t.Error("expected generator version mismatch to fail verification")
	}
}

func TestVerifyRejectsUnknownTheme(t *testing.T) {
	rec := recordSession(t, 7, uniformDeltas(10, 1.0/60.0))
	rec.Header.Theme = "NO_SUCH_THEME"
	if err := Verify(rec); err == nil {
		t.Error("expected unknown theme to fail verification")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	rec := recordSession(t, 42, uniformDeltas(30, 1.0/60.0))

	data, err := Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.Header != rec.Header {
		t.Errorf("header changed across encode/decode: %+v vs %+v", decoded.Header, rec.Header)
	}
	if decoded.FinalTick != rec.FinalTick || decoded.FinalChecksum != rec.FinalChecksum {
		t.Error("final tick or checksum changed across encode/decode")
	}
	if len(decoded.Deltas) != len(rec.Deltas) {
		t.Fatalf("delta count changed: %d vs %d", len(decoded.Deltas), len(rec.Deltas))
	}

	if err := Verify(decoded); err != nil {
		t.Errorf("decoded recording failed verification: %v", err)
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte("{not yaml:::")); err == nil {
		t.Error("expected error for malformed recording data")
	}
}
