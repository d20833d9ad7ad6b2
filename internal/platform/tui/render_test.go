package tui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-strategy/internal/sim"
	"github.com/vovakirdan/tui-strategy/internal/theme"
	"github.com/vovakirdan/tui-strategy/internal/worldgen"
)

func testSnapshot(t *testing.T) (sim.Snapshot, theme.Descriptor) {
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
	grid, err := gen.Generate(4242, 32, 32)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	s, err := sim.New(grid, th, 4242)
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}
	return s.Snapshot(), th
}

func TestRenderMapFullSize(t *testing.T) {
	snap, th := testSnapshot(t)

	out := RenderMap(snap, th, 0, 0)
	if got := strings.Count(out, "\n"); got != snap.Height-1 {
		t.Errorf("rendered %d line breaks, want %d", got, snap.Height-1)
	}
}

func TestRenderMapCrops(t *testing.T) {
	snap, th := testSnapshot(t)

	out := RenderMap(snap, th, 10, 5)
	if got := strings.Count(out, "\n"); got != 4 {
		t.Errorf("cropped render has %d line breaks, want 4", got)
	}
}

func TestRenderMapEmptySnapshot(t *testing.T) {
	_, th := testSnapshot(t)

	if out := RenderMap(sim.Snapshot{}, th, 80, 24); out != "" {
		t.Error("empty snapshot should render to an empty string")
	}
}

func TestStyleForUnknownKey(t *testing.T) {
	// Unknown color keys fall back to the unstyled default.
	got := styleFor("no_such_color").Render("x")
	want := styleFor("").Render("x")
	if got != want {
		t.Errorf("unknown key rendered %q, default rendered %q", got, want)
	}
}
