package worldgen

import (
	"testing"

	"github.com/vovakirdan/tui-strategy/internal/theme"
)

func fiveClassTheme(t *testing.T) theme.Descriptor {
	t.Helper()
	d, err := theme.Get("FIRE")
	if err != nil {
		t.Fatalf("FIRE theme missing: %v", err)
	}
	return d
}

func TestClassifyBuckets(t *testing.T) {
	th := fiveClassTheme(t)

	cases := []struct {
		sample float64
		wantID int
	}{
		{0.0, 0},
		{0.29, 0},
		{0.3, 1},
		{0.49, 1},
		{0.5, 2},
		{0.64, 2},
		{0.65, 3},
		{0.79, 3},
		{0.8, 4},
		{0.99, 4},
		{1.0, 4},
	}

	for _, c := range cases {
		got := Classify(c.sample, th)
		if got.ID != c.wantID {
			t.Errorf("Classify(%v) = terrain %d (%s), want %d", c.sample, got.ID, got.Name, c.wantID)
		}
	}
}

func TestClassifyAlwaysValidIndex(t *testing.T) {
	th := fiveClassTheme(t)

	for i := 0; i <= 1000; i++ {
		sample := float64(i) / 1000
		got := Classify(sample, th)
		if got.ID < 0 || got.ID >= len(th.Terrains) {
			t.Fatalf("Classify(%v) returned out-of-range terrain id %d", sample, got.ID)
		}
	}
}

func TestClassifyClampsShortTheme(t *testing.T) {
	// Three terrain classes, five buckets: the top two buckets must clamp
	// to the last entry instead of indexing out of range.
	short := theme.Descriptor{
		Name: "SHORT",
		Terrains: []theme.TerrainClass{
			{ID: 0, Name: "low", Walkable: true},
			{ID: 1, Name: "mid", Walkable: true},
			{ID: 2, Name: "high", Walkable: false},
		},
	}

	if got := Classify(0.1, short).Name; got != "low" {
		t.Errorf("bucket 0 = %s, want low", got)
	}
	if got := Classify(0.7, short).Name; got != "high" {
		t.Errorf("bucket 3 = %s, want high (clamped)", got)
	}
	if got := Classify(0.95, short).Name; got != "high" {
		t.Errorf("bucket 4 = %s, want high (clamped)", got)
	}
}

func TestClassifySingleEntryTheme(t *testing.T) {
	mono := theme.Descriptor{
		Name:     "MONO",
		Terrains: []theme.TerrainClass{{ID: 0, Name: "only", Walkable: true}},
	}

	for _, sample := range []float64{0, 0.4, 0.7, 1.0} {
		if got := Classify(sample, mono).Name; got != "only" {
			t.Errorf("Classify(%v) = %s, want only", sample, got)
		}
	}
}
