// Package worldgen derives a complete tile grid deterministically from an
// integer seed and a theme: multi-octave noise terrain, classified via the
// theme's ordered terrain table, followed by placement passes for resource
// nodes, hazards, and decorative features. Regenerating with the same
// (seed, theme, width, height, Version) always yields an identical grid.
package worldgen

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-strategy/internal/rng"
	"github.com/vovakirdan/tui-strategy/internal/theme"
)

// Version identifies the generation algorithm. It is recorded in replay
// headers; a bump invalidates cross-version reproducibility claims.
const Version = 1

// maxPlacementAttempts bounds the candidate search per placement. Running
// out of attempts skips that single placement (non-fatal, logged).
const maxPlacementAttempts = 50

// Generator produces tile grids for one theme. Theme validation happens
// here, at construction, so Generate never fails on theme shape.
type Generator struct {
	theme  theme.Descriptor
	logger *log.Logger
}

// New creates a generator for the given theme. A malformed theme is a
// fatal configuration error reported immediately.
func New(th theme.Descriptor) (*Generator, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		theme: th,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "worldgen",
		}),
	}, nil
}

// SetLogger overrides the generator's logger. Placement warnings are the
// only output; tests pass a quiet logger.
func (g *Generator) SetLogger(l *log.Logger) {
	g.logger = l
}

// Theme returns the generator's theme descriptor.
func (g *Generator) Theme() theme.Descriptor {
	return g.theme
}

// Generate builds the full tile grid plus placements and mirrored spawn
// points. Pure with respect to (seed, width, height): no wall clock, no
// global randomness.
func (g *Generator) Generate(seed int64, width, height int) (*TileGrid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("worldgen: invalid grid dimensions %dx%d", width, height)
	}

	grid := &TileGrid{
		Width:  width,
		Height: height,
		Tiles:  make([]Tile, width*height),
	}

	field := NewNoiseField(seed)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sample := field.Sample(float64(x), float64(y))
			tc := Classify(sample, g.theme)
			grid.Tiles[y*width+x] = Tile{
				TerrainID:     tc.ID,
				TerrainName:   tc.Name,
				Walkable:      tc.Walkable,
				ResourceValue: tc.ResourceYield,
				Noise:         sample,
			}
		}
	}

	// Placement passes consume the RNG in a fixed, documented order:
	// resources, then hazards, then decorations; within a pass, node types
	// in theme-declared order, then attempts per node. The generation
	// order is part of the determinism contract, not just the seed.
	stream := rng.New(seed)
	occupied := make(map[Point]bool)
	g.placePass(grid, stream.Fork("resources"), PlacementResource, g.theme.ResourceNodes, occupied)
	g.placePass(grid, stream.Fork("hazards"), PlacementHazard, g.theme.Hazards, occupied)
	g.placePass(grid, stream.Fork("decorations"), PlacementDecoration, g.theme.Decorations, occupied)

	grid.Spawns = mirroredSpawns(grid)

	return grid, nil
}

// placePass places Count nodes for each spec, rejecting non-walkable or
// already occupied candidates, with a bounded attempt budget per node.
// A placement that exhausts its budget is skipped silently apart from a
// log line; generation continues.
func (g *Generator) placePass(grid *TileGrid, stream *rng.Stream, kind PlacementKind, specs []theme.NodeSpec, occupied map[Point]bool) {
	for _, spec := range specs {
		for i := 0; i < spec.Count; i++ {
			pos, ok := findWalkable(grid, stream, occupied)
			if !ok {
				g.logger.Warn("placement attempt budget exhausted",
					"kind", kind, "node", spec.Name, "index", i)
				continue
			}
			occupied[pos] = true
			grid.Placements = append(grid.Placements, Placement{
				Kind:  kind,
				Name:  spec.Name,
				Pos:   pos,
				Yield: spec.Yield,
			})
		}
	}
}

// findWalkable samples candidate cells until it hits a free walkable tile
// or runs out of attempts.
func findWalkable(grid *TileGrid, stream *rng.Stream, occupied map[Point]bool) (Point, bool) {
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		p := Point{X: stream.Intn(grid.Width), Y: stream.Intn(grid.Height)}
		if occupied[p] {
			continue
		}
		if grid.At(p.X, p.Y).Walkable {
			return p, true
		}
	}
	return Point{}, false
}

// mirroredSpawns derives two fair starting positions by scanning the left
// half of the grid in fixed order for a cell that is walkable together
// with its point reflection about the center. Mirroring, not independent
// randomness, is what keeps starts balanced.
func mirroredSpawns(grid *TileGrid) []Point {
	for y := grid.Height / 4; y < grid.Height; y++ {
		for x := grid.Width / 4; x < grid.Width/2; x++ {
			mx, my := grid.Width-1-x, grid.Height-1-y
			if grid.At(x, y).Walkable && grid.At(mx, my).Walkable {
				return []Point{{X: x, Y: y}, {X: mx, Y: my}}
			}
		}
	}
	// Fall back to a full scan when the preferred band has no walkable
	// mirror pair.
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width/2; x++ {
			mx, my := grid.Width-1-x, grid.Height-1-y
			if grid.At(x, y).Walkable && grid.At(mx, my).Walkable {
				return []Point{{X: x, Y: y}, {X: mx, Y: my}}
			}
		}
	}
	return nil
}

// TerrainCounts summarizes terrain distribution by name, useful for the
// generate command and for sanity tests.
func TerrainCounts(grid *TileGrid) map[string]int {
	counts := make(map[string]int)
	for _, t := range grid.Tiles {
		counts[t.TerrainName]++
	}
	return counts
}
