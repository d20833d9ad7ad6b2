package worldgen

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Point is a 2D grid coordinate.
type Point struct {
	X, Y int
}

// Tile is one cell of the generated world. Tiles are created once during
// generation and never mutated afterwards; dynamic state (depletion,
// occupation) lives in the simulation facade.
type Tile struct {
	TerrainID     int
	TerrainName   string
	Walkable      bool
	ResourceValue float64
	Noise         float64 // raw classified sample, kept for debugging and checksums
}

// PlacementKind distinguishes the generator's placement passes.
type PlacementKind string

const (
	PlacementResource   PlacementKind = "resource"
	PlacementHazard     PlacementKind = "hazard"
	PlacementDecoration PlacementKind = "decoration"
)

// Placement is a resource node, hazard, or decorative feature placed on
// the grid after terrain classification.
type Placement struct {
	Kind  PlacementKind
	Name  string
	Pos   Point
	Yield float64
}

// TileGrid is the generator's complete output: classified terrain,
// placements, and mirrored starting positions. Ownership transfers to the
// simulation facade after generation.
type TileGrid struct {
	Width  int
	Height int
	Tiles  []Tile // row-major, y*Width+x

	Placements []Placement
	Spawns     []Point
}

// At returns the tile at (x, y). Panics on out-of-range coordinates, the
// same contract as slice indexing.
func (g *TileGrid) At(x, y int) Tile {
	return g.Tiles[y*g.Width+x]
}

// InBounds reports whether (x, y) lies on the grid.
func (g *TileGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Checksum returns an fnv64a digest over every tile and placement, in
// fixed iteration order. Two grids with equal checksums were generated
// from the same (seed, theme, dimensions, generator version); replays use
// this to assert world identity without storing the grid.
func (g *TileGrid) Checksum() uint64 {
	h := fnv.New64a()
	buf := make([]byte, 8)

	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf, uint64(int64(v)))
		h.Write(buf)
	}
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		h.Write(buf)
	}

	writeInt(g.Width)
	writeInt(g.Height)
	for _, t := range g.Tiles {
		writeInt(t.TerrainID)
		if t.Walkable {
			writeInt(1)
		} else {
			writeInt(0)
		}
		writeFloat(t.ResourceValue)
		writeFloat(t.Noise)
	}
	for _, p := range g.Placements {
		h.Write([]byte(p.Kind))
		h.Write([]byte(p.Name))
		writeInt(p.Pos.X)
		writeInt(p.Pos.Y)
		writeFloat(p.Yield)
	}
	for _, s := range g.Spawns {
		writeInt(s.X)
		writeInt(s.Y)
	}
	return h.Sum64()
}

// Equal reports whether two grids are byte-identical in every field the
// determinism contract covers.
func (g *TileGrid) Equal(other *TileGrid) bool {
	if g.Width != other.Width || g.Height != other.Height {
		return false
	}
	if len(g.Tiles) != len(other.Tiles) || len(g.Placements) != len(other.Placements) || len(g.Spawns) != len(other.Spawns) {
		return false
	}
	for i := range g.Tiles {
		if g.Tiles[i] != other.Tiles[i] {
			return false
		}
	}
	for i := range g.Placements {
		if g.Placements[i] != other.Placements[i] {
			return false
		}
	}
	for i := range g.Spawns {
		if g.Spawns[i] != other.Spawns[i] {
			return false
		}
	}
	return true
}
