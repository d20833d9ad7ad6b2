package sim

import "github.com/vovakirdan/tui-strategy/internal/worldgen"

// UnitView is the read-only unit representation inside a snapshot.
type UnitView struct {
	ID     int
	Player int
	X, Y   int
	Health float64
	Alive  bool
}

// NodeView is the read-only resource node representation inside a
// snapshot.
type NodeView struct {
	Name      string
	X, Y      int
	Remaining float64
}

// Snapshot is an immutable point-in-time copy of the simulation state.
// It is the sole boundary rendering and UI layers consume; mutating it
// has no effect on the simulation.
type Snapshot struct {
	Tick    uint64
	Elapsed float64

	Width   int
	Height  int
	Terrain []int // terrain ids, row-major copy

	Units       []UnitView
	Nodes       []NodeView
	Hazards     []worldgen.Point
	Stockpiles  []float64
	WinTarget   float64
	WinProgress []float64 // stockpile / target per player, clamped to 1
	Winner      int
}

// Snapshot deep-copies the current state.
func (s *Simulation) Snapshot() Snapshot {
	terrain := make([]int, len(s.grid.Tiles))
	for i, t := range s.grid.Tiles {
		terrain[i] = t.TerrainID
	}

	units := make([]UnitView, len(s.units))
	for i, u := range s.units {
		units[i] = UnitView{
			ID:     u.ID,
			Player: u.Player,
			X:      u.Pos.X,
			Y:      u.Pos.Y,
			Health: u.Health,
			Alive:  u.Alive,
		}
	}

	nodes := make([]NodeView, len(s.nodes))
	for i, n := range s.nodes {
		nodes[i] = NodeView{
			Name:      n.placement.Name,
			X:         n.placement.Pos.X,
			Y:         n.placement.Pos.Y,
			Remaining: n.remaining,
		}
	}

	hazards := make([]worldgen.Point, 0, len(s.hazardAt))
	for _, p := range s.grid.Placements {
		if p.Kind == worldgen.PlacementHazard {
			hazards = append(hazards, p.Pos)
		}
	}

	stockpiles := []float64{s.stockpiles[0], s.stockpiles[1]}
	progress := make([]float64, 2)
	for i, st := range stockpiles {
		if s.winTarget > 0 {
			progress[i] = st / s.winTarget
			if progress[i] > 1 {
				progress[i] = 1
			}
		}
	}

	return Snapshot{
		Tick:        s.tick,
		Elapsed:     s.elapsed,
		Width:       s.grid.Width,
		Height:      s.grid.Height,
		Terrain:     terrain,
		Units:       units,
		Nodes:       nodes,
		Hazards:     hazards,
		Stockpiles:  stockpiles,
		WinTarget:   s.winTarget,
		WinProgress: progress,
		Winner:      s.winner,
	}
}
