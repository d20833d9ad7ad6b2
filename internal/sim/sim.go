// Package sim owns the authoritative simulation state: the generated
// world, units, resource stockpiles, and win-condition progress. The
// scheduler drives it exclusively through FixedUpdate; everything else
// reads point-in-time snapshots. All randomness flows through a private
// stream derived from the session seed, so a run is fully determined by
// (seed, theme, dimensions).
package sim

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/vovakirdan/tui-strategy/internal/rng"
	"github.com/vovakirdan/tui-strategy/internal/theme"
	"github.com/vovakirdan/tui-strategy/internal/worldgen"
)

// Gameplay tuning constants.
const (
	workersPerPlayer = 3
	unitMaxHealth    = 100.0
	unitMoveInterval = 0.25 // seconds per tile step
	harvestRate      = 40.0 // resource units per second at a node
	hazardDamage     = 25.0 // health per second standing on a hazard
	winShare         = 0.4  // share of total world yield that wins
)

// Unit is one controllable actor. Player 0 and 1 start from the grid's
// mirrored spawn points.
type Unit struct {
	ID     int
	Player int
	Pos    worldgen.Point
	Health float64
	Alive  bool

	moveCooldown float64
	targetNode   int // index into nodes, -1 when idle
}

// resourceNode is the facade-owned mutable view of a generated resource
// placement. The generator's tiles stay immutable; depletion happens
// here.
type resourceNode struct {
	placement worldgen.Placement
	remaining float64
}

// Simulation is the facade the scheduler and snapshot consumers share.
type Simulation struct {
	grid   *worldgen.TileGrid
	theme  theme.Descriptor
	stream *rng.Stream

	tick       uint64
	elapsed    float64
	units      []Unit
	nodes      []resourceNode
	hazardAt   map[worldgen.Point]bool
	stockpiles [2]float64
	winTarget  float64
	winner     int // -1 while undecided
}

// New builds the initial simulation state from a generated grid. The grid
// must carry two mirrored spawn points; a world without any walkable
// mirror pair is a configuration error.
func New(grid *worldgen.TileGrid, th theme.Descriptor, seed int64) (*Simulation, error) {
	if grid == nil || len(grid.Tiles) == 0 {
		return nil, fmt.Errorf("sim: empty world grid")
	}
	if len(grid.Spawns) < 2 {
		return nil, fmt.Errorf("sim: world has no mirrored spawn pair")
	}

	s := &Simulation{
		grid:     grid,
		theme:    th,
		stream:   rng.New(seed).Fork("sim"),
		hazardAt: make(map[worldgen.Point]bool),
		winner:   -1,
	}

	totalYield := 0.0
	for _, p := range grid.Placements {
		switch p.Kind {
		case worldgen.PlacementResource:
			s.nodes = append(s.nodes, resourceNode{placement: p, remaining: p.Yield})
			totalYield += p.Yield
		case worldgen.PlacementHazard:
			s.hazardAt[p.Pos] = true
		}
	}
	s.winTarget = totalYield * winShare
	if s.winTarget <= 0 {
		// Worlds without resources fall back to a survival contest.
		s.winTarget = math.Inf(1)
	}

	id := 0
	for player := 0; player < 2; player++ {
		spawn := grid.Spawns[player]
		for w := 0; w < workersPerPlayer; w++ {
			s.units = append(s.units, Unit{
				ID:         id,
				Player:     player,
				Pos:        nearbyWalkable(grid, spawn, w),
				Health:     unitMaxHealth,
				Alive:      true,
				targetNode: -1,
			})
			id++
		}
	}

	return s, nil
}

// nearbyWalkable finds the nth walkable cell scanning outward from a
// spawn point, in fixed order so both players' layouts mirror.
func nearbyWalkable(grid *worldgen.TileGrid, spawn worldgen.Point, n int) worldgen.Point {
	count := 0
	for radius := 0; radius < 8; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if max(abs(dx), abs(dy)) != radius {
					continue
				}
				x, y := spawn.X+dx, spawn.Y+dy
				if grid.InBounds(x, y) && grid.At(x, y).Walkable {
					if count == n {
						return worldgen.Point{X: x, Y: y}
					}
					count++
				}
			}
		}
	}
	return spawn
}

// FixedUpdate advances the simulation by exactly dt seconds of logical
// time. It is the single mutation entry point.
func (s *Simulation) FixedUpdate(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("sim: non-positive timestep %v", dt)
	}
	s.tick++
	s.elapsed += dt

	if s.winner >= 0 {
		return nil
	}

	for i := range s.units {
		u := &s.units[i]
		if !u.Alive {
			continue
		}
		s.updateUnit(u, dt)
	}

	s.checkWinConditions()
	return nil
}

// updateUnit moves a worker toward its assigned resource node, harvests
// on arrival, and applies hazard damage.
func (s *Simulation) updateUnit(u *Unit, dt float64) {
	if u.targetNode < 0 || s.nodes[u.targetNode].remaining <= 0 {
		u.targetNode = s.nearestLiveNode(u.Pos)
	}

	if u.targetNode >= 0 {
		node := &s.nodes[u.targetNode]
		if u.Pos == node.placement.Pos {
			harvested := harvestRate * dt
			if harvested > node.remaining {
				harvested = node.remaining
			}
			node.remaining -= harvested
			s.stockpiles[u.Player] += harvested
		} else {
			u.moveCooldown -= dt
			for u.moveCooldown <= 0 {
				s.stepToward(u, node.placement.Pos)
				if u.Pos == node.placement.Pos {
					// Arrived mid-timestep: leftover movement budget must
					// not turn into a sidestep off the node.
					u.moveCooldown = 0
					break
				}
				u.moveCooldown += unitMoveInterval
			}
		}
	}

	if s.hazardAt[u.Pos] {
		u.Health -= hazardDamage * dt
		if u.Health <= 0 {
			u.Health = 0
			u.Alive = false
		}
	}
}

// stepToward moves one tile toward the target, preferring the dominant
// axis and falling back to the other when blocked. A fully blocked unit
// sidesteps using the private stream; unit iteration order is fixed, so
// this stays deterministic.
func (s *Simulation) stepToward(u *Unit, target worldgen.Point) {
	dx := sign(target.X - u.Pos.X)
	dy := sign(target.Y - u.Pos.Y)

	var first, second worldgen.Point
	if abs(target.X-u.Pos.X) >= abs(target.Y-u.Pos.Y) {
		first = worldgen.Point{X: u.Pos.X + dx, Y: u.Pos.Y}
		second = worldgen.Point{X: u.Pos.X, Y: u.Pos.Y + dy}
	} else {
		first = worldgen.Point{X: u.Pos.X, Y: u.Pos.Y + dy}
		second = worldgen.Point{X: u.Pos.X + dx, Y: u.Pos.Y}
	}

	for _, cand := range []worldgen.Point{first, second} {
		if cand != u.Pos && s.grid.InBounds(cand.X, cand.Y) && s.grid.At(cand.X, cand.Y).Walkable {
			u.Pos = cand
			return
		}
	}

	// Blocked on both axes: random walkable sidestep.
	dirs := []worldgen.Point{
		{X: u.Pos.X + 1, Y: u.Pos.Y},
		{X: u.Pos.X - 1, Y: u.Pos.Y},
		{X: u.Pos.X, Y: u.Pos.Y + 1},
		{X: u.Pos.X, Y: u.Pos.Y - 1},
	}
	start := s.stream.Intn(len(dirs))
	for i := 0; i < len(dirs); i++ {
		cand := dirs[(start+i)%len(dirs)]
		if s.grid.InBounds(cand.X, cand.Y) && s.grid.At(cand.X, cand.Y).Walkable {
			u.Pos = cand
			return
		}
	}
}

// nearestLiveNode returns the index of the closest non-depleted resource
// node, ties broken by node index so the choice is order-stable.
func (s *Simulation) nearestLiveNode(from worldgen.Point) int {
	best := -1
	bestDist := math.MaxInt
	for i := range s.nodes {
		if s.nodes[i].remaining <= 0 {
			continue
		}
		p := s.nodes[i].placement.Pos
		d := abs(p.X-from.X) + abs(p.Y-from.Y)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// checkWinConditions resolves the session: first player to reach the
// stockpile target, or the last player with living units.
func (s *Simulation) checkWinConditions() {
	for player := 0; player < 2; player++ {
		if s.stockpiles[player] >= s.winTarget {
			s.winner = player
			return
		}
	}

	alive := [2]int{}
	for _, u := range s.units {
		if u.Alive {
			alive[u.Player]++
		}
	}
	switch {
	case alive[0] == 0 && alive[1] > 0:
		s.winner = 1
	case alive[1] == 0 && alive[0] > 0:
		s.winner = 0
	}
}

// Tick returns the current tick counter.
func (s *Simulation) Tick() uint64 {
	return s.tick
}

// Winner returns the winning player, or -1 while the session is live.
func (s *Simulation) Winner() int {
	return s.winner
}

// Checksum digests the full mutable simulation state. Equal checksums
// after equal tick counts mean two runs evolved identically; replays
// verify against this.
func (s *Simulation) Checksum() uint64 {
	h := fnv.New64a()
	buf := make([]byte, 8)

	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf, v)
		h.Write(buf)
	}
	writeF := func(v float64) { writeU64(math.Float64bits(v)) }

	writeU64(s.tick)
	writeF(s.elapsed)
	writeU64(uint64(int64(s.winner)))
	for _, st := range s.stockpiles {
		writeF(st)
	}
	for _, u := range s.units {
		writeU64(uint64(int64(u.ID)))
		writeU64(uint64(int64(u.Pos.X)))
		writeU64(uint64(int64(u.Pos.Y)))
		writeF(u.Health)
		if u.Alive {
			writeU64(1)
		} else {
			writeU64(0)
		}
	}
	for _, n := range s.nodes {
		writeF(n.remaining)
	}
	return h.Sum64()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
