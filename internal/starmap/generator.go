package starmap

import (
	"fmt"
	"math/rand"
	"sort"

	"hexdominion/internal/model"
	"hexdominion/internal/store"
)

// ErrUnreachableSystem is returned by Validate when a generated galaxy
// fails the "all systems reachable from the hub" invariant.
var ErrUnreachableSystem = fmt.Errorf("starmap: generated galaxy has a system unreachable from the hub")

// Generate builds a galaxy of `rings` rings (hub at center, 1+3n(n+1)
// systems total) and writes it into the store. houses is the ordered
// list of houses to place; each is assigned to an outer-ring vertex when
// possible with exactly 3 lanes (at least one Major).
//
// rng must be a deterministic source derived from the per-turn (here,
// per-game-init) seed so two runs with the same seed produce an
// identical map.
func Generate(g *store.GameState, rings int, houses []model.HouseID, rng *rand.Rand) error {
	coordToID := make(map[model.AxialCoord]model.SystemID)

	for ring := 0; ring <= rings; ring++ {
		for _, coord := range ringCoords(ring) {
			id := g.NextSystemID()
			sys := &model.System{ID: id, Coord: coord, Ring: ring}
			g.Systems.Upsert(sys)
			coordToID[coord] = id
		}
	}

	// Connect every system to its present neighbors with Minor lanes by
	// default, each pair once from its lower-ID end; the hub's six spokes
	// are laid as Major, and a sparse subset of non-hub lanes are
	// downgraded to Restricted afterwards to give the
	// composition-admissibility rule something to bite on.
	for _, sys := range g.Systems.All() {
		for _, step := range axialNeighbors {
			n := add(sys.Coord, step)
			if nid, ok := coordToID[n]; ok && sys.ID < nid {
				laneType := model.Minor
				if sys.Ring == 0 {
					laneType = model.Major
				}
				addLaneBothWays(g, sys.ID, nid, laneType)
			}
		}
	}

	sparsifyRestricted(g, rng)

	return placeHouses(g, rings, houses, coordToID, rng)
}

func addLaneBothWays(g *store.GameState, a, b model.SystemID, t model.LaneType) {
	g.Lanes.Add(model.JumpLane{From: a, To: b, Type: t})
	g.Lanes.Add(model.JumpLane{From: b, To: a, Type: t})
}

// sparsifyRestricted downgrades a deterministic sample of non-hub lanes
// to Restricted: each lane gets a 1-in-6 roll from each of its two
// endpoints, so roughly 3 in 10 end up Restricted, giving the composition-admissibility rule
// something to enforce without starving connectivity (Validate still
// requires a fully reachable graph afterward).
func sparsifyRestricted(g *store.GameState, rng *rand.Rand) {
	for _, sys := range g.Systems.All() {
		if sys.Ring == 0 {
			continue
		}
		for _, lane := range g.Lanes.From(sys.ID) {
			if lane.Type == model.Major {
				continue
			}
			if rng.Intn(6) == 0 {
				g.Lanes.SetType(sys.ID, lane.To, model.Restricted)
				g.Lanes.SetType(lane.To, sys.ID, model.Restricted)
			}
		}
	}
}

// placeHouses assigns each house to an outer-ring vertex when possible,
// giving it exactly 3 lanes with at least one Major. If the ring
// doesn't have enough free vertices, houses overflow to the next ring in.
func placeHouses(g *store.GameState, rings int, houses []model.HouseID, coordToID map[model.AxialCoord]model.SystemID, rng *rand.Rand) error {
	ring := rings
	candidates := shuffledRingSystems(g, ring, rng)

	idx := 0
	for _, h := range houses {
		for idx >= len(candidates) {
			ring--
			if ring < 1 {
				return fmt.Errorf("starmap: not enough systems to place %d houses", len(houses))
			}
			candidates = shuffledRingSystems(g, ring, rng)
			idx = 0
		}
		sysID := candidates[idx]
		idx++

		sys, _ := g.Systems.Get(sysID)
		owner := h
		sys.Assigned = &owner
		g.Systems.Upsert(sys)

		ensureExactlyThreeLanes(g, sysID, rng)
	}
	return nil
}

func shuffledRingSystems(g *store.GameState, ring int, rng *rand.Rand) []model.SystemID {
	var out []model.SystemID
	for _, sys := range g.Systems.All() {
		if sys.Ring == ring && sys.Assigned == nil {
			out = append(out, sys.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// ensureExactlyThreeLanes trims or notes a home system's lane count to
// exactly 3 with at least one Major, matching player-placement
// invariant. Extra lanes beyond 3 are removed in both directions, so
// adjacency stays symmetric for the lanes that remain.
func ensureExactlyThreeLanes(g *store.GameState, sys model.SystemID, rng *rand.Rand) {
	lanes := g.Lanes.From(sys)
	if len(lanes) <= 3 {
		promoteOneToMajor(g, sys)
		return
	}
	// Keep a deterministic-but-shuffled first 3.
	order := rng.Perm(len(lanes))
	keep := make(map[model.SystemID]bool, 3)
	for i := 0; i < 3 && i < len(order); i++ {
		keep[lanes[order[i]].To] = true
	}
	kept := make([]model.JumpLane, 0, 3)
	for _, l := range lanes {
		if keep[l.To] {
			kept = append(kept, l)
		} else {
			removeMirrored(g, sys, l.To)
		}
	}
	g.Lanes.Replace(sys, kept)
	promoteOneToMajor(g, sys)
}

func promoteOneToMajor(g *store.GameState, sys model.SystemID) {
	lanes := g.Lanes.From(sys)
	for _, l := range lanes {
		if l.Type == model.Major {
			return
		}
	}
	if len(lanes) == 0 {
		return
	}
	g.Lanes.SetType(sys, lanes[0].To, model.Major)
	g.Lanes.SetType(lanes[0].To, sys, model.Major)
}

func removeMirrored(g *store.GameState, a, b model.SystemID) {
	g.Lanes.RemoveDirected(b, a)
}

// Validate checks that every system is reachable from the hub.
func Validate(g *store.GameState) error {
	hub, ok := findHub(g)
	if !ok {
		return fmt.Errorf("starmap: no hub (ring 0) system found")
	}
	visited := map[model.SystemID]bool{hub: true}
	queue := []model.SystemID{hub}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, lane := range g.Lanes.From(cur) {
			if !visited[lane.To] {
				visited[lane.To] = true
				queue = append(queue, lane.To)
			}
		}
	}
	for _, sys := range g.Systems.All() {
		if !visited[sys.ID] {
			return ErrUnreachableSystem
		}
	}
	return nil
}

func findHub(g *store.GameState) (model.SystemID, bool) {
	for _, sys := range g.Systems.All() {
		if sys.Ring == 0 {
			return sys.ID, true
		}
	}
	return 0, false
}
