// Package movement implements fleet command execution over the lane
// graph and automated seek-home when a standing mission's target system
// stops being sound. Movement advances a fleet one admissible hop at a
// time against a per-turn budget gated by lane type, fleet composition
// and hostile-territory exposure.
package movement

import (
	"fmt"

	"hexdominion/internal/model"
	"hexdominion/internal/starmap"
	"hexdominion/internal/store"
)

// ErrFleetCannotMove is returned when a Reserve or Mothballed fleet is
// asked to move.
var ErrFleetCannotMove = fmt.Errorf("movement: fleet status forbids movement")

// Composition derives the lane-admissibility composition of a fleet from
// its ships' class stats, resolved against the game's config snapshot.
func Composition(g *store.GameState, cfg *model.ConfigSnapshot, f *model.Fleet) starmap.Composition {
	var comp starmap.Composition
	if len(f.Spacelift) > 0 {
		comp.HasSpacelift = true
	}
	for _, sid := range f.Squadrons {
		sq, ok := g.Squadrons.Get(sid)
		if !ok {
			continue
		}
		for _, shipID := range sq.Ships() {
			ship, ok := g.Ships.Get(shipID)
			if !ok {
				continue
			}
			stats, ok := cfg.Ships[ship.Class]
			if !ok {
				continue
			}
			if stats.IsSpacelift {
				comp.HasSpacelift = true
			}
			if stats.TargetBucket == model.BucketEscort {
				comp.HasEscort = true
			}
		}
	}
	return comp
}

// houseRelation resolves the diplomatic state of `house` towards the
// owner of a system, or Neutral if the system is unowned.
func houseRelation(g *store.GameState, house model.HouseID, sys model.SystemID) (model.DiplomaticState, bool) {
	colony, ok := g.Colonies.AtSystem(sys)
	if !ok {
		return model.Neutral, false
	}
	if colony.Owner == house {
		return model.Neutral, false // owned by self, never "hostile" or relevant to the friendly-dominated check beyond being trivially friendly.
	}
	h, ok := g.Houses.Get(house)
	if !ok {
		return model.Neutral, true
	}
	return h.RelationWith(colony.Owner).State, true
}

// isFriendlySystem reports whether a system is owned by `house` or by an
// Allied house.
func isFriendlySystem(g *store.GameState, house model.HouseID, sys model.SystemID) bool {
	colony, ok := g.Colonies.AtSystem(sys)
	if !ok {
		return false
	}
	if colony.Owner == house {
		return true
	}
	h, ok := g.Houses.Get(house)
	if !ok {
		return false
	}
	return h.RelationWith(colony.Owner).State == model.Allied
}

// isHostileSystem reports whether a system is owned by a house currently
// Hostile towards `house`.
func isHostileSystem(g *store.GameState, house model.HouseID, sys model.SystemID) bool {
	state, owned := houseRelation(g, house, sys)
	return owned && state == model.Hostile
}

// IsFriendlyDominated reports whether a system is friendly to `house` or
// adjacent to one. Exported for internal/combat's retreat
// relocation, which needs the same "safe system" test.
func IsFriendlyDominated(g *store.GameState, house model.HouseID, sys model.SystemID) bool {
	return isFriendlyDominated(g, house, sys)
}

// isFriendlyDominated reports whether a system is itself friendly, or
// adjacent to a friendly system.
func isFriendlyDominated(g *store.GameState, house model.HouseID, sys model.SystemID) bool {
	if isFriendlySystem(g, house, sys) {
		return true
	}
	for _, lane := range g.Lanes.From(sys) {
		if isFriendlySystem(g, house, lane.To) {
			return true
		}
	}
	return false
}

func laneType(g *store.GameState, from, to model.SystemID) (model.LaneType, bool) {
	for _, lane := range g.Lanes.From(from) {
		if lane.To == to {
			return lane.Type, true
		}
	}
	return 0, false
}

// ExecuteHops advances a fleet along a precomputed path as far as this
// turn's hop budget allows: the first admissible hop always
// happens; each subsequent hop requires its destination to be
// friendly-dominated; a hop into hostile territory is allowed exactly
// once and ends movement for the turn. Returns the number of hops taken
// and the unconsumed remainder of the path (stored back onto the
// fleet's command for next turn).
func ExecuteHops(g *store.GameState, f *model.Fleet, comp starmap.Composition, path []model.SystemID) (int, []model.SystemID, error) {
	if !f.CanMove() {
		return 0, path, ErrFleetCannotMove
	}

	cur := f.System
	taken := 0
	for i, next := range path {
		lt, ok := laneType(g, cur, next)
		if !ok || !comp.Admits(lt) {
			break
		}
		if taken > 0 && !isFriendlyDominated(g, f.Owner, next) {
			break
		}
		cur = next
		taken++
		if isHostileSystem(g, f.Owner, next) {
			f.System = cur
			return taken, path[i+1:], nil
		}
	}
	f.System = cur
	return taken, path[taken:], nil
}

// ApplyMoveOrder computes (if needed) and advances a fleet towards a
// Move order's target, storing the remainder as the fleet's active
// command for subsequent turns.
func ApplyMoveOrder(g *store.GameState, f *model.Fleet, comp starmap.Composition, target model.SystemID) (int, error) {
	var path []model.SystemID
	if f.Command != nil && f.Command.Target == target && len(f.Command.Path) > 0 {
		path = f.Command.Path
	} else {
		p, err := starmap.ShortestPath(g, f.System, target, comp)
		if err != nil {
			f.Command = nil
			return 0, err
		}
		path = p
	}

	taken, remainder, err := ExecuteHops(g, f, comp, path)
	if err != nil {
		return 0, err
	}

	if len(remainder) == 0 {
		f.Command = nil
	} else {
		f.Command = &model.FleetCommand{Mission: model.NoMission, Target: target, Path: remainder}
	}
	return taken, nil
}

// SeekHomeResult reports the outcome of evaluating one fleet's standing
// mission for automated seek-home.
type SeekHomeResult struct {
	Fleet     model.FleetID
	Aborted   bool
	Destination model.ColonyID // zero if the fleet holds (no reachable friendly colony).
	Held      bool
}

// missionVoid reports whether a fleet's declared mission target has
// become unsound and must be aborted.
func missionVoid(g *store.GameState, f *model.Fleet) bool {
	if f.Command == nil {
		return false
	}
	switch f.Command.Mission {
	case model.Colonize:
		colony, ok := g.Colonies.AtSystem(f.Command.Target)
		if !ok {
			return false // still uncolonized, mission stands.
		}
		return colony.Owner != f.Owner
	case model.GuardPlanet, model.GuardStarbase, model.BlockadePlanet, model.Patrol:
		return isHostileSystem(g, f.Owner, f.Command.Target)
	default:
		return false
	}
}

// EvaluateSeekHome runs the command-phase-start sweep: any fleet
// whose mission has gone void gets its command replaced with a SeekHome
// order targeting the closest admissible friendly colony, or holds if
// none is reachable. Colonists/marines riding on spacelift ships are
// untouched by this - seek-home only changes Command, never cargo.
func EvaluateSeekHome(g *store.GameState, cfg *model.ConfigSnapshot, house model.HouseID) []SeekHomeResult {
	var results []SeekHomeResult
	for _, f := range g.Fleets.ByOwner(house) {
		if !missionVoid(g, f) {
			continue
		}
		comp := Composition(g, cfg, f)
		best := closestFriendlyColony(g, house, f.System, comp)
		res := SeekHomeResult{Fleet: f.ID}
		if best == nil {
			f.Command = &model.FleetCommand{Mission: model.SeekHome}
			res.Held = true
		} else {
			f.Command = &model.FleetCommand{Mission: model.SeekHome, Target: best.System}
			res.Destination = best.ID
		}
		res.Aborted = true
		g.Fleets.Upsert(f)
		results = append(results, res)
	}
	return results
}

// closestFriendlyColony finds the house's own colony reachable by the
// shortest admissible path from `from`, breaking ties by colony ID for
// determinism.
func closestFriendlyColony(g *store.GameState, house model.HouseID, from model.SystemID, comp starmap.Composition) *model.Colony {
	var best *model.Colony
	bestLen := -1
	for _, c := range g.Colonies.ByOwner(house) {
		path, err := starmap.ShortestPath(g, from, c.System, comp)
		if err != nil {
			continue
		}
		if bestLen == -1 || len(path) < bestLen || (len(path) == bestLen && (best == nil || c.ID < best.ID)) {
			best = c
			bestLen = len(path)
		}
	}
	return best
}
