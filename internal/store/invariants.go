package store

import (
	"fmt"

	"hexdominion/internal/model"
)

// InvariantViolation is the one fatal error class of : an internal bug
// (handle refers to missing entity, index out-of-sync). ResolveTurn
// checks for it once, after all four phases of the turn have run, and
// returns it as its error alongside the advanced state.
type InvariantViolation struct {
	Rule   string
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation [%s]: %s", e.Rule, e.Detail)
}

// CheckInvariants validates the primary invariants of at a phase
// boundary. It is O(entities); ResolveTurn calls it once, after the last
// phase, not between phases or per-mutation.
func CheckInvariants(g *GameState) error {
	for _, sq := range g.Squadrons.All() {
		// Squadrons in a colony's unassigned pool (or embarked on a
		// carrier) carry no fleet handle until auto-assignment picks them
		// up; only an assigned squadron must resolve to a live fleet.
		if sq.Fleet != model.InvalidID {
			if _, ok := g.Fleets.Get(sq.Fleet); !ok {
				return &InvariantViolation{"squadron-location", fmt.Sprintf("%s references missing %s", sq.ID, sq.Fleet)}
			}
		}
		for _, shipID := range sq.Ships() {
			if shipID == model.InvalidID {
				continue
			}
			if _, ok := g.Ships.Get(shipID); !ok {
				return &InvariantViolation{"dangling-handle", fmt.Sprintf("%s references missing ship %s", sq.ID, shipID)}
			}
		}
	}

	for _, f := range g.Facilities.All() {
		if _, ok := g.Colonies.Get(f.Colony); !ok {
			return &InvariantViolation{"facility-colony", fmt.Sprintf("%s references missing colony %s", f.ID, f.Colony)}
		}
	}

	for _, c := range g.Colonies.All() {
		for _, fid := range c.Facilities {
			f, ok := g.Facilities.Get(fid)
			if !ok {
				return &InvariantViolation{"dangling-handle", fmt.Sprintf("colony %s references missing facility %s", c.ID, fid)}
			}
			if f.Colony != c.ID {
				return &InvariantViolation{"colony-facility-list", fmt.Sprintf("facility %s claims colony %s but is listed under %s", f.ID, f.Colony, c.ID)}
			}
		}
	}

	for _, fleet := range g.Fleets.All() {
		for _, sqID := range fleet.Squadrons {
			sq, ok := g.Squadrons.Get(sqID)
			if !ok {
				return &InvariantViolation{"dangling-handle", fmt.Sprintf("fleet %s references missing squadron %s", fleet.ID, sqID)}
			}
			if sq.Fleet != fleet.ID {
				return &InvariantViolation{"squadron-location", fmt.Sprintf("squadron %s claims fleet %s but is listed under %s", sq.ID, sq.Fleet, fleet.ID)}
			}
		}
	}

	return nil
}
