// Package logistics implements the nine zero-turn commands that mutate
// state immediately at order-submit time, before turn resolution:
// Detach, Transfer, Merge, LoadCargo, UnloadCargo, LoadFighters,
// UnloadFighters, TransferFighters and Reactivate. Each command layers
// its checks as ownership, then location class, then command-specific
// validation.
package logistics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"hexdominion/internal/model"
	"hexdominion/internal/store"
)

// ErrWrongLocationClass is returned when a command requiring a friendly
// colony is attempted in deep space, or vice versa.
var ErrWrongLocationClass = fmt.Errorf("logistics: command issued from the wrong location class")

// Outcome reports what a single zero-turn command produced: success or
// an error, the handle of any fleet it created (Detach), and a tally key
// for reporting.
type Outcome struct {
	Kind       model.ZeroTurnKind
	Err        error
	CreatedFleet model.FleetID
}

// Apply executes one validated zero-turn command against the store,
// mutating it immediately. Layering is: ownership -> location class ->
// command-specific checks. cfg supplies the carry/hangar
// capacities the cargo and fighter commands are bounded by.
func Apply(g *store.GameState, cfg *model.ConfigSnapshot, house model.HouseID, cmd model.ZeroTurnCommand) Outcome {
	switch cmd.Kind {
	case model.ZTDetach:
		return applyDetach(g, house, cmd)
	case model.ZTTransfer:
		return applyTransfer(g, house, cmd)
	case model.ZTMerge:
		return applyMerge(g, house, cmd)
	case model.ZTLoadCargo:
		return applyLoadCargo(g, cfg, house, cmd)
	case model.ZTUnloadCargo:
		return applyUnloadCargo(g, house, cmd)
	case model.ZTLoadFighters:
		return applyLoadFighters(g, cfg, house, cmd)
	case model.ZTUnloadFighters:
		return applyUnloadFighters(g, house, cmd)
	case model.ZTTransferFighters:
		return applyTransferFighters(g, cfg, house, cmd)
	case model.ZTReactivate:
		return applyReactivate(g, house, cmd)
	default:
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: unknown command kind %d", cmd.Kind)}
	}
}

// spaceliftCapacity totals the carry capacity of a fleet's spacelift
// hulls, both bare ships and those organized into squadrons.
func spaceliftCapacity(g *store.GameState, cfg *model.ConfigSnapshot, f *model.Fleet) decimal.Decimal {
	total := 0
	addShip := func(id model.ShipID) {
		ship, ok := g.Ships.Get(id)
		if !ok || ship.State == model.Destroyed {
			return
		}
		stats, ok := cfg.Ships[ship.Class]
		if !ok || !stats.IsSpacelift {
			return
		}
		total += stats.CarryCapacity
	}
	for _, id := range f.Spacelift {
		addShip(id)
	}
	for _, sid := range f.Squadrons {
		sq, ok := g.Squadrons.Get(sid)
		if !ok {
			continue
		}
		for _, id := range sq.Ships() {
			addShip(id)
		}
	}
	return decimal.NewFromInt(int64(total))
}

// hangarCapacity resolves a carrier squadron's fighter berth count from
// its flagship's class.
func hangarCapacity(g *store.GameState, cfg *model.ConfigSnapshot, carrier *model.Squadron) int {
	ship, ok := g.Ships.Get(carrier.Flagship)
	if !ok {
		return 0
	}
	stats, ok := cfg.Ships[ship.Class]
	if !ok {
		return 0
	}
	return stats.CarryCapacity
}

func ownsFleet(g *store.GameState, house model.HouseID, id model.FleetID) (*model.Fleet, error) {
	f, ok := g.Fleets.Get(id)
	if !ok {
		return nil, fmt.Errorf("logistics: unknown fleet %s", id)
	}
	if f.Owner != house {
		return nil, fmt.Errorf("logistics: fleet %s not owned by %s", id, house)
	}
	return f, nil
}

// friendlyColonyAt requires a same-owner colony at the fleet's current
// system (the "colony-required" location class).
func friendlyColonyAt(g *store.GameState, house model.HouseID, f *model.Fleet) (*model.Colony, error) {
	c, ok := g.Colonies.AtSystem(f.System)
	if !ok || c.Owner != house {
		return nil, ErrWrongLocationClass
	}
	return c, nil
}

// --- Same-location commands (no colony required) ---

// applyDetach splits off the named squadrons/ships from a fleet into a
// brand-new fleet at the same system.
func applyDetach(g *store.GameState, house model.HouseID, cmd model.ZeroTurnCommand) Outcome {
	src, err := ownsFleet(g, house, cmd.Fleet)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}

	newID := g.NextFleetID()
	newFleet := &model.Fleet{ID: newID, Owner: house, System: src.System, Status: model.Active}

	remaining := src.Squadrons[:0:0]
	moving := map[model.SquadronID]bool{}
	for _, s := range cmd.Squadrons {
		moving[s] = true
	}
	for _, s := range src.Squadrons {
		if moving[s] {
			sq, ok := g.Squadrons.Get(s)
			if !ok {
				continue
			}
			sq.Fleet = newID
			g.Squadrons.Upsert(sq)
			newFleet.Squadrons = append(newFleet.Squadrons, s)
		} else {
			remaining = append(remaining, s)
		}
	}
	src.Squadrons = remaining

	if len(newFleet.Squadrons) == 0 {
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: detach produced an empty fleet")}
	}

	g.Fleets.Upsert(src)
	g.Fleets.Upsert(newFleet)

	return Outcome{Kind: cmd.Kind, CreatedFleet: newID}
}

// applyTransfer moves named squadrons from one fleet to another, both
// colocated (same system, deep space allowed).
func applyTransfer(g *store.GameState, house model.HouseID, cmd model.ZeroTurnCommand) Outcome {
	src, err := ownsFleet(g, house, cmd.Fleet)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	dst, err := ownsFleet(g, house, cmd.OtherFleet)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	if src.System != dst.System {
		return Outcome{Kind: cmd.Kind, Err: ErrWrongLocationClass}
	}

	moving := map[model.SquadronID]bool{}
	for _, s := range cmd.Squadrons {
		moving[s] = true
	}
	remaining := src.Squadrons[:0:0]
	for _, s := range src.Squadrons {
		if moving[s] {
			sq, ok := g.Squadrons.Get(s)
			if !ok {
				continue
			}
			sq.Fleet = dst.ID
			g.Squadrons.Upsert(sq)
			dst.Squadrons = append(dst.Squadrons, s)
		} else {
			remaining = append(remaining, s)
		}
	}
	src.Squadrons = remaining

	g.Fleets.Upsert(src)
	g.Fleets.Upsert(dst)

	if len(src.Squadrons) == 0 && len(src.Spacelift) == 0 && src.CargoPU.IsZero() {
		g.Fleets.Remove(src.ID)
	}

	return Outcome{Kind: cmd.Kind}
}

// applyMerge folds an entire fleet into another colocated fleet,
// removing the source.
func applyMerge(g *store.GameState, house model.HouseID, cmd model.ZeroTurnCommand) Outcome {
	src, err := ownsFleet(g, house, cmd.Fleet)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	dst, err := ownsFleet(g, house, cmd.OtherFleet)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	if src.System != dst.System {
		return Outcome{Kind: cmd.Kind, Err: ErrWrongLocationClass}
	}

	for _, s := range src.Squadrons {
		sq, ok := g.Squadrons.Get(s)
		if !ok {
			continue
		}
		sq.Fleet = dst.ID
		g.Squadrons.Upsert(sq)
		dst.Squadrons = append(dst.Squadrons, s)
	}
	dst.Spacelift = append(dst.Spacelift, src.Spacelift...)
	dst.CargoPU = dst.CargoPU.Add(src.CargoPU)

	g.Fleets.Upsert(dst)
	g.Fleets.Remove(src.ID)

	return Outcome{Kind: cmd.Kind}
}

// applyTransferFighters shuttles embarked fighter squadrons between two
// colocated carrier squadrons - explicitly allowed in deep space.
func applyTransferFighters(g *store.GameState, cfg *model.ConfigSnapshot, house model.HouseID, cmd model.ZeroTurnCommand) Outcome {
	srcFleet, err := ownsFleet(g, house, cmd.Fleet)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	dstFleet, err := ownsFleet(g, house, cmd.OtherFleet)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	if srcFleet.System != dstFleet.System {
		return Outcome{Kind: cmd.Kind, Err: ErrWrongLocationClass}
	}
	if cmd.SourceFleet == 0 || len(cmd.Squadrons) == 0 {
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: transfer fighters requires a source carrier and a destination carrier")}
	}
	srcCarrier, ok := g.Squadrons.Get(cmd.SourceFleet)
	if !ok {
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: unknown source carrier squadron")}
	}
	dstCarrierID := cmd.Squadrons[0]
	dstCarrier, ok := g.Squadrons.Get(dstCarrierID)
	if !ok {
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: unknown destination carrier squadron")}
	}

	moving := cmd.Squadrons[1:]
	if len(dstCarrier.EmbarkedFighters)+len(moving) > hangarCapacity(g, cfg, dstCarrier) {
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: transfer exceeds the receiving carrier's hangar capacity")}
	}
	movingSet := map[model.SquadronID]bool{}
	for _, s := range moving {
		movingSet[s] = true
	}
	remaining := srcCarrier.EmbarkedFighters[:0:0]
	for _, f := range srcCarrier.EmbarkedFighters {
		if movingSet[f] {
			dstCarrier.EmbarkedFighters = append(dstCarrier.EmbarkedFighters, f)
		} else {
			remaining = append(remaining, f)
		}
	}
	srcCarrier.EmbarkedFighters = remaining

	g.Squadrons.Upsert(srcCarrier)
	g.Squadrons.Upsert(dstCarrier)

	return Outcome{Kind: cmd.Kind}
}

// --- Colony-required commands ---

// applyLoadCargo loads colonists (PU) from a friendly colony onto the
// fleet's spacelift capacity, enforcing the minimum-1-PU-at-source rule
// and the fleet's carry capacity.
func applyLoadCargo(g *store.GameState, cfg *model.ConfigSnapshot, house model.HouseID, cmd model.ZeroTurnCommand) Outcome {
	f, err := ownsFleet(g, house, cmd.Fleet)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	colony, err := friendlyColonyAt(g, house, f)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	remaining := colony.PopulationUnits.Sub(cmd.Colonists)
	if cmd.Colonists.IsZero() || remaining.LessThan(decimal.NewFromInt(1)) {
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: colony must retain at least 1 PU after loading colonists")}
	}
	if f.CargoPU.Add(cmd.Colonists).GreaterThan(spaceliftCapacity(g, cfg, f)) {
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: load exceeds the fleet's spacelift capacity")}
	}
	colony.PopulationUnits = remaining
	f.CargoPU = f.CargoPU.Add(cmd.Colonists)
	g.Colonies.Upsert(colony)
	g.Fleets.Upsert(f)
	return Outcome{Kind: cmd.Kind}
}

// applyUnloadCargo offloads carried colonists onto a friendly colony;
// only what the fleet actually carries lands.
func applyUnloadCargo(g *store.GameState, house model.HouseID, cmd model.ZeroTurnCommand) Outcome {
	f, err := ownsFleet(g, house, cmd.Fleet)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	colony, err := friendlyColonyAt(g, house, f)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	amount := cmd.Colonists
	if amount.GreaterThan(f.CargoPU) {
		amount = f.CargoPU
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: no colonists aboard to unload")}
	}
	colony.PopulationUnits = colony.PopulationUnits.Add(amount)
	f.CargoPU = f.CargoPU.Sub(amount)
	g.Colonies.Upsert(colony)
	g.Fleets.Upsert(f)
	return Outcome{Kind: cmd.Kind}
}

// applyLoadFighters embarks fighter squadrons from the colony's
// unassigned pool onto a carrier squadron in the fleet, bounded by the
// carrier flagship's hangar capacity.
func applyLoadFighters(g *store.GameState, cfg *model.ConfigSnapshot, house model.HouseID, cmd model.ZeroTurnCommand) Outcome {
	f, err := ownsFleet(g, house, cmd.Fleet)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	colony, err := friendlyColonyAt(g, house, f)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	if len(cmd.Squadrons) < 2 {
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: load fighters requires a destination carrier and at least one fighter squadron")}
	}
	carrier, ok := g.Squadrons.Get(cmd.Squadrons[0])
	if !ok {
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: unknown carrier squadron")}
	}
	loading := cmd.Squadrons[1:]
	if len(carrier.EmbarkedFighters)+len(loading) > hangarCapacity(g, cfg, carrier) {
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: load exceeds the carrier's hangar capacity")}
	}

	available := map[model.SquadronID]bool{}
	for _, s := range colony.UnassignedSquadrons {
		available[s] = true
	}
	for _, s := range loading {
		if !available[s] {
			return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: squadron %s is not waiting at the colony", s)}
		}
	}

	loadingSet := map[model.SquadronID]bool{}
	for _, s := range loading {
		loadingSet[s] = true
	}
	remaining := colony.UnassignedSquadrons[:0:0]
	for _, s := range colony.UnassignedSquadrons {
		if !loadingSet[s] {
			remaining = append(remaining, s)
		}
	}
	colony.UnassignedSquadrons = remaining
	carrier.EmbarkedFighters = append(carrier.EmbarkedFighters, loading...)

	g.Squadrons.Upsert(carrier)
	g.Colonies.Upsert(colony)
	return Outcome{Kind: cmd.Kind}
}

// applyUnloadFighters disembarks fighter squadrons from a carrier back
// into the colony's unassigned pool.
func applyUnloadFighters(g *store.GameState, house model.HouseID, cmd model.ZeroTurnCommand) Outcome {
	f, err := ownsFleet(g, house, cmd.Fleet)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	colony, err := friendlyColonyAt(g, house, f)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	if len(cmd.Squadrons) < 1 {
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: unload fighters requires a source carrier")}
	}
	carrier, ok := g.Squadrons.Get(cmd.Squadrons[0])
	if !ok {
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: unknown carrier squadron")}
	}
	unload := map[model.SquadronID]bool{}
	for _, s := range cmd.Squadrons[1:] {
		unload[s] = true
	}
	remaining := carrier.EmbarkedFighters[:0:0]
	for _, fighter := range carrier.EmbarkedFighters {
		if unload[fighter] {
			colony.UnassignedSquadrons = append(colony.UnassignedSquadrons, fighter)
		} else {
			remaining = append(remaining, fighter)
		}
	}
	carrier.EmbarkedFighters = remaining

	g.Squadrons.Upsert(carrier)
	g.Colonies.Upsert(colony)
	return Outcome{Kind: cmd.Kind}
}

// applyReactivate brings a Mothballed fleet back to Active at a friendly
// colony (it requires a refit, i.e. the colony-required location class).
func applyReactivate(g *store.GameState, house model.HouseID, cmd model.ZeroTurnCommand) Outcome {
	f, err := ownsFleet(g, house, cmd.Fleet)
	if err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	if f.Status != model.Mothballed {
		return Outcome{Kind: cmd.Kind, Err: fmt.Errorf("logistics: only mothballed fleets can be reactivated")}
	}
	if _, err := friendlyColonyAt(g, house, f); err != nil {
		return Outcome{Kind: cmd.Kind, Err: err}
	}
	f.Status = model.Active
	g.Fleets.Upsert(f)
	return Outcome{Kind: cmd.Kind}
}
