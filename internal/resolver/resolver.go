// Package resolver implements the single deterministic turn-resolution
// function driving the four-phase pipeline (Conflict -> Income ->
// Command -> Maintenance) over every house's validated orders. A single
// entry point walks every subsystem once per turn in a fixed order, so
// two runs over the same state, orders and seed produce identical
// results.
package resolver

import (
	"sort"

	"github.com/shopspring/decimal"

	"hexdominion/internal/combat"
	"hexdominion/internal/economy"
	"hexdominion/internal/events"
	"hexdominion/internal/intel"
	"hexdominion/internal/logistics"
	"hexdominion/internal/model"
	"hexdominion/internal/movement"
	"hexdominion/internal/orders"
	"hexdominion/internal/research"
	"hexdominion/internal/rng"
	"hexdominion/internal/starmap"
	"hexdominion/internal/store"
)

// diplomacyCooldownTurns is how long a Hostile relation persists
// before automatically cooling to Neutral absent a fresh escalation.
const diplomacyCooldownTurns = 10

// investmentBonusPerEBP converts a house's per-turn EBP investment
// into a breakthrough-chance bonus; the resulting chance is still
// subject to the configured hard cap.
var investmentBonusPerEBP = decimal.NewFromFloat(0.001)

// ResolveTurn is the resolver's single entry point: `(state, orders, seed)
// -> (newState, events)`. It mutates `g` in place and returns it as
// the new state - this store has no deep-clone primitive, so "new state"
// is the same object advanced one turn; callers wanting snapshot-before
// semantics must copy upstream of this call.
func ResolveTurn(g *store.GameState, cfg *model.ConfigSnapshot, packets []model.OrderPacket, masterSeed int64) (*store.GameState, *events.Log, error) {
	g.Turn++
	turn := g.Turn
	perTurnSeed := rng.PerTurnSeed(masterSeed, turn)
	log := events.NewLog()

	accepted := make(map[model.HouseID]orders.Result, len(packets))
	for _, pkt := range packets {
		room := economy.SquadronLimit(g, pkt.House) - economy.SquadronCount(g, pkt.House)
		res := orders.Validate(g, pkt, func(bo model.BuildOrder) (decimal.Decimal, bool) { return economy.CostOf(cfg, bo) }, room)
		accepted[pkt.House] = res
		emitRejections(log, turn, pkt.House, res)

		for _, cmd := range pkt.ZeroTurnCommands {
			out := logistics.Apply(g, cfg, pkt.House, cmd)
			if out.Err != nil {
				log.Emit(events.Event{
					Kind: events.KindOrderRejected, Phase: events.PhaseCommand, Turn: turn,
					Houses: []model.HouseID{pkt.House},
					Payload: map[string]any{"zeroTurnKind": int(cmd.Kind), "error": out.Err.Error()},
				})
			}
		}
	}

	runConflict(g, cfg, log, turn, perTurnSeed, accepted)
	runIncome(g, cfg, log, turn, perTurnSeed, accepted)
	runCommand(g, cfg, log, turn, perTurnSeed, accepted)
	runMaintenance(g, cfg, log, turn, perTurnSeed, accepted)

	if err := store.CheckInvariants(g); err != nil {
		return g, log, err
	}
	return g, log, nil
}

// acceptedInOrder returns the accepted results keyed ascending by house
// ID, so phases that walk every house's orders do so in an order
// independent of Go's map iteration.
func acceptedInOrder(accepted map[model.HouseID]orders.Result) []orders.Result {
	ids := make([]model.HouseID, 0, len(accepted))
	for h := range accepted {
		ids = append(ids, h)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]orders.Result, 0, len(ids))
	for _, h := range ids {
		out = append(out, accepted[h])
	}
	return out
}

func emitRejections(log *events.Log, turn int, house model.HouseID, res orders.Result) {
	for _, rej := range res.Rejections {
		log.Emit(events.Event{
			Kind: events.KindOrderRejected, Phase: events.PhaseCommand, Turn: turn,
			Houses:  []model.HouseID{house},
			Payload: map[string]any{"orderKind": rej.OrderKind, "index": rej.Index, "reason": rej.Reason.String(), "detail": rej.Detail},
		})
	}
}

// systemsWithMultipleHouses lists, in ascending system-ID order for
// determinism, every system where combat-capable presence from more than
// one house coexists.
func systemsWithMultipleHouses(g *store.GameState) []model.SystemID {
	present := map[model.SystemID]map[model.HouseID]struct{}{}
	mark := func(sys model.SystemID, h model.HouseID) {
		set, ok := present[sys]
		if !ok {
			set = map[model.HouseID]struct{}{}
			present[sys] = set
		}
		set[h] = struct{}{}
	}
	for _, f := range g.Fleets.All() {
		if f.Status != model.Reserve {
			mark(f.System, f.Owner)
		}
	}
	for _, c := range g.Colonies.All() {
		mark(c.System, c.Owner)
	}

	var out []model.SystemID
	for sys, set := range present {
		if len(set) > 1 {
			out = append(out, sys)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// anyHostilePair reports whether any two task forces present are
// mutually Hostile - combat only fires when genuine conflict exists, not
// merely shared occupancy by Allied or Neutral houses.
func anyHostilePair(g *store.GameState, tfs []*combat.TaskForce) bool {
	for i, a := range tfs {
		for _, b := range tfs[i+1:] {
			ha, ok := g.Houses.Get(a.House)
			if !ok {
				continue
			}
			if ha.RelationWith(b.House).State == model.Hostile {
				return true
			}
		}
	}
	return false
}

// runConflict is phase 1: gather task forces, run combat, apply
// blockade status, resolve bombardment/invasion consequences of fleet
// orders already standing at their target system.
func runConflict(g *store.GameState, cfg *model.ConfigSnapshot, log *events.Log, turn int, perTurnSeed int64, accepted map[model.HouseID]orders.Result) {
	for _, sys := range systemsWithMultipleHouses(g) {
		tfs := combat.GatherTaskForces(g, sys)
		if len(tfs) < 2 || !anyHostilePair(g, tfs) {
			continue
		}

		out := combat.Resolve(g, cfg, sys, tfs, perTurnSeed, true)
		combat.ApplyRetreats(g, sys, out)
		emitCombatEvents(log, turn, sys, out)
	}

	resolveBombardAndInvade(g, cfg, log, turn, perTurnSeed, accepted)
	applyBlockades(g, log, turn, accepted)
}

func emitCombatEvents(log *events.Log, turn int, sys model.SystemID, out *combat.Outcome) {
	sysCopy := sys
	houses := map[model.HouseID]struct{}{}
	for _, tf := range out.SurvivingTaskForces {
		houses[tf.House] = struct{}{}
	}
	for h := range out.Retreated {
		houses[h] = struct{}{}
	}
	for _, h := range out.Eliminated {
		houses[h] = struct{}{}
	}
	var houseList []model.HouseID
	for h := range houses {
		houseList = append(houseList, h)
	}
	sort.Slice(houseList, func(i, j int) bool { return houseList[i] < houseList[j] })

	kind := events.KindCombatResolved
	if out.WasStalemate {
		kind = events.KindCombatStalemate
	}
	log.Emit(events.Event{
		Kind: kind, Phase: events.PhaseConflict, Turn: turn,
		Houses: houseList, System: &sysCopy,
		Payload: map[string]any{
			"rounds":              len(out.Rounds),
			"destroyedShips":      len(out.DestroyedShips),
			"destroyedFacilities": len(out.DestroyedFacilities),
			"eliminated":          out.Eliminated,
		},
	})

	for _, h := range out.Eliminated {
		log.Emit(events.Event{Kind: events.KindHouseEliminated, Phase: events.PhaseConflict, Turn: turn, Houses: []model.HouseID{h}, System: &sysCopy})
	}
}

// resolveBombardAndInvade executes standing Bombard/Invade fleet orders
// whose fleet is already present at the target system this turn (those
// orders are issued in a prior Command phase; by the time Conflict runs
// next turn, the fleet has arrived). Gated on the defender's combat
// presence having been cleared (or never existing) at that system.
func resolveBombardAndInvade(g *store.GameState, cfg *model.ConfigSnapshot, log *events.Log, turn int, perTurnSeed int64, accepted map[model.HouseID]orders.Result) {
	for _, res := range acceptedInOrder(accepted) {
		house := res.Packet.House
		for _, fo := range res.AcceptedFleet {
			if fo.Kind != model.OrderBombard && fo.Kind != model.OrderInvade {
				continue
			}
			fleet, ok := g.Fleets.Get(fo.Fleet)
			if !ok || fleet.System != fo.Target || !fleet.CanFight() {
				continue
			}
			colony, ok := g.Colonies.AtSystem(fo.Target)
			if !ok || colony.Owner == house {
				continue
			}
			if defenderSurvived(g, fo.Target, house) {
				continue
			}

			sysCopy := fo.Target
			if fo.Kind == model.OrderBombard {
				res := combat.Bombard(g, cfg, perTurnSeed, colony)
				if res.ProjectsLost > 0 {
					log.Emit(events.Event{
						Kind: events.KindColonyProjectsLost, Phase: events.PhaseConflict, Turn: turn,
						Houses: []model.HouseID{colony.Owner, house}, System: &sysCopy, Colony: &colony.ID,
						Payload: map[string]any{"count": res.ProjectsLost, "iuLost": res.IULost.String(), "puLost": res.PULost.String()},
					})
				}
				continue
			}

			strength := invadingMarines(g, cfg, fleet)
			if strength == 0 {
				continue
			}
			inv := combat.Invade(g, cfg, perTurnSeed, house, colony, strength)
			if inv.Success {
				log.Emit(events.Event{
					Kind: events.KindColonyConquered, Phase: events.PhaseConflict, Turn: turn,
					Houses: []model.HouseID{inv.PreviousOwner, inv.NewOwner}, System: &sysCopy, Colony: &colony.ID,
				})
			}
		}
	}
}

// defenderSurvived reports whether any house other than the attacker
// still has a combat-capable fleet with squadrons in the system after
// this turn's ship combat -
// bombardment/invasion only proceed against an undefended or cleared
// system.
func defenderSurvived(g *store.GameState, sys model.SystemID, attacker model.HouseID) bool {
	for _, f := range g.Fleets.AtSystem(sys) {
		if f.Owner != attacker && f.CanFight() && len(f.Squadrons) > 0 {
			return true
		}
	}
	return false
}

// invadingMarines sums the carry capacity of the fleet's spacelift
// ships as the ground-assault strength a loaded transport contingent
// can land.
func invadingMarines(g *store.GameState, cfg *model.ConfigSnapshot, f *model.Fleet) int {
	total := 0
	for _, shipID := range f.Spacelift {
		ship, ok := g.Ships.Get(shipID)
		if !ok {
			continue
		}
		stats, ok := cfg.Ships[ship.Class]
		if !ok || !stats.IsSpacelift {
			continue
		}
		total += stats.CarryCapacity
	}
	return total
}

// applyBlockades sets the Blockaded flag on any colony hosting a
// surviving hostile fleet under a BlockadePlanet mission - whether
// ordered this turn or standing from a prior one - and clears it
// otherwise; clearing after a broken blockade (fleet retreated or
// destroyed in this turn's combat) falls out of the same re-evaluation.
func applyBlockades(g *store.GameState, log *events.Log, turn int, accepted map[model.HouseID]orders.Result) {
	blockading := map[model.ColonyID]bool{}
	markBlockade := func(fleet *model.Fleet, target model.SystemID) {
		if fleet.System != target || !fleet.CanFight() {
			return
		}
		colony, ok := g.Colonies.AtSystem(target)
		if !ok || colony.Owner == fleet.Owner {
			return
		}
		blockading[colony.ID] = true
	}

	for _, f := range g.Fleets.All() {
		if f.Command != nil && f.Command.Mission == model.BlockadePlanet {
			markBlockade(f, f.Command.Target)
		}
	}
	for _, res := range acceptedInOrder(accepted) {
		for _, fo := range res.AcceptedFleet {
			if fo.Kind != model.OrderBlockadePlanet {
				continue
			}
			if fleet, ok := g.Fleets.Get(fo.Fleet); ok {
				markBlockade(fleet, fo.Target)
			}
		}
	}

	for _, c := range g.Colonies.All() {
		want := blockading[c.ID]
		if want == c.Blockaded {
			continue
		}
		c.Blockaded = want
		g.Colonies.Upsert(c)
		sysCopy := c.System
		kind := events.KindBlockadeCleared
		if want {
			kind = events.KindBlockadeApplied
		}
		log.Emit(events.Event{Kind: kind, Phase: events.PhaseConflict, Turn: turn, Houses: []model.HouseID{c.Owner}, System: &sysCopy, Colony: &c.ID})
	}
}

// runIncome is phase 2: tax/production, research allocation,
// population growth.
func runIncome(g *store.GameState, cfg *model.ConfigSnapshot, log *events.Log, turn int, perTurnSeed int64, accepted map[model.HouseID]orders.Result) {
	for _, house := range g.Houses.All() {
		grossTotal := decimal.Zero
		for _, colony := range g.Colonies.ByOwner(house.ID) {
			gross := economy.ProductionIndex(cfg, colony, house)
			grossTotal = grossTotal.Add(gross)
			income := economy.CollectIncome(cfg, colony, house)
			house.Treasury = house.Treasury.Add(income)

			hasStarbase := colonyHasStarbase(g, colony)
			economy.GrowPopulation(cfg, colony, hasStarbase)
			g.Colonies.Upsert(colony)
		}

		if res, ok := accepted[house.ID]; ok {
			research.Allocate(cfg, house, res.Packet.ResearchAllocation, grossTotal)
		}

		g.Houses.Upsert(house)
	}
}

func colonyHasStarbase(g *store.GameState, colony *model.Colony) bool {
	for _, fid := range colony.Facilities {
		if fac, ok := g.Facilities.Get(fid); ok && fac.Kind == model.Starbase && fac.State != model.Destroyed {
			return true
		}
	}
	return false
}

// runCommand is phase 3: standing-order dispatch, movement,
// construction intake, colonization/population transfers, espionage
// submission.
func runCommand(g *store.GameState, cfg *model.ConfigSnapshot, log *events.Log, turn int, perTurnSeed int64, accepted map[model.HouseID]orders.Result) {
	movedThisTurn := map[model.FleetID]bool{}

	for _, house := range g.Houses.All() {
		for _, res := range movement.EvaluateSeekHome(g, cfg, house.ID) {
			fleetID := res.Fleet
			log.Emit(events.Event{
				Kind: events.KindFleetSeekHome, Phase: events.PhaseCommand, Turn: turn,
				Houses: []model.HouseID{house.ID}, Fleet: &fleetID,
				Payload: map[string]any{"held": res.Held, "destination": res.Destination},
			})
			executeSeekHome(g, cfg, res)
			movedThisTurn[res.Fleet] = true
		}

		dispatchStandingOrders(g, cfg, turn, house.ID, movedThisTurn)
	}

	for _, res := range acceptedInOrder(accepted) {
		house := res.Packet.House

		for _, fo := range res.AcceptedFleet {
			applyFleetOrder(g, cfg, log, turn, house, fo)
			movedThisTurn[fo.Fleet] = true
		}

		for _, bo := range res.AcceptedBuild {
			for i := 0; i < maxInt(bo.Quantity, 1); i++ {
				proj, err := economy.Enqueue(g, cfg, house, bo)
				if err != nil {
					continue
				}
				colonyID := bo.Anchor.Colony
				log.Emit(events.Event{
					Kind: events.KindProjectQueued, Phase: events.PhaseCommand, Turn: turn,
					Houses: []model.HouseID{house}, Colony: &colonyID,
					Payload: map[string]any{"project": proj.ID.String(), "kind": int(proj.Kind), "eta": events.ETA(proj.TurnsRemaining)},
				})
			}
		}

		for _, pt := range res.Packet.PopulationTransfers {
			applyPopulationTransfer(g, house, pt)
		}

		for _, cid := range res.Packet.TerraformOrders {
			applyTerraform(g, cfg, cid)
		}

		for _, da := range res.Packet.DiplomaticActions {
			applyDiplomaticAction(g, log, turn, house, da)
		}

		for _, ea := range res.AcceptedEspionage {
			mission, err := intel.StartMission(g, house, ea.Squadron, ea.Target, turn)
			if err != nil {
				log.Emit(events.Event{
					Kind: events.KindOrderRejected, Phase: events.PhaseCommand, Turn: turn,
					Houses:  []model.HouseID{house},
					Payload: map[string]any{"orderKind": "espionage", "error": err.Error()},
				})
				continue
			}
			log.Emit(events.Event{
				Kind: events.KindScoutMissionStarted, Phase: events.PhaseCommand, Turn: turn,
				Houses:  []model.HouseID{house},
				Payload: map[string]any{"mission": mission.ID.String(), "eta": events.ETA(len(mission.Path))},
			})
		}
	}

	continueInFlightMoves(g, cfg, log, turn, movedThisTurn)

	for _, m := range g.Scouts.All() {
		result := intel.AdvanceMission(g, perTurnSeed, cfg, m, turn)
		emitScoutEvent(log, turn, m, result)
	}

	processColonization(g, cfg, log, turn)

	for _, house := range g.Houses.All() {
		economy.AutoAssign(g, house.ID)
	}
}

// executeSeekHome moves an aborted-mission fleet towards its chosen
// refuge this turn, keeping the SeekHome mission alive while hops
// remain so the retreat continues on subsequent turns.
func executeSeekHome(g *store.GameState, cfg *model.ConfigSnapshot, res movement.SeekHomeResult) {
	if res.Held {
		return
	}
	fleet, ok := g.Fleets.Get(res.Fleet)
	if !ok || fleet.Command == nil {
		return
	}
	target := fleet.Command.Target
	comp := movement.Composition(g, cfg, fleet)
	if _, err := movement.ApplyMoveOrder(g, fleet, comp, target); err == nil && fleet.Command != nil {
		fleet.Command.Mission = model.SeekHome
	}
	g.Fleets.Upsert(fleet)
}

// processColonization settles every fleet whose Colonize mission has
// reached an unclaimed target: the fleet's first Expansion squadron
// (the ETAC) is expended, and
// any colonists riding the fleet's spacelift capacity found the colony
// alongside the settler cadre the ETAC itself carries.
func processColonization(g *store.GameState, cfg *model.ConfigSnapshot, log *events.Log, turn int) {
	for _, f := range g.Fleets.All() {
		if f.Command == nil || f.Command.Mission != model.Colonize || f.System != f.Command.Target {
			continue
		}
		if _, taken := g.Colonies.AtSystem(f.System); taken {
			f.Command = nil
			g.Fleets.Upsert(f)
			continue
		}

		etac := model.SquadronID(model.InvalidID)
		for _, sid := range f.Squadrons {
			if sq, ok := g.Squadrons.Get(sid); ok && sq.Type == model.Expansion {
				etac = sid
				break
			}
		}
		if etac == model.InvalidID {
			continue
		}

		if sq, ok := g.Squadrons.Get(etac); ok {
			for _, shipID := range sq.Ships() {
				g.Ships.Remove(shipID)
			}
			g.Squadrons.Remove(etac)
		}
		var kept []model.SquadronID
		for _, sid := range f.Squadrons {
			if sid != etac {
				kept = append(kept, sid)
			}
		}
		f.Squadrons = kept

		pu := decimal.NewFromInt(1).Add(f.CargoPU)
		f.CargoPU = decimal.Zero
		colony := &model.Colony{
			ID:              g.NextColonyID(),
			Owner:           f.Owner,
			System:          f.System,
			PlanetClass:     "Terran",
			ResourceRating:  3,
			PopulationUnits: pu,
			TaxRate:         decimal.NewFromFloat(0.2),
		}
		g.Colonies.Upsert(colony)
		f.Command = nil
		g.Fleets.Upsert(f)

		sysCopy := colony.System
		log.Emit(events.Event{
			Kind: events.KindColonyFounded, Phase: events.PhaseCommand, Turn: turn,
			Houses: []model.HouseID{f.Owner}, System: &sysCopy, Colony: &colony.ID,
			Payload: map[string]any{"population": pu.String()},
		})
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func emitScoutEvent(log *events.Log, turn int, m *model.ScoutMission, result intel.AdvanceResult) {
	if !result.Destroyed && !result.Detected {
		return
	}
	kind := events.KindScoutDetected
	if result.Destroyed {
		kind = events.KindScoutDestroyed
	}
	log.Emit(events.Event{
		Kind: kind, Phase: events.PhaseCommand, Turn: turn,
		Houses:  []model.HouseID{m.Owner},
		Payload: map[string]any{"mission": m.ID.String()},
	})
}

// dispatchStandingOrders advances one step of each of a house's
// PatrolRoute fleets; other
// standing-order kinds (DefendSystem/GuardColony/Hold/AutoColonize) are
// passive postures with no per-turn action of their own.
func dispatchStandingOrders(g *store.GameState, cfg *model.ConfigSnapshot, turn int, house model.HouseID, movedThisTurn map[model.FleetID]bool) {
	for _, f := range g.Fleets.ByOwner(house) {
		if f.Standing == nil || f.Standing.Suspended || f.Standing.Kind != model.PatrolRoute {
			continue
		}
		if len(f.Standing.Route) == 0 || !f.CanMove() || movedThisTurn[f.ID] {
			continue
		}
		next := f.Standing.Route[f.Standing.NextHop%len(f.Standing.Route)]
		comp := movement.Composition(g, cfg, f)
		if _, err := movement.ApplyMoveOrder(g, f, comp, next); err == nil && f.Command == nil {
			f.Standing.NextHop = (f.Standing.NextHop + 1) % len(f.Standing.Route)
			f.Standing.LastRanTurn = turn
		}
		movedThisTurn[f.ID] = true
		g.Fleets.Upsert(f)
	}
}

// continueInFlightMoves advances every fleet still carrying an
// unconsumed movement path from a prior turn - a multi-hop Move,
// SeekHome retreat, or approach leg that could not finish in one turn -
// unless something else already moved the fleet this turn.
func continueInFlightMoves(g *store.GameState, cfg *model.ConfigSnapshot, log *events.Log, turn int, movedThisTurn map[model.FleetID]bool) {
	for _, f := range g.Fleets.All() {
		if movedThisTurn[f.ID] || f.Command == nil || len(f.Command.Path) == 0 {
			continue
		}
		if !f.CanMove() {
			continue
		}
		mission := f.Command.Mission
		target := f.Command.Target
		comp := movement.Composition(g, cfg, f)
		hops, err := movement.ApplyMoveOrder(g, f, comp, target)
		if err == nil && hops > 0 {
			switch {
			case f.Command != nil:
				f.Command.Mission = mission
			case missionPersistsOnArrival(mission):
				f.Command = &model.FleetCommand{Mission: mission, Target: target}
			}
			fleetID := f.ID
			log.Emit(events.Event{Kind: events.KindFleetMoved, Phase: events.PhaseCommand, Turn: turn, Houses: []model.HouseID{f.Owner}, Fleet: &fleetID, Payload: map[string]any{"hops": hops}})
			emitArrivalDetection(g, log, turn, f)
		}
		movedThisTurn[f.ID] = true
		g.Fleets.Upsert(f)
	}
}

func applyFleetOrder(g *store.GameState, cfg *model.ConfigSnapshot, log *events.Log, turn int, house model.HouseID, fo model.FleetOrder) {
	fleet, ok := g.Fleets.Get(fo.Fleet)
	if !ok || fleet.Owner != house {
		return
	}

	switch fo.Kind {
	case model.OrderMove:
		comp := movement.Composition(g, cfg, fleet)
		hops, err := movement.ApplyMoveOrder(g, fleet, comp, fo.Target)
		if err == nil && hops > 0 {
			fleetID := fleet.ID
			log.Emit(events.Event{Kind: events.KindFleetMoved, Phase: events.PhaseCommand, Turn: turn, Houses: []model.HouseID{house}, Fleet: &fleetID, Payload: map[string]any{"hops": hops}})
			emitArrivalDetection(g, log, turn, fleet)
		}
		g.Fleets.Upsert(fleet)
	case model.OrderColonize:
		comp := movement.Composition(g, cfg, fleet)
		movement.ApplyMoveOrder(g, fleet, comp, fo.Target)
		if fleet.Command == nil {
			fleet.Command = &model.FleetCommand{Mission: model.Colonize, Target: fo.Target}
		} else {
			fleet.Command.Mission = model.Colonize
		}
		g.Fleets.Upsert(fleet)
	case model.OrderGuardPlanet:
		fleet.Command = &model.FleetCommand{Mission: model.GuardPlanet, Target: fo.Target}
		g.Fleets.Upsert(fleet)
	case model.OrderGuardStarbase:
		fleet.Command = &model.FleetCommand{Mission: model.GuardStarbase, Target: fo.Target}
		g.Fleets.Upsert(fleet)
	case model.OrderBlockadePlanet:
		comp := movement.Composition(g, cfg, fleet)
		hops, err := movement.ApplyMoveOrder(g, fleet, comp, fo.Target)
		fleet.Command = &model.FleetCommand{Mission: model.BlockadePlanet, Target: fo.Target}
		if err == nil && hops > 0 {
			emitArrivalDetection(g, log, turn, fleet)
		}
		g.Fleets.Upsert(fleet)
	case model.OrderPatrol:
		fleet.Command = &model.FleetCommand{Mission: model.Patrol, Target: fo.Target}
		g.Fleets.Upsert(fleet)
	case model.OrderAttack, model.OrderBombard, model.OrderInvade:
		comp := movement.Composition(g, cfg, fleet)
		hops, err := movement.ApplyMoveOrder(g, fleet, comp, fo.Target)
		if err == nil && hops > 0 {
			emitArrivalDetection(g, log, turn, fleet)
		}
		g.Fleets.Upsert(fleet)
	case model.OrderHold, model.OrderSeekHomeManual:
		fleet.Command = nil
		g.Fleets.Upsert(fleet)
	case model.OrderSetROE:
		fleet.ROE = fo.ROE
		g.Fleets.Upsert(fleet)
	case model.OrderSetAutoBalance:
		fleet.AutoBalance = !fleet.AutoBalance
		g.Fleets.Upsert(fleet)
	case model.OrderActivate:
		fleet.Status = model.Active
		g.Fleets.Upsert(fleet)
	case model.OrderMothball:
		fleet.Status = model.Mothballed
		g.Fleets.Upsert(fleet)
	case model.OrderSetReserve:
		fleet.Status = model.Reserve
		g.Fleets.Upsert(fleet)
	case model.OrderEspionage:
		dispatchFleetEspionage(g, log, turn, house, fleet, fo.Target)
	case model.OrderScrap:
		scrapFleet(g, fleet)
	case model.OrderRename:
		// Display names live outside the core entity store; nothing to mutate here.
	}
}

// dispatchFleetEspionage launches the fleet's first single-ship Intel
// squadron on a spy mission against the target system. This is the
// fleet-order form of espionage; the packet-level Espionage channel
// does the same for an explicitly named squadron.
func dispatchFleetEspionage(g *store.GameState, log *events.Log, turn int, house model.HouseID, fleet *model.Fleet, target model.SystemID) {
	scout := model.SquadronID(model.InvalidID)
	for _, sid := range fleet.Squadrons {
		if sq, ok := g.Squadrons.Get(sid); ok && sq.Type == model.Intel && len(sq.Subordinate) == 0 {
			scout = sid
			break
		}
	}
	if scout == model.InvalidID {
		log.Emit(events.Event{
			Kind: events.KindOrderRejected, Phase: events.PhaseCommand, Turn: turn,
			Houses:  []model.HouseID{house},
			Payload: map[string]any{"orderKind": "fleet-espionage", "error": "no single-ship scout squadron in fleet"},
		})
		return
	}
	mission, err := intel.StartMission(g, house, scout, target, turn)
	if err != nil {
		log.Emit(events.Event{
			Kind: events.KindOrderRejected, Phase: events.PhaseCommand, Turn: turn,
			Houses:  []model.HouseID{house},
			Payload: map[string]any{"orderKind": "fleet-espionage", "error": err.Error()},
		})
		return
	}
	log.Emit(events.Event{
		Kind: events.KindScoutMissionStarted, Phase: events.PhaseCommand, Turn: turn,
		Houses:  []model.HouseID{house},
		Payload: map[string]any{"mission": mission.ID.String(), "eta": events.ETA(len(mission.Path))},
	})
}

// missionPersistsOnArrival reports whether a mission keeps governing
// the fleet once it reaches its target system (a SeekHome or plain move
// completes on arrival; a guard/blockade/patrol/colonize posture
// remains until resolved or aborted).
func missionPersistsOnArrival(m model.MissionKind) bool {
	switch m {
	case model.Colonize, model.GuardPlanet, model.GuardStarbase, model.BlockadePlanet, model.Patrol:
		return true
	default:
		return false
	}
}

// emitArrivalDetection alerts another house when a fleet ends its
// movement in a system that house holds a colony in.
func emitArrivalDetection(g *store.GameState, log *events.Log, turn int, fleet *model.Fleet) {
	colony, ok := g.Colonies.AtSystem(fleet.System)
	if !ok || colony.Owner == fleet.Owner {
		return
	}
	sysCopy := fleet.System
	fleetID := fleet.ID
	log.Emit(events.Event{
		Kind: events.KindEnemyDetected, Phase: events.PhaseCommand, Turn: turn,
		Houses: []model.HouseID{colony.Owner}, System: &sysCopy, Fleet: &fleetID,
		Payload: map[string]any{"intruder": fleet.Owner},
	})
}

func scrapFleet(g *store.GameState, f *model.Fleet) {
	for _, sqID := range f.Squadrons {
		sq, ok := g.Squadrons.Get(sqID)
		if !ok {
			continue
		}
		for _, shipID := range sq.Ships() {
			g.Ships.Remove(shipID)
		}
		g.Squadrons.Remove(sqID)
	}
	for _, shipID := range f.Spacelift {
		g.Ships.Remove(shipID)
	}
	g.Fleets.Remove(f.ID)
}

func applyPopulationTransfer(g *store.GameState, house model.HouseID, pt model.PopulationTransfer) {
	from, ok := g.Colonies.Get(pt.From)
	if !ok || from.Owner != house {
		return
	}
	to, ok := g.Colonies.Get(pt.To)
	if !ok || to.Owner != house {
		return
	}
	amount := decimal.NewFromInt(int64(pt.Amount))
	if from.PopulationUnits.LessThan(amount) {
		return
	}
	from.PopulationUnits = from.PopulationUnits.Sub(amount)
	to.PopulationUnits = to.PopulationUnits.Add(amount)
	g.Colonies.Upsert(from)
	g.Colonies.Upsert(to)
}

// applyTerraform nudges a colony's resource rating up by one, the
// smallest well-defined effect consistent with declarative
// planet-class/resource-rating tables - terraforming's full cost/turn
// model is listed only as an input field in the reference, not detailed
// in the component design, so this is a minimal stand-in rather than an
// invented subsystem.
func applyTerraform(g *store.GameState, cfg *model.ConfigSnapshot, cid model.ColonyID) {
	colony, ok := g.Colonies.Get(cid)
	if !ok {
		return
	}
	colony.ResourceRating++
	g.Colonies.Upsert(colony)
}

func applyDiplomaticAction(g *store.GameState, log *events.Log, turn int, house model.HouseID, da model.DiplomaticAction) {
	h, ok := g.Houses.Get(house)
	if !ok {
		return
	}
	other, ok := g.Houses.Get(da.Target)
	if !ok {
		return
	}
	// A Neutral proposal always takes effect. Any other proposal takes
	// effect only when the other house already holds that state towards
	// this house; a matching proposal from the other house in the same
	// turn does not count. A proposal that does not take effect changes
	// nothing this turn.
	if other.RelationWith(house).State != da.Proposed && da.Proposed != model.Neutral {
		return
	}
	before := h.RelationWith(da.Target).State
	h.SetRelation(da.Target, da.Proposed, turn)
	g.Houses.Upsert(h)
	if before != da.Proposed {
		target := da.Target
		log.Emit(events.Event{Kind: events.KindDiplomacyChanged, Phase: events.PhaseCommand, Turn: turn, Houses: []model.HouseID{house, da.Target}, Payload: map[string]any{"with": target, "state": int(da.Proposed)}})
	}
}

// runMaintenance is phase 4: upkeep billing, construction/repair
// queue advancement, diplomacy timers, bi-annual tech advancement and
// breakthroughs, elimination check.
func runMaintenance(g *store.GameState, cfg *model.ConfigSnapshot, log *events.Log, turn int, perTurnSeed int64, accepted map[model.HouseID]orders.Result) {
	for _, house := range g.Houses.All() {
		cost := economy.MaintenanceCost(g, cfg, house.ID)
		house.Treasury = house.Treasury.Sub(cost)
		if house.Treasury.IsNegative() {
			log.Emit(events.Event{Kind: events.KindTreasuryDebt, Phase: events.PhaseMaintenance, Turn: turn, Houses: []model.HouseID{house.ID}, Payload: map[string]any{"deficit": house.Treasury.String()}})
		}
		g.Houses.Upsert(house)

		for _, colony := range g.Colonies.ByOwner(house.ID) {
			for _, shipID := range advanceConstructionForColony(g, cfg, colony) {
				shipCopy := shipID
				colonyID := colony.ID
				log.Emit(events.Event{
					Kind: events.KindShipCommissioned, Phase: events.PhaseMaintenance, Turn: turn,
					Houses: []model.HouseID{house.ID}, Colony: &colonyID,
					Payload: map[string]any{"ship": shipCopy.String()},
				})
			}
		}

		tickDiplomacyTimers(g, house, turn)

		ebp := 0
		if res, ok := accepted[house.ID]; ok {
			ebp = res.Packet.Investment.EBP
		}
		rollBreakthroughs(g, cfg, log, turn, perTurnSeed, house, ebp)

		if research.IsAdvancementTurn(cfg, turn) {
			for _, res := range research.Advance(cfg, house) {
				if !res.Capped {
					log.Emit(events.Event{Kind: events.KindTechAdvanced, Phase: events.PhaseMaintenance, Turn: turn, Houses: []model.HouseID{house.ID}, Payload: map[string]any{"category": res.Category, "level": res.NewLevel}})
				}
			}
		}
		g.Houses.Upsert(house)

		checkElimination(g, log, turn, house)
	}
}

func advanceConstructionForColony(g *store.GameState, cfg *model.ConfigSnapshot, colony *model.Colony) []model.ShipID {
	var commissioned []model.ShipID

	active := len(colony.UnderConstruction)
	ppPerProject := decimal.Zero
	if active > 0 {
		h, _ := g.Houses.Get(colony.Owner)
		gross := economy.ProductionIndex(cfg, colony, h)
		ppPerProject = gross.Div(decimal.NewFromInt(int64(active)))
	}
	commissioned = append(commissioned, economy.AdvanceColonyQueue(g, cfg, colony, ppPerProject)...)

	for _, fid := range colony.Facilities {
		fac, ok := g.Facilities.Get(fid)
		if !ok || len(fac.ActiveConstructions) == 0 {
			continue
		}
		h, _ := g.Houses.Get(colony.Owner)
		gross := economy.ProductionIndex(cfg, colony, h)
		facPP := gross.Div(decimal.NewFromInt(int64(len(fac.ActiveConstructions))))
		commissioned = append(commissioned, economy.AdvanceFacilityQueues(g, cfg, fac, facPP)...)
	}

	return commissioned
}

// tickDiplomacyTimers cools a Hostile relation back to Neutral once it
// has held for diplomacyCooldownTurns without fresh escalation.
func tickDiplomacyTimers(g *store.GameState, h *model.House, turn int) {
	for other, rel := range h.Relations {
		if rel.State == model.Hostile && turn-rel.EffectiveSince >= diplomacyCooldownTurns {
			h.SetRelation(other, model.Neutral, turn)
		}
	}
}

func rollBreakthroughs(g *store.GameState, cfg *model.ConfigSnapshot, log *events.Log, turn int, perTurnSeed int64, h *model.House, ebp int) {
	investmentBonus := investmentBonusPerEBP.Mul(decimal.NewFromInt(int64(ebp)))

	categories := make([]string, 0, len(h.TechTree.AccumulatedRP))
	for category := range h.TechTree.AccumulatedRP {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		rp := h.TechTree.AccumulatedRP[category]
		if rp.LessThanOrEqual(decimal.Zero) {
			continue
		}
		tier := research.RollBreakthrough(cfg, perTurnSeed, h, category, investmentBonus)
		if tier == research.NoBreakthrough {
			continue
		}
		h.Prestige += research.PrestigeFor(cfg, tier)
		log.Emit(events.Event{
			Kind: events.KindResearchBreakthrough, Phase: events.PhaseMaintenance, Turn: turn,
			Houses:  []model.HouseID{h.ID},
			Payload: map[string]any{"category": category, "tier": int(tier)},
		})
	}
}

func checkElimination(g *store.GameState, log *events.Log, turn int, h *model.House) {
	if h.Eliminated {
		return
	}
	if len(g.Colonies.ByOwner(h.ID)) > 0 || len(g.Fleets.ByOwner(h.ID)) > 0 {
		return
	}
	h.Eliminated = true
	g.Houses.Upsert(h)
	log.Emit(events.Event{Kind: events.KindHouseEliminated, Phase: events.PhaseMaintenance, Turn: turn, Houses: []model.HouseID{h.ID}})
}

// BuildFogOfWarViews projects every house's per-turn FogOfWarView, a thin convenience wrapper callers (cmd/hexturn) use
// right after ResolveTurn.
func BuildFogOfWarViews(g *store.GameState, turn int) map[model.HouseID]model.FogOfWarView {
	out := make(map[model.HouseID]model.FogOfWarView, g.Houses.Len())
	for _, h := range g.Houses.All() {
		out[h.ID] = intel.BuildFogOfWarView(g, h.ID, turn)
	}
	return out
}

// ShortestPathFor exposes the starmap pathfinder keyed by a fleet's live
// composition, used by cmd/hexturn to preview a Move order before
// submitting it.
func ShortestPathFor(g *store.GameState, cfg *model.ConfigSnapshot, f *model.Fleet, target model.SystemID) ([]model.SystemID, error) {
	comp := movement.Composition(g, cfg, f)
	return starmap.ShortestPath(g, f.System, target, comp)
}
