// Package economy implements production, taxation, population growth,
// construction routing/commissioning and maintenance billing. Capital
// ships build in facility docks while buildings, fighters and
// industrial expansion run through the colony's own queue; completed
// hulls commission into the colony's unassigned squadron pool.
package economy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"hexdominion/internal/model"
	"hexdominion/internal/store"
)

var elBonusPerLevel = decimal.NewFromFloat(0.05)
var elBonusCap = decimal.NewFromFloat(0.50) // +50% at EL10.
var blockadePenalty = decimal.NewFromFloat(0.5)

// taxDragFactor dampens production by the rolling tax average: a
// half-weighted drag, so a tax change costs output gradually rather
// than all at once (see DESIGN.md).
var taxDragFactor = decimal.NewFromFloat(0.5)

// ProductionIndex computes one colony's gross PP output for the turn:
// raw index from planet class and resource rating, times population x
// IU-scaling x tax_rate_modifier x EL-modifier (capped +50% at EL10) x
// morale_modifier x (1 - blockade_penalty).
func ProductionIndex(cfg *model.ConfigSnapshot, colony *model.Colony, house *model.House) decimal.Decimal {
	stats, ok := cfg.PlanetClasses[colony.PlanetClass]
	if !ok {
		return decimal.Zero
	}
	raw := stats.BaseIndex.Add(stats.ResourceWeight.Mul(decimal.NewFromInt(int64(colony.ResourceRating))))

	iuScale := decimal.NewFromInt(1).Add(colony.Infrastructure.Div(decimal.NewFromInt(100)))

	taxMod := decimal.NewFromInt(1).Sub(colony.TaxHistory.Average().Mul(taxDragFactor))
	if taxMod.IsNegative() {
		taxMod = decimal.Zero
	}

	elBonus := decimal.NewFromInt(int64(house.TechTree.EL)).Mul(elBonusPerLevel)
	if elBonus.GreaterThan(elBonusCap) {
		elBonus = elBonusCap
	}
	elMod := decimal.NewFromInt(1).Add(elBonus)

	// No morale subsystem is modeled; the modifier stays neutral until
	// one exists.
	morale := decimal.NewFromInt(1)

	blockadeMod := decimal.NewFromInt(1)
	if colony.Blockaded {
		blockadeMod = decimal.NewFromInt(1).Sub(blockadePenalty)
	}

	return raw.Mul(colony.PopulationUnits).Mul(iuScale).Mul(taxMod).Mul(elMod).Mul(morale).Mul(blockadeMod)
}

// CollectIncome computes the treasury credit from one colony's
// production at its current tax rate, records the rate into the
// 6-turn rolling window, and returns the credited amount.
func CollectIncome(cfg *model.ConfigSnapshot, colony *model.Colony, house *model.House) decimal.Decimal {
	gross := ProductionIndex(cfg, colony, house)
	income := gross.Mul(colony.TaxRate)
	colony.TaxHistory.Push(colony.TaxRate)
	return income
}

// growthTier finds the highest-MinPopulation GrowthTier the colony
// qualifies for.
func growthTier(cfg *model.ConfigSnapshot, pop decimal.Decimal) decimal.Decimal {
	best := decimal.Zero
	bestMin := decimal.NewFromInt(-1)
	for _, tier := range cfg.GrowthTiers {
		if pop.GreaterThanOrEqual(tier.MinPopulation) && tier.MinPopulation.GreaterThan(bestMin) {
			best = tier.Bonus
			bestMin = tier.MinPopulation
		}
	}
	return best
}

// taxGrowthMultiplier finds the highest-MinRate TaxTier for the
// colony's current tax rate.
func taxGrowthMultiplier(cfg *model.ConfigSnapshot, rate decimal.Decimal) decimal.Decimal {
	mult := decimal.NewFromInt(1)
	bestMin := decimal.NewFromInt(-1)
	for _, tier := range cfg.TaxTiers {
		if rate.GreaterThanOrEqual(tier.MinRate) && tier.MinRate.GreaterThan(bestMin) {
			mult = tier.GrowthMult
			bestMin = tier.MinRate
		}
	}
	return mult
}

// GrowPopulation applies natural growth plus any starbase bonus to a
// colony's population, capped at the configured ceiling.
func GrowPopulation(cfg *model.ConfigSnapshot, colony *model.Colony, hasStarbase bool) {
	if colony.PopulationUnits.GreaterThanOrEqual(cfg.Setup.PopulationCap) {
		return
	}
	rate := cfg.Setup.NaturalGrowthRate.Add(growthTier(cfg, colony.PopulationUnits))
	if hasStarbase {
		rate = rate.Add(cfg.Setup.StarbaseGrowthBonus)
	}
	rate = rate.Mul(taxGrowthMultiplier(cfg, colony.TaxRate))

	grown := colony.PopulationUnits.Add(colony.PopulationUnits.Mul(rate))
	if grown.GreaterThan(cfg.Setup.PopulationCap) {
		grown = cfg.Setup.PopulationCap
	}
	colony.PopulationUnits = grown
}

// ErrUnknownCostElement is returned by Enqueue when CostOf finds no
// config snapshot entry for the build order's ship class or facility
// kind.
var ErrUnknownCostElement = fmt.Errorf("economy: unknown cost element")

// CostOf resolves the PP cost of one copy of a BuildOrder (Quantity is
// not applied; callers multiply), the function signature
// internal/orders.Validate expects (kept free of the cost formulas
// themselves, per that package's own doc comment).
func CostOf(cfg *model.ConfigSnapshot, bo model.BuildOrder) (decimal.Decimal, bool) {
	switch bo.Kind {
	case model.ShipProject:
		stats, ok := cfg.Ships[bo.ShipClass]
		if !ok {
			return decimal.Zero, false
		}
		return stats.BaseCost, true
	case model.BuildingProject:
		if bo.IsShieldUpgrade {
			return cfg.Setup.ShieldCost, true
		}
		stats, ok := cfg.Facilities[bo.BuildingKind]
		if !ok {
			return decimal.Zero, false
		}
		return stats.BaseCost, true
	case model.IndustrialExpansionProject:
		return cfg.Setup.IUUnitCost, true
	default:
		return decimal.Zero, false
	}
}

// MaintenanceCost totals a house's per-turn upkeep: ship base cost x
// status-tier multiplier, plus facility base cost x per-class
// multiplier. It only returns the total; the caller (internal/resolver)
// debits the treasury, which is allowed to go negative, and flags debt
// as an event rather than rejecting it.
func MaintenanceCost(g *store.GameState, cfg *model.ConfigSnapshot, house model.HouseID) decimal.Decimal {
	total := decimal.Zero

	for _, f := range g.Fleets.ByOwner(house) {
		tierMult := decimal.NewFromFloat(f.Status.MaintenanceTier())
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
				total = total.Add(stats.BaseCost.Mul(tierMult))
			}
		}
	}

	for _, c := range g.Colonies.ByOwner(house) {
		for _, fid := range c.Facilities {
			fac, ok := g.Facilities.Get(fid)
			if !ok {
				continue
			}
			stats, ok := cfg.Facilities[fac.Kind]
			if !ok {
				continue
			}
			total = total.Add(stats.BaseCost.Mul(stats.MaintMultiplier))
		}
	}

	return total
}

// buildLeadTurns is the minimum number of Maintenance passes a project
// spends in its queue before it may commission, on top of accumulating
// its full PP cost. Ships and buildings take a full construction cycle;
// an IU expansion lands the turn after it is ordered.
func buildLeadTurns(kind model.ProjectKind) int {
	if kind == model.IndustrialExpansionProject {
		return 1
	}
	return 2
}

// Enqueue routes one accepted BuildOrder copy into the right queue:
// capital ships go to the named facility's active slots or FIFO
// overflow; everything else goes to the colony's single active slot or
// its FIFO queue. Treasury is debited at acceptance time for one copy -
// a quantity>1 order is expanded by the caller into one Enqueue call
// per copy, matching the validation-time budget reservation in
// internal/orders.
func Enqueue(g *store.GameState, cfg *model.ConfigSnapshot, house model.HouseID, bo model.BuildOrder) (*model.ConstructionProject, error) {
	colony, ok := g.Colonies.Get(bo.Anchor.Colony)
	if !ok {
		return nil, fmt.Errorf("economy: unknown colony")
	}
	cost, ok := CostOf(cfg, bo)
	if !ok {
		return nil, ErrUnknownCostElement
	}

	h, ok := g.Houses.Get(house)
	if !ok {
		return nil, fmt.Errorf("economy: unknown house")
	}
	h.Treasury = h.Treasury.Sub(cost)
	g.Houses.Upsert(h)

	proj := &model.ConstructionProject{
		ID:             g.NextProjectID(),
		Owner:          house,
		Kind:           bo.Kind,
		Anchor:         bo.Anchor,
		ShipClass:      bo.ShipClass,
		BuildingKind:   bo.BuildingKind,
		IsShield:       bo.IsShieldUpgrade,
		CostTotal:      cost,
		TurnsRemaining: buildLeadTurns(bo.Kind),
	}
	if bo.Kind == model.IndustrialExpansionProject {
		proj.IUDelta = 1
	}
	g.Projects.Upsert(proj)

	if bo.Anchor.Facility != 0 {
		fac, ok := g.Facilities.Get(bo.Anchor.Facility)
		if !ok {
			return nil, fmt.Errorf("economy: unknown facility")
		}
		if fac.AvailableDocks() > 0 {
			fac.ActiveConstructions = append(fac.ActiveConstructions, proj.ID)
		} else {
			fac.ConstructionQueue = append(fac.ConstructionQueue, proj.ID)
		}
		g.Facilities.Upsert(fac)
		return proj, nil
	}

	// One active colony-anchored project at a time; the rest wait
	// in FIFO order.
	if len(colony.UnderConstruction) == 0 {
		colony.UnderConstruction = append(colony.UnderConstruction, proj.ID)
	} else {
		colony.ConstructionQueue = append(colony.ConstructionQueue, proj.ID)
	}
	g.Colonies.Upsert(colony)
	return proj, nil
}

// AdvanceFacilityQueues applies one turn of production to every active
// project at a facility, commissions completed ones, and promotes
// queued projects into freed docks.
func AdvanceFacilityQueues(g *store.GameState, cfg *model.ConfigSnapshot, fac *model.Facility, ppPerProject decimal.Decimal) []model.ShipID {
	var commissioned []model.ShipID
	var stillActive []model.ProjectID

	for _, pid := range fac.ActiveConstructions {
		proj, ok := g.Projects.Get(pid)
		if !ok {
			continue
		}
		if proj.Advance(ppPerProject) {
			if proj.Kind == model.ShipProject {
				ship := commissionShip(g, cfg, proj)
				commissioned = append(commissioned, ship.ID)
				assignToUnassignedPool(g, proj.Anchor.Colony, ship.ID)
			}
			g.Projects.Remove(pid)
			continue
		}
		stillActive = append(stillActive, pid)
	}
	fac.ActiveConstructions = stillActive

	for fac.AvailableDocks() > 0 && len(fac.ConstructionQueue) > 0 {
		next := fac.ConstructionQueue[0]
		fac.ConstructionQueue = fac.ConstructionQueue[1:]
		fac.ActiveConstructions = append(fac.ActiveConstructions, next)
	}

	g.Facilities.Upsert(fac)
	return commissioned
}

// AdvanceColonyQueue applies one turn of production to the colony's
// active project (at most one), commissions it on completion, and
// promotes the next queued project into the freed slot. Returns the
// ships commissioned this pass so the caller can emit events for them.
func AdvanceColonyQueue(g *store.GameState, cfg *model.ConfigSnapshot, colony *model.Colony, ppPerProject decimal.Decimal) []model.ShipID {
	var commissioned []model.ShipID
	var remaining []model.ProjectID
	for _, pid := range colony.UnderConstruction {
		proj, ok := g.Projects.Get(pid)
		if !ok {
			continue
		}
		if proj.Advance(ppPerProject) {
			commissioned = append(commissioned, commissionColonyProject(g, cfg, colony, proj)...)
			g.Projects.Remove(pid)
			continue
		}
		remaining = append(remaining, pid)
	}
	colony.UnderConstruction = remaining

	for len(colony.UnderConstruction) == 0 && len(colony.ConstructionQueue) > 0 {
		next := colony.ConstructionQueue[0]
		colony.ConstructionQueue = colony.ConstructionQueue[1:]
		if _, ok := g.Projects.Get(next); !ok {
			continue
		}
		colony.UnderConstruction = append(colony.UnderConstruction, next)
	}

	g.Colonies.Upsert(colony)
	return commissioned
}

func commissionShip(g *store.GameState, cfg *model.ConfigSnapshot, proj *model.ConstructionProject) *model.Ship {
	ship := &model.Ship{ID: g.NextShipID(), Class: proj.ShipClass}
	g.Ships.Upsert(ship)
	return ship
}

func commissionColonyProject(g *store.GameState, cfg *model.ConfigSnapshot, colony *model.Colony, proj *model.ConstructionProject) []model.ShipID {
	switch proj.Kind {
	case model.ShipProject:
		ship := commissionShip(g, cfg, proj)
		assignToUnassignedPool(g, colony.ID, ship.ID)
		return []model.ShipID{ship.ID}
	case model.BuildingProject:
		if proj.IsShield {
			colony.Ground.ShieldLevel = 1
			g.Colonies.Upsert(colony)
			return nil
		}
		fac := &model.Facility{ID: g.NextFacilityID(), Colony: colony.ID, Kind: proj.BuildingKind}
		if stats, ok := cfg.Facilities[proj.BuildingKind]; ok {
			fac.Docks = stats.Docks
		}
		g.Facilities.Upsert(fac)
		colony.Facilities = append(colony.Facilities, fac.ID)
		g.Colonies.Upsert(colony)
	case model.IndustrialExpansionProject:
		colony.Infrastructure = colony.Infrastructure.Add(decimal.NewFromInt(int64(proj.IUDelta)))
		g.Colonies.Upsert(colony)
	}
	return nil
}

// assignToUnassignedPool wraps a freshly commissioned ship in its own
// single-ship squadron and drops it into the colony's unassigned pool.
func assignToUnassignedPool(g *store.GameState, colonyID model.ColonyID, shipID model.ShipID) {
	colony, ok := g.Colonies.Get(colonyID)
	if !ok {
		return
	}
	sq := &model.Squadron{ID: g.NextSquadronID(), Type: model.Combat, Flagship: shipID}
	g.Squadrons.Upsert(sq)
	colony.UnassignedSquadrons = append(colony.UnassignedSquadrons, sq.ID)
	g.Colonies.Upsert(colony)
}

// AutoAssign runs the command-phase-end sweep: each stationary,
// eligible fleet colocated with a colony absorbs that colony's
// unassigned squadrons; if no eligible fleet exists, a new Active fleet
// is created to hold them.
func AutoAssign(g *store.GameState, house model.HouseID) {
	for _, colony := range g.Colonies.ByOwner(house) {
		if len(colony.UnassignedSquadrons) == 0 {
			continue
		}
		dst := eligibleFleetAt(g, house, colony.System)
		if dst == nil {
			dst = &model.Fleet{ID: g.NextFleetID(), Owner: house, System: colony.System, Status: model.Active}
		}
		for _, sid := range colony.UnassignedSquadrons {
			sq, ok := g.Squadrons.Get(sid)
			if !ok {
				continue
			}
			sq.Fleet = dst.ID
			g.Squadrons.Upsert(sq)
			dst.Squadrons = append(dst.Squadrons, sid)
		}
		colony.UnassignedSquadrons = nil
		g.Fleets.Upsert(dst)
		g.Colonies.Upsert(colony)
	}
}

// minSquadronLimit is the floor every house keeps even at zero
// population.
const minSquadronLimit = 8

// squadronsPerPU is the population each additional squadron slot costs
// beyond the floor.
var squadronsPerPU = decimal.NewFromInt(5)

// SquadronLimit derives how many squadrons a house's total population
// can sustain: one slot per 5 PU, never below the floor of 8.
func SquadronLimit(g *store.GameState, house model.HouseID) int {
	total := decimal.Zero
	for _, c := range g.Colonies.ByOwner(house) {
		total = total.Add(c.PopulationUnits)
	}
	limit := int(total.Div(squadronsPerPU).IntPart())
	if limit < minSquadronLimit {
		limit = minSquadronLimit
	}
	return limit
}

// SquadronCount tallies a house's live squadrons: assigned to fleets
// plus waiting unassigned at colonies.
func SquadronCount(g *store.GameState, house model.HouseID) int {
	n := 0
	for _, f := range g.Fleets.ByOwner(house) {
		n += len(f.Squadrons)
	}
	for _, c := range g.Colonies.ByOwner(house) {
		n += len(c.UnassignedSquadrons)
	}
	return n
}

func eligibleFleetAt(g *store.GameState, house model.HouseID, sys model.SystemID) *model.Fleet {
	for _, f := range g.Fleets.AtSystem(sys) {
		if f.Owner != house || f.Status != model.Active {
			continue
		}
		if f.Command != nil && f.Command.Mission != model.NoMission {
			continue // only stationary fleets absorb unassigned squadrons.
		}
		if !f.Standing.AbsorbsUnassigned() {
			continue
		}
		return f
	}
	return nil
}
