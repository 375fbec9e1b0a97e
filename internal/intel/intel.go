// Package intel implements per-house fog-of-war projection and the
// spy-scout travel/detection subsystem. Topology is universally known;
// colonies and fleets are gated through the five-tier Hidden/Adjacent/
// Scouted/Occupied/Owned visibility classification.
package intel

import (
	"github.com/shopspring/decimal"

	"hexdominion/internal/model"
	"hexdominion/internal/rng"
	"hexdominion/internal/starmap"
	"hexdominion/internal/store"
)

// BuildFogOfWarView derives one house's complete per-turn visibility
// projection. Topology (systems + lane types) is universally
// known; only colonies and fleets are gated by visibility tier.
func BuildFogOfWarView(g *store.GameState, house model.HouseID, turn int) model.FogOfWarView {
	h, _ := g.Houses.Get(house)
	view := model.FogOfWarView{
		House:           house,
		Turn:            turn,
		Systems:         make(map[model.SystemID]model.Visibility),
		VisibleColonies: make(map[model.ColonyID]model.ColonyReport),
		VisibleFleets:   make(map[model.FleetID]model.FleetReport),
		PublicHouseData: make(map[model.HouseID]model.PublicHouseInfo),
	}
	if h != nil {
		view.Intel = h.Intel
	}

	for _, sys := range g.Systems.All() {
		view.Systems[sys.ID] = visibilityOf(g, house, sys.ID, turn)
	}

	for _, colony := range g.Colonies.All() {
		vis := view.Systems[colony.System]
		switch vis {
		case model.Owned, model.Occupied:
			view.VisibleColonies[colony.ID] = freshColonyReport(g, colony, turn)
		case model.Scouted:
			if report, ok := view.Intel.Colonies[colony.ID]; ok {
				view.VisibleColonies[colony.ID] = report
			}
		}
	}

	for _, fleet := range g.Fleets.All() {
		vis := view.Systems[fleet.System]
		if vis == model.Owned || vis == model.Occupied {
			view.VisibleFleets[fleet.ID] = model.FleetReport{
				Fleet: fleet.ID, Owner: fleet.Owner, GatheredTurn: turn,
				Quality: model.QualityFull, SquadronCount: len(fleet.Squadrons),
			}
		}
	}

	for _, other := range g.Houses.All() {
		view.PublicHouseData[other.ID] = model.PublicHouseInfo{
			Name: other.Name, Prestige: other.Prestige, Eliminated: other.Eliminated,
		}
	}

	return view
}

func freshColonyReport(g *store.GameState, colony *model.Colony, turn int) model.ColonyReport {
	return model.ColonyReport{
		Colony: colony.ID, GatheredTurn: turn, Quality: model.QualityFull,
		Owner: colony.Owner, PopulationUnits: colony.PopulationUnits.String(),
		Facilities: facilityKinds(g, colony),
	}
}

// facilityKinds resolves the kind of each facility a colony hosts, not
// the live handles - a report is a snapshot, not a live reference into
// the store.
func facilityKinds(g *store.GameState, colony *model.Colony) []model.FacilityKind {
	var kinds []model.FacilityKind
	for _, fid := range colony.Facilities {
		if fac, ok := g.Facilities.Get(fid); ok {
			kinds = append(kinds, fac.Kind)
		}
	}
	return kinds
}

// visibilityOf classifies one system for one house.
func visibilityOf(g *store.GameState, house model.HouseID, sys model.SystemID, turn int) model.Visibility {
	if colony, ok := g.Colonies.AtSystem(sys); ok && colony.Owner == house {
		return model.Owned
	}
	for _, f := range g.Fleets.AtSystem(sys) {
		if f.Owner == house {
			return model.Occupied
		}
	}
	if houseHas, ok := g.Houses.Get(house); ok {
		if _, scouted := houseHas.Intel.Systems[sys]; scouted {
			return model.Scouted
		}
	}
	for _, lane := range g.Lanes.From(sys) {
		if colony, ok := g.Colonies.AtSystem(lane.To); ok && colony.Owner == house {
			return model.Adjacent
		}
	}
	return model.Hidden
}

// MeshBonus looks up the tiered ELI bonus for a count of co-located
// allied scouts.
func MeshBonus(cfg *model.ConfigSnapshot, scoutCount int) int {
	bonus := 0
	best := -1
	for _, tier := range cfg.Espionage.MeshBonusTiers {
		if scoutCount >= tier.MinScouts && tier.MinScouts > best {
			bonus = tier.Bonus
			best = tier.MinScouts
		}
	}
	return bonus
}

// StartMission launches a scout squadron on a spy mission against a
// target system, computing its travel path and handing control
// to the ScoutTable for subsequent per-turn advancement.
func StartMission(g *store.GameState, house model.HouseID, squadron model.SquadronID, target model.SystemID, turn int) (*model.ScoutMission, error) {
	sq, ok := g.Squadrons.Get(squadron)
	if !ok {
		return nil, starmap.ErrNoPath
	}
	fleet, ok := g.Fleets.Get(sq.Fleet)
	if !ok {
		return nil, starmap.ErrNoPath
	}
	path, err := starmap.ShortestPath(g, fleet.System, target, starmap.Composition{})
	if err != nil {
		return nil, err
	}
	mission := &model.ScoutMission{
		ID: g.NextScoutMissionID(), Owner: house, Squadron: squadron,
		Target: target, State: model.ScoutTraveling, Path: path, StartedTurn: turn,
	}
	g.Scouts.Upsert(mission)
	return mission, nil
}

// AdvanceResult reports what happened to one scout mission during a
// Command-phase advancement step.
type AdvanceResult struct {
	Mission   model.ScoutMissionID
	Destroyed bool
	Detected  bool
	Arrived   bool
}

// AdvanceMission moves one scout mission a single hop along its path.
// Entering a system colonised by another house rolls detection at the
// configured base detection chance, lowered by the mesh bonus of the
// scouting side's allied scouts there; the defending house's ELI/CIC
// levels and host-fleet counters do not enter the roll. A detected opposing
// scout can escalate the two houses' diplomatic state to Hostile;
// allied scouts never destroy one another. On arrival the scout starts
// reporting on the target system - unless the squadron carries more
// than one ship, in which case the mission silently yields no intel.
func AdvanceMission(g *store.GameState, perTurnSeed int64, cfg *model.ConfigSnapshot, m *model.ScoutMission, turn int) AdvanceResult {
	if m.State == model.ScoutOnMission || len(m.Path) == 0 {
		m.State = model.ScoutOnMission
		g.Scouts.Upsert(m)
		depositIntel(g, m, turn)
		return AdvanceResult{Mission: m.ID, Arrived: true}
	}

	next := m.Path[0]
	m.Path = m.Path[1:]

	defender, hasDefender := g.Colonies.AtSystem(next)
	if !hasDefender || defender.Owner == m.Owner {
		if len(m.Path) == 0 {
			m.State = model.ScoutOnMission
			depositIntel(g, m, turn)
		}
		g.Scouts.Upsert(m)
		return AdvanceResult{Mission: m.ID, Arrived: len(m.Path) == 0}
	}

	alliedScouts := countAlliedScouts(g, m.Owner, next)
	bonus := MeshBonus(cfg, alliedScouts)
	chance := cfg.Espionage.BaseDetectionChance.Sub(decimal.NewFromInt(int64(bonus)).Div(decimal.NewFromInt(100)))
	if chance.IsNegative() {
		chance = decimal.Zero
	}

	r := rng.SubStream(perTurnSeed, rng.TagDetection+":"+m.ID.String())
	chanceF, _ := chance.Float64()
	detected := r.Float64() < chanceF

	if !detected {
		g.Scouts.Upsert(m)
		return AdvanceResult{Mission: m.ID}
	}

	escalateOnDetection(g, m.Owner, defender.Owner, turn)
	destroyed := r.Float64() < 0.5
	if destroyed {
		g.Scouts.Remove(m.ID)
		return AdvanceResult{Mission: m.ID, Destroyed: true, Detected: true}
	}
	g.Scouts.Upsert(m)
	return AdvanceResult{Mission: m.ID, Detected: true}
}

// depositIntel writes the target system's current state into the
// owning house's intelligence database. A squadron with subordinate
// ships violates the single-ship scout rule; the mission still "runs"
// but yields nothing - the silent zero-intel failure mode.
func depositIntel(g *store.GameState, m *model.ScoutMission, turn int) {
	sq, ok := g.Squadrons.Get(m.Squadron)
	if !ok || len(sq.Subordinate) > 0 {
		return
	}
	h, ok := g.Houses.Get(m.Owner)
	if !ok {
		return
	}

	report := model.SystemReport{System: m.Target, GatheredTurn: turn, Quality: model.QualityFresh}
	for _, f := range g.Fleets.AtSystem(m.Target) {
		report.FleetsSeen = append(report.FleetsSeen, model.FleetReport{
			Fleet: f.ID, Owner: f.Owner, GatheredTurn: turn,
			Quality: model.QualityFresh, SquadronCount: len(f.Squadrons),
		})
		h.Intel.Fleets[f.ID] = report.FleetsSeen[len(report.FleetsSeen)-1]
	}
	h.Intel.Systems[m.Target] = report

	if colony, ok := g.Colonies.AtSystem(m.Target); ok {
		h.Intel.Colonies[colony.ID] = model.ColonyReport{
			Colony: colony.ID, GatheredTurn: turn, Quality: model.QualityFresh,
			Owner: colony.Owner, PopulationUnits: colony.PopulationUnits.String(),
			Facilities: facilityKinds(g, colony),
		}
	}
	g.Houses.Upsert(h)
}

func countAlliedScouts(g *store.GameState, owner model.HouseID, sys model.SystemID) int {
	count := 0
	for _, m := range g.Scouts.All() {
		if m.Owner != owner {
			continue
		}
		fleetSys := sys // scouts in transit are modeled as being "at" their next hop for mesh-bonus purposes.
		sq, ok := g.Squadrons.Get(m.Squadron)
		if !ok {
			continue
		}
		fleet, ok := g.Fleets.Get(sq.Fleet)
		if ok && fleet.System == fleetSys {
			count++
		}
	}
	return count
}

func escalateOnDetection(g *store.GameState, scoutOwner, defenderOwner model.HouseID, turn int) {
	defender, ok := g.Houses.Get(defenderOwner)
	if !ok {
		return
	}
	if defender.RelationWith(scoutOwner).State == model.Neutral {
		defender.SetRelation(scoutOwner, model.Hostile, turn)
		g.Houses.Upsert(defender)
	}
}
