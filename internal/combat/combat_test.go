package combat

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hexdominion/internal/model"
	"hexdominion/internal/store"
)

func testConfig() *model.ConfigSnapshot {
	return &model.ConfigSnapshot{
		Ships: map[string]model.ShipClassStats{
			"Raider":   {Class: "Raider", AttackStrength: 4, DefenseStrength: 2, Hull: 10, TargetBucket: model.BucketRaider},
			"Cruiser":  {Class: "Cruiser", AttackStrength: 8, DefenseStrength: 6, Hull: 20, TargetBucket: model.BucketCapital},
			"Escort":   {Class: "Escort", AttackStrength: 5, DefenseStrength: 5, Hull: 12, TargetBucket: model.BucketEscort},
			"Fighter":  {Class: "Fighter", AttackStrength: 2, DefenseStrength: 1, Hull: 4, TargetBucket: model.BucketFighter},
		},
		Ground: map[string]model.GroundUnitStats{
			"army":    {Attack: 3, Defense: 3},
			"marine":  {Attack: 4, Defense: 2},
			"battery": {Attack: 0, Defense: 5},
		},
	}
}

func newShip(g *store.GameState, class string) model.ShipID {
	s := &model.Ship{ID: g.NextShipID(), Class: class, State: model.Undamaged}
	g.Ships.Upsert(s)
	return s.ID
}

func newSquadron(g *store.GameState, fleet model.FleetID, typ model.SquadronType, ships ...model.ShipID) model.SquadronID {
	sq := &model.Squadron{ID: g.NextSquadronID(), Fleet: fleet, Type: typ}
	if len(ships) > 0 {
		sq.Flagship = ships[0]
		sq.Subordinate = ships[1:]
	}
	g.Squadrons.Upsert(sq)
	return sq.ID
}

func TestGatherTaskForces_OneTaskForcePerHouseWithColonyFacilities(t *testing.T) {
	g := store.NewGameState()
	sys := g.NextSystemID()
	houseA := g.NextHouseID()
	houseB := g.NextHouseID()

	fleetA := &model.Fleet{ID: g.NextFleetID(), Owner: houseA, System: sys, Status: model.Active, ROE: 5}
	shipA := newShip(g, "Cruiser")
	fleetA.Squadrons = []model.SquadronID{newSquadron(g, fleetA.ID, model.Combat, shipA)}
	g.Fleets.Upsert(fleetA)

	colony := &model.Colony{ID: g.NextColonyID(), Owner: houseB, System: sys}
	fac := &model.Facility{ID: g.NextFacilityID(), Colony: colony.ID, Kind: model.Starbase, State: model.Undamaged}
	colony.Facilities = []model.FacilityID{fac.ID}
	g.Facilities.Upsert(fac)
	g.Colonies.Upsert(colony)

	tfs := GatherTaskForces(g, sys)
	require.Len(t, tfs, 2)
	assert.Equal(t, houseA, tfs[0].House)
	assert.Equal(t, houseB, tfs[1].House)
	assert.True(t, tfs[1].DefendingHomeworld)
	assert.Equal(t, []model.FacilityID{fac.ID}, tfs[1].Facilities)
}

func TestGatherTaskForces_ReserveFleetsExcluded(t *testing.T) {
	g := store.NewGameState()
	sys := g.NextSystemID()
	house := g.NextHouseID()
	fleet := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: sys, Status: model.Reserve}
	g.Fleets.Upsert(fleet)

	tfs := GatherTaskForces(g, sys)
	assert.Empty(t, tfs)
}

func TestGatherTaskForces_MothballedFleetsScreenedOutOfBothPools(t *testing.T) {
	g := store.NewGameState()
	sys := g.NextSystemID()
	houseA := g.NextHouseID()
	houseB := g.NextHouseID()

	active := &model.Fleet{ID: g.NextFleetID(), Owner: houseA, System: sys, Status: model.Active}
	active.Squadrons = []model.SquadronID{newSquadron(g, active.ID, model.Combat, newShip(g, "Cruiser"))}
	g.Fleets.Upsert(active)

	mothballed := &model.Fleet{ID: g.NextFleetID(), Owner: houseB, System: sys, Status: model.Mothballed}
	mothballed.Squadrons = []model.SquadronID{newSquadron(g, mothballed.ID, model.Combat, newShip(g, "Cruiser"))}
	g.Fleets.Upsert(mothballed)

	tfs := GatherTaskForces(g, sys)
	require.Len(t, tfs, 1, "a mothballed fleet fields no task force of its own")
	assert.Equal(t, houseA, tfs[0].House)
	for _, sqID := range tfs[0].Squadrons {
		sq, ok := g.Squadrons.Get(sqID)
		require.True(t, ok)
		assert.NotEqual(t, mothballed.ID, sq.Fleet, "screened squadrons stay out of the pools")
	}
}

func TestTransition_DestructionProtectionBlocksOneShotKill(t *testing.T) {
	hull := decimal.NewFromInt(10)
	after := transition(model.Undamaged, decimal.NewFromInt(15), hull, false)
	assert.Equal(t, model.Crippled, after, "non-crit overkill still only cripples")

	afterCrit := transition(model.Undamaged, decimal.NewFromInt(20), hull, true)
	assert.Equal(t, model.Destroyed, afterCrit, "a crit meeting 2x hull bypasses destruction protection")
}

func TestTransition_CrippledToDestroyed(t *testing.T) {
	hull := decimal.NewFromInt(10)
	after := transition(model.Crippled, decimal.NewFromInt(10), hull, false)
	assert.Equal(t, model.Destroyed, after)
}

func TestPickTarget_LowestBucketNumberWins(t *testing.T) {
	pool := []target{
		{ship: 1, bucket: model.BucketCapital},
		{ship: 2, bucket: model.BucketRaider},
		{ship: 3, bucket: model.BucketEscort},
	}
	got, ok := pickTarget(pool)
	require.True(t, ok)
	assert.Equal(t, model.BucketRaider, got.bucket)
	assert.Equal(t, model.ShipID(2), got.ship)
}

func TestEffectivenessMultiplier_NaturalTwentyAlwaysCrits(t *testing.T) {
	m := effectivenessMultiplier(20, true)
	assert.True(t, m.Equal(decimal.NewFromFloat(2.0)))
}

func TestResolve_OneSidedCombatEliminatesDefenderAndLeavesAttackerStanding(t *testing.T) {
	cfg := testConfig()
	g := store.NewGameState()
	sys := g.NextSystemID()
	houseA := g.NextHouseID()
	houseB := g.NextHouseID()

	attackerFleet := &model.Fleet{ID: g.NextFleetID(), Owner: houseA, System: sys, Status: model.Active, ROE: 10}
	var attackerShips []model.ShipID
	for i := 0; i < 6; i++ {
		attackerShips = append(attackerShips, newShip(g, "Cruiser"))
	}
	attackerFleet.Squadrons = []model.SquadronID{newSquadron(g, attackerFleet.ID, model.Combat, attackerShips...)}
	g.Fleets.Upsert(attackerFleet)

	defenderFleet := &model.Fleet{ID: g.NextFleetID(), Owner: houseB, System: sys, Status: model.Active, ROE: 10}
	defenderShip := newShip(g, "Fighter")
	defenderFleet.Squadrons = []model.SquadronID{newSquadron(g, defenderFleet.ID, model.Combat, defenderShip)}
	g.Fleets.Upsert(defenderFleet)

	tfs := GatherTaskForces(g, sys)
	out := Resolve(g, cfg, sys, tfs, 42, true)

	assert.Equal(t, Resolved, out.Phase, "the state machine runs to its terminal state")
	require.NotEmpty(t, out.Rounds)
	for _, rr := range out.Rounds {
		if rr.Round == 0 {
			assert.Equal(t, Intercept, rr.Phase)
		} else {
			assert.Equal(t, MainEngagement, rr.Phase)
		}
	}

	assert.Contains(t, out.Eliminated, houseB)
	ship, ok := g.Ships.Get(defenderShip)
	if ok {
		assert.Equal(t, model.Destroyed, ship.State)
	} else {
		assert.False(t, ok, "destroyed ship pruned by cleanup")
	}
}

func TestCleanup_PromotesSubordinateWhenFlagshipDestroyed(t *testing.T) {
	g := store.NewGameState()
	sys := g.NextSystemID()
	house := g.NextHouseID()

	flagship := newShip(g, "Cruiser")
	sub := newShip(g, "Cruiser")
	fleet := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: sys, Status: model.Active}
	sqID := newSquadron(g, fleet.ID, model.Combat, flagship, sub)
	fleet.Squadrons = []model.SquadronID{sqID}
	g.Fleets.Upsert(fleet)

	fs, _ := g.Ships.Get(flagship)
	fs.State = model.Destroyed
	g.Ships.Upsert(fs)

	out := &Outcome{System: sys}
	Cleanup(g, sys, out)

	sq, ok := g.Squadrons.Get(sqID)
	require.True(t, ok)
	assert.Equal(t, sub, sq.Flagship)
	assert.Empty(t, sq.Subordinate)
	assert.Contains(t, out.DestroyedShips, flagship)
}

func TestCleanup_EmptySquadronRemoved(t *testing.T) {
	g := store.NewGameState()
	sys := g.NextSystemID()
	house := g.NextHouseID()

	ship := newShip(g, "Cruiser")
	fleet := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: sys, Status: model.Active}
	sqID := newSquadron(g, fleet.ID, model.Combat, ship)
	fleet.Squadrons = []model.SquadronID{sqID}
	g.Fleets.Upsert(fleet)

	s, _ := g.Ships.Get(ship)
	s.State = model.Destroyed
	g.Ships.Upsert(s)

	out := &Outcome{System: sys}
	Cleanup(g, sys, out)

	_, ok := g.Squadrons.Get(sqID)
	assert.False(t, ok)
	_, ok = g.Fleets.Get(fleet.ID)
	assert.False(t, ok, "fleet with no squadrons and no spacelift is removed")
}

func TestCleanup_CrippledNeoriasFacilityLosesQueuedProjects(t *testing.T) {
	g := store.NewGameState()
	sys := g.NextSystemID()
	house := g.NextHouseID()

	colony := &model.Colony{ID: g.NextColonyID(), Owner: house, System: sys}
	fac := &model.Facility{ID: g.NextFacilityID(), Colony: colony.ID, Kind: model.Shipyard, State: model.Crippled}
	proj := &model.ConstructionProject{ID: g.NextProjectID(), Owner: house}
	g.Projects.Upsert(proj)
	fac.ConstructionQueue = []model.ProjectID{proj.ID}
	colony.Facilities = []model.FacilityID{fac.ID}
	g.Facilities.Upsert(fac)
	g.Colonies.Upsert(colony)

	out := &Outcome{System: sys}
	Cleanup(g, sys, out)

	updated, ok := g.Facilities.Get(fac.ID)
	require.True(t, ok)
	assert.Empty(t, updated.ConstructionQueue)
	_, exists := g.Projects.Get(proj.ID)
	assert.False(t, exists)
}

func TestBombard_CancelsQueuedProjectsAndDamagesColony(t *testing.T) {
	cfg := testConfig()
	g := store.NewGameState()
	house := g.NextHouseID()
	colony := &model.Colony{
		ID: g.NextColonyID(), Owner: house,
		Infrastructure:  decimal.NewFromInt(100),
		PopulationUnits: decimal.NewFromInt(50),
	}
	proj := &model.ConstructionProject{ID: g.NextProjectID(), Owner: house}
	g.Projects.Upsert(proj)
	colony.ConstructionQueue = []model.ProjectID{proj.ID}
	g.Colonies.Upsert(colony)

	result := Bombard(g, cfg, 7, colony)

	assert.True(t, result.IULost.GreaterThanOrEqual(decimal.Zero))
	assert.Equal(t, 1, result.ProjectsLost)
	assert.Empty(t, colony.ConstructionQueue)
	_, exists := g.Projects.Get(proj.ID)
	assert.False(t, exists)
}

func TestInvade_FailsAgainstSuperiorDefense(t *testing.T) {
	cfg := testConfig()
	g := store.NewGameState()
	defender := g.NextHouseID()
	attacker := g.NextHouseID()
	colony := &model.Colony{
		ID: g.NextColonyID(), Owner: defender,
		Ground: model.GroundForces{Armies: 50, Batteries: 50},
	}
	g.Colonies.Upsert(colony)

	result := Invade(g, cfg, 9, attacker, colony, 1)
	assert.False(t, result.Success)
	assert.Equal(t, defender, colony.Owner)
}

func TestInvade_SuccessTransfersOwnershipAndClearsQueue(t *testing.T) {
	cfg := testConfig()
	g := store.NewGameState()
	defender := g.NextHouseID()
	attacker := g.NextHouseID()
	colony := &model.Colony{ID: g.NextColonyID(), Owner: defender}
	proj := &model.ConstructionProject{ID: g.NextProjectID(), Owner: defender}
	g.Projects.Upsert(proj)
	colony.UnderConstruction = []model.ProjectID{proj.ID}
	g.Colonies.Upsert(colony)

	result := Invade(g, cfg, 3, attacker, colony, 500)
	assert.True(t, result.Success)
	assert.Equal(t, attacker, colony.Owner)
	assert.Equal(t, defender, result.PreviousOwner)
	assert.Empty(t, colony.UnderConstruction)
	_, exists := g.Projects.Get(proj.ID)
	assert.False(t, exists)
}
