package economy

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
			"Corvette": {Class: "Corvette", BaseCost: decimal.NewFromInt(100)},
		},
		Facilities: map[model.FacilityKind]model.FacilityStats{
			model.Shipyard: {Kind: model.Shipyard, BaseCost: decimal.NewFromInt(500), Docks: 2, MaintMultiplier: decimal.NewFromFloat(1.2)},
		},
		PlanetClasses: map[string]model.PlanetClassStats{
			"Terran": {BaseIndex: decimal.NewFromInt(10), ResourceWeight: decimal.NewFromInt(2)},
		},
		Setup: model.GameSetup{
			IUUnitCost:        decimal.NewFromInt(50),
			NaturalGrowthRate: decimal.NewFromFloat(0.02),
			PopulationCap:     decimal.NewFromInt(1000),
		},
	}
}

func TestProductionIndex_AppliesELCapAndBlockadePenalty(t *testing.T) {
	cfg := testConfig()
	colony := &model.Colony{
		PlanetClass:     "Terran",
		ResourceRating:  5,
		PopulationUnits: decimal.NewFromInt(10),
		Infrastructure:  decimal.Zero,
		TaxRate:         decimal.Zero,
	}
	house := &model.House{TechTree: model.TechTree{EL: 20}} // far beyond the EL10 cap.

	uncapped := ProductionIndex(cfg, colony, house)

	colony.Blockaded = true
	blockaded := ProductionIndex(cfg, colony, house)

	assert.True(t, blockaded.LessThan(uncapped))
	// raw = 10 + 2*5 = 20; pop = 10; iuScale = 1; taxMod = 1; elMod capped at 1.5.
	expected := decimal.NewFromInt(20).Mul(decimal.NewFromInt(10)).Mul(decimal.NewFromFloat(1.5))
	assert.True(t, uncapped.Equal(expected), "got %s want %s", uncapped, expected)
}

func TestCostOf_ResolvesEachProjectKind(t *testing.T) {
	cfg := testConfig()

	shipCost, ok := CostOf(cfg, model.BuildOrder{Kind: model.ShipProject, ShipClass: "Corvette", Quantity: 1})
	require.True(t, ok)
	assert.True(t, shipCost.Equal(decimal.NewFromInt(100)))

	_, ok = CostOf(cfg, model.BuildOrder{Kind: model.ShipProject, ShipClass: "Unknown"})
	assert.False(t, ok)

	iuCost, ok := CostOf(cfg, model.BuildOrder{Kind: model.IndustrialExpansionProject})
	require.True(t, ok)
	assert.True(t, iuCost.Equal(decimal.NewFromInt(50)))
}

func TestEnqueue_RoutesCapitalShipsToFacilityDocks(t *testing.T) {
	cfg := testConfig()
	g := store.NewGameState()

	house := &model.House{ID: g.NextHouseID(), Treasury: decimal.NewFromInt(1000)}
	g.Houses.Upsert(house)
	colony := &model.Colony{ID: g.NextColonyID(), Owner: house.ID}
	fac := &model.Facility{ID: g.NextFacilityID(), Colony: colony.ID, Kind: model.Shipyard, Docks: 1}
	colony.Facilities = []model.FacilityID{fac.ID}
	g.Colonies.Upsert(colony)
	g.Facilities.Upsert(fac)

	bo := model.BuildOrder{Anchor: model.ProjectAnchor{Colony: colony.ID, Facility: fac.ID}, Kind: model.ShipProject, ShipClass: "Corvette", Quantity: 1}
	proj, err := Enqueue(g, cfg, house.ID, bo)
	require.NoError(t, err)

	updatedFac, _ := g.Facilities.Get(fac.ID)
	assert.Contains(t, updatedFac.ActiveConstructions, proj.ID)

	updatedHouse, _ := g.Houses.Get(house.ID)
	assert.True(t, updatedHouse.Treasury.Equal(decimal.NewFromInt(900)))
}

func TestAutoAssign_CreatesNewFleetWhenNoneEligible(t *testing.T) {
	g := store.NewGameState()
	house := &model.House{ID: g.NextHouseID()}
	g.Houses.Upsert(house)
	sys := &model.System{ID: g.NextSystemID()}
	g.Systems.Upsert(sys)

	colony := &model.Colony{ID: g.NextColonyID(), Owner: house.ID, System: sys.ID}
	ship := &model.Ship{ID: g.NextShipID(), Class: "Corvette"}
	g.Ships.Upsert(ship)
	sq := &model.Squadron{ID: g.NextSquadronID(), Flagship: ship.ID}
	g.Squadrons.Upsert(sq)
	colony.UnassignedSquadrons = []model.SquadronID{sq.ID}
	g.Colonies.Upsert(colony)

	AutoAssign(g, house.ID)

	fleets := g.Fleets.AtSystem(sys.ID)
	require.Len(t, fleets, 1)
	assert.Contains(t, fleets[0].Squadrons, sq.ID)

	updatedColony, _ := g.Colonies.Get(colony.ID)
	assert.Empty(t, updatedColony.UnassignedSquadrons)
}
