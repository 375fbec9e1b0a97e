package logistics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hexdominion/internal/model"
	"hexdominion/internal/store"
)

func newHouseAndSystem(t *testing.T, g *store.GameState) (model.HouseID, model.SystemID) {
	t.Helper()
	h := &model.House{ID: g.NextHouseID()}
	g.Houses.Upsert(h)
	s := &model.System{ID: g.NextSystemID()}
	g.Systems.Upsert(s)
	return h.ID, s.ID
}

func testConfig() *model.ConfigSnapshot {
	return &model.ConfigSnapshot{
		Ships: map[string]model.ShipClassStats{
			"Transport": {Class: "Transport", IsSpacelift: true, CarryCapacity: 10},
		},
	}
}

// addTransport gives a fleet one bare spacelift hull so cargo commands
// have capacity to work with.
func addTransport(g *store.GameState, f *model.Fleet) {
	ship := &model.Ship{ID: g.NextShipID(), Class: "Transport"}
	g.Ships.Upsert(ship)
	f.Spacelift = append(f.Spacelift, ship.ID)
	g.Fleets.Upsert(f)
}

func TestApplyDetach_SplitsSquadronsIntoNewFleet(t *testing.T) {
	g := store.NewGameState()
	house, sys := newHouseAndSystem(t, g)

	sq1 := &model.Squadron{ID: g.NextSquadronID()}
	sq2 := &model.Squadron{ID: g.NextSquadronID()}
	f := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: sys, Status: model.Active, Squadrons: []model.SquadronID{sq1.ID, sq2.ID}}
	sq1.Fleet, sq2.Fleet = f.ID, f.ID
	g.Squadrons.Upsert(sq1)
	g.Squadrons.Upsert(sq2)
	g.Fleets.Upsert(f)

	out := Apply(g, testConfig(), house, model.ZeroTurnCommand{Kind: model.ZTDetach, Fleet: f.ID, Squadrons: []model.SquadronID{sq2.ID}})
	require.NoError(t, out.Err)
	require.NotEqual(t, model.FleetID(0), out.CreatedFleet)

	src, _ := g.Fleets.Get(f.ID)
	assert.Equal(t, []model.SquadronID{sq1.ID}, src.Squadrons)

	newFleet, ok := g.Fleets.Get(out.CreatedFleet)
	require.True(t, ok)
	assert.Equal(t, []model.SquadronID{sq2.ID}, newFleet.Squadrons)
	assert.Equal(t, sys, newFleet.System)

	movedSq, _ := g.Squadrons.Get(sq2.ID)
	assert.Equal(t, out.CreatedFleet, movedSq.Fleet)
}

func TestApplyMerge_RequiresSameSystem(t *testing.T) {
	g := store.NewGameState()
	house, sys := newHouseAndSystem(t, g)
	otherSys := &model.System{ID: g.NextSystemID()}
	g.Systems.Upsert(otherSys)

	src := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: sys, Status: model.Active}
	dst := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: otherSys.ID, Status: model.Active}
	g.Fleets.Upsert(src)
	g.Fleets.Upsert(dst)

	out := Apply(g, testConfig(), house, model.ZeroTurnCommand{Kind: model.ZTMerge, Fleet: src.ID, OtherFleet: dst.ID})
	assert.ErrorIs(t, out.Err, ErrWrongLocationClass)
}

func TestApplyLoadCargo_RejectsDrainingColonyBelowOnePU(t *testing.T) {
	g := store.NewGameState()
	house, sys := newHouseAndSystem(t, g)

	colony := &model.Colony{ID: g.NextColonyID(), Owner: house, System: sys, PopulationUnits: decimal.NewFromInt(5)}
	g.Colonies.Upsert(colony)
	f := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: sys, Status: model.Active}
	g.Fleets.Upsert(f)
	addTransport(g, f)

	out := Apply(g, testConfig(), house, model.ZeroTurnCommand{Kind: model.ZTLoadCargo, Fleet: f.ID, Colonists: decimal.NewFromInt(5)})
	assert.Error(t, out.Err)

	updated, _ := g.Colonies.Get(colony.ID)
	assert.True(t, updated.PopulationUnits.Equal(decimal.NewFromInt(5)))
}

func TestApplyLoadCargo_AllowsPartialLoad(t *testing.T) {
	g := store.NewGameState()
	house, sys := newHouseAndSystem(t, g)

	colony := &model.Colony{ID: g.NextColonyID(), Owner: house, System: sys, PopulationUnits: decimal.NewFromInt(5)}
	g.Colonies.Upsert(colony)
	f := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: sys, Status: model.Active}
	g.Fleets.Upsert(f)
	addTransport(g, f)

	out := Apply(g, testConfig(), house, model.ZeroTurnCommand{Kind: model.ZTLoadCargo, Fleet: f.ID, Colonists: decimal.NewFromInt(3)})
	require.NoError(t, out.Err)

	updated, _ := g.Colonies.Get(colony.ID)
	assert.True(t, updated.PopulationUnits.Equal(decimal.NewFromInt(2)))
	updatedFleet, _ := g.Fleets.Get(f.ID)
	assert.True(t, updatedFleet.CargoPU.Equal(decimal.NewFromInt(3)))
}

func TestApplyLoadCargo_RejectsLoadBeyondSpaceliftCapacity(t *testing.T) {
	g := store.NewGameState()
	house, sys := newHouseAndSystem(t, g)

	colony := &model.Colony{ID: g.NextColonyID(), Owner: house, System: sys, PopulationUnits: decimal.NewFromInt(50)}
	g.Colonies.Upsert(colony)
	f := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: sys, Status: model.Active}
	g.Fleets.Upsert(f)
	addTransport(g, f) // capacity 10.

	out := Apply(g, testConfig(), house, model.ZeroTurnCommand{Kind: model.ZTLoadCargo, Fleet: f.ID, Colonists: decimal.NewFromInt(11)})
	assert.Error(t, out.Err)

	updated, _ := g.Colonies.Get(colony.ID)
	assert.True(t, updated.PopulationUnits.Equal(decimal.NewFromInt(50)))
}

func TestApplyUnloadCargo_OnlyLandsWhatIsAboard(t *testing.T) {
	g := store.NewGameState()
	house, sys := newHouseAndSystem(t, g)

	colony := &model.Colony{ID: g.NextColonyID(), Owner: house, System: sys, PopulationUnits: decimal.NewFromInt(10)}
	g.Colonies.Upsert(colony)
	f := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: sys, Status: model.Active, CargoPU: decimal.NewFromInt(4)}
	g.Fleets.Upsert(f)

	out := Apply(g, testConfig(), house, model.ZeroTurnCommand{Kind: model.ZTUnloadCargo, Fleet: f.ID, Colonists: decimal.NewFromInt(9)})
	require.NoError(t, out.Err)

	updated, _ := g.Colonies.Get(colony.ID)
	assert.True(t, updated.PopulationUnits.Equal(decimal.NewFromInt(14)), "only the 4 carried PU land")
	updatedFleet, _ := g.Fleets.Get(f.ID)
	assert.True(t, updatedFleet.CargoPU.IsZero())
}

func TestApplyReactivate_RequiresFriendlyColonyAndMothballedStatus(t *testing.T) {
	g := store.NewGameState()
	house, sys := newHouseAndSystem(t, g)

	f := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: sys, Status: model.Active}
	g.Fleets.Upsert(f)
	out := Apply(g, testConfig(), house, model.ZeroTurnCommand{Kind: model.ZTReactivate, Fleet: f.ID})
	assert.Error(t, out.Err, "active fleets cannot be reactivated")

	f.Status = model.Mothballed
	g.Fleets.Upsert(f)
	out = Apply(g, testConfig(), house, model.ZeroTurnCommand{Kind: model.ZTReactivate, Fleet: f.ID})
	assert.ErrorIs(t, out.Err, ErrWrongLocationClass)

	g.Colonies.Upsert(&model.Colony{ID: g.NextColonyID(), Owner: house, System: sys})
	out = Apply(g, testConfig(), house, model.ZeroTurnCommand{Kind: model.ZTReactivate, Fleet: f.ID})
	require.NoError(t, out.Err)
	updated, _ := g.Fleets.Get(f.ID)
	assert.Equal(t, model.Active, updated.Status)
}
