package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hexdominion/internal/model"
	"hexdominion/internal/store"
)

func fixedCost(cost int64) func(model.BuildOrder) (decimal.Decimal, bool) {
	return func(model.BuildOrder) (decimal.Decimal, bool) {
		return decimal.NewFromInt(cost), true
	}
}

func seedHouseWithColony(g *store.GameState, treasury int64) (model.HouseID, model.ColonyID) {
	h := &model.House{ID: g.NextHouseID(), Treasury: decimal.NewFromInt(treasury)}
	g.Houses.Upsert(h)
	s := &model.System{ID: g.NextSystemID()}
	g.Systems.Upsert(s)
	c := &model.Colony{ID: g.NextColonyID(), Owner: h.ID, System: s.ID}
	g.Colonies.Upsert(c)
	return h.ID, c.ID
}

func TestValidate_BudgetRejectsDoubleSpendWithinOnePacket(t *testing.T) {
	g := store.NewGameState()
	house, colony := seedHouseWithColony(g, 150)

	pkt := model.OrderPacket{House: house, BuildOrders: []model.BuildOrder{
		{Anchor: model.ProjectAnchor{Colony: colony}, Kind: model.BuildingProject, BuildingKind: model.Spaceport, Quantity: 1},
		{Anchor: model.ProjectAnchor{Colony: colony}, Kind: model.BuildingProject, BuildingKind: model.Spaceport, Quantity: 1},
	}}

	res := Validate(g, pkt, fixedCost(100), 8)

	assert.Len(t, res.AcceptedBuild, 1, "the second order overdraws the shared budget")
	require.Len(t, res.Rejections, 1)
	assert.Equal(t, ReasonInsufficientBudget, res.Rejections[0].Reason)
	assert.Equal(t, 1, res.Rejections[0].Index)
}

func TestValidate_ReserveFleetCannotReceiveMoveOrder(t *testing.T) {
	g := store.NewGameState()
	house, _ := seedHouseWithColony(g, 1000)

	f := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: 1, Status: model.Reserve}
	g.Fleets.Upsert(f)

	pkt := model.OrderPacket{House: house, FleetOrders: []model.FleetOrder{
		{Kind: model.OrderMove, Fleet: f.ID, Target: 2},
	}}
	res := Validate(g, pkt, fixedCost(0), 8)

	assert.Empty(t, res.AcceptedFleet)
	require.Len(t, res.Rejections, 1)
	assert.Equal(t, ReasonWrongFleetStatus, res.Rejections[0].Reason)
}

func TestValidate_SecondShieldRejected(t *testing.T) {
	g := store.NewGameState()
	house, colonyID := seedHouseWithColony(g, 1000)
	colony, _ := g.Colonies.Get(colonyID)
	colony.Ground.ShieldLevel = 1
	g.Colonies.Upsert(colony)

	pkt := model.OrderPacket{House: house, BuildOrders: []model.BuildOrder{
		{Anchor: model.ProjectAnchor{Colony: colonyID}, Kind: model.BuildingProject, IsShieldUpgrade: true, Quantity: 1},
	}}
	res := Validate(g, pkt, fixedCost(100), 8)

	assert.Empty(t, res.AcceptedBuild)
	require.Len(t, res.Rejections, 1)
	assert.Equal(t, ReasonShieldLimitReached, res.Rejections[0].Reason)
}

func TestValidate_ShieldRebuildableOnceDestroyed(t *testing.T) {
	g := store.NewGameState()
	house, colonyID := seedHouseWithColony(g, 1000)

	pkt := model.OrderPacket{House: house, BuildOrders: []model.BuildOrder{
		{Anchor: model.ProjectAnchor{Colony: colonyID}, Kind: model.BuildingProject, IsShieldUpgrade: true, Quantity: 1},
	}}
	res := Validate(g, pkt, fixedCost(100), 8)

	assert.Len(t, res.AcceptedBuild, 1, "a colony with shield level 0 may build one")
	assert.Empty(t, res.Rejections)
}

func TestValidate_ShipOrdersBeyondSquadronRoomRejected(t *testing.T) {
	g := store.NewGameState()
	house, colonyID := seedHouseWithColony(g, 10000)

	pkt := model.OrderPacket{House: house, BuildOrders: []model.BuildOrder{
		{Anchor: model.ProjectAnchor{Colony: colonyID}, Kind: model.ShipProject, ShipClass: "Scout", Quantity: 2},
		{Anchor: model.ProjectAnchor{Colony: colonyID}, Kind: model.ShipProject, ShipClass: "Scout", Quantity: 1},
	}}
	res := Validate(g, pkt, fixedCost(10), 2)

	assert.Len(t, res.AcceptedBuild, 1, "room for 2 admits the quantity-2 order only")
	require.Len(t, res.Rejections, 1)
	assert.Equal(t, ReasonSquadronLimitReached, res.Rejections[0].Reason)
}

func TestValidate_UnknownReferencesRejectedIndividually(t *testing.T) {
	g := store.NewGameState()
	house, colonyID := seedHouseWithColony(g, 1000)

	pkt := model.OrderPacket{
		House: house,
		BuildOrders: []model.BuildOrder{
			{Anchor: model.ProjectAnchor{Colony: 999}, Kind: model.BuildingProject, Quantity: 1},
			{Anchor: model.ProjectAnchor{Colony: colonyID}, Kind: model.BuildingProject, BuildingKind: model.Spaceport, Quantity: 1},
		},
		FleetOrders: []model.FleetOrder{
			{Kind: model.OrderMove, Fleet: 999, Target: 2},
		},
	}
	res := Validate(g, pkt, fixedCost(100), 8)

	assert.Len(t, res.AcceptedBuild, 1, "rejection is per order, never the whole packet")
	assert.Len(t, res.Rejections, 2)
	for _, rej := range res.Rejections {
		assert.Equal(t, ReasonUnknownReference, rej.Reason)
	}
}
