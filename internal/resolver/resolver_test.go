package resolver

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hexdominion/internal/config"
	"hexdominion/internal/events"
	"hexdominion/internal/model"
)

// packetsFor builds one empty order packet per house, the same shape
// cmd/hexturn sends when no human player has submitted orders.
func packetsFor(g *model.House, turn int) model.OrderPacket {
	return model.OrderPacket{ID: uuid.New(), House: g.ID, Turn: turn}
}

func TestResolveTurn_AdvancesTurnAndStaysDeterministic(t *testing.T) {
	cfg := config.Default()

	g1, err := config.NewGame(cfg, []string{"Sol Dominion", "Krell Ascendancy"}, 2, 11)
	require.NoError(t, err)
	g2, err := config.NewGame(cfg, []string{"Sol Dominion", "Krell Ascendancy"}, 2, 11)
	require.NoError(t, err)

	packets1 := make([]model.OrderPacket, 0, 2)
	for _, h := range g1.Houses.All() {
		packets1 = append(packets1, packetsFor(h, g1.Turn+1))
	}
	packets2 := make([]model.OrderPacket, 0, 2)
	for _, h := range g2.Houses.All() {
		packets2 = append(packets2, packetsFor(h, g2.Turn+1))
	}

	newG1, log1, err := ResolveTurn(g1, cfg, packets1, 99)
	require.NoError(t, err)
	newG2, log2, err := ResolveTurn(g2, cfg, packets2, 99)
	require.NoError(t, err)

	assert.Equal(t, 1, newG1.Turn)
	assert.Equal(t, len(log1.All()), len(log2.All()))

	for _, h := range newG1.Houses.All() {
		other, ok := newG2.Houses.Get(h.ID)
		require.True(t, ok)
		assert.True(t, h.Treasury.Equal(other.Treasury), "treasury diverged for %s", h.Name)
	}
}

func TestResolveTurn_ShipCommissioningCycle(t *testing.T) {
	cfg := config.Default()
	g, err := config.NewGame(cfg, []string{"Sol Dominion"}, 2, 5)
	require.NoError(t, err)

	house := g.Houses.All()[0]
	colony := g.Colonies.ByOwner(house.ID)[0]

	buildPkt := model.OrderPacket{
		ID: uuid.New(), House: house.ID, Turn: 1,
		BuildOrders: []model.BuildOrder{{
			Anchor: model.ProjectAnchor{Colony: colony.ID}, Kind: model.ShipProject,
			ShipClass: "Scout", Quantity: 1,
		}},
	}

	g, _, err = ResolveTurn(g, cfg, []model.OrderPacket{buildPkt}, 99)
	require.NoError(t, err)

	colony, _ = g.Colonies.Get(colony.ID)
	require.Len(t, colony.UnderConstruction, 1, "the Scout project is active after turn 1")

	g, _, err = ResolveTurn(g, cfg, []model.OrderPacket{{ID: uuid.New(), House: house.ID, Turn: 2}}, 99)
	require.NoError(t, err)

	colony, _ = g.Colonies.Get(colony.ID)
	assert.Empty(t, colony.UnderConstruction, "the project commissioned during turn 2")

	total := len(colony.UnassignedSquadrons)
	for _, f := range g.Fleets.ByOwner(house.ID) {
		total += len(f.Squadrons)
	}
	assert.Greater(t, total, len(cfg.Setup.StartingFleet), "the commissioned Scout joined the squadron pool")
}

func TestResolveTurn_ReserveFleetCannotMove(t *testing.T) {
	cfg := config.Default()
	g, err := config.NewGame(cfg, []string{"Sol Dominion"}, 2, 5)
	require.NoError(t, err)

	house := g.Houses.All()[0]
	fleet := g.Fleets.ByOwner(house.ID)[0]
	fleet.Status = model.Reserve
	g.Fleets.Upsert(fleet)
	origin := fleet.System

	var target model.SystemID
	for _, lane := range g.Lanes.From(origin) {
		target = lane.To
		break
	}
	require.NotZero(t, target)

	pkt := model.OrderPacket{
		ID: uuid.New(), House: house.ID, Turn: 1,
		FleetOrders: []model.FleetOrder{{Kind: model.OrderMove, Fleet: fleet.ID, Target: target}},
	}
	g, log, err := ResolveTurn(g, cfg, []model.OrderPacket{pkt}, 99)
	require.NoError(t, err)

	updated, _ := g.Fleets.Get(fleet.ID)
	assert.Equal(t, origin, updated.System, "reserve fleets reject movement outright")
	assert.Equal(t, model.Reserve, updated.Status)

	rejected := false
	for _, e := range log.ForHouse(house.ID) {
		if e.Kind == events.KindOrderRejected {
			rejected = true
		}
	}
	assert.True(t, rejected, "the rejection is surfaced as an event")
}

func TestBuildFogOfWarViews_OwnerSeesItsOwnHomeSystem(t *testing.T) {
	cfg := config.Default()
	g, err := config.NewGame(cfg, []string{"Sol Dominion"}, 1, 5)
	require.NoError(t, err)

	views := BuildFogOfWarViews(g, g.Turn)
	house := g.Houses.All()[0]
	view := views[house.ID]

	owned := 0
	for _, vis := range view.Systems {
		if vis == model.Owned {
			owned++
		}
	}
	assert.Equal(t, 1, owned, "exactly the home system should be Owned")
}
