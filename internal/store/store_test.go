package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hexdominion/internal/model"
)

func TestFleetTable_IndexFollowsInPlaceSystemChange(t *testing.T) {
	g := NewGameState()
	f := &model.Fleet{ID: g.NextFleetID(), Owner: 1, System: 1, Status: model.Active}
	g.Fleets.Upsert(f)

	// Callers mutate the live entity, then write back; the by-system
	// index must follow the move.
	f.System = 2
	g.Fleets.Upsert(f)

	assert.Empty(t, g.Fleets.AtSystem(1))
	require.Len(t, g.Fleets.AtSystem(2), 1)
	assert.Equal(t, f.ID, g.Fleets.AtSystem(2)[0].ID)
}

func TestColonyTable_IndexFollowsInPlaceOwnerChange(t *testing.T) {
	g := NewGameState()
	c := &model.Colony{ID: g.NextColonyID(), Owner: 1, System: 1}
	g.Colonies.Upsert(c)

	c.Owner = 2
	g.Colonies.Upsert(c)

	assert.Empty(t, g.Colonies.ByOwner(1))
	require.Len(t, g.Colonies.ByOwner(2), 1)
}

func TestSquadronTable_IndexFollowsFleetTransfer(t *testing.T) {
	g := NewGameState()
	sq := &model.Squadron{ID: g.NextSquadronID(), Fleet: 1}
	g.Squadrons.Upsert(sq)

	sq.Fleet = 2
	g.Squadrons.Upsert(sq)

	assert.Empty(t, g.Squadrons.ByFleet(1))
	require.Len(t, g.Squadrons.ByFleet(2), 1)
}

func TestTable_AllPreservesInsertionOrderAcrossRemoval(t *testing.T) {
	g := NewGameState()
	var ids []model.FleetID
	for i := 0; i < 4; i++ {
		f := &model.Fleet{ID: g.NextFleetID(), Owner: 1, System: 1}
		g.Fleets.Upsert(f)
		ids = append(ids, f.ID)
	}
	g.Fleets.Remove(ids[1])

	all := g.Fleets.All()
	require.Len(t, all, 3)
	assert.Equal(t, ids[0], all[0].ID)
	assert.Equal(t, ids[2], all[1].ID)
	assert.Equal(t, ids[3], all[2].ID)
}

func TestCheckInvariants_AllowsUnassignedSquadrons(t *testing.T) {
	g := NewGameState()
	ship := &model.Ship{ID: g.NextShipID(), Class: "Scout"}
	g.Ships.Upsert(ship)
	sq := &model.Squadron{ID: g.NextSquadronID(), Flagship: ship.ID}
	g.Squadrons.Upsert(sq)

	assert.NoError(t, CheckInvariants(g), "a squadron waiting in a colony pool has no fleet yet")
}

func TestCheckInvariants_DetectsDanglingShipHandle(t *testing.T) {
	g := NewGameState()
	f := &model.Fleet{ID: g.NextFleetID(), Owner: 1, System: 1}
	sq := &model.Squadron{ID: g.NextSquadronID(), Fleet: f.ID, Flagship: 999}
	f.Squadrons = []model.SquadronID{sq.ID}
	g.Squadrons.Upsert(sq)
	g.Fleets.Upsert(f)

	err := CheckInvariants(g)
	require.Error(t, err)
	var iv *InvariantViolation
	require.ErrorAs(t, err, &iv)
	assert.Equal(t, "dangling-handle", iv.Rule)
}
