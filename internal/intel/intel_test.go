package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hexdominion/internal/model"
	"hexdominion/internal/store"
)

func chainWorld(t *testing.T) (*store.GameState, model.HouseID, model.HouseID, []model.SystemID) {
	t.Helper()
	g := store.NewGameState()
	h1 := &model.House{ID: g.NextHouseID(), Relations: map[model.HouseID]model.DiplomaticRelation{}}
	h2 := &model.House{ID: g.NextHouseID(), Relations: map[model.HouseID]model.DiplomaticRelation{}}
	g.Houses.Upsert(h1)
	g.Houses.Upsert(h2)

	var systems []model.SystemID
	for i := 0; i < 3; i++ {
		s := &model.System{ID: g.NextSystemID()}
		g.Systems.Upsert(s)
		systems = append(systems, s.ID)
	}
	g.Lanes.Add(model.JumpLane{From: systems[0], To: systems[1], Type: model.Major})
	g.Lanes.Add(model.JumpLane{From: systems[1], To: systems[0], Type: model.Major})
	g.Lanes.Add(model.JumpLane{From: systems[1], To: systems[2], Type: model.Major})
	g.Lanes.Add(model.JumpLane{From: systems[2], To: systems[1], Type: model.Major})

	return g, h1.ID, h2.ID, systems
}

func TestBuildFogOfWarView_ClassifiesOwnedOccupiedAdjacentHidden(t *testing.T) {
	g, house, other, systems := chainWorld(t)

	g.Colonies.Upsert(&model.Colony{ID: g.NextColonyID(), Owner: house, System: systems[0]})
	g.Colonies.Upsert(&model.Colony{ID: g.NextColonyID(), Owner: other, System: systems[2]})

	view := BuildFogOfWarView(g, house, 5)

	assert.Equal(t, model.Owned, view.Systems[systems[0]])
	assert.Equal(t, model.Adjacent, view.Systems[systems[1]])
	assert.Equal(t, model.Hidden, view.Systems[systems[2]])
}

func TestBuildFogOfWarView_OccupiedWhenFriendlyFleetPresentWithoutColony(t *testing.T) {
	g, house, _, systems := chainWorld(t)
	f := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: systems[1], Status: model.Active}
	g.Fleets.Upsert(f)

	view := BuildFogOfWarView(g, house, 1)
	assert.Equal(t, model.Occupied, view.Systems[systems[1]])
	require.Contains(t, view.VisibleFleets, f.ID)
}

func TestMeshBonus_TieredByScoutCount(t *testing.T) {
	cfg := &model.ConfigSnapshot{Espionage: model.EspionageConfig{
		MeshBonusTiers: []model.MeshTier{
			{MinScouts: 2, Bonus: 1},
			{MinScouts: 4, Bonus: 2},
			{MinScouts: 6, Bonus: 3},
		},
	}}
	assert.Equal(t, 0, MeshBonus(cfg, 1))
	assert.Equal(t, 1, MeshBonus(cfg, 3))
	assert.Equal(t, 2, MeshBonus(cfg, 5))
	assert.Equal(t, 3, MeshBonus(cfg, 9))
}

func TestStartMission_ComputesPathToTarget(t *testing.T) {
	g, house, _, systems := chainWorld(t)
	ship := &model.Ship{ID: g.NextShipID(), Class: "Scout"}
	g.Ships.Upsert(ship)
	f := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: systems[0], Status: model.Active}
	sq := &model.Squadron{ID: g.NextSquadronID(), Fleet: f.ID, Type: model.Intel, Flagship: ship.ID}
	f.Squadrons = []model.SquadronID{sq.ID}
	g.Squadrons.Upsert(sq)
	g.Fleets.Upsert(f)

	mission, err := StartMission(g, house, sq.ID, systems[2], 1)
	require.NoError(t, err)
	assert.Equal(t, []model.SystemID{systems[1], systems[2]}, mission.Path)
	assert.Equal(t, model.ScoutTraveling, mission.State)
}
