package movement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hexdominion/internal/model"
	"hexdominion/internal/starmap"
	"hexdominion/internal/store"
)

func threeHopChain(t *testing.T) (*store.GameState, model.HouseID, []model.SystemID) {
	t.Helper()
	g := store.NewGameState()

	h := &model.House{ID: g.NextHouseID(), Relations: map[model.HouseID]model.DiplomaticRelation{}}
	g.Houses.Upsert(h)

	var systems []model.SystemID
	for i := 0; i < 4; i++ {
		s := &model.System{ID: g.NextSystemID()}
		g.Systems.Upsert(s)
		systems = append(systems, s.ID)
	}
	for i := 0; i < len(systems)-1; i++ {
		g.Lanes.Add(model.JumpLane{From: systems[i], To: systems[i+1], Type: model.Major})
		g.Lanes.Add(model.JumpLane{From: systems[i+1], To: systems[i], Type: model.Major})
	}
	return g, h.ID, systems
}

func TestExecuteHops_AllFriendlyAdvancesFullPath(t *testing.T) {
	g, house, systems := threeHopChain(t)
	// Own a colony at every system so every hop is friendly-dominated.
	for _, sys := range systems {
		g.Colonies.Upsert(&model.Colony{ID: g.NextColonyID(), Owner: house, System: sys})
	}

	f := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: systems[0], Status: model.Active}
	g.Fleets.Upsert(f)

	comp := starmap.Composition{}
	taken, remainder, err := ExecuteHops(g, f, comp, systems[1:])
	require.NoError(t, err)
	assert.Equal(t, 3, taken)
	assert.Empty(t, remainder)
	assert.Equal(t, systems[3], f.System)
}

func TestExecuteHops_StopsAfterSingleHostileHop(t *testing.T) {
	g, house, systems := threeHopChain(t)

	enemy := &model.House{ID: g.NextHouseID(), Relations: map[model.HouseID]model.DiplomaticRelation{}}
	g.Houses.Upsert(enemy)
	h, _ := g.Houses.Get(house)
	h.SetRelation(enemy.ID, model.Hostile, 1)
	g.Houses.Upsert(h)

	// systems[1] is hostile territory; systems[2] and [3] are unowned.
	g.Colonies.Upsert(&model.Colony{ID: g.NextColonyID(), Owner: enemy.ID, System: systems[1]})

	f := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: systems[0], Status: model.Active}
	g.Fleets.Upsert(f)

	comp := starmap.Composition{}
	taken, remainder, err := ExecuteHops(g, f, comp, systems[1:])
	require.NoError(t, err)
	assert.Equal(t, 1, taken)
	assert.Equal(t, systems[2:], remainder)
	assert.Equal(t, systems[1], f.System)
}

func TestExecuteHops_RejectsNonActiveFleet(t *testing.T) {
	g, house, systems := threeHopChain(t)
	f := &model.Fleet{ID: g.NextFleetID(), Owner: house, System: systems[0], Status: model.Mothballed}
	g.Fleets.Upsert(f)

	_, _, err := ExecuteHops(g, f, starmap.Composition{}, systems[1:])
	assert.ErrorIs(t, err, ErrFleetCannotMove)
}

func TestEvaluateSeekHome_AbortsVoidGuardMission(t *testing.T) {
	g, house, systems := threeHopChain(t)
	g.Colonies.Upsert(&model.Colony{ID: g.NextColonyID(), Owner: house, System: systems[0]})

	enemy := &model.House{ID: g.NextHouseID(), Relations: map[model.HouseID]model.DiplomaticRelation{}}
	g.Houses.Upsert(enemy)
	h, _ := g.Houses.Get(house)
	h.SetRelation(enemy.ID, model.Hostile, 1)
	g.Houses.Upsert(h)
	g.Colonies.Upsert(&model.Colony{ID: g.NextColonyID(), Owner: enemy.ID, System: systems[3]})

	f := &model.Fleet{
		ID: g.NextFleetID(), Owner: house, System: systems[3], Status: model.Active,
		Command: &model.FleetCommand{Mission: model.GuardPlanet, Target: systems[3]},
	}
	g.Fleets.Upsert(f)

	cfg := &model.ConfigSnapshot{Ships: map[string]model.ShipClassStats{}}
	results := EvaluateSeekHome(g, cfg, house)
	require.Len(t, results, 1)
	assert.True(t, results[0].Aborted)
	assert.False(t, results[0].Held)

	updated, ok := g.Fleets.Get(f.ID)
	require.True(t, ok)
	require.NotNil(t, updated.Command)
	assert.Equal(t, model.SeekHome, updated.Command.Mission)
}
