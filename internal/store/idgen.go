package store

import "hexdominion/internal/model"

// The Next* methods are the only place new handles are minted; handles
// are never reused even after Remove, so a stale handle from a prior
// turn can never silently alias a new entity.

func (g *GameState) NextHouseID() model.HouseID {
	g.nextHouse++
	return model.HouseID(g.nextHouse)
}

func (g *GameState) NextSystemID() model.SystemID {
	g.nextSystem++
	return model.SystemID(g.nextSystem)
}

func (g *GameState) NextColonyID() model.ColonyID {
	g.nextColony++
	return model.ColonyID(g.nextColony)
}

func (g *GameState) NextFleetID() model.FleetID {
	g.nextFleet++
	return model.FleetID(g.nextFleet)
}

func (g *GameState) NextSquadronID() model.SquadronID {
	g.nextSquadron++
	return model.SquadronID(g.nextSquadron)
}

func (g *GameState) NextShipID() model.ShipID {
	g.nextShip++
	return model.ShipID(g.nextShip)
}

func (g *GameState) NextFacilityID() model.FacilityID {
	g.nextFacility++
	return model.FacilityID(g.nextFacility)
}

func (g *GameState) NextProjectID() model.ProjectID {
	g.nextProject++
	return model.ProjectID(g.nextProject)
}

func (g *GameState) NextScoutMissionID() model.ScoutMissionID {
	g.nextScout++
	return model.ScoutMissionID(g.nextScout)
}
