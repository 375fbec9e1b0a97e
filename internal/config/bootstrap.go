package config

import (
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"

	"hexdominion/internal/model"
	"hexdominion/internal/starmap"
	"hexdominion/internal/store"
)

// NewGame builds a fresh GameState for the given house names: it
// generates the star map, places each house on a home system,
// and commissions the starting colony/facilities/fleet named by the
// snapshot's GameSetup. seed drives every deterministic choice the
// generator and the starting-fleet commissioning make, so two calls
// with the same houseNames/rings/seed produce byte-identical states
// - the same requirement ResolveTurn itself upholds.
func NewGame(cfg *model.ConfigSnapshot, houseNames []string, rings int, seed int64) (*store.GameState, error) {
	g := store.NewGameState()
	rngSrc := rand.New(rand.NewSource(seed))

	houseIDs := make([]model.HouseID, 0, len(houseNames))
	for _, name := range houseNames {
		h := model.NewHouse(g.NextHouseID(), name, cfg.ResearchFields)
		h.Treasury = cfg.Setup.StartingTreasury
		g.Houses.Upsert(h)
		houseIDs = append(houseIDs, h.ID)
	}

	if err := starmap.Generate(g, rings, houseIDs, rngSrc); err != nil {
		return nil, fmt.Errorf("config: generating star map: %w", err)
	}
	if err := starmap.Validate(g); err != nil {
		return nil, fmt.Errorf("config: validating star map: %w", err)
	}

	for _, h := range houseIDs {
		if err := foundHomeColony(g, cfg, h); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// foundHomeColony locates the system assigned to house h by
// starmap.Generate and commissions its starting colony, facilities and
// fleet directly (game-init commissioning bypasses the construction
// queue entirely - there is nothing to queue at turn zero).
func foundHomeColony(g *store.GameState, cfg *model.ConfigSnapshot, h model.HouseID) error {
	var home *model.System
	for _, sys := range g.Systems.All() {
		if sys.Assigned != nil && *sys.Assigned == h {
			home = sys
			break
		}
	}
	if home == nil {
		return fmt.Errorf("config: no home system assigned to %s", h)
	}

	colony := &model.Colony{
		ID:              g.NextColonyID(),
		Owner:           h,
		System:          home.ID,
		PlanetClass:     "Terran",
		ResourceRating:  5,
		PopulationUnits: decimal.NewFromInt(50),
		Infrastructure:  decimal.NewFromInt(20),
		TaxRate:         decimal.NewFromFloat(0.2),
	}
	g.Colonies.Upsert(colony)

	for _, kind := range cfg.Setup.StartingFacilities {
		stats := cfg.Facilities[kind]
		fac := &model.Facility{
			ID:     g.NextFacilityID(),
			Colony: colony.ID,
			Kind:   kind,
			Level:  1,
			Docks:  stats.Docks,
		}
		g.Facilities.Upsert(fac)
		colony.Facilities = append(colony.Facilities, fac.ID)
	}
	g.Colonies.Upsert(colony)

	fleet := &model.Fleet{
		ID:     g.NextFleetID(),
		Owner:  h,
		System: home.ID,
		Status: model.Active,
	}
	g.Fleets.Upsert(fleet)

	for _, class := range cfg.Setup.StartingFleet {
		stats, ok := cfg.Ships[class]
		squadronType := model.Combat
		if ok && stats.IsScoutOnly {
			squadronType = model.Intel
		}
		ship := &model.Ship{ID: g.NextShipID(), Class: class, Tech: 0, State: model.Undamaged}
		g.Ships.Upsert(ship)

		sq := &model.Squadron{
			ID:       g.NextSquadronID(),
			Fleet:    fleet.ID,
			Type:     squadronType,
			Flagship: ship.ID,
		}
		g.Squadrons.Upsert(sq)
		fleet.Squadrons = append(fleet.Squadrons, sq.ID)
	}
	g.Fleets.Upsert(fleet)

	return nil
}
