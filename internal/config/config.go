// Package config builds the typed ConfigSnapshot the core reads once
// at game init: a compiled, ready-to-play snapshot of the balance
// tables, an overlay loader for declarative tuning files, and a thin
// viper-based loader for the handful of runtime knobs cmd/hexturn
// exposes (house count, ring count, RNG seed).
package config

import (
	"github.com/shopspring/decimal"

	"hexdominion/internal/model"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// ResearchFieldNames are the nine named tech fields. EL and SL are not
// in this list; TechTree/ResearchCostTable track them separately.
var ResearchFieldNames = []string{
	"Weapons", "Shields", "Armor", "Drives", "ECM", "ECCM",
	"Detection", "Construction", "Logistics",
}

// Default returns a complete, internally-consistent ConfigSnapshot
// suitable for starting a new game; a declarative file loaded through
// Load can retune any of these values.
func Default() *model.ConfigSnapshot {
	return &model.ConfigSnapshot{
		Ships:         defaultShips(),
		Facilities:    defaultFacilities(),
		Ground:        defaultGround(),
		PlanetClasses: defaultPlanetClasses(),

		ResearchFields: ResearchFieldNames,
		ResearchCosts:  defaultResearchCosts(),

		Prestige: model.PrestigeSources{
			PerMinorBreakthrough:         1,
			PerModerateBreakthrough:      3,
			PerMajorBreakthrough:         8,
			PerRevolutionaryBreakthrough: 20,
		},

		Espionage: model.EspionageConfig{
			MeshBonusTiers: []model.MeshTier{
				{MinScouts: 2, Bonus: 1},
				{MinScouts: 4, Bonus: 2},
				{MinScouts: 6, Bonus: 3},
			},
			BaseDetectionChance: d(0.10),
		},

		TaxTiers:    defaultTaxTiers(),
		GrowthTiers: defaultGrowthTiers(),

		Setup: model.GameSetup{
			StartingTreasury:          d(5000),
			StartingFleet:             []string{"Scout", "Frigate", "Frigate"},
			StartingFacilities:        []model.FacilityKind{model.Spaceport, model.Shipyard},
			HomeSystemRingMax:         3,
			TechAdvancementTurnModulo: 26, // bi-annual on a 52-turn (1yr) calendar.

			IUUnitCost:          d(50),
			ShieldCost:          d(300),
			NaturalGrowthRate:   d(0.02),
			StarbaseGrowthBonus: d(0.01),
			PopulationCap:       d(500),
		},

		RNGSeed: 1,
	}
}

func defaultShips() map[string]model.ShipClassStats {
	ships := map[string]model.ShipClassStats{
		"Scout": {
			Class: "Scout", BaseCost: d(20),
			AttackStrength: 1, DefenseStrength: 1, Hull: 5, CommandCost: 1,
			IsScoutOnly: true, TargetBucket: model.BucketRaider,
		},
		"Frigate": {
			Class: "Frigate", BaseCost: d(60),
			AttackStrength: 6, DefenseStrength: 6, Hull: 20, CommandCost: 2,
			TargetBucket: model.BucketEscort,
		},
		"Cruiser": {
			Class: "Cruiser", BaseCost: d(150),
			AttackStrength: 14, DefenseStrength: 14, Hull: 60, CommandCost: 4,
			TargetBucket: model.BucketCapital,
		},
		"Battleship": {
			Class: "Battleship", BaseCost: d(400),
			AttackStrength: 32, DefenseStrength: 30, Hull: 160, CommandCost: 8,
			TargetBucket: model.BucketCapital,
			RapidFireVsShips: []model.RapidFire{{Target: "Frigate", Bonus: 2}},
		},
		"Raider": {
			Class: "Raider", BaseCost: d(90),
			AttackStrength: 10, DefenseStrength: 4, Hull: 18, CommandCost: 3,
			TargetBucket: model.BucketRaider,
			RapidFireVsShips: []model.RapidFire{{Target: "Transport", Bonus: 3}},
		},
		"Fighter": {
			Class: "Fighter", BaseCost: d(15),
			AttackStrength: 4, DefenseStrength: 2, Hull: 4, CommandCost: 1,
			TargetBucket: model.BucketFighter,
		},
		"Transport": {
			Class: "Transport", BaseCost: d(80),
			AttackStrength: 0, DefenseStrength: 3, Hull: 40, CommandCost: 2,
			CarryCapacity: 10, IsSpacelift: true, TargetBucket: model.BucketEscort,
		},
		"Carrier": {
			Class: "Carrier", BaseCost: d(350),
			AttackStrength: 8, DefenseStrength: 20, Hull: 120, CommandCost: 6,
			CarryCapacity: 6, TargetBucket: model.BucketCapital,
		},
	}
	return ships
}

func defaultFacilities() map[model.FacilityKind]model.FacilityStats {
	return map[model.FacilityKind]model.FacilityStats{
		model.Spaceport: {Kind: model.Spaceport, BaseCost: d(200), Upkeep: d(5), Docks: 1, MaintMultiplier: d(1)},
		model.Shipyard:  {Kind: model.Shipyard, BaseCost: d(500), Upkeep: d(12), Docks: 2, MaintMultiplier: d(1)},
		model.Drydock:   {Kind: model.Drydock, BaseCost: d(900), Upkeep: d(20), Docks: 4, MaintMultiplier: d(1)},
		model.Starbase:  {Kind: model.Starbase, BaseCost: d(1200), Upkeep: d(30), MaintMultiplier: d(1.25)},
	}
}

func defaultGround() map[string]model.GroundUnitStats {
	return map[string]model.GroundUnitStats{
		"army":    {Attack: 4, Defense: 6},
		"marine":  {Attack: 6, Defense: 4},
		"battery": {Attack: 8, Defense: 10},
	}
}

func defaultPlanetClasses() map[string]model.PlanetClassStats {
	return map[string]model.PlanetClassStats{
		"Terran":   {BaseIndex: d(1.0), ResourceWeight: d(1.0)},
		"Oceanic":  {BaseIndex: d(0.9), ResourceWeight: d(0.9)},
		"Arid":     {BaseIndex: d(0.7), ResourceWeight: d(1.1)},
		"Barren":   {BaseIndex: d(0.4), ResourceWeight: d(1.3)},
		"GasGiant": {BaseIndex: d(0.2), ResourceWeight: d(1.6)},
	}
}

func defaultResearchCosts() model.ResearchCostTable {
	base := make(map[string]decimal.Decimal, len(ResearchFieldNames)+2)
	for _, f := range ResearchFieldNames {
		base[f] = d(100)
	}
	base["EL"] = d(150)
	base["SL"] = d(150)
	return model.ResearchCostTable{
		BaseCostPerPoint: base,
		SLMultiplier:     d(1.05),
		OutputLogCoeff:   d(0.15),
		MaxEL:            10,
		MaxSL:            10,
		MaxField:         10,
		BreakthroughBase: d(0.03),
		BreakthroughCap:  d(0.15),
	}
}

func defaultTaxTiers() []model.TaxTier {
	return []model.TaxTier{
		{MinRate: d(0.0), GrowthMult: d(1.20)},
		{MinRate: d(0.15), GrowthMult: d(1.00)},
		{MinRate: d(0.30), GrowthMult: d(0.80)},
		{MinRate: d(0.50), GrowthMult: d(0.50)},
	}
}

func defaultGrowthTiers() []model.GrowthTier {
	return []model.GrowthTier{
		{MinPopulation: d(0), Bonus: d(0.02)},
		{MinPopulation: d(100), Bonus: d(0.01)},
		{MinPopulation: d(300), Bonus: d(0.005)},
	}
}
