package model

import "github.com/shopspring/decimal"

// ConfigSnapshot is the typed, immutable bundle the core reads once at
// game init and holds for the game's lifetime. Parsing the
// declarative config files that produce this snapshot is an external
// concern; the resolver only ever sees this struct.
type ConfigSnapshot struct {
	Ships      map[string]ShipClassStats
	Facilities map[FacilityKind]FacilityStats
	Ground     map[string]GroundUnitStats

	PlanetClasses map[string]PlanetClassStats

	ResearchFields []string
	ResearchCosts  ResearchCostTable

	Prestige PrestigeSources

	Espionage EspionageConfig

	TaxTiers    []TaxTier
	GrowthTiers []GrowthTier

	Setup GameSetup

	RNGSeed int64
}

// FacilityStats are the static, non-instance attributes of a facility
// kind: base build cost, upkeep, and (for Neorias) dock count.
type FacilityStats struct {
	Kind        FacilityKind
	BaseCost    decimal.Decimal
	Upkeep      decimal.Decimal
	Docks       int // Neorias only.
	MaintMultiplier decimal.Decimal
}

// GroundUnitStats are the static attack/defense values for armies,
// marines and planetary batteries, used by invasion/bombardment
// resolution in internal/combat.
type GroundUnitStats struct {
	Attack  int
	Defense int
}

// PlanetClassStats drive the raw production index of :
// raw_index(planetClass, resourceRating).
type PlanetClassStats struct {
	BaseIndex      decimal.Decimal
	ResourceWeight decimal.Decimal
}

// ResearchCostTable gives the per-point RP cost formula coefficients,
// tiered by Science Level plus a logarithmic term of gross output.
type ResearchCostTable struct {
	BaseCostPerPoint map[string]decimal.Decimal
	SLMultiplier     decimal.Decimal
	OutputLogCoeff   decimal.Decimal
	MaxEL            int
	MaxSL            int
	MaxField         int
	BreakthroughBase decimal.Decimal // base % chance per RP roll.
	BreakthroughCap  decimal.Decimal // hard cap, 15%.
}

// PrestigeSources names the fixed prestige awards for advancement
// events.
type PrestigeSources struct {
	PerMinorBreakthrough        int
	PerModerateBreakthrough     int
	PerMajorBreakthrough        int
	PerRevolutionaryBreakthrough int
}

// EspionageConfig carries detection thresholds and mesh-bonus tiers for
// the spy-scout subsystem.
type EspionageConfig struct {
	MeshBonusTiers []MeshTier
	BaseDetectionChance decimal.Decimal
}

// MeshTier is one entry of the tiered ELI bonus for co-located allied
// scouts (2-3 scouts +1, 4-5 +2, 6+ +3).
type MeshTier struct {
	MinScouts int
	Bonus     int
}

// TaxTier and GrowthTier describe the tiered multipliers referenced in
// (tax-rate-based population growth multiplier, starbase growth
// bonus caps, etc).
type TaxTier struct {
	MinRate    decimal.Decimal
	GrowthMult decimal.Decimal
}

type GrowthTier struct {
	MinPopulation decimal.Decimal
	Bonus         decimal.Decimal
}

// GameSetup carries the starting conditions applied at game init:
// starting resources/tech/fleet/facilities, and home-system naming.
type GameSetup struct {
	StartingTreasury   decimal.Decimal
	StartingFleet      []string // ship class names commissioned at each house's home colony.
	StartingFacilities []FacilityKind
	HomeSystemRingMax  int // players are placed on outer-ring vertices when possible.
	TechAdvancementTurnModulo int // bi-annual: turn % modulo == 0 triggers advancement.

	IUUnitCost       decimal.Decimal // PP cost per point of Industrial Expansion.
	ShieldCost       decimal.Decimal // PP cost of a planetary shield (at most one per colony, rebuildable).
	NaturalGrowthRate decimal.Decimal // baseline fraction of PU added per turn before tiers/bonuses.
	StarbaseGrowthBonus decimal.Decimal // additive growth fraction while a Starbase is present and under the cap.
	PopulationCap    decimal.Decimal // per-colony PU ceiling.
}
