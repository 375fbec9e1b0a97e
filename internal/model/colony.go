package model

import "github.com/shopspring/decimal"

// GroundForces are the defenders of a colony, engaged during invasion
// resolution in internal/combat.
type GroundForces struct {
	Armies       int
	Marines      int
	Batteries    int
	ShieldLevel  int // 0 means no planetary shield; at most 1 per colony.
}

// TaxHistory is a rolling window of recent tax-rate samples, used for the
// 6-turn rolling average.
type TaxHistory struct {
	Samples []decimal.Decimal // most recent last; capped at 6 by the economy package.
}

// Average returns the rolling average, or zero if no samples yet.
func (t *TaxHistory) Average() decimal.Decimal {
	if len(t.Samples) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, s := range t.Samples {
		sum = sum.Add(s)
	}
	return sum.Div(decimal.NewFromInt(int64(len(t.Samples))))
}

// Push records a new sample, keeping only the most recent 6.
func (t *TaxHistory) Push(sample decimal.Decimal) {
	t.Samples = append(t.Samples, sample)
	if len(t.Samples) > 6 {
		t.Samples = t.Samples[len(t.Samples)-6:]
	}
}

// Colony is a house's settlement at a system.
type Colony struct {
	ID     ColonyID
	Owner  HouseID
	System SystemID

	PlanetClass    string
	ResourceRating int

	PopulationUnits decimal.Decimal
	Infrastructure  decimal.Decimal
	TaxRate         decimal.Decimal // fraction in [0,1].
	TaxHistory      TaxHistory

	Facilities []FacilityID
	Ground     GroundForces

	// UnderConstruction/ConstructionQueue hold colony-anchored projects
	// (buildings, fighters, IU expansion); capital-ship projects live on
	// the relevant Facility instead.
	UnderConstruction []ProjectID
	ConstructionQueue []ProjectID
	RepairQueue       []ShipID

	UnassignedSquadrons []SquadronID

	Blockaded bool
}
