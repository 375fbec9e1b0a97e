package model

import "github.com/shopspring/decimal"

// ProjectKind tags what a ConstructionProject ultimately commissions.
type ProjectKind int

const (
	ShipProject ProjectKind = iota
	BuildingProject
	IndustrialExpansionProject
)

// ProjectAnchor records where a project is running: a colony (buildings,
// fighters, IU) or a facility dock (capital ships).
type ProjectAnchor struct {
	Colony   ColonyID
	Facility FacilityID // zero (InvalidID) when anchored directly at the colony.
}

// ConstructionProject is the queued-work unit of construction. Cost
// and committed PP are decimal so partial-turn progress accumulates
// without floating-point drift.
type ConstructionProject struct {
	ID     ProjectID
	Owner  HouseID
	Kind   ProjectKind
	Anchor ProjectAnchor

	// What this project commissions once complete: a ship class name, a
	// building/facility kind, or an IU delta - exactly one is meaningful
	// depending on Kind.
	ShipClass    string
	BuildingKind FacilityKind
	IUDelta      int
	IsShield     bool // BuildingProject that raises the colony's planetary shield instead of founding a facility.

	CostTotal      decimal.Decimal
	PPCommitted    decimal.Decimal
	TurnsRemaining int
}

// Advance applies one turn's worth of production to this project,
// returning true once it is complete (PPCommitted has reached
// CostTotal and TurnsRemaining has reached zero).
func (p *ConstructionProject) Advance(pp decimal.Decimal) bool {
	p.PPCommitted = p.PPCommitted.Add(pp)
	if p.TurnsRemaining > 0 {
		p.TurnsRemaining--
	}
	return p.TurnsRemaining <= 0 && p.PPCommitted.GreaterThanOrEqual(p.CostTotal)
}
