package model

import "github.com/shopspring/decimal"

// FleetStatus gates movement, combat participation and maintenance
// tier.
type FleetStatus int

const (
	Active FleetStatus = iota
	Reserve
	Mothballed
)

func (s FleetStatus) String() string {
	switch s {
	case Reserve:
		return "reserve"
	case Mothballed:
		return "mothballed"
	default:
		return "active"
	}
}

// MaintenanceTier returns the upkeep multiplier for this status: Active 100%, Reserve 50%, Mothballed 0%.
func (s FleetStatus) MaintenanceTier() float64 {
	switch s {
	case Reserve:
		return 0.5
	case Mothballed:
		return 0.0
	default:
		return 1.0
	}
}

// MissionKind is the declared intent behind a fleet's standing command;
// used by automated seek-home to decide when a mission has gone
// void.
type MissionKind int

const (
	NoMission MissionKind = iota
	Colonize
	GuardPlanet
	GuardStarbase
	BlockadePlanet
	Patrol
	SeekHome
)

// FleetCommand is the fleet's current active order: a mission kind plus
// the system it targets (for movement/guard/blockade missions) and an
// optional precomputed path.
type FleetCommand struct {
	Mission MissionKind
	Target  SystemID
	// Path is the remaining system hops of the last computed admissible
	// path, nil if none has been computed yet this turn.
	Path []SystemID
}

// Fleet is a mobile composite unit owned by a house, colocated at a
// system with all of its squadrons and spacelift ships.
type Fleet struct {
	ID     FleetID
	Owner  HouseID
	System SystemID

	Status     FleetStatus
	Squadrons  []SquadronID
	Spacelift  []ShipID // bare spacelift ships not organized into a squadron (cargo/colonist haulers).

	// CargoPU is the population currently riding the fleet's spacelift
	// capacity (loaded via the zero-turn LoadCargo command, delivered by
	// UnloadCargo or consumed by colonization).
	CargoPU decimal.Decimal

	Command     *FleetCommand
	Standing    *StandingOrder
	ROE         int // 0-10, drives retreat thresholds.
	AutoBalance bool
}

// CanMove reports whether this fleet's status allows it to execute a
// Move or mission command.
func (f *Fleet) CanMove() bool {
	return f.Status == Active
}

// CanFight reports whether this fleet's status allows combat
// participation.
func (f *Fleet) CanFight() bool {
	return f.Status == Active
}

// StandingOrderKind names the persistent per-fleet behaviors.
type StandingOrderKind int

const (
	NoStandingOrder StandingOrderKind = iota
	PatrolRoute
	DefendSystem
	AutoColonizeOrder
	GuardColony
	Hold
)

// StandingOrder is a persistent per-fleet behavior with suspension and
// execution bookkeeping.
type StandingOrder struct {
	Kind       StandingOrderKind
	Suspended  bool
	Route      []SystemID // for PatrolRoute: the loop of systems to cycle through.
	NextHop    int        // index into Route of the next leg.
	LastRanTurn int
}

// AbsorbsUnassigned reports whether a fleet carrying this standing order
// is eligible to absorb unassigned squadrons at command-phase end.
// PatrolRoute/AutoColonize fleets are excluded; DefendSystem/
// GuardColony/Hold are eligible. A nil standing order (no persistent
// behavior) is eligible.
func (s *StandingOrder) AbsorbsUnassigned() bool {
	if s == nil {
		return true
	}
	switch s.Kind {
	case PatrolRoute, AutoColonizeOrder:
		return false
	default:
		return true
	}
}
