package model

import "github.com/shopspring/decimal"

// CombatState is the two-transition damage state machine from :
// Undamaged -> Crippled -> Destroyed. A "destruction protection" rule
// (enforced in internal/combat) prevents Undamaged -> Destroyed in a
// single attack unless the crit threshold is met.
type CombatState int

const (
	Undamaged CombatState = iota
	Crippled
	Destroyed
)

func (c CombatState) String() string {
	switch c {
	case Crippled:
		return "crippled"
	case Destroyed:
		return "destroyed"
	default:
		return "undamaged"
	}
}

// RapidFire is a bonus number of extra attacks a ship class gets
// against a specific target class.
type RapidFire struct {
	Target string
	Bonus  int
}

// ShipClassStats are the class-derived, tech-scaled stats a ship
// contributes to combat and logistics. Looked up from the
// ConfigSnapshot by class name; Ship itself only stores the class name
// plus the instance-specific combat state.
type ShipClassStats struct {
	Class string

	BaseCost decimal.Decimal // PP cost to commission one hull.

	AttackStrength  int
	DefenseStrength int
	Hull            int
	CommandCost     int
	CarryCapacity   int // cargo/troop capacity for spacelift ships; 0 for pure combat hulls.

	IsSpacelift bool // Restricted lanes bar unescorted spacelift ships.
	IsScoutOnly bool // squadron must be single-ship to run a spy mission if true.

	TargetBucket  TargetBucket
	RapidFireVsShips    []RapidFire
	RapidFireVsDefenses []RapidFire
}

// TargetBucket is the combat target-allocation priority class,
// ordered 1..5.
type TargetBucket int

const (
	BucketRaider TargetBucket = iota + 1
	BucketCapital
	BucketEscort
	BucketFighter
	BucketStarbase
)

// Ship is a single combat-unit instance.
type Ship struct {
	ID    ShipID
	Class string
	Tech  int // tech level applied at commission time; scales stats via config.
	State CombatState
}
