package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FleetOrderKind enumerates the 19 fleet-order kinds a house can
// issue: every mission, posture and status change the resolver
// dispatches on.
type FleetOrderKind int

const (
	OrderMove FleetOrderKind = iota
	OrderColonize
	OrderGuardPlanet
	OrderGuardStarbase
	OrderBlockadePlanet
	OrderPatrol
	OrderAttack
	OrderBombard
	OrderInvade
	OrderHold
	OrderSeekHomeManual
	OrderEspionage // launch the fleet's scout squadron on a spy mission against Target.
	OrderSetROE
	OrderSetAutoBalance
	OrderActivate   // Mothballed -> Active.
	OrderMothball   // Active/Reserve -> Mothballed.
	OrderSetReserve // Active -> Reserve.
	OrderScrap
	OrderRename
)

// FleetOrder is a single typed command packet entry targeting one fleet.
type FleetOrder struct {
	Kind   FleetOrderKind
	Fleet  FleetID
	Target SystemID // meaningful for Move/Guard*/Blockade*/Patrol/Attack/Bombard/Invade.
	ROE    int       // meaningful for OrderSetROE.
}

// ZeroTurnKind enumerates the nine zero-turn logistics commands.
type ZeroTurnKind int

const (
	ZTDetach ZeroTurnKind = iota
	ZTTransfer
	ZTMerge
	ZTLoadCargo
	ZTUnloadCargo
	ZTLoadFighters
	ZTUnloadFighters
	ZTTransferFighters
	ZTReactivate
)

// ZeroTurnCommand is a single zero-turn logistics instruction.
// Fields are a superset across kinds; only those relevant to Kind are
// read by the handler.
type ZeroTurnCommand struct {
	Kind ZeroTurnKind

	Fleet      FleetID
	OtherFleet FleetID // the other fleet for Transfer/Merge/TransferFighters.

	// SourceFleet names the source carrier squadron for TransferFighters;
	// unused by every other kind.
	SourceFleet SquadronID

	// Squadrons carries the moving squadrons for Detach/Transfer. For
	// Load/UnloadFighters and TransferFighters, element 0 is the carrier
	// squadron and the remainder are the fighter squadrons being moved.
	Squadrons []SquadronID
	Ships     []ShipID
	Colonists decimal.Decimal // PU to load/unload for LoadCargo/UnloadCargo (minimum-1-PU rule at source).
}

// BuildOrder requests construction of Quantity copies of an element;
// quantity>1 enqueues one project per copy.
type BuildOrder struct {
	Anchor       ProjectAnchor
	Kind         ProjectKind
	ShipClass    string
	BuildingKind FacilityKind
	IsShieldUpgrade bool // planetary shield: at most one per colony, rebuildable once destroyed.
	Quantity     int
}

// ResearchAllocation assigns a house's PP-to-RP conversion across
// categories for the turn.
type ResearchAllocation struct {
	ByCategory map[string]int // PP committed per category (EL, SL, or one of the 9 fields).
}

// DiplomaticAction requests a relation change proposal (accepted/ignored
// by the Command phase depending on reciprocity rules left to
// internal/resolver).
type DiplomaticAction struct {
	Target   HouseID
	Proposed DiplomaticState
}

// PopulationTransfer moves PU between two owned colonies.
type PopulationTransfer struct {
	From   ColonyID
	To     ColonyID
	Amount int
}

// EspionageAttempt launches a scout on a spy mission; the scout
// squadron must be a single-ship Intel squadron.
type EspionageAttempt struct {
	Squadron SquadronID
	Target   SystemID
}

// Investment tags a house's per-turn EBP (Espionage Budget Point) / CIP
// (Counter-Intelligence Point) allocation.
type Investment struct {
	EBP int
	CIP int
}

// OrderPacket is everything one house submits for one turn.
type OrderPacket struct {
	ID       uuid.UUID
	House    HouseID
	Turn     int

	BuildOrders        []BuildOrder
	FleetOrders        []FleetOrder
	ZeroTurnCommands   []ZeroTurnCommand
	ResearchAllocation ResearchAllocation
	DiplomaticActions  []DiplomaticAction
	PopulationTransfers []PopulationTransfer
	TerraformOrders    []ColonyID
	Espionage          []EspionageAttempt
	Investment         Investment
}
