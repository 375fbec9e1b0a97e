// Package events implements the typed per-turn event log, ordered by
// phase then by the causing operation, with per-house filtering for
// report generation.
package events

import "hexdominion/internal/model"

// Phase names the four resolver phases an event was produced in,
// used only for ordering/grouping - the events themselves don't branch
// on it.
type Phase int

const (
	PhaseConflict Phase = iota
	PhaseIncome
	PhaseCommand
	PhaseMaintenance
)

func (p Phase) String() string {
	switch p {
	case PhaseIncome:
		return "income"
	case PhaseCommand:
		return "command"
	case PhaseMaintenance:
		return "maintenance"
	default:
		return "conflict"
	}
}

// Kind enumerates the event taxonomy produced across the resolver.
type Kind int

const (
	KindOrderRejected Kind = iota
	KindFleetMoved
	KindFleetSeekHome
	KindStandingOrderAborted
	KindCombatResolved
	KindCombatStalemate
	KindColonyProjectsLost
	KindColonyConquered
	KindColonyFounded
	KindBlockadeApplied
	KindBlockadeCleared
	KindShipCommissioned
	KindProjectQueued
	KindHouseEliminated
	KindResearchBreakthrough
	KindTechAdvanced
	KindTreasuryDebt
	KindEnemyDetected
	KindScoutDetected
	KindScoutDestroyed
	KindDiplomacyChanged
	KindScoutMissionStarted
)

// Event is one typed, per-turn occurrence. Payload is a human-unreadable
// map suitable for downstream formatting - callers use the Kind
// to know which keys to expect.
type Event struct {
	Kind    Kind
	Phase   Phase
	Turn    int
	Seq     int // order of the causing operation within (Turn, Phase).
	Houses  []model.HouseID
	System  *model.SystemID
	Colony  *model.ColonyID
	Fleet   *model.FleetID
	Payload map[string]any
}

// Log accumulates events for a turn in emission order and assigns each a
// monotonically increasing Seq within its phase.
type Log struct {
	events []Event
	seq    map[Phase]int
}

// NewLog returns an empty per-turn event log.
func NewLog() *Log {
	return &Log{seq: make(map[Phase]int)}
}

// Emit appends one event, stamping its Seq.
func (l *Log) Emit(e Event) {
	l.seq[e.Phase]++
	e.Seq = l.seq[e.Phase]
	l.events = append(l.events, e)
}

// All returns every event recorded, in emission order (which already
// satisfies phase-then-seq ordering since phases run in order).
func (l *Log) All() []Event {
	return l.events
}

// ForHouse filters to events naming the given house as a recipient. No
// fog-of-war projection is applied, here or elsewhere: an event that
// only touches a system/colony/fleet the house can see is not included
// unless the house is named on it.
func (l *Log) ForHouse(h model.HouseID) []Event {
	var out []Event
	for _, e := range l.events {
		for _, recipient := range e.Houses {
			if recipient == h {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
