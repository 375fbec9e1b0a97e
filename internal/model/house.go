package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiplomaticState describes the relation between a pair of houses.
//
// The `effective since` turn is tracked separately in DiplomaticRelation so
// that Maintenance can tick down cooldowns (e.g. a forced Neutral period
// after a detected scout) without losing when the state last changed.
type DiplomaticState int

const (
	Neutral DiplomaticState = iota
	Hostile
	Allied
)

func (d DiplomaticState) String() string {
	switch d {
	case Hostile:
		return "hostile"
	case Allied:
		return "allied"
	default:
		return "neutral"
	}
}

// DiplomaticRelation pairs a state with the turn it took effect, so the
// resolver can answer "how long has this been true" without separate
// bookkeeping.
type DiplomaticRelation struct {
	State           DiplomaticState
	EffectiveSince  int
}

// TechTree holds the capped advancement tracks described in : an
// Economic Level, a Science Level, and nine named research fields.
type TechTree struct {
	EL     int
	SL     int
	Fields map[string]int

	// AccumulatedRP holds unspent research points per category, pending
	// the next bi-annual advancement turn.
	AccumulatedRP map[string]decimal.Decimal
}

// NewTechTree returns a tree seeded at level zero for every configured
// field.
func NewTechTree(fieldNames []string) TechTree {
	fields := make(map[string]int, len(fieldNames))
	rp := make(map[string]decimal.Decimal, len(fieldNames)+2)
	for _, f := range fieldNames {
		fields[f] = 0
		rp[f] = decimal.Zero
	}
	rp["EL"] = decimal.Zero
	rp["SL"] = decimal.Zero
	return TechTree{Fields: fields, AccumulatedRP: rp}
}

// House is a faction: the root of a player's ownership graph. Treasury is
// signed (debt is allowed) and expressed as decimal.Decimal so
// conservation never drifts due to floating-point rounding across
// platforms.
type House struct {
	ID         HouseID
	ExternalID uuid.UUID // public identity used by external collaborators (transport/TUI), never by the store.
	Name       string

	Treasury decimal.Decimal
	TechTree TechTree

	// Relations is keyed by the other house's ID; a house has no entry for
	// itself.
	Relations map[HouseID]DiplomaticRelation

	Intel IntelligenceDB

	Prestige   int
	Eliminated bool
}

// NewHouse creates a house with zero treasury and an empty tech tree; the
// caller (game setup, ConfigSnapshot) is responsible for applying
// starting resources.
func NewHouse(id HouseID, name string, fieldNames []string) *House {
	return &House{
		ID:        id,
		ExternalID: uuid.New(),
		Name:      name,
		Treasury:  decimal.Zero,
		TechTree:  NewTechTree(fieldNames),
		Relations: make(map[HouseID]DiplomaticRelation),
		Intel:     NewIntelligenceDB(),
	}
}

// RelationWith returns the diplomatic state towards other, defaulting to
// Neutral with no recorded turn when the pair has never interacted.
func (h *House) RelationWith(other HouseID) DiplomaticRelation {
	if r, ok := h.Relations[other]; ok {
		return r
	}
	return DiplomaticRelation{State: Neutral}
}

// SetRelation records a new diplomatic state as of the given turn.
func (h *House) SetRelation(other HouseID, state DiplomaticState, turn int) {
	h.Relations[other] = DiplomaticRelation{State: state, EffectiveSince: turn}
}
