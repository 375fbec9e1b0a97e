package orders

import (
	"fmt"

	"github.com/shopspring/decimal"

	"hexdominion/internal/model"
	"hexdominion/internal/store"
)

// RejectionReason names why a single order was dropped.
type RejectionReason int

const (
	ReasonUnknownReference RejectionReason = iota
	ReasonNotOwner
	ReasonWrongFleetStatus
	ReasonInsufficientBudget
	ReasonNoDockCapacity
	ReasonInvalidSquadronComposition
	ReasonShieldLimitReached
	ReasonSquadronLimitReached
	ReasonStructurallyInvalid
)

func (r RejectionReason) String() string {
	switch r {
	case ReasonNotOwner:
		return "not owner"
	case ReasonWrongFleetStatus:
		return "wrong fleet status"
	case ReasonInsufficientBudget:
		return "insufficient budget"
	case ReasonNoDockCapacity:
		return "no dock capacity"
	case ReasonInvalidSquadronComposition:
		return "invalid squadron composition"
	case ReasonShieldLimitReached:
		return "shield limit reached"
	case ReasonSquadronLimitReached:
		return "squadron limit reached"
	case ReasonStructurallyInvalid:
		return "structurally invalid"
	default:
		return "unknown reference"
	}
}

// Rejection pairs a rejected order (by its index within its slice) with
// the reason, so the caller can build an event without re-deriving why.
type Rejection struct {
	OrderKind string
	Index     int
	Reason    RejectionReason
	Detail    string
}

// Result is the outcome of validating one house's full OrderPacket: each
// order category is individually accepted or rejected - never the whole
// packet, unless it is structurally malformed.
type Result struct {
	Packet      model.OrderPacket
	AcceptedBuild       []model.BuildOrder
	AcceptedFleet       []model.FleetOrder
	AcceptedZeroTurn    []model.ZeroTurnCommand
	AcceptedEspionage   []model.EspionageAttempt
	Rejections  []Rejection
}

// Validate checks an OrderPacket against the house's current state,
// producing an accepted set and per-rejection reasons. costOf resolves
// a BuildOrder's per-copy PP cost and squadronRoom is how many more
// squadrons the house's population can sustain - both delegated to
// internal/economy, which owns those formulas, so this package stays
// free of the production math.
func Validate(g *store.GameState, pkt model.OrderPacket, costOf func(model.BuildOrder) (decimal.Decimal, bool), squadronRoom int) Result {
	res := Result{Packet: pkt}

	house, ok := g.Houses.Get(pkt.House)
	if !ok {
		res.Rejections = append(res.Rejections, Rejection{OrderKind: "packet", Reason: ReasonUnknownReference, Detail: "unknown house"})
		return res
	}

	budget := NewBudget(house.Treasury)

	for i, bo := range pkt.BuildOrders {
		if rej, ok := validateBuildOrder(g, pkt.House, bo, budget, costOf, &squadronRoom); ok {
			rej.Index = i
			res.Rejections = append(res.Rejections, rej)
			continue
		}
		res.AcceptedBuild = append(res.AcceptedBuild, bo)
	}

	for i, fo := range pkt.FleetOrders {
		if rej, ok := validateFleetOrder(g, pkt.House, fo); ok {
			rej.Index = i
			res.Rejections = append(res.Rejections, rej)
			continue
		}
		res.AcceptedFleet = append(res.AcceptedFleet, fo)
	}

	for i, ea := range pkt.Espionage {
		if rej, ok := validateEspionage(g, pkt.House, ea); ok {
			rej.Index = i
			res.Rejections = append(res.Rejections, rej)
			continue
		}
		res.AcceptedEspionage = append(res.AcceptedEspionage, ea)
	}

	res.AcceptedZeroTurn = pkt.ZeroTurnCommands // validated by internal/logistics at apply time (location-class layering).

	return res
}

func validateBuildOrder(g *store.GameState, house model.HouseID, bo model.BuildOrder, budget *Budget, costOf func(model.BuildOrder) (decimal.Decimal, bool), squadronRoom *int) (Rejection, bool) {
	colony, ok := g.Colonies.Get(bo.Anchor.Colony)
	if !ok {
		return Rejection{OrderKind: "build", Reason: ReasonUnknownReference, Detail: "unknown colony"}, true
	}
	if colony.Owner != house {
		return Rejection{OrderKind: "build", Reason: ReasonNotOwner}, true
	}
	if bo.Anchor.Facility != 0 {
		// A facility at or over its dock count still accepts the order -
		// it just lands in the FIFO overflow queue. Capacity only
		// ever rejects via the "unknown element" cost lookup below, when
		// the facility kind can't host the requested build at all.
		fac, ok := g.Facilities.Get(bo.Anchor.Facility)
		if !ok || fac.Colony != colony.ID {
			return Rejection{OrderKind: "build", Reason: ReasonUnknownReference, Detail: "unknown facility"}, true
		}
	}
	if bo.Quantity < 1 {
		return Rejection{OrderKind: "build", Reason: ReasonStructurallyInvalid, Detail: "quantity must be >= 1"}, true
	}
	if bo.IsShieldUpgrade && colony.Ground.ShieldLevel > 0 {
		return Rejection{OrderKind: "build", Reason: ReasonShieldLimitReached}, true
	}
	if bo.Kind == model.ShipProject && *squadronRoom < bo.Quantity {
		return Rejection{OrderKind: "build", Reason: ReasonSquadronLimitReached}, true
	}

	cost, known := costOf(bo)
	if !known {
		return Rejection{OrderKind: "build", Reason: ReasonUnknownReference, Detail: "unknown element"}, true
	}
	total := cost
	if bo.Quantity > 1 {
		total = cost.Mul(decimal.NewFromInt(int64(bo.Quantity)))
	}
	if !budget.TryCommit(total) {
		return Rejection{OrderKind: "build", Reason: ReasonInsufficientBudget}, true
	}
	if bo.Kind == model.ShipProject {
		*squadronRoom -= bo.Quantity
	}

	return Rejection{}, false
}

func validateFleetOrder(g *store.GameState, house model.HouseID, fo model.FleetOrder) (Rejection, bool) {
	fleet, ok := g.Fleets.Get(fo.Fleet)
	if !ok {
		return Rejection{OrderKind: "fleet", Reason: ReasonUnknownReference, Detail: "unknown fleet"}, true
	}
	if fleet.Owner != house {
		return Rejection{OrderKind: "fleet", Reason: ReasonNotOwner}, true
	}

	movesOrActs := fo.Kind != model.OrderSetROE && fo.Kind != model.OrderSetAutoBalance && fo.Kind != model.OrderRename
	if movesOrActs && !fleet.CanMove() && fo.Kind != model.OrderActivate {
		return Rejection{OrderKind: "fleet", Reason: ReasonWrongFleetStatus, Detail: fmt.Sprintf("fleet status is %s", fleet.Status)}, true
	}

	return Rejection{}, false
}

func validateEspionage(g *store.GameState, house model.HouseID, ea model.EspionageAttempt) (Rejection, bool) {
	sq, ok := g.Squadrons.Get(ea.Squadron)
	if !ok {
		return Rejection{OrderKind: "espionage", Reason: ReasonUnknownReference}, true
	}
	fleet, ok := g.Fleets.Get(sq.Fleet)
	if !ok || fleet.Owner != house {
		return Rejection{OrderKind: "espionage", Reason: ReasonNotOwner}, true
	}
	if sq.Type != model.Intel {
		return Rejection{OrderKind: "espionage", Reason: ReasonInvalidSquadronComposition, Detail: "not an intel squadron"}, true
	}
	// Open Question: multi-ship scouts are accepted here (structurally
	// valid) but internal/intel treats them as the silent zero-intel
	// failure mode rather than a rejection, per the reference's
	// conflicting intent around the single-ship rule.
	return Rejection{}, false
}
