// Package orders implements typed command-packet validation. Nothing
// here mutates state - Validate produces an accepted set plus a
// per-rejection reason; internal/logistics, internal/movement and
// internal/economy perform the actual mutation once an order clears this
// gate.
package orders

import "github.com/shopspring/decimal"

// Budget is a running tally of committed production points against a
// house's current treasury, so that two build orders in the same packet
// cannot double-spend.
type Budget struct {
	Treasury  decimal.Decimal
	Committed decimal.Decimal
}

// NewBudget starts a budget context at the house's current treasury.
func NewBudget(treasury decimal.Decimal) *Budget {
	return &Budget{Treasury: treasury}
}

// Remaining reports how much PP is still uncommitted.
func (b *Budget) Remaining() decimal.Decimal {
	return b.Treasury.Sub(b.Committed)
}

// TryCommit reserves `cost` PP if the budget allows it, returning false
// (without mutating) if it would overdraw.
func (b *Budget) TryCommit(cost decimal.Decimal) bool {
	if cost.GreaterThan(b.Remaining()) {
		return false
	}
	b.Committed = b.Committed.Add(cost)
	return true
}
