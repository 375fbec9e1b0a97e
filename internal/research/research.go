// Package research implements RP allocation, bi-annual tech
// advancement, and breakthrough rolls over a three-track (EL/SL/field)
// tech tree. Cost per research point scales with Science Level and a
// logarithmic term of the house's gross output; breakthrough chance is
// hard-capped regardless of investment.
package research

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"hexdominion/internal/model"
	"hexdominion/internal/rng"
)

// CostPerPoint computes the PP-to-RP conversion cost for one point in a
// category: tiered by Science Level plus a logarithmic term of
// the house's gross output.
func CostPerPoint(cfg *model.ConfigSnapshot, house *model.House, category string, grossOutput decimal.Decimal) decimal.Decimal {
	base, ok := cfg.ResearchCosts.BaseCostPerPoint[category]
	if !ok {
		return decimal.Zero
	}
	slTerm := decimal.NewFromInt(1).Add(cfg.ResearchCosts.SLMultiplier.Mul(decimal.NewFromInt(int64(house.TechTree.SL))))

	outputF, _ := grossOutput.Float64()
	logTerm := 0.0
	if outputF > 1 {
		logTerm = math.Log(outputF)
	}
	outputTerm := decimal.NewFromInt(1).Add(cfg.ResearchCosts.OutputLogCoeff.Mul(decimal.NewFromFloat(logTerm)))

	return base.Mul(slTerm).Mul(outputTerm)
}

// Allocate converts a house's committed PP into accumulated RP per
// category, at the category's current cost-per-point, debiting
// the spent PP from the treasury. A non-positive allocation converts
// nothing and costs nothing.
func Allocate(cfg *model.ConfigSnapshot, house *model.House, alloc model.ResearchAllocation, grossOutput decimal.Decimal) {
	categories := make([]string, 0, len(alloc.ByCategory))
	for category := range alloc.ByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		pp := alloc.ByCategory[category]
		if pp <= 0 {
			continue
		}
		cost := CostPerPoint(cfg, house, category, grossOutput)
		if cost.IsZero() {
			continue
		}
		spent := decimal.NewFromInt(int64(pp))
		rp := spent.Div(cost)
		house.TechTree.AccumulatedRP[category] = house.TechTree.AccumulatedRP[category].Add(rp)
		house.Treasury = house.Treasury.Sub(spent)
	}
}

// IsAdvancementTurn reports whether tech advancement may occur this
// turn.
func IsAdvancementTurn(cfg *model.ConfigSnapshot, turn int) bool {
	modulo := cfg.Setup.TechAdvancementTurnModulo
	if modulo <= 0 {
		return false
	}
	return turn%modulo == 0
}

// AdvanceResult reports one category's advancement outcome.
type AdvanceResult struct {
	Category string
	NewLevel int
	Capped   bool
}

// Advance consumes accumulated RP to raise each category by at most one
// level, charging the category's BaseCostPerPoint in RP for each level
// (the same cost at every level) and enforcing the configured EL/SL/field
// caps. Only called on designated turns
// (IsAdvancementTurn).
func Advance(cfg *model.ConfigSnapshot, house *model.House) []AdvanceResult {
	var results []AdvanceResult

	categories := make([]string, 0, len(house.TechTree.AccumulatedRP))
	for category := range house.TechTree.AccumulatedRP {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		rp := house.TechTree.AccumulatedRP[category]
		maxLevel, curLevel := levelInfo(cfg, house, category)
		if curLevel >= maxLevel {
			results = append(results, AdvanceResult{Category: category, NewLevel: curLevel, Capped: true})
			continue
		}
		costPerLevel, ok := cfg.ResearchCosts.BaseCostPerPoint[category]
		if !ok || rp.LessThan(costPerLevel) {
			continue
		}
		house.TechTree.AccumulatedRP[category] = rp.Sub(costPerLevel)
		newLevel := curLevel + 1
		setLevel(house, category, newLevel)
		results = append(results, AdvanceResult{Category: category, NewLevel: newLevel})
	}

	return results
}

func levelInfo(cfg *model.ConfigSnapshot, house *model.House, category string) (maxLevel, curLevel int) {
	switch category {
	case "EL":
		return cfg.ResearchCosts.MaxEL, house.TechTree.EL
	case "SL":
		return cfg.ResearchCosts.MaxSL, house.TechTree.SL
	default:
		return cfg.ResearchCosts.MaxField, house.TechTree.Fields[category]
	}
}

func setLevel(house *model.House, category string, level int) {
	switch category {
	case "EL":
		house.TechTree.EL = level
	case "SL":
		house.TechTree.SL = level
	default:
		house.TechTree.Fields[category] = level
	}
}

// BreakthroughTier names the four outcomes of a breakthrough roll.
type BreakthroughTier int

const (
	NoBreakthrough BreakthroughTier = iota
	Minor
	Moderate
	Major
	Revolutionary
)

// RollBreakthrough rolls once per accumulated-RP category using the
// house's named RNG sub-stream, with chance = base% + investment bonus
// capped at 15%. The tier split within a
// successful roll (70% Minor / 20% Moderate / 8% Major / 2%
// Revolutionary) is fixed; only the overall chance is tunable.
func RollBreakthrough(cfg *model.ConfigSnapshot, perTurnSeed int64, house *model.House, category string, investmentBonus decimal.Decimal) BreakthroughTier {
	chance := cfg.ResearchCosts.BreakthroughBase.Add(investmentBonus)
	if chance.GreaterThan(cfg.ResearchCosts.BreakthroughCap) {
		chance = cfg.ResearchCosts.BreakthroughCap
	}

	r := rng.SubStream(perTurnSeed, rng.TagBreakthrough+":"+category+":"+house.ID.String())
	roll := r.Float64()
	chanceF, _ := chance.Float64()
	if roll >= chanceF {
		return NoBreakthrough
	}

	split := r.Float64()
	switch {
	case split < 0.70:
		return Minor
	case split < 0.90:
		return Moderate
	case split < 0.98:
		return Major
	default:
		return Revolutionary
	}
}

// PrestigeFor returns the prestige award for a breakthrough tier.
func PrestigeFor(cfg *model.ConfigSnapshot, tier BreakthroughTier) int {
	switch tier {
	case Minor:
		return cfg.Prestige.PerMinorBreakthrough
	case Moderate:
		return cfg.Prestige.PerModerateBreakthrough
	case Major:
		return cfg.Prestige.PerMajorBreakthrough
	case Revolutionary:
		return cfg.Prestige.PerRevolutionaryBreakthrough
	default:
		return 0
	}
}
