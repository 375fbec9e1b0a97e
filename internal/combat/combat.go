// Package combat implements the per-system combat state machine
// (PreCombat -> Ambush -> Intercept -> MainEngagement -> PostCombat
// -> Resolved): target-bucket allocation, d20-based CER rolls with the
// two-step Undamaged/Crippled/Destroyed damage model, retreat
// evaluation and post-combat cleanup, plus bombardment and invasion
// resolution against colonies.
package combat

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"hexdominion/internal/model"
	"hexdominion/internal/rng"
	"hexdominion/internal/store"
)

// Phase names the combat state machine's states.
type Phase int

const (
	PreCombat Phase = iota
	Ambush
	Intercept
	MainEngagement
	PostCombat
	Resolved
)

func (p Phase) String() string {
	switch p {
	case Ambush:
		return "ambush"
	case Intercept:
		return "intercept"
	case MainEngagement:
		return "main-engagement"
	case PostCombat:
		return "post-combat"
	case Resolved:
		return "resolved"
	default:
		return "pre-combat"
	}
}

// maxRounds bounds MainEngagement; exceeding it with no destruction marks
// the combat a stalemate.
const maxRounds = 8

// facilityHull is the flat damage threshold used for Kastras combat-state
// transitions; FacilityStats carries no per-instance hull stat (only
// ships do), so a package constant stands in.
var facilityHull = decimal.NewFromInt(60)

// TaskForce is one house's fighting contingent in a single system
// combat. Constructed by GatherTaskForces or directly by callers
// (tests, scripted scenarios).
type TaskForce struct {
	House      model.HouseID
	Squadrons  []model.SquadronID
	Facilities []model.FacilityID // Kastras facilities present at the system's colony, if any.

	ROE                int // 0-10.
	MoraleModifier     decimal.Decimal
	Cloak              bool
	DefendingHomeworld bool
	ELI                int
	CLK                int
	PreDetected        bool // true if this TF's presence/cloak was already known before combat entry.

	retreating  bool
	retreatedTo model.SystemID
	held        bool
}

// EffectiveROE adjusts the base ROE for morale and homeworld-defense
// bonuses, clamped to [0, 10].
func (tf *TaskForce) EffectiveROE() int {
	roe := tf.ROE
	if tf.DefendingHomeworld {
		roe += 3
	}
	roe += int(tf.MoraleModifier.IntPart())
	if roe > 10 {
		roe = 10
	}
	if roe < 0 {
		roe = 0
	}
	return roe
}

// AttackRecord is one resolved CER roll within a round.
type AttackRecord struct {
	Round         int
	AttackerHouse model.HouseID
	AttackerShip  model.ShipID
	TargetHouse   model.HouseID
	TargetShip    model.ShipID   // zero if the target was a facility.
	TargetFacility model.FacilityID // zero if the target was a ship.
	Bucket        model.TargetBucket
	Natural       int
	Crit          bool
	Damage        decimal.Decimal
	StateBefore   model.CombatState
	StateAfter    model.CombatState
}

// RoundResult groups every attack resolved in one round, tagged with
// the state-machine phase the round ran under.
type RoundResult struct {
	Round   int
	Phase   Phase
	Attacks []AttackRecord
}

// RetreatOutcome reports one house's retreat evaluation result.
type RetreatOutcome struct {
	Destination model.SystemID
	Held        bool // true if no safe adjacent system was found.
}

// Outcome is the full result of resolving one system's combat. Phase
// records how far the state machine ran; a completed Resolve always
// leaves it at Resolved.
type Outcome struct {
	System       model.SystemID
	Phase        Phase
	Rounds       []RoundResult
	WasStalemate bool

	Retreated  map[model.HouseID]RetreatOutcome
	Eliminated []model.HouseID // houses with zero combat-capable squadrons after combat.

	DestroyedShips      []model.ShipID
	DestroyedFacilities []model.FacilityID

	SurvivingTaskForces []*TaskForce
}

// GatherTaskForces assembles the task forces present at a system: one
// per house with an Active fleet there, plus the colony owner's Kastras
// facilities if a colony exists. Reserve fleets cannot participate in
// combat, and Mothballed fleets are screened: they stay at the system
// untouched but their squadrons enter neither the attacker nor the
// target pools.
func GatherTaskForces(g *store.GameState, sys model.SystemID) []*TaskForce {
	var order []model.HouseID
	byHouse := map[model.HouseID]*TaskForce{}

	for _, f := range g.Fleets.AtSystem(sys) {
		if !f.CanFight() {
			continue
		}
		tf, ok := byHouse[f.Owner]
		if !ok {
			tf = &TaskForce{House: f.Owner, ROE: f.ROE}
			byHouse[f.Owner] = tf
			order = append(order, f.Owner)
		} else if f.ROE > tf.ROE {
			tf.ROE = f.ROE
		}
		tf.Squadrons = append(tf.Squadrons, f.Squadrons...)
	}

	if colony, ok := g.Colonies.AtSystem(sys); ok {
		tf, ok := byHouse[colony.Owner]
		if !ok {
			tf = &TaskForce{House: colony.Owner}
			byHouse[colony.Owner] = tf
			order = append(order, colony.Owner)
		}
		tf.DefendingHomeworld = true
		for _, fid := range colony.Facilities {
			if fac, ok := g.Facilities.Get(fid); ok && fac.Kind == model.Starbase && fac.State != model.Destroyed {
				tf.Facilities = append(tf.Facilities, fid)
			}
		}
	}

	out := make([]*TaskForce, 0, len(order))
	for _, h := range order {
		out = append(out, byHouse[h])
	}
	return out
}

// Resolve drives the full state machine for one system's combat:
// PreCombat gathers (the caller already did, via GatherTaskForces),
// Ambush tags surprise bonuses, Intercept lets Raider-bucket ships strike
// once unanswered, MainEngagement runs rounds until one side is
// eliminated/retreated/stalemated, and PostCombat runs Cleanup. The
// returned Outcome's Rounds slice covers Intercept and every
// MainEngagement round in order.
func Resolve(g *store.GameState, cfg *model.ConfigSnapshot, sys model.SystemID, taskForces []*TaskForce, perTurnSeed int64, starbaseCombatAllowed bool) *Outcome {
	r := rng.SubStream(perTurnSeed, rng.TagCombat+":"+sys.String())
	out := &Outcome{System: sys, Phase: PreCombat, Retreated: map[model.HouseID]RetreatOutcome{}}

	active := taskForces

	// Ambush: cloaked, undetected task forces gain surprise for their
	// opening attacks.
	out.Phase = Ambush
	ambush := map[model.HouseID]bool{}
	for _, tf := range active {
		if tf.Cloak && !tf.PreDetected {
			ambush[tf.House] = true
		}
	}

	// Intercept: Raider-bucket ships strike once unanswered.
	out.Phase = Intercept
	if rr, _ := runRound(g, cfg, active, r, 0, ambush, starbaseCombatAllowed, Intercept); len(rr.Attacks) > 0 {
		out.Rounds = append(out.Rounds, rr)
	}
	active = removeEliminated(g, active, out)

	out.Phase = MainEngagement
	destroyedAny := false
	round := 0
	for round < maxRounds {
		if countLiveHouses(active) < 2 {
			break
		}
		round++
		rr, destroyed := runRound(g, cfg, active, r, round, ambush, starbaseCombatAllowed, MainEngagement)
		out.Rounds = append(out.Rounds, rr)
		if destroyed {
			destroyedAny = true
		}
		ambush = nil // surprise covers the Intercept round and the first MainEngagement round only.

		active = removeEliminated(g, active, out)
		active = evaluateRetreats(g, cfg, sys, active, out)
	}

	if round >= maxRounds && !destroyedAny {
		out.WasStalemate = true
	}

	out.SurvivingTaskForces = active
	out.Phase = PostCombat
	Cleanup(g, sys, out)
	out.Phase = Resolved
	return out
}

func countLiveHouses(active []*TaskForce) int {
	n := 0
	for _, tf := range active {
		if !tf.retreating {
			n++
		}
	}
	return n
}

// removeEliminated drops task forces with zero combat-capable
// squadrons left.
func removeEliminated(g *store.GameState, active []*TaskForce, out *Outcome) []*TaskForce {
	var kept []*TaskForce
	for _, tf := range active {
		if hasLiveShips(g, tf) {
			kept = append(kept, tf)
		} else {
			out.Eliminated = append(out.Eliminated, tf.House)
		}
	}
	return kept
}

func hasLiveShips(g *store.GameState, tf *TaskForce) bool {
	for _, sqID := range tf.Squadrons {
		sq, ok := g.Squadrons.Get(sqID)
		if !ok {
			continue
		}
		for _, shipID := range sq.Ships() {
			if ship, ok := g.Ships.Get(shipID); ok && ship.State != model.Destroyed {
				return true
			}
		}
	}
	return false
}

// evaluateRetreats runs the per-round retreat check: effective
// ROE vs our-to-enemy strength ratio. A retreating house attempts to
// relocate to a safe adjacent system via the lane graph; absent one, it
// holds in place (flagged) but is still removed from the active round
// loop.
func evaluateRetreats(g *store.GameState, cfg *model.ConfigSnapshot, sys model.SystemID, active []*TaskForce, out *Outcome) []*TaskForce {
	var kept []*TaskForce
	for _, tf := range active {
		if tf.retreating {
			continue
		}
		own := strengthOf(g, cfg, tf)
		enemy := decimal.Zero
		for _, other := range active {
			if other.House == tf.House {
				continue
			}
			enemy = enemy.Add(strengthOf(g, cfg, other))
		}
		if !shouldRetreat(tf, own, enemy) {
			kept = append(kept, tf)
			continue
		}
		tf.retreating = true
		if dest, ok := findSafeAdjacent(g, tf.House, sys); ok {
			tf.retreatedTo = dest
			out.Retreated[tf.House] = RetreatOutcome{Destination: dest}
		} else {
			tf.held = true
			out.Retreated[tf.House] = RetreatOutcome{Held: true}
		}
	}
	return kept
}

func shouldRetreat(tf *TaskForce, own, enemy decimal.Decimal) bool {
	if enemy.IsZero() {
		return false
	}
	ratio := own.Div(enemy)
	threshold := decimal.NewFromInt(int64(10 - tf.EffectiveROE())).Div(decimal.NewFromInt(10))
	return ratio.LessThan(threshold)
}

func strengthOf(g *store.GameState, cfg *model.ConfigSnapshot, tf *TaskForce) decimal.Decimal {
	total := decimal.Zero
	for _, sqID := range tf.Squadrons {
		sq, ok := g.Squadrons.Get(sqID)
		if !ok {
			continue
		}
		for _, shipID := range sq.Ships() {
			ship, ok := g.Ships.Get(shipID)
			if !ok || ship.State == model.Destroyed {
				continue
			}
			stats, ok := cfg.Ships[ship.Class]
			if !ok {
				continue
			}
			total = total.Add(decimal.NewFromInt(int64(stats.AttackStrength + stats.DefenseStrength)))
		}
	}
	return total
}

func findSafeAdjacent(g *store.GameState, house model.HouseID, sys model.SystemID) (model.SystemID, bool) {
	for _, lane := range g.Lanes.From(sys) {
		colony, ok := g.Colonies.AtSystem(lane.To)
		if !ok {
			continue
		}
		if colony.Owner == house {
			return lane.To, true
		}
		if h, ok := g.Houses.Get(house); ok && h.RelationWith(colony.Owner).State == model.Allied {
			return lane.To, true
		}
	}
	return 0, false
}

// target is a candidate for an attack: either a ship or a facility,
// never both.
type target struct {
	house    model.HouseID
	ship     model.ShipID
	facility model.FacilityID
	bucket   model.TargetBucket
}

// buildTargetPool lists every live enemy ship/facility of the task
// forces other than `self`, in task-force-then-squadron-then-ship
// insertion order.
func buildTargetPool(g *store.GameState, cfg *model.ConfigSnapshot, active []*TaskForce, self model.HouseID, starbaseCombatAllowed bool) []target {
	var out []target
	for _, tf := range active {
		if tf.House == self || tf.retreating {
			continue
		}
		for _, sqID := range tf.Squadrons {
			sq, ok := g.Squadrons.Get(sqID)
			if !ok {
				continue
			}
			for _, shipID := range sq.Ships() {
				ship, ok := g.Ships.Get(shipID)
				if !ok || ship.State == model.Destroyed {
					continue
				}
				stats, ok := cfg.Ships[ship.Class]
				if !ok {
					continue
				}
				out = append(out, target{house: tf.House, ship: shipID, bucket: stats.TargetBucket})
			}
		}
		if starbaseCombatAllowed {
			for _, fid := range tf.Facilities {
				fac, ok := g.Facilities.Get(fid)
				if !ok || fac.State == model.Destroyed {
					continue
				}
				out = append(out, target{house: tf.House, facility: fid, bucket: model.BucketStarbase})
			}
		}
	}
	return out
}

// pickTarget selects the lowest-numbered present bucket (Raider first),
// returning the first candidate found in insertion order.
func pickTarget(pool []target) (target, bool) {
	if len(pool) == 0 {
		return target{}, false
	}
	best := pool[0].bucket
	for _, t := range pool[1:] {
		if t.bucket < best {
			best = t.bucket
		}
	}
	for _, t := range pool {
		if t.bucket == best {
			return t, true
		}
	}
	return target{}, false
}

// CEROutcome is one resolved CER roll.
type CEROutcome struct {
	Natural    int
	Final      int
	Crit       bool
	Multiplier decimal.Decimal
}

func rollCER(r *rand.Rand, modifier int) CEROutcome {
	natural := r.Intn(20) + 1
	crit := natural == 20
	final := natural + modifier
	return CEROutcome{Natural: natural, Final: final, Crit: crit, Multiplier: effectivenessMultiplier(final, crit)}
}

// effectivenessMultiplier maps a final CER roll to a damage
// multiplier. The tier boundaries are chosen so a natural 20 always
// tops out the scale regardless of modifiers.
func effectivenessMultiplier(final int, crit bool) decimal.Decimal {
	switch {
	case crit:
		return decimal.NewFromFloat(2.0)
	case final >= 18:
		return decimal.NewFromFloat(1.5)
	case final >= 12:
		return decimal.NewFromFloat(1.0)
	case final >= 6:
		return decimal.NewFromFloat(0.5)
	default:
		return decimal.Zero
	}
}

func attackModifier(tf *TaskForce, scoutsPresent, ambushBonus bool) int {
	mod := int(tf.MoraleModifier.IntPart())
	if scoutsPresent {
		mod++
	}
	if ambushBonus {
		mod += 4
	}
	return mod
}

func hasScouts(g *store.GameState, tf *TaskForce) bool {
	for _, sqID := range tf.Squadrons {
		sq, ok := g.Squadrons.Get(sqID)
		if ok && sq.Type == model.Intel {
			return true
		}
	}
	return false
}

// runRound resolves one round of attacks under the given state-machine
// phase. During Intercept only Raider-bucket ships attack and the
// round carries no retaliation (the "strike first" mechanic); Intercept
// rounds are tagged Round 0.
func runRound(g *store.GameState, cfg *model.ConfigSnapshot, active []*TaskForce, r *rand.Rand, roundNum int, ambush map[model.HouseID]bool, starbaseCombatAllowed bool, phase Phase) (RoundResult, bool) {
	interceptOnly := phase == Intercept
	rr := RoundResult{Round: roundNum, Phase: phase}
	pendingShipDamage := map[model.ShipID]decimal.Decimal{}
	pendingShipCrit := map[model.ShipID]bool{}
	pendingFacDamage := map[model.FacilityID]decimal.Decimal{}
	pendingFacCrit := map[model.FacilityID]bool{}

	for _, tf := range active {
		if tf.retreating {
			continue
		}
		scoutsPresent := hasScouts(g, tf)
		for _, sqID := range tf.Squadrons {
			sq, ok := g.Squadrons.Get(sqID)
			if !ok {
				continue
			}
			for _, shipID := range sq.Ships() {
				ship, ok := g.Ships.Get(shipID)
				if !ok || ship.State == model.Destroyed {
					continue
				}
				stats, ok := cfg.Ships[ship.Class]
				if !ok {
					continue
				}
				if interceptOnly && stats.TargetBucket != model.BucketRaider {
					continue
				}

				pool := buildTargetPool(g, cfg, active, tf.House, starbaseCombatAllowed)
				tgt, ok := pickTarget(pool)
				if !ok {
					continue
				}

				outcome := rollCER(r, attackModifier(tf, scoutsPresent, ambush[tf.House]))
				damage := decimal.NewFromInt(int64(stats.AttackStrength)).Mul(outcome.Multiplier)

				rec := AttackRecord{
					Round: roundNum, AttackerHouse: tf.House, AttackerShip: shipID,
					TargetHouse: tgt.house, TargetShip: tgt.ship, TargetFacility: tgt.facility,
					Bucket: tgt.bucket, Natural: outcome.Natural, Crit: outcome.Crit, Damage: damage,
				}

				if tgt.ship != 0 {
					targetShip, _ := g.Ships.Get(tgt.ship)
					if targetShip != nil {
						rec.StateBefore = targetShip.State
					}
					pendingShipDamage[tgt.ship] = pendingShipDamage[tgt.ship].Add(damage)
					if outcome.Crit {
						pendingShipCrit[tgt.ship] = true
					}
				} else {
					targetFac, _ := g.Facilities.Get(tgt.facility)
					if targetFac != nil {
						rec.StateBefore = targetFac.State
					}
					pendingFacDamage[tgt.facility] = pendingFacDamage[tgt.facility].Add(damage)
					if outcome.Crit {
						pendingFacCrit[tgt.facility] = true
					}
				}

				rr.Attacks = append(rr.Attacks, rec)
			}
		}
	}

	destroyedAny := false

	for shipID, dmg := range pendingShipDamage {
		ship, ok := g.Ships.Get(shipID)
		if !ok {
			continue
		}
		stats, ok := cfg.Ships[ship.Class]
		if !ok {
			continue
		}
		hull := decimal.NewFromInt(int64(stats.Hull))
		after := transition(ship.State, dmg, hull, pendingShipCrit[shipID])
		if after != ship.State {
			ship.State = after
			g.Ships.Upsert(ship)
			if after == model.Destroyed {
				destroyedAny = true
			}
		}
		for i := range rr.Attacks {
			if rr.Attacks[i].TargetShip == shipID {
				rr.Attacks[i].StateAfter = after
			}
		}
	}

	for facID, dmg := range pendingFacDamage {
		fac, ok := g.Facilities.Get(facID)
		if !ok {
			continue
		}
		after := transition(fac.State, dmg, facilityHull, pendingFacCrit[facID])
		if after != fac.State {
			fac.State = after
			g.Facilities.Upsert(fac)
			if after == model.Destroyed {
				destroyedAny = true
			}
		}
		for i := range rr.Attacks {
			if rr.Attacks[i].TargetFacility == facID {
				rr.Attacks[i].StateAfter = after
			}
		}
	}

	return rr, destroyedAny
}

// transition applies the two-state damage machine: Undamaged ->
// Crippled on reaching the hull threshold, Crippled -> Destroyed on
// reaching it again. "Destruction protection" bars Undamaged ->
// Destroyed in one attack unless the crit threshold (2x hull) is met.
func transition(before model.CombatState, dmg, hull decimal.Decimal, crit bool) model.CombatState {
	switch before {
	case model.Undamaged:
		critThreshold := hull.Mul(decimal.NewFromInt(2))
		if crit && dmg.GreaterThanOrEqual(critThreshold) {
			return model.Destroyed
		}
		if dmg.GreaterThanOrEqual(hull) {
			return model.Crippled
		}
		return model.Undamaged
	case model.Crippled:
		if dmg.GreaterThanOrEqual(hull) {
			return model.Destroyed
		}
		return model.Crippled
	default:
		return before
	}
}

// ApplyRetreats relocates the fleets of every house that successfully
// retreated during Resolve to its assigned destination system. Held
// retreats (no safe system found) leave fleets in place.
func ApplyRetreats(g *store.GameState, sys model.SystemID, out *Outcome) {
	for house, ret := range out.Retreated {
		if ret.Held {
			continue
		}
		for _, f := range g.Fleets.AtSystem(sys) {
			if f.Owner == house {
				f.System = ret.Destination
				g.Fleets.Upsert(f)
			}
		}
	}
}

// Cleanup runs the post-combat entity removal, scoped to the combat's
// system so cost stays O(entities_in_system): ships before fleets,
// facilities independently.
func Cleanup(g *store.GameState, sys model.SystemID, out *Outcome) {
	for _, f := range g.Fleets.AtSystem(sys) {
		var remaining []model.SquadronID
		for _, sqID := range f.Squadrons {
			sq, ok := g.Squadrons.Get(sqID)
			if !ok {
				continue
			}
			flagship, subs, destroyed := pruneDestroyedShips(g, sq)
			out.DestroyedShips = append(out.DestroyedShips, destroyed...)
			if flagship == 0 {
				g.Squadrons.Remove(sqID)
				continue
			}
			sq.Flagship = flagship
			sq.Subordinate = subs
			g.Squadrons.Upsert(sq)
			remaining = append(remaining, sqID)
		}
		f.Squadrons = remaining
		if len(f.Squadrons) == 0 && len(f.Spacelift) == 0 {
			g.Fleets.Remove(f.ID)
			continue
		}
		g.Fleets.Upsert(f)
	}

	colony, ok := g.Colonies.AtSystem(sys)
	if !ok {
		return
	}
	var remainingFac []model.FacilityID
	for _, fid := range colony.Facilities {
		fac, ok := g.Facilities.Get(fid)
		if !ok {
			continue
		}
		if fac.Kind == model.Starbase {
			if fac.State == model.Destroyed {
				out.DestroyedFacilities = append(out.DestroyedFacilities, fid)
				g.Facilities.Remove(fid)
				continue
			}
			remainingFac = append(remainingFac, fid)
			continue
		}
		if fac.State == model.Crippled {
			cancelFacilityProjects(g, fac)
			g.Facilities.Upsert(fac)
		}
		if fac.State == model.Destroyed {
			cancelFacilityProjects(g, fac)
			out.DestroyedFacilities = append(out.DestroyedFacilities, fid)
			g.Facilities.Remove(fid)
			continue
		}
		remainingFac = append(remainingFac, fid)
	}
	colony.Facilities = remainingFac
	g.Colonies.Upsert(colony)
}

func pruneDestroyedShips(g *store.GameState, sq *model.Squadron) (model.ShipID, []model.ShipID, []model.ShipID) {
	var destroyed []model.ShipID
	alive := func(id model.ShipID) bool {
		if id == 0 {
			return false
		}
		s, ok := g.Ships.Get(id)
		if !ok {
			return false
		}
		if s.State == model.Destroyed {
			g.Ships.Remove(id)
			destroyed = append(destroyed, id)
			return false
		}
		return true
	}

	var flagship model.ShipID
	var subs []model.ShipID
	if alive(sq.Flagship) {
		flagship = sq.Flagship
	}
	for _, s := range sq.Subordinate {
		if !alive(s) {
			continue
		}
		if flagship == 0 {
			flagship = s
		} else {
			subs = append(subs, s)
		}
	}
	return flagship, subs, destroyed
}

// cancelFacilityProjects clears a Neorias facility's active and queued
// construction, removing the backing project records.
func cancelFacilityProjects(g *store.GameState, fac *model.Facility) {
	for _, pid := range fac.ActiveConstructions {
		g.Projects.Remove(pid)
	}
	for _, pid := range fac.ConstructionQueue {
		g.Projects.Remove(pid)
	}
	fac.ActiveConstructions = nil
	fac.ConstructionQueue = nil
	fac.RepairQueue = nil
}

// BombardResult reports one bombardment's effect on a colony.
type BombardResult struct {
	Colony       model.ColonyID
	IULost       decimal.Decimal
	PULost       decimal.Decimal
	ProjectsLost int
}

// Bombard reduces a colony's IU/PU per a CER roll and discards every
// queued construction project on the colony and its non-Starbase
// facilities. The caller (internal/resolver) turns this result
// into the event.
func Bombard(g *store.GameState, cfg *model.ConfigSnapshot, perTurnSeed int64, colony *model.Colony) BombardResult {
	r := rng.SubStream(perTurnSeed, rng.TagBombardment+":"+colony.ID.String())
	natural := r.Intn(20) + 1
	mult := effectivenessMultiplier(natural, natural == 20)

	iuLoss := colony.Infrastructure.Mul(mult).Mul(decimal.NewFromFloat(0.1))
	if iuLoss.GreaterThan(colony.Infrastructure) {
		iuLoss = colony.Infrastructure
	}
	colony.Infrastructure = colony.Infrastructure.Sub(iuLoss)

	puLoss := colony.PopulationUnits.Mul(mult).Mul(decimal.NewFromFloat(0.05))
	if puLoss.GreaterThan(colony.PopulationUnits) {
		puLoss = colony.PopulationUnits
	}
	colony.PopulationUnits = colony.PopulationUnits.Sub(puLoss)

	lost := len(colony.UnderConstruction) + len(colony.ConstructionQueue)
	for _, pid := range colony.UnderConstruction {
		g.Projects.Remove(pid)
	}
	for _, pid := range colony.ConstructionQueue {
		g.Projects.Remove(pid)
	}
	colony.UnderConstruction = nil
	colony.ConstructionQueue = nil

	for _, fid := range colony.Facilities {
		fac, ok := g.Facilities.Get(fid)
		if !ok || fac.Kind == model.Starbase {
			continue
		}
		lost += len(fac.ActiveConstructions) + len(fac.ConstructionQueue)
		cancelFacilityProjects(g, fac)
		g.Facilities.Upsert(fac)
	}

	g.Colonies.Upsert(colony)
	return BombardResult{Colony: colony.ID, IULost: iuLoss, PULost: puLoss, ProjectsLost: lost}
}

// InvadeResult reports the outcome of one invasion attempt.
type InvadeResult struct {
	Colony        model.ColonyID
	Success       bool
	PreviousOwner model.HouseID
	NewOwner      model.HouseID
}

// Invade resolves a ground assault: invadingStrength (derived by the
// caller from loaded transport capacity) against the colony's ground
// defense, each side flattened to one deterministic comparison. On
// success the colony changes owner and its pending projects are
// discarded silently.
func Invade(g *store.GameState, cfg *model.ConfigSnapshot, perTurnSeed int64, attacker model.HouseID, colony *model.Colony, invadingStrength int) InvadeResult {
	r := rng.SubStream(perTurnSeed, rng.TagInvasion+":"+colony.ID.String())

	defense := colony.Ground.Armies*groundStat(cfg, "army").Defense +
		colony.Ground.Marines*groundStat(cfg, "marine").Defense +
		colony.Ground.Batteries*groundStat(cfg, "battery").Defense

	roll := r.Intn(20) + 1
	offense := invadingStrength + roll

	if offense <= defense {
		return InvadeResult{Colony: colony.ID, Success: false}
	}

	prevOwner := colony.Owner
	for _, pid := range colony.UnderConstruction {
		g.Projects.Remove(pid)
	}
	for _, pid := range colony.ConstructionQueue {
		g.Projects.Remove(pid)
	}
	colony.UnderConstruction = nil
	colony.ConstructionQueue = nil
	colony.Owner = attacker
	colony.Ground = model.GroundForces{}
	colony.Blockaded = false
	g.Colonies.Upsert(colony)

	return InvadeResult{Colony: colony.ID, Success: true, PreviousOwner: prevOwner, NewOwner: attacker}
}

func groundStat(cfg *model.ConfigSnapshot, name string) model.GroundUnitStats {
	if cfg == nil {
		return model.GroundUnitStats{}
	}
	return cfg.Ground[name]
}
