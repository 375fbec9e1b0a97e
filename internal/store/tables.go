package store

import "hexdominion/internal/model"

// HouseTable stores houses; no secondary index needed (houses are few
// and keyed only by their own ID).
type HouseTable struct {
	table[model.HouseID, *model.House]
}

func newHouseTable() *HouseTable { t := newTable[model.HouseID, *model.House](); return &HouseTable{t} }

// Upsert inserts or updates a house.
func (t *HouseTable) Upsert(h *model.House) { t.put(h.ID, h) }

// Remove deletes a house (used only on elimination bookkeeping cleanup,
// never mid-turn since elimination keeps the record with
// Eliminated=true).
func (t *HouseTable) Remove(id model.HouseID) { t.drop(id) }

// SystemTable stores systems.
type SystemTable struct {
	table[model.SystemID, *model.System]
}

func newSystemTable() *SystemTable { return &SystemTable{newTable[model.SystemID, *model.System]()} }

func (t *SystemTable) Upsert(s *model.System) { t.put(s.ID, s) }

// LaneIndex stores jump lanes with a symmetric adjacency index keyed by
// source system.
type LaneIndex struct {
	bySource map[model.SystemID][]model.JumpLane
}

func newLaneIndex() *LaneIndex { return &LaneIndex{bySource: make(map[model.SystemID][]model.JumpLane)} }

// Add inserts a directed lane. Callers add both directions explicitly
// (the generator does this) so the invariant is visible at the call
// site rather than hidden behind implicit mirroring.
func (l *LaneIndex) Add(lane model.JumpLane) {
	l.bySource[lane.From] = append(l.bySource[lane.From], lane)
}

// From returns every lane leaving a system, in insertion order.
func (l *LaneIndex) From(id model.SystemID) []model.JumpLane {
	return l.bySource[id]
}

// SetType updates the type of the directed lane from->to in place, if it
// exists.
func (l *LaneIndex) SetType(from, to model.SystemID, t model.LaneType) {
	lanes := l.bySource[from]
	for i := range lanes {
		if lanes[i].To == to {
			lanes[i].Type = t
			return
		}
	}
}

// Replace overwrites the full set of outgoing lanes for a system.
func (l *LaneIndex) Replace(from model.SystemID, lanes []model.JumpLane) {
	l.bySource[from] = lanes
}

// RemoveDirected drops the single directed lane from->to, if present.
func (l *LaneIndex) RemoveDirected(from, to model.SystemID) {
	lanes := l.bySource[from]
	for i, lane := range lanes {
		if lane.To == to {
			l.bySource[from] = append(lanes[:i], lanes[i+1:]...)
			return
		}
	}
}

// ColonyTable stores colonies indexed by owner and by system.
//
// Callers mutate the stored entity in place before calling Upsert (the
// store hands out the live pointer), so the "previous" record can never
// be recovered from the table itself at Upsert time. Each indexed table
// therefore remembers the keys it last indexed an entity under, and
// reconciles against those - not against the (already-mutated) entity.
type ColonyTable struct {
	table[model.ColonyID, *model.Colony]
	byOwner  map[model.HouseID]map[model.ColonyID]struct{}
	bySystem map[model.SystemID]model.ColonyID
	indexed  map[model.ColonyID]colonyKeys
}

type colonyKeys struct {
	owner  model.HouseID
	system model.SystemID
}

func newColonyTable() *ColonyTable {
	return &ColonyTable{
		table:    newTable[model.ColonyID, *model.Colony](),
		byOwner:  make(map[model.HouseID]map[model.ColonyID]struct{}),
		bySystem: make(map[model.SystemID]model.ColonyID),
		indexed:  make(map[model.ColonyID]colonyKeys),
	}
}

func (t *ColonyTable) Upsert(c *model.Colony) {
	if prev, ok := t.indexed[c.ID]; ok {
		if prev.owner != c.Owner {
			delIdx(t.byOwner, prev.owner, c.ID)
		}
		if prev.system != c.System {
			delete(t.bySystem, prev.system)
		}
	}
	t.put(c.ID, c)
	addIdx(t.byOwner, c.Owner, c.ID)
	t.bySystem[c.System] = c.ID
	t.indexed[c.ID] = colonyKeys{owner: c.Owner, system: c.System}
}

func (t *ColonyTable) Remove(id model.ColonyID) {
	if prev, ok := t.indexed[id]; ok {
		delIdx(t.byOwner, prev.owner, id)
		delete(t.bySystem, prev.system)
		delete(t.indexed, id)
	}
	t.drop(id)
}

// ByOwner returns every colony owned by a house, in insertion order.
func (t *ColonyTable) ByOwner(h model.HouseID) []*model.Colony {
	set := t.byOwner[h]
	out := make([]*model.Colony, 0, len(set))
	for _, c := range t.All() {
		if _, ok := set[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// AtSystem returns the colony at a system, if any.
func (t *ColonyTable) AtSystem(sys model.SystemID) (*model.Colony, bool) {
	id, ok := t.bySystem[sys]
	if !ok {
		return nil, false
	}
	return t.Get(id)
}

// FleetTable stores fleets indexed by owner and by system.
type FleetTable struct {
	table[model.FleetID, *model.Fleet]
	byOwner  map[model.HouseID]map[model.FleetID]struct{}
	bySystem map[model.SystemID]map[model.FleetID]struct{}
	indexed  map[model.FleetID]fleetKeys
}

type fleetKeys struct {
	owner  model.HouseID
	system model.SystemID
}

func newFleetTable() *FleetTable {
	return &FleetTable{
		table:    newTable[model.FleetID, *model.Fleet](),
		byOwner:  make(map[model.HouseID]map[model.FleetID]struct{}),
		bySystem: make(map[model.SystemID]map[model.FleetID]struct{}),
		indexed:  make(map[model.FleetID]fleetKeys),
	}
}

func (t *FleetTable) Upsert(f *model.Fleet) {
	if prev, ok := t.indexed[f.ID]; ok {
		if prev.owner != f.Owner {
			delIdx(t.byOwner, prev.owner, f.ID)
		}
		if prev.system != f.System {
			delIdx(t.bySystem, prev.system, f.ID)
		}
	}
	t.put(f.ID, f)
	addIdx(t.byOwner, f.Owner, f.ID)
	addIdx(t.bySystem, f.System, f.ID)
	t.indexed[f.ID] = fleetKeys{owner: f.Owner, system: f.System}
}

func (t *FleetTable) Remove(id model.FleetID) {
	if prev, ok := t.indexed[id]; ok {
		delIdx(t.byOwner, prev.owner, id)
		delIdx(t.bySystem, prev.system, id)
		delete(t.indexed, id)
	}
	t.drop(id)
}

// ByOwner returns every fleet owned by a house.
func (t *FleetTable) ByOwner(h model.HouseID) []*model.Fleet {
	return filterByIdx(t.All(), t.byOwner[h], func(f *model.Fleet) model.FleetID { return f.ID })
}

// AtSystem returns every fleet currently at a system.
func (t *FleetTable) AtSystem(sys model.SystemID) []*model.Fleet {
	return filterByIdx(t.All(), t.bySystem[sys], func(f *model.Fleet) model.FleetID { return f.ID })
}

// SquadronTable stores squadrons indexed by fleet; a squadron's owning
// house is found through its fleet.
type SquadronTable struct {
	table[model.SquadronID, *model.Squadron]
	byFleet map[model.FleetID]map[model.SquadronID]struct{}
	indexed map[model.SquadronID]model.FleetID
}

func newSquadronTable() *SquadronTable {
	return &SquadronTable{
		table:   newTable[model.SquadronID, *model.Squadron](),
		byFleet: make(map[model.FleetID]map[model.SquadronID]struct{}),
		indexed: make(map[model.SquadronID]model.FleetID),
	}
}

func (t *SquadronTable) Upsert(s *model.Squadron) {
	if prev, ok := t.indexed[s.ID]; ok && prev != s.Fleet {
		delIdx(t.byFleet, prev, s.ID)
	}
	t.put(s.ID, s)
	addIdx(t.byFleet, s.Fleet, s.ID)
	t.indexed[s.ID] = s.Fleet
}

func (t *SquadronTable) Remove(id model.SquadronID) {
	if prev, ok := t.indexed[id]; ok {
		delIdx(t.byFleet, prev, id)
		delete(t.indexed, id)
	}
	t.drop(id)
}

// ByFleet returns every squadron belonging to a fleet, in insertion order.
func (t *SquadronTable) ByFleet(f model.FleetID) []*model.Squadron {
	return filterByIdx(t.All(), t.byFleet[f], func(s *model.Squadron) model.SquadronID { return s.ID })
}

// ShipTable stores ships; no secondary index is maintained because ships
// are always accessed through their owning squadron or colony in
// practice.
type ShipTable struct {
	table[model.ShipID, *model.Ship]
}

func newShipTable() *ShipTable { return &ShipTable{newTable[model.ShipID, *model.Ship]()} }

func (t *ShipTable) Upsert(s *model.Ship) { t.put(s.ID, s) }
func (t *ShipTable) Remove(id model.ShipID) { t.drop(id) }

// FacilityTable stores facilities indexed by colony.
type FacilityTable struct {
	table[model.FacilityID, *model.Facility]
	byColony map[model.ColonyID]map[model.FacilityID]struct{}
	indexed  map[model.FacilityID]model.ColonyID
}

func newFacilityTable() *FacilityTable {
	return &FacilityTable{
		table:    newTable[model.FacilityID, *model.Facility](),
		byColony: make(map[model.ColonyID]map[model.FacilityID]struct{}),
		indexed:  make(map[model.FacilityID]model.ColonyID),
	}
}

func (t *FacilityTable) Upsert(f *model.Facility) {
	if prev, ok := t.indexed[f.ID]; ok && prev != f.Colony {
		delIdx(t.byColony, prev, f.ID)
	}
	t.put(f.ID, f)
	addIdx(t.byColony, f.Colony, f.ID)
	t.indexed[f.ID] = f.Colony
}

func (t *FacilityTable) Remove(id model.FacilityID) {
	if prev, ok := t.indexed[id]; ok {
		delIdx(t.byColony, prev, id)
		delete(t.indexed, id)
	}
	t.drop(id)
}

// ByColony returns every facility anchored to a colony.
func (t *FacilityTable) ByColony(c model.ColonyID) []*model.Facility {
	return filterByIdx(t.All(), t.byColony[c], func(f *model.Facility) model.FacilityID { return f.ID })
}

// ProjectTable stores construction projects, keyed by ID only; they are
// reached via the colony/facility queues that reference them.
type ProjectTable struct {
	table[model.ProjectID, *model.ConstructionProject]
}

func newProjectTable() *ProjectTable {
	return &ProjectTable{newTable[model.ProjectID, *model.ConstructionProject]()}
}

func (t *ProjectTable) Upsert(p *model.ConstructionProject) { t.put(p.ID, p) }
func (t *ProjectTable) Remove(id model.ProjectID)            { t.drop(id) }

// ScoutTable stores in-flight spy-scout missions.
type ScoutTable struct {
	table[model.ScoutMissionID, *model.ScoutMission]
}

func newScoutTable() *ScoutTable {
	return &ScoutTable{newTable[model.ScoutMissionID, *model.ScoutMission]()}
}

func (t *ScoutTable) Upsert(s *model.ScoutMission) { t.put(s.ID, s) }
func (t *ScoutTable) Remove(id model.ScoutMissionID) { t.drop(id) }

// --- small generic index helpers shared by the tables above ---

func addIdx[K comparable, E comparable](idx map[K]map[E]struct{}, key K, id E) {
	set, ok := idx[key]
	if !ok {
		set = make(map[E]struct{})
		idx[key] = set
	}
	set[id] = struct{}{}
}

func delIdx[K comparable, E comparable](idx map[K]map[E]struct{}, key K, id E) {
	if set, ok := idx[key]; ok {
		delete(set, id)
	}
}

func filterByIdx[V any, E comparable](all []V, set map[E]struct{}, idOf func(V) E) []V {
	if len(set) == 0 {
		return nil
	}
	out := make([]V, 0, len(set))
	for _, v := range all {
		if _, ok := set[idOf(v)]; ok {
			out = append(out, v)
		}
	}
	return out
}
