package starmap

import (
	"container/heap"
	"fmt"

	"hexdominion/internal/model"
	"hexdominion/internal/store"
)

// ErrNoPath is returned when no admissible path exists between two
// systems for the given fleet composition.
var ErrNoPath = fmt.Errorf("starmap: no admissible path")

// Composition describes the parts of a fleet's makeup that affect lane
// admissibility: Restricted lanes bar non-escorted spacelift
// ships.
type Composition struct {
	HasSpacelift bool
	HasEscort    bool
}

// Admits reports whether a lane of this type can be traversed by a fleet
// with this composition.
func (c Composition) Admits(t model.LaneType) bool {
	if t != model.Restricted {
		return true
	}
	return !c.HasSpacelift || c.HasEscort
}

func laneWeight(t model.LaneType) int {
	switch t {
	case model.Major:
		return 1
	case model.Minor:
		return 2
	case model.Restricted:
		return 3
	default:
		return 2
	}
}

type pqItem struct {
	system model.SystemID
	cost   int
	index  int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].cost < pq[j].cost }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i]; pq[i].index, pq[j].index = i, j }
func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// ShortestPath computes the lowest-weight admissible path from->to for
// the given composition, weighted by lane type per (Major cheapest,
// Restricted most expensive, and inadmissible lanes excluded entirely).
// The returned path excludes `from` and includes `to`. Returns ErrNoPath
// if none exists - the caller (internal/movement) turns that into a
// SeekHome/hold decision, not a fatal error.
func ShortestPath(g *store.GameState, from, to model.SystemID, comp Composition) ([]model.SystemID, error) {
	if from == to {
		return nil, nil
	}

	dist := map[model.SystemID]int{from: 0}
	prev := map[model.SystemID]model.SystemID{}

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{system: from, cost: 0})

	visited := map[model.SystemID]bool{}

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*pqItem)
		if visited[cur.system] {
			continue
		}
		visited[cur.system] = true
		if cur.system == to {
			break
		}

		for _, lane := range g.Lanes.From(cur.system) {
			if !comp.Admits(lane.Type) {
				continue
			}
			next := cur.cost + laneWeight(lane.Type)
			if d, ok := dist[lane.To]; !ok || next < d {
				dist[lane.To] = next
				prev[lane.To] = cur.system
				heap.Push(pq, &pqItem{system: lane.To, cost: next})
			}
		}
	}

	if _, ok := dist[to]; !ok {
		return nil, ErrNoPath
	}

	var path []model.SystemID
	for at := to; at != from; at = prev[at] {
		path = append([]model.SystemID{at}, path...)
	}
	return path, nil
}
