package astar

import (
	"container/heap"
	"time"

	"github.com/openfluidics/fluidroute/geom"
)

// node is one frontier entry. Nodes form a parent-linked tree so the
// winning path can be rebuilt without storing it per entry.
type node struct {
	pos      geom.GridPoint
	parent   *node
	dir      geom.GridPoint // incoming move, zero for the start node
	hasDir   bool
	cost     int // steps taken from start
	turns    int // direction changes from start
	priority float64
	seq      int // insertion order, breaks priority ties deterministically
}

// nodePQ is a min-heap of frontier nodes ordered by priority, then by
// insertion order. Lazy decrease-key: improved nodes are pushed as
// duplicates and stale entries are discarded on pop against the visited
// map.
type nodePQ []*node

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].priority != pq[j].priority {
		return pq[i].priority < pq[j].priority
	}

	return pq[i].seq < pq[j].seq
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*node)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return it
}

// visit records the best (cost, turns) pair seen for a lattice point,
// compared lexicographically: fewer steps wins, equal steps with fewer
// turns wins.
type visit struct {
	cost  int
	turns int
}

// dominates reports whether the recorded pair is at least as good as
// (cost, turns) — such a candidate cannot improve on what is known.
func (v visit) dominates(cost, turns int) bool {
	if v.cost != cost {
		return v.cost < cost
	}

	return v.turns <= turns
}

// Search finds a path from start to goal over the unit lattice,
// stepping only through points for which valid reports true. The start
// point is expanded unconditionally; the returned path is the raw
// step-by-step point sequence (use channel.Simplify to collapse
// straight runs).
//
// Returns ErrNilValidity, ErrNoPath or ErrTimeout on failure. With the
// default inadmissible weights the result favors short, straight paths
// but is not guaranteed optimal.
func Search(start, goal geom.GridPoint, valid func(geom.GridPoint) bool, opts ...Option) ([]geom.GridPoint, error) {
	if valid == nil {
		return nil, ErrNilValidity
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	began := o.Clock()

	// Expansion order per the configured axis preference, positive step
	// first on each axis. The default reproduces geom.Directions.
	var dirs [6]geom.GridPoint
	for i, axis := range o.AxisOrder {
		dirs[2*i][axis] = 1
		dirs[2*i+1][axis] = -1
	}

	estimate := func(p geom.GridPoint) float64 {
		return o.HeuristicWeight * float64(p.Manhattan(goal))
	}

	pq := make(nodePQ, 0, 64)
	seq := 0
	push := func(n *node) {
		n.seq = seq
		seq++
		heap.Push(&pq, n)
	}
	push(&node{pos: start, priority: estimate(start)})

	best := make(map[geom.GridPoint]visit)
	for pq.Len() > 0 {
		if o.Clock().Sub(began) > o.Timeout {
			return nil, ErrTimeout
		}
		cur := heap.Pop(&pq).(*node)
		if cur.pos == goal {
			return rebuild(cur), nil
		}
		if v, ok := best[cur.pos]; ok && v.dominates(cur.cost, cur.turns) {
			continue // stale duplicate
		}
		best[cur.pos] = visit{cost: cur.cost, turns: cur.turns}

		for _, d := range dirs {
			next := cur.pos.Add(d)
			if !valid(next) {
				continue
			}
			cost := cur.cost + 1
			turns := cur.turns
			if cur.hasDir && d != cur.dir {
				turns++
			}
			if v, ok := best[next]; ok && v.dominates(cost, turns) {
				continue
			}
			push(&node{
				pos:      next,
				parent:   cur,
				dir:      d,
				hasDir:   true,
				cost:     cost,
				turns:    turns,
				priority: float64(cost) + estimate(next) + o.TurnWeight*float64(turns),
			})
		}
	}

	return nil, ErrNoPath
}

// rebuild walks the parent chain back to the start and reverses it.
func rebuild(goal *node) []geom.GridPoint {
	n := 0
	for cur := goal; cur != nil; cur = cur.parent {
		n++
	}
	path := make([]geom.GridPoint, n)
	for cur := goal; cur != nil; cur = cur.parent {
		n--
		path[n] = cur.pos
	}

	return path
}
