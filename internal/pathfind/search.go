package pathfind

import (
	"container/heap"
	"math"
)

// tree is the result of one single-source search: distances and predecessors
// indexed by node position. prev[v] == -1 for the source and for unreached v.
type tree struct {
	source int
	dist   []float64
	prev   []int
}

func (t tree) reached(v int) bool {
	return !math.IsInf(t.dist[v], 1)
}

// pathTo returns node indexes from the source to v inclusive, or nil when v
// was not reached.
func (t tree) pathTo(v int) []int {
	if !t.reached(v) {
		return nil
	}
	var rev []int
	for cur := v; cur != -1; cur = t.prev[cur] {
		rev = append(rev, cur)
	}
	path := make([]int, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = n
	}
	return path
}

// search runs Dijkstra from source. When target >= 0 the search stops as soon
// as target is settled; pass -1 to settle every reachable node.
//
// Lazy decrease-key: improved distances are pushed again and stale heap
// entries are skipped once their node is settled. Weights are non-negative by
// construction (see Builder).
func (s *Snapshot) search(source, target int) tree {
	n := len(s.nodes)
	t := tree{
		source: source,
		dist:   make([]float64, n),
		prev:   make([]int, n),
	}
	for i := range n {
		t.dist[i] = math.Inf(1)
		t.prev[i] = -1
	}
	settled := make([]bool, n)

	t.dist[source] = 0
	pq := &queue{}
	heap.Push(pq, &item{node: source, dist: 0})

	for pq.Len() > 0 {
		it := heap.Pop(pq).(*item)
		u := it.node
		if settled[u] {
			continue
		}
		settled[u] = true
		if u == target {
			break
		}

		for _, a := range s.out[u] {
			if settled[a.to] {
				continue
			}
			nd := t.dist[u] + a.weight
			if nd >= t.dist[a.to] {
				continue
			}
			t.dist[a.to] = nd
			t.prev[a.to] = u
			heap.Push(pq, &item{node: a.to, dist: nd, seq: pq.next()})
		}
	}
	return t
}

type item struct {
	node int
	dist float64
	seq  uint64
}

// queue is a min-heap on dist; seq breaks ties by push order so results are
// deterministic for a given snapshot.
type queue struct {
	items  []*item
	pushed uint64
}

func (q *queue) next() uint64 {
	q.pushed++
	return q.pushed
}

func (q *queue) Len() int { return len(q.items) }

func (q *queue) Less(i, j int) bool {
	if q.items[i].dist != q.items[j].dist {
		return q.items[i].dist < q.items[j].dist
	}
	return q.items[i].seq < q.items[j].seq
}

func (q *queue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *queue) Push(x any) { q.items = append(q.items, x.(*item)) }

func (q *queue) Pop() any {
	old := q.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return it
}
