package pathfind

import (
	"fmt"
	"math"
	"slices"

	"github.com/mukesh1352/navcart/internal/domain"
)

// PlanTour finds the cheapest walk that leaves req.Start, visits every stop
// once in any order, then req.Checkout when set, and finishes at req.End.
//
// Stops are de-duplicated and stops equal to Start, Checkout or End are
// dropped. Every endpoint must exist (*NodeNotFoundError, checked in the order
// start, stops, checkout, end). Orders containing an unreachable leg are
// discarded; if none remain the result is a *NoPathError from Start to End.
func (e *Engine) PlanTour(snap *Snapshot, req domain.TourRequest) (domain.Tour, error) {
	if snap == nil {
		snap = Empty()
	}

	start, ok := snap.index[req.Start]
	if !ok {
		return domain.Tour{}, &NodeNotFoundError{Endpoint: EndpointSource, ID: req.Start}
	}

	stops := make([]int, 0, len(req.Stops))
	for _, id := range req.Stops {
		idx, ok := snap.index[id]
		if !ok {
			return domain.Tour{}, &NodeNotFoundError{Endpoint: EndpointStop, ID: id}
		}
		if id == req.Start || id == req.Checkout || id == req.End || slices.Contains(stops, idx) {
			continue
		}
		stops = append(stops, idx)
	}

	checkout := -1
	if req.Checkout != "" {
		idx, ok := snap.index[req.Checkout]
		if !ok {
			return domain.Tour{}, &NodeNotFoundError{Endpoint: EndpointCheckout, ID: req.Checkout}
		}
		checkout = idx
	}

	end, ok := snap.index[req.End]
	if !ok {
		return domain.Tour{}, &NodeNotFoundError{Endpoint: EndpointTarget, ID: req.End}
	}

	if len(stops) > e.maxStops {
		return domain.Tour{}, fmt.Errorf("%w: %d stops requested, limit is %d", ErrTooManyStops, len(stops), e.maxStops)
	}

	// One full search per leg origin gives every leg cost the permutation
	// loop needs.
	trees := make(map[int]tree, len(stops)+2)
	for _, origin := range append([]int{start, checkout}, stops...) {
		if origin < 0 {
			continue
		}
		if _, done := trees[origin]; !done {
			trees[origin] = snap.search(origin, -1)
		}
	}

	perm := make([]int, len(stops))
	for i := range perm {
		perm[i] = i
	}

	var (
		best     []int
		bestCost = math.Inf(1)
	)
	for {
		seq := walk(start, stops, perm, checkout, end)
		if cost, ok := walkCost(trees, seq); ok && cost < bestCost {
			best, bestCost = seq, cost
		}
		if !nextPermutation(perm) {
			break
		}
	}
	if best == nil {
		return domain.Tour{}, &NoPathError{Source: req.Start, Target: req.End}
	}

	path := []int{start}
	for i := 0; i+1 < len(best); i++ {
		leg := trees[best[i]].pathTo(best[i+1])
		path = append(path, leg[1:]...)
	}

	order := make([]string, 0, len(stops))
	for _, idx := range best[1 : 1+len(stops)] {
		order = append(order, snap.nodes[idx].ID)
	}

	return domain.Tour{
		Order: order,
		Path:  snap.ids(path),
		Edges: snap.pathEdges(path),
		Cost:  bestCost,
	}, nil
}

// walk lays out the node sequence start, stops (in perm order), checkout, end.
func walk(start int, stops, perm []int, checkout, end int) []int {
	seq := make([]int, 0, len(stops)+3)
	seq = append(seq, start)
	for _, p := range perm {
		seq = append(seq, stops[p])
	}
	if checkout >= 0 {
		seq = append(seq, checkout)
	}
	return append(seq, end)
}

func walkCost(trees map[int]tree, seq []int) (float64, bool) {
	var total float64
	for i := 0; i+1 < len(seq); i++ {
		t := trees[seq[i]]
		if !t.reached(seq[i+1]) {
			return 0, false
		}
		total += t.dist[seq[i+1]]
	}
	return total, true
}

// nextPermutation rearranges p into the next lexicographic permutation and
// reports false once p was the last one.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	slices.Reverse(p[i+1:])
	return true
}
