// Package pathfind materialises facility connectivity records into an
// in-memory directed weighted graph and answers full-graph and lowest-cost
// route queries against it.
//
// A Snapshot is built fresh for every query by a Builder and is never mutated
// afterwards, so queries need no locking. The Engine holds only configuration.
package pathfind

import (
	"github.com/mukesh1352/navcart/internal/domain"
)

// DefaultMaxStops bounds the permutation search performed by PlanTour.
const DefaultMaxStops = 8

// EngineOptions configures an Engine.
type EngineOptions struct {
	MaxStops int
}

// Engine answers queries against snapshots.
type Engine struct {
	maxStops int
}

// NewEngine returns an Engine, applying defaults for unset options.
func NewEngine(opts EngineOptions) *Engine {
	if opts.MaxStops <= 0 {
		opts.MaxStops = DefaultMaxStops
	}
	return &Engine{maxStops: opts.MaxStops}
}

// Dump returns every node and directed edge of the snapshot. A nil snapshot
// dumps as an empty graph.
func (e *Engine) Dump(snap *Snapshot) domain.GraphView {
	if snap == nil {
		snap = Empty()
	}
	return domain.GraphView{
		Nodes: snap.Nodes(),
		Edges: snap.Edges(),
	}
}

// ShortestPath returns the lowest-cost directed route from source to target.
//
// Checks run in order: unknown source, unknown target (both *NodeNotFoundError),
// source == target (zero-cost single-node route), unreachable target
// (*NoPathError). Among equal-cost routes the choice is deterministic for a
// given snapshot but otherwise unspecified.
func (e *Engine) ShortestPath(snap *Snapshot, source, target string) (domain.Route, error) {
	if snap == nil {
		snap = Empty()
	}
	src, ok := snap.index[source]
	if !ok {
		return domain.Route{}, &NodeNotFoundError{Endpoint: EndpointSource, ID: source}
	}
	dst, ok := snap.index[target]
	if !ok {
		return domain.Route{}, &NodeNotFoundError{Endpoint: EndpointTarget, ID: target}
	}

	if src == dst {
		return snap.route(source, target, []int{src}, 0), nil
	}

	t := snap.search(src, dst)
	if !t.reached(dst) {
		return domain.Route{}, &NoPathError{Source: source, Target: target}
	}
	return snap.route(source, target, t.pathTo(dst), t.dist[dst]), nil
}

// route materialises a node-index path into a domain.Route.
func (s *Snapshot) route(source, target string, path []int, cost float64) domain.Route {
	r := domain.Route{
		Source: source,
		Target: target,
		Path:   s.ids(path),
		Edges:  s.pathEdges(path),
		Cost:   cost,
	}
	if s.labeled {
		r.Labels = make([]string, len(r.Path))
		for i, id := range r.Path {
			r.Labels[i] = s.Label(id)
		}
	}
	return r
}

func (s *Snapshot) ids(path []int) []string {
	ids := make([]string, len(path))
	for i, n := range path {
		ids[i] = s.nodes[n].ID
	}
	return ids
}

// pathEdges looks up the directed edge for each consecutive pair of path.
func (s *Snapshot) pathEdges(path []int) []domain.Edge {
	edges := make([]domain.Edge, 0, max(len(path)-1, 0))
	for i := 0; i+1 < len(path); i++ {
		u, v := path[i], path[i+1]
		w := s.out[u][s.pos[arcKey{from: u, to: v}]].weight
		edges = append(edges, domain.Edge{
			Source: s.nodes[u].ID,
			Target: s.nodes[v].ID,
			Weight: w,
		})
	}
	return edges
}
