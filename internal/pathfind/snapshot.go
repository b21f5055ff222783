package pathfind

import "github.com/mukesh1352/navcart/internal/domain"

// Snapshot is an immutable directed weighted graph assembled from one store
// fetch. It is safe for concurrent reads once Build has returned it.
type Snapshot struct {
	index   map[string]int
	nodes   []domain.Node
	out     [][]arc
	pos     map[arcKey]int
	edges   int
	labeled bool
}

type arc struct {
	to     int
	weight float64
}

type arcKey struct {
	from, to int
}

func newSnapshot(capacity int) *Snapshot {
	return &Snapshot{
		index: make(map[string]int, capacity),
		pos:   make(map[arcKey]int, capacity),
	}
}

// Empty returns a snapshot with no nodes and no edges.
func Empty() *Snapshot {
	return newSnapshot(0)
}

// addNode returns the index of id, creating the node on first sight. A
// non-empty label replaces whatever label the node carried before.
func (s *Snapshot) addNode(id, label string) int {
	idx, ok := s.index[id]
	if !ok {
		idx = len(s.nodes)
		s.index[id] = idx
		s.nodes = append(s.nodes, domain.Node{ID: id})
		s.out = append(s.out, nil)
	}
	if label != "" {
		s.nodes[idx].Label = label
		s.labeled = true
	}
	return idx
}

// setEdge inserts from->to or overwrites its weight. It reports whether an
// existing edge was overwritten.
func (s *Snapshot) setEdge(from, to int, weight float64) bool {
	key := arcKey{from: from, to: to}
	if p, ok := s.pos[key]; ok {
		s.out[from][p].weight = weight
		return true
	}
	s.pos[key] = len(s.out[from])
	s.out[from] = append(s.out[from], arc{to: to, weight: weight})
	s.edges++
	return false
}

// NodeCount returns the number of nodes.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of directed edges.
func (s *Snapshot) EdgeCount() int { return s.edges }

// HasNode reports whether id is a known node.
func (s *Snapshot) HasNode(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Labeled reports whether any node carries a display label.
func (s *Snapshot) Labeled() bool { return s.labeled }

// Label returns the display label of id, falling back to the id itself.
func (s *Snapshot) Label(id string) string {
	idx, ok := s.index[id]
	if !ok || s.nodes[idx].Label == "" {
		return id
	}
	return s.nodes[idx].Label
}

// Weight returns the weight of the directed edge from->to.
func (s *Snapshot) Weight(from, to string) (float64, bool) {
	u, ok := s.index[from]
	if !ok {
		return 0, false
	}
	v, ok := s.index[to]
	if !ok {
		return 0, false
	}
	p, ok := s.pos[arcKey{from: u, to: v}]
	if !ok {
		return 0, false
	}
	return s.out[u][p].weight, true
}

// Nodes returns every node in first-seen order with the label-or-id fallback
// applied.
func (s *Snapshot) Nodes() []domain.Node {
	nodes := make([]domain.Node, len(s.nodes))
	for i, n := range s.nodes {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		nodes[i] = domain.Node{ID: n.ID, Label: label}
	}
	return nodes
}

// Edges returns every directed edge grouped by source in first-seen order.
func (s *Snapshot) Edges() []domain.Edge {
	edges := make([]domain.Edge, 0, s.edges)
	for u, arcs := range s.out {
		for _, a := range arcs {
			edges = append(edges, domain.Edge{
				Source: s.nodes[u].ID,
				Target: s.nodes[a.to].ID,
				Weight: a.weight,
			})
		}
	}
	return edges
}
