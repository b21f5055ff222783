package domain

// RawEdge is a single connectivity record as returned by the graph store.
// Missing ids are empty strings; a nil Weight means the store carried no weight.
type RawEdge struct {
	SourceID    string
	SourceLabel string
	TargetID    string
	TargetLabel string
	Weight      *float64
}

// Node is an aisle or location in the facility graph.
type Node struct {
	ID    string
	Label string
}

// Edge is a directed, weighted connection between two nodes.
type Edge struct {
	Source string
	Target string
	Weight float64
}

// GraphView is the full-graph dump of a snapshot.
type GraphView struct {
	Nodes []Node
	Edges []Edge
}

// Weight returns a pointer to w. Handy when building RawEdge literals.
func Weight(w float64) *float64 {
	return &w
}
