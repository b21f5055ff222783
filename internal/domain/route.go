package domain

// Route is the lowest-cost path between two nodes.
type Route struct {
	Source string
	Target string
	// Path lists node ids from Source to Target inclusive.
	Path []string
	// Labels holds the display label of each node in Path, in the same order.
	// It is empty when the snapshot carries no labels at all.
	Labels []string
	Edges  []Edge
	Cost   float64
}

// SameNode reports whether the route is the zero-cost source == target case.
func (r Route) SameNode() bool {
	return r.Source == r.Target && len(r.Path) == 1
}

// TourRequest describes a multi-stop walk: Start, every stop in any order,
// then Checkout (optional), then End.
type TourRequest struct {
	Start    string
	Stops    []string
	Checkout string
	End      string
}

// Tour is the cheapest walk satisfying a TourRequest.
type Tour struct {
	// Order is the visiting order chosen for the requested stops.
	Order []string
	Path  []string
	Edges []Edge
	Cost  float64
}
