package pathfind

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mukesh1352/navcart/internal/domain"
)

func build(t *testing.T, records ...domain.RawEdge) *Snapshot {
	t.Helper()
	snap, _ := NewBuilder(nil, BuildOptions{}).Build(records)
	return snap
}

func TestShortestPath_PrefersCheaperDetour(t *testing.T) {
	snap := build(t, rec("A", "B", 2), rec("B", "C", 3), rec("A", "C", 10))

	route, err := NewEngine(EngineOptions{}).ShortestPath(snap, "A", "C")

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, route.Path)
	assert.Equal(t, 5.0, route.Cost)
	assert.Equal(t, []domain.Edge{
		{Source: "A", Target: "B", Weight: 2},
		{Source: "B", Target: "C", Weight: 3},
	}, route.Edges)
	assert.Empty(t, route.Labels)
}

func TestShortestPath_DirectedNoReversePath(t *testing.T) {
	snap := build(t, rec("A", "B", 1))

	_, err := NewEngine(EngineOptions{}).ShortestPath(snap, "B", "A")

	var noPath *NoPathError
	require.ErrorAs(t, err, &noPath)
	assert.Equal(t, "B", noPath.Source)
	assert.Equal(t, "A", noPath.Target)
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestShortestPath_SameNodeIsZeroCost(t *testing.T) {
	snap := build(t, rec("A", "B", 4))

	route, err := NewEngine(EngineOptions{}).ShortestPath(snap, "B", "B")

	require.NoError(t, err)
	assert.True(t, route.SameNode())
	assert.Equal(t, []string{"B"}, route.Path)
	assert.Empty(t, route.Edges)
	assert.Zero(t, route.Cost)
}

func TestShortestPath_MissingEndpoints(t *testing.T) {
	snap := build(t, rec("A", "B", 1))
	engine := NewEngine(EngineOptions{})

	tests := []struct {
		name     string
		source   string
		target   string
		endpoint Endpoint
		id       string
	}{
		{name: "source missing", source: "X", target: "B", endpoint: EndpointSource, id: "X"},
		{name: "target missing", source: "A", target: "Y", endpoint: EndpointTarget, id: "Y"},
		{name: "both missing reports source", source: "X", target: "Y", endpoint: EndpointSource, id: "X"},
		{name: "same missing node", source: "Z", target: "Z", endpoint: EndpointSource, id: "Z"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.ShortestPath(snap, tc.source, tc.target)

			var nf *NodeNotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, tc.endpoint, nf.Endpoint)
			assert.Equal(t, tc.id, nf.ID)
			assert.True(t, errors.Is(err, ErrNodeNotFound))
		})
	}
}

func TestShortestPath_EmptySnapshot(t *testing.T) {
	engine := NewEngine(EngineOptions{})

	_, err := engine.ShortestPath(Empty(), "A", "B")
	assert.ErrorIs(t, err, ErrNodeNotFound)

	_, err = engine.ShortestPath(nil, "A", "B")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestShortestPath_ZeroWeightEdges(t *testing.T) {
	snap := build(t, rec("A", "B", 0), rec("B", "C", 0), rec("A", "C", 1))

	route, err := NewEngine(EngineOptions{}).ShortestPath(snap, "A", "C")

	require.NoError(t, err)
	assert.Zero(t, route.Cost)
	assert.Equal(t, []string{"A", "B", "C"}, route.Path)
}

func TestShortestPath_IncludesLabelsWhenPresent(t *testing.T) {
	snap := build(t,
		domain.RawEdge{SourceID: "1", SourceLabel: "Entrance", TargetID: "2", TargetLabel: "Bakery", Weight: domain.Weight(1)},
		domain.RawEdge{SourceID: "2", TargetID: "3", Weight: domain.Weight(1)},
	)

	route, err := NewEngine(EngineOptions{}).ShortestPath(snap, "1", "3")

	require.NoError(t, err)
	assert.Equal(t, []string{"Entrance", "Bakery", "3"}, route.Labels)
}

func TestShortestPath_EqualCostAlternatives(t *testing.T) {
	snap := build(t, rec("A", "B", 1), rec("B", "D", 1), rec("A", "C", 1), rec("C", "D", 1))
	engine := NewEngine(EngineOptions{})

	first, err := engine.ShortestPath(snap, "A", "D")
	require.NoError(t, err)
	assert.Equal(t, 2.0, first.Cost)
	assertValidRoute(t, snap, first)

	second, err := engine.ShortestPath(snap, "A", "D")
	require.NoError(t, err)
	assert.Equal(t, first.Path, second.Path)
}

func TestDump_ReportsAllNodesAndEdges(t *testing.T) {
	snap := build(t,
		domain.RawEdge{SourceID: "A", SourceLabel: "Entrance", TargetID: "B", Weight: domain.Weight(2)},
		rec("B", "C", 3),
	)

	view := NewEngine(EngineOptions{}).Dump(snap)

	assert.ElementsMatch(t, []domain.Node{
		{ID: "A", Label: "Entrance"},
		{ID: "B", Label: "B"},
		{ID: "C", Label: "C"},
	}, view.Nodes)
	assert.ElementsMatch(t, []domain.Edge{
		{Source: "A", Target: "B", Weight: 2},
		{Source: "B", Target: "C", Weight: 3},
	}, view.Edges)
}

func TestDump_EmptySnapshot(t *testing.T) {
	view := NewEngine(EngineOptions{}).Dump(nil)

	assert.NotNil(t, view.Nodes)
	assert.NotNil(t, view.Edges)
	assert.Empty(t, view.Nodes)
	assert.Empty(t, view.Edges)
}

func assertValidRoute(t *testing.T, snap *Snapshot, route domain.Route) {
	t.Helper()
	require.NotEmpty(t, route.Path)
	require.Len(t, route.Edges, len(route.Path)-1)

	var total float64
	for i := 0; i+1 < len(route.Path); i++ {
		w, ok := snap.Weight(route.Path[i], route.Path[i+1])
		require.True(t, ok, "missing edge %s->%s", route.Path[i], route.Path[i+1])
		assert.Equal(t, domain.Edge{Source: route.Path[i], Target: route.Path[i+1], Weight: w}, route.Edges[i])
		total += w
	}
	assert.Equal(t, route.Cost, total)
}
