package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mukesh1352/navcart/internal/domain"
	"github.com/mukesh1352/navcart/internal/graph"
)

func newRepo(t *testing.T, mem *graph.MemoryClient) *Repository {
	t.Helper()
	repo, err := New(mem, DefaultSchema())
	require.NoError(t, err)
	return repo
}

func TestRepository_FetchConnections(t *testing.T) {
	mem := graph.NewMemoryClient().WithRecords(
		graph.Record{"source": "A", "sourceLabel": "Produce", "target": "B", "targetLabel": "Dairy", "weight": 2.5},
		graph.Record{"source": int64(7), "sourceLabel": nil, "target": "C", "targetLabel": "", "weight": int64(3)},
		graph.Record{"source": "C", "target": "A", "weight": nil},
		graph.Record{"source": nil, "target": "A", "weight": "oops"},
	)
	repo := newRepo(t, mem)

	edges, err := repo.FetchConnections(context.Background())
	require.NoError(t, err)
	require.Len(t, edges, 4)

	assert.Equal(t, domain.RawEdge{
		SourceID: "A", SourceLabel: "Produce", TargetID: "B", TargetLabel: "Dairy", Weight: domain.Weight(2.5),
	}, edges[0])
	assert.Equal(t, "7", edges[1].SourceID, "integer ids are stringified")
	assert.Equal(t, domain.Weight(3), edges[1].Weight)
	assert.Nil(t, edges[2].Weight)
	assert.Empty(t, edges[3].SourceID)
	assert.Nil(t, edges[3].Weight)

	calls := mem.ReadCalls()
	require.Len(t, calls, 1)
	for _, fragment := range []string{"(a:Aisle)-[r:CONNECTED]->(b:Aisle)", "a.id AS source", "b.id AS target", "r.distance AS weight"} {
		assert.Contains(t, calls[0].Query, fragment)
	}
}

func TestRepository_FetchConnectionsEmpty(t *testing.T) {
	repo := newRepo(t, graph.NewMemoryClient())

	edges, err := repo.FetchConnections(context.Background())

	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestRepository_FetchConnectionsError(t *testing.T) {
	boom := errors.New("service unavailable")
	repo := newRepo(t, graph.NewMemoryClient().WithReadError(boom))

	_, err := repo.FetchConnections(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestRepository_NameKeyedSchema(t *testing.T) {
	mem := graph.NewMemoryClient()
	schema := DefaultSchema()
	schema.KeyProperty = "name"
	repo, err := New(mem, schema)
	require.NoError(t, err)

	_, err = repo.FetchConnections(context.Background())
	require.NoError(t, err)
	assert.Contains(t, mem.ReadCalls()[0].Query, "a.name AS source")

	require.NoError(t, repo.UpsertAisles(context.Background(), []domain.Aisle{{ID: "Dairy", Name: "Dairy"}}))
	assert.NotContains(t, mem.WriteCalls()[0].Query, "SET", "no label update when key and label share a property")
}

func TestSchema_ValidateRejectsInjection(t *testing.T) {
	cases := map[string]func(*Schema){
		"label":        func(s *Schema) { s.NodeLabel = "Aisle) DETACH DELETE (n" },
		"relationship": func(s *Schema) { s.RelationshipType = "" },
		"key":          func(s *Schema) { s.KeyProperty = "1id" },
		"label prop":   func(s *Schema) { s.LabelProperty = "na me" },
		"weight":       func(s *Schema) { s.WeightProperty = "distance`" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			schema := DefaultSchema()
			mutate(&schema)
			_, err := New(graph.NewMemoryClient(), schema)
			assert.Error(t, err)
		})
	}
}

func TestRepository_UpsertAisles(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := newRepo(t, mem)

	aisles := []domain.Aisle{{ID: "A1", Name: "Produce"}, {ID: "A2"}}
	require.NoError(t, repo.UpsertAisles(context.Background(), aisles))

	calls := mem.WriteCalls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Query, "MERGE (n:Aisle {id: aisle.key})")
	params, ok := calls[0].Params["aisles"].([]map[string]any)
	require.True(t, ok, "aisles param has type %T", calls[0].Params["aisles"])
	require.Len(t, params, 2)
	assert.Equal(t, "A1", params[0]["key"])
	assert.Equal(t, "Produce", params[0]["label"])
}

func TestRepository_UpsertConnections(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := newRepo(t, mem)

	edges := []domain.Edge{{Source: "A1", Target: "A2", Weight: 4}}
	require.NoError(t, repo.UpsertConnections(context.Background(), edges))

	calls := mem.WriteCalls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Query, "MERGE (a)-[r:CONNECTED]->(b)")
	assert.Contains(t, calls[0].Query, "SET r.distance = c.weight")
	params, ok := calls[0].Params["connections"].([]map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"source": "A1", "target": "A2", "weight": 4.0}, params[0])
}

func TestRepository_UpsertSkipsEmptyBatches(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := newRepo(t, mem)

	require.NoError(t, repo.UpsertAisles(context.Background(), nil))
	require.NoError(t, repo.UpsertConnections(context.Background(), nil))
	assert.Empty(t, mem.WriteCalls())
}

func TestRepository_UpsertPropagatesWriteError(t *testing.T) {
	boom := errors.New("write failed")
	repo := newRepo(t, graph.NewMemoryClient().WithWriteError(boom))

	err := repo.UpsertConnections(context.Background(), []domain.Edge{{Source: "A", Target: "B", Weight: 1}})

	assert.ErrorIs(t, err, boom)
}
