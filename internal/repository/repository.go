package repository

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/mukesh1352/navcart/internal/domain"
	"github.com/mukesh1352/navcart/internal/graph"
)

// Schema names the labels and properties the facility graph is stored under.
// Deployments that key aisles by name set KeyProperty to "name".
type Schema struct {
	NodeLabel        string
	RelationshipType string
	KeyProperty      string
	LabelProperty    string
	WeightProperty   string
}

// DefaultSchema matches (:Aisle {id, name})-[:CONNECTED {distance}]->(:Aisle).
func DefaultSchema() Schema {
	return Schema{
		NodeLabel:        "Aisle",
		RelationshipType: "CONNECTED",
		KeyProperty:      "id",
		LabelProperty:    "name",
		WeightProperty:   "distance",
	}
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate rejects names that cannot be spliced into Cypher safely.
func (s Schema) Validate() error {
	fields := []struct{ name, value string }{
		{"node label", s.NodeLabel},
		{"relationship type", s.RelationshipType},
		{"key property", s.KeyProperty},
		{"label property", s.LabelProperty},
		{"weight property", s.WeightProperty},
	}
	for _, f := range fields {
		if !identifierPattern.MatchString(f.value) {
			return fmt.Errorf("invalid %s %q", f.name, f.value)
		}
	}
	return nil
}

// Repository encapsulates graph persistence operations for the aisle map.
type Repository struct {
	client graph.Client
	schema Schema

	fetchCypher        string
	upsertAislesCypher string
	upsertEdgesCypher  string
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client, schema Schema) (*Repository, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &Repository{
		client:             client,
		schema:             schema,
		fetchCypher:        fetchConnectionsCypher(schema),
		upsertAislesCypher: upsertAislesCypher(schema),
		upsertEdgesCypher:  upsertConnectionsCypher(schema),
	}, nil
}

// FetchConnections returns every directed connection record in the store.
// Records are decoded leniently: missing ids become empty strings and
// missing or non-numeric weights become nil, leaving validation to the
// graph builder.
func (r *Repository) FetchConnections(ctx context.Context) ([]domain.RawEdge, error) {
	res, err := r.client.ExecuteRead(ctx, r.fetchCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch connections query: %w", err)
	}

	edges := make([]domain.RawEdge, 0, len(res.Records))
	for _, rec := range res.Records {
		edges = append(edges, domain.RawEdge{
			SourceID:    toString(rec["source"]),
			SourceLabel: toString(rec["sourceLabel"]),
			TargetID:    toString(rec["target"]),
			TargetLabel: toString(rec["targetLabel"]),
			Weight:      toWeight(rec["weight"]),
		})
	}
	return edges, nil
}

// UpsertAisles merges aisle nodes and refreshes their display names.
func (r *Repository) UpsertAisles(ctx context.Context, aisles []domain.Aisle) error {
	if len(aisles) == 0 {
		return nil
	}
	params := make([]map[string]any, 0, len(aisles))
	for _, a := range aisles {
		params = append(params, map[string]any{
			"key":   a.ID,
			"label": a.Name,
		})
	}
	if _, err := r.client.ExecuteWrite(ctx, r.upsertAislesCypher, map[string]any{"aisles": params}); err != nil {
		return fmt.Errorf("upsert %d aisles: %w", len(aisles), err)
	}
	return nil
}

// UpsertConnections merges directed connections, creating missing endpoints.
func (r *Repository) UpsertConnections(ctx context.Context, edges []domain.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	params := make([]map[string]any, 0, len(edges))
	for _, e := range edges {
		params = append(params, map[string]any{
			"source": e.Source,
			"target": e.Target,
			"weight": e.Weight,
		})
	}
	if _, err := r.client.ExecuteWrite(ctx, r.upsertEdgesCypher, map[string]any{"connections": params}); err != nil {
		return fmt.Errorf("upsert %d connections: %w", len(edges), err)
	}
	return nil
}

// Ping checks store connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.VerifyConnectivity(ctx)
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toWeight(val any) *float64 {
	var w float64
	switch v := val.(type) {
	case float64:
		w = v
	case float32:
		w = float64(v)
	case int64:
		w = float64(v)
	case int:
		w = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		w = parsed
	default:
		return nil
	}
	return &w
}

func fetchConnectionsCypher(s Schema) string {
	return fmt.Sprintf(`
MATCH (a:%[1]s)-[r:%[2]s]->(b:%[1]s)
RETURN a.%[3]s AS source,
       a.%[4]s AS sourceLabel,
       b.%[3]s AS target,
       b.%[4]s AS targetLabel,
       r.%[5]s AS weight
`, s.NodeLabel, s.RelationshipType, s.KeyProperty, s.LabelProperty, s.WeightProperty)
}

func upsertAislesCypher(s Schema) string {
	if s.KeyProperty == s.LabelProperty {
		return fmt.Sprintf(`
UNWIND $aisles AS aisle
MERGE (:%[1]s {%[2]s: aisle.key})
`, s.NodeLabel, s.KeyProperty)
	}
	return fmt.Sprintf(`
UNWIND $aisles AS aisle
MERGE (n:%[1]s {%[2]s: aisle.key})
SET n.%[3]s = CASE WHEN aisle.label = "" THEN n.%[3]s ELSE aisle.label END
`, s.NodeLabel, s.KeyProperty, s.LabelProperty)
}

func upsertConnectionsCypher(s Schema) string {
	return fmt.Sprintf(`
UNWIND $connections AS c
MERGE (a:%[1]s {%[3]s: c.source})
MERGE (b:%[1]s {%[3]s: c.target})
MERGE (a)-[r:%[2]s]->(b)
SET r.%[4]s = c.weight
`, s.NodeLabel, s.RelationshipType, s.KeyProperty, s.WeightProperty)
}
