package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "navcart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Address())
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout)
	assert.True(t, cfg.HTTP.MetricsEnabled)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.False(t, cfg.HTTP.AllowCredentials)

	assert.Equal(t, 3, cfg.Graph.ConnectAttempts)
	assert.Equal(t, 5*time.Second, cfg.Graph.ConnectTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Graph.ConnectBackoff)
	assert.Equal(t, 10*time.Second, cfg.Graph.QueryTimeout)
	assert.Equal(t, 1.0, cfg.Graph.DefaultWeight)
	assert.Equal(t, "Aisle", cfg.Graph.NodeLabel)
	assert.Equal(t, "id", cfg.Graph.KeyProperty)

	assert.Equal(t, 8, cfg.Route.MaxStops)
	assert.Equal(t, "Entrance", cfg.Route.DefaultStart)
	assert.Equal(t, "Checkouts", cfg.Route.DefaultCheckout)
	assert.Equal(t, "Exit", cfg.Route.DefaultEnd)

	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "navcart", cfg.Tracing.ServiceName)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://localhost:5173, https://navcart.example ,")
	t.Setenv("GRAPH_URI", "bolt://neo4j:7687")
	t.Setenv("GRAPH_KEY_PROPERTY", "name")
	t.Setenv("GRAPH_CONNECT_ATTEMPTS", "5")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_INCLUDE_CALLER", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, []string{"http://localhost:5173", "https://navcart.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "bolt://neo4j:7687", cfg.Graph.ClientOptions().URI)
	assert.Equal(t, 5, cfg.Graph.ClientOptions().ConnectAttempts)
	assert.Equal(t, "name", cfg.Graph.Schema().KeyProperty)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.IncludeCaller)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 7000
  allowed_origins:
    - http://a.example
    - http://b.example
graph:
  uri: bolt://file:7687
  query_timeout: 2s
  default_weight: 0.5
route:
  max_stops: 4
  default_checkout: ""
`)
	t.Setenv("GRAPH_URI", "bolt://env:7687")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.HTTP.Port)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "bolt://env:7687", cfg.Graph.URI, "env wins over file")
	assert.Equal(t, 2*time.Second, cfg.Graph.QueryTimeout)
	assert.Equal(t, 0.5, cfg.Graph.DefaultWeight)
	assert.Equal(t, 4, cfg.Route.MaxStops)
	assert.Empty(t, cfg.Route.DefaultCheckout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]struct {
		key, value string
	}{
		"port not a number":  {"SERVER_PORT", "eighty"},
		"port out of range":  {"SERVER_PORT", "70000"},
		"bad duration":       {"SERVER_WRITE_TIMEOUT", "soon"},
		"zero attempts":      {"GRAPH_CONNECT_ATTEMPTS", "0"},
		"zero query timeout": {"GRAPH_QUERY_TIMEOUT", "0s"},
		"negative weight":    {"GRAPH_DEFAULT_WEIGHT", "-1"},
		"bad bool":           {"SERVER_METRICS_ENABLED", "maybe"},
		"bad format":         {"LOG_FORMAT", "xml"},
		"unsafe label":       {"GRAPH_NODE_LABEL", "Aisle) DETACH DELETE (x"},
		"no stops allowed":   {"ROUTE_MAX_STOPS", "0"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tc.key, tc.value)

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
