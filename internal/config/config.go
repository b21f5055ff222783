package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mukesh1352/navcart/internal/graph"
	"github.com/mukesh1352/navcart/internal/repository"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Graph   GraphConfig
	Route   RouteConfig
	Logging LoggingConfig
	Tracing TracingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host             string
	Port             int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	MetricsEnabled   bool
	AllowedOrigins   []string
	AllowCredentials bool
}

// GraphConfig describes connectivity to the graph database and the schema the
// facility map is stored under.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int

	ConnectAttempts int
	ConnectTimeout  time.Duration
	ConnectBackoff  time.Duration
	QueryTimeout    time.Duration

	NodeLabel        string
	RelationshipType string
	KeyProperty      string
	LabelProperty    string
	WeightProperty   string
	DefaultWeight    float64
}

// RouteConfig holds multi-stop route planning settings.
type RouteConfig struct {
	MaxStops        int
	DefaultStart    string
	DefaultEnd      string
	DefaultCheckout string
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// TracingConfig controls OpenTelemetry export.
type TracingConfig struct {
	Endpoint    string
	ServiceName string
}

var defaults = map[string]any{
	"server.host":              "0.0.0.0",
	"server.port":              8080,
	"server.read_timeout":      "10s",
	"server.write_timeout":     "15s",
	"server.idle_timeout":      "60s",
	"server.shutdown_timeout":  "10s",
	"server.metrics_enabled":   true,
	"server.allowed_origins":   "*",
	"server.allow_credentials": false,

	"log.level":          "info",
	"log.format":         "text",
	"log.include_caller": false,

	"graph.uri":               "",
	"graph.database":          "",
	"graph.username":          "",
	"graph.password":          "",
	"graph.max_connections":   10,
	"graph.connect_attempts":  3,
	"graph.connect_timeout":   "5s",
	"graph.connect_backoff":   "500ms",
	"graph.query_timeout":     "10s",
	"graph.node_label":        "Aisle",
	"graph.relationship_type": "CONNECTED",
	"graph.key_property":      "id",
	"graph.label_property":    "name",
	"graph.weight_property":   "distance",
	"graph.default_weight":    1.0,

	"route.max_stops":        8,
	"route.default_start":    "Entrance",
	"route.default_end":      "Exit",
	"route.default_checkout": "Checkouts",

	"tracing.endpoint":     "",
	"tracing.service_name": "navcart",
}

// Load resolves configuration from defaults, an optional YAML file and
// environment variables, in increasing precedence. Keys map to env vars by
// upper-casing and replacing dots, so graph.uri is read from GRAPH_URI.
// An empty path looks for navcart.yaml in the working directory.
func Load(path string) (Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("navcart")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	p := parser{v: v}
	cfg := Config{
		HTTP: HTTPConfig{
			Host:             v.GetString("server.host"),
			Port:             p.intValue("server.port"),
			ReadTimeout:      p.durationValue("server.read_timeout"),
			WriteTimeout:     p.durationValue("server.write_timeout"),
			IdleTimeout:      p.durationValue("server.idle_timeout"),
			ShutdownTimeout:  p.durationValue("server.shutdown_timeout"),
			MetricsEnabled:   p.boolValue("server.metrics_enabled"),
			AllowedOrigins:   p.listValue("server.allowed_origins"),
			AllowCredentials: p.boolValue("server.allow_credentials"),
		},
		Logging: LoggingConfig{
			Level:         v.GetString("log.level"),
			Format:        strings.ToLower(v.GetString("log.format")),
			IncludeCaller: p.boolValue("log.include_caller"),
		},
		Graph: GraphConfig{
			URI:              v.GetString("graph.uri"),
			Database:         v.GetString("graph.database"),
			Username:         v.GetString("graph.username"),
			Password:         v.GetString("graph.password"),
			MaxConnections:   p.intValue("graph.max_connections"),
			ConnectAttempts:  p.intValue("graph.connect_attempts"),
			ConnectTimeout:   p.durationValue("graph.connect_timeout"),
			ConnectBackoff:   p.durationValue("graph.connect_backoff"),
			QueryTimeout:     p.durationValue("graph.query_timeout"),
			NodeLabel:        v.GetString("graph.node_label"),
			RelationshipType: v.GetString("graph.relationship_type"),
			KeyProperty:      v.GetString("graph.key_property"),
			LabelProperty:    v.GetString("graph.label_property"),
			WeightProperty:   v.GetString("graph.weight_property"),
			DefaultWeight:    p.floatValue("graph.default_weight"),
		},
		Route: RouteConfig{
			MaxStops:        p.intValue("route.max_stops"),
			DefaultStart:    v.GetString("route.default_start"),
			DefaultEnd:      v.GetString("route.default_end"),
			DefaultCheckout: v.GetString("route.default_checkout"),
		},
		Tracing: TracingConfig{
			Endpoint:    v.GetString("tracing.endpoint"),
			ServiceName: v.GetString("tracing.service_name"),
		},
	}
	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and cross-field constraints.
func (c Config) Validate() error {
	var errs []error
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range", c.HTTP.Port))
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("log format %q must be text or json", c.Logging.Format))
	}
	if c.Graph.ConnectAttempts < 1 {
		errs = append(errs, fmt.Errorf("graph connect attempts must be at least 1, got %d", c.Graph.ConnectAttempts))
	}
	for name, d := range map[string]time.Duration{
		"graph connect timeout": c.Graph.ConnectTimeout,
		"graph query timeout":   c.Graph.QueryTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	if c.Graph.DefaultWeight < 0 || math.IsNaN(c.Graph.DefaultWeight) || math.IsInf(c.Graph.DefaultWeight, 0) {
		errs = append(errs, fmt.Errorf("graph default weight must be a non-negative number, got %v", c.Graph.DefaultWeight))
	}
	if c.Route.MaxStops < 1 {
		errs = append(errs, fmt.Errorf("route max stops must be at least 1, got %d", c.Route.MaxStops))
	}
	if err := c.Graph.Schema().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Address returns the host:port the HTTP server listens on.
func (h HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// ClientOptions converts the connection settings for graph.Connect.
func (g GraphConfig) ClientOptions() graph.Options {
	return graph.Options{
		URI:             g.URI,
		Database:        g.Database,
		Username:        g.Username,
		Password:        g.Password,
		MaxConnections:  g.MaxConnections,
		ConnectAttempts: g.ConnectAttempts,
		ConnectTimeout:  g.ConnectTimeout,
		ConnectBackoff:  g.ConnectBackoff,
	}
}

// Schema returns the repository schema described by the config.
func (g GraphConfig) Schema() repository.Schema {
	return repository.Schema{
		NodeLabel:        g.NodeLabel,
		RelationshipType: g.RelationshipType,
		KeyProperty:      g.KeyProperty,
		LabelProperty:    g.LabelProperty,
		WeightProperty:   g.WeightProperty,
	}
}

// parser reads typed values strictly, collecting every error instead of
// silently zeroing bad input the way viper's getters do.
type parser struct {
	v    *viper.Viper
	errs []error
}

func (p *parser) fail(key, raw string, err error) {
	p.errs = append(p.errs, fmt.Errorf("invalid %s value %q: %w", envName(key), raw, err))
}

func (p *parser) intValue(key string) int {
	raw := strings.TrimSpace(p.v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
	}
	return n
}

func (p *parser) floatValue(key string) float64 {
	raw := strings.TrimSpace(p.v.GetString(key))
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw, err)
	}
	return f
}

func (p *parser) durationValue(key string) time.Duration {
	raw := strings.TrimSpace(p.v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw, err)
	}
	return d
}

func (p *parser) boolValue(key string) bool {
	raw := strings.TrimSpace(p.v.GetString(key))
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, err)
	}
	return b
}

// listValue accepts either a YAML sequence or a comma separated string.
func (p *parser) listValue(key string) []string {
	var items []string
	if raw, ok := p.v.Get(key).(string); ok {
		items = strings.Split(raw, ",")
	} else {
		items = p.v.GetStringSlice(key)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
