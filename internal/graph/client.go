package graph

import (
	"context"
	"errors"
	"time"
)

// Client defines the minimal contract the repository needs from the graph
// store. Implementations must be safe for concurrent use.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
}

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int

	// ConnectAttempts is the number of connectivity checks made before giving
	// up at startup. Values below 1 mean a single attempt.
	ConnectAttempts int
	// ConnectTimeout bounds each connectivity check.
	ConnectTimeout time.Duration
	// ConnectBackoff is the initial delay between attempts; it grows
	// exponentially.
	ConnectBackoff time.Duration
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
