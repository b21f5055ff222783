package pathfind

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine. Use errors.Is to classify and
// errors.As with *NodeNotFoundError / *NoPathError to recover the details.
var (
	ErrNodeNotFound = errors.New("node not found")
	ErrNoPath       = errors.New("no path found")
	ErrTooManyStops = errors.New("too many stops")
)

// Endpoint names the role of a node in a query.
type Endpoint string

const (
	EndpointSource   Endpoint = "source"
	EndpointTarget   Endpoint = "target"
	EndpointStop     Endpoint = "stop"
	EndpointCheckout Endpoint = "checkout"
)

// NodeNotFoundError reports a query endpoint that is absent from the snapshot.
type NodeNotFoundError struct {
	Endpoint Endpoint
	ID       string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("%s node %q does not exist in the graph", e.Endpoint, e.ID)
}

func (e *NodeNotFoundError) Unwrap() error { return ErrNodeNotFound }

// NoPathError reports a valid query whose endpoints are not connected.
type NoPathError struct {
	Source string
	Target string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no path found from %q to %q", e.Source, e.Target)
}

func (e *NoPathError) Unwrap() error { return ErrNoPath }
