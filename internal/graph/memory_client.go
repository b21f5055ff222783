package graph

import (
	"context"
	"maps"
	"sync"
)

// MemoryClient is an in-memory Client used to test repository and service
// logic without a running graph database. Reads return queued results first
// and then a sticky default result.
type MemoryClient struct {
	mu           sync.Mutex
	writeCalls   []ExecutedQuery
	readCalls    []ExecutedQuery
	readQueue    []Result
	readDefault  Result
	readErr      error
	writeErr     error
	connectivity error
	failProbes   int
	probes       int
	closed       bool
}

// ExecutedQuery captures a cypher statement and parameters executed against the graph.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

// NewMemoryClient instantiates an empty in-memory client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithReadResult sets the result returned by every read once the queue is drained.
func (m *MemoryClient) WithReadResult(res Result) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readDefault = res
	return m
}

// WithRecords is WithReadResult for a plain list of records.
func (m *MemoryClient) WithRecords(records ...Record) *MemoryClient {
	return m.WithReadResult(Result{Records: records})
}

// WithReadError makes subsequent reads fail with err. A nil err clears it.
func (m *MemoryClient) WithReadError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
	return m
}

// WithWriteError makes subsequent writes fail with err. A nil err clears it.
func (m *MemoryClient) WithWriteError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return err on every call.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	m.failProbes = -1
	return m
}

// FailConnectivity makes the first n connectivity checks fail with err.
func (m *MemoryClient) FailConnectivity(n int, err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	m.failProbes = n
	return m
}

// PushReadResult queues a result for the next ExecuteRead call.
func (m *MemoryClient) PushReadResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readQueue = append(m.readQueue, res)
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return Result{}, m.writeErr
	}
	m.writeCalls = append(m.writeCalls, ExecutedQuery{Query: cypher, Params: maps.Clone(params)})
	return Result{}, nil
}

func (m *MemoryClient) ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if m.readErr != nil {
		return Result{}, m.readErr
	}
	m.readCalls = append(m.readCalls, ExecutedQuery{Query: cypher, Params: maps.Clone(params)})

	if len(m.readQueue) == 0 {
		return m.readDefault, nil
	}
	res := m.readQueue[0]
	m.readQueue = m.readQueue[1:]
	return res, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.probes++
	if m.connectivity == nil {
		return nil
	}
	if m.failProbes < 0 || m.probes <= m.failProbes {
		return m.connectivity
	}
	return nil
}

func (m *MemoryClient) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Probes returns how many connectivity checks were made.
func (m *MemoryClient) Probes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probes
}

// Closed reports whether Close was called.
func (m *MemoryClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// WriteCalls returns a snapshot of executed write queries.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.writeCalls...)
}

// ReadCalls returns a snapshot of executed read queries.
func (m *MemoryClient) ReadCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.readCalls...)
}
