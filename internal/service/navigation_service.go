package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mukesh1352/navcart/internal/domain"
	"github.com/mukesh1352/navcart/internal/metrics"
	"github.com/mukesh1352/navcart/internal/pathfind"
	"github.com/mukesh1352/navcart/internal/telemetry"
)

const defaultQueryTimeout = 10 * time.Second

// EdgeSource supplies connectivity records on demand.
type EdgeSource interface {
	FetchConnections(ctx context.Context) ([]domain.RawEdge, error)
}

// Pinger is implemented by sources that can report store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouteDefaults fill in route endpoints the caller leaves empty.
type RouteDefaults struct {
	Start    string
	Checkout string
	End      string
}

// Options configures a NavigationService.
type Options struct {
	// QueryTimeout bounds each store fetch. Zero means 10s.
	QueryTimeout time.Duration
	Build        pathfind.BuildOptions
	MaxStops     int
	Defaults     RouteDefaults
	// Tracer overrides the module tracer, mainly for tests.
	Tracer trace.Tracer
}

// NavigationService answers graph and route queries. Every call fetches the
// current records and builds a private snapshot, so results are never stale
// and concurrent calls share nothing mutable.
type NavigationService struct {
	source   EdgeSource
	builder  *pathfind.Builder
	engine   *pathfind.Engine
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
	timeout  time.Duration
	defaults RouteDefaults
}

// NewNavigationService wires a service around source. logger and m may be nil.
func NewNavigationService(source EdgeSource, logger *slog.Logger, m *metrics.Metrics, opts Options) *NavigationService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = defaultQueryTimeout
	}
	if opts.Tracer == nil {
		opts.Tracer = telemetry.Tracer()
	}
	return &NavigationService{
		source:   source,
		builder:  pathfind.NewBuilder(logger, opts.Build),
		engine:   pathfind.NewEngine(pathfind.EngineOptions{MaxStops: opts.MaxStops}),
		metrics:  m,
		logger:   logger,
		tracer:   opts.Tracer,
		timeout:  opts.QueryTimeout,
		defaults: opts.Defaults,
	}
}

// Graph dumps the whole facility graph. On store failure it returns an empty
// view together with a *StoreError.
func (s *NavigationService) Graph(ctx context.Context) (domain.GraphView, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "navigation.Graph")
	defer span.End()

	snap, fetchErr := s.snapshot(ctx)
	view := s.engine.Dump(snap)

	var err error
	if fetchErr != nil {
		err = &StoreError{Op: "graph", Err: fetchErr}
	}
	s.finish(span, "graph", start, err)
	return view, err
}

// ShortestPath returns the cheapest directed route from source to target.
func (s *NavigationService) ShortestPath(ctx context.Context, source, target string) (domain.Route, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "navigation.ShortestPath", trace.WithAttributes(
		attribute.String("route.source", source),
		attribute.String("route.target", target),
	))
	defer span.End()

	if isBlank(source) || isBlank(target) {
		err := fmt.Errorf("%w: source and target are required", ErrInvalidRequest)
		s.finish(span, "shortest_path", start, err)
		return domain.Route{}, err
	}

	snap, fetchErr := s.snapshot(ctx)
	route, err := s.engine.ShortestPath(snap, source, target)
	if fetchErr != nil {
		route, err = domain.Route{}, &StoreError{Op: "shortest path", Err: fetchErr, Degraded: err}
	}
	if err == nil {
		span.SetAttributes(
			attribute.Int("route.hops", len(route.Edges)),
			attribute.Float64("route.cost", route.Cost),
		)
	}
	s.finish(span, "shortest_path", start, err)
	return route, err
}

// PlanRoute plans a multi-stop walk. Empty Start, Checkout and End take the
// configured defaults.
func (s *NavigationService) PlanRoute(ctx context.Context, req domain.TourRequest) (domain.Tour, error) {
	start := time.Now()
	req = s.applyDefaults(req)
	ctx, span := s.tracer.Start(ctx, "navigation.PlanRoute", trace.WithAttributes(
		attribute.String("route.start", req.Start),
		attribute.String("route.end", req.End),
		attribute.Int("route.stops", len(req.Stops)),
	))
	defer span.End()

	if err := validateTour(req); err != nil {
		s.finish(span, "route", start, err)
		return domain.Tour{}, err
	}

	snap, fetchErr := s.snapshot(ctx)
	tour, err := s.engine.PlanTour(snap, req)
	if fetchErr != nil {
		tour, err = domain.Tour{}, &StoreError{Op: "route", Err: fetchErr, Degraded: err}
	}
	if err == nil {
		span.SetAttributes(attribute.Float64("route.cost", tour.Cost))
	}
	s.finish(span, "route", start, err)
	return tour, err
}

// Ready reports whether the store answers a connectivity check.
func (s *NavigationService) Ready(ctx context.Context) error {
	p, ok := s.source.(Pinger)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return &StoreError{Op: "ready", Err: err}
	}
	return nil
}

// snapshot fetches records and builds a fresh snapshot. A failed fetch is not
// retried; it yields the empty snapshot and the fetch error.
func (s *NavigationService) snapshot(ctx context.Context) (*pathfind.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "navigation.fetch")
	defer span.End()

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	begin := time.Now()
	records, err := s.source.FetchConnections(fetchCtx)
	s.metrics.RecordFetch(time.Since(begin))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		s.logger.Error("graph store fetch failed", "error", err)
		return pathfind.Empty(), err
	}

	snap, report := s.builder.Build(records)
	s.metrics.RecordBuild(report, snap.NodeCount(), snap.EdgeCount())
	span.SetAttributes(
		attribute.Int("graph.records", report.Records),
		attribute.Int("graph.skipped", report.Skipped),
		attribute.Int("graph.nodes", snap.NodeCount()),
		attribute.Int("graph.edges", snap.EdgeCount()),
	)
	return snap, nil
}

func (s *NavigationService) finish(span trace.Span, op string, start time.Time, err error) {
	outcome := Outcome(err)
	span.SetAttributes(attribute.String("navigation.outcome", outcome))
	if outcome == OutcomeStoreUnavailable || outcome == OutcomeError {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	s.metrics.RecordQuery(op, outcome, time.Since(start))
	if err != nil {
		s.logger.Debug("navigation query failed", "operation", op, "outcome", outcome, "error", err)
	}
}

func (s *NavigationService) applyDefaults(req domain.TourRequest) domain.TourRequest {
	if isBlank(req.Start) {
		req.Start = s.defaults.Start
	}
	if isBlank(req.Checkout) {
		req.Checkout = s.defaults.Checkout
	}
	if isBlank(req.End) {
		req.End = s.defaults.End
	}
	return req
}

func validateTour(req domain.TourRequest) error {
	if isBlank(req.Start) || isBlank(req.End) {
		return fmt.Errorf("%w: start and end are required", ErrInvalidRequest)
	}
	for i, stop := range req.Stops {
		if isBlank(stop) {
			return fmt.Errorf("%w: stop %d is empty", ErrInvalidRequest, i)
		}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
