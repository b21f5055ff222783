package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mukesh1352/navcart/internal/config"
	"github.com/mukesh1352/navcart/internal/graph"
	"github.com/mukesh1352/navcart/internal/logging"
	"github.com/mukesh1352/navcart/internal/metrics"
	"github.com/mukesh1352/navcart/internal/pathfind"
	"github.com/mukesh1352/navcart/internal/repository"
	"github.com/mukesh1352/navcart/internal/service"
	"github.com/mukesh1352/navcart/internal/telemetry"
)

var version = "dev"

// app holds the wired components shared by every subcommand.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	client  graph.Client
	metrics *metrics.Metrics
	nav     *service.NavigationService

	shutdownTracing func(context.Context) error
}

// newApp loads configuration and connects to the graph store. Logs go to
// logOut so one-shot commands can keep stdout for their results.
func newApp(ctx context.Context, configPath string, logOut io.Writer, withMetrics bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewWithWriter(cfg.Logging, logOut)

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       cfg.Tracing.Endpoint,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	client, err := graph.Connect(ctx, logger, cfg.Graph.ClientOptions(), nil)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, fmt.Errorf("failed to create graph client: %w", err)
	}

	repo, err := repository.New(client, cfg.Graph.Schema())
	if err != nil {
		_ = client.Close(context.Background())
		_ = shutdownTracing(context.Background())
		return nil, err
	}

	var m *metrics.Metrics
	if withMetrics && cfg.HTTP.MetricsEnabled {
		m = metrics.New()
	}

	nav := service.NewNavigationService(repo, logger, m, service.Options{
		QueryTimeout: cfg.Graph.QueryTimeout,
		Build:        pathfind.BuildOptions{DefaultWeight: &cfg.Graph.DefaultWeight},
		MaxStops:     cfg.Route.MaxStops,
		Defaults: service.RouteDefaults{
			Start:    cfg.Route.DefaultStart,
			Checkout: cfg.Route.DefaultCheckout,
			End:      cfg.Route.DefaultEnd,
		},
	})

	return &app{
		cfg:             cfg,
		logger:          logger,
		client:          client,
		metrics:         m,
		nav:             nav,
		shutdownTracing: shutdownTracing,
	}, nil
}

// close releases the store connection and flushes pending spans.
func (a *app) close() {
	if err := a.client.Close(context.Background()); err != nil {
		a.logger.Warn("closing graph client failed", "error", err)
	}
	if err := a.shutdownTracing(context.Background()); err != nil {
		a.logger.Warn("flushing traces failed", "error", err)
	}
}
