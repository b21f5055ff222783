package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mukesh1352/navcart/internal/config"
	"github.com/mukesh1352/navcart/internal/domain"
	"github.com/mukesh1352/navcart/internal/graph"
	"github.com/mukesh1352/navcart/internal/logging"
	"github.com/mukesh1352/navcart/internal/repository"
	"github.com/mukesh1352/navcart/internal/service"
)

type options struct {
	configPath string
	layoutPath string
	workers    int
	batchSize  int
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Load a facility layout file into the graph store",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&opts.layoutPath, "layout", "layouts/demo.yaml", "facility layout YAML to load")
	cmd.Flags().IntVar(&opts.workers, "workers", 4, "number of concurrent writers")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 200, "records per write batch")
	return cmd
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.Logging).With("component", "seed")

	layout, err := domain.LoadLayout(opts.layoutPath)
	if err != nil {
		logger.Error("failed to load layout", "error", err, "path", opts.layoutPath)
		return err
	}
	if len(layout.Aisles) == 0 {
		logger.Error("layout has no aisles", "path", opts.layoutPath)
		return fmt.Errorf("layout %s has no aisles", opts.layoutPath)
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := graph.Connect(ctx, logger, cfg.Graph.ClientOptions(), nil)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		return err
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo, err := repository.New(client, cfg.Graph.Schema())
	if err != nil {
		logger.Error("invalid graph schema", "error", err)
		return err
	}

	start := time.Now()
	logger.Info("loading layout", "path", opts.layoutPath, "aisles", len(layout.Aisles), "connections", len(layout.Connections), "workers", opts.workers)

	report, err := service.NewBulkLoader(repo, opts.workers, opts.batchSize, logger).Load(ctx, layout)
	if err != nil {
		logger.Error("layout load failed", "error", err, "batches", report.Batches)
		return err
	}

	logger.Info("seed complete",
		"duration", time.Since(start).String(),
		"aisles", report.Aisles,
		"connections", report.Connections,
		"batches", report.Batches,
	)
	return nil
}
