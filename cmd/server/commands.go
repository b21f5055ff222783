package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mukesh1352/navcart/internal/domain"
	"github.com/mukesh1352/navcart/internal/server"
)

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "navcart",
		Short:         "In-store navigation API over a graph database",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default ./navcart.yaml if present)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), configPath)
			},
		},
		newGraphCommand(&configPath),
		newPathCommand(&configPath),
		newRouteCommand(&configPath),
	)
	return root
}

func runServe(ctx context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath, os.Stdout, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer a.close()

	router := server.NewRouter(a.logger, server.RouterDependencies{
		API:              server.NewAPIHandlers(a.logger, a.nav),
		Readiness:        a.nav,
		Metrics:          a.metrics,
		AllowedOrigins:   a.cfg.HTTP.AllowedOrigins,
		AllowCredentials: a.cfg.HTTP.AllowCredentials,
	})
	srv := server.New(a.logger, a.cfg.HTTP, router)

	ln, err := net.Listen("tcp", a.cfg.HTTP.Address())
	if err != nil {
		a.logger.Error("failed to listen", "addr", a.cfg.HTTP.Address(), "error", err)
		return err
	}
	if err := srv.Run(ctx, ln); err != nil {
		a.logger.Error("server stopped unexpectedly", "error", err)
		return err
	}
	a.logger.Info("server stopped")
	return nil
}

// oneShot wires the app with logs on stderr, runs fn and prints its result as
// JSON on stdout.
func oneShot(cmd *cobra.Command, configPath string, fn func(context.Context, *app) (any, error)) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, configPath, cmd.ErrOrStderr(), false)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}
	defer a.close()

	result, err := fn(ctx, a)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func newGraphCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print every node and edge in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return oneShot(cmd, *configPath, func(ctx context.Context, a *app) (any, error) {
				view, err := a.nav.Graph(ctx)
				if err != nil {
					return nil, err
				}
				return toGraphOutput(view), nil
			})
		},
	}
}

func newPathCommand(configPath *string) *cobra.Command {
	var source, target string
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the shortest path between two nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return oneShot(cmd, *configPath, func(ctx context.Context, a *app) (any, error) {
				route, err := a.nav.ShortestPath(ctx, source, target)
				if err != nil {
					return nil, err
				}
				return toPathOutput(route), nil
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "source node id")
	cmd.Flags().StringVar(&target, "target", "", "target node id")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newRouteCommand(configPath *string) *cobra.Command {
	var req domain.TourRequest
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Plan a walk through several stops ending at the exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return oneShot(cmd, *configPath, func(ctx context.Context, a *app) (any, error) {
				tour, err := a.nav.PlanRoute(ctx, req)
				if err != nil {
					return nil, err
				}
				return toRouteOutput(tour), nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Start, "start", "", "start node id (default from config)")
	cmd.Flags().StringSliceVar(&req.Stops, "stop", nil, "node id to visit; repeat or comma-separate")
	cmd.Flags().StringVar(&req.Checkout, "checkout", "", "checkout node id (default from config)")
	cmd.Flags().StringVar(&req.End, "end", "", "end node id (default from config)")
	return cmd
}

type edgeOutput struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

type nodeOutput struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type graphOutput struct {
	Nodes []nodeOutput `json:"nodes"`
	Edges []edgeOutput `json:"edges"`
}

type pathOutput struct {
	Path   []string     `json:"path"`
	Labels []string     `json:"labels,omitempty"`
	Edges  []edgeOutput `json:"edges"`
	Cost   float64      `json:"cost"`
}

type routeOutput struct {
	Order []string     `json:"order"`
	Path  []string     `json:"path"`
	Edges []edgeOutput `json:"edges"`
	Cost  float64      `json:"cost"`
}

func toEdgeOutputs(edges []domain.Edge) []edgeOutput {
	out := make([]edgeOutput, 0, len(edges))
	for _, e := range edges {
		out = append(out, edgeOutput(e))
	}
	return out
}

func toGraphOutput(view domain.GraphView) graphOutput {
	nodes := make([]nodeOutput, 0, len(view.Nodes))
	for _, n := range view.Nodes {
		nodes = append(nodes, nodeOutput(n))
	}
	return graphOutput{Nodes: nodes, Edges: toEdgeOutputs(view.Edges)}
}

func toPathOutput(route domain.Route) pathOutput {
	return pathOutput{Path: route.Path, Labels: route.Labels, Edges: toEdgeOutputs(route.Edges), Cost: route.Cost}
}

func toRouteOutput(tour domain.Tour) routeOutput {
	order := tour.Order
	if order == nil {
		order = []string{}
	}
	return routeOutput{Order: order, Path: tour.Path, Edges: toEdgeOutputs(tour.Edges), Cost: tour.Cost}
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
