package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mukesh1352/navcart/internal/generator"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	cfg := generator.DefaultConfig()
	var (
		output      string
		writeStdout bool
	)

	cmd := &cobra.Command{
		Use:           "layoutgen",
		Short:         "Generate a synthetic supermarket aisle layout",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			gen := generator.New(cfg)
			layout, err := gen.Generate(ctx)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			if writeStdout {
				return generator.EncodeLayout(cmd.OutOrStdout(), layout)
			}
			if err := generator.WriteLayout(layout, output); err != nil {
				return fmt.Errorf("failed to write layout: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d aisles and %d connections into %s (seed %d)\n",
				len(layout.Aisles), len(layout.Connections), output, gen.Config().Seed)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Facility, "facility", cfg.Facility, "facility name recorded in the layout")
	flags.IntVar(&cfg.Rows, "rows", cfg.Rows, "number of aisle rows")
	flags.IntVar(&cfg.Cols, "cols", cfg.Cols, "number of aisles per row")
	flags.Float64Var(&cfg.MinDistance, "min-distance", cfg.MinDistance, "shortest connection distance")
	flags.Float64Var(&cfg.MaxDistance, "max-distance", cfg.MaxDistance, "longest connection distance")
	flags.Float64Var(&cfg.OneWayChance, "one-way-chance", cfg.OneWayChance, "probability that a cross-row link is one-way")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for deterministic generation (0 picks one)")
	flags.StringVar(&output, "output", "layouts/demo.yaml", "file to write the layout to")
	flags.BoolVar(&writeStdout, "stdout", false, "write the layout to stdout instead of a file")
	return cmd
}
