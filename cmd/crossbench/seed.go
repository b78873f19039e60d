package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/crossbench/internal/seed"
	"github.com/spf13/cobra"
)

var seedDataset string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample dataset into every configured backend",
	Long: `Replace the sample table, collection or keys of every configured backend
with the records of a YAML dataset.

Example:
  crossbench seed --config ./configs/crossbench.yaml --dataset ./configs/sample_dataset.yaml`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedDataset, "dataset", "configs/sample_dataset.yaml", "dataset YAML file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := seed.LoadFile(seedDataset)
	if err != nil {
		return err
	}

	// Seeding needs every backend reachable.
	cfg.Connectors.FailFast = true
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := seed.All(ctx, a.registry, ds); err != nil {
		return err
	}
	slog.Info("Seeding complete", "dataset", seedDataset, "records", len(ds.Records))
	return nil
}
