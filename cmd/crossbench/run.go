package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/crossbench/internal/bench"
	"github.com/DjordjeVuckovic/crossbench/internal/bench/report"
	"github.com/spf13/cobra"
)

var runFlags struct {
	database    string
	query       string
	parallel    bool
	concurrency int
	output      string
	format      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one benchmark and print the report",
	Long: `Translate a query from its source dialect, run it on every configured
backend and print per-backend metrics.

Example:
  crossbench run --database mysql --query "SELECT * FROM sample WHERE id = '42'"
  crossbench run --database mongodb --query '{"name": "alpha"}' --parallel --concurrency 50 --output report.json`,
	RunE: runBenchmark,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.database, "database", "d", "", "source dialect of the query (mysql, postgresql, mongodb, redis, relational, document, keyvalue)")
	f.StringVarP(&runFlags.query, "query", "q", "", "query text in the source dialect")
	f.BoolVar(&runFlags.parallel, "parallel", false, "run concurrent attempts per backend")
	f.IntVar(&runFlags.concurrency, "concurrency", bench.DefaultConcurrency, "attempts per backend in parallel mode")
	f.StringVarP(&runFlags.output, "output", "o", "", "write the JSON report to this path")
	f.StringVar(&runFlags.format, "format", "table", "stdout format: table or json")
	_ = runCmd.MarkFlagRequired("database")
	_ = runCmd.MarkFlagRequired("query")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	if runFlags.format != "table" && runFlags.format != "json" {
		return fmt.Errorf("unknown format %q, expected table or json", runFlags.format)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Failed to release resources", "error", err)
		}
	}()

	req := bench.NewRequest(runFlags.database, runFlags.query, runFlags.parallel, runFlags.concurrency)
	res := a.orchestrator.Run(ctx, req)

	rpt := report.Generate(res, string(a.executor.Sampler().Mode()))
	if runFlags.format == "json" {
		if err := report.EncodeJSON(rpt, cmd.OutOrStdout()); err != nil {
			return err
		}
	} else {
		report.WriteTable(rpt, cmd.OutOrStdout())
	}

	if runFlags.output != "" {
		if err := report.WriteJSON(rpt, runFlags.output); err != nil {
			return fmt.Errorf("write JSON report: %w", err)
		}
		slog.Info("Report written", "path", runFlags.output)
	}

	if res.Failed() {
		return res.Err
	}
	return nil
}
