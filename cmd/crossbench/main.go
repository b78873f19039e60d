// Package main crossbench API
// @title crossbench API
// @version 1.0
// @description Translates a single-equality query across relational, document and key-value backends and benchmarks each one.
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/crossbench/internal/config"
	"github.com/DjordjeVuckovic/crossbench/pkg/config/env"
	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "crossbench",
	Short: "Cross-backend query translation and benchmarking",
	Long: `crossbench translates a single-equality lookup written for one backend
into the native form of mysql, postgresql, mongodb and redis, runs it on each
and reports execution time, CPU and memory deltas per backend.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := env.LoadDotEnv(os.Getenv("ENV"), ".env"); err != nil {
			slog.Info("Failed to load .env, continuing with existing environment variables", "error", err)
		}

		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		slog.SetLogLoggerLevel(c.SlogLevel())
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CROSSBENCH_CONFIG"), "config file path")
	rootCmd.AddCommand(serveCmd, runCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
