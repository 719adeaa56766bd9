package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agroclim/cropgrid/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cropgrid",
	Short: "Gridded crop yield ingestion and aggregation pipeline",
	Long:  "Ingests gridded crop yield data, resolves each cell to a country, and produces area-weighted national summaries joined with demographic indicators.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
