package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agroclim/cropgrid/internal/grid"
	"github.com/agroclim/cropgrid/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest yearly yield grids into the store",
	Long: `Reads per-year NetCDF yield grids, normalizes longitudes to [-180, 180),
computes each cell's ground area, resolves cells to countries via the boundary
shapefile, and upserts the results. Re-running a year range overwrites the
matching rows in place.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fromYear, _ := cmd.Flags().GetInt("from")
		toYear, _ := cmd.Flags().GetInt("to")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		shapefile, _ := cmd.Flags().GetString("shapefile")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		if dataDir == "" {
			dataDir = cfg.Ingest.DataDir
		}
		if concurrency <= 0 {
			concurrency = cfg.Ingest.Concurrency
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		resolver, err := initResolver(shapefile)
		if err != nil {
			return err
		}

		source := ingest.FileSource{
			Dir:     dataDir,
			Pattern: cfg.Ingest.FilePattern,
			Options: grid.NetCDFOptions{
				Var: cfg.Ingest.Variable,
				Lon: cfg.Ingest.LonVar,
				Lat: cfg.Ingest.LatVar,
			},
		}

		run, err := ingest.Run(ctx, st, source, resolver, ingest.Options{
			FromYear:    fromYear,
			ToYear:      toYear,
			Concurrency: concurrency,
		})
		if err != nil {
			if run != nil {
				zap.L().Error("ingest failed", zap.String("run_id", run.ID), zap.Error(err))
			}
			return err
		}

		fmt.Printf("Run %s complete: %d points (%d unresolved, %d missing yield, %d excluded for area)\n",
			run.ID, run.Stats.Points, run.Stats.Unresolved, run.Stats.MissingYield, run.Stats.MissingArea)
		return nil
	},
}

func init() {
	ingestCmd.Flags().Int("from", 0, "First year to ingest (required)")
	ingestCmd.Flags().Int("to", 0, "Last year to ingest (required)")
	ingestCmd.Flags().String("data-dir", "", "Directory containing per-year NetCDF files")
	ingestCmd.Flags().String("shapefile", "", "Administrative boundary shapefile")
	ingestCmd.Flags().Int("concurrency", 0, "Parallel year loads")
	_ = ingestCmd.MarkFlagRequired("from")
	_ = ingestCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(ingestCmd)
}
