package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agroclim/cropgrid/internal/demographics"
)

var demoloadCmd = &cobra.Command{
	Use:   "demoload",
	Short: "Load national demographic indicators",
	Long: `Reads wide-format indicator tables (one row per country, one column per
year) and upserts them as country-year records. Each indicator is supplied as
its own file; CSV and XLSX are detected by extension.

Country names are stored as spelled by the source; reconciliation against
boundary names happens at summarize/join time.`,
}

func init() {
	demoloadCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		paths := map[demographics.Indicator]string{}
		for _, ind := range demographics.Indicators {
			p, _ := cmd.Flags().GetString(string(ind))
			if p != "" {
				paths[ind] = p
			}
		}
		if len(paths) == 0 {
			return eris.New("at least one indicator file is required")
		}

		var tables []*demographics.Wide
		for _, ind := range demographics.Indicators {
			path, ok := paths[ind]
			if !ok {
				continue
			}
			w, err := readIndicator(ctx, path, ind)
			if err != nil {
				return eris.Wrapf(err, "demoload: read %s", ind)
			}
			tables = append(tables, w)
			zap.L().Info("indicator loaded",
				zap.String("indicator", string(ind)),
				zap.Int("countries", len(w.Countries())),
			)
		}

		records := demographics.Merge(tables)

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		n, err := st.UpsertDemographics(ctx, records)
		if err != nil {
			return eris.Wrap(err, "demoload: upsert")
		}

		fmt.Printf("Upserted %d country-year rows from %d indicator files\n", n, len(tables))
		return nil
	}
}

func readIndicator(ctx context.Context, path string, ind demographics.Indicator) (*demographics.Wide, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		sheet, _ := demoloadCmd.Flags().GetString("sheet")
		return demographics.ReadWideXLSX(path, sheet, ind)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "open %s", path)
		}
		defer f.Close() //nolint:errcheck
		return demographics.ReadWideCSV(ctx, f, ind)
	}
}

func init() {
	for _, ind := range demographics.Indicators {
		demoloadCmd.Flags().String(string(ind), "", fmt.Sprintf("Wide-format %s table (CSV or XLSX)", ind))
	}
	demoloadCmd.Flags().String("sheet", "", "Sheet name for XLSX files (default: first sheet)")

	rootCmd.AddCommand(demoloadCmd)
}
