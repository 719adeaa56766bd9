package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agroclim/cropgrid/internal/model"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List ingest run history",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.ListIngestRuns(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "runs")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No ingest runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

func formatRunsList(out io.Writer, runs []model.IngestRun) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tYEARS\tPOINTS\tUNRESOLVED\tMISSING\tNO AREA\tSTARTED\tDURATION")
	for _, r := range runs {
		duration := "-"
		if r.CompletedAt != nil {
			duration = r.CompletedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%d-%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, r.Status, r.FromYear, r.ToYear,
			r.Stats.Points, r.Stats.Unresolved, r.Stats.MissingYield, r.Stats.MissingArea,
			r.StartedAt.Format(time.RFC3339), duration,
		)
	}
	w.Flush() //nolint:errcheck
}

func init() {
	runsCmd.Flags().Int("limit", 20, "Maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
