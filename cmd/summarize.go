package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agroclim/cropgrid/internal/model"
	"github.com/agroclim/cropgrid/internal/store"
	"github.com/agroclim/cropgrid/internal/summary"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Produce area-weighted national yield summaries",
	Long: `Aggregates stored grid cells into per-country, per-year summaries: total
production (missing cells count as zero) and the area-weighted mean yield.
With --join, each summary row is matched with its demographic record after
country-name reconciliation.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		fromYear, _ := cmd.Flags().GetInt("from")
		toYear, _ := cmd.Flags().GetInt("to")
		join, _ := cmd.Flags().GetBool("join")
		outPath, _ := cmd.Flags().GetString("out")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		yields, err := st.ListYields(ctx, store.YieldFilter{FromYear: fromYear, ToYear: toYear})
		if err != nil {
			return eris.Wrap(err, "summarize: list yields")
		}
		if len(yields) == 0 {
			fmt.Fprintln(os.Stderr, "No yield data in the selected range.")
			return nil
		}

		summaries := summary.Summarize(yields, summary.YearRange{From: fromYear, To: toYear})

		out := io.Writer(os.Stdout)
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return eris.Wrapf(err, "summarize: create %s", outPath)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		if !join {
			return writeSummaryCSV(out, summaries)
		}

		demo, err := st.ListDemographics(ctx)
		if err != nil {
			return eris.Wrap(err, "summarize: list demographics")
		}
		rec, err := initReconciler()
		if err != nil {
			return err
		}
		joined := summary.Join(summaries, demo, rec)
		return writeJoinedCSV(out, joined)
	},
}

var summaryHeader = []string{"year", "country", "continent", "yield_per_area", "sum_yield", "country_area_ha"}

func summaryRow(s model.SummaryRecord) []string {
	return []string{
		strconv.Itoa(s.Year), s.Country, s.Continent,
		formatFloat(s.YieldPerArea), formatFloat(s.SumYield), formatFloat(s.CountryArea),
	}
}

func writeSummaryCSV(out io.Writer, summaries []model.SummaryRecord) error {
	w := csv.NewWriter(out)
	if err := w.Write(summaryHeader); err != nil {
		return eris.Wrap(err, "summarize: write header")
	}
	for _, s := range summaries {
		if err := w.Write(summaryRow(s)); err != nil {
			return eris.Wrap(err, "summarize: write row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "summarize: flush")
}

func writeJoinedCSV(out io.Writer, joined []model.JoinedRecord) error {
	w := csv.NewWriter(out)
	header := append(append([]string{}, summaryHeader...),
		"population", "gdp", "income", "export", "import")
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "summarize: write header")
	}
	for _, j := range joined {
		row := append(summaryRow(j.SummaryRecord),
			formatOptional(j.Demographics.Population),
			formatOptional(j.Demographics.GDP),
			formatOptional(j.Demographics.Income),
			formatOptional(j.Demographics.Export),
			formatOptional(j.Demographics.Import),
		)
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "summarize: write row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "summarize: flush")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func init() {
	summarizeCmd.Flags().Int("from", 0, "First year to include (0 = open)")
	summarizeCmd.Flags().Int("to", 0, "Last year to include (0 = open)")
	summarizeCmd.Flags().Bool("join", false, "Join summaries with demographic indicators")
	summarizeCmd.Flags().String("out", "", "Output CSV path (default: stdout)")

	rootCmd.AddCommand(summarizeCmd)
}
