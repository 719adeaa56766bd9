package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agroclim/cropgrid/internal/store"
	"github.com/agroclim/cropgrid/internal/summary"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Report demographic country names that fail to match boundary names",
	Long: `Compares stored demographic country names, after alias canonicalization,
against the set of countries present in the yield data. Names listed here will
silently drop out of joined summaries until an alias is added for them.`,
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

		yields, err := st.ListYields(ctx, store.YieldFilter{})
		if err != nil {
			return eris.Wrap(err, "reconcile: list yields")
		}
		demo, err := st.ListDemographics(ctx)
		if err != nil {
			return eris.Wrap(err, "reconcile: list demographics")
		}

		names := make([]string, 0, len(demo))
		for _, d := range demo {
			names = append(names, d.Country)
		}

		rec, err := initReconciler()
		if err != nil {
			return err
		}

		unmatched := rec.Unmatched(names, summary.Vocabulary(yields))
		if len(unmatched) == 0 {
			fmt.Println("All demographic country names match the yield data.")
			return nil
		}

		fmt.Fprintf(os.Stderr, "%d unmatched demographic country names:\n", len(unmatched))
		for _, name := range unmatched {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}
