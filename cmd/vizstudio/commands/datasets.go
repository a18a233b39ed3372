package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the datasets available in the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		for _, ds := range catalog.List() {
			fmt.Printf("%-12s %-22s rows=%-5d range=%s..%s\n",
				ds.ID, ds.Name, len(ds.Rows), ds.MinDate, ds.MaxDate)
			for _, m := range ds.Metrics {
				marker := " "
				if m.Key == ds.DefaultMetric {
					marker = "*"
				}
				agg := m.Aggregation
				if agg == "" {
					agg = "sum"
				}
				fmt.Printf("  %s %-16s %-14s %s/%s\n", marker, m.Key, m.Label, m.Format, agg)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}
