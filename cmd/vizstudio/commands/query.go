package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vizstudio/internal/analytics"
	"vizstudio/internal/query"
)

var queryCmd = &cobra.Command{
	Use:   "query [url-or-query-string]",
	Short: "Run a query against a dataset and print the analytics result",
	Long: `Decodes a dashboard URL fragment or bare query string, sanitizes it
against the target dataset, and prints the computed analytics as JSON.

Examples:
  vizstudio query "dataset=sales&groupBy=month&metric=revenue"
  vizstudio query "#/dash?dataset=users&regions=Europe,APAC&limit=5"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		search := ""
		if len(args) == 1 {
			search = args[0]
		}
		if strings.Contains(search, "#") {
			loc := query.ParseHashLocation(search[strings.Index(search, "#"):])
			search = loc.Search
		}

		// Resolve the dataset from the raw string first so decode gets the
		// right fallback query.
		probe := query.Decode(search, query.Query{})
		ds := catalog.Get(probe.DatasetID)

		q := query.Sanitize(query.Decode(search, query.Defaults(ds)), ds)
		result := analytics.Compute(ds, q)

		out, err := json.MarshalIndent(map[string]any{
			"query":  q,
			"result": result,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
