package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"vizstudio/internal/query"
	"vizstudio/internal/storage"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List the persisted saved views",
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway := storage.NewGateway(cfg.StatePath, storage.NewMemoryCell())
		out := gateway.Read()
		if out.Err != nil {
			fmt.Printf("warning: %v\n", out.Err)
		}

		if len(out.State.SavedViews) == 0 {
			fmt.Println("No saved views.")
			return nil
		}
		for _, view := range out.State.SavedViews {
			fmt.Printf("%-38s %-20s %s\n", view.ID, view.Name, view.CreatedAt)
			fmt.Printf("  %s\n", query.Encode(view.Query))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewsCmd)
}
