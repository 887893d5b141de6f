// Stock command: show current stock levels.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Show current stock levels",
	Long: `Stock lists every item currently in the pantry. Items whose
quantity reached zero do not appear; absence means out of stock.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := attachStore()
		if err != nil {
			return err
		}
		defer store.Detach()

		entries, err := store.ListStock()
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(entries)
		}

		if len(entries) == 0 {
			fmt.Println("pantry is empty")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ITEM\tQUANTITY\tUNIT\tUPDATED")
		for _, e := range entries {
			item, err := store.GetItem(e.ItemID)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				item.Name, formatQty(e.Quantity), item.Unit,
				e.LastUpdated.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}
