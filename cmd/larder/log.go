// Log command: show the movement log.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/types"
)

var (
	logItem  string
	logKind  string
	logLimit int
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the movement log, newest first",
	Long: `Log lists recorded stock movements. The log is append-only;
every purchase, consumption, and waste leaves exactly one entry.

Example:
  larder log --item Rice --kind CONSUME --limit 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := attachStore()
		if err != nil {
			return err
		}
		defer store.Detach()

		filter := types.MovementFilter{Kind: logKind, Limit: logLimit}
		if logItem != "" {
			item, err := resolveItem(store, logItem)
			if err != nil {
				return err
			}
			filter.ItemID = item.ItemID
		}

		movements, err := store.ListMovements(filter)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(movements)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tKIND\tITEM\tQUANTITY\tSOURCE")
		for _, m := range movements {
			name := fmt.Sprintf("#%d", m.ItemID)
			if item, err := store.GetItem(m.ItemID); err == nil {
				name = item.Name
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				m.RecordedAt.Format("2006-01-02 15:04"), m.Kind, name,
				formatQty(m.Quantity), m.Source)
		}
		return w.Flush()
	},
}

func init() {
	logCmd.Flags().StringVar(&logItem, "item", "", "filter by item name or ID")
	logCmd.Flags().StringVar(&logKind, "kind", "", "filter by kind (PURCHASE, CONSUME, WASTE)")
	logCmd.Flags().IntVar(&logLimit, "limit", 0, "maximum entries to show (0 = all)")
}
