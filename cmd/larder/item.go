// Item commands: manage the catalog.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/types"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage catalog items",
}

var (
	itemAddCategory  string
	itemAddUnit      string
	itemAddShelfLife int
)

var itemAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a new catalog item",
	Long: `Add registers an item in the catalog. Names are unique,
case-insensitively.

Example:
  larder item add "Basmati Rice" --unit kg --category grains --shelf-life 365`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := attachStore()
		if err != nil {
			return err
		}
		defer store.Detach()

		item := &types.CatalogItem{
			Name:          args[0],
			Category:      itemAddCategory,
			Unit:          itemAddUnit,
			ShelfLifeDays: itemAddShelfLife,
		}
		if _, err := store.PutItem(item); err != nil {
			return err
		}

		if flagJSON {
			return printJSON(item)
		}
		fmt.Printf("added %s (id %d)\n", item.Name, item.ItemID)
		return nil
	},
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := attachStore()
		if err != nil {
			return err
		}
		defer store.Detach()

		items, err := store.ListItems()
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(items)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tUNIT\tLAST VENDOR")
		for _, item := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				item.ItemID, item.Name, item.Category, item.Unit, item.LastVendor)
		}
		return w.Flush()
	},
}

func init() {
	itemAddCmd.Flags().StringVar(&itemAddCategory, "category", "", "item category")
	itemAddCmd.Flags().StringVar(&itemAddUnit, "unit", "", "unit of measure (default: unit)")
	itemAddCmd.Flags().IntVar(&itemAddShelfLife, "shelf-life", 0, "shelf life in days")

	itemCmd.AddCommand(itemAddCmd)
	itemCmd.AddCommand(itemListCmd)
}
