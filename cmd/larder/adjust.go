// Manual adjustment commands: buy, use, waste.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/reconcile"
	"github.com/mesh-intelligence/larder/pkg/types"
)

var (
	buyPrice  float64
	buyVendor string
)

var buyCmd = &cobra.Command{
	Use:   "buy <item> <quantity>",
	Short: "Record a purchase and add it to stock",
	Long: `Buy adds stock for an item and appends one PURCHASE movement.
The item is matched by name or ID and must already be in the catalog.

Example:
  larder buy Rice 5 --price 80 --vendor "City Grocers"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdjust(args, types.KindPurchase, buyPrice, buyVendor)
	},
}

var useCmd = &cobra.Command{
	Use:   "use <item> <quantity>",
	Short: "Record consumption and deduct it from stock",
	Long: `Use deducts stock for an item and appends one CONSUME movement.
Deducting the full remaining quantity removes the stock entry.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdjust(args, types.KindConsume, 0, "")
	},
}

var wasteCmd = &cobra.Command{
	Use:   "waste <item> <quantity>",
	Short: "Record spoilage and deduct it from stock",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdjust(args, types.KindWaste, 0, "")
	},
}

func runAdjust(args []string, kind string, price float64, vendor string) error {
	qty, err := parseQuantity(args[1])
	if err != nil {
		return err
	}

	store, err := attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	item, err := resolveItem(store, args[0])
	if err != nil {
		return err
	}

	engine := reconcile.NewEngine(store)
	movement, err := engine.Adjust(reconcile.Adjustment{
		ItemID:    item.ItemID,
		Kind:      kind,
		Quantity:  qty,
		UnitPrice: price,
		Vendor:    vendor,
	})
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(movement)
	}

	remaining := "out of stock"
	if current, err := store.GetStock(item.ItemID); err == nil {
		remaining = formatQty(current) + " " + item.Unit
	}
	fmt.Printf("%s %s %s of %s (now %s)\n",
		verbFor(kind), formatQty(qty), item.Unit, item.Name, remaining)
	return nil
}

func verbFor(kind string) string {
	switch kind {
	case types.KindPurchase:
		return "bought"
	case types.KindWaste:
		return "wasted"
	default:
		return "used"
	}
}

func init() {
	buyCmd.Flags().Float64Var(&buyPrice, "price", 0, "unit price paid")
	buyCmd.Flags().StringVar(&buyVendor, "vendor", "", "vendor name")
}
