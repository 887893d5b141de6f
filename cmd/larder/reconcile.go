// Reconcile command: apply a planned-ingredient batch against stock.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/planner"
	"github.com/mesh-intelligence/larder/pkg/reconcile"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <plan.json>",
	Short: "Deduct a meal plan's ingredients from stock",
	Long: `Reconcile reads a planned-ingredient array and deducts each fully
coverable ingredient from stock in one transaction. Ingredients the pantry
cannot fully cover are reported as shortages and deduct nothing. Pass "-"
to read the plan from stdin.

The plan is a JSON array of objects with item_id, quantity, unit, and
display_name; item_id -1 marks an ingredient not tracked in the catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		var err error
		if args[0] == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read plan: %w", err)
		}

		planned, err := planner.DecodePlan(raw)
		if err != nil {
			return err
		}

		store, err := attachStore()
		if err != nil {
			return err
		}
		defer store.Detach()

		engine := reconcile.NewEngine(store)
		result, err := engine.Reconcile(planned)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(result)
		}
		fmt.Print(result.Report())
		return nil
	},
}
