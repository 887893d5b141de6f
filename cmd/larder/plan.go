// Plan command: ask the AI planner for a menu from current stock.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/planner"
	"github.com/mesh-intelligence/larder/pkg/reconcile"
)

var (
	planCustomers int
	planTime      int
	planDishes    int
	planApply     bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Suggest dishes cookable from current stock",
	Long: `Plan asks the configured AI endpoint for a menu constrained to the
current pantry. With --apply, the suggested ingredients are immediately
reconciled against stock.

Example:
  larder plan --customers 4 --time 60
  larder plan --customers 2 --time 30 --apply`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !aiSettings.Configured() {
			return errors.New("no AI endpoint configured; set ai.base_url in config.yaml")
		}

		store, err := attachStore()
		if err != nil {
			return err
		}
		defer store.Detach()

		client := planner.NewClient(planner.Config{
			BaseURL: aiSettings.BaseURL,
			APIKey:  aiSettings.APIKey,
			Model:   aiSettings.TextModel,
		}, store)

		dishes, err := client.Plan(cmd.Context(), planner.PlanRequest{
			Customers:        planCustomers,
			TimeLimitMinutes: planTime,
			Dishes:           planDishes,
		})
		if err != nil {
			return err
		}

		if flagJSON && !planApply {
			return printJSON(dishes)
		}

		for _, dish := range dishes {
			fmt.Printf("%s (%s)\n", dish.Name, dish.EstimatedTime)
			for _, ing := range dish.Ingredients {
				marker := " "
				if !ing.Ref.Known() {
					marker = "?"
				}
				fmt.Printf("  %s %s %s %s\n", marker, formatQty(ing.Quantity), ing.Unit, ing.DisplayName)
			}
		}

		if !planApply {
			return nil
		}

		engine := reconcile.NewEngine(store)
		result, err := engine.Reconcile(planner.Ingredients(dishes))
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(result)
		}
		fmt.Println()
		fmt.Print(result.Report())
		return nil
	},
}

func init() {
	planCmd.Flags().IntVar(&planCustomers, "customers", 2, "number of people to serve")
	planCmd.Flags().IntVar(&planTime, "time", 60, "time limit in minutes")
	planCmd.Flags().IntVar(&planDishes, "dishes", 3, "number of dishes to suggest")
	planCmd.Flags().BoolVar(&planApply, "apply", false, "reconcile the suggested ingredients against stock")
}
