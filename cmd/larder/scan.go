// Scan command: book a photographed bill as purchases.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/vision"
	"github.com/mesh-intelligence/larder/pkg/reconcile"
)

var scanCmd = &cobra.Command{
	Use:   "scan <bill-image>",
	Short: "Read a bill photo and book its items as purchases",
	Long: `Scan sends the bill image to the configured vision model, extracts
the purchased items, and books each as one PURCHASE movement. Items the
catalog does not know are registered first, under the name printed on
the bill. The whole bill commits in one transaction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !aiSettings.Configured() {
			return errors.New("no AI endpoint configured; set ai.base_url in config.yaml")
		}

		image, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read bill image: %w", err)
		}

		client := vision.NewClient(vision.Config{
			BaseURL: aiSettings.BaseURL,
			APIKey:  aiSettings.APIKey,
			Model:   aiSettings.VisionModel,
		})
		lines, err := client.ScanBill(cmd.Context(), image)
		if err != nil {
			return err
		}

		store, err := attachStore()
		if err != nil {
			return err
		}
		defer store.Detach()

		intake := make([]reconcile.IntakeLine, 0, len(lines))
		for _, line := range lines {
			intake = append(intake, reconcile.IntakeLine{
				Name:     line.Name,
				Quantity: line.Quantity,
				Unit:     line.Unit,
			})
		}

		engine := reconcile.NewEngine(store)
		movements, err := engine.Intake(intake)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(movements)
		}
		for i, m := range movements {
			fmt.Printf("booked %s %s of %s\n", formatQty(m.Quantity), lines[i].Unit, lines[i].Name)
		}
		return nil
	},
}
